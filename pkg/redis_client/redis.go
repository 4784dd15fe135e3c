package redis_client

import (
	"context"
	"fmt"
	"strconv"

	"github.com/adjust/rmq/v5"
	"github.com/geotracker/geotracker/pkg/util"
	"github.com/redis/go-redis/v9"
)

var Client *redis.Client
var QueueConnection rmq.Connection

const defaultConnectionAddress = "localhost:6379"
const defaultConnectionPassword = ""
const defaultDatabase = 0

const queueConnectionTag = "geotracker"

func Connect() error {
	address := defaultConnectionAddress
	password := defaultConnectionPassword
	database := defaultDatabase

	env := util.GetEnvironmentVariables()

	if env["GEOTRACKER_REDIS_ADDRESS"] != "" {
		address = env["GEOTRACKER_REDIS_ADDRESS"]
	}

	if env["GEOTRACKER_REDIS_PASSWORD"] != "" {
		password = env["GEOTRACKER_REDIS_PASSWORD"]
	}

	if env["GEOTRACKER_REDIS_DATABASE"] != "" {
		if n, err := strconv.Atoi(env["GEOTRACKER_REDIS_DATABASE"]); err == nil {
			database = n
		} else {
			return fmt.Errorf("invalid GEOTRACKER_REDIS_DATABASE: %w", err)
		}
	}

	return ConnectWithOptions(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       database,
	})
}

func ConnectWithOptions(options *redis.Options) error {
	Client = redis.NewClient(options)

	if err := Client.Ping(context.Background()).Err(); err != nil {
		return err
	}

	var err error
	QueueConnection, err = rmq.OpenConnectionWithRedisClient(queueConnectionTag, Client, nil)
	if err != nil {
		return err
	}

	return nil
}
