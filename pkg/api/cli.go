package api

import (
	"github.com/geotracker/geotracker/pkg/config"
	"github.com/geotracker/geotracker/pkg/consumer"
	"github.com/geotracker/geotracker/pkg/database"
	"github.com/geotracker/geotracker/pkg/redis_client"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the core web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Value: ":8080",
						Usage: "listen target for the web server",
					},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load()
					if err != nil {
						return err
					}

					if err := database.Connect(cfg); err != nil {
						return err
					}
					defer database.Disconnect()

					if err := redis_client.Connect(); err != nil {
						return err
					}

					exportQueue, err := redis_client.QueueConnection.OpenQueue(consumer.ExportQueueName)
					if err != nil {
						return err
					}

					server := &Server{
						Store:          database.NewActivityCache(database.NewMongoStore(database.MongoGlobalInstance.Database), redis_client.Client),
						ExportQueue:    exportQueue,
						DisplayDensity: cfg.DisplayDensity,
					}

					return server.Listen(c.String("listen"))
				},
			},
		},
	}
}
