package dbwatch

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/geotracker/geotracker/pkg/config"
	"github.com/geotracker/geotracker/pkg/database"
	"github.com/geotracker/geotracker/pkg/redis_client"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "dbwatch",
		Usage: "Watches the database and keeps caches fresh",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run activity change watcher",
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

					ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
					defer stop()

					log.Info().Msg("Starting dbwatch server")

					watch := &ActivitiesWatch{
						Collection: database.GetCollection(database.ActivitiesCollection),
						Cache:      database.NewActivityCache(database.NewMongoStore(database.MongoGlobalInstance.Database), redis_client.Client),
					}
					watch.Run(ctx)

					return nil
				},
			},
		},
	}
}
