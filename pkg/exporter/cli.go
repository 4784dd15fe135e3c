package exporter

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/geotracker/geotracker/pkg/config"
	"github.com/geotracker/geotracker/pkg/consumer"
	"github.com/geotracker/geotracker/pkg/database"
	"github.com/geotracker/geotracker/pkg/mainloop"
	"github.com/geotracker/geotracker/pkg/notify"
	"github.com/geotracker/geotracker/pkg/redis_client"
	"github.com/geotracker/geotracker/pkg/util"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "exporter",
		Usage: "Writes GPX files for queued export requests",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run export queue consumers",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "consumers",
						Value: 2,
						Usage: "number of queue consumers",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Value: 10,
						Usage: "deliveries handed to a consumer at once",
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

					ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
					defer stop()

					exporter, err := newExporter(ctx, cfg, database.NewActivityCache(database.NewMongoStore(database.MongoGlobalInstance.Database), redis_client.Client))
					if err != nil {
						return err
					}

					loop := mainloop.New()
					runner := NewRunner(exporter, loop, newNotifier(ctx))

					redisConsumer := &consumer.RedisConsumer{
						QueueName:       consumer.ExportQueueName,
						NumberConsumers: c.Int("consumers"),
						BatchSize:       c.Int("batch-size"),
						Timeout:         2 * time.Second,
						Consumer:        &consumer.ExportBatchConsumer{Runner: runner},
					}

					go func() {
						if err := redisConsumer.Setup(); err != nil {
							log.Error().Err(err).Msg("Export consumer stopped")
							stop()
						}
					}()

					loop.Run(ctx)

					<-redis_client.QueueConnection.StopAllConsuming()

					// Keep delivering notifications until in-flight exports finish
					drainCtx, drained := context.WithCancel(context.Background())
					go func() {
						runner.Wait()
						drained()
					}()
					loop.Run(drainCtx)
					loop.RunPending()
					loop.Stop()

					return nil
				},
			},
		},
	}
}

func RegisterExportCLI() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export a single activity to GPX",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "activity",
				Usage:    "Activity identifier",
				Required: true,
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

			exporter, err := newExporter(c.Context, cfg, database.NewMongoStore(database.MongoGlobalInstance.Database))
			if err != nil {
				return err
			}

			result, err := exporter.Export(c.Context, c.String("activity"))
			if err != nil {
				return err
			}

			if result.Status == StatusNoData {
				log.Info().Str("activity", result.ActivityID).Msg("No data to export")
				return nil
			}

			log.Info().Str("activity", result.ActivityID).Str("path", result.Path).Str("object", result.UploadedObject).Msg("Export complete")

			return nil
		},
	}
}

func newExporter(ctx context.Context, cfg config.Config, store database.Store) (*Exporter, error) {
	location, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	exporter := &Exporter{
		Store:           store,
		OutputDirectory: cfg.ExportDirectory,
		Location:        location,
	}

	if cfg.CloudBucketName != "" {
		uploader, err := NewGCSUploader(ctx, cfg.CloudBucketName)
		if err != nil {
			return nil, err
		}
		exporter.Uploader = uploader
	}

	return exporter, nil
}

func newNotifier(ctx context.Context) notify.Notifier {
	notifiers := notify.Multi{notify.LogNotifier{}}

	serviceAccount := util.GetEnvironmentVariables()["GEOTRACKER_FIREBASE_SERVICE_ACCOUNT"]
	if serviceAccount == "" {
		return notifiers
	}

	pushNotifier, err := notify.NewPushNotifier(ctx, serviceAccount)
	if err != nil {
		log.Error().Err(err).Msg("Failed to setup push notifications")
		return notifiers
	}

	return append(notifiers, pushNotifier)
}
