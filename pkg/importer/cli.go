package importer

import (
	"context"
	"os"

	"github.com/geotracker/geotracker/pkg/config"
	"github.com/geotracker/geotracker/pkg/database"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import a GPX recording as an activity",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "gpx",
				Usage:    "GPX file to import",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "activity",
				Usage:    "Identifier for the new activity",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "name",
				Usage: "Override the activity name found in the file",
			},
		},
		Action: func(c *cli.Context) error {
			data, err := os.ReadFile(c.String("gpx"))
			if err != nil {
				return err
			}

			recording, err := FromGPX(data, c.String("activity"))
			if err != nil {
				return err
			}
			if c.String("name") != "" {
				recording.Activity.Name = c.String("name")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := database.Connect(cfg); err != nil {
				return err
			}
			defer database.Disconnect()

			store := database.NewMongoStore(database.MongoGlobalInstance.Database)
			if err := store.SaveActivity(context.Background(), recording.Activity, recording.Locations, recording.Metrics); err != nil {
				return err
			}

			log.Info().
				Str("activity", recording.Activity.PrimaryIdentifier).
				Str("name", recording.Activity.Name).
				Int("locations", len(recording.Locations)).
				Int("metrics", len(recording.Metrics)).
				Msg("Imported activity")

			return nil
		},
	}
}
