package main

import (
	"os"
	"time"

	"github.com/geotracker/geotracker/pkg/api"
	"github.com/geotracker/geotracker/pkg/dbwatch"
	"github.com/geotracker/geotracker/pkg/direction"
	"github.com/geotracker/geotracker/pkg/exporter"
	"github.com/geotracker/geotracker/pkg/importer"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func main() {
	if os.Getenv("GEOTRACKER_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("GEOTRACKER_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "geotracker",
		Description: "Activity export and route annotation services for GeoTracker",

		Commands: []*cli.Command{
			api.RegisterCLI(),
			exporter.RegisterCLI(),
			exporter.RegisterExportCLI(),
			importer.RegisterCLI(),
			direction.RegisterCLI(),
			dbwatch.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
