package direction

import (
	"os"

	"github.com/geotracker/geotracker/pkg/config"
	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "markers",
		Usage: "Print the direction markers for a GPX route",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "gpx",
				Usage:    "GPX file holding the route",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "glyph-output",
				Usage: "write the marker glyph as PNG to this path",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			points, err := LoadRoute(c.String("gpx"))
			if err != nil {
				return err
			}

			var overlays OverlayCollection
			markers := NewSampler().Annotate(&overlays, points, cfg.DisplayDensity)

			log.Info().Int("points", len(points)).Int("markers", len(markers)).Msg("Sampled route")
			pretty.Println(overlays.Overlays())

			if c.String("glyph-output") == "" {
				return nil
			}

			file, err := os.Create(c.String("glyph-output"))
			if err != nil {
				return err
			}
			defer file.Close()

			return NewGlyph(cfg.DisplayDensity).EncodePNG(file)
		},
	}
}
