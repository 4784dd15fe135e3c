package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/geotracker/geotracker/pkg/util"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type Config struct {
	MongoConnection string `yaml:"mongodb_connection"`
	MongoDatabase   string `yaml:"mongodb_database"`

	// Shared, user visible directory that exported documents are written into
	ExportDirectory string `yaml:"export_directory"`
	// Zone used for track point timestamps, empty means the host zone
	TimeZone string `yaml:"timezone"`

	CloudBucketName string `yaml:"cloud_bucket"`

	DisplayDensity float64 `yaml:"display_density"`
}

// MaxDisplayDensity bounds the glyph raster size, 4 covers the densest phone screens
const MaxDisplayDensity = 4.0

var defaultConfig = Config{
	MongoConnection: "mongodb://localhost:27017/",
	MongoDatabase:   "geotracker",
	ExportDirectory: "exports",
	DisplayDensity:  1,
}

// Load returns the defaults, overridden by GEOTRACKER_CONFIG_FILE and then by environment variables
func Load() (Config, error) {
	return load(util.GetEnvironmentVariables())
}

func load(env map[string]string) (Config, error) {
	config := defaultConfig

	if path := env["GEOTRACKER_CONFIG_FILE"]; path != "" {
		log.Debug().Str("path", path).Msg("Loading config file")

		configYaml, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}

		decoder := yaml.NewDecoder(bytes.NewReader(configYaml))
		decoder.KnownFields(true)
		if err := decoder.Decode(&config); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if env["GEOTRACKER_MONGODB_CONNECTION"] != "" {
		config.MongoConnection = env["GEOTRACKER_MONGODB_CONNECTION"]
	}
	if env["GEOTRACKER_MONGODB_DATABASE"] != "" {
		config.MongoDatabase = env["GEOTRACKER_MONGODB_DATABASE"]
	}
	if env["GEOTRACKER_EXPORT_DIRECTORY"] != "" {
		config.ExportDirectory = env["GEOTRACKER_EXPORT_DIRECTORY"]
	}
	if env["GEOTRACKER_TIMEZONE"] != "" {
		config.TimeZone = env["GEOTRACKER_TIMEZONE"]
	}
	if env["GEOTRACKER_CLOUD_BUCKET"] != "" {
		config.CloudBucketName = env["GEOTRACKER_CLOUD_BUCKET"]
	}
	config.DisplayDensity = util.GetEnvironmentFloat(env, "GEOTRACKER_DISPLAY_DENSITY", config.DisplayDensity)

	if config.DisplayDensity <= 0 || config.DisplayDensity > MaxDisplayDensity {
		return Config{}, fmt.Errorf("display density must be in (0, %v], got %v", MaxDisplayDensity, config.DisplayDensity)
	}

	return config, nil
}

// Location resolves TimeZone, falling back to time.Local
func (c Config) Location() (*time.Location, error) {
	if c.TimeZone == "" {
		return time.Local, nil
	}

	return time.LoadLocation(c.TimeZone)
}
