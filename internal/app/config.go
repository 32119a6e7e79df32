package app

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/shrimpsizemoose/trekker/logger"
)

const (
	PreferencesSQL   = "sql"
	PreferencesRedis = "redis"
)

type HeaderConfig struct {
	Name  string `toml:"name" validate:"required"`
	Value string `toml:"value"`
}

type Config struct {
	Server struct {
		Port string `toml:"port"`
	} `toml:"server"`

	API struct {
		RequiredHeaders []HeaderConfig `toml:"required_headers" validate:"dive"`
	} `toml:"api"`

	Database struct {
		DSN           string `toml:"dsn" validate:"required"`
		MigrationsDir string `toml:"migrations_dir"`
	} `toml:"database"`

	Preferences struct {
		Backend     string `toml:"backend" validate:"omitempty,oneof=sql redis"`
		RedisURL    string `toml:"redis_url" validate:"required_if=Backend redis"`
		KeyTemplate string `toml:"key_template"`
	} `toml:"preferences"`

	Display struct {
		Timezone   string `toml:"timezone"`
		DateFormat string `toml:"date_format"`
	} `toml:"display"`

	Export struct {
		OutputDir string `toml:"output_dir"`
	} `toml:"export"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	return ParseConfig(path, data)
}

// ParseConfig decodes TOML content and fills in defaults.
func ParseConfig(path string, data []byte) (*Config, error) {
	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf(
			"error reading config file %s\n> Error: %w\n> Content:\n%s",
			path,
			err,
			string(data),
		)
	}

	if config.Server.Port == "" {
		return nil, fmt.Errorf("Server port is not specified in config, use a value like :9999")
	}

	config.applyEnv()

	if config.Database.MigrationsDir == "" {
		config.Database.MigrationsDir = "./migrations"
	}
	if config.Preferences.Backend == "" {
		config.Preferences.Backend = PreferencesSQL
	}
	if config.Export.OutputDir == "" {
		config.Export.OutputDir = "./export"
	}

	if err := validator.New().Struct(&config); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	if _, err := config.Location(); err != nil {
		return nil, err
	}

	logger.Debug.Printf("Loaded config from %s: preferences=%s, export=%s",
		path, config.Preferences.Backend, config.Export.OutputDir)

	return &config, nil
}

// Location resolves the display timezone, UTC when none is configured.
func (c *Config) Location() (*time.Location, error) {
	if c.Display.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Display.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown display timezone %q: %w", c.Display.Timezone, err)
	}
	return loc, nil
}
