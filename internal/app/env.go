package app

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/shrimpsizemoose/trekker/logger"
)

const (
	EnvDatabaseDSN = "CHECKMARK_DATABASE_DSN"
	EnvRedisURL    = "CHECKMARK_REDIS_URL"
)

// LoadEnv reads .env style files into the process environment. Variables
// that are already set keep their value.
func LoadEnv(paths ...string) {
	if err := godotenv.Load(paths...); err != nil {
		logger.Debug.Printf("No .env file loaded, using system environment: %v", err)
		return
	}
	logger.Debug.Println("Loaded .env file")
}

// applyEnv lets connection secrets live outside the config file.
func (c *Config) applyEnv() {
	if dsn := os.Getenv(EnvDatabaseDSN); dsn != "" {
		c.Database.DSN = dsn
	}
	if url := os.Getenv(EnvRedisURL); url != "" {
		c.Preferences.RedisURL = url
	}
}
