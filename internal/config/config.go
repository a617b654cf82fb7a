// Package config provides functionality for loading environment variables and
// building the application configuration.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/gitveg/docextract/internal/logging"
)

var (
	once sync.Once
	// Logger reports configuration loading problems before the application
	// logger exists.
	Logger = logrus.New()
)

// LoadEnv loads environment variables from .env file if it exists
func LoadEnv() {
	once.Do(func() {
		// Try to find .env file in current directory
		envFile := ".env"
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			// Try to find .env in parent directory (project root)
			envFile = filepath.Join("..", ".env")
			if _, err := os.Stat(envFile); os.IsNotExist(err) {
				Logger.Debug("No .env file found, using environment variables")
				return
			}
		}

		if err := godotenv.Load(envFile); err != nil {
			Logger.Warnf("Error loading .env file: %v", err)
			return
		}
		Logger.Debugf("Loaded environment variables from %s", envFile)
	})
}

// GetEnv retrieves an environment variable with a fallback value if unset or empty
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// ConfigureLoggingFromConfig builds the application logger from the Config
// struct. LOG_LEVEL and LOG_FORMAT override the configured values when set.
func ConfigureLoggingFromConfig(config *Config) logging.Logger {
	level := GetEnv("LOG_LEVEL", config.Log.Level)
	format := GetEnv("LOG_FORMAT", config.Log.Format)
	return logging.NewLogrusAdapter(strings.ToLower(level), strings.ToLower(format))
}
