package config

import (
	"os"
	"strconv"

	"genml/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Data     DataConfig
	Seed     int64
}

// DatabaseConfig holds database connection settings. The URL is optional:
// without it, results are not persisted.
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// DataConfig holds data source settings for file-backed estimation runs
type DataConfig struct {
	File             string
	Sheet            string
	OutcomeColumn    string
	TreatmentColumn  string
	PropensityColumn string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("SERVER_PORT", "8080"),
		},
		Data: DataConfig{
			File:             os.Getenv("GENML_DATA_FILE"),
			Sheet:            os.Getenv("GENML_DATA_SHEET"),
			OutcomeColumn:    os.Getenv("GENML_OUTCOME_COLUMN"),
			TreatmentColumn:  os.Getenv("GENML_TREATMENT_COLUMN"),
			PropensityColumn: os.Getenv("GENML_PROPENSITY_COLUMN"),
		},
		Seed: 42,
	}

	if seedStr := os.Getenv("GENML_SEED"); seedStr != "" {
		seed, err := strconv.ParseInt(seedStr, 10, 64)
		if err != nil {
			return nil, errors.ConfigInvalid("GENML_SEED must be an integer")
		}
		config.Seed = seed
	}

	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return nil, errors.ConfigInvalid("SERVER_PORT must be numeric")
	}

	return config, nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
