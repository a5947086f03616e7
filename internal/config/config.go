package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"routeboard/internal/errors"
	"routeboard/internal/pipeline"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Rules    RulesConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL string
}

// StorageConfig selects where the accumulated record set is cached.
// "postgres" uses the database; "local" writes a JSON snapshot file.
type StorageConfig struct {
	Backend      string
	SnapshotPath string
}

// RulesConfig points at the optional classification rules file.
type RulesConfig struct {
	File string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Storage: StorageConfig{
			Backend:      getEnvOrDefault("STORAGE_BACKEND", "local"),
			SnapshotPath: getEnvOrDefault("SNAPSHOT_PATH", "data/deliveries.json"),
		},
		Rules: RulesConfig{
			File: os.Getenv("RULES_FILE"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	switch config.Storage.Backend {
	case "local":
		if config.Storage.SnapshotPath == "" {
			return errors.ConfigInvalid("SNAPSHOT_PATH is required for local storage")
		}
	case "postgres":
		if config.Database.URL == "" {
			return errors.ConfigInvalid("DATABASE_URL is required for postgres storage")
		}
	default:
		return errors.ConfigInvalid("STORAGE_BACKEND must be \"local\" or \"postgres\"")
	}
	return nil
}

// LoadRules returns the classification rules: the compiled-in defaults,
// overlaid with the YAML rules file when one is configured. Lists present in
// the file replace the defaults wholesale so synthetic rule sets stay exact.
func (c *Config) LoadRules() (pipeline.Rules, error) {
	rules := pipeline.DefaultRules()
	if c.Rules.File == "" {
		return rules, nil
	}

	data, err := os.ReadFile(c.Rules.File)
	if err != nil {
		return rules, errors.Wrapf(err, "failed to read rules file %s", c.Rules.File)
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return rules, errors.Wrapf(err, "failed to parse rules file %s", c.Rules.File)
	}

	log.Printf("[Config] Loaded classification rules from %s (%d brokers, %d branch codes)",
		c.Rules.File, len(rules.BrokerDrivers), len(rules.BranchRegions))
	return rules, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
