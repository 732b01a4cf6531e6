// This file defines the configuration structure for the application.
package config

import (
	// use Viper for loading the config.yml file.
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration settings for the application.
// It maps directly to the structure of config.yml.
type Config struct {
	Port     int `mapstructure:"port"`
	Database struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`
	Log struct {
		// When set, logs are written to this file with rotation instead of stdout.
		Path string `mapstructure:"path"`
	} `mapstructure:"log"`
	Catalog struct {
		BaseURL        string  `mapstructure:"base_url"`
		TimeoutSeconds int     `mapstructure:"timeout_seconds"`
		MinScore       float64 `mapstructure:"min_score"`
		MaxRetries     int     `mapstructure:"max_retries"`
	} `mapstructure:"catalog"`
	Refresh struct {
		// Number of concurrent catalog fetches during the refresh job.
		Workers int `mapstructure:"workers"`
	} `mapstructure:"refresh"`
	Digest struct {
		// Local time of day ("15:04") at which the daily pipeline runs.
		// Empty disables the schedule; jobs can still be triggered via the API.
		At string `mapstructure:"at"`
	} `mapstructure:"digest"`
	Slack struct {
		BotToken string `mapstructure:"bot_token"`
		APIURL   string `mapstructure:"api_url"`
	} `mapstructure:"slack"`
}

// Load reads configuration from a file named "config.yml" in the
// current directory and unmarshals it into a Config struct.
func Load() (*Config, error) {
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yml")    // or "yaml"
	viper.AddConfigPath(".")      // looking for config in the current directory

	// --- Environment Variable Overrides ---
	// This tells Viper to look for environment variables with a "TELLY_" prefix.
	// e.g., TELLY_DATABASE_PATH will override the `database.path` key.
	viper.SetEnvPrefix("TELLY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set default values
	viper.SetDefault("port", 8080)
	viper.SetDefault("database.path", "./telly.db")
	viper.SetDefault("log.path", "")
	viper.SetDefault("catalog.base_url", "https://api.tvmaze.com")
	viper.SetDefault("catalog.timeout_seconds", 15)
	viper.SetDefault("catalog.min_score", 3.0)
	viper.SetDefault("catalog.max_retries", 3)
	viper.SetDefault("refresh.workers", 4)
	viper.SetDefault("digest.at", "08:00")
	viper.SetDefault("slack.api_url", "https://slack.com/api")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; ignore error and use defaults
		} else {
			// Config file was found but another error was produced
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
