// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/kwehner/pup-planner/pkg/constants"
)

// Configuration holds all configuration for pup-planner.
type Configuration struct {
	Server   ServerConfig   `yaml:"server,omitempty"`
	Database DatabaseConfig `yaml:"database,omitempty"`
	FoodData FoodDataConfig `yaml:"foodData,omitempty"`
	Logging  LoggingConfig  `yaml:"logging,omitempty"`
}

// ServerConfig holds the HTTP listener options.
type ServerConfig struct {
	Address string `yaml:"address,omitempty"`
}

// DatabaseConfig holds the sqlite storage options.
type DatabaseConfig struct {
	Path string `yaml:"path,omitempty"`
	Seed bool   `yaml:"seed,omitempty"` // load reference and sample data on startup
}

// FoodDataConfig holds the USDA FoodData Central client options. The API key
// may also arrive through the USDA_API_KEY environment variable.
type FoodDataConfig struct {
	BaseURL string `yaml:"baseUrl,omitempty"`
	APIKey  string `yaml:"apiKey,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there, filling unset fields with defaults.
func LoadConfiguration(configPath string) (*Configuration, error) {
	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()

	viper.SetConfigType("yml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	err := viper.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	configuration.applyDefaults()

	if key := viper.GetString("USDA_API_KEY"); key != "" {
		configuration.FoodData.APIKey = key
	}

	return &configuration, nil
}

func (c *Configuration) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = constants.DefaultServerAddress
	}
	if c.Database.Path == "" {
		c.Database.Path = constants.DefaultDatabaseFile
	}
	if c.FoodData.BaseURL == "" {
		c.FoodData.BaseURL = constants.DefaultFoodDataBaseURL
	}
}
