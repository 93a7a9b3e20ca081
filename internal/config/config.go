package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Slack configuration
	SlackBotToken      string // Required: Slack bot user OAuth token (xoxb-)
	SlackAppToken      string // Required: Slack app-level token for Socket Mode (xapp-)
	SlackSigningSecret string // Optional: enables request verification on the HTTP events endpoint

	// HTTP server port
	Port string // Optional: defaults to 8080

	// Log level
	LogLevel string // Optional: defaults to info
}

var (
	// instance holds the singleton config instance
	instance *Config
)

// Get returns the singleton config instance
func Get() *Config {
	if instance == nil {
		panic("config not initialized")
	}
	return instance
}

// Load creates a new Config instance from environment variables
func Load() (*Config, error) {
	cfg := &Config{}

	// Load required values
	requiredVars := map[string]*string{
		"SLACK_BOT_TOKEN": &cfg.SlackBotToken,
		"SLACK_APP_TOKEN": &cfg.SlackAppToken,
	}

	var missingVars []string
	for env, ptr := range requiredVars {
		*ptr = os.Getenv(env)
		if *ptr == "" {
			missingVars = append(missingVars, env)
		}
	}

	if len(missingVars) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missingVars, ", "))
	}

	cfg.SlackSigningSecret = os.Getenv("SLACK_SIGNING_SECRET")

	cfg.Port = os.Getenv("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	cfg.LogLevel = os.Getenv("LOG_LEVEL")
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	// Store the instance
	instance = cfg

	return cfg, nil
}
