package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/abdulachik/twitpost/internal/oauth"
)

// Config holds all application configuration.
type Config struct {
	// Twitter OAuth 1.0a credentials
	ConsumerKey    string
	ConsumerSecret string
	AccessToken    string
	AccessSecret   string

	// Post history
	HistoryPath string

	// HTTP
	HTTPTimeout time.Duration

	// Logging
	LogLevel string
}

// Load reads configuration from environment variables.
// It automatically loads .env file if present.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		ConsumerKey:    getEnv("TWITTER_CONSUMER_KEY", ""),
		ConsumerSecret: getEnv("TWITTER_CONSUMER_SECRET", ""),
		AccessToken:    getEnv("TWITTER_ACCESS_TOKEN", ""),
		AccessSecret:   getEnv("TWITTER_ACCESS_SECRET", ""),
		HistoryPath:    getEnv("HISTORY_DB_PATH", "data/twitpost.db"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	var err error
	cfg.HTTPTimeout, err = time.ParseDuration(getEnv("HTTP_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// Credentials assembles the OAuth credential set. The non-empty checks
// live in oauth.NewCredentials; this is the only validation path, with
// the environment hint added for CLI users.
func (c *Config) Credentials() (oauth.Credentials, error) {
	creds, err := oauth.NewCredentials(c.ConsumerKey, c.ConsumerSecret, c.AccessToken, c.AccessSecret)
	if err != nil {
		return oauth.Credentials{}, fmt.Errorf("%w (set the TWITTER_CONSUMER_KEY/SECRET and TWITTER_ACCESS_TOKEN/SECRET environment variables)", err)
	}
	return creds, nil
}

// getEnv returns the environment variable value or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
