package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the bot
type Config struct {
	// Discord
	DiscordToken string

	// Persistence API
	APIBaseURL string

	// Commands
	DefaultPrefix string

	// Reminder sweep
	SweepIntervalSeconds int
	FallbackTimezone     string

	// Logging
	LogLevel string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		DiscordToken:     os.Getenv("DISCORD_BOT_TOKEN"),
		APIBaseURL:       os.Getenv("API_URL"),
		DefaultPrefix:    getEnvOrDefault("DEFAULT_PREFIX", "!"),
		FallbackTimezone: getEnvOrDefault("FALLBACK_TIMEZONE", "Europe/Brussels"),
		LogLevel:         getEnvOrDefault("LOG_LEVEL", "info"),
	}

	// Parse sweep interval
	sweepStr := getEnvOrDefault("SWEEP_INTERVAL_SECONDS", "30")
	sweep, err := strconv.Atoi(sweepStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SWEEP_INTERVAL_SECONDS: %w", err)
	}
	cfg.SweepIntervalSeconds = sweep

	// Validate required fields
	if cfg.DiscordToken == "" {
		return nil, fmt.Errorf("DISCORD_BOT_TOKEN is required")
	}
	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("API_URL is required")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
