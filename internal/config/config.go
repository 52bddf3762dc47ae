package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the process-level configuration, loaded once at startup. The
// mutable sheet endpoint lives in Settings, not here.
type Config struct {
	ServerPort   int
	GeminiAPIKey string
	GeminiModel  string
	SettingsFile string
	PollInterval time.Duration
}

// Load reads .env if present and builds the configuration from the
// environment with working defaults.
func Load() *Config {
	// Missing .env is fine; the environment may carry everything.
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:   8081,
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		SettingsFile: getEnvOrDefault("SETTINGS_FILE", "settings.json"),
		PollInterval: 15 * time.Second,
	}

	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.ServerPort = p
		}
	}
	if interval := os.Getenv("POLL_INTERVAL"); interval != "" {
		if d, err := time.ParseDuration(interval); err == nil && d > 0 {
			cfg.PollInterval = d
		}
	}
	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
