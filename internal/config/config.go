// ABOUTME: Configuration loader for the medquery CLI
// ABOUTME: Loads settings from .env files and environment variables with defaults

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAPIURL is used when no API URL is configured anywhere
const DefaultAPIURL = "http://localhost:8000"

// Config holds client configuration
type Config struct {
	APIURL      string        // MedQuery backend base URL
	ConfigDir   string        // Directory for persisted client state (token)
	HTTPTimeout time.Duration // Timeout for outbound HTTP requests
}

// Load reads configuration from .env (if present) and environment variables
func Load() (*Config, error) {
	// Missing .env is not an error; env vars and defaults still apply
	_ = godotenv.Load()

	timeoutSecs, err := getEnvInt("MEDQUERY_HTTP_TIMEOUT", 30)
	if err != nil {
		return nil, err
	}
	if timeoutSecs <= 0 {
		return nil, fmt.Errorf("MEDQUERY_HTTP_TIMEOUT must be positive, got %d", timeoutSecs)
	}

	configDir := os.Getenv("MEDQUERY_CONFIG_DIR")
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	return &Config{
		APIURL:      getEnv("MEDQUERY_API_URL", DefaultAPIURL),
		ConfigDir:   configDir,
		HTTPTimeout: time.Duration(timeoutSecs) * time.Second,
	}, nil
}

// DefaultConfigDir returns the default config directory following XDG spec
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "medquery")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "medquery")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}
