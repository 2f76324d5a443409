package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all environment configuration values for the client core.
// These values are loaded from a .env file at startup.
type Config struct {
	// APIURL is the base URL of the remote social API, e.g. "http://192.168.1.174:5001"
	APIURL string

	// StateDir is the directory used for durable client state (the auth token)
	StateDir string

	// HTTPTimeout bounds every request-response API call
	HTTPTimeout time.Duration
}

// Load reads environment variables and returns a populated Config struct.
// It will load from a .env file if present, then read from environment variables.
// Falls back to sensible defaults if values are not set.
func Load() *Config {
	// Attempt to load .env file - not an error if it doesn't exist
	// as we may be running with real environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		APIURL:      getEnv("BRAMBLE_API_URL", "http://localhost:5001"),
		StateDir:    getEnv("BRAMBLE_STATE_DIR", defaultStateDir()),
		HTTPTimeout: getSeconds("BRAMBLE_HTTP_TIMEOUT_SECONDS", 10*time.Second),
	}

	if config.APIURL == "" {
		log.Println("WARNING: BRAMBLE_API_URL is not set")
	}

	return config
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bramble"
	}
	return filepath.Join(home, ".bramble")
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getSeconds reads a whole-seconds environment variable as a duration
func getSeconds(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	secs, err := strconv.Atoi(value)
	if err != nil || secs <= 0 {
		log.Printf("WARNING: invalid %s=%q, using default", key, value)
		return defaultValue
	}
	return time.Duration(secs) * time.Second
}
