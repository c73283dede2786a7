package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds everything the process needs from the environment.
type AppConfig struct {
	OpenWeatherAPIKey string

	// Outbound HTTP.
	HTTPTimeout time.Duration

	// Retry policy for upstream calls.
	RetryMaxAttempts int
	RetryBaseDelay   time.Duration
	RetryMaxDelay    time.Duration

	// Session memory.
	SessionTTL             time.Duration
	SessionCleanupInterval time.Duration

	// When true, a geocoding query matching several places is surfaced to
	// the user instead of silently using the best match.
	DisambiguateCities bool

	// Answer formatter model.
	FormatterModel string

	Port string
}

// Load reads configuration from the environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	if cfg.OpenWeatherAPIKey == "" {
		return nil, fmt.Errorf("OPENWEATHER_API_KEY is not set")
	}

	timeout, err := getenvDuration("HTTP_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout = timeout

	cfg.RetryMaxAttempts = getenvInt("RETRY_MAX_ATTEMPTS", 3)

	cfg.RetryBaseDelay, err = getenvDuration("RETRY_BASE_DELAY", "1s")
	if err != nil {
		return nil, err
	}
	cfg.RetryMaxDelay, err = getenvDuration("RETRY_MAX_DELAY", "60s")
	if err != nil {
		return nil, err
	}

	cfg.SessionTTL, err = getenvDuration("SESSION_TTL", "30m")
	if err != nil {
		return nil, err
	}
	cfg.SessionCleanupInterval, err = getenvDuration("SESSION_CLEANUP_INTERVAL", "10m")
	if err != nil {
		return nil, err
	}

	cfg.DisambiguateCities = getenvBool("DISAMBIGUATE_CITIES", false)
	cfg.FormatterModel = getenvDefault("FORMATTER_MODEL", "gpt-4.1-mini")
	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	v := getenvDefault(key, def)
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
