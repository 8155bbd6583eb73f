package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// BaseURLKey is the environment variable holding the backend base URL.
// The name is kept from the front-end build so existing deployments work.
const BaseURLKey = "NEXT_PUBLIC_API_BASE_URL"

// Config holds all runtime configuration loaded from environment variables.
// Every field has a sensible default. The base URL is optional at startup:
// its absence surfaces as a configuration error on each ping instead.
type Config struct {
	// Server
	HTTPPort        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// Backend under test
	APIBaseURL string

	// Probe: zero timeout means the request may wait indefinitely
	ProbeTimeout   time.Duration
	ProbeRateLimit int

	// Per-browser view instances
	SessionTTL           time.Duration
	SessionSweepInterval time.Duration

	// Logging
	LogLevel  string
	LogFormat string
}

func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		ReadTimeout:     getDuration("READ_TIMEOUT", 5*time.Second),
		WriteTimeout:    getDuration("WRITE_TIMEOUT", 10*time.Second),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		APIBaseURL: os.Getenv(BaseURLKey),

		ProbeTimeout:   getDuration("PROBE_TIMEOUT", 0),
		ProbeRateLimit: getInt("PROBE_RATE_LIMIT", 10),

		SessionTTL:           getDuration("SESSION_TTL", 30*time.Minute),
		SessionSweepInterval: getDuration("SESSION_SWEEP_INTERVAL", time.Minute),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.ProbeRateLimit <= 0 {
		return fmt.Errorf("PROBE_RATE_LIMIT must be positive, got %d", c.ProbeRateLimit)
	}
	if c.ProbeTimeout < 0 {
		return fmt.Errorf("PROBE_TIMEOUT must not be negative, got %s", c.ProbeTimeout)
	}
	if c.SessionTTL <= 0 || c.SessionSweepInterval <= 0 {
		return fmt.Errorf("SESSION_TTL and SESSION_SWEEP_INTERVAL must be positive")
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.LogFormat)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
