package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grillz/web/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(config.BaseURLKey, "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Empty(t, cfg.APIBaseURL, "missing base URL must not fail startup")
	assert.Zero(t, cfg.ProbeTimeout)
	assert.Equal(t, 10, cfg.ProbeRateLimit)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv(config.BaseURLKey, "http://localhost:8000")
	t.Setenv("HTTP_PORT", "3000")
	t.Setenv("PROBE_TIMEOUT", "2s")
	t.Setenv("PROBE_RATE_LIMIT", "3")
	t.Setenv("LOG_FORMAT", "console")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.APIBaseURL)
	assert.Equal(t, "3000", cfg.HTTPPort)
	assert.Equal(t, 2*time.Second, cfg.ProbeTimeout)
	assert.Equal(t, 3, cfg.ProbeRateLimit)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("PROBE_RATE_LIMIT", "lots")
	t.Setenv("SESSION_TTL", "forever")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.ProbeRateLimit)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name, key, val string
	}{
		{"zero rate limit", "PROBE_RATE_LIMIT", "0"},
		{"negative timeout", "PROBE_TIMEOUT", "-1s"},
		{"unknown log format", "LOG_FORMAT", "xml"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.val)
			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}
