package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jackrosenthal/myride-explorer/internal/config"
)

// TestLoad_defaults verifies that every variable falls back to its default
// when the environment is empty.
func TestLoad_defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "LOG_LEVEL", "CORS_ORIGINS", "UPSTREAM_URL", "AGENCY_ID",
		"DISPLAY_TIMEZONE", "SESSION_TTL", "LOGIN_RATE_PER_MIN", "MAX_LOGIN_BODY_BYTES",
	} {
		t.Setenv(key, "")
	}

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	require.Equal(t, "https://rtddenver.justride.tickets", cfg.UpstreamURL)
	require.Equal(t, "RTDDENVER", cfg.AgencyID)
	require.Equal(t, "America/Denver", cfg.DisplayTimezone)
	require.Equal(t, 12*time.Hour, cfg.SessionTTL)
	require.Equal(t, 10, cfg.LoginRatePerMin)
	require.Equal(t, int64(4096), cfg.MaxLoginBodyBytes)
}

// TestLoad_overrides verifies that all values can be overridden via env vars.
func TestLoad_overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ORIGINS", "https://app.example.com, https://admin.example.com")
	t.Setenv("UPSTREAM_URL", "https://staging.justride.tickets")
	t.Setenv("AGENCY_ID", "TESTAGENCY")
	t.Setenv("DISPLAY_TIMEZONE", "America/New_York")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("LOGIN_RATE_PER_MIN", "5")
	t.Setenv("MAX_LOGIN_BODY_BYTES", "1024")

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSOrigins)
	require.Equal(t, "https://staging.justride.tickets", cfg.UpstreamURL)
	require.Equal(t, "TESTAGENCY", cfg.AgencyID)
	require.Equal(t, "America/New_York", cfg.DisplayTimezone)
	require.Equal(t, 30*time.Minute, cfg.SessionTTL)
	require.Equal(t, 5, cfg.LoginRatePerMin)
	require.Equal(t, int64(1024), cfg.MaxLoginBodyBytes)
}

// TestLoad_invalidUpstreamURL verifies that a relative upstream URL is
// rejected and the error names the variable.
func TestLoad_invalidUpstreamURL(t *testing.T) {
	t.Setenv("UPSTREAM_URL", "not-a-url")

	_, err := config.Load()

	require.Error(t, err)
	require.ErrorContains(t, err, "UPSTREAM_URL")
}

// TestLoad_invalidTimezone verifies that an unknown IANA zone is rejected.
func TestLoad_invalidTimezone(t *testing.T) {
	t.Setenv("DISPLAY_TIMEZONE", "Mars/Olympus_Mons")

	_, err := config.Load()

	require.Error(t, err)
	require.ErrorContains(t, err, "DISPLAY_TIMEZONE")
}

// TestLoad_malformedNumbers verifies parse errors for numeric and duration
// variables.
func TestLoad_malformedNumbers(t *testing.T) {
	t.Run("session ttl", func(t *testing.T) {
		t.Setenv("SESSION_TTL", "twelve hours")
		_, err := config.Load()
		require.ErrorContains(t, err, "SESSION_TTL")
	})

	t.Run("login rate", func(t *testing.T) {
		t.Setenv("LOGIN_RATE_PER_MIN", "fast")
		_, err := config.Load()
		require.ErrorContains(t, err, "LOGIN_RATE_PER_MIN")
	})

	t.Run("max body", func(t *testing.T) {
		t.Setenv("MAX_LOGIN_BODY_BYTES", "4k")
		_, err := config.Load()
		require.ErrorContains(t, err, "MAX_LOGIN_BODY_BYTES")
	})
}
