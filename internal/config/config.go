// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// UpstreamURL is the origin of the Justride ticketing service the relay
	// and API client target. Defaults to the RTD Denver deployment.
	UpstreamURL string

	// AgencyID selects the transit agency's namespace on the upstream API.
	// Defaults to "RTDDENVER".
	AgencyID string

	// DisplayTimezone is the IANA timezone used for all calendar-day
	// bucketing and navigation. Defaults to "America/Denver", the agency's
	// local zone. Tap timestamps carry no timezone, so every view must
	// agree on this one.
	DisplayTimezone string

	// SessionTTL is how long an in-memory session stays valid.
	// Defaults to 12h.
	SessionTTL time.Duration

	// LoginRatePerMin caps login attempts per client IP per minute.
	// Defaults to 10.
	LoginRatePerMin int

	// MaxLoginBodyBytes caps the login request body size. Defaults to 4096.
	MaxLoginBodyBytes int64
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error for malformed values; every variable has a usable default.
func Load() (Config, error) {
	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		CORSOrigins:     splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		UpstreamURL:     getEnv("UPSTREAM_URL", "https://rtddenver.justride.tickets"),
		AgencyID:        getEnv("AGENCY_ID", "RTDDENVER"),
		DisplayTimezone: getEnv("DISPLAY_TIMEZONE", "America/Denver"),
	}

	u, err := url.Parse(cfg.UpstreamURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Config{}, fmt.Errorf("UPSTREAM_URL %q is not an absolute URL", cfg.UpstreamURL)
	}

	if _, err := time.LoadLocation(cfg.DisplayTimezone); err != nil {
		return Config{}, fmt.Errorf("DISPLAY_TIMEZONE %q: %w", cfg.DisplayTimezone, err)
	}

	cfg.SessionTTL, err = getEnvDuration("SESSION_TTL", 12*time.Hour)
	if err != nil {
		return Config{}, err
	}
	cfg.LoginRatePerMin, err = getEnvInt("LOGIN_RATE_PER_MIN", 10)
	if err != nil {
		return Config{}, err
	}
	maxBody, err := getEnvInt("MAX_LOGIN_BODY_BYTES", 4096)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxLoginBodyBytes = int64(maxBody)

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt parses an integer environment variable, falling back when unset.
func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s %q is not an integer", key, v)
	}
	return i, nil
}

// getEnvDuration parses a duration environment variable (e.g. "30m"),
// falling back when unset.
func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s %q is not a duration", key, v)
	}
	return d, nil
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
