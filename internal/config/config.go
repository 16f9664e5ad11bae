package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig holds all recognized options. Global module-level state is
// avoided: the loaded value is passed explicitly into the orchestrator and
// the HTTP layer at construction.
type AppConfig struct {
	Port  string
	Debug bool

	// BackendBaseURL is the primary aggregating backend.
	BackendBaseURL string
	// Fallback provider endpoints; empty selects the public defaults.
	FallbackWeatherURL string
	FallbackAirURL     string
	FallbackGeocodeURL string

	// UseBackend enables the primary path, FallbackEnabled the degradation.
	UseBackend      bool
	FallbackEnabled bool

	// RequestTimeout bounds every outbound provider call.
	RequestTimeout time.Duration

	// TrackedCities are refreshed periodically into the snapshot cache.
	TrackedCities   []string
	RefreshInterval time.Duration

	// SnapshotMaxAge is how long a cached snapshot is served before the
	// pipeline runs again.
	SnapshotMaxAge time.Duration
}

// Load reads configuration from the environment with sensible defaults.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.Debug = getenvBool("DEBUG", false)

	cfg.BackendBaseURL = getenvDefault("BACKEND_BASE_URL", "http://localhost:5000")
	cfg.FallbackWeatherURL = os.Getenv("FALLBACK_WEATHER_URL")
	cfg.FallbackAirURL = os.Getenv("FALLBACK_AIR_URL")
	cfg.FallbackGeocodeURL = os.Getenv("FALLBACK_GEOCODE_URL")

	cfg.UseBackend = getenvBool("USE_BACKEND", true)
	cfg.FallbackEnabled = getenvBool("FALLBACK_ENABLED", true)

	timeout, err := getenvDuration("REQUEST_TIMEOUT", "10s")
	if err != nil {
		return nil, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
	}
	cfg.RequestTimeout = timeout

	if cities := os.Getenv("TRACKED_CITIES"); cities != "" {
		for _, c := range strings.Split(cities, ",") {
			if c = strings.TrimSpace(c); c != "" {
				cfg.TrackedCities = append(cfg.TrackedCities, c)
			}
		}
	}

	refresh, err := getenvDuration("REFRESH_INTERVAL", "15m")
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_INTERVAL: %w", err)
	}
	cfg.RefreshInterval = refresh

	maxAge, err := getenvDuration("SNAPSHOT_MAX_AGE", "10m")
	if err != nil {
		return nil, fmt.Errorf("invalid SNAPSHOT_MAX_AGE: %w", err)
	}
	cfg.SnapshotMaxAge = maxAge

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
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
	return time.ParseDuration(getenvDefault(key, def))
}
