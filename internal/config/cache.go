package config

import (
	"os"
	"strconv"
	"time"
)

// CacheConfig defines settings for the reservation listing cache.  Entries
// are keyed by building and live for TTL; writes invalidate the owning
// building's entry before the response is sent.  When Enabled is false the
// cache layer becomes a no-op and every listing goes to the database.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// Defaults are used when variables are not set.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled: getenv("CACHE_ENABLED", "true") == "true",
		TTL:     parseDur(getenv("CACHE_TTL", "2m")),
		Prefix:  getenv("CACHE_PREFIX", "reservations"),
	}
}

// Helper functions shared with redis.go and ratelimit.go.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(s string) int {
	i, _ := strconv.Atoi(s)
	return i
}

func parseDur(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Minute
	}
	return d
}
