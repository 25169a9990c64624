package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the engine configuration.
// This is the single source of truth for all tunables.
type Config struct {
	MomentLimit    int           // Max snapshots fetched per price series build
	TopHolderLimit int           // Holder entries requested for the pie chart
	CurveSamples   int           // Sample count for the redemption curve visual
	MaxWorkers     int           // Worker pool size for per-chain fan-out
	PoolPriceTTL   time.Duration // Cache TTL for external pool price series
	TopologyTTL    time.Duration // Cache TTL for connected-chain discovery
}

// Default returns the configuration with environment overrides applied
func Default() *Config {
	return &Config{
		MomentLimit:    envInt("MOMENT_LIMIT", 1000),
		TopHolderLimit: envInt("TOP_HOLDER_LIMIT", 10),
		CurveSamples:   envInt("CURVE_SAMPLES", 100),
		MaxWorkers:     envInt("MAX_WORKERS", 8),
		PoolPriceTTL:   envDuration("POOL_PRICE_TTL", 5*time.Minute),
		TopologyTTL:    envDuration("TOPOLOGY_TTL", 30*time.Minute),
	}
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}
