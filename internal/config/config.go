package config

import (
	"fmt"
	"os"
)

// Stock policies accepted via STOCK_POLICY.
const (
	StockPolicyAllow  = "allow"
	StockPolicyReject = "reject"
)

// Config holds environment-specific configuration.
type Config struct {
	// Addr is the listen address for the HTTP server.
	Addr string
	// DatabaseURL is a postgres DSN. Empty means in-memory storage.
	DatabaseURL string
	// StockPolicy controls whether inventory decrements may drive
	// quantity-on-hand below zero.
	StockPolicy string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Addr:        getEnvOrDefault("ADDR", ":8081"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		StockPolicy: getEnvOrDefault("STOCK_POLICY", StockPolicyAllow),
	}

	if cfg.StockPolicy != StockPolicyAllow && cfg.StockPolicy != StockPolicyReject {
		return nil, fmt.Errorf("STOCK_POLICY must be %q or %q, got %q",
			StockPolicyAllow, StockPolicyReject, cfg.StockPolicy)
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
