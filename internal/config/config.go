package config

import (
	"fmt"
	"net"
	"os"
)

type Config struct {
	AppEnv    string
	Port      string
	BackendIP string
	RedisURL  string
	LogLevel  string
	LogFormat string
}

func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:    getEnv("APP_ENV", "development"),
		Port:      getEnv("PORT", "8080"),
		BackendIP: getEnv("BACKEND_IP", ""),
		RedisURL:  getEnv("REDIS_URL", ""),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}

	if cfg.BackendIP == "" {
		return nil, fmt.Errorf("BACKEND_IP is required")
	}
	if net.ParseIP(cfg.BackendIP) == nil {
		return nil, fmt.Errorf("BACKEND_IP must be a valid IP address, got %q", cfg.BackendIP)
	}

	// REDIS_URL is optional: when empty the middleware runs with the
	// in-memory store (single-instance mode, state lost on restart).

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
