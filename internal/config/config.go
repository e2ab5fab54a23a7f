// Package config
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Address        string
	AllowedOrigins []string

	DBPath    string
	JWTSecret string
	JWTExpiry time.Duration

	GPUDevfreqPath  string
	GPULabel        string
	PowerSupplyPath string

	CPUSampleCount    int
	CPUSampleInterval time.Duration

	LogLevel  string
	LogFormat string
}

func Load() *Config {
	godotenv.Load()

	cfg := &Config{
		Address:           envOr("HTTP_ADDR", ":3000"),
		DBPath:            envOr("DB_PATH", "knightd.db"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		JWTExpiry:         envDuration("JWT_EXPIRY", 24*time.Hour),
		GPUDevfreqPath:    envOr("GPU_DEVFREQ_PATH", "/sys/class/devfreq/2c00000.gpu"),
		GPULabel:          envOr("GPU_LABEL", "GPU"),
		PowerSupplyPath:   envOr("POWER_SUPPLY_PATH", "/sys/class/power_supply"),
		CPUSampleCount:    envInt("CPU_SAMPLE_COUNT", 0),
		CPUSampleInterval: envDuration("CPU_SAMPLE_INTERVAL", 0),
		LogLevel:          envOr("LOG_LEVEL", "info"),
		LogFormat:         envOr("LOG_FORMAT", "text"),
	}

	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
			}
		}
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if raw := os.Getenv(key); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if raw := os.Getenv(key); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}
