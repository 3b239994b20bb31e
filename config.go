package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// config is read once at startup from the environment (and .env when present).
type config struct {
	DBURL          string
	JWTSecret      []byte
	Port           string
	AllowedOrigins []string
	TokenTTL       time.Duration
	LogLevel       zapcore.Level
}

// loadConfig reads settings using getenv so tests can supply a fake environment.
func loadConfig(getenv func(string) string) (config, error) {
	cfg := config{
		DBURL:          getenv("DB_URL"),
		JWTSecret:      []byte(getenv("JWT_SECRET")),
		Port:           envOr(getenv, "PORT", "8080"),
		AllowedOrigins: splitList(envOr(getenv, "CORS_ALLOWED_ORIGINS", "*")),
		TokenTTL:       7 * 24 * time.Hour,
		LogLevel:       zapcore.InfoLevel,
	}

	if cfg.DBURL == "" {
		return config{}, errors.New("DB_URL is required")
	}
	if len(cfg.JWTSecret) == 0 {
		return config{}, errors.New("JWT_SECRET is required")
	}
	if v := getenv("TOKEN_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil || ttl <= 0 {
			return config{}, fmt.Errorf("invalid TOKEN_TTL %q", v)
		}
		cfg.TokenTTL = ttl
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		lvl, err := zapcore.ParseLevel(v)
		if err != nil {
			return config{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
		cfg.LogLevel = lvl
	}
	return cfg, nil
}

func envOr(getenv func(string) string, key, fallback string) string {
	if v := strings.TrimSpace(getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// newLogger builds the production JSON logger at the configured level.
func newLogger(level zapcore.Level) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

// osGetenv is the real environment lookup.
var osGetenv = os.Getenv
