package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func fakeEnv(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(fakeEnv(map[string]string{
		"DB_URL":     "postgres://localhost/diet",
		"JWT_SECRET": "s3cret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, 168*time.Hour, cfg.TokenTTL)
	assert.Equal(t, zapcore.InfoLevel, cfg.LogLevel)
	assert.Equal(t, []byte("s3cret"), cfg.JWTSecret)
}

func TestLoadConfig_Overrides(t *testing.T) {
	cfg, err := loadConfig(fakeEnv(map[string]string{
		"DB_URL":               "postgres://localhost/diet",
		"JWT_SECRET":           "s3cret",
		"PORT":                 "9000",
		"CORS_ALLOWED_ORIGINS": "https://app.example.com, http://localhost:5173,,",
		"TOKEN_TTL":            "30m",
		"LOG_LEVEL":            "debug",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, []string{"https://app.example.com", "http://localhost:5173"}, cfg.AllowedOrigins)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, zapcore.DebugLevel, cfg.LogLevel)
}

func TestLoadConfig_Errors(t *testing.T) {
	base := map[string]string{"DB_URL": "postgres://localhost/diet", "JWT_SECRET": "s3cret"}
	cases := map[string]map[string]string{
		"no DB_URL":      {"DB_URL": ""},
		"no JWT_SECRET":  {"JWT_SECRET": ""},
		"bad TOKEN_TTL":  {"TOKEN_TTL": "a week"},
		"zero TOKEN_TTL": {"TOKEN_TTL": "0s"},
		"bad LOG_LEVEL":  {"LOG_LEVEL": "loud"},
	}
	for name, override := range cases {
		t.Run(name, func(t *testing.T) {
			vars := map[string]string{}
			for k, v := range base {
				vars[k] = v
			}
			for k, v := range override {
				vars[k] = v
			}
			_, err := loadConfig(fakeEnv(vars))
			assert.Error(t, err)
		})
	}
}

func TestNewLogger(t *testing.T) {
	logger, err := newLogger(zapcore.WarnLevel)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.ErrorLevel))
}
