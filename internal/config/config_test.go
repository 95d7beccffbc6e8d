package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("TOKEN_TTL", "")

	cfg := Load()

	require.Equal(t, "mysql", cfg.DBDriver)
	require.Equal(t, 24*time.Hour, cfg.TokenTTL)
	require.Equal(t, "localhost:6379", cfg.RedisAddr())
	require.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "10")
	t.Setenv("GIN_MODE", "release")

	cfg := Load()

	require.Equal(t, "sqlite", cfg.DBDriver)
	require.Equal(t, 30*time.Minute, cfg.TokenTTL)
	require.Equal(t, 10, cfg.RateLimitPerMinute)
	require.True(t, cfg.IsProduction())
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("RATE_LIMIT_PER_MINUTE", "many")
	t.Setenv("USERNAME_REPAIR_INTERVAL", "soon")

	cfg := Load()

	require.Equal(t, 120, cfg.RateLimitPerMinute)
	require.Equal(t, time.Hour, cfg.UsernameRepairInterval)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown driver", func(c *Config) { c.DBDriver = "oracle" }},
		{"unknown session store", func(c *Config) { c.SessionStore = "memcached" }},
		{"unknown rate limit backend", func(c *Config) { c.RateLimitBackend = "disk" }},
		{"empty jwt secret", func(c *Config) { c.JWTSecret = "" }},
		{"idp without key", func(c *Config) { c.IdPIssuer = "https://idp.example.com" }},
		{"zero rate limit", func(c *Config) { c.RateLimitPerMinute = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Load()
			tc.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
