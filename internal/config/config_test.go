package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"SUPABASE_URL", "SUPABASE_KEY", "SUPABASE_BUCKET",
		"REDIS_ADDR", "REDIS_DB", "RABBITMQ_URL", "RABBITMQ_QUEUE",
		"AUTH_TOKEN_CACHE", "AUTH_CACHE_POLICY", "AUTH_CACHE_MAX_AGE",
		"REPORT_TTL", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.EnvFileLoaded)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Empty(t, cfg.RabbitMQ.URL)
	assert.Equal(t, "image_compression_results", cfg.RabbitMQ.Queue)
	assert.Equal(t, "token.json", cfg.Auth.TokenCache)
	assert.Equal(t, "discard", cfg.Auth.CachePolicy)
	assert.Equal(t, time.Hour, cfg.Auth.CacheMaxAge)
	assert.Equal(t, 24*time.Hour, cfg.Report.TTL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://project.supabase.co")
	t.Setenv("SUPABASE_KEY", "service-key")
	t.Setenv("SUPABASE_BUCKET", "photos")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("AUTH_CACHE_POLICY", "reuse")
	t.Setenv("AUTH_CACHE_MAX_AGE", "15m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://project.supabase.co", cfg.Supabase.URL)
	assert.Equal(t, "service-key", cfg.Supabase.KEY)
	assert.Equal(t, "photos", cfg.Supabase.BUCKET)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, "reuse", cfg.Auth.CachePolicy)
	assert.Equal(t, 15*time.Minute, cfg.Auth.CacheMaxAge)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"redis db", "REDIS_DB", "three"},
		{"cache max age", "AUTH_CACHE_MAX_AGE", "an hour"},
		{"report ttl", "REPORT_TTL", "not-a-duration"},
		{"negative ttl", "REPORT_TTL", "-5m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			cfg, err := Load()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}
