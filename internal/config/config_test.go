package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnv(t *testing.T) {
	t.Run("returns environment variable when set", func(t *testing.T) {
		t.Setenv("TEST_VAR", "custom")

		assert.Equal(t, "custom", getEnv("TEST_VAR", "default"))
	})

	t.Run("returns default when not set", func(t *testing.T) {
		assert.Equal(t, "default", getEnv("TEST_VAR_MISSING", "default"))
	})

	t.Run("returns default when empty", func(t *testing.T) {
		t.Setenv("TEST_VAR_EMPTY", "")

		assert.Equal(t, "default", getEnv("TEST_VAR_EMPTY", "default"))
	})
}

func TestGetEnvAsInt(t *testing.T) {
	t.Run("parses integers", func(t *testing.T) {
		t.Setenv("TEST_INT", "42")

		assert.Equal(t, 42, getEnvAsInt("TEST_INT", 7))
	})

	t.Run("falls back on garbage", func(t *testing.T) {
		t.Setenv("TEST_INT_BAD", "not-a-number")

		assert.Equal(t, 7, getEnvAsInt("TEST_INT_BAD", 7))
	})
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "3000", cfg.Port)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "http://localhost:5000", cfg.EmbedServiceURL)
		assert.Equal(t, "http://localhost:5001", cfg.StatsServiceURL)
		assert.Equal(t, "http://localhost:5002", cfg.MLServiceURL)
		assert.Equal(t, EmbeddingProviderLocal, cfg.EmbeddingProvider)
		assert.Equal(t, 0, cfg.EmbeddingRateLimit)
		assert.Equal(t, int32(0), cfg.DatabaseMaxConns)
		assert.Equal(t, time.Duration(0), cfg.UpstreamTimeout)
		assert.Equal(t, int64(1<<20), cfg.MaxRequestBodyBytes)
	})

	t.Run("embedding rate limit is read and validated", func(t *testing.T) {
		t.Setenv("EMBEDDING_RATE_LIMIT", "5")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 5, cfg.EmbeddingRateLimit)

		t.Setenv("EMBEDDING_RATE_LIMIT", "-1")

		_, err = Load()
		require.Error(t, err)
	})

	t.Run("database max conns is read and validated", func(t *testing.T) {
		t.Setenv("DATABASE_MAX_CONNS", "16")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, int32(16), cfg.DatabaseMaxConns)

		t.Setenv("DATABASE_MAX_CONNS", "-2")

		_, err = Load()
		require.Error(t, err)
	})

	t.Run("unknown embedding provider is rejected", func(t *testing.T) {
		t.Setenv("EMBEDDING_PROVIDER", "huggingface")

		_, err := Load()
		require.Error(t, err)
	})

	t.Run("openai provider requires an api key", func(t *testing.T) {
		t.Setenv("EMBEDDING_PROVIDER", "openai")

		_, err := Load()
		require.Error(t, err)

		t.Setenv("EMBEDDING_PROVIDER_API_KEY", "sk-test")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, EmbeddingProviderOpenAI, cfg.EmbeddingProvider)
	})

	t.Run("upstream timeout is seconds", func(t *testing.T) {
		t.Setenv("UPSTREAM_HTTP_TIMEOUT", "30")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 30*time.Second, cfg.UpstreamTimeout)
	})

	t.Run("negative upstream timeout is rejected", func(t *testing.T) {
		t.Setenv("UPSTREAM_HTTP_TIMEOUT", "-1")

		_, err := Load()
		require.Error(t, err)
	})
}
