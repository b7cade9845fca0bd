package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "REDIS_HOST", "KAFKA_BROKER", "RATE_LIMIT_RPS", "MAX_UPLOAD_MB", "CATEGORY_CACHE_TTL"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "./static/images", cfg.Images.Dir)
	assert.Equal(t, "/static/images", cfg.Images.URLPrefix)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Kafka.Enabled())
	assert.Equal(t, float64(0), cfg.RateLimit.RPS)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 10*time.Minute, cfg.Redis.CategoriesTTL)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("KAFKA_BROKER", "broker:9092")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("CATEGORY_CACHE_TTL", "30s")
	t.Setenv("DB_NAME", "menu")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.Redis.Enabled())
	assert.True(t, cfg.Kafka.Enabled())
	assert.Equal(t, 2.5, cfg.RateLimit.RPS)
	assert.Equal(t, 30*time.Second, cfg.Redis.CategoriesTTL)
	assert.Contains(t, cfg.DB.DSN(), "dbname=menu")
}
