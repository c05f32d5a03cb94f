package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, StorageTypeSQLite, cfg.StorageType)
	assert.Equal(t, time.Second, cfg.TickInterval)
	assert.Equal(t, 100, cfg.ChatWindow)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("ADMIN_NAME", "root")
	t.Setenv("ADMIN_SECRET", "s3cret")
	t.Setenv("STORAGE_TYPE", StorageTypeRedis)
	t.Setenv("REDIS_URL", "redis://example:6379")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("TICK_INTERVAL_MS", "250")
	t.Setenv("CHAT_WINDOW", "10")

	cfg := LoadFromEnv()

	assert.Equal(t, 9999, cfg.Port)
	assert.Equal(t, "root", cfg.AdminName)
	assert.Equal(t, "s3cret", cfg.AdminSecret)
	assert.Equal(t, StorageTypeRedis, cfg.StorageType)
	assert.Equal(t, "redis://example:6379", cfg.RedisURL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, 10, cfg.ChatWindow)
}

func TestLoadFromEnvIgnoresGarbage(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	t.Setenv("TICK_INTERVAL_MS", "-5")

	cfg := LoadFromEnv()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, time.Second, cfg.TickInterval)
}
