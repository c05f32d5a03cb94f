// Package config loads server configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeSQLite = "sqlite"
	StorageTypeRedis  = "redis"
)

// Config holds all application configuration
type Config struct {
	// Server
	Host string
	Port int

	// Admin identity
	AdminName   string
	AdminSecret string

	// Storage
	StorageType string
	SQLitePath  string
	RedisURL    string

	// Icons
	IconDir string

	// WebSocket
	AllowedOrigins []string
	MessageRate    rate.Limit
	MessageBurst   int

	// Game
	TickInterval time.Duration
	ChatWindow   int
	RankLimit    int
}

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Host:           "",
		Port:           8080,
		AdminName:      "admin",
		AdminSecret:    "change-me",
		StorageType:    StorageTypeSQLite,
		SQLitePath:     "data/coinpit.db",
		RedisURL:       "redis://localhost:6379",
		IconDir:        "data/icons",
		AllowedOrigins: []string{"*"},
		MessageRate:    50,
		MessageBurst:   100,
		TickInterval:   time.Second,
		ChatWindow:     100,
		RankLimit:      100,
	}
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	cfg := DefaultConfig()

	if host := os.Getenv("HOST"); host != "" {
		cfg.Host = host
	}
	if port := os.Getenv("PORT"); port != "" {
		if val, err := strconv.Atoi(port); err == nil && val > 0 {
			cfg.Port = val
		}
	}

	if name := os.Getenv("ADMIN_NAME"); name != "" {
		cfg.AdminName = name
	}
	if secret := os.Getenv("ADMIN_SECRET"); secret != "" {
		cfg.AdminSecret = secret
	}

	if st := os.Getenv("STORAGE_TYPE"); st != "" {
		cfg.StorageType = st
	}
	if path := os.Getenv("SQLITE_PATH"); path != "" {
		cfg.SQLitePath = path
	}
	if url := os.Getenv("REDIS_URL"); url != "" {
		cfg.RedisURL = url
	}

	if dir := os.Getenv("ICON_DIR"); dir != "" {
		cfg.IconDir = dir
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = parseOrigins(origins)
	}
	if rl := os.Getenv("WS_MESSAGE_RATE"); rl != "" {
		if val, err := strconv.Atoi(rl); err == nil && val > 0 {
			cfg.MessageRate = rate.Limit(val)
		}
	}
	if burst := os.Getenv("WS_MESSAGE_BURST"); burst != "" {
		if val, err := strconv.Atoi(burst); err == nil && val > 0 {
			cfg.MessageBurst = val
		}
	}

	if iv := os.Getenv("TICK_INTERVAL_MS"); iv != "" {
		if val, err := strconv.Atoi(iv); err == nil && val > 0 {
			cfg.TickInterval = time.Duration(val) * time.Millisecond
		}
	}
	if window := os.Getenv("CHAT_WINDOW"); window != "" {
		if val, err := strconv.Atoi(window); err == nil && val > 0 {
			cfg.ChatWindow = val
		}
	}
	if limit := os.Getenv("RANK_LIMIT"); limit != "" {
		if val, err := strconv.Atoi(limit); err == nil && val > 0 {
			cfg.RankLimit = val
		}
	}

	return cfg
}

// parseOrigins parses comma-separated origins
func parseOrigins(origins string) []string {
	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
