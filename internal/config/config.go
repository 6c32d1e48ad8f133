package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries every externally supplied setting. Values come from the
// environment with development fallbacks, same convention as the JWT layer.
type Config struct {
	Port   string
	DBPath string

	JWTSecret   string
	JWTIssuer   string
	JWTAudience string

	StorageDir       string
	StorageSecret    string
	SignedURLTTL     time.Duration
	LenderWebhookURL string

	ChatAPIURL string
	ChatAPIKey string
	ChatModel  string

	CacheStaleAfter time.Duration
	CacheGCAfter    time.Duration
}

// Load reads the configuration from the environment.
func Load() Config {
	return Config{
		Port:   getEnv("PORT", ":8008"),
		DBPath: getEnv("DB_PATH", "mortgage-crm.db"),

		JWTSecret:   getEnv("JWT_SECRET", "development-insecure-secret-change-me"),
		JWTIssuer:   getEnv("JWT_ISSUER", "mortgage-broker-api"),
		JWTAudience: getEnv("JWT_AUDIENCE", "mortgage-broker-clients"),

		StorageDir:       getEnv("STORAGE_DIR", "uploads"),
		StorageSecret:    getEnv("STORAGE_SIGNING_SECRET", "development-signing-secret"),
		SignedURLTTL:     getDuration("SIGNED_URL_TTL_SECONDS", 300*time.Second),
		LenderWebhookURL: getEnv("LENDER_WEBHOOK_URL", ""),

		ChatAPIURL: getEnv("CHAT_API_URL", "https://api.openai.com/v1/chat/completions"),
		ChatAPIKey: getEnv("CHAT_API_KEY", ""),
		ChatModel:  getEnv("CHAT_MODEL", "gpt-4o-mini"),

		CacheStaleAfter: getDuration("CACHE_STALE_SECONDS", 30*time.Second),
		CacheGCAfter:    getDuration("CACHE_GC_SECONDS", 5*time.Minute),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return fallback
}
