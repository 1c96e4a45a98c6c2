package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	LogLevel    string

	HTTPAddr string

	DBPath string

	RemoteBaseURL string
	RemoteTimeout time.Duration

	SyncInterval        time.Duration
	CatalogPageSize     int
	TransactionPageSize int
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:     getenv("APP_SERVICE", "kasira"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		LogLevel:    getenv("LOG_LEVEL", "info"),

		HTTPAddr: getenv("HTTP_ADDR", "127.0.0.1:8790"),

		DBPath: getenv("DATABASE_PATH", "kasira.db"),

		RemoteBaseURL: strings.TrimRight(getenv("REMOTE_BASE_URL", "http://localhost:8080"), "/"),
		RemoteTimeout: getenvDuration("REMOTE_TIMEOUT", 12*time.Second),

		SyncInterval:        getenvDuration("SYNC_INTERVAL", 5*time.Minute),
		CatalogPageSize:     getenvInt("SYNC_CATALOG_PAGE_SIZE", 500),
		TransactionPageSize: getenvInt("SYNC_TRANSACTION_PAGE_SIZE", 50),
	}

	return cfg
}

func getenv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	raw := getenv(key, "")
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("invalid %s=%q, using default %d", key, raw, fallback)
		return fallback
	}
	return value
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	raw := getenv(key, "")
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("invalid %s=%q, using default %s", key, raw, fallback)
		return fallback
	}
	return value
}
