package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the storefront needs at startup. Values come
// from the environment, with an optional .env file for local runs.
type Config struct {
	HTTPPort        string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	// cart persistence backend: redis, mongo or memory
	StoreBackend  string
	RedisAddr     string
	RedisPassword string
	MongoURI      string
	MongoDBName   string
	MongoTimeout  time.Duration

	// local order read model
	SQLitePath     string
	MigrationsPath string

	// external collaborators
	CatalogBaseURL string
	OrderBaseURL   string
	PromoBaseURL   string

	// fulfillment status events
	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroupID string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		RequestTimeout:  getDuration("REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		StoreBackend:  getEnv("CART_STORE_BACKEND", "memory"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:   getEnv("MONGO_DB_NAME", "storefront"),
		MongoTimeout:  getDuration("MONGO_TIMEOUT", 10*time.Second),

		SQLitePath:     getEnv("SQLITE_PATH", "storefront.db"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "internal/orders/migrations"),

		CatalogBaseURL: getEnv("CATALOG_BASE_URL", "http://localhost:8081"),
		OrderBaseURL:   getEnv("ORDER_BASE_URL", "http://localhost:8082"),
		PromoBaseURL:   getEnv("PROMO_BASE_URL", "http://localhost:8083"),

		KafkaBrokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "order-status"),
		KafkaGroupID: getEnv("KAFKA_GROUP_ID", "storefront"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("invalid duration for %s: %q, using default %s", key, raw, defaultValue)
		return defaultValue
	}
	return d
}
