package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisAddr string

	// StorageBackend is "disk" or "jetstream".
	StorageBackend string
	StorageDir     string
	NATSURL        string
	StorageBucket  string

	// PublicBaseURL is the absolute URL this service is reachable at; image
	// URLs are derived from it.
	PublicBaseURL string
}

// Load reads configuration from the environment, optionally seeded from a
// .env file.
func Load() *Config {
	_ = godotenv.Load()

	port := getEnv("PORT", "8080")
	return &Config{
		Port:           port,
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "storefront"),
		DBPassword:     getEnv("DB_PASSWORD", "storefront"),
		DBName:         getEnv("DB_NAME", "storefront"),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		StorageBackend: getEnv("STORAGE_BACKEND", "disk"),
		StorageDir:     getEnv("STORAGE_DIR", "./uploads"),
		NATSURL:        getEnv("NATS_URL", "nats://localhost:4222"),
		StorageBucket:  getEnv("STORAGE_BUCKET", "product-images"),
		PublicBaseURL:  getEnv("PUBLIC_BASE_URL", "http://localhost:"+port),
	}
}

// DSN builds the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
