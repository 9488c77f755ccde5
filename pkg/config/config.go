package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration.
type Config struct {
	ServerPort string
	LogLevel   string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	StripeSecretKey string

	MaxConcurrency    int
	NavigationTimeout time.Duration

	CheckoutSuccessURL string
	CheckoutCancelURL  string
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		PostgresHost:       getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:       getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:       getEnv("POSTGRES_USER", "user"),
		PostgresPassword:   getEnv("POSTGRES_PASSWORD", "password"),
		PostgresDB:         getEnv("POSTGRES_DB", "aimpact"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            getEnvAsInt("REDIS_DB", 0),
		StripeSecretKey:    getEnv("STRIPE_SECRET_KEY", ""),
		MaxConcurrency:     getEnvAsInt("MAX_CONCURRENCY", 4),
		NavigationTimeout:  getEnvAsDuration("NAVIGATION_TIMEOUT_SECONDS", 30) * time.Second,
		CheckoutSuccessURL: getEnv("CHECKOUT_SUCCESS_URL", "https://www.aimpactscanner.com/success"),
		CheckoutCancelURL:  getEnv("CHECKOUT_CANCEL_URL", "https://www.aimpactscanner.com/pricing"),
	}
}

// Validate reports missing required configuration. Missing credentials
// are a startup failure, never a silent degradation.
func (c *Config) Validate() error {
	if c.StripeSecretKey == "" {
		return errors.New("STRIPE_SECRET_KEY is required")
	}
	if c.PostgresHost == "" || c.PostgresDB == "" {
		return errors.New("postgres connection settings are required")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback int) time.Duration {
	return time.Duration(getEnvAsInt(key, fallback))
}
