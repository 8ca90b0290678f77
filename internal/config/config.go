package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN is the lib/pq connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// URL is the form golang-migrate expects.
func (c DBConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type Config struct {
	HTTPAddr          string
	DB                DBConfig
	RedisAddr         string
	JWTSecret         string
	RateLimit         int
	BodyLimit         string
	WorkerConcurrency int
	LogLevel          string
}

// Load reads .env files (if any) and then the environment.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	cfg := &Config{
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "jsoncompare"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		BodyLimit: getEnv("BODY_LIMIT", "2M"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.RateLimit, err = getEnvInt("RATE_LIMIT_PER_MINUTE", 30); err != nil {
		return nil, err
	}
	if cfg.WorkerConcurrency, err = getEnvInt("WORKER_CONCURRENCY", 10); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive integer", key, value)
	}
	return n, nil
}
