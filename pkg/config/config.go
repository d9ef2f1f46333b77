package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	ServerPort string
	AppEnv     string
	LogLevel   string

	// Database
	DatabaseURL        string
	DatabaseReplicaURL string
	DBHost             string
	DBPort             string
	DBUser             string
	DBPassword         string
	DBName             string
	DBSSLMode          string

	// Redis
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Auth
	AuthSecret          string
	SessionCookiePrefix string
	GitHubClientID      string
	GitHubClientSecret  string

	// Public URLs
	FrontendURL string
	BackendURL  string

	// RabbitMQ
	RabbitMQURL string

	// AWS S3
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSEndpoint        string
	S3BucketName       string
	S3UseSSL           string

	RateLimitPerMinute int
	// TrustedProxies lists the proxy addresses or CIDRs whose client IP
	// headers are believed. Empty means only the socket address counts.
	TrustedProxies []string
}

func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	port := getEnv("PORT", getEnv("SERVER_PORT", "3001"))

	config := &Config{
		ServerPort: port,
		AppEnv:     getEnv("APP_ENV", "development"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		DatabaseURL:        getEnv("DATABASE_URL", ""),
		DatabaseReplicaURL: getEnv("DATABASE_REPLICA_URL", ""),
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             getEnv("DB_PORT", "5432"),
		DBUser:             getEnv("DB_USER", "postgres"),
		DBPassword:         getEnv("DB_PASSWORD", "postgres"),
		DBName:             getEnv("DB_NAME", "blog"),
		DBSSLMode:          getEnv("DB_SSLMODE", "disable"),

		RedisURL:      getEnv("REDIS_URL", ""),
		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		AuthSecret:          getEnv("AUTH_SECRET", ""),
		SessionCookiePrefix: getEnv("SESSION_COOKIE_PREFIX", "devs"),
		GitHubClientID:      getEnv("GITHUB_CLIENT_ID", ""),
		GitHubClientSecret:  getEnv("GITHUB_CLIENT_SECRET", ""),

		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		BackendURL:  strings.TrimRight(getEnv("BACKEND_URL", "http://localhost:"+port), "/"),

		RabbitMQURL: getEnv("RABBITMQ_URL", ""),

		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpoint:        getEnv("AWS_ENDPOINT", ""),
		S3BucketName:       getEnv("S3_BUCKET_NAME", ""),
		S3UseSSL:           getEnv("S3_USE_SSL", "true"),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 100),
		TrustedProxies:     getEnvList("TRUSTED_PROXIES"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate rejects configurations that would be unsafe to serve traffic with.
func (c *Config) Validate() error {
	if c.IsProduction() && c.AuthSecret == "" {
		return errors.New("AUTH_SECRET must be set in production")
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative, got %d", c.RateLimitPerMinute)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

func (c *Config) Addr() string {
	return ":" + c.ServerPort
}

// DSN prefers DATABASE_URL and falls back to the discrete DB_* variables.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost,
		c.DBUser,
		c.DBPassword,
		c.DBName,
		c.DBPort,
		c.DBSSLMode,
	)
}

func (c *Config) CookieName() string {
	return c.SessionCookiePrefix + ".session_token"
}

func (c *Config) RedisConfigured() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

func (c *Config) StorageConfigured() bool {
	return c.S3BucketName != "" && c.AWSAccessKeyID != "" && c.AWSSecretAccessKey != ""
}

func (c *Config) GitHubConfigured() bool {
	return c.GitHubClientID != "" && c.GitHubClientSecret != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
