package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Notification dispatch modes.
const (
	NotifyModeDirect = "direct"
	NotifyModeQueue  = "queue"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Queue    QueueConfig
	API      APIConfig
	Worker   WorkerConfig
	SMS      SMSConfig
	Auth     AuthConfig
	Notify   NotifyConfig
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// QueueConfig holds queue configuration (Redis)
type QueueConfig struct {
	RedisURL  string
	QueueName string
}

// APIConfig holds API server configuration
type APIConfig struct {
	Port int
}

// WorkerConfig holds notification worker configuration
type WorkerConfig struct {
	Concurrency int
}

// SMSConfig holds SMS gateway credentials and connection settings
type SMSConfig struct {
	BaseURL  string
	Username string
	APIKey   string
	SenderID string
	Timeout  time.Duration
}

// AuthConfig holds JWT session and OIDC provider settings
type AuthConfig struct {
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	OIDCIssuer      string
	OIDCClientID    string
	OIDCSecret      string
	OIDCRedirectURL string
	OIDCAudience    string
	OIDCJWKSURL     string
}

// NotifyConfig controls how order notifications are dispatched
type NotifyConfig struct {
	Mode           string
	NotifyOnUpdate bool
	Timeout        time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	apiPort, err := strconv.Atoi(getEnv("API_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid API_PORT: %w", err)
	}

	workerConcurrency, err := strconv.Atoi(getEnv("WORKER_CONCURRENCY", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid WORKER_CONCURRENCY: %w", err)
	}

	smsTimeout, err := time.ParseDuration(getEnv("SMS_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMS_TIMEOUT: %w", err)
	}

	notifyTimeout, err := time.ParseDuration(getEnv("NOTIFY_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid NOTIFY_TIMEOUT: %w", err)
	}

	accessTTL, err := time.ParseDuration(getEnv("ACCESS_TOKEN_TTL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid ACCESS_TOKEN_TTL: %w", err)
	}

	refreshTTL, err := time.ParseDuration(getEnv("REFRESH_TOKEN_TTL", "168h"))
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_TOKEN_TTL: %w", err)
	}

	notifyMode := getEnv("NOTIFY_MODE", NotifyModeDirect)
	if notifyMode != NotifyModeDirect && notifyMode != NotifyModeQueue {
		return nil, fmt.Errorf("invalid NOTIFY_MODE: %s (must be 'direct' or 'queue')", notifyMode)
	}

	return &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "orderdesk"),
			Password: getEnv("DB_PASSWORD", "orderdesk"),
			DBName:   getEnv("DB_NAME", "orderdesk"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Queue: QueueConfig{
			RedisURL:  getEnv("REDIS_URL", "redis://localhost:6379/0"),
			QueueName: getEnv("QUEUE_NAME", "order_notifications"),
		},
		API: APIConfig{
			Port: apiPort,
		},
		Worker: WorkerConfig{
			Concurrency: workerConcurrency,
		},
		SMS: SMSConfig{
			BaseURL:  getEnv("SMS_BASE_URL", "https://api.africastalking.com"),
			Username: getEnv("SMS_USERNAME", "sandbox"),
			APIKey:   getEnv("SMS_API_KEY", ""),
			SenderID: getEnv("SMS_SENDER_ID", ""),
			Timeout:  smsTimeout,
		},
		Auth: AuthConfig{
			JWTSecret:       getEnv("JWT_SECRET", ""),
			AccessTokenTTL:  accessTTL,
			RefreshTokenTTL: refreshTTL,
			OIDCIssuer:      getEnv("OIDC_ISSUER", ""),
			OIDCClientID:    getEnv("OIDC_CLIENT_ID", ""),
			OIDCSecret:      getEnv("OIDC_CLIENT_SECRET", ""),
			OIDCRedirectURL: getEnv("OIDC_REDIRECT_URL", ""),
			OIDCAudience:    getEnv("OIDC_AUDIENCE", ""),
			OIDCJWKSURL:     getEnv("OIDC_JWKS_URL", ""),
		},
		Notify: NotifyConfig{
			Mode:           notifyMode,
			NotifyOnUpdate: getEnv("NOTIFY_ON_UPDATE", "false") == "true",
			Timeout:        notifyTimeout,
		},
	}, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
