// Package config loads application configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv   string
	LogLevel string

	// Database
	DatabaseURL string
	SQLitePath  string

	// Redis
	RedisURL string

	// RabbitMQ
	RabbitMQURL string

	// Model
	ModelProvider    string
	ModelName        string
	ModelTemperature float64
	ModelAPIURL      string
	ModelAPIKey      string

	// Tools
	ToolsAPIURL   string
	ToolsAPIToken string

	// Leads
	ApolloAPIKey   string
	ClearbitAPIKey string
	LeadCacheTTL   time.Duration

	// Outreach
	SendGridAPIKey   string
	FromEmail        string
	WebhookAuthToken string
	WebhookAddr      string

	// Meetings
	CalendlyToken      string
	CalendlyEventType  string
	CalendlyUserURI    string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRefreshToken string
	CalendarID         string
	MeetingDuration    time.Duration

	// Workflow
	WorkflowQueue       string
	WorkflowMaxAttempts int
	WorkflowRunTimeout  time.Duration
	OutboxPollInterval  time.Duration
	OutboxBatchSize     int
	OutboxMaxRetries    int
	OutboxRetentionDays int
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		SQLitePath:  getEnv("SALESLOOP_DB_PATH", defaultSQLitePath()),
		RedisURL:    getEnv("REDIS_URL", ""),
		RabbitMQURL: getEnv("RABBITMQ_URL", ""),

		ModelProvider:    getEnv("MODEL_PROVIDER", "ollama"),
		ModelName:        getEnv("MODEL_NAME", "deepseek-r1:14b"),
		ModelTemperature: getFloatEnv("MODEL_TEMPERATURE", 0.7),
		ModelAPIURL:      getEnv("MODEL_API_URL", "http://localhost:11434"),
		ModelAPIKey:      getEnv("MODEL_API_KEY", ""),

		ToolsAPIURL:   getEnv("TOOLS_API_URL", ""),
		ToolsAPIToken: getEnv("TOOLS_API_TOKEN", ""),

		ApolloAPIKey:   getEnv("APOLLO_API_KEY", ""),
		ClearbitAPIKey: getEnv("CLEARBIT_API_KEY", ""),
		LeadCacheTTL:   getDurationEnv("LEAD_CACHE_TTL", 24*time.Hour),

		SendGridAPIKey:   getEnv("SENDGRID_API_KEY", ""),
		FromEmail:        getEnv("FROM_EMAIL", ""),
		WebhookAuthToken: getEnv("WEBHOOK_AUTH_TOKEN", ""),
		WebhookAddr:      getEnv("WEBHOOK_ADDR", "0.0.0.0:8080"),

		CalendlyToken:      getEnv("CALENDLY_API_TOKEN", ""),
		CalendlyEventType:  getEnv("CALENDLY_EVENT_TYPE", ""),
		CalendlyUserURI:    getEnv("CALENDLY_USER_URI", ""),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRefreshToken: getEnv("GOOGLE_REFRESH_TOKEN", ""),
		CalendarID:         getEnv("CALENDAR_ID", "primary"),
		MeetingDuration:    getDurationEnv("DEFAULT_MEETING_DURATION", 30*time.Minute),

		WorkflowQueue:       getEnv("WORKFLOW_QUEUE", "sales-workflow"),
		WorkflowMaxAttempts: getIntEnv("WORKFLOW_MAX_ATTEMPTS", 3),
		WorkflowRunTimeout:  getDurationEnv("WORKFLOW_RUN_TIMEOUT", 30*time.Minute),
		OutboxPollInterval:  getDurationEnv("OUTBOX_POLL_INTERVAL", 100*time.Millisecond),
		OutboxBatchSize:     getIntEnv("OUTBOX_BATCH_SIZE", 100),
		OutboxMaxRetries:    getIntEnv("OUTBOX_MAX_RETRIES", 5),
		OutboxRetentionDays: getIntEnv("OUTBOX_RETENTION_DAYS", 14),
	}

	return cfg, nil
}

// IsDevelopment returns true when running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// UsePostgres reports whether a Postgres DSN is configured. When false the
// SQLite path is used.
func (c *Config) UsePostgres() bool {
	return strings.HasPrefix(c.DatabaseURL, "postgres://") ||
		strings.HasPrefix(c.DatabaseURL, "postgresql://")
}

func defaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "salesloop.db"
	}
	return home + "/.salesloop/salesloop.db"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getFloatEnv(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
