package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	OpenAI  OpenAIConfig
	Logging LoggingConfig
	Session SessionConfig
	Store   StoreConfig

	// Warnings collects invalid values that fell back to defaults. They are
	// logged once a logger exists.
	Warnings []string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            int
	Host            string
	GinMode         string
	AllowedOrigins  string
	AllowedMethods  string
	AllowedHeaders  string
	ShutdownTimeout time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string // json or console
}

// SessionConfig controls in-memory conversation lifetime
type SessionConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

// StoreConfig holds the evaluation log database configuration.
// An empty Driver disables the log.
type StoreConfig struct {
	Driver             string // postgres or sqlite
	DSN                string // full connection string, preferred
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
}

// OpenAIConfig holds OpenAI-compatible API configuration
type OpenAIConfig struct {
	APIKey          string
	APIBase         string
	ChatModel       string
	ChatTemperature float64
	ChatTopP        float64
	ChatMaxTokens   int
	ChatExtraBody   string // JSON object merged into requests, e.g. {"chat_template_kwargs":{"thinking":true}}
	Timeout         int    // seconds
	Enabled         bool
}

// Supported evaluation log drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	l := &loader{}
	cfg := &Config{
		Server: ServerConfig{
			Port:            l.asInt("SERVER_PORT", 8080),
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:         getEnv("GIN_MODE", "release"),
			AllowedOrigins:  getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods:  getEnv("CORS_ALLOWED_METHODS", "GET,POST,DELETE,OPTIONS"),
			AllowedHeaders:  getEnv("CORS_ALLOWED_HEADERS", "Content-Type,Authorization"),
			ShutdownTimeout: l.asDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Session: SessionConfig{
			TTL:           l.asDuration("SESSION_TTL", 2*time.Hour),
			SweepInterval: l.asDuration("SESSION_SWEEP_INTERVAL", 5*time.Minute),
		},
		Store: StoreConfig{
			Driver:             strings.ToLower(getEnv("EVALUATION_LOG_DRIVER", "")),
			DSN:                getEnv("EVALUATION_LOG_DSN", getEnv("DATABASE_URL", "")),
			Host:               getEnv("PG_HOST", "localhost"),
			Port:               l.asInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "privacy_evaluator"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     l.asInt("PG_MAX_CONNECTIONS", 10),
			MaxIdleConnections: l.asInt("PG_MAX_IDLE_CONNECTIONS", 2),
		},
		OpenAI: OpenAIConfig{
			APIKey:          getEnv("OPENAI_API_KEY", ""),
			APIBase:         strings.TrimRight(getEnv("OPENAI_API_BASE", "https://api.openai.com/v1"), "/"),
			ChatModel:       getEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
			ChatTemperature: l.asFloat("OPENAI_CHAT_TEMPERATURE", 0.2),
			ChatTopP:        l.asFloat("OPENAI_CHAT_TOP_P", 0),
			ChatMaxTokens:   l.asInt("OPENAI_CHAT_MAX_TOKENS", 1024),
			ChatExtraBody:   getEnv("OPENAI_CHAT_EXTRA_BODY", ""),
			Timeout:         l.asInt("OPENAI_TIMEOUT", 30),
			Enabled:         getEnv("OPENAI_API_KEY", "") != "",
		},
	}
	cfg.Warnings = l.warnings

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that have no sensible fallback
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "", DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported EVALUATION_LOG_DRIVER %q (want postgres or sqlite)", c.Store.Driver)
	}
	if c.Store.Driver == DriverSQLite && c.Store.DSN == "" {
		return fmt.Errorf("EVALUATION_LOG_DSN is required for the sqlite driver")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid SERVER_PORT %d", c.Server.Port)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("unsupported LOG_FORMAT %q (want json or console)", c.Logging.Format)
	}
	return nil
}

// EvaluationLogEnabled reports whether completed evaluations are persisted
func (c *Config) EvaluationLogEnabled() bool {
	return c.Store.Driver != ""
}

// EvaluationLogDSN returns the connection string of the evaluation log
func (c *Config) EvaluationLogDSN() string {
	if c.Store.DSN != "" {
		return c.Store.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Store.Host,
		c.Store.Port,
		c.Store.User,
		c.Store.Password,
		c.Store.Database,
		c.Store.SSLMode,
	)
}

// Addr returns the listen address of the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// loader parses typed values and remembers the ones that were invalid
type loader struct {
	warnings []string
}

func (l *loader) warn(key, value string, def any) {
	l.warnings = append(l.warnings, fmt.Sprintf("invalid value %q for %s, using default %v", value, key, def))
}

func (l *loader) asInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		l.warn(key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

func (l *loader) asFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		l.warn(key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

// asDuration accepts Go durations ("90s", "2h") or a bare number of seconds
func (l *loader) asDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		l.warn(key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}
