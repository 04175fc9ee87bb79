package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Tab store backends.
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Catalog  CatalogConfig
	View     ViewConfig
	Session  SessionConfig
	Media    MediaConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
}

// RedisConfig holds redis connection configuration.
type RedisConfig struct {
	URL string
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// AuthConfig holds authentication configuration. An empty key disables auth.
type AuthConfig struct {
	APIKey string
}

// CatalogConfig holds the remote catalog API client configuration.
type CatalogConfig struct {
	BaseURL       string
	Timeout       time.Duration
	MaxRetries    int
	RatePerSecond float64
	RateBurst     int
}

// ViewConfig holds presentation settings for the storefront views.
type ViewConfig struct {
	ListingLimit       int
	PlaceholderCard    string
	PlaceholderDetail  string
	CurrencyLabel      string
	OrderWhatsAppPhone string
}

// SessionConfig holds tab cache configuration.
type SessionConfig struct {
	Store        string // "memory", "redis" or "postgres"
	TTL          time.Duration
	SecureCookie bool
}

// MediaConfig holds configuration for the image object store (Cloudflare R2).
// When no static key pair is set the default AWS credential chain is used.
type MediaConfig struct {
	Enabled         bool
	Bucket          string
	Region          string
	Endpoint        string
	PublicBaseURL   string
	AccessKeyID     string
	SecretAccessKey string
}

// Load loads configuration from environment variables. A .env file in the
// working directory is read first when present; real environment wins.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "storefront"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 25),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 5),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379/0"),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			APIKey: getEnv("API_KEY", ""),
		},
		Catalog: CatalogConfig{
			BaseURL:       getEnv("CATALOG_API_URL", ""),
			Timeout:       getEnvAsDuration("CATALOG_TIMEOUT", 10*time.Second),
			MaxRetries:    getEnvAsInt("CATALOG_MAX_RETRIES", 2),
			RatePerSecond: getEnvAsFloat("CATALOG_RATE_PER_SECOND", 20),
			RateBurst:     getEnvAsInt("CATALOG_RATE_BURST", 40),
		},
		View: ViewConfig{
			ListingLimit:       getEnvAsInt("LISTING_LIMIT", 20),
			PlaceholderCard:    getEnv("PLACEHOLDER_CARD_IMAGE", "/images/placeholder-card.png"),
			PlaceholderDetail:  getEnv("PLACEHOLDER_DETAIL_IMAGE", "/images/placeholder-detail.png"),
			CurrencyLabel:      getEnv("CURRENCY_LABEL", "Rs."),
			OrderWhatsAppPhone: getEnv("ORDER_WHATSAPP_NUMBER", ""),
		},
		Session: SessionConfig{
			Store:        getEnv("TAB_STORE", StoreMemory),
			TTL:          getEnvAsDuration("SESSION_TTL", 30*time.Minute),
			SecureCookie: getEnvAsBool("SESSION_SECURE_COOKIE", false),
		},
		Media: MediaConfig{
			Enabled:         getEnvAsBool("MEDIA_CHECK_ENABLED", false),
			Bucket:          getEnv("MEDIA_BUCKET", ""),
			Region:          getEnv("MEDIA_REGION", "auto"),
			Endpoint:        getEnv("MEDIA_ENDPOINT", ""),
			PublicBaseURL:   getEnv("MEDIA_PUBLIC_BASE_URL", ""),
			AccessKeyID:     getEnv("MEDIA_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("MEDIA_SECRET_ACCESS_KEY", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog API URL is required")
	}

	if c.Catalog.Timeout <= 0 {
		return fmt.Errorf("catalog timeout must be positive")
	}

	if c.Catalog.MaxRetries < 0 {
		return fmt.Errorf("catalog max retries cannot be negative")
	}

	if c.View.ListingLimit < 1 {
		return fmt.Errorf("listing limit must be at least 1")
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("session TTL must be positive")
	}

	switch c.Session.Store {
	case StoreMemory:
	case StoreRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("redis URL is required when tab store is redis")
		}
	case StorePostgres:
		if err := c.Database.validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid tab store: %s (must be memory, redis, or postgres)", c.Session.Store)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.Media.Enabled {
		if c.Media.Bucket == "" {
			return fmt.Errorf("media bucket is required when media checks are enabled")
		}
		if c.Media.PublicBaseURL == "" {
			return fmt.Errorf("media public base URL is required when media checks are enabled")
		}
		if (c.Media.AccessKeyID == "") != (c.Media.SecretAccessKey == "") {
			return fmt.Errorf("media access key id and secret must be set together")
		}
	}

	return nil
}

func (c *DatabaseConfig) validate() error {
	if c.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Port)
	}

	if c.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.MinConnections > c.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloat retrieves an environment variable as a float or returns a default value.
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration retrieves an environment variable as a duration ("10s", "30m")
// or returns a default value.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
