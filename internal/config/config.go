// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers understood by the database package.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port string `mapstructure:"PORT"`
	Env  string `mapstructure:"APP_ENV"`

	StoreDriver     string        `mapstructure:"STORE_DRIVER"`
	DatabaseURL     string        `mapstructure:"DATABASE_URL"`
	DBSchema        string        `mapstructure:"DB_SCHEMA"`
	MongoDatabase   string        `mapstructure:"MONGO_DATABASE"`
	DBMaxOpenConns  int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	SpacesKey       string        `mapstructure:"SPACES_KEY"`
	SpacesSecret    string        `mapstructure:"SPACES_SECRET"`
	SpacesEndpoint  string        `mapstructure:"SPACES_ENDPOINT"`
	SpacesRegion    string        `mapstructure:"SPACES_REGION"`
	SpacesBucket    string        `mapstructure:"SPACES_BUCKET"`
	SpacesPathStyle bool          `mapstructure:"SPACES_PATH_STYLE"`
	UploadPrefix    string        `mapstructure:"UPLOAD_PREFIX"`
	UploadMaxMB     int           `mapstructure:"UPLOAD_MAX_MB"`
	UploadTimeout   time.Duration `mapstructure:"UPLOAD_TIMEOUT"`
	AuthURL         string        `mapstructure:"AUTH_URL"`
	AuthPath        string        `mapstructure:"AUTH_PATH"`
	AuthTimeout     time.Duration `mapstructure:"AUTH_TIMEOUT"`
	AuthJWTSecret   string        `mapstructure:"AUTH_JWT_SECRET"`
	AuthCacheTTL    time.Duration `mapstructure:"AUTH_CACHE_TTL"`
	RedisURL        string        `mapstructure:"REDIS_URL"`
	AllowedOrigins  string        `mapstructure:"ALLOWED_ORIGINS"`
	FeatureFlags    string        `mapstructure:"FEATURE_FLAGS"`
	TracingExporter string        `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint    string        `mapstructure:"OTLP_ENDPOINT"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`

	// RateLimitFailClosed rejects writes with 503 when the limiter store is unavailable.
	RateLimitFailClosed bool `mapstructure:"RATE_LIMIT_FAIL_CLOSED"`
}

// LoadConfig loads application configuration from .env, config files and environment variables.
func LoadConfig() (*Config, error) {
	// A missing .env is the normal case outside local development.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config.%s.yml: %w", env, err)
			}
		} else {
			log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
		}
	}

	setDefaults()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	config.normalize()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("PORT", "6002")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("STORE_DRIVER", DriverMySQL)
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("DB_SCHEMA", "dev")
	viper.SetDefault("MONGO_DATABASE", "portfolio")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 10)
	viper.SetDefault("SPACES_KEY", "")
	viper.SetDefault("SPACES_SECRET", "")
	viper.SetDefault("SPACES_ENDPOINT", "sfo2.digitaloceanspaces.com")
	viper.SetDefault("SPACES_REGION", "us-east-1")
	viper.SetDefault("SPACES_BUCKET", "")
	viper.SetDefault("SPACES_PATH_STYLE", false)
	viper.SetDefault("UPLOAD_PREFIX", "portfolio_thumbnails")
	viper.SetDefault("UPLOAD_MAX_MB", 10)
	viper.SetDefault("UPLOAD_TIMEOUT", "30s")
	viper.SetDefault("AUTH_URL", "")
	viper.SetDefault("AUTH_PATH", "/auth/authenticateUsingToken")
	viper.SetDefault("AUTH_TIMEOUT", "5s")
	viper.SetDefault("AUTH_JWT_SECRET", "")
	viper.SetDefault("AUTH_CACHE_TTL", "0s")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("RATE_LIMIT_FAIL_CLOSED", false)
	viper.SetDefault("ALLOWED_ORIGINS", "*")
	viper.SetDefault("FEATURE_FLAGS", "")
	viper.SetDefault("TRACING_EXPORTER", "none")
	viper.SetDefault("OTLP_ENDPOINT", "localhost:4318")
	viper.SetDefault("LOG_LEVEL", "info")
}

func (c *Config) normalize() {
	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	// Only "prod" selects the production schema; everything else falls back to dev.
	if strings.TrimSpace(c.DBSchema) != "prod" {
		c.DBSchema = "dev"
	}
	c.AuthURL = strings.TrimRight(strings.TrimSpace(c.AuthURL), "/")
	if c.AuthPath != "" && !strings.HasPrefix(c.AuthPath, "/") {
		c.AuthPath = "/" + c.AuthPath
	}
}

// Validate ensures that required configuration values are present.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required: there was no connection string specified for the store")
	}
	switch c.StoreDriver {
	case DriverMySQL, DriverPostgres, DriverSQLite, DriverMongo:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.UploadMaxMB <= 0 {
		return errors.New("UPLOAD_MAX_MB must be positive")
	}

	if c.IsProduction() {
		if c.StoreDriver == DriverSQLite {
			return errors.New("sqlite store is not supported in production")
		}
		if c.AuthURL == "" && c.AuthJWTSecret == "" {
			return errors.New("AUTH_URL or AUTH_JWT_SECRET is required in production")
		}
		if c.AuthJWTSecret != "" && len(c.AuthJWTSecret) < 32 {
			return errors.New("AUTH_JWT_SECRET must be at least 32 characters in production")
		}
	} else if c.AuthURL == "" && c.AuthJWTSecret == "" {
		log.Println("WARNING: neither AUTH_URL nor AUTH_JWT_SECRET is set; every write will be rejected as unauthenticated.")
	}

	return nil
}

// IsProduction reports whether the service runs with the production profile.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// UploadsConfigured reports whether object storage credentials and a bucket are present.
func (c *Config) UploadsConfigured() bool {
	return c.SpacesKey != "" && c.SpacesSecret != "" && c.SpacesBucket != ""
}

// IsRelational reports whether the configured store is a SQL database.
func (c *Config) IsRelational() bool {
	return c.StoreDriver != DriverMongo
}
