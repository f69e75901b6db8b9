// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Store drivers.
const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
)

// Identity providers.
const (
	AuthFirebase = "firebase"
	AuthJWT      = "jwt"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`
	// Port overrides AppPort when set, as most PaaS platforms inject PORT.
	Port int `env:"PORT"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Document store
	StoreDriver string `env:"STORE_DRIVER" envDefault:"mongo"`

	// MongoDB. MONGO_URI wins over the DB_USER/DB_PASS/MONGO_HOST triple.
	MongoURI              string `env:"MONGO_URI"`
	DBUser                string `env:"DB_USER"`
	DBPass                string `env:"DB_PASS"`
	MongoHost             string `env:"MONGO_HOST"`
	MongoAppName          string `env:"MONGO_APP_NAME"`
	MongoDatabase         string `env:"MONGO_DATABASE" envDefault:"PawMartDB"`
	MongoCollectionSuffix string `env:"MONGO_COLLECTION_SUFFIX" envDefault:"Collection"`

	// PostgreSQL
	DatabaseURL string `env:"DATABASE_URL"`

	// Identity provider
	AuthProvider string `env:"AUTH_PROVIDER" envDefault:"firebase"`
	// FBServiceKey is the base64-encoded Firebase service account JSON.
	FBServiceKey string `env:"FB_SERVICE_KEY"`
	JWTSecret    string `env:"JWT_SECRET"`
	JWTIssuer    string `env:"JWT_ISSUER"`

	// Size of the latest listings feed
	LatestListingsLimit int `env:"LATEST_LISTINGS_LIMIT" envDefault:"6"`

	// CORS configuration
	// Comma-separated list of allowed origins, "*" for any.
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// ListenPort returns PORT when set, APP_PORT otherwise.
func (c *Config) ListenPort() int {
	if c.Port > 0 {
		return c.Port
	}
	return c.AppPort
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// MongoConnectionURI returns MONGO_URI, or an SRV URI assembled from
// DB_USER, DB_PASS and MONGO_HOST.
func (c *Config) MongoConnectionURI() string {
	if c.MongoURI != "" {
		return c.MongoURI
	}

	u := url.URL{
		Scheme: "mongodb+srv",
		User:   url.UserPassword(c.DBUser, c.DBPass),
		Host:   c.MongoHost,
		Path:   "/",
	}
	if c.MongoAppName != "" {
		u.RawQuery = url.Values{"appName": []string{c.MongoAppName}}.Encode()
	}
	return u.String()
}

// Validate checks that the selected store and identity provider have
// everything they need.
func (c *Config) Validate() error {
	var errs []error

	switch c.StoreDriver {
	case StoreMongo:
		if c.MongoURI == "" && (c.DBUser == "" || c.DBPass == "" || c.MongoHost == "") {
			errs = append(errs, errors.New("mongo store requires MONGO_URI or DB_USER, DB_PASS and MONGO_HOST"))
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("postgres store requires DATABASE_URL"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}

	switch c.AuthProvider {
	case AuthFirebase:
		if c.FBServiceKey == "" {
			errs = append(errs, errors.New("firebase auth requires FB_SERVICE_KEY"))
		}
	case AuthJWT:
		if c.JWTSecret == "" {
			errs = append(errs, errors.New("jwt auth requires JWT_SECRET"))
		} else if c.IsProduction() && len(c.JWTSecret) < 32 {
			errs = append(errs, errors.New("JWT_SECRET must be at least 32 bytes in production"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown AUTH_PROVIDER %q", c.AuthProvider))
	}

	if c.LatestListingsLimit <= 0 {
		errs = append(errs, errors.New("LATEST_LISTINGS_LIMIT must be positive"))
	}

	return errors.Join(errs...)
}

// Load parses environment variables and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
