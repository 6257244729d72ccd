// Package common provides shared utilities for Slate
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Slate
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Site        SiteConfig    `toml:"site"`
	Storage     StorageConfig `toml:"storage"`
	Auth        AuthConfig    `toml:"auth"`
	Notify      NotifyConfig  `toml:"notify"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// SiteConfig holds public-facing site settings.
type SiteConfig struct {
	// BaseURL is the public domain base URL used when building absolute
	// links in outbound emails (e.g. "https://slate.agency").
	BaseURL  string `toml:"base_url"`
	LoginURL string `toml:"login_url"` // login surface the route guard redirects to
}

// Storage backend constants.
const (
	StorageBackendBadger  = "badger"
	StorageBackendSurreal = "surreal"
)

// StorageConfig selects and configures the document store backend.
type StorageConfig struct {
	Backend string        `toml:"backend"` // "badger" (embedded, default) or "surreal"
	Badger  BadgerConfig  `toml:"badger"`
	Surreal SurrealConfig `toml:"surreal"`
}

// BadgerConfig holds the embedded store path.
type BadgerConfig struct {
	Path string `toml:"path"`
}

// SurrealConfig holds SurrealDB connection settings.
type SurrealConfig struct {
	Address   string `toml:"address"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
}

// AuthConfig holds session token configuration.
type AuthConfig struct {
	JWTSecret      string `toml:"jwt_secret"`
	TokenExpiry    string `toml:"token_expiry"`    // duration string, default "24h"
	SlidingRefresh bool   `toml:"sliding_refresh"` // reissue tokens >50% through lifetime
}

// GetTokenExpiry parses and returns the token expiry duration.
func (c *AuthConfig) GetTokenExpiry() time.Duration {
	d, err := time.ParseDuration(c.TokenExpiry)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// NotifyConfig holds transactional email provider configuration.
type NotifyConfig struct {
	BaseURL       string `toml:"base_url"`
	APIKey        string `toml:"api_key"`
	From          string `toml:"from"`           // sender used on every outbound message
	AdminAddress  string `toml:"admin_address"`  // operator inbox for inquiry alerts
	RedirectAllTo string `toml:"redirect_all_to"` // when set, reroutes submitter confirmations
	RateLimit     int    `toml:"rate_limit"`
	Timeout       string `toml:"timeout"`
}

// GetTimeout parses and returns the provider timeout duration
func (c *NotifyConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Site: SiteConfig{
			BaseURL:  "http://localhost:3000",
			LoginURL: "/login",
		},
		Storage: StorageConfig{
			Backend: StorageBackendBadger,
			Badger:  BadgerConfig{Path: "data/slate"},
			Surreal: SurrealConfig{
				Address:   "ws://localhost:8000/rpc",
				Username:  "root",
				Password:  "root",
				Namespace: "slate",
				Database:  "slate",
			},
		},
		Auth: AuthConfig{
			JWTSecret:      "dev-jwt-secret-change-in-production",
			TokenExpiry:    "24h",
			SlidingRefresh: true,
		},
		Notify: NotifyConfig{
			BaseURL:      "https://api.resend.com",
			From:         "Slate <noreply@slate.agency>",
			AdminAddress: "hello@slate.agency",
			RateLimit:    5,
			Timeout:      "30s",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("SLATE_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("SLATE_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("SLATE_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("SLATE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if v := os.Getenv("SLATE_SITE_BASE_URL"); v != "" {
		config.Site.BaseURL = v
	}

	// Storage overrides
	if v := os.Getenv("SLATE_STORAGE_BACKEND"); v != "" {
		config.Storage.Backend = v
	}
	if v := os.Getenv("SLATE_BADGER_PATH"); v != "" {
		config.Storage.Badger.Path = v
	}
	if v := os.Getenv("SLATE_SURREAL_ADDRESS"); v != "" {
		config.Storage.Surreal.Address = v
	}
	if v := os.Getenv("SLATE_SURREAL_USERNAME"); v != "" {
		config.Storage.Surreal.Username = v
	}
	if v := os.Getenv("SLATE_SURREAL_PASSWORD"); v != "" {
		config.Storage.Surreal.Password = v
	}

	// Auth overrides
	if v := os.Getenv("SLATE_AUTH_JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}
	if v := os.Getenv("SLATE_AUTH_TOKEN_EXPIRY"); v != "" {
		config.Auth.TokenExpiry = v
	}

	// Notify overrides
	if v := os.Getenv("SLATE_NOTIFY_API_KEY"); v != "" {
		config.Notify.APIKey = v
	}
	if v := os.Getenv("SLATE_NOTIFY_FROM"); v != "" {
		config.Notify.From = v
	}
	if v := os.Getenv("SLATE_NOTIFY_ADMIN_ADDRESS"); v != "" {
		config.Notify.AdminAddress = v
	}
	if v := os.Getenv("SLATE_NOTIFY_REDIRECT_ALL_TO"); v != "" {
		config.Notify.RedirectAllTo = v
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
