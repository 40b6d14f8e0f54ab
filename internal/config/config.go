// internal/config/config.go
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StorageModePostgres = "postgres"
	StorageModeMemory   = "memory"
)

// Config holds all configuration for the application.
type Config struct {
	LogLevel           string        `mapstructure:"LOG_LEVEL"`
	HTTPAddr           string        `mapstructure:"HTTP_ADDR"`
	StorageMode        string        `mapstructure:"STORAGE"`
	DBURL              string        `mapstructure:"DB_URL"`
	MigrationsPath     string        `mapstructure:"MIGRATIONS_PATH"`
	GithubClientID     string        `mapstructure:"GITHUB_CLIENT_ID"`
	GithubClientSecret string        `mapstructure:"GITHUB_CLIENT_SECRET"`
	GithubCallbackURL  string        `mapstructure:"GITHUB_CALLBACK_URL"`
	GithubGraphQLURL   string        `mapstructure:"GITHUB_GRAPHQL_URL"`
	GithubAPIURL       string        `mapstructure:"GITHUB_API_URL"`
	JWTSecret          string        `mapstructure:"JWT_SECRET"`
	SessionTTL         time.Duration `mapstructure:"SESSION_TTL"`
	CookieSecure       bool          `mapstructure:"COOKIE_SECURE"`
	CacheTTL           time.Duration `mapstructure:"CACHE_TTL"`
	RepositoryLimit    int           `mapstructure:"REPOSITORY_LIMIT"`
	TopLanguages       int           `mapstructure:"TOP_LANGUAGES"`
}

// OAuthConfigured reports whether GitHub OAuth credentials were provided.
func (c *Config) OAuthConfigured() bool {
	return c.GithubClientID != "" && c.GithubClientSecret != ""
}

var defaults = map[string]any{
	"LOG_LEVEL":            "info",
	"HTTP_ADDR":            ":8080",
	"STORAGE":              StorageModePostgres,
	"DB_URL":               "",
	"MIGRATIONS_PATH":      "file://migrations",
	"GITHUB_CLIENT_ID":     "",
	"GITHUB_CLIENT_SECRET": "",
	"GITHUB_CALLBACK_URL":  "http://localhost:8080/auth/github/callback",
	"GITHUB_GRAPHQL_URL":   "https://api.github.com/graphql",
	"GITHUB_API_URL":       "https://api.github.com/",
	"JWT_SECRET":           "",
	"SESSION_TTL":          "168h",
	"COOKIE_SECURE":        false,
	"CACHE_TTL":            "30m",
	"REPOSITORY_LIMIT":     100,
	"TOP_LANGUAGES":        10,
}

// LoadConfig reads configuration from file and/or environment variables.
func LoadConfig() (*Config, error) {
	v := viper.New()

	// Every key gets a default so that Unmarshal sees env-only values too.
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// Load from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // Ignore error if file not found

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageMode {
	case StorageModePostgres:
		if c.DBURL == "" {
			return errors.New("DB_URL is a required configuration field")
		}
	case StorageModeMemory:
	default:
		return errors.New("STORAGE must be either 'postgres' or 'memory'")
	}
	if len(c.JWTSecret) < 16 {
		return errors.New("JWT_SECRET must be at least 16 characters")
	}
	if c.CacheTTL <= 0 {
		return errors.New("CACHE_TTL must be a positive duration")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be a positive duration")
	}
	if c.RepositoryLimit < 1 || c.RepositoryLimit > 100 {
		return errors.New("REPOSITORY_LIMIT must be between 1 and 100")
	}
	if c.TopLanguages < 1 {
		return errors.New("TOP_LANGUAGES must be at least 1")
	}
	return nil
}
