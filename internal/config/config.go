// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :8000).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN; required for serving and migrations.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// RedisURL is the Redis connection URL used by the token denylist (e.g. redis://localhost:6379/0).
	RedisURL string `mapstructure:"REDIS_URL"`
	// JWTSecret is the shared HMAC secret for session and action tokens; required.
	JWTSecret string `mapstructure:"JWT_SECRET"`
	// JWTAccessTTL is the access token lifetime (e.g. "1h").
	JWTAccessTTL string `mapstructure:"JWT_ACCESS_TTL"`
	// JWTRefreshTTL is the refresh token lifetime (e.g. "48h").
	JWTRefreshTTL string `mapstructure:"JWT_REFRESH_TTL"`
	// ActionTokenMaxAge is the maximum age for email verification and password reset tokens (e.g. "24h").
	ActionTokenMaxAge string `mapstructure:"ACTION_TOKEN_MAX_AGE"`
	// BcryptCost is the bcrypt cost factor (4–31); default 12.
	BcryptCost int `mapstructure:"BCRYPT_COST"`
	// Domain is the public host used when composing verification and reset links (e.g. "localhost:8000").
	Domain string `mapstructure:"DOMAIN"`
	// PostmarkServerToken authenticates transactional sends; when empty, mail is logged instead of sent.
	PostmarkServerToken string `mapstructure:"POSTMARK_SERVER_TOKEN"`
	// PostmarkAccountToken is the Postmark account API token.
	PostmarkAccountToken string `mapstructure:"POSTMARK_ACCOUNT_TOKEN"`
	// MailFrom is the sender address for outbound mail.
	MailFrom string `mapstructure:"MAIL_FROM"`
	// OTLPEndpoint is the OTLP gRPC collector endpoint (e.g. http://localhost:4317); empty disables export.
	OTLPEndpoint string `mapstructure:"OTLP_ENDPOINT"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
	// LogLevel is the slog level: debug, info, warn, or error.
	LogLevel string `mapstructure:"LOG_LEVEL"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8000")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ACCESS_TTL", "1h")
	v.SetDefault("JWT_REFRESH_TTL", "48h")
	v.SetDefault("ACTION_TOKEN_MAX_AGE", "24h")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("DOMAIN", "localhost:8000")
	v.SetDefault("POSTMARK_SERVER_TOKEN", "")
	v.SetDefault("POSTMARK_ACCOUNT_TOKEN", "")
	v.SetDefault("MAIL_FROM", "noreply@bookly.local")
	v.SetDefault("OTLP_ENDPOINT", "")
	v.SetDefault("APP_ENV", "")
	v.SetDefault("LOG_LEVEL", "info")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("config: JWT_SECRET must be set")
	}
	if cfg.Env == "production" && len(cfg.JWTSecret) < 32 {
		return nil, errors.New("config: JWT_SECRET must be at least 32 bytes when APP_ENV=production")
	}

	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, errors.New("config: BCRYPT_COST must be between 4 and 31")
	}

	return &cfg, nil
}

// AccessTTL parses JWTAccessTTL as a time.Duration. Returns 1h if unset or invalid.
func (c *Config) AccessTTL() time.Duration {
	d, err := time.ParseDuration(c.JWTAccessTTL)
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}

// RefreshTTL parses JWTRefreshTTL as a time.Duration. Returns 48h if unset or invalid.
func (c *Config) RefreshTTL() time.Duration {
	d, err := time.ParseDuration(c.JWTRefreshTTL)
	if err != nil || d <= 0 {
		return 48 * time.Hour
	}
	return d
}

// ActionMaxAge parses ActionTokenMaxAge as a time.Duration. Returns 24h if unset or invalid.
func (c *Config) ActionMaxAge() time.Duration {
	d, err := time.ParseDuration(c.ActionTokenMaxAge)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}
