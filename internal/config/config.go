// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// devSecretKey signs sessions when DEBUG is on and SECRET_KEY is unset.
const devSecretKey = "tinggo-insecure-development-key-change-in-production"

type Config struct {
	Debug        bool          `env:"DEBUG" envDefault:"true"`
	SecretKey    string        `env:"SECRET_KEY"`
	AllowedHosts []string      `env:"ALLOWED_HOSTS" envSeparator:"," envDefault:"localhost,127.0.0.1"`
	EmailBackend string        `env:"EMAIL_BACKEND" envDefault:"console"`
	Port         int           `env:"PORT" envDefault:"8080"`
	DatabaseURL  string        `env:"DATABASE_URL" envDefault:"tinggo.db"`
	CookieSecure bool          `env:"COOKIE_SECURE" envDefault:"true"`
	BcryptCost   int           `env:"BCRYPT_COST" envDefault:"12"`
	LanguageCode string        `env:"LANGUAGE_CODE" envDefault:"en"`
	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	RatePerMin   int           `env:"RATE_LIMIT_PER_MIN" envDefault:"10"`

	Supabase struct {
		URL string `env:"SUPABASE_URL,required,notEmpty"`
		Key string `env:"SUPABASE_KEY,required,notEmpty"`
	}
}

// Load reads .env when present, then the process environment.
func Load() (Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()
	return Parse()
}

// Parse reads the process environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.SecretKey == "" {
		if !c.Debug {
			return errors.New("SECRET_KEY is required when DEBUG is false")
		}
		c.SecretKey = devSecretKey
	}
	if !c.Debug && len(c.SecretKey) < 32 {
		return errors.New("SECRET_KEY must be at least 32 characters for HMAC-SHA256 security")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 14 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", c.BcryptCost)
	}
	if c.RatePerMin < 1 {
		return fmt.Errorf("RATE_LIMIT_PER_MIN must be positive, got %d", c.RatePerMin)
	}
	for i, h := range c.AllowedHosts {
		c.AllowedHosts[i] = strings.ToLower(strings.TrimSpace(h))
	}
	return nil
}

// UsesPostgres reports whether DatabaseURL selects the Postgres store.
func (c Config) UsesPostgres() bool {
	return strings.HasPrefix(c.DatabaseURL, "postgres://") || strings.HasPrefix(c.DatabaseURL, "postgresql://")
}

// Addr is the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
