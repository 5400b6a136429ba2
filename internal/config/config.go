// Package config loads application settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// InsecureDefaultSecret signs sessions when SECRET_KEY is unset. It is
// public, so any deployment relying on it has forgeable sessions.
const InsecureDefaultSecret = "change-me-to-a-long-random-secret-key"

// Config holds application level configuration.
type Config struct {
	Port         string
	SecretKey    string
	DatabaseURL  string // Postgres; empty selects the SQLite fallback
	DatabasePath string
	RedisURL     string
	CookieSecure bool
	BcryptCost   int
	SessionTTL   time.Duration
	LoginPerMin  int
}

// Load reads an optional .env file and then builds Config from the
// environment with defaults. Variables already set in the environment win
// over the .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Port:         getEnv("PORT", "5000"),
		SecretKey:    getEnv("SECRET_KEY", InsecureDefaultSecret),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabasePath: getEnv("DATABASE_PATH", "database.db"),
		RedisURL:     os.Getenv("REDIS_URL"),
		// Default to secure cookies; disable only for local development.
		CookieSecure: os.Getenv("COOKIE_SECURE") != "false",
	}

	var err error
	if cfg.BcryptCost, err = getEnvInt("BCRYPT_COST", 12); err != nil {
		return nil, err
	}
	if cfg.LoginPerMin, err = getEnvInt("LOGIN_RATE_PER_MIN", 10); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getEnvDuration("SESSION_TTL", 24*time.Hour); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.BcryptCost < 4 || c.BcryptCost > 14 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", c.BcryptCost)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.LoginPerMin <= 0 {
		return fmt.Errorf("LOGIN_RATE_PER_MIN must be positive, got %d", c.LoginPerMin)
	}
	if c.SecretKey == "" {
		return errors.New("SECRET_KEY must not be empty")
	}
	return nil
}

// InsecureSecret reports whether sessions are signed with the built-in key.
func (c *Config) InsecureSecret() bool {
	return c.SecretKey == InsecureDefaultSecret
}

// LogWarnings reports risky settings at startup.
func (c *Config) LogWarnings() {
	if c.InsecureSecret() {
		slog.Warn("SECRET_KEY is not set; using the insecure built-in default. Set SECRET_KEY in production.")
	} else if len(c.SecretKey) < 32 {
		slog.Warn("SECRET_KEY is shorter than 32 characters", "length", len(c.SecretKey))
	}
	if !c.CookieSecure {
		slog.Warn("COOKIE_SECURE=false; cookies will be sent over plain HTTP")
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func getEnvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}
