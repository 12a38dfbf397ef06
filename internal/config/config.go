// Package config loads and validates configuration at startup.
// Sources, later ones winning: an optional .env file, an optional YAML file,
// then environment variables. Fail-fast: if a required value is missing,
// Load returns an error and the process exits.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration for the board service.
type Config struct {
	Port         string        `yaml:"port"`
	DatabaseURL  string        `yaml:"database_url"`
	RedisURL     string        `yaml:"redis_url"`
	LogLevel     string        `yaml:"log_level"`
	DBMaxConns   int32         `yaml:"db_max_conns"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`

	RateLimit struct {
		RPS   float64 `yaml:"rps"`
		Burst int     `yaml:"burst"`
	} `yaml:"rate_limit"`

	// ExpirySchedule is the cron spec used by cmd/expirer.
	ExpirySchedule string `yaml:"expiry_schedule"`
}

// Load reads configuration and returns a validated Config.
// path is the YAML file to read; an empty path falls back to CONFIG_FILE,
// and a missing file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	if err := cfg.loadFromEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	cfg := &Config{
		Port:           "8083",
		LogLevel:       "info",
		DBMaxConns:     10,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		ExpirySchedule: "@every 1h",
	}
	cfg.RateLimit.RPS = 5
	cfg.RateLimit.Burst = 20
	return cfg
}

func (c *Config) loadFromEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		c.Port = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.RedisURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("EXPIRY_SCHEDULE"); v != "" {
		c.ExpirySchedule = v
	}

	if v := os.Getenv("DB_MAX_CONNS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil || n < 1 {
			return fmt.Errorf("DB_MAX_CONNS must be a positive 32-bit integer, got %q", v)
		}
		c.DBMaxConns = int32(n)
	}
	if v := os.Getenv("READ_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("READ_TIMEOUT: %w", err)
		}
		c.ReadTimeout = d
	}
	if v := os.Getenv("WRITE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("WRITE_TIMEOUT: %w", err)
		}
		c.WriteTimeout = d
	}
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("RATE_LIMIT_RPS must be a positive number, got %q", v)
		}
		c.RateLimit.RPS = f
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return fmt.Errorf("RATE_LIMIT_BURST must be a positive integer, got %q", v)
		}
		c.RateLimit.Burst = n
	}
	return nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}
	if c.DBMaxConns < 1 {
		return fmt.Errorf("db_max_conns must be positive, got %d", c.DBMaxConns)
	}
	return nil
}
