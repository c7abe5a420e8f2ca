package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	Env               string        `env:"ENV" envDefault:"production"`
	Port              string        `env:"PORT" envDefault:"8080"`
	StoreDriver       string        `env:"STORE_DRIVER" envDefault:"postgres"`
	DatabaseURL       string        `env:"DATABASE_URL"`
	WebJWTSecret      string        `env:"WEB_JWT_SECRET,required"`
	WebJWTAudience    string        `env:"WEB_JWT_AUDIENCE" envDefault:"authenticated"`
	ChatJWTSecret     string        `env:"CHAT_JWT_SECRET,required"`
	TimerSegmentType  string        `env:"TIMER_SEGMENT_TYPE" envDefault:"Timer"`
	ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" envDefault:"10s"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_DRIVER=%s", StoreDriverPostgres)
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreDriverPostgres, StoreDriverMemory, c.StoreDriver)
	}
	if c.WebJWTSecret == "" {
		return fmt.Errorf("WEB_JWT_SECRET is required")
	}
	if c.ChatJWTSecret == "" {
		return fmt.Errorf("CHAT_JWT_SECRET is required")
	}
	if c.WebJWTSecret == c.ChatJWTSecret {
		return fmt.Errorf("WEB_JWT_SECRET and CHAT_JWT_SECRET must differ")
	}
	if c.TimerSegmentType == "" {
		return fmt.Errorf("TIMER_SEGMENT_TYPE must not be empty")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
