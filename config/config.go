// Package config loads gateway configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// AppConfig is the root configuration for the gateway.
type AppConfig struct {
	// Env names the deployment environment (development, staging,
	// production).
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Auth    AuthConfig
	Redis   RedisConfig
	Backend BackendConfig
	HTTP    HTTPConfig
}

// Load parses the environment into an AppConfig and validates it.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}
	if err := cfg.Sanitize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Sanitize validates cross-field constraints that env tags cannot
// express.
func (c *AppConfig) Sanitize() error {
	if err := c.Auth.sanitize(); err != nil {
		return err
	}
	if err := c.Backend.sanitize(); err != nil {
		return err
	}
	return nil
}

// IsProduction reports whether the gateway runs in production mode.
func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}
