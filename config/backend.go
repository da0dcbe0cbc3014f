package config

import (
	"fmt"
	"net/url"
	"time"
)

// BackendConfig locates the resource backend that owns profiles and
// the other proxied collections.
type BackendConfig struct {
	BaseURL string        `env:"BACKEND_BASE_URL"`
	Timeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"30s"`
}

func (c BackendConfig) sanitize() error {
	if c.BaseURL == "" {
		return fmt.Errorf("config: BACKEND_BASE_URL is required")
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("config: BACKEND_BASE_URL is not a valid url: %w", err)
	}
	return nil
}
