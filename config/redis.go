package config

import (
	"fmt"
	"time"
)

// RedisConfig locates the Redis instance backing the persistent token
// vault.
type RedisConfig struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     int    `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	// TokenTTL bounds how long remembered sessions survive. Zero keeps
	// them until sign-out.
	TokenTTL time.Duration `env:"REDIS_TOKEN_TTL" envDefault:"720h"`
}

// Addr returns the host:port address.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
