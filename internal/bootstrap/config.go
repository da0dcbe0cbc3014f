// Package bootstrap wires configuration, logging, and the auth
// components into a runnable gateway.
package bootstrap

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/nptech/account-gateway/config"
)

// InitLogger creates the process-wide JSON logger.
func InitLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

// LoadConfig reads an optional .env file and parses the environment.
func LoadConfig() (*config.AppConfig, error) {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()
	return config.Load()
}
