package bootstrap

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/nptech/account-gateway/config"
	httpx "github.com/nptech/account-gateway/internal/http"
)

// BuildServer assembles the HTTP server around the auth components.
func BuildServer(cfg *config.AppConfig, comps *AuthComponents, logger *slog.Logger) (*http.Server, error) {
	target, err := url.Parse(cfg.Backend.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: parse backend url: %w", err)
	}
	proxy := httpx.NewBackendProxy(target, comps.Transport, logger)

	handlers := httpx.NewAuthHandlers(httpx.AuthHandlersOptions{
		Service: comps.Service,
		Session: comps.Session.Reader(),
		Guard:   comps.Guard,
		Vault:   comps.Persistent,
		Logger:  logger,
	})

	router := httpx.NewRouter(httpx.RouterOptions{
		Auth:   handlers,
		Guard:  comps.Guard,
		Proxy:  proxy,
		Logger: logger,
	})

	return &http.Server{
		Addr:         cfg.HTTP.ListenAddr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}, nil
}
