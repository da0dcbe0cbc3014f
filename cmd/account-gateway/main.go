// Command account-gateway runs the authentication gateway: it owns the
// process's session against the configured identity provider and
// fronts the resource backend with guarded, token-carrying requests.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/nptech/account-gateway/internal/bootstrap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logger := bootstrap.InitLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	rdb, err := bootstrap.InitRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()

	comps, err := bootstrap.BuildAuth(ctx, bootstrap.AuthOptions{
		Config: cfg,
		Redis:  rdb,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	// Restore a remembered session before accepting traffic.
	if err := comps.Service.Hydrate(ctx); err != nil {
		logger.Warn("session hydration failed", "error", err)
	}

	srv, err := bootstrap.BuildServer(cfg, comps, logger)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
