package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/nptech/account-gateway/config"
	"github.com/nptech/account-gateway/internal/adapters/cognito"
	"github.com/nptech/account-gateway/internal/adapters/restapi"
	"github.com/nptech/account-gateway/internal/adapters/tokenvault"
	"github.com/nptech/account-gateway/internal/guard"
	httpx "github.com/nptech/account-gateway/internal/http"
	"github.com/nptech/account-gateway/internal/ports"
	"github.com/nptech/account-gateway/internal/service"
	"github.com/nptech/account-gateway/internal/session"
	"github.com/redis/go-redis/v9"
)

// AuthComponents bundles the wired auth stack.
type AuthComponents struct {
	Session    *session.Writer
	Service    *service.AuthService
	Checker    *service.ProfileChecker
	Guard      *guard.Guard
	Persistent ports.TokenVault
	Scoped     ports.TokenVault
	// Transport carries the bearer token on backend calls and signs
	// the session out on 401 responses.
	Transport *httpx.AuthTransport
	Backend   *restapi.Client
	Profiles  *restapi.ProfileRepository
}

// AuthOptions groups dependencies for BuildAuth.
type AuthOptions struct {
	Config *config.AppConfig
	Redis  *redis.Client
	Logger *slog.Logger
}

// BuildAuth constructs the session store, token vaults, identity
// provider, backend client, and guards.
func BuildAuth(ctx context.Context, opts AuthOptions) (*AuthComponents, error) {
	cfg := opts.Config
	logger := opts.Logger

	writer := session.New()
	persistent := tokenvault.NewRedisVault(tokenvault.RedisOptions{
		Client: opts.Redis,
		TTL:    cfg.Redis.TokenTTL,
	})
	scoped := tokenvault.NewMemoryVault()

	factory := service.NewFactory()
	factory.Register(service.ProviderCognito, func(ctx context.Context) (ports.IdentityProvider, error) {
		return cognito.NewProvider(ctx, cognito.Options{
			Config: cognito.Config{
				Region:     cfg.Auth.Cognito.Region,
				UserPoolID: cfg.Auth.Cognito.UserPoolID,
				ClientID:   cfg.Auth.Cognito.ClientID,
			},
			Session:    writer,
			Persistent: persistent,
			Scoped:     scoped,
			Logger:     logger,
		})
	})

	tag := service.ProviderTag(cfg.Auth.Provider)
	provider, err := factory.Build(ctx, tag)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: build auth provider: %w", err)
	}

	svc := service.NewAuthService(service.AuthServiceOptions{
		Provider: provider,
		Tag:      tag,
		Factory:  factory,
		Policy:   cfg.Auth.Policy(),
		Logger:   logger,
	})

	transport := &httpx.AuthTransport{
		Session: writer.Reader(),
		Logger:  logger,
		Skip: func(r *http.Request) bool {
			return strings.HasPrefix(r.URL.Path, "/auth/")
		},
		OnUnauthorized: func(*http.Request) {
			if err := svc.SignOut(context.Background()); err != nil {
				logger.Warn("sign-out after 401 failed", "error", err)
			}
		},
	}

	backend := restapi.NewClient(restapi.Options{
		BaseURL: cfg.Backend.BaseURL,
		HTTPClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Backend.Timeout,
		},
		Logger: logger,
	})
	profiles := restapi.NewProfileRepository(backend)
	checker := service.NewProfileChecker(profiles, writer.Reader(), logger)

	g := guard.New(guard.Options{
		Session: writer.Reader(),
		Checker: checker,
		Vault:   persistent,
		Paths: guard.Paths{
			SignIn:          cfg.HTTP.Routes.SignInPath,
			CompleteProfile: cfg.HTTP.Routes.CompleteProfilePath,
			Home:            cfg.HTTP.Routes.HomePath,
		},
		Logger: logger,
	})

	return &AuthComponents{
		Session:    writer,
		Service:    svc,
		Checker:    checker,
		Guard:      g,
		Persistent: persistent,
		Scoped:     scoped,
		Transport:  transport,
		Backend:    backend,
		Profiles:   profiles,
	}, nil
}
