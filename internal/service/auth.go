package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/nptech/account-gateway/internal/domain/auth"
	"github.com/nptech/account-gateway/internal/ports"
)

// AuthServiceOptions configures NewAuthService.
type AuthServiceOptions struct {
	Provider ports.IdentityProvider
	Tag      ProviderTag
	Factory  *Factory
	Policy   auth.PasswordPolicy
	Logger   *slog.Logger
}

// AuthService is the provider-agnostic facade the HTTP layer talks to.
// Every operation passes straight through to the active provider; the
// only extra capability is swapping that provider at runtime.
type AuthService struct {
	factory *Factory
	policy  auth.PasswordPolicy
	logger  *slog.Logger

	mu       sync.RWMutex
	provider ports.IdentityProvider
	tag      ProviderTag
}

var _ ports.IdentityProvider = (*AuthService)(nil)

// NewAuthService creates the facade around an already built provider.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		factory:  opts.Factory,
		policy:   opts.Policy,
		logger:   logger.With("component", "auth_service"),
		provider: opts.Provider,
		tag:      opts.Tag,
	}
}

// ProviderTag returns the tag of the active provider.
func (s *AuthService) ProviderTag() ProviderTag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tag
}

func (s *AuthService) active() ports.IdentityProvider {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.provider
}

// SwitchProvider builds the provider for the tag and makes it active.
// The previous provider is signed out first so its session state never
// leaks across the switch. On build failure the current provider stays
// active.
func (s *AuthService) SwitchProvider(ctx context.Context, tag ProviderTag) error {
	next, err := s.factory.Build(ctx, tag)
	if err != nil {
		return err
	}
	prev := s.active()
	if err := prev.SignOut(ctx); err != nil {
		s.logger.Warn("sign-out before provider switch failed", "error", err)
	}
	s.mu.Lock()
	s.provider = next
	s.tag = tag
	s.mu.Unlock()
	s.logger.Info("switched auth provider", "provider", tag)
	return nil
}

// ValidatePassword evaluates the local password policy. Enforcement
// happens at call sites; the facade itself stays a pass-through.
func (s *AuthService) ValidatePassword(password string) auth.PasswordCheck {
	return s.policy.Validate(password)
}

func (s *AuthService) SignUp(ctx context.Context, in ports.SignUpInput) (ports.SignUpResult, error) {
	return s.active().SignUp(ctx, in)
}

func (s *AuthService) ConfirmSignUp(ctx context.Context, username, code string) error {
	return s.active().ConfirmSignUp(ctx, username, code)
}

func (s *AuthService) ResendVerificationCode(ctx context.Context, username string) (*auth.CodeDelivery, error) {
	return s.active().ResendVerificationCode(ctx, username)
}

func (s *AuthService) SignIn(ctx context.Context, in ports.SignInInput) error {
	return s.active().SignIn(ctx, in)
}

func (s *AuthService) SignOut(ctx context.Context) error {
	return s.active().SignOut(ctx)
}

func (s *AuthService) ForgotPassword(ctx context.Context, username string) error {
	return s.active().ForgotPassword(ctx, username)
}

func (s *AuthService) ConfirmForgotPassword(ctx context.Context, in ports.ConfirmForgotInput) error {
	return s.active().ConfirmForgotPassword(ctx, in)
}

func (s *AuthService) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	return s.active().ChangePassword(ctx, oldPassword, newPassword)
}

func (s *AuthService) GetCurrentUser(ctx context.Context) (auth.Identity, error) {
	return s.active().GetCurrentUser(ctx)
}

func (s *AuthService) UpdateUserAttributes(ctx context.Context, attributes map[string]string) error {
	return s.active().UpdateUserAttributes(ctx, attributes)
}

func (s *AuthService) DeleteUser(ctx context.Context) error {
	return s.active().DeleteUser(ctx)
}

func (s *AuthService) RefreshSession(ctx context.Context) error {
	return s.active().RefreshSession(ctx)
}

func (s *AuthService) Hydrate(ctx context.Context) error {
	return s.active().Hydrate(ctx)
}
