// Package ports defines interfaces (hexagonal ports) for auth-related
// behavior. Implementations live in internal/adapters; orchestration in
// internal/service.
package ports

import (
	"context"
	"errors"

	"github.com/nptech/account-gateway/internal/domain/auth"
	"github.com/nptech/account-gateway/internal/domain/model"
)

// SignUpInput carries inputs for registering a new user.
type SignUpInput struct {
	Email      string
	Password   string
	Attributes map[string]string
}

// SignUpResult is the outcome of a successful sign-up.
type SignUpResult struct {
	UserID            string
	NeedsVerification bool
	Delivery          *auth.CodeDelivery
}

// SignInInput carries inputs for the username/password flow. RememberMe
// selects the persistent token vault instead of the process-scoped one.
type SignInInput struct {
	Username   string
	Password   string
	RememberMe bool
}

// ConfirmForgotInput groups parameters for completing a password reset.
type ConfirmForgotInput struct {
	Username    string
	Code        string
	NewPassword string
}

// IdentityProvider performs identity operations against one external
// identity service and translates results into session-state updates
// plus the auth error taxonomy. All failures return *auth.Error.
type IdentityProvider interface {
	SignUp(ctx context.Context, in SignUpInput) (SignUpResult, error)
	ConfirmSignUp(ctx context.Context, username, code string) error
	ResendVerificationCode(ctx context.Context, username string) (*auth.CodeDelivery, error)

	// SignIn populates the session store on success. A provider
	// challenge is non-terminal: it surfaces as an error-shaped state
	// (session error set to the challenge name, session not populated).
	SignIn(ctx context.Context, in SignInInput) error
	// SignOut revokes the session remotely best-effort and always
	// clears local state and stored tokens.
	SignOut(ctx context.Context) error

	ForgotPassword(ctx context.Context, username string) error
	ConfirmForgotPassword(ctx context.Context, in ConfirmForgotInput) error
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error

	GetCurrentUser(ctx context.Context) (auth.Identity, error)
	UpdateUserAttributes(ctx context.Context, attributes map[string]string) error
	DeleteUser(ctx context.Context) error
	RefreshSession(ctx context.Context) error

	// Hydrate restores a previously persisted session at startup,
	// optimistically marking it authenticated and then revalidating.
	Hydrate(ctx context.Context) error
}

// TokenSet is the persisted shape of an authenticated session.
type TokenSet struct {
	AccessToken  string
	IDToken      string
	RefreshToken string
	// UserJSON is the cached identity serialized for optimistic
	// rehydration at startup.
	UserJSON   []byte
	RememberMe bool
}

// ErrNoTokens is returned by TokenVault.Load when the vault is empty.
var ErrNoTokens = errors.New("no stored tokens")

// TokenVault persists tokens and the cached identity for one storage
// scope. Two scopes exist: persistent (survives restarts) and
// process-scoped; the rememberMe choice at sign-in selects one.
type TokenVault interface {
	Save(ctx context.Context, ts TokenSet) error
	Load(ctx context.Context) (TokenSet, error)
	Clear(ctx context.Context) error

	// SaveAttemptedURL records a navigation blocked by a guard so the
	// caller can redirect back after sign-in. TakeAttemptedURL returns
	// and clears it; empty string means none was stored.
	SaveAttemptedURL(ctx context.Context, url string) error
	TakeAttemptedURL(ctx context.Context) (string, error)
}

// ProfileFinder looks up the backend profile for an email address.
// A nil profile with nil error means no profile exists.
type ProfileFinder interface {
	FindByEmail(ctx context.Context, email string) (*model.Profile, error)
}
