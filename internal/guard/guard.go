// Package guard implements route admission decisions: authenticated
// routes, routes that additionally require a complete backend profile,
// and guest-only routes.
package guard

import (
	"context"
	"log/slog"

	"github.com/nptech/account-gateway/internal/ports"
	"github.com/nptech/account-gateway/internal/session"
)

// Decision is the outcome of a guard check. A denied decision carries
// the path the caller should be redirected to.
type Decision struct {
	Allowed    bool
	RedirectTo string
}

var allow = Decision{Allowed: true}

// ProfileChecker reports whether the current user's backend profile is
// complete.
type ProfileChecker interface {
	IsComplete(ctx context.Context) (bool, error)
}

// Paths holds the redirect targets the guards use.
type Paths struct {
	SignIn          string
	CompleteProfile string
	Home            string
}

// Options configures New.
type Options struct {
	Session session.Reader
	Checker ProfileChecker
	// Vault records the URL a denied navigation attempted, so sign-in
	// can send the user back.
	Vault  ports.TokenVault
	Paths  Paths
	Logger *slog.Logger
}

// Guard evaluates admission decisions against the live session.
type Guard struct {
	session session.Reader
	checker ProfileChecker
	vault   ports.TokenVault
	paths   Paths
	logger  *slog.Logger
}

// New creates a guard.
func New(opts Options) *Guard {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{
		session: opts.Session,
		checker: opts.Checker,
		vault:   opts.Vault,
		paths:   opts.Paths,
		logger:  logger.With("component", "guard"),
	}
}

// Authenticated admits signed-in sessions. A denied request has its
// target URL remembered and is redirected to sign-in.
func (g *Guard) Authenticated(ctx context.Context, targetURL string) Decision {
	if g.session.Snapshot().IsAuthenticated {
		return allow
	}
	g.rememberURL(ctx, targetURL)
	return Decision{RedirectTo: g.paths.SignIn}
}

// ProfileComplete admits signed-in sessions whose backend profile
// exists and matches the session email. Unauthenticated requests go to
// sign-in; authenticated ones without a complete profile go to the
// complete-profile page. Lookup failures deny without surfacing the
// error to the caller.
func (g *Guard) ProfileComplete(ctx context.Context, targetURL string) Decision {
	if !g.session.Snapshot().IsAuthenticated {
		g.rememberURL(ctx, targetURL)
		return Decision{RedirectTo: g.paths.SignIn}
	}

	complete, err := g.checker.IsComplete(ctx)
	if err != nil {
		g.logger.Warn("profile check failed, denying", "error", err)
	}
	if !complete {
		// Remembering the complete-profile page itself would trap the
		// user in a redirect loop after they finish.
		if targetURL != g.paths.CompleteProfile {
			g.rememberURL(ctx, targetURL)
		}
		return Decision{RedirectTo: g.paths.CompleteProfile}
	}
	return allow
}

// Guest admits only signed-out sessions; signed-in ones are sent home.
func (g *Guard) Guest(_ context.Context) Decision {
	if g.session.Snapshot().IsAuthenticated {
		return Decision{RedirectTo: g.paths.Home}
	}
	return allow
}

func (g *Guard) rememberURL(ctx context.Context, targetURL string) {
	if targetURL == "" || g.vault == nil {
		return
	}
	if err := g.vault.SaveAttemptedURL(ctx, targetURL); err != nil {
		g.logger.Warn("failed to remember attempted url", "error", err)
	}
}
