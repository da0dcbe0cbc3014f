package guard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/nptech/account-gateway/internal/adapters/tokenvault"
	"github.com/nptech/account-gateway/internal/domain/auth"
	"github.com/nptech/account-gateway/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	complete bool
	err      error
}

func (c *stubChecker) IsComplete(context.Context) (bool, error) {
	return c.complete, c.err
}

var testPaths = Paths{
	SignIn:          "/signin",
	CompleteProfile: "/complete-profile",
	Home:            "/",
}

func newTestGuard(w *session.Writer, checker ProfileChecker, vault *tokenvault.MemoryVault) *Guard {
	return New(Options{
		Session: w.Reader(),
		Checker: checker,
		Vault:   vault,
		Paths:   testPaths,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func signIn(w *session.Writer) {
	w.Apply(session.Patch{
		IsAuthenticated: session.Bool(true),
		User:            &auth.Identity{ID: "u1", Email: "user@example.com"},
		AccessToken:     session.String("at"),
	})
}

func TestAuthenticatedAllowsSignedIn(t *testing.T) {
	w := session.New()
	signIn(w)
	g := newTestGuard(w, &stubChecker{}, tokenvault.NewMemoryVault())

	decision := g.Authenticated(context.Background(), "/reports")

	assert.True(t, decision.Allowed)
	assert.Empty(t, decision.RedirectTo)
}

func TestAuthenticatedDeniesAndRemembersURL(t *testing.T) {
	w := session.New()
	vault := tokenvault.NewMemoryVault()
	g := newTestGuard(w, &stubChecker{}, vault)

	decision := g.Authenticated(context.Background(), "/reports/42")

	assert.False(t, decision.Allowed)
	assert.Equal(t, "/signin", decision.RedirectTo)

	url, err := vault.TakeAttemptedURL(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/reports/42", url)
}

func TestProfileCompleteUnauthenticatedGoesToSignIn(t *testing.T) {
	w := session.New()
	vault := tokenvault.NewMemoryVault()
	g := newTestGuard(w, &stubChecker{complete: true}, vault)

	decision := g.ProfileComplete(context.Background(), "/orders")

	assert.False(t, decision.Allowed)
	assert.Equal(t, "/signin", decision.RedirectTo)
}

func TestProfileCompleteAllowsCompleteProfile(t *testing.T) {
	w := session.New()
	signIn(w)
	g := newTestGuard(w, &stubChecker{complete: true}, tokenvault.NewMemoryVault())

	decision := g.ProfileComplete(context.Background(), "/orders")

	assert.True(t, decision.Allowed)
}

func TestProfileCompleteIncompleteRedirects(t *testing.T) {
	w := session.New()
	signIn(w)
	vault := tokenvault.NewMemoryVault()
	g := newTestGuard(w, &stubChecker{complete: false}, vault)

	decision := g.ProfileComplete(context.Background(), "/orders")

	assert.False(t, decision.Allowed)
	assert.Equal(t, "/complete-profile", decision.RedirectTo)

	url, err := vault.TakeAttemptedURL(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/orders", url)
}

func TestProfileCompleteDoesNotRememberOwnPage(t *testing.T) {
	w := session.New()
	signIn(w)
	vault := tokenvault.NewMemoryVault()
	g := newTestGuard(w, &stubChecker{complete: false}, vault)

	decision := g.ProfileComplete(context.Background(), "/complete-profile")

	assert.False(t, decision.Allowed)
	url, err := vault.TakeAttemptedURL(context.Background())
	require.NoError(t, err)
	assert.Empty(t, url, "redirect target must not be remembered")
}

func TestProfileCompleteCheckerErrorDeniesSilently(t *testing.T) {
	w := session.New()
	signIn(w)
	g := newTestGuard(w, &stubChecker{err: errors.New("backend down")}, tokenvault.NewMemoryVault())

	decision := g.ProfileComplete(context.Background(), "/orders")

	assert.False(t, decision.Allowed)
	assert.Equal(t, "/complete-profile", decision.RedirectTo)
}

func TestGuestAllowsSignedOut(t *testing.T) {
	g := newTestGuard(session.New(), &stubChecker{}, tokenvault.NewMemoryVault())

	assert.True(t, g.Guest(context.Background()).Allowed)
}

func TestGuestRedirectsSignedInHome(t *testing.T) {
	w := session.New()
	signIn(w)
	g := newTestGuard(w, &stubChecker{}, tokenvault.NewMemoryVault())

	decision := g.Guest(context.Background())

	assert.False(t, decision.Allowed)
	assert.Equal(t, "/", decision.RedirectTo)
}
