package httpx

import (
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/nptech/account-gateway/internal/session"
)

// AuthTransport injects the current access token as a bearer token on
// outgoing backend requests and reports every 401 response so the
// caller can tear the session down, regardless of which request
// triggered it.
type AuthTransport struct {
	Base    http.RoundTripper
	Session session.Reader
	Logger  *slog.Logger
	// Skip exempts requests (e.g. the backend's own auth endpoints)
	// from token injection.
	Skip func(*http.Request) bool
	// OnUnauthorized runs on a 401 response; concurrent 401s trigger
	// it once.
	OnUnauthorized func(r *http.Request)

	signingOut atomic.Bool
}

// RoundTrip implements http.RoundTripper.
func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	if t.Skip == nil || !t.Skip(req) {
		if token := t.Session.Snapshot().AccessToken; token != "" && req.Header.Get("Authorization") == "" {
			req = req.Clone(req.Context())
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && t.OnUnauthorized != nil {
		if t.signingOut.CompareAndSwap(false, true) {
			if t.Logger != nil {
				t.Logger.Warn("backend returned 401, signing out",
					slog.String("path", req.URL.Path))
			}
			t.OnUnauthorized(req)
			t.signingOut.Store(false)
		}
	}
	return resp, err
}
