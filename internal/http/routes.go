package httpx

import (
	"log/slog"
	"net/http"

	"github.com/nptech/account-gateway/internal/guard"
)

// RouterOptions groups dependencies for NewRouter.
type RouterOptions struct {
	Auth   *AuthHandlers
	Guard  *guard.Guard
	Proxy  http.Handler
	Logger *slog.Logger
}

// NewRouter assembles the gateway's routes. The /auth surface is open
// (its handlers fail on their own when no session exists); the /api
// proxy sits behind the guards, with the profiles collection only
// requiring authentication so a fresh user can create their profile.
func NewRouter(opts RouterOptions) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	a := opts.Auth
	mux.HandleFunc("POST /auth/signup", a.SignUp)
	mux.HandleFunc("POST /auth/signup/confirm", a.ConfirmSignUp)
	mux.HandleFunc("POST /auth/signup/resend", a.ResendCode)
	mux.HandleFunc("POST /auth/signin", a.SignIn)
	mux.HandleFunc("POST /auth/signout", a.SignOut)
	mux.HandleFunc("POST /auth/password/forgot", a.ForgotPassword)
	mux.HandleFunc("POST /auth/password/forgot/confirm", a.ConfirmForgotPassword)
	mux.HandleFunc("POST /auth/password/validate", a.ValidatePassword)
	mux.HandleFunc("GET /auth/status", a.Status)
	mux.HandleFunc("GET /auth/guard", a.GuardDecision)
	mux.HandleFunc("POST /auth/provider", a.SwitchProvider)

	authed := RequireGuard(opts.Guard.Authenticated)
	mux.Handle("POST /auth/password", authed(http.HandlerFunc(a.ChangePassword)))
	mux.Handle("POST /auth/refresh", authed(http.HandlerFunc(a.Refresh)))
	mux.Handle("PUT /auth/attributes", authed(http.HandlerFunc(a.UpdateAttributes)))
	mux.Handle("DELETE /auth/user", authed(http.HandlerFunc(a.DeleteAccount)))
	mux.Handle("GET /auth/me", authed(http.HandlerFunc(a.Me)))
	mux.Handle("GET /auth/claims", authed(http.HandlerFunc(a.Claims)))

	if opts.Proxy != nil {
		proxy := http.StripPrefix("/api", opts.Proxy)
		profileComplete := RequireGuard(opts.Guard.ProfileComplete)
		mux.Handle("/api/profiles", authed(proxy))
		mux.Handle("/api/profiles/", authed(proxy))
		mux.Handle("/api/", profileComplete(proxy))
	}

	var handler http.Handler = mux
	handler = BrowserDetection()(handler)
	handler = Logging(opts.Logger)(handler)
	handler = RequestID()(handler)
	handler = Recover(opts.Logger)(handler)
	return handler
}
