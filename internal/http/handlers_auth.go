// Package httpx exposes the gateway's HTTP surface: auth endpoints,
// guard middleware, and the authenticated proxy to the resource
// backend.
package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/nptech/account-gateway/internal/adapters/cognito"
	"github.com/nptech/account-gateway/internal/domain/auth"
	"github.com/nptech/account-gateway/internal/guard"
	"github.com/nptech/account-gateway/internal/ports"
	"github.com/nptech/account-gateway/internal/service"
	"github.com/nptech/account-gateway/internal/session"
)

// AuthHandlersOptions groups dependencies for NewAuthHandlers.
type AuthHandlersOptions struct {
	Service *service.AuthService
	Session session.Reader
	Guard   *guard.Guard
	// Vault is where guards record attempted URLs; sign-in consumes
	// them to send the caller back where they were headed.
	Vault  ports.TokenVault
	Logger *slog.Logger
}

// AuthHandlers serves the /auth endpoints.
type AuthHandlers struct {
	svc     *service.AuthService
	session session.Reader
	guard   *guard.Guard
	vault   ports.TokenVault
	logger  *slog.Logger
}

// NewAuthHandlers creates the auth endpoint handlers.
func NewAuthHandlers(opts AuthHandlersOptions) *AuthHandlers {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandlers{
		svc:     opts.Service,
		session: opts.Session,
		guard:   opts.Guard,
		vault:   opts.Vault,
		logger:  logger.With("component", "auth_handlers"),
	}
}

// statusForKind maps the auth error taxonomy onto HTTP status codes.
func statusForKind(kind auth.Kind) int {
	switch kind {
	case auth.KindInvalidCredentials, auth.KindInvalidToken, auth.KindTokenExpired:
		return http.StatusUnauthorized
	case auth.KindPermissionDenied:
		return http.StatusForbidden
	case auth.KindUserNotFound:
		return http.StatusNotFound
	case auth.KindUserAlreadyExists:
		return http.StatusConflict
	case auth.KindEmailNotVerified, auth.KindPasswordTooWeak,
		auth.KindInvalidVerificationCode, auth.KindCodeExpired:
		return http.StatusBadRequest
	case auth.KindTooManyAttempts:
		return http.StatusTooManyRequests
	case auth.KindNetworkError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// checkPolicy rejects passwords the local policy refuses before they
// ever reach the provider. Returns false with the response written
// when the password fails.
func (h *AuthHandlers) checkPolicy(w http.ResponseWriter, password string) bool {
	check := h.svc.ValidatePassword(password)
	if check.Valid {
		return true
	}
	writeAuthError(w, auth.NewError(auth.KindPasswordTooWeak, strings.Join(check.Errors, "; ")))
	return false
}

func writeAuthError(w http.ResponseWriter, err error) {
	// A provider challenge is pending input, not a failure; it must not
	// surface as a server error.
	var challenge *auth.ChallengeError
	if errors.As(err, &challenge) {
		WriteError(w, ErrorParams{
			Code:    http.StatusConflict,
			ErrCode: "challenge_required",
			Err:     err,
		})
		return
	}
	kind := auth.KindOf(err)
	WriteError(w, ErrorParams{
		Code:    statusForKind(kind),
		ErrCode: strings.ToLower(string(kind)),
		Err:     err,
	})
}

type signUpRequest struct {
	Email      string            `json:"email"`
	Password   string            `json:"password"`
	Attributes map[string]string `json:"attributes"`
}

// SignUp handles POST /auth/signup.
func (h *AuthHandlers) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation",
			Err: errors.New("email and password are required")})
		return
	}
	if !h.checkPolicy(w, req.Password) {
		return
	}

	result, err := h.svc.SignUp(r.Context(), ports.SignUpInput{
		Email:      req.Email,
		Password:   req.Password,
		Attributes: req.Attributes,
	})
	if err != nil {
		writeAuthError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]any{
		"userId":            result.UserID,
		"needsVerification": result.NeedsVerification,
		"delivery":          result.Delivery,
	})
}

type confirmSignUpRequest struct {
	Username string `json:"username"`
	Code     string `json:"code"`
}

// ConfirmSignUp handles POST /auth/signup/confirm.
func (h *AuthHandlers) ConfirmSignUp(w http.ResponseWriter, r *http.Request) {
	var req confirmSignUpRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := h.svc.ConfirmSignUp(r.Context(), req.Username, req.Code); err != nil {
		writeAuthError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type usernameRequest struct {
	Username string `json:"username"`
}

// ResendCode handles POST /auth/signup/resend.
func (h *AuthHandlers) ResendCode(w http.ResponseWriter, r *http.Request) {
	var req usernameRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	delivery, err := h.svc.ResendVerificationCode(r.Context(), req.Username)
	if err != nil {
		writeAuthError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"delivery": delivery})
}

type signInRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

// SignIn handles POST /auth/signin. On success the response carries
// the validated identity and, when a guard previously blocked a
// navigation, the URL to resume it.
func (h *AuthHandlers) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	err := h.svc.SignIn(r.Context(), ports.SignInInput{
		Username:   req.Username,
		Password:   req.Password,
		RememberMe: req.RememberMe,
	})
	if err != nil {
		writeAuthError(w, err)
		return
	}

	redirectTo, takeErr := h.vault.TakeAttemptedURL(r.Context())
	if takeErr != nil {
		h.logger.Warn("failed to read attempted url", "error", takeErr)
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"user":       h.session.Snapshot().User,
		"redirectTo": redirectTo,
	})
}

// SignOut handles POST /auth/signout. It always succeeds: local state
// is cleared even when remote revocation fails.
func (h *AuthHandlers) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.SignOut(r.Context()); err != nil {
		h.logger.Warn("sign-out reported an error", "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// ForgotPassword handles POST /auth/password/forgot.
func (h *AuthHandlers) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req usernameRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := h.svc.ForgotPassword(r.Context(), req.Username); err != nil {
		writeAuthError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

type confirmForgotRequest struct {
	Username    string `json:"username"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

// ConfirmForgotPassword handles POST /auth/password/forgot/confirm.
func (h *AuthHandlers) ConfirmForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req confirmForgotRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if !h.checkPolicy(w, req.NewPassword) {
		return
	}
	err := h.svc.ConfirmForgotPassword(r.Context(), ports.ConfirmForgotInput{
		Username:    req.Username,
		Code:        req.Code,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		writeAuthError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// ChangePassword handles POST /auth/password.
func (h *AuthHandlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if !h.checkPolicy(w, req.NewPassword) {
		return
	}
	if err := h.svc.ChangePassword(r.Context(), req.OldPassword, req.NewPassword); err != nil {
		writeAuthError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type validatePasswordRequest struct {
	Password string `json:"password"`
}

// ValidatePassword handles POST /auth/password/validate. It evaluates
// the local policy only; nothing is sent to the provider.
func (h *AuthHandlers) ValidatePassword(w http.ResponseWriter, r *http.Request) {
	var req validatePasswordRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	check := h.svc.ValidatePassword(req.Password)
	WriteJSON(w, http.StatusOK, map[string]any{
		"valid":        check.Valid,
		"requirements": check.Requirements,
		"errors":       check.Errors,
	})
}

// Refresh handles POST /auth/refresh.
func (h *AuthHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RefreshSession(r.Context()); err != nil {
		writeAuthError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type updateAttributesRequest struct {
	Attributes map[string]string `json:"attributes"`
}

// UpdateAttributes handles PUT /auth/attributes.
func (h *AuthHandlers) UpdateAttributes(w http.ResponseWriter, r *http.Request) {
	var req updateAttributesRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if len(req.Attributes) == 0 {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation",
			Err: errors.New("attributes are required")})
		return
	}
	if err := h.svc.UpdateUserAttributes(r.Context(), req.Attributes); err != nil {
		writeAuthError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteAccount handles DELETE /auth/user.
func (h *AuthHandlers) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteUser(r.Context()); err != nil {
		writeAuthError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /auth/me: the authoritative identity from the
// provider, not the cached snapshot.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	identity, err := h.svc.GetCurrentUser(r.Context())
	if err != nil {
		writeAuthError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, identity)
}

// Status handles GET /auth/status: the session snapshot with tokens
// withheld.
func (h *AuthHandlers) Status(w http.ResponseWriter, _ *http.Request) {
	snap := h.session.Snapshot()
	WriteJSON(w, http.StatusOK, map[string]any{
		"isAuthenticated": snap.IsAuthenticated,
		"user":            snap.User,
		"loading":         snap.Loading,
		"error":           snap.Error,
		"provider":        h.svc.ProviderTag(),
	})
}

// Claims handles GET /auth/claims: display-only claims decoded from
// the session's ID token.
func (h *AuthHandlers) Claims(w http.ResponseWriter, _ *http.Request) {
	idToken := h.session.Snapshot().IDToken
	if idToken == "" {
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "invalid_token",
			Err: errors.New("no active session")})
		return
	}
	claims, err := cognito.ParseDisplayClaims(idToken)
	if err != nil {
		writeAuthError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, claims)
}

type switchProviderRequest struct {
	Provider string `json:"provider"`
}

// SwitchProvider handles POST /auth/provider. Recognized but
// unimplemented providers answer 501.
func (h *AuthHandlers) SwitchProvider(w http.ResponseWriter, r *http.Request) {
	var req switchProviderRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	err := h.svc.SwitchProvider(r.Context(), service.ProviderTag(req.Provider))
	if err != nil {
		code := http.StatusBadRequest
		errCode := "unknown_provider"
		if errors.Is(err, service.ErrProviderNotImplemented) {
			code = http.StatusNotImplemented
			errCode = "provider_not_implemented"
		}
		WriteError(w, ErrorParams{Code: code, ErrCode: errCode, Err: err})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GuardDecision handles GET /auth/guard?name=...&target=... so clients
// can ask for an admission decision without triggering the guarded
// request itself.
func (h *AuthHandlers) GuardDecision(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	target := r.URL.Query().Get("target")

	var decision guard.Decision
	switch name {
	case "authenticated":
		decision = h.guard.Authenticated(r.Context(), target)
	case "profile":
		decision = h.guard.ProfileComplete(r.Context(), target)
	case "guest":
		decision = h.guard.Guest(r.Context())
	default:
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation",
			Err: errors.New("unknown guard name")})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"allowed":    decision.Allowed,
		"redirectTo": decision.RedirectTo,
	})
}
