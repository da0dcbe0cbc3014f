package cognito

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/nptech/account-gateway/internal/domain/auth"
)

// DisplayClaims are identity claims read from an ID token without
// signature verification. They are for display and logging only and
// must never gate access; the authoritative identity comes from the
// provider's user endpoint.
type DisplayClaims struct {
	Subject       string         `json:"sub"`
	Email         string         `json:"email"`
	EmailVerified bool           `json:"emailVerified"`
	Raw           map[string]any `json:"-"`
}

// ParseDisplayClaims decodes the claims of a raw ID token. The
// signature is not checked.
func ParseDisplayClaims(raw string) (*DisplayClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, auth.WrapError(auth.KindInvalidToken, "failed to parse identity token", err)
	}

	dc := &DisplayClaims{Raw: claims}
	if sub, ok := claims["sub"].(string); ok {
		dc.Subject = sub
	}
	if email, ok := claims["email"].(string); ok {
		dc.Email = email
	}
	switch v := claims["email_verified"].(type) {
	case bool:
		dc.EmailVerified = v
	case string:
		dc.EmailVerified = v == "true"
	}
	return dc, nil
}
