// Package auth contains domain-level types for authentication.
// It is pure and free of framework/adapter concerns.
package auth

// Identity represents the authenticated principal returned by an IdP.
// Adapters map provider-specific attributes into this shape.
type Identity struct {
	// ID is the stable user identifier (e.g., the Cognito username or sub).
	ID            string            `json:"id"`
	Email         string            `json:"email"`
	EmailVerified bool              `json:"email_verified"`
	Attributes    map[string]string `json:"attributes,omitempty"`
}

// CodeDelivery describes where a verification or recovery code was sent.
type CodeDelivery struct {
	Destination string `json:"destination"`
	Medium      string `json:"medium,omitempty"`
	Attribute   string `json:"attribute,omitempty"`
}

// Well-known attribute names shared between the adapter and callers.
const (
	AttrEmail         = "email"
	AttrEmailVerified = "email_verified"
)
