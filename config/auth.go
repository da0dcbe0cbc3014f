package config

import (
	"fmt"

	"github.com/nptech/account-gateway/internal/domain/auth"
)

// ProviderTag is the configured identity provider name. It accepts
// only the recognized provider tags; anything else fails at load time
// rather than silently falling back.
type ProviderTag string

const (
	ProviderCognito ProviderTag = "cognito"
	ProviderAuth0   ProviderTag = "auth0"
	ProviderOkta    ProviderTag = "okta"
	ProviderAzureAD ProviderTag = "azuread"
)

// UnmarshalText implements encoding.TextUnmarshaler for env parsing.
func (p *ProviderTag) UnmarshalText(text []byte) error {
	switch tag := ProviderTag(text); tag {
	case ProviderCognito, ProviderAuth0, ProviderOkta, ProviderAzureAD:
		*p = tag
		return nil
	default:
		return fmt.Errorf("config: unknown auth provider %q", text)
	}
}

// CognitoConfig identifies the Cognito user pool.
type CognitoConfig struct {
	Region     string `env:"COGNITO_REGION"`
	UserPoolID string `env:"COGNITO_USER_POOL_ID"`
	ClientID   string `env:"COGNITO_CLIENT_ID"`
}

// AuthConfig selects and configures the identity provider and the
// local password policy.
type AuthConfig struct {
	Provider ProviderTag `env:"AUTH_PROVIDER" envDefault:"cognito"`
	Cognito  CognitoConfig

	PasswordMinLength      int    `env:"AUTH_PASSWORD_MIN_LENGTH" envDefault:"8"`
	PasswordRequireDigit   bool   `env:"AUTH_PASSWORD_REQUIRE_DIGIT" envDefault:"true"`
	PasswordRequireUpper   bool   `env:"AUTH_PASSWORD_REQUIRE_UPPER" envDefault:"true"`
	PasswordRequireLower   bool   `env:"AUTH_PASSWORD_REQUIRE_LOWER" envDefault:"true"`
	PasswordRequireSpecial bool   `env:"AUTH_PASSWORD_REQUIRE_SPECIAL" envDefault:"true"`
	PasswordSpecialChars   string `env:"AUTH_PASSWORD_SPECIAL_CHARS"`
}

// Policy materializes the configured password policy.
func (c AuthConfig) Policy() auth.PasswordPolicy {
	chars := c.PasswordSpecialChars
	if chars == "" {
		chars = auth.DefaultSpecialChars
	}
	return auth.PasswordPolicy{
		MinLength:      c.PasswordMinLength,
		RequireDigit:   c.PasswordRequireDigit,
		RequireUpper:   c.PasswordRequireUpper,
		RequireLower:   c.PasswordRequireLower,
		RequireSpecial: c.PasswordRequireSpecial,
		SpecialChars:   chars,
	}
}

func (c AuthConfig) sanitize() error {
	if c.PasswordMinLength < 1 {
		return fmt.Errorf("config: AUTH_PASSWORD_MIN_LENGTH must be at least 1")
	}
	if c.Provider == ProviderCognito {
		if c.Cognito.Region == "" || c.Cognito.UserPoolID == "" || c.Cognito.ClientID == "" {
			return fmt.Errorf("config: COGNITO_REGION, COGNITO_USER_POOL_ID and COGNITO_CLIENT_ID are required for the cognito provider")
		}
	}
	return nil
}
