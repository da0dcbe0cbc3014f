package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderTagUnmarshalText(t *testing.T) {
	var tag ProviderTag

	for _, valid := range []string{"cognito", "auth0", "okta", "azuread"} {
		require.NoError(t, tag.UnmarshalText([]byte(valid)))
		assert.Equal(t, ProviderTag(valid), tag)
	}

	assert.Error(t, tag.UnmarshalText([]byte("firebase")))
}

func TestAuthConfigPolicy(t *testing.T) {
	cfg := AuthConfig{
		PasswordMinLength:    10,
		PasswordRequireDigit: true,
	}

	policy := cfg.Policy()
	assert.Equal(t, 10, policy.MinLength)
	assert.True(t, policy.RequireDigit)
	assert.False(t, policy.RequireUpper)
	assert.NotEmpty(t, policy.SpecialChars)
}

func TestSanitizeRequiresCognitoSettings(t *testing.T) {
	cfg := &AppConfig{
		Auth:    AuthConfig{Provider: ProviderCognito, PasswordMinLength: 8},
		Backend: BackendConfig{BaseURL: "http://localhost:3000"},
	}
	assert.Error(t, cfg.Sanitize())

	cfg.Auth.Cognito = CognitoConfig{Region: "us-east-1", UserPoolID: "pool", ClientID: "client"}
	assert.NoError(t, cfg.Sanitize())
}

func TestSanitizeRequiresBackendURL(t *testing.T) {
	cfg := &AppConfig{
		Auth: AuthConfig{
			Provider:          ProviderCognito,
			PasswordMinLength: 8,
			Cognito:           CognitoConfig{Region: "us-east-1", UserPoolID: "pool", ClientID: "client"},
		},
	}
	assert.Error(t, cfg.Sanitize())
}
