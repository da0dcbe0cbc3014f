package service

import (
	"context"
	"testing"

	mockauth "github.com/nptech/account-gateway/internal/mocks/auth"
	"github.com/nptech/account-gateway/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactoryBuildsRegisteredProvider(t *testing.T) {
	f := NewFactory()
	want := &mockauth.MockIdentityProvider{}
	f.Register(ProviderCognito, func(context.Context) (ports.IdentityProvider, error) {
		return want, nil
	})

	got, err := f.Build(context.Background(), ProviderCognito)
	require.NoError(t, err)
	assert.Same(t, want, got)
}

func TestFactoryRecognizedButUnimplemented(t *testing.T) {
	f := NewFactory()
	f.Register(ProviderCognito, func(context.Context) (ports.IdentityProvider, error) {
		return &mockauth.MockIdentityProvider{}, nil
	})

	for _, tag := range []ProviderTag{ProviderAuth0, ProviderOkta, ProviderAzureAD} {
		t.Run(string(tag), func(t *testing.T) {
			_, err := f.Build(context.Background(), tag)
			assert.ErrorIs(t, err, ErrProviderNotImplemented)
		})
	}
}

func TestFactoryUnknownTag(t *testing.T) {
	f := NewFactory()

	_, err := f.Build(context.Background(), "ldap")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrProviderNotImplemented)
	assert.Contains(t, err.Error(), "unknown auth provider")
}
