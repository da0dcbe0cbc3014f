// Package service orchestrates identity providers, password policy,
// and profile checks behind a provider-agnostic facade.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/nptech/account-gateway/internal/ports"
)

// ProviderTag names a configurable identity provider implementation.
type ProviderTag string

const (
	ProviderCognito ProviderTag = "cognito"
	ProviderAuth0   ProviderTag = "auth0"
	ProviderOkta    ProviderTag = "okta"
	ProviderAzureAD ProviderTag = "azuread"
)

// ErrProviderNotImplemented is returned for provider tags that are
// recognized but have no implementation yet.
var ErrProviderNotImplemented = errors.New("auth provider not implemented")

// Builder constructs a ready identity provider.
type Builder func(ctx context.Context) (ports.IdentityProvider, error)

// Factory maps provider tags to builders. Selecting a recognized but
// unregistered tag fails loudly with ErrProviderNotImplemented; there
// is deliberately no silent fallback to a default provider.
type Factory struct {
	builders map[ProviderTag]Builder
}

// NewFactory creates an empty factory.
func NewFactory() *Factory {
	return &Factory{builders: make(map[ProviderTag]Builder)}
}

// Register installs a builder for a tag, replacing any previous one.
func (f *Factory) Register(tag ProviderTag, b Builder) {
	f.builders[tag] = b
}

// Build constructs the provider for the tag.
func (f *Factory) Build(ctx context.Context, tag ProviderTag) (ports.IdentityProvider, error) {
	if b, ok := f.builders[tag]; ok {
		return b(ctx)
	}
	switch tag {
	case ProviderCognito, ProviderAuth0, ProviderOkta, ProviderAzureAD:
		return nil, fmt.Errorf("%w: %s", ErrProviderNotImplemented, tag)
	default:
		return nil, fmt.Errorf("unknown auth provider: %s", tag)
	}
}
