package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/nptech/account-gateway/internal/domain/auth"
	mockauth "github.com/nptech/account-gateway/internal/mocks/auth"
	"github.com/nptech/account-gateway/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(provider ports.IdentityProvider, factory *Factory) *AuthService {
	return NewAuthService(AuthServiceOptions{
		Provider: provider,
		Tag:      ProviderCognito,
		Factory:  factory,
		Policy:   auth.DefaultPasswordPolicy(),
		Logger:   discardLogger(),
	})
}

func TestSignUpPassesThrough(t *testing.T) {
	provider := &mockauth.MockIdentityProvider{
		SignUpFunc: func(_ context.Context, in ports.SignUpInput) (ports.SignUpResult, error) {
			return ports.SignUpResult{UserID: "u1", NeedsVerification: true}, nil
		},
	}
	svc := newTestService(provider, NewFactory())

	result, err := svc.SignUp(context.Background(), ports.SignUpInput{
		Email: "a@b.com", Password: "Abcdef1!",
	})

	require.NoError(t, err)
	assert.Equal(t, "u1", result.UserID)
	assert.True(t, result.NeedsVerification)
}

func TestChangePasswordPassesBothThrough(t *testing.T) {
	var gotOld, gotNew string
	provider := &mockauth.MockIdentityProvider{
		ChangePasswordFunc: func(_ context.Context, oldPw, newPw string) error {
			gotOld, gotNew = oldPw, newPw
			return nil
		},
	}
	svc := newTestService(provider, NewFactory())

	err := svc.ChangePassword(context.Background(), "legacy", "Abcdef1!")

	require.NoError(t, err)
	assert.Equal(t, "legacy", gotOld)
	assert.Equal(t, "Abcdef1!", gotNew)
}

func TestSwitchProviderSignsOutPrevious(t *testing.T) {
	prev := &mockauth.MockIdentityProvider{}
	next := &mockauth.MockIdentityProvider{}
	factory := NewFactory()
	factory.Register(ProviderCognito, func(context.Context) (ports.IdentityProvider, error) {
		return next, nil
	})
	svc := newTestService(prev, factory)

	require.NoError(t, svc.SwitchProvider(context.Background(), ProviderCognito))

	assert.Equal(t, 1, prev.SignOutCalls)
	// Subsequent calls hit the new provider.
	require.NoError(t, svc.SignOut(context.Background()))
	assert.Equal(t, 1, next.SignOutCalls)
}

func TestSwitchProviderKeepsCurrentOnFailure(t *testing.T) {
	prev := &mockauth.MockIdentityProvider{}
	svc := newTestService(prev, NewFactory())

	err := svc.SwitchProvider(context.Background(), ProviderAuth0)

	assert.ErrorIs(t, err, ErrProviderNotImplemented)
	assert.Equal(t, 0, prev.SignOutCalls)
	assert.Equal(t, ProviderCognito, svc.ProviderTag())
}

func TestFacadePassThrough(t *testing.T) {
	wantErr := errors.New("provider failed")
	provider := &mockauth.MockIdentityProvider{
		SignInFunc: func(context.Context, ports.SignInInput) error { return wantErr },
		GetCurrentUserFunc: func(context.Context) (auth.Identity, error) {
			return auth.Identity{ID: "u1"}, nil
		},
	}
	svc := newTestService(provider, NewFactory())
	ctx := context.Background()

	assert.ErrorIs(t, svc.SignIn(ctx, ports.SignInInput{}), wantErr)

	identity, err := svc.GetCurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u1", identity.ID)
}

func TestValidatePassword(t *testing.T) {
	svc := newTestService(&mockauth.MockIdentityProvider{}, NewFactory())

	assert.True(t, svc.ValidatePassword("Abcdef1!").Valid)
	assert.False(t, svc.ValidatePassword("short").Valid)
}
