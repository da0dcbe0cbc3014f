// Package mockauth provides hand-written test doubles for the auth
// ports. Behavior is injected per test through func fields; nil fields
// return zero values.
package mockauth

import (
	"context"

	"github.com/nptech/account-gateway/internal/domain/auth"
	"github.com/nptech/account-gateway/internal/ports"
)

// MockIdentityProvider implements ports.IdentityProvider with
// overridable func fields.
type MockIdentityProvider struct {
	SignUpFunc                func(ctx context.Context, in ports.SignUpInput) (ports.SignUpResult, error)
	ConfirmSignUpFunc         func(ctx context.Context, username, code string) error
	ResendVerificationFunc    func(ctx context.Context, username string) (*auth.CodeDelivery, error)
	SignInFunc                func(ctx context.Context, in ports.SignInInput) error
	SignOutFunc               func(ctx context.Context) error
	ForgotPasswordFunc        func(ctx context.Context, username string) error
	ConfirmForgotPasswordFunc func(ctx context.Context, in ports.ConfirmForgotInput) error
	ChangePasswordFunc        func(ctx context.Context, oldPassword, newPassword string) error
	GetCurrentUserFunc        func(ctx context.Context) (auth.Identity, error)
	UpdateUserAttributesFunc  func(ctx context.Context, attributes map[string]string) error
	DeleteUserFunc            func(ctx context.Context) error
	RefreshSessionFunc        func(ctx context.Context) error
	HydrateFunc               func(ctx context.Context) error

	SignOutCalls int
}

var _ ports.IdentityProvider = (*MockIdentityProvider)(nil)

func (m *MockIdentityProvider) SignUp(ctx context.Context, in ports.SignUpInput) (ports.SignUpResult, error) {
	if m.SignUpFunc != nil {
		return m.SignUpFunc(ctx, in)
	}
	return ports.SignUpResult{}, nil
}

func (m *MockIdentityProvider) ConfirmSignUp(ctx context.Context, username, code string) error {
	if m.ConfirmSignUpFunc != nil {
		return m.ConfirmSignUpFunc(ctx, username, code)
	}
	return nil
}

func (m *MockIdentityProvider) ResendVerificationCode(ctx context.Context, username string) (*auth.CodeDelivery, error) {
	if m.ResendVerificationFunc != nil {
		return m.ResendVerificationFunc(ctx, username)
	}
	return nil, nil
}

func (m *MockIdentityProvider) SignIn(ctx context.Context, in ports.SignInInput) error {
	if m.SignInFunc != nil {
		return m.SignInFunc(ctx, in)
	}
	return nil
}

func (m *MockIdentityProvider) SignOut(ctx context.Context) error {
	m.SignOutCalls++
	if m.SignOutFunc != nil {
		return m.SignOutFunc(ctx)
	}
	return nil
}

func (m *MockIdentityProvider) ForgotPassword(ctx context.Context, username string) error {
	if m.ForgotPasswordFunc != nil {
		return m.ForgotPasswordFunc(ctx, username)
	}
	return nil
}

func (m *MockIdentityProvider) ConfirmForgotPassword(ctx context.Context, in ports.ConfirmForgotInput) error {
	if m.ConfirmForgotPasswordFunc != nil {
		return m.ConfirmForgotPasswordFunc(ctx, in)
	}
	return nil
}

func (m *MockIdentityProvider) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	if m.ChangePasswordFunc != nil {
		return m.ChangePasswordFunc(ctx, oldPassword, newPassword)
	}
	return nil
}

func (m *MockIdentityProvider) GetCurrentUser(ctx context.Context) (auth.Identity, error) {
	if m.GetCurrentUserFunc != nil {
		return m.GetCurrentUserFunc(ctx)
	}
	return auth.Identity{}, nil
}

func (m *MockIdentityProvider) UpdateUserAttributes(ctx context.Context, attributes map[string]string) error {
	if m.UpdateUserAttributesFunc != nil {
		return m.UpdateUserAttributesFunc(ctx, attributes)
	}
	return nil
}

func (m *MockIdentityProvider) DeleteUser(ctx context.Context) error {
	if m.DeleteUserFunc != nil {
		return m.DeleteUserFunc(ctx)
	}
	return nil
}

func (m *MockIdentityProvider) RefreshSession(ctx context.Context) error {
	if m.RefreshSessionFunc != nil {
		return m.RefreshSessionFunc(ctx)
	}
	return nil
}

func (m *MockIdentityProvider) Hydrate(ctx context.Context) error {
	if m.HydrateFunc != nil {
		return m.HydrateFunc(ctx)
	}
	return nil
}
