// Package cognito implements the identity provider port against AWS
// Cognito user pools using the USER_PASSWORD_AUTH flow. The adapter
// owns the session store writer: every operation reflects its progress
// and outcome into the shared session state.
package cognito

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/nptech/account-gateway/internal/domain/auth"
	"github.com/nptech/account-gateway/internal/ports"
	"github.com/nptech/account-gateway/internal/session"
)

// api is the slice of the Cognito client the adapter uses. Narrowing
// the SDK surface keeps tests to a small hand-rolled fake.
type api interface {
	SignUp(ctx context.Context, in *cip.SignUpInput, optFns ...func(*cip.Options)) (*cip.SignUpOutput, error)
	ConfirmSignUp(ctx context.Context, in *cip.ConfirmSignUpInput, optFns ...func(*cip.Options)) (*cip.ConfirmSignUpOutput, error)
	ResendConfirmationCode(ctx context.Context, in *cip.ResendConfirmationCodeInput, optFns ...func(*cip.Options)) (*cip.ResendConfirmationCodeOutput, error)
	InitiateAuth(ctx context.Context, in *cip.InitiateAuthInput, optFns ...func(*cip.Options)) (*cip.InitiateAuthOutput, error)
	GlobalSignOut(ctx context.Context, in *cip.GlobalSignOutInput, optFns ...func(*cip.Options)) (*cip.GlobalSignOutOutput, error)
	ForgotPassword(ctx context.Context, in *cip.ForgotPasswordInput, optFns ...func(*cip.Options)) (*cip.ForgotPasswordOutput, error)
	ConfirmForgotPassword(ctx context.Context, in *cip.ConfirmForgotPasswordInput, optFns ...func(*cip.Options)) (*cip.ConfirmForgotPasswordOutput, error)
	ChangePassword(ctx context.Context, in *cip.ChangePasswordInput, optFns ...func(*cip.Options)) (*cip.ChangePasswordOutput, error)
	GetUser(ctx context.Context, in *cip.GetUserInput, optFns ...func(*cip.Options)) (*cip.GetUserOutput, error)
	UpdateUserAttributes(ctx context.Context, in *cip.UpdateUserAttributesInput, optFns ...func(*cip.Options)) (*cip.UpdateUserAttributesOutput, error)
	DeleteUser(ctx context.Context, in *cip.DeleteUserInput, optFns ...func(*cip.Options)) (*cip.DeleteUserOutput, error)
}

var _ api = (*cip.Client)(nil)

// Config identifies the user pool the adapter talks to.
type Config struct {
	Region     string
	UserPoolID string
	ClientID   string
}

// Options configures NewProvider. Client overrides the SDK client and
// is intended for tests; when nil a real client is constructed with
// anonymous credentials (USER_PASSWORD_AUTH needs no AWS signature).
type Options struct {
	Config     Config
	Session    *session.Writer
	Persistent ports.TokenVault
	Scoped     ports.TokenVault
	Logger     *slog.Logger
	Client     api
}

// Provider implements ports.IdentityProvider on AWS Cognito.
type Provider struct {
	client     api
	cfg        Config
	session    *session.Writer
	persistent ports.TokenVault
	scoped     ports.TokenVault
	logger     *slog.Logger

	mu         sync.Mutex
	rememberMe bool
}

var _ ports.IdentityProvider = (*Provider)(nil)

// NewProvider validates the pool configuration and builds the adapter.
func NewProvider(ctx context.Context, opts Options) (*Provider, error) {
	if opts.Config.Region == "" || opts.Config.UserPoolID == "" || opts.Config.ClientID == "" {
		return nil, fmt.Errorf("cognito: region, user pool id and client id are required")
	}
	if opts.Session == nil || opts.Persistent == nil || opts.Scoped == nil {
		return nil, fmt.Errorf("cognito: session writer and token vaults are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	client := opts.Client
	if client == nil {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(opts.Config.Region))
		if err != nil {
			return nil, fmt.Errorf("cognito: load aws config: %w", err)
		}
		client = cip.NewFromConfig(awsCfg, func(o *cip.Options) {
			o.Credentials = aws.AnonymousCredentials{}
		})
	}

	return &Provider{
		client:     client,
		cfg:        opts.Config,
		session:    opts.Session,
		persistent: opts.Persistent,
		scoped:     opts.Scoped,
		logger:     logger.With("adapter", "cognito"),
	}, nil
}

// begin marks an operation in flight and clears the previous error.
func (p *Provider) begin() {
	p.session.Apply(session.Patch{Loading: session.Bool(true), Error: session.String("")})
}

func (p *Provider) finish() {
	p.session.Apply(session.Patch{Loading: session.Bool(false)})
}

// fail maps the error, records its message in the session, and returns
// the mapped error.
func (p *Provider) fail(err error) error {
	ae := mapError(err)
	p.session.Apply(session.Patch{Loading: session.Bool(false), Error: session.String(ae.Message)})
	return ae
}

func (p *Provider) activeVault() ports.TokenVault {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.rememberMe {
		return p.persistent
	}
	return p.scoped
}

func (p *Provider) setRemember(remember bool) {
	p.mu.Lock()
	p.rememberMe = remember
	p.mu.Unlock()
}

// SignUp registers a new user with the pool. The email doubles as the
// username; extra attributes pass through verbatim.
func (p *Provider) SignUp(ctx context.Context, in ports.SignUpInput) (ports.SignUpResult, error) {
	p.begin()

	attrs := []types.AttributeType{
		{Name: aws.String(auth.AttrEmail), Value: aws.String(in.Email)},
	}
	for name, value := range in.Attributes {
		if name == auth.AttrEmail {
			continue
		}
		attrs = append(attrs, types.AttributeType{Name: aws.String(name), Value: aws.String(value)})
	}

	out, err := p.client.SignUp(ctx, &cip.SignUpInput{
		ClientId:       aws.String(p.cfg.ClientID),
		Username:       aws.String(in.Email),
		Password:       aws.String(in.Password),
		UserAttributes: attrs,
	})
	if err != nil {
		return ports.SignUpResult{}, p.fail(err)
	}
	p.finish()

	return ports.SignUpResult{
		UserID:            aws.ToString(out.UserSub),
		NeedsVerification: !out.UserConfirmed,
		Delivery:          codeDelivery(out.CodeDeliveryDetails),
	}, nil
}

// ConfirmSignUp completes registration with the emailed code.
func (p *Provider) ConfirmSignUp(ctx context.Context, username, code string) error {
	p.begin()
	_, err := p.client.ConfirmSignUp(ctx, &cip.ConfirmSignUpInput{
		ClientId:         aws.String(p.cfg.ClientID),
		Username:         aws.String(username),
		ConfirmationCode: aws.String(code),
	})
	if err != nil {
		return p.fail(err)
	}
	p.finish()
	return nil
}

// ResendVerificationCode requests a fresh confirmation code.
func (p *Provider) ResendVerificationCode(ctx context.Context, username string) (*auth.CodeDelivery, error) {
	p.begin()
	out, err := p.client.ResendConfirmationCode(ctx, &cip.ResendConfirmationCodeInput{
		ClientId: aws.String(p.cfg.ClientID),
		Username: aws.String(username),
	})
	if err != nil {
		return nil, p.fail(err)
	}
	p.finish()
	return codeDelivery(out.CodeDeliveryDetails), nil
}

// SignIn runs the username/password flow. On success the session is
// populated with tokens and the validated identity, and the token set
// is saved to the vault selected by RememberMe. A provider challenge
// (MFA, forced password change) is surfaced as an error-shaped state:
// the session stays unauthenticated with the challenge recorded as the
// error message.
func (p *Provider) SignIn(ctx context.Context, in ports.SignInInput) error {
	p.begin()

	out, err := p.client.InitiateAuth(ctx, &cip.InitiateAuthInput{
		AuthFlow: types.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(p.cfg.ClientID),
		AuthParameters: map[string]string{
			"USERNAME": in.Username,
			"PASSWORD": in.Password,
		},
	})
	if err != nil {
		return p.fail(err)
	}

	if out.ChallengeName != "" {
		ch := &auth.ChallengeError{Name: string(out.ChallengeName)}
		p.session.Apply(session.Patch{Loading: session.Bool(false), Error: session.String(ch.Error())})
		return auth.WrapError(auth.KindUnknown, ch.Error(), ch)
	}

	result := out.AuthenticationResult
	if result == nil || aws.ToString(result.AccessToken) == "" {
		return p.fail(auth.NewError(auth.KindUnknown, "Authentication returned no tokens"))
	}

	accessToken := aws.ToString(result.AccessToken)
	idToken := aws.ToString(result.IdToken)
	refreshToken := aws.ToString(result.RefreshToken)

	identity, err := p.fetchIdentity(ctx, accessToken)
	if err != nil {
		return p.fail(err)
	}

	p.setRemember(in.RememberMe)
	if err := p.saveTokens(ctx, ports.TokenSet{
		AccessToken:  accessToken,
		IDToken:      idToken,
		RefreshToken: refreshToken,
		RememberMe:   in.RememberMe,
	}, identity); err != nil {
		p.logger.Warn("failed to persist tokens", "error", err)
	}

	p.session.Apply(session.Patch{
		IsAuthenticated: session.Bool(true),
		User:            &identity,
		Loading:         session.Bool(false),
		Error:           session.String(""),
		AccessToken:     session.String(accessToken),
		IDToken:         session.String(idToken),
		RefreshToken:    session.String(refreshToken),
	})
	return nil
}

// SignOut revokes the session remotely when possible and always clears
// the local session and both vault scopes, even when revocation fails.
func (p *Provider) SignOut(ctx context.Context) error {
	snap := p.session.Snapshot()
	if snap.AccessToken != "" {
		if _, err := p.client.GlobalSignOut(ctx, &cip.GlobalSignOutInput{
			AccessToken: aws.String(snap.AccessToken),
		}); err != nil {
			p.logger.Warn("remote sign-out failed", "error", mapError(err))
		}
	}
	p.clearLocal(ctx)
	return nil
}

// ForgotPassword starts a password reset for the username.
func (p *Provider) ForgotPassword(ctx context.Context, username string) error {
	p.begin()
	_, err := p.client.ForgotPassword(ctx, &cip.ForgotPasswordInput{
		ClientId: aws.String(p.cfg.ClientID),
		Username: aws.String(username),
	})
	if err != nil {
		return p.fail(err)
	}
	p.finish()
	return nil
}

// ConfirmForgotPassword completes a password reset with the emailed code.
func (p *Provider) ConfirmForgotPassword(ctx context.Context, in ports.ConfirmForgotInput) error {
	p.begin()
	_, err := p.client.ConfirmForgotPassword(ctx, &cip.ConfirmForgotPasswordInput{
		ClientId:         aws.String(p.cfg.ClientID),
		Username:         aws.String(in.Username),
		ConfirmationCode: aws.String(in.Code),
		Password:         aws.String(in.NewPassword),
	})
	if err != nil {
		return p.fail(err)
	}
	p.finish()
	return nil
}

// ChangePassword changes the password of the signed-in user.
func (p *Provider) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	snap := p.session.Snapshot()
	if snap.AccessToken == "" {
		return auth.NewError(auth.KindInvalidToken, "No active session")
	}
	p.begin()
	_, err := p.client.ChangePassword(ctx, &cip.ChangePasswordInput{
		AccessToken:      aws.String(snap.AccessToken),
		PreviousPassword: aws.String(oldPassword),
		ProposedPassword: aws.String(newPassword),
	})
	if err != nil {
		return p.fail(err)
	}
	p.finish()
	return nil
}

// GetCurrentUser fetches the authoritative identity for the current
// access token. It does not touch the loading flag; callers poll it
// for validity checks.
func (p *Provider) GetCurrentUser(ctx context.Context) (auth.Identity, error) {
	snap := p.session.Snapshot()
	if snap.AccessToken == "" {
		return auth.Identity{}, auth.NewError(auth.KindInvalidToken, "No active session")
	}
	identity, err := p.fetchIdentity(ctx, snap.AccessToken)
	if err != nil {
		return auth.Identity{}, mapError(err)
	}
	return identity, nil
}

// UpdateUserAttributes writes attributes to the pool and refreshes the
// cached identity in the session and active vault.
func (p *Provider) UpdateUserAttributes(ctx context.Context, attributes map[string]string) error {
	snap := p.session.Snapshot()
	if snap.AccessToken == "" {
		return auth.NewError(auth.KindInvalidToken, "No active session")
	}
	p.begin()

	attrs := make([]types.AttributeType, 0, len(attributes))
	for name, value := range attributes {
		attrs = append(attrs, types.AttributeType{Name: aws.String(name), Value: aws.String(value)})
	}
	_, err := p.client.UpdateUserAttributes(ctx, &cip.UpdateUserAttributesInput{
		AccessToken:    aws.String(snap.AccessToken),
		UserAttributes: attrs,
	})
	if err != nil {
		return p.fail(err)
	}

	identity, err := p.fetchIdentity(ctx, snap.AccessToken)
	if err != nil {
		return p.fail(err)
	}
	if err := p.updateStoredIdentity(ctx, identity); err != nil {
		p.logger.Warn("failed to update stored identity", "error", err)
	}
	p.session.Apply(session.Patch{User: &identity, Loading: session.Bool(false)})
	return nil
}

// DeleteUser permanently deletes the signed-in user and clears all
// local session data.
func (p *Provider) DeleteUser(ctx context.Context) error {
	snap := p.session.Snapshot()
	if snap.AccessToken == "" {
		return auth.NewError(auth.KindInvalidToken, "No active session")
	}
	p.begin()
	_, err := p.client.DeleteUser(ctx, &cip.DeleteUserInput{
		AccessToken: aws.String(snap.AccessToken),
	})
	if err != nil {
		return p.fail(err)
	}
	p.clearLocal(ctx)
	return nil
}

// RefreshSession exchanges the refresh token for fresh access and ID
// tokens, keeping the current vault scope. Cognito does not rotate the
// refresh token here, so the stored one is retained.
func (p *Provider) RefreshSession(ctx context.Context) error {
	snap := p.session.Snapshot()
	if snap.RefreshToken == "" {
		return auth.NewError(auth.KindInvalidToken, "No refresh token available")
	}
	p.begin()

	out, err := p.client.InitiateAuth(ctx, &cip.InitiateAuthInput{
		AuthFlow: types.AuthFlowTypeRefreshTokenAuth,
		ClientId: aws.String(p.cfg.ClientID),
		AuthParameters: map[string]string{
			"REFRESH_TOKEN": snap.RefreshToken,
		},
	})
	if err != nil {
		return p.fail(err)
	}
	result := out.AuthenticationResult
	if result == nil || aws.ToString(result.AccessToken) == "" {
		return p.fail(auth.NewError(auth.KindUnknown, "Token refresh returned no tokens"))
	}

	accessToken := aws.ToString(result.AccessToken)
	idToken := aws.ToString(result.IdToken)

	vault := p.activeVault()
	if ts, err := vault.Load(ctx); err == nil {
		ts.AccessToken = accessToken
		if idToken != "" {
			ts.IDToken = idToken
		}
		if err := vault.Save(ctx, ts); err != nil {
			p.logger.Warn("failed to persist refreshed tokens", "error", err)
		}
	}

	patch := session.Patch{
		AccessToken: session.String(accessToken),
		Loading:     session.Bool(false),
	}
	if idToken != "" {
		patch.IDToken = session.String(idToken)
	}
	p.session.Apply(patch)
	return nil
}

// Hydrate restores a persisted session at startup. The persistent
// scope wins over the process scope when both hold tokens. Restored
// sessions are optimistically marked authenticated, then revalidated
// against the pool; a failed revalidation tears the session down
// through the normal sign-out path.
func (p *Provider) Hydrate(ctx context.Context) error {
	ts, remember, ok, err := p.loadStored(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	var identity auth.Identity
	if len(ts.UserJSON) == 0 || json.Unmarshal(ts.UserJSON, &identity) != nil {
		p.logger.Warn("stored session is corrupt, clearing")
		p.clearLocal(ctx)
		return nil
	}

	p.setRemember(remember)
	p.session.Apply(session.Patch{
		IsAuthenticated: session.Bool(true),
		User:            &identity,
		Loading:         session.Bool(false),
		Error:           session.String(""),
		AccessToken:     session.String(ts.AccessToken),
		IDToken:         session.String(ts.IDToken),
		RefreshToken:    session.String(ts.RefreshToken),
	})

	if _, err := p.fetchIdentity(ctx, ts.AccessToken); err != nil {
		p.logger.Info("restored session failed validation, signing out", "error", mapError(err))
		return p.SignOut(ctx)
	}
	return nil
}

func (p *Provider) loadStored(ctx context.Context) (ports.TokenSet, bool, bool, error) {
	ts, err := p.persistent.Load(ctx)
	if err == nil && ts.AccessToken != "" {
		return ts, true, true, nil
	}
	if err != nil && !errors.Is(err, ports.ErrNoTokens) {
		return ports.TokenSet{}, false, false, mapError(err)
	}

	ts, err = p.scoped.Load(ctx)
	if err == nil && ts.AccessToken != "" {
		return ts, false, true, nil
	}
	if err != nil && !errors.Is(err, ports.ErrNoTokens) {
		return ports.TokenSet{}, false, false, mapError(err)
	}
	return ports.TokenSet{}, false, false, nil
}

func (p *Provider) fetchIdentity(ctx context.Context, accessToken string) (auth.Identity, error) {
	out, err := p.client.GetUser(ctx, &cip.GetUserInput{
		AccessToken: aws.String(accessToken),
	})
	if err != nil {
		return auth.Identity{}, err
	}
	return identityFromAttributes(aws.ToString(out.Username), out.UserAttributes), nil
}

func identityFromAttributes(username string, attrs []types.AttributeType) auth.Identity {
	identity := auth.Identity{
		ID:         username,
		Attributes: make(map[string]string, len(attrs)),
	}
	for _, a := range attrs {
		name := aws.ToString(a.Name)
		value := aws.ToString(a.Value)
		identity.Attributes[name] = value
		switch name {
		case "sub":
			identity.ID = value
		case auth.AttrEmail:
			identity.Email = value
		case auth.AttrEmailVerified:
			identity.EmailVerified = value == "true"
		}
	}
	return identity
}

func (p *Provider) saveTokens(ctx context.Context, ts ports.TokenSet, identity auth.Identity) error {
	userJSON, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}
	ts.UserJSON = userJSON

	vault := p.scoped
	if ts.RememberMe {
		vault = p.persistent
	}
	return vault.Save(ctx, ts)
}

func (p *Provider) updateStoredIdentity(ctx context.Context, identity auth.Identity) error {
	vault := p.activeVault()
	ts, err := vault.Load(ctx)
	if err != nil {
		if errors.Is(err, ports.ErrNoTokens) {
			return nil
		}
		return err
	}
	userJSON, err := json.Marshal(identity)
	if err != nil {
		return err
	}
	ts.UserJSON = userJSON
	return vault.Save(ctx, ts)
}

// clearLocal wipes both vault scopes and resets the session. Vault
// failures are logged, never surfaced: local sign-out must not fail.
func (p *Provider) clearLocal(ctx context.Context) {
	if err := p.persistent.Clear(ctx); err != nil {
		p.logger.Warn("failed to clear persistent tokens", "error", err)
	}
	if err := p.scoped.Clear(ctx); err != nil {
		p.logger.Warn("failed to clear scoped tokens", "error", err)
	}
	p.session.Reset()
}

func codeDelivery(d *types.CodeDeliveryDetailsType) *auth.CodeDelivery {
	if d == nil {
		return nil
	}
	return &auth.CodeDelivery{
		Destination: aws.ToString(d.Destination),
		Medium:      string(d.DeliveryMedium),
		Attribute:   aws.ToString(d.AttributeName),
	}
}
