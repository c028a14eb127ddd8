package identity

import (
	"context"
	"errors"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

var (
	// ErrEmailInUse means the email is already registered with the provider.
	ErrEmailInUse = errors.New("email already in use")
	// ErrInvalidToken covers expired, malformed or revoked tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Claims are the verified contents of a provider-issued ID token.
type Claims struct {
	UID     string
	Email   string
	Role    string
	Expires int64
}

// TokenPair is the result of exchanging a refresh token.
type TokenPair struct {
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    string `json:"expires_in"`
	UID          string `json:"user_id"`
}

// Provider wraps the managed identity service. Admin operations go through
// the Admin SDK; operations the provider only exposes to clients (reset
// emails, reset confirmation, token refresh) go through its REST APIs.
type Provider struct {
	auth *auth.Client
	rest *restClient
}

func NewProvider(ctx context.Context, projectID, credentialsFile, webAPIKey string) (*Provider, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, err
	}
	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, err
	}
	return &Provider{
		auth: authClient,
		rest: newRESTClient(webAPIKey),
	}, nil
}

// CreateUser registers email/password with the provider and returns the
// provider-assigned uid. The password hash is owned by the provider.
func (p *Provider) CreateUser(ctx context.Context, email, password string) (string, error) {
	params := (&auth.UserToCreate{}).Email(email).Password(password)
	record, err := p.auth.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return "", ErrEmailInUse
		}
		return "", err
	}
	return record.UID, nil
}

// SetRoleClaim attaches the role as a custom claim so it is embedded in
// tokens the provider issues for this user.
func (p *Provider) SetRoleClaim(ctx context.Context, uid, role string) error {
	return p.auth.SetCustomUserClaims(ctx, uid, map[string]interface{}{"role": role})
}

func (p *Provider) VerifyIDToken(ctx context.Context, idToken string) (*Claims, error) {
	token, err := p.auth.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims := &Claims{UID: token.UID, Expires: token.Expires}
	if email, ok := token.Claims["email"].(string); ok {
		claims.Email = email
	}
	if role, ok := token.Claims["role"].(string); ok {
		claims.Role = role
	}
	return claims, nil
}

// SendPasswordResetEmail asks the provider to dispatch its own reset-link
// email for the address.
func (p *Provider) SendPasswordResetEmail(ctx context.Context, email string) error {
	return p.rest.sendOobCode(ctx, email)
}

// ConfirmPasswordReset exchanges a provider-issued oobCode for a committed
// password change.
func (p *Provider) ConfirmPasswordReset(ctx context.Context, oobCode, newPassword string) error {
	return p.rest.resetPassword(ctx, oobCode, newPassword)
}

// RefreshIDToken exchanges a refresh token for a fresh ID token pair.
func (p *Provider) RefreshIDToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	return p.rest.refreshToken(ctx, refreshToken)
}

// RevokeRefreshTokens invalidates every refresh token issued to uid.
func (p *Provider) RevokeRefreshTokens(ctx context.Context, uid string) error {
	return p.auth.RevokeRefreshTokens(ctx, uid)
}
