package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ahmetcoskunkizilkaya/firebase-auth-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/firebase-auth-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/firebase-auth-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/firebase-auth-backend/internal/store"
	"github.com/ahmetcoskunkizilkaya/firebase-auth-backend/internal/validation"
)

var (
	ErrEmailTaken   = errors.New("email already in use")
	ErrInvalidToken = errors.New("invalid or expired refresh token")
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidOTP   = errors.New("invalid OTP")
	ErrOTPExpired   = errors.New("OTP expired")
)

const otpTTL = 5 * time.Minute

// IdentityProvider is the slice of the managed identity service the
// orchestrator needs.
type IdentityProvider interface {
	CreateUser(ctx context.Context, email, password string) (string, error)
	SetRoleClaim(ctx context.Context, uid, role string) error
	SendPasswordResetEmail(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, oobCode, newPassword string) error
	RefreshIDToken(ctx context.Context, refreshToken string) (*identity.TokenPair, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

// Mailer delivers transactional email.
type Mailer interface {
	SendOTPEmail(ctx context.Context, to, code string) error
}

// AuthService orchestrates the identity provider, the user document
// collection and the mail relay. It holds no state of its own.
type AuthService struct {
	users    store.Collection
	provider IdentityProvider
	mailer   Mailer
}

func NewAuthService(users store.Collection, provider IdentityProvider, mailer Mailer) *AuthService {
	return &AuthService{users: users, provider: provider, mailer: mailer}
}

// Signup registers a new user with the identity provider and mirrors a
// profile document keyed by the provider-assigned uid. No session token is
// minted; clients authenticate with provider-issued ID tokens afterwards.
//
// The duplicate check and the profile write are not transactional: two
// concurrent signups with the same email can both pass the check before
// either writes. The provider-side conflict still fails the second create.
func (s *AuthService) Signup(ctx context.Context, req *dto.SignupRequest, appType string) (*dto.UserResponse, error) {
	if req.Email == "" || req.Password == "" || req.ConfirmPassword == "" {
		return nil, errors.New("email, password, and confirm password are required")
	}
	if req.Password != req.ConfirmPassword {
		return nil, errors.New("password and confirm password do not match")
	}
	if !models.IsAllowedAppType(appType) {
		return nil, errors.New("invalid or missing X-AppType header, must be 'app_user' or 'web_user'")
	}
	if !validation.IsValidEmail(req.Email) {
		return nil, errors.New("invalid email format")
	}
	if !validation.IsStrongPassword(req.Password) {
		return nil, errors.New("password must be at least 8 characters with upper, lower, digit and special characters")
	}

	role := models.NormalizeRole(req.Role)

	if _, err := s.users.FindByField(ctx, "email", req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("duplicate check failed: %w", err)
	}

	uid, err := s.provider.CreateUser(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, identity.ErrEmailInUse) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}

	if err := s.provider.SetRoleClaim(ctx, uid, role); err != nil {
		return nil, fmt.Errorf("failed to set role claim: %w", err)
	}

	profile := &models.Profile{UID: uid, Email: req.Email, Role: role, AppType: appType}
	if _, err := s.users.Create(ctx, uid, profile.Doc()); err != nil {
		return nil, fmt.Errorf("failed to store profile: %w", err)
	}

	slog.Info("new user signed up", "uid", uid, "email", req.Email, "app_type", appType)

	return &dto.UserResponse{UID: uid, Email: req.Email, Role: role, AppType: appType}, nil
}

// Refresh exchanges a refresh token for a fresh ID token pair, delegated
// entirely to the provider.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	pair, err := s.provider.RefreshIDToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidToken) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("token refresh failed: %w", err)
	}
	return &dto.TokenResponse{
		IDToken:      pair.IDToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}

// Logout invalidates the caller's refresh tokens upstream. The presented
// token is exchanged once to learn the uid, then every refresh token issued
// to that uid is revoked. ID tokens already in the wild stay valid until
// their provider-side expiry.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	pair, err := s.provider.RefreshIDToken(ctx, refreshToken)
	if err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}
	if err := s.provider.RevokeRefreshTokens(ctx, pair.UID); err != nil {
		return fmt.Errorf("failed to revoke tokens: %w", err)
	}
	slog.Info("user logged out", "uid", pair.UID)
	return nil
}

// RequestPasswordReset asks the provider to send its own reset-link email.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	if email == "" {
		return errors.New("email is required")
	}
	if !validation.IsValidEmail(email) {
		return errors.New("invalid email format")
	}
	if err := s.provider.SendPasswordResetEmail(ctx, email); err != nil {
		return err
	}
	slog.Info("password reset email sent", "email", email)
	return nil
}

// ConfirmPasswordReset exchanges the provider's one-time oobCode for a
// committed password change.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, oobCode, newPassword, confirmPassword string) error {
	if oobCode == "" || newPassword == "" || confirmPassword == "" {
		return errors.New("code, new password, and confirm password are required")
	}
	if newPassword != confirmPassword {
		return errors.New("password and confirm password do not match")
	}
	if !validation.IsStrongPassword(newPassword) {
		return errors.New("password must be at least 8 characters with upper, lower, digit and special characters")
	}
	if err := s.provider.ConfirmPasswordReset(ctx, oobCode, newPassword); err != nil {
		return err
	}
	slog.Info("password reset confirmed")
	return nil
}

// SendEmailOTP stores a fresh 4-digit code with its issuance timestamp on
// the caller's profile and dispatches it by email. Each call overwrites any
// prior code.
func (s *AuthService) SendEmailOTP(ctx context.Context, uid, email string) error {
	if email == "" {
		return errors.New("email is required")
	}

	code, err := generateOTP()
	if err != nil {
		return fmt.Errorf("failed to generate OTP: %w", err)
	}

	if err := s.users.Update(ctx, uid, map[string]interface{}{
		"emailOtp":     code,
		"otpCreatedAt": time.Now(),
	}); err != nil {
		return fmt.Errorf("failed to store OTP: %w", err)
	}

	if err := s.mailer.SendOTPEmail(ctx, email, code); err != nil {
		return err
	}

	slog.Info("OTP sent to email", "uid", uid, "email", email)
	return nil
}

// VerifyEmailOTP checks the submitted code against the caller's profile.
// A wrong code leaves the stored code intact so the caller may retry within
// the window; a correct code marks the email verified and clears the code.
func (s *AuthService) VerifyEmailOTP(ctx context.Context, uid, otp string) error {
	doc, err := s.users.Read(ctx, uid)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load profile: %w", err)
	}

	profile := models.ProfileFromDoc(uid, doc)
	if profile.EmailOTP == "" || profile.EmailOTP != otp {
		return ErrInvalidOTP
	}
	if time.Since(profile.OTPCreatedAt) > otpTTL {
		return ErrOTPExpired
	}

	if err := s.users.Update(ctx, uid, map[string]interface{}{
		"verifiedEmail": true,
		"emailOtp":      nil,
		"otpCreatedAt":  nil,
	}); err != nil {
		return fmt.Errorf("failed to clear OTP: %w", err)
	}

	slog.Info("email verified", "uid", uid)
	return nil
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()+1000), nil
}
