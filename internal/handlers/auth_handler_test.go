package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmetcoskunkizilkaya/firebase-auth-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/firebase-auth-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/firebase-auth-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/firebase-auth-backend/internal/store"
)

type stubProvider struct {
	nextUID     string
	createErr   error
	refreshPair *identity.TokenPair
	refreshErr  error
	revokeErr   error
	claims      *identity.Claims
	verifyErr   error
}

func (s *stubProvider) CreateUser(_ context.Context, _, _ string) (string, error) {
	return s.nextUID, s.createErr
}

func (s *stubProvider) SetRoleClaim(_ context.Context, _, _ string) error { return nil }

func (s *stubProvider) SendPasswordResetEmail(_ context.Context, _ string) error { return nil }

func (s *stubProvider) ConfirmPasswordReset(_ context.Context, _, _ string) error { return nil }

func (s *stubProvider) RefreshIDToken(_ context.Context, _ string) (*identity.TokenPair, error) {
	return s.refreshPair, s.refreshErr
}

func (s *stubProvider) RevokeRefreshTokens(_ context.Context, _ string) error { return s.revokeErr }

func (s *stubProvider) VerifyIDToken(_ context.Context, _ string) (*identity.Claims, error) {
	return s.claims, s.verifyErr
}

type stubMailer struct {
	codes []string
}

func (s *stubMailer) SendOTPEmail(_ context.Context, _, code string) error {
	s.codes = append(s.codes, code)
	return nil
}

func newTestApp() (*fiber.App, *store.Memory, *stubProvider, *stubMailer) {
	users := store.NewMemory()
	provider := &stubProvider{nextUID: "uid-1", claims: &identity.Claims{UID: "uid-1", Email: "a@b.co"}}
	mail := &stubMailer{}

	svc := services.NewAuthService(users, provider, mail)
	authHandler := NewAuthHandler(svc)
	profileHandler := NewProfileHandler()

	app := fiber.New()
	auth := app.Group("/auth")
	auth.Post("/signup", authHandler.Signup)
	auth.Post("/refresh-token", authHandler.RefreshToken)
	auth.Post("/logout", authHandler.Logout)
	auth.Post("/request-reset", authHandler.RequestReset)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/send-otp", middleware.BearerAuth(provider), authHandler.SendOTP)
	auth.Post("/verify-otp", middleware.BearerAuth(provider), authHandler.VerifyOTP)
	app.Get("/profile", middleware.BearerAuth(provider), profileHandler.Get)

	return app, users, provider, mail
}

func postJSON(app *fiber.App, path, body string, headers map[string]string) (*http.Response, error) {
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return app.Test(req)
}

func TestSignupEndpoint(t *testing.T) {
	app, users, _, _ := newTestApp()

	resp, err := postJSON(app, "/auth/signup",
		`{"email":"a@b.co","password":"Abcd123!","confirmPassword":"Abcd123!"}`,
		map[string]string{"X-AppType": "app_user"})
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		User struct {
			UID     string `json:"uid"`
			Role    string `json:"role"`
			AppType string `json:"appType"`
		} `json:"user"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "uid-1", body.User.UID)
	assert.Equal(t, "user", body.User.Role)
	assert.Equal(t, "app_user", body.User.AppType)

	_, err = users.Read(context.Background(), "uid-1")
	assert.NoError(t, err)
}

func TestSignupEndpointMissingAppType(t *testing.T) {
	app, _, _, _ := newTestApp()

	resp, err := postJSON(app, "/auth/signup",
		`{"email":"a@b.co","password":"Abcd123!","confirmPassword":"Abcd123!"}`, nil)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSignupEndpointDuplicate(t *testing.T) {
	app, _, provider, _ := newTestApp()

	resp, err := postJSON(app, "/auth/signup",
		`{"email":"a@b.co","password":"Abcd123!","confirmPassword":"Abcd123!"}`,
		map[string]string{"X-AppType": "app_user"})
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	provider.nextUID = "uid-2"
	resp, err = postJSON(app, "/auth/signup",
		`{"email":"a@b.co","password":"Abcd123!","confirmPassword":"Abcd123!"}`,
		map[string]string{"X-AppType": "app_user"})
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "already in use")
}

func TestRefreshTokenEndpoint(t *testing.T) {
	app, _, provider, _ := newTestApp()
	provider.refreshPair = &identity.TokenPair{IDToken: "id", RefreshToken: "r", ExpiresIn: "3600"}

	resp, err := postJSON(app, "/auth/refresh-token", `{"refreshToken":"old"}`, nil)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var tokens struct {
		IDToken string `json:"idToken"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tokens))
	assert.Equal(t, "id", tokens.IDToken)
}

func TestRefreshTokenEndpointMissing(t *testing.T) {
	app, _, _, _ := newTestApp()

	resp, err := postJSON(app, "/auth/refresh-token", `{}`, nil)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRefreshTokenEndpointRejected(t *testing.T) {
	app, _, provider, _ := newTestApp()
	provider.refreshErr = identity.ErrInvalidToken

	resp, err := postJSON(app, "/auth/refresh-token", `{"refreshToken":"stale"}`, nil)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestLogoutEndpoint(t *testing.T) {
	app, _, provider, _ := newTestApp()
	provider.refreshPair = &identity.TokenPair{UID: "uid-1"}

	resp, err := postJSON(app, "/auth/logout", `{"refreshToken":"tok"}`, nil)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestLogoutEndpointFailure(t *testing.T) {
	app, _, provider, _ := newTestApp()
	provider.refreshErr = errors.New("provider down")

	resp, err := postJSON(app, "/auth/logout", `{"refreshToken":"tok"}`, nil)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestRequestResetEndpointInvalidEmail(t *testing.T) {
	app, _, _, _ := newTestApp()

	resp, err := postJSON(app, "/auth/request-reset", `{"email":"not-an-email"}`, nil)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestResetPasswordEndpoint(t *testing.T) {
	app, _, _, _ := newTestApp()

	resp, err := postJSON(app, "/auth/reset-password",
		`{"oobCode":"code","newPassword":"Abcd123!","confirmPassword":"Abcd123!"}`, nil)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = postJSON(app, "/auth/reset-password",
		`{"oobCode":"code","newPassword":"Abcd123!","confirmPassword":"Nope1234!"}`, nil)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSendOTPRequiresBearer(t *testing.T) {
	app, _, _, _ := newTestApp()

	resp, err := postJSON(app, "/auth/send-otp", `{"email":"a@b.co"}`, nil)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestSendAndVerifyOTPEndpoints(t *testing.T) {
	app, users, _, mail := newTestApp()
	ctx := context.Background()

	_, err := users.Create(ctx, "uid-1", map[string]interface{}{"email": "a@b.co"})
	require.NoError(t, err)

	bearer := map[string]string{"Authorization": "Bearer good"}

	resp, err := postJSON(app, "/auth/send-otp", `{"email":"a@b.co"}`, bearer)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Len(t, mail.codes, 1)

	resp, err = postJSON(app, "/auth/verify-otp", `{"otp":"0000"}`, bearer)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "wrong code is rejected")

	resp, err = postJSON(app, "/auth/verify-otp", `{"otp":"`+mail.codes[0]+`"}`, bearer)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	doc, err := users.Read(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, true, doc["verifiedEmail"])
}

func TestProfileEndpoint(t *testing.T) {
	app, _, provider, _ := newTestApp()
	provider.claims = &identity.Claims{UID: "uid-1", Email: "a@b.co", Role: "user", Expires: time.Now().Add(time.Hour).Unix()}

	req := httptest.NewRequest("GET", "/profile", nil)
	req.Header.Set("Authorization", "Bearer good")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "Welcome!")
	assert.Contains(t, string(raw), "uid-1")
}

func TestProfileEndpointUnauthorized(t *testing.T) {
	app, _, provider, _ := newTestApp()
	provider.verifyErr = identity.ErrInvalidToken

	req := httptest.NewRequest("GET", "/profile", nil)
	req.Header.Set("Authorization", "Bearer bad")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
