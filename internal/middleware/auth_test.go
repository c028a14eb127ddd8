package middleware

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmetcoskunkizilkaya/firebase-auth-backend/internal/identity"
)

type fakeVerifier struct {
	claims *identity.Claims
	err    error
}

func (f *fakeVerifier) VerifyIDToken(_ context.Context, _ string) (*identity.Claims, error) {
	return f.claims, f.err
}

func newApp(v TokenVerifier) *fiber.App {
	app := fiber.New()
	app.Get("/protected", BearerAuth(v), func(c *fiber.Ctx) error {
		claims := GetClaims(c)
		return c.JSON(fiber.Map{"uid": claims.UID})
	})
	return app
}

func TestBearerAuthMissingToken(t *testing.T) {
	app := newApp(&fakeVerifier{})

	req := httptest.NewRequest("GET", "/protected", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestBearerAuthMalformedHeader(t *testing.T) {
	app := newApp(&fakeVerifier{claims: &identity.Claims{UID: "u1"}})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Basic abc123")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestBearerAuthInvalidToken(t *testing.T) {
	app := newApp(&fakeVerifier{err: errors.New("expired")})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestBearerAuthValidToken(t *testing.T) {
	app := newApp(&fakeVerifier{claims: &identity.Claims{UID: "uid-1"}})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
