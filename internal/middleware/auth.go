package middleware

import (
	"context"
	"strings"

	"github.com/ahmetcoskunkizilkaya/firebase-auth-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/firebase-auth-backend/internal/identity"
	"github.com/gofiber/fiber/v2"
)

const claimsKey = "claims"

// TokenVerifier checks a bearer token with the identity provider.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, token string) (*identity.Claims, error)
}

// BearerAuth extracts the Authorization bearer token, verifies it against
// the identity provider and stores the decoded claims in the request
// locals. Requests without a valid token get a 401.
func BearerAuth(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Access token missing",
			})
		}

		claims, err := verifier.VerifyIDToken(c.UserContext(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid or expired access token",
			})
		}

		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// GetClaims returns the verified claims stored by BearerAuth, or nil when
// the route is not protected.
func GetClaims(c *fiber.Ctx) *identity.Claims {
	claims, _ := c.Locals(claimsKey).(*identity.Claims)
	return claims
}
