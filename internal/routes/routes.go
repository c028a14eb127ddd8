package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/firebase-auth-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/firebase-auth-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func Setup(
	app *fiber.App,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	healthHandler *handlers.HealthHandler,
	verifier middleware.TokenVerifier,
) {
	app.Get("/health", healthHandler.Check)

	// Auth endpoints get a stricter rate limit: 10 req/min per IP.
	auth := app.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/signup", authHandler.Signup)
	auth.Post("/refresh-token", authHandler.RefreshToken)
	auth.Post("/logout", authHandler.Logout)
	auth.Post("/request-reset", authHandler.RequestReset)
	auth.Post("/reset-password", authHandler.ResetPassword)

	// OTP endpoints require a verified provider ID token.
	auth.Post("/send-otp", middleware.BearerAuth(verifier), authHandler.SendOTP)
	auth.Post("/verify-otp", middleware.BearerAuth(verifier), authHandler.VerifyOTP)

	app.Get("/profile", middleware.BearerAuth(verifier), profileHandler.Get)
}
