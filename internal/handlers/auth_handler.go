package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/firebase-auth-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/firebase-auth-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/firebase-auth-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Signup handles POST /auth/signup. The client app type comes from the
// X-AppType header, not the body.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	user, err := h.authService.Signup(c.UserContext(), &req, c.Get("X-AppType"))
	if err != nil {
		slog.Error("signup failed", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	return c.JSON(dto.SignupResponse{User: *user})
}

// RefreshToken handles POST /auth/refresh-token.
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Refresh token is required",
		})
	}

	tokens, err := h.authService.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		slog.Error("token refresh failed", "error", err)
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: services.ErrInvalidToken.Error(),
		})
	}

	return c.JSON(tokens)
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.LogoutRequest
	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Refresh token is required",
		})
	}

	if err := h.authService.Logout(c.UserContext(), req.RefreshToken); err != nil {
		slog.Error("logout failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to logout",
		})
	}

	return c.JSON(dto.MessageResponse{Message: "Logged out successfully"})
}

// RequestReset handles POST /auth/request-reset.
func (h *AuthHandler) RequestReset(c *fiber.Ctx) error {
	var req dto.RequestResetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.authService.RequestPasswordReset(c.UserContext(), req.Email); err != nil {
		slog.Error("request reset failed", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	return c.JSON(dto.MessageResponse{Message: "Reset link sent to your email."})
}

// ResetPassword handles POST /auth/reset-password.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.authService.ConfirmPasswordReset(c.UserContext(), req.OobCode, req.NewPassword, req.ConfirmPassword); err != nil {
		slog.Error("password reset failed", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	return c.JSON(dto.MessageResponse{Message: "Password reset successful."})
}

// SendOTP handles POST /auth/send-otp (bearer protected).
func (h *AuthHandler) SendOTP(c *fiber.Ctx) error {
	claims := middleware.GetClaims(c)

	var req dto.SendOTPRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Email is required",
		})
	}

	if err := h.authService.SendEmailOTP(c.UserContext(), claims.UID, req.Email); err != nil {
		slog.Error("send OTP failed", "error", err, "uid", claims.UID)
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	return c.JSON(dto.MessageResponse{Message: "OTP sent to your email."})
}

// VerifyOTP handles POST /auth/verify-otp (bearer protected).
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	claims := middleware.GetClaims(c)

	var req dto.VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil || req.OTP == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "OTP is required",
		})
	}

	if err := h.authService.VerifyEmailOTP(c.UserContext(), claims.UID, req.OTP); err != nil {
		slog.Error("verify OTP failed", "error", err, "uid", claims.UID)
		switch {
		case errors.Is(err, services.ErrUserNotFound),
			errors.Is(err, services.ErrInvalidOTP),
			errors.Is(err, services.ErrOTPExpired):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "OTP verification failed",
		})
	}

	return c.JSON(dto.MessageResponse{Message: "Email verified successfully."})
}
