package handlers

import (
	"github.com/ahmetcoskunkizilkaya/firebase-auth-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/firebase-auth-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
)

type ProfileHandler struct{}

func NewProfileHandler() *ProfileHandler {
	return &ProfileHandler{}
}

// Get handles GET /profile, echoing the verified token claims.
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	claims := middleware.GetClaims(c)
	return c.JSON(dto.ProfileResponse{Message: "Welcome!", User: claims})
}
