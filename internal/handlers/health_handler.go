package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/ahmetcoskunkizilkaya/firebase-auth-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/firebase-auth-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/firebase-auth-backend/internal/store"
	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	settings store.Collection
}

func NewHealthHandler(settings store.Collection) *HealthHandler {
	return &HealthHandler{settings: settings}
}

// Check probes the document store with a bounded read of the seeded global
// settings document.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	storeStatus := "ok"
	if _, err := h.settings.Read(ctx, models.SettingsDocID); err != nil && !errors.Is(err, store.ErrNotFound) {
		storeStatus = "unhealthy: " + err.Error()
	}

	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Store:     storeStatus,
	})
}
