package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ahmetcoskunkizilkaya/firebase-auth-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/firebase-auth-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/firebase-auth-backend/internal/store"
	"github.com/ahmetcoskunkizilkaya/firebase-auth-backend/internal/validation"
)

// IdentityCreator is the slice of the identity provider bootstrap needs.
type IdentityCreator interface {
	CreateUser(ctx context.Context, email, password string) (string, error)
}

// Initializer seeds the fixed default roles and the designated super-admin
// account on process start. Every failure is logged and swallowed; bootstrap
// must never prevent the server from starting.
type Initializer struct {
	roles         store.Collection
	users         store.Collection
	provider      IdentityCreator
	adminEmail    string
	adminPassword string
}

func NewInitializer(roles, users store.Collection, provider IdentityCreator, adminEmail, adminPassword string) *Initializer {
	return &Initializer{
		roles:         roles,
		users:         users,
		provider:      provider,
		adminEmail:    adminEmail,
		adminPassword: adminPassword,
	}
}

func (i *Initializer) Run(ctx context.Context) {
	if err := i.ensureRoles(ctx); err != nil {
		slog.Error("role seeding failed", "error", err)
	}
	if err := i.ensureSuperAdmin(ctx); err != nil {
		slog.Error("super-admin seeding failed", "error", err)
	}
}

// ensureRoles inserts the default roles iff the collection is empty. Two
// instances starting at once can both pass the emptiness check; the writes
// are merges, so the worst case is duplicate role documents, which is
// accepted.
func (i *Initializer) ensureRoles(ctx context.Context) error {
	existing, err := i.roles.ReadAll(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	for _, role := range models.DefaultRoles {
		if _, err := i.roles.Create(ctx, "", map[string]interface{}{"name": role}); err != nil {
			return err
		}
	}
	slog.Info("default roles created", "count", len(models.DefaultRoles))
	return nil
}

func (i *Initializer) ensureSuperAdmin(ctx context.Context) error {
	if i.adminPassword == "" {
		slog.Warn("super-admin password not configured, skipping admin seeding")
		return nil
	}
	if !validation.IsValidEmail(i.adminEmail) {
		return fmt.Errorf("invalid super-admin email %q", i.adminEmail)
	}
	if !validation.IsStrongPassword(i.adminPassword) {
		return errors.New("weak super-admin password")
	}

	if _, err := i.users.FindByField(ctx, "email", i.adminEmail); err == nil {
		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	uid, err := i.provider.CreateUser(ctx, i.adminEmail, i.adminPassword)
	if err != nil {
		if !errors.Is(err, identity.ErrEmailInUse) {
			return err
		}
		slog.Info("super-admin already exists with the provider", "email", i.adminEmail)
	}

	// Login always goes through the provider; the mirrored hash is never
	// checked here.
	hashed, err := bcrypt.GenerateFromPassword([]byte(i.adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if _, err := i.users.Create(ctx, uid, map[string]interface{}{
		"name":      "Super Admin",
		"email":     i.adminEmail,
		"password":  string(hashed),
		"role":      models.RoleSuperAdmin,
		"createdAt": time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		return err
	}

	slog.Info("super-admin profile created", "email", i.adminEmail)
	return nil
}
