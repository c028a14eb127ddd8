package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/firebase-auth-backend/internal/bootstrap"
	"github.com/ahmetcoskunkizilkaya/firebase-auth-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/firebase-auth-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/firebase-auth-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/firebase-auth-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/firebase-auth-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/firebase-auth-backend/internal/mailer"
	"github.com/ahmetcoskunkizilkaya/firebase-auth-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/firebase-auth-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/firebase-auth-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/firebase-auth-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/firebase-auth-backend/internal/store"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	logging.Setup(cfg.AppEnv)

	if cfg.FirebaseProjectID == "" {
		slog.Error("FIREBASE_PROJECT_ID environment variable is required")
		os.Exit(1)
	}
	if cfg.FirebaseWebAPIKey == "" {
		slog.Error("FIREBASE_WEB_API_KEY environment variable is required")
		os.Exit(1)
	}

	ctx := context.Background()

	// Document store
	storeClient, err := store.NewClient(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsFile)
	if err != nil {
		slog.Error("document store connection failed", "error", err)
		os.Exit(1)
	}
	slog.Info("document store connected", "project", cfg.FirebaseProjectID)

	// Identity provider
	provider, err := identity.NewProvider(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsFile, cfg.FirebaseWebAPIKey)
	if err != nil {
		slog.Error("identity provider init failed", "error", err)
		os.Exit(1)
	}

	// Document-store log handler (ERROR+ async batch)
	storeLogHandler := logging.NewStoreHandler(storeClient.Collection(models.CollectionSystemLogs))
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		logging.NewStdoutHandler(cfg.AppEnv),
		storeLogHandler,
	)))

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(storeClient.Collection(models.CollectionSystemLogs), cleanupDone)

	// Mail relay
	mail := mailer.NewSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)

	// Services
	authService := services.NewAuthService(storeClient.Collection(models.CollectionUsers), provider, mail)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	profileHandler := handlers.NewProfileHandler()
	healthHandler := handlers.NewHealthHandler(storeClient.Collection(models.CollectionSettings))

	// Bootstrap: seed roles, super-admin and default settings. Failures are
	// logged and must never abort startup.
	initializer := bootstrap.NewInitializer(
		storeClient.Collection(models.CollectionRoles),
		storeClient.Collection(models.CollectionUsers),
		provider,
		cfg.SuperAdminEmail,
		cfg.SuperAdminPassword,
	)
	initializer.Run(ctx)
	bootstrap.NewSeeder(storeClient, bootstrap.DefaultSeedData).Seed(ctx)
	slog.Info("bootstrap complete")

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: errorHandler(cfg),
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	routes.Setup(app, authHandler, profileHandler, healthHandler, provider)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	storeLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if err := storeClient.Close(); err != nil {
		slog.Error("document store close error", "error", err)
	}

	slog.Info("server stopped")
}

// errorHandler hides server error detail in production; elsewhere the full
// message goes back to the client to ease debugging.
func errorHandler(cfg *config.Config) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			message = e.Message
		}

		if code >= 500 {
			slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
			if cfg.IsProduction() {
				message = "Internal server error"
			} else {
				message = err.Error()
			}
		}

		return c.Status(code).JSON(dto.ErrorResponse{
			Error:   true,
			Message: message,
		})
	}
}
