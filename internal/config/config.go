package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	AppEnv      string
	Port        string
	CORSOrigins string
	FrontendURL string

	// Firebase
	FirebaseCredentialsFile string
	FirebaseProjectID       string
	FirebaseWebAPIKey       string

	// SMTP relay
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	// Sessions
	SessionSecret string

	// Bootstrap super-admin
	SuperAdminEmail    string
	SuperAdminPassword string
}

// Load reads configuration from the environment. A .env file matching
// APP_ENV (.env.development or .env.production) is loaded first if present;
// real environment variables take precedence over file values.
func Load() *Config {
	env := getEnv("APP_ENV", "development")
	if err := godotenv.Load(".env." + env); err != nil {
		slog.Debug("no env file loaded", "env", env)
	}

	return &Config{
		AppEnv:      env,
		Port:        getEnv("PORT", "3000"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		FirebaseCredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", "serviceAccountKey.json"),
		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseWebAPIKey:       getEnv("FIREBASE_WEB_API_KEY", ""),

		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getEnv("SMTP_PORT", "465"),
		SMTPUsername: getEnv("EMAIL_USER", ""),
		SMTPPassword: getEnv("EMAIL_PASS", ""),
		SMTPFrom:     getEnv("EMAIL_FROM", "App Support"),

		SessionSecret: getEnv("SESSION_SECRET", "default-session-secret"),

		SuperAdminEmail:    getEnv("SUPER_ADMIN_EMAIL", "admin@example.com"),
		SuperAdminPassword: getEnv("SUPER_ADMIN_PASSWORD", ""),
	}
}

// IsProduction reports whether the process runs with production error
// redaction enabled.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
