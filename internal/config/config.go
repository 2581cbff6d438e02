package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort   int
	DatabasePath string
	UploadPath   string // Base path for uploaded files

	JWTSecret string
	TokenTTL  time.Duration

	// Bootstrap credentials for the admin profile, used only when no
	// profile exists yet.
	AdminUsername string
	AdminPassword string

	MaxImageSizeMB  int64
	MaxResumeSizeMB int64

	// SMTP settings for contact notifications. Notifications are disabled
	// when EmailHost is empty.
	EmailHost    string
	EmailPort    int
	EmailUser    string
	EmailPass    string
	NotifyEmail  string
	EmailTimeout time.Duration

	AllowedOrigins []string
}

// Load loads configuration from environment variables or sets defaults.
// A .env file in the working directory is read first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, err
	}
	emailPort, err := strconv.Atoi(getEnv("EMAIL_PORT", "587"))
	if err != nil {
		return nil, err
	}
	ttlHours, err := strconv.Atoi(getEnv("TOKEN_TTL_HOURS", "24"))
	if err != nil {
		return nil, err
	}
	emailTimeout, err := strconv.Atoi(getEnv("EMAIL_TIMEOUT_SECONDS", "10"))
	if err != nil {
		return nil, err
	}
	maxImage, err := strconv.ParseInt(getEnv("MAX_IMAGE_SIZE_MB", "5"), 10, 64)
	if err != nil {
		return nil, err
	}
	maxResume, err := strconv.ParseInt(getEnv("MAX_RESUME_SIZE_MB", "10"), 10, 64)
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:      port,
		DatabasePath:    getEnv("DATABASE_PATH", "./portfolio.db"),
		UploadPath:      getEnv("UPLOAD_PATH", "./uploads"),
		JWTSecret:       getEnv("JWT_SECRET", "dev-secret-change-me"),
		TokenTTL:        time.Duration(ttlHours) * time.Hour,
		AdminUsername:   getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:   getEnv("ADMIN_PASSWORD", "admin123"),
		MaxImageSizeMB:  maxImage,
		MaxResumeSizeMB: maxResume,
		EmailHost:       getEnv("EMAIL_HOST", ""),
		EmailPort:       emailPort,
		EmailUser:       getEnv("EMAIL_USER", ""),
		EmailPass:       getEnv("EMAIL_PASSWORD", ""),
		NotifyEmail:     getEnv("NOTIFY_EMAIL", "hello@example.com"),
		EmailTimeout:    time.Duration(emailTimeout) * time.Second,
		AllowedOrigins:  strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173"), ","),
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
