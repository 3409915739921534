package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	// SiteURL is the canonical URL of this deployment, used when building
	// absolute URLs in emails and redirects.
	SiteURL string

	DatabaseURL string
	RedisURL    string

	FacebookAppID     string
	FacebookAppSecret string
	FacebookNamespace string
	// FacebookAppURL is where users land inside the platform canvas.
	FacebookAppURL string
	// DownloadURL is the fallback target when a banner link can't be resolved.
	DownloadURL string
	GraphURL    string

	// LinkActivationWindow bounds how long an account-link activation code
	// stays valid after it is issued.
	LinkActivationWindow time.Duration

	SessionSecret  string
	SessionMaxAge  time.Duration
	LinkRateLimit  time.Duration

	SMTPAddr  string
	SMTPUser  string
	SMTPPass  string
	FromEmail string
	// ClickGoalEmail receives the heads-up when a user with ad-approved
	// banners de-authorizes the app.
	ClickGoalEmail string

	BasketURL         string
	BasketMailingList string

	CloudinaryUploadFolder string

	DefaultLocale string
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),
		SiteURL:        getEnv("SITE_URL", "http://localhost:8080"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		FacebookAppID:     os.Getenv("FACEBOOK_APP_ID"),
		FacebookAppSecret: os.Getenv("FACEBOOK_APP_SECRET"),
		FacebookNamespace: getEnv("FACEBOOK_APP_NAMESPACE", "affiliates"),
		FacebookAppURL:    getEnv("FACEBOOK_APP_URL", "https://apps.facebook.com/affiliates"),
		DownloadURL:       getEnv("FACEBOOK_DOWNLOAD_URL", "https://www.mozilla.org/firefox/"),
		GraphURL:          getEnv("FACEBOOK_GRAPH_URL", "https://graph.facebook.com"),

		SessionSecret: os.Getenv("SESSION_SECRET"),

		SMTPAddr:       getEnv("SMTP_ADDR", "localhost:25"),
		SMTPUser:       os.Getenv("SMTP_USER"),
		SMTPPass:       os.Getenv("SMTP_PASS"),
		FromEmail:      getEnv("FROM_EMAIL", "notifications@affiliates.example.com"),
		ClickGoalEmail: getEnv("CLICK_GOAL_EMAIL", "affiliates-admins@example.com"),

		BasketURL:         getEnv("BASKET_URL", "https://basket.mozilla.org"),
		BasketMailingList: getEnv("FACEBOOK_MAILING_LIST", "affiliates-facebook"),

		CloudinaryUploadFolder: getEnv("CLOUDINARY_UPLOAD_FOLDER", "affiliates_banners"),

		DefaultLocale: getEnv("DEFAULT_LOCALE", "en-us"),
	}

	if cfg.AppEnv != "development" {
		if cfg.FacebookAppSecret == "" {
			return nil, fmt.Errorf("FACEBOOK_APP_SECRET is required")
		}
		if cfg.SessionSecret == "" {
			return nil, fmt.Errorf("SESSION_SECRET is required")
		}
	}

	var err error
	cfg.LinkActivationWindow, err = parseDuration(getEnv("FACEBOOK_LINK_DELAY", "48h"))
	if err != nil {
		return nil, fmt.Errorf("invalid FACEBOOK_LINK_DELAY: %w", err)
	}
	cfg.SessionMaxAge, err = parseDuration(getEnv("SESSION_MAX_AGE", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_MAX_AGE: %w", err)
	}
	cfg.LinkRateLimit, err = parseDuration(getEnv("RATE_LIMIT_LINK", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_LINK: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func parseDuration(s string) (time.Duration, error) {
	return time.ParseDuration(s)
}
