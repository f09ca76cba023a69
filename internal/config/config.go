package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds every environment-provided setting the portal reads. Loaded
// once in main and passed down; nothing re-reads the environment afterwards.
type Config struct {
	Port   string
	DBPath string

	// Signing secret for session credentials. Required unless dev mode
	// is acceptable; Load fails when empty and PORTAL_DEV is not set.
	JWTSecret  string
	SessionTTL time.Duration

	OTPTTL            time.Duration
	OTPResendCooldown time.Duration
	OTPMaxAttempts    int

	PostmarkToken string
	FromEmail     string
	BaseURL       string

	LogLevel string
}

// Load reads configuration from the environment, applying development
// defaults for everything except the signing secret.
func Load() (Config, error) {
	cfg := Config{
		Port:              getenv("PORTAL_PORT", "8080"),
		DBPath:            getenv("PORTAL_DB_PATH", "portal.db"),
		JWTSecret:         os.Getenv("PORTAL_JWT_SECRET"),
		SessionTTL:        24 * time.Hour,
		OTPTTL:            5 * time.Minute,
		OTPResendCooldown: 60 * time.Second,
		OTPMaxAttempts:    5,
		PostmarkToken:     os.Getenv("PORTAL_POSTMARK_TOKEN"),
		FromEmail:         getenv("PORTAL_FROM_EMAIL", "noreply@localhost"),
		BaseURL:           getenv("PORTAL_BASE_URL", "http://localhost:8080"),
		LogLevel:          getenv("PORTAL_LOG_LEVEL", "info"),
	}

	var err error
	if cfg.SessionTTL, err = getduration("PORTAL_SESSION_TTL", cfg.SessionTTL); err != nil {
		return Config{}, err
	}
	if cfg.OTPTTL, err = getduration("PORTAL_OTP_TTL", cfg.OTPTTL); err != nil {
		return Config{}, err
	}
	if cfg.OTPResendCooldown, err = getduration("PORTAL_OTP_RESEND_COOLDOWN", cfg.OTPResendCooldown); err != nil {
		return Config{}, err
	}
	if v := os.Getenv("PORTAL_OTP_MAX_ATTEMPTS"); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err != nil || n < 1 {
			return Config{}, fmt.Errorf("invalid PORTAL_OTP_MAX_ATTEMPTS %q", v)
		}
		cfg.OTPMaxAttempts = n
	}

	if cfg.JWTSecret == "" {
		if os.Getenv("PORTAL_DEV") == "" {
			return Config{}, fmt.Errorf("PORTAL_JWT_SECRET is required")
		}
		cfg.JWTSecret = "dev-secret-do-not-use-in-production"
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getduration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", key, v)
	}
	return d, nil
}
