package model

import "time"

// Verification purposes. Each (email, purpose) pair has at most one live code.
const (
	PurposeLoginOTP      = "login-otp"
	PurposePasswordReset = "password-reset"
)

type VerificationCode struct {
	ID         int64      `json:"id"`
	Email      string     `json:"email"`
	Purpose    string     `json:"purpose"`
	Code       string     `json:"code"`
	ExpiresAt  time.Time  `json:"expires_at"`
	ConsumedAt *time.Time `json:"consumed_at"`
	Attempts   int        `json:"attempts"`
	CreatedAt  time.Time  `json:"created_at"`
}
