package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jigyasumxkkxr/Projects-iit-jammu/internal/model"
	"github.com/jigyasumxkkxr/Projects-iit-jammu/internal/password"
	"github.com/jigyasumxkkxr/Projects-iit-jammu/internal/store"
	"github.com/jigyasumxkkxr/Projects-iit-jammu/internal/token"
	"github.com/jigyasumxkkxr/Projects-iit-jammu/internal/verification"
)

type AuthHandler struct {
	userStore *store.UserStore
	verifier  *verification.Manager
	codec     *token.Codec
	logger    *slog.Logger
}

func NewAuthHandler(us *store.UserStore, verifier *verification.Manager, codec *token.Codec, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		userStore: us,
		verifier:  verifier,
		codec:     codec,
		logger:    logger,
	}
}

type registerRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Department string `json:"department"`
}

type userResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Department string `json:"department"`
}

// Register creates a portal account with a bcrypt-hashed password.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		respondMessage(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	if !model.ValidRole(req.Role) {
		respondMessage(w, http.StatusBadRequest, "Role must be student or professor")
		return
	}

	existing, err := h.userStore.GetByEmail(req.Email)
	if err != nil {
		h.logger.Error("register lookup", "error", err)
		respondMessage(w, http.StatusInternalServerError, "Internal error")
		return
	}
	if existing != nil {
		respondMessage(w, http.StatusConflict, "Email already registered")
		return
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		h.logger.Error("hash password", "error", err)
		respondMessage(w, http.StatusInternalServerError, "Internal error")
		return
	}

	user, err := h.userStore.Create(req.Email, strings.TrimSpace(req.Name), req.Role, strings.TrimSpace(req.Department), hash)
	if err != nil {
		h.logger.Error("create user", "error", err)
		respondMessage(w, http.StatusInternalServerError, "Internal error")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "Registration successful",
		"user": userResponse{
			ID:         user.ID,
			Email:      user.Email,
			Name:       user.Name,
			Role:       user.Role,
			Department: user.Department,
		},
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login checks the password and starts the login OTP flow. No credential is
// returned yet; the caller must verify the emailed code. Unknown emails and
// wrong passwords are deliberately indistinguishable.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		respondMessage(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.userStore.GetByEmail(req.Email)
	if err != nil {
		h.logger.Error("login lookup", "error", err)
		respondMessage(w, http.StatusInternalServerError, "Internal error")
		return
	}
	if user == nil || !password.Verify(user.PasswordHash, req.Password) {
		respondMessage(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	h.startVerification(w, req.Email, model.PurposeLoginOTP)
}

type resendRequest struct {
	Email string `json:"email"`
}

// ResendOTP issues a fresh login code, subject to the resend cooldown.
// Unregistered emails get the same success-shaped response without a code
// ever being generated.
func (h *AuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req resendRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		respondMessage(w, http.StatusBadRequest, "Email is required")
		return
	}

	user, err := h.userStore.GetByEmail(req.Email)
	if err != nil {
		h.logger.Error("resend lookup", "error", err)
		respondMessage(w, http.StatusInternalServerError, "Internal error")
		return
	}
	if user == nil {
		respondMessage(w, http.StatusAccepted, "Verification code sent")
		return
	}

	h.startVerification(w, req.Email, model.PurposeLoginOTP)
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// VerifyOTP consumes a login code and mints the session credential.
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.OTP = strings.TrimSpace(req.OTP)
	if req.Email == "" || req.OTP == "" {
		respondMessage(w, http.StatusBadRequest, "Email and code are required")
		return
	}

	if !h.verifyCode(w, req.Email, model.PurposeLoginOTP, req.OTP) {
		return
	}

	user, err := h.userStore.GetByEmail(req.Email)
	if err != nil || user == nil {
		h.logger.Error("verify otp user lookup", "error", err)
		respondMessage(w, http.StatusUnauthorized, "Invalid or expired code")
		return
	}

	signed, err := h.codec.Issue(user.ID, user.Role)
	if err != nil {
		h.logger.Error("issue token", "error", err)
		respondMessage(w, http.StatusInternalServerError, "Internal error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"token":   signed,
		"user": userResponse{
			ID:         user.ID,
			Email:      user.Email,
			Name:       user.Name,
			Role:       user.Role,
			Department: user.Department,
		},
	})
}

type resetRequestRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ResetPasswordRequest starts the password-reset flow. The response is
// success-shaped no matter what: an unknown email, a role mismatch, or an
// active cooldown all look identical to the caller.
func (h *AuthHandler) ResetPasswordRequest(w http.ResponseWriter, r *http.Request) {
	var req resetRequestRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		respondMessage(w, http.StatusBadRequest, "Email is required")
		return
	}

	const sent = "If the email is registered, a password reset link has been sent"

	user, err := h.userStore.GetByEmail(req.Email)
	if err != nil {
		h.logger.Error("reset request lookup", "error", err)
		respondMessage(w, http.StatusOK, sent)
		return
	}
	if user == nil || (req.Role != "" && user.Role != req.Role) {
		respondMessage(w, http.StatusOK, sent)
		return
	}

	rec, err := h.verifier.Start(req.Email, model.PurposePasswordReset)
	switch {
	case errors.Is(err, verification.ErrCooldownActive):
		// Coalesce: the earlier link is still live, and surfacing the
		// cooldown would reveal that the email is registered.
	case errors.Is(err, verification.ErrNotifierUnavailable):
		h.logger.Warn("reset email not sent, token still valid", "error", err)
		h.logCodeIfUnsent(req.Email, rec)
	case err != nil:
		h.logger.Error("start password reset", "error", err)
	}

	respondMessage(w, http.StatusOK, sent)
}

type resetConfirmRequest struct {
	Email       string `json:"email"`
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// ResetPasswordConfirm consumes the reset token and replaces the password
// hash. The token is single-use: a second confirm with the same token fails.
func (h *AuthHandler) ResetPasswordConfirm(w http.ResponseWriter, r *http.Request) {
	var req resetConfirmRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Token = strings.TrimSpace(req.Token)
	if req.Email == "" || req.Token == "" || req.NewPassword == "" {
		respondMessage(w, http.StatusBadRequest, "Email, token, and new password are required")
		return
	}

	if !h.verifyCode(w, req.Email, model.PurposePasswordReset, req.Token) {
		return
	}

	user, err := h.userStore.GetByEmail(req.Email)
	if err != nil || user == nil {
		h.logger.Error("reset confirm user lookup", "error", err)
		respondMessage(w, http.StatusUnauthorized, "Invalid or expired code")
		return
	}

	hash, err := password.Hash(req.NewPassword)
	if err != nil {
		h.logger.Error("hash new password", "error", err)
		respondMessage(w, http.StatusInternalServerError, "Internal error")
		return
	}
	if err := h.userStore.UpdatePasswordHash(user.ID, hash); err != nil {
		h.logger.Error("update password hash", "error", err)
		respondMessage(w, http.StatusInternalServerError, "Internal error")
		return
	}

	respondMessage(w, http.StatusOK, "Password updated successfully")
}

// startVerification runs Manager.Start and maps its failure kinds for the
// login flow. Cooldown is surfaced as 429 here; callers that must stay
// success-shaped handle Start themselves.
func (h *AuthHandler) startVerification(w http.ResponseWriter, email, purpose string) {
	rec, err := h.verifier.Start(email, purpose)
	switch {
	case errors.Is(err, verification.ErrCooldownActive):
		respondMessage(w, http.StatusTooManyRequests, "Please wait before requesting another code")
		return
	case errors.Is(err, verification.ErrNotifierUnavailable):
		h.logger.Warn("verification email not sent, code still valid", "error", err)
		h.logCodeIfUnsent(email, rec)
	case err != nil:
		h.logger.Error("start verification", "purpose", purpose, "error", err)
		respondMessage(w, http.StatusInternalServerError, "Internal error")
		return
	}

	respondMessage(w, http.StatusAccepted, "Verification code sent")
}

// verifyCode runs Manager.Verify and writes the failure response when the
// code does not check out. Returns true when verification succeeded.
func (h *AuthHandler) verifyCode(w http.ResponseWriter, email, purpose, submitted string) bool {
	err := h.verifier.Verify(email, purpose, submitted)
	switch {
	case err == nil:
		return true
	case errors.Is(err, verification.ErrLocked):
		respondMessage(w, http.StatusTooManyRequests, "Too many incorrect attempts. Please request a new code")
	case errors.Is(err, verification.ErrMismatch):
		respondMessage(w, http.StatusUnauthorized, "Incorrect code")
	case errors.Is(err, verification.ErrExpired):
		respondMessage(w, http.StatusUnauthorized, "Code has expired or already been used. Please request a new one")
	default:
		h.logger.Error("verify code", "purpose", purpose, "error", err)
		respondMessage(w, http.StatusInternalServerError, "Internal error")
	}
	return false
}

// logCodeIfUnsent logs the generated code when no email provider is
// configured, mirroring a dev setup where codes are read off the server log.
func (h *AuthHandler) logCodeIfUnsent(email string, rec *model.VerificationCode) {
	if rec == nil {
		return
	}
	h.logger.Info("verification code generated", "email", email, "purpose", rec.Purpose, "code", rec.Code)
}
