package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/jigyasumxkkxr/Projects-iit-jammu/internal/config"
	"github.com/jigyasumxkkxr/Projects-iit-jammu/internal/email"
	"github.com/jigyasumxkkxr/Projects-iit-jammu/internal/handler"
	"github.com/jigyasumxkkxr/Projects-iit-jammu/internal/middleware"
	"github.com/jigyasumxkkxr/Projects-iit-jammu/internal/model"
	"github.com/jigyasumxkkxr/Projects-iit-jammu/internal/store"
	"github.com/jigyasumxkkxr/Projects-iit-jammu/internal/token"
	"github.com/jigyasumxkkxr/Projects-iit-jammu/internal/verification"
)

type Server struct {
	db                *sql.DB
	authH             *handler.AuthHandler
	projectH          *handler.ProjectHandler
	applicationH      *handler.ApplicationHandler
	codec             *token.Codec
	verificationStore *store.VerificationStore
	rateLimiter       *middleware.RateLimiter
	logger            *slog.Logger
}

func New(db *sql.DB, cfg config.Config, emailClient *email.Client, logger *slog.Logger) *Server {
	userStore := store.NewUserStore(db)
	projectStore := store.NewProjectStore(db)
	applicationStore := store.NewApplicationStore(db)
	verificationStore := store.NewVerificationStore(db)

	codec := token.NewCodec(cfg.JWTSecret, cfg.SessionTTL)
	verifier := verification.NewManager(verificationStore, emailClient, verification.Config{
		TTL:            cfg.OTPTTL,
		ResendCooldown: cfg.OTPResendCooldown,
		MaxAttempts:    cfg.OTPMaxAttempts,
	}, logger.With("component", "verification"))

	return &Server{
		db:                db,
		authH:             handler.NewAuthHandler(userStore, verifier, codec, logger.With("component", "auth")),
		projectH:          handler.NewProjectHandler(projectStore, applicationStore, logger.With("component", "project")),
		applicationH:      handler.NewApplicationHandler(applicationStore, projectStore, logger.With("component", "application")),
		codec:             codec,
		verificationStore: verificationStore,
		rateLimiter:       middleware.NewRateLimiter(),
		logger:            logger,
	}
}

// VerificationStore returns the verification store for cleanup tasks.
func (s *Server) VerificationStore() *store.VerificationStore {
	return s.verificationStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	// Public auth routes, rate-limited by client IP
	mux.HandleFunc("POST /api/auth/register", s.rateLimited(s.authH.Register))
	mux.HandleFunc("POST /api/auth/login", s.rateLimited(s.authH.Login))
	mux.HandleFunc("POST /api/auth/verify-otp", s.rateLimited(s.authH.VerifyOTP))
	mux.HandleFunc("POST /api/auth/resend-otp", s.rateLimited(s.authH.ResendOTP))
	mux.HandleFunc("POST /api/auth/reset-password", s.rateLimited(s.authH.ResetPasswordRequest))
	mux.HandleFunc("POST /api/auth/reset-password/confirm", s.rateLimited(s.authH.ResetPasswordConfirm))
	mux.HandleFunc("GET /health", s.healthHandler)

	// Student routes
	student := middleware.RequireRole(s.codec, model.RoleStudent)
	mux.Handle("GET /api/projects", student(http.HandlerFunc(s.projectH.List)))
	mux.Handle("GET /api/projects/{id}", student(http.HandlerFunc(s.projectH.Get)))
	mux.Handle("POST /api/applications", student(http.HandlerFunc(s.applicationH.Create)))
	mux.Handle("GET /api/applications", student(http.HandlerFunc(s.applicationH.List)))
	mux.Handle("GET /api/applications/{id}", student(http.HandlerFunc(s.applicationH.Get)))

	// Professor routes
	professor := middleware.RequireRole(s.codec, model.RoleProfessor)
	mux.Handle("POST /api/professor/projects", professor(http.HandlerFunc(s.projectH.Create)))
	mux.Handle("GET /api/professor/projects", professor(http.HandlerFunc(s.projectH.ListMine)))
	mux.Handle("PUT /api/professor/projects/{id}", professor(http.HandlerFunc(s.projectH.Update)))
	mux.Handle("POST /api/professor/projects/{id}/close", professor(http.HandlerFunc(s.projectH.Close)))
	mux.Handle("GET /api/professor/projects/{id}/applications", professor(http.HandlerFunc(s.projectH.Applications)))
	mux.Handle("PUT /api/professor/applications/{id}", professor(http.HandlerFunc(s.applicationH.Decide)))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimited(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}
