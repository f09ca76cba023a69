package verification

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/jigyasumxkkxr/Projects-iit-jammu/internal/model"
	"github.com/jigyasumxkkxr/Projects-iit-jammu/internal/store"
)

// Failure kinds callers branch on with errors.Is.
var (
	// ErrCooldownActive: a code was issued too recently to send another.
	ErrCooldownActive = errors.New("resend cooldown active")
	// ErrExpired: no live code exists — expired, consumed, or never issued.
	ErrExpired = errors.New("verification code expired or not found")
	// ErrLocked: attempt limit reached; a fresh code must be requested.
	ErrLocked = errors.New("verification code locked")
	// ErrMismatch: the submitted code does not match the live one.
	ErrMismatch = errors.New("verification code mismatch")
	// ErrNotifierUnavailable: the code was stored but the email could not
	// be sent. The code stays valid, so a later resend or verify can
	// still succeed.
	ErrNotifierUnavailable = errors.New("notifier unavailable")
)

// Notifier delivers codes to users. Implemented by the email client; the
// manager never cares how delivery happens.
type Notifier interface {
	SendOTP(email, code string) error
	SendPasswordReset(email, token string) error
}

type Config struct {
	TTL            time.Duration
	ResendCooldown time.Duration
	MaxAttempts    int
}

// Manager runs the one-time-code state machine per (email, purpose):
// a request issues a code that supersedes any previous one, a matching
// submission consumes it, too many mismatches lock it, and expiry retires
// it. All operations for the same key are serialized through a per-key
// mutex so a resend racing a verify cannot both observe the old code.
type Manager struct {
	store    *store.VerificationStore
	notifier Notifier
	cfg      Config
	logger   *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewManager(vs *store.VerificationStore, notifier Notifier, cfg Config, logger *slog.Logger) *Manager {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 5
	}
	return &Manager{
		store:    vs,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger,
		locks:    make(map[string]*sync.Mutex),
	}
}

func (m *Manager) keyLock(email, purpose string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := email + "|" + purpose
	l, ok := m.locks[key]
	if !ok {
		l = &sync.Mutex{}
		m.locks[key] = l
	}
	return l
}

// Start issues a new code for (email, purpose) and asks the Notifier to
// deliver it. A code issued within the resend cooldown is left in place and
// ErrCooldownActive is returned. The code is persisted before notification,
// so a failed send returns ErrNotifierUnavailable with the code still live.
func (m *Manager) Start(email, purpose string) (*model.VerificationCode, error) {
	l := m.keyLock(email, purpose)
	l.Lock()
	defer l.Unlock()

	live, err := m.store.GetLive(email, purpose)
	if err != nil {
		return nil, fmt.Errorf("look up live code: %w", err)
	}
	if live != nil && time.Since(live.CreatedAt) < m.cfg.ResendCooldown {
		return nil, ErrCooldownActive
	}

	code, err := generateCode(purpose)
	if err != nil {
		return nil, err
	}

	rec, err := m.store.Create(email, purpose, code, m.cfg.TTL)
	if err != nil {
		return nil, fmt.Errorf("store verification code: %w", err)
	}

	if err := m.notify(email, purpose, code); err != nil {
		m.logger.Error("send verification code", "purpose", purpose, "error", err)
		return rec, ErrNotifierUnavailable
	}

	return rec, nil
}

// Verify checks a submitted code for (email, purpose). On a match the code
// is consumed and cannot be used again. A mismatch increments the attempt
// counter; reaching the limit locks the code for good, even inside its time
// window. Failed verifies never extend or shorten the expiry.
func (m *Manager) Verify(email, purpose, submitted string) error {
	l := m.keyLock(email, purpose)
	l.Lock()
	defer l.Unlock()

	live, err := m.store.GetLive(email, purpose)
	if err != nil {
		return fmt.Errorf("look up live code: %w", err)
	}
	if live == nil {
		return ErrExpired
	}

	if live.Attempts >= m.cfg.MaxAttempts {
		return ErrLocked
	}

	if live.Code != submitted {
		attempts, err := m.store.IncrementAttempts(live.ID)
		if err != nil {
			return fmt.Errorf("increment attempts: %w", err)
		}
		if attempts >= m.cfg.MaxAttempts {
			return ErrLocked
		}
		return ErrMismatch
	}

	if err := m.store.MarkConsumed(live.ID); err != nil {
		return fmt.Errorf("consume verification code: %w", err)
	}
	return nil
}

func (m *Manager) notify(email, purpose, code string) error {
	switch purpose {
	case model.PurposePasswordReset:
		return m.notifier.SendPasswordReset(email, code)
	default:
		return m.notifier.SendOTP(email, code)
	}
}

// generateCode returns a 6-digit numeric OTP for logins and a 32-hex-char
// token for password-reset links.
func generateCode(purpose string) (string, error) {
	if purpose == model.PurposePasswordReset {
		buf := make([]byte, 16)
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("generate reset token: %w", err)
		}
		return hex.EncodeToString(buf), nil
	}

	// Range: 100000 to 999999 (900000 values)
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
