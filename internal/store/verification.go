package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jigyasumxkkxr/Projects-iit-jammu/internal/model"
)

type VerificationStore struct {
	db *sql.DB
}

func NewVerificationStore(db *sql.DB) *VerificationStore {
	return &VerificationStore{db: db}
}

func scanVerification(scanner interface{ Scan(...any) error }) (*model.VerificationCode, error) {
	var vc model.VerificationCode
	var consumedAt sql.NullTime

	err := scanner.Scan(
		&vc.ID, &vc.Email, &vc.Purpose, &vc.Code,
		&vc.ExpiresAt, &consumedAt, &vc.Attempts, &vc.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if consumedAt.Valid {
		vc.ConsumedAt = &consumedAt.Time
	}
	return &vc, nil
}

const verificationCols = `id, email, purpose, code, expires_at, consumed_at, attempts, created_at`

// Create inserts a fresh code for (email, purpose) with the given TTL.
// Any prior live code for the same key is consumed first, so at most one
// live record exists per key at a time.
func (s *VerificationStore) Create(email, purpose, code string, ttl time.Duration) (*model.VerificationCode, error) {
	if _, err := s.db.Exec(
		`UPDATE verification_codes SET consumed_at = datetime('now')
		 WHERE email = ? AND purpose = ? AND consumed_at IS NULL AND expires_at > ?`,
		email, purpose, time.Now().UTC(),
	); err != nil {
		return nil, fmt.Errorf("supersede previous codes: %w", err)
	}

	expiresAt := time.Now().UTC().Add(ttl)
	result, err := s.db.Exec(
		`INSERT INTO verification_codes (email, purpose, code, expires_at) VALUES (?, ?, ?, ?)`,
		email, purpose, code, expiresAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert verification code: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	row := s.db.QueryRow(`SELECT `+verificationCols+` FROM verification_codes WHERE id = ?`, id)
	return scanVerification(row)
}

// GetLive returns the unconsumed, unexpired code for (email, purpose), or
// nil if none exists.
func (s *VerificationStore) GetLive(email, purpose string) (*model.VerificationCode, error) {
	row := s.db.QueryRow(
		`SELECT `+verificationCols+` FROM verification_codes
		 WHERE email = ? AND purpose = ? AND consumed_at IS NULL AND expires_at > ?
		 ORDER BY created_at DESC LIMIT 1`,
		email, purpose, time.Now().UTC(),
	)
	vc, err := scanVerification(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get live verification code: %w", err)
	}
	return vc, nil
}

// IncrementAttempts bumps the failed-attempt counter and returns the new value.
func (s *VerificationStore) IncrementAttempts(id int64) (int, error) {
	_, err := s.db.Exec(
		`UPDATE verification_codes SET attempts = attempts + 1 WHERE id = ?`,
		id,
	)
	if err != nil {
		return 0, fmt.Errorf("increment attempts: %w", err)
	}

	var attempts int
	err = s.db.QueryRow(`SELECT attempts FROM verification_codes WHERE id = ?`, id).Scan(&attempts)
	if err != nil {
		return 0, fmt.Errorf("read attempts: %w", err)
	}
	return attempts, nil
}

// MarkConsumed sets consumed_at once; a record already consumed is left
// untouched so the original consumption time is preserved.
func (s *VerificationStore) MarkConsumed(id int64) error {
	_, err := s.db.Exec(
		`UPDATE verification_codes SET consumed_at = datetime('now') WHERE id = ? AND consumed_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("mark verification code consumed: %w", err)
	}
	return nil
}

// DeleteExpired removes codes past their expiry; run periodically.
func (s *VerificationStore) DeleteExpired() (int64, error) {
	result, err := s.db.Exec(`DELETE FROM verification_codes WHERE expires_at <= ?`, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired verification codes: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}
