package store

import (
	"testing"
	"time"

	"github.com/jigyasumxkkxr/Projects-iit-jammu/internal/database"
	"github.com/jigyasumxkkxr/Projects-iit-jammu/internal/model"
)

func setupVerificationTestDB(t *testing.T) *VerificationStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewVerificationStore(db)
}

func TestVerificationCreate(t *testing.T) {
	vs := setupVerificationTestDB(t)

	vc, err := vs.Create("a@x.com", model.PurposeLoginOTP, "123456", 5*time.Minute)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if vc.Code != "123456" {
		t.Errorf("code = %q, want %q", vc.Code, "123456")
	}
	if vc.Attempts != 0 {
		t.Errorf("attempts = %d, want 0", vc.Attempts)
	}
	if vc.ConsumedAt != nil {
		t.Error("expected nil consumed_at")
	}
	if !vc.ExpiresAt.After(time.Now().UTC()) {
		t.Error("expected future expiry")
	}
}

func TestVerificationCreateSupersedes(t *testing.T) {
	vs := setupVerificationTestDB(t)

	first, _ := vs.Create("a@x.com", model.PurposeLoginOTP, "111111", 5*time.Minute)
	second, err := vs.Create("a@x.com", model.PurposeLoginOTP, "222222", 5*time.Minute)
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	live, err := vs.GetLive("a@x.com", model.PurposeLoginOTP)
	if err != nil {
		t.Fatalf("get live: %v", err)
	}
	if live == nil {
		t.Fatal("expected a live code")
	}
	if live.ID != second.ID {
		t.Errorf("live id = %d, want %d (newest)", live.ID, second.ID)
	}
	if live.ID == first.ID {
		t.Error("superseded code must not be live")
	}
}

func TestVerificationCreateLeavesOtherPurposeAlone(t *testing.T) {
	vs := setupVerificationTestDB(t)

	vs.Create("a@x.com", model.PurposeLoginOTP, "111111", 5*time.Minute)
	vs.Create("a@x.com", model.PurposePasswordReset, "deadbeef", 5*time.Minute)

	otp, err := vs.GetLive("a@x.com", model.PurposeLoginOTP)
	if err != nil {
		t.Fatalf("get live otp: %v", err)
	}
	if otp == nil {
		t.Fatal("login-otp code should survive a password-reset request")
	}
}

func TestVerificationGetLiveIgnoresExpired(t *testing.T) {
	vs := setupVerificationTestDB(t)

	vs.Create("a@x.com", model.PurposeLoginOTP, "123456", -time.Second)

	live, err := vs.GetLive("a@x.com", model.PurposeLoginOTP)
	if err != nil {
		t.Fatalf("get live: %v", err)
	}
	if live != nil {
		t.Error("expected nil for expired code")
	}
}

func TestVerificationIncrementAttempts(t *testing.T) {
	vs := setupVerificationTestDB(t)

	vc, _ := vs.Create("a@x.com", model.PurposeLoginOTP, "123456", 5*time.Minute)

	n, err := vs.IncrementAttempts(vc.ID)
	if err != nil {
		t.Fatalf("increment: %v", err)
	}
	if n != 1 {
		t.Errorf("attempts = %d, want 1", n)
	}
	n, _ = vs.IncrementAttempts(vc.ID)
	if n != 2 {
		t.Errorf("attempts = %d, want 2", n)
	}
}

func TestVerificationMarkConsumed(t *testing.T) {
	vs := setupVerificationTestDB(t)

	vc, _ := vs.Create("a@x.com", model.PurposeLoginOTP, "123456", 5*time.Minute)

	if err := vs.MarkConsumed(vc.ID); err != nil {
		t.Fatalf("mark consumed: %v", err)
	}

	live, _ := vs.GetLive("a@x.com", model.PurposeLoginOTP)
	if live != nil {
		t.Error("consumed code must not be live")
	}
}

func TestVerificationDeleteExpired(t *testing.T) {
	vs := setupVerificationTestDB(t)

	vs.Create("a@x.com", model.PurposeLoginOTP, "123456", -time.Second)
	vs.Create("b@x.com", model.PurposeLoginOTP, "654321", 5*time.Minute)

	n, err := vs.DeleteExpired()
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted = %d, want 1", n)
	}

	live, _ := vs.GetLive("b@x.com", model.PurposeLoginOTP)
	if live == nil {
		t.Error("unexpired code should survive cleanup")
	}
}
