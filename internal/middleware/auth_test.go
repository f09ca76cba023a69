package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jigyasumxkkxr/Projects-iit-jammu/internal/auth"
	"github.com/jigyasumxkkxr/Projects-iit-jammu/internal/model"
	"github.com/jigyasumxkkxr/Projects-iit-jammu/internal/token"
)

func newGuardedHandler(t *testing.T, codec *token.Codec, role string) (http.Handler, *auth.Identity) {
	t.Helper()
	var seen auth.Identity
	h := RequireRole(codec, role)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.FromContext(r.Context())
		if !ok {
			t.Fatal("expected identity in request context")
		}
		seen = id
		w.WriteHeader(http.StatusOK)
	}))
	return h, &seen
}

func TestRequireRoleNoHeader(t *testing.T) {
	codec := token.NewCodec("test-secret", time.Hour)
	handler, _ := newGuardedHandler(t, codec, model.RoleStudent)

	req := httptest.NewRequest("GET", "/api/applications", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q, want application/json", ct)
	}
}

func TestRequireRoleMalformedHeader(t *testing.T) {
	codec := token.NewCodec("test-secret", time.Hour)
	handler, _ := newGuardedHandler(t, codec, model.RoleStudent)

	for _, header := range []string{"Bearer", "Bearer ", "Basic abc", "token-without-scheme"} {
		req := httptest.NewRequest("GET", "/api/applications", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("header %q: status = %d, want %d", header, rec.Code, http.StatusUnauthorized)
		}
	}
}

func TestRequireRoleInvalidToken(t *testing.T) {
	codec := token.NewCodec("test-secret", time.Hour)
	handler, _ := newGuardedHandler(t, codec, model.RoleStudent)

	signed, _ := token.NewCodec("other-secret", time.Hour).Issue("u1", model.RoleStudent)

	req := httptest.NewRequest("GET", "/api/applications", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireRoleExpiredToken(t *testing.T) {
	issuer := token.NewCodec("test-secret", -time.Minute)
	codec := token.NewCodec("test-secret", time.Hour)
	handler, _ := newGuardedHandler(t, codec, model.RoleStudent)

	signed, _ := issuer.Issue("u1", model.RoleStudent)

	req := httptest.NewRequest("GET", "/api/applications", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireRoleWrongRole(t *testing.T) {
	codec := token.NewCodec("test-secret", time.Hour)
	handler, _ := newGuardedHandler(t, codec, model.RoleProfessor)

	signed, _ := codec.Issue("u1", model.RoleStudent)

	req := httptest.NewRequest("GET", "/api/professor/projects", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	// Wrong role is indistinguishable from a missing resource.
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestRequireRoleValidToken(t *testing.T) {
	codec := token.NewCodec("test-secret", time.Hour)
	handler, seen := newGuardedHandler(t, codec, model.RoleStudent)

	signed, _ := codec.Issue("student-42", model.RoleStudent)

	req := httptest.NewRequest("GET", "/api/applications", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if seen.UserID != "student-42" {
		t.Errorf("user id = %q, want %q", seen.UserID, "student-42")
	}
	if seen.Role != model.RoleStudent {
		t.Errorf("role = %q, want student", seen.Role)
	}
}
