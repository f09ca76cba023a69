package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jigyasumxkkxr/Projects-iit-jammu/internal/auth"
	"github.com/jigyasumxkkxr/Projects-iit-jammu/internal/token"
)

// RequireRole validates the bearer credential on the request and enforces
// the required role before the handler runs. Missing, malformed, invalid,
// and expired credentials all yield 401. A valid credential with the wrong
// role yields 404, not 403: protected resources must not reveal whether
// they exist to callers of the wrong role.
func RequireRole(codec *token.Codec, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				respondMessage(w, http.StatusUnauthorized, "Authorization token is required")
				return
			}

			bearer, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(bearer) == "" {
				respondMessage(w, http.StatusUnauthorized, "Invalid authorization header format")
				return
			}

			id, err := codec.Validate(strings.TrimSpace(bearer))
			if err != nil {
				respondMessage(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			if id.Role != role {
				respondMessage(w, http.StatusNotFound, "Not found")
				return
			}

			ctx := auth.WithIdentity(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// respondMessage writes the portal's standard JSON error envelope.
func respondMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
