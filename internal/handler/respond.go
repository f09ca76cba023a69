package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// notFoundMessage is shared by every ownership check. Missing resources and
// resources owned by someone else produce the same response on purpose, so
// callers cannot probe which IDs exist.
const notFoundMessage = "Not found or unauthorized"

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}
