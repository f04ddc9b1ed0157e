package middleware

import (
	"encoding/json"
	"net/http"
)

// writeJSONError is the error writer shared by the auth, role, and rate
// limit middleware. Handlers have their own richer envelope.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
