// Package middleware holds the HTTP middleware shared by the explorer API:
// request ids, access logging, rate limiting and bearer authentication.
package middleware

import (
	"encoding/json"
	"net/http"
)

// writeError writes the same {"code","message"} body the API handlers use.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"code":    status,
		"message": message,
	})
}
