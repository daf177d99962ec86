// Package respond writes the JSON bodies shared by handlers and middleware.
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/MrSnakeDoc/linkveo/internal/domain"
)

// Error is the body of every non-2xx JSON response.
type Error struct {
	Error string `json:"error"`
	Login string `json:"login,omitempty"`
}

// JSON writes v with status. Responses are never cached.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// NotAuthenticated builds the body sent when no session is active.
func NotAuthenticated(loginPath string) Error {
	return Error{Error: domain.ErrNotAuthenticated.Error(), Login: loginPath}
}
