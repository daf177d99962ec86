package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/linkveo/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkveo/internal/logger"
)

type readyzResponse struct {
	Ready         bool   `json:"ready"`
	Authenticated bool   `json:"authenticated"`
	Error         string `json:"error,omitempty"`
}

// Readyz reports whether the credential storage answers.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := readyzResponse{Ready: true}
		if d.Core != nil {
			resp.Authenticated = d.Core.CanAccess()
		}

		if d.Ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := d.Ready(ctx); err != nil {
				d.Logger.Warn("credential storage not ready", logger.Error(err))
				resp.Ready = false
				resp.Error = "credential storage unavailable"
				writeJSON(w, http.StatusServiceUnavailable, resp)
				return
			}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
