package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/linkveo/internal/domain"
	"github.com/MrSnakeDoc/linkveo/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkveo/internal/httpserver/respond"
	"github.com/MrSnakeDoc/linkveo/internal/logger"
)

// maxRequestBody caps JSON and YAML request bodies.
const maxRequestBody = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	respond.JSON(w, status, v)
}

// StatusFor maps an error kind to an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotAuthenticated),
		errors.Is(err, domain.ErrCredentials),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrTransport),
		errors.Is(err, domain.ErrMalformedResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, d deps.Deps, err error, fallback string) {
	status := StatusFor(err)
	body := respond.Error{Error: domain.UserMessage(err, fallback)}
	if errors.Is(err, domain.ErrNotAuthenticated) {
		msg := body.Error
		body = respond.NotAuthenticated(d.LoginPath)
		if msg != fallback {
			body.Error = msg
		}
	}
	if status >= http.StatusInternalServerError {
		d.Logger.Warn("request failed", logger.Int("status", status), logger.Error(err))
	}
	writeJSON(w, status, body)
}

// decode reads a JSON body into v. Unknown fields are rejected.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &domain.ValidationError{Field: "body", Reason: "invalid JSON body"}
	}
	return nil
}
