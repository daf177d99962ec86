package domain

import (
	"errors"
	"strings"
)

// Error kinds surfaced by the core. Remote and storage errors wrap one of
// these so callers can branch with errors.Is.
var (
	ErrValidation        = errors.New("validation failed")
	ErrCredentials       = errors.New("invalid credentials")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrNotFound          = errors.New("not found")
	ErrTransport         = errors.New("transport failure")
	ErrMalformedResponse = errors.New("malformed response")
	ErrNotAuthenticated  = errors.New("authentication required")
)

// Messager is implemented by errors that carry a message meant for the user,
// typically the server's literal "detail".
type Messager interface {
	UserMessage() string
}

// UserMessage returns the most specific user-facing message found in err's
// chain, or fallback when there is none.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var m Messager
	if errors.As(err, &m) {
		if msg := strings.TrimSpace(m.UserMessage()); msg != "" {
			return msg
		}
	}
	return fallback
}

// ValidationError is produced client-side before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

func (e *ValidationError) UserMessage() string { return e.Reason }

func (e *ValidationError) Unwrap() error { return ErrValidation }
