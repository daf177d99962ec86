package remote

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/linkveo/internal/domain"
)

// Error is a failed exchange with a remote service.
type Error struct {
	Op     string // ex: "login", "list links"
	Status int    // 0 when no response was received
	Detail string // server-provided message, if any
	Err    error  // one of the domain sentinels
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Status != 0 {
		fmt.Fprintf(&b, ": status %d", e.Status)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	} else if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// UserMessage is the server's literal detail. Transport and decoding
// failures have none so callers fall back to a generic message.
func (e *Error) UserMessage() string { return e.Detail }

// statusKind maps a non-2xx status to an error kind. Login treats 401 as
// bad credentials, every other call as a rejected token.
func statusKind(status int, login bool) error {
	switch {
	case status == http.StatusUnauthorized && login:
		return domain.ErrCredentials
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return domain.ErrUnauthorized
	case status == http.StatusNotFound:
		return domain.ErrNotFound
	case status == http.StatusBadRequest,
		status == http.StatusConflict,
		status == http.StatusUnprocessableEntity:
		return domain.ErrValidation
	default:
		return domain.ErrTransport
	}
}

type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type validationIssue struct {
	Msg string `json:"msg"`
}

// parseDetail extracts "detail" from an error body. It may be a plain
// string or a list of validation issues; anything else yields "".
func parseDetail(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(eb.Detail, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var issues []validationIssue
	if err := json.Unmarshal(eb.Detail, &issues); err == nil {
		msgs := make([]string, 0, len(issues))
		for _, is := range issues {
			if m := strings.TrimSpace(is.Msg); m != "" {
				msgs = append(msgs, m)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}
