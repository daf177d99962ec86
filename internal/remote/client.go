// Package remote talks to the Auth and Resource services over HTTP.
//
// Responses are decoded into wire records and validated before they are
// turned into domain values. Every failure is an *Error unwrapping to one of
// the domain error kinds.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MrSnakeDoc/linkveo/internal/domain"
	"github.com/MrSnakeDoc/linkveo/internal/logger"
)

// maxBody caps how much of a response is read.
const maxBody = 4 << 20

// Client is a small JSON-over-HTTP client bound to one base URL.
type Client struct {
	baseURL string
	http    *http.Client
	logger  logger.Logger
}

// NewClient returns a client for baseURL (ex: "http://localhost:8000").
// A zero timeout disables the per-request deadline.
func NewClient(baseURL string, timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  log,
	}
}

// BaseURL returns the service root this client targets.
func (c *Client) BaseURL() string { return c.baseURL }

type request struct {
	op     string
	method string
	path   string
	token  string
	form   url.Values
	json   any
	login  bool
}

// do performs r and decodes a 2xx body into out (skipped when out is nil).
func (c *Client) do(ctx context.Context, r request, out any) error {
	var (
		body        io.Reader = http.NoBody
		contentType string
	)
	switch {
	case r.form != nil:
		body = strings.NewReader(r.form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case r.json != nil:
		buf, err := json.Marshal(r.json)
		if err != nil {
			return &Error{Op: r.op, Err: fmt.Errorf("%w: encode request: %v", domain.ErrTransport, err)}
		}
		body = bytes.NewReader(buf)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, body)
	if err != nil {
		return &Error{Op: r.op, Err: fmt.Errorf("%w: %v", domain.ErrTransport, err)}
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("remote call failed",
			logger.String("op", r.op),
			logger.String("method", r.method),
			logger.String("path", r.path),
			logger.Error(err),
		)
		return &Error{Op: r.op, Err: fmt.Errorf("%w: %v", domain.ErrTransport, err)}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return &Error{Op: r.op, Status: resp.StatusCode, Err: fmt.Errorf("%w: read body: %v", domain.ErrTransport, err)}
	}

	c.logger.Debug("remote call",
		logger.String("op", r.op),
		logger.String("method", r.method),
		logger.String("path", r.path),
		logger.Int("status", resp.StatusCode),
		logger.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e := &Error{
			Op:     r.op,
			Status: resp.StatusCode,
			Detail: parseDetail(payload),
			Err:    statusKind(resp.StatusCode, r.login),
		}
		c.logger.Warn("remote call rejected",
			logger.String("op", r.op),
			logger.Int("status", resp.StatusCode),
			logger.String("detail", e.Detail),
		)
		return e
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return malformed(r.op, resp.StatusCode, err)
	}
	return nil
}

func malformed(op string, status int, err error) *Error {
	return &Error{Op: op, Status: status, Err: fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)}
}

// finish turns a validation failure of a decoded record into an *Error.
func finish[T any](op string, v T, err error) (T, error) {
	if err != nil {
		var zero T
		return zero, malformed(op, http.StatusOK, err)
	}
	return v, nil
}
