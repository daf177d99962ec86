package credstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/linkveo/internal/domain"
	"github.com/MrSnakeDoc/linkveo/internal/logger"
)

// ErrIncompleteCredentials is returned by Save when the token or profile is missing.
var ErrIncompleteCredentials = errors.New("credentials need both a token and a valid user")

// Store maps domain credentials onto a Backend.
type Store struct {
	backend Backend
	logger  logger.Logger
}

// New creates a credential store on top of backend.
func New(backend Backend, log logger.Logger) *Store {
	return &Store{
		backend: backend,
		logger:  log.With(logger.Component("credstore")),
	}
}

// Save persists token and user together. On error the previously saved
// pair is left in place.
func (s *Store) Save(ctx context.Context, creds domain.Credentials) error {
	if creds.Token == "" || !creds.User.Valid() {
		return ErrIncompleteCredentials
	}

	user, err := json.Marshal(creds.User)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	if err := s.backend.Write(ctx, Slots{Token: creds.Token, User: string(user)}); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}
	return nil
}

// Load returns the last saved pair. A missing, partial or unparsable record
// is reported as absent and never as an error.
func (s *Store) Load(ctx context.Context) (domain.Credentials, bool) {
	slots, err := s.backend.Read(ctx)
	if err != nil {
		s.logger.Warn("credential record unreadable, starting logged out", logger.Error(err))
		return domain.Credentials{}, false
	}
	if slots.Empty() {
		return domain.Credentials{}, false
	}
	if slots.Token == "" || slots.User == "" {
		s.logger.Warn("credential record incomplete, starting logged out",
			logger.Bool("has_token", slots.Token != ""),
			logger.Bool("has_user", slots.User != ""))
		return domain.Credentials{}, false
	}

	var user domain.User
	if err := json.Unmarshal([]byte(slots.User), &user); err != nil {
		s.logger.Warn("cached user profile is corrupted, starting logged out", logger.Error(err))
		return domain.Credentials{}, false
	}
	if !user.Valid() {
		s.logger.Warn("cached user profile lacks id or email, starting logged out")
		return domain.Credentials{}, false
	}

	return domain.Credentials{Token: slots.Token, User: user}, true
}

// Clear removes both slots.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.backend.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}

// Ping reports whether the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.backend.Ping(ctx)
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}
