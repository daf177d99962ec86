package credstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// fileRecord is the on-disk shape: both slots as plain strings.
type fileRecord struct {
	Token string `json:"token"`
	User  string `json:"user"`
}

// FileBackend stores both slots in a single JSON file replaced atomically,
// so readers see either the old pair or the new one.
type FileBackend struct {
	mu   sync.Mutex
	path string
}

// NewFileBackend returns a backend writing to path. The file is created on first save.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Path returns the credential file location.
func (f *FileBackend) Path() string { return f.path }

func (f *FileBackend) Read(context.Context) (Slots, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Slots{}, nil
		}
		return Slots{}, fmt.Errorf("failed to read credential file: %w", err)
	}

	var rec fileRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return Slots{}, fmt.Errorf("failed to parse credential file: %w", err)
	}
	return Slots{Token: rec.Token, User: rec.User}, nil
}

func (f *FileBackend) Write(_ context.Context, slots Slots) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.Marshal(fileRecord{Token: slots.Token, User: slots.User})
	if err != nil {
		return fmt.Errorf("failed to marshal credential file: %w", err)
	}
	// The token is a bearer secret: owner-only permissions.
	return atomicWriteFile(f.path, data, 0o600)
}

func (f *FileBackend) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove credential file: %w", err)
	}
	return nil
}

// Ping checks that the credential directory exists or can be created.
func (f *FileBackend) Ping(context.Context) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("credential directory unavailable: %w", err)
	}
	return nil
}

func (f *FileBackend) Close() error { return nil }

// atomicWriteFile writes data to a temp file in the target directory and
// renames it over filename.
func atomicWriteFile(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-credentials-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("failed to replace credential file: %w", err)
	}

	success = true
	return nil
}
