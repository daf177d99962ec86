// Package credstore persists the session token and cached user profile
// across process restarts.
package credstore

import (
	"context"
	"sync"
)

// Slot names. They double as keys in every backend.
const (
	SlotToken = "token"
	SlotUser  = "user"
)

// Slots is the raw content of the two durable string slots.
// An empty string means the slot is absent.
type Slots struct {
	Token string
	User  string // JSON-serialized profile
}

// Empty reports whether neither slot holds a value.
func (s Slots) Empty() bool {
	return s.Token == "" && s.User == ""
}

// Backend is a durable two-slot key-value store.
// Write must replace both slots or leave the previous pair untouched.
type Backend interface {
	Read(ctx context.Context) (Slots, error)
	Write(ctx context.Context, slots Slots) error
	Clear(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// MemoryBackend keeps the slots in process memory. It does not survive a
// restart and is meant for tests and ephemeral sessions.
type MemoryBackend struct {
	mu    sync.Mutex
	slots Slots
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (m *MemoryBackend) Read(context.Context) (Slots, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slots, nil
}

func (m *MemoryBackend) Write(_ context.Context, slots Slots) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots = slots
	return nil
}

func (m *MemoryBackend) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots = Slots{}
	return nil
}

func (m *MemoryBackend) Ping(context.Context) error { return nil }

func (m *MemoryBackend) Close() error { return nil }
