package domain

import (
	"errors"
	"testing"
)

func TestDefaultTitle(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "https url", input: "https://www.youtube.com/watch?v=1", expected: "www.youtube.com"},
		{name: "url with port", input: "http://localhost:8001/links", expected: "localhost"},
		{name: "relative path", input: "/links/1", expected: PlaceholderTitle},
		{name: "plain words", input: "not a url", expected: PlaceholderTitle},
		{name: "bad escape", input: "http://%zz", expected: PlaceholderTitle},
		{name: "scheme without host", input: "mailto:someone@example.com", expected: PlaceholderTitle},
		{name: "empty", input: "", expected: PlaceholderTitle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultTitle(tt.input); got != tt.expected {
				t.Errorf("DefaultTitle(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNewBookmarkDraft(t *testing.T) {
	draft := NewBookmarkDraft("https://go.dev/doc", Int64(4))
	if draft.Title != "go.dev" {
		t.Errorf("draft.Title = %q, want go.dev", draft.Title)
	}
	if draft.FolderID == nil || *draft.FolderID != 4 {
		t.Errorf("draft.FolderID = %v, want 4", draft.FolderID)
	}
}

func TestValidateRegistration(t *testing.T) {
	tests := []struct {
		name     string
		password string
		confirm  string
		wantErr  bool
		reason   string
	}{
		{name: "valid", password: "secret", confirm: "secret"},
		{name: "too short", password: "abc", confirm: "abc", wantErr: true, reason: "password must be at least 6 characters"},
		{name: "mismatch checked first", password: "abc", confirm: "abd", wantErr: true, reason: "passwords do not match"},
		{name: "multibyte length", password: "ñññññ", confirm: "ñññññ", wantErr: true, reason: "password must be at least 6 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegistration(tt.password, tt.confirm)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("ValidateRegistration() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("ValidateRegistration() error = %v, want ErrValidation", err)
			}
			if got := UserMessage(err, "fallback"); got != tt.reason {
				t.Errorf("UserMessage() = %q, want %q", got, tt.reason)
			}
		})
	}
}

func TestUserMessageFallback(t *testing.T) {
	if got := UserMessage(errors.New("boom"), "login failed"); got != "login failed" {
		t.Errorf("UserMessage() = %q, want fallback", got)
	}
	if got := UserMessage(nil, "login failed"); got != "" {
		t.Errorf("UserMessage(nil) = %q, want empty", got)
	}
}
