package config

import (
	"reflect"
	"testing"
	"time"
)

func TestRequireEnv(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		wantPanic bool
	}{
		{
			name:  "variable set",
			key:   "LINKVEO_TEST_VAR",
			value: "test_value",
		},
		{
			name:      "variable not set",
			key:       "LINKVEO_TEST_VAR_MISSING",
			wantPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("requireEnv() should have panicked")
					}
				}()
			}

			result := requireEnv(tt.key)
			if !tt.wantPanic && result != tt.value {
				t.Errorf("requireEnv() = %v, want %v", result, tt.value)
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{name: "valid duration", value: "5s", def: time.Second, expected: 5 * time.Second},
		{name: "invalid duration uses default", value: "invalid", def: 10 * time.Second, expected: 10 * time.Second},
		{name: "missing variable uses default", value: "", def: 15 * time.Second, expected: 15 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LINKVEO_TEST_DURATION", tt.value)
			if got := mustDuration("LINKVEO_TEST_DURATION", tt.def); got != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      bool
		expected bool
	}{
		{name: "true value", value: "true", def: false, expected: true},
		{name: "false value", value: "false", def: true, expected: false},
		{name: "invalid value uses default", value: "invalid", def: true, expected: true},
		{name: "missing variable uses default", value: "", def: false, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LINKVEO_TEST_BOOL", tt.value)
			if got := mustBool("LINKVEO_TEST_BOOL", tt.def); got != tt.expected {
				t.Errorf("mustBool() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	got := splitAndTrim(` "127.0.0.1/32", ::1/128 ,, 'localhost' `)
	want := []string{"127.0.0.1/32", "::1/128", "localhost"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitAndTrim() = %v, want %v", got, want)
	}
	if splitAndTrim("") != nil {
		t.Errorf("splitAndTrim(\"\") should be nil")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LINKVEO_CREDENTIAL_BACKEND", "")
	t.Setenv("LINKVEO_AUTH_URL", "http://auth.local:8000/")
	t.Setenv("LINKVEO_LINKS_URL", "")
	t.Setenv("LINKVEO_ALLOWED_CIDRS", "")
	t.Setenv("LINKVEO_LOG_LEVEL", "error")

	cfg := Load()

	if cfg.CredentialBackend != BackendFile {
		t.Errorf("CredentialBackend = %q, want %q", cfg.CredentialBackend, BackendFile)
	}
	if cfg.AuthURL != "http://auth.local:8000" {
		t.Errorf("AuthURL = %q, trailing slash should be trimmed", cfg.AuthURL)
	}
	if cfg.LinksURL != "http://localhost:8001" {
		t.Errorf("LinksURL = %q, want default", cfg.LinksURL)
	}
	if !reflect.DeepEqual(cfg.AllowedCIDRS, []string{"127.0.0.1/32", "::1/128"}) {
		t.Errorf("AllowedCIDRS = %v, want loopback defaults", cfg.AllowedCIDRS)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Errorf("RequestTimeout = %v, want 10s", cfg.RequestTimeout)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("RedisAddr = %q, redis settings must not load for file backend", cfg.RedisAddr)
	}
}

func TestLoadRedisBackend(t *testing.T) {
	t.Setenv("LINKVEO_CREDENTIAL_BACKEND", "redis")
	t.Setenv("LINKVEO_LOG_LEVEL", "error")

	t.Run("address required", func(t *testing.T) {
		t.Setenv("LINKVEO_REDIS_ADDR", "")
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("Load() should panic without LINKVEO_REDIS_ADDR")
			}
		}()
		Load()
	})

	t.Run("address set", func(t *testing.T) {
		t.Setenv("LINKVEO_REDIS_ADDR", "localhost:6379")
		t.Setenv("LINKVEO_REDIS_DB", "2")
		cfg := Load()
		if cfg.RedisAddr != "localhost:6379" || cfg.RedisDB != 2 {
			t.Errorf("redis settings = %q/%d, want localhost:6379/2", cfg.RedisAddr, cfg.RedisDB)
		}
		if cfg.RedisKeyPrefix != "linkveo:" {
			t.Errorf("RedisKeyPrefix = %q, want linkveo:", cfg.RedisKeyPrefix)
		}
	})
}

func TestLoadUnknownBackendPanics(t *testing.T) {
	t.Setenv("LINKVEO_CREDENTIAL_BACKEND", "etcd")
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Load() should panic on unknown backend")
		}
	}()
	Load()
}
