package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Credential backends understood by the credential store.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

type Config struct {
	ListenAddr      string        // ex: "127.0.0.1:8787"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Remote services
	AuthURL        string        // Auth Service base URL (ex: http://localhost:8000)
	LinksURL       string        // Resource Service base URL (ex: http://localhost:8001)
	RequestTimeout time.Duration // per remote call, 0 = no timeout

	// Credential store
	CredentialBackend string // "file" | "sqlite" | "redis"
	CredentialFile    string // JSON file used by the file backend
	CredentialDB      string // SQLite database used by the sqlite backend

	// Redis (credential backend "redis" only)
	RedisAddr           string        // ex: "localhost:6379"
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisKeyPrefix      string        // namespace for the credential slots
	RedisDT             time.Duration // Redis dial timeout (ex: 5s)
	RedisRT             time.Duration // Redis read timeout (ex: 3s)
	RedisWT             time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait        time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)
	RedisConnectTimeout time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval  time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold  int           // warn after this many attempts

	// Local API access
	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // restrict access to specific IPs/CIDRs
	TrustProxy   bool     // true => trust X-Forwarded-For headers
	LoginPath    string   // login entry point the access guard redirects to

	// Login/register throttling
	LoginBurst        int
	LoginRefillPerMin int
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenAddr:      getenv("LINKVEO_LISTEN_ADDR", "127.0.0.1:8787"),
		ShutdownTimeout: mustDuration("LINKVEO_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("LINKVEO_LOG_LEVEL", "info"),
		PrettyLog: mustBool("LINKVEO_PRETTY_LOG", true),

		// Remote services
		AuthURL:        strings.TrimRight(getenv("LINKVEO_AUTH_URL", "http://localhost:8000"), "/"),
		LinksURL:       strings.TrimRight(getenv("LINKVEO_LINKS_URL", "http://localhost:8001"), "/"),
		RequestTimeout: mustDuration("LINKVEO_REQUEST_TIMEOUT", 10*time.Second),

		// Credential store
		CredentialBackend: strings.ToLower(getenv("LINKVEO_CREDENTIAL_BACKEND", BackendFile)),
		CredentialFile:    getenv("LINKVEO_CREDENTIAL_FILE", defaultStatePath("credentials.json")),
		CredentialDB:      getenv("LINKVEO_CREDENTIAL_DB", defaultStatePath("credentials.db")),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("LINKVEO_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("LINKVEO_ALLOWED_CIDRS", "127.0.0.1/32, ::1/128")),
		TrustProxy:   mustBool("LINKVEO_TRUST_PROXY", false),
		LoginPath:    getenv("LINKVEO_LOGIN_PATH", "/login"),

		LoginBurst:        getenvInt("LINKVEO_LOGIN_BURST", 5),
		LoginRefillPerMin: getenvInt("LINKVEO_LOGIN_REFILL_PER_MIN", 10),
	}

	switch cfg.CredentialBackend {
	case BackendFile, BackendSQLite:
	case BackendRedis:
		loadRedis(cfg)
	default:
		panic(fmt.Sprintf("❌ FATAL: unknown LINKVEO_CREDENTIAL_BACKEND %q (want file, sqlite or redis)", cfg.CredentialBackend))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfgCopy.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// loadRedis reads the settings only the redis backend needs, so the
// address is required only when that backend is selected.
func loadRedis(cfg *Config) {
	cfg.RedisAddr = requireEnv("LINKVEO_REDIS_ADDR")
	cfg.RedisUser = getenv("LINKVEO_REDIS_USERNAME", "")
	cfg.RedisPassword = getenv("LINKVEO_REDIS_PASSWORD", "")
	cfg.RedisDB = getenvInt("LINKVEO_REDIS_DB", 0)
	cfg.RedisKeyPrefix = getenv("LINKVEO_REDIS_KEY_PREFIX", "linkveo:")
	cfg.RedisDT = mustDuration("LINKVEO_REDIS_DIAL_TIMEOUT", 5*time.Second)
	cfg.RedisRT = mustDuration("LINKVEO_REDIS_READ_TIMEOUT", 3*time.Second)
	cfg.RedisWT = mustDuration("LINKVEO_REDIS_WRITE_TIMEOUT", 3*time.Second)
	cfg.RedisMaxWait = mustDuration("LINKVEO_REDIS_MAX_WAIT", 10*time.Second)
	cfg.RedisPingTimeout = mustDuration("LINKVEO_REDIS_PING_TIMEOUT", 5*time.Second)
	cfg.RedisConnectTimeout = mustDuration("LINKVEO_REDIS_CONNECT_TIMEOUT", 30*time.Second)
	cfg.RedisRetryInterval = mustDuration("LINKVEO_REDIS_RETRY_INTERVAL", 2*time.Second)
	cfg.RedisWarnThreshold = getenvInt("LINKVEO_REDIS_WARN_THRESHOLD", 3)
}

// defaultStatePath places name under the user config directory, falling
// back to the working directory when none can be determined.
func defaultStatePath(name string) string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return filepath.Join(".linkveo", name)
	}
	return filepath.Join(dir, "linkveo", name)
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
