package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/linkveo/internal/cache"
	"github.com/MrSnakeDoc/linkveo/internal/core"
	"github.com/MrSnakeDoc/linkveo/internal/credstore"
	"github.com/MrSnakeDoc/linkveo/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkveo/internal/logger"
	"github.com/MrSnakeDoc/linkveo/internal/remote"
	"github.com/MrSnakeDoc/linkveo/internal/session"
)

// upstream is a minimal user + link service.
func upstream(t *testing.T) *httptest.Server {
	t.Helper()
	var (
		mu      sync.Mutex
		nextID  int64 = 10
		links         = []map[string]any{}
		folders       = []map[string]any{}
	)
	reply := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if v != nil {
			_ = json.NewEncoder(w).Encode(v)
		}
	}
	authed := func(r *http.Request) bool { return r.Header.Get("Authorization") == "Bearer tok" }

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/token", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.PostForm.Get("password") != "secret" {
			reply(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect username or password"})
			return
		}
		reply(w, http.StatusOK, map[string]string{"access_token": "tok", "token_type": "bearer"})
	})
	mux.HandleFunc("GET /users/me", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, map[string]any{"id": 1, "email": "a@b.com"})
	})
	mux.HandleFunc("POST /auth/register", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusBadRequest, map[string]string{"detail": "Email already registered"})
	})
	mux.HandleFunc("/links", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		if !authed(r) {
			reply(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
			return
		}
		if r.Method == http.MethodGet {
			reply(w, http.StatusOK, links)
			return
		}
		var in map[string]any
		_ = json.NewDecoder(r.Body).Decode(&in)
		nextID++
		in["id"] = nextID
		links = append(links, in)
		reply(w, http.StatusOK, in)
	})
	mux.HandleFunc("DELETE /links/{id}", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		for i, l := range links {
			if fmt.Sprint(l["id"]) == r.PathValue("id") {
				links = append(links[:i:i], links[i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		reply(w, http.StatusNotFound, map[string]string{"detail": "Link not found"})
	})
	mux.HandleFunc("/folders", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		if r.Method == http.MethodGet {
			reply(w, http.StatusOK, folders)
			return
		}
		var in map[string]any
		_ = json.NewDecoder(r.Body).Decode(&in)
		nextID++
		in["id"] = nextID
		folders = append(folders, in)
		reply(w, http.StatusOK, in)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type apiFixture struct {
	srv   *httptest.Server
	ready error
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	log := logger.Nop()
	up := upstream(t)
	client := remote.NewClient(up.URL, 2*time.Second, log)
	c := core.New(
		session.NewManager(remote.NewAuthService(client), credstore.New(credstore.NewMemoryBackend(), log), log),
		cache.New(remote.NewResourceService(client), log),
		log,
	)

	fx := &apiFixture{}
	d := deps.Deps{
		Logger:            log,
		StartTime:         time.Now(),
		Version:           "test",
		AllowedCIDRS:      []string{"127.0.0.1/32", "::1/128"},
		Core:              c,
		Ready:             func(context.Context) error { return fx.ready },
		LoginPath:         "/login",
		LoginBurst:        50,
		LoginRefillPerMin: 50,
	}
	fx.srv = httptest.NewServer(NewRouter(d, 2*time.Second))
	t.Cleanup(fx.srv.Close)
	return fx
}

func (fx *apiFixture) do(t *testing.T, method, path, body string, headers ...string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, fx.srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(raw)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	fx := newAPI(t)

	resp, body := fx.do(t, http.MethodGet, "/api/bookmarks", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.JSONEq(t, `{"error":"authentication required","login":"/login"}`, body)

	resp, _ = fx.do(t, http.MethodGet, "/api/folders", "", "Accept", "text/html")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp, _ = fx.do(t, http.MethodPost, "/api/bookmarks", `{"url":"https://go.dev"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSessionFlow(t *testing.T) {
	fx := newAPI(t)

	resp, body := fx.do(t, http.MethodPost, "/api/login", `{"email":"a@b.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Incorrect username or password"}`, body)

	resp, body = fx.do(t, http.MethodPost, "/api/login", `{"email":"a@b.com","password":"secret"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.JSONEq(t, `{"authenticated":true,"loading":false,"user":{"id":1,"email":"a@b.com"}}`, body)
	assert.NotContains(t, body, "tok", "token must not leave the core")

	resp, body = fx.do(t, http.MethodGet, "/api/bookmarks", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.JSONEq(t, `{"filter":"all","bookmarks":[]}`, body)

	resp, body = fx.do(t, http.MethodPost, "/api/folders", `{"name":"Go"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)

	resp, body = fx.do(t, http.MethodPost, "/api/bookmarks", `{"url":"https://go.dev/doc","folder_id":11}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	assert.Contains(t, body, `"title":"go.dev"`)

	resp, body = fx.do(t, http.MethodPost, "/api/bookmarks", `{"url":"not a url"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	assert.Contains(t, body, `"title":"New Link"`)

	_, body = fx.do(t, http.MethodGet, "/api/bookmarks?folder=uncategorized", "")
	assert.Contains(t, body, `"filter":"uncategorized"`)
	assert.Contains(t, body, "New Link")
	assert.NotContains(t, body, "go.dev")

	resp, body = fx.do(t, http.MethodGet, "/api/bookmarks?folder=abc", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"invalid folder selector \"abc\": use a folder id or \"uncategorized\""}`, body)

	resp, _ = fx.do(t, http.MethodDelete, "/api/bookmarks/x", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = fx.do(t, http.MethodDelete, "/api/bookmarks/999", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, body)

	resp, _ = fx.do(t, http.MethodDelete, "/api/bookmarks/12", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = fx.do(t, http.MethodGet, "/api/cache", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"bookmarks":1`)

	resp, _ = fx.do(t, http.MethodPost, "/api/logout", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	_, body = fx.do(t, http.MethodGet, "/api/session", "")
	assert.JSONEq(t, `{"authenticated":false,"loading":false}`, body)

	resp, _ = fx.do(t, http.MethodGet, "/api/cache", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegisterValidation(t *testing.T) {
	fx := newAPI(t)

	resp, body := fx.do(t, http.MethodPost, "/api/register", `{"email":"n@b.com","password":"abc","confirm":"abc"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"password must be at least 6 characters"}`, body)

	resp, body = fx.do(t, http.MethodPost, "/api/register", `{"email":"n@b.com","password":"abcdef","confirm":"abcdeg"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"passwords do not match"}`, body)

	resp, body = fx.do(t, http.MethodPost, "/api/register", `{"email":"a@b.com","password":"abcdef","confirm":"abcdef"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Email already registered"}`, body)

	resp, _ = fx.do(t, http.MethodPost, "/api/register", `{"email":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestImportHomepageBookmarks(t *testing.T) {
	fx := newAPI(t)
	resp, _ := fx.do(t, http.MethodPost, "/api/login", `{"email":"a@b.com","password":"secret"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	yaml := `
- Developer:
    - Github:
        - abbr: GH
          href: https://github.com/
`
	resp, body := fx.do(t, http.MethodPost, "/api/import", yaml)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.JSONEq(t, `{"created":1,"folders_created":1,"skipped":0}`, body)

	resp, _ = fx.do(t, http.MethodPost, "/api/import?kind=widgets", yaml)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthAndReadiness(t *testing.T) {
	fx := newAPI(t)

	resp, body := fx.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"version":"test"`)

	resp, _ = fx.do(t, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	fx.ready = errors.New("redis down")
	resp, body = fx.do(t, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.NotContains(t, body, "redis down")
}
