package core

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/linkveo/internal/cache"
	"github.com/MrSnakeDoc/linkveo/internal/credstore"
	"github.com/MrSnakeDoc/linkveo/internal/domain"
	"github.com/MrSnakeDoc/linkveo/internal/logger"
	"github.com/MrSnakeDoc/linkveo/internal/remote"
	"github.com/MrSnakeDoc/linkveo/internal/session"
)

// fakeBackend plays both the user service and the link service.
type fakeBackend struct {
	mu      sync.Mutex
	users   map[string]int64 // email -> id, password is always "secret"
	tokens  map[string]int64 // token -> user id
	links   map[int64][]map[string]any
	folders map[int64][]map[string]any
	nextID  int64
	calls   int
	down    bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		users:   map[string]int64{"a@b.com": 1, "c@d.com": 2},
		tokens:  map[string]int64{},
		links:   map[int64][]map[string]any{},
		folders: map[int64][]map[string]any{},
		nextID:  100,
	}
}

func (f *fakeBackend) reply(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	if f.down {
		f.reply(w, http.StatusServiceUnavailable, nil)
		return
	}

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/auth/token":
		_ = r.ParseForm()
		id, ok := f.users[r.PostForm.Get("username")]
		if !ok || r.PostForm.Get("password") != "secret" {
			f.reply(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect username or password"})
			return
		}
		tok := "tok-" + strconv.FormatInt(id, 10) + "-" + strconv.Itoa(f.calls)
		f.tokens[tok] = id
		f.reply(w, http.StatusOK, map[string]string{"access_token": tok, "token_type": "bearer"})
		return
	case r.Method == http.MethodPost && r.URL.Path == "/auth/register":
		f.reply(w, http.StatusCreated, map[string]any{"id": 50, "email": "new@b.com"})
		return
	}

	uid, ok := f.tokens[strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")]
	if !ok {
		f.reply(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/users/me":
		for email, id := range f.users {
			if id == uid {
				f.reply(w, http.StatusOK, map[string]any{"id": id, "email": email})
				return
			}
		}
	case r.Method == http.MethodGet && r.URL.Path == "/links":
		f.reply(w, http.StatusOK, append([]map[string]any{}, f.links[uid]...))
	case r.Method == http.MethodPost && r.URL.Path == "/links":
		var in map[string]any
		_ = json.NewDecoder(r.Body).Decode(&in)
		f.nextID++
		in["id"] = f.nextID
		f.links[uid] = append(f.links[uid], in)
		f.reply(w, http.StatusOK, in)
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/links/"):
		id, _ := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/links/"), 10, 64)
		links := f.links[uid]
		for i, l := range links {
			if l["id"].(int64) == id {
				f.links[uid] = append(links[:i:i], links[i+1:]...)
				f.reply(w, http.StatusNoContent, nil)
				return
			}
		}
		f.reply(w, http.StatusNotFound, map[string]string{"detail": "Link not found"})
	case r.Method == http.MethodGet && r.URL.Path == "/folders":
		f.reply(w, http.StatusOK, append([]map[string]any{}, f.folders[uid]...))
	case r.Method == http.MethodPost && r.URL.Path == "/folders":
		var in map[string]any
		_ = json.NewDecoder(r.Body).Decode(&in)
		f.nextID++
		in["id"] = f.nextID
		f.folders[uid] = append(f.folders[uid], in)
		f.reply(w, http.StatusOK, in)
	default:
		f.reply(w, http.StatusNotFound, map[string]string{"detail": "Not Found"})
	}
}

func (f *fakeBackend) revokeAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = map[string]int64{}
}

func (f *fakeBackend) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fixture struct {
	core    *Core
	backend *fakeBackend
	store   *credstore.Store
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	backend := newFakeBackend()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	log := logger.Nop()
	client := remote.NewClient(srv.URL, 2*time.Second, log)
	store := credstore.New(credstore.NewMemoryBackend(), log)
	c := New(
		session.NewManager(remote.NewAuthService(client), store, log),
		cache.New(remote.NewResourceService(client), log),
		log,
	)
	return fixture{core: c, backend: backend, store: store}
}

func TestResourceCallsRequireSession(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	assert.False(t, fx.core.CanAccess())
	require.ErrorIs(t, fx.core.FetchAll(ctx), domain.ErrNotAuthenticated)
	_, err := fx.core.CreateBookmark(ctx, "https://go.dev", nil)
	require.ErrorIs(t, err, domain.ErrNotAuthenticated)
	require.ErrorIs(t, fx.core.DeleteBookmark(ctx, 1), domain.ErrNotAuthenticated)
	_, err = fx.core.CreateFolder(ctx, "x")
	require.ErrorIs(t, err, domain.ErrNotAuthenticated)

	assert.Equal(t, 0, fx.backend.callCount(), "no remote call without a session")
}

func TestLoginCreateListDeleteLogout(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	s, err := fx.core.Login(ctx, "a@b.com", "secret")
	require.NoError(t, err)
	assert.True(t, s.Authenticated)
	assert.True(t, fx.core.CanAccess())

	require.NoError(t, fx.core.FetchAll(ctx))
	assert.Empty(t, fx.core.Bookmarks(domain.AllBookmarks()))

	folder, err := fx.core.CreateFolder(ctx, "Go")
	require.NoError(t, err)

	b, err := fx.core.CreateBookmark(ctx, "https://go.dev/doc", domain.Int64(folder.ID))
	require.NoError(t, err)
	assert.Equal(t, "go.dev", b.Title)

	placeholder, err := fx.core.CreateBookmark(ctx, "not a url", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.PlaceholderTitle, placeholder.Title)

	assert.Len(t, fx.core.Bookmarks(domain.InFolder(folder.ID)), 1)
	assert.Len(t, fx.core.Bookmarks(domain.Uncategorized()), 1)

	require.NoError(t, fx.core.DeleteBookmark(ctx, placeholder.ID))
	require.NoError(t, fx.core.FetchAll(ctx))
	assert.Len(t, fx.core.Bookmarks(domain.AllBookmarks()), 1)
	assert.Equal(t, 1, fx.core.CacheStatus().Folders)

	fx.core.Logout(ctx)
	assert.False(t, fx.core.CanAccess())
	assert.Empty(t, fx.core.Bookmarks(domain.AllBookmarks()))
	assert.Empty(t, fx.core.Folders())
	_, ok := fx.store.Load(ctx)
	assert.False(t, ok)
}

func TestRejectedTokenEndsSession(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	_, err := fx.core.Login(ctx, "a@b.com", "secret")
	require.NoError(t, err)
	_, err = fx.core.CreateBookmark(ctx, "https://go.dev", nil)
	require.NoError(t, err)

	fx.backend.revokeAll()

	err = fx.core.FetchAll(ctx)
	require.ErrorIs(t, err, domain.ErrNotAuthenticated)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	s := fx.core.Session()
	assert.False(t, s.Authenticated)
	assert.Equal(t, session.MsgSessionExpired, s.LastError)
	assert.Empty(t, fx.core.Bookmarks(domain.AllBookmarks()))
	_, ok := fx.store.Load(ctx)
	assert.False(t, ok)
}

func TestFetchFailureKeepsLoadedBookmarks(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	_, err := fx.core.Login(ctx, "a@b.com", "secret")
	require.NoError(t, err)
	for _, u := range []string{"https://a.example", "https://b.example", "https://c.example"} {
		_, err := fx.core.CreateBookmark(ctx, u, nil)
		require.NoError(t, err)
	}

	fx.backend.mu.Lock()
	fx.backend.down = true
	fx.backend.mu.Unlock()

	err = fx.core.FetchAll(ctx)
	require.ErrorIs(t, err, domain.ErrTransport)
	assert.Len(t, fx.core.Bookmarks(domain.AllBookmarks()), 3)
	assert.Equal(t, cache.MsgLoadFailed, fx.core.CacheStatus().LastError)
	assert.True(t, fx.core.CanAccess(), "transport failures do not end the session")
}

func TestLoginAsOtherUserResetsCache(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	_, err := fx.core.Login(ctx, "a@b.com", "secret")
	require.NoError(t, err)
	_, err = fx.core.CreateBookmark(ctx, "https://go.dev", nil)
	require.NoError(t, err)

	// Same user again keeps the cache.
	_, err = fx.core.Login(ctx, "a@b.com", "secret")
	require.NoError(t, err)
	assert.Len(t, fx.core.Bookmarks(domain.AllBookmarks()), 1)

	_, err = fx.core.Login(ctx, "c@d.com", "secret")
	require.NoError(t, err)
	assert.Empty(t, fx.core.Bookmarks(domain.AllBookmarks()))
}

func TestFailedLoginKeepsSessionAndCache(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	_, err := fx.core.Login(ctx, "a@b.com", "secret")
	require.NoError(t, err)
	_, err = fx.core.CreateBookmark(ctx, "https://go.dev", nil)
	require.NoError(t, err)

	s, err := fx.core.Login(ctx, "c@d.com", "wrong")
	require.ErrorIs(t, err, domain.ErrCredentials)
	assert.True(t, s.Authenticated)
	assert.Equal(t, "Incorrect username or password", s.LastError)
	assert.Len(t, fx.core.Bookmarks(domain.AllBookmarks()), 1)
}

func TestRestoreTrustsStoredToken(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	require.NoError(t, fx.store.Save(ctx, domain.Credentials{
		Token: "stale", User: domain.User{ID: 1, Email: "a@b.com"},
	}))

	s := fx.core.Restore(ctx)
	assert.True(t, s.Authenticated)
	assert.Equal(t, 0, fx.backend.callCount(), "restore does not validate remotely")

	// The first call reveals the token is no longer accepted.
	require.ErrorIs(t, fx.core.FetchAll(ctx), domain.ErrNotAuthenticated)
	assert.False(t, fx.core.CanAccess())
}

func TestImport(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	_, err := fx.core.Login(ctx, "a@b.com", "secret")
	require.NoError(t, err)
	existing, err := fx.core.CreateFolder(ctx, "Developer")
	require.NoError(t, err)
	_, err = fx.core.CreateBookmark(ctx, "https://github.com/", nil)
	require.NoError(t, err)

	res, err := fx.core.Import(ctx, []domain.ImportEntry{
		{Folder: "Developer", Title: "Github", URL: "https://github.com/"},
		{Folder: "developer", Title: "Go", URL: "https://go.dev/"},
		{Folder: "Social", Title: "Mastodon", URL: "https://mastodon.social/"},
		{Folder: "Social", Title: "Lobsters", URL: "https://lobste.rs/"},
		{Title: "Loose", URL: "https://example.com/"},
	})
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Created: 4, FoldersCreated: 1, Skipped: 1}, res)

	assert.Len(t, fx.core.Folders(), 2)
	dev := fx.core.Bookmarks(domain.InFolder(existing.ID))
	require.Len(t, dev, 1)
	assert.Equal(t, "Go", dev[0].Title)
	assert.Len(t, fx.core.Bookmarks(domain.Uncategorized()), 2)
}

func TestImportRequiresSession(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.core.Import(context.Background(), []domain.ImportEntry{{URL: "https://go.dev"}})
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
}
