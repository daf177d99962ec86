// Package cache keeps the bookmarks and folders of the current session in
// memory and applies create/delete results returned by the Resource Service.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MrSnakeDoc/linkveo/internal/domain"
	"github.com/MrSnakeDoc/linkveo/internal/logger"
)

// Fallback messages used when the server gives none.
const (
	MsgLoadFailed   = "failed to load links"
	MsgSaveFailed   = "failed to save link"
	MsgDeleteFailed = "failed to delete link"
	MsgFolderFailed = "failed to save folder"
)

// Resources is the remote Resource Service.
type Resources interface {
	ListLinks(ctx context.Context, token string) ([]domain.Bookmark, error)
	CreateLink(ctx context.Context, token string, d domain.BookmarkDraft) (domain.Bookmark, error)
	DeleteLink(ctx context.Context, token string, id int64) error
	ListFolders(ctx context.Context, token string) ([]domain.Folder, error)
	CreateFolder(ctx context.Context, token, name string) (domain.Folder, error)
}

// Status describes the cache for display.
type Status struct {
	Bookmarks int       `json:"bookmarks"`
	Folders   int       `json:"folders"`
	Fetching  bool      `json:"fetching"`
	LastFetch time.Time `json:"last_fetch,omitempty"`
	LastError string    `json:"error,omitempty"`
}

// Cache holds ordered collections: insertion order is display order.
type Cache struct {
	svc    Resources
	logger logger.Logger
	now    func() time.Time

	mu        sync.RWMutex
	bookmarks []domain.Bookmark
	folders   []domain.Folder
	lastFetch time.Time
	lastError string
	inflight  int

	// issued is bumped by every fetch and every applied mutation; epoch
	// changes on every Reset. Completions carrying an older value are
	// dropped, so a listing requested before a create or delete cannot
	// undo it.
	issued uint64
	epoch  uint64
}

func New(svc Resources, log logger.Logger) *Cache {
	return &Cache{
		svc:    svc,
		logger: log.With(logger.Component("cache")),
		now:    time.Now,
	}
}

// FetchAll loads bookmarks and folders concurrently and replaces both
// collections when both calls succeed. On failure the cached data is kept
// and only the error is recorded. A fetch that completes after a newer one
// was issued is discarded and returns nil.
func (c *Cache) FetchAll(ctx context.Context, token string) error {
	c.mu.Lock()
	c.issued++
	seq := c.issued
	c.inflight++
	c.mu.Unlock()

	var (
		bookmarks []domain.Bookmark
		folders   []domain.Folder
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bookmarks, err = c.svc.ListLinks(gctx, token)
		return err
	})
	g.Go(func() error {
		var err error
		folders, err = c.svc.ListFolders(gctx, token)
		return err
	})
	err := g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--

	if seq != c.issued {
		c.logger.Debug("discarding superseded fetch",
			logger.Uint64("seq", seq),
			logger.Uint64("latest", c.issued),
		)
		return nil
	}

	if err != nil {
		c.lastError = domain.UserMessage(err, MsgLoadFailed)
		c.logger.Warn("fetch failed, keeping cached data",
			logger.Int("bookmarks", len(c.bookmarks)),
			logger.Error(err),
		)
		return err
	}

	c.bookmarks = bookmarks
	c.folders = folders
	c.lastError = ""
	c.lastFetch = c.now()

	c.logger.Debug("cache refreshed",
		logger.Int("bookmarks", len(bookmarks)),
		logger.Int("folders", len(folders)),
	)
	return nil
}

// Create proposes a bookmark titled after the URL host and appends the
// server's record on success.
func (c *Cache) Create(ctx context.Context, token, rawURL string, folderID *int64) (domain.Bookmark, error) {
	return c.Add(ctx, token, domain.NewBookmarkDraft(strings.TrimSpace(rawURL), folderID))
}

// Add sends draft as is. A blank title is derived from the URL.
func (c *Cache) Add(ctx context.Context, token string, draft domain.BookmarkDraft) (domain.Bookmark, error) {
	if strings.TrimSpace(draft.Title) == "" {
		draft.Title = domain.DefaultTitle(draft.URL)
	}
	epoch := c.currentEpoch()

	created, err := c.svc.CreateLink(ctx, token, draft)
	if err != nil {
		return domain.Bookmark{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch == c.epoch {
		c.bookmarks = append(c.bookmarks, created)
		c.issued++
	}
	return created, nil
}

// Delete removes a bookmark remotely, then from the cache if it is there.
// The server decides whether the id exists.
func (c *Cache) Delete(ctx context.Context, token string, id int64) error {
	epoch := c.currentEpoch()

	if err := c.svc.DeleteLink(ctx, token, id); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch != c.epoch {
		return nil
	}
	for i, b := range c.bookmarks {
		if b.ID == id {
			c.bookmarks = append(c.bookmarks[:i:i], c.bookmarks[i+1:]...)
			break
		}
	}
	c.issued++
	return nil
}

// CreateFolder creates a folder and appends it on success.
func (c *Cache) CreateFolder(ctx context.Context, token, name string) (domain.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Folder{}, &domain.ValidationError{Field: "name", Reason: "folder name is required"}
	}
	epoch := c.currentEpoch()

	created, err := c.svc.CreateFolder(ctx, token, name)
	if err != nil {
		return domain.Folder{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch == c.epoch {
		c.folders = append(c.folders, created)
		c.issued++
	}
	return created, nil
}

// Bookmarks returns the selected bookmarks as a new slice.
func (c *Cache) Bookmarks(s domain.Selector) []domain.Bookmark {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return domain.FilterBookmarks(c.bookmarks, s)
}

// Bookmark retrieves a bookmark by ID.
func (c *Cache) Bookmark(id int64) (domain.Bookmark, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, b := range c.bookmarks {
		if b.ID == id {
			return b, true
		}
	}
	return domain.Bookmark{}, false
}

// HasURL reports whether a bookmark with exactly this URL is cached.
func (c *Cache) HasURL(rawURL string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, b := range c.bookmarks {
		if b.URL == rawURL {
			return true
		}
	}
	return false
}

// Folders returns a copy of the folder collection.
func (c *Cache) Folders() []domain.Folder {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Folder, len(c.folders))
	copy(out, c.folders)
	return out
}

// FolderByName finds a folder by case-insensitive name.
func (c *Cache) FolderByName(name string) (domain.Folder, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, f := range c.folders {
		if strings.EqualFold(f.Name, strings.TrimSpace(name)) {
			return f, true
		}
	}
	return domain.Folder{}, false
}

func (c *Cache) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Status{
		Bookmarks: len(c.bookmarks),
		Folders:   len(c.folders),
		Fetching:  c.inflight > 0,
		LastFetch: c.lastFetch,
		LastError: c.lastError,
	}
}

// Reset discards everything. Operations still in flight will not
// repopulate the cache.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bookmarks = nil
	c.folders = nil
	c.lastFetch = time.Time{}
	c.lastError = ""
	c.issued++
	c.epoch++
}

func (c *Cache) currentEpoch() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.epoch
}
