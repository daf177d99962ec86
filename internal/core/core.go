// Package core is the surface the presentation layer calls: it ties the
// session manager and the resource cache together.
package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/linkveo/internal/cache"
	"github.com/MrSnakeDoc/linkveo/internal/domain"
	"github.com/MrSnakeDoc/linkveo/internal/guard"
	"github.com/MrSnakeDoc/linkveo/internal/logger"
	"github.com/MrSnakeDoc/linkveo/internal/session"
)

type Core struct {
	sessions *session.Manager
	cache    *cache.Cache
	logger   logger.Logger
}

func New(sessions *session.Manager, c *cache.Cache, log logger.Logger) *Core {
	return &Core{
		sessions: sessions,
		cache:    c,
		logger:   log.With(logger.Component("core")),
	}
}

// ─────────────────────────────
// Session
// ─────────────────────────────

func (c *Core) Session() domain.Session { return c.sessions.Snapshot() }

func (c *Core) CanAccess() bool { return guard.CanAccess(c.sessions.Snapshot()) }

// Restore loads the stored session. Called once at startup.
func (c *Core) Restore(ctx context.Context) domain.Session {
	return c.sessions.Restore(ctx)
}

// Login replaces the session on success. Cached data of a different user is
// discarded.
func (c *Core) Login(ctx context.Context, email, password string) (domain.Session, error) {
	prev := c.sessions.Snapshot()

	s, err := c.sessions.Login(ctx, email, password)
	if err != nil {
		return s, err
	}
	if prev.User == nil || s.User == nil || prev.User.ID != s.User.ID {
		c.cache.Reset()
	}
	return s, nil
}

func (c *Core) Register(ctx context.Context, email, password, confirmation string) (domain.User, error) {
	return c.sessions.Register(ctx, email, password, confirmation)
}

func (c *Core) Logout(ctx context.Context) {
	c.sessions.Logout(ctx)
	c.cache.Reset()
}

// ─────────────────────────────
// Resources
// ─────────────────────────────

func (c *Core) Bookmarks(s domain.Selector) []domain.Bookmark { return c.cache.Bookmarks(s) }

func (c *Core) Folders() []domain.Folder { return c.cache.Folders() }

func (c *Core) CacheStatus() cache.Status { return c.cache.Status() }

func (c *Core) FetchAll(ctx context.Context) error {
	token, err := c.token()
	if err != nil {
		return err
	}
	return c.observe(ctx, token, c.cache.FetchAll(ctx, token))
}

func (c *Core) CreateBookmark(ctx context.Context, rawURL string, folderID *int64) (domain.Bookmark, error) {
	token, err := c.token()
	if err != nil {
		return domain.Bookmark{}, err
	}
	b, err := c.cache.Create(ctx, token, rawURL, folderID)
	return b, c.observe(ctx, token, err)
}

func (c *Core) DeleteBookmark(ctx context.Context, id int64) error {
	token, err := c.token()
	if err != nil {
		return err
	}
	return c.observe(ctx, token, c.cache.Delete(ctx, token, id))
}

func (c *Core) CreateFolder(ctx context.Context, name string) (domain.Folder, error) {
	token, err := c.token()
	if err != nil {
		return domain.Folder{}, err
	}
	f, err := c.cache.CreateFolder(ctx, token, name)
	return f, c.observe(ctx, token, err)
}

func (c *Core) token() (string, error) {
	token, ok := c.sessions.Token()
	if !ok {
		return "", domain.ErrNotAuthenticated
	}
	return token, nil
}

// observe ends the session when the server rejects the token it was
// issued with. A newer session is left alone.
func (c *Core) observe(ctx context.Context, used string, err error) error {
	if !errors.Is(err, domain.ErrUnauthorized) {
		return err
	}
	if current, ok := c.sessions.Token(); ok && current == used {
		c.logger.Warn("session rejected by server, logging out", logger.Error(err))
		c.sessions.Expire(ctx)
		c.cache.Reset()
	}
	return fmt.Errorf("%w: %w", domain.ErrNotAuthenticated, err)
}

// ─────────────────────────────
// Import
// ─────────────────────────────

// ImportResult summarizes an Import run.
type ImportResult struct {
	Created        int      `json:"created"`
	FoldersCreated int      `json:"folders_created"`
	Skipped        int      `json:"skipped"`
	Failed         []string `json:"failed,omitempty"`
}

// Import files entries under folders matched by name, creating missing
// folders. URLs already cached are skipped. Individual failures are
// collected; a rejected session aborts the run.
func (c *Core) Import(ctx context.Context, entries []domain.ImportEntry) (ImportResult, error) {
	var res ImportResult
	if err := c.FetchAll(ctx); err != nil {
		return res, err
	}

	folders := make(map[string]*int64)
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if c.cache.HasURL(e.URL) {
			res.Skipped++
			continue
		}

		folderID, err := c.importFolder(ctx, folders, e.Folder, &res)
		if err == nil {
			var token string
			if token, err = c.token(); err == nil {
				_, err = c.cache.Add(ctx, token, domain.BookmarkDraft{URL: e.URL, Title: e.Title, FolderID: folderID})
				err = c.observe(ctx, token, err)
			}
		}
		if errors.Is(err, domain.ErrNotAuthenticated) {
			return res, err
		}
		if err != nil {
			res.Failed = append(res.Failed, e.URL+": "+domain.UserMessage(err, cache.MsgSaveFailed))
			continue
		}
		res.Created++
	}

	c.logger.Info("import finished",
		logger.Int("created", res.Created),
		logger.Int("folders_created", res.FoldersCreated),
		logger.Int("skipped", res.Skipped),
		logger.Int("failed", len(res.Failed)),
	)
	return res, nil
}

func (c *Core) importFolder(ctx context.Context, known map[string]*int64, name string, res *ImportResult) (*int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	key := strings.ToLower(name)
	if id, ok := known[key]; ok {
		return id, nil
	}

	if f, ok := c.cache.FolderByName(name); ok {
		known[key] = domain.Int64(f.ID)
		return known[key], nil
	}

	f, err := c.CreateFolder(ctx, name)
	if err != nil {
		return nil, err
	}
	res.FoldersCreated++
	known[key] = domain.Int64(f.ID)
	return known[key], nil
}
