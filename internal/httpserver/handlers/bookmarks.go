package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/linkveo/internal/cache"
	"github.com/MrSnakeDoc/linkveo/internal/domain"
	"github.com/MrSnakeDoc/linkveo/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkveo/internal/sources/homepage"
)

type createBookmarkRequest struct {
	URL      string `json:"url"`
	FolderID *int64 `json:"folder_id"`
}

type bookmarksResponse struct {
	Filter    string            `json:"filter"`
	Bookmarks []domain.Bookmark `json:"bookmarks"`
}

// ListBookmarks serves the cached bookmarks, loading them on first use.
// ?folder= takes a folder id or "uncategorized".
func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sel, err := domain.ParseSelector(r.URL.Query().Get("folder"))
		if err != nil {
			writeError(w, d, err, cache.MsgLoadFailed)
			return
		}

		if st := d.Core.CacheStatus(); st.LastFetch.IsZero() && !st.Fetching {
			if err := d.Core.FetchAll(r.Context()); err != nil {
				writeError(w, d, err, cache.MsgLoadFailed)
				return
			}
		}

		writeJSON(w, http.StatusOK, bookmarksResponse{
			Filter:    sel.String(),
			Bookmarks: d.Core.Bookmarks(sel),
		})
	}
}

func CreateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createBookmarkRequest
		if err := decode(r, &req); err != nil {
			writeError(w, d, err, cache.MsgSaveFailed)
			return
		}
		if req.URL == "" {
			writeError(w, d, &domain.ValidationError{Field: "url", Reason: "url is required"}, cache.MsgSaveFailed)
			return
		}

		b, err := d.Core.CreateBookmark(r.Context(), req.URL, req.FolderID)
		if err != nil {
			writeError(w, d, err, cache.MsgSaveFailed)
			return
		}
		writeJSON(w, http.StatusCreated, b)
	}
}

func DeleteBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, d, &domain.ValidationError{Field: "id", Reason: "invalid bookmark id"}, cache.MsgDeleteFailed)
			return
		}

		if err := d.Core.DeleteBookmark(r.Context(), id); err != nil {
			writeError(w, d, err, cache.MsgDeleteFailed)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func Refresh(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Core.FetchAll(r.Context()); err != nil {
			writeError(w, d, err, cache.MsgLoadFailed)
			return
		}
		writeJSON(w, http.StatusOK, d.Core.CacheStatus())
	}
}

func CacheStatus(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Core.CacheStatus())
	}
}

// Import takes a Homepage YAML file as the request body.
// ?kind= is "bookmarks" (default) or "services".
func Import(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind := homepage.KindBookmarks
		if raw := r.URL.Query().Get("kind"); raw != "" {
			k, err := homepage.ParseKind(raw)
			if err != nil {
				writeError(w, d, err, cache.MsgSaveFailed)
				return
			}
			kind = k
		}

		data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBody))
		if err != nil {
			writeError(w, d, &domain.ValidationError{Field: "body", Reason: "request body too large"}, cache.MsgSaveFailed)
			return
		}
		entries, err := homepage.Parse(data, kind)
		if err != nil {
			writeError(w, d, &domain.ValidationError{Field: "body", Reason: err.Error()}, cache.MsgSaveFailed)
			return
		}

		res, err := d.Core.Import(r.Context(), entries)
		if err != nil {
			writeError(w, d, err, cache.MsgSaveFailed)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}
