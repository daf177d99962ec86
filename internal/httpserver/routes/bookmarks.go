package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/linkveo/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkveo/internal/httpserver/handlers"
)

func init() { Register(registerBookmarks) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	r.Group(func(r chi.Router) {
		r.Use(protected(d)...)

		r.Get("/api/bookmarks", handlers.ListBookmarks(d))
		r.Post("/api/bookmarks", handlers.CreateBookmark(d))
		r.Delete("/api/bookmarks/{id}", handlers.DeleteBookmark(d))
		r.Post("/api/import", handlers.Import(d))

		r.Get("/api/folders", handlers.ListFolders(d))
		r.Post("/api/folders", handlers.CreateFolder(d))

		r.Post("/api/refresh", handlers.Refresh(d))
		r.Get("/api/cache", handlers.CacheStatus(d))
	})
}
