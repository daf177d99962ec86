package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/linkveo/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkveo/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/linkveo/internal/httpserver/mw"
)

func init() { Register(registerSession) }

func registerSession(r chi.Router, d deps.Deps) {
	throttle := mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.LoginBurst,
		RefillPerIPPerMin: d.LoginRefillPerMin,
		MaxEntries:        4096,
		TrustProxy:        d.TrustProxy,
	})

	r.Group(func(r chi.Router) {
		r.Use(local(d)...)

		r.Get("/api/session", handlers.Session(d))
		r.With(throttle).Post("/api/login", handlers.Login(d))
		r.With(throttle).Post("/api/register", handlers.Register(d))
		r.Post("/api/logout", handlers.Logout(d))
	})
}
