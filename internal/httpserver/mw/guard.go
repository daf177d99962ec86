package mw

import (
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/linkveo/internal/httpserver/respond"
	"github.com/MrSnakeDoc/linkveo/internal/logger"
)

// Guard runs next only when canAccess reports an active session.
// Browsers asking for HTML are redirected to loginPath, other clients get
// 401 with the login path in a JSON body. Nothing from next is written on
// denial.
func Guard(canAccess func() bool, loginPath string, log logger.Logger) func(http.Handler) http.Handler {
	if loginPath == "" {
		loginPath = "/login"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if canAccess() {
				next.ServeHTTP(w, r)
				return
			}

			log.Debug("guard: no session", logger.String("path", r.URL.Path))
			if wantsHTML(r) {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			respond.JSON(w, http.StatusUnauthorized, respond.NotAuthenticated(loginPath))
		})
	}
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
