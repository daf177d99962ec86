// Package guard decides whether protected views may be shown.
package guard

import "github.com/MrSnakeDoc/linkveo/internal/domain"

// CanAccess reports whether the session may see protected content.
// It has no side effects.
func CanAccess(s domain.Session) bool {
	return s.Authenticated
}

// Require returns domain.ErrNotAuthenticated when access is denied.
func Require(s domain.Session) error {
	if !CanAccess(s) {
		return domain.ErrNotAuthenticated
	}
	return nil
}
