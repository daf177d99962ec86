package utils

import (
	"io"

	"github.com/MrSnakeDoc/linkveo/internal/logger"
)

// Close closes c and ignores any error.
// Use for best-effort cleanup on error paths.
func Close(c io.Closer) {
	_ = c.Close()
}

// CloseLogged closes c and logs a failure at warn.
// Use in defer statements where close errors should be tracked.
func CloseLogged(c io.Closer, log logger.Logger, what string) {
	if err := c.Close(); err != nil {
		log.Warn("failed to close "+what, logger.Error(err))
	}
}
