package deps

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/linkveo/internal/core"
	"github.com/MrSnakeDoc/linkveo/internal/logger"
)

type Deps struct {
	Logger            logger.Logger
	StartTime         time.Time
	Version           string
	Commit            string
	BuildDate         string
	GoVersion         string
	TimeNow           func() time.Time            // for testing, defaults to time.Now
	AllowedHosts      []string                    // Host headers allowed to access the server
	AllowedCIDRS      []string                    // client IPs allowed to reach the API
	TrustProxy        bool                        // resolve client IPs from proxy headers
	Core              *core.Core                  // session + resource cache
	Ready             func(context.Context) error // credential storage health
	LoginPath         string                      // where denied HTML clients are sent
	LoginBurst        int                         // login/register attempts before throttling
	LoginRefillPerMin int                         // attempts regained per minute
}

// Now returns the current time using TimeNow when set.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
