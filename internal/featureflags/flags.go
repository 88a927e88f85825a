package featureflags

import (
	"os"
	"strings"
)

// Flags currently honored by the server.
const (
	// CopyLock guards the cross-tenant copy path with a Redis mutex.
	CopyLock = "COPY_LOCK"
	// LiveUpdates enables the /ws/updates websocket feed.
	LiveUpdates = "LIVE_UPDATES"
)

// Enabled returns true if a flag is enabled via environment variable.
// Flags are read from env as FLAG_<NAME>=true/1/yes (case-insensitive)
func Enabled(name string) bool {
	v := os.Getenv("FLAG_" + strings.ToUpper(name))
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
