// Package lifecycle holds shared timing constants for startup and shutdown hooks.
package lifecycle

import "time"

// DefaultTimeout bounds start and stop hooks such as DB pings and server shutdown.
const DefaultTimeout = 10 * time.Second
