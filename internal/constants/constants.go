// Package constants holds shared tuning values.
package constants

import "time"

const (
	// EventChannelBuffer is the buffer size for job event listener channels.
	EventChannelBuffer = 100

	// StatsCacheTTL bounds how stale the cached stats response may get.
	StatsCacheTTL = time.Minute

	// ShutdownTimeout is how long the server waits for in-flight requests
	// on graceful shutdown.
	ShutdownTimeout = 10 * time.Second
)
