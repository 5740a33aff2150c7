// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus or keep them in memory.
type Recorder interface {
	// Tool metrics
	IncToolRequest(tool, status string) // status: "success", "error", "disabled"
	ObserveInferenceDuration(model string, duration time.Duration)

	// Artifact metrics
	IncArtifactWritten(kind string)
	IncArtifactExpired(count int)

	// Edge metrics
	IncRateLimited(scope string)
	IncUserRegistered()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
