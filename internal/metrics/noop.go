package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncToolRequest is a no-op.
func (n *NoopRecorder) IncToolRequest(tool, status string) {}

// ObserveInferenceDuration is a no-op.
func (n *NoopRecorder) ObserveInferenceDuration(model string, duration time.Duration) {}

// IncArtifactWritten is a no-op.
func (n *NoopRecorder) IncArtifactWritten(kind string) {}

// IncArtifactExpired is a no-op.
func (n *NoopRecorder) IncArtifactExpired(count int) {}

// IncRateLimited is a no-op.
func (n *NoopRecorder) IncRateLimited(scope string) {}

// IncUserRegistered is a no-op.
func (n *NoopRecorder) IncUserRegistered() {}
