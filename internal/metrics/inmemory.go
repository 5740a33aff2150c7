package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	ToolRequests             map[string]uint64 // keyed by "tool:status"
	InferenceDurationCount   uint64
	InferenceDurationTotalNs int64
	ArtifactsWritten         uint64
	ArtifactsExpired         uint64
	RateLimited              map[string]uint64
	UsersRegistered          uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	mu           sync.Mutex
	toolRequests map[string]uint64
	rateLimited  map[string]uint64

	inferenceDurationCount   uint64
	inferenceDurationTotalNs int64
	artifactsWritten         uint64
	artifactsExpired         uint64
	usersRegistered          uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		toolRequests: make(map[string]uint64),
		rateLimited:  make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	tools := make(map[string]uint64, len(m.toolRequests))
	for k, v := range m.toolRequests {
		tools[k] = v
	}
	limited := make(map[string]uint64, len(m.rateLimited))
	for k, v := range m.rateLimited {
		limited[k] = v
	}
	m.mu.Unlock()

	return Snapshot{
		ToolRequests:             tools,
		InferenceDurationCount:   atomic.LoadUint64(&m.inferenceDurationCount),
		InferenceDurationTotalNs: atomic.LoadInt64(&m.inferenceDurationTotalNs),
		ArtifactsWritten:         atomic.LoadUint64(&m.artifactsWritten),
		ArtifactsExpired:         atomic.LoadUint64(&m.artifactsExpired),
		RateLimited:              limited,
		UsersRegistered:          atomic.LoadUint64(&m.usersRegistered),
	}
}

// IncToolRequest increments the tool request counter.
func (m *InMemoryRecorder) IncToolRequest(tool, status string) {
	m.mu.Lock()
	m.toolRequests[tool+":"+status]++
	m.mu.Unlock()
}

// ObserveInferenceDuration records inference call duration.
func (m *InMemoryRecorder) ObserveInferenceDuration(model string, duration time.Duration) {
	atomic.AddUint64(&m.inferenceDurationCount, 1)
	atomic.AddInt64(&m.inferenceDurationTotalNs, duration.Nanoseconds())
}

// IncArtifactWritten increments the artifact counter.
func (m *InMemoryRecorder) IncArtifactWritten(kind string) {
	atomic.AddUint64(&m.artifactsWritten, 1)
}

// IncArtifactExpired adds swept artifacts.
func (m *InMemoryRecorder) IncArtifactExpired(count int) {
	if count > 0 {
		atomic.AddUint64(&m.artifactsExpired, uint64(count))
	}
}

// IncRateLimited increments the rejected request counter for a scope.
func (m *InMemoryRecorder) IncRateLimited(scope string) {
	m.mu.Lock()
	m.rateLimited[scope]++
	m.mu.Unlock()
}

// IncUserRegistered increments the registration counter.
func (m *InMemoryRecorder) IncUserRegistered() {
	atomic.AddUint64(&m.usersRegistered, 1)
}
