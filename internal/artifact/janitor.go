package artifact

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ethiogpt/toolsgate/internal/metrics"
)

// Janitor periodically removes artifacts older than a TTL.
type Janitor struct {
	dir      string
	ttl      time.Duration
	interval time.Duration
	logger   *slog.Logger
	metrics  metrics.Recorder
	now      func() time.Time

	started bool
	cancel  context.CancelFunc
	done    chan struct{}
	mu      sync.Mutex
}

// NewJanitor creates a janitor for dir.
func NewJanitor(dir string, ttl, interval time.Duration, logger *slog.Logger, recorder metrics.Recorder) *Janitor {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Janitor{
		dir:      dir,
		ttl:      ttl,
		interval: interval,
		logger:   logger.With("component", "artifact.janitor"),
		metrics:  recorder,
		now:      time.Now,
	}
}

// Run sweeps on every interval until the context is cancelled or Shutdown is called.
// A zero TTL or interval disables sweeping.
func (j *Janitor) Run(ctx context.Context) error {
	j.mu.Lock()
	if j.started {
		j.mu.Unlock()
		return errors.New("janitor already started")
	}
	j.started = true
	j.done = make(chan struct{})
	ctx, j.cancel = context.WithCancel(ctx)
	j.mu.Unlock()

	defer close(j.done)

	if j.ttl <= 0 || j.interval <= 0 {
		j.logger.Info("artifact expiry disabled")
		<-ctx.Done()
		return nil
	}

	j.logger.Info("artifact janitor started", "ttl", j.ttl, "interval", j.interval)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("artifact janitor stopping")
			return nil
		case <-ticker.C:
			j.Sweep()
		}
	}
}

// Shutdown stops the loop. It implements server.ShutdownFunc.
func (j *Janitor) Shutdown(ctx context.Context) error {
	j.mu.Lock()
	if !j.started {
		j.mu.Unlock()
		return nil
	}
	cancel := j.cancel
	done := j.done
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		j.logger.Warn("artifact janitor shutdown timed out")
		return ctx.Err()
	}
}

// Sweep removes expired artifacts once and returns how many were deleted.
func (j *Janitor) Sweep() int {
	entries, err := os.ReadDir(j.dir)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			j.logger.Error("read artifact dir", "error", err)
		}
		return 0
	}

	cutoff := j.now().Add(-j.ttl)
	removed := 0

	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(j.dir, entry.Name())); err != nil && !errors.Is(err, os.ErrNotExist) {
			j.logger.Warn("remove expired artifact", "filename", entry.Name(), "error", err)
			continue
		}
		removed++
	}

	if removed > 0 {
		j.metrics.IncArtifactExpired(removed)
		j.logger.Info("expired artifacts removed", "count", removed)
	}
	return removed
}
