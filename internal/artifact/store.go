// Package artifact manages short-lived generated files (images and audio).
package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ethiogpt/toolsgate/internal/metrics"
	"github.com/ethiogpt/toolsgate/internal/model"
)

var (
	// ErrInvalidName is returned for names that could escape the directory.
	ErrInvalidName = errors.New("invalid filename")
	// ErrNotFound is returned when the artifact does not exist.
	ErrNotFound = errors.New("file not found")
)

// Store writes and reads artifacts in a single flat directory.
type Store struct {
	dir     string
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewStore creates a Store rooted at dir. The directory is created on demand.
func NewStore(dir string, logger *slog.Logger, recorder metrics.Recorder) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Store{
		dir:     dir,
		logger:  logger.With("component", "artifact.store"),
		metrics: recorder,
	}
}

// Save writes data under a fresh random name and returns that name.
func (s *Store) Save(ctx context.Context, kind model.ArtifactKind, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create artifact dir: %w", err)
	}

	name := uuid.NewString() + kind.Extension()
	path := filepath.Join(s.dir, name)

	// O_EXCL guards against a name collision overwriting another artifact.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create artifact: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write artifact: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close artifact: %w", err)
	}

	s.metrics.IncArtifactWritten(string(kind))
	s.logger.Debug("artifact saved", "filename", name, "size", len(data))
	return name, nil
}

// Open returns the artifact file and its info. Callers must close the file.
func (s *Store) Open(name string) (*os.File, os.FileInfo, error) {
	if err := ValidateName(name); err != nil {
		return nil, nil, err
	}

	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("open artifact: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("stat artifact: %w", err)
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, nil, ErrNotFound
	}
	return f, info, nil
}

// ValidateName rejects names that are empty or could traverse out of the directory.
func ValidateName(name string) error {
	if name == "" || name == "." {
		return ErrInvalidName
	}
	if strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return ErrInvalidName
	}
	return nil
}
