package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/ethiogpt/toolsgate/internal/artifact"
)

// artifactContentTypes pins the types of the files the gateway writes.
var artifactContentTypes = map[string]string{
	".png": "image/png",
	".wav": "audio/wav",
}

// ArtifactOpener opens stored artifacts by name.
type ArtifactOpener interface {
	Open(name string) (*os.File, os.FileInfo, error)
}

// FileHandler serves generated artifacts.
type FileHandler struct {
	store  ArtifactOpener
	logger *slog.Logger
}

// NewFileHandler creates a new FileHandler.
func NewFileHandler(store ArtifactOpener, logger *slog.Logger) *FileHandler {
	return &FileHandler{
		store:  store,
		logger: logger.With("component", "handler.files"),
	}
}

// Serve handles GET /api/files/{filename}.
func (h *FileHandler) Serve(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")

	f, info, err := h.store.Open(name)
	if err != nil {
		switch {
		case errors.Is(err, artifact.ErrInvalidName):
			writeError(w, http.StatusBadRequest, "Invalid filename")
		case errors.Is(err, artifact.ErrNotFound):
			writeError(w, http.StatusNotFound, "File not found")
		default:
			h.logger.Error("failed to open artifact", "filename", name, "error", err)
			writeError(w, http.StatusNotFound, "File not found")
		}
		return
	}
	defer f.Close()

	if ct, ok := artifactContentTypes[filepath.Ext(name)]; ok {
		w.Header().Set("Content-Type", ct)
	}
	// Artifacts are never rewritten under the same name.
	w.Header().Set("Cache-Control", "private, max-age=3600")

	http.ServeContent(w, r, name, info.ModTime(), f)
}
