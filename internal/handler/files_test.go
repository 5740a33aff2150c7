package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethiogpt/toolsgate/internal/artifact"
	"github.com/ethiogpt/toolsgate/internal/model"
)

func newFileRouter(t *testing.T) (http.Handler, *artifact.Store) {
	t.Helper()
	store := artifact.NewStore(t.TempDir(), discardLogger(), nil)
	h := NewFileHandler(store, discardLogger())
	r := chi.NewRouter()
	r.Get("/api/files/{filename}", h.Serve)
	return r, store
}

func TestFileHandler_Serve(t *testing.T) {
	r, store := newFileRouter(t)

	name, err := store.Save(context.Background(), model.ArtifactAudio, []byte("RIFFdata"))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/files/"+name, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "audio/wav", rec.Header().Get("Content-Type"))
	assert.Equal(t, "private, max-age=3600", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "RIFFdata", rec.Body.String())
}

func TestFileHandler_Errors(t *testing.T) {
	r, _ := newFileRouter(t)

	tests := []struct {
		name    string
		path    string
		status  int
		message string
	}{
		{"missing", "/api/files/does-not-exist.png", http.StatusNotFound, "File not found"},
		{"encoded traversal", "/api/files/..%2F..%2Fetc%2Fpasswd", http.StatusBadRequest, "Invalid filename"},
		{"encoded backslash", "/api/files/..%5Csecret.png", http.StatusBadRequest, "Invalid filename"},
		{"dot dot", "/api/files/..", http.StatusBadRequest, "Invalid filename"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.message, decodeBody(t, rec)["error"])
		})
	}
}
