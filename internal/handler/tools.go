package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/ethiogpt/toolsgate/internal/service"
)

// audioField is the multipart field carrying /stt uploads.
const audioField = "audio"

// maxAudioMemory is how much of a multipart upload is held in memory before
// spilling to disk.
const maxAudioMemory = 10 << 20

// ToolHandler handles the AI tool endpoints.
type ToolHandler struct {
	svc    *service.ToolService
	logger *slog.Logger
}

// NewToolHandler creates a new ToolHandler.
func NewToolHandler(svc *service.ToolService, logger *slog.Logger) *ToolHandler {
	return &ToolHandler{
		svc:    svc,
		logger: logger.With("component", "handler.tools"),
	}
}

// Chat handles POST /api/chat.
func (h *ToolHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req service.ChatInput
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.Chat(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Image handles POST /api/image.
func (h *ToolHandler) Image(w http.ResponseWriter, r *http.Request) {
	var req service.ImageInput
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.GenerateImage(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Translate handles POST /api/translate.
func (h *ToolHandler) Translate(w http.ResponseWriter, r *http.Request) {
	var req service.TranslateInput
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.Translate(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// TTS handles POST /api/tts.
func (h *ToolHandler) TTS(w http.ResponseWriter, r *http.Request) {
	var req service.TTSInput
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.TextToSpeech(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// STT handles POST /api/stt with a multipart "audio" upload.
func (h *ToolHandler) STT(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxAudioMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Audio file is required")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(audioField)
	if err != nil {
		// A part sent with an empty filename is parsed as a plain value.
		if _, ok := r.MultipartForm.Value[audioField]; ok {
			writeError(w, http.StatusBadRequest, "No audio file selected")
			return
		}
		writeError(w, http.StatusBadRequest, "Audio file is required")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "No audio file selected")
		return
	}

	audio, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("failed to read upload", "error", err)
		writeError(w, http.StatusBadRequest, "Audio file is required")
		return
	}

	result, err := h.svc.SpeechToText(r.Context(), audio, header.Header.Get("Content-Type"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Write handles POST /api/write.
func (h *ToolHandler) Write(w http.ResponseWriter, r *http.Request) {
	var req service.WriteInput
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.Write(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Resume handles POST /api/generate_resume.
func (h *ToolHandler) Resume(w http.ResponseWriter, r *http.Request) {
	var req service.ResumeInput
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.GenerateResume(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
