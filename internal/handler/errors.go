package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ethiogpt/toolsgate/internal/service"
)

// handleServiceError maps service errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, service.ErrUsernameExists):
		writeError(w, http.StatusBadRequest, "Username already exists")
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, service.ErrUnknownTool):
		writeError(w, http.StatusNotFound, "Tool not found")
	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn("upstream timed out", "error", err)
		writeError(w, http.StatusGatewayTimeout, "Inference request timed out")
	default:
		logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
