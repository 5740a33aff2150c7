package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ethiogpt/toolsgate/internal/handler/dto"
	"github.com/ethiogpt/toolsgate/internal/model"
)

// SystemStatusHealthy is the only status the stats endpoint reports.
const SystemStatusHealthy = "healthy"

// StatsProvider reports user totals.
type StatsProvider interface {
	Stats(ctx context.Context) (int, int64, error)
}

// ToolToggler manages the enabled flag of each tool.
type ToolToggler interface {
	SetEnabled(name string, enabled bool) error
	Active() []string
	States() []model.ToolState
}

// AdminHandler provides the admin endpoints. Routes are guarded by the admin
// secret middleware.
type AdminHandler struct {
	stats  StatsProvider
	tools  ToolToggler
	logger *slog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(stats StatsProvider, tools ToolToggler, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		stats:  stats,
		tools:  tools,
		logger: logger.With("component", "handler.admin"),
	}
}

// Stats handles GET /api/admin/stats.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	users, requests, err := h.stats.Stats(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, model.Stats{
		TotalUsers:    users,
		TotalRequests: requests,
		ActiveTools:   h.tools.Active(),
		SystemStatus:  SystemStatusHealthy,
	})
}

// ListTools handles GET /api/admin/tools.
func (h *AdminHandler) ListTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.ToolListResponse{Tools: h.tools.States()})
}

// ToggleTool handles POST /api/admin/tools/{name}. An empty body enables the tool.
func (h *AdminHandler) ToggleTool(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(chi.URLParam(r, "name"))

	var req dto.ToggleToolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	if err := h.tools.SetEnabled(name, enabled); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	state := "disabled"
	if enabled {
		state = "enabled"
	}
	h.logger.Info("tool toggled", "tool", name, "enabled", enabled)

	writeJSON(w, http.StatusOK, dto.ToggleToolResponse{
		Tool:    name,
		Enabled: enabled,
		Message: fmt.Sprintf("Tool %s %s", name, state),
	})
}
