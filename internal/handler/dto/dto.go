// Package dto provides Data Transfer Objects for API requests and responses.
// Tool request bodies are the service input types; this package holds the
// shapes that only exist at the HTTP edge.
package dto

import "github.com/ethiogpt/toolsgate/internal/model"

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ToggleToolRequest is the body of POST /api/admin/tools/{name}.
// A missing enabled field means true.
type ToggleToolRequest struct {
	Enabled *bool `json:"enabled,omitempty"`
}

// ToggleToolResponse reports the new state of a tool.
type ToggleToolResponse struct {
	Tool    string `json:"tool"`
	Enabled bool   `json:"enabled"`
	Message string `json:"message"`
}

// ToolListResponse lists every tool and its state.
type ToolListResponse struct {
	Tools []model.ToolState `json:"tools"`
}

// MeResponse wraps the caller's profile.
type MeResponse struct {
	User model.ProfileResponse `json:"user"`
}

// ServiceHealthResponse is the body of GET /api/health.
type ServiceHealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}
