package model

// Tool names as exposed by the admin API.
const (
	ToolChat       = "chat"
	ToolImage      = "image"
	ToolTranslator = "translator"
	ToolTTS        = "tts"
	ToolWriter     = "writer"
)

// KnownTools lists every tool the gateway exposes, in display order.
var KnownTools = []string{ToolChat, ToolImage, ToolTranslator, ToolTTS, ToolWriter}

// ToolState is a tool and whether it currently accepts requests.
type ToolState struct {
	Name    string `json:"tool"`
	Enabled bool   `json:"enabled"`
}

// Stats is the admin statistics snapshot.
type Stats struct {
	TotalUsers    int      `json:"total_users"`
	TotalRequests int64    `json:"total_requests"`
	ActiveTools   []string `json:"active_tools"`
	SystemStatus  string   `json:"system_status"`
}
