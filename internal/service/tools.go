package service

import (
	"errors"
	"sort"
	"sync"

	"github.com/ethiogpt/toolsgate/internal/model"
)

// ErrUnknownTool is returned when toggling a tool the gateway does not expose.
var ErrUnknownTool = errors.New("unknown tool")

// ToolRegistry tracks which tools accept requests.
type ToolRegistry struct {
	mu      sync.RWMutex
	enabled map[string]bool
}

// NewToolRegistry creates a registry with every known tool enabled.
func NewToolRegistry() *ToolRegistry {
	enabled := make(map[string]bool, len(model.KnownTools))
	for _, name := range model.KnownTools {
		enabled[name] = true
	}
	return &ToolRegistry{enabled: enabled}
}

// SetEnabled switches a tool on or off.
func (r *ToolRegistry) SetEnabled(name string, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.enabled[name]; !ok {
		return ErrUnknownTool
	}
	r.enabled[name] = enabled
	return nil
}

// IsEnabled reports whether a tool accepts requests. Unknown tools are enabled.
func (r *ToolRegistry) IsEnabled(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	enabled, ok := r.enabled[name]
	return !ok || enabled
}

// Active returns the enabled tools in sorted order.
func (r *ToolRegistry) Active() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	active := make([]string, 0, len(r.enabled))
	for name, enabled := range r.enabled {
		if enabled {
			active = append(active, name)
		}
	}
	sort.Strings(active)
	return active
}

// States returns every known tool with its state, in display order.
func (r *ToolRegistry) States() []model.ToolState {
	r.mu.RLock()
	defer r.mu.RUnlock()

	states := make([]model.ToolState, 0, len(model.KnownTools))
	for _, name := range model.KnownTools {
		states = append(states, model.ToolState{Name: name, Enabled: r.enabled[name]})
	}
	return states
}
