// Package repository provides the process-local data access layer.
// Nothing here survives a restart.
package repository

import (
	"context"
	"sync"

	"github.com/ethiogpt/toolsgate/internal/model"
)

// Repository provides user storage methods.
type Repository struct {
	mu    sync.RWMutex
	users map[string]*model.User // keyed by username
	byID  map[string]string      // user id -> username
}

// New creates an empty Repository.
func New() *Repository {
	return &Repository{
		users: make(map[string]*model.User),
		byID:  make(map[string]string),
	}
}

// Ping reports repository health. The in-memory store is always reachable.
func (r *Repository) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close drops all stored users.
func (r *Repository) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = make(map[string]*model.User)
	r.byID = make(map[string]string)
}
