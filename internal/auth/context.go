package auth

import (
	"context"
	"sync"

	"github.com/ethiogpt/toolsgate/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// authContextKey is the context key for storing AuthContext.
	authContextKey contextKey = "auth_context"
	// holderKey is the context key for the request-scoped Holder.
	holderKey contextKey = "auth_holder"
)

// Holder lets outer middleware observe the caller that inner middleware
// authenticated on a derived request.
type Holder struct {
	mu   sync.Mutex
	auth *model.AuthContext
}

// UserID returns the authenticated user id, or "" for anonymous requests.
func (h *Holder) UserID() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.auth == nil {
		return ""
	}
	return h.auth.UserID
}

// ContextWithHolder installs a Holder that ContextWithAuth will fill.
func ContextWithHolder(ctx context.Context, h *Holder) context.Context {
	return context.WithValue(ctx, holderKey, h)
}

// ContextWithAuth adds AuthContext to the context.
func ContextWithAuth(ctx context.Context, auth *model.AuthContext) context.Context {
	if h, ok := ctx.Value(holderKey).(*Holder); ok {
		h.mu.Lock()
		h.auth = auth
		h.mu.Unlock()
	}
	return context.WithValue(ctx, authContextKey, auth)
}

// AuthFromContext retrieves AuthContext from the context.
// Returns nil if not present.
func AuthFromContext(ctx context.Context) *model.AuthContext {
	auth, ok := ctx.Value(authContextKey).(*model.AuthContext)
	if !ok {
		return nil
	}
	return auth
}

// UserIDFromContext is a convenience function to get user ID from context.
// Returns empty string if not authenticated.
func UserIDFromContext(ctx context.Context) string {
	auth := AuthFromContext(ctx)
	if auth == nil {
		return ""
	}
	return auth.UserID
}
