package repository

import (
	"context"
	"errors"

	"github.com/ethiogpt/toolsgate/internal/model"
)

// Common errors for user repository operations.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrUsernameExists = errors.New("username already exists")
)

// CreateUser stores a new user. The uniqueness check and the insert happen
// under one lock.
func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.Username]; exists {
		return ErrUsernameExists
	}

	stored := *user
	r.users[user.Username] = &stored
	r.byID[user.ID] = user.Username
	return nil
}

// GetUserByUsername retrieves a user by username.
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[username]
	if !ok {
		return nil, ErrUserNotFound
	}

	copied := *user
	return &copied, nil
}

// GetUserByID retrieves a user by their ID.
func (r *Repository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	username, ok := r.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}

	copied := *r.users[username]
	return &copied, nil
}

// IncrementUsage adds one to the user's usage counter.
func (r *Repository) IncrementUsage(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	username, ok := r.byID[id]
	if !ok {
		return ErrUserNotFound
	}

	r.users[username].UsageCount++
	return nil
}

// UserStats returns the number of users and the sum of their usage counters.
func (r *Repository) UserStats(ctx context.Context) (users int, requests int64, err error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		requests += u.UsageCount
	}
	return len(r.users), requests, nil
}
