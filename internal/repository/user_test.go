package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethiogpt/toolsgate/internal/model"
)

func newUser(id, username string) *model.User {
	return &model.User{
		ID:          id,
		Username:    username,
		DisplayName: username,
		CreatedAt:   time.Now(),
	}
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	t.Parallel()

	repo := New()
	ctx := context.Background()

	require.NoError(t, repo.CreateUser(ctx, newUser("u1", "abebe")))

	err := repo.CreateUser(ctx, newUser("u2", "abebe"))
	assert.ErrorIs(t, err, ErrUsernameExists)

	_, err = repo.GetUserByID(ctx, "u2")
	assert.ErrorIs(t, err, ErrUserNotFound, "rejected user must not be indexed by id")
}

func TestCreateUser_ConcurrentSameUsername(t *testing.T) {
	t.Parallel()

	repo := New()
	ctx := context.Background()

	var created int64
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := repo.CreateUser(ctx, newUser(fmt.Sprintf("u%d", i), "race")); err == nil {
				atomic.AddInt64(&created, 1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(1), created, "exactly one registration must win")
}

func TestGetUser(t *testing.T) {
	t.Parallel()

	repo := New()
	ctx := context.Background()
	require.NoError(t, repo.CreateUser(ctx, newUser("u1", "almaz")))

	byName, err := repo.GetUserByUsername(ctx, "almaz")
	require.NoError(t, err)
	assert.Equal(t, "u1", byName.ID)

	byID, err := repo.GetUserByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "almaz", byID.Username)

	_, err = repo.GetUserByUsername(ctx, "nobody")
	assert.True(t, errors.Is(err, ErrUserNotFound))
}

func TestGetUser_ReturnsCopy(t *testing.T) {
	t.Parallel()

	repo := New()
	ctx := context.Background()
	require.NoError(t, repo.CreateUser(ctx, newUser("u1", "almaz")))

	u, err := repo.GetUserByID(ctx, "u1")
	require.NoError(t, err)
	u.UsageCount = 99

	again, err := repo.GetUserByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), again.UsageCount)
}

func TestIncrementUsageAndStats(t *testing.T) {
	t.Parallel()

	repo := New()
	ctx := context.Background()
	require.NoError(t, repo.CreateUser(ctx, newUser("u1", "almaz")))
	require.NoError(t, repo.CreateUser(ctx, newUser("u2", "kebede")))

	require.NoError(t, repo.IncrementUsage(ctx, "u1"))
	require.NoError(t, repo.IncrementUsage(ctx, "u1"))
	require.NoError(t, repo.IncrementUsage(ctx, "u2"))
	assert.ErrorIs(t, repo.IncrementUsage(ctx, "missing"), ErrUserNotFound)

	users, requests, err := repo.UserStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, users)
	assert.Equal(t, int64(3), requests)
}

func TestRepository_CanceledContext(t *testing.T) {
	t.Parallel()

	repo := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, repo.CreateUser(ctx, newUser("u1", "almaz")), context.Canceled)
	assert.ErrorIs(t, repo.Ping(ctx), context.Canceled)
}
