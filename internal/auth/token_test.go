package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethiogpt/toolsgate/internal/model"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Issue("user-1")
	require.NoError(t, err)

	authCtx, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", authCtx.UserID)
	assert.NotEmpty(t, authCtx.TokenID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), authCtx.ExpiresAt, 5*time.Second)
}

func TestTokenIssuer_Expired(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer("test-secret", time.Hour)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := issuer.Issue("user-1")
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	t.Parallel()

	token, err := NewTokenIssuer("secret-a", time.Hour).Issue("user-1")
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret-b", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	claims := jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = NewTokenIssuer("test-secret", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_Garbage(t *testing.T) {
	t.Parallel()

	_, err := NewTokenIssuer("test-secret", time.Hour).Parse("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestContextWithAuth(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	assert.Nil(t, AuthFromContext(ctx))
	assert.Empty(t, UserIDFromContext(ctx))

	ctx = ContextWithAuth(ctx, &model.AuthContext{UserID: "user-9"})
	assert.Equal(t, "user-9", UserIDFromContext(ctx))
}

func TestContextWithAuth_FillsHolder(t *testing.T) {
	t.Parallel()

	holder := &Holder{}
	ctx := ContextWithHolder(context.Background(), holder)
	assert.Empty(t, holder.UserID())

	_ = ContextWithAuth(ctx, &model.AuthContext{UserID: "user-7"})
	assert.Equal(t, "user-7", holder.UserID())
}
