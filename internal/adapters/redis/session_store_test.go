package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/RobinWillson/authsite/internal/domain/auth"
	"github.com/RobinWillson/authsite/internal/testutil"
)

// setupTestRedis creates a Redis client for testing.
// Tests are skipped if Redis is not available.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	return testutil.SetupTestRedis(t)
}

func testSession(token string) domainauth.Session {
	return domainauth.Session{
		Token:     token,
		UserID:    "user-123",
		Email:     "user@example.com",
		Role:      domainauth.RoleUser,
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}
}

func TestSessionStore_SaveAndGet(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)
	ctx := context.Background()

	session := testSession("test-session-1")
	require.NoError(t, store.Save(ctx, session))

	retrieved, err := store.Get(ctx, "test-session-1")
	require.NoError(t, err)
	assert.Equal(t, session.Token, retrieved.Token)
	assert.Equal(t, session.UserID, retrieved.UserID)
	assert.Equal(t, session.Email, retrieved.Email)
	assert.Equal(t, session.Role, retrieved.Role)
	assert.WithinDuration(t, session.ExpiresAt, retrieved.ExpiresAt, time.Second)
}

func TestSessionStore_GetNonExistent(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)

	_, err := store.Get(context.Background(), "non-existent")
	assert.Equal(t, ErrNotFound, err)
}

func TestSessionStore_GetEmptyToken(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)

	_, err := store.Get(context.Background(), "")
	assert.Equal(t, ErrNotFound, err)
}

func TestSessionStore_Delete(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSession("test-session-delete")))
	require.NoError(t, store.Delete(ctx, "test-session-delete"))

	_, err := store.Get(ctx, "test-session-delete")
	assert.Equal(t, ErrNotFound, err)

	// Deleting again, or deleting a never-issued token, is a no-op.
	assert.NoError(t, store.Delete(ctx, "test-session-delete"))
	assert.NoError(t, store.Delete(ctx, "never-issued"))
	assert.NoError(t, store.Delete(ctx, ""))
}

func TestSessionStore_SaveExpired(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)

	sess := testSession("stale")
	sess.ExpiresAt = time.Now().Add(-time.Minute)

	err := store.Save(context.Background(), sess)
	assert.ErrorContains(t, err, "session is expired")
}

func TestSessionStore_SaveEmptyToken(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)

	err := store.Save(context.Background(), testSession(""))
	assert.ErrorContains(t, err, "token cannot be empty")
}

func TestSessionStore_CustomPrefix(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStoreWithPrefix(client, "authsite:sess:")
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSession("prefixed")))

	val, err := client.Exists(ctx, "authsite:sess:prefixed").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), val)
}
