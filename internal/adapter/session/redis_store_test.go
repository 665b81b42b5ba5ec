package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "user-account-service/internal/domain/session"
	"user-account-service/internal/domain/user"
)

func setupStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(client, ttl, zaptest.NewLogger(t)), mr
}

func sampleSession(id string) *domain.Session {
	return &domain.Session{
		ID: id,
		User: user.User{
			ID:        7,
			Name:      "Admin",
			Email:     "admin@example.com",
			Password:  "secret1",
			Role:      user.RoleAdmin,
			CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		},
		CreatedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestRedisStore_SaveAndGet(t *testing.T) {
	store, mr := setupStore(t, 30*time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleSession("abc")))
	assert.True(t, mr.Exists("session:abc"))
	assert.Equal(t, 30*time.Minute, mr.TTL("session:abc"))

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "abc", got.ID)
	assert.Equal(t, int64(7), got.User.ID)
	assert.Equal(t, user.RoleAdmin, got.User.Role)
	assert.True(t, got.User.IsAdmin())
}

func TestRedisStore_GetMissing(t *testing.T) {
	store, _ := setupStore(t, time.Minute)

	got, err := store.Get(context.Background(), "nope")
	assert.NoError(t, err)
	assert.Nil(t, got)

	got, err = store.Get(context.Background(), "")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStore_Expiry(t *testing.T) {
	store, mr := setupStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleSession("abc")))

	mr.FastForward(2 * time.Minute)

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStore_GetSlidesExpiry(t *testing.T) {
	store, mr := setupStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleSession("abc")))

	mr.FastForward(40 * time.Second)
	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	require.NotNil(t, got)

	mr.FastForward(40 * time.Second)
	got, err = store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.NotNil(t, got, "reading the session should have refreshed its ttl")
}

func TestRedisStore_DeleteIsIdempotent(t *testing.T) {
	store, mr := setupStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleSession("abc")))
	require.NoError(t, store.Delete(ctx, "abc"))
	assert.False(t, mr.Exists("session:abc"))

	assert.NoError(t, store.Delete(ctx, "abc"))
	assert.NoError(t, store.Delete(ctx, ""))
}

func TestRedisStore_CorruptEntryIsDropped(t *testing.T) {
	store, mr := setupStore(t, time.Minute)

	require.NoError(t, mr.Set("session:bad", "{not json"))

	got, err := store.Get(context.Background(), "bad")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, mr.Exists("session:bad"))
}

func TestRedisStore_SaveRequiresID(t *testing.T) {
	store, _ := setupStore(t, time.Minute)

	assert.Error(t, store.Save(context.Background(), nil))
	assert.Error(t, store.Save(context.Background(), &domain.Session{}))
}
