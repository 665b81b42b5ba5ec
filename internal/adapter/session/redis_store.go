package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	domain "user-account-service/internal/domain/session"
)

const keyPrefix = "session:"

// RedisStore implements session.Store on Redis. Every session expires after
// ttl of inactivity: reads push the expiry forward.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// TTL returns the inactivity timeout applied to sessions.
func (s *RedisStore) TTL() time.Duration {
	return s.ttl
}

func (s *RedisStore) key(id string) string {
	return keyPrefix + id
}

// Save stores the session under its ID, replacing any previous value.
func (s *RedisStore) Save(ctx context.Context, sess *domain.Session) error {
	if sess == nil || sess.ID == "" {
		return errors.New("session must have an id")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.client.Set(ctx, s.key(sess.ID), data, s.ttl).Err(); err != nil {
		s.log.Error("failed to save session", zap.Int64("user_id", sess.User.ID), zap.Error(err))
		return fmt.Errorf("failed to save session: %w", err)
	}

	s.log.Debug("session saved", zap.Int64("user_id", sess.User.ID), zap.Duration("ttl", s.ttl))
	return nil
}

// Get loads a session and refreshes its expiry. It returns (nil, nil) when the
// session does not exist.
func (s *RedisStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	if id == "" {
		return nil, nil
	}

	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		s.log.Error("failed to load session", zap.Error(err))
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		// An unreadable entry cannot authenticate anyone; drop it.
		s.log.Warn("discarding corrupt session", zap.Error(err))
		_ = s.client.Del(ctx, s.key(id)).Err()
		return nil, nil
	}

	if err := s.client.Expire(ctx, s.key(id), s.ttl).Err(); err != nil {
		s.log.Warn("failed to refresh session ttl", zap.Error(err))
	}

	return &sess, nil
}

// Delete removes a session. Missing sessions are ignored.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}

	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		s.log.Error("failed to delete session", zap.Error(err))
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}
