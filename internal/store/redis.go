package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/vivahdesk/leadbot/backend/internal/model/lead"
)

// RedisStore implements Store on Redis. Sessions are stored as JSON under a
// key prefix; expiry rides on Redis TTLs instead of a reaper.
type RedisStore struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithRedisTTL sets the per-session expiration. Zero keeps sessions forever.
func WithRedisTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		s.ttl = ttl
	}
}

// WithRedisPrefix overrides the key prefix.
func WithRedisPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

// NewRedisStore connects a store to the given Redis instance.
func NewRedisStore(addr, password string, db int, opts ...RedisOption) *RedisStore {
	client := backend.NewClient(&backend.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewRedisStoreFromClient(client, opts...)
}

// NewRedisStoreFromClient wraps an existing client, which tests use to point
// at miniredis.
func NewRedisStoreFromClient(client *backend.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client: client,
		prefix: "leadbot:session:",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

// GetOrCreate loads the session for id, initializing and persisting a fresh
// one when the key is absent.
func (s *RedisStore) GetOrCreate(ctx context.Context, id string) (lead.Session, bool, error) {
	val, err := s.client.Get(ctx, s.key(id)).Result()
	if err == backend.Nil {
		session := lead.NewSession(id)
		if err := s.Put(ctx, session); err != nil {
			return lead.Session{}, false, err
		}
		return session, true, nil
	}
	if err != nil {
		return lead.Session{}, false, fmt.Errorf("failed to get session from redis: %w", err)
	}

	var session lead.Session
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return lead.Session{}, false, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return session, false, nil
}

// Put marshals and stores the session, refreshing its TTL.
func (s *RedisStore) Put(ctx context.Context, session lead.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(session.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session to redis: %w", err)
	}
	return nil
}

// Ping verifies connectivity, used at startup.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
