package chat

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/redis/go-redis/v9"

	"mbaadvisor/internal/config"
	"mbaadvisor/internal/errors"
)

// RedisStore keeps sessions as JSON documents under a key prefix
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore connects lazily to the configured server
func NewRedisStore(cfg config.RedisConfig, ttl time.Duration) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
	return NewRedisStoreWithClient(client, cfg.KeyPrefix, ttl)
}

// NewRedisStoreWithClient wraps an existing client
func NewRedisStoreWithClient(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisStore) key(id string) string {
	return r.prefix + id
}

// Ping checks the connection
func (r *RedisStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return errors.NewNetworkError(errors.ErrCodeSessionStoreFailed, "Redis ping failed", err)
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, sessionNotFound(id)
	}
	if err != nil {
		return nil, errors.NewNetworkError(errors.ErrCodeSessionStoreFailed, "Failed to load chat session", err).
			WithContext("session_id", id)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.NewInternalError(errors.ErrCodeSessionStoreFailed, "Stored chat session is corrupt", err).
			WithContext("session_id", id)
	}
	return &s, nil
}

func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeSessionStoreFailed, "Failed to encode chat session", err)
	}
	if err := r.client.Set(ctx, r.key(s.ID), data, r.ttl).Err(); err != nil {
		return errors.NewNetworkError(errors.ErrCodeSessionStoreFailed, "Failed to save chat session", err).
			WithContext("session_id", s.ID)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return errors.NewNetworkError(errors.ErrCodeSessionStoreFailed, "Failed to delete chat session", err).
			WithContext("session_id", id)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
