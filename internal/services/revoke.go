package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revoker remembers logged-out session token ids until they expire.
type Revoker interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type RedisRevoker struct {
	client *redis.Client
	prefix string
}

func NewRedisRevoker(ctx context.Context, redisURL string) (*RedisRevoker, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisRevoker{client: client, prefix: "filmart:revoked:"}, nil
}

func (r *RedisRevoker) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := time.Until(until)
	if tokenID == "" || ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, r.prefix+tokenID, "1", ttl).Err()
}

func (r *RedisRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	err := r.client.Get(ctx, r.prefix+tokenID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *RedisRevoker) Ping(ctx context.Context) error { return r.client.Ping(ctx).Err() }

func (r *RedisRevoker) Close() error { return r.client.Close() }

// MemoryRevoker is the single-process fallback when no Redis is configured.
type MemoryRevoker struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryRevoker() *MemoryRevoker {
	return &MemoryRevoker{entries: map[string]time.Time{}, now: time.Now}
}

func (m *MemoryRevoker) Revoke(_ context.Context, tokenID string, until time.Time) error {
	if tokenID == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for id, exp := range m.entries {
		if !exp.After(now) {
			delete(m.entries, id)
		}
	}
	if until.After(now) {
		m.entries[tokenID] = until
	}
	return nil
}

func (m *MemoryRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp, ok := m.entries[tokenID]
	return ok && exp.After(m.now()), nil
}
