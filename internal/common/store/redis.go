// Package store keeps the single most recent run result for the
// dashboard. Nothing older than the latest run is ever retained.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"uxr-engine/internal/common/config"
	"uxr-engine/internal/models"
)

const latestResultKey = "uxr:latest_result"

// ErrNoResult is returned when no run has completed yet.
var ErrNoResult = errors.New("no research result stored")

// ResultStore holds the most recent result envelope.
type ResultStore interface {
	SaveLatest(ctx context.Context, envelope *models.ResultEnvelope) error
	LoadLatest(ctx context.Context) (*models.ResultEnvelope, error)
}

// RedisStore implements ResultStore on Redis.
type RedisStore struct {
	client *redis.Client
}

// NewRedis creates a Redis-backed result store.
func NewRedis(cfg config.RedisConfig) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})
	return &RedisStore{client: rdb}
}

// NewRedisWithClient wraps an existing client, used by tests.
func NewRedisWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Ping tests the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// SaveLatest overwrites the stored envelope with the given one.
func (s *RedisStore) SaveLatest(ctx context.Context, envelope *models.ResultEnvelope) error {
	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal result envelope: %w", err)
	}
	if err := s.client.Set(ctx, latestResultKey, data, 0).Err(); err != nil {
		return fmt.Errorf("store result envelope: %w", err)
	}
	return nil
}

// LoadLatest returns the most recently stored envelope.
func (s *RedisStore) LoadLatest(ctx context.Context) (*models.ResultEnvelope, error) {
	data, err := s.client.Get(ctx, latestResultKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoResult
		}
		return nil, fmt.Errorf("load result envelope: %w", err)
	}

	var envelope models.ResultEnvelope
	if err := json.Unmarshal([]byte(data), &envelope); err != nil {
		return nil, fmt.Errorf("unmarshal result envelope: %w", err)
	}
	return &envelope, nil
}

// MemoryStore is the in-process ResultStore used when Redis is disabled.
type MemoryStore struct {
	mu     sync.RWMutex
	latest *models.ResultEnvelope
}

func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) SaveLatest(_ context.Context, envelope *models.ResultEnvelope) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latest = envelope
	return nil
}

func (m *MemoryStore) LoadLatest(_ context.Context) (*models.ResultEnvelope, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.latest == nil {
		return nil, ErrNoResult
	}
	return m.latest, nil
}
