package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/vibeprint/storefront/pkg/logger"
)

// DefaultCartRecordKey is the key the storefront has always used for the cart.
const DefaultCartRecordKey = "cart"

var ErrCartRecordNotFound = errors.New("cart record not found")

// CartRecordRepository stores the durable cart record as an opaque JSON
// document under a single key. Decoding is the cart store's concern.
type CartRecordRepository interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	Delete(ctx context.Context) error
}

type redisCartRecordRepository struct {
	client *redis.Client
	key    string
}

func NewRedisCartRecordRepository(client *redis.Client, key string) CartRecordRepository {
	if key == "" {
		key = DefaultCartRecordKey
	}
	return &redisCartRecordRepository{client: client, key: key}
}

func (r *redisCartRecordRepository) Read(ctx context.Context) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCartRecordNotFound
	}
	if err != nil {
		logger.Error("Failed to read cart record from redis", err, map[string]interface{}{
			"key": r.key,
		})
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return data, nil
}

func (r *redisCartRecordRepository) Write(ctx context.Context, data []byte) error {
	// No expiry: the record lives until the cart is cleared.
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		logger.Error("Failed to write cart record to redis", err, map[string]interface{}{
			"key":  r.key,
			"size": len(data),
		})
		return fmt.Errorf("redis set failed: %w", err)
	}

	logger.Debug("Cart record written", map[string]interface{}{
		"key":  r.key,
		"size": len(data),
	})
	return nil
}

func (r *redisCartRecordRepository) Delete(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		logger.Error("Failed to delete cart record from redis", err, map[string]interface{}{
			"key": r.key,
		})
		return fmt.Errorf("redis delete failed: %w", err)
	}

	logger.Debug("Cart record deleted", map[string]interface{}{
		"key": r.key,
	})
	return nil
}

// MemoryCartRecordRepository keeps the record in process memory.
type MemoryCartRecordRepository struct {
	mu      sync.RWMutex
	data    []byte
	present bool
}

func NewMemoryCartRecordRepository() *MemoryCartRecordRepository {
	return &MemoryCartRecordRepository{}
}

func (m *MemoryCartRecordRepository) Read(_ context.Context) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.present {
		return nil, ErrCartRecordNotFound
	}
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out, nil
}

func (m *MemoryCartRecordRepository) Write(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append(m.data[:0:0], data...)
	m.present = true
	return nil
}

func (m *MemoryCartRecordRepository) Delete(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	m.present = false
	return nil
}
