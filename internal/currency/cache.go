package currency

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cartlyhq/cartly-backend/pkg/redis"
)

// ErrMiss is returned by KV.Get when the key is absent or expired.
var ErrMiss = errors.New("currency cache: miss")

// KV is the key-value cache the currency service reads through. Keys are
// service-local names; implementations apply their own namespacing.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// RedisKV caches currency payloads in Redis under the currency namespace.
type RedisKV struct {
	client *redis.Client
}

// NewRedisKV wraps the shared Redis client.
func NewRedisKV(client *redis.Client) *RedisKV {
	return &RedisKV{client: client}
}

func (kv *RedisKV) Get(ctx context.Context, key string) (string, error) {
	value, err := kv.client.Get(ctx, kv.client.CurrencyKey(key))
	if err != nil {
		if redis.IsMiss(err) {
			return "", ErrMiss
		}
		return "", err
	}
	return value, nil
}

func (kv *RedisKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return kv.client.Set(ctx, kv.client.CurrencyKey(key), value, ttl)
}

type memoryEntry struct {
	value    string
	deadline time.Time
}

// MemoryKV is an in-process KV for tests and cacheless deployments.
type MemoryKV struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryKV builds an empty in-memory cache.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{
		entries: map[string]memoryEntry{},
		now:     time.Now,
	}
}

func (kv *MemoryKV) Get(_ context.Context, key string) (string, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	entry, ok := kv.entries[key]
	if !ok || kv.now().After(entry.deadline) {
		delete(kv.entries, key)
		return "", ErrMiss
	}
	return entry.value, nil
}

func (kv *MemoryKV) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		return errors.New("currency cache: ttl must be positive")
	}
	kv.mu.Lock()
	defer kv.mu.Unlock()

	kv.entries[key] = memoryEntry{value: value, deadline: kv.now().Add(ttl)}
	return nil
}
