package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	redisclient "github.com/cartlyhq/cartly-backend/pkg/redis"
)

// ErrMiss signals the token has no cached entry. Callers fall back to the
// database record.
var ErrMiss = errors.New("session cache miss")

// Entry is the cached view of a validated token. The DB row stays the source
// of truth; an entry only short-circuits the lookup.
type Entry struct {
	CustomerID uuid.UUID `json:"customer_id"`
	Email      string    `json:"email"`
	FullName   string    `json:"full_name"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Cache stores token validation results keyed by the literal token string.
type Cache interface {
	Get(ctx context.Context, token string) (*Entry, error)
	Set(ctx context.Context, token string, entry Entry, ttl time.Duration) error
	Del(ctx context.Context, token string) error
}

type redisStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	SessionKey(token string) string
}

// RedisCache keeps entries in Redis with per-token TTLs.
type RedisCache struct {
	store redisStore
}

// NewRedisCache wraps the shared Redis client as a session cache.
func NewRedisCache(client *redisclient.Client) (*RedisCache, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return &RedisCache{store: client}, nil
}

func (c *RedisCache) Get(ctx context.Context, token string) (*Entry, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("token is required")
	}
	raw, err := c.store.Get(ctx, c.store.SessionKey(token))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, ErrMiss
		}
		return nil, err
	}
	var entry Entry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return nil, fmt.Errorf("decoding session entry: %w", err)
	}
	return &entry, nil
}

func (c *RedisCache) Set(ctx context.Context, token string, entry Entry, ttl time.Duration) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("token is required")
	}
	if ttl <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding session entry: %w", err)
	}
	return c.store.Set(ctx, c.store.SessionKey(token), string(raw), ttl)
}

func (c *RedisCache) Del(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("token is required")
	}
	return c.store.Del(ctx, c.store.SessionKey(token))
}

// MemoryCache is an in-process Cache used by tests and single-node setups.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	entry    Entry
	deadline time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(ctx context.Context, token string) (*Entry, error) {
	c.mu.RLock()
	stored, ok := c.entries[token]
	c.mu.RUnlock()
	if !ok {
		return nil, ErrMiss
	}
	if c.now().After(stored.deadline) {
		c.mu.Lock()
		delete(c.entries, token)
		c.mu.Unlock()
		return nil, ErrMiss
	}
	entry := stored.entry
	return &entry, nil
}

func (c *MemoryCache) Set(ctx context.Context, token string, entry Entry, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}
	c.mu.Lock()
	c.entries[token] = memoryEntry{entry: entry, deadline: c.now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Del(ctx context.Context, token string) error {
	c.mu.Lock()
	delete(c.entries, token)
	c.mu.Unlock()
	return nil
}
