package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestMemoryCacheLifecycle(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache()
	customerID := uuid.New()

	entry := Entry{
		CustomerID: customerID,
		Email:      "jane@example.com",
		FullName:   "Jane Doe",
		ExpiresAt:  time.Now().Add(time.Hour),
	}

	if err := cache.Set(ctx, "tok-1", entry, time.Hour); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	got, err := cache.Get(ctx, "tok-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.CustomerID != customerID {
		t.Fatalf("expected customer %s, got %s", customerID, got.CustomerID)
	}
	if got.Email != "jane@example.com" {
		t.Fatalf("unexpected email %s", got.Email)
	}

	if err := cache.Del(ctx, "tok-1"); err != nil {
		t.Fatalf("del failed: %v", err)
	}
	if _, err := cache.Get(ctx, "tok-1"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected miss after delete, got %v", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache()

	current := time.Now()
	cache.now = func() time.Time { return current }

	if err := cache.Set(ctx, "tok-2", Entry{CustomerID: uuid.New()}, time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if _, err := cache.Get(ctx, "tok-2"); err != nil {
		t.Fatalf("expected hit before expiry, got %v", err)
	}

	current = current.Add(2 * time.Minute)
	if _, err := cache.Get(ctx, "tok-2"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected miss after expiry, got %v", err)
	}
}

func TestMemoryCacheRejectsNonPositiveTTL(t *testing.T) {
	cache := NewMemoryCache()
	if err := cache.Set(context.Background(), "tok-3", Entry{}, 0); err == nil {
		t.Fatal("expected ttl error")
	}
}

func TestMemoryCacheMissOnUnknownToken(t *testing.T) {
	cache := NewMemoryCache()
	if _, err := cache.Get(context.Background(), "unknown"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected miss, got %v", err)
	}
}
