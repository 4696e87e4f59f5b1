package cache

import (
	"context"
	"testing"
	"time"
)

func TestLRUGetSet(t *testing.T) {
	c, err := NewLRU(2)
	if err != nil {
		t.Fatalf("NewLRU failed: %v", err)
	}
	ctx := context.Background()

	if _, ok := c.Get(ctx, "missing"); ok {
		t.Error("expected miss for unknown key")
	}

	c.Set(ctx, "a", []byte("1"), time.Minute)
	got, ok := c.Get(ctx, "a")
	if !ok || string(got) != "1" {
		t.Errorf("Get(a) = %q, %v", got, ok)
	}

	c.Delete(ctx, "a")
	if _, ok := c.Get(ctx, "a"); ok {
		t.Error("expected miss after Delete")
	}
}

func TestLRUExpiry(t *testing.T) {
	c, err := NewLRU(10)
	if err != nil {
		t.Fatalf("NewLRU failed: %v", err)
	}
	ctx := context.Background()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set(ctx, "k", []byte("v"), 30*time.Second)

	now = now.Add(29 * time.Second)
	if _, ok := c.Get(ctx, "k"); !ok {
		t.Error("entry expired too early")
	}

	now = now.Add(2 * time.Second)
	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("entry should have expired")
	}
}

func TestLRUEviction(t *testing.T) {
	c, err := NewLRU(2)
	if err != nil {
		t.Fatalf("NewLRU failed: %v", err)
	}
	ctx := context.Background()

	c.Set(ctx, "a", []byte("1"), time.Minute)
	c.Set(ctx, "b", []byte("2"), time.Minute)
	c.Get(ctx, "a")
	c.Set(ctx, "c", []byte("3"), time.Minute)

	if _, ok := c.Get(ctx, "b"); ok {
		t.Error("least recently used entry should have been evicted")
	}
	if _, ok := c.Get(ctx, "a"); !ok {
		t.Error("recently used entry should survive")
	}
}

func TestNop(t *testing.T) {
	var c Cache = Nop{}
	c.Set(context.Background(), "k", []byte("v"), time.Minute)
	if _, ok := c.Get(context.Background(), "k"); ok {
		t.Error("Nop cache should never hit")
	}
}
