package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type item struct {
	data      []byte
	expiresAt time.Time
}

// LRU is a bounded in-process cache with per-entry expiry.
type LRU struct {
	entries *lru.Cache[string, item]
	now     func() time.Time
}

func NewLRU(size int) (*LRU, error) {
	l, err := lru.New[string, item](size)
	if err != nil {
		return nil, err
	}
	return &LRU{entries: l, now: time.Now}, nil
}

func (c *LRU) Get(_ context.Context, key string) ([]byte, bool) {
	val, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}

	// Expired entries are evicted on read.
	if c.now().After(val.expiresAt) {
		c.entries.Remove(key)
		return nil, false
	}
	return val.data, true
}

func (c *LRU) Set(_ context.Context, key string, data []byte, ttl time.Duration) {
	c.entries.Add(key, item{
		data:      data,
		expiresAt: c.now().Add(ttl),
	})
}

func (c *LRU) Delete(_ context.Context, keys ...string) {
	for _, k := range keys {
		c.entries.Remove(k)
	}
}
