// Package cache holds short-lived rendered page data. Two backends exist: an
// in-process LRU and Redis, for deployments running several app instances.
package cache

import (
	"context"
	"time"
)

type Cache interface {
	// Get returns the cached bytes, or false if absent or expired.
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration)
	Delete(ctx context.Context, keys ...string)
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (Nop) Set(context.Context, string, []byte, time.Duration) {}
func (Nop) Delete(context.Context, ...string) {}
