package ens

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

// Cache is an expiring LRU keyed by string. Concurrent misses on one key share
// a single fetch, and failed fetches are not cached.
type Cache[T any] struct {
	entries *expirable.LRU[string, T]
	group   singleflight.Group
}

func NewCache[T any](size int, ttl time.Duration) *Cache[T] {
	return &Cache[T]{entries: expirable.NewLRU[string, T](size, nil, ttl)}
}

// GetOrFetch returns a cached value or calls fetch to populate it.
func (c *Cache[T]) GetOrFetch(key string, fetch func() (T, error)) (T, error) {
	if v, ok := c.entries.Get(key); ok {
		return v, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		if v, ok := c.entries.Get(key); ok {
			return v, nil
		}
		v, err := fetch()
		if err != nil {
			return nil, err
		}
		c.entries.Add(key, v)
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Invalidate drops key.
func (c *Cache[T]) Invalidate(key string) {
	c.entries.Remove(key)
}
