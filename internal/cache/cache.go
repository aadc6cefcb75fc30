// Copyright (c) 2025-2026 Reddit Research MCP Contributors.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package cache provides an in-memory expiring cache for upstream metadata
// that changes rarely, such as subreddit descriptions.
package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	// DefSize is the default number of entries.
	DefSize = 50
	// DefTTL is the default time to live of an entry.
	DefTTL = time.Hour

	maxSize = 100000
)

var (
	ErrSize = errors.New("cache size must be between 1 and 100000")
	ErrTTL  = errors.New("cache ttl must be positive")
)

// Stats are the cache counters.
type Stats struct {
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
	Size   int    `json:"size"`
}

// TTL is a size-bounded LRU cache whose entries expire after a fixed
// time.  It is safe for concurrent use.
type TTL[K comparable, V any] struct {
	c      *expirable.LRU[K, V]
	hits   atomic.Uint64
	misses atomic.Uint64
}

// New creates a cache holding at most size entries for ttl each.
func New[K comparable, V any](size int, ttl time.Duration) (*TTL[K, V], error) {
	if size <= 0 || size > maxSize {
		return nil, ErrSize
	}
	if ttl <= 0 {
		return nil, ErrTTL
	}
	return &TTL[K, V]{c: expirable.NewLRU[K, V](size, nil, ttl)}, nil
}

// Get returns the cached value for key.
func (t *TTL[K, V]) Get(key K) (V, bool) {
	v, ok := t.c.Get(key)
	if ok {
		t.hits.Add(1)
	} else {
		t.misses.Add(1)
	}
	return v, ok
}

// Set stores the value.
func (t *TTL[K, V]) Set(key K, v V) {
	t.c.Add(key, v)
}

// Delete removes the key from the cache.
func (t *TTL[K, V]) Delete(key K) {
	t.c.Remove(key)
}

// Fetch returns the cached value for key, or calls fn, caches and returns
// its result.  Errors are not cached.  Concurrent misses on the same key
// may call fn more than once.
func (t *TTL[K, V]) Fetch(ctx context.Context, key K, fn func(ctx context.Context) (V, error)) (V, error) {
	if v, ok := t.Get(key); ok {
		return v, nil
	}
	v, err := fn(ctx)
	if err != nil {
		return v, err
	}
	t.Set(key, v)
	return v, nil
}

// Stats returns the current counters.
func (t *TTL[K, V]) Stats() Stats {
	return Stats{
		Hits:   t.hits.Load(),
		Misses: t.misses.Load(),
		Size:   t.c.Len(),
	}
}
