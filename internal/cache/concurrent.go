// Copyright 2026 The libzim-go Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package cache

import (
	"fmt"
	"sync"

	"github.com/hashicorp/golang-lru/v2/simplelru"
	"golang.org/x/sync/singleflight"
)

// ConcurrentCache is a bounded cache whose misses are coalesced:
// concurrent GetOrPut calls for the same absent key run the compute
// function exactly once, with every caller observing the shared result.
// The compute runs outside the map lock, so unrelated keys are never
// serialized behind it. In-flight computations are not present in the
// map and therefore can never be picked as eviction victims.
type ConcurrentCache[K comparable, V any] struct {
	mu    sync.Mutex
	lru   *simplelru.LRU[K, V]
	group singleflight.Group
}

// NewConcurrentCache returns a cache holding at most capacity computed
// values. A capacity below one is clamped to one.
func NewConcurrentCache[K comparable, V any](capacity int) *ConcurrentCache[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	lru, err := simplelru.NewLRU[K, V](capacity, nil)
	if err != nil {
		panic(err)
	}
	return &ConcurrentCache[K, V]{lru: lru}
}

// GetOrPut returns the cached value for k, or runs compute to produce
// it. A failed compute is not cached; a later call for the same key
// retries.
func (c *ConcurrentCache[K, V]) GetOrPut(k K, compute func() (V, error)) (V, error) {
	c.mu.Lock()
	if v, ok := c.lru.Get(k); ok {
		c.mu.Unlock()
		return v, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(fmt.Sprint(k), func() (interface{}, error) {
		// A previous flight may have populated the cache between our
		// miss and joining this flight.
		c.mu.Lock()
		if v, ok := c.lru.Get(k); ok {
			c.mu.Unlock()
			return v, nil
		}
		c.mu.Unlock()

		v, err := compute()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.lru.Add(k, v)
		c.mu.Unlock()
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}

// Len returns the number of cached values.
func (c *ConcurrentCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
