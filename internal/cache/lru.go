// Copyright 2026 The libzim-go Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Package cache provides the two caches of the read path: a bounded LRU
// for directory entries and a miss-coalescing cache for clusters.
package cache

import (
	"sync"
	"sync/atomic"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// LRU is a bounded least-recently-used map guarded by a single mutex.
// Hits refresh recency under the same mutex.
type LRU[K comparable, V any] struct {
	mu       sync.Mutex
	lru      *simplelru.LRU[K, V]
	capacity int

	hits   atomic.Int64
	misses atomic.Int64
	fills  atomic.Int64
}

// NewLRU returns an LRU holding at most capacity entries. A capacity
// below one is clamped to one.
func NewLRU[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	lru, err := simplelru.NewLRU[K, V](capacity, nil)
	if err != nil {
		panic(err)
	}
	return &LRU[K, V]{lru: lru, capacity: capacity}
}

// Get returns the cached value for k, refreshing its recency.
func (c *LRU[K, V]) Get(k K) (V, bool) {
	c.mu.Lock()
	v, ok := c.lru.Get(k)
	c.mu.Unlock()
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// Put inserts k, evicting the least-recently-used entry when the cache
// is full.
func (c *LRU[K, V]) Put(k K, v V) {
	c.mu.Lock()
	c.lru.Add(k, v)
	c.mu.Unlock()
	c.fills.Add(1)
}

// Hits returns the number of Get calls that found their key.
func (c *LRU[K, V]) Hits() int64 { return c.hits.Load() }

// Misses returns the number of Get calls that did not find their key.
func (c *LRU[K, V]) Misses() int64 { return c.misses.Load() }

// Fills returns the number of Put calls.
func (c *LRU[K, V]) Fills() int64 { return c.fills.Load() }

// HitRatio returns hits / (hits + misses), or zero before any access.
func (c *LRU[K, V]) HitRatio() float64 {
	h, m := c.hits.Load(), c.misses.Load()
	if h+m == 0 {
		return 0
	}
	return float64(h) / float64(h+m)
}

// FillFactor returns the occupied fraction of the capacity.
func (c *LRU[K, V]) FillFactor() float64 {
	c.mu.Lock()
	n := c.lru.Len()
	c.mu.Unlock()
	return float64(n) / float64(c.capacity)
}
