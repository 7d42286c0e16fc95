// Copyright 2026 The libzim-go Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package zim

import (
	"os"
	"strconv"

	"github.com/hashworks/libzim/internal/base"
)

// Cache sizing defaults, overridable per archive via Options or
// process-wide via environment variables.
const (
	defaultDirentCacheSize  = 512
	defaultClusterCacheSize = 16
)

// Options tunes an opened archive. The zero value is a valid
// configuration; unset fields pick up their environment override or
// default. All knobs are read once at open time and frozen into the
// File.
type Options struct {
	// DirentCacheSize bounds the directory-entry LRU. Defaults to the
	// ZIM_DIRENTCACHE environment variable, or 512.
	DirentCacheSize int

	// ClusterCacheSize bounds the cluster cache. Defaults to the
	// ZIM_CLUSTERCACHE environment variable, or 16.
	ClusterCacheSize int

	// CacheUncompressedClusters also caches clusters stored without
	// compression. Those are cheap re-reads of the file, so by default
	// they bypass the cache; set this (or ZIM_CACHEUNCOMPRESSEDCLUSTER)
	// to keep them resident. A false value cannot be told apart from
	// unset, so the environment variable applies whenever this is false.
	CacheUncompressedClusters bool

	// DisableMmap forces pread-and-copy buffers even where memory
	// mapping is available.
	DisableMmap bool

	// BufferPointerTables materializes the URL, title and cluster
	// pointer tables into memory at open time instead of reading them
	// through the file on every lookup.
	BufferPointerTables bool

	// Logger receives open-path diagnostics. Defaults to the stdlib
	// log package.
	Logger Logger
}

// EnsureDefaults fills unset fields from the environment and the
// built-in defaults. It returns the receiver, or a fresh Options when
// called on nil.
func (o *Options) EnsureDefaults() *Options {
	if o == nil {
		o = &Options{}
	}
	if o.DirentCacheSize <= 0 {
		o.DirentCacheSize = envInt("ZIM_DIRENTCACHE", defaultDirentCacheSize)
	}
	if o.ClusterCacheSize <= 0 {
		o.ClusterCacheSize = envInt("ZIM_CLUSTERCACHE", defaultClusterCacheSize)
	}
	if !o.CacheUncompressedClusters {
		o.CacheUncompressedClusters = envBool("ZIM_CACHEUNCOMPRESSEDCLUSTER", false)
	}
	if o.Logger == nil {
		o.Logger = base.DefaultLogger{}
	}
	return o
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			return v
		}
	}
	return def
}

func envBool(name string, def bool) bool {
	if s := os.Getenv(name); s != "" {
		if v, err := strconv.ParseBool(s); err == nil {
			return v
		}
	}
	return def
}
