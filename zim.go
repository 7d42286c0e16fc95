// Copyright 2026 The libzim-go Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Package zim reads ZIM archives: self-contained files packaging a
// static web-like corpus of articles, media and indices, optionally
// split across multiple physical parts.
//
// A File is safe for concurrent use by multiple goroutines. Entries are
// located by (namespace, url) or by title through binary searches over
// the archive's sorted pointer tables; entry content is grouped into
// optionally compressed clusters that are decoded on demand and cached.
package zim

import (
	"github.com/hashworks/libzim/internal/base"
)

// Strongly-typed index families. All are dense, 0-based and monotonic;
// the distinct types keep entry, title, cluster and blob indices from
// being mixed up.
type (
	// EntryIndex addresses a directory entry in URL order.
	EntryIndex uint32
	// TitleIndex addresses a directory entry in title order.
	TitleIndex uint32
	// ClusterIndex addresses a cluster.
	ClusterIndex uint32
	// BlobIndex addresses a blob within a cluster.
	BlobIndex uint32
)

// Error sentinels of the read path. Match with errors.Is; errors raised
// by the read path itself wrap one or more of these (a file format error
// can also carry ErrOutOfRange). Plain IO errors and errors reported by
// the decompression libraries propagate as produced.
var (
	// ErrFileFormat marks structural violations of the archive.
	ErrFileFormat = base.ErrFileFormat
	// ErrUnsupportedCompression is returned for bzip2 clusters, whose
	// flag is recognised but not decoded. Unknown compression flags are
	// an ErrFileFormat.
	ErrUnsupportedCompression = base.ErrUnsupportedCompression
	// ErrOutOfRange is returned for index arguments beyond the counts
	// declared by the archive.
	ErrOutOfRange = base.ErrOutOfRange
	// ErrMalformedDirent is returned for structurally invalid directory
	// records.
	ErrMalformedDirent = base.ErrMalformedDirent
	// ErrTruncatedStream is returned when a cluster's compressed stream
	// ends before the requested bytes were produced.
	ErrTruncatedStream = base.ErrTruncatedStream
	// ErrInvalidOperation is returned for queries undefined on the
	// receiver, such as the file offset of a blob in a compressed
	// cluster.
	ErrInvalidOperation = base.ErrInvalidOperation
)

// Logger is re-exported so callers can supply their own sink via
// Options.
type Logger = base.Logger
