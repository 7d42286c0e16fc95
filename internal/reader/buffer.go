// Copyright 2026 The libzim-go Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Package reader provides random access over archive bytes: an abstract
// Reader, immutable Buffers with shared ownership, and concrete readers
// over a file compound or an in-memory buffer.
package reader

import (
	"github.com/cockroachdb/errors"
	"github.com/hashworks/libzim/internal/base"
)

// Buffer is an immutable byte span. A sub-buffer shares the backing
// store with its parent: for memory-mapped buffers the mapping stays
// alive until the last buffer referencing it is collected.
type Buffer struct {
	data []byte
	// region pins a memory mapping. A sub-buffer copies this pointer so
	// the mapping outlives the parent. Nil for heap-backed buffers,
	// where the data slice itself keeps the array reachable.
	region *mmapRegion
}

// NewBuffer wraps an in-memory byte slice. The caller must not mutate
// the slice afterwards.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{data: data}
}

// Data returns the underlying bytes. The slice is valid only while the
// Buffer (or a descendant of it) is reachable.
func (b *Buffer) Data() []byte { return b.data }

// Size returns the length of the buffer in bytes.
func (b *Buffer) Size() uint64 { return uint64(len(b.data)) }

// SubBuffer derives a view over [offset, offset+size) sharing ownership
// of the backing store with b.
func (b *Buffer) SubBuffer(offset, size uint64) (*Buffer, error) {
	if offset+size < offset || offset+size > uint64(len(b.data)) {
		return nil, errors.Wrapf(base.ErrOutOfRange,
			"zim: sub-buffer [%d, %d) of buffer of size %d", offset, offset+size, len(b.data))
	}
	return &Buffer{data: b.data[offset : offset+size : offset+size], region: b.region}, nil
}
