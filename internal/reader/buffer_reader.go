// Copyright 2026 The libzim-go Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package reader

import (
	"github.com/cockroachdb/errors"
	"github.com/hashworks/libzim/internal/base"
)

// BufferReader reads from an in-memory Buffer. All derived buffers and
// readers share the buffer's backing store.
type BufferReader struct {
	buf *Buffer
}

var _ Reader = (*BufferReader)(nil)

// NewBufferReader wraps buf.
func NewBufferReader(buf *Buffer) *BufferReader {
	return &BufferReader{buf: buf}
}

// Size implements Reader.
func (r *BufferReader) Size() uint64 { return r.buf.Size() }

// CanRead implements Reader.
func (r *BufferReader) CanRead(offset, size uint64) bool {
	return offset+size >= offset && offset+size <= r.buf.Size()
}

// Read implements Reader.
func (r *BufferReader) Read(p []byte, offset uint64) error {
	if !r.CanRead(offset, uint64(len(p))) {
		return errors.Wrapf(base.ErrOutOfRange,
			"zim: read of %d bytes at offset %d in buffer of size %d", len(p), offset, r.buf.Size())
	}
	copy(p, r.buf.data[offset:])
	return nil
}

// GetBuffer implements Reader. The result is always a zero-copy
// sub-view.
func (r *BufferReader) GetBuffer(offset, size uint64) (*Buffer, error) {
	return r.buf.SubBuffer(offset, size)
}

// SubReader implements Reader.
func (r *BufferReader) SubReader(offset, size uint64) (Reader, error) {
	sub, err := r.buf.SubBuffer(offset, size)
	if err != nil {
		return nil, err
	}
	return &BufferReader{buf: sub}, nil
}
