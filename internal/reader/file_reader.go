// Copyright 2026 The libzim-go Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package reader

import (
	"github.com/cockroachdb/errors"
	"github.com/hashworks/libzim/internal/base"
	"github.com/hashworks/libzim/internal/compound"
)

// FileReader reads a byte range of a FileCompound. Sub-readers share
// the compound and only adjust the window.
type FileReader struct {
	compound *compound.FileCompound
	offset   uint64
	size     uint64
	mmap     bool
}

var _ Reader = (*FileReader)(nil)

// NewFileReader returns a reader over the whole compound. useMmap
// enables memory-mapped GetBuffer on platforms that support it.
func NewFileReader(c *compound.FileCompound, useMmap bool) *FileReader {
	return &FileReader{compound: c, size: c.Size(), mmap: useMmap && mmapSupported}
}

// Size implements Reader.
func (r *FileReader) Size() uint64 { return r.size }

// Offset returns the window start relative to the compound, i.e. the
// file-absolute position of the reader's offset 0.
func (r *FileReader) Offset() uint64 { return r.offset }

// CanRead implements Reader.
func (r *FileReader) CanRead(offset, size uint64) bool {
	return offset+size >= offset && offset+size <= r.size
}

// Read implements Reader.
func (r *FileReader) Read(p []byte, offset uint64) error {
	if !r.CanRead(offset, uint64(len(p))) {
		return errors.Wrapf(base.ErrOutOfRange,
			"zim: read of %d bytes at offset %d in reader of size %d", len(p), offset, r.size)
	}
	return r.compound.ReadAt(p, r.offset+offset)
}

// GetBuffer implements Reader. When the range lies inside a single part
// and mmap is enabled, the returned buffer is a zero-copy view of the
// mapped file; otherwise the bytes are read into memory.
func (r *FileReader) GetBuffer(offset, size uint64) (*Buffer, error) {
	if !r.CanRead(offset, size) {
		return nil, errors.Wrapf(base.ErrOutOfRange,
			"zim: buffer of %d bytes at offset %d in reader of size %d", size, offset, r.size)
	}
	if r.mmap && size > 0 {
		ranges, err := r.compound.Locate(r.offset+offset, size)
		if err != nil {
			return nil, err
		}
		if len(ranges) == 1 {
			if b, err := newMmapBuffer(ranges[0].Part.File, ranges[0].Offset, size); err == nil {
				return b, nil
			}
			// Fall through to pread; mmap can legitimately fail, e.g.
			// for offsets beyond the address space of 32-bit systems.
		}
	}
	data := make([]byte, size)
	if err := r.compound.ReadAt(data, r.offset+offset); err != nil {
		return nil, err
	}
	return NewBuffer(data), nil
}

// SubReader implements Reader.
func (r *FileReader) SubReader(offset, size uint64) (Reader, error) {
	if !r.CanRead(offset, size) {
		return nil, errors.Wrapf(base.ErrOutOfRange,
			"zim: sub-reader [%d, %d) of reader of size %d", offset, offset+size, r.size)
	}
	return &FileReader{
		compound: r.compound,
		offset:   r.offset + offset,
		size:     size,
		mmap:     r.mmap,
	}, nil
}
