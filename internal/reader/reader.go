// Copyright 2026 The libzim-go Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package reader

import "encoding/binary"

// Reader is random access over a byte range of known size. All offsets
// are relative to the start of the range.
type Reader interface {
	// Size returns the length of the readable range in bytes.
	Size() uint64
	// Read fills p from [offset, offset+len(p)). A short read is an
	// error.
	Read(p []byte, offset uint64) error
	// GetBuffer returns [offset, offset+size) as a Buffer. The result
	// is zero-copy where the implementation allows it (a sub-view of
	// an in-memory buffer, or an mmap of a single file part).
	GetBuffer(offset, size uint64) (*Buffer, error)
	// SubReader derives a cheap view over [offset, offset+size). No
	// data is read eagerly.
	SubReader(offset, size uint64) (Reader, error)
	// CanRead reports whether [offset, offset+size) lies inside the
	// readable range.
	CanRead(offset, size uint64) bool
}

// Uint16 reads a little-endian uint16 at offset.
func Uint16(r Reader, offset uint64) (uint16, error) {
	var buf [2]byte
	if err := r.Read(buf[:], offset); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf[:]), nil
}

// Uint32 reads a little-endian uint32 at offset.
func Uint32(r Reader, offset uint64) (uint32, error) {
	var buf [4]byte
	if err := r.Read(buf[:], offset); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// Uint64 reads a little-endian uint64 at offset.
func Uint64(r Reader, offset uint64) (uint64, error) {
	var buf [8]byte
	if err := r.Read(buf[:], offset); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}
