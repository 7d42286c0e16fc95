// Copyright 2026 The libzim-go Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package zim

import (
	"crypto/md5"
	"encoding/hex"
	"io"
)

// Checksum returns the archive's stored MD5 checksum as a hex string,
// or the empty string when the archive has none or the checksum bytes
// cannot be read.
func (f *File) Checksum() string {
	if !f.header.HasChecksum() {
		return ""
	}
	var sum [16]byte
	if err := f.reader.Read(sum[:], f.header.ChecksumPos); err != nil {
		return ""
	}
	return hex.EncodeToString(sum[:])
}

// Verify recomputes the MD5 over every archive byte before the checksum
// position, streaming the physical parts in order, and compares it with
// the stored checksum. It returns false when the archive carries no
// checksum, the checksum position cannot be reached, or the digests
// differ.
func (f *File) Verify() bool {
	if !f.header.HasChecksum() {
		return false
	}
	h := md5.New()
	var current uint64
	checksumPos := f.header.ChecksumPos
	for _, part := range f.compound.Parts() {
		if current == checksumPos {
			break
		}
		want := checksumPos - current
		if want > part.Size {
			want = part.Size
		}
		n, err := io.Copy(h, io.NewSectionReader(part.File, 0, int64(want)))
		if err != nil {
			return false
		}
		current += uint64(n)
		if uint64(n) < want {
			return false
		}
	}
	if current != checksumPos {
		return false
	}
	var stored [16]byte
	if err := f.reader.Read(stored[:], checksumPos); err != nil {
		return false
	}
	var computed [16]byte
	h.Sum(computed[:0])
	return stored == computed
}
