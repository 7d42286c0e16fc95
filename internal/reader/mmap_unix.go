// Copyright 2026 The libzim-go Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

//go:build unix

package reader

import (
	"math"
	"os"
	"runtime"

	"github.com/cockroachdb/errors"
	"golang.org/x/sys/unix"
)

// mmapSupported reports whether file-backed buffers can be memory
// mapped on this platform.
const mmapSupported = true

// mmapRegion owns one mapping. The finalizer releases it once no Buffer
// references the region anymore.
type mmapRegion struct {
	mapping []byte
}

func (r *mmapRegion) release() {
	if r.mapping != nil {
		_ = unix.Munmap(r.mapping)
		r.mapping = nil
	}
}

// newMmapBuffer maps [offset, offset+size) of f. The offset is
// page-aligned down and the slack is hidden from the returned Buffer.
// On 32-bit systems offsets beyond the address space fail, letting the
// caller fall back to pread.
func newMmapBuffer(f *os.File, offset, size uint64) (*Buffer, error) {
	pageSize := uint64(os.Getpagesize())
	paOffset := offset &^ (pageSize - 1)
	slack := offset - paOffset
	length := size + slack
	if paOffset > math.MaxInt64 || length > uint64(math.MaxInt) {
		return nil, errors.Newf("zim: mmap range [%d, %d) not addressable", offset, offset+size)
	}
	mapping, err := unix.Mmap(int(f.Fd()), int64(paOffset), int(length), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, errors.Wrapf(err, "zim: cannot mmap %d bytes at offset %d", size, offset)
	}
	region := &mmapRegion{mapping: mapping}
	runtime.SetFinalizer(region, (*mmapRegion).release)
	return &Buffer{data: mapping[slack : slack+size : slack+size], region: region}, nil
}
