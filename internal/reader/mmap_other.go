// Copyright 2026 The libzim-go Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

//go:build !unix

package reader

import (
	"os"

	"github.com/cockroachdb/errors"
)

const mmapSupported = false

type mmapRegion struct{}

func newMmapBuffer(f *os.File, offset, size uint64) (*Buffer, error) {
	return nil, errors.New("zim: mmap not supported on this platform")
}
