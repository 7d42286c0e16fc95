// Copyright 2026 The libzim-go Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package zim

import "github.com/hashworks/libzim/internal/reader"

// Blob is the raw byte payload of a single entry inside a cluster. The
// zero value is an empty blob.
type Blob struct {
	buf *reader.Buffer
}

// Data returns the blob bytes. The slice is a view into the cluster's
// backing store (a file mapping, bytes read from the file, or decoded
// memory) and stays valid
// while the Blob is reachable; callers must not mutate it.
func (b Blob) Data() []byte {
	if b.buf == nil {
		return nil
	}
	return b.buf.Data()
}

// Size returns the blob length in bytes.
func (b Blob) Size() uint64 {
	if b.buf == nil {
		return 0
	}
	return b.buf.Size()
}
