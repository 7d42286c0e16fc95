// Copyright 2026 The libzim-go Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Package compression decodes the cluster compression algorithms of the
// archive format. Each algorithm is adapted behind a uniform streaming
// constructor; callers drive the decode through DecodedStream.
package compression

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/hashworks/libzim/internal/base"
)

// Type is the low nibble of a cluster's info byte.
type Type uint8

// Compression type values are part of the file format.
const (
	None    Type = 0
	Default Type = 1
	Zip     Type = 2
	Bzip2   Type = 3
	LZMA    Type = 4
	Zstd    Type = 5
)

// String implements fmt.Stringer.
func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case Default:
		return "default"
	case Zip:
		return "zip"
	case Bzip2:
		return "bzip2"
	case LZMA:
		return "lzma"
	case Zstd:
		return "zstd"
	}
	return "unknown"
}

// IsCompressed reports whether clusters of this type carry a compressed
// stream. None and Default are stored as plain byte ranges.
func (t Type) IsCompressed() bool {
	return t != None && t != Default
}

// NewDecoder returns a streaming decoder for t reading compressed bytes
// from src. Bzip2 is recognised but rejected with
// ErrUnsupportedCompression; values outside the known set are a file
// format error.
func NewDecoder(t Type, src io.Reader) (io.ReadCloser, error) {
	switch t {
	case LZMA:
		return newXZDecoder(src)
	case Zstd:
		return newZstdDecoder(src)
	case Zip:
		return newZlibDecoder(src)
	case Bzip2:
		return nil, errors.Wrapf(base.ErrUnsupportedCompression, "zim: bzip2 clusters are not supported")
	default:
		return nil, base.FileFormatErrorf("zim: invalid compression flag %d", uint8(t))
	}
}
