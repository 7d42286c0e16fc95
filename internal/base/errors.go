// Copyright 2026 The libzim-go Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package base

import "github.com/cockroachdb/errors"

// ErrFileFormat marks any structural violation of the archive: a bad
// header, an offset pointing outside the file, a truncated mime list, a
// cluster offset past EOF or an invalid compression flag.
var ErrFileFormat = errors.New("zim: invalid file format")

// ErrUnsupportedCompression is returned for clusters whose compression
// nibble is syntactically valid but not decodable by this library
// (bzip2). An unknown nibble is an ErrFileFormat.
var ErrUnsupportedCompression = errors.New("zim: unsupported compression")

// ErrOutOfRange is returned when an index argument is beyond the counts
// declared by the archive, or a read extends past the logical file.
var ErrOutOfRange = errors.New("zim: out of range")

// ErrMalformedDirent is returned when a directory record is structurally
// invalid.
var ErrMalformedDirent = errors.New("zim: malformed dirent")

// ErrTruncatedStream is returned when a decompressor reaches the end of
// its stream before producing the requested number of bytes.
var ErrTruncatedStream = errors.New("zim: truncated stream")

// ErrInvalidOperation is returned for queries that are undefined on the
// receiver, e.g. asking a compressed cluster for a file-absolute blob
// offset.
var ErrInvalidOperation = errors.New("zim: invalid operation")

// ErrInsufficientBuffer signals that a variable-length record extends
// past the end of the buffer it is being parsed from. It drives the
// dirent scratch-buffer growth loop and never escapes a public
// operation.
var ErrInsufficientBuffer = errors.New("zim: insufficient buffer")

// FileFormatErrorf formats an error and marks it as an ErrFileFormat.
func FileFormatErrorf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrFileFormat)
}

// MarkFileFormatError wraps an existing error (e.g. an IO error produced
// while following a corrupt offset) so that it also reports as an
// ErrFileFormat.
func MarkFileFormatError(err error) error {
	if err == nil {
		return nil
	}
	return errors.Mark(err, ErrFileFormat)
}
