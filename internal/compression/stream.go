// Copyright 2026 The libzim-go Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package compression

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/hashworks/libzim/internal/base"
	"github.com/hashworks/libzim/internal/reader"
)

// inputChunkSize is how many compressed bytes are handed to a decoder
// per refill.
const inputChunkSize = 1024

// chunkedSource adapts a random-access Reader window to the sequential
// io.Reader the decoders consume, refilling at most inputChunkSize
// bytes at a time.
type chunkedSource struct {
	r         reader.Reader
	offset    uint64
	remaining uint64
}

func (s *chunkedSource) Read(p []byte) (int, error) {
	if s.remaining == 0 {
		return 0, io.EOF
	}
	n := uint64(len(p))
	if n > inputChunkSize {
		n = inputChunkSize
	}
	if n > s.remaining {
		n = s.remaining
	}
	if err := s.r.Read(p[:n], s.offset); err != nil {
		return 0, err
	}
	s.offset += n
	s.remaining -= n
	return int(n), nil
}

// DecodedStream reads decompressed bytes sequentially out of a
// compressed region of the archive.
type DecodedStream struct {
	dec io.ReadCloser
}

// NewDecodedStream starts decoding the compressed stream occupying
// [offset, offset+size) of src.
func NewDecodedStream(t Type, src reader.Reader, offset, size uint64) (*DecodedStream, error) {
	dec, err := NewDecoder(t, &chunkedSource{r: src, offset: offset, remaining: size})
	if err != nil {
		return nil, err
	}
	return &DecodedStream{dec: dec}, nil
}

// ReadFull fills p from the decoded stream. End of stream before len(p)
// bytes were produced is an ErrTruncatedStream.
func (s *DecodedStream) ReadFull(p []byte) error {
	if _, err := io.ReadFull(s.dec, p); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return errors.Wrapf(base.ErrTruncatedStream,
				"zim: decoded stream ended before %d requested bytes", len(p))
		}
		return err
	}
	return nil
}

// ReadUint reads a little-endian unsigned integer of the given byte
// width (4 or 8) from the decoded stream.
func (s *DecodedStream) ReadUint(width int) (uint64, error) {
	var buf [8]byte
	if err := s.ReadFull(buf[:width]); err != nil {
		return 0, err
	}
	var v uint64
	for i := width - 1; i >= 0; i-- {
		v = v<<8 | uint64(buf[i])
	}
	return v, nil
}

// Close releases the decoder.
func (s *DecodedStream) Close() error { return s.dec.Close() }
