// Copyright 2026 The libzim-go Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package compression

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/zstd"
)

type zstdDecoder struct {
	d *zstd.Decoder
}

func newZstdDecoder(src io.Reader) (io.ReadCloser, error) {
	d, err := zstd.NewReader(src, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, errors.Wrap(err, "zim: cannot initialize zstd decoder")
	}
	return &zstdDecoder{d: d}, nil
}

func (d *zstdDecoder) Read(p []byte) (int, error) { return d.d.Read(p) }

func (d *zstdDecoder) Close() error {
	d.d.Close()
	return nil
}
