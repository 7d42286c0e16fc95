// Copyright 2026 The libzim-go Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package compression

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/ulikunitz/xz"
)

// The format's lzma clusters are xz container streams (LZMA2), matching
// what lzma_stream_decoder accepts.

type xzDecoder struct {
	r *xz.Reader
}

func newXZDecoder(src io.Reader) (io.ReadCloser, error) {
	r, err := xz.NewReader(src)
	if err != nil {
		return nil, errors.Wrap(err, "zim: cannot initialize xz decoder")
	}
	return &xzDecoder{r: r}, nil
}

func (d *xzDecoder) Read(p []byte) (int, error) { return d.r.Read(p) }

func (d *xzDecoder) Close() error { return nil }
