// Copyright 2026 The libzim-go Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package compression

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/zlib"
)

func newZlibDecoder(src io.Reader) (io.ReadCloser, error) {
	r, err := zlib.NewReader(src)
	if err != nil {
		return nil, errors.Wrap(err, "zim: cannot initialize zlib decoder")
	}
	return r, nil
}
