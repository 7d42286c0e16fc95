// Copyright 2026 The libzim-go Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package zim

import (
	"github.com/cockroachdb/errors"
	"github.com/hashworks/libzim/internal/base"
)

func errOutOfRangef(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf("zim: "+format, args...), base.ErrOutOfRange)
}
