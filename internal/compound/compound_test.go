// Copyright 2026 The libzim-go Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package compound

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/hashworks/libzim/internal/base"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestOpenSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.zim")
	writeFile(t, path, []byte("hello world"))

	c, err := Open(path)
	require.NoError(t, err)
	defer c.Close()

	require.Equal(t, uint64(11), c.Size())
	require.False(t, c.IsMultiPart())
	require.Len(t, c.Parts(), 1)
}

func TestOpenMultiPart(t *testing.T) {
	dir := t.TempDir()
	stem := filepath.Join(dir, "test.zim")
	writeFile(t, stem+"aa", []byte("hello "))
	writeFile(t, stem+"ab", []byte("multi-"))
	writeFile(t, stem+"ac", []byte("part"))
	// A gap in the suffix run ends the compound.
	writeFile(t, stem+"ae", []byte("orphan"))

	c, err := Open(stem)
	require.NoError(t, err)
	defer c.Close()

	require.True(t, c.IsMultiPart())
	require.Len(t, c.Parts(), 3)
	require.Equal(t, uint64(16), c.Size())

	got := make([]byte, 16)
	require.NoError(t, c.ReadAt(got, 0))
	require.Equal(t, "hello multi-part", string(got))
}

func TestOpenMissing(t *testing.T) {
	dir := t.TempDir()
	_, err := Open(filepath.Join(dir, "nope.zim"))
	require.Error(t, err)
}

func TestLocate(t *testing.T) {
	dir := t.TempDir()
	stem := filepath.Join(dir, "test.zim")
	writeFile(t, stem+"aa", []byte("0123456789"))
	writeFile(t, stem+"ab", []byte("abcdefghij"))

	c, err := Open(stem)
	require.NoError(t, err)
	defer c.Close()

	// Entirely within the first part.
	ranges, err := c.Locate(2, 5)
	require.NoError(t, err)
	require.Len(t, ranges, 1)
	require.Equal(t, uint64(2), ranges[0].Offset)
	require.Equal(t, uint64(5), ranges[0].Length)

	// Straddling the part boundary.
	ranges, err = c.Locate(8, 4)
	require.NoError(t, err)
	require.Len(t, ranges, 2)
	require.Equal(t, uint64(8), ranges[0].Offset)
	require.Equal(t, uint64(2), ranges[0].Length)
	require.Equal(t, uint64(0), ranges[1].Offset)
	require.Equal(t, uint64(2), ranges[1].Length)

	// Past the end.
	_, err = c.Locate(15, 10)
	require.True(t, errors.Is(err, base.ErrOutOfRange))
}

func TestReadAtAcrossParts(t *testing.T) {
	dir := t.TempDir()
	stem := filepath.Join(dir, "test.zim")
	writeFile(t, stem+"aa", []byte("0123456789"))
	writeFile(t, stem+"ab", []byte("abcdefghij"))

	c, err := Open(stem)
	require.NoError(t, err)
	defer c.Close()

	got := make([]byte, 6)
	require.NoError(t, c.ReadAt(got, 7))
	require.Equal(t, "789abc", string(got))

	require.Error(t, c.ReadAt(make([]byte, 3), 19))
}
