// Copyright 2026 The libzim-go Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package reader

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/hashworks/libzim/internal/base"
	"github.com/hashworks/libzim/internal/compound"
	"github.com/stretchr/testify/require"
)

func TestBufferSubBuffer(t *testing.T) {
	b := NewBuffer([]byte("0123456789"))
	require.Equal(t, uint64(10), b.Size())

	sub, err := b.SubBuffer(2, 5)
	require.NoError(t, err)
	require.Equal(t, "23456", string(sub.Data()))

	subsub, err := sub.SubBuffer(1, 2)
	require.NoError(t, err)
	require.Equal(t, "34", string(subsub.Data()))

	_, err = b.SubBuffer(8, 5)
	require.True(t, errors.Is(err, base.ErrOutOfRange))

	// A sub-view aliases the parent's bytes.
	require.Same(t, &b.Data()[2], &sub.Data()[0])
}

func newTestCompound(t *testing.T, parts ...[]byte) *compound.FileCompound {
	t.Helper()
	dir := t.TempDir()
	stem := filepath.Join(dir, "test.zim")
	if len(parts) == 1 {
		require.NoError(t, os.WriteFile(stem, parts[0], 0o644))
	} else {
		for i, p := range parts {
			suffix := string([]byte{'a', byte('a' + i)})
			require.NoError(t, os.WriteFile(stem+suffix, p, 0o644))
		}
	}
	c, err := compound.Open(stem)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestFileReaderRead(t *testing.T) {
	c := newTestCompound(t, []byte("0123456789"))
	r := NewFileReader(c, false)

	require.Equal(t, uint64(10), r.Size())
	require.True(t, r.CanRead(0, 10))
	require.False(t, r.CanRead(5, 6))

	got := make([]byte, 4)
	require.NoError(t, r.Read(got, 3))
	require.Equal(t, "3456", string(got))

	err := r.Read(got, 8)
	require.True(t, errors.Is(err, base.ErrOutOfRange))
}

func TestFileReaderUints(t *testing.T) {
	data := make([]byte, 14)
	binary.LittleEndian.PutUint16(data[0:], 0xBEEF)
	binary.LittleEndian.PutUint32(data[2:], 0xDEADBEEF)
	binary.LittleEndian.PutUint64(data[6:], 0x0102030405060708)
	c := newTestCompound(t, data)
	r := NewFileReader(c, false)

	v16, err := Uint16(r, 0)
	require.NoError(t, err)
	require.Equal(t, uint16(0xBEEF), v16)

	v32, err := Uint32(r, 2)
	require.NoError(t, err)
	require.Equal(t, uint32(0xDEADBEEF), v32)

	v64, err := Uint64(r, 6)
	require.NoError(t, err)
	require.Equal(t, uint64(0x0102030405060708), v64)
}

func TestFileReaderSubReader(t *testing.T) {
	c := newTestCompound(t, []byte("0123456789"))
	r := NewFileReader(c, false)

	sub, err := r.SubReader(2, 6)
	require.NoError(t, err)
	require.Equal(t, uint64(6), sub.Size())

	got := make([]byte, 3)
	require.NoError(t, sub.Read(got, 1))
	require.Equal(t, "345", string(got))

	subsub, err := sub.SubReader(2, 4)
	require.NoError(t, err)
	require.NoError(t, subsub.Read(got, 0))
	require.Equal(t, "456", string(got))

	_, err = sub.SubReader(4, 4)
	require.True(t, errors.Is(err, base.ErrOutOfRange))
}

func TestFileReaderGetBufferAcrossParts(t *testing.T) {
	c := newTestCompound(t, []byte("01234"), []byte("56789"))
	for _, mmap := range []bool{false, true} {
		r := NewFileReader(c, mmap)
		buf, err := r.GetBuffer(3, 4)
		require.NoError(t, err)
		require.Equal(t, "3456", string(buf.Data()))
	}
}

func TestFileReaderGetBufferMmap(t *testing.T) {
	if !mmapSupported {
		t.Skip("mmap not supported on this platform")
	}
	c := newTestCompound(t, []byte("0123456789"))
	r := NewFileReader(c, true)
	buf, err := r.GetBuffer(2, 6)
	require.NoError(t, err)
	require.NotNil(t, buf.region)
	require.Equal(t, "234567", string(buf.Data()))

	sub, err := buf.SubBuffer(1, 3)
	require.NoError(t, err)
	require.Equal(t, "345", string(sub.Data()))
	require.Same(t, buf.region, sub.region)
}

func TestBufferReader(t *testing.T) {
	r := NewBufferReader(NewBuffer([]byte("0123456789")))

	require.Equal(t, uint64(10), r.Size())

	got := make([]byte, 4)
	require.NoError(t, r.Read(got, 6))
	require.Equal(t, "6789", string(got))

	buf, err := r.GetBuffer(1, 3)
	require.NoError(t, err)
	require.Equal(t, "123", string(buf.Data()))

	sub, err := r.SubReader(4, 4)
	require.NoError(t, err)
	v, err := Uint16(sub, 0)
	require.NoError(t, err)
	require.Equal(t, uint16('5')<<8|uint16('4'), v)

	err = r.Read(make([]byte, 2), 9)
	require.True(t, errors.Is(err, base.ErrOutOfRange))
}
