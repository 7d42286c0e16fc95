// Copyright 2026 The libzim-go Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package zim

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/hashworks/libzim/internal/base"
	"github.com/stretchr/testify/require"
)

func TestParseDirentArticle(t *testing.T) {
	raw := encodeTestDirent(testEntry{
		ns: 'A', url: "url", title: "Title", mime: 3, cluster: 7, blob: 9,
	})
	d, err := parseDirent(raw)
	require.NoError(t, err)
	require.True(t, d.IsArticle())
	require.Equal(t, uint16(3), d.MimeType())
	require.Equal(t, byte('A'), d.Namespace())
	require.Equal(t, ClusterIndex(7), d.ClusterNumber())
	require.Equal(t, BlobIndex(9), d.BlobNumber())
	require.Equal(t, "url", d.URL())
	require.Equal(t, "Title", d.Title())
	require.Equal(t, uint64(len(raw)), d.Size())
}

func TestParseDirentRedirect(t *testing.T) {
	raw := encodeTestDirent(testEntry{
		ns: 'A', url: "from", title: "From", mime: RedirectMimeType, redirect: 42,
	})
	d, err := parseDirent(raw)
	require.NoError(t, err)
	require.True(t, d.IsRedirect())
	require.False(t, d.IsArticle())
	require.Equal(t, EntryIndex(42), d.RedirectIndex())
	require.Equal(t, uint64(len(raw)), d.Size())
}

func TestParseDirentLinktargetAndDeleted(t *testing.T) {
	for _, mime := range []uint16{LinktargetMimeType, DeletedMimeType} {
		raw := encodeTestDirent(testEntry{ns: 'X', url: "u", mime: mime})
		d, err := parseDirent(raw)
		require.NoError(t, err)
		require.False(t, d.IsArticle())
		require.Equal(t, mime == LinktargetMimeType, d.IsLinktarget())
		require.Equal(t, mime == DeletedMimeType, d.IsDeleted())
		require.Equal(t, uint64(len(raw)), d.Size())
	}
}

func TestParseDirentTitleAlias(t *testing.T) {
	raw := encodeTestDirent(testEntry{ns: 'A', url: "shared", title: ""})
	d, err := parseDirent(raw)
	require.NoError(t, err)
	require.Equal(t, "shared", d.URL())
	require.Equal(t, "shared", d.Title())
}

func TestParseDirentParameter(t *testing.T) {
	raw := encodeTestDirent(testEntry{ns: 'A', url: "u", title: "T"})
	raw[2] = 3 // parameter length
	raw = append(raw, 0xAA, 0xBB, 0xCC)
	d, err := parseDirent(raw)
	require.NoError(t, err)
	require.Equal(t, []byte{0xAA, 0xBB, 0xCC}, d.Parameter())
	require.Equal(t, uint64(len(raw)), d.Size())

	// Missing parameter bytes are an insufficient buffer, not a parse
	// failure.
	_, err = parseDirent(raw[:len(raw)-1])
	require.True(t, errors.Is(err, base.ErrInsufficientBuffer))
}

func TestParseDirentInsufficientBuffer(t *testing.T) {
	raw := encodeTestDirent(testEntry{
		ns: 'A', url: "some/long/url", title: "Some title", cluster: 1, blob: 2,
	})
	// Every strict prefix must signal insufficiency, never succeed and
	// never report a different failure.
	for n := 0; n < len(raw); n++ {
		_, err := parseDirent(raw[:n])
		require.True(t, errors.Is(err, base.ErrInsufficientBuffer), "prefix %d: %v", n, err)
	}
	_, err := parseDirent(raw)
	require.NoError(t, err)
}

func TestParseDirentChaining(t *testing.T) {
	first := encodeTestDirent(testEntry{ns: 'A', url: "one", title: "One", cluster: 0, blob: 0})
	second := encodeTestDirent(testEntry{ns: 'A', url: "two", title: "Two", cluster: 0, blob: 1})
	buf := append(append([]byte(nil), first...), second...)

	d1, err := parseDirent(buf)
	require.NoError(t, err)
	require.Equal(t, "one", d1.URL())

	d2, err := parseDirent(buf[d1.Size():])
	require.NoError(t, err)
	require.Equal(t, "two", d2.URL())
}
