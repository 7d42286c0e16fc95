// Copyright 2026 The libzim-go Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package zim

import (
	"bytes"
	"crypto/md5"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

// The helpers below assemble bit-exact archives in memory so the read
// path can be exercised without external fixtures.

type testEntry struct {
	ns       byte
	url      string
	title    string // stored verbatim; empty aliases url
	mime     uint16
	cluster  uint32
	blob     uint32
	redirect uint32
}

type testCluster struct {
	comp     CompressionType
	extended bool
	blobs    [][]byte
	// raw, when set, is written verbatim after the info byte instead of
	// an encoded blob section.
	raw []byte
}

type testArchive struct {
	mimeTypes []string
	// entries must be sorted by (ns, url); the builder derives the
	// title order itself.
	entries    []testEntry
	clusters   []testCluster
	checksum   bool
	mainPage   *uint32
	layoutPage *uint32
}

func compressPayload(t *testing.T, comp CompressionType, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	var w io.WriteCloser
	var err error
	switch comp {
	case CompressionLZMA:
		w, err = xz.NewWriter(&buf)
	case CompressionZstd:
		w, err = zstd.NewWriter(&buf, zstd.WithEncoderConcurrency(1))
	case CompressionZip:
		w = zlib.NewWriter(&buf)
	default:
		t.Fatalf("no writer for compression %d", comp)
	}
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func encodeTestCluster(t *testing.T, tc testCluster) []byte {
	t.Helper()
	info := byte(tc.comp)
	if tc.extended {
		info |= clusterExtendedFlag
	}
	if tc.raw != nil {
		return append([]byte{info}, tc.raw...)
	}
	width := 4
	if tc.extended {
		width = 8
	}
	var section bytes.Buffer
	offset := uint64(width * (len(tc.blobs) + 1))
	writeOffset := func(v uint64) {
		var tmp [8]byte
		binary.LittleEndian.PutUint64(tmp[:], v)
		section.Write(tmp[:width])
	}
	writeOffset(offset)
	for _, b := range tc.blobs {
		offset += uint64(len(b))
		writeOffset(offset)
	}
	for _, b := range tc.blobs {
		section.Write(b)
	}
	payload := section.Bytes()
	if tc.comp.IsCompressed() {
		payload = compressPayload(t, tc.comp, payload)
	}
	return append([]byte{info}, payload...)
}

func encodeTestDirent(e testEntry) []byte {
	var buf bytes.Buffer
	var tmp [4]byte
	binary.LittleEndian.PutUint16(tmp[:2], e.mime)
	buf.Write(tmp[:2])
	buf.WriteByte(0) // parameter length
	buf.WriteByte(e.ns)
	buf.Write([]byte{0, 0, 0, 0}) // version
	switch e.mime {
	case RedirectMimeType:
		binary.LittleEndian.PutUint32(tmp[:], e.redirect)
		buf.Write(tmp[:])
	case LinktargetMimeType, DeletedMimeType:
	default:
		binary.LittleEndian.PutUint32(tmp[:], e.cluster)
		buf.Write(tmp[:])
		binary.LittleEndian.PutUint32(tmp[:], e.blob)
		buf.Write(tmp[:])
	}
	buf.WriteString(e.url)
	buf.WriteByte(0)
	buf.WriteString(e.title)
	buf.WriteByte(0)
	return buf.Bytes()
}

func (a *testArchive) build(t *testing.T) []byte {
	t.Helper()
	var body bytes.Buffer
	abs := func() uint64 { return HeaderSize + uint64(body.Len()) }

	mimeListPos := abs()
	for _, m := range a.mimeTypes {
		body.WriteString(m)
		body.WriteByte(0)
	}
	body.WriteByte(0)

	direntOffsets := make([]uint64, len(a.entries))
	for i, e := range a.entries {
		direntOffsets[i] = abs()
		body.Write(encodeTestDirent(e))
	}

	clusterOffsets := make([]uint64, len(a.clusters))
	for i, c := range a.clusters {
		clusterOffsets[i] = abs()
		body.Write(encodeTestCluster(t, c))
	}

	urlPtrPos := abs()
	var tmp [8]byte
	for _, off := range direntOffsets {
		binary.LittleEndian.PutUint64(tmp[:], off)
		body.Write(tmp[:])
	}

	titleIdxPos := abs()
	titleOrder := make([]uint32, len(a.entries))
	for i := range titleOrder {
		titleOrder[i] = uint32(i)
	}
	effectiveTitle := func(e testEntry) string {
		if e.title == "" {
			return e.url
		}
		return e.title
	}
	sort.SliceStable(titleOrder, func(x, y int) bool {
		ex, ey := a.entries[titleOrder[x]], a.entries[titleOrder[y]]
		if ex.ns != ey.ns {
			return ex.ns < ey.ns
		}
		return effectiveTitle(ex) < effectiveTitle(ey)
	})
	for _, idx := range titleOrder {
		binary.LittleEndian.PutUint32(tmp[:4], idx)
		body.Write(tmp[:4])
	}

	clusterPtrPos := abs()
	for _, off := range clusterOffsets {
		binary.LittleEndian.PutUint64(tmp[:], off)
		body.Write(tmp[:])
	}

	checksumPos := uint64(0)
	if a.checksum {
		checksumPos = abs()
	}

	header := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(header[0:], Magic)
	binary.LittleEndian.PutUint16(header[4:], 5)
	binary.LittleEndian.PutUint16(header[6:], 0)
	copy(header[8:24], "0123456789abcdef")
	binary.LittleEndian.PutUint32(header[24:], uint32(len(a.entries)))
	binary.LittleEndian.PutUint32(header[28:], uint32(len(a.clusters)))
	binary.LittleEndian.PutUint64(header[32:], urlPtrPos)
	binary.LittleEndian.PutUint64(header[40:], titleIdxPos)
	binary.LittleEndian.PutUint64(header[48:], clusterPtrPos)
	binary.LittleEndian.PutUint64(header[56:], mimeListPos)
	mainPage, layoutPage := noPage, noPage
	if a.mainPage != nil {
		mainPage = *a.mainPage
	}
	if a.layoutPage != nil {
		layoutPage = *a.layoutPage
	}
	binary.LittleEndian.PutUint32(header[64:], mainPage)
	binary.LittleEndian.PutUint32(header[68:], layoutPage)
	binary.LittleEndian.PutUint64(header[72:], checksumPos)

	data := append(header, body.Bytes()...)
	if a.checksum {
		sum := md5.Sum(data)
		data = append(data, sum[:]...)
	}
	return data
}

// writeArchive writes data as a single-file archive and returns its
// path.
func writeArchive(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.zim")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// writeArchiveParts splits data at the given byte and writes the two
// halves as a multi-part archive, returning the stem.
func writeArchiveParts(t *testing.T, data []byte, splitAt int) string {
	t.Helper()
	stem := filepath.Join(t.TempDir(), "test.zim")
	require.NoError(t, os.WriteFile(stem+"aa", data[:splitAt], 0o644))
	require.NoError(t, os.WriteFile(stem+"ab", data[splitAt:], 0o644))
	return stem
}

func openArchive(t *testing.T, data []byte) *File {
	t.Helper()
	f, err := Open(writeArchive(t, data))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}
