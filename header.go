// Copyright 2026 The libzim-go Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package zim

import (
	"encoding/binary"

	"github.com/hashworks/libzim/internal/base"
)

// HeaderSize is the fixed size of the file header at offset 0.
const HeaderSize = 80

// Magic is the magic number every archive starts with.
const Magic uint32 = 0x44D495A

// noPage is the sentinel marking an absent main or layout page.
const noPage uint32 = 0xffffffff

// Fileheader is the fixed 80-byte header at the start of the archive.
// All integers are little-endian.
type Fileheader struct {
	MagicNumber   uint32
	MajorVersion  uint16
	MinorVersion  uint16
	UUID          [16]byte
	ArticleCount  uint32
	ClusterCount  uint32
	URLPtrPos     uint64
	TitleIdxPos   uint64
	ClusterPtrPos uint64
	MimeListPos   uint64
	MainPage      uint32
	LayoutPage    uint32
	ChecksumPos   uint64
}

// readFileheader decodes the header from the first HeaderSize bytes of
// the archive.
func readFileheader(buf []byte) (Fileheader, error) {
	var h Fileheader
	if len(buf) < HeaderSize {
		return h, base.FileFormatErrorf("zim: file is too small to contain a header")
	}
	h.MagicNumber = binary.LittleEndian.Uint32(buf[0:])
	if h.MagicNumber != Magic {
		return h, base.FileFormatErrorf("zim: bad magic number %#x", h.MagicNumber)
	}
	h.MajorVersion = binary.LittleEndian.Uint16(buf[4:])
	h.MinorVersion = binary.LittleEndian.Uint16(buf[6:])
	copy(h.UUID[:], buf[8:24])
	h.ArticleCount = binary.LittleEndian.Uint32(buf[24:])
	h.ClusterCount = binary.LittleEndian.Uint32(buf[28:])
	h.URLPtrPos = binary.LittleEndian.Uint64(buf[32:])
	h.TitleIdxPos = binary.LittleEndian.Uint64(buf[40:])
	h.ClusterPtrPos = binary.LittleEndian.Uint64(buf[48:])
	h.MimeListPos = binary.LittleEndian.Uint64(buf[56:])
	h.MainPage = binary.LittleEndian.Uint32(buf[64:])
	h.LayoutPage = binary.LittleEndian.Uint32(buf[68:])
	h.ChecksumPos = binary.LittleEndian.Uint64(buf[72:])
	return h, nil
}

// HasChecksum reports whether the archive carries a trailing MD5
// checksum.
func (h Fileheader) HasChecksum() bool { return h.ChecksumPos != 0 }

// HasMainPage reports whether a main page is set.
func (h Fileheader) HasMainPage() bool { return h.MainPage != noPage }

// HasLayoutPage reports whether a layout page is set.
func (h Fileheader) HasLayoutPage() bool { return h.LayoutPage != noPage }
