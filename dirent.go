// Copyright 2026 The libzim-go Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package zim

import (
	"bytes"
	"encoding/binary"

	"github.com/hashworks/libzim/internal/base"
)

// Special mime type codes distinguishing the dirent kinds. Codes below
// DeletedMimeType denote ordinary articles.
const (
	DeletedMimeType    uint16 = 0xfffd
	LinktargetMimeType uint16 = 0xfffe
	RedirectMimeType   uint16 = 0xffff
)

// Dirent is one parsed directory record. Dirents are immutable and
// shared between callers through the dirent cache.
type Dirent struct {
	mimeType      uint16
	namespace     byte
	version       uint32
	clusterNumber ClusterIndex
	blobNumber    BlobIndex
	redirectIndex EntryIndex
	url           string
	title         string
	parameter     []byte
	size          uint64
}

// parseDirent decodes a single variable-length record from the start of
// data. If any field would extend past the end of data it fails with
// base.ErrInsufficientBuffer so the caller can retry with a larger
// buffer; that signal never escapes a public operation.
func parseDirent(data []byte) (*Dirent, error) {
	d := &Dirent{}
	if len(data) < 8 {
		return nil, base.ErrInsufficientBuffer
	}
	d.mimeType = binary.LittleEndian.Uint16(data[0:])
	paramLen := int(data[2])
	d.namespace = data[3]
	d.version = binary.LittleEndian.Uint32(data[4:])

	pos := 8
	switch d.mimeType {
	case RedirectMimeType:
		if len(data) < pos+4 {
			return nil, base.ErrInsufficientBuffer
		}
		d.redirectIndex = EntryIndex(binary.LittleEndian.Uint32(data[pos:]))
		pos += 4
	case LinktargetMimeType, DeletedMimeType:
		// No payload location; the record continues with url and title.
	default:
		if len(data) < pos+8 {
			return nil, base.ErrInsufficientBuffer
		}
		d.clusterNumber = ClusterIndex(binary.LittleEndian.Uint32(data[pos:]))
		d.blobNumber = BlobIndex(binary.LittleEndian.Uint32(data[pos+4:]))
		pos += 8
	}

	url, n, err := readZeroTerminated(data[pos:])
	if err != nil {
		return nil, err
	}
	d.url = url
	pos += n

	title, n, err := readZeroTerminated(data[pos:])
	if err != nil {
		return nil, err
	}
	d.title = title
	pos += n

	if len(data) < pos+paramLen {
		return nil, base.ErrInsufficientBuffer
	}
	d.parameter = append([]byte(nil), data[pos:pos+paramLen]...)
	pos += paramLen

	d.size = uint64(pos)
	return d, nil
}

func readZeroTerminated(data []byte) (string, int, error) {
	i := bytes.IndexByte(data, 0)
	if i < 0 {
		return "", 0, base.ErrInsufficientBuffer
	}
	return string(data[:i]), i + 1, nil
}

// MimeType returns the raw mime type code of the record.
func (d *Dirent) MimeType() uint16 { return d.mimeType }

// Namespace returns the single-character namespace of the entry.
func (d *Dirent) Namespace() byte { return d.namespace }

// Version returns the record's version field.
func (d *Dirent) Version() uint32 { return d.version }

// URL returns the entry's url, without the namespace prefix.
func (d *Dirent) URL() string { return d.url }

// Title returns the entry's title. An empty stored title aliases the
// url, matching the comparison order of the title pointer table.
func (d *Dirent) Title() string {
	if d.title == "" {
		return d.url
	}
	return d.title
}

// Parameter returns the record's extra parameter bytes.
func (d *Dirent) Parameter() []byte { return d.parameter }

// IsRedirect reports whether the record forwards to another entry.
func (d *Dirent) IsRedirect() bool { return d.mimeType == RedirectMimeType }

// IsLinktarget reports whether the record is a link target.
func (d *Dirent) IsLinktarget() bool { return d.mimeType == LinktargetMimeType }

// IsDeleted reports whether the record marks a deleted entry.
func (d *Dirent) IsDeleted() bool { return d.mimeType == DeletedMimeType }

// IsArticle reports whether the record carries content in a cluster.
func (d *Dirent) IsArticle() bool {
	return d.mimeType < DeletedMimeType
}

// ClusterNumber returns the cluster holding the article's content. Zero
// for non-article records.
func (d *Dirent) ClusterNumber() ClusterIndex { return d.clusterNumber }

// BlobNumber returns the blob within ClusterNumber holding the
// article's content. Zero for non-article records.
func (d *Dirent) BlobNumber() BlobIndex { return d.blobNumber }

// RedirectIndex returns the target entry of a redirect record.
func (d *Dirent) RedirectIndex() EntryIndex { return d.redirectIndex }

// Size returns the total encoded length of the record, so callers can
// chain records parsed out of one buffer.
func (d *Dirent) Size() uint64 { return d.size }
