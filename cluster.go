// Copyright 2026 The libzim-go Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package zim

import (
	"math"

	"github.com/hashworks/libzim/internal/base"
	"github.com/hashworks/libzim/internal/compression"
	"github.com/hashworks/libzim/internal/reader"
)

// CompressionType identifies the compression algorithm of a cluster.
type CompressionType = compression.Type

// Compression type values, as stored in the low nibble of a cluster's
// info byte.
const (
	CompressionNone    CompressionType = compression.None
	CompressionDefault CompressionType = compression.Default
	CompressionZip     CompressionType = compression.Zip
	CompressionBzip2   CompressionType = compression.Bzip2
	CompressionLZMA    CompressionType = compression.LZMA
	CompressionZstd    CompressionType = compression.Zstd
)

// clusterExtendedFlag in the info byte selects 64-bit blob offsets.
const clusterExtendedFlag = 0x10

// Cluster groups blobs, optionally compressed as a unit. An
// uncompressed cluster reads blobs from the file (zero-copy where the
// file is memory-mapped); a
// compressed cluster is eagerly stream-decoded into memory when it is
// first read, after which blobs are views of the decoded bytes.
//
// Clusters are immutable and shared between callers through the
// cluster cache.
type Cluster struct {
	compression CompressionType
	extended    bool
	// reader covers the blob data region, which starts right after the
	// offset table.
	reader reader.Reader
	// startOffset is the encoded size of the offset table; for an
	// uncompressed cluster it is also the distance from the info byte's
	// successor to the data region.
	startOffset uint64
	// offsets are relative to the data region; offsets[i] and
	// offsets[i+1] bound blob i, and the final entry is the size of the
	// data region.
	offsets []uint64
}

// readClusterAt decodes the cluster whose info byte sits at offset in
// zimReader.
func readClusterAt(zimReader reader.Reader, offset uint64) (*Cluster, error) {
	var info [1]byte
	if err := zimReader.Read(info[:], offset); err != nil {
		return nil, err
	}
	c := &Cluster{
		compression: CompressionType(info[0] & 0x0f),
		extended:    info[0]&clusterExtendedFlag != 0,
	}
	width := uint64(4)
	if c.extended {
		width = 8
	}
	switch c.compression {
	case CompressionNone, CompressionDefault:
		sub, err := zimReader.SubReader(offset+1, zimReader.Size()-(offset+1))
		if err != nil {
			return nil, err
		}
		if err := c.readHeader(sub, width); err != nil {
			return nil, err
		}
		data, err := sub.SubReader(c.startOffset, c.offsets[len(c.offsets)-1])
		if err != nil {
			return nil, base.MarkFileFormatError(err)
		}
		c.reader = data
	case CompressionLZMA, CompressionZstd, CompressionZip:
		if err := c.decode(zimReader, offset+1, width); err != nil {
			return nil, err
		}
	case CompressionBzip2:
		return nil, base.ErrUnsupportedCompression
	default:
		return nil, base.FileFormatErrorf("zim: invalid compression flag %d", info[0]&0x0f)
	}
	return c, nil
}

// readHeader parses the offset table of an uncompressed cluster out of
// r, which covers the cluster from just past the info byte.
func (c *Cluster) readHeader(r reader.Reader, width uint64) error {
	first, err := readUintWidth(r, 0, width)
	if err != nil {
		return err
	}
	nOffsets := first / width
	if nOffsets == 0 || first > r.Size() {
		return base.FileFormatErrorf("zim: cluster offset table of size %d is invalid", first)
	}
	table, err := r.GetBuffer(0, first)
	if err != nil {
		return err
	}
	c.startOffset = first
	c.offsets = make([]uint64, 1, nOffsets)
	prev := first
	data := table.Data()
	for i := uint64(1); i < nOffsets; i++ {
		v := decodeUintWidth(data[i*width:], width)
		if v < prev {
			return base.FileFormatErrorf("zim: cluster blob offsets are not monotonic (%d < %d)", v, prev)
		}
		if v > r.Size() {
			return base.FileFormatErrorf("zim: cluster blob offset %d past cluster end %d", v, r.Size())
		}
		c.offsets = append(c.offsets, v-first)
		prev = v
	}
	return nil
}

// decode streams the compressed cluster occupying [offset, end-of-file)
// into memory: first the offset table, then the blob data region.
func (c *Cluster) decode(zimReader reader.Reader, offset, width uint64) error {
	stream, err := compression.NewDecodedStream(c.compression, zimReader, offset, zimReader.Size()-offset)
	if err != nil {
		return err
	}
	defer stream.Close()

	first, err := stream.ReadUint(int(width))
	if err != nil {
		return err
	}
	nOffsets := first / width
	if nOffsets == 0 {
		return base.FileFormatErrorf("zim: cluster offset table of size %d is invalid", first)
	}
	c.startOffset = first
	c.offsets = make([]uint64, 1, nOffsets)
	prev := first
	for i := uint64(1); i < nOffsets; i++ {
		v, err := stream.ReadUint(int(width))
		if err != nil {
			return err
		}
		if v < prev {
			return base.FileFormatErrorf("zim: cluster blob offsets are not monotonic (%d < %d)", v, prev)
		}
		c.offsets = append(c.offsets, v-first)
		prev = v
	}
	data := make([]byte, c.offsets[len(c.offsets)-1])
	if err := stream.ReadFull(data); err != nil {
		return err
	}
	c.reader = reader.NewBufferReader(reader.NewBuffer(data))
	return nil
}

// Compression returns the cluster's compression algorithm.
func (c *Cluster) Compression() CompressionType { return c.compression }

// IsCompressed reports whether blobs live in a decoded memory buffer
// rather than directly in the file.
func (c *Cluster) IsCompressed() bool { return c.compression.IsCompressed() }

// IsExtended reports whether the cluster uses 64-bit blob offsets.
func (c *Cluster) IsExtended() bool { return c.extended }

// Count returns the number of blobs in the cluster.
func (c *Cluster) Count() BlobIndex { return BlobIndex(len(c.offsets) - 1) }

// BlobSize returns the size of blob i in bytes.
func (c *Cluster) BlobSize(i BlobIndex) (uint64, error) {
	if i >= c.Count() {
		return 0, errOutOfRangef("blob index %d out of range [0, %d)", i, c.Count())
	}
	return c.offsets[i+1] - c.offsets[i], nil
}

// Blob returns the full content of blob i. For uncompressed clusters
// the result is a zero-copy view of the file when the blob lies in one
// memory-mapped part; otherwise its bytes are read into memory.
func (c *Cluster) Blob(i BlobIndex) (Blob, error) {
	if i >= c.Count() {
		return Blob{}, errOutOfRangef("blob index %d out of range [0, %d)", i, c.Count())
	}
	size := c.offsets[i+1] - c.offsets[i]
	if size > uint64(math.MaxInt) {
		// Declared size exceeds what this platform can address.
		return Blob{}, nil
	}
	buf, err := c.reader.GetBuffer(c.offsets[i], size)
	if err != nil {
		return Blob{}, err
	}
	return Blob{buf: buf}, nil
}

// BlobRange returns up to size bytes of blob i starting at offset. The
// size is clamped to the blob end; an offset past the blob end yields
// an empty Blob.
func (c *Cluster) BlobRange(i BlobIndex, offset, size uint64) (Blob, error) {
	if i >= c.Count() {
		return Blob{}, errOutOfRangef("blob index %d out of range [0, %d)", i, c.Count())
	}
	blobSize := c.offsets[i+1] - c.offsets[i]
	if offset > blobSize {
		return Blob{}, nil
	}
	if size > blobSize-offset {
		size = blobSize - offset
	}
	if size > uint64(math.MaxInt) {
		return Blob{}, nil
	}
	buf, err := c.reader.GetBuffer(c.offsets[i]+offset, size)
	if err != nil {
		return Blob{}, err
	}
	return Blob{buf: buf}, nil
}

// BlobOffset returns blob i's offset relative to the byte after the
// cluster's info byte. The query is undefined on compressed clusters,
// where blobs have no position in the file.
func (c *Cluster) BlobOffset(i BlobIndex) (uint64, error) {
	if c.IsCompressed() {
		return 0, base.ErrInvalidOperation
	}
	if i >= c.Count() {
		return 0, errOutOfRangef("blob index %d out of range [0, %d)", i, c.Count())
	}
	return c.startOffset + c.offsets[i], nil
}

func readUintWidth(r reader.Reader, offset, width uint64) (uint64, error) {
	if width == 8 {
		return reader.Uint64(r, offset)
	}
	v, err := reader.Uint32(r, offset)
	return uint64(v), err
}

func decodeUintWidth(data []byte, width uint64) uint64 {
	var v uint64
	for i := int(width) - 1; i >= 0; i-- {
		v = v<<8 | uint64(data[i])
	}
	return v
}
