// Copyright 2026 The libzim-go Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Package compound presents the physical parts of an archive, possibly
// split across multiple files, as a single logical byte stream.
package compound

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/hashworks/libzim/internal/base"
)

// Part is one physical file of a compound. Its bytes cover the logical
// range [Offset, Offset+Size).
type Part struct {
	File   *os.File
	Name   string
	Offset uint64
	Size   uint64
}

// Range addresses a contiguous span inside a single part.
type Range struct {
	Part   *Part
	Offset uint64 // intra-part offset
	Length uint64
}

// FileCompound is the ordered concatenation of 1..N parts.
type FileCompound struct {
	parts []Part
	size  uint64
	mtime time.Time
}

// Open opens the compound at path. If path names an existing file it
// forms a one-part compound; otherwise path is treated as a stem and
// the suffixes "aa".."zz" are probed in lexicographic order, the first
// contiguous run of existing parts forming the compound.
func Open(path string) (*FileCompound, error) {
	c := &FileCompound{}
	if err := c.addPart(path); err == nil {
		return c, nil
	}
	for s1 := byte('a'); s1 <= 'z'; s1++ {
		for s2 := byte('a'); s2 <= 'z'; s2++ {
			if err := c.addPart(path + string([]byte{s1, s2})); err != nil {
				if len(c.parts) == 0 {
					return nil, errors.Wrapf(err, "zim: cannot open %q as a file or as a multi-part stem", path)
				}
				return c, nil
			}
		}
	}
	return c, nil
}

func (c *FileCompound) addPart(name string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return err
	}
	c.parts = append(c.parts, Part{
		File:   f,
		Name:   name,
		Offset: c.size,
		Size:   uint64(st.Size()),
	})
	c.size += uint64(st.Size())
	if mt := st.ModTime(); mt.After(c.mtime) {
		c.mtime = mt
	}
	return nil
}

// Size returns the total logical size of the compound.
func (c *FileCompound) Size() uint64 { return c.size }

// MTime returns the newest modification time among the parts.
func (c *FileCompound) MTime() time.Time { return c.mtime }

// IsMultiPart reports whether the compound is split across more than
// one physical file.
func (c *FileCompound) IsMultiPart() bool { return len(c.parts) > 1 }

// Parts returns the parts in logical order.
func (c *FileCompound) Parts() []Part { return c.parts }

// Locate returns the ordered part ranges that together cover
// [offset, offset+size). It fails with ErrOutOfRange if any byte of the
// requested range lies outside the compound.
func (c *FileCompound) Locate(offset, size uint64) ([]Range, error) {
	if offset+size < offset || offset+size > c.size {
		return nil, errors.Wrapf(base.ErrOutOfRange,
			"zim: range [%d, %d) outside compound of size %d", offset, offset+size, c.size)
	}
	var ranges []Range
	for i := range c.parts {
		p := &c.parts[i]
		if offset >= p.Offset+p.Size || p.Offset >= offset+size {
			continue
		}
		start := uint64(0)
		if offset > p.Offset {
			start = offset - p.Offset
		}
		end := p.Size
		if offset+size < p.Offset+p.Size {
			end = offset + size - p.Offset
		}
		ranges = append(ranges, Range{Part: p, Offset: start, Length: end - start})
	}
	return ranges, nil
}

// ReadAt fills p from the logical range starting at offset, crossing
// part boundaries as needed.
func (c *FileCompound) ReadAt(p []byte, offset uint64) error {
	ranges, err := c.Locate(offset, uint64(len(p)))
	if err != nil {
		return err
	}
	pos := 0
	for _, r := range ranges {
		n, err := r.Part.File.ReadAt(p[pos:pos+int(r.Length)], int64(r.Offset))
		if err != nil {
			return errors.Wrapf(err, "zim: short read of part %q", r.Part.Name)
		}
		pos += n
	}
	return nil
}

// Close closes every part. The compound must not be used afterwards.
func (c *FileCompound) Close() error {
	var firstErr error
	for i := range c.parts {
		if err := c.parts[i].File.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.parts = nil
	return firstErr
}
