// Copyright 2026 The libzim-go Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package zim

import (
	"sort"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/hashworks/libzim/internal/base"
	"github.com/hashworks/libzim/internal/cache"
	"github.com/hashworks/libzim/internal/compound"
	"github.com/hashworks/libzim/internal/reader"
)

// mimeListCap bounds the mime type list scan regardless of the header
// layout. Archives place cluster data at or after this offset, so the
// list always ends before it.
const mimeListCap = 1024

// direntScratchStep is the growth increment of the shared dirent parse
// buffer.
const direntScratchStep = 256

// File is an opened archive. All read operations are safe for
// concurrent use from multiple goroutines.
type File struct {
	compound *compound.FileCompound
	reader   *reader.FileReader
	header   Fileheader
	filename string
	opts     *Options

	urlPtrReader     reader.Reader
	titleIdxReader   reader.Reader
	clusterPtrReader reader.Reader

	mimeTypes []string

	direntCache *cache.LRU[EntryIndex, *Dirent]
	// direntScratch is shared across all dirent reads so misses do not
	// allocate; at most one dirent is parsed at a time.
	direntScratchMu sync.Mutex
	direntScratch   []byte

	clusterCache *cache.ConcurrentCache[ClusterIndex, *Cluster]

	nsBeginMu sync.Mutex
	nsBegin   map[byte]EntryIndex
	nsEndMu   sync.Mutex
	nsEnd     map[byte]EntryIndex

	clusterOrderOnce sync.Once
	clusterOrder     []clusterOrderEntry
	clusterOrderErr  error
}

type clusterOrderEntry struct {
	cluster uint32
	entry   EntryIndex
}

// Open opens the archive at path with default options. If path does
// not name a file it is treated as the stem of a multi-part archive.
func Open(path string) (*File, error) {
	return OpenWithOptions(path, nil)
}

// OpenWithOptions opens the archive at path.
func OpenWithOptions(path string, opts *Options) (*File, error) {
	opts = opts.EnsureDefaults()
	c, err := compound.Open(path)
	if err != nil {
		return nil, err
	}
	f, err := newFile(c, path, opts)
	if err != nil {
		c.Close()
		return nil, err
	}
	return f, nil
}

func newFile(c *compound.FileCompound, path string, opts *Options) (*File, error) {
	f := &File{
		compound:     c,
		reader:       reader.NewFileReader(c, !opts.DisableMmap),
		filename:     path,
		opts:         opts,
		direntCache:  cache.NewLRU[EntryIndex, *Dirent](opts.DirentCacheSize),
		clusterCache: cache.NewConcurrentCache[ClusterIndex, *Cluster](opts.ClusterCacheSize),
		nsBegin:      make(map[byte]EntryIndex),
		nsEnd:        make(map[byte]EntryIndex),
	}

	if f.reader.Size() < HeaderSize {
		return nil, base.FileFormatErrorf("zim: file is too small to contain a header")
	}
	var hbuf [HeaderSize]byte
	if err := f.reader.Read(hbuf[:], 0); err != nil {
		return nil, errors.Wrap(err, "zim: cannot read header")
	}
	h, err := readFileheader(hbuf[:])
	if err != nil {
		return nil, err
	}
	f.header = h

	f.urlPtrReader, err = f.tableReader(h.URLPtrPos, uint64(h.ArticleCount)*8, "url pointer")
	if err != nil {
		return nil, err
	}
	f.titleIdxReader, err = f.tableReader(h.TitleIdxPos, uint64(h.ArticleCount)*4, "title pointer")
	if err != nil {
		return nil, err
	}
	f.clusterPtrReader, err = f.tableReader(h.ClusterPtrPos, uint64(h.ClusterCount)*8, "cluster pointer")
	if err != nil {
		return nil, err
	}

	if h.ClusterCount == 0 {
		opts.Logger.Infof("zim: no clusters found in %q", path)
	} else {
		lastOffset, err := f.clusterOffset(ClusterIndex(h.ClusterCount - 1))
		if err != nil {
			return nil, err
		}
		if lastOffset > f.reader.Size() {
			return nil, base.FileFormatErrorf(
				"zim: last cluster offset %d larger than file size %d", lastOffset, f.reader.Size())
		}
	}

	if h.HasChecksum() && h.ChecksumPos != f.reader.Size()-16 {
		return nil, base.FileFormatErrorf("zim: checksum position %d is not valid", h.ChecksumPos)
	}

	if err := f.readMimeTypes(); err != nil {
		return nil, err
	}
	return f, nil
}

// tableReader materializes one pointer table, either as a window into
// the file or as an in-memory buffer when BufferPointerTables is set.
func (f *File) tableReader(pos, size uint64, what string) (reader.Reader, error) {
	if !f.reader.CanRead(pos, size) {
		return nil, base.FileFormatErrorf("zim: %s table [%d, %d) outside file of size %d",
			what, pos, pos+size, f.reader.Size())
	}
	if f.opts.BufferPointerTables {
		buf, err := f.reader.GetBuffer(pos, size)
		if err != nil {
			return nil, err
		}
		return reader.NewBufferReader(buf), nil
	}
	return f.reader.SubReader(pos, size)
}

// readMimeTypes parses the NUL-terminated mime type list. The scan is
// capped at min(urlPtrPos, 1024): newer archives put the pointer tables
// at the end of the file, but cluster data never starts before offset
// 1024.
func (f *File) readMimeTypes() error {
	end := f.header.URLPtrPos
	if end > mimeListCap {
		end = mimeListCap
	}
	if end < f.header.MimeListPos {
		return base.FileFormatErrorf("zim: mime list position %d is not valid", f.header.MimeListPos)
	}
	size := end - f.header.MimeListPos
	buf, err := f.reader.GetBuffer(f.header.MimeListPos, size)
	if err != nil {
		return base.MarkFileFormatError(err)
	}
	data := buf.Data()
	for pos := uint64(0); pos < size; {
		n := uint64(0)
		for pos+n < size && data[pos+n] != 0 {
			n++
		}
		if n == 0 {
			return nil
		}
		if pos+n >= size {
			return base.FileFormatErrorf("zim: mime list is not terminated")
		}
		f.mimeTypes = append(f.mimeTypes, string(data[pos:pos+n]))
		pos += n + 1
	}
	return nil
}

// Close releases the archive's file descriptors. Dirents, blobs and
// compressed clusters already handed out stay valid; an uncompressed
// cluster reads its blobs from the archive's files and must not be used
// after Close. In-flight reads must have completed.
func (f *File) Close() error { return f.compound.Close() }

// Header returns the archive's file header.
func (f *File) Header() Fileheader { return f.header }

// Filename returns the path the archive was opened with.
func (f *File) Filename() string { return f.filename }

// Filesize returns the total logical size of the archive across all
// parts.
func (f *File) Filesize() uint64 { return f.compound.Size() }

// MTime returns the newest modification time among the physical parts.
func (f *File) MTime() time.Time { return f.compound.MTime() }

// IsMultiPart reports whether the archive is split across several
// physical files.
func (f *File) IsMultiPart() bool { return f.compound.IsMultiPart() }

// CountArticles returns the number of directory entries.
func (f *File) CountArticles() EntryIndex { return EntryIndex(f.header.ArticleCount) }

// CountClusters returns the number of clusters.
func (f *File) CountClusters() ClusterIndex { return ClusterIndex(f.header.ClusterCount) }

// MainPage returns the entry index of the archive's main page, if set.
func (f *File) MainPage() (EntryIndex, bool) {
	return EntryIndex(f.header.MainPage), f.header.HasMainPage()
}

// LayoutPage returns the entry index of the archive's layout page, if
// set.
func (f *File) LayoutPage() (EntryIndex, bool) {
	return EntryIndex(f.header.LayoutPage), f.header.HasLayoutPage()
}

// MimeType returns the mime type string for a dirent's mime type code.
func (f *File) MimeType(code uint16) (string, error) {
	if int(code) > len(f.mimeTypes) {
		return "", errOutOfRangef("unknown mime type code %d", code)
	}
	return f.mimeTypes[code], nil
}

// PartRange addresses a span inside one physical part of the archive.
type PartRange struct {
	Filename string
	Offset   uint64
	Length   uint64
}

// Parts returns the part ranges covering [offset, offset+size) of the
// logical file.
func (f *File) Parts(offset, size uint64) ([]PartRange, error) {
	ranges, err := f.compound.Locate(offset, size)
	if err != nil {
		return nil, err
	}
	out := make([]PartRange, len(ranges))
	for i, r := range ranges {
		out[i] = PartRange{Filename: r.Part.Name, Offset: r.Offset, Length: r.Length}
	}
	return out, nil
}

func (f *File) urlPtr(idx EntryIndex) (uint64, error) {
	return reader.Uint64(f.urlPtrReader, uint64(idx)*8)
}

func (f *File) clusterOffset(idx ClusterIndex) (uint64, error) {
	return reader.Uint64(f.clusterPtrReader, uint64(idx)*8)
}

// ClusterOffset returns the file-absolute offset of cluster idx's
// header.
func (f *File) ClusterOffset(idx ClusterIndex) (uint64, error) {
	if idx >= f.CountClusters() {
		return 0, errOutOfRangef("cluster index %d out of range [0, %d)", idx, f.CountClusters())
	}
	return f.clusterOffset(idx)
}

// Dirent returns the directory entry at idx in URL order. Entries are
// parsed on demand and shared through a bounded LRU.
func (f *File) Dirent(idx EntryIndex) (*Dirent, error) {
	if idx >= f.CountArticles() {
		return nil, errOutOfRangef("article index %d out of range [0, %d)", idx, f.CountArticles())
	}
	if d, ok := f.direntCache.Get(idx); ok {
		return d, nil
	}
	indexOffset, err := f.urlPtr(idx)
	if err != nil {
		return nil, err
	}
	d, err := f.readDirentAt(indexOffset)
	if err != nil {
		return nil, err
	}
	f.direntCache.Put(idx, d)
	return d, nil
}

// readDirentAt parses the dirent at a file-absolute offset. The size of
// a dirent is not recorded anywhere, so the parse starts from a small
// window and grows it until the record fits; the scratch buffer is
// shared, so concurrent misses serialize here.
func (f *File) readDirentAt(offset uint64) (*Dirent, error) {
	f.direntScratchMu.Lock()
	defer f.direntScratchMu.Unlock()

	totalSize := f.reader.Size()
	if offset >= totalSize {
		return nil, base.FileFormatErrorf("zim: dirent offset %d outside file of size %d", offset, totalSize)
	}
	// Small files can end within the first window; never read past EOF.
	bufSize := uint64(direntScratchStep)
	if offset+bufSize > totalSize {
		bufSize = totalSize - offset
	}
	for {
		if uint64(cap(f.direntScratch)) < bufSize {
			f.direntScratch = make([]byte, bufSize)
		}
		buf := f.direntScratch[:bufSize]
		if err := f.reader.Read(buf, offset); err != nil {
			return nil, err
		}
		d, err := parseDirent(buf)
		if err == nil {
			return d, nil
		}
		if !errors.Is(err, base.ErrInsufficientBuffer) {
			return nil, err
		}
		if offset+bufSize >= totalSize {
			return nil, errors.Wrapf(base.ErrMalformedDirent,
				"zim: dirent at offset %d extends past end of file", offset)
		}
		bufSize += direntScratchStep
		if offset+bufSize > totalSize {
			bufSize = totalSize - offset
		}
	}
}

// IndexByTitle maps a title-order index to the entry's URL-order index.
func (f *File) IndexByTitle(idx TitleIndex) (EntryIndex, error) {
	if uint32(idx) >= f.header.ArticleCount {
		return 0, errOutOfRangef("title index %d out of range [0, %d)", idx, f.header.ArticleCount)
	}
	v, err := reader.Uint32(f.titleIdxReader, uint64(idx)*4)
	return EntryIndex(v), err
}

// DirentByTitle returns the directory entry at idx in title order.
func (f *File) DirentByTitle(idx TitleIndex) (*Dirent, error) {
	entry, err := f.IndexByTitle(idx)
	if err != nil {
		return nil, err
	}
	return f.Dirent(entry)
}

// Cluster returns cluster idx, decoding it on first access. Concurrent
// calls for the same absent cluster decode it exactly once. Failed
// decodes are not cached, so a later call retries. Uncompressed clusters
// bypass the cache unless Options.CacheUncompressedClusters is set, and
// are then read again on every call.
func (f *File) Cluster(idx ClusterIndex) (*Cluster, error) {
	if idx >= f.CountClusters() {
		return nil, errOutOfRangef("cluster index %d out of range [0, %d)", idx, f.CountClusters())
	}
	offset, err := f.clusterOffset(idx)
	if err != nil {
		return nil, err
	}
	if !f.opts.CacheUncompressedClusters {
		var info [1]byte
		if err := f.reader.Read(info[:], offset); err != nil {
			return nil, err
		}
		if !CompressionType(info[0] & 0x0f).IsCompressed() {
			return readClusterAt(f.reader, offset)
		}
	}
	return f.clusterCache.GetOrPut(idx, func() (*Cluster, error) {
		return readClusterAt(f.reader, offset)
	})
}

// BlobOffset returns the file-absolute offset of a blob. Compressed
// clusters have no file offset for their blobs; the sentinel 0 is
// returned for them.
func (f *File) BlobOffset(clusterIdx ClusterIndex, blobIdx BlobIndex) (uint64, error) {
	c, err := f.Cluster(clusterIdx)
	if err != nil {
		return 0, err
	}
	if c.IsCompressed() {
		return 0, nil
	}
	rel, err := c.BlobOffset(blobIdx)
	if err != nil {
		return 0, err
	}
	offset, err := f.clusterOffset(clusterIdx)
	if err != nil {
		return 0, err
	}
	return offset + 1 + rel, nil
}

// FindByClusterOrder returns the entry index of the i-th entry when
// entries are ordered by the cluster they point into. The ordering is
// built lazily on first use; redirects, link targets and deleted
// entries sort as cluster 0.
func (f *File) FindByClusterOrder(idx EntryIndex) (bool, EntryIndex, error) {
	f.clusterOrderOnce.Do(f.buildClusterOrder)
	if f.clusterOrderErr != nil {
		return false, 0, f.clusterOrderErr
	}
	if uint64(idx) >= uint64(len(f.clusterOrder)) {
		return false, 0, nil
	}
	return true, f.clusterOrder[idx].entry, nil
}

func (f *File) buildClusterOrder() {
	n := f.header.ArticleCount
	list := make([]clusterOrderEntry, 0, n)
	for i := uint32(0); i < n; i++ {
		indexOffset, err := f.urlPtr(EntryIndex(i))
		if err != nil {
			f.clusterOrderErr = err
			return
		}
		// The dirent kind is enough to classify; read the mime type
		// code directly instead of parsing the whole record.
		mimeType, err := reader.Uint16(f.reader, indexOffset)
		if err != nil {
			f.clusterOrderErr = err
			return
		}
		var cluster uint32
		if mimeType != RedirectMimeType && mimeType != LinktargetMimeType && mimeType != DeletedMimeType {
			// For articles the cluster number sits at a fixed position
			// inside the record.
			cluster, err = reader.Uint32(f.reader, indexOffset+8)
			if err != nil {
				f.clusterOrderErr = err
				return
			}
		}
		list = append(list, clusterOrderEntry{cluster: cluster, entry: EntryIndex(i)})
	}
	sort.Slice(list, func(a, b int) bool {
		if list[a].cluster != list[b].cluster {
			return list[a].cluster < list[b].cluster
		}
		return list[a].entry < list[b].entry
	})
	f.clusterOrder = list
}
