// Copyright 2026 The libzim-go Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package zim

import "strings"

// compareKey orders a (namespace, key) pair against a dirent field.
func compareKey(ns byte, key string, dNs byte, dKey string) int {
	if ns < dNs {
		return -1
	}
	if ns > dNs {
		return 1
	}
	return strings.Compare(key, dKey)
}

// FindByURL binary-searches the URL-sorted entries for (ns, url). On a
// hit the returned index addresses the entry; on a miss it is the lower
// bound where the entry would be inserted.
func (f *File) FindByURL(ns byte, url string) (bool, EntryIndex, error) {
	l, u := uint32(0), f.header.ArticleCount
	if l == u {
		return false, 0, nil
	}
	for u-l > 1 {
		p := l + (u-l)/2
		d, err := f.Dirent(EntryIndex(p))
		if err != nil {
			return false, 0, err
		}
		switch c := compareKey(ns, url, d.Namespace(), d.URL()); {
		case c < 0:
			u = p
		case c > 0:
			l = p
		default:
			return true, EntryIndex(p), nil
		}
	}
	d, err := f.Dirent(EntryIndex(l))
	if err != nil {
		return false, 0, err
	}
	c := compareKey(ns, url, d.Namespace(), d.URL())
	if c == 0 {
		return true, EntryIndex(l), nil
	}
	if c < 0 {
		return false, EntryIndex(l), nil
	}
	return false, EntryIndex(u), nil
}

// FindByPath looks up an entry by its "ns/url" or "/ns/url" path.
func (f *File) FindByPath(path string) (bool, EntryIndex, error) {
	start := 0
	if len(path) > 0 && path[0] == '/' {
		start = 1
	}
	if len(path) < start+2 || path[start+1] != '/' {
		return false, 0, nil
	}
	return f.FindByURL(path[start], path[start+2:])
}

// FindByTitle binary-searches the title-sorted entries of namespace ns
// for title. The returned index is a title-order index; on a miss it is
// the lower bound.
func (f *File) FindByTitle(ns byte, title string) (bool, TitleIndex, error) {
	begin, err := f.NamespaceBeginOffset(ns)
	if err != nil {
		return false, 0, err
	}
	end, err := f.NamespaceEndOffset(ns)
	if err != nil {
		return false, 0, err
	}
	l, u := uint32(begin), uint32(end)
	if l == u {
		return false, TitleIndex(l), nil
	}
	for u-l > 1 {
		p := l + (u-l)/2
		d, err := f.DirentByTitle(TitleIndex(p))
		if err != nil {
			return false, 0, err
		}
		switch c := compareKey(ns, title, d.Namespace(), d.Title()); {
		case c < 0:
			u = p
		case c > 0:
			l = p
		default:
			return true, TitleIndex(p), nil
		}
	}
	d, err := f.DirentByTitle(TitleIndex(l))
	if err != nil {
		return false, 0, err
	}
	c := strings.Compare(title, d.Title())
	if c == 0 {
		return true, TitleIndex(l), nil
	}
	if c < 0 {
		return false, TitleIndex(l), nil
	}
	return false, TitleIndex(u), nil
}

// NamespaceBeginOffset returns the index of the first entry in
// namespace ns. Results are cached per namespace character.
func (f *File) NamespaceBeginOffset(ns byte) (EntryIndex, error) {
	f.nsBeginMu.Lock()
	if v, ok := f.nsBegin[ns]; ok {
		f.nsBeginMu.Unlock()
		return v, nil
	}
	f.nsBeginMu.Unlock()

	v, err := f.namespaceBound(ns, false)
	if err != nil {
		return 0, err
	}

	f.nsBeginMu.Lock()
	f.nsBegin[ns] = v
	f.nsBeginMu.Unlock()
	return v, nil
}

// NamespaceEndOffset returns one past the index of the last entry in
// namespace ns. Results are cached per namespace character.
func (f *File) NamespaceEndOffset(ns byte) (EntryIndex, error) {
	f.nsEndMu.Lock()
	if v, ok := f.nsEnd[ns]; ok {
		f.nsEndMu.Unlock()
		return v, nil
	}
	f.nsEndMu.Unlock()

	v, err := f.namespaceBound(ns, true)
	if err != nil {
		return 0, err
	}

	f.nsEndMu.Lock()
	f.nsEnd[ns] = v
	f.nsEndMu.Unlock()
	return v, nil
}

// namespaceBound finds, in URL order, the first index whose namespace
// is >= ns (or > ns when end is set).
func (f *File) namespaceBound(ns byte, end bool) (EntryIndex, error) {
	l, u := uint32(0), f.header.ArticleCount
	for l < u {
		m := l + (u-l)/2
		d, err := f.Dirent(EntryIndex(m))
		if err != nil {
			return 0, err
		}
		before := d.Namespace() < ns
		if end {
			before = d.Namespace() <= ns
		}
		if before {
			l = m + 1
		} else {
			u = m
		}
	}
	return EntryIndex(l), nil
}

// NamespaceCount returns the number of entries in namespace ns.
func (f *File) NamespaceCount(ns byte) (EntryIndex, error) {
	begin, err := f.NamespaceBeginOffset(ns)
	if err != nil {
		return 0, err
	}
	end, err := f.NamespaceEndOffset(ns)
	if err != nil {
		return 0, err
	}
	return end - begin, nil
}

// HasNamespace reports whether the archive contains any entry in
// namespace ns.
func (f *File) HasNamespace(ns byte) (bool, error) {
	count, err := f.NamespaceCount(ns)
	return count > 0, err
}

// Namespaces returns the distinct namespace characters in entry order.
func (f *File) Namespaces() (string, error) {
	if f.header.ArticleCount == 0 {
		return "", nil
	}
	d, err := f.Dirent(0)
	if err != nil {
		return "", err
	}
	namespaces := []byte{d.Namespace()}
	for {
		idx, err := f.NamespaceEndOffset(d.Namespace())
		if err != nil {
			return "", err
		}
		if idx >= f.CountArticles() {
			break
		}
		d, err = f.Dirent(idx)
		if err != nil {
			return "", err
		}
		namespaces = append(namespaces, d.Namespace())
	}
	return string(namespaces), nil
}
