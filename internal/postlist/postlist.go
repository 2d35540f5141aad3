// Copyright 2011 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package postlist implements the on-disk posting-list file format: a
// fixed 256-entry offset header followed by, for each non-empty suffix
// byte D, a count, an absolute first gid, and a varbyte-delta-encoded
// tail of the remaining gids in strictly increasing order.
package postlist

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"

	"github.com/mbrengel/yarix-go/internal/ngram"
	"github.com/mbrengel/yarix-go/internal/varbyte"
)

// HeaderEntries is the fixed number of D-slots in the offset header.
const HeaderEntries = 256

// HeaderSize is the byte size of the on-disk header.
const HeaderSize = HeaderEntries * 8

// NoList is the sentinel header value meaning "no posting list for this D".
const NoList = ^uint64(0)

// Writer emits one posting-list file. Callers must present suffix bytes
// D in ascending order (the natural order stage 2 produces after sorting
// a prefile), and within a D, gids in strictly increasing order.
type Writer struct {
	header    [HeaderEntries]uint64
	body      []byte
	haveD     bool
	countAt   int
	count     uint64
	last      uint32
	haveFirst bool
}

// Create begins a new posting-list file in memory; call Close to flush it
// to a path.
func Create() *Writer {
	w := &Writer{}
	for i := range w.header {
		w.header[i] = NoList
	}
	return w
}

// BeginD starts the posting list for suffix byte d. d values must be
// presented in strictly increasing order across a Writer's lifetime.
func (w *Writer) BeginD(d byte) {
	if w.haveD {
		panic("postlist: BeginD called before EndD")
	}
	w.header[d] = uint64(len(w.body))
	w.countAt = len(w.body)
	w.body = append(w.body, make([]byte, 8)...)
	w.count = 0
	w.haveFirst = false
	w.haveD = true
}

// PutFirst writes the first (absolute) gid of the current D's list.
func (w *Writer) PutFirst(gid ngram.GID) {
	if !w.haveD {
		panic("postlist: PutFirst outside BeginD/EndD")
	}
	if w.haveFirst {
		panic("postlist: PutFirst called twice for one D")
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(gid))
	w.body = append(w.body, buf[:]...)
	w.last = uint32(gid)
	w.count = 1
	w.haveFirst = true
}

// PutDelta writes the next gid of the current D's list, which must be
// strictly greater than the previous one written (via PutFirst or
// PutDelta).
func (w *Writer) PutDelta(gid ngram.GID) error {
	if !w.haveFirst {
		panic("postlist: PutDelta called before PutFirst")
	}
	g := uint32(gid)
	if g <= w.last {
		return fmt.Errorf("postlist: gid %d not strictly greater than previous %d", g, w.last)
	}
	w.body = varbyte.Append(w.body, g-w.last)
	w.last = g
	w.count++
	return nil
}

// EndD finishes the current D's posting list, backpatching its count.
func (w *Writer) EndD() {
	if !w.haveD {
		panic("postlist: EndD without BeginD")
	}
	if !w.haveFirst {
		panic("postlist: EndD with no entries written")
	}
	binary.LittleEndian.PutUint64(w.body[w.countAt:w.countAt+8], w.count)
	w.haveD = false
}

// Close writes the accumulated header and body to path. Callers that
// have nothing to write for an ABC prefix skip Close entirely: a prefix
// with no entries gets no file, not an all-sentinel one.
func (w *Writer) Close(path string) error {
	if w.haveD {
		panic("postlist: Close called with an unterminated D")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	var hdr [HeaderSize]byte
	for i, v := range w.header {
		binary.LittleEndian.PutUint64(hdr[i*8:i*8+8], v)
	}
	if _, err := f.Write(hdr[:]); err != nil {
		return err
	}
	if _, err := f.Write(w.body); err != nil {
		return err
	}
	return nil
}

// Reader provides random access to a posting-list file via mmap. A
// Reader for a file that does not exist on disk is valid and behaves as
// if every D were empty.
type Reader struct {
	f      *os.File
	m      mmap.MMap
	exists bool
	header [HeaderEntries]uint64
}

// Open opens the posting-list file at path. A missing file is not an
// error: it yields an "empty" Reader, since an ABC prefix with no
// matching n-grams in the corpus never gets a file written for it.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return &Reader{exists: false}, nil
	}
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.Size() < HeaderSize {
		f.Close()
		return nil, fmt.Errorf("postlist: %s is smaller than the header (%d bytes)", path, info.Size())
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}
	r := &Reader{f: f, m: m, exists: true}
	for i := 0; i < HeaderEntries; i++ {
		r.header[i] = binary.LittleEndian.Uint64(m[i*8 : i*8+8])
	}
	return r, nil
}

// Close releases the reader's mmap and file handle. A no-op on an empty
// (file-not-found) reader.
func (r *Reader) Close() error {
	if !r.exists {
		return nil
	}
	if err := r.m.Unmap(); err != nil {
		return err
	}
	return r.f.Close()
}

// Exists reports whether the underlying file was present.
func (r *Reader) Exists() bool { return r.exists }

// Cursor streams one D's posting list in ascending gid order.
type Cursor struct {
	data      []byte
	size      uint64
	processed uint64
	cur       uint32
}

// HasNext reports whether more gids remain in this posting list.
func (c *Cursor) HasNext() bool { return c.processed < c.size }

// Next returns the next gid, decoding the absolute-then-delta stream.
func (c *Cursor) Next() ngram.GID {
	if c.processed == 0 {
		c.cur = binary.LittleEndian.Uint32(c.data[:4])
		c.data = c.data[4:]
	} else {
		delta, n := varbyte.Decode(c.data)
		c.cur += delta
		c.data = c.data[n:]
	}
	c.processed++
	return ngram.GID(c.cur)
}

// Count returns the total number of gids in this posting list.
func (c *Cursor) Count() uint64 { return c.size }

// NewCursor builds a Cursor directly over a raw posting-list body slice
// (the bytes right after the 8-byte count word) and its count, for
// readers that access a posting list without going through Open, such as
// the packed-archive matcher source, which locates the body via a
// lookup-file offset into one large mmap rather than a per-ABC file.
func NewCursor(data []byte, size uint64) *Cursor {
	return &Cursor{data: data, size: size}
}

// SeekTo returns a Cursor over the posting list for suffix byte d. If
// the reader is empty, or has no list for d, the returned cursor is
// immediately exhausted (HasNext() == false, Count() == 0).
func (r *Reader) SeekTo(d byte) *Cursor {
	if !r.exists || r.header[d] == NoList {
		return &Cursor{}
	}
	off := HeaderSize + r.header[d]
	size := binary.LittleEndian.Uint64(r.m[off : off+8])
	return &Cursor{data: r.m[off+8:], size: size}
}

// Verify walks every non-empty D's posting list checking that gids are
// strictly increasing and that header offsets stay within the file. It
// returns the first inconsistency found, or nil.
func (r *Reader) Verify() error {
	if !r.exists {
		return nil
	}
	for d := 0; d < HeaderEntries; d++ {
		off := r.header[d]
		if off == NoList {
			continue
		}
		if HeaderSize+off+8 > uint64(len(r.m)) {
			return fmt.Errorf("postlist: D=%d offset %d out of range", d, off)
		}
		c := r.SeekTo(byte(d))
		var prev ngram.GID
		var i uint64
		for c.HasNext() {
			g := c.Next()
			if i > 0 && g <= prev {
				return fmt.Errorf("postlist: D=%d gid %d not strictly greater than previous %d", d, g, prev)
			}
			prev = g
			i++
		}
		if i != c.Count() {
			return fmt.Errorf("postlist: D=%d read %d entries, header said %d", d, i, c.Count())
		}
	}
	return nil
}
