// Copyright 2011 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package match

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"

	"github.com/mbrengel/yarix-go/internal/ngram"
	"github.com/mbrengel/yarix-go/internal/postlist"
)

// lookupEntries is the fixed size of the .lookup sidecar: one 8-byte
// offset per possible 24-bit ABC key.
const lookupEntries = 1 << 24

// TarSource resolves n-grams against a tar-packed index: a single file
// holding every ABC posting-list file's bytes back to back, plus a
// `<base>.lookup` sidecar mapping a byte-swapped ABC key to that file's
// absolute byte offset within the packed archive.
type TarSource struct {
	base      *os.File
	baseMap   mmap.MMap
	lookup    *os.File
	lookupMap mmap.MMap
}

// NewTarSource opens basePath and basePath+".lookup" via mmap.
func NewTarSource(basePath string) (*TarSource, error) {
	base, err := os.Open(basePath)
	if err != nil {
		return nil, err
	}
	baseMap, err := mmap.Map(base, mmap.RDONLY, 0)
	if err != nil {
		base.Close()
		return nil, err
	}
	lookup, err := os.Open(basePath + ".lookup")
	if err != nil {
		baseMap.Unmap()
		base.Close()
		return nil, err
	}
	lookupMap, err := mmap.Map(lookup, mmap.RDONLY, 0)
	if err != nil {
		lookup.Close()
		baseMap.Unmap()
		base.Close()
		return nil, err
	}
	// A full sidecar holds lookupEntries*8 bytes, but Cursor bounds-checks
	// every offset it reads against len(lookupMap) directly, so a short
	// file (as in a synthetic test fixture) is rejected lazily per-lookup
	// rather than eagerly here.
	return &TarSource{base: base, baseMap: baseMap, lookup: lookup, lookupMap: lookupMap}, nil
}

// Close releases both mmaps and file handles.
func (s *TarSource) Close() error {
	err1 := s.lookupMap.Unmap()
	err2 := s.lookup.Close()
	err3 := s.baseMap.Unmap()
	err4 := s.base.Close()
	for _, err := range []error{err1, err2, err3, err4} {
		if err != nil {
			return err
		}
	}
	return nil
}

// swapABC computes the sidecar's index permutation: given 24-bit
// k = A|B|C it returns ((k&0xFF0000)>>16) | (k&0xFF00) | ((k&0xFF)<<16),
// i.e. A and C trade places while B stays put. The sidecar format
// depends on this exact permutation.
func swapABC(abc uint32) uint32 {
	return ((abc & 0xFF0000) >> 16) | (abc & 0xFF00) | ((abc & 0xFF) << 16)
}

// Cursor looks up ng's ABC in the sidecar, then (if present) seeks
// directly into the packed archive for its D list.
func (s *TarSource) Cursor(ng ngram.NGram) (*postlist.Cursor, error) {
	abc := ng.ABC()
	lookupOff := 8 * uint64(swapABC(abc))
	if lookupOff+8 > uint64(len(s.lookupMap)) {
		return nil, fmt.Errorf("match: lookup offset out of range for abc %06x", abc)
	}
	prefixOffset := binary.LittleEndian.Uint64(s.lookupMap[lookupOff : lookupOff+8])
	if prefixOffset == 0 {
		return postlist.NewCursor(nil, 0), nil
	}

	hdrOff := prefixOffset + 8*uint64(ng.D())
	if hdrOff+8 > uint64(len(s.baseMap)) {
		return nil, fmt.Errorf("match: header offset out of range for abc %06x", abc)
	}
	o := binary.LittleEndian.Uint64(s.baseMap[hdrOff : hdrOff+8])
	if o == postlist.NoList {
		return postlist.NewCursor(nil, 0), nil
	}

	bodyOff := prefixOffset + uint64(postlist.HeaderSize) + o
	if bodyOff+8 > uint64(len(s.baseMap)) {
		return nil, fmt.Errorf("match: body offset out of range for abc %06x", abc)
	}
	size := binary.LittleEndian.Uint64(s.baseMap[bodyOff : bodyOff+8])
	return postlist.NewCursor(s.baseMap[bodyOff+8:], size), nil
}
