// Copyright 2011 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package match

import (
	"fmt"
	"path/filepath"

	"github.com/mbrengel/yarix-go/internal/ngram"
	"github.com/mbrengel/yarix-go/internal/postlist"
)

// DirSource resolves n-grams against an unpacked index directory. It
// caches one postlist.Reader per ABC prefix file actually touched by a
// query, since a single query commonly repeats an ABC across several D
// values.
type DirSource struct {
	root   string
	suffix string
	opened map[uint32]*postlist.Reader
}

// NewDirSource opens queries against root, an index directory produced
// by the builder and optionally merged. suffix is the grouping filename
// suffix ("-g20" or "") shared by every file in root.
func NewDirSource(root, suffix string) *DirSource {
	return &DirSource{root: root, suffix: suffix, opened: make(map[uint32]*postlist.Reader)}
}

// postlistPath returns <root>/<A:hex2>/<B:hex2>/<C:hex2>.postlist<suffix>.
func postlistPath(root string, abc uint32, suffix string) string {
	a, b, c := byte(abc>>16), byte(abc>>8), byte(abc)
	return filepath.Join(root, fmt.Sprintf("%02x", a), fmt.Sprintf("%02x", b), fmt.Sprintf("%02x.postlist%s", c, suffix))
}

// Cursor opens (or reuses) the ABC file for ng and seeks to its D list.
func (s *DirSource) Cursor(ng ngram.NGram) (*postlist.Cursor, error) {
	abc := ng.ABC()
	r, ok := s.opened[abc]
	if !ok {
		var err error
		r, err = postlist.Open(postlistPath(s.root, abc, s.suffix))
		if err != nil {
			return nil, err
		}
		s.opened[abc] = r
	}
	return r.SeekTo(ng.D()), nil
}

// Close releases every ABC file opened during the query's lifetime.
func (s *DirSource) Close() error {
	var first error
	for _, r := range s.opened {
		if err := r.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
