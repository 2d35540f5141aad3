// Copyright 2011 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package match implements the K-of-N posting-list intersection query:
// given a set of 4-grams and a minimum-match threshold, return every
// file identifier whose postings cover at least that many of the
// n-grams, using a size-ordered traversal with an early-exit bound.
package match

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mbrengel/yarix-go/internal/ngram"
	"github.com/mbrengel/yarix-go/internal/postlist"
)

// ErrMatchInternal is returned when the matcher cannot safely record a
// result (a decoded fid falls outside the counter array), distinguished
// from a valid empty result set.
var ErrMatchInternal = errors.New("match: internal allocation failure")

// Config holds the matcher's tunables.
type Config struct {
	// NFids bounds the counter array: every fid a query can possibly
	// produce must be < NFids.
	NFids uint32
}

// DefaultConfig sizes the counter array for a corpus of about 32M files.
func DefaultConfig() Config {
	return Config{NFids: 32_321_740}
}

// Source resolves an n-gram to the posting-list cursor covering its
// suffix byte D, abstracting over the directory and tar-packed index
// layouts.
type Source interface {
	Cursor(ng ngram.NGram) (*postlist.Cursor, error)
}

// Matcher owns the u16 fid counter array used across Match calls. It is
// not safe for concurrent use; callers either serialize calls or
// allocate one Matcher per goroutine.
type Matcher struct {
	cfg    Config
	counts []uint16
}

// New allocates a Matcher with a zeroed counter array sized to cfg.NFids.
func New(cfg Config) *Matcher {
	if cfg.NFids == 0 {
		cfg = DefaultConfig()
	}
	return &Matcher{cfg: cfg, counts: make([]uint16, cfg.NFids)}
}

// Reset zeroes the counter array. Match calls it on entry, so a Matcher
// can be reused across queries without further bookkeeping.
func (m *Matcher) Reset() {
	clear(m.counts)
}

type tuple struct {
	cur   *postlist.Cursor
	count uint64
}

// Match returns every fid covered by at least minMatches of ngrams'
// posting lists, reading through src.
func (m *Matcher) Match(src Source, ngrams []ngram.NGram, minMatches int) (map[ngram.FID]struct{}, error) {
	if minMatches <= 0 {
		return nil, fmt.Errorf("match: minMatches must be positive, got %d", minMatches)
	}
	m.Reset()

	n := len(ngrams)
	tuples := make([]tuple, n)
	bestcase := 0
	for i, ng := range ngrams {
		cur, err := src.Cursor(ng)
		if err != nil {
			return nil, err
		}
		tuples[i] = tuple{cur: cur, count: cur.Count()}
		if cur.Count() > 0 {
			bestcase++
		}
	}

	// Fewer nonempty lists than the threshold means no fid can qualify.
	if bestcase < minMatches {
		return map[ngram.FID]struct{}{}, nil
	}

	sort.Slice(tuples, func(i, j int) bool { return tuples[i].count < tuples[j].count })

	result := make(map[ngram.FID]struct{})
	maxseen := 0
	for i := 0; i < n; i++ {
		// No remaining fid can reach minMatches once the best possible
		// total (current max plus every list still unprocessed) falls
		// short.
		if maxseen+(n-i) < minMatches {
			break
		}
		cur := tuples[i].cur
		for cur.HasNext() {
			fid := ngram.FID(cur.Next())
			if uint32(fid) >= m.cfg.NFids {
				return nil, ErrMatchInternal
			}
			m.counts[fid]++
			if int(m.counts[fid]) > maxseen {
				maxseen = int(m.counts[fid])
			}
			if int(m.counts[fid]) == minMatches {
				result[fid] = struct{}{}
			}
		}
	}
	return result, nil
}
