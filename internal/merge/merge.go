// Copyright 2011 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package merge combines independently-built indices into one, rebasing
// each index's fids by a per-index shift derived from the preceding
// indices' sizes, and re-emitting delta-encoded output over a
// caller-assigned ABC range.
package merge

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/mbrengel/yarix-go/internal/ngram"
	"github.com/mbrengel/yarix-go/internal/postlist"
)

// Index describes one input index to merge: its root directory and the
// number of fids it was built over.
type Index struct {
	Dir  string
	Size uint32
}

// Config configures a Merger.
type Config struct {
	// Indices lists the inputs to merge, in the order their fid ranges
	// are concatenated. At least two are required.
	Indices []Index

	// OutDir is the root of the merged output index.
	OutDir string

	// Suffix is the grouping filename suffix (e.g. "-g20") shared by
	// every input and the output; empty when grouping is not in use.
	Suffix string
}

// Merger runs MergeRange calls against a fixed Config.
type Merger struct {
	cfg    Config
	shifts []uint32
	log    zerolog.Logger
}

// New validates cfg and precomputes per-index shifts: shift[i] is the
// sum of the sizes of every index before i, so index i's rebased fids
// all lie strictly below index i+1's.
func New(cfg Config, log zerolog.Logger) (*Merger, error) {
	if len(cfg.Indices) < 2 {
		return nil, fmt.Errorf("merge: at least two indices are required, got %d", len(cfg.Indices))
	}
	shifts := make([]uint32, len(cfg.Indices))
	var sum uint32
	for i, idx := range cfg.Indices {
		shifts[i] = sum
		sum += idx.Size
	}
	return &Merger{cfg: cfg, shifts: shifts, log: log}, nil
}

// MergeRange merges every ABC key in [offset, offset+limit) that does
// not already have a merged output file, checking ctx for cancellation
// at each ABC boundary. Completed outputs survive a cancelled run; the
// key in flight leaves at most a discardable temp file.
func (m *Merger) MergeRange(ctx context.Context, offset, limit uint32) error {
	for i := uint32(0); i < limit; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		abc := offset + i
		if err := m.mergeOne(abc); err != nil {
			return fmt.Errorf("merge: abc %06x: %w", abc, err)
		}
		n := i + 1
		if n%4096 == 0 || n == limit {
			m.log.Info().Uint32("done", n).Uint32("limit", limit).Msg("merge progress")
		}
	}
	return nil
}

// mergeOne merges a single ABC key across every configured index.
func (m *Merger) mergeOne(abc uint32) error {
	ab, c := uint16(abc>>8), byte(abc)
	outPath := postlistPath(m.cfg.OutDir, ab, c, m.cfg.Suffix)
	if _, err := os.Stat(outPath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	readers := make([]*postlist.Reader, len(m.cfg.Indices))
	defer func() {
		for _, r := range readers {
			if r != nil {
				r.Close()
			}
		}
	}()
	anyExists := false
	for i, idx := range m.cfg.Indices {
		r, err := postlist.Open(postlistPath(idx.Dir, ab, c, m.cfg.Suffix))
		if err != nil {
			return err
		}
		readers[i] = r
		if r.Exists() {
			anyExists = true
		}
	}
	if !anyExists {
		return nil
	}

	w := postlist.Create()
	wroteFile := false
	for d := 0; d < postlist.HeaderEntries; d++ {
		wroteD := false
		first := true
		for i, r := range readers {
			cur := r.SeekTo(byte(d))
			shift := m.shifts[i]
			for cur.HasNext() {
				// Indices are visited in ascending shift order, and the
				// shift construction puts index i's rebased fids entirely
				// below index i+1's, so the merged stream stays strictly
				// increasing across the index boundary.
				gid := ngram.GID(uint32(cur.Next()) + shift)
				if !wroteD {
					w.BeginD(byte(d))
					wroteD = true
					wroteFile = true
				}
				if first {
					w.PutFirst(gid)
					first = false
				} else if err := w.PutDelta(gid); err != nil {
					return fmt.Errorf("D=%d: %w", d, err)
				}
			}
		}
		if wroteD {
			w.EndD()
		}
	}
	if !wroteFile {
		return nil
	}

	tmp := outPath + ".tmp"
	if err := w.Close(tmp); err != nil {
		return err
	}
	return os.Rename(tmp, outPath)
}
