// Copyright 2011 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package build

import (
	"sort"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mbrengel/yarix-go/internal/ngram"
	"github.com/mbrengel/yarix-go/internal/postlist"
)

// Converter runs stage 2: it loads each AB prefile, sorts its entries by
// (suffix, grouped-fid), dedups, and emits one posting-list file per
// non-empty high byte C of the suffix.
type Converter struct {
	cfg Config
	log zerolog.Logger
}

// NewConverter creates a Converter operating under cfg.Root.
func NewConverter(cfg Config, log zerolog.Logger) *Converter {
	return &Converter{cfg: cfg, log: log}
}

// ConvertAll converts all 2^16 AB prefiles with Config.NumConvertWorkers
// concurrent goroutines, each claiming the next AB from a shared atomic
// counter.
func (c *Converter) ConvertAll() error {
	var next atomic.Uint32
	var converted atomic.Int64
	start := time.Now()

	var g errgroup.Group
	workers := c.cfg.NumConvertWorkers
	if workers <= 0 {
		workers = 1
	}
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for {
				ab := next.Add(1) - 1
				if ab > 0xFFFF {
					return nil
				}
				if err := c.convertPrefix(uint16(ab)); err != nil {
					return err
				}
				n := converted.Add(1)
				if c.cfg.CheckpointInterval > 0 && n%int64(c.cfg.CheckpointInterval) == 0 {
					c.log.Info().Int64("prefixes", n).Dur("elapsed", time.Since(start)).Msg("stage2 progress")
				}
			}
		})
	}
	return g.Wait()
}

// convertPrefix converts a single AB prefile into up to 256 ABC
// posting-list files.
func (c *Converter) convertPrefix(ab uint16) error {
	entries, err := loadPrefile(c.cfg.Root, ab, c.cfg.MaxPLEs)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Suffix != entries[j].Suffix {
			return entries[i].Suffix < entries[j].Suffix
		}
		gi := c.cfg.Group.Group(uint32(entries[i].FID), byte(entries[i].Suffix))
		gj := c.cfg.Group.Group(uint32(entries[j].FID), byte(entries[j].Suffix))
		return gi < gj
	})

	if err := c.emit(ab, entries); err != nil {
		return err
	}
	if !c.cfg.KeepPrefiles {
		return removePrefile(c.cfg.Root, ab)
	}
	return nil
}

// emit groups the sorted entries by C, then by D, writing one
// postlist.Writer per non-empty C.
func (c *Converter) emit(ab uint16, entries []ple) error {
	i := 0
	n := len(entries)
	for i < n {
		cByte := byte(entries[i].Suffix >> 8)
		w := postlist.Create()
		wroteAny := false

		for i < n && byte(entries[i].Suffix>>8) == cByte {
			d := byte(entries[i].Suffix)
			w.BeginD(d)
			wroteAny = true

			first := true
			var last ngram.GID
			for i < n && byte(entries[i].Suffix>>8) == cByte && byte(entries[i].Suffix) == d {
				gid := ngram.GID(c.cfg.Group.Group(uint32(entries[i].FID), d))
				i++
				if !first && gid == last {
					continue // dedup: same gid already written for this D
				}
				if first {
					w.PutFirst(gid)
					first = false
				} else if err := w.PutDelta(gid); err != nil {
					return err
				}
				last = gid
			}
			w.EndD()
		}

		if wroteAny {
			path := postlistPath(c.cfg.Root, ab, cByte, c.cfg.Group.Suffix())
			if err := w.Close(path); err != nil {
				return err
			}
		}
	}
	return nil
}
