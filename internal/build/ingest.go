// Copyright 2011 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package build

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mbrengel/yarix-go/internal/ngram"
)

// ErrFileTooLarge is returned when an input file exceeds
// Config.MaxInputFileSize.
type ErrFileTooLarge struct {
	Path string
	Size int64
	Max  int64
}

func (e *ErrFileTooLarge) Error() string {
	return fmt.Sprintf("build: %s is %d bytes, exceeding MaxInputFileSize=%d", e.Path, e.Size, e.Max)
}

// Ingester runs stage 1: it reads a corpus of files, extracts each
// file's distinct 4-grams, and partitions them by AB prefix into 2^16
// bounded in-memory buffers that spill to prefiles on overflow.
type Ingester struct {
	cfg Config
	log zerolog.Logger

	mu      [65536]sync.Mutex
	buffers [65536][]ple
}

// NewIngester creates an Ingester writing under cfg.Root.
func NewIngester(cfg Config, log zerolog.Logger) *Ingester {
	ing := &Ingester{cfg: cfg, log: log}
	for ab := range ing.buffers {
		ing.buffers[ab] = make([]ple, 0, cfg.MaxInMemPL)
	}
	return ing
}

// IngestAll assigns each path in filenames a dense fid in slice order and
// processes them with Config.NumReadWorkers concurrent workers, then
// flushes every remaining in-memory buffer to its prefile.
func (ing *Ingester) IngestAll(ctx context.Context, filenames []string) error {
	var next atomic.Int64
	var processed atomic.Int64
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	workers := ing.cfg.NumReadWorkers
	if workers <= 0 {
		workers = 1
	}
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				i := next.Add(1) - 1
				if int(i) >= len(filenames) {
					return nil
				}
				// fid equals the file's position in the input list, not a
				// separately-raced counter, so fid assignment order is
				// independent of which worker happens to process it first.
				fid := ngram.FID(i)
				if err := ing.processFile(filenames[i], fid); err != nil {
					return err
				}
				n := processed.Add(1)
				if ing.cfg.CheckpointInterval > 0 && n%int64(ing.cfg.CheckpointInterval) == 0 {
					ing.log.Info().Int64("files", n).Dur("elapsed", time.Since(start)).Msg("stage1 progress")
				}
			}
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ing.flushAll()
}

// processFile reads one input file and fans its distinct 4-grams across
// Config.NumNgramWorkers goroutines partitioned by AB prefix modulus, so
// no two goroutines ever touch the same AB's buffer for this file.
func (ing *Ingester) processFile(path string, fid ngram.FID) error {
	buf, err := ing.readFile(path)
	if err != nil {
		return err
	}
	if len(buf) < 4 {
		return nil
	}

	workers := ing.cfg.NumNgramWorkers
	if workers <= 0 {
		workers = 1
	}
	errs := make([]error, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for tid := 0; tid < workers; tid++ {
		go func(tid int) {
			defer wg.Done()
			errs[tid] = ing.extractForWorker(buf, fid, tid, workers)
		}(tid)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func (ing *Ingester) readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if !ing.cfg.Gzip && info.Size() > ing.cfg.MaxInputFileSize {
		return nil, &ErrFileTooLarge{Path: path, Size: info.Size(), Max: ing.cfg.MaxInputFileSize}
	}

	var r io.Reader = f
	if ing.cfg.Gzip {
		gz, err := gzip.NewReader(bufio.NewReader(f))
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		r = gz
	}

	limited := io.LimitReader(r, ing.cfg.MaxInputFileSize+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > ing.cfg.MaxInputFileSize {
		return nil, &ErrFileTooLarge{Path: path, Size: int64(len(data)), Max: ing.cfg.MaxInputFileSize}
	}
	return data, nil
}

// extractForWorker extracts the distinct 4-grams whose AB prefix maps to
// this worker (ab % workers == tid), deduplicating via a local set.
func (ing *Ingester) extractForWorker(buf []byte, fid ngram.FID, tid, workers int) error {
	seen := make(map[uint32]struct{})
	var spill map[uint16][]ple

	for i := 0; i+4 <= len(buf); i++ {
		v := uint32(buf[i])<<24 | uint32(buf[i+1])<<16 | uint32(buf[i+2])<<8 | uint32(buf[i+3])
		ab := uint16(v >> 16)
		if int(ab)%workers != tid {
			continue
		}
		if ing.cfg.OmitZeroBytes && ngram.NGram(v).HasZeroByte() {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}

		if spill == nil {
			spill = make(map[uint16][]ple)
		}
		spill[ab] = append(spill[ab], ple{Suffix: uint16(v), FID: fid})
	}

	for ab, entries := range spill {
		if err := ing.addEntries(ab, entries); err != nil {
			return err
		}
	}
	return nil
}

// addEntries appends entries to AB's in-memory buffer under its lock,
// spilling the buffer to its prefile first if it would overflow. A spill
// failure aborts the build.
func (ing *Ingester) addEntries(ab uint16, entries []ple) error {
	ing.mu[ab].Lock()
	defer ing.mu[ab].Unlock()

	for _, e := range entries {
		if len(ing.buffers[ab]) >= ing.cfg.MaxInMemPL {
			if err := appendPrefile(ing.cfg.Root, ab, ing.buffers[ab]); err != nil {
				return err
			}
			ing.buffers[ab] = ing.buffers[ab][:0]
		}
		ing.buffers[ab] = append(ing.buffers[ab], e)
	}
	return nil
}

// flushAll spills every AB buffer that still has content, workers
// claiming AB prefixes from a shared counter.
func (ing *Ingester) flushAll() error {
	var next atomic.Uint32
	var g errgroup.Group
	workers := ing.cfg.NumReadWorkers
	if workers <= 0 {
		workers = 1
	}
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for {
				ab := next.Add(1) - 1
				if int(ab) >= len(ing.buffers) {
					return nil
				}
				ing.mu[ab].Lock()
				entries := ing.buffers[ab]
				ing.buffers[ab] = nil
				ing.mu[ab].Unlock()
				if err := appendPrefile(ing.cfg.Root, uint16(ab), entries); err != nil {
					return err
				}
			}
		})
	}
	return g.Wait()
}
