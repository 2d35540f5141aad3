// Copyright 2011 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package build implements the two-stage index build pipeline: stage 1
// (ingest) extracts distinct 4-grams per input file into 2^16
// AB-partitioned prefiles, stage 2 (convert) sorts, dedups, and emits
// one posting-list file per non-empty ABC prefix.
package build

import (
	"github.com/mbrengel/yarix-go/internal/group"
)

// Config holds every tunable of the build pipeline. Zero-value Config is
// not directly usable; start from DefaultConfig and override fields.
type Config struct {
	// Root is the output directory the two stages read and write under.
	Root string

	// NumReadWorkers is the number of stage-1 outer goroutines reading
	// input files concurrently.
	NumReadWorkers int

	// NumNgramWorkers is the number of stage-1 inner goroutines per file,
	// partitioning n-gram extraction by AB-prefix modulus so that no two
	// of them ever touch the same AB buffer within one file.
	NumNgramWorkers int

	// NumConvertWorkers is the number of stage-2 goroutines converting
	// prefiles into posting-list files concurrently.
	NumConvertWorkers int

	// MaxInMemPL bounds how many (suffix,fid) pairs an AB-prefix's
	// in-memory buffer holds before it spills to its prefile.
	MaxInMemPL int

	// MaxInputFileSize bounds a single input file's size; larger files
	// are rejected rather than silently truncated.
	MaxInputFileSize int64

	// MaxPLEs bounds how many posting-list entries a single prefile may
	// contain; a prefile exceeding this at stage-2 load time is a fatal
	// capacity error telling the operator to rebuild with a smaller -n.
	MaxPLEs uint64

	// Gzip, when true, treats every input file as gzip-compressed.
	Gzip bool

	// OmitZeroBytes drops n-grams containing a zero byte (-0).
	OmitZeroBytes bool

	// KeepPrefiles, when true, leaves stage-1's prefiles on disk after
	// stage 2 consumes them (-k), instead of removing them.
	KeepPrefiles bool

	// Group configures the optional fid-to-gid reduction (-g).
	Group group.Config

	// CheckpointInterval controls how often progress is logged, in
	// files processed (stage 1) or prefixes converted (stage 2).
	CheckpointInterval int
}

// DefaultConfig returns the standard tunables.
func DefaultConfig() Config {
	return Config{
		NumReadWorkers:     8,
		NumNgramWorkers:    16,
		NumConvertWorkers:  6,
		MaxInMemPL:         1024,
		MaxInputFileSize:   2 * 1024 * 1024 * 1024,
		MaxPLEs:            4_000_000_000,
		CheckpointInterval: 1000,
	}
}
