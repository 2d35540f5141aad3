// Copyright 2011 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package build

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mbrengel/yarix-go/internal/postlist"
)

func writeSample(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBuildSingleFileTrivial(t *testing.T) {
	// One file "ABCD" has a single distinct 4-gram; its posting list is
	// {count:1, first:0}.
	root := t.TempDir()
	srcDir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Root = root
	cfg.NumReadWorkers = 1
	cfg.NumNgramWorkers = 1
	cfg.NumConvertWorkers = 1

	if err := InitDirs(cfg); err != nil {
		t.Fatal(err)
	}

	path := writeSample(t, srcDir, "a", []byte("ABCD"))
	log := zerolog.Nop()

	ing := NewIngester(cfg, log)
	if err := ing.IngestAll(context.Background(), []string{path}); err != nil {
		t.Fatal(err)
	}
	conv := NewConverter(cfg, log)
	if err := conv.ConvertAll(); err != nil {
		t.Fatal(err)
	}

	r, err := postlist.Open(postlistPath(root, 0x4142, 0x43, ""))
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if !r.Exists() {
		t.Fatal("expected a posting-list file for ABC=0x414243")
	}
	c := r.SeekTo(0x44)
	if c.Count() != 1 {
		t.Fatalf("count = %d, want 1", c.Count())
	}
	if !c.HasNext() {
		t.Fatal("expected one entry")
	}
	if got := c.Next(); got != 0 {
		t.Fatalf("fid = %d, want 0", got)
	}
}

func TestBuildWithinFileDedup(t *testing.T) {
	// A file containing the same 4-gram twice still produces a posting
	// list of count 1.
	root := t.TempDir()
	srcDir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Root = root
	cfg.NumReadWorkers = 1
	cfg.NumNgramWorkers = 1
	cfg.NumConvertWorkers = 1
	if err := InitDirs(cfg); err != nil {
		t.Fatal(err)
	}

	path := writeSample(t, srcDir, "a", []byte("ABCDABCD"))
	log := zerolog.Nop()
	ing := NewIngester(cfg, log)
	if err := ing.IngestAll(context.Background(), []string{path}); err != nil {
		t.Fatal(err)
	}
	conv := NewConverter(cfg, log)
	if err := conv.ConvertAll(); err != nil {
		t.Fatal(err)
	}

	r, err := postlist.Open(postlistPath(root, 0x4142, 0x43, ""))
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	c := r.SeekTo(0x44)
	if c.Count() != 1 {
		t.Fatalf("count = %d, want 1 (within-file dedup)", c.Count())
	}
}

func TestBuildCrossFileDedupAndOrdering(t *testing.T) {
	// Two files share a 4-gram; the posting list holds both fids once
	// each, first fid absolute, second a delta of 1.
	root := t.TempDir()
	srcDir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Root = root
	cfg.NumReadWorkers = 1
	cfg.NumNgramWorkers = 1
	cfg.NumConvertWorkers = 1
	if err := InitDirs(cfg); err != nil {
		t.Fatal(err)
	}

	p0 := writeSample(t, srcDir, "a", []byte("ABCD"))
	p1 := writeSample(t, srcDir, "b", []byte("ABCD"))
	log := zerolog.Nop()
	ing := NewIngester(cfg, log)
	if err := ing.IngestAll(context.Background(), []string{p0, p1}); err != nil {
		t.Fatal(err)
	}
	conv := NewConverter(cfg, log)
	if err := conv.ConvertAll(); err != nil {
		t.Fatal(err)
	}

	r, err := postlist.Open(postlistPath(root, 0x4142, 0x43, ""))
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	c := r.SeekTo(0x44)
	if c.Count() != 2 {
		t.Fatalf("count = %d, want 2", c.Count())
	}
	if got := c.Next(); got != 0 {
		t.Fatalf("first fid = %d, want 0", got)
	}
	if got := c.Next(); got != 1 {
		t.Fatalf("second fid = %d, want 1", got)
	}
}

func TestBuildZeroByteFilter(t *testing.T) {
	// With OmitZeroBytes, an n-gram touching a zero byte is dropped
	// entirely.
	root := t.TempDir()
	srcDir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Root = root
	cfg.NumReadWorkers = 1
	cfg.NumNgramWorkers = 1
	cfg.NumConvertWorkers = 1
	cfg.OmitZeroBytes = true
	if err := InitDirs(cfg); err != nil {
		t.Fatal(err)
	}

	path := writeSample(t, srcDir, "a", []byte{'A', 'B', 'C', 0x00})
	log := zerolog.Nop()
	ing := NewIngester(cfg, log)
	if err := ing.IngestAll(context.Background(), []string{path}); err != nil {
		t.Fatal(err)
	}
	conv := NewConverter(cfg, log)
	if err := conv.ConvertAll(); err != nil {
		t.Fatal(err)
	}

	r, err := postlist.Open(postlistPath(root, 0x4142, 0x43, ""))
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if r.Exists() {
		t.Fatal("expected no posting-list file for a zero-byte n-gram")
	}
}
