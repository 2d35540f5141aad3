// Copyright 2011 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package match

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mbrengel/yarix-go/internal/build"
	"github.com/mbrengel/yarix-go/internal/ngram"
)

func buildTestIndex(t *testing.T, files [][]byte) string {
	t.Helper()
	root := t.TempDir()
	srcDir := t.TempDir()

	cfg := build.DefaultConfig()
	cfg.Root = root
	cfg.NumReadWorkers = 1
	cfg.NumNgramWorkers = 1
	cfg.NumConvertWorkers = 1
	if err := build.InitDirs(cfg); err != nil {
		t.Fatal(err)
	}

	var paths []string
	for i, content := range files {
		p := filepath.Join(srcDir, string(rune('a'+i)))
		if err := os.WriteFile(p, content, 0o644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, p)
	}
	log := zerolog.Nop()
	ing := build.NewIngester(cfg, log)
	if err := ing.IngestAll(context.Background(), paths); err != nil {
		t.Fatal(err)
	}
	conv := build.NewConverter(cfg, log)
	if err := conv.ConvertAll(); err != nil {
		t.Fatal(err)
	}
	return root
}

// TestMatchKOfN builds four synthetic files giving n-grams A/B/C the
// posting lists A={0,1,2}, B={1,2,3}, C={2}, then checks K=2 and K=3
// queries against the counts that layout implies.
func TestMatchKOfN(t *testing.T) {
	a := ngram.New(0x01, 0x02, 0x03, 0x04)
	b := ngram.New(0x05, 0x06, 0x07, 0x08)
	c := ngram.New(0x09, 0x0A, 0x0B, 0x0C)

	ngBytes := func(g ngram.NGram) []byte {
		return []byte{byte(g >> 24), byte(g >> 16), byte(g >> 8), byte(g)}
	}
	concat := func(gs ...ngram.NGram) []byte {
		var out []byte
		for _, g := range gs {
			out = append(out, ngBytes(g)...)
		}
		return out
	}

	// A covers fids {0,1,2}, B covers {1,2,3}, C covers {2} only:
	// fid 0 = A, fid 1 = A+B, fid 2 = A+B+C, fid 3 = B.
	files := [][]byte{
		concat(a),
		concat(a, b),
		concat(a, b, c),
		concat(b),
	}
	root := buildTestIndex(t, files)

	m := New(Config{NFids: 16})
	src := NewDirSource(root, "")
	defer src.Close()

	got, err := m.Match(src, []ngram.NGram{a, b, c}, 2)
	if err != nil {
		t.Fatal(err)
	}
	// fid 0 matches only A (count 1), fid 3 matches only B (count 1); only
	// fid 1 (A+B) and fid 2 (A+B+C) reach the K=2 threshold.
	want := map[ngram.FID]struct{}{1: {}, 2: {}}
	if len(got) != len(want) {
		t.Fatalf("K=2: got %v, want %v", got, want)
	}
	for fid := range want {
		if _, ok := got[fid]; !ok {
			t.Fatalf("K=2: missing fid %d in %v", fid, got)
		}
	}

	got, err = m.Match(src, []ngram.NGram{a, b, c}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("K=3: got %v, want {2}", got)
	}
	if _, ok := got[2]; !ok {
		t.Fatalf("K=3: got %v, want {2}", got)
	}
}

func TestMatchEarlyExitNoNonemptyLists(t *testing.T) {
	root := buildTestIndex(t, [][]byte{{0x01, 0x02, 0x03, 0x04}})
	m := New(Config{NFids: 16})
	src := NewDirSource(root, "")
	defer src.Close()

	absent := ngram.New(0xFF, 0xFE, 0xFD, 0xFC)
	got, err := m.Match(src, []ngram.NGram{absent}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result for an n-gram with no postings, got %v", got)
	}
}

func TestMatchRejectsNonPositiveThreshold(t *testing.T) {
	m := New(Config{NFids: 16})
	if _, err := m.Match(NewDirSource(t.TempDir(), ""), nil, 0); err == nil {
		t.Fatal("expected an error for minMatches=0")
	}
}
