// Copyright 2011 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package group

import "testing"

func TestDisabledIsIdentity(t *testing.T) {
	for _, fid := range []uint32{0, 1, 12345, 0xFFFFFFFF} {
		if got := Disabled.Group(fid, 0x42); got != fid {
			t.Fatalf("Disabled.Group(%d) = %d, want %d", fid, got, fid)
		}
	}
}

func TestGroupReducesRange(t *testing.T) {
	cfg := Config{Enabled: true, Exponent: 10}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	for fid := uint32(0); fid < 1000; fid++ {
		g := cfg.Group(fid, 0)
		if g >= 1<<11 {
			t.Fatalf("Group(%d) = %d exceeds expected bound", fid, g)
		}
	}
}

func TestGroupDeterministic(t *testing.T) {
	cfg := Config{Enabled: true, Exponent: 14}
	a := cfg.Group(99999, 7)
	b := cfg.Group(99999, 7)
	if a != b {
		t.Fatalf("Group not deterministic: %d != %d", a, b)
	}
}

func TestValidateRejectsOutOfRange(t *testing.T) {
	cfg := Config{Enabled: true, Exponent: 31}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for exponent 31")
	}
}

func TestSuffix(t *testing.T) {
	if Disabled.Suffix() != "" {
		t.Fatalf("Disabled.Suffix() = %q, want empty", Disabled.Suffix())
	}
	cfg := Config{Enabled: true, Exponent: 20}
	if cfg.Suffix() != "-g20" {
		t.Fatalf("Suffix() = %q, want -g20", cfg.Suffix())
	}
}
