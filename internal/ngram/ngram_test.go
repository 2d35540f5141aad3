// Copyright 2011 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ngram

import "testing"

func TestDecomposition(t *testing.T) {
	g := New(0x12, 0x34, 0x56, 0x78)
	if g.AB() != 0x1234 {
		t.Fatalf("AB() = %x, want 1234", g.AB())
	}
	if g.C() != 0x56 {
		t.Fatalf("C() = %x, want 56", g.C())
	}
	if g.D() != 0x78 {
		t.Fatalf("D() = %x, want 78", g.D())
	}
	if g.ABC() != 0x123456 {
		t.Fatalf("ABC() = %x, want 123456", g.ABC())
	}
}

func TestHasZeroByte(t *testing.T) {
	if !New(0x00, 0x01, 0x02, 0x03).HasZeroByte() {
		t.Fatal("expected zero byte in leading position")
	}
	if !New(0x01, 0x02, 0x03, 0x00).HasZeroByte() {
		t.Fatal("expected zero byte in trailing position")
	}
	if New(0x01, 0x02, 0x03, 0x04).HasZeroByte() {
		t.Fatal("did not expect zero byte")
	}
}
