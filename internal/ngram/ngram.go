// Copyright 2011 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ngram defines the core value types of the index: the 4-byte
// n-gram key and the file/group identifiers it maps to, along with the
// prefix/suffix decomposition that drives the on-disk layout.
package ngram

// NGram is a 4-byte n-gram, stored as a big-endian-ordered uint32 so that
// byte comparison of the original 4 bytes matches numeric comparison of
// the NGram value: byte 0 is the high byte.
type NGram uint32

// New builds an NGram from its 4 constituent bytes, MSB first.
func New(b0, b1, b2, b3 byte) NGram {
	return NGram(uint32(b0)<<24 | uint32(b1)<<16 | uint32(b2)<<8 | uint32(b3))
}

// ABC is the 24-bit prefix selecting a posting-list file.
func (g NGram) ABC() uint32 { return uint32(g) >> 8 }

// D is the 8-bit suffix selecting a posting list within that file.
func (g NGram) D() byte { return byte(g) }

// AB is the 16-bit prefix selecting a stage-1 in-memory buffer / prefile.
func (g NGram) AB() uint16 { return uint16(g >> 16) }

// C is the byte distinguishing one posting-list file from another within
// the same AB prefix (the low byte of ABC, i.e. the high byte of the
// 16-bit suffix CD).
func (g NGram) C() byte { return byte(g >> 8) }

// HasZeroByte reports whether any of the n-gram's 4 bytes is 0x00, used
// by the builder's -0 filter to drop n-grams that straddle or touch a NUL
// byte.
func (g NGram) HasZeroByte() bool {
	return byte(g>>24) == 0 || byte(g>>16) == 0 || byte(g>>8) == 0 || byte(g) == 0
}

// FID is a file identifier: a dense, zero-based index assigned in input
// order across an entire build.
type FID uint32

// GID is a (possibly grouped) identifier stored in a posting list. When
// grouping is disabled GID == FID; when enabled it is FID reduced modulo
// a per-(exponent,D) prime (see package group).
type GID uint32
