// Copyright 2011 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package varbyte implements the 7-bit-payload, MSB-continuation byte
// codec used for fid deltas inside posting lists. It is never used to
// encode the first (absolute) fid of a list, nor the posting-list header
// offsets, which are always fixed-width little-endian.
package varbyte

// MaxLen is the maximum number of bytes Append can produce for a uint32.
const MaxLen = 5

// Append encodes x as a varbyte sequence and appends it to dst, returning
// the extended slice.
func Append(dst []byte, x uint32) []byte {
	for x >= 0x80 {
		dst = append(dst, byte(x&0x7F)|0x80)
		x >>= 7
	}
	return append(dst, byte(x))
}

// Decode reads one varbyte-encoded value from the front of src, returning
// the decoded value and the number of bytes consumed. n is 0 if src does
// not contain a complete encoding (ran out of bytes before a terminator
// byte with a clear continuation bit).
func Decode(src []byte) (x uint32, n int) {
	var shift uint
	for n < MaxLen {
		if n >= len(src) {
			return 0, 0
		}
		b := src[n]
		x |= uint32(b&0x7F) << shift
		n++
		if b&0x80 == 0 {
			return x, n
		}
		shift += 7
	}
	return 0, 0
}
