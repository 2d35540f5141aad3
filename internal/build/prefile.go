// Copyright 2011 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package build

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/mbrengel/yarix-go/internal/ngram"
)

// ple is one preliminary posting-list entry: a 4-gram's suffix (the low
// 16 bits, i.e. CD) paired with the fid that contained it. On disk it is
// 6 bytes, little-endian.
type ple struct {
	Suffix uint16
	FID    ngram.FID
}

const pleSize = 6

func encodePLEs(entries []ple) []byte {
	buf := make([]byte, len(entries)*pleSize)
	for i, e := range entries {
		off := i * pleSize
		binary.LittleEndian.PutUint16(buf[off:], e.Suffix)
		binary.LittleEndian.PutUint32(buf[off+2:], uint32(e.FID))
	}
	return buf
}

func decodePLEs(buf []byte) []ple {
	n := len(buf) / pleSize
	out := make([]ple, n)
	for i := 0; i < n; i++ {
		off := i * pleSize
		out[i] = ple{
			Suffix: binary.LittleEndian.Uint16(buf[off:]),
			FID:    ngram.FID(binary.LittleEndian.Uint32(buf[off+2:])),
		}
	}
	return out
}

// appendPrefile appends entries to the AB prefile, opening and closing
// the file per call so that any worker can spill any prefix.
func appendPrefile(root string, ab uint16, entries []ple) error {
	if len(entries) == 0 {
		return nil
	}
	f, err := os.OpenFile(prefilePath(root, ab), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(encodePLEs(entries))
	return err
}

// ErrCapacityExceeded is returned by loadPrefile when a prefile holds
// more entries than Config.MaxPLEs allows.
type ErrCapacityExceeded struct {
	Path    string
	NumPLEs uint64
	MaxPLEs uint64
}

func (e *ErrCapacityExceeded) Error() string {
	return fmt.Sprintf("build: prefile %s holds %d entries, exceeding MaxPLEs=%d", e.Path, e.NumPLEs, e.MaxPLEs)
}

// loadPrefile reads an entire AB prefile into memory. A missing prefile
// (an AB prefix that never occurred in the corpus) yields a nil slice,
// not an error.
func loadPrefile(root string, ab uint16, maxPLEs uint64) ([]ple, error) {
	path := prefilePath(root, ab)
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	n := uint64(info.Size()) / pleSize
	if n > maxPLEs {
		return nil, &ErrCapacityExceeded{Path: path, NumPLEs: n, MaxPLEs: maxPLEs}
	}
	buf := make([]byte, info.Size())
	if _, err := f.ReadAt(buf, 0); err != nil {
		return nil, err
	}
	return decodePLEs(buf), nil
}

// removePrefile deletes the AB prefile once stage 2 has consumed it,
// unless the caller asked to keep prefiles around (-k).
func removePrefile(root string, ab uint16) error {
	err := os.Remove(prefilePath(root, ab))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
