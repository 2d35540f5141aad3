// Copyright 2011 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package build

import (
	"fmt"
	"os"
	"path/filepath"
)

// InitDirs creates the 256x256 AA/BB directory tree under cfg.Root.
func InitDirs(cfg Config) error {
	for a := 0; a < 256; a++ {
		ad := filepath.Join(cfg.Root, fmt.Sprintf("%02x", a))
		if err := os.MkdirAll(ad, 0o777); err != nil {
			return err
		}
		for b := 0; b < 256; b++ {
			bd := filepath.Join(ad, fmt.Sprintf("%02x", b))
			if err := os.MkdirAll(bd, 0o777); err != nil {
				return err
			}
		}
	}
	return nil
}

// prefilePath returns the path of the AB prefile:
// <root>/<A:hex2>/<B:hex2>.prefile.
func prefilePath(root string, ab uint16) string {
	a, b := byte(ab>>8), byte(ab)
	return filepath.Join(root, fmt.Sprintf("%02x", a), fmt.Sprintf("%02x.prefile", b))
}

// postlistPath returns the path of the ABC posting-list file:
// <root>/<A:hex2>/<B:hex2>/<C:hex2>.postlist<suffix>.
func postlistPath(root string, ab uint16, c byte, suffix string) string {
	a, b := byte(ab>>8), byte(ab)
	return filepath.Join(root, fmt.Sprintf("%02x", a), fmt.Sprintf("%02x", b), fmt.Sprintf("%02x.postlist%s", c, suffix))
}
