// Copyright 2011 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package merge

import (
	"fmt"
	"path/filepath"
)

// postlistPath returns the path of the ABC posting-list file under root:
// <root>/<A:hex2>/<B:hex2>/<C:hex2>.postlist<suffix>.
func postlistPath(root string, ab uint16, c byte, suffix string) string {
	a, b := byte(ab>>8), byte(ab)
	return filepath.Join(root, fmt.Sprintf("%02x", a), fmt.Sprintf("%02x", b), fmt.Sprintf("%02x.postlist%s", c, suffix))
}
