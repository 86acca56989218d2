// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package builder

import (
	"github.com/bitmark-inc/portableglobe/quadtree"
	"github.com/bitmark-inc/portableglobe/tilestore"
)

// Source - supplies tile data; a missing tile is reported with an
// error for which fault.IsErrNotFound is true
type Source interface {
	Get(layer tilestore.Layer, address quadtree.Address) ([]byte, error)
}
