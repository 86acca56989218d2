// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package avl

import (
	"github.com/bitmark-inc/portableglobe/quadtree"
)

// Search - find a specific key, also returns its position in key order
//
// returns nil, -1 if the key is absent
func (tree *Tree) Search(key quadtree.Key) (*Node, int) {
	p := tree.root
	index := 0
	for nil != p {
		switch {
		case p.key > key:
			p = p.left
		case p.key < key:
			index += p.leftNodes + 1
			p = p.right
		default:
			return p, index + p.leftNodes
		}
	}
	return nil, -1
}
