// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package avl

import (
	"github.com/bitmark-inc/portableglobe/quadtree"
)

// Node - a key and its data
type Node struct {
	left       *Node // left sub-tree
	right      *Node // right sub-tree
	up         *Node // points to parent node
	key        quadtree.Key
	value      interface{}
	balance    int // -1, 0, +1
	leftNodes  int // count of nodes in left sub-tree
	rightNodes int // count of nodes in right sub-tree
}

// Tree - type to hold the root node of a tree
type Tree struct {
	root  *Node
	count int
}

// New - create an initially empty tree
func New() *Tree {
	return &Tree{}
}

// IsEmpty - true if tree contains no data
func (tree *Tree) IsEmpty() bool {
	return nil == tree.root
}

// Count - number of nodes currently in the tree
func (tree *Tree) Count() int {
	return tree.count
}

// Key - read the key from a node
func (p *Node) Key() quadtree.Key {
	return p.key
}

// Value - read the value from a node
func (p *Node) Value() interface{} {
	return p.value
}
