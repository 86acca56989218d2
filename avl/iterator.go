// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package avl

// First - return the node with the lowest key value
func (tree *Tree) First() *Node {
	return tree.root.first()
}

// internal: lowest node in a sub-tree
func (p *Node) first() *Node {
	if nil == p {
		return nil
	}
	for nil != p.left {
		p = p.left
	}
	return p
}

// Last - return the node with the highest key value
func (tree *Tree) Last() *Node {
	return tree.root.last()
}

// internal: highest node in a sub-tree
func (p *Node) last() *Node {
	if nil == p {
		return nil
	}
	for nil != p.right {
		p = p.right
	}
	return p
}

// Next - the node with the next highest key or nil if no more nodes
func (p *Node) Next() *Node {
	if nil != p.right {
		return p.right.first()
	}
	key := p.key
	for {
		p = p.up
		if nil == p || p.key > key {
			return p
		}
	}
}

// Prev - the node with the next lowest key or nil if no more nodes
func (p *Node) Prev() *Node {
	if nil != p.left {
		return p.left.last()
	}
	key := p.key
	for {
		p = p.up
		if nil == p || p.key < key {
			return p
		}
	}
}

// Walk - call f for each node in ascending key order, stop early if f
// returns false
func (tree *Tree) Walk(f func(*Node) bool) {
	for p := tree.First(); nil != p; p = p.Next() {
		if !f(p) {
			return
		}
	}
}
