// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package avl

import (
	"github.com/bitmark-inc/portableglobe/quadtree"
)

// Insert - add a key and its value
//
// returns false, leaving the tree unchanged, if the key is already present
func (tree *Tree) Insert(key quadtree.Key, value interface{}) bool {
	root, added, _ := insert(key, value, tree.root)
	tree.root = root
	if added {
		tree.count += 1
	}
	return added
}

// returns: new sub-tree root, node added, sub-tree height increased
func insert(key quadtree.Key, value interface{}, p *Node) (*Node, bool, bool) {
	if nil == p {
		return &Node{key: key, value: value}, true, true
	}

	switch {
	case key < p.key:
		child, added, grown := insert(key, value, p.left)
		p.left = child
		child.up = p
		if added {
			p.leftNodes += 1
		}
		if !grown {
			return p, added, false
		}
		p.balance -= 1
		if p.balance > -2 {
			return p, added, -1 == p.balance
		}
		return fixLeftHeavy(p), added, false

	case key > p.key:
		child, added, grown := insert(key, value, p.right)
		p.right = child
		child.up = p
		if added {
			p.rightNodes += 1
		}
		if !grown {
			return p, added, false
		}
		p.balance += 1
		if p.balance < 2 {
			return p, added, 1 == p.balance
		}
		return fixRightHeavy(p), added, false
	}

	// duplicate: keep the original
	return p, false, false
}

// p.balance == -2
func fixLeftHeavy(p *Node) *Node {
	l := p.left
	if -1 == l.balance {
		q := rotateRight(p)
		p.balance = 0
		q.balance = 0
		return q
	}

	lr := l.right
	p.left = rotateLeft(l)
	q := rotateRight(p)
	p.balance, l.balance = splitBalance(lr.balance)
	lr.balance = 0
	return q
}

// p.balance == +2
func fixRightHeavy(p *Node) *Node {
	r := p.right
	if 1 == r.balance {
		q := rotateLeft(p)
		p.balance = 0
		q.balance = 0
		return q
	}

	rl := r.left
	p.right = rotateRight(r)
	q := rotateLeft(p)
	r.balance, p.balance = splitBalance(rl.balance)
	rl.balance = 0
	return q
}

// balances of the right and left results of a double rotation, given
// the balance of the node that became the new sub-tree root
func splitBalance(b int) (int, int) {
	switch b {
	case -1:
		return 1, 0
	case 1:
		return 0, -1
	}
	return 0, 0
}

// left child becomes the sub-tree root
func rotateRight(p *Node) *Node {
	q := p.left
	p.left = q.right
	if nil != p.left {
		p.left.up = p
	}
	q.right = p
	q.up = p.up
	p.up = q

	p.leftNodes = q.rightNodes
	q.rightNodes = 1 + p.leftNodes + p.rightNodes
	return q
}

// right child becomes the sub-tree root
func rotateLeft(p *Node) *Node {
	q := p.right
	p.right = q.left
	if nil != p.right {
		p.right.up = p
	}
	q.left = p
	q.up = p.up
	p.up = q

	p.rightNodes = q.leftNodes
	q.leftNodes = 1 + p.leftNodes + p.rightNodes
	return q
}
