// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package quadtree

import (
	"strings"

	"github.com/bitmark-inc/portableglobe/fault"
)

// MaxLevel - deepest level an address may have
const MaxLevel = 24

// Address - a quadtree path from the root
type Address string

// Root - the address of the level 0 tile
const Root = Address("")

// ParseAddress - validate a string as an address
func ParseAddress(s string) (Address, error) {
	if len(s) > MaxLevel {
		return Root, fault.ErrInvalidAddress
	}
	for i := 0; i < len(s); i += 1 {
		if s[i] < '0' || s[i] > '3' {
			return Root, fault.ErrInvalidAddress
		}
	}
	return Address(s), nil
}

// IsValid - true if only quadrant digits and not too deep
func (a Address) IsValid() bool {
	_, err := ParseAddress(string(a))
	return nil == err
}

// Level - depth of the address below the root
func (a Address) Level() int {
	return len(a)
}

// String - the digit string
func (a Address) String() string {
	return string(a)
}

// IsAncestorOf - true if a is a prefix of b (an address is its own ancestor)
func (a Address) IsAncestorOf(b Address) bool {
	return strings.HasPrefix(string(b), string(a))
}

// Parent - the address one level up; the root is its own parent
func (a Address) Parent() Address {
	if 0 == len(a) {
		return a
	}
	return a[:len(a)-1]
}

// Child - the address of one quadrant below this one
func (a Address) Child(quadrant int) Address {
	if quadrant < 0 || quadrant > 3 {
		fault.Panicf("quadtree: invalid quadrant: %d", quadrant)
	}
	return a + Address('0'+byte(quadrant))
}

// Children - all four quadrants in key order
func (a Address) Children() [4]Address {
	return [4]Address{a.Child(0), a.Child(1), a.Child(2), a.Child(3)}
}

// Ancestor - the prefix of the address at a given level
func (a Address) Ancestor(level int) Address {
	if level < 0 {
		level = 0
	}
	if level >= len(a) {
		return a
	}
	return a[:level]
}

// row and column bit contributed by each quadrant digit
var (
	rowBits = [4]uint32{0, 0, 1, 1}
	colBits = [4]uint32{0, 1, 1, 0}
)

// LevelRowCol - grid position of the tile at its own level
func (a Address) LevelRowCol() (int, uint32, uint32) {
	row := uint32(0)
	col := uint32(0)
	for i := 0; i < len(a); i += 1 {
		q := a[i] - '0'
		row = row<<1 | rowBits[q]
		col = col<<1 | colBits[q]
	}
	return len(a), row, col
}

// FromLevelRowCol - inverse of LevelRowCol
func FromLevelRowCol(level int, row uint32, col uint32) (Address, error) {
	if level < 0 || level > MaxLevel {
		return Root, fault.ErrInvalidAddress
	}
	if level < 32 && (uint64(row)>>uint(level) != 0 || uint64(col)>>uint(level) != 0) {
		return Root, fault.ErrInvalidAddress
	}

	b := make([]byte, level)
	for i := level - 1; i >= 0; i -= 1 {
		r := row & 1
		c := col & 1
		switch {
		case 0 == r && 0 == c:
			b[i] = '0'
		case 0 == r && 1 == c:
			b[i] = '1'
		case 1 == r && 1 == c:
			b[i] = '2'
		default:
			b[i] = '3'
		}
		row >>= 1
		col >>= 1
	}
	return Address(b), nil
}
