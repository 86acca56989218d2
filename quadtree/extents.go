// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package quadtree

import (
	"encoding/binary"
	"fmt"

	"github.com/bitmark-inc/portableglobe/fault"
)

// Extents - a rectangle of tiles at one level
//
// rows [Row, Row+Height) by columns [Col, Col+Width)
type Extents struct {
	Row    uint32
	Col    uint32
	Height uint32
	Width  uint32
}

// ExtentsSize - bytes in a serialised extents
const ExtentsSize = 16

// FullExtents - the whole grid of a level
func FullExtents(level int) Extents {
	n := uint32(1) << uint(level)
	return Extents{Row: 0, Col: 0, Height: n, Width: n}
}

// TileExtents - a single tile
func TileExtents(row uint32, col uint32) Extents {
	return Extents{Row: row, Col: col, Height: 1, Width: 1}
}

// IsEmpty - no tiles covered
func (e Extents) IsEmpty() bool {
	return 0 == e.Height || 0 == e.Width
}

// EndRow - one past the last row
func (e Extents) EndRow() uint64 {
	return uint64(e.Row) + uint64(e.Height)
}

// EndCol - one past the last column
func (e Extents) EndCol() uint64 {
	return uint64(e.Col) + uint64(e.Width)
}

// Contains - true if the tile lies inside the rectangle
func (e Extents) Contains(row uint32, col uint32) bool {
	return row >= e.Row && uint64(row) < e.EndRow() &&
		col >= e.Col && uint64(col) < e.EndCol()
}

// Overlaps - true if some tile lies in both rectangles
func (e Extents) Overlaps(o Extents) bool {
	if e.IsEmpty() || o.IsEmpty() {
		return false
	}
	return uint64(e.Row) < o.EndRow() && uint64(o.Row) < e.EndRow() &&
		uint64(e.Col) < o.EndCol() && uint64(o.Col) < e.EndCol()
}

// Union - smallest rectangle covering both
func (e Extents) Union(o Extents) Extents {
	if e.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return e
	}
	row := e.Row
	if o.Row < row {
		row = o.Row
	}
	col := e.Col
	if o.Col < col {
		col = o.Col
	}
	endRow := e.EndRow()
	if o.EndRow() > endRow {
		endRow = o.EndRow()
	}
	endCol := e.EndCol()
	if o.EndCol() > endCol {
		endCol = o.EndCol()
	}
	return Extents{
		Row:    row,
		Col:    col,
		Height: uint32(endRow - uint64(row)),
		Width:  uint32(endCol - uint64(col)),
	}
}

// Bytes - big endian row, col, height, width
func (e Extents) Bytes() []byte {
	b := make([]byte, ExtentsSize)
	binary.BigEndian.PutUint32(b[0:], e.Row)
	binary.BigEndian.PutUint32(b[4:], e.Col)
	binary.BigEndian.PutUint32(b[8:], e.Height)
	binary.BigEndian.PutUint32(b[12:], e.Width)
	return b
}

// ExtentsFromBytes - decode the output of Bytes
func ExtentsFromBytes(b []byte) (Extents, error) {
	if ExtentsSize != len(b) {
		return Extents{}, fault.ErrInvalidExtents
	}
	return Extents{
		Row:    binary.BigEndian.Uint32(b[0:]),
		Col:    binary.BigEndian.Uint32(b[4:]),
		Height: binary.BigEndian.Uint32(b[8:]),
		Width:  binary.BigEndian.Uint32(b[12:]),
	}, nil
}

func (e Extents) String() string {
	return fmt.Sprintf("rows [%d,%d) cols [%d,%d)", e.Row, e.EndRow(), e.Col, e.EndCol())
}
