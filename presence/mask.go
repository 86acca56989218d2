// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package presence

import (
	"github.com/bitmark-inc/portableglobe/fault"
	"github.com/bitmark-inc/portableglobe/quadtree"
)

// Mask - for each level, zero or more LevelMasks over disjoint areas
type Mask struct {
	_      noCopy
	levels [quadtree.MaxLevel + 1][]*LevelMask
}

// NewMask - a mask with no levels
func NewMask() *Mask {
	return &Mask{}
}

// AddLevel - create a mask for one area of a level
//
// the area must not overlap any area the level already has
func (m *Mask) AddLevel(level int, extents quadtree.Extents, setPresent bool) error {
	l, err := NewLevelMask(level, extents, setPresent)
	if nil != err {
		return err
	}
	return m.SetLevel(l)
}

// SetLevel - install an existing level mask, the mask takes ownership
func (m *Mask) SetLevel(l *LevelMask) error {
	for _, area := range m.levels[l.level] {
		if area.extents.Overlaps(l.extents) {
			return fault.ErrInvalidExtents
		}
	}
	m.levels[l.level] = append(m.levels[l.level], l)
	return nil
}

// Level - the masks of one level in the order they were added, nil if
// the level has none
func (m *Mask) Level(level int) []*LevelMask {
	if !m.HasLevel(level) {
		return nil
	}
	areas := make([]*LevelMask, len(m.levels[level]))
	copy(areas, m.levels[level])
	return areas
}

// HasLevel - true if the level has at least one mask
func (m *Mask) HasLevel(level int) bool {
	return level >= 0 && level <= quadtree.MaxLevel && 0 != len(m.levels[level])
}

// Levels - levels that have a mask, in ascending order
func (m *Mask) Levels() []int {
	result := make([]int, 0, len(m.levels))
	for i, areas := range m.levels {
		if 0 != len(areas) {
			result = append(result, i)
		}
	}
	return result
}

// BufferSize - total bytes of every mask at a level
func (m *Mask) BufferSize(level int) uint64 {
	n := uint64(0)
	for _, l := range m.Level(level) {
		n += uint64(len(l.buffer))
	}
	return n
}

// the mask holding a tile, or nil
func (m *Mask) find(level int, row uint32, col uint32) *LevelMask {
	if level < 0 || level > quadtree.MaxLevel {
		return nil
	}
	for _, l := range m.levels[level] {
		if l.extents.Contains(row, col) {
			return l
		}
	}
	return nil
}

// GetPresence - false if no area of the level holds the tile
func (m *Mask) GetPresence(level int, row uint32, col uint32) bool {
	l := m.find(level, row, col)
	if nil == l {
		return false
	}
	return l.GetPresence(row, col)
}

// GetAddressPresence - GetPresence for a quadtree address; false for
// an invalid address
func (m *Mask) GetAddressPresence(address quadtree.Address) bool {
	if !address.IsValid() {
		return false
	}
	return m.GetPresence(address.LevelRowCol())
}

// SetPresence - update a tile
//
// in Coverage mode a present tile also marks its ancestor at every
// coarser level that has an area containing it
func (m *Mask) SetPresence(level int, row uint32, col uint32, present bool, mode Mode) error {
	if !m.HasLevel(level) {
		return fault.ErrLevelNotPresent
	}
	l := m.find(level, row, col)
	if nil == l {
		if checkBounds {
			fault.Panicf("presence: level %d (%d, %d) outside every area", level, row, col)
		}
		return nil
	}
	l.SetPresence(row, col, present, mode)

	if Coverage != mode || !present {
		return nil
	}
	for level -= 1; level >= 0; level -= 1 {
		row >>= 1
		col >>= 1
		if a := m.find(level, row, col); nil != a {
			a.SetPresence(row, col, true, Coverage)
		}
	}
	return nil
}

// SetAddressPresence - SetPresence for a quadtree address
func (m *Mask) SetAddressPresence(address quadtree.Address, present bool, mode Mode) error {
	if !address.IsValid() {
		return fault.ErrInvalidAddress
	}
	level, row, col := address.LevelRowCol()
	return m.SetPresence(level, row, col, present, mode)
}
