// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package presence

import (
	"math"
	"math/bits"

	"github.com/bitmark-inc/portableglobe/fault"
	"github.com/bitmark-inc/portableglobe/quadtree"
)

// noCopy - flags accidental value copies under go vet -copylocks
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// LevelMask - presence bits for one level
//
// the buffer is exclusively owned; use Clone to duplicate
type LevelMask struct {
	_       noCopy
	level   int
	extents quadtree.Extents
	buffer  []byte
}

// CalcBufferSize - bytes needed for rows*cols bits
//
// computed in 64 bits so the overflow check cannot itself overflow
func CalcBufferSize(rows uint32, cols uint32) (uint32, error) {
	n := (uint64(rows)*uint64(cols) + 7) >> 3
	if n > math.MaxUint32 {
		return 0, fault.ErrSizeOverflow
	}
	return uint32(n), nil
}

// NewLevelMask - an empty (all absent) or full (all present) mask
func NewLevelMask(level int, extents quadtree.Extents, setPresent bool) (*LevelMask, error) {
	if level < 0 || level > quadtree.MaxLevel {
		return nil, fault.ErrInvalidExtents
	}
	size, err := CalcBufferSize(extents.Height, extents.Width)
	if nil != err {
		return nil, err
	}
	m := &LevelMask{
		level:   level,
		extents: extents,
		buffer:  make([]byte, size),
	}
	if setPresent {
		m.SetAll(true)
	}
	return m, nil
}

// NewLevelMaskFromBuffer - wrap a previously serialised buffer
//
// ownership of buffer passes to the mask: the caller must not use it again
func NewLevelMaskFromBuffer(level int, extents quadtree.Extents, buffer []byte) (*LevelMask, error) {
	if level < 0 || level > quadtree.MaxLevel {
		return nil, fault.ErrInvalidExtents
	}
	size, err := CalcBufferSize(extents.Height, extents.Width)
	if nil != err {
		return nil, err
	}
	if uint64(size) != uint64(len(buffer)) {
		return nil, fault.ErrBufferSize
	}
	return &LevelMask{
		level:   level,
		extents: extents,
		buffer:  buffer,
	}, nil
}

// Clone - deep copy with its own buffer
func (m *LevelMask) Clone() *LevelMask {
	buffer := make([]byte, len(m.buffer))
	copy(buffer, m.buffer)
	return &LevelMask{
		level:   m.level,
		extents: m.extents,
		buffer:  buffer,
	}
}

// Level - quadtree level of the mask
func (m *LevelMask) Level() int {
	return m.level
}

// Extents - rectangle covered by the mask
func (m *LevelMask) Extents() quadtree.Extents {
	return m.extents
}

// BufferSize - bytes in the serialised form
func (m *LevelMask) BufferSize() uint32 {
	return uint32(len(m.buffer))
}

// Bytes - copy of the raw buffer
func (m *LevelMask) Bytes() []byte {
	b := make([]byte, len(m.buffer))
	copy(b, m.buffer)
	return b
}

// Count - number of tiles marked present
func (m *LevelMask) Count() uint64 {
	n := uint64(0)
	for _, b := range m.buffer {
		n += uint64(bits.OnesCount8(b))
	}
	return n
}

// GetPresence - state of a tile, false for anything outside the extents
func (m *LevelMask) GetPresence(row uint32, col uint32) bool {
	if !m.extents.Contains(row, col) {
		return false
	}
	i := m.bitIndex(row, col)
	return 0 != m.buffer[i>>3]&(1<<(i&7))
}

// SetAll - set every bit to the same value
func (m *LevelMask) SetAll(present bool) {
	fill := byte(0x00)
	if present {
		fill = 0xff
	}
	for i := range m.buffer {
		m.buffer[i] = fill
	}
	// keep padding bits in the final byte clear so Count is exact
	if present {
		total := uint64(m.extents.Height) * uint64(m.extents.Width)
		if r := total & 7; 0 != r {
			m.buffer[len(m.buffer)-1] = byte(1)<<r - 1
		}
	}
}

// SetPresence - update a single tile
//
// (row, col) outside the extents is a programming error
func (m *LevelMask) SetPresence(row uint32, col uint32, present bool, mode Mode) {
	if !m.extents.Contains(row, col) {
		if checkBounds {
			fault.Panicf("presence: level %d (%d, %d) outside %s", m.level, row, col, m.extents)
		}
		return
	}

	i := m.bitIndex(row, col)
	bit := byte(1) << (i & 7)

	switch mode {
	case TilePresence:
		if present {
			m.buffer[i>>3] |= bit
		} else {
			m.buffer[i>>3] &^= bit
		}
	case Coverage:
		if present {
			m.buffer[i>>3] |= bit
		}
	default:
		fault.Panicf("presence: invalid mode: %d", mode)
	}
}

// caller must have checked the extents
func (m *LevelMask) bitIndex(row uint32, col uint32) uint64 {
	return uint64(row-m.extents.Row)*uint64(m.extents.Width) + uint64(col-m.extents.Col)
}
