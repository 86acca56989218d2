// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package presence

// Mode - how SetPresence treats a single tile
type Mode int

const (
	// TilePresence - the bit is assigned exactly as given
	TilePresence Mode = iota

	// Coverage - bits accumulate: present sets the bit, not present
	// leaves it unchanged.  In a Mask every coarser ancestor of the
	// tile is marked as well, so a tile is covered whenever any finer
	// tile beneath it is present
	Coverage
)

func (m Mode) String() string {
	switch m {
	case TilePresence:
		return "tile-presence"
	case Coverage:
		return "coverage"
	default:
		return "unknown"
	}
}
