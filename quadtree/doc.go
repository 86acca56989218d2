// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package quadtree - addressing of tiles in a global quadtree
//
// An address is a string of quadrant digits 0..3, one per level
// below the root.  The empty address is the root (level 0).
//
// Quadrant layout within a parent tile (row increases upwards):
//
//   +---+---+
//   | 3 | 2 |   row 1
//   +---+---+
//   | 0 | 1 |   row 0
//   +---+---+
//   col 0 col 1
//
// A Key packs an address into a uint64: two bits per digit, most
// significant digit first, left aligned in the top 48 bits, with the
// level held in the low byte.  Keys compare in the same order as the
// address strings, so an ancestor always sorts before its descendants.
package quadtree
