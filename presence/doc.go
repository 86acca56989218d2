// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package presence - bit packed tile existence tables
//
// A LevelMask records one bit per tile over a rectangle of a single
// quadtree level.  Bits are stored row major, least significant bit
// first within each byte:
//
//   bit index = (row - row0) * width + (col - col0)
//   byte      = index / 8,  bit = index % 8
//
// The serialised form is the raw buffer only; level and extents must
// be supplied separately by whoever reads it back.
//
// A Mask holds LevelMasks for many levels.  A level may be split into
// several disjoint areas so that distant parts of the globe do not
// need one rectangle spanning everything between them.
//
// Neither LevelMask nor Mask is safe for concurrent mutation.
package presence
