// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// maintain the on-disk key/value stores
//
// Each Database is one LevelDB directory split into pools.  A pool is
// defined by a single prefix byte, so a pool scan is a simple key
// range.  A version record outside every pool guards against opening
// a database written by a newer program.
//
// Notes:
// 1. ++      = concatenation of byte data
// 2. key     = packed quadtree key, big endian uint64 (8 bytes)
// 3. level   = single byte 0..24
// 4. name    = layer or mask name, no 0x00 bytes
//
// Tile store (see tilestore):
//
//   I ++ key                  - imagery tile
//   T ++ key                  - terrain tile
//   V ++ key                  - vector tile
//
// Catalog (see catalog):
//
//   E ++ name ++ 0x00 ++ level - extents of one presence mask level
//                                data: row ++ col ++ height ++ width (4 × u32)
//   M ++ name ++ 0x00 ++ level - presence mask bits
//   B ++ name                  - build metadata
//                                data: JSON record
package storage
