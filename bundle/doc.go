// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package bundle - append-only packet file with a sorted trailing index
//
// A bundle is written once by a single Writer and then read by any
// number of concurrent Readers.  Layout, all integers big endian:
//
//   packet region   payloads in append order, optionally zero padded
//                   so each payload starts on an alignment boundary
//   index           count × 24 byte entries, ascending key
//                     key u64 | offset u64 | length u32 | crc32 u32
//   trailer         32 bytes
//                     magic "QTPB" | version u32 | index offset u64 |
//                     count u64 | index crc32 u32 | alignment u32
//
// The writer produces "<name>.partial" and only renames it to the
// final name after the index and trailer are synced to disk, so a
// file with the final name is always complete.
package bundle
