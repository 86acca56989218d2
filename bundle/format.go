// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bundle

import (
	"encoding/binary"
	"hash/crc32"

	"github.com/bitmark-inc/portableglobe/fault"
	"github.com/bitmark-inc/portableglobe/quadtree"
)

// file format constants
const (
	Version     = 1
	EntrySize   = 24
	TrailerSize = 32

	// MaxPacketSize - length is stored as u32
	MaxPacketSize = 1<<32 - 1

	// PartialSuffix - appended to the file name while writing
	PartialSuffix = ".partial"
)

var magic = [4]byte{'Q', 'T', 'P', 'B'}

// Entry - one index record
type Entry struct {
	Key    quadtree.Key
	Offset uint64
	Length uint32
	CRC    uint32
}

type trailer struct {
	version     uint32
	indexOffset uint64
	count       uint64
	indexCRC    uint32
	alignment   uint32
}

func (e *Entry) encode(buffer []byte) {
	binary.BigEndian.PutUint64(buffer[0:8], uint64(e.Key))
	binary.BigEndian.PutUint64(buffer[8:16], e.Offset)
	binary.BigEndian.PutUint32(buffer[16:20], e.Length)
	binary.BigEndian.PutUint32(buffer[20:24], e.CRC)
}

func decodeEntry(buffer []byte) Entry {
	return Entry{
		Key:    quadtree.Key(binary.BigEndian.Uint64(buffer[0:8])),
		Offset: binary.BigEndian.Uint64(buffer[8:16]),
		Length: binary.BigEndian.Uint32(buffer[16:20]),
		CRC:    binary.BigEndian.Uint32(buffer[20:24]),
	}
}

func (t *trailer) bytes() []byte {
	buffer := make([]byte, TrailerSize)
	copy(buffer[0:4], magic[:])
	binary.BigEndian.PutUint32(buffer[4:8], t.version)
	binary.BigEndian.PutUint64(buffer[8:16], t.indexOffset)
	binary.BigEndian.PutUint64(buffer[16:24], t.count)
	binary.BigEndian.PutUint32(buffer[24:28], t.indexCRC)
	binary.BigEndian.PutUint32(buffer[28:32], t.alignment)
	return buffer
}

func decodeTrailer(buffer []byte) (*trailer, error) {
	if TrailerSize != len(buffer) {
		return nil, fault.ErrTruncatedBundle
	}
	if string(buffer[0:4]) != string(magic[:]) {
		return nil, fault.ErrInvalidBundleMagic
	}
	t := &trailer{
		version:     binary.BigEndian.Uint32(buffer[4:8]),
		indexOffset: binary.BigEndian.Uint64(buffer[8:16]),
		count:       binary.BigEndian.Uint64(buffer[16:24]),
		indexCRC:    binary.BigEndian.Uint32(buffer[24:28]),
		alignment:   binary.BigEndian.Uint32(buffer[28:32]),
	}
	if Version != t.version {
		return nil, fault.ErrInvalidBundleVersion
	}
	if !validAlignment(t.alignment) {
		return nil, fault.ErrInvalidAlignment
	}
	return t, nil
}

// zero means no alignment
func validAlignment(n uint32) bool {
	return 0 == n&(n-1)
}

// number of zero bytes to pad offset up to the alignment
func padding(offset uint64, alignment uint32) uint64 {
	if alignment <= 1 {
		return 0
	}
	a := uint64(alignment)
	return (a - offset%a) % a
}

func checksum(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}

func crc32Update(crc uint32, data []byte) uint32 {
	return crc32.Update(crc, crc32.IEEETable, data)
}
