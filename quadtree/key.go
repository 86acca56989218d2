// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package quadtree

import (
	"encoding/binary"

	"github.com/bitmark-inc/portableglobe/fault"
)

// Key - packed address, comparable as an integer
type Key uint64

// KeySize - bytes in a serialised key
const KeySize = 8

const (
	levelMask  = 0xff
	digitsBase = 62 // bit position of the first digit
)

// Key - pack an address; the address must be valid
func (a Address) Key() Key {
	k := uint64(len(a))
	for i := 0; i < len(a); i += 1 {
		k |= uint64(a[i]-'0') << uint(digitsBase-2*i)
	}
	return Key(k)
}

// Level - depth encoded in the key
func (k Key) Level() int {
	return int(k & levelMask)
}

// Address - unpack a key
func (k Key) Address() (Address, error) {
	level := k.Level()
	if level > MaxLevel {
		return Root, fault.ErrInvalidAddress
	}
	// no stray bits below the last digit or between digits and level
	if 0 != uint64(k)&^levelMask&(1<<uint(digitsBase+2-2*level)-1) {
		return Root, fault.ErrInvalidAddress
	}
	b := make([]byte, level)
	for i := 0; i < level; i += 1 {
		b[i] = '0' + byte(uint64(k)>>uint(digitsBase-2*i)&3)
	}
	return Address(b), nil
}

// Bytes - big endian encoding, preserves ordering under bytes.Compare
func (k Key) Bytes() []byte {
	b := make([]byte, KeySize)
	binary.BigEndian.PutUint64(b, uint64(k))
	return b
}

// KeyFromBytes - decode a big endian key
func KeyFromBytes(b []byte) (Key, error) {
	if KeySize != len(b) {
		return 0, fault.ErrInvalidAddress
	}
	return Key(binary.BigEndian.Uint64(b)), nil
}
