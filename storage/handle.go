// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/portableglobe/fault"
)

// PoolHandle - one prefix range of a database
type PoolHandle struct {
	prefix   byte
	limit    []byte
	database *Database
}

// Element - a binary data item
type Element struct {
	Key   []byte
	Value []byte
}

// prepend the prefix onto the key
func (p *PoolHandle) prefixKey(key []byte) []byte {
	prefixedKey := make([]byte, 1, len(key)+1)
	prefixedKey[0] = p.prefix
	return append(prefixedKey, key...)
}

// Put - store a key/value bytes pair to the database
func (p *PoolHandle) Put(key []byte, value []byte) error {
	p.database.RLock()
	defer p.database.RUnlock()
	if nil == p.database.db {
		return fault.ErrDatabaseClosed
	}
	return p.database.db.Put(p.prefixKey(key), value, nil)
}

// Delete - remove a key from the database
func (p *PoolHandle) Delete(key []byte) error {
	p.database.RLock()
	defer p.database.RUnlock()
	if nil == p.database.db {
		return fault.ErrDatabaseClosed
	}
	return p.database.db.Delete(p.prefixKey(key), nil)
}

// Get - read a value for a given key
//
// second result is false if the key is absent
func (p *PoolHandle) Get(key []byte) ([]byte, bool, error) {
	p.database.RLock()
	defer p.database.RUnlock()
	if nil == p.database.db {
		return nil, false, fault.ErrDatabaseClosed
	}
	value, err := p.database.db.Get(p.prefixKey(key), nil)
	if leveldb.ErrNotFound == err {
		return nil, false, nil
	}
	if nil != err {
		return nil, false, err
	}
	return value, true, nil
}

// GetN - read a record and decode it as big endian uint64
func (p *PoolHandle) GetN(key []byte) (uint64, bool, error) {
	buffer, found, err := p.Get(key)
	if nil != err || !found {
		return 0, false, err
	}
	if 8 != len(buffer) {
		return 0, false, fault.ErrBufferSize
	}
	return binary.BigEndian.Uint64(buffer), true, nil
}

// PutN - store a big endian uint64
func (p *PoolHandle) PutN(key []byte, n uint64) error {
	buffer := make([]byte, 8)
	binary.BigEndian.PutUint64(buffer, n)
	return p.Put(key, buffer)
}

// Has - check if a key exists
func (p *PoolHandle) Has(key []byte) (bool, error) {
	p.database.RLock()
	defer p.database.RUnlock()
	if nil == p.database.db {
		return false, fault.ErrDatabaseClosed
	}
	return p.database.db.Has(p.prefixKey(key), nil)
}

// Count - number of records in the pool
func (p *PoolHandle) Count() (int, error) {
	n := 0
	err := p.Iterate(nil, func(key []byte, value []byte) error {
		n += 1
		return nil
	})
	return n, err
}

// Iterate - call f for each record, in key order, whose key starts
// with prefix (nil for the whole pool); the slices are only valid
// during the call; an error from f stops the scan and is returned
func (p *PoolHandle) Iterate(prefix []byte, f func(key []byte, value []byte) error) error {
	maxRange := ldb_util.Range{
		Start: []byte{p.prefix}, // Start of key range, included in the range
		Limit: p.limit,          // Limit of key range, excluded from the range
	}
	if 0 != len(prefix) {
		maxRange = *ldb_util.BytesPrefix(p.prefixKey(prefix))
	}

	p.database.RLock()
	defer p.database.RUnlock()
	if nil == p.database.db {
		return fault.ErrDatabaseClosed
	}

	iter := p.database.db.NewIterator(&maxRange, nil)
	defer iter.Release()

	for iter.Next() {
		// strip the prefix
		err := f(iter.Key()[1:], iter.Value())
		if nil != err {
			return err
		}
	}
	return iter.Error()
}

// Batch - pending writes for Database.Commit
type Batch struct {
	batch leveldb.Batch
}

// BatchPut - queue a write to the pool
func (p *PoolHandle) BatchPut(b *Batch, key []byte, value []byte) {
	b.batch.Put(p.prefixKey(key), value)
}

// BatchDelete - queue a delete from the pool
func (p *PoolHandle) BatchDelete(b *Batch, key []byte) {
	b.batch.Delete(p.prefixKey(key))
}

// Len - number of queued operations
func (b *Batch) Len() int {
	return b.batch.Len()
}
