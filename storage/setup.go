// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/portableglobe/fault"
)

// for database version
var versionKey = []byte{0x00, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

// database access modes
const (
	ReadOnly  = true
	ReadWrite = false
)

// Database - an open LevelDB handle
type Database struct {
	sync.RWMutex
	db       *leveldb.DB
	name     string
	readOnly bool
	log      *logger.L
}

// Open - open or create a database
//
// an empty writable database is tagged with currentVersion; an
// existing database must carry exactly currentVersion
func Open(name string, readOnly bool, currentVersion int, log *logger.L) (*Database, error) {
	db, version, err := getDB(name, readOnly)
	if nil != err {
		return nil, err
	}

	if 0 == version && !readOnly {
		// database was empty so tag as current version
		err = putVersion(db, currentVersion)
		if nil != err {
			db.Close()
			return nil, err
		}
		version = currentVersion
	}

	if version != currentVersion {
		db.Close()
		if nil != log {
			log.Criticalf("database: %s  version: %d  expected: %d", name, version, currentVersion)
		}
		return nil, fmt.Errorf("%s: version: %d  expected: %d: %w", name, version, currentVersion, fault.ErrDatabaseVersion)
	}

	if nil != log {
		log.Infof("opened database: %s  version: %d  read only: %t", name, version, readOnly)
	}

	return &Database{
		db:       db,
		name:     name,
		readOnly: readOnly,
		log:      log,
	}, nil
}

// Close - close the database connection
func (d *Database) Close() error {
	d.Lock()
	defer d.Unlock()

	if nil == d.db {
		return fault.ErrDatabaseClosed
	}
	err := d.db.Close()
	d.db = nil
	if nil != d.log {
		d.log.Infof("closed database: %s", d.name)
	}
	return err
}

// Name - file name of the database
func (d *Database) Name() string {
	return d.name
}

// IsReadOnly - true if opened without write access
func (d *Database) IsReadOnly() bool {
	return d.readOnly
}

// Pool - a handle for one prefix byte
func (d *Database) Pool(prefix byte) *PoolHandle {
	limit := []byte(nil)
	if prefix < 255 {
		limit = []byte{prefix + 1}
	}
	return &PoolHandle{
		prefix:   prefix,
		limit:    limit,
		database: d,
	}
}

// Commit - apply a batch of pool writes atomically
func (d *Database) Commit(batch *Batch) error {
	d.RLock()
	defer d.RUnlock()

	if nil == d.db {
		return fault.ErrDatabaseClosed
	}
	return d.db.Write(&batch.batch, nil)
}

// return:
//   database handle
//   version number
func getDB(name string, readOnly bool) (*leveldb.DB, int, error) {
	opt := &ldb_opt.Options{
		ErrorIfExist:   false,
		ErrorIfMissing: readOnly,
		ReadOnly:       readOnly,
	}

	db, err := leveldb.OpenFile(name, opt)
	if nil != err {
		return nil, 0, err
	}

	versionValue, err := db.Get(versionKey, nil)
	if leveldb.ErrNotFound == err {
		return db, 0, nil
	} else if nil != err {
		db.Close()
		return nil, 0, err
	}

	if 4 != len(versionValue) {
		db.Close()
		return nil, 0, fmt.Errorf("version length: expected: %d  actual: %d: %w", 4, len(versionValue), fault.ErrDatabaseVersion)
	}

	version := int(binary.BigEndian.Uint32(versionValue))
	return db, version, nil
}

func putVersion(db *leveldb.DB, version int) error {
	currentVersion := make([]byte, 4)
	binary.BigEndian.PutUint32(currentVersion, uint32(version))

	return db.Put(versionKey, currentVersion, nil)
}
