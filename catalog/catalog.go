// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package catalog - presence masks and build metadata for a globe
package catalog

import (
	"bytes"
	"encoding/binary"
	"strings"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/portableglobe/fault"
	"github.com/bitmark-inc/portableglobe/presence"
	"github.com/bitmark-inc/portableglobe/quadtree"
	"github.com/bitmark-inc/portableglobe/storage"
)

const currentVersion = 0x200

// pool prefixes
const (
	extentsPrefix  = 'E'
	maskPrefix     = 'M'
	metadataPrefix = 'B'
)

// Catalog - persistent masks and metadata, safe for concurrent use
type Catalog struct {
	database *storage.Database
	extents  *storage.PoolHandle
	masks    *storage.PoolHandle
	metadata *storage.PoolHandle
	log      *logger.L
}

// Open - open the catalog database, creating it unless read only
func Open(name string, readOnly bool) (*Catalog, error) {
	log := logger.New("catalog")

	database, err := storage.Open(name, readOnly, currentVersion, log)
	if nil != err {
		return nil, err
	}

	return &Catalog{
		database: database,
		extents:  database.Pool(extentsPrefix),
		masks:    database.Pool(maskPrefix),
		metadata: database.Pool(metadataPrefix),
		log:      log,
	}, nil
}

// Close - release the database
func (c *Catalog) Close() error {
	return c.database.Close()
}

func validName(name string) bool {
	return "" != name && !strings.ContainsRune(name, 0)
}

// name ++ 0x00
func namePrefix(name string) []byte {
	return append([]byte(name), 0x00)
}

// name ++ 0x00 ++ level ++ area(2 bytes big endian)
func areaKey(name string, level int, area int) []byte {
	key := append(namePrefix(name), byte(level), 0, 0)
	binary.BigEndian.PutUint16(key[len(key)-2:], uint16(area))
	return key
}

// PutMask - store every level of a mask, replacing any mask already
// stored under the name
func (c *Catalog) PutMask(name string, mask *presence.Mask) error {
	if !validName(name) {
		return fault.ErrInvalidMaskName
	}

	prefix := namePrefix(name)
	batch := &storage.Batch{}

	// drop levels of a previous mask
	err := c.extents.Iterate(prefix, func(key []byte, value []byte) error {
		k := append([]byte{}, key...)
		c.extents.BatchDelete(batch, k)
		c.masks.BatchDelete(batch, k)
		return nil
	})
	if nil != err {
		return err
	}

	for _, level := range mask.Levels() {
		for i, l := range mask.Level(level) {
			key := areaKey(name, level, i)
			c.extents.BatchPut(batch, key, l.Extents().Bytes())
			c.masks.BatchPut(batch, key, l.Bytes())
		}
	}

	err = c.database.Commit(batch)
	if nil != err {
		c.log.Errorf("put mask: %q  error: %s", name, err)
		return err
	}
	c.log.Infof("put mask: %q  levels: %v", name, mask.Levels())
	return nil
}

// GetMask - rebuild a stored mask
func (c *Catalog) GetMask(name string) (*presence.Mask, error) {
	if !validName(name) {
		return nil, fault.ErrInvalidMaskName
	}

	mask := presence.NewMask()
	found := false

	prefix := namePrefix(name)
	err := c.extents.Iterate(prefix, func(key []byte, value []byte) error {
		if len(key) != len(prefix)+3 {
			c.log.Criticalf("mask: %q  key: %x  bad length", name, key)
			return fault.ErrCorruptMask
		}
		level := int(key[len(prefix)])
		extents, err := quadtree.ExtentsFromBytes(value)
		if nil != err {
			return err
		}
		buffer, ok, err := c.masks.Get(key)
		if nil != err {
			return err
		}
		if !ok {
			c.log.Criticalf("mask: %q  level: %d  has extents but no data", name, level)
			return fault.ErrMaskNotFound
		}
		l, err := presence.NewLevelMaskFromBuffer(level, extents, buffer)
		if nil != err {
			return err
		}
		err = mask.SetLevel(l)
		if nil != err {
			c.log.Criticalf("mask: %q  level: %d  extents: %s  error: %s", name, level, extents, err)
			return fault.ErrCorruptMask
		}
		found = true
		return nil
	})
	if nil != err {
		return nil, err
	}
	if !found {
		return nil, fault.ErrMaskNotFound
	}
	return mask, nil
}

// MaskNames - names of all stored masks, sorted
func (c *Catalog) MaskNames() ([]string, error) {
	names := make([]string, 0)
	err := c.extents.Iterate(nil, func(key []byte, value []byte) error {
		i := bytes.IndexByte(key, 0x00)
		if i < 0 {
			return fault.ErrInvalidMaskName
		}
		name := string(key[:i])
		if 0 == len(names) || names[len(names)-1] != name {
			names = append(names, name)
		}
		return nil
	})
	if nil != err {
		return nil, err
	}
	return names, nil
}
