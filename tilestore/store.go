// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package tilestore - source tiles keyed by layer and quadtree address
package tilestore

import (
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/portableglobe/fault"
	"github.com/bitmark-inc/portableglobe/quadtree"
	"github.com/bitmark-inc/portableglobe/storage"
)

const currentVersion = 0x100

// Store - tile database, safe for concurrent use
type Store struct {
	database *storage.Database
	pools    map[Layer]*storage.PoolHandle
	log      *logger.L
}

// Open - open the tile database, creating it unless read only
func Open(name string, readOnly bool) (*Store, error) {
	log := logger.New("tilestore")

	database, err := storage.Open(name, readOnly, currentVersion, log)
	if nil != err {
		return nil, err
	}

	pools := make(map[Layer]*storage.PoolHandle)
	for _, l := range Layers {
		pools[l] = database.Pool(byte(l))
	}

	return &Store{
		database: database,
		pools:    pools,
		log:      log,
	}, nil
}

// Close - release the database
func (s *Store) Close() error {
	return s.database.Close()
}

func (s *Store) pool(layer Layer) (*storage.PoolHandle, error) {
	p, ok := s.pools[layer]
	if !ok {
		return nil, fault.ErrInvalidLayer
	}
	return p, nil
}

// Put - store a tile, replacing any previous value
func (s *Store) Put(layer Layer, address quadtree.Address, data []byte) error {
	p, err := s.pool(layer)
	if nil != err {
		return err
	}
	if !address.IsValid() {
		return fault.ErrInvalidAddress
	}
	return p.Put(address.Key().Bytes(), data)
}

// Get - read a tile; ErrTileNotFound if absent
func (s *Store) Get(layer Layer, address quadtree.Address) ([]byte, error) {
	p, err := s.pool(layer)
	if nil != err {
		return nil, err
	}
	if !address.IsValid() {
		return nil, fault.ErrInvalidAddress
	}
	data, found, err := p.Get(address.Key().Bytes())
	if nil != err {
		return nil, err
	}
	if !found {
		return nil, fault.ErrTileNotFound
	}
	return data, nil
}

// Has - check for a tile
func (s *Store) Has(layer Layer, address quadtree.Address) (bool, error) {
	p, err := s.pool(layer)
	if nil != err {
		return false, err
	}
	if !address.IsValid() {
		return false, fault.ErrInvalidAddress
	}
	return p.Has(address.Key().Bytes())
}

// Count - number of tiles in a layer
func (s *Store) Count(layer Layer) (int, error) {
	p, err := s.pool(layer)
	if nil != err {
		return 0, err
	}
	return p.Count()
}

// Addresses - every address holding a tile in a layer, in key order
func (s *Store) Addresses(layer Layer) ([]quadtree.Address, error) {
	p, err := s.pool(layer)
	if nil != err {
		return nil, err
	}
	addresses := make([]quadtree.Address, 0)
	err = p.Iterate(nil, func(key []byte, value []byte) error {
		k, err := quadtree.KeyFromBytes(key)
		if nil != err {
			return err
		}
		a, err := k.Address()
		if nil != err {
			return err
		}
		addresses = append(addresses, a)
		return nil
	})
	if nil != err {
		s.log.Errorf("scan layer: %s  error: %s", layer, err)
		return nil, err
	}
	return addresses, nil
}
