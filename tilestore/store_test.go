// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package tilestore_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/portableglobe/fault"
	"github.com/bitmark-inc/portableglobe/quadtree"
	"github.com/bitmark-inc/portableglobe/tilestore"
)

func TestParseLayer(t *testing.T) {
	tests := []struct {
		name  string
		layer tilestore.Layer
		err   error
	}{
		{"imagery", tilestore.Imagery, nil},
		{" Terrain ", tilestore.Terrain, nil},
		{"VECTOR", tilestore.Vector, nil},
		{"elevation", 0, fault.ErrInvalidLayer},
		{"", 0, fault.ErrInvalidLayer},
	}
	for _, test := range tests {
		l, err := tilestore.ParseLayer(test.name)
		assert.Equal(t, test.err, err, test.name)
		assert.Equal(t, test.layer, l, test.name)
	}

	assert.Equal(t, "terrain", tilestore.Terrain.String())
	assert.False(t, tilestore.Layer('X').IsValid())

	layers, err := tilestore.ParseLayers([]string{"vector", "imagery"})
	assert.NoError(t, err)
	assert.Equal(t, []tilestore.Layer{tilestore.Vector, tilestore.Imagery}, layers)

	_, err = tilestore.ParseLayers([]string{"vector", "Vector"})
	assert.Equal(t, fault.ErrInvalidLayer, err)
}

func TestStore(t *testing.T) {
	dir := filepath.Join(testingDirName, "store")
	name := filepath.Join(dir, "tiles.leveldb")

	s, err := tilestore.Open(name, false)
	require.NoError(t, err, "open")

	require.NoError(t, s.Put(tilestore.Imagery, "0123", []byte("image")))
	require.NoError(t, s.Put(tilestore.Imagery, "", []byte("root")))
	require.NoError(t, s.Put(tilestore.Imagery, "3", []byte("three")))
	require.NoError(t, s.Put(tilestore.Terrain, "0123", []byte("dem")))

	assert.Equal(t, fault.ErrInvalidAddress, s.Put(tilestore.Vector, "9", []byte("bad")))
	assert.Equal(t, fault.ErrInvalidLayer, s.Put(tilestore.Layer('X'), "0", []byte("bad")))

	data, err := s.Get(tilestore.Imagery, "0123")
	assert.NoError(t, err)
	assert.Equal(t, []byte("image"), data)

	data, err = s.Get(tilestore.Terrain, "0123")
	assert.NoError(t, err)
	assert.Equal(t, []byte("dem"), data)

	_, err = s.Get(tilestore.Vector, "0123")
	assert.Equal(t, fault.ErrTileNotFound, err)
	assert.True(t, fault.IsErrNotFound(err))

	ok, err := s.Has(tilestore.Imagery, "3")
	assert.NoError(t, err)
	assert.True(t, ok)

	n, err := s.Count(tilestore.Imagery)
	assert.NoError(t, err)
	assert.Equal(t, 3, n)

	addresses, err := s.Addresses(tilestore.Imagery)
	assert.NoError(t, err)
	assert.Equal(t, []quadtree.Address{"", "0123", "3"}, addresses)

	require.NoError(t, s.Close())

	// read only reopen
	s, err = tilestore.Open(name, true)
	require.NoError(t, err, "reopen")
	defer s.Close()

	data, err = s.Get(tilestore.Imagery, "")
	assert.NoError(t, err)
	assert.Equal(t, []byte("root"), data)
}
