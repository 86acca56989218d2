// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/portableglobe/bundle"
	"github.com/bitmark-inc/portableglobe/quadtree"
	"github.com/bitmark-inc/portableglobe/storage"
	"github.com/bitmark-inc/portableglobe/tilestore"
)

func makeBundle(t *testing.T, fileName string, packets map[string]string) {
	w, err := bundle.Create(fileName)
	require.NoError(t, err, "create")
	for s, data := range packets {
		a, err := quadtree.ParseAddress(s)
		require.NoError(t, err, "address")
		require.NoError(t, w.Append(a, []byte(data)), "append")
	}
	require.NoError(t, w.Finalize(), "finalize")
}

func TestLoadBundle(t *testing.T) {
	packets := map[string]string{
		"":     "root",
		"0":    "zero",
		"0123": "deep",
		"3":    "three",
	}
	fileName := filepath.Join(testingDirName, "load.bundle")
	makeBundle(t, fileName, packets)
	defer os.Remove(fileName)

	assert.NoError(t, verifyOne(fileName), "verify")

	store, err := tilestore.Open(filepath.Join(testingDirName, "load.leveldb"), storage.ReadWrite)
	require.NoError(t, err, "open store")
	defer store.Close()

	n, err := loadBundle(store, tilestore.Terrain, fileName)
	require.NoError(t, err, "load")
	assert.Equal(t, len(packets), n, "count")

	for s, data := range packets {
		a, _ := quadtree.ParseAddress(s)
		actual, err := store.Get(tilestore.Terrain, a)
		require.NoError(t, err, "get: %q", s)
		assert.Equal(t, data, string(actual), "data: %q", s)

		found, err := store.Has(tilestore.Imagery, a)
		require.NoError(t, err, "has: %q", s)
		assert.False(t, found, "other layer: %q", s)
	}
}

func TestVerifyMissingBundle(t *testing.T) {
	assert.Error(t, verifyOne(filepath.Join(testingDirName, "absent.bundle")))
}
