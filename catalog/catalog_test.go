// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package catalog_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/portableglobe/catalog"
	"github.com/bitmark-inc/portableglobe/fault"
	"github.com/bitmark-inc/portableglobe/presence"
	"github.com/bitmark-inc/portableglobe/quadtree"
)

func testMask(t *testing.T) *presence.Mask {
	m := presence.NewMask()
	require.NoError(t, m.AddLevel(0, quadtree.FullExtents(0), false))
	require.NoError(t, m.AddLevel(2, quadtree.FullExtents(2), false))
	require.NoError(t, m.AddLevel(5, quadtree.Extents{Row: 3, Col: 7, Height: 5, Width: 9}, false))

	require.NoError(t, m.SetAddressPresence("", true, presence.TilePresence))
	require.NoError(t, m.SetAddressPresence("03", true, presence.TilePresence))
	require.NoError(t, m.SetPresence(5, 4, 8, true, presence.TilePresence))
	return m
}

func TestMaskRoundTrip(t *testing.T) {
	name := filepath.Join(testingDirName, "masks.leveldb")

	c, err := catalog.Open(name, false)
	require.NoError(t, err, "open")

	original := testMask(t)
	require.NoError(t, c.PutMask("imagery", original))
	require.NoError(t, c.PutMask("imagery-coverage", original))

	// replacement drops levels the new mask does not have
	smaller := presence.NewMask()
	require.NoError(t, smaller.AddLevel(1, quadtree.FullExtents(1), true))
	require.NoError(t, c.PutMask("terrain", original))
	require.NoError(t, c.PutMask("terrain", smaller))

	require.NoError(t, c.Close())

	c, err = catalog.Open(name, true)
	require.NoError(t, err, "reopen")
	defer c.Close()

	m, err := c.GetMask("imagery")
	require.NoError(t, err)
	assert.Equal(t, original.Levels(), m.Levels())
	assertSameMask(t, original, m)
	assert.True(t, m.GetAddressPresence("03"))
	assert.False(t, m.GetAddressPresence("02"))
	assert.True(t, m.GetPresence(5, 4, 8))

	m, err = c.GetMask("terrain")
	require.NoError(t, err)
	assert.Equal(t, []int{1}, m.Levels())
	assert.True(t, m.GetAddressPresence("2"))

	_, err = c.GetMask("vector")
	assert.Equal(t, fault.ErrMaskNotFound, err)

	_, err = c.GetMask("")
	assert.Equal(t, fault.ErrInvalidMaskName, err)

	names, err := c.MaskNames()
	assert.NoError(t, err)
	assert.Equal(t, []string{"imagery", "imagery-coverage", "terrain"}, names)
}

func assertSameMask(t *testing.T, expected *presence.Mask, actual *presence.Mask) {
	for _, level := range expected.Levels() {
		e := expected.Level(level)
		a := actual.Level(level)
		require.Len(t, a, len(e), "level: %d", level)
		for i := range e {
			assert.Equal(t, e[i].Extents(), a[i].Extents(), "level: %d  area: %d", level, i)
			assert.Equal(t, e[i].Bytes(), a[i].Bytes(), "level: %d  area: %d", level, i)
		}
	}
}

func TestMaskAreasRoundTrip(t *testing.T) {
	name := filepath.Join(testingDirName, "areas.leveldb")

	c, err := catalog.Open(name, false)
	require.NoError(t, err, "open")
	defer c.Close()

	west := quadtree.Extents{Row: 0, Col: 0, Height: 4, Width: 4}
	east := quadtree.Extents{Row: 262140, Col: 262140, Height: 4, Width: 4}
	original := presence.NewMask()
	require.NoError(t, original.AddLevel(0, quadtree.FullExtents(0), true))
	require.NoError(t, original.AddLevel(18, west, false))
	require.NoError(t, original.AddLevel(18, east, false))
	require.NoError(t, original.SetPresence(18, 1, 2, true, presence.TilePresence))
	require.NoError(t, original.SetPresence(18, 262143, 262141, true, presence.TilePresence))

	require.NoError(t, c.PutMask("globe.imagery", original))

	m, err := c.GetMask("globe.imagery")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 18}, m.Levels())
	assertSameMask(t, original, m)
	assert.True(t, m.GetPresence(18, 1, 2))
	assert.True(t, m.GetPresence(18, 262143, 262141))
	assert.False(t, m.GetPresence(18, 262143, 262142))

	// a replacement with fewer areas leaves none of the old ones behind
	smaller := presence.NewMask()
	require.NoError(t, smaller.AddLevel(18, east, true))
	require.NoError(t, c.PutMask("globe.imagery", smaller))

	m, err = c.GetMask("globe.imagery")
	require.NoError(t, err)
	assert.Equal(t, []int{18}, m.Levels())
	require.Len(t, m.Level(18), 1)
	assert.Equal(t, east, m.Level(18)[0].Extents())
}

func TestMetadata(t *testing.T) {
	name := filepath.Join(testingDirName, "metadata.leveldb")

	c, err := catalog.Open(name, false)
	require.NoError(t, err, "open")
	defer c.Close()

	_, err = c.GetMetadata("globe")
	assert.Equal(t, fault.ErrMetadataNotFound, err)

	started := time.Date(2019, 10, 1, 12, 0, 0, 0, time.UTC)
	md := &catalog.Metadata{
		DefaultLevel: 4,
		MaxLevel:     18,
		Seeds:        3,
		Nodes:        1234,
		Packets:      map[string]uint64{"imagery": 1234, "terrain": 1000},
		Bundles:      map[string]string{"imagery": "/data/imagery.bundle"},
		Dropped:      []int{17, 18},
		Started:      started,
		Finished:     started.Add(time.Minute),
	}
	require.NoError(t, c.PutMetadata("globe", md))

	actual, err := c.GetMetadata("globe")
	require.NoError(t, err)
	assert.Equal(t, md.Packets, actual.Packets)
	assert.Equal(t, md.Bundles, actual.Bundles)
	assert.Equal(t, md.Nodes, actual.Nodes)
	assert.Equal(t, md.Dropped, actual.Dropped)
	assert.True(t, md.Started.Equal(actual.Started))
	assert.True(t, md.Finished.Equal(actual.Finished))

	assert.Equal(t, fault.ErrInvalidMaskName, c.PutMetadata("a\x00b", md))
}
