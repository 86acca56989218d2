// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package selector_test

import (
	"io/ioutil"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/portableglobe/fault"
	"github.com/bitmark-inc/portableglobe/hires"
	"github.com/bitmark-inc/portableglobe/quadtree"
	"github.com/bitmark-inc/portableglobe/selector"
)

const qtnodes = "30132020333322002\n" +
	"30132020333322003\n" +
	"30132020333322012\n" +
	"30132020333322013\n" +
	"301320203333221022\n" +
	"301320203333221023\n" +
	"301320203333221032\n" +
	"301320203333221033\n" +
	"301320203333221132\n" +
	"101323\n" +
	"03212\n" +
	"02\n"

func writeSeeds(t *testing.T, seeds string) (string, func()) {
	dir, err := ioutil.TempDir("", "selector")
	require.NoError(t, err)
	fileName := filepath.Join(dir, "qtnodes.txt")
	require.NoError(t, ioutil.WriteFile(fileName, []byte(seeds), 0600))
	return fileName, func() { os.RemoveAll(dir) }
}

func TestKeepNode(t *testing.T) {
	fileName, cleanup := writeSeeds(t, qtnodes)
	defer cleanup()

	s, err := selector.LoadFile(4, 18, fileName)
	require.NoError(t, err)
	assert.Equal(t, 4, s.DefaultLevel())
	assert.Equal(t, 18, s.MaxLevel())
	assert.Equal(t, 12, s.Region().Len())

	keep := []quadtree.Address{
		// ancestors of a seed
		"301320203",
		"3013202033",
		"301320203333",
		"301320203333221",
		"30132020333322103",

		// a seed
		"301320203333221032",

		// at or above the default level, even though off the region
		"301",
		"2222",
		"",

		// descendants of a short seed
		"02",
		"020120121021021",
	}
	for _, a := range keep {
		assert.True(t, s.KeepNode(a), "%q", a)
	}

	drop := []quadtree.Address{
		// on the region but beyond the max level
		"3013202033332210320123",
		"02012012102102102210",

		// one off ancestors of a seed
		"301320201",
		"3013202032",
		"301320203330",
		"301320203333222",
		"30132020333322100",

		// one off a seed
		"301320203333221031",

		// unrelated
		"22222",
	}
	for _, a := range drop {
		assert.False(t, s.KeepNode(a), "%q", a)
	}
}

func TestFourSeedScenario(t *testing.T) {
	r, err := hires.Load(strings.NewReader("301320203333221032\n02\n101323\n03212\n"))
	require.NoError(t, err)
	s, err := selector.New(4, 18, r)
	require.NoError(t, err)

	assert.True(t, s.KeepNode("301"))
	assert.False(t, s.KeepNode("3013202033332210320123"))
	assert.True(t, r.IsTreePath("3013202033332210320123"))
}

func TestInvalidLevels(t *testing.T) {
	levels := [][2]int{
		{5, 4},
		{-1, 4},
		{0, quadtree.MaxLevel + 1},
		{quadtree.MaxLevel + 1, quadtree.MaxLevel + 1},
	}
	for _, l := range levels {
		_, err := selector.New(l[0], l[1], nil)
		assert.True(t, fault.IsErrInvalid(err), "%v", l)
	}

	// level errors are reported before the seed file is touched
	_, err := selector.LoadFile(9, 3, "/nonexistent/qtnodes.txt")
	assert.True(t, fault.IsErrInvalid(err))

	_, err = selector.LoadFile(3, 9, "/nonexistent/qtnodes.txt")
	assert.Error(t, err)
	assert.False(t, fault.IsErrInvalid(err))

	s, err := selector.New(quadtree.MaxLevel, quadtree.MaxLevel, nil)
	require.NoError(t, err)
	assert.True(t, s.KeepNode("333333333333333333333333"))
}

func TestEmptyRegionKeepsOnlyBaseMap(t *testing.T) {
	s, err := selector.New(2, 10, nil)
	require.NoError(t, err)
	assert.True(t, s.KeepNode("12"))
	assert.False(t, s.KeepNode("123"))
	assert.True(t, s.Descend("1"))
	assert.False(t, s.Descend("12"))
}

func TestDescendAtMaxLevel(t *testing.T) {
	r, err := hires.New([]quadtree.Address{"0"})
	require.NoError(t, err)
	s, err := selector.New(1, 3, r)
	require.NoError(t, err)

	assert.True(t, s.Descend("01"))
	assert.True(t, s.KeepNode("012"))
	assert.False(t, s.Descend("012"))
	assert.False(t, s.KeepNode("0123"))
}

func randomAddress(rng *rand.Rand, level int) quadtree.Address {
	b := make([]byte, level)
	for i := range b {
		b[i] = byte('0' + rng.Intn(4))
	}
	return quadtree.Address(b)
}

// collect every descendant of a down to maxLevel
func descendants(a quadtree.Address, maxLevel int, f func(quadtree.Address)) {
	if a.Level() >= maxLevel {
		return
	}
	for _, c := range a.Children() {
		f(c)
		descendants(c, maxLevel, f)
	}
}

// once Descend says no, nothing below can be kept
func TestPruningIsSafe(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	seeds := make([]quadtree.Address, 8)
	for i := range seeds {
		seeds[i] = randomAddress(rng, 2+rng.Intn(5))
	}
	r, err := hires.New(seeds)
	require.NoError(t, err)

	s, err := selector.New(2, 7, r)
	require.NoError(t, err)

	checked := 0
	for i := 0; i < 300; i += 1 {
		a := randomAddress(rng, rng.Intn(6))
		if s.Descend(a) {
			continue
		}
		checked += 1
		descendants(a, 7, func(d quadtree.Address) {
			require.False(t, s.KeepNode(d), "%q pruned but descendant %q kept", a, d)
		})
	}
	assert.NotZero(t, checked)
}

// pruning off-region nodes below the default level: any extension of
// an address that is off the region stays off the region
func TestOffRegionStaysOffRegion(t *testing.T) {
	r, err := hires.Load(strings.NewReader(qtnodes))
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 2000; i += 1 {
		a := randomAddress(rng, 1+rng.Intn(12))
		if r.IsTreePath(a) {
			continue
		}
		d := a + randomAddress(rng, 1+rng.Intn(8))
		require.False(t, r.IsTreePath(d), "%q off region, %q on", a, d)
	}
}

// a full walk visits exactly the kept nodes
func TestWalkVisitsExactlyKeptNodes(t *testing.T) {
	r, err := hires.Load(strings.NewReader("0213\n3\n12012\n"))
	require.NoError(t, err)
	s, err := selector.New(1, 6, r)
	require.NoError(t, err)

	visited := map[quadtree.Address]bool{}
	var walk func(a quadtree.Address)
	walk = func(a quadtree.Address) {
		if !s.KeepNode(a) {
			return
		}
		visited[a] = true
		if s.Descend(a) {
			for _, c := range a.Children() {
				walk(c)
			}
		}
	}
	walk(quadtree.Root)

	// brute force over every address to level 7
	count := 0
	var all func(a quadtree.Address)
	all = func(a quadtree.Address) {
		if s.KeepNode(a) {
			count += 1
			assert.True(t, visited[a], "%q kept but not visited", a)
		} else {
			assert.False(t, visited[a], "%q visited but not kept", a)
		}
		if a.Level() < 7 {
			for _, c := range a.Children() {
				all(c)
			}
		}
	}
	all(quadtree.Root)
	assert.Equal(t, count, len(visited))
}
