// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package quadtree_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/portableglobe/fault"
	"github.com/bitmark-inc/portableglobe/quadtree"
)

func TestParseAddress(t *testing.T) {
	valid := []string{"", "0", "3", "0123", "301320203333221032", "333333333333333333333333"}
	for i, s := range valid {
		a, err := quadtree.ParseAddress(s)
		require.NoError(t, err, "%d: %q", i, s)
		assert.Equal(t, s, a.String())
		assert.Equal(t, len(s), a.Level())
		assert.True(t, a.IsValid())
	}

	invalid := []string{"4", "01a", " 01", "01\n", "-1", "0000000000000000000000000"}
	for i, s := range invalid {
		_, err := quadtree.ParseAddress(s)
		assert.True(t, fault.IsErrInvalid(err), "%d: %q accepted", i, s)
		assert.False(t, quadtree.Address(s).IsValid())
	}
}

func TestAncestry(t *testing.T) {
	a := quadtree.Address("0312")

	assert.True(t, quadtree.Root.IsAncestorOf(a))
	assert.True(t, quadtree.Address("03").IsAncestorOf(a))
	assert.True(t, a.IsAncestorOf(a))
	assert.False(t, quadtree.Address("02").IsAncestorOf(a))
	assert.False(t, quadtree.Address("03120").IsAncestorOf(a))

	assert.Equal(t, quadtree.Address("031"), a.Parent())
	assert.Equal(t, quadtree.Root, quadtree.Root.Parent())
	assert.Equal(t, quadtree.Address("03"), a.Ancestor(2))
	assert.Equal(t, a, a.Ancestor(9))
	assert.Equal(t, quadtree.Root, a.Ancestor(-1))

	children := a.Children()
	for q, c := range children {
		assert.Equal(t, a, c.Parent())
		assert.Equal(t, byte('0'+q), c.String()[4])
	}
	assert.Panics(t, func() { a.Child(4) })
}

func TestLevelRowCol(t *testing.T) {
	items := []struct {
		address quadtree.Address
		level   int
		row     uint32
		col     uint32
	}{
		{"", 0, 0, 0},
		{"0", 1, 0, 0},
		{"1", 1, 0, 1},
		{"2", 1, 1, 1},
		{"3", 1, 1, 0},
		{"30", 2, 2, 0},
		{"12", 2, 1, 3},
		{"0123", 4, 3, 6},
	}

	for i, item := range items {
		level, row, col := item.address.LevelRowCol()
		assert.Equal(t, item.level, level, "%d: level", i)
		assert.Equal(t, item.row, row, "%d: row", i)
		assert.Equal(t, item.col, col, "%d: col", i)

		a, err := quadtree.FromLevelRowCol(level, row, col)
		require.NoError(t, err)
		assert.Equal(t, item.address, a, "%d: inverse", i)
	}

	_, err := quadtree.FromLevelRowCol(2, 4, 0)
	assert.True(t, fault.IsErrInvalid(err))
	_, err = quadtree.FromLevelRowCol(quadtree.MaxLevel+1, 0, 0)
	assert.True(t, fault.IsErrInvalid(err))
}

func TestKeyRoundTripAndOrder(t *testing.T) {
	addresses := []quadtree.Address{
		"3013202033332210320123",
		"",
		"02",
		"0",
		"020",
		"3",
		"30",
		"0000",
		"000",
		"03212",
		"101323",
		"333333333333333333333333",
	}

	keys := make([]quadtree.Key, 0, len(addresses))
	for _, a := range addresses {
		k := a.Key()
		assert.Equal(t, a.Level(), k.Level())
		b, err := k.Address()
		require.NoError(t, err)
		assert.Equal(t, a, b)

		k2, err := quadtree.KeyFromBytes(k.Bytes())
		require.NoError(t, err)
		assert.Equal(t, k, k2)
		keys = append(keys, k)
	}

	// trailing zero digits stay distinct
	assert.NotEqual(t, quadtree.Address("0").Key(), quadtree.Address("00").Key())

	// key order is string order
	sort.Slice(addresses, func(i, j int) bool { return addresses[i] < addresses[j] })
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	for i := range keys {
		assert.Equal(t, addresses[i].Key(), keys[i], "%d: order", i)
	}

	_, err := quadtree.Key(25).Address()
	assert.True(t, fault.IsErrInvalid(err))
	_, err = quadtree.Key(1<<40 | 1).Address()
	assert.True(t, fault.IsErrInvalid(err))
	_, err = quadtree.KeyFromBytes([]byte{1, 2, 3})
	assert.True(t, fault.IsErrInvalid(err))
}
