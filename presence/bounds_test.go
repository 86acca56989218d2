// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package presence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/portableglobe/quadtree"
)

func TestSetPresenceOutOfRange(t *testing.T) {
	m, err := NewLevelMask(3, quadtree.Extents{Row: 2, Col: 2, Height: 2, Width: 2}, false)
	require.NoError(t, err)

	outside := [][2]uint32{{0, 0}, {1, 2}, {4, 2}, {2, 4}, {2, 1}}
	for _, rc := range outside {
		set := func() { m.SetPresence(rc[0], rc[1], true, TilePresence) }
		if checkBounds {
			assert.Panics(t, set, "(%d, %d)", rc[0], rc[1])
		} else {
			assert.NotPanics(t, set, "(%d, %d)", rc[0], rc[1])
		}
	}
	assert.Equal(t, uint64(0), m.Count())
}

func TestInvalidMode(t *testing.T) {
	m, err := NewLevelMask(1, quadtree.FullExtents(1), false)
	require.NoError(t, err)
	assert.Panics(t, func() { m.SetPresence(0, 0, true, Mode(7)) })
}
