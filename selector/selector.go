// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package selector - decide which tiles go into a portable globe
//
// Every tile at or above the default level is kept so the globe always
// has a low resolution base map.  Below that, a tile is kept only if it
// is on a path of the hi-res region and not deeper than the max level.
package selector

import (
	"fmt"

	"github.com/bitmark-inc/portableglobe/fault"
	"github.com/bitmark-inc/portableglobe/hires"
	"github.com/bitmark-inc/portableglobe/quadtree"
)

// Selector - the default level, max level and hi-res region
type Selector struct {
	defaultLevel int
	maxLevel     int
	region       *hires.Region
}

// New - validate levels and create a selector
func New(defaultLevel int, maxLevel int, region *hires.Region) (*Selector, error) {
	if defaultLevel < 0 || maxLevel > quadtree.MaxLevel || defaultLevel > maxLevel {
		return nil, fmt.Errorf("default level: %d  max level: %d  limit: %d: %w", defaultLevel, maxLevel, quadtree.MaxLevel, fault.ErrInvalidLevels)
	}
	if nil == region {
		region, _ = hires.New(nil)
	}
	return &Selector{
		defaultLevel: defaultLevel,
		maxLevel:     maxLevel,
		region:       region,
	}, nil
}

// LoadFile - check the levels, then read the seed file
func LoadFile(defaultLevel int, maxLevel int, seedFile string) (*Selector, error) {
	if _, err := New(defaultLevel, maxLevel, nil); nil != err {
		return nil, err
	}
	region, err := hires.LoadFile(seedFile)
	if nil != err {
		return nil, err
	}
	return New(defaultLevel, maxLevel, region)
}

// DefaultLevel - deepest level kept everywhere
func (s *Selector) DefaultLevel() int {
	return s.defaultLevel
}

// MaxLevel - deepest level kept at all
func (s *Selector) MaxLevel() int {
	return s.maxLevel
}

// Region - the hi-res region
func (s *Selector) Region() *hires.Region {
	return s.region
}

// KeepNode - true if the tile at address belongs in the globe
func (s *Selector) KeepNode(address quadtree.Address) bool {
	level := address.Level()
	if level <= s.defaultLevel {
		return true
	}
	return level <= s.maxLevel && s.region.IsTreePath(address)
}

// Descend - false if no descendant of address can be kept
//
// below the default level a node off the region's paths cannot gain
// a descendant on them: extending the address can never turn it into
// a prefix of a seed, nor make a seed a prefix of it
func (s *Selector) Descend(address quadtree.Address) bool {
	level := address.Level()
	if level >= s.maxLevel {
		return false
	}
	if level < s.defaultLevel {
		return true
	}
	return s.region.IsTreePath(address)
}
