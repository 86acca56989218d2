// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package hires - the region of the quadtree kept at full resolution
//
// The region is defined by a set of seed addresses.  An address is in
// the region if it lies inside a seed's subtree, or if it is on the
// path from the root down to a seed.
//
// A Region is immutable once created and may be shared between any
// number of go routines.
package hires

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/bitmark-inc/portableglobe/fault"
	"github.com/bitmark-inc/portableglobe/quadtree"
)

// Region - sorted seed addresses
type Region struct {
	seeds []quadtree.Address
}

// New - region from a list of seeds, the list is copied
func New(seeds []quadtree.Address) (*Region, error) {
	s := make([]quadtree.Address, len(seeds))
	for i, seed := range seeds {
		if !seed.IsValid() {
			return nil, fmt.Errorf("seed %d: %q: %w", i, seed, fault.ErrInvalidSeed)
		}
		s[i] = seed
	}
	sort.Slice(s, func(i, j int) bool { return s[i] < s[j] })
	return &Region{seeds: s}, nil
}

// Load - read newline separated seeds
//
// surrounding white space is trimmed and blank lines are skipped, any
// other line that is not an address aborts the load
func Load(r io.Reader) (*Region, error) {
	seeds := make([]quadtree.Address, 0, 64)

	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n += 1
		line := strings.TrimSpace(scanner.Text())
		if "" == line {
			continue
		}
		a, err := quadtree.ParseAddress(line)
		if nil != err {
			return nil, fmt.Errorf("line %d: %q: %w", n, line, fault.ErrInvalidSeed)
		}
		seeds = append(seeds, a)
	}
	if err := scanner.Err(); nil != err {
		return nil, err
	}

	sort.Slice(seeds, func(i, j int) bool { return seeds[i] < seeds[j] })
	return &Region{seeds: seeds}, nil
}

// LoadFile - Load from a named file
func LoadFile(fileName string) (*Region, error) {
	f, err := os.Open(fileName)
	if nil != err {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Len - number of seeds
func (r *Region) Len() int {
	return len(r.seeds)
}

// Seeds - copy of the seeds in ascending order
func (r *Region) Seeds() []quadtree.Address {
	s := make([]quadtree.Address, len(r.seeds))
	copy(s, r.seeds)
	return s
}

// IsTreePath - true if some seed is a prefix of the address or the
// address is a prefix of some seed
func (r *Region) IsTreePath(address quadtree.Address) bool {
	n := len(r.seeds)
	if 0 == n {
		return false
	}

	// every seed having address as a prefix sorts at or just after it
	i := sort.Search(n, func(i int) bool { return r.seeds[i] >= address })
	if i < n && address.IsAncestorOf(r.seeds[i]) {
		return true
	}

	// look for any proper prefix of address among the seeds
	for level := 0; level < len(address); level += 1 {
		if r.contains(address[:level]) {
			return true
		}
	}
	return false
}

// exact match
func (r *Region) contains(address quadtree.Address) bool {
	n := len(r.seeds)
	i := sort.Search(n, func(i int) bool { return r.seeds[i] >= address })
	return i < n && r.seeds[i] == address
}

// Extents - bounding rectangle at a level of every tile in the region
//
// returns false if the region has no seeds
func (r *Region) Extents(level int) (quadtree.Extents, bool) {
	result := quadtree.Extents{}
	if 0 == len(r.seeds) || level < 0 || level > quadtree.MaxLevel {
		return result, false
	}
	for _, seed := range r.seeds {
		result = result.Union(seedExtents(seed, level))
	}
	return result, true
}

// Areas - disjoint rectangles at a level that together hold every tile
// of the region at that level
//
// seeds are grouped by their ancestor span levels above the level and
// each group gets its own bounding rectangle, so seeds far apart never
// share one; a seed shallower than the grouping level is a group by
// itself covering its whole subtree.  Result is in address order, nil
// if the region has no seeds.
func (r *Region) Areas(level int, span int) []quadtree.Extents {
	if 0 == len(r.seeds) || level < 0 || level > quadtree.MaxLevel {
		return nil
	}
	if span < 0 {
		span = 0
	}
	cut := level - span
	if cut < 0 {
		cut = 0
	}

	groups := make(map[quadtree.Address]quadtree.Extents)
	keys := make([]quadtree.Address, 0)
	for _, seed := range r.seeds {
		key := seed.Ancestor(cut)
		e := seedExtents(seed, level)
		if g, ok := groups[key]; ok {
			groups[key] = g.Union(e)
			continue
		}
		groups[key] = e
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	// a key below a shallow seed lies inside that seed's subtree
	areas := make([]quadtree.Extents, 0, len(keys))
	last := quadtree.Address("")
	for i, key := range keys {
		if i > 0 && last.IsAncestorOf(key) {
			continue
		}
		areas = append(areas, groups[key])
		last = key
	}
	return areas
}

// the seed's tiles at a level: its ancestor above the seed's level,
// its whole subtree below
func seedExtents(seed quadtree.Address, level int) quadtree.Extents {
	if seed.Level() >= level {
		_, row, col := seed.Ancestor(level).LevelRowCol()
		return quadtree.TileExtents(row, col)
	}
	shift := uint(level - seed.Level())
	_, row, col := seed.LevelRowCol()
	return quadtree.Extents{
		Row:    row << shift,
		Col:    col << shift,
		Height: 1 << shift,
		Width:  1 << shift,
	}
}
