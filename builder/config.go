// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package builder

import (
	"path/filepath"
	"time"

	"github.com/bitmark-inc/portableglobe/fault"
	"github.com/bitmark-inc/portableglobe/quadtree"
	"github.com/bitmark-inc/portableglobe/tilestore"
)

// DefaultMaxMaskBytes - mask memory allowed for one level when the
// configuration gives none
const DefaultMaxMaskBytes = 1 << 28

// Config - parameters of one build
type Config struct {
	Name              string            // globe name for catalog records
	Layers            []tilestore.Layer // one bundle per layer
	OutputDirectory   string
	Workers           int     // 1 for a sequential build
	SplitLevel        int     // subtrees rooted here are shared out to workers
	MaxReadsPerSecond float64 // source read limit, zero for no limit
	Alignment         uint32  // packet alignment in the bundles
	ProgressInterval  time.Duration
	MaxMaskBytes      uint64 // per level; a larger level gets no mask, zero for the default
}

// BundlePath - output file for a layer
func (c *Config) BundlePath(layer tilestore.Layer) string {
	return filepath.Join(c.OutputDirectory, layer.String()+".bundle")
}

func (c *Config) validate() error {
	if "" == c.OutputDirectory {
		return fault.ErrMissingOutputDir
	}
	if 0 == len(c.Layers) {
		return fault.ErrInvalidLayer
	}
	seen := make(map[tilestore.Layer]bool)
	for _, l := range c.Layers {
		if !l.IsValid() || seen[l] {
			return fault.ErrInvalidLayer
		}
		seen[l] = true
	}
	if c.Workers < 1 {
		return fault.ErrInvalidWorkers
	}
	if c.Workers > 1 && (c.SplitLevel < 1 || c.SplitLevel > quadtree.MaxLevel) {
		return fault.ErrInvalidSplitLevel
	}
	if 0 != c.Alignment&(c.Alignment-1) {
		return fault.ErrInvalidAlignment
	}
	return nil
}
