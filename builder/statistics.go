// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package builder

import (
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/portableglobe/counter"
	"github.com/bitmark-inc/portableglobe/tilestore"
)

// running totals, updated by every worker
type statistics struct {
	visited counter.Counter
	kept    counter.Counter
	missing counter.Counter
	bytes   counter.Counter
	packets map[tilestore.Layer]*counter.Counter
}

func newStatistics(layers []tilestore.Layer) *statistics {
	s := &statistics{
		packets: make(map[tilestore.Layer]*counter.Counter),
	}
	for _, l := range layers {
		s.packets[l] = new(counter.Counter)
	}
	return s
}

// progress reporter, runs as a background process
type progress struct {
	log      *logger.L
	stats    *statistics
	interval time.Duration
}

func (p *progress) Run(args interface{}, shutdown <-chan struct{}) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-ticker.C:
			p.report()
		}
	}
	p.log.Debug("progress reporter stopped")
}

func (p *progress) report() {
	s := p.stats
	p.log.Infof("visited: %d  kept: %d  missing: %d  bytes: %d",
		s.visited.Uint64(), s.kept.Uint64(), s.missing.Uint64(), s.bytes.Uint64())
	for l, c := range s.packets {
		p.log.Debugf("layer: %s  packets: %d", l, c.Uint64())
	}
}
