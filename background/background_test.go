// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package background_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/portableglobe/background"
)

type ticker struct {
	ticks   uint64
	stopped uint64
	args    interface{}
}

func (p *ticker) Run(args interface{}, shutdown <-chan struct{}) {
	p.args = args
	t := time.NewTicker(time.Millisecond)
	defer t.Stop()
loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-t.C:
			atomic.AddUint64(&p.ticks, 1)
		}
	}
	atomic.StoreUint64(&p.stopped, 1)
}

func TestBackground(t *testing.T) {
	proc1 := &ticker{}
	proc2 := &ticker{}

	// list of background processes to start
	processes := background.Processes{
		proc1,
		proc2,
	}

	p := background.Start(processes, "the-args")
	time.Sleep(50 * time.Millisecond)
	p.Stop()

	for i, proc := range []*ticker{proc1, proc2} {
		assert.Equal(t, uint64(1), atomic.LoadUint64(&proc.stopped), "process: %d did not stop", i)
		assert.NotZero(t, atomic.LoadUint64(&proc.ticks), "process: %d did not run", i)
		assert.Equal(t, "the-args", proc.args, "process: %d args", i)
	}
}

func TestStopNil(t *testing.T) {
	var p *background.T
	p.Stop()

	background.Start(nil, nil).Stop()
}
