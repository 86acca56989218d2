// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package counter_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/portableglobe/counter"
)

// test incrementing/decrementing a counter
func TestCounter(t *testing.T) {
	var c1 counter.Counter

	assert.True(t, c1.IsZero(), "counter is not zero at start")

	c1.Increment()
	c1.Increment()
	c1.Increment()
	c1.Increment()
	assert.Equal(t, uint64(5), c1.Increment(), "after incrementing")

	assert.Equal(t, uint64(4), c1.Decrement(), "after decrementing")

	assert.Equal(t, uint64(14), c1.Add(10), "after add")

	assert.Equal(t, uint64(14), c1.Reset(), "reset returns old value")
	assert.True(t, c1.IsZero(), "counter did not return to zero")

	assert.Equal(t, ^uint64(0), c1.Decrement(), "decrement wraps")
}

func TestConcurrentCounter(t *testing.T) {
	var c counter.Counter
	var wg sync.WaitGroup

	for i := 0; i < 8; i += 1 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j += 1 {
				c.Increment()
				c.Add(2)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(8*1000*3), c.Uint64())
}
