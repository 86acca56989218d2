// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bundle

import (
	"time"
)

type options struct {
	alignment       uint32
	cacheExpiration time.Duration
}

// Option - modifies Create, Open or Merge behaviour; options that do
// not apply to an operation are ignored
type Option func(*options)

// WithAlignment - start every packet on a multiple of n bytes
// (writer only; n must be zero or a power of two)
func WithAlignment(n uint32) Option {
	return func(o *options) {
		o.alignment = n
	}
}

// WithCache - keep recently read packets in memory for the given time
// (reader only)
func WithCache(expiration time.Duration) Option {
	return func(o *options) {
		o.cacheExpiration = expiration
	}
}

func applyOptions(opts []Option) *options {
	o := &options{}
	for _, f := range opts {
		f(o)
	}
	return o
}
