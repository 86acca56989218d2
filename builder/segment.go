// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package builder

import (
	"os"

	"github.com/bitmark-inc/portableglobe/bundle"
	"github.com/bitmark-inc/portableglobe/quadtree"
	"github.com/bitmark-inc/portableglobe/tilestore"
)

// one writer per layer, owned by a single goroutine
type segment struct {
	suffix    string
	writers   map[tilestore.Layer]*bundle.Writer
	finalized bool
}

// open writers for every layer at BundlePath(layer)+suffix
func (b *Builder) newSegment(suffix string) (*segment, error) {
	s := &segment{
		suffix:  suffix,
		writers: make(map[tilestore.Layer]*bundle.Writer),
	}
	for _, l := range b.config.Layers {
		w, err := bundle.Create(b.config.BundlePath(l)+suffix, bundle.WithAlignment(b.config.Alignment))
		if nil != err {
			s.abandon()
			return nil, err
		}
		s.writers[l] = w
	}
	return s, nil
}

func (s *segment) append(layer tilestore.Layer, address quadtree.Address, data []byte) error {
	return s.writers[layer].Append(address, data)
}

// finalize every writer; on failure the remaining writers are abandoned
func (s *segment) finalize() error {
	var err error
	for _, w := range s.writers {
		if nil == err {
			err = w.Finalize()
		} else {
			w.Abandon()
		}
	}
	if nil != err {
		s.remove()
		return err
	}
	s.finalized = true
	return nil
}

// discard partial output
func (s *segment) abandon() {
	if s.finalized {
		s.remove()
		return
	}
	for _, w := range s.writers {
		w.Abandon()
	}
}

// delete finalized files
func (s *segment) remove() {
	for _, w := range s.writers {
		os.Remove(w.Path())
	}
}

func (s *segment) path(layer tilestore.Layer) string {
	return s.writers[layer].Path()
}

func removeFile(name string) {
	os.Remove(name)
}

func fileExists(name string) bool {
	_, err := os.Stat(name)
	return nil == err
}
