// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package tilestore

import (
	"strings"

	"github.com/bitmark-inc/portableglobe/fault"
)

// Layer - kind of packet held for a quadtree node
type Layer byte

// supported layers, the value is the storage pool prefix
const (
	Imagery Layer = 'I'
	Terrain Layer = 'T'
	Vector  Layer = 'V'
)

// Layers - all layers in build order
var Layers = []Layer{Imagery, Terrain, Vector}

// ParseLayer - convert a layer name
func ParseLayer(s string) (Layer, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "imagery":
		return Imagery, nil
	case "terrain":
		return Terrain, nil
	case "vector":
		return Vector, nil
	default:
		return 0, fault.ErrInvalidLayer
	}
}

// ParseLayers - convert a list of names, rejecting repeats
func ParseLayers(names []string) ([]Layer, error) {
	layers := make([]Layer, 0, len(names))
	seen := make(map[Layer]bool)
	for _, name := range names {
		l, err := ParseLayer(name)
		if nil != err {
			return nil, err
		}
		if seen[l] {
			return nil, fault.ErrInvalidLayer
		}
		seen[l] = true
		layers = append(layers, l)
	}
	return layers, nil
}

// IsValid - true for a known layer
func (l Layer) IsValid() bool {
	switch l {
	case Imagery, Terrain, Vector:
		return true
	default:
		return false
	}
}

// String - layer name
func (l Layer) String() string {
	switch l {
	case Imagery:
		return "imagery"
	case Terrain:
		return "terrain"
	case Vector:
		return "vector"
	default:
		return "*unknown*"
	}
}
