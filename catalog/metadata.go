// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package catalog

import (
	"encoding/json"
	"time"

	"github.com/bitmark-inc/portableglobe/fault"
)

// Metadata - summary of one completed build
type Metadata struct {
	DefaultLevel int               `json:"defaultLevel"`
	MaxLevel     int               `json:"maxLevel"`
	Seeds        int               `json:"seeds"`
	Nodes        uint64            `json:"nodes"`
	Packets      map[string]uint64 `json:"packets"`
	Bundles      map[string]string `json:"bundles"`
	Dropped      []int             `json:"droppedLevels,omitempty"`
	Started      time.Time         `json:"started"`
	Finished     time.Time         `json:"finished"`
}

// PutMetadata - store build metadata under a globe name
func (c *Catalog) PutMetadata(name string, md *Metadata) error {
	if !validName(name) {
		return fault.ErrInvalidMaskName
	}
	data, err := json.Marshal(md)
	if nil != err {
		return err
	}
	return c.metadata.Put([]byte(name), data)
}

// GetMetadata - read build metadata
func (c *Catalog) GetMetadata(name string) (*Metadata, error) {
	if !validName(name) {
		return nil, fault.ErrInvalidMaskName
	}
	data, found, err := c.metadata.Get([]byte(name))
	if nil != err {
		return nil, err
	}
	if !found {
		return nil, fault.ErrMetadataNotFound
	}
	md := &Metadata{}
	err = json.Unmarshal(data, md)
	if nil != err {
		return nil, err
	}
	return md, nil
}
