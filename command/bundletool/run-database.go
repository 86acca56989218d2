// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/portableglobe/bundle"
	"github.com/bitmark-inc/portableglobe/catalog"
	"github.com/bitmark-inc/portableglobe/quadtree"
	"github.com/bitmark-inc/portableglobe/storage"
	"github.com/bitmark-inc/portableglobe/tilestore"
)

func runLoad(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	database, err := checkRequired(c, "database")
	if nil != err {
		return err
	}
	s, err := checkRequired(c, "layer")
	if nil != err {
		return err
	}
	layer, err := tilestore.ParseLayer(s)
	if nil != err {
		return err
	}
	if 0 == c.NArg() {
		return fmt.Errorf("load requires at least one bundle")
	}

	store, err := tilestore.Open(database, storage.ReadWrite)
	if nil != err {
		return err
	}
	defer store.Close()

	for _, fileName := range c.Args() {
		n, err := loadBundle(store, layer, fileName)
		if nil != err {
			return fmt.Errorf("bundle: %q: %w", fileName, err)
		}
		fmt.Fprintf(m.w, "%s: loaded: %d tiles into layer: %s\n", fileName, n, layer)
	}
	return nil
}

func loadBundle(store *tilestore.Store, layer tilestore.Layer, fileName string) (int, error) {
	r, err := bundle.Open(fileName)
	if nil != err {
		return 0, err
	}
	defer r.Close()

	for _, e := range r.Entries() {
		address, err := e.Key.Address()
		if nil != err {
			return 0, err
		}
		data, err := r.GetPacket(address)
		if nil != err {
			return 0, err
		}
		err = store.Put(layer, address, data)
		if nil != err {
			return 0, err
		}
	}
	return r.Count(), nil
}

type levelSummary struct {
	Level   int      `json:"level"`
	Areas   []string `json:"areas"`
	Present uint64   `json:"present"`
}

func runPresence(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	database, err := checkRequired(c, "catalog")
	if nil != err {
		return err
	}

	cat, err := catalog.Open(database, storage.ReadOnly)
	if nil != err {
		return err
	}
	defer cat.Close()

	name := c.String("name")
	if "" == name {
		names, err := cat.MaskNames()
		if nil != err {
			return err
		}
		return printJson(m.w, names)
	}

	mask, err := cat.GetMask(name)
	if nil != err {
		return err
	}

	if 0 == c.NArg() {
		levels := make([]levelSummary, 0)
		for _, l := range mask.Levels() {
			summary := levelSummary{
				Level: l,
				Areas: make([]string, 0),
			}
			for _, lm := range mask.Level(l) {
				summary.Areas = append(summary.Areas, lm.Extents().String())
				summary.Present += lm.Count()
			}
			levels = append(levels, summary)
		}
		return printJson(m.w, levels)
	}

	for _, s := range c.Args() {
		address, err := quadtree.ParseAddress(s)
		if nil != err {
			return err
		}
		fmt.Fprintf(m.w, "%-26q present: %v\n", address.String(), mask.GetAddressPresence(address))
	}
	return nil
}

func runMetadata(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	database, err := checkRequired(c, "catalog")
	if nil != err {
		return err
	}
	name, err := checkRequired(c, "name")
	if nil != err {
		return err
	}

	cat, err := catalog.Open(database, storage.ReadOnly)
	if nil != err {
		return err
	}
	defer cat.Close()

	md, err := cat.GetMetadata(name)
	if nil != err {
		return err
	}
	return printJson(m.w, md)
}
