// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io/ioutil"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/portableglobe/bundle"
	"github.com/bitmark-inc/portableglobe/quadtree"
	"github.com/bitmark-inc/portableglobe/util"
)

type listEntry struct {
	Address string `json:"address"`
	Offset  uint64 `json:"offset"`
	Length  uint32 `json:"length"`
	CRC     string `json:"crc"`
}

type listSummary struct {
	File      string      `json:"file"`
	Packets   int         `json:"packets"`
	Bytes     string      `json:"bytes"`
	Alignment uint32      `json:"alignment"`
	Entries   []listEntry `json:"entries,omitempty"`
}

func runList(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	if 1 != c.NArg() {
		return fmt.Errorf("list requires exactly one bundle")
	}
	fileName := c.Args().Get(0)

	r, err := bundle.Open(fileName)
	if nil != err {
		return err
	}
	defer r.Close()

	entries := r.Entries()
	total := uint64(0)
	for _, e := range entries {
		total += uint64(e.Length)
	}

	summary := listSummary{
		File:      fileName,
		Packets:   len(entries),
		Bytes:     util.FormatSize(total),
		Alignment: r.Alignment(),
	}

	if !c.Bool("summary") {
		summary.Entries = make([]listEntry, 0, len(entries))
		for _, e := range entries {
			address, err := e.Key.Address()
			if nil != err {
				return err
			}
			summary.Entries = append(summary.Entries, listEntry{
				Address: address.String(),
				Offset:  e.Offset,
				Length:  e.Length,
				CRC:     fmt.Sprintf("%08x", e.CRC),
			})
		}
	}

	return printJson(m.w, summary)
}

func runGet(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	fileName, err := checkRequired(c, "bundle")
	if nil != err {
		return err
	}
	s, err := checkRequired(c, "address")
	if nil != err {
		return err
	}
	address, err := quadtree.ParseAddress(s)
	if nil != err {
		return err
	}

	r, err := bundle.Open(fileName)
	if nil != err {
		return err
	}
	defer r.Close()

	data, err := r.GetPacket(address)
	if nil != err {
		return err
	}

	output := c.String("output")
	if "" == output {
		_, err = m.w.Write(data)
		return err
	}
	if util.EnsureFileExists(output) {
		return fmt.Errorf("not overwriting existing file: %q", output)
	}
	if m.verbose {
		fmt.Fprintf(m.e, "packet: %q  bytes: %d  to: %q\n", address, len(data), output)
	}
	return ioutil.WriteFile(output, data, 0644)
}

func runVerify(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	if 0 == c.NArg() {
		return fmt.Errorf("verify requires at least one bundle")
	}

	failed := 0
	for _, fileName := range c.Args() {
		err := verifyOne(fileName)
		if nil != err {
			fmt.Fprintf(m.w, "%s: FAIL: %s\n", fileName, err)
			failed += 1
			continue
		}
		fmt.Fprintf(m.w, "%s: ok\n", fileName)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d bundles failed verification", failed, c.NArg())
	}
	return nil
}

func verifyOne(fileName string) error {
	r, err := bundle.Open(fileName)
	if nil != err {
		return err
	}
	defer r.Close()
	return r.Verify()
}

func runMerge(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	output, err := checkRequired(c, "output")
	if nil != err {
		return err
	}
	if 0 == c.NArg() {
		return fmt.Errorf("merge requires at least one segment")
	}
	alignment := c.Int("alignment")
	if alignment < 0 {
		return fmt.Errorf("alignment: %d must not be negative", alignment)
	}

	err = bundle.Merge(output, c.Args(), bundle.WithAlignment(uint32(alignment)))
	if nil != err {
		return err
	}
	if m.verbose {
		fmt.Fprintf(m.e, "merged: %d segments into: %q\n", c.NArg(), output)
	}
	return nil
}

func checkRequired(c *cli.Context, name string) (string, error) {
	s := c.String(name)
	if "" == s {
		return "", fmt.Errorf("--%s is required", name)
	}
	return s, nil
}
