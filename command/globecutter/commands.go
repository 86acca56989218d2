// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/bitmark-inc/exitwithstatus"

	"github.com/bitmark-inc/portableglobe/hires"
	"github.com/bitmark-inc/portableglobe/quadtree"
	"github.com/bitmark-inc/portableglobe/selector"
)

// setup command handler
//
// commands that do not need the configuration file
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "check-seeds", "seeds":
		if 1 != len(arguments) {
			fmt.Printf("error: check-seeds requires exactly one file name\n")
			exitwithstatus.Exit(1)
		}
		region, err := hires.LoadFile(arguments[0])
		if nil != err {
			fmt.Printf("seed file: %q  error: %s\n", arguments[0], err)
			exitwithstatus.Exit(1)
		}
		fmt.Printf("seeds: %d\n", region.Len())
		for level := 0; level <= quadtree.MaxLevel; level += 1 {
			extents, ok := region.Extents(level)
			if !ok {
				break
			}
			fmt.Printf("  level: %2d  extents: %s\n", level, extents)
		}

	case "start", "run", "build":
		return false // defer processing until configuration is loaded

	case "config-test", "cfg", "keep":
		return false

	case "version", "v":
		fmt.Printf("%s\n", version)
		return true

	default:
		switch command {
		case "help", "h", "?":
		case "", " ":
			fmt.Printf("error: missing command\n")
		default:
			fmt.Printf("error: no such command: %q\n", command)
		}
		fmt.Printf("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [[command|help] arguments...]\n", program)

		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                       (h)      - display this message\n\n")
		fmt.Printf("  version                    (v)      - display version sting\n\n")

		fmt.Printf("  check-seeds FILE           (seeds)  - load a seed file and display the extents per level\n")
		fmt.Printf("\n")

		fmt.Printf("  start                      (run)    - build the globe, same as no arguments\n")
		fmt.Printf("\n")

		fmt.Printf("  config-test                (cfg)    - just check the configuration file\n")
		fmt.Printf("\n")

		fmt.Printf("  keep ADDRESS...                     - show the selector decision for each address\n")
		fmt.Printf("\n")

		exitwithstatus.Exit(1)
	}

	// indicate processing complete and preform normal exit from main
	return true
}

// configuration file enquiry commands
// have configuration file read and decoded, but nothing else
func processConfigCommand(arguments []string, options *Configuration) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "config-test", "cfg":
		b, err := json.Marshal(options)
		if err != nil {
			exitwithstatus.Message("error: %s", err)
		}
		var out bytes.Buffer
		json.Indent(&out, b, "", "  ")
		out.WriteTo(os.Stdout)
		os.Stdout.WriteString("\n")

	case "keep":
		sel, err := selector.LoadFile(options.DefaultLevel, options.MaxLevel, options.HiResFile)
		if nil != err {
			exitwithstatus.Message("error: %s", err)
		}
		for _, s := range arguments {
			address, err := quadtree.ParseAddress(s)
			if nil != err {
				fmt.Printf("%q: error: %s\n", s, err)
				continue
			}
			fmt.Printf("%-26q level: %2d  keep: %-5v  descend: %v\n", address.String(), address.Level(), sel.KeepNode(address), sel.Descend(address))
		}

	default: // unknown commands fall through to the build
		return false
	}

	// indicate processing complete and perform normal exit from main
	return true
}
