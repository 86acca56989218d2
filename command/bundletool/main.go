// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/bitmark-inc/logger"
	"github.com/urfave/cli"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

type metadata struct {
	verbose bool
	e       io.Writer
	w       io.Writer
}

func main() {

	app := cli.NewApp()
	app.Name = "bundletool"
	app.Usage = "inspect and maintain globe bundles"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:  "log-directory, L",
			Value: ".",
			Usage: " write the log file to `DIR`",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "list",
			Usage:     "list the index of a bundle",
			ArgsUsage: "BUNDLE",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "summary, s",
					Usage: " only show the packet count and size",
				},
			},
			Action: runList,
		},
		{
			Name:      "get",
			Usage:     "extract one packet from a bundle",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "bundle, b",
					Value: "",
					Usage: "*bundle file `FILE`",
				},
				cli.StringFlag{
					Name:  "address, a",
					Value: "",
					Usage: "*quadtree `ADDRESS` of the packet",
				},
				cli.StringFlag{
					Name:  "output, o",
					Value: "",
					Usage: " write the packet to `FILE` [stdout]",
				},
			},
			Action: runGet,
		},
		{
			Name:      "verify",
			Usage:     "check every packet checksum of one or more bundles",
			ArgsUsage: "BUNDLE...",
			Flags:     []cli.Flag{},
			Action:    runVerify,
		},
		{
			Name:      "merge",
			Usage:     "combine bundles with disjoint addresses into one",
			ArgsUsage: "SEGMENT...\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "output, o",
					Value: "",
					Usage: "*merged bundle `FILE`, must not exist",
				},
				cli.IntFlag{
					Name:  "alignment, a",
					Value: 0,
					Usage: " packet alignment in `BYTES`",
				},
			},
			Action: runMerge,
		},
		{
			Name:      "load",
			Usage:     "copy every packet of a bundle into a tile database",
			ArgsUsage: "BUNDLE...\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "database, d",
					Value: "",
					Usage: "*tile database `DIR`",
				},
				cli.StringFlag{
					Name:  "layer, l",
					Value: "",
					Usage: "*tile `LAYER` [imagery|terrain|vector]",
				},
			},
			Action: runLoad,
		},
		{
			Name:      "presence",
			Usage:     "show a presence mask or query addresses against it",
			ArgsUsage: "[ADDRESS...]\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "catalog, c",
					Value: "",
					Usage: "*catalog database `DIR`",
				},
				cli.StringFlag{
					Name:  "name, n",
					Value: "",
					Usage: " mask `NAME` as GLOBE.LAYER or GLOBE.coverage, list the names if omitted",
				},
			},
			Action: runPresence,
		},
		{
			Name:      "metadata",
			Usage:     "show the recorded details of a build",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "catalog, c",
					Value: "",
					Usage: "*catalog database `DIR`",
				},
				cli.StringFlag{
					Name:  "name, n",
					Value: "",
					Usage: "*globe `NAME`",
				},
			},
			Action: runMetadata,
		},
		{
			Name:  "version",
			Usage: "display bundletool version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}

	app.Before = func(c *cli.Context) error {

		e := c.App.ErrWriter
		w := c.App.Writer
		verbose := c.GlobalBool("verbose")

		command := c.Args().Get(0)
		if "version" == command || "" == command || "help" == command {
			return nil
		}

		logging := logger.Configuration{
			Directory: c.GlobalString("log-directory"),
			File:      app.Name + ".log",
			Size:      1048576,
			Count:     10,
			Console:   verbose,
			Levels: map[string]string{
				logger.DefaultTag: "critical",
			},
		}
		if verbose {
			logging.Levels[logger.DefaultTag] = "info"
		}
		if err := logger.Initialise(logging); nil != err {
			return err
		}

		c.App.Metadata["config"] = &metadata{
			verbose: verbose,
			e:       e,
			w:       w,
		}
		return nil
	}

	app.After = func(c *cli.Context) error {
		if _, ok := c.App.Metadata["config"].(*metadata); ok {
			logger.Finalise()
		}
		return nil
	}

	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}
