// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/portableglobe/builder"
	"github.com/bitmark-inc/portableglobe/catalog"
	"github.com/bitmark-inc/portableglobe/fault"
	"github.com/bitmark-inc/portableglobe/selector"
	"github.com/bitmark-inc/portableglobe/storage"
	"github.com/bitmark-inc/portableglobe/tilestore"
	"github.com/bitmark-inc/portableglobe/util"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(options["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	// these commands do not require the configuration
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := getConfiguration(configurationFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// these commands require the configuration and
	// perform enquiries on the configuration
	if len(arguments) > 0 && processConfigCommand(arguments, theConfiguration) {
		return
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	// last-gasp channel for internal panics
	if err = fault.Initialise(); nil != err {
		exitwithstatus.Message("%s: fault setup failed with error: %s", program, err)
	}
	defer fault.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("theConfiguration: %v", theConfiguration)

	// ------------------
	// start of real main
	// ------------------

	config, err := theConfiguration.builderConfig()
	if nil != err {
		log.Criticalf("configuration error: %s", err)
		exitwithstatus.Message("configuration error: %s", err)
	}

	sel, err := selector.LoadFile(theConfiguration.DefaultLevel, theConfiguration.MaxLevel, theConfiguration.HiResFile)
	if nil != err {
		log.Criticalf("seed file: %q  error: %s", theConfiguration.HiResFile, err)
		exitwithstatus.Message("seed file: %q  error: %s", theConfiguration.HiResFile, err)
	}
	log.Infof("seeds: %d  from: %q", sel.Region().Len(), theConfiguration.HiResFile)

	log.Infof("source: %q", theConfiguration.SourceDatabase)
	source, err := tilestore.Open(theConfiguration.SourceDatabase, storage.ReadOnly)
	if nil != err {
		log.Criticalf("source open error: %s", err)
		exitwithstatus.Message("source open error: %s", err)
	}
	defer source.Close()

	log.Infof("catalog: %q", theConfiguration.CatalogDatabase)
	cat, err := catalog.Open(theConfiguration.CatalogDatabase, storage.ReadWrite)
	if nil != err {
		log.Criticalf("catalog open error: %s", err)
		exitwithstatus.Message("catalog open error: %s", err)
	}
	defer cat.Close()

	b, err := builder.New(config, sel, source, cat)
	if nil != err {
		log.Criticalf("builder error: %s", err)
		exitwithstatus.Message("builder error: %s", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// a signal abandons the build
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-ch:
			log.Infof("received signal: %v", sig)
			if len(options["verbose"]) > 0 {
				fmt.Printf("\nreceived signal: %v\n", sig)
			}
			cancel()
		case <-ctx.Done():
		}
	}()

	result, err := b.Build(ctx)
	if nil != err {
		log.Criticalf("build error: %s", err)
		exitwithstatus.Message("build error: %s", err)
	}

	log.Infof("nodes: %d  kept: %d  missing: %d  bytes: %s", result.Nodes, result.Kept, result.Missing, util.FormatSize(result.Bytes))
	for _, layer := range config.Layers {
		log.Infof("layer: %s  packets: %d  bundle: %q", layer, result.Packets[layer], result.Bundles[layer])
	}
	if 0 == len(options["quiet"]) {
		fmt.Printf("nodes: %d  kept: %d  missing: %d  bytes: %s\n", result.Nodes, result.Kept, result.Missing, util.FormatSize(result.Bytes))
		for _, layer := range config.Layers {
			fmt.Printf("  %-8s packets: %8d  bundle: %s\n", layer, result.Packets[layer], result.Bundles[layer])
		}
		if 0 != len(result.DroppedLevels) {
			fmt.Printf("levels without masks: %v\n", result.DroppedLevels)
		}
	}
}
