// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/portableglobe/builder"
	"github.com/bitmark-inc/portableglobe/configuration"
	"github.com/bitmark-inc/portableglobe/quadtree"
	"github.com/bitmark-inc/portableglobe/tilestore"
	"github.com/bitmark-inc/portableglobe/util"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultName            = "globe"
	defaultDefaultLevel    = 4
	defaultMaxLevel        = 18
	defaultHiResFile       = "hires.txt"
	defaultSourceDatabase  = "source.leveldb"
	defaultCatalogDatabase = "catalog.leveldb"
	defaultOutputDirectory = "globe"
	defaultWorkers         = 1
	defaultSplitLevel      = 6
	defaultAlignment       = 0
	defaultProgress        = 30 // seconds

	defaultLogDirectory = "log"
	defaultLogFile      = "globecutter.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size
)

// to hold log levels
type LoglevelMap map[string]string

// path expanded or calculated defaults
var (
	defaultLayers = []string{
		tilestore.Imagery.String(),
		tilestore.Terrain.String(),
	}

	defaultLogLevels = LoglevelMap{
		logger.DefaultTag: "critical",
	}
)

// Configuration - contents of the Lua configuration file
type Configuration struct {
	DataDirectory     string               `gluamapper:"data_directory" json:"data_directory"`
	Name              string               `gluamapper:"name" json:"name"`
	DefaultLevel      int                  `gluamapper:"default_level" json:"default_level"`
	MaxLevel          int                  `gluamapper:"max_level" json:"max_level"`
	HiResFile         string               `gluamapper:"hires_file" json:"hires_file"`
	SourceDatabase    string               `gluamapper:"source_database" json:"source_database"`
	CatalogDatabase   string               `gluamapper:"catalog_database" json:"catalog_database"`
	OutputDirectory   string               `gluamapper:"output_directory" json:"output_directory"`
	Layers            []string             `gluamapper:"layers" json:"layers"`
	Workers           int                  `gluamapper:"workers" json:"workers"`
	SplitLevel        int                  `gluamapper:"split_level" json:"split_level"`
	MaxReadsPerSecond float64              `gluamapper:"max_reads_per_second" json:"max_reads_per_second"`
	Alignment         int                  `gluamapper:"alignment" json:"alignment"`
	ProgressInterval  int                  `gluamapper:"progress_interval" json:"progress_interval"`
	MaxMaskBytes      int64                `gluamapper:"max_mask_bytes" json:"max_mask_bytes"`
	Logging           logger.Configuration `gluamapper:"logging" json:"logging"`
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{
		DataDirectory:    defaultDataDirectory,
		Name:             defaultName,
		DefaultLevel:     defaultDefaultLevel,
		MaxLevel:         defaultMaxLevel,
		HiResFile:        defaultHiResFile,
		SourceDatabase:   defaultSourceDatabase,
		CatalogDatabase:  defaultCatalogDatabase,
		OutputDirectory:  defaultOutputDirectory,
		Workers:          defaultWorkers,
		SplitLevel:       defaultSplitLevel,
		Alignment:        defaultAlignment,
		ProgressInterval: defaultProgress,

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options); err != nil {
		return nil, err
	}

	// layers default is applied after decoding
	if 0 == len(options.Layers) {
		options.Layers = append([]string{}, defaultLayers...)
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("Path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	} else {
		options.DataDirectory = filepath.Clean(options.DataDirectory)
	}

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("Path: %q is not a directory", options.DataDirectory)
	}

	// force all relevant items to be absolute paths
	// if not, assign them to the data directory
	mustBeAbsolute := []*string{
		&options.HiResFile,
		&options.SourceDatabase,
		&options.CatalogDatabase,
		&options.OutputDirectory,
		&options.Logging.Directory,
	}
	for _, f := range mustBeAbsolute {
		*f = util.EnsureAbsolute(options.DataDirectory, *f)
	}

	// log file must be a simple name within the log directory
	if !util.IsPlainName(options.Logging.File) {
		return nil, fmt.Errorf("Files: %q is not plain name", options.Logging.File)
	}

	// verify the numeric items and layer names before any work starts
	if _, err := options.builderConfig(); nil != err {
		return nil, err
	}
	if options.DefaultLevel < 0 || options.MaxLevel > quadtree.MaxLevel || options.DefaultLevel > options.MaxLevel {
		return nil, fmt.Errorf("levels: %d..%d: out of range 0..%d", options.DefaultLevel, options.MaxLevel, quadtree.MaxLevel)
	}

	// create directories if they do not already exist
	for _, d := range []string{
		options.OutputDirectory,
		options.Logging.Directory,
	} {
		if err := util.EnsureDirectory(d, 0700); nil != err {
			return nil, err
		}
	}

	// done
	return options, nil
}

// convert to the builder's parameters
func (options *Configuration) builderConfig() (builder.Config, error) {
	layers, err := tilestore.ParseLayers(options.Layers)
	if nil != err {
		return builder.Config{}, fmt.Errorf("layers: %v: %w", options.Layers, err)
	}
	if options.Alignment < 0 || options.ProgressInterval < 0 || options.MaxMaskBytes < 0 {
		return builder.Config{}, fmt.Errorf("alignment: %d  progress_interval: %d  max_mask_bytes: %d: must not be negative", options.Alignment, options.ProgressInterval, options.MaxMaskBytes)
	}
	config := builder.Config{
		Name:              options.Name,
		Layers:            layers,
		OutputDirectory:   options.OutputDirectory,
		Workers:           options.Workers,
		SplitLevel:        options.SplitLevel,
		MaxReadsPerSecond: options.MaxReadsPerSecond,
		Alignment:         uint32(options.Alignment),
		ProgressInterval:  time.Duration(options.ProgressInterval) * time.Second,
		MaxMaskBytes:      uint64(options.MaxMaskBytes),
	}
	return config, nil
}
