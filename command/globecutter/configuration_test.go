// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/portableglobe/tilestore"
)

func writeConfiguration(t *testing.T, text string) (string, func()) {
	dir, err := ioutil.TempDir("", "globecutter")
	require.NoError(t, err, "temp dir")
	fileName := filepath.Join(dir, "globecutter.conf")
	err = ioutil.WriteFile(fileName, []byte(text), 0600)
	require.NoError(t, err, "write configuration")
	return fileName, func() { os.RemoveAll(dir) }
}

func TestSampleConfiguration(t *testing.T) {
	text, err := ioutil.ReadFile("globecutter.conf.sample")
	require.NoError(t, err, "read sample")

	fileName, cleanup := writeConfiguration(t, string(text))
	defer cleanup()
	dir := filepath.Dir(fileName)

	options, err := getConfiguration(fileName)
	require.NoError(t, err, "get configuration")

	assert.Equal(t, "globe", options.Name, "name")
	assert.Equal(t, 4, options.DefaultLevel, "default level")
	assert.Equal(t, 18, options.MaxLevel, "max level")
	assert.Equal(t, filepath.Join(dir, "hires.txt"), options.HiResFile, "hires file")
	assert.Equal(t, filepath.Join(dir, "source.leveldb"), options.SourceDatabase, "source")
	assert.Equal(t, filepath.Join(dir, "globe"), options.OutputDirectory, "output")
	assert.Equal(t, filepath.Join(dir, "log"), options.Logging.Directory, "log directory")
	assert.Equal(t, "globecutter.log", options.Logging.File, "log file default")
	assert.Equal(t, 20, options.Logging.Count, "log count")

	assert.DirExists(t, options.OutputDirectory, "output directory created")
	assert.DirExists(t, options.Logging.Directory, "log directory created")

	config, err := options.builderConfig()
	require.NoError(t, err, "builder config")
	assert.Equal(t, []tilestore.Layer{tilestore.Imagery, tilestore.Terrain}, config.Layers, "layers")
	assert.Equal(t, 4, config.Workers, "workers")
	assert.Equal(t, 6, config.SplitLevel, "split level")
	assert.Equal(t, 30*time.Second, config.ProgressInterval, "progress")
}

func TestConfigurationDefaults(t *testing.T) {
	fileName, cleanup := writeConfiguration(t, `return { data_directory = "." }`)
	defer cleanup()

	options, err := getConfiguration(fileName)
	require.NoError(t, err, "get configuration")

	assert.Equal(t, defaultName, options.Name, "name")
	assert.Equal(t, defaultWorkers, options.Workers, "workers")
	assert.Equal(t, defaultLayers, options.Layers, "layers")
	assert.Equal(t, defaultLogSize, options.Logging.Size, "log size")
}

func TestConfigurationErrors(t *testing.T) {
	items := []struct {
		name string
		text string
	}{
		{"no data directory", `return { }`},
		{"missing data directory", `return { data_directory = "/no/such/directory/anywhere" }`},
		{"bad layer", `return { data_directory = ".", layers = { "imagery", "sound" } }`},
		{"repeated layer", `return { data_directory = ".", layers = { "terrain", "terrain" } }`},
		{"levels reversed", `return { data_directory = ".", default_level = 9, max_level = 3 }`},
		{"level too deep", `return { data_directory = ".", max_level = 25 }`},
		{"negative alignment", `return { data_directory = ".", alignment = -1 }`},
		{"negative mask limit", `return { data_directory = ".", max_mask_bytes = -1 }`},
		{"log file path", `return { data_directory = ".", logging = { file = "a/b.log" } }`},
		{"not a table", `return 42`},
	}

	for _, item := range items {
		fileName, cleanup := writeConfiguration(t, item.text)
		_, err := getConfiguration(fileName)
		assert.Error(t, err, item.name)
		cleanup()
	}
}
