// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package configuration - parse a Lua configuration file
//
// most of base Lua is available such as reading files to set key data
// and getenv to extract environment supplied items.  The file must
// return a table whose keys match the gluamapper tags of the target
// structure; fields not mentioned keep the values already present.
//
// arg[0] holds the configuration file name and arg[1..] any extra
// arguments given to ParseConfigurationFile.
package configuration
