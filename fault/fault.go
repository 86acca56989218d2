// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"errors"
)

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type LengthError GenericError
type NotFoundError GenericError
type ProcessError GenericError

// common errors - keep in alphabetic order
var (
	ErrAlreadyInitialised   = ExistsError("already initialised")
	ErrBufferSize           = LengthError("presence buffer size does not match extents")
	ErrBundleClosed         = ProcessError("bundle is already finalised or abandoned")
	ErrBundleExists         = ExistsError("bundle file already exists")
	ErrBuildCancelled       = ProcessError("build cancelled")
	ErrConfigNotTable       = InvalidError("configuration file must return a table")
	ErrCorruptBundle        = InvalidError("bundle data is corrupt")
	ErrCorruptMask          = InvalidError("stored presence mask is corrupt")
	ErrDatabaseClosed       = ProcessError("database is closed")
	ErrDatabaseVersion      = InvalidError("incompatible database version")
	ErrDuplicateKey         = ExistsError("duplicate packet key")
	ErrIndexNotSorted       = InvalidError("bundle index is not sorted")
	ErrInvalidAddress       = InvalidError("invalid quadtree address")
	ErrInvalidAlignment     = InvalidError("alignment must be a power of two")
	ErrInvalidBundleMagic   = InvalidError("invalid bundle magic")
	ErrInvalidBundleVersion = InvalidError("unsupported bundle version")
	ErrInvalidCount         = InvalidError("count must be positive")
	ErrInvalidExtents       = InvalidError("invalid extents")
	ErrInvalidLayer         = InvalidError("invalid layer")
	ErrInvalidLevels        = InvalidError("default level must not exceed max level")
	ErrInvalidLoggerChannel = InvalidError("invalid logger channel")
	ErrInvalidMaskName      = InvalidError("invalid mask name")
	ErrInvalidSeed          = InvalidError("invalid hi-res seed")
	ErrInvalidSplitLevel    = InvalidError("split level out of range")
	ErrInvalidStructPointer = InvalidError("invalid struct pointer")
	ErrInvalidWorkers       = InvalidError("workers must be at least one")
	ErrLevelNotPresent      = NotFoundError("level not present in mask")
	ErrMaskNotFound         = NotFoundError("presence mask not found")
	ErrMetadataNotFound     = NotFoundError("build metadata not found")
	ErrMissingOutputDir     = InvalidError("output directory not set")
	ErrPacketNotFound       = NotFoundError("packet not found")
	ErrPacketTooLarge       = LengthError("packet too large")
	ErrSizeOverflow         = LengthError("presence buffer size overflow")
	ErrTileNotFound         = NotFoundError("tile not found")
	ErrTruncatedBundle      = LengthError("bundle file is truncated")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e LengthError) Error() string   { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }

// determine the class of an error, looking through any wrapping
func IsErrExists(e error) bool   { var t ExistsError; return errors.As(e, &t) }
func IsErrInvalid(e error) bool  { var t InvalidError; return errors.As(e, &t) }
func IsErrLength(e error) bool   { var t LengthError; return errors.As(e, &t) }
func IsErrNotFound(e error) bool { var t NotFoundError; return errors.As(e, &t) }
func IsErrProcess(e error) bool  { var t ProcessError; return errors.As(e, &t) }
