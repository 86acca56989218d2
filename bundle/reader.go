// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bundle

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"sync"

	cache "github.com/patrickmn/go-cache"

	"github.com/bitmark-inc/portableglobe/fault"
	"github.com/bitmark-inc/portableglobe/quadtree"
)

// Reader - random access to a finalized bundle, safe for concurrent use
type Reader struct {
	sync.RWMutex
	file      *os.File
	entries   []Entry
	alignment uint32
	dataSize  uint64
	cache     *cache.Cache
	closed    bool
}

// Open - read and validate the trailer and index of a bundle
func Open(path string, opts ...Option) (*Reader, error) {
	o := applyOptions(opts)

	f, err := os.Open(path)
	if nil != err {
		return nil, err
	}

	r, err := newReader(f)
	if nil != err {
		f.Close()
		return nil, err
	}
	if o.cacheExpiration > 0 {
		r.cache = cache.New(o.cacheExpiration, 2*o.cacheExpiration)
	}
	return r, nil
}

func newReader(f *os.File) (*Reader, error) {
	info, err := f.Stat()
	if nil != err {
		return nil, err
	}
	size := uint64(info.Size())
	if size < TrailerSize {
		return nil, fault.ErrTruncatedBundle
	}

	buffer := make([]byte, TrailerSize)
	if _, err := f.ReadAt(buffer, int64(size-TrailerSize)); nil != err {
		return nil, err
	}
	t, err := decodeTrailer(buffer)
	if nil != err {
		return nil, err
	}

	available := size - TrailerSize
	if t.indexOffset > available || t.count > (available-t.indexOffset)/EntrySize {
		return nil, fault.ErrTruncatedBundle
	}
	if t.indexOffset+t.count*EntrySize != available {
		return nil, fault.ErrCorruptBundle
	}

	index := make([]byte, t.count*EntrySize)
	if _, err := f.ReadAt(index, int64(t.indexOffset)); nil != err {
		return nil, err
	}
	if crc32Update(0, index) != t.indexCRC {
		return nil, fault.ErrCorruptBundle
	}

	entries := make([]Entry, t.count)
	for i := range entries {
		entries[i] = decodeEntry(index[i*EntrySize:])
		e := &entries[i]
		if i > 0 && e.Key <= entries[i-1].Key {
			return nil, fault.ErrIndexNotSorted
		}
		if _, err := e.Key.Address(); nil != err {
			return nil, fault.ErrCorruptBundle
		}
		if e.Offset > t.indexOffset || uint64(e.Length) > t.indexOffset-e.Offset {
			return nil, fault.ErrCorruptBundle
		}
	}

	return &Reader{
		file:      f,
		entries:   entries,
		alignment: t.alignment,
		dataSize:  t.indexOffset,
	}, nil
}

// Count - number of packets in the bundle
func (r *Reader) Count() int {
	return len(r.entries)
}

// Alignment - packet alignment recorded when the bundle was written
func (r *Reader) Alignment() uint32 {
	return r.alignment
}

// Entries - copy of the index in ascending key order
func (r *Reader) Entries() []Entry {
	e := make([]Entry, len(r.entries))
	copy(e, r.entries)
	return e
}

func (r *Reader) find(key quadtree.Key) (*Entry, bool) {
	i := sort.Search(len(r.entries), func(i int) bool {
		return r.entries[i].Key >= key
	})
	if i < len(r.entries) && r.entries[i].Key == key {
		return &r.entries[i], true
	}
	return nil, false
}

// Has - true if the bundle holds a packet for the address
func (r *Reader) Has(address quadtree.Address) bool {
	if !address.IsValid() {
		return false
	}
	_, ok := r.find(address.Key())
	return ok
}

// GetPacket - payload stored for an address
func (r *Reader) GetPacket(address quadtree.Address) ([]byte, error) {
	if !address.IsValid() {
		return nil, fault.ErrInvalidAddress
	}
	e, ok := r.find(address.Key())
	if !ok {
		return nil, fault.ErrPacketNotFound
	}

	r.RLock()
	defer r.RUnlock()

	if r.closed {
		return nil, fault.ErrBundleClosed
	}

	cacheKey := ""
	if nil != r.cache {
		cacheKey = strconv.FormatUint(uint64(e.Key), 16)
		if data, found := r.cache.Get(cacheKey); found {
			return clone(data.([]byte)), nil
		}
	}

	data, err := r.read(e)
	if nil != err {
		return nil, err
	}
	if nil != r.cache {
		r.cache.SetDefault(cacheKey, clone(data))
	}
	return data, nil
}

func (r *Reader) read(e *Entry) ([]byte, error) {
	data := make([]byte, e.Length)
	if 0 == e.Length {
		return data, nil
	}
	if _, err := r.file.ReadAt(data, int64(e.Offset)); nil != err {
		return nil, err
	}
	return data, nil
}

// Verify - check every packet against its recorded checksum
func (r *Reader) Verify() error {
	r.RLock()
	defer r.RUnlock()

	if r.closed {
		return fault.ErrBundleClosed
	}
	for i := range r.entries {
		e := &r.entries[i]
		data, err := r.read(e)
		if nil != err {
			return err
		}
		if checksum(data) != e.CRC {
			a, _ := e.Key.Address()
			return fmt.Errorf("packet %q: %w", a, fault.ErrCorruptBundle)
		}
	}
	return nil
}

// Close - release the file; further reads fail
func (r *Reader) Close() error {
	r.Lock()
	defer r.Unlock()

	if r.closed {
		return fault.ErrBundleClosed
	}
	r.closed = true
	if nil != r.cache {
		r.cache.Flush()
	}
	return r.file.Close()
}

func clone(b []byte) []byte {
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
