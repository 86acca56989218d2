// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bundle

import (
	"bufio"
	"os"

	"github.com/bitmark-inc/portableglobe/avl"
	"github.com/bitmark-inc/portableglobe/fault"
	"github.com/bitmark-inc/portableglobe/quadtree"
)

const writeBufferSize = 1 << 20

// Writer - single owner, not safe for concurrent use
type Writer struct {
	path      string
	partial   string
	file      *os.File
	buffer    *bufio.Writer
	offset    uint64
	alignment uint32
	index     *avl.Tree
	closed    bool
}

// Create - start a new bundle; the file is written as path+".partial"
// and fails if either file already exists
func Create(path string, opts ...Option) (*Writer, error) {
	o := applyOptions(opts)
	if !validAlignment(o.alignment) {
		return nil, fault.ErrInvalidAlignment
	}

	if _, err := os.Stat(path); nil == err {
		return nil, fault.ErrBundleExists
	}

	partial := path + PartialSuffix
	f, err := os.OpenFile(partial, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if nil != err {
		if os.IsExist(err) {
			return nil, fault.ErrBundleExists
		}
		return nil, err
	}

	return &Writer{
		path:      path,
		partial:   partial,
		file:      f,
		buffer:    bufio.NewWriterSize(f, writeBufferSize),
		alignment: o.alignment,
		index:     avl.New(),
	}, nil
}

// Path - final name of the bundle
func (w *Writer) Path() string {
	return w.path
}

// Count - number of packets appended so far
func (w *Writer) Count() int {
	return w.index.Count()
}

// Size - bytes of packet data written so far, including padding
func (w *Writer) Size() uint64 {
	return w.offset
}

// Append - add one packet
//
// a write error abandons the bundle
func (w *Writer) Append(address quadtree.Address, data []byte) error {
	if w.closed {
		return fault.ErrBundleClosed
	}
	if !address.IsValid() {
		return fault.ErrInvalidAddress
	}
	if uint64(len(data)) > MaxPacketSize {
		return fault.ErrPacketTooLarge
	}

	key := address.Key()
	if n, _ := w.index.Search(key); nil != n {
		return fault.ErrDuplicateKey
	}

	// after a failed write the file no longer matches the index
	offset := w.offset
	if pad := padding(offset, w.alignment); pad > 0 {
		if _, err := w.buffer.Write(make([]byte, pad)); nil != err {
			w.Abandon()
			return err
		}
		offset += pad
	}

	if _, err := w.buffer.Write(data); nil != err {
		w.Abandon()
		return err
	}

	w.index.Insert(key, &Entry{
		Key:    key,
		Offset: offset,
		Length: uint32(len(data)),
		CRC:    checksum(data),
	})
	w.offset = offset + uint64(len(data))
	return nil
}

// Finalize - write index and trailer, sync and rename to the final
// name; on failure the partial file is removed
func (w *Writer) Finalize() error {
	if w.closed {
		return fault.ErrBundleClosed
	}
	w.closed = true

	entries := make([]*Entry, 0, w.index.Count())
	w.index.Walk(func(n *avl.Node) bool {
		entries = append(entries, n.Value().(*Entry))
		return true
	})

	err := writeIndex(w.buffer, w.offset, w.alignment, entries)
	if nil == err {
		err = w.buffer.Flush()
	}
	if nil == err {
		err = w.file.Sync()
	}
	if e := w.file.Close(); nil == err {
		err = e
	}
	if nil == err {
		err = os.Rename(w.partial, w.path)
	}
	if nil != err {
		os.Remove(w.partial)
		return err
	}
	return nil
}

// Abandon - discard everything written
func (w *Writer) Abandon() error {
	if w.closed {
		return fault.ErrBundleClosed
	}
	w.closed = true
	w.file.Close()
	return os.Remove(w.partial)
}

// write the sorted index followed by the trailer
func writeIndex(out *bufio.Writer, indexOffset uint64, alignment uint32, entries []*Entry) error {
	crc := uint32(0)
	buffer := make([]byte, EntrySize)
	for _, e := range entries {
		e.encode(buffer)
		crc = crc32Update(crc, buffer)
		if _, err := out.Write(buffer); nil != err {
			return err
		}
	}

	t := trailer{
		version:     Version,
		indexOffset: indexOffset,
		count:       uint64(len(entries)),
		indexCRC:    crc,
		alignment:   alignment,
	}
	_, err := out.Write(t.bytes())
	return err
}
