// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bundle

import (
	"fmt"
	"io"

	"github.com/bitmark-inc/portableglobe/fault"
)

// Merge - combine finalized segment bundles into a new bundle
//
// packet regions are copied unchanged and the index is rebuilt; a key
// present in more than one segment fails with ErrDuplicateKey and no
// output file is left behind
func Merge(path string, segments []string, opts ...Option) error {
	w, err := Create(path, opts...)
	if nil != err {
		return err
	}

	for _, name := range segments {
		err := w.appendSegment(name)
		if nil != err {
			w.Abandon()
			return fmt.Errorf("segment %q: %w", name, err)
		}
	}
	return w.Finalize()
}

func (w *Writer) appendSegment(name string) error {
	r, err := Open(name)
	if nil != err {
		return err
	}
	defer r.Close()

	// packets inside the segment keep their relative offsets, so the
	// segment must be at least as strictly aligned as the output
	if w.alignment > 1 && (r.alignment < w.alignment) {
		return fault.ErrInvalidAlignment
	}

	if pad := padding(w.offset, w.alignment); pad > 0 {
		if _, err := w.buffer.Write(make([]byte, pad)); nil != err {
			return err
		}
		w.offset += pad
	}
	base := w.offset

	for _, e := range r.entries {
		shifted := e
		shifted.Offset += base
		if !w.index.Insert(e.Key, &shifted) {
			return fault.ErrDuplicateKey
		}
	}

	n, err := io.Copy(w.buffer, io.NewSectionReader(r.file, 0, int64(r.dataSize)))
	if nil != err {
		return err
	}
	w.offset += uint64(n)
	return nil
}
