// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package builder - cut a portable globe out of a tile source
//
// The quadtree is walked depth first from the root.  Every node the
// selector keeps has its tiles copied, one bundle per layer, and its
// presence recorded in a mask per layer.  A coverage mask records
// every node that received at least one packet.
package builder

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/portableglobe/background"
	"github.com/bitmark-inc/portableglobe/bundle"
	"github.com/bitmark-inc/portableglobe/catalog"
	"github.com/bitmark-inc/portableglobe/fault"
	"github.com/bitmark-inc/portableglobe/presence"
	"github.com/bitmark-inc/portableglobe/quadtree"
	"github.com/bitmark-inc/portableglobe/selector"
	"github.com/bitmark-inc/portableglobe/tilestore"
)

// CoverageMaskName - suffix of the coverage mask in the catalog
const CoverageMaskName = "coverage"

// MaskName - catalog name of one of a globe's masks; mask is a layer
// name or CoverageMaskName
func MaskName(globe string, mask string) string {
	return globe + "." + mask
}

// seeds sharing an ancestor this many levels above a mask level share
// one area of that level's mask
const maskSpan = 12

// Builder - one build; not reusable
type Builder struct {
	config   Config
	selector *selector.Selector
	source   Source
	catalog  *catalog.Catalog
	limiter  *rate.Limiter
	log      *logger.L
	stats    *statistics

	sync.Mutex // guards the masks
	masks      map[tilestore.Layer]*presence.Mask
	coverage   *presence.Mask
	dropped    []int
}

// Result - summary of a completed build
type Result struct {
	Nodes    uint64 // nodes visited
	Kept     uint64 // nodes selected
	Missing  uint64 // selected tiles absent from the source
	Bytes    uint64 // packet bytes written
	Packets  map[tilestore.Layer]uint64
	Bundles  map[tilestore.Layer]string
	Masks    map[tilestore.Layer]*presence.Mask
	Coverage *presence.Mask

	DroppedLevels []int // levels too large to hold a mask
}

// New - prepare a build; cat may be nil to skip recording masks and
// metadata
func New(config Config, sel *selector.Selector, source Source, cat *catalog.Catalog) (*Builder, error) {
	err := config.validate()
	if nil != err {
		return nil, err
	}
	if nil != cat && "" == config.Name {
		return nil, fault.ErrInvalidMaskName
	}
	if 0 == config.MaxMaskBytes {
		config.MaxMaskBytes = DefaultMaxMaskBytes
	}

	limit := rate.Inf
	burst := 1
	if config.MaxReadsPerSecond > 0 {
		limit = rate.Limit(config.MaxReadsPerSecond)
		burst = int(config.MaxReadsPerSecond)
		if burst < 1 {
			burst = 1
		}
	}

	return &Builder{
		config:   config,
		selector: sel,
		source:   source,
		catalog:  cat,
		limiter:  rate.NewLimiter(limit, burst),
		log:      logger.New("builder"),
		stats:    newStatistics(config.Layers),
	}, nil
}

// Build - run the build to completion
//
// on any error or cancellation no bundle is left at a final path
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	started := time.Now()

	err := b.setupMasks()
	if nil != err {
		return nil, err
	}

	err = os.MkdirAll(b.config.OutputDirectory, 0755)
	if nil != err {
		return nil, err
	}

	b.log.Infof("start: %q  levels: %d..%d  seeds: %d  layers: %v  workers: %d",
		b.config.Name, b.selector.DefaultLevel(), b.selector.MaxLevel(),
		b.selector.Region().Len(), b.config.Layers, b.config.Workers)

	if b.config.ProgressInterval > 0 {
		reporter := &progress{
			log:      b.log,
			stats:    b.stats,
			interval: b.config.ProgressInterval,
		}
		processes := background.Start(background.Processes{reporter}, nil)
		defer processes.Stop()
	}

	if 1 == b.config.Workers {
		err = b.sequential(ctx)
	} else {
		err = b.parallel(ctx)
	}
	if nil != err {
		b.log.Errorf("build: %q  failed: %s", b.config.Name, err)
		return nil, err
	}

	result := b.result()

	if nil != b.catalog {
		err = b.record(result, started)
		if nil != err {
			b.log.Errorf("build: %q  catalog error: %s", b.config.Name, err)
			return nil, err
		}
	}

	b.log.Infof("finished: %q  nodes: %d  kept: %d  missing: %d  bytes: %d  time: %s",
		b.config.Name, result.Nodes, result.Kept, result.Missing, result.Bytes, time.Since(started))
	return result, nil
}

// one mask level per kept level: whole world up to the default
// level, disjoint areas around the seeds below it
//
// a level whose areas cannot be allocated within the limit is left out
// of every mask and the build carries on without it
func (b *Builder) setupMasks() error {
	b.masks = make(map[tilestore.Layer]*presence.Mask)
	for _, l := range b.config.Layers {
		b.masks[l] = presence.NewMask()
	}
	b.coverage = presence.NewMask()
	b.dropped = nil

	all := append([]*presence.Mask{b.coverage}, b.maskList()...)
	for level := 0; level <= b.selector.MaxLevel(); level += 1 {
		areas := []quadtree.Extents{quadtree.FullExtents(level)}
		if level > b.selector.DefaultLevel() {
			areas = b.selector.Region().Areas(level, maskSpan)
			if 0 == len(areas) {
				break
			}
		}

		size, err := maskSize(areas)
		if nil == err && size > b.config.MaxMaskBytes {
			err = fault.ErrSizeOverflow
		}
		if nil != err {
			b.log.Warnf("mask level: %d  areas: %d  bytes: %d  dropped: %s", level, len(areas), size, err)
			b.dropped = append(b.dropped, level)
			continue
		}

		for _, m := range all {
			for _, e := range areas {
				err := m.AddLevel(level, e, false)
				if nil != err {
					return fmt.Errorf("mask level: %d: %w", level, err)
				}
			}
		}
		b.log.Debugf("mask level: %d  areas: %d  bytes: %d", level, len(areas), size)
	}
	return nil
}

// bytes one mask needs for a level's areas
func maskSize(areas []quadtree.Extents) (uint64, error) {
	total := uint64(0)
	for _, e := range areas {
		n, err := presence.CalcBufferSize(e.Height, e.Width)
		if nil != err {
			return total, err
		}
		total += uint64(n)
	}
	return total, nil
}

func (b *Builder) maskList() []*presence.Mask {
	masks := make([]*presence.Mask, 0, len(b.config.Layers))
	for _, l := range b.config.Layers {
		masks = append(masks, b.masks[l])
	}
	return masks
}

// single goroutine writing straight to the final bundles
func (b *Builder) sequential(ctx context.Context) error {
	seg, err := b.newSegment("")
	if nil != err {
		return err
	}
	err = b.visit(ctx, seg, quadtree.Root, nil)
	if nil != err {
		seg.abandon()
		return err
	}
	return seg.finalize()
}

// the tree above the split level is walked by one goroutine which
// hands each subtree rooted at the split level to a pool of workers;
// every worker writes its own segment and the segments are merged
func (b *Builder) parallel(ctx context.Context) error {
	for _, l := range b.config.Layers {
		if fileExists(b.config.BundlePath(l)) {
			return fault.ErrBundleExists
		}
	}

	segments := make([]*segment, 0, b.config.Workers+1)
	abandon := func() {
		for _, s := range segments {
			s.abandon()
		}
	}

	for i := 0; i <= b.config.Workers; i += 1 {
		s, err := b.newSegment(fmt.Sprintf(".segment-%d", i))
		if nil != err {
			abandon()
			return err
		}
		segments = append(segments, s)
	}

	g, gctx := errgroup.WithContext(ctx)
	work := make(chan quadtree.Address)

	top := segments[0]
	g.Go(func() error {
		defer close(work)
		return b.visit(gctx, top, quadtree.Root, func(address quadtree.Address) error {
			select {
			case work <- address:
				return nil
			case <-gctx.Done():
				return fault.ErrBuildCancelled
			}
		})
	})

	for _, s := range segments[1:] {
		seg := s
		g.Go(func() error {
			for address := range work {
				err := b.visit(gctx, seg, address, nil)
				if nil != err {
					return err
				}
			}
			return nil
		})
	}

	err := g.Wait()
	if nil != err {
		abandon()
		return err
	}

	for _, s := range segments {
		err := s.finalize()
		if nil != err {
			abandon()
			return err
		}
	}
	defer func() {
		for _, s := range segments {
			s.remove()
		}
	}()

	for _, l := range b.config.Layers {
		paths := make([]string, 0, len(segments))
		for _, s := range segments {
			paths = append(paths, s.path(l))
		}
		err := bundle.Merge(b.config.BundlePath(l), paths, bundle.WithAlignment(b.config.Alignment))
		if nil != err {
			b.removeBundles()
			return err
		}
		b.log.Debugf("merged layer: %s  segments: %d", l, len(paths))
	}
	return nil
}

// used when a later merge fails after earlier layers succeeded
func (b *Builder) removeBundles() {
	for _, l := range b.config.Layers {
		removeFile(b.config.BundlePath(l))
	}
}

// process the subtree rooted at address; when split is not nil the
// nodes at the split level are passed to it instead of being visited
func (b *Builder) visit(ctx context.Context, seg *segment, address quadtree.Address, split func(quadtree.Address) error) error {
	if nil != ctx.Err() {
		return fault.ErrBuildCancelled
	}
	b.stats.visited.Increment()

	if b.selector.KeepNode(address) {
		err := b.keep(ctx, seg, address)
		if nil != err {
			return err
		}
	}

	if !b.selector.Descend(address) {
		return nil
	}

	for _, child := range address.Children() {
		var err error
		if nil != split && child.Level() == b.config.SplitLevel {
			err = split(child)
		} else {
			err = b.visit(ctx, seg, child, split)
		}
		if nil != err {
			return err
		}
	}
	return nil
}

// copy the tiles of a selected node
func (b *Builder) keep(ctx context.Context, seg *segment, address quadtree.Address) error {
	b.stats.kept.Increment()

	found := make([]tilestore.Layer, 0, len(b.config.Layers))
	for _, l := range b.config.Layers {
		err := b.limiter.Wait(ctx)
		if nil != err {
			if nil != ctx.Err() {
				return fault.ErrBuildCancelled
			}
			return err
		}

		data, err := b.source.Get(l, address)
		if fault.IsErrNotFound(err) {
			b.stats.missing.Increment()
			continue
		}
		if nil != err {
			return fmt.Errorf("layer: %s  address: %q: %w", l, address, err)
		}

		err = seg.append(l, address, data)
		if nil != err {
			return fmt.Errorf("layer: %s  address: %q: %w", l, address, err)
		}
		b.stats.packets[l].Increment()
		b.stats.bytes.Add(uint64(len(data)))
		found = append(found, l)
	}

	if 0 == len(found) {
		return nil
	}

	b.Lock()
	defer b.Unlock()

	level := address.Level()
	if b.coverage.HasLevel(level) {
		for _, l := range found {
			err := b.masks[l].SetAddressPresence(address, true, presence.TilePresence)
			if nil != err {
				return err
			}
		}
	}

	// a dropped level still marks the nearest ancestor with a mask
	for ; level >= 0; level -= 1 {
		if b.coverage.HasLevel(level) {
			return b.coverage.SetAddressPresence(address.Ancestor(level), true, presence.Coverage)
		}
	}
	return nil
}

func (b *Builder) result() *Result {
	r := &Result{
		Nodes:    b.stats.visited.Uint64(),
		Kept:     b.stats.kept.Uint64(),
		Missing:  b.stats.missing.Uint64(),
		Bytes:    b.stats.bytes.Uint64(),
		Packets:  make(map[tilestore.Layer]uint64),
		Bundles:  make(map[tilestore.Layer]string),
		Masks:    b.masks,
		Coverage: b.coverage,

		DroppedLevels: b.dropped,
	}
	for _, l := range b.config.Layers {
		r.Packets[l] = b.stats.packets[l].Uint64()
		r.Bundles[l] = b.config.BundlePath(l)
	}
	return r
}

// store masks and metadata in the catalog
func (b *Builder) record(r *Result, started time.Time) error {
	for _, l := range b.config.Layers {
		err := b.catalog.PutMask(MaskName(b.config.Name, l.String()), r.Masks[l])
		if nil != err {
			return err
		}
	}
	err := b.catalog.PutMask(MaskName(b.config.Name, CoverageMaskName), r.Coverage)
	if nil != err {
		return err
	}

	md := &catalog.Metadata{
		DefaultLevel: b.selector.DefaultLevel(),
		MaxLevel:     b.selector.MaxLevel(),
		Seeds:        b.selector.Region().Len(),
		Nodes:        r.Kept,
		Packets:      make(map[string]uint64),
		Bundles:      make(map[string]string),
		Dropped:      r.DroppedLevels,
		Started:      started.UTC(),
		Finished:     time.Now().UTC(),
	}
	for l, n := range r.Packets {
		md.Packets[l.String()] = n
		md.Bundles[l.String()] = r.Bundles[l]
	}
	return b.catalog.PutMetadata(b.config.Name, md)
}
