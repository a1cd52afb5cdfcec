// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package memstore

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/crlib/crtime"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/memstore/data"
	"github.com/cockroachdb/memstore/internal/aggcache"
	"github.com/cockroachdb/memstore/internal/fieldbuf"
	"github.com/cockroachdb/memstore/internal/layout"
	"github.com/cockroachdb/redact"
)

// Table is an in-memory table of int32 fields supporting a fixed query
// workload. Every layout implements the same interface, so layouts can be
// used interchangeably.
//
// A Table is loaded exactly once and is not safe for concurrent use; see
// NewSynchronized.
type Table interface {
	// Load populates the table from loader. It fails with an error marked
	// ErrLoad if the loader's rows are malformed or inconsistent, in which
	// case the table remains empty.
	Load(loader data.Loader) error
	// GetIntField returns the field at (row, col).
	GetIntField(row, col int) int32
	// PutIntField sets the field at (row, col) to value.
	PutIntField(row, col int, value int32)
	// ColumnSum returns SUM(col0).
	ColumnSum() int64
	// PredicatedColumnSum returns SUM(col0) WHERE col1 > threshold1 AND
	// col2 < threshold2.
	PredicatedColumnSum(threshold1, threshold2 int32) int64
	// PredicatedAllColumnsSum returns the sum of every field of the rows
	// WHERE col0 > threshold.
	PredicatedAllColumnsSum(threshold int32) int64
	// PredicatedUpdate performs UPDATE col3 = col3 + col2 WHERE
	// col0 < threshold and returns the number of rows updated.
	PredicatedUpdate(threshold int32) int32
	// Stats returns the table's shape and index statistics.
	Stats() Stats
}

// New constructs an empty table with the layout selected by opts.Layout.
func New(opts *Options) (Table, error) {
	opts = opts.Clone().EnsureDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	switch opts.Layout {
	case RowMajorLayout:
		return newRowTable(opts), nil
	case ColumnMajorLayout:
		return newColumnTable(opts), nil
	case IndexedRowMajorLayout:
		return newIndexedRowTable(opts.IndexColumn, opts), nil
	default:
		return nil, errors.AssertionFailedf("unhandled layout %s", opts.Layout)
	}
}

// Stats describes a table.
type Stats struct {
	Layout      Layout
	Loaded      bool
	Rows        int
	Columns     int
	BufferBytes int
	// IndexColumn is the indexed column, or -1 if the layout has no index.
	IndexColumn  int
	IndexBuckets int
	IndexEntries int
}

// String implements fmt.Stringer.
func (s Stats) String() string {
	return redact.StringWithoutMarkers(s)
}

// SafeFormat implements redact.SafeFormatter.
func (s Stats) SafeFormat(w redact.SafePrinter, _ rune) {
	if !s.Loaded {
		w.Printf("%s: not loaded", s.Layout)
		return
	}
	w.Printf("%s: %d rows x %d columns, %d bytes", s.Layout, s.Rows, s.Columns, s.BufferBytes)
	if s.IndexColumn >= 0 {
		w.Printf(", index on col%d: %d buckets, %d entries", s.IndexColumn, s.IndexBuckets, s.IndexEntries)
	}
}

// Fingerprint returns a hash of every field of t in row-major order. Tables
// holding the same fields have the same fingerprint regardless of layout.
func Fingerprint(t Table) uint64 {
	s := t.Stats()
	d := xxhash.New()
	var b [data.FieldLen]byte
	for r := 0; r < s.Rows; r++ {
		for c := 0; c < s.Columns; c++ {
			binary.LittleEndian.PutUint32(b[:], uint32(t.GetIntField(r, c)))
			_, _ = d.Write(b[:])
		}
	}
	return d.Sum64()
}

// tableBase holds the state shared by every layout.
type tableBase struct {
	opts   *Options
	shape  layout.Shape
	buf    fieldbuf.Buffer
	cache  aggcache.Cache
	loaded bool
}

func (b *tableBase) init(opts *Options) {
	b.opts = opts
	b.cache.Init(0)
}

// inRange reports whether (row, col) lies within the table, panicking instead
// of returning false under StrictBounds.
func (b *tableBase) inRange(row, col int) bool {
	if b.shape.Contains(row, col) {
		return true
	}
	if b.opts.Bounds == StrictBounds {
		panic(outOfRange(row, col, b.shape.Rows, b.shape.Cols))
	}
	return false
}

func (b *tableBase) stats(l Layout) Stats {
	return Stats{
		Layout:      l,
		Loaded:      b.loaded,
		Rows:        b.shape.Rows,
		Columns:     b.shape.Cols,
		BufferBytes: b.buf.Size(),
		IndexColumn: -1,
	}
}

// loadHooks customizes tableBase.load for a layout.
type loadHooks struct {
	// strategy returns the address rule for a table of the given shape.
	strategy func(layout.Shape) layout.Strategy
	// rowSums enables per-row sums in the aggregate cache.
	rowSums bool
	// prepare, if set, validates the shape and resets layout-specific state
	// before any field is visited. It is the last step that may fail.
	prepare func(layout.Shape) error
	// visit, if set, is called with every loaded field.
	visit func(row, col int, v int32)
}

// load validates the loader's rows and copies them into a new buffer in a
// single pass, priming the aggregate cache as it goes. The base is only
// updated once every check has passed, so a failed load leaves an unloaded
// table empty.
func (b *tableBase) load(l Layout, loader data.Loader, h loadHooks) error {
	start := crtime.NowMono()
	err := func() error {
		if b.loaded {
			return loadErrorf("memstore: table already loaded")
		}
		shape, rows, err := readRows(loader)
		if err != nil {
			return err
		}
		if h.prepare != nil {
			if err := h.prepare(shape); err != nil {
				return err
			}
		}
		strategy := h.strategy(shape)
		buf := fieldbuf.Make(shape.Fields())
		var cache aggcache.Cache
		if h.rowSums {
			excluded := b.opts.VolatileColumn
			if excluded < 0 {
				excluded = -1
			}
			cache.InitWithRowSums(0, shape.Rows, excluded)
		} else {
			cache.Init(0)
		}
		for r, row := range rows {
			for c := 0; c < shape.Cols; c++ {
				v := row.Int32(c)
				buf.Set(strategy.Offset(r, c), v)
				cache.Prime(r, c, v)
				if h.visit != nil {
					h.visit(r, c, v)
				}
			}
		}
		b.shape, b.buf, b.cache, b.loaded = shape, buf, cache, true
		return nil
	}()
	if err != nil {
		b.opts.Logger.Errorf("memstore: %s table load failed: %v", l, err)
		return err
	}
	elapsed := start.Elapsed()
	b.opts.Metrics.LoadDuration.Observe(elapsed.Seconds())
	b.opts.Logger.Infof("memstore: loaded %d rows x %d columns into %s table in %s",
		b.shape.Rows, b.shape.Cols, l, elapsed)
	return nil
}

// readRows fetches the loader's rows and checks that each one carries exactly
// NumColumns whole fields.
func readRows(loader data.Loader) (layout.Shape, []data.Row, error) {
	if loader == nil {
		return layout.Shape{}, nil, loadErrorf("memstore: nil loader")
	}
	cols := loader.NumColumns()
	if cols < 0 {
		return layout.Shape{}, nil, loadErrorf("memstore: loader reports %d columns", cols)
	}
	rows, err := loader.Rows()
	if err != nil {
		return layout.Shape{}, nil, errors.Mark(errors.Wrap(err, "memstore: reading rows"), ErrLoad)
	}
	if len(rows) > math.MaxInt32 {
		return layout.Shape{}, nil, loadErrorf("memstore: %d rows exceeds the maximum of %d", len(rows), math.MaxInt32)
	}
	for i, row := range rows {
		if !row.Valid() {
			return layout.Shape{}, nil, loadErrorf(
				"memstore: row %d is %d bytes, not a whole number of %d byte fields", i, len(row), data.FieldLen)
		}
		if n := row.NumFields(); n != cols {
			return layout.Shape{}, nil, loadErrorf("memstore: row %d has %d columns; expected %d", i, n, cols)
		}
	}
	return layout.Shape{Rows: len(rows), Cols: cols}, rows, nil
}
