// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package memstore

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/memstore/data"
	"github.com/cockroachdb/memstore/internal/colindex"
	"github.com/cockroachdb/memstore/internal/invariants"
	"github.com/cockroachdb/memstore/internal/layout"
)

// IndexedRowTable stores its fields in row-major order and maintains an
// ordered secondary index over one column, mapping each value to the rows
// holding it.
//
// In addition to SUM(col0), it caches the sum of every row excluding
// Options.VolatileColumn, so that PredicatedAllColumnsSum adds one cached sum
// and one live field per qualifying row instead of re-reading the row.
//
// All writes, including those made by PredicatedUpdate, go through a single
// path that updates the buffer, the index and the cache together.
type IndexedRowTable struct {
	tableBase
	layout      layout.RowMajor
	indexColumn int
	index       *colindex.Index

	// scratch holds candidate row ids between query phases.
	scratch []int32
}

var _ Table = (*IndexedRowTable)(nil)

// NewIndexedRowTable returns an empty row-major table indexed on indexColumn.
// opts.IndexColumn is ignored.
func NewIndexedRowTable(indexColumn int, opts *Options) *IndexedRowTable {
	return newIndexedRowTable(indexColumn, opts.Clone().EnsureDefaults())
}

func newIndexedRowTable(indexColumn int, opts *Options) *IndexedRowTable {
	t := &IndexedRowTable{indexColumn: indexColumn, index: colindex.New()}
	t.init(opts)
	return t
}

// IndexColumn returns the indexed column.
func (t *IndexedRowTable) IndexColumn() int {
	return t.indexColumn
}

// Load implements Table. It fails if the index column lies outside the
// loaded rows.
func (t *IndexedRowTable) Load(loader data.Loader) error {
	var index *colindex.Index
	return t.load(IndexedRowMajorLayout, loader, loadHooks{
		strategy: func(s layout.Shape) layout.Strategy {
			t.layout = layout.MakeRowMajor(s)
			return t.layout
		},
		rowSums: true,
		prepare: func(s layout.Shape) error {
			if !s.HasColumn(t.indexColumn) {
				return loadErrorf("memstore: index column %d outside %d column table", t.indexColumn, s.Cols)
			}
			index = colindex.New()
			t.index = index
			return nil
		},
		visit: func(row, col int, v int32) {
			if col == t.indexColumn {
				index.Insert(v, int32(row))
			}
		},
	})
}

// GetIntField implements Table.
func (t *IndexedRowTable) GetIntField(row, col int) int32 {
	if !t.inRange(row, col) {
		return 0
	}
	return t.buf.At(t.layout.Offset(row, col))
}

// PutIntField implements Table.
func (t *IndexedRowTable) PutIntField(row, col int, value int32) {
	if !t.inRange(row, col) {
		return
	}
	t.set(row, col, value)
	if invariants.Sometimes(1) {
		t.mustCheckInvariants()
	}
}

func (t *IndexedRowTable) at(row, col int) int32 {
	if !t.shape.HasColumn(col) {
		return 0
	}
	return t.buf.At(t.layout.Offset(row, col))
}

// set is the single write path: it updates the buffer, moves the row between
// index buckets when the indexed column changes, and applies the delta to the
// cached sums. Writes to a column the table does not have are dropped.
func (t *IndexedRowTable) set(row, col int, value int32) {
	if !t.shape.HasColumn(col) {
		return
	}
	old := t.buf.Swap(t.layout.Offset(row, col), value)
	if old == value {
		return
	}
	if col == t.indexColumn {
		t.index.Move(int32(row), old, value)
		t.opts.Metrics.IndexMoves.Inc()
	}
	t.cache.Apply(row, col, old, value)
}

// ColumnSum implements Table.
func (t *IndexedRowTable) ColumnSum() int64 {
	t.opts.Metrics.recordQuery(columnSumOp, cachePath)
	return t.cache.ColumnSum()
}

// PredicatedColumnSum implements Table. The predicate over the indexed column,
// if any, is resolved first through the index; the other predicate is then
// checked only against those candidate rows.
func (t *IndexedRowTable) PredicatedColumnSum(threshold1, threshold2 int32) int64 {
	first, second := t.orderPredicates(
		predicate{col: 1, op: greaterThan, threshold: threshold1},
		predicate{col: 2, op: lessThan, threshold: threshold2},
	)
	ids, path := t.selectRows(t.scratch[:0], first)
	ids = t.filterRows(ids, second)
	var sum int64
	for _, r := range ids {
		sum += int64(t.at(int(r), 0))
	}
	t.scratch = ids[:0]
	t.opts.Metrics.recordQuery(predicatedColumnSumOp, path)
	return sum
}

// PredicatedAllColumnsSum implements Table.
func (t *IndexedRowTable) PredicatedAllColumnsSum(threshold int32) int64 {
	ids, path := t.selectRows(t.scratch[:0], predicate{col: 0, op: greaterThan, threshold: threshold})
	volatile := t.cache.Excluded()
	var sum int64
	for _, r := range ids {
		sum += t.cache.RowSum(int(r))
		if volatile >= 0 {
			sum += int64(t.at(int(r), volatile))
		}
	}
	t.scratch = ids[:0]
	t.opts.Metrics.recordQuery(predicatedAllColumnsSumOp, path)
	return sum
}

// PredicatedUpdate implements Table. Qualifying rows are collected before any
// write is made, so the update never mutates the index while walking it.
func (t *IndexedRowTable) PredicatedUpdate(threshold int32) int32 {
	ids, path := t.selectRows(t.scratch[:0], predicate{col: 0, op: lessThan, threshold: threshold})
	for _, r := range ids {
		t.set(int(r), 3, t.at(int(r), 3)+t.at(int(r), 2))
	}
	n := int32(len(ids))
	t.scratch = ids[:0]
	t.opts.Metrics.recordQuery(predicatedUpdateOp, path)
	t.opts.Metrics.RowsUpdated.Add(float64(n))
	if invariants.Enabled {
		t.mustCheckInvariants()
	}
	return n
}

// Stats implements Table.
func (t *IndexedRowTable) Stats() Stats {
	s := t.stats(IndexedRowMajorLayout)
	s.IndexColumn = t.indexColumn
	s.IndexBuckets = t.index.Buckets()
	s.IndexEntries = t.index.Entries()
	return s
}

// CheckInvariants verifies the index and the cached sums against the field
// buffer: every row must be indexed under exactly its current value, no
// bucket may be empty, and every cached sum must equal a recomputation.
func (t *IndexedRowTable) CheckInvariants() error {
	if !t.loaded {
		return nil
	}
	if n := t.index.Entries(); n != t.shape.Rows {
		return errors.AssertionFailedf("index holds %d entries for %d rows", n, t.shape.Rows)
	}
	var err error
	seen := 0
	t.index.All(func(key int32, rows []int32) bool {
		if len(rows) == 0 {
			err = errors.AssertionFailedf("empty bucket for %d", key)
			return false
		}
		for _, r := range rows {
			if v := t.at(int(r), t.indexColumn); v != key {
				err = errors.AssertionFailedf("row %d indexed under %d but holds %d", r, key, v)
				return false
			}
		}
		seen += len(rows)
		return true
	})
	if err != nil {
		return err
	}
	if seen != t.shape.Rows {
		return errors.AssertionFailedf("index walk visited %d rows; expected %d", seen, t.shape.Rows)
	}

	var colSum int64
	excluded := t.cache.Excluded()
	for r := 0; r < t.shape.Rows; r++ {
		colSum += int64(t.at(r, 0))
		var rowSum int64
		for c := 0; c < t.shape.Cols; c++ {
			if c != excluded {
				rowSum += int64(t.at(r, c))
			}
		}
		if cached := t.cache.RowSum(r); cached != rowSum {
			return errors.AssertionFailedf("row %d: cached sum %d, recomputed %d", r, cached, rowSum)
		}
	}
	if cached := t.cache.ColumnSum(); cached != colSum {
		return errors.AssertionFailedf("cached column sum %d, recomputed %d", cached, colSum)
	}
	return nil
}

func (t *IndexedRowTable) mustCheckInvariants() {
	if err := t.CheckInvariants(); err != nil {
		panic(err)
	}
}
