// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package memstore

import (
	"github.com/cockroachdb/memstore/data"
	"github.com/cockroachdb/memstore/internal/layout"
)

// ColumnTable stores its fields in column-major order:
//
//	col 0 | col 1 | ... | col m
//
// It caches SUM(col0). Predicates are evaluated a row at a time, but every
// column is read sequentially from its own contiguous run of the buffer.
type ColumnTable struct {
	tableBase
	layout layout.ColumnMajor

	// scratch buffers reused by PredicatedUpdate.
	rowIDs []int32
	vals   []int32
}

var _ Table = (*ColumnTable)(nil)

// NewColumnTable returns an empty column-major table.
func NewColumnTable(opts *Options) *ColumnTable {
	return newColumnTable(opts.Clone().EnsureDefaults())
}

func newColumnTable(opts *Options) *ColumnTable {
	t := &ColumnTable{}
	t.init(opts)
	return t
}

// Load implements Table.
func (t *ColumnTable) Load(loader data.Loader) error {
	return t.load(ColumnMajorLayout, loader, loadHooks{
		strategy: func(s layout.Shape) layout.Strategy {
			t.layout = layout.MakeColumnMajor(s)
			return t.layout
		},
	})
}

// GetIntField implements Table.
func (t *ColumnTable) GetIntField(row, col int) int32 {
	if !t.inRange(row, col) {
		return 0
	}
	return t.buf.At(t.layout.Offset(row, col))
}

// PutIntField implements Table.
func (t *ColumnTable) PutIntField(row, col int, value int32) {
	if !t.inRange(row, col) {
		return
	}
	t.set(row, col, value)
}

// set writes field (row, col) and applies the delta to the cache. Writes to
// a column the table does not have are dropped.
func (t *ColumnTable) set(row, col int, value int32) {
	if !t.shape.HasColumn(col) {
		return
	}
	old := t.buf.Swap(t.layout.Offset(row, col), value)
	t.cache.Apply(row, col, old, value)
}

// column returns an accessor for the fields of col in row order. A column
// the table does not have reads as zeros.
func (t *ColumnTable) column(col int) func(row int) int32 {
	if !t.shape.HasColumn(col) {
		return func(int) int32 { return 0 }
	}
	start := t.layout.ColumnStart(col)
	return func(row int) int32 { return t.buf.At(start + row) }
}

// ColumnSum implements Table.
func (t *ColumnTable) ColumnSum() int64 {
	t.opts.Metrics.recordQuery(columnSumOp, cachePath)
	return t.cache.ColumnSum()
}

// PredicatedColumnSum implements Table.
func (t *ColumnTable) PredicatedColumnSum(threshold1, threshold2 int32) int64 {
	t.opts.Metrics.recordQuery(predicatedColumnSumOp, scanPath)
	col0, col1, col2 := t.column(0), t.column(1), t.column(2)
	var sum int64
	for r := 0; r < t.shape.Rows; r++ {
		if col1(r) > threshold1 && col2(r) < threshold2 {
			sum += int64(col0(r))
		}
	}
	return sum
}

// PredicatedAllColumnsSum implements Table.
func (t *ColumnTable) PredicatedAllColumnsSum(threshold int32) int64 {
	t.opts.Metrics.recordQuery(predicatedAllColumnsSumOp, scanPath)
	col0 := t.column(0)
	t.rowIDs = t.rowIDs[:0]
	for r := 0; r < t.shape.Rows; r++ {
		if col0(r) > threshold {
			t.rowIDs = append(t.rowIDs, int32(r))
		}
	}
	// Sum column by column so that each column is read in one forward pass.
	var sum int64
	for c := 0; c < t.shape.Cols; c++ {
		col := t.column(c)
		for _, r := range t.rowIDs {
			sum += int64(col(int(r)))
		}
	}
	return sum
}

// PredicatedUpdate implements Table. Qualifying rows are collected from
// column 0 first; columns 2 and 3 are then each read in a single pass over
// those rows before column 3 is written back.
func (t *ColumnTable) PredicatedUpdate(threshold int32) int32 {
	t.opts.Metrics.recordQuery(predicatedUpdateOp, scanPath)
	col0 := t.column(0)
	t.rowIDs = t.rowIDs[:0]
	for r := 0; r < t.shape.Rows; r++ {
		if col0(r) < threshold {
			t.rowIDs = append(t.rowIDs, int32(r))
		}
	}
	n := int32(len(t.rowIDs))
	t.opts.Metrics.RowsUpdated.Add(float64(n))
	if !t.shape.HasColumn(3) {
		return n
	}

	col2, col3 := t.column(2), t.column(3)
	t.vals = t.vals[:0]
	for _, r := range t.rowIDs {
		t.vals = append(t.vals, col2(int(r)))
	}
	for i, r := range t.rowIDs {
		t.vals[i] += col3(int(r))
	}
	for i, r := range t.rowIDs {
		t.set(int(r), 3, t.vals[i])
	}
	return n
}

// Stats implements Table.
func (t *ColumnTable) Stats() Stats {
	return t.stats(ColumnMajorLayout)
}
