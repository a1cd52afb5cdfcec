// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package memstore

import (
	"github.com/cockroachdb/memstore/data"
	"github.com/cockroachdb/memstore/internal/layout"
)

// RowTable stores its fields in row-major order:
//
//	row 0 | row 1 | ... | row n
//
// It caches SUM(col0) and answers every predicated query with a single pass
// over the buffer, evaluating predicates inline without materializing row id
// sets.
type RowTable struct {
	tableBase
	layout layout.RowMajor
}

var _ Table = (*RowTable)(nil)

// NewRowTable returns an empty row-major table.
func NewRowTable(opts *Options) *RowTable {
	return newRowTable(opts.Clone().EnsureDefaults())
}

func newRowTable(opts *Options) *RowTable {
	t := &RowTable{}
	t.init(opts)
	return t
}

// Load implements Table.
func (t *RowTable) Load(loader data.Loader) error {
	return t.load(RowMajorLayout, loader, loadHooks{
		strategy: func(s layout.Shape) layout.Strategy {
			t.layout = layout.MakeRowMajor(s)
			return t.layout
		},
	})
}

// GetIntField implements Table.
func (t *RowTable) GetIntField(row, col int) int32 {
	if !t.inRange(row, col) {
		return 0
	}
	return t.buf.At(t.layout.Offset(row, col))
}

// PutIntField implements Table.
func (t *RowTable) PutIntField(row, col int, value int32) {
	if !t.inRange(row, col) {
		return
	}
	t.set(row, col, value)
}

// at returns field (row, col), or 0 if the table has no column col.
func (t *RowTable) at(row, col int) int32 {
	if !t.shape.HasColumn(col) {
		return 0
	}
	return t.buf.At(t.layout.Offset(row, col))
}

// set writes field (row, col) and applies the delta to the cache. Writes to
// a column the table does not have are dropped.
func (t *RowTable) set(row, col int, value int32) {
	if !t.shape.HasColumn(col) {
		return
	}
	old := t.buf.Swap(t.layout.Offset(row, col), value)
	t.cache.Apply(row, col, old, value)
}

// ColumnSum implements Table.
func (t *RowTable) ColumnSum() int64 {
	t.opts.Metrics.recordQuery(columnSumOp, cachePath)
	return t.cache.ColumnSum()
}

// PredicatedColumnSum implements Table.
func (t *RowTable) PredicatedColumnSum(threshold1, threshold2 int32) int64 {
	t.opts.Metrics.recordQuery(predicatedColumnSumOp, scanPath)
	var sum int64
	for r := 0; r < t.shape.Rows; r++ {
		if t.at(r, 1) > threshold1 && t.at(r, 2) < threshold2 {
			sum += int64(t.at(r, 0))
		}
	}
	return sum
}

// PredicatedAllColumnsSum implements Table.
func (t *RowTable) PredicatedAllColumnsSum(threshold int32) int64 {
	t.opts.Metrics.recordQuery(predicatedAllColumnsSumOp, scanPath)
	var sum int64
	for r := 0; r < t.shape.Rows; r++ {
		if t.at(r, 0) <= threshold {
			continue
		}
		// The row's fields are contiguous.
		start := t.layout.RowStart(r)
		for off := start; off < start+t.shape.Cols; off++ {
			sum += int64(t.buf.At(off))
		}
	}
	return sum
}

// PredicatedUpdate implements Table.
func (t *RowTable) PredicatedUpdate(threshold int32) int32 {
	t.opts.Metrics.recordQuery(predicatedUpdateOp, scanPath)
	var n int32
	for r := 0; r < t.shape.Rows; r++ {
		if t.at(r, 0) < threshold {
			t.set(r, 3, t.at(r, 3)+t.at(r, 2))
			n++
		}
	}
	t.opts.Metrics.RowsUpdated.Add(float64(n))
	return n
}

// Stats implements Table.
func (t *RowTable) Stats() Stats {
	return t.stats(RowMajorLayout)
}
