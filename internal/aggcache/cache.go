// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package aggcache maintains aggregates over a table's fields incrementally.
//
// A Cache is primed once per field at load time and then kept current by
// applying the delta (new - old) of every field write. It is never rebuilt by
// rescanning the table.
package aggcache

// Cache holds the sum of one designated column and, optionally, the sum of
// each row over all columns but one excluded column.
type Cache struct {
	sumCol int
	colSum int64

	// rowSums is nil unless per-row sums are enabled.
	rowSums  []int64
	excluded int
}

// Init resets the cache to track the sum of column sumCol, without per-row
// sums.
func (c *Cache) Init(sumCol int) {
	*c = Cache{sumCol: sumCol, excluded: -1}
}

// InitWithRowSums resets the cache to track the sum of column sumCol and the
// per-row sums of numRows rows. Column excluded does not contribute to the
// per-row sums; a negative value excludes nothing.
func (c *Cache) InitWithRowSums(sumCol, numRows, excluded int) {
	*c = Cache{
		sumCol:   sumCol,
		rowSums:  make([]int64, numRows),
		excluded: excluded,
	}
}

// Prime accounts for the initial value v of field (row, col).
func (c *Cache) Prime(row, col int, v int32) {
	c.Apply(row, col, 0, v)
}

// Apply accounts for field (row, col) changing from old to new.
func (c *Cache) Apply(row, col int, old, new int32) {
	delta := int64(new) - int64(old)
	if delta == 0 {
		return
	}
	if col == c.sumCol {
		c.colSum += delta
	}
	if c.rowSums != nil && col != c.excluded {
		c.rowSums[row] += delta
	}
}

// ColumnSum returns the sum of the tracked column.
func (c *Cache) ColumnSum() int64 {
	return c.colSum
}

// HasRowSums returns true if per-row sums are maintained.
func (c *Cache) HasRowSums() bool {
	return c.rowSums != nil
}

// RowSum returns the cached sum of row, excluding the excluded column.
func (c *Cache) RowSum(row int) int64 {
	return c.rowSums[row]
}

// Excluded returns the column excluded from per-row sums, or -1.
func (c *Cache) Excluded() int {
	return c.excluded
}

// SumColumn returns the column whose sum is tracked.
func (c *Cache) SumColumn() int {
	return c.sumCol
}
