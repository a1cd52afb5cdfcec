// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package memstore provides in-memory tables of fixed-width int32 fields
// supporting a small, fixed query workload over three physical layouts.
//
// # Layouts
//
// A RowTable stores each row contiguously, a ColumnTable each column. An
// IndexedRowTable is row-major and additionally maintains an ordered
// secondary index over one designated column. All three implement Table and
// return identical results for identical input.
//
// # Workload
//
//	ColumnSum()                      SELECT SUM(col0)
//	PredicatedColumnSum(t1, t2)      SELECT SUM(col0) WHERE col1 > t1 AND col2 < t2
//	PredicatedAllColumnsSum(t)       SELECT SUM(col0)+...+SUM(colN) WHERE col0 > t
//	PredicatedUpdate(t)              UPDATE col3 = col3 + col2 WHERE col0 < t
//
// Sums are accumulated in int64. Field arithmetic in PredicatedUpdate wraps
// at 32 bits. A query that references a column the table does not have reads
// that column as zero and skips writes to it.
//
// # Aggregates and indexes
//
// SUM(col0) is cached by every layout and kept current by applying the delta
// of each write, so ColumnSum never scans. The indexed layout also caches
// per-row sums. Its index maps each value of the indexed column to the set of
// rows holding it; a write to that column moves the row between buckets and
// buckets that become empty are dropped.
//
// When evaluating PredicatedColumnSum, the indexed layout resolves a
// predicate over the indexed column first, with a range walk over the index,
// and evaluates the other predicate only over the resulting rows.
//
// # Bounds
//
// Point access outside the table follows Options.Bounds: by default
// GetIntField returns 0 and PutIntField does nothing; with StrictBounds both
// panic with an error marked ErrOutOfRange.
//
// # Concurrency
//
// Tables are not safe for concurrent use. NewSynchronized wraps a table with
// a read-write lock.
package memstore
