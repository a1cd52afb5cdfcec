// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package data

// Loader supplies the rows of a table. A table calls NumColumns and Rows
// exactly once, from Load.
type Loader interface {
	// NumColumns returns the number of fields every row is expected to carry.
	NumColumns() int
	// Rows returns the rows in row-id order.
	Rows() ([]Row, error)
}

// SliceLoader is a Loader over rows that are already resident in memory.
type SliceLoader struct {
	numCols int
	rows    []Row
}

var _ Loader = (*SliceLoader)(nil)

// NewSliceLoader encodes the given rows. Rows are encoded as given, so a row
// whose width differs from numCols is passed through and rejected at load
// time.
func NewSliceLoader(numCols int, rows [][]int32) *SliceLoader {
	l := &SliceLoader{numCols: numCols, rows: make([]Row, len(rows))}
	for i := range rows {
		l.rows[i] = EncodeRow(rows[i]...)
	}
	return l
}

// NewRowLoader returns a Loader over already encoded rows.
func NewRowLoader(numCols int, rows []Row) *SliceLoader {
	return &SliceLoader{numCols: numCols, rows: rows}
}

// NumColumns implements Loader.
func (l *SliceLoader) NumColumns() int { return l.numCols }

// Rows implements Loader.
func (l *SliceLoader) Rows() ([]Row, error) { return l.rows, nil }
