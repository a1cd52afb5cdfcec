// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package layout defines how a (row, column) position maps to an index in a
// table's flat field buffer.
//
// Two strategies are provided. RowMajor stores each row contiguously:
//
//	r0c0 r0c1 ... r0cN | r1c0 r1c1 ... r1cN | ...
//
// ColumnMajor stores each column contiguously:
//
//	r0c0 r1c0 ... rMc0 | r0c1 r1c1 ... rMc1 | ...
//
// Offsets are a pure function of (row, col, Rows, Cols) and are fixed once the
// table is loaded.
package layout

// Shape is the dimensions of a table.
type Shape struct {
	Rows, Cols int
}

// Fields returns the number of fields in a table of this shape.
func (s Shape) Fields() int {
	return s.Rows * s.Cols
}

// Contains returns true if (row, col) lies within [0,Rows)x[0,Cols).
func (s Shape) Contains(row, col int) bool {
	return uint(row) < uint(s.Rows) && uint(col) < uint(s.Cols)
}

// HasColumn returns true if col lies within [0,Cols).
func (s Shape) HasColumn(col int) bool {
	return uint(col) < uint(s.Cols)
}

// Strategy maps a (row, col) position to a buffer offset. Offset assumes the
// position is within the table's shape; callers check bounds first.
type Strategy interface {
	Offset(row, col int) int
	Shape() Shape
}

// RowMajor lays out fields row by row.
type RowMajor struct {
	shape Shape
}

var _ Strategy = RowMajor{}

// MakeRowMajor returns a row-major strategy for a table of the given shape.
func MakeRowMajor(s Shape) RowMajor {
	return RowMajor{shape: s}
}

// Offset implements Strategy.
func (l RowMajor) Offset(row, col int) int {
	return row*l.shape.Cols + col
}

// Shape implements Strategy.
func (l RowMajor) Shape() Shape {
	return l.shape
}

// RowStart returns the offset of the first field of row.
func (l RowMajor) RowStart(row int) int {
	return row * l.shape.Cols
}

// ColumnMajor lays out fields column by column.
type ColumnMajor struct {
	shape Shape
}

var _ Strategy = ColumnMajor{}

// MakeColumnMajor returns a column-major strategy for a table of the given
// shape.
func MakeColumnMajor(s Shape) ColumnMajor {
	return ColumnMajor{shape: s}
}

// Offset implements Strategy.
func (l ColumnMajor) Offset(row, col int) int {
	return col*l.shape.Rows + row
}

// Shape implements Strategy.
func (l ColumnMajor) Shape() Shape {
	return l.shape
}

// ColumnStart returns the offset of the first field of col. The fields of col
// occupy [ColumnStart(col), ColumnStart(col)+Rows).
func (l ColumnMajor) ColumnStart(col int) int {
	return col * l.shape.Rows
}
