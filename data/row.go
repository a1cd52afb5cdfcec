// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package data defines the loader collaborator that supplies the initial rows
// of a memstore table, along with the fixed-width row encoding shared by all
// loaders.
//
// A row is a contiguous run of little-endian signed 32-bit fields, FieldLen
// bytes each. Loaders hand rows to a table exactly once, at load time; the
// table copies them into its own field buffer and never retains the Row
// slices.
package data

import (
	"encoding/binary"
	"strconv"
	"strings"
)

// FieldLen is the encoded width, in bytes, of a single field.
const FieldLen = 4

// Row is a single encoded row record. Its length is expected to be a multiple
// of FieldLen; see Valid.
type Row []byte

// EncodeRow encodes the given fields into a new Row.
func EncodeRow(fields ...int32) Row {
	r := make(Row, len(fields)*FieldLen)
	for i, f := range fields {
		binary.LittleEndian.PutUint32(r[i*FieldLen:], uint32(f))
	}
	return r
}

// Valid returns true if the row's length is a whole number of fields.
func (r Row) Valid() bool {
	return len(r)%FieldLen == 0
}

// NumFields returns the number of complete fields in the row.
func (r Row) NumFields() int {
	return len(r) / FieldLen
}

// Int32 returns the field at column col. The caller must ensure col is in
// [0, NumFields()).
func (r Row) Int32(col int) int32 {
	return int32(binary.LittleEndian.Uint32(r[col*FieldLen:]))
}

// Fields decodes all fields of the row.
func (r Row) Fields() []int32 {
	fields := make([]int32, r.NumFields())
	for i := range fields {
		fields[i] = r.Int32(i)
	}
	return fields
}

// String returns the row's fields as a space separated list.
func (r Row) String() string {
	var sb strings.Builder
	for i := 0; i < r.NumFields(); i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.Itoa(int(r.Int32(i))))
	}
	return sb.String()
}
