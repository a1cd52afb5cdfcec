// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package fieldbuf implements the flat field buffer underlying every table
// layout: a single contiguous allocation of fixed-width, little-endian signed
// 32-bit fields addressed by field index.
package fieldbuf

import (
	"encoding/binary"

	"github.com/cockroachdb/memstore/data"
)

// Buffer is a fixed-length sequence of int32 fields. The zero value is an
// empty buffer. A Buffer is a view: copies share the underlying storage.
type Buffer struct {
	b []byte
}

// Make allocates a zeroed buffer of n fields.
func Make(n int) Buffer {
	return Buffer{b: make([]byte, n*data.FieldLen)}
}

// Len returns the number of fields in the buffer.
func (b Buffer) Len() int {
	return len(b.b) / data.FieldLen
}

// Size returns the size of the buffer in bytes.
func (b Buffer) Size() int {
	return len(b.b)
}

// At returns the field at index i.
func (b Buffer) At(i int) int32 {
	return int32(binary.LittleEndian.Uint32(b.b[i*data.FieldLen:]))
}

// Set stores v at index i.
func (b Buffer) Set(i int, v int32) {
	binary.LittleEndian.PutUint32(b.b[i*data.FieldLen:], uint32(v))
}

// Swap stores v at index i and returns the previous value.
func (b Buffer) Swap(i int, v int32) (old int32) {
	p := b.b[i*data.FieldLen:]
	old = int32(binary.LittleEndian.Uint32(p))
	binary.LittleEndian.PutUint32(p, uint32(v))
	return old
}

// Bytes returns the encoded buffer. The returned slice aliases the buffer and
// must not be modified.
func (b Buffer) Bytes() []byte {
	return b.b
}
