// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package memstore

import "github.com/cockroachdb/errors"

// ErrLoad marks errors returned by Load: malformed or inconsistent loader
// input, a loader failure, or a second Load of the same table. Use
// errors.Is(err, ErrLoad) to test for it.
var ErrLoad = errors.New("memstore: load failed")

// ErrOutOfRange marks the panic raised by point field access outside the
// table when the table was built with StrictBounds.
var ErrOutOfRange = errors.New("memstore: field out of range")

func loadErrorf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrLoad)
}

func outOfRange(row, col, rows, cols int) error {
	return errors.Mark(
		errors.Newf("memstore: field (%d, %d) outside %d x %d table", row, col, rows, cols),
		ErrOutOfRange)
}
