// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package data

import (
	"encoding/binary"

	"golang.org/x/exp/rand"
)

// RandomLoader generates NumRows rows of NumCols fields drawn uniformly from
// [0, MaxValue), or [0, 1024) if MaxValue is not positive. The same Seed
// always produces the same rows.
type RandomLoader struct {
	NumRows  int
	NumCols  int
	MaxValue int32
	Seed     uint64
}

var _ Loader = RandomLoader{}

// NumColumns implements Loader.
func (l RandomLoader) NumColumns() int { return l.NumCols }

// Rows implements Loader.
func (l RandomLoader) Rows() ([]Row, error) {
	maxValue := l.MaxValue
	if maxValue <= 0 {
		maxValue = 1024
	}
	rng := rand.New(rand.NewSource(l.Seed))
	// Rows share a single backing allocation.
	rowLen := l.NumCols * FieldLen
	buf := make([]byte, l.NumRows*rowLen)
	rows := make([]Row, l.NumRows)
	for i := range rows {
		rows[i] = Row(buf[i*rowLen : (i+1)*rowLen : (i+1)*rowLen])
		for j := 0; j < l.NumCols; j++ {
			binary.LittleEndian.PutUint32(rows[i][j*FieldLen:], uint32(rng.Int31n(maxValue)))
		}
	}
	return rows, nil
}
