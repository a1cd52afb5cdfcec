// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package memstore

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/cockroachdb/memstore/data"
	"github.com/stretchr/testify/require"
)

func TestSynchronized(t *testing.T) {
	const numRows, numCols, workers, opsPerWorker = 100, 4, 8, 500
	for _, l := range Layouts() {
		t.Run(l.String(), func(t *testing.T) {
			opts := testOptions(t)
			opts.Layout = l
			opts.IndexColumn = 2
			inner, err := New(opts)
			require.NoError(t, err)
			tbl := NewSynchronized(inner)
			require.NoError(t, tbl.Load(&data.RandomLoader{NumRows: numRows, NumCols: numCols, Seed: 1}))

			// Each worker owns the rows congruent to its id, so the final
			// contents are known regardless of interleaving.
			var wg sync.WaitGroup
			for w := 0; w < workers; w++ {
				wg.Add(1)
				go func(w int) {
					defer wg.Done()
					rng := rand.New(rand.NewSource(int64(w)))
					for i := 0; i < opsPerWorker; i++ {
						r := w + workers*rng.Intn(numRows/workers)
						switch rng.Intn(4) {
						case 0:
							tbl.PutIntField(r, rng.Intn(numCols), int32(w))
						case 1:
							tbl.PredicatedColumnSum(rng.Int31n(1024), rng.Int31n(1024))
						case 2:
							tbl.PredicatedAllColumnsSum(rng.Int31n(1024))
						default:
							tbl.ColumnSum()
						}
					}
					for r := w; r < numRows; r += workers {
						for c := 0; c < numCols; c++ {
							tbl.PutIntField(r, c, int32(r*numCols+c))
						}
					}
				}(w)
			}
			wg.Wait()

			var expected int64
			for r := 0; r < numRows; r++ {
				expected += int64(r * numCols)
				for c := 0; c < numCols; c++ {
					require.Equal(t, int32(r*numCols+c), tbl.GetIntField(r, c))
				}
			}
			require.Equal(t, expected, tbl.ColumnSum())
			if it, ok := inner.(*IndexedRowTable); ok {
				require.NoError(t, it.CheckInvariants())
			}
		})
	}
}
