// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package memstore

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/memstore/data"
	"github.com/cockroachdb/metamorphic"
	"github.com/stretchr/testify/require"
)

// model is a reference table: a plain slice of rows on which every query is
// computed directly.
type model [][]int32

func (m model) field(r, c int) int32 {
	if c >= len(m[r]) {
		return 0
	}
	return m[r][c]
}

func (m model) columnSum() int64 {
	var s int64
	for r := range m {
		s += int64(m.field(r, 0))
	}
	return s
}

func (m model) predicatedColumnSum(t1, t2 int32) int64 {
	var s int64
	for r := range m {
		if m.field(r, 1) > t1 && m.field(r, 2) < t2 {
			s += int64(m.field(r, 0))
		}
	}
	return s
}

func (m model) predicatedAllColumnsSum(t int32) int64 {
	var s int64
	for r := range m {
		if m.field(r, 0) > t {
			for _, v := range m[r] {
				s += int64(v)
			}
		}
	}
	return s
}

func (m model) predicatedUpdate(t int32) int32 {
	var n int32
	for r := range m {
		if m.field(r, 0) < t {
			if len(m[r]) > 3 {
				m[r][3] += m[r][2]
			}
			n++
		}
	}
	return n
}

func randomRows(rng *rand.Rand, rows, cols int, maxValue int32) [][]int32 {
	out := make([][]int32, rows)
	for r := range out {
		out[r] = make([]int32, cols)
		for c := range out[r] {
			out[r][c] = rng.Int31n(2*maxValue) - maxValue
		}
	}
	return out
}

func cloneRows(rows [][]int32) model {
	m := make(model, len(rows))
	for r := range rows {
		m[r] = append([]int32(nil), rows[r]...)
	}
	return m
}

type namedTable struct {
	name string
	Table
}

// allLayouts returns one freshly loaded table per layout, plus one indexed
// table per column, all loaded from rows.
func allLayouts(t testing.TB, rows [][]int32, cols int) []namedTable {
	var tables []namedTable
	add := func(name string, tbl Table) {
		require.NoError(t, tbl.Load(data.NewSliceLoader(cols, rows)))
		tables = append(tables, namedTable{name: name, Table: tbl})
	}
	add("row", NewRowTable(testOptions(t)))
	add("column", NewColumnTable(testOptions(t)))
	for ic := 0; ic < cols; ic++ {
		add(fmt.Sprintf("indexed-row/col%d", ic), NewIndexedRowTable(ic, testOptions(t)))
	}
	return tables
}

func checkAgainstModel(t *testing.T, tbl namedTable, m model) {
	t.Helper()
	require.Equal(t, m.columnSum(), tbl.ColumnSum(), "%s", tbl.name)
	for r := range m {
		for c := range m[r] {
			require.Equal(t, m[r][c], tbl.GetIntField(r, c), "%s (%d,%d)", tbl.name, r, c)
		}
	}
	if it, ok := tbl.Table.(*IndexedRowTable); ok {
		require.NoError(t, it.CheckInvariants(), "%s", tbl.name)
	}
}

func TestWorkedExample(t *testing.T) {
	rows := [][]int32{{5, 10, 2, 1}, {7, 1, 8, 0}, {3, 12, 1, 9}}
	for _, tbl := range allLayouts(t, rows, 4) {
		t.Run(tbl.name, func(t *testing.T) {
			require.Equal(t, int64(15), tbl.ColumnSum())
			require.Equal(t, int64(8), tbl.PredicatedColumnSum(6, 5))
			require.Equal(t, int32(2), tbl.PredicatedUpdate(6))
			require.Equal(t, int32(3), tbl.GetIntField(0, 3))
			require.Equal(t, int32(10), tbl.GetIntField(2, 3))
			require.Equal(t, int64(36), tbl.PredicatedAllColumnsSum(4))
		})
	}
}

// TestOffsetCorrectness loads tables of assorted shapes and checks that every
// field reads back as loaded.
func TestOffsetCorrectness(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	shapes := [][2]int{{0, 4}, {0, 1}, {1, 1}, {9, 1}, {1, 9}, {5, 5}, {13, 4}, {4, 13}, {100, 6}}
	for _, shape := range shapes {
		rows := randomRows(rng, shape[0], shape[1], 1000)
		for _, tbl := range allLayouts(t, rows, shape[1]) {
			t.Run(fmt.Sprintf("%dx%d/%s", shape[0], shape[1], tbl.name), func(t *testing.T) {
				s := tbl.Stats()
				require.Equal(t, shape[0], s.Rows)
				require.Equal(t, shape[1], s.Columns)
				require.Equal(t, shape[0]*shape[1]*data.FieldLen, s.BufferBytes)
				checkAgainstModel(t, tbl, cloneRows(rows))
			})
		}
	}
}

// TestWriteReadRoundTrip writes every field of a table in a random order and
// checks after each write that only the written field changed.
func TestWriteReadRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	const numRows, numCols = 12, 5
	rows := randomRows(rng, numRows, numCols, 50)
	for _, tbl := range allLayouts(t, rows, numCols) {
		t.Run(tbl.name, func(t *testing.T) {
			m := cloneRows(rows)
			for _, pos := range rng.Perm(numRows * numCols) {
				r, c := pos/numCols, pos%numCols
				v := rng.Int31n(100) - 50
				tbl.PutIntField(r, c, v)
				m[r][c] = v
				require.Equal(t, v, tbl.GetIntField(r, c))
				checkAgainstModel(t, tbl, m)
			}
		})
	}
}

// TestCrossLayoutAgreement runs the same random sequence of writes and
// queries against every layout and a reference model.
func TestCrossLayoutAgreement(t *testing.T) {
	for _, seed := range []int64{1, 2, 3} {
		t.Run(fmt.Sprint(seed), func(t *testing.T) {
			rng := rand.New(rand.NewSource(seed))
			const numRows, numCols = 64, 5
			rows := randomRows(rng, numRows, numCols, 20)
			tables := allLayouts(t, rows, numCols)
			m := cloneRows(rows)

			threshold := func() int32 { return rng.Int31n(50) - 25 }
			ops := metamorphic.Weighted[func()]{
				{Weight: 10, Item: func() {
					r, c, v := rng.Intn(numRows), rng.Intn(numCols), threshold()
					m[r][c] = v
					for _, tbl := range tables {
						tbl.PutIntField(r, c, v)
					}
				}},
				{Weight: 2, Item: func() {
					expected := m.columnSum()
					for _, tbl := range tables {
						require.Equal(t, expected, tbl.ColumnSum(), "%s", tbl.name)
					}
				}},
				{Weight: 3, Item: func() {
					t1, t2 := threshold(), threshold()
					expected := m.predicatedColumnSum(t1, t2)
					for _, tbl := range tables {
						require.Equal(t, expected, tbl.PredicatedColumnSum(t1, t2), "%s", tbl.name)
					}
				}},
				{Weight: 3, Item: func() {
					th := threshold()
					expected := m.predicatedAllColumnsSum(th)
					for _, tbl := range tables {
						require.Equal(t, expected, tbl.PredicatedAllColumnsSum(th), "%s", tbl.name)
					}
				}},
				{Weight: 2, Item: func() {
					th := threshold()
					expected := m.predicatedUpdate(th)
					for _, tbl := range tables {
						require.Equal(t, expected, tbl.PredicatedUpdate(th), "%s", tbl.name)
					}
				}},
			}
			nextOp := ops.RandomDeck(rng)
			for i := 0; i < 2000; i++ {
				nextOp()()
			}
			fp := Fingerprint(tables[0])
			for _, tbl := range tables {
				checkAgainstModel(t, tbl, m)
				require.Equal(t, fp, Fingerprint(tbl), "%s", tbl.name)
			}
		})
	}
}

// TestNoopWrite checks that writing a field's current value changes neither
// the buffer, the index nor any cached aggregate.
func TestNoopWrite(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	rows := randomRows(rng, 20, 4, 5)
	for _, tbl := range allLayouts(t, rows, 4) {
		t.Run(tbl.name, func(t *testing.T) {
			before := tbl.Stats()
			fp := Fingerprint(tbl)
			sum := tbl.ColumnSum()
			var index string
			it, indexed := tbl.Table.(*IndexedRowTable)
			if indexed {
				index = it.index.String()
			}
			for r := 0; r < 20; r++ {
				for c := 0; c < 4; c++ {
					tbl.PutIntField(r, c, tbl.GetIntField(r, c))
				}
			}
			require.Equal(t, before, tbl.Stats())
			require.Equal(t, fp, Fingerprint(tbl))
			require.Equal(t, sum, tbl.ColumnSum())
			if indexed {
				require.Equal(t, index, it.index.String())
				require.NoError(t, it.CheckInvariants())
			}
		})
	}
}

// TestIndexConsistency applies random writes concentrated on the indexed
// column and checks the index against the buffer throughout.
func TestIndexConsistency(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	const numRows, numCols = 200, 4
	rows := randomRows(rng, numRows, numCols, 10)
	for ic := 0; ic < numCols; ic++ {
		tbl := NewIndexedRowTable(ic, testOptions(t))
		require.NoError(t, tbl.Load(data.NewSliceLoader(numCols, rows)))
		for i := 0; i < 3000; i++ {
			col := ic
			if rng.Intn(4) == 0 {
				col = rng.Intn(numCols)
			}
			tbl.PutIntField(rng.Intn(numRows), col, rng.Int31n(30)-15)
			if i%500 == 0 {
				tbl.PredicatedUpdate(rng.Int31n(20) - 10)
			}
			if i%100 == 0 {
				require.NoError(t, tbl.CheckInvariants())
			}
		}
		require.NoError(t, tbl.CheckInvariants())

		// A range covering every value returns every row exactly once.
		seen := make(map[int32]bool)
		tbl.index.AscendGreater(math.MinInt32, func(row int32) bool {
			require.False(t, seen[row])
			seen[row] = true
			return true
		})
		tbl.index.AscendLess(math.MinInt32+1, func(row int32) bool {
			require.False(t, seen[row])
			seen[row] = true
			return true
		})
		require.Len(t, seen, numRows)
	}
}

func TestStrictBounds(t *testing.T) {
	rows := [][]int32{{1, 2}, {3, 4}}
	for _, l := range Layouts() {
		t.Run(l.String(), func(t *testing.T) {
			opts := testOptions(t)
			opts.Layout = l
			opts.Bounds = StrictBounds
			tbl, err := New(opts)
			require.NoError(t, err)
			require.NoError(t, tbl.Load(data.NewSliceLoader(2, rows)))

			expectOutOfRange := func(fn func()) {
				t.Helper()
				defer func() {
					r := recover()
					require.NotNil(t, r)
					err, ok := r.(error)
					require.True(t, ok)
					require.True(t, errors.Is(err, ErrOutOfRange), "%v", err)
				}()
				fn()
			}
			expectOutOfRange(func() { tbl.GetIntField(2, 0) })
			expectOutOfRange(func() { tbl.GetIntField(0, -1) })
			expectOutOfRange(func() { tbl.PutIntField(0, 2, 7) })
			require.Equal(t, int32(4), tbl.GetIntField(1, 1))

			// Queries are not point accesses: absent columns read as zero.
			require.Equal(t, int32(2), tbl.PredicatedUpdate(10))
			require.Equal(t, int64(0), tbl.PredicatedColumnSum(0, 0))
		})
	}
}

type failingLoader struct{}

func (failingLoader) NumColumns() int { return 1 }
func (failingLoader) Rows() ([]data.Row, error) {
	return nil, errors.New("disk on fire")
}

func TestLoadErrors(t *testing.T) {
	testCases := []struct {
		name   string
		loader data.Loader
		err    string
	}{
		{"nil", nil, "memstore: nil loader"},
		{"negative-columns", data.NewSliceLoader(-1, nil), "memstore: loader reports -1 columns"},
		{"partial-field", data.NewRowLoader(1, []data.Row{data.EncodeRow(1), make(data.Row, 5)}),
			"memstore: row 1 is 5 bytes, not a whole number of 4 byte fields"},
		{"ragged", data.NewSliceLoader(2, [][]int32{{1, 2}, {3}}), "memstore: row 1 has 1 columns; expected 2"},
		{"loader-error", failingLoader{}, "memstore: reading rows: disk on fire"},
	}
	for _, tc := range testCases {
		for _, l := range Layouts() {
			t.Run(tc.name+"/"+l.String(), func(t *testing.T) {
				opts := testOptions(t)
				opts.Layout = l
				tbl, err := New(opts)
				require.NoError(t, err)
				err = tbl.Load(tc.loader)
				require.True(t, errors.Is(err, ErrLoad))
				require.EqualError(t, err, tc.err)
				require.False(t, tbl.Stats().Loaded)
				require.Zero(t, tbl.Stats().Rows)
				require.Zero(t, tbl.GetIntField(0, 0))

				// A table whose load failed may be loaded again.
				require.NoError(t, tbl.Load(data.NewSliceLoader(1, [][]int32{{4}})))
				require.Equal(t, int64(4), tbl.ColumnSum())
			})
		}
	}
}

func TestVolatileColumn(t *testing.T) {
	rows := [][]int32{{5, 10, 2, 1}, {7, 1, 8, 0}, {3, 12, 1, 9}}
	for _, volatile := range []int{-1, 0, 2, 3, 7} {
		t.Run(fmt.Sprint(volatile), func(t *testing.T) {
			opts := testOptions(t)
			opts.VolatileColumn = volatile
			tbl := NewIndexedRowTable(1, opts)
			require.NoError(t, tbl.Load(data.NewSliceLoader(4, rows)))
			require.Equal(t, int64(34), tbl.PredicatedAllColumnsSum(4))
			tbl.PredicatedUpdate(6)
			tbl.PutIntField(1, 2, 100)
			require.Equal(t, int64(128), tbl.PredicatedAllColumnsSum(4))
			require.NoError(t, tbl.CheckInvariants())
		})
	}
}
