// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package colindex

import (
	"fmt"
	"math"
	"math/rand"
	"slices"
	"strings"
	"testing"

	"github.com/cockroachdb/crlib/crstrings"
	"github.com/cockroachdb/datadriven"
	"github.com/stretchr/testify/require"
)

func parseInts(t *testing.T, td *datadriven.TestData, line string, n int) []int32 {
	fields := strings.Fields(line)
	if len(fields) != n {
		td.Fatalf(t, "expected %d fields in %q", n, line)
	}
	vals := make([]int32, n)
	for i, f := range fields {
		var v int32
		if _, err := fmt.Sscan(f, &v); err != nil {
			td.Fatalf(t, "parsing %q: %v", f, err)
		}
		vals[i] = v
	}
	return vals
}

func collect(walk func(func(row int32) bool)) []int32 {
	var rows []int32
	walk(func(row int32) bool {
		rows = append(rows, row)
		return true
	})
	slices.Sort(rows)
	return rows
}

func TestIndexDataDriven(t *testing.T) {
	var x *Index
	datadriven.RunTest(t, "testdata/index", func(t *testing.T, td *datadriven.TestData) string {
		var out strings.Builder
		switch td.Cmd {
		case "reset":
			x = New()
			return ""

		case "insert":
			for line := range crstrings.LinesSeq(td.Input) {
				v := parseInts(t, td, line, 2)
				x.Insert(v[0], v[1])
			}
			return x.String()

		case "remove":
			for line := range crstrings.LinesSeq(td.Input) {
				v := parseInts(t, td, line, 2)
				fmt.Fprintf(&out, "remove %d %d: %t\n", v[0], v[1], x.Remove(v[0], v[1]))
			}
			out.WriteString(x.String())
			return out.String()

		case "move":
			for line := range crstrings.LinesSeq(td.Input) {
				v := parseInts(t, td, line, 3)
				x.Move(v[0], v[1], v[2])
			}
			return x.String()

		case "greater", "less":
			var threshold int
			td.ScanArgs(t, "t", &threshold)
			var rows []int32
			if td.Cmd == "greater" {
				rows = collect(func(fn func(int32) bool) { x.AscendGreater(int32(threshold), fn) })
			} else {
				rows = collect(func(fn func(int32) bool) { x.AscendLess(int32(threshold), fn) })
			}
			return fmt.Sprintf("%v\n", rows)

		case "stats":
			return fmt.Sprintf("buckets=%d entries=%d\n", x.Buckets(), x.Entries())

		default:
			td.Fatalf(t, "unknown command %q", td.Cmd)
			return ""
		}
	})
}

func TestIndexExtremeThresholds(t *testing.T) {
	x := New()
	x.Insert(math.MaxInt32, 0)
	x.Insert(math.MinInt32, 1)
	x.Insert(0, 2)

	greater := func(th int32) []int32 {
		return collect(func(fn func(int32) bool) { x.AscendGreater(th, fn) })
	}
	less := func(th int32) []int32 {
		return collect(func(fn func(int32) bool) { x.AscendLess(th, fn) })
	}
	require.Empty(t, greater(math.MaxInt32))
	require.Equal(t, []int32{0, 2}, greater(math.MinInt32))
	require.Empty(t, less(math.MinInt32))
	require.Equal(t, []int32{1, 2}, less(math.MaxInt32))
}

func TestIndexEarlyStop(t *testing.T) {
	x := New()
	for i := int32(0); i < 10; i++ {
		x.Insert(i, i)
	}
	var n int
	x.AscendGreater(-1, func(int32) bool {
		n++
		return n < 3
	})
	require.Equal(t, 3, n)
}

func TestIndexMovePanicsOnDivergence(t *testing.T) {
	x := New()
	x.Insert(1, 0)
	require.Panics(t, func() { x.Move(0, 2, 3) })
	require.NotPanics(t, func() { x.Move(0, 1, 1) })
	require.Equal(t, 1, x.Count(1))
}

// TestIndexRandomized checks the index against a plain map after random
// moves: every row is in exactly the bucket for its current value, and no
// empty bucket survives.
func TestIndexRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	const numRows = 200
	values := make([]int32, numRows)
	x := New()
	for r := range values {
		values[r] = rng.Int31n(20)
		x.Insert(values[r], int32(r))
	}
	for i := 0; i < 5000; i++ {
		r := rng.Intn(numRows)
		v := rng.Int31n(40) - 10
		x.Move(int32(r), values[r], v)
		values[r] = v
	}

	require.Equal(t, numRows, x.Entries())
	distinct := make(map[int32]int)
	for _, v := range values {
		distinct[v]++
	}
	require.Equal(t, len(distinct), x.Buckets())
	x.All(func(key int32, rows []int32) bool {
		require.NotEmpty(t, rows)
		require.Equal(t, distinct[key], len(rows))
		for _, r := range rows {
			require.Equal(t, values[r], key)
		}
		return true
	})
	for r, v := range values {
		require.True(t, x.Contains(v, int32(r)))
	}

	x.Clear()
	require.Zero(t, x.Buckets())
	require.Zero(t, x.Entries())
}
