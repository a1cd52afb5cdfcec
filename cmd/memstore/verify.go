// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/memstore"
	"github.com/cockroachdb/memstore/data"
	"github.com/cockroachdb/metamorphic"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var verifyConfig struct {
	numOps int
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "cross-check every layout against the others",
	Long: `
Loads the same rows into a row-major table, a column-major table and one
indexed row-major table per column, then applies a random sequence of writes
and queries to all of them. Every query must return the same result on every
table, and the indexed tables must pass their consistency checks.
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		loader, err := newLoader()
		if err != nil {
			return err
		}
		return runVerify(cmd.OutOrStdout(), loader, verifyConfig.numOps, int64(seed))
	},
}

type verifyTable struct {
	name string
	memstore.Table
}

// verifyTables builds and loads the set of tables compared by runVerify.
func verifyTables(loader data.Loader) ([]verifyTable, error) {
	var tables []verifyTable
	add := func(name string, t memstore.Table) error {
		if err := t.Load(loader); err != nil {
			return errors.Wrapf(err, "%s", name)
		}
		tables = append(tables, verifyTable{name: name, Table: t})
		return nil
	}
	if err := add("row", memstore.NewRowTable(tableOptions())); err != nil {
		return nil, err
	}
	if err := add("column", memstore.NewColumnTable(tableOptions())); err != nil {
		return nil, err
	}
	for c := 0; c < loader.NumColumns(); c++ {
		name := fmt.Sprintf("indexed-row(col%d)", c)
		if err := add(name, memstore.NewIndexedRowTable(c, tableOptions())); err != nil {
			return nil, err
		}
	}
	return tables, nil
}

// valueRange returns bounds just outside the smallest and largest loaded
// field, so random thresholds exercise both ends of every predicate.
func valueRange(t memstore.Table) (lo, hi int32) {
	s := t.Stats()
	lo, hi = -1, 1
	for r := 0; r < s.Rows; r++ {
		for c := 0; c < s.Columns; c++ {
			v := t.GetIntField(r, c)
			lo, hi = min(lo, v-1), max(hi, v+1)
		}
	}
	return lo, hi
}

func runVerify(w io.Writer, loader data.Loader, numOps int, seed int64) error {
	// Materialize the rows once so every table sees the same data.
	rows, err := loader.Rows()
	if err != nil {
		return err
	}
	loader = data.NewRowLoader(loader.NumColumns(), rows)
	tables, err := verifyTables(loader)
	if err != nil {
		return err
	}
	s := tables[0].Stats()
	lo, hi := valueRange(tables[0])

	rng := rand.New(rand.NewSource(seed))
	value := func() int32 { return lo + int32(rng.Int63n(int64(hi)-int64(lo)+1)) }

	// check runs fn against every table and fails on the first result that
	// differs from the first table's.
	var opIndex int
	var mismatch error
	check := func(desc string, fn func(memstore.Table) int64) {
		expected := fn(tables[0].Table)
		for _, t := range tables[1:] {
			if got := fn(t.Table); got != expected && mismatch == nil {
				mismatch = errors.Newf("op %d: %s: %s returned %d, %s returned %d",
					opIndex, desc, tables[0].name, expected, t.name, got)
			}
		}
	}

	ops := metamorphic.Weighted[func()]{
		{Weight: 10, Item: func() {
			if s.Rows == 0 || s.Columns == 0 {
				return
			}
			r, c, v := rng.Intn(s.Rows), rng.Intn(s.Columns), value()
			for _, t := range tables {
				t.PutIntField(r, c, v)
			}
			check(fmt.Sprintf("get(%d, %d)", r, c), func(t memstore.Table) int64 {
				return int64(t.GetIntField(r, c))
			})
		}},
		{Weight: 2, Item: func() {
			check("column-sum", memstore.Table.ColumnSum)
		}},
		{Weight: 3, Item: func() {
			t1, t2 := value(), value()
			check(fmt.Sprintf("predicated-column-sum(%d, %d)", t1, t2), func(t memstore.Table) int64 {
				return t.PredicatedColumnSum(t1, t2)
			})
		}},
		{Weight: 3, Item: func() {
			th := value()
			check(fmt.Sprintf("predicated-all-columns-sum(%d)", th), func(t memstore.Table) int64 {
				return t.PredicatedAllColumnsSum(th)
			})
		}},
		{Weight: 2, Item: func() {
			th := value()
			check(fmt.Sprintf("predicated-update(%d)", th), func(t memstore.Table) int64 {
				return int64(t.PredicatedUpdate(th))
			})
		}},
	}
	nextOp := ops.RandomDeck(rng)
	for opIndex = 0; opIndex < numOps && mismatch == nil; opIndex++ {
		nextOp()()
	}
	if mismatch != nil {
		return mismatch
	}

	summary := tablewriter.NewWriter(w)
	summary.SetHeader([]string{"table", "stats", "fingerprint"})
	expected := memstore.Fingerprint(tables[0])
	for _, t := range tables {
		if it, ok := t.Table.(*memstore.IndexedRowTable); ok {
			if err := it.CheckInvariants(); err != nil {
				return errors.Wrapf(err, "%s", t.name)
			}
		}
		fp := memstore.Fingerprint(t)
		if fp != expected {
			return errors.Newf("%s: fingerprint %016x differs from %s fingerprint %016x",
				t.name, fp, tables[0].name, expected)
		}
		summary.Append([]string{t.name, t.Stats().String(), fmt.Sprintf("%016x", fp)})
	}
	summary.Render()
	fmt.Fprintf(w, "ok: %d operations agree across %d tables\n", numOps, len(tables))
	return nil
}
