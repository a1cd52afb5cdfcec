// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package memstore

import "fmt"

type cmpOp int8

const (
	greaterThan cmpOp = iota
	lessThan
)

// predicate is a single-column comparison against a constant.
type predicate struct {
	col       int
	op        cmpOp
	threshold int32
}

func (p predicate) eval(v int32) bool {
	if p.op == greaterThan {
		return v > p.threshold
	}
	return v < p.threshold
}

func (p predicate) String() string {
	if p.op == greaterThan {
		return fmt.Sprintf("col%d > %d", p.col, p.threshold)
	}
	return fmt.Sprintf("col%d < %d", p.col, p.threshold)
}

// selectRows appends the ids of the rows satisfying p to dst. If p is over the
// indexed column it is answered with a range walk over the index; otherwise
// every row is scanned.
func (t *IndexedRowTable) selectRows(dst []int32, p predicate) ([]int32, accessPath) {
	if p.col == t.indexColumn {
		appendRow := func(row int32) bool {
			dst = append(dst, row)
			return true
		}
		if p.op == greaterThan {
			t.index.AscendGreater(p.threshold, appendRow)
		} else {
			t.index.AscendLess(p.threshold, appendRow)
		}
		return dst, indexPath
	}
	for r := 0; r < t.shape.Rows; r++ {
		if p.eval(t.at(r, p.col)) {
			dst = append(dst, int32(r))
		}
	}
	return dst, scanPath
}

// filterRows retains the rows of ids satisfying p, reading only those rows.
func (t *IndexedRowTable) filterRows(ids []int32, p predicate) []int32 {
	kept := ids[:0]
	for _, r := range ids {
		if p.eval(t.at(int(r), p.col)) {
			kept = append(kept, r)
		}
	}
	return kept
}

// orderPredicates returns the predicates in evaluation order: a predicate over
// the indexed column always goes first, so that the second predicate is only
// evaluated over the index's candidate rows. With no indexed predicate the
// order is irrelevant, since either one costs a full scan.
func (t *IndexedRowTable) orderPredicates(a, b predicate) (first, second predicate) {
	// Both predicates being over the indexed column does not arise: the
	// workload's two predicates are over distinct columns.
	if b.col == t.indexColumn {
		return b, a
	}
	return a, b
}
