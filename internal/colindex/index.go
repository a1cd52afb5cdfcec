// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package colindex implements an ordered secondary index over a single int32
// column, mapping each distinct value to the set of row ids currently holding
// it.
//
// Buckets are kept in a B-tree ordered by value so that the rows with a value
// strictly above or strictly below a threshold can be enumerated in
// O(log n + k). Each bucket holds its row ids in a hash set, making the
// removal half of a value change O(1). A bucket that becomes empty is removed
// from the tree immediately; the index never holds an empty bucket.
//
// An Index is not safe for concurrent use.
package colindex

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/swiss"
	"github.com/google/btree"
)

const degree = 16

type rowSet = swiss.Map[int32, struct{}]

type bucket struct {
	key  int32
	rows *rowSet
}

func bucketLess(a, b bucket) bool {
	return a.key < b.key
}

// Index is an ordered value -> row id set mapping.
type Index struct {
	tree    *btree.BTreeG[bucket]
	entries int
}

// New returns an empty index.
func New() *Index {
	return &Index{tree: btree.NewG[bucket](degree, bucketLess)}
}

// Buckets returns the number of distinct values in the index.
func (x *Index) Buckets() int {
	return x.tree.Len()
}

// Entries returns the number of row ids in the index.
func (x *Index) Entries() int {
	return x.entries
}

// Insert adds row to the bucket for key, creating the bucket if necessary.
// Inserting a row that is already present in the bucket is a no-op.
func (x *Index) Insert(key, row int32) {
	b, ok := x.tree.Get(bucket{key: key})
	if !ok {
		b = bucket{key: key, rows: swiss.New[int32, struct{}](1)}
		x.tree.ReplaceOrInsert(b)
	}
	if _, present := b.rows.Get(row); present {
		return
	}
	b.rows.Put(row, struct{}{})
	x.entries++
}

// Remove removes row from the bucket for key, dropping the bucket if it
// becomes empty. Returns false if row was not in that bucket.
func (x *Index) Remove(key, row int32) bool {
	b, ok := x.tree.Get(bucket{key: key})
	if !ok {
		return false
	}
	if _, present := b.rows.Get(row); !present {
		return false
	}
	b.rows.Delete(row)
	x.entries--
	if b.rows.Len() == 0 {
		x.tree.Delete(b)
		b.rows.Close()
	}
	return true
}

// Move relocates row from the bucket for oldKey to the bucket for newKey. It
// is a no-op if the keys are equal. Move panics if row was not indexed under
// oldKey, since that means the index has diverged from the column it covers.
func (x *Index) Move(row, oldKey, newKey int32) {
	if oldKey == newKey {
		return
	}
	if !x.Remove(oldKey, row) {
		panic(errors.AssertionFailedf("row %d not indexed under %d", row, oldKey))
	}
	x.Insert(newKey, row)
}

// Contains returns true if row is in the bucket for key.
func (x *Index) Contains(key, row int32) bool {
	b, ok := x.tree.Get(bucket{key: key})
	if !ok {
		return false
	}
	_, ok = b.rows.Get(row)
	return ok
}

// Count returns the number of rows in the bucket for key.
func (x *Index) Count(key int32) int {
	b, ok := x.tree.Get(bucket{key: key})
	if !ok {
		return 0
	}
	return b.rows.Len()
}

// AscendGreater calls fn for every row whose key is strictly greater than
// threshold, in ascending key order. Rows within a bucket are visited in no
// particular order. Iteration stops early if fn returns false.
func (x *Index) AscendGreater(threshold int32, fn func(row int32) bool) {
	x.tree.AscendGreaterOrEqual(bucket{key: threshold}, func(b bucket) bool {
		if b.key == threshold {
			return true
		}
		return visitRows(b, fn)
	})
}

// AscendLess calls fn for every row whose key is strictly less than
// threshold, in ascending key order. Iteration stops early if fn returns
// false.
func (x *Index) AscendLess(threshold int32, fn func(row int32) bool) {
	x.tree.AscendLessThan(bucket{key: threshold}, func(b bucket) bool {
		return visitRows(b, fn)
	})
}

func visitRows(b bucket, fn func(row int32) bool) bool {
	more := true
	b.rows.All(func(row int32, _ struct{}) bool {
		more = fn(row)
		return more
	})
	return more
}

// All calls fn for every bucket in ascending key order with the bucket's rows
// in ascending order. It is intended for verification and debugging; it
// allocates a sorted copy of every bucket.
func (x *Index) All(fn func(key int32, rows []int32) bool) {
	x.tree.Ascend(func(b bucket) bool {
		rows := make([]int32, 0, b.rows.Len())
		b.rows.All(func(row int32, _ struct{}) bool {
			rows = append(rows, row)
			return true
		})
		slices.Sort(rows)
		return fn(b.key, rows)
	})
}

// Clear removes all entries from the index.
func (x *Index) Clear() {
	x.tree.Ascend(func(b bucket) bool {
		b.rows.Close()
		return true
	})
	x.tree.Clear(false /* addNodesToFreelist */)
	x.entries = 0
}

// String returns one line per bucket, "key: row row ...".
func (x *Index) String() string {
	var sb strings.Builder
	x.All(func(key int32, rows []int32) bool {
		fmt.Fprintf(&sb, "%d:", key)
		for _, r := range rows {
			fmt.Fprintf(&sb, " %d", r)
		}
		sb.WriteByte('\n')
		return true
	})
	return sb.String()
}
