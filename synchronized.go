// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package memstore

import (
	"sync"

	"github.com/cockroachdb/memstore/data"
)

// synchronizedTable serializes writers against all other operations, so the
// multi-step updates of the buffer, index and cache made by a single write
// are never observed half-applied. Readers proceed in parallel.
type synchronizedTable struct {
	mu struct {
		sync.RWMutex
		t Table
	}
}

var _ Table = (*synchronizedTable)(nil)

// NewSynchronized wraps t so that it may be used from multiple goroutines.
// GetIntField, ColumnSum and Stats hold a shared lock. Every other operation
// holds an exclusive lock: besides the writers, the predicated queries reuse
// per-table scratch space.
//
// t must not be used directly once wrapped.
func NewSynchronized(t Table) Table {
	s := &synchronizedTable{}
	s.mu.t = t
	return s
}

func (s *synchronizedTable) Load(loader data.Loader) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mu.t.Load(loader)
}

func (s *synchronizedTable) GetIntField(row, col int) int32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mu.t.GetIntField(row, col)
}

func (s *synchronizedTable) PutIntField(row, col int, value int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mu.t.PutIntField(row, col, value)
}

func (s *synchronizedTable) ColumnSum() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mu.t.ColumnSum()
}

func (s *synchronizedTable) PredicatedColumnSum(threshold1, threshold2 int32) int64 {
	// Exclusive: query evaluation reuses the table's scratch space.
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mu.t.PredicatedColumnSum(threshold1, threshold2)
}

func (s *synchronizedTable) PredicatedAllColumnsSum(threshold int32) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mu.t.PredicatedAllColumnsSum(threshold)
}

func (s *synchronizedTable) PredicatedUpdate(threshold int32) int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mu.t.PredicatedUpdate(threshold)
}

func (s *synchronizedTable) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mu.t.Stats()
}
