// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package memstore

import (
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
)

type queryOp int8

const (
	columnSumOp queryOp = iota
	predicatedColumnSumOp
	predicatedAllColumnsSumOp
	predicatedUpdateOp
	numQueryOps
)

var queryOpNames = [numQueryOps]string{
	columnSumOp:               "column_sum",
	predicatedColumnSumOp:     "predicated_column_sum",
	predicatedAllColumnsSumOp: "predicated_all_columns_sum",
	predicatedUpdateOp:        "predicated_update",
}

// accessPath is how a query located its qualifying rows.
type accessPath int8

const (
	// cachePath answered the query from the aggregate cache alone.
	cachePath accessPath = iota
	// indexPath resolved a predicate with a secondary index range walk.
	indexPath
	// scanPath resolved every predicate by scanning the field buffer.
	scanPath
	numAccessPaths
)

var accessPathNames = [numAccessPaths]string{
	cachePath: "cache",
	indexPath: "index",
	scanPath:  "scan",
}

// String implements fmt.Stringer.
func (p accessPath) String() string {
	return accessPathNames[p]
}

// Metrics holds the prometheus collectors updated by a table. A Metrics may
// be shared by several tables, in which case the counts are aggregated.
type Metrics struct {
	// Queries counts query executions by operation and access path.
	Queries *prometheus.CounterVec
	// RowsUpdated counts rows rewritten by PredicatedUpdate.
	RowsUpdated prometheus.Counter
	// IndexMoves counts rows moved between secondary index buckets.
	IndexMoves prometheus.Counter
	// LoadDuration observes the wall time of successful loads, in seconds.
	LoadDuration prometheus.Histogram

	// queries caches the Queries children so the query path avoids a label
	// lookup.
	queries [numQueryOps][numAccessPaths]prometheus.Counter
}

// NewMetrics returns a set of unregistered collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		Queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "memstore",
			Name:      "queries_total",
			Help:      "Queries executed, by operation and access path.",
		}, []string{"op", "path"}),
		RowsUpdated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "memstore",
			Name:      "rows_updated_total",
			Help:      "Rows rewritten by predicated updates.",
		}),
		IndexMoves: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "memstore",
			Name:      "index_moves_total",
			Help:      "Rows moved between secondary index buckets.",
		}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "memstore",
			Name:      "load_duration_seconds",
			Help:      "Wall time of table loads.",
			Buckets:   prometheus.ExponentialBuckets(1e-4, 4, 10),
		}),
	}
	for op := range m.queries {
		for path := range m.queries[op] {
			m.queries[op][path] = m.Queries.WithLabelValues(queryOpNames[op], accessPathNames[path])
		}
	}
	return m
}

// Register registers all collectors with r.
func (m *Metrics) Register(r prometheus.Registerer) error {
	var err error
	for _, c := range []prometheus.Collector{m.Queries, m.RowsUpdated, m.IndexMoves, m.LoadDuration} {
		err = errors.CombineErrors(err, r.Register(c))
	}
	return err
}

func (m *Metrics) recordQuery(op queryOp, path accessPath) {
	m.queries[op][path].Inc()
}
