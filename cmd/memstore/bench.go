// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/cockroachdb/crlib/crhumanize"
	"github.com/cockroachdb/crlib/crtime"
	"github.com/cockroachdb/memstore"
	"github.com/cockroachdb/memstore/data"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"
)

var benchConfig struct {
	numOps  int
	writes  int
	metrics bool
}

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "benchmark the query workload against each layout",
	Long: `
Loads the same rows into a table of each requested layout and times repeated
executions of every query with random thresholds. Every layout sees the same
sequence of thresholds and writes.
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		loader, err := newLoader()
		if err != nil {
			return err
		}
		return runBench(cmd.OutOrStdout(), loader)
	},
}

// benchQuery is one query of the workload, parameterized by two random
// thresholds.
type benchQuery struct {
	name string
	run  func(t memstore.Table, t1, t2 int32) int64
}

var benchQueries = []benchQuery{
	{"column-sum", func(t memstore.Table, _, _ int32) int64 {
		return t.ColumnSum()
	}},
	{"predicated-column-sum", func(t memstore.Table, t1, t2 int32) int64 {
		return t.PredicatedColumnSum(t1, t2)
	}},
	{"predicated-all-columns-sum", func(t memstore.Table, t1, _ int32) int64 {
		return t.PredicatedAllColumnsSum(t1)
	}},
	{"predicated-update", func(t memstore.Table, t1, _ int32) int64 {
		return int64(t.PredicatedUpdate(t1))
	}},
}

func runBench(w io.Writer, loader data.Loader) error {
	var layouts []memstore.Layout
	for _, name := range layoutNames {
		l, err := memstore.ParseLayout(name)
		if err != nil {
			return err
		}
		layouts = append(layouts, l)
	}

	reg := prometheus.NewRegistry()
	metrics := memstore.NewMetrics()
	if err := metrics.Register(reg); err != nil {
		return err
	}

	summary := tablewriter.NewWriter(w)
	summary.SetHeader(append([]string{"layout", "query"}, latencyHeader...))
	// Query results are folded into a checksum that is printed, so layouts
	// can be compared at a glance.
	checksums := make([]uint64, len(layouts))
	for i, l := range layouts {
		opts := tableOptions()
		opts.Layout = l
		opts.IndexColumn = indexColumn
		opts.Metrics = metrics
		t, err := memstore.New(opts)
		if err != nil {
			return err
		}
		start := crtime.NowMono()
		if err := t.Load(loader); err != nil {
			return err
		}
		s := t.Stats()
		fmt.Fprintf(w, "%s: loaded %s rows x %d columns (%s) in %s\n",
			l, crhumanize.Count(int64(s.Rows), crhumanize.Compact), s.Columns,
			crhumanize.Bytes(int64(s.BufferBytes), crhumanize.Compact, crhumanize.OmitI), start.Elapsed())

		rng := rand.New(rand.NewSource(seed))
		threshold := func() int32 { return rng.Int31n(thresholdBound()) }
		for _, q := range benchQueries {
			hist := newLatencyHistogram(l.String() + "/" + q.name)
			for n := 0; n < benchConfig.numOps; n++ {
				for j := 0; j < benchConfig.writes && s.Rows > 0 && s.Columns > 0; j++ {
					t.PutIntField(rng.Intn(s.Rows), rng.Intn(s.Columns), threshold())
				}
				t1, t2 := threshold(), threshold()
				start := crtime.NowMono()
				v := q.run(t, t1, t2)
				hist.Record(start.Elapsed())
				checksums[i] = checksums[i]*31 + uint64(v)
			}
			summary.Append(hist.row(l.String(), q.name))
		}
		fmt.Fprintf(w, "%s: checksum %016x, fingerprint %016x\n", l, checksums[i], memstore.Fingerprint(t))
	}
	summary.Render()

	if benchConfig.metrics {
		families, err := reg.Gather()
		if err != nil {
			return err
		}
		printMetrics(w, families)
	}
	return nil
}

// thresholdBound is the exclusive upper bound of random thresholds and
// written values.
func thresholdBound() int32 {
	if maxValue <= 0 {
		return 1024
	}
	return maxValue
}

// printMetrics writes one line per counter or histogram sample count.
func printMetrics(w io.Writer, families []*dto.MetricFamily) {
	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%s", lp.GetName(), lp.GetValue()))
			}
			name := mf.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}
			switch {
			case m.GetCounter() != nil:
				lines = append(lines, fmt.Sprintf("%s %.0f", name, m.GetCounter().GetValue()))
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				lines = append(lines, fmt.Sprintf("%s count=%d sum=%.6f", name, h.GetSampleCount(), h.GetSampleSum()))
			}
		}
	}
	sort.Strings(lines)
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
}
