// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"fmt"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	minLatency = 10 * time.Nanosecond
	maxLatency = 10 * time.Second
)

func newHistogram() *hdrhistogram.Histogram {
	return hdrhistogram.New(minLatency.Nanoseconds(), maxLatency.Nanoseconds(), 2)
}

// latencyHistogram records the latencies of one query against one table.
type latencyHistogram struct {
	name    string
	hist    *hdrhistogram.Histogram
	elapsed time.Duration
}

func newLatencyHistogram(name string) *latencyHistogram {
	return &latencyHistogram{name: name, hist: newHistogram()}
}

func (h *latencyHistogram) Record(elapsed time.Duration) {
	h.elapsed += elapsed
	if elapsed < minLatency {
		elapsed = minLatency
	} else if elapsed > maxLatency {
		elapsed = maxLatency
	}
	if err := h.hist.RecordValue(elapsed.Nanoseconds()); err != nil {
		// Values are clamped to the histogram's range, so this never happens.
		panic(fmt.Sprintf(`%s: recording value: %s`, h.name, err))
	}
}

func (h *latencyHistogram) quantile(q float64) time.Duration {
	return time.Duration(h.hist.ValueAtQuantile(q))
}

// opsPerSec is the throughput over the summed latencies.
func (h *latencyHistogram) opsPerSec() float64 {
	if h.elapsed <= 0 {
		return 0
	}
	return float64(h.hist.TotalCount()) / h.elapsed.Seconds()
}

// row formats the histogram as a summary table row.
func (h *latencyHistogram) row(prefix ...string) []string {
	return append(prefix,
		fmt.Sprintf("%d", h.hist.TotalCount()),
		h.quantile(50).String(),
		h.quantile(95).String(),
		h.quantile(99).String(),
		time.Duration(h.hist.Max()).String(),
		fmt.Sprintf("%.1f", h.opsPerSec()),
	)
}

var latencyHeader = []string{"ops", "p50", "p95", "p99", "pMax", "ops/sec"}
