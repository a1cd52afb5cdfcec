// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/memstore"
	"github.com/cockroachdb/memstore/data"
)

// newLoader returns the configured row source. A CSV file is read once and
// its rows shared by every table loaded from the returned loader.
func newLoader() (data.Loader, error) {
	if csvPath == "" {
		return data.RandomLoader{NumRows: numRows, NumCols: numCols, MaxValue: maxValue, Seed: seed}, nil
	}
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	l := data.NewCSVLoader(f, 0)
	rows, err := l.Rows()
	if err != nil {
		return nil, errors.Wrapf(err, "%s", csvPath)
	}
	return data.NewRowLoader(l.NumColumns(), rows), nil
}

func tableOptions() *memstore.Options {
	opts := &memstore.Options{Logger: memstore.DefaultLogger}
	if !verbose {
		opts.Logger = quietLogger{}
	}
	return opts
}

// quietLogger drops informational messages.
type quietLogger struct{}

func (quietLogger) Infof(format string, args ...interface{}) {}

func (quietLogger) Errorf(format string, args ...interface{}) {
	memstore.DefaultLogger.Errorf(format, args...)
}

func (quietLogger) Fatalf(format string, args ...interface{}) {
	memstore.DefaultLogger.Fatalf(format, args...)
}
