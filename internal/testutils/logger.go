// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package testutils

import (
	"testing"

	"github.com/cockroachdb/memstore/internal/base"
)

// Logger is a base.Logger that writes to a testing.TB. Errorf messages are
// logged rather than failing the test, since load failures are expected in
// some tests.
type Logger struct {
	T testing.TB
}

var _ base.Logger = Logger{}

// Infof implements the base.Logger interface.
func (l Logger) Infof(format string, args ...interface{}) {
	l.T.Helper()
	l.T.Logf(format, args...)
}

// Errorf implements the base.Logger interface.
func (l Logger) Errorf(format string, args ...interface{}) {
	l.T.Helper()
	l.T.Logf("error: "+format, args...)
}

// Fatalf implements the base.Logger interface.
func (l Logger) Fatalf(format string, args ...interface{}) {
	l.T.Helper()
	l.T.Fatalf(format, args...)
}
