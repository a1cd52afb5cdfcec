// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package memstore

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/memstore/internal/base"
	"github.com/cockroachdb/redact"
)

// Logger defines an interface for writing log messages.
type Logger = base.Logger

// DefaultLogger logs to the Go stdlib logs.
var DefaultLogger = base.DefaultLogger{}

// Layout selects the physical arrangement of a table's fields.
type Layout int8

const (
	// RowMajorLayout stores each row contiguously and maintains only the
	// column-0 sum.
	RowMajorLayout Layout = iota
	// ColumnMajorLayout stores each column contiguously and maintains only the
	// column-0 sum.
	ColumnMajorLayout
	// IndexedRowMajorLayout stores each row contiguously, maintains an ordered
	// secondary index over one column and caches per-row sums.
	IndexedRowMajorLayout
	numLayouts
)

var layoutNames = [numLayouts]string{
	RowMajorLayout:        "row",
	ColumnMajorLayout:     "column",
	IndexedRowMajorLayout: "indexed-row",
}

// String implements fmt.Stringer.
func (l Layout) String() string {
	if l < 0 || l >= numLayouts {
		return fmt.Sprintf("Layout(%d)", int8(l))
	}
	return layoutNames[l]
}

// SafeValue implements redact.SafeValue.
func (Layout) SafeValue() {}

var _ redact.SafeValue = Layout(0)

// Layouts returns all supported layouts.
func Layouts() []Layout {
	return []Layout{RowMajorLayout, ColumnMajorLayout, IndexedRowMajorLayout}
}

// ParseLayout parses the String form of a Layout.
func ParseLayout(s string) (Layout, error) {
	for l, name := range layoutNames {
		if s == name {
			return Layout(l), nil
		}
	}
	return 0, errors.Newf("memstore: unknown layout %q", s)
}

// BoundsMode selects how point field access treats positions outside the
// table.
type BoundsMode int8

const (
	// PermissiveBounds makes GetIntField return 0 and PutIntField a no-op for
	// positions outside the table.
	PermissiveBounds BoundsMode = iota
	// StrictBounds makes GetIntField and PutIntField panic with an error marked
	// ErrOutOfRange for positions outside the table.
	StrictBounds
)

// String implements fmt.Stringer.
func (m BoundsMode) String() string {
	switch m {
	case PermissiveBounds:
		return "permissive"
	case StrictBounds:
		return "strict"
	default:
		return fmt.Sprintf("BoundsMode(%d)", int8(m))
	}
}

// Options holds the optional parameters for constructing a table.
type Options struct {
	// Layout is the physical layout constructed by New.
	Layout Layout

	// IndexColumn is the column covered by the secondary index of an
	// IndexedRowMajorLayout table. It must lie within the table's columns at
	// load time. Ignored by the other layouts.
	IndexColumn int

	// Bounds is the out-of-range contract for GetIntField and PutIntField.
	//
	// The default value is PermissiveBounds.
	Bounds BoundsMode

	// VolatileColumn is excluded from the per-row sums cached by the indexed
	// layout; its live value is read at query time instead. If zero, it
	// defaults to the target column of PredicatedUpdate (column 3). A negative
	// value caches every column.
	VolatileColumn int

	// Logger used to write log messages.
	//
	// The default logger uses the Go standard library log package.
	Logger Logger

	// Metrics receives query and load counters. If nil, a fresh unregistered
	// set of collectors is created per table.
	Metrics *Metrics
}

// updateTargetColumn is the column rewritten by PredicatedUpdate.
const updateTargetColumn = 3

// EnsureDefaults ensures that the default values for all options are set if a
// valid value was not already specified. Returns the new options.
func (o *Options) EnsureDefaults() *Options {
	if o == nil {
		o = &Options{}
	}
	if o.VolatileColumn == 0 {
		o.VolatileColumn = updateTargetColumn
	}
	if o.Logger == nil {
		o.Logger = DefaultLogger
	}
	if o.Metrics == nil {
		o.Metrics = NewMetrics()
	}
	return o
}

// Clone creates a shallow copy of the supplied options. The Logger and
// Metrics are shared.
func (o *Options) Clone() *Options {
	n := &Options{}
	if o != nil {
		*n = *o
	}
	return n
}

// Validate verifies that the options are mutually consistent. The table shape
// is not known until load time, so IndexColumn is only checked for sign here.
func (o *Options) Validate() error {
	var buf strings.Builder
	if o.Layout < 0 || o.Layout >= numLayouts {
		fmt.Fprintf(&buf, "Layout (%d) is not a known layout\n", o.Layout)
	}
	if o.IndexColumn < 0 {
		fmt.Fprintf(&buf, "IndexColumn (%d) must be >= 0\n", o.IndexColumn)
	}
	if o.Bounds != PermissiveBounds && o.Bounds != StrictBounds {
		fmt.Fprintf(&buf, "Bounds (%d) is not a known bounds mode\n", o.Bounds)
	}
	if buf.Len() == 0 {
		return nil
	}
	return errors.New(buf.String())
}
