// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package data

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// CSVLoader reads rows of comma separated integers. Blank lines are skipped.
// Records are not required to have the same number of fields: width checking
// is left to the table, which rejects inconsistent input at load time.
type CSVLoader struct {
	r       io.Reader
	numCols int

	parsed bool
	rows   []Row
	err    error
}

var _ Loader = (*CSVLoader)(nil)

// NewCSVLoader returns a loader reading from r. If numCols is zero, the column
// count is taken from the first record.
func NewCSVLoader(r io.Reader, numCols int) *CSVLoader {
	return &CSVLoader{r: r, numCols: numCols}
}

// NumColumns implements Loader.
func (l *CSVLoader) NumColumns() int {
	l.parse()
	return l.numCols
}

// Rows implements Loader.
func (l *CSVLoader) Rows() ([]Row, error) {
	l.parse()
	return l.rows, l.err
}

func (l *CSVLoader) parse() {
	if l.parsed {
		return
	}
	l.parsed = true

	cr := csv.NewReader(l.r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true
	var fields []int32
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			return
		} else if err != nil {
			l.err = errors.Wrap(err, "reading csv")
			return
		}
		fields = fields[:0]
		for i, s := range rec {
			v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
			if err != nil {
				l.err = errors.Wrapf(err, "csv record %d, field %d", line, i)
				return
			}
			fields = append(fields, int32(v))
		}
		if len(l.rows) == 0 && l.numCols == 0 {
			l.numCols = len(fields)
		}
		l.rows = append(l.rows, EncodeRow(fields...))
	}
}
