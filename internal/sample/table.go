// Package sample loads and decodes raw acquisition tables from the test rig.
//
// An acquisition file is a comma-separated table with one header row.
// Column 0 carries the acquisition clock, which is noisy and never used for
// timing; columns 1..8 carry the analog input channels AIN1..AIN8 as raw
// voltages. Timing is reconstructed from the configured sampling frequency
// instead.
package sample

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Channel identifies one analog input column of an acquisition table.
// The channel number doubles as the column index (column 0 is the raw clock).
type Channel int

const (
	AIN1 Channel = iota + 1
	AIN2
	AIN3
	AIN4
	AIN5
	AIN6
	AIN7
	AIN8
)

// NumChannels is the number of analog inputs the rig can record.
const NumChannels = 8

// String returns the channel name, e.g. "AIN2".
func (c Channel) String() string { return fmt.Sprintf("AIN%d", int(c)) }

var (
	// ErrTableEmpty reports a file with no data rows, including one emptied
	// by truncation.
	ErrTableEmpty = errors.New("sample table has no data rows")
	// ErrTableTooNarrow reports a table with fewer than three columns, which
	// cannot carry even the primary output channel.
	ErrTableTooNarrow = errors.New("sample table has fewer than 3 columns")
)

// Table is one acquisition run's sample table. Cells that failed to parse as
// numbers are stored as NaN and dropped during decoding.
type Table struct {
	rows [][]float64
	cols int
}

// LoadTable reads an acquisition CSV from path, skipping the header row.
// When maxRows > 0 only the first maxRows data rows are kept. A file with no
// remaining data rows is rejected with ErrTableEmpty.
func LoadTable(path string, maxRows int) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sample table: %w", err)
	}
	defer f.Close()

	t, err := ParseTable(f, maxRows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ParseTable reads a sample table from r. See LoadTable.
func ParseTable(r io.Reader, maxRows int) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // acquisition rows can be ragged at the tail

	t := &Table{}
	first := true
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read sample table: %w", err)
		}
		if first {
			first = false // header row
			continue
		}
		if maxRows > 0 && len(t.rows) >= maxRows {
			break
		}

		row := make([]float64, len(record))
		for i, cell := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				v = math.NaN()
			}
			row[i] = v
		}
		t.rows = append(t.rows, row)
		if len(row) > t.cols {
			t.cols = len(row)
		}
	}

	if len(t.rows) == 0 {
		return nil, ErrTableEmpty
	}
	return t, nil
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.rows) }

// Cols returns the widest row's column count.
func (t *Table) Cols() int { return t.cols }

// HasChannel reports whether the table is wide enough to carry ch.
func (t *Table) HasChannel(ch Channel) bool {
	return int(ch) >= 1 && int(ch) < t.cols
}

// cell returns the raw value at (row, col), NaN when the row is too short.
func (t *Table) cell(row, col int) float64 {
	r := t.rows[row]
	if col >= len(r) {
		return math.NaN()
	}
	return r[col]
}
