// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteCSV writes an acquisition-style CSV fixture (header row followed by
// numeric rows) into dir and returns its path. Cells holding NaN are written
// as the non-numeric token "bad" to exercise the decoder's row dropping.
func WriteCSV(t *testing.T, dir, name string, rows [][]float64) string {
	t.Helper()

	var b strings.Builder
	if len(rows) > 0 {
		cols := make([]string, len(rows[0]))
		for i := range cols {
			cols[i] = fmt.Sprintf("col%d", i)
		}
		b.WriteString(strings.Join(cols, ","))
		b.WriteString("\n")
	}
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			if math.IsNaN(v) {
				cells[i] = "bad"
			} else {
				cells[i] = fmt.Sprintf("%g", v)
			}
		}
		b.WriteString(strings.Join(cells, ","))
		b.WriteString("\n")
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", name, err)
	}
	return path
}

// AcquisitionRow builds one sample-table row: a raw time cell followed by
// channel voltages for AIN1..AINn. Channels not supplied are omitted.
func AcquisitionRow(rawTime float64, channels ...float64) []float64 {
	row := make([]float64, 0, len(channels)+1)
	row = append(row, rawTime)
	row = append(row, channels...)
	return row
}

// AssertClose fails the test unless got is within tol of want.
func AssertClose(t *testing.T, got, want, tol float64) {
	t.Helper()
	if math.IsNaN(got) != math.IsNaN(want) || math.Abs(got-want) > tol {
		t.Errorf("value = %v, want %v (tol %v)", got, want, tol)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}
