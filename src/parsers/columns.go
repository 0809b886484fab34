package parsers

import (
	"fmt"
	"strings"
)

// column describes one logical field of a layout and the header names it may
// appear under. Candidates are ordered by priority; export tools vary bracket
// style and suffixes across versions, so lookup degrades from exact match to
// trimmed match to substring match.
type column struct {
	field      string // logical field name, for error messages
	required   bool
	candidates []string
}

// columnIndex resolves logical fields to positions in one concrete header.
type columnIndex map[string]int

// bindColumns locates every described column in the header. Missing optional
// columns are simply absent from the index; missing required columns fail the
// bind with all of them listed.
func bindColumns(header []string, columns []column) (columnIndex, error) {
	trimmedHeader := make([]string, len(header))
	for i, cell := range header {
		trimmedHeader[i] = strings.TrimSpace(cell)
	}

	index := make(columnIndex, len(columns))
	var missing []string
	for _, col := range columns {
		pos, found := findColumn(header, trimmedHeader, col.candidates)
		if found {
			index[col.field] = pos
			continue
		}
		if col.required {
			missing = append(missing, col.field)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("required columns not found in header: %s", strings.Join(missing, ", "))
	}
	return index, nil
}

func findColumn(header, trimmedHeader []string, candidates []string) (int, bool) {
	for _, candidate := range candidates {
		for i, cell := range header {
			if cell == candidate {
				return i, true
			}
		}
		for i, cell := range trimmedHeader {
			if cell == candidate {
				return i, true
			}
		}
		for i, cell := range trimmedHeader {
			if cell != "" && strings.Contains(cell, candidate) {
				return i, true
			}
		}
	}
	return -1, false
}

// cell returns the row value for a bound field, or "" when the column is
// unbound or the row is short.
func (idx columnIndex) cell(row []string, field string) string {
	pos, ok := idx[field]
	if !ok || pos >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[pos])
}
