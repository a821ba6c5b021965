// Package search implements case-insensitive substring matching over a Dataset.
package search

import (
	"strings"

	"louslist/internal/domain"
)

// RowMatches reports whether any cell of row contains query, ignoring case.
// Nulls are matched as the empty string.
func RowMatches(row []domain.Value, query string) bool {
	return rowMatchesFolded(row, strings.ToLower(query))
}

func rowMatchesFolded(row []domain.Value, needle string) bool {
	for _, v := range row {
		if strings.Contains(strings.ToLower(v.String()), needle) {
			return true
		}
	}
	return false
}

// Filter returns the rows of ds that match query. The match always examines
// every column. When columns is non-nil each matching row is projected to
// exactly those columns, see Project.
func Filter(ds *domain.Dataset, query string, columns []string) *domain.Dataset {
	needle := strings.ToLower(query)
	out := &domain.Dataset{Columns: ds.Columns, Rows: [][]domain.Value{}}
	for _, row := range ds.Rows {
		if rowMatchesFolded(row, needle) {
			out.Rows = append(out.Rows, row)
		}
	}
	if columns != nil {
		return Project(out, columns)
	}
	return out
}

// Project narrows ds to the given columns. Columns present in ds keep their
// original order; requested columns missing from ds are appended in request
// order and filled with nulls.
func Project(ds *domain.Dataset, columns []string) *domain.Dataset {
	wanted := make(map[string]bool, len(columns))
	for _, c := range columns {
		wanted[c] = true
	}

	names := make([]string, 0, len(columns))
	idx := make([]int, 0, len(columns))
	present := make(map[string]bool, len(columns))
	for i, c := range ds.Columns {
		if wanted[c] && !present[c] {
			names = append(names, c)
			idx = append(idx, i)
			present[c] = true
		}
	}
	for _, c := range columns {
		if !present[c] {
			names = append(names, c)
			idx = append(idx, -1)
			present[c] = true
		}
	}

	out := &domain.Dataset{Columns: names, Rows: make([][]domain.Value, len(ds.Rows))}
	for r, row := range ds.Rows {
		projected := make([]domain.Value, len(idx))
		for j, i := range idx {
			if i >= 0 && i < len(row) {
				projected[j] = row[i]
			}
		}
		out.Rows[r] = projected
	}
	return out
}
