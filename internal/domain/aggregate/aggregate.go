// Package aggregate reduces raw multi-round cutoff rows into a per-year
// trend series.
package aggregate

import (
	"sort"

	"github.com/svyas/admitcast/internal/domain/types"
)

// LatestPerYear collapses all rows for one program into at most one row per
// admission year: the row with the highest round number among that year's
// rows with a known closing rank. Years where every row has a null closing
// rank are omitted entirely. The result is ordered most recent year first.
//
// Pure reduction over the input; the input slice is not modified.
func LatestPerYear(records []types.CutoffRecord) []types.CutoffRecord {
	if len(records) == 0 {
		return nil
	}

	sorted := make([]types.CutoffRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Year != sorted[j].Year {
			return sorted[i].Year > sorted[j].Year
		}
		return sorted[i].Round > sorted[j].Round
	})

	series := make([]types.CutoffRecord, 0, len(sorted))
	seen := make(map[int]bool, len(sorted))
	for _, rec := range sorted {
		if rec.ClosingRank == nil {
			continue
		}
		if seen[rec.Year] {
			continue
		}
		seen[rec.Year] = true
		series = append(series, rec)
	}
	if len(series) == 0 {
		return nil
	}
	return series
}

// ClosingRanks extracts the closing ranks of a series in order. The series
// is assumed to contain only rows with a known closing rank, as produced by
// LatestPerYear.
func ClosingRanks(series []types.CutoffRecord) []int {
	out := make([]int, 0, len(series))
	for _, rec := range series {
		if rec.ClosingRank != nil {
			out = append(out, *rec.ClosingRank)
		}
	}
	return out
}
