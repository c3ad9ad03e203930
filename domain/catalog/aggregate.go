package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/montanaflynn/stats"
)

// Dedupe keeps the first record for each natural key, preserving order.
func Dedupe(records []CourseRecord) []CourseRecord {
	seen := make(map[NaturalKey]struct{}, len(records))
	out := make([]CourseRecord, 0, len(records))
	for _, r := range records {
		k := r.Key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}

// Total is the distinct course count of already deduplicated records.
func Total(deduped []CourseRecord) int {
	return len(deduped)
}

// CountBy groups records by one or two dimensions and counts the members
// of each group. Groups come out in ascending key order; only non-empty
// groups are produced. Records with a blank key value form their own group.
func CountBy(records []CourseRecord, dims ...Dimension) ([]AggregateRow, error) {
	if len(dims) == 0 || len(dims) > 2 {
		return nil, fmt.Errorf("countBy needs 1 or 2 dimensions, got %d", len(dims))
	}
	for _, d := range dims {
		if !d.Valid() {
			return nil, fmt.Errorf("unknown dimension %q", d)
		}
	}

	type group struct {
		keys  []string
		count int
	}
	groups := make(map[string]*group)
	for _, r := range records {
		keys := make([]string, len(dims))
		for i, d := range dims {
			keys[i] = d.Value(r)
		}
		id := strings.Join(keys, "\x00")
		g, ok := groups[id]
		if !ok {
			g = &group{keys: keys}
			groups[id] = g
		}
		g.count++
	}

	rows := make([]AggregateRow, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, AggregateRow{Keys: g.keys, Label: label(g.keys), Count: g.count})
	}
	sort.Slice(rows, func(i, j int) bool {
		return lessKeys(rows[i].Keys, rows[j].Keys)
	})
	return rows, nil
}

// SortByCount orders rows by descending count. The sort is stable, so rows
// with equal counts keep their incoming (key) order.
func SortByCount(rows []AggregateRow) []AggregateRow {
	out := append([]AggregateRow(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// TopN returns the n largest groups by count. Ties at the cut are decided
// by SortByCount's stability.
func TopN(rows []AggregateRow, n int) []AggregateRow {
	sorted := SortByCount(rows)
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// SumCounts adds up the counts of every row.
func SumCounts(rows []AggregateRow) int {
	total := 0
	for _, r := range rows {
		total += r.Count
	}
	return total
}

// Summary describes the spread of group counts, e.g. courses per semester.
type Summary struct {
	Groups int     `json:"groups"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summarize computes mean, median, min and max over the group counts.
// An empty input yields the zero Summary.
func Summarize(rows []AggregateRow) Summary {
	if len(rows) == 0 {
		return Summary{}
	}
	data := make(stats.Float64Data, len(rows))
	for i, r := range rows {
		data[i] = float64(r.Count)
	}

	s := Summary{Groups: len(rows)}
	s.Mean, _ = stats.Round(mustStat(data.Mean()), 2)
	s.Median = mustStat(data.Median())
	s.Min = mustStat(data.Min())
	s.Max = mustStat(data.Max())
	return s
}

// mustStat discards the error stats returns for empty input, which
// Summarize has already ruled out.
func mustStat(v float64, _ error) float64 {
	return v
}

func label(keys []string) string {
	for _, k := range keys {
		if k != "" {
			return strings.Join(keys, "-")
		}
	}
	return UnassignedLabel
}

func lessKeys(a, b []string) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
