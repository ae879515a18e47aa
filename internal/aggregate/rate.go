// Package aggregate derives chart-ready tables from a loaded dataset.Table.
// Every function here is pure: it reads the table, allocates a fresh result
// and keeps no state between calls.
package aggregate

import (
	"math"
	"sort"

	"github.com/KaramelBytes/promodash/internal/dataset"
)

// RateRow is one bar of the promotion-rate chart.
type RateRow struct {
	Label string  `json:"label"`
	Share float64 `json:"share"`
}

// ComputeRate groups promoted employees by field and returns each label's
// share of all promoted employees, rounded to two decimals, sorted by share
// descending then label ascending. With nobody promoted it returns an empty
// slice.
func ComputeRate(t *dataset.Table, field dataset.Field) ([]RateRow, error) {
	if !dataset.IsRateField(field) {
		return nil, &dataset.InvalidSelectorError{Selector: "category", Value: string(field)}
	}
	counts := make(map[string]int)
	total := 0
	t.Each(func(e dataset.Employee) bool {
		if !e.IsPromoted() {
			return true
		}
		l, _ := e.Label(field)
		counts[l]++
		total++
		return true
	})
	rows := make([]RateRow, 0, len(counts))
	if total == 0 {
		return rows, nil
	}
	for l, n := range counts {
		rows = append(rows, RateRow{Label: l, Share: round2(float64(n) / float64(total))})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Share != rows[j].Share {
			return rows[i].Share > rows[j].Share
		}
		return rows[i].Label < rows[j].Label
	})
	return rows, nil
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
