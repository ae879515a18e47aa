package report

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/promodash/internal/aggregate"
	"github.com/KaramelBytes/promodash/internal/binding"
	"github.com/KaramelBytes/promodash/internal/dataset"
)

// Report is the command-line rendering of one dashboard state.
type Report struct {
	Name       string                  `json:"name"`
	Labels     string                  `json:"label_version"`
	Summary    aggregate.Summary       `json:"summary"`
	Selection  binding.Selection       `json:"selection"`
	Rate       *binding.RateView       `json:"rate"`
	Department *binding.DepartmentView `json:"department"`
	MaxRows    int                     `json:"-"`
}

// Build computes the report for sel by running the same handlers the
// dashboard dispatches to.
func Build(reg *binding.Registry, sel binding.Selection) (*Report, error) {
	sum, err := aggregate.Summarize(reg.Table())
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}
	rate, err := reg.Handle(binding.Event{Source: binding.SourceCategory, Value: string(sel.Category)})
	if err != nil {
		return nil, err
	}
	dep, err := reg.Handle(binding.Event{Source: binding.SourceDepartment, Value: sel.Department})
	if err != nil {
		return nil, err
	}
	name := "dataset"
	if src := reg.Table().Source(); src != "" {
		name = filepath.Base(src)
	}
	return &Report{
		Name:       name,
		Labels:     dataset.LabelSetVersion,
		Summary:    sum,
		Selection:  sel,
		Rate:       rate.Rate,
		Department: dep.Department,
		MaxRows:    20,
	}, nil
}

// Markdown renders a compact report suitable for terminals or standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[PROMOTION SUMMARY]\n")
	b.WriteString(fmt.Sprintf("File: %s (labels %s)\n", r.Name, r.Labels))
	b.WriteString(fmt.Sprintf("Employees: %d\n", r.Summary.Employees))
	b.WriteString(fmt.Sprintf("Promoted: %d (%.0f%%)\n", r.Summary.Promoted, r.Summary.PromotionRate*100))
	b.WriteString(fmt.Sprintf("Avg training score: mean %.2f, median %.2f\n", r.Summary.MeanTrainingScore, r.Summary.MedianTrainingScore))
	b.WriteString(fmt.Sprintf("Median length of service: %.1f\n\n", r.Summary.MedianService))

	if r.Rate != nil {
		b.WriteString(fmt.Sprintf("[PROMOTION RATE BY %s]\n", strings.ToUpper(string(r.Rate.Field))))
		if len(r.Rate.Rows) == 0 {
			b.WriteString("- nobody promoted\n")
		} else {
			b.WriteString("| Value | Share |\n|---|---|\n")
			for _, row := range r.Rate.Rows {
				b.WriteString(fmt.Sprintf("| %s | %.2f |\n", safeVal(row.Label), row.Share))
			}
		}
		b.WriteString("\n")
	}

	if d := r.Department; d != nil {
		b.WriteString(fmt.Sprintf("[RATING x EDUCATION: %s]\n", d.Department))
		if len(d.Density) == 0 {
			b.WriteString("- no employees in this department\n\n")
		} else {
			b.WriteString(densityGrid(d.Density))
			b.WriteString("\n")
		}

		b.WriteString(fmt.Sprintf("[TRAINING SCORE vs SERVICE: %s]\n", d.Department))
		b.WriteString(fmt.Sprintf("Rows: %d", len(d.Scatter)))
		if d.Correlation != nil {
			b.WriteString(fmt.Sprintf("; r=%.2f", *d.Correlation))
		}
		facets := make([]string, 0, len(d.FacetCorrelation))
		for k := range d.FacetCorrelation {
			facets = append(facets, k)
		}
		sort.Strings(facets)
		for _, k := range facets {
			b.WriteString(fmt.Sprintf("; promoted=%s r=%.2f", k, d.FacetCorrelation[k]))
		}
		b.WriteString("\n")
		if len(d.Scatter) > 0 {
			b.WriteString("| employee_id | avg_training_score | length_of_service | promoted | kpi_met | trainings |\n|---|---|---|---|---|---|\n")
			limit := len(d.Scatter)
			if r.MaxRows > 0 && limit > r.MaxRows {
				limit = r.MaxRows
			}
			for _, s := range d.Scatter[:limit] {
				b.WriteString(fmt.Sprintf("| %d | %.4g | %d | %s | %s | %d |\n",
					s.EmployeeID, s.AvgTrainingScore, s.LengthOfService, s.Promoted, s.KPIMet, s.NoOfTrainings))
			}
			if limit < len(d.Scatter) {
				b.WriteString(fmt.Sprintf("… %d more rows\n", len(d.Scatter)-limit))
			}
		}
	}
	return b.String()
}

// densityGrid lays the sparse cells out as a rating-by-education table with
// blanks for absent combinations.
func densityGrid(cells []aggregate.DensityCell) string {
	var ratings []int
	var edus []string
	seenR := map[int]bool{}
	seenE := map[string]bool{}
	counts := map[aggregate.DensityKey]int{}
	for _, c := range cells {
		if !seenR[c.Rating] {
			seenR[c.Rating] = true
			ratings = append(ratings, c.Rating)
		}
		if !seenE[c.Education] {
			seenE[c.Education] = true
			edus = append(edus, c.Education)
		}
		counts[aggregate.DensityKey{Rating: c.Rating, Education: c.Education}] = c.Count
	}
	sort.Ints(ratings)
	sort.Strings(edus)

	var b strings.Builder
	b.WriteString("| education \\ rating |")
	for _, r := range ratings {
		b.WriteString(fmt.Sprintf(" %d |", r))
	}
	b.WriteString("\n|---|")
	b.WriteString(strings.Repeat("---|", len(ratings)))
	b.WriteString("\n")
	for _, e := range edus {
		b.WriteString(fmt.Sprintf("| %s |", safeVal(e)))
		for _, r := range ratings {
			if n, ok := counts[aggregate.DensityKey{Rating: r, Education: e}]; ok {
				b.WriteString(fmt.Sprintf(" %d |", n))
			} else {
				b.WriteString("  |")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
