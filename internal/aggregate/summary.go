package aggregate

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/promodash/internal/dataset"
)

// Summary feeds the headline cards above the charts.
type Summary struct {
	Employees           int     `json:"employees"`
	Promoted            int     `json:"promoted"`
	PromotionRate       float64 `json:"promotion_rate"`
	MeanTrainingScore   float64 `json:"mean_training_score"`
	MedianTrainingScore float64 `json:"median_training_score"`
	MedianService       float64 `json:"median_length_of_service"`
}

// Summarize computes the dataset-wide cards. An empty table yields zeros.
func Summarize(t *dataset.Table) (Summary, error) {
	s := Summary{Employees: t.Len()}
	if s.Employees == 0 {
		return s, nil
	}
	scores := make([]float64, 0, t.Len())
	service := make([]float64, 0, t.Len())
	t.Each(func(e dataset.Employee) bool {
		if e.IsPromoted() {
			s.Promoted++
		}
		scores = append(scores, e.AvgTrainingScore)
		service = append(service, float64(e.LengthOfService))
		return true
	})
	s.PromotionRate = round2(float64(s.Promoted) / float64(s.Employees))

	var err error
	if s.MeanTrainingScore, err = stats.Mean(scores); err != nil {
		return Summary{}, err
	}
	if s.MedianTrainingScore, err = stats.Median(scores); err != nil {
		return Summary{}, err
	}
	if s.MedianService, err = stats.Median(service); err != nil {
		return Summary{}, err
	}
	s.MeanTrainingScore = round2(s.MeanTrainingScore)
	return s, nil
}

// Correlation is the Pearson coefficient between avg_training_score and
// length_of_service over rows. ok is false when fewer than two rows are given
// or either variable is constant.
func Correlation(rows []ScatterRow) (r float64, ok bool) {
	if len(rows) < 2 {
		return 0, false
	}
	x := make([]float64, len(rows))
	y := make([]float64, len(rows))
	for i, row := range rows {
		x[i] = row.AvgTrainingScore
		y[i] = float64(row.LengthOfService)
	}
	r = stat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, false
	}
	return round2(r), true
}

// FacetCorrelation splits rows by promoted status and correlates each facet.
// Facets without a defined coefficient are omitted.
func FacetCorrelation(rows []ScatterRow) map[string]float64 {
	facets := map[string][]ScatterRow{}
	for _, r := range rows {
		facets[r.Promoted] = append(facets[r.Promoted], r)
	}
	out := make(map[string]float64, len(facets))
	for k, fr := range facets {
		if r, ok := Correlation(fr); ok {
			out[k] = r
		}
	}
	return out
}
