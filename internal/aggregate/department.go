package aggregate

import (
	"sort"

	"github.com/KaramelBytes/promodash/internal/dataset"
)

// DensityKey addresses one heatmap cell.
type DensityKey struct {
	Rating    int
	Education string
}

// Density counts employees per (previous_year_rating, education). Absent keys
// are zero.
type Density map[DensityKey]int

// DensityCell is a Density entry in serialisable form.
type DensityCell struct {
	Rating    int    `json:"rating"`
	Education string `json:"education"`
	Count     int    `json:"count"`
}

// Cells returns the non-zero cells ordered by rating then education.
func (d Density) Cells() []DensityCell {
	out := make([]DensityCell, 0, len(d))
	for k, n := range d {
		out = append(out, DensityCell{Rating: k.Rating, Education: k.Education, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating < out[j].Rating
		}
		return out[i].Education < out[j].Education
	})
	return out
}

// ScatterRow is the per-employee projection plotted in the scatter chart.
type ScatterRow struct {
	AvgTrainingScore float64 `json:"avg_training_score"`
	LengthOfService  int     `json:"length_of_service"`
	Promoted         string  `json:"is_promoted"`
	KPIMet           string  `json:"kpi_met"`
	NoOfTrainings    int     `json:"no_of_trainings"`
	EmployeeID       int     `json:"employee_id"`
}

func checkDepartment(department string) error {
	if !dataset.IsDepartment(department) {
		return &dataset.InvalidSelectorError{Selector: "department", Value: department}
	}
	return nil
}

// ComputeDensity counts the department's employees by previous-year rating
// and education.
func ComputeDensity(t *dataset.Table, department string) (Density, error) {
	if err := checkDepartment(department); err != nil {
		return nil, err
	}
	d := make(Density)
	t.Each(func(e dataset.Employee) bool {
		if e.Department == department {
			d[DensityKey{Rating: e.PreviousYearRating, Education: e.Education}]++
		}
		return true
	})
	return d, nil
}

// ComputeScatterRows projects the department's employees in load order.
func ComputeScatterRows(t *dataset.Table, department string) ([]ScatterRow, error) {
	if err := checkDepartment(department); err != nil {
		return nil, err
	}
	rows := make([]ScatterRow, 0)
	t.Each(func(e dataset.Employee) bool {
		if e.Department != department {
			return true
		}
		rows = append(rows, ScatterRow{
			AvgTrainingScore: e.AvgTrainingScore,
			LengthOfService:  e.LengthOfService,
			Promoted:         e.Promoted,
			KPIMet:           e.KPIMet,
			NoOfTrainings:    e.NoOfTrainings,
			EmployeeID:       e.EmployeeID,
		})
		return true
	})
	return rows, nil
}
