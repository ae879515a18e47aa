package server

import (
	"fmt"

	"github.com/KaramelBytes/promodash/internal/binding"
	"github.com/KaramelBytes/promodash/internal/dataset"
)

// chartMeta carries the labels a chart is drawn with.
type chartMeta struct {
	Title  string            `json:"title"`
	Labels map[string]string `json:"labels"`
}

type charts struct {
	Bar     chartMeta `json:"bar"`
	Heatmap chartMeta `json:"heatmap"`
	Scatter chartMeta `json:"scatter"`
}

// viewResponse is a session view plus the chart labels derived from it.
type viewResponse struct {
	binding.View
	Charts charts `json:"charts"`
}

type option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

func fieldTitle(f dataset.Field) string {
	if ls := dataset.Labels(f); ls != nil {
		return ls.Title
	}
	return string(f)
}

func categoryOptions() []option {
	out := make([]option, 0, len(dataset.RateFields))
	for _, f := range dataset.RateFields {
		out = append(out, option{Label: fieldTitle(f), Value: string(f)})
	}
	return out
}

func departmentOptions() []option {
	deps := dataset.Departments()
	out := make([]option, 0, len(deps))
	for _, d := range deps {
		out = append(out, option{Label: d, Value: d})
	}
	return out
}

func newViewResponse(v binding.View) viewResponse {
	resp := viewResponse{View: v}
	if v.Rate != nil {
		title := fieldTitle(v.Rate.Field)
		resp.Charts.Bar = chartMeta{
			Title:  fmt.Sprintf("Which %s has the highest promotion rate?", title),
			Labels: map[string]string{"label": title, "share": "Percentage"},
		}
	}
	resp.Charts.Heatmap = chartMeta{
		Title:  "Number of Employee by Previous Rating and Education",
		Labels: map[string]string{"rating": "Previous Year Rating", "education": "Education"},
	}
	scatterTitle := "Correlation between Avg Training Score and Length of Service"
	if v.Department != nil && v.Department.Correlation != nil {
		scatterTitle = fmt.Sprintf("%s (r = %.2f)", scatterTitle, *v.Department.Correlation)
	}
	resp.Charts.Scatter = chartMeta{
		Title: scatterTitle,
		Labels: map[string]string{
			"avg_training_score": "Average Training Score",
			"length_of_service":  "Length of Service",
			"kpi_met":            "KPIs met >80%?",
			"no_of_trainings":    "No. of Trainings",
			"is_promoted":        "Promoted Status",
		},
	}
	return resp
}
