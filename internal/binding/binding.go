// Package binding connects selector changes to the aggregations they drive.
//
// A Registry maps each event source to a pure handler. A Session holds one
// user's selection state and the view derived from it, and commits every
// handler result as a single step so the heatmap and scatter plot always
// describe the same department.
package binding

import (
	"errors"
	"fmt"

	"github.com/KaramelBytes/promodash/internal/aggregate"
	"github.com/KaramelBytes/promodash/internal/dataset"
)

// Source identifies the UI control an event came from.
type Source string

const (
	SourceCategory   Source = "category-selector"
	SourceDepartment Source = "department-selector"
)

// ErrUnknownSource is returned for events no handler is registered for.
var ErrUnknownSource = errors.New("unknown event source")

// Event is one selector change.
type Event struct {
	Source Source `json:"source"`
	Value  string `json:"value"`
}

// Selection is the current value of every selector.
type Selection struct {
	Category   dataset.Field `json:"category"`
	Department string        `json:"department"`
}

// RateView is the bar chart dataset.
type RateView struct {
	Field dataset.Field       `json:"field"`
	Rows  []aggregate.RateRow `json:"rows"`
}

// DepartmentView pairs the heatmap and scatter datasets of one department.
type DepartmentView struct {
	Department       string                  `json:"department"`
	Density          []aggregate.DensityCell `json:"density"`
	Scatter          []aggregate.ScatterRow  `json:"scatter"`
	Correlation      *float64                `json:"correlation,omitempty"`
	FacetCorrelation map[string]float64      `json:"facet_correlation,omitempty"`
}

// Update is what a handler produces. Exactly one field is set.
type Update struct {
	Rate       *RateView
	Department *DepartmentView
}

// Handler recomputes the data behind one selector.
type Handler func(t *dataset.Table, value string) (Update, error)

// Registry maps event sources to handlers over a shared, read-only table.
type Registry struct {
	table    *dataset.Table
	handlers map[Source]Handler
}

// NewRegistry returns a registry with the category and department handlers
// installed.
func NewRegistry(t *dataset.Table) *Registry {
	r := &Registry{table: t, handlers: make(map[Source]Handler)}
	r.Register(SourceCategory, RateHandler)
	r.Register(SourceDepartment, DepartmentHandler)
	return r
}

// Register installs or replaces the handler for src. Call it before the
// registry is shared.
func (r *Registry) Register(src Source, h Handler) {
	r.handlers[src] = h
}

// Table returns the table handlers read from.
func (r *Registry) Table() *dataset.Table { return r.table }

// Handle runs the handler for ev without touching any session.
func (r *Registry) Handle(ev Event) (Update, error) {
	h, ok := r.handlers[ev.Source]
	if !ok {
		return Update{}, fmt.Errorf("%w: %q", ErrUnknownSource, ev.Source)
	}
	return h(r.table, ev.Value)
}

// RateHandler recomputes the promotion-rate bars for a category field.
func RateHandler(t *dataset.Table, value string) (Update, error) {
	f := dataset.Field(value)
	rows, err := aggregate.ComputeRate(t, f)
	if err != nil {
		return Update{}, err
	}
	return Update{Rate: &RateView{Field: f, Rows: rows}}, nil
}

// DepartmentHandler recomputes the heatmap and scatter datasets together.
func DepartmentHandler(t *dataset.Table, value string) (Update, error) {
	density, err := aggregate.ComputeDensity(t, value)
	if err != nil {
		return Update{}, err
	}
	scatter, err := aggregate.ComputeScatterRows(t, value)
	if err != nil {
		return Update{}, err
	}
	dv := &DepartmentView{
		Department:       value,
		Density:          density.Cells(),
		Scatter:          scatter,
		FacetCorrelation: aggregate.FacetCorrelation(scatter),
	}
	if r, ok := aggregate.Correlation(scatter); ok {
		dv.Correlation = &r
	}
	return Update{Department: dv}, nil
}
