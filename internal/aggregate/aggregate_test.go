package aggregate

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/KaramelBytes/promodash/internal/dataset"
)

type row struct {
	dept, edu, gender, kpi, promoted string
	rating, service                  int
	score                            float64
}

func buildTable(t *testing.T, rows []row) *dataset.Table {
	t.Helper()
	recs := make([]dataset.Employee, len(rows))
	for i, r := range rows {
		recs[i] = dataset.Employee{
			EmployeeID:         i + 1,
			Department:         r.dept,
			Region:             "region_1",
			Education:          r.edu,
			Gender:             r.gender,
			RecruitmentChannel: "other",
			KPIMet:             r.kpi,
			AwardsWon:          dataset.No,
			Promoted:           r.promoted,
			PreviousYearRating: r.rating,
			AvgTrainingScore:   r.score,
			LengthOfService:    r.service,
			NoOfTrainings:      1,
			DateOfBirth:        time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
			JoinDate:           time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC),
		}
	}
	tbl, err := dataset.NewTable(recs)
	if err != nil {
		t.Fatalf("new table: %v", err)
	}
	return tbl
}

const (
	bach = "Bachelor's"
	mast = "Master's & above"
)

// ten employees, four promoted: two Finance, one Sales & Marketing, one Technology
func tenEmployees(t *testing.T) *dataset.Table {
	return buildTable(t, []row{
		{"Technology", bach, dataset.Male, dataset.Yes, dataset.Yes, 4, 3, 80},
		{"Finance", bach, dataset.Female, dataset.Yes, dataset.Yes, 3, 5, 60},
		{"Operations", bach, dataset.Male, dataset.No, dataset.No, 2, 7, 55},
		{"Sales & Marketing", mast, dataset.Male, dataset.No, dataset.Yes, 5, 2, 50},
		{"Finance", bach, dataset.Male, dataset.No, dataset.No, 3, 9, 58},
		{"Finance", mast, dataset.Female, dataset.Yes, dataset.Yes, 4, 4, 70},
		{"Analytics", bach, dataset.Male, dataset.No, dataset.No, 1, 1, 85},
		{"Legal", bach, dataset.Female, dataset.No, dataset.No, 3, 6, 59},
		{"Operations", mast, dataset.Female, dataset.Yes, dataset.No, 5, 11, 62},
		{"Procurement", bach, dataset.Male, dataset.No, dataset.No, 2, 3, 68},
	})
}

func TestComputeRate_Department(t *testing.T) {
	got, err := ComputeRate(tenEmployees(t), dataset.FieldDepartment)
	if err != nil {
		t.Fatalf("rate: %v", err)
	}
	want := []RateRow{{"Finance", 0.5}, {"Sales & Marketing", 0.25}, {"Technology", 0.25}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestComputeRate_SharesSumToOne(t *testing.T) {
	tbl := tenEmployees(t)
	for _, f := range dataset.RateFields {
		rows, err := ComputeRate(tbl, f)
		if err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		sum := 0.0
		for _, r := range rows {
			sum += r.Share
		}
		if math.Abs(sum-1) > 0.01+1e-9 {
			t.Fatalf("%s: shares sum to %v", f, sum)
		}
	}
}

func TestComputeRate_NobodyPromoted(t *testing.T) {
	tbl := buildTable(t, []row{
		{"Finance", bach, dataset.Male, dataset.No, dataset.No, 3, 2, 60},
		{"HR", mast, dataset.Female, dataset.Yes, dataset.No, 4, 3, 61},
	})
	rows, err := ComputeRate(tbl, dataset.FieldGender)
	if err != nil {
		t.Fatalf("rate: %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", rows)
	}
}

func TestComputeRate_InvalidField(t *testing.T) {
	_, err := ComputeRate(tenEmployees(t), dataset.FieldEducation)
	if !errors.Is(err, dataset.ErrInvalidSelector) {
		t.Fatalf("expected invalid selector, got %v", err)
	}
}

func TestComputeDensity_Finance(t *testing.T) {
	tbl := buildTable(t, []row{
		{"Finance", bach, dataset.Male, dataset.No, dataset.No, 3, 2, 60},
		{"Technology", bach, dataset.Male, dataset.No, dataset.No, 3, 2, 60},
		{"Finance", bach, dataset.Female, dataset.Yes, dataset.Yes, 3, 4, 65},
		{"Finance", mast, dataset.Male, dataset.No, dataset.No, 4, 6, 70},
	})
	got, err := ComputeDensity(tbl, "Finance")
	if err != nil {
		t.Fatalf("density: %v", err)
	}
	want := Density{{3, bach}: 2, {4, mast}: 1}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	cells := got.Cells()
	if len(cells) != 2 || cells[0].Rating != 3 || cells[1].Count != 1 {
		t.Fatalf("cells = %+v", cells)
	}
}

func TestDepartmentWithoutRows(t *testing.T) {
	tbl := tenEmployees(t)
	d, err := ComputeDensity(tbl, "HR")
	if err != nil || len(d) != 0 {
		t.Fatalf("density = %v, %v", d, err)
	}
	s, err := ComputeScatterRows(tbl, "HR")
	if err != nil || s == nil || len(s) != 0 {
		t.Fatalf("scatter = %#v, %v", s, err)
	}
}

func TestDepartmentInvalid(t *testing.T) {
	tbl := tenEmployees(t)
	if _, err := ComputeDensity(tbl, "Procurements"); !errors.Is(err, dataset.ErrInvalidSelector) {
		t.Fatalf("density: expected invalid selector, got %v", err)
	}
	var ise *dataset.InvalidSelectorError
	if _, err := ComputeScatterRows(tbl, ""); !errors.As(err, &ise) || ise.Selector != "department" {
		t.Fatalf("scatter: expected department selector error, got %v", err)
	}
}

func TestComputeScatterRows_PreservesOrder(t *testing.T) {
	rows, err := ComputeScatterRows(tenEmployees(t), "Finance")
	if err != nil {
		t.Fatalf("scatter: %v", err)
	}
	want := []ScatterRow{
		{AvgTrainingScore: 60, LengthOfService: 5, Promoted: dataset.Yes, KPIMet: dataset.Yes, NoOfTrainings: 1, EmployeeID: 2},
		{AvgTrainingScore: 58, LengthOfService: 9, Promoted: dataset.No, KPIMet: dataset.No, NoOfTrainings: 1, EmployeeID: 5},
		{AvgTrainingScore: 70, LengthOfService: 4, Promoted: dataset.Yes, KPIMet: dataset.Yes, NoOfTrainings: 1, EmployeeID: 6},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("got %+v", rows)
	}
}

func TestAggregationsAreIdempotent(t *testing.T) {
	tbl := tenEmployees(t)
	r1, _ := ComputeRate(tbl, dataset.FieldGender)
	r2, _ := ComputeRate(tbl, dataset.FieldGender)
	d1, _ := ComputeDensity(tbl, "Operations")
	d2, _ := ComputeDensity(tbl, "Operations")
	s1, _ := ComputeScatterRows(tbl, "Operations")
	s2, _ := ComputeScatterRows(tbl, "Operations")
	if !reflect.DeepEqual(r1, r2) || !reflect.DeepEqual(d1, d2) || !reflect.DeepEqual(s1, s2) {
		t.Fatal("repeated calls disagree")
	}
}

func TestSummarize(t *testing.T) {
	s, err := Summarize(tenEmployees(t))
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if s.Employees != 10 || s.Promoted != 4 || s.PromotionRate != 0.4 {
		t.Fatalf("summary = %+v", s)
	}
	// scores sorted: 50 55 58 59 60 62 68 70 80 85
	if s.MeanTrainingScore != 64.7 || s.MedianTrainingScore != 61 {
		t.Fatalf("training score stats = %+v", s)
	}
	empty, err := Summarize(buildTable(t, nil))
	if err != nil || empty.Employees != 0 {
		t.Fatalf("empty summary = %+v, %v", empty, err)
	}
}

func TestCorrelation(t *testing.T) {
	rows := []ScatterRow{
		{AvgTrainingScore: 1, LengthOfService: 2, Promoted: dataset.Yes},
		{AvgTrainingScore: 2, LengthOfService: 4, Promoted: dataset.Yes},
		{AvgTrainingScore: 3, LengthOfService: 6, Promoted: dataset.No},
		{AvgTrainingScore: 4, LengthOfService: 3, Promoted: dataset.No},
	}
	if r, ok := Correlation(rows[:3]); !ok || r != 1 {
		t.Fatalf("r = %v ok=%v", r, ok)
	}
	if _, ok := Correlation(rows[:1]); ok {
		t.Fatal("single row should not correlate")
	}
	flat := []ScatterRow{{AvgTrainingScore: 5, LengthOfService: 1}, {AvgTrainingScore: 5, LengthOfService: 2}}
	if _, ok := Correlation(flat); ok {
		t.Fatal("constant variable should not correlate")
	}
	f := FacetCorrelation(rows)
	if f[dataset.Yes] != 1 || f[dataset.No] != -1 {
		t.Fatalf("facets = %v", f)
	}
}
