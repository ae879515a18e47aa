package dataset

import (
	"fmt"
	"strconv"
	"time"
)

// Employee is one row of the promotion dataset with display labels applied.
type Employee struct {
	EmployeeID         int
	Department         string
	Region             string
	Education          string
	Gender             string
	RecruitmentChannel string
	KPIMet             string
	AwardsWon          string
	Promoted           string
	PreviousYearRating int
	AvgTrainingScore   float64
	LengthOfService    int
	NoOfTrainings      int
	DateOfBirth        time.Time
	JoinDate           time.Time
}

// Label returns the display label of a categorical field.
func (e Employee) Label(f Field) (string, bool) {
	switch f {
	case FieldDepartment:
		return e.Department, true
	case FieldRegion:
		return e.Region, true
	case FieldEducation:
		return e.Education, true
	case FieldGender:
		return e.Gender, true
	case FieldRecruitmentChannel:
		return e.RecruitmentChannel, true
	case FieldKPIMet:
		return e.KPIMet, true
	case FieldAwardsWon:
		return e.AwardsWon, true
	case FieldPromoted:
		return e.Promoted, true
	}
	return "", false
}

// IsPromoted reports whether the promoted flag is Yes.
func (e Employee) IsPromoted() bool { return e.Promoted == Yes }

// Table is the loaded dataset. It is built once and never mutated, so any
// number of goroutines may read it without locking.
type Table struct {
	source  string
	records []Employee
}

// NewTable validates records and returns a Table holding a private copy.
func NewTable(records []Employee) (*Table, error) {
	return newTable("", records)
}

func newTable(source string, records []Employee) (*Table, error) {
	cp := make([]Employee, len(records))
	copy(cp, records)
	seen := make(map[int]int, len(cp))
	fields := categoricalFields()
	for i, e := range cp {
		row := i + 1
		if prev, dup := seen[e.EmployeeID]; dup {
			return nil, &DataFormatError{Path: source, Row: row, Column: FieldEmployeeID,
				Value: strconv.Itoa(e.EmployeeID), Reason: fmt.Sprintf("duplicate employee id (first seen on row %d)", prev)}
		}
		seen[e.EmployeeID] = row
		for _, f := range fields {
			v, _ := e.Label(f)
			if !labelSets[f].Contains(v) {
				return nil, &DataFormatError{Path: source, Row: row, Column: f, Value: v, Reason: "label outside declared set"}
			}
		}
		if err := checkNonNegative(source, row, e); err != nil {
			return nil, err
		}
	}
	return &Table{source: source, records: cp}, nil
}

func checkNonNegative(source string, row int, e Employee) error {
	bad := func(f Field, v string) error {
		return &DataFormatError{Path: source, Row: row, Column: f, Value: v, Reason: "negative value"}
	}
	switch {
	case e.EmployeeID < 0:
		return bad(FieldEmployeeID, strconv.Itoa(e.EmployeeID))
	case e.PreviousYearRating < 0:
		return bad(FieldPreviousRating, strconv.Itoa(e.PreviousYearRating))
	case e.AvgTrainingScore < 0:
		return bad(FieldAvgTrainingScore, strconv.FormatFloat(e.AvgTrainingScore, 'g', -1, 64))
	case e.LengthOfService < 0:
		return bad(FieldLengthOfService, strconv.Itoa(e.LengthOfService))
	case e.NoOfTrainings < 0:
		return bad(FieldNoOfTrainings, strconv.Itoa(e.NoOfTrainings))
	}
	return nil
}

// Source returns the path the table was loaded from, if any.
func (t *Table) Source() string { return t.source }

// Len returns the number of employees.
func (t *Table) Len() int { return len(t.records) }

// At returns a copy of the i-th employee in load order.
func (t *Table) At(i int) Employee { return t.records[i] }

// Each calls fn for every employee in load order until fn returns false.
func (t *Table) Each(fn func(Employee) bool) {
	for _, e := range t.records {
		if !fn(e) {
			return
		}
	}
}
