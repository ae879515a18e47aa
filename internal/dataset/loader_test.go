package dataset

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

const header = "employee_id,department,region,education,gender,recruitment_channel,no_of_trainings,date_of_birth,previous_year_rating,length_of_service,KPIs_met >80%,awards_won?,avg_training_score,is_promoted,join_date"

var promotionRows = []string{
	header,
	"65438,Sales & Marketing,region_7,Master's & above,f,sourcing,1,1986-03-12,5,8,1,0,49,0,2012-05-01",
	"65141,Operations,region_22,Bachelor's,m,other,1,1990-07-01,5,4,0,0,60,0,2016-02-11",
	"7513,Sales & Marketing,region_19,Bachelor's,m,sourcing,1,1985-11-23,3.0,7,0,0,50,1,2013-09-30",
	"2542,Finance,region_23,Bachelor's,m,other,2,1983-01-15,1,10,0,0,73,1,2010-06-18",
	"48945,Technology,region_26,Bachelor's,f,referred,1,1975-04-04,3,2,0,1,85.5,1,2018-01-08",
}

func writeFile(t *testing.T, name string, lines []string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestLoadCSV_MapsLabels(t *testing.T) {
	tbl, err := Load(writeFile(t, "promotion.csv", promotionRows), Options{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tbl.Len() != 5 {
		t.Fatalf("rows = %d, want 5", tbl.Len())
	}
	e := tbl.At(0)
	if e.Gender != Female || e.KPIMet != Yes || e.AwardsWon != No || e.Promoted != No {
		t.Fatalf("unexpected labels: %+v", e)
	}
	if got := e.DateOfBirth.Format("2006-01-02"); got != "1986-03-12" {
		t.Fatalf("date_of_birth = %s", got)
	}
	if third := tbl.At(2); third.PreviousYearRating != 3 || !third.IsPromoted() {
		t.Fatalf("row 3 = %+v", third)
	}
	if tbl.At(4).AvgTrainingScore != 85.5 {
		t.Fatalf("avg_training_score = %v", tbl.At(4).AvgTrainingScore)
	}
}

func TestLoadCSV_TSVAndColumnOrder(t *testing.T) {
	var lines []string
	for _, r := range promotionRows {
		cells := strings.Split(r, ",")
		// move employee_id to the end
		cells = append(cells[1:], cells[0])
		lines = append(lines, strings.Join(cells, "\t"))
	}
	tbl, err := Load(writeFile(t, "promotion.tsv", lines), Options{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tbl.At(1).EmployeeID != 65141 {
		t.Fatalf("employee_id = %d", tbl.At(1).EmployeeID)
	}
}

func TestLoadCSV_Errors(t *testing.T) {
	replace := func(row int, old, repl string) []string {
		out := append([]string(nil), promotionRows...)
		out[row] = strings.Replace(out[row], old, repl, 1)
		return out
	}
	cases := []struct {
		name   string
		lines  []string
		column Field
	}{
		{"missing column", replace(0, ",join_date", ",hired"), ""},
		{"bad date", replace(2, "1990-07-01", "07/31/90x"), FieldDateOfBirth},
		{"day-month ambiguous date", replace(2, "1990-07-01", "03/04/1990"), FieldDateOfBirth},
		{"serial date in text", replace(2, "1990-07-01", "33055"), FieldDateOfBirth},
		{"bad department", replace(1, "Sales & Marketing", "Marketing"), FieldDepartment},
		{"bad gender", replace(1, ",f,", ",x,"), FieldGender},
		{"bad flag", replace(4, ",0,0,73,1,", ",0,2,73,1,"), FieldAwardsWon},
		{"negative service", replace(4, ",1,10,", ",1,-10,"), FieldLengthOfService},
		{"fractional rating", replace(3, ",3.0,", ",3.5,"), FieldPreviousRating},
		{"duplicate id", replace(2, "65141", "65438"), FieldEmployeeID},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "bad.csv", tc.lines), Options{})
			if !errors.Is(err, ErrDataFormat) {
				t.Fatalf("expected data format error, got %v", err)
			}
			var dfe *DataFormatError
			if !errors.As(err, &dfe) {
				t.Fatalf("expected *DataFormatError, got %T", err)
			}
			if dfe.Column != tc.column {
				t.Fatalf("column = %q, want %q (%v)", dfe.Column, tc.column, err)
			}
		})
	}
}

func TestLoadCSV_Empty(t *testing.T) {
	p := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(p, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(p, Options{}); !errors.Is(err, ErrDataFormat) {
		t.Fatalf("expected data format error, got %v", err)
	}
}

func TestRoundTripRawEncoding(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader(strings.Join(promotionRows, "\n")), Options{})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, tbl); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	// original gender and flag encodings must come back unchanged
	for i, l := range lines[1:] {
		got := strings.Split(l, ",")
		want := strings.Split(promotionRows[i+1], ",")
		for _, c := range []Field{FieldGender, FieldKPIMet, FieldAwardsWon, FieldPromoted} {
			ci := columnIndex(c)
			if got[ci] != want[ci] {
				t.Fatalf("row %d %s: got %q want %q", i+1, c, got[ci], want[ci])
			}
		}
	}
	again, err := ReadCSV(&buf, Options{})
	if err != nil {
		t.Fatalf("reread: %v", err)
	}
	for i := 0; i < tbl.Len(); i++ {
		if !reflect.DeepEqual(tbl.At(i), again.At(i)) {
			t.Fatalf("row %d differs: %+v vs %+v", i, tbl.At(i), again.At(i))
		}
	}
}

func columnIndex(f Field) int {
	for i, c := range Columns {
		if c == f {
			return i
		}
	}
	return -1
}

func TestLoadXLSX_MatchesCSV(t *testing.T) {
	dir := t.TempDir()
	x := excelize.NewFile()
	defer x.Close()
	sheet := "promotion"
	if err := x.SetSheetName("Sheet1", sheet); err != nil {
		t.Fatalf("rename sheet: %v", err)
	}
	for i, r := range promotionRows {
		cells := strings.Split(r, ",")
		vals := make([]interface{}, len(cells))
		for j, c := range cells {
			vals[j] = c
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := x.SetSheetRow(sheet, cell, &vals); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	xp := filepath.Join(dir, "promotion.xlsx")
	if err := x.SaveAs(xp); err != nil {
		t.Fatalf("save: %v", err)
	}

	fromX, err := Load(xp, Options{Sheet: "PROMOTION"})
	if err != nil {
		t.Fatalf("load xlsx: %v", err)
	}
	fromCSV, err := Load(writeFile(t, "promotion.csv", promotionRows), Options{})
	if err != nil {
		t.Fatalf("load csv: %v", err)
	}
	if fromX.Len() != fromCSV.Len() {
		t.Fatalf("len %d vs %d", fromX.Len(), fromCSV.Len())
	}
	for i := 0; i < fromX.Len(); i++ {
		if !reflect.DeepEqual(fromX.At(i), fromCSV.At(i)) {
			t.Fatalf("row %d differs: %+v vs %+v", i, fromX.At(i), fromCSV.At(i))
		}
	}

	if _, err := Load(xp, Options{Sheet: "missing"}); err == nil || !strings.Contains(err.Error(), "Available sheets: promotion") {
		t.Fatalf("expected missing sheet error, got %v", err)
	}
}

// typedCell converts a fixture cell into the value a spreadsheet author
// would store: real dates for date columns, numbers for numeric columns.
func typedCell(t *testing.T, col Field, raw string) interface{} {
	t.Helper()
	switch col {
	case FieldDateOfBirth, FieldJoinDate:
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			t.Fatalf("fixture date %q: %v", raw, err)
		}
		return d
	case FieldEmployeeID, FieldNoOfTrainings, FieldPreviousRating, FieldLengthOfService,
		FieldKPIMet, FieldAwardsWon, FieldPromoted, FieldAvgTrainingScore:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			t.Fatalf("fixture number %q: %v", raw, err)
		}
		return f
	}
	return raw
}

func TestLoadXLSX_DateAndNumberCells(t *testing.T) {
	x := excelize.NewFile()
	defer x.Close()
	headerCells := strings.Split(promotionRows[0], ",")
	for i, r := range promotionRows {
		for j, c := range strings.Split(r, ",") {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+1)
			var v interface{} = c
			if i > 0 {
				v = typedCell(t, Field(headerCells[j]), c)
			}
			if err := x.SetCellValue("Sheet1", cell, v); err != nil {
				t.Fatalf("set %s: %v", cell, err)
			}
		}
	}
	xp := filepath.Join(t.TempDir(), "typed.xlsx")
	if err := x.SaveAs(xp); err != nil {
		t.Fatalf("save: %v", err)
	}

	fromX, err := Load(xp, Options{})
	if err != nil {
		t.Fatalf("load xlsx with date cells: %v", err)
	}
	fromCSV, err := ReadCSV(strings.NewReader(strings.Join(promotionRows, "\n")), Options{})
	if err != nil {
		t.Fatalf("load csv: %v", err)
	}
	if fromX.Len() != fromCSV.Len() {
		t.Fatalf("len %d vs %d", fromX.Len(), fromCSV.Len())
	}
	for i := 0; i < fromX.Len(); i++ {
		if !reflect.DeepEqual(fromX.At(i), fromCSV.At(i)) {
			t.Fatalf("row %d differs: %+v vs %+v", i, fromX.At(i), fromCSV.At(i))
		}
	}
	if got := fromX.At(0).DateOfBirth; !got.Equal(time.Date(1986, 3, 12, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("date_of_birth = %v", got)
	}
}

func TestNewTable_CopiesInput(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader(strings.Join(promotionRows, "\n")), Options{})
	if err != nil {
		t.Fatal(err)
	}
	recs := make([]Employee, 0, tbl.Len())
	tbl.Each(func(e Employee) bool {
		recs = append(recs, e)
		return true
	})
	cp, err := NewTable(recs)
	if err != nil {
		t.Fatal(err)
	}
	recs[0].Department = "Legal"
	if cp.At(0).Department != "Sales & Marketing" {
		t.Fatalf("table aliased caller slice")
	}
}

func TestLabelSets(t *testing.T) {
	if !IsDepartment("R&D") || IsDepartment("Procurements") {
		t.Fatal("department label set mismatch")
	}
	if !Labels(FieldRegion).Contains("region_34") || Labels(FieldRegion).Contains("region_35") {
		t.Fatal("region label set mismatch")
	}
	if IsRateField(FieldEducation) || !IsRateField(FieldKPIMet) {
		t.Fatal("rate field domain mismatch")
	}
	if Labels(FieldAvgTrainingScore) != nil {
		t.Fatal("numeric field should have no label set")
	}
}
