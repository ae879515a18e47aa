package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// Options controls how the source file is read.
//
// Dates in text sources must be year-first (2006-01-02 or 2006/01/02, with an
// optional time, or RFC 3339). Slash dates such as 03/04/1990 are rejected
// because their day/month order is ambiguous. XLSX date cells are read as
// serial numbers.
type Options struct {
	// Delimiter for delimited text. If 0, '\t' for .tsv and ',' otherwise.
	Delimiter rune
	// Sheet selects the XLSX worksheet by name. Empty means the first sheet.
	Sheet string
}

// Load reads the dataset at path, choosing the reader by file extension.
func Load(path string, opt Options) (*Table, error) {
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return LoadXLSX(path, opt)
	}
	return LoadCSV(path, opt)
}

// LoadCSV reads a delimited text file.
func LoadCSV(path string, opt Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	if opt.Delimiter == 0 {
		opt.Delimiter = sniffDelimiter(path)
	}
	return readCSV(f, path, opt)
}

// ReadCSV reads delimited text from r. Delimiter defaults to ','.
func ReadCSV(r io.Reader, opt Options) (*Table, error) {
	if opt.Delimiter == 0 {
		opt.Delimiter = ','
	}
	return readCSV(r, "", opt)
}

func readCSV(r io.Reader, source string, opt Options) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = opt.Delimiter
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &DataFormatError{Path: source, Reason: "empty file"}
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	dec, err := newRowDecoder(source, header)
	if err != nil {
		return nil, err
	}
	var records []Employee
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &DataFormatError{Path: source, Row: len(records) + 1, Reason: err.Error()}
		}
		e, err := dec.decode(len(records)+1, rec)
		if err != nil {
			return nil, err
		}
		records = append(records, e)
	}
	return newTable(source, records)
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}

// rowDecoder turns raw string rows into Employees using a header index.
type rowDecoder struct {
	source string
	index  map[Field]int
	// dateSerial converts spreadsheet serial numbers; nil for text sources.
	dateSerial func(float64) (time.Time, error)
}

func newRowDecoder(source string, header []string) (*rowDecoder, error) {
	idx := make(map[Field]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		idx[Field(h)] = i
	}
	var missing []string
	for _, c := range Columns {
		if _, ok := idx[c]; !ok {
			missing = append(missing, string(c))
		}
	}
	if len(missing) > 0 {
		return nil, &DataFormatError{Path: source, Reason: "missing required columns: " + strings.Join(missing, ", ")}
	}
	return &rowDecoder{source: source, index: idx}, nil
}

func (d *rowDecoder) decode(row int, rec []string) (Employee, error) {
	var (
		e        Employee
		firstErr error
	)
	get := func(f Field) string {
		i := d.index[f]
		if i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	fail := func(f Field, v, reason string) {
		if firstErr == nil {
			firstErr = &DataFormatError{Path: d.source, Row: row, Column: f, Value: v, Reason: reason}
		}
	}
	integer := func(f Field) int {
		v := get(f)
		n, ok := parseInteger(v)
		if !ok {
			fail(f, v, "not an integer")
		}
		return n
	}
	flag := func(f Field) string {
		v := get(f)
		l, ok := flagDecode[v]
		if !ok {
			fail(f, v, "flag must be 0 or 1")
		}
		return l
	}
	date := func(f Field) time.Time {
		v := get(f)
		t, ok := d.parseDate(v)
		if !ok {
			fail(f, v, "unparseable date")
		}
		return t
	}

	e.EmployeeID = integer(FieldEmployeeID)
	e.Department = get(FieldDepartment)
	e.Region = get(FieldRegion)
	e.Education = get(FieldEducation)
	g := get(FieldGender)
	if l, ok := genderDecode[g]; ok {
		e.Gender = l
	} else {
		fail(FieldGender, g, "gender must be m or f")
	}
	e.RecruitmentChannel = get(FieldRecruitmentChannel)
	e.KPIMet = flag(FieldKPIMet)
	e.AwardsWon = flag(FieldAwardsWon)
	e.Promoted = flag(FieldPromoted)
	e.PreviousYearRating = integer(FieldPreviousRating)
	if v := get(FieldAvgTrainingScore); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			fail(FieldAvgTrainingScore, v, "not a number")
		}
		e.AvgTrainingScore = f
	} else {
		fail(FieldAvgTrainingScore, v, "not a number")
	}
	e.LengthOfService = integer(FieldLengthOfService)
	e.NoOfTrainings = integer(FieldNoOfTrainings)
	e.DateOfBirth = date(FieldDateOfBirth)
	e.JoinDate = date(FieldJoinDate)
	return e, firstErr
}

// parseInteger accepts "3" and integral floats such as "3.0".
func parseInteger(s string) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

var dateLayouts = []string{
	"2006-01-02", time.RFC3339, "2006/01/02", "2006-01-02 15:04:05", "2006-01-02 15:04",
}

func (d *rowDecoder) parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	if d.dateSerial != nil {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			if t, err := d.dateSerial(f); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
