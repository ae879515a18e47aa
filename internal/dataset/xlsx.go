package dataset

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// LoadXLSX reads the dataset from a worksheet of an .xlsx workbook. The first
// row must hold the column names.
func LoadXLSX(path string, opt Options) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &DataFormatError{Path: path, Reason: "workbook has no sheets"}
	}
	sheet := sheets[0]
	if opt.Sheet != "" {
		sheet = ""
		for _, s := range sheets {
			if strings.EqualFold(s, opt.Sheet) {
				sheet = s
				break
			}
		}
		if sheet == "" {
			return nil, fmt.Errorf("sheet '%s' not found in workbook '%s'.\nAvailable sheets: %s",
				opt.Sheet, filepath.Base(path), strings.Join(sheets, ", "))
		}
	}

	// Raw values keep date cells as serial numbers instead of their
	// display format.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, &DataFormatError{Path: path, Reason: "empty sheet"}
	}
	dec, err := newRowDecoder(path, rows[0])
	if err != nil {
		return nil, err
	}
	dec.dateSerial = func(serial float64) (time.Time, error) {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, err
		}
		return t.Round(time.Second).UTC(), nil
	}

	records := make([]Employee, 0, len(rows)-1)
	for i, r := range rows[1:] {
		if isBlankRow(r) {
			continue
		}
		e, err := dec.decode(i+1, r)
		if err != nil {
			return nil, err
		}
		records = append(records, e)
	}
	return newTable(path, records)
}

// isBlankRow reports rows that were formatted but never filled in.
func isBlankRow(r []string) bool {
	for _, c := range r {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
