package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

const rawDateLayout = "2006-01-02"

// EncodeRaw returns e in the source file's raw encoding (0/1 flags, m/f
// gender), one value per entry of Columns.
func EncodeRaw(e Employee) []string {
	out := make([]string, len(Columns))
	for i, c := range Columns {
		switch c {
		case FieldEmployeeID:
			out[i] = strconv.Itoa(e.EmployeeID)
		case FieldGender:
			out[i] = genderEncode[e.Gender]
		case FieldKPIMet:
			out[i] = flagEncode[e.KPIMet]
		case FieldAwardsWon:
			out[i] = flagEncode[e.AwardsWon]
		case FieldPromoted:
			out[i] = flagEncode[e.Promoted]
		case FieldNoOfTrainings:
			out[i] = strconv.Itoa(e.NoOfTrainings)
		case FieldPreviousRating:
			out[i] = strconv.Itoa(e.PreviousYearRating)
		case FieldLengthOfService:
			out[i] = strconv.Itoa(e.LengthOfService)
		case FieldAvgTrainingScore:
			out[i] = strconv.FormatFloat(e.AvgTrainingScore, 'f', -1, 64)
		case FieldDateOfBirth:
			out[i] = e.DateOfBirth.Format(rawDateLayout)
		case FieldJoinDate:
			out[i] = e.JoinDate.Format(rawDateLayout)
		default:
			out[i], _ = e.Label(c)
		}
	}
	return out
}

// WriteCSV writes the table in raw encoding with a Columns header. Reading the
// output back with ReadCSV yields an equal table.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	header := make([]string, len(Columns))
	for i, c := range Columns {
		header[i] = string(c)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	var werr error
	t.Each(func(e Employee) bool {
		werr = cw.Write(EncodeRaw(e))
		return werr == nil
	})
	if werr != nil {
		return fmt.Errorf("write row: %w", werr)
	}
	cw.Flush()
	return cw.Error()
}
