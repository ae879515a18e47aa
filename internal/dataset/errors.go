package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrDataFormat matches every *DataFormatError via errors.Is.
	ErrDataFormat = errors.New("data format error")
	// ErrInvalidSelector matches every *InvalidSelectorError via errors.Is.
	ErrInvalidSelector = errors.New("invalid selector")
)

// DataFormatError reports a source file that cannot become a Table: a missing
// column, an unparseable value, an out-of-domain label or a duplicate id.
type DataFormatError struct {
	Path   string
	Row    int // 1-based data row; 0 for header problems
	Column Field
	Value  string
	Reason string
}

func (e *DataFormatError) Error() string {
	loc := e.Path
	if loc == "" {
		loc = "dataset"
	}
	if e.Row > 0 {
		loc = fmt.Sprintf("%s row %d", loc, e.Row)
	}
	if e.Column != "" {
		loc = fmt.Sprintf("%s column %q", loc, string(e.Column))
	}
	if e.Value != "" {
		return fmt.Sprintf("%s: %s (value %q)", loc, e.Reason, e.Value)
	}
	return fmt.Sprintf("%s: %s", loc, e.Reason)
}

func (e *DataFormatError) Is(target error) bool { return target == ErrDataFormat }

// InvalidSelectorError is returned when an aggregation receives a selector
// value outside its declared domain.
type InvalidSelectorError struct {
	Selector string
	Value    string
}

func (e *InvalidSelectorError) Error() string {
	return fmt.Sprintf("invalid %s selector: %q", e.Selector, e.Value)
}

func (e *InvalidSelectorError) Is(target error) bool { return target == ErrInvalidSelector }
