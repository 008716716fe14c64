package csvutil

import (
	"errors"
	"fmt"
)

// ErrTooManyRows is returned when a file has more data rows than allowed.
var ErrTooManyRows = errors.New("CSV file exceeds the maximum number of rows")

// RowError describes why one line of the file was rejected.
// Line is the 1-based line number in the file; 0 means the whole file.
type RowError struct {
	Line   int      `json:"line"`
	Reason string   `json:"reason"`
	Raw    []string `json:"-"`
}

func (e RowError) Error() string {
	if e.Line == 0 {
		return e.Reason
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// Message is the one-line summary sent with a rejected file.
func Message(errs []RowError) string {
	if len(errs) == 1 {
		return "CSV file contains 1 error. Nothing was imported."
	}
	return fmt.Sprintf("CSV file contains %d errors. Nothing was imported.", len(errs))
}
