package rsvp

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingColumn indicates a required header is absent from a table.
	ErrMissingColumn = errors.New("missing column")

	// ErrInvalidDate indicates a submission date that could not be parsed.
	ErrInvalidDate = errors.New("invalid submission date")
)

// DateError reports the submission whose date could not be parsed. Row is
// the row number on the sheet.
type DateError struct {
	Row       int
	Submitter string
	Value     string
	Err       error
}

func (e *DateError) Error() string {
	return fmt.Sprintf("row %d (%s): cannot parse submission date %q: %v", e.Row, e.Submitter, e.Value, e.Err)
}

func (e *DateError) Is(target error) bool {
	return target == ErrInvalidDate
}

func (e *DateError) Unwrap() error {
	return e.Err
}

func missingColumn(name string) error {
	return fmt.Errorf("%w: %q", ErrMissingColumn, name)
}
