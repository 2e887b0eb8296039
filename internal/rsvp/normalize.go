// Package rsvp turns online RSVP form submissions into per-guest answers and
// reconciles them against the master invite list.
package rsvp

import (
	"database/sql"
	"errors"
	"sort"
	"time"

	"github.com/araddon/dateparse"

	"github.com/AlexTLDR/rsvpsync/internal/sheet"
)

// Column names the submission form always carries.
const (
	ColumnFirstName = "First Name"
	ColumnLastName  = "Last Name"
	ColumnSubmitted = "Submission Date"
)

// Field is one named cell of a submission. A blank cell is not Valid.
type Field struct {
	Column string
	Value  sql.NullString
}

// Submission is a cleaned form submission.
type Submission struct {
	SubmittedAt time.Time
	Fields      []Field
}

// Get returns the named field, or a null value when the column is absent.
func (s Submission) Get(column string) sql.NullString {
	for _, f := range s.Fields {
		if f.Column == column {
			return f.Value
		}
	}
	return sql.NullString{}
}

// FirstName returns the submitter's first name as entered.
func (s Submission) FirstName() sql.NullString {
	return s.Get(ColumnFirstName)
}

// LastName returns the submitter's last name as entered.
func (s Submission) LastName() sql.NullString {
	return s.Get(ColumnLastName)
}

type identity struct {
	first sql.NullString
	last  sql.NullString
}

func (s Submission) key() identity {
	return identity{first: s.FirstName(), last: s.LastName()}
}

// NormalizeOptions controls date interpretation.
type NormalizeOptions struct {
	// Location is used for dates that carry no zone. Nil means UTC.
	Location *time.Location

	// HeaderRow is the sheet row holding the header, used to report row
	// numbers. Zero means row 1.
	HeaderRow int
}

// Normalize cleans raw submissions: blank cells become null, rows without
// any name are dropped, dates are parsed, rows are ordered by submission time
// and only the latest submission per (first name, last name) is kept.
func Normalize(t *sheet.Table, opts NormalizeOptions) ([]Submission, error) {
	for _, col := range []string{ColumnFirstName, ColumnLastName, ColumnSubmitted} {
		if t.ColumnIndex(col) < 0 {
			return nil, missingColumn(col)
		}
	}

	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	headerRow := max(opts.HeaderRow, 1)

	subs := make([]Submission, 0, len(t.Rows))
	for i, row := range t.Rows {
		sub := Submission{Fields: make([]Field, len(t.Columns))}
		for c, col := range t.Columns {
			var v sql.NullString
			if c < len(row) && row[c] != "" {
				v = sql.NullString{String: row[c], Valid: true}
			}
			sub.Fields[c] = Field{Column: col, Value: v}
		}

		if !sub.FirstName().Valid && !sub.LastName().Valid {
			continue
		}

		raw := sub.Get(ColumnSubmitted)
		if !raw.Valid {
			return nil, &DateError{Row: headerRow + 1 + i, Submitter: SubmitterName(sub), Err: errors.New("empty date")}
		}
		ts, err := dateparse.ParseIn(raw.String, loc)
		if err != nil {
			return nil, &DateError{Row: headerRow + 1 + i, Submitter: SubmitterName(sub), Value: raw.String, Err: err}
		}
		sub.SubmittedAt = ts

		subs = append(subs, sub)
	}

	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].SubmittedAt.Before(subs[j].SubmittedAt)
	})

	return Deduplicate(subs), nil
}

// Deduplicate keeps the last submission for each (first name, last name)
// pair. Survivors keep their relative order.
func Deduplicate(subs []Submission) []Submission {
	seen := make(map[identity]bool, len(subs))
	keep := make([]bool, len(subs))
	for i := len(subs) - 1; i >= 0; i-- {
		k := subs[i].key()
		if seen[k] {
			continue
		}
		seen[k] = true
		keep[i] = true
	}

	out := make([]Submission, 0, len(seen))
	for i, sub := range subs {
		if keep[i] {
			out = append(out, sub)
		}
	}
	return out
}
