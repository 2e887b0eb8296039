package rsvp

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/AlexTLDR/rsvpsync/internal/sheet"
)

// Roster header names.
const (
	RosterFirst = "First"
	RosterLast  = "Last"
)

// RosterEntry is one line of the invite list. First and Last are kept as
// displayed; Cell is where this entry's answer is written.
type RosterEntry struct {
	First string
	Last  string
	Cell  sheet.CellRef

	first string
	last  string
}

// Roster is the invite list indexed for case-insensitive name lookups.
type Roster struct {
	entries []RosterEntry
}

// NewRoster reads the invite list from t, whose header row sits at start.
// Answers go into answerColumn (zero-based) on each entry's own row.
func NewRoster(t *sheet.Table, start sheet.CellRef, answerColumn int) (*Roster, error) {
	fi, li := t.ColumnIndex(RosterFirst), t.ColumnIndex(RosterLast)
	if fi < 0 {
		return nil, missingColumn(RosterFirst)
	}
	if li < 0 {
		return nil, missingColumn(RosterLast)
	}

	r := &Roster{entries: make([]RosterEntry, 0, len(t.Rows))}
	for i, row := range t.Rows {
		r.entries = append(r.entries, RosterEntry{
			First: row[fi],
			Last:  row[li],
			Cell:  sheet.CellRef{Col: answerColumn, Row: start.Row + 1 + i},
			first: foldName(row[fi]),
			last:  foldName(row[li]),
		})
	}
	return r, nil
}

// Entries returns the roster in sheet order.
func (r *Roster) Entries() []RosterEntry {
	return r.entries
}

// Lookup returns every entry whose first and last name match, ignoring case.
func (r *Roster) Lookup(first, last string) []RosterEntry {
	first, last = foldName(first), foldName(last)
	var out []RosterEntry
	for _, e := range r.entries {
		if e.first == first && e.last == last {
			out = append(out, e)
		}
	}
	return out
}

// SplitName splits a full name into its first word and the rest. Names with
// fewer than two words cannot be matched against a first/last roster.
func SplitName(name string) (first, last string, ok bool) {
	words := strings.Fields(name)
	if len(words) < 2 {
		return "", "", false
	}
	return words[0], strings.Join(words[1:], " "), true
}

func foldName(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return cases.Fold().String(norm.NFC.String(s))
}
