package rsvp

import (
	"github.com/AlexTLDR/rsvpsync/internal/i18n"
	"github.com/AlexTLDR/rsvpsync/internal/sheet"
)

// MatchStatus describes how a response related to the invite list.
type MatchStatus string

const (
	Matched     MatchStatus = "matched"
	Unmatched   MatchStatus = "unmatched"
	Ambiguous   MatchStatus = "ambiguous"
	Unparseable MatchStatus = "unparseable"
)

// Outcome records the match result for one response. Entry is set only
// when Status is Matched.
type Outcome struct {
	Response   Response
	Status     MatchStatus
	Candidates int
	Entry      *RosterEntry
}

// Result is the outcome of reconciling all responses against the roster.
type Result struct {
	Outcomes []Outcome
	// Updates are the answer cells to write, one per cell.
	Updates  []sheet.CellUpdate
	TotalYes int
	TotalNo  int
}

// Count returns the number of outcomes with the given status.
func (r *Result) Count(status MatchStatus) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// Reconcile matches every response to the roster. Only responses with
// exactly one matching entry produce an answer update; nothing is written
// for missing or ambiguous matches.
func Reconcile(responses []Response, roster *Roster, labels i18n.Labels) *Result {
	res := &Result{Outcomes: make([]Outcome, 0, len(responses))}
	var updates []sheet.CellUpdate

	for _, resp := range responses {
		out := Outcome{Response: resp}

		first, last, ok := SplitName(resp.Name)
		if !ok {
			out.Status = Unparseable
			res.Outcomes = append(res.Outcomes, out)
			continue
		}

		matches := roster.Lookup(first, last)
		out.Candidates = len(matches)
		switch len(matches) {
		case 0:
			out.Status = Unmatched
		case 1:
			out.Status = Matched
			out.Entry = &matches[0]
			answer := labels.No
			if resp.Attending {
				answer = labels.Yes
			}
			updates = append(updates, sheet.CellUpdate{Ref: matches[0].Cell, Value: answer})
		default:
			out.Status = Ambiguous
		}
		res.Outcomes = append(res.Outcomes, out)
	}

	res.Updates = sheet.Collapse(updates)
	res.TotalYes, res.TotalNo = Totals(responses)
	return res
}
