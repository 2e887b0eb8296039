package rsvp

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/AlexTLDR/rsvpsync/internal/utils"
)

// SingleResponder stands in for the submitter when a submission answers only
// for its author and carries no named response column.
const SingleResponder = "No Label"

// Verdict is the decision carried by a response-label column.
type Verdict int

const (
	Affirmative Verdict = iota
	Negative
)

func (v Verdict) String() string {
	if v == Affirmative {
		return "yes"
	}
	return "no"
}

// Answer is one classified response-label column: the column name is the
// respondent, the column value decided the verdict.
type Answer struct {
	Respondent string
	Verdict    Verdict
}

// Response is one person's decision, derived from a submission.
type Response struct {
	SubmittedAt  time.Time
	Name         string
	Attending    bool
	FoodRequests string
	Comments     string
	Phone        string
}

// ExpandOptions names the response labels and the shared columns copied onto
// every response of a submission.
type ExpandOptions struct {
	Yes            string
	No             string
	FoodColumn     string
	CommentsColumn string
	// PhoneColumn is optional; when set its value is normalised to E.164.
	PhoneColumn string
	PhoneRegion string
}

// Expander turns submissions into per-person responses.
type Expander struct {
	opts ExpandOptions
	log  zerolog.Logger
}

// NewExpander creates an Expander that reports phone problems to log.
func NewExpander(opts ExpandOptions, log zerolog.Logger) *Expander {
	return &Expander{opts: opts, log: log}
}

// Classify scans the present fields of a submission in two passes: it first
// collects every (column, value) pair, then keeps those whose value is
// exactly the yes or no label. Affirmatives come first, each group in column
// order. A submission with no label anywhere yields a single affirmative for
// SingleResponder.
func Classify(sub Submission, yes, no string) []Answer {
	type candidate struct{ column, value string }

	var candidates []candidate
	for _, f := range sub.Fields {
		if f.Value.Valid {
			candidates = append(candidates, candidate{column: f.Column, value: f.Value.String})
		}
	}

	var affirmative, negative []Answer
	for _, c := range candidates {
		switch c.value {
		case yes:
			affirmative = append(affirmative, Answer{Respondent: c.column, Verdict: Affirmative})
		case no:
			negative = append(negative, Answer{Respondent: c.column, Verdict: Negative})
		}
	}

	if len(affirmative) == 0 && len(negative) == 0 {
		return []Answer{{Respondent: SingleResponder, Verdict: Affirmative}}
	}
	return append(affirmative, negative...)
}

// Expand emits one Response per classified answer, in submission order.
func (e *Expander) Expand(subs []Submission) []Response {
	var out []Response
	for _, sub := range subs {
		shared := e.shared(sub)
		for _, a := range Classify(sub, e.opts.Yes, e.opts.No) {
			r := shared
			r.Name = a.Respondent
			if r.Name == SingleResponder {
				r.Name = SubmitterName(sub)
			}
			r.Attending = a.Verdict == Affirmative
			out = append(out, r)
		}
	}
	return out
}

func (e *Expander) shared(sub Submission) Response {
	r := Response{
		SubmittedAt:  sub.SubmittedAt,
		FoodRequests: e.optional(sub, e.opts.FoodColumn),
		Comments:     e.optional(sub, e.opts.CommentsColumn),
	}

	raw := e.optional(sub, e.opts.PhoneColumn)
	if raw == "" {
		return r
	}
	phone, err := utils.NormalizePhoneNumber(raw, e.opts.PhoneRegion)
	if err != nil {
		e.log.Warn().
			Str("submitter", SubmitterName(sub)).
			Str("phone", raw).
			Msg("keeping phone number as entered, it could not be normalized")
		phone = raw
	}
	r.Phone = phone
	return r
}

func (e *Expander) optional(sub Submission, column string) string {
	if column == "" {
		return ""
	}
	return sub.Get(column).String
}

// SubmitterName is the submitter's first and last name, each capitalized and
// joined by a space. A missing part is left out.
func SubmitterName(sub Submission) string {
	var parts []string
	for _, p := range []string{sub.FirstName().String, sub.LastName().String} {
		if p != "" {
			parts = append(parts, capitalize(p))
		}
	}
	return strings.Join(parts, " ")
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	_, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return cases.Upper(language.Und).String(s[:size]) + cases.Lower(language.Und).String(s[size:])
}
