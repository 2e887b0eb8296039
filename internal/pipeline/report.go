package pipeline

import (
	"fmt"
	"io"

	"github.com/goccy/go-yaml"

	"github.com/AlexTLDR/rsvpsync/internal/rsvp"
	"github.com/AlexTLDR/rsvpsync/internal/sheet"
)

// Issue is a response that could not be written to the invite list.
type Issue struct {
	Name       string           `yaml:"name"`
	Status     rsvp.MatchStatus `yaml:"status"`
	Candidates int              `yaml:"candidates,omitempty"`
}

// Report describes what a run planned and, unless it was a dry run, applied.
type Report struct {
	DryRun      bool `yaml:"dry_run"`
	Submissions int  `yaml:"submissions"`
	Responses   int  `yaml:"responses"`
	TotalYes    int  `yaml:"total_yes"`
	TotalNo     int  `yaml:"total_no"`
	Matched     int  `yaml:"matched"`
	Unmatched   int  `yaml:"unmatched"`
	Ambiguous   int  `yaml:"ambiguous"`
	Unparseable int  `yaml:"unparseable"`

	ExportSheet  string             `yaml:"export_sheet"`
	ExportRows   int                `yaml:"export_rows"`
	SummaryCells []sheet.CellUpdate `yaml:"summary_cells"`
	RosterSheet  string             `yaml:"roster_sheet"`
	AnswerCells  []sheet.CellUpdate `yaml:"answer_cells"`
	Issues       []Issue            `yaml:"issues,omitempty"`

	RosterTotalYes string `yaml:"roster_total_yes,omitempty"`
	RosterTotalNo  string `yaml:"roster_total_no,omitempty"`
	RunID          int64  `yaml:"run_id,omitempty"`
}

func newReport(subs int, responses []rsvp.Response, res *rsvp.Result) *Report {
	r := &Report{
		Submissions: subs,
		Responses:   len(responses),
		TotalYes:    res.TotalYes,
		TotalNo:     res.TotalNo,
		Matched:     res.Count(rsvp.Matched),
		Unmatched:   res.Count(rsvp.Unmatched),
		Ambiguous:   res.Count(rsvp.Ambiguous),
		Unparseable: res.Count(rsvp.Unparseable),
		AnswerCells: res.Updates,
	}
	for _, o := range res.Outcomes {
		if o.Status != rsvp.Matched {
			r.Issues = append(r.Issues, Issue{Name: o.Response.Name, Status: o.Status, Candidates: o.Candidates})
		}
	}
	return r
}

// WriteYAML renders the report as YAML.
func (r *Report) WriteYAML(w io.Writer) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	_, err = w.Write(data)
	return err
}
