// Package pipeline runs one reconciliation: it reads the form submissions and
// the invite list, plans every cell write, and applies the plan.
package pipeline

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"github.com/AlexTLDR/rsvpsync/internal/config"
	"github.com/AlexTLDR/rsvpsync/internal/database"
	"github.com/AlexTLDR/rsvpsync/internal/rsvp"
	"github.com/AlexTLDR/rsvpsync/internal/sheet"
)

// Archiver stores a record of each run.
type Archiver interface {
	ArchiveRun(ctx context.Context, run *database.Run) (int64, error)
}

type Pipeline struct {
	cfg     *config.Config
	source  sheet.Source
	sink    sheet.Sink
	archive Archiver
	log     zerolog.Logger
	now     func() time.Time
}

// New creates a pipeline. archive may be nil.
func New(cfg *config.Config, source sheet.Source, sink sheet.Sink, archive Archiver, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		source:  source,
		sink:    sink,
		archive: archive,
		log:     log,
		now:     time.Now,
	}
}

// Run executes Normalize, Expand and Reconcile, then writes the export
// table, the summary cells and the roster answers. Nothing is written before
// every input has been read and reconciled, and nothing at all in dry-run mode.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	cfg := p.cfg
	started := p.now()

	raw, err := p.source.Download(ctx, cfg.Submissions.SpreadsheetID, cfg.Submissions.Sheet, cfg.Submissions.Start)
	if err != nil {
		return nil, fmt.Errorf("failed to download submissions: %w", err)
	}
	subs, err := rsvp.Normalize(raw, rsvp.NormalizeOptions{
		Location:  cfg.Location,
		HeaderRow: cfg.Submissions.Start.Row,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to normalize submissions: %w", err)
	}
	p.log.Info().Int("rows", raw.Len()).Int("submissions", len(subs)).Msg("normalized submissions")

	expander := rsvp.NewExpander(rsvp.ExpandOptions{
		Yes:            cfg.YesLabel,
		No:             cfg.NoLabel,
		FoodColumn:     cfg.FoodColumn,
		CommentsColumn: cfg.CommentsColumn,
		PhoneColumn:    cfg.PhoneColumn,
		PhoneRegion:    cfg.PhoneRegion,
	}, p.log)
	responses := expander.Expand(subs)
	export := expander.ExportTable(responses)

	rosterTable, err := p.source.Download(ctx, cfg.Roster.SpreadsheetID, cfg.Roster.Sheet, cfg.Roster.Start)
	if err != nil {
		return nil, fmt.Errorf("failed to download invite list: %w", err)
	}
	roster, err := rsvp.NewRoster(rosterTable, cfg.Roster.Start, cfg.RosterAnswerColumn)
	if err != nil {
		return nil, fmt.Errorf("failed to read invite list: %w", err)
	}

	res := rsvp.Reconcile(responses, roster, cfg.Labels)
	p.logOutcomes(res)

	report := newReport(len(subs), responses, res)
	report.DryRun = cfg.DryRun
	report.ExportSheet = cfg.Export.Sheet
	report.ExportRows = export.Len()
	report.RosterSheet = cfg.Roster.Sheet
	report.SummaryCells = rsvp.SummaryUpdates(cfg.Labels, res.TotalYes, res.TotalNo)

	if !cfg.DryRun {
		if err := p.apply(ctx, export, report); err != nil {
			return nil, err
		}
	}

	p.archiveRun(ctx, started, res, report)

	p.log.Info().
		Int("yes", report.TotalYes).
		Int("no", report.TotalNo).
		Int("matched", report.Matched).
		Int("unmatched", report.Unmatched).
		Int("ambiguous", report.Ambiguous).
		Bool("dry_run", cfg.DryRun).
		Msg("reconciliation finished")

	return report, nil
}

func (p *Pipeline) apply(ctx context.Context, export *sheet.Table, report *Report) error {
	cfg := p.cfg

	var exportHandle sheet.Handle
	err := p.retry(ctx, "upload export", func(ctx context.Context) error {
		h, err := p.sink.Upload(ctx, export, cfg.Export.SpreadsheetID, cfg.Export.Sheet, cfg.Export.Start)
		exportHandle = h
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to upload responses: %w", err)
	}
	if err := p.setCells(ctx, exportHandle, report.SummaryCells); err != nil {
		return fmt.Errorf("failed to write totals: %w", err)
	}

	rosterHandle, err := p.sink.Open(ctx, cfg.Roster.SpreadsheetID, cfg.Roster.Sheet)
	if err != nil {
		return fmt.Errorf("failed to open invite list: %w", err)
	}
	if err := p.setCells(ctx, rosterHandle, report.AnswerCells); err != nil {
		return fmt.Errorf("failed to write answers: %w", err)
	}

	report.RosterTotalYes = p.readCell(ctx, rosterHandle, cfg.RosterTotalYes)
	report.RosterTotalNo = p.readCell(ctx, rosterHandle, cfg.RosterTotalNo)
	if cfg.RosterTotalYes != nil || cfg.RosterTotalNo != nil {
		p.log.Info().
			Str("total_yes", report.RosterTotalYes).
			Str("total_no", report.RosterTotalNo).
			Msg("invite list totals")
	}
	return nil
}

func (p *Pipeline) setCells(ctx context.Context, h sheet.Handle, updates []sheet.CellUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	return p.retry(ctx, "update cells", func(ctx context.Context) error {
		return h.SetCells(ctx, updates)
	})
}

// retry runs fn with exponential backoff. Every operation passed here must be
// safe to repeat.
func (p *Pipeline) retry(ctx context.Context, op string, fn func(context.Context) error) error {
	base := p.cfg.WriteRetryBase
	if base <= 0 {
		base = time.Millisecond
	}
	backoff := retry.WithMaxRetries(p.cfg.WriteRetries, retry.NewExponential(base))

	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := fn(ctx); err != nil {
			p.log.Warn().Err(err).Str("op", op).Int("attempt", attempt).Msg("write failed")
			return retry.RetryableError(err)
		}
		return nil
	})
}

func (p *Pipeline) readCell(ctx context.Context, h sheet.Handle, ref *sheet.CellRef) string {
	if ref == nil {
		return ""
	}
	v, err := h.Cell(ctx, *ref)
	if err != nil {
		// Log but don't fail - the answers are already written
		p.log.Warn().Err(err).Str("cell", ref.String()).Msg("failed to read invite list total")
		return ""
	}
	return v
}

func (p *Pipeline) logOutcomes(res *rsvp.Result) {
	for _, o := range res.Outcomes {
		name := o.Response.Name
		switch o.Status {
		case rsvp.Matched:
			p.log.Debug().Str("name", name).Str("cell", o.Entry.Cell.String()).Bool("attending", o.Response.Attending).Msg("matched invite")
		case rsvp.Unmatched:
			p.log.Warn().Str("name", name).Msg("submission has no match in invite list")
		case rsvp.Ambiguous:
			p.log.Warn().Str("name", name).Int("candidates", o.Candidates).Msg("submission has multiple matches on invite list")
		case rsvp.Unparseable:
			p.log.Warn().Str("name", name).Msg("cannot split name into first and last, invite list not updated")
		}
	}
}

func (p *Pipeline) archiveRun(ctx context.Context, started time.Time, res *rsvp.Result, report *Report) {
	if p.archive == nil {
		return
	}

	run := &database.Run{
		StartedAt:     started,
		SubmissionsID: p.cfg.Submissions.SpreadsheetID,
		RosterID:      p.cfg.Roster.SpreadsheetID,
		TotalYes:      report.TotalYes,
		TotalNo:       report.TotalNo,
		Matched:       report.Matched,
		Unmatched:     report.Unmatched,
		Ambiguous:     report.Ambiguous,
		Unparseable:   report.Unparseable,
		DryRun:        report.DryRun,
		Responses:     make([]database.RunResponse, 0, len(res.Outcomes)),
	}
	for _, o := range res.Outcomes {
		rr := database.RunResponse{
			SubmittedAt:  o.Response.SubmittedAt,
			Name:         o.Response.Name,
			Attending:    o.Response.Attending,
			FoodRequests: nullString(o.Response.FoodRequests),
			Comments:     nullString(o.Response.Comments),
			Phone:        nullString(o.Response.Phone),
			MatchStatus:  string(o.Status),
		}
		if o.Entry != nil {
			rr.RosterCell = nullString(o.Entry.Cell.String())
		}
		run.Responses = append(run.Responses, rr)
	}

	id, err := p.archive.ArchiveRun(ctx, run)
	if err != nil {
		// Log but don't fail - the archive is only a history of runs
		p.log.Error().Err(err).Msg("failed to archive run")
		return
	}
	report.RunID = id
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
