package database

import (
	"context"
	"fmt"
)

// ArchiveRun stores a run and all of its responses in one transaction and
// returns the new run ID.
func (db *DB) ArchiveRun(ctx context.Context, run *Run) (int64, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx, db.rebind(
		`INSERT INTO runs (started_at, submissions_id, roster_id, total_yes, total_no, matched, unmatched, ambiguous, unparseable, dry_run)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`),
		run.StartedAt, run.SubmissionsID, run.RosterID, run.TotalYes, run.TotalNo,
		run.Matched, run.Unmatched, run.Ambiguous, run.Unparseable, run.DryRun,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, db.rebind(
		`INSERT INTO run_responses (run_id, submitted_at, name, attending, food_requests, comments, phone, match_status, roster_cell)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare response insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range run.Responses {
		_, err := stmt.ExecContext(ctx, id, r.SubmittedAt, r.Name, r.Attending,
			r.FoodRequests, r.Comments, r.Phone, r.MatchStatus, r.RosterCell)
		if err != nil {
			return 0, fmt.Errorf("failed to archive response for %q: %w", r.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	run.ID = id
	return id, nil
}

// ListRuns returns the most recent runs, newest first, without responses.
func (db *DB) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	rows, err := db.QueryContext(ctx, db.rebind(
		`SELECT id, started_at, submissions_id, roster_id, total_yes, total_no, matched, unmatched, ambiguous, unparseable, dry_run
		 FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run := &Run{}
		err := rows.Scan(&run.ID, &run.StartedAt, &run.SubmissionsID, &run.RosterID, &run.TotalYes, &run.TotalNo,
			&run.Matched, &run.Unmatched, &run.Ambiguous, &run.Unparseable, &run.DryRun)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}

	return runs, nil
}

// RunResponses returns the archived responses of a run in insertion order.
func (db *DB) RunResponses(ctx context.Context, runID int64) ([]*RunResponse, error) {
	rows, err := db.QueryContext(ctx, db.rebind(
		`SELECT id, run_id, submitted_at, name, attending, food_requests, comments, phone, match_status, roster_cell
		 FROM run_responses WHERE run_id = ? ORDER BY id`), runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run responses: %w", err)
	}
	defer rows.Close()

	var responses []*RunResponse
	for rows.Next() {
		r := &RunResponse{}
		err := rows.Scan(&r.ID, &r.RunID, &r.SubmittedAt, &r.Name, &r.Attending,
			&r.FoodRequests, &r.Comments, &r.Phone, &r.MatchStatus, &r.RosterCell)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run response: %w", err)
		}
		responses = append(responses, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read run responses: %w", err)
	}

	return responses, nil
}
