package database

import (
	"database/sql"
	"time"
)

// Run is one archived reconciliation run.
type Run struct {
	ID            int64
	StartedAt     time.Time
	SubmissionsID string
	RosterID      string
	TotalYes      int
	TotalNo       int
	Matched       int
	Unmatched     int
	Ambiguous     int
	Unparseable   int
	DryRun        bool
	Responses     []RunResponse
}

// RunResponse is one expanded response together with its roster match.
type RunResponse struct {
	ID           int64
	RunID        int64
	SubmittedAt  time.Time
	Name         string
	Attending    bool
	FoodRequests sql.NullString
	Comments     sql.NullString
	Phone        sql.NullString
	MatchStatus  string
	RosterCell   sql.NullString
}
