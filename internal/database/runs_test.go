package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate())
	return db
}

func TestMigrateIsRepeatable(t *testing.T) {
	db := newTestDB(t)
	assert.NoError(t, db.Migrate())
}

func TestArchiveRun(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	started := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	run := &Run{
		StartedAt:     started,
		SubmissionsID: "form",
		RosterID:      "rsvp",
		TotalYes:      1,
		TotalNo:       1,
		Matched:       1,
		Unmatched:     1,
		Responses: []RunResponse{
			{
				SubmittedAt:  started.Add(-time.Hour),
				Name:         "Bob Lee",
				Attending:    true,
				FoodRequests: sql.NullString{String: "vegan", Valid: true},
				MatchStatus:  "matched",
				RosterCell:   sql.NullString{String: "D5", Valid: true},
			},
			{
				SubmittedAt: started.Add(-2 * time.Hour),
				Name:        "Zed Zulu",
				MatchStatus: "unmatched",
			},
		},
	}

	id, err := db.ArchiveRun(ctx, run)
	require.NoError(t, err)
	assert.Equal(t, id, run.ID)

	runs, err := db.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "form", runs[0].SubmissionsID)
	assert.Equal(t, 1, runs[0].Unmatched)
	assert.True(t, runs[0].StartedAt.Equal(started))

	responses, err := db.RunResponses(ctx, id)
	require.NoError(t, err)
	require.Len(t, responses, 2)
	assert.Equal(t, "Bob Lee", responses[0].Name)
	assert.True(t, responses[0].Attending)
	assert.Equal(t, "vegan", responses[0].FoodRequests.String)
	assert.Equal(t, "D5", responses[0].RosterCell.String)
	assert.False(t, responses[1].Attending)
	assert.False(t, responses[1].RosterCell.Valid)
}

func TestListRunsNewestFirst(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	base := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, err := db.ArchiveRun(ctx, &Run{StartedAt: base.Add(time.Duration(i) * time.Hour), SubmissionsID: "f", RosterID: "r", TotalYes: i})
		require.NoError(t, err)
	}

	runs, err := db.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, 2, runs[0].TotalYes)
	assert.Equal(t, 1, runs[1].TotalYes)
}

func TestRebind(t *testing.T) {
	pg := &DB{dialect: "postgres"}
	assert.Equal(t, "SELECT $1, $2", pg.rebind("SELECT ?, ?"))

	lite := &DB{dialect: "sqlite3"}
	assert.Equal(t, "SELECT ?, ?", lite.rebind("SELECT ?, ?"))
}
