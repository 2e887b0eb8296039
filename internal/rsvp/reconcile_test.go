package rsvp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexTLDR/rsvpsync/internal/i18n"
	"github.com/AlexTLDR/rsvpsync/internal/sheet"
)

func testRoster(t *testing.T, rows ...[]string) *Roster {
	t.Helper()
	tbl := sheet.NewTable("First", "Last", "Party", "RSVP")
	for _, r := range rows {
		tbl.Append(r)
	}
	roster, err := NewRoster(tbl, sheet.MustParseCellRef("A3"), 3)
	require.NoError(t, err)
	return roster
}

func TestNewRosterCells(t *testing.T) {
	roster := testRoster(t, []string{"Bob", "Lee"}, []string{"Ann", "Kim"})

	entries := roster.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "D4", entries[0].Cell.String())
	assert.Equal(t, "D5", entries[1].Cell.String())
	assert.Equal(t, "Bob", entries[0].First)
}

func TestNewRosterMissingColumns(t *testing.T) {
	_, err := NewRoster(sheet.NewTable("First", "Surname"), sheet.MustParseCellRef("A3"), 3)
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, err = NewRoster(sheet.NewTable("Name", "Last"), sheet.MustParseCellRef("A3"), 3)
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		name        string
		first, last string
		ok          bool
	}{
		{"Bob Lee", "Bob", "Lee", true},
		{"Mary Ann  van der Berg ", "Mary", "Ann van der Berg", true},
		{"  Sam   Low", "Sam", "Low", true},
		{"Cher", "", "", false},
		{"", "", "", false},
		{"   ", "", "", false},
	}

	for _, tt := range tests {
		first, last, ok := SplitName(tt.name)
		assert.Equal(t, tt.ok, ok, tt.name)
		assert.Equal(t, tt.first, first, tt.name)
		assert.Equal(t, tt.last, last, tt.name)
	}
}

func TestReconcileSingleMatch(t *testing.T) {
	roster := testRoster(t,
		[]string{"Ann", "Lee"},
		[]string{"BOB", "lee"},
		[]string{"Cy", "Van Dyke"},
	)
	responses := []Response{
		{Name: "Bob Lee", Attending: true},
		{Name: "cy van  dyke", Attending: false},
	}

	res := Reconcile(responses, roster, i18n.LabelsFor(i18n.English))

	assert.Equal(t, []sheet.CellUpdate{
		{Ref: sheet.MustParseCellRef("D5"), Value: "Yes"},
		{Ref: sheet.MustParseCellRef("D6"), Value: "No"},
	}, res.Updates)
	assert.Equal(t, 2, res.Count(Matched))
	require.NotNil(t, res.Outcomes[0].Entry)
	assert.Equal(t, "BOB", res.Outcomes[0].Entry.First)
}

func TestReconcileNeverGuesses(t *testing.T) {
	roster := testRoster(t,
		[]string{"Jo", "Kim"},
		[]string{"jo", "KIM"},
		[]string{"Ann", "Lee"},
	)
	responses := []Response{
		{Name: "Jo Kim", Attending: true},
		{Name: "Zed Zulu", Attending: true},
		{Name: "Cher", Attending: false},
	}

	res := Reconcile(responses, roster, i18n.LabelsFor(i18n.English))

	assert.Empty(t, res.Updates)
	assert.Equal(t, Ambiguous, res.Outcomes[0].Status)
	assert.Equal(t, 2, res.Outcomes[0].Candidates)
	assert.Nil(t, res.Outcomes[0].Entry)
	assert.Equal(t, Unmatched, res.Outcomes[1].Status)
	assert.Equal(t, Unparseable, res.Outcomes[2].Status)
}

func TestReconcileLastAnswerPerCellWins(t *testing.T) {
	roster := testRoster(t, []string{"Bob", "Lee"})
	responses := []Response{
		{Name: "Bob Lee", Attending: true},
		{Name: "bob lee", Attending: false},
	}

	res := Reconcile(responses, roster, i18n.LabelsFor(i18n.Romanian))

	assert.Equal(t, []sheet.CellUpdate{{Ref: sheet.MustParseCellRef("D4"), Value: "Nu"}}, res.Updates)
}

func TestReconcileTotals(t *testing.T) {
	roster := testRoster(t, []string{"Bob", "Lee"})
	responses := []Response{
		{Name: "Bob Lee", Attending: true},
		{Name: "Nobody Here", Attending: true},
		{Name: "Cher", Attending: false},
		{Name: "Jo Kim", Attending: false},
		{Name: "Ann Lee", Attending: true},
	}

	res := Reconcile(responses, roster, i18n.LabelsFor(i18n.English))

	assert.Equal(t, 3, res.TotalYes)
	assert.Equal(t, 2, res.TotalNo)
	assert.Equal(t, len(responses), res.TotalYes+res.TotalNo)
	assert.Len(t, res.Outcomes, len(responses))
}

func TestHouseholdEndToEnd(t *testing.T) {
	sub := submission(ColumnFirstName, "ann", ColumnLastName, "lee", "Bob Lee", testYes)
	responses := testExpander().Expand([]Submission{sub})
	require.Equal(t, []Response{{SubmittedAt: testTime, Name: "Bob Lee", Attending: true}}, responses)

	roster := testRoster(t, []string{"Ann", "Lee"}, []string{"Bob", "Lee"})
	res := Reconcile(responses, roster, i18n.LabelsFor(i18n.English))

	assert.Equal(t, []sheet.CellUpdate{{Ref: sheet.MustParseCellRef("D5"), Value: "Yes"}}, res.Updates)
}

func TestSummaryUpdates(t *testing.T) {
	got := SummaryUpdates(i18n.LabelsFor(i18n.English), 7, 2)

	values := map[string]string{}
	for _, u := range got {
		values[u.Ref.String()] = u.Value
	}
	assert.Equal(t, map[string]string{
		"A1": "WARNING DO NOT EDIT: THIS IS AUTOMATICALLY GENERATED",
		"B3": "Yes",
		"C3": "No",
		"A4": "Totals",
		"B4": "7",
		"C4": "2",
	}, values)
}
