package rsvp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexTLDR/rsvpsync/internal/sheet"
)

func submissionsTable(rows ...[]string) *sheet.Table {
	t := sheet.NewTable(ColumnSubmitted, ColumnFirstName, ColumnLastName, "Comments or Questions")
	for _, r := range rows {
		t.Append(r)
	}
	return t
}

func names(subs []Submission) []string {
	out := make([]string, len(subs))
	for i, s := range subs {
		out[i] = s.FirstName().String + "/" + s.LastName().String + "@" + s.SubmittedAt.Format(time.DateTime)
	}
	return out
}

func TestNormalizeKeepsLatestSubmission(t *testing.T) {
	tbl := submissionsTable(
		[]string{"2024-05-02 10:00:00", "jo", "kim", "second"},
		[]string{"2024-05-01 09:00:00", "jo", "kim", "first"},
		[]string{"2024-05-01 12:00:00", "ann", "lee", ""},
	)

	subs, err := Normalize(tbl, NormalizeOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"ann/lee@2024-05-01 12:00:00",
		"jo/kim@2024-05-02 10:00:00",
	}, names(subs))
	assert.Equal(t, "second", subs[1].Get("Comments or Questions").String)
}

func TestNormalizeIdentityIsCaseSensitive(t *testing.T) {
	tbl := submissionsTable(
		[]string{"2024-05-01 09:00:00", "jo", "kim"},
		[]string{"2024-05-02 09:00:00", "Jo", "Kim"},
	)

	subs, err := Normalize(tbl, NormalizeOptions{})
	require.NoError(t, err)
	assert.Len(t, subs, 2)
}

func TestNormalizeDropsRowsWithoutNames(t *testing.T) {
	tbl := submissionsTable(
		[]string{"garbage", "", "", "spam"},
		[]string{"2024-05-01 09:00:00", "", "low"},
		[]string{"2024-05-01 10:00:00", "sam", ""},
		[]string{},
	)

	subs, err := Normalize(tbl, NormalizeOptions{})
	require.NoError(t, err)

	require.Len(t, subs, 2)
	for _, s := range subs {
		assert.True(t, s.FirstName().Valid || s.LastName().Valid)
	}
	assert.False(t, subs[0].FirstName().Valid)
	assert.False(t, subs[1].LastName().Valid)
}

func TestNormalizeBlankCellsAreNull(t *testing.T) {
	subs, err := Normalize(submissionsTable([]string{"2024-05-01 09:00:00", "sam", "low", ""}), NormalizeOptions{})
	require.NoError(t, err)
	require.Len(t, subs, 1)

	assert.False(t, subs[0].Get("Comments or Questions").Valid)
	assert.False(t, subs[0].Get("No Such Column").Valid)
}

func TestNormalizeMissingNameKeysDeduplicateTogether(t *testing.T) {
	tbl := submissionsTable(
		[]string{"2024-05-01 09:00:00", "", "low", "a"},
		[]string{"2024-05-03 09:00:00", "", "low", "b"},
	)

	subs, err := Normalize(tbl, NormalizeOptions{})
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "b", subs[0].Get("Comments or Questions").String)
}

func TestNormalizeEqualTimestampsLaterRowWins(t *testing.T) {
	tbl := submissionsTable(
		[]string{"2024-05-01 09:00:00", "jo", "kim", "a"},
		[]string{"2024-05-01 09:00:00", "jo", "kim", "b"},
	)

	subs, err := Normalize(tbl, NormalizeOptions{})
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "b", subs[0].Get("Comments or Questions").String)
}

func TestNormalizeDateFormatsAndLocation(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Bucharest")
	require.NoError(t, err)

	tbl := submissionsTable(
		[]string{"May 3, 2024 8:15:00 PM", "a", "a"},
		[]string{"05/01/2024", "b", "b"},
		[]string{"2024-05-02T10:00:00Z", "c", "c"},
	)

	subs, err := Normalize(tbl, NormalizeOptions{Location: loc})
	require.NoError(t, err)
	require.Len(t, subs, 3)

	assert.Equal(t, "b", subs[0].FirstName().String)
	assert.Equal(t, loc, subs[0].SubmittedAt.Location())
	assert.Equal(t, "c", subs[1].FirstName().String)
	assert.Equal(t, "a", subs[2].FirstName().String)
}

func TestNormalizeInvalidDateIsFatal(t *testing.T) {
	tbl := submissionsTable(
		[]string{"2024-05-01 09:00:00", "jo", "kim"},
		[]string{"not a date", "ann", "lee"},
	)

	_, err := Normalize(tbl, NormalizeOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDate)

	var dateErr *DateError
	require.ErrorAs(t, err, &dateErr)
	assert.Equal(t, 3, dateErr.Row)
	assert.Equal(t, "Ann Lee", dateErr.Submitter)
	assert.Equal(t, "not a date", dateErr.Value)
	assert.Contains(t, err.Error(), "row 3 (Ann Lee)")
}

func TestNormalizeInvalidDateReportsSheetRow(t *testing.T) {
	tbl := submissionsTable(
		[]string{"2024-05-01 09:00:00", "jo", "kim"},
		[]string{"2024-05-02 09:00:00", "", ""},
		[]string{"yesterday-ish", "bob", ""},
	)

	_, err := Normalize(tbl, NormalizeOptions{HeaderRow: 4})

	var dateErr *DateError
	require.ErrorAs(t, err, &dateErr)
	assert.Equal(t, 7, dateErr.Row)
	assert.Equal(t, "Bob", dateErr.Submitter)
}

func TestNormalizeMissingDateIsFatal(t *testing.T) {
	_, err := Normalize(submissionsTable([]string{"", "jo", "kim"}), NormalizeOptions{})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestNormalizeMissingColumn(t *testing.T) {
	tbl := sheet.NewTable(ColumnFirstName, ColumnLastName)
	_, err := Normalize(tbl, NormalizeOptions{})
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), ColumnSubmitted)
}

func TestDeduplicateIsIdempotent(t *testing.T) {
	tbl := submissionsTable(
		[]string{"2024-05-01 09:00:00", "jo", "kim"},
		[]string{"2024-05-02 09:00:00", "ann", "lee"},
		[]string{"2024-05-03 09:00:00", "jo", "kim"},
		[]string{"2024-05-04 09:00:00", "ann", "lee"},
		[]string{"2024-05-05 09:00:00", "sam", "low"},
	)

	once, err := Normalize(tbl, NormalizeOptions{})
	require.NoError(t, err)
	twice := Deduplicate(once)

	assert.Equal(t, once, twice)
	assert.Equal(t, []string{
		"jo/kim@2024-05-03 09:00:00",
		"ann/lee@2024-05-04 09:00:00",
		"sam/low@2024-05-05 09:00:00",
	}, names(once))
}
