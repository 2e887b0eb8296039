package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCellRef(t *testing.T) {
	tests := []struct {
		input   string
		want    CellRef
		wantErr bool
	}{
		{input: "A1", want: CellRef{Col: 0, Row: 1}},
		{input: "D4", want: CellRef{Col: 3, Row: 4}},
		{input: "z26", want: CellRef{Col: 25, Row: 26}},
		{input: "AA10", want: CellRef{Col: 26, Row: 10}},
		{input: " k6 ", want: CellRef{Col: 10, Row: 6}},
		{input: "", wantErr: true},
		{input: "A", wantErr: true},
		{input: "12", wantErr: true},
		{input: "A0", wantErr: true},
		{input: "A-1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCellRef(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestColumnNameRoundTrip(t *testing.T) {
	for _, letters := range []string{"A", "B", "Z", "AA", "AZ", "BA", "ZZ", "AAA"} {
		idx, err := ColumnIndex(letters)
		require.NoError(t, err)
		assert.Equal(t, letters, ColumnName(idx))
	}
}

func TestCellRefA1(t *testing.T) {
	ref := MustParseCellRef("B4")
	assert.Equal(t, "'RSVP List'!B4", ref.A1("RSVP List"))
	assert.Equal(t, "'Bob''s'!B4", ref.A1("Bob's"))
	assert.Equal(t, "C5", ref.Offset(1, 1).String())
}
