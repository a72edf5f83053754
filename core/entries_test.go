package core

import (
	"strings"
	"testing"

	"github.com/huangsam/codepulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadHistoricalEntries(t *testing.T) {
	input := `date,hours,minutes
# exported from a spreadsheet
2025-11-01, 7, 40
2025-11-02,0,0
`
	entries, err := ReadHistoricalEntries(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []schema.HistoricalEntry{
		{Date: "2025-11-01", TotalSeconds: 27600},
		{Date: "2025-11-02", TotalSeconds: 0},
	}, entries)
}

func TestReadHistoricalEntries_NoHeader(t *testing.T) {
	entries, err := ReadHistoricalEntries(strings.NewReader("2025-11-01,1,0\n"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(3600), entries[0].TotalSeconds)
}

func TestReadHistoricalEntries_Empty(t *testing.T) {
	entries, err := ReadHistoricalEntries(strings.NewReader(""))
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestReadHistoricalEntries_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bad date", "2025-13-01,1,0\n"},
		{"negative hours", "2025-11-01,-1,0\n"},
		{"minutes out of range", "2025-11-01,1,60\n"},
		{"not a number", "2025-11-01,one,0\n"},
		{"wrong field count", "2025-11-01,1\n"},
		{"duplicate date", "2025-11-01,1,0\n2025-11-01,2,0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadHistoricalEntries(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, schema.ErrValidation)
		})
	}
}
