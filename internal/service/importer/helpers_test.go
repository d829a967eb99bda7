package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/djewell11/cmti-tools/internal/domain"
	"github.com/djewell11/cmti-tools/internal/testutil"
)

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"Gold", "Silver"}, splitList("Gold, Silver"))
	assert.Equal(t, []string{"Gold"}, splitList(" Gold ,, "))
	assert.Nil(t, splitList(""))
}

func TestCheckYear(t *testing.T) {
	tests := []struct {
		in   any
		want *int
	}{
		{"1960s", intp(1960)},
		{"c. 1911", intp(1911)},
		{1984, intp(1984)},
		{1984.0, intp(1984)},
		{"unknown", nil},
		{42, nil}, // not a plausible year
		{nil, nil},
	}
	for _, tt := range tests {
		got := checkYear(tt.in)
		if tt.want == nil {
			assert.Nil(t, got, "%v", tt.in)
		} else {
			require.NotNil(t, got, "%v", tt.in)
			assert.Equal(t, *tt.want, *got)
		}
	}
}

func TestYearRange(t *testing.T) {
	start, end := yearRange("1876-1918")
	require.NotNil(t, start)
	require.NotNil(t, end)
	assert.Equal(t, 1876, *start)
	assert.Equal(t, 1918, *end)

	start, end = yearRange("1901")
	require.NotNil(t, start)
	require.NotNil(t, end)
	assert.Equal(t, 1901, *start)
	assert.Equal(t, 1901, *end)

	start, end = yearRange("")
	assert.Nil(t, start)
	assert.Nil(t, end)
}

func TestNullStrings(t *testing.T) {
	table := &domain.Table{
		Columns: []string{"A", "B"},
		Rows: []domain.Row{
			{"A": "Null", "B": "kept"},
			{"A": " n/a ", "B": 7},
		},
	}
	nullStrings(table, "Null", "N/A")
	assert.Nil(t, table.Rows[0]["A"])
	assert.Equal(t, "kept", table.Rows[0]["B"])
	assert.Nil(t, table.Rows[1]["A"])
	assert.Equal(t, 7, table.Rows[1]["B"])
}

func TestBuildCommodity(t *testing.T) {
	lookups := testutil.Lookups()

	rec := buildCommodity(lookups, "Copper")
	assert.Equal(t, "Cu", rec.Commodity)
	assert.Equal(t, "Base", rec.MetalType)
	assert.True(t, rec.IsCritical)

	rec = buildCommodity(lookups, "Gold")
	assert.Equal(t, "Au", rec.Commodity)
	assert.False(t, rec.IsCritical)

	rec = buildCommodity(lookups, "Limestone")
	assert.Equal(t, "Limestone", rec.Commodity)
	assert.Empty(t, rec.MetalType)
}

func intp(n int) *int { return &n }
