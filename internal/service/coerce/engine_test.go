package coerce

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/djewell11/cmti-tools/internal/domain"
)

func newTestEngine(t *testing.T, spec Spec) *Engine {
	t.Helper()
	e, err := NewEngine(spec, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	return e
}

func TestNewEngineRejectsDuplicateColumns(t *testing.T) {
	_, err := NewEngine(Spec{
		{Name: "Latitude", Kind: Float},
		{Name: "Latitude", Kind: String},
	}, nil)
	require.Error(t, err)
	assert.ErrorAs(t, err, new(*domain.ValidationError))
}

func TestConvertSubstitutesDefaults(t *testing.T) {
	e := newTestEngine(t, Spec{
		{Name: "Mine_Status", Kind: String, Default: "Unknown"},
		{Name: "Year_Opened", Kind: Int, Default: nil},
		{Name: "Tailings_Volume", Kind: Float, Default: 0.0},
	})

	tests := []struct {
		name string
		col  string
		in   any
		want any
	}{
		{"missing string", "Mine_Status", nil, "Unknown"},
		{"blank string", "Mine_Status", "   ", "Unknown"},
		{"kept string", "Mine_Status", " Active ", "Active"},
		{"malformed int", "Year_Opened", "unknown", nil},
		{"int from float", "Year_Opened", 1964.0, 1964},
		{"malformed float", "Tailings_Volume", "n/a", 0.0},
		{"float with unit", "Tailings_Volume", "1,200 m3", 1200.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Convert(tt.col, tt.in))
		})
	}
}

func TestConvertPassesThroughUnspecColumns(t *testing.T) {
	e := newTestEngine(t, Spec{{Name: "Name", Kind: String}})
	assert.Equal(t, 42, e.Convert("Other", 42))
}

func TestConvertIsIdempotent(t *testing.T) {
	e := newTestEngine(t, Spec{
		{Name: "Latitude", Kind: Float, Default: nil},
		{Name: "Mine_Type", Kind: String, Default: ""},
	})
	once := e.Convert("Latitude", "47.56")
	twice := e.Convert("Latitude", once)
	assert.Equal(t, once, twice)
	assert.Equal(t, 47.56, twice)
}

func TestConvertBool(t *testing.T) {
	e := newTestEngine(t, Spec{{Name: "Rehab_Plan", Kind: Bool, Default: nil}})
	assert.Equal(t, true, e.Convert("Rehab_Plan", "Yes"))
	assert.Equal(t, false, e.Convert("Rehab_Plan", "no"))
	assert.Equal(t, true, e.Convert("Rehab_Plan", true))
	assert.Nil(t, e.Convert("Rehab_Plan", "maybe"))
}

func TestConvertDate(t *testing.T) {
	e := newTestEngine(t, Spec{{Name: "Last_Revised", Kind: Date, Default: nil}})
	got := e.Convert("Last_Revised", "2021-06-15")
	require.IsType(t, time.Time{}, got)
	assert.Equal(t, time.Date(2021, 6, 15, 0, 0, 0, 0, time.UTC), got)
}

func TestCleanTable(t *testing.T) {
	e := newTestEngine(t, Spec{
		{Name: "Latitude", Kind: Float, Default: nil},
		{Name: "Year_Opened", Kind: Int, Default: nil},
	})
	in := &domain.Table{
		Columns: []string{"Latitude", "Year_Opened", "Name"},
		Rows: []domain.Row{
			{"Latitude": "47.5", "Year_Opened": "1964", "Name": "Faro"},
			{"Latitude": "bad", "Year_Opened": nil, "Name": "Giant"},
		},
	}
	out := e.CleanTable(in)

	assert.Equal(t, 47.5, out.Rows[0]["Latitude"])
	assert.Equal(t, 1964, out.Rows[0]["Year_Opened"])
	assert.Equal(t, "Faro", out.Rows[0]["Name"])
	assert.Nil(t, out.Rows[1]["Latitude"])
	assert.Nil(t, out.Rows[1]["Year_Opened"])

	// input untouched
	assert.Equal(t, "47.5", in.Rows[0]["Latitude"])
}

func TestDigits(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"100m", 100, true},
		{"1.5 g/t", 1.5, true},
		{"1,200", 1200, true},
		{"-75.3", -75.3, true},
		{"approx 450", 450, true},
		{"n/a", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := Digits(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}
