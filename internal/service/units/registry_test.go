package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/djewell11/cmti-tools/internal/domain"
)

func TestConvertWithinDimension(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name    string
		value   any
		desired string
		opts    ConvertOptions
		want    float64
	}{
		{"ppb to g/t", "1500 ppb", "g/t", ConvertOptions{}, 1.5},
		{"percent to ppm", "2 %", "ppm", ConvertOptions{}, 20000},
		{"hectares to km2", "450 ha", "km2", ConvertOptions{}, 4.5},
		{"no space before unit", "450m3", "m3", ConvertOptions{}, 450},
		{"thousands separator", "1,200 t", "kg", ConvertOptions{}, 1.2e6},
		{"bare number with assumed unit", 3.0, "g/t", ConvertOptions{DimensionlessUnit: "ppm"}, 3},
		{"bare number passthrough", 42.0, "m3", ConvertOptions{}, 42},
		{"same unit", "7 m", "m", ConvertOptions{}, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Convert(tt.value, tt.desired, tt.opts)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestConvertRoundTrip(t *testing.T) {
	r := NewRegistry()
	toKm2, err := r.Convert("125 ha", "km2", ConvertOptions{})
	require.NoError(t, err)
	back, err := r.Convert(toKm2, "ha", ConvertOptions{DimensionlessUnit: "km2"})
	require.NoError(t, err)
	assert.InDelta(t, 125, back, 1e-9)
}

func TestConvertDimensionMismatch(t *testing.T) {
	r := NewRegistry()
	_, err := r.Convert("10 kg", "m3", ConvertOptions{})
	require.Error(t, err)

	var mismatch *domain.UnitMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "kg", mismatch.From)
	assert.Equal(t, "m3", mismatch.To)
}

func TestConvertUnknownUnits(t *testing.T) {
	r := NewRegistry()

	_, err := r.Convert("5 furlongs", "m", ConvertOptions{})
	assert.ErrorAs(t, err, new(*domain.ValidationError))

	_, err = r.Convert("5 m", "parsec", ConvertOptions{})
	assert.ErrorAs(t, err, new(*domain.ValidationError))
}

func TestDefineCustomUnit(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Define("Mt", 1e9, Mass))

	got, err := r.Convert("2 Mt", "t", ConvertOptions{})
	require.NoError(t, err)
	assert.InDelta(t, 2e6, got, 1e-3)

	err = r.Define("Mt", 5, Mass)
	assert.ErrorAs(t, err, new(*domain.ConflictError))

	err = r.Define("bad", -1, Mass)
	assert.ErrorAs(t, err, new(*domain.ValidationError))
}

func TestNormalizeSpellings(t *testing.T) {
	r := NewRegistry()
	got, err := r.Convert("3 hectares", "m2", ConvertOptions{})
	require.NoError(t, err)
	assert.InDelta(t, 30000, got, 1e-9)

	got, err = r.Convert("1 tonne", "kg", ConvertOptions{})
	require.NoError(t, err)
	assert.InDelta(t, 1000, got, 1e-9)
}
