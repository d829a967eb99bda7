package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func elementTable(t *testing.T) *NameTable {
	t.Helper()
	table, err := NewNameTable(map[string]string{
		"Au": "Gold",
		"Cu": "Copper",
	})
	require.NoError(t, err)
	return table
}

func TestNameTableConversions(t *testing.T) {
	table := elementTable(t)

	full, ok := table.Full("Au")
	assert.True(t, ok)
	assert.Equal(t, "Gold", full)

	// capitalization-insensitive both ways
	sym, ok := table.Symbol("gold")
	assert.True(t, ok)
	assert.Equal(t, "Au", sym)

	sym, ok = table.Symbol("COPPER")
	assert.True(t, ok)
	assert.Equal(t, "Cu", sym)

	// unknown commodities pass through normalized
	sym, ok = table.Symbol("limestone")
	assert.False(t, ok)
	assert.Equal(t, "Limestone", sym)
}

func TestNewNameTableRejectsBlanks(t *testing.T) {
	_, err := NewNameTable(map[string]string{"Au": " "})
	assert.ErrorAs(t, err, new(*ValidationError))
}

func TestLookups(t *testing.T) {
	lookups, err := NewLookups(
		[]string{"Cu"},
		map[string]string{"Au": "Precious", "Cu": "Base"},
		elementTable(t),
		nil,
	)
	require.NoError(t, err)

	assert.True(t, lookups.IsCritical("Cu"))
	assert.True(t, lookups.IsCritical("cu"))
	assert.False(t, lookups.IsCritical("Au"))
	assert.Equal(t, "Precious", lookups.MetalType("Au"))
	assert.Empty(t, lookups.MetalType("Limestone"))
}

func TestNewLookupsRequiresElements(t *testing.T) {
	_, err := NewLookups(nil, nil, nil, nil)
	assert.ErrorAs(t, err, new(*ValidationError))
}
