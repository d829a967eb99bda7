package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/djewell11/cmti-tools/internal/domain"
)

func TestReadTable(t *testing.T) {
	in := "Name,Latitude,Longitude\nFaro,62.23,-133.35\nGiant,62.48\n"
	table, err := ReadTable(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Latitude", "Longitude"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Faro", table.Rows[0]["Name"])
	assert.Equal(t, "62.23", table.Rows[0]["Latitude"])
	// short row padded with nulls
	assert.True(t, table.Rows[1].IsNull("Longitude"))
}

func TestReadTableEmptyInput(t *testing.T) {
	_, err := ReadTable(strings.NewReader(""))
	assert.ErrorAs(t, err, new(*domain.ValidationError))
}
