package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/djewell11/cmti-tools/internal/domain"
	"github.com/djewell11/cmti-tools/internal/service/identifier"
	"github.com/djewell11/cmti-tools/internal/testutil"
)

func worksheetRow() domain.Row {
	return domain.Row{
		"CMTI_ID":   "YT000007",
		"Site_Name": "Faro",
		"Prov_Terr": "YT",
		"Latitude":  62.23,
		"Longitude": -133.35,

		"Site_Aliases":   "Faro Mine Complex, Anvil Range",
		"Owner_Operator": "Crown",
		"Past_Owners":    "Anvil Range Mining, Cyprus Anvil",

		"Commodity1":  "Zn",
		"Zn_Grade":    4.7,
		"Zn_Produced": "300 kg",
		"Commodity2":  "Lead",

		"Source_1":      nil,
		"Source_1_ID":   nil,
		"Source_1_Link": nil,
		"Source_2":      "Yukon Government",
		"Source_2_ID":   "YG-112",
		"Source_2_Link": "https://yukon.ca",

		"Tailings_Volume": 55e6,
		"Tailings_Area":   2.6,
		"Raise_Type":      "Upstream",
	}
}

func TestWorksheetBuildRow(t *testing.T) {
	b := NewWorksheetBuilder(testutil.Lookups(), identifier.NewAllocator())
	graph, err := b.BuildRow(worksheetRow())
	require.NoError(t, err)
	require.NoError(t, graph.Validate())

	assert.Equal(t, "YT000007", graph.Mine.CMTIID)
	assert.Equal(t, "Faro", graph.Mine.Name)

	require.Len(t, graph.Aliases, 2)
	assert.Equal(t, "Faro Mine Complex", graph.Aliases[0].Alias)

	require.Len(t, graph.Owners, 3)
	assert.True(t, graph.Owners[0].IsCurrentOwner)
	assert.Equal(t, "Crown", graph.Owners[0].Owner.Name)
	assert.False(t, graph.Owners[1].IsCurrentOwner)

	// quantity columns key by the commodity symbol in the cell
	require.Len(t, graph.Commodities, 2)
	assert.Equal(t, "Zn", graph.Commodities[0].Commodity)
	require.NotNil(t, graph.Commodities[0].Grade)
	assert.Equal(t, 4.7, *graph.Commodities[0].Grade)
	require.NotNil(t, graph.Commodities[0].Produced)
	assert.Equal(t, 300.0, *graph.Commodities[0].Produced)
	// Lead is not in the element table; the name passes through
	assert.Equal(t, "Lead", graph.Commodities[1].Commodity)
	assert.Nil(t, graph.Commodities[1].Grade)

	// gap in Source_1 closed by the left shift
	require.Len(t, graph.References, 1)
	assert.Equal(t, "Yukon Government", graph.References[0].Source)
	assert.Equal(t, "YG-112", graph.References[0].SourceID)

	require.Len(t, graph.Facilities, 1)
	fac := graph.Facilities[0]
	assert.True(t, fac.IsDefault)
	require.Len(t, fac.Impoundments, 1)
	imp := fac.Impoundments[0]
	assert.True(t, imp.IsDefault)
	assert.Equal(t, 55e6, *imp.Volume)
	assert.Equal(t, "Upstream", imp.RaiseType)
}

func TestWorksheetMintsIDWhenMissing(t *testing.T) {
	alloc := identifier.NewAllocator()
	alloc.Seed([]string{"YT000041"})
	b := NewWorksheetBuilder(testutil.Lookups(), alloc)

	row := worksheetRow()
	row["CMTI_ID"] = nil
	graph, err := b.BuildRow(row)
	require.NoError(t, err)
	assert.Equal(t, "YT000042", graph.Mine.CMTIID)
}

func TestWorksheetRejectsMalformedID(t *testing.T) {
	b := NewWorksheetBuilder(testutil.Lookups(), identifier.NewAllocator())
	row := worksheetRow()
	row["CMTI_ID"] = "YT-7"
	_, err := b.BuildRow(row)
	assert.ErrorAs(t, err, new(*domain.MalformedIdentifierError))
}

func TestWorksheetColumnCountsConfigurable(t *testing.T) {
	b := NewWorksheetBuilder(testutil.Lookups(), identifier.NewAllocator())
	b.CommodityCols = 1

	graph, err := b.BuildRow(worksheetRow())
	require.NoError(t, err)

	// Commodity2 sits past the configured family width
	require.Len(t, graph.Commodities, 1)
	assert.Equal(t, "Zn", graph.Commodities[0].Commodity)
}

func TestShiftFamilies(t *testing.T) {
	row := domain.Row{
		"Source_1": nil, "Source_1_ID": nil, "Source_1_Link": nil,
		"Source_2": "A", "Source_2_ID": "a1", "Source_2_Link": "la",
		"Source_3": nil, "Source_3_ID": nil, "Source_3_Link": nil,
		"Source_4": "B", "Source_4_ID": nil, "Source_4_Link": "lb",
	}
	cols := []string{
		"Source_1", "Source_1_ID", "Source_1_Link",
		"Source_2", "Source_2_ID", "Source_2_Link",
		"Source_3", "Source_3_ID", "Source_3_Link",
		"Source_4", "Source_4_ID", "Source_4_Link",
	}
	shiftFamilies(row, cols, 3)

	assert.Equal(t, "A", row["Source_1"])
	assert.Equal(t, "a1", row["Source_1_ID"])
	assert.Equal(t, "B", row["Source_2"])
	assert.Nil(t, row["Source_2_ID"])
	assert.Equal(t, "lb", row["Source_2_Link"])
	assert.Nil(t, row["Source_3"])
	assert.Nil(t, row["Source_4"])
}
