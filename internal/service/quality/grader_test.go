package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/djewell11/cmti-tools/internal/domain"
)

func testGrader() *Grader {
	return NewGrader(DefaultWeights(), nil)
}

func TestGradeFullyPopulatedRowScoresOne(t *testing.T) {
	row := domain.Row{
		"Mine_Type":         "Open Pit",
		"Mine_Status":       "Closed",
		"Owner_Operator":    "Acme Mining",
		"Commodity1":        "Au",
		"Au_Grade":          1.5,
		"Construction_Year": 1964,
		"Year_Opened":       1965,
		"Source_1":          "OMI",
		"Source_1_ID":       "MDI001",
		"Source_1_Link":     "https://example.org",
	}
	s := testGrader().Grade(row)
	assert.Equal(t, 1.0, s.Core)
	assert.Equal(t, 1.0, s.Commodity)
	assert.Equal(t, 1.0, s.Temporal)
	assert.Equal(t, 1.0, s.Source)
	assert.Equal(t, 1.0, s.Overall)
}

func TestGradeIsMonotonic(t *testing.T) {
	row := domain.Row{
		"Mine_Type":      nil,
		"Mine_Status":    "Closed",
		"Owner_Operator": nil,
		"Commodity1":     "Au",
	}
	before := testGrader().Grade(row)

	row["Owner_Operator"] = "Acme Mining"
	after := testGrader().Grade(row)

	assert.Greater(t, after.Core, before.Core)
	assert.GreaterOrEqual(t, after.Overall, before.Overall)
	assert.Equal(t, before.Commodity, after.Commodity)
}

func TestGradeNumberedFamiliesShareCriterion(t *testing.T) {
	// two populated commodity columns out of three present
	row := domain.Row{
		"Commodity1": "Au",
		"Commodity2": "Ag",
		"Commodity3": nil,
	}
	s := testGrader().Grade(row)
	assert.InDelta(t, 2.0/3.0, s.Commodity, 1e-9)
}

func TestGradeWeightsHeavierFieldsMore(t *testing.T) {
	g := testGrader()
	// Source_ID carries 5 points, Source carries 2
	withID := g.Grade(domain.Row{"Source_1": nil, "Source_1_ID": "x", "Source_1_Link": nil})
	withName := g.Grade(domain.Row{"Source_1": "x", "Source_1_ID": nil, "Source_1_Link": nil})
	assert.Greater(t, withID.Source, withName.Source)
}

func TestGradeEmptyCategoriesScoreZero(t *testing.T) {
	s := testGrader().Grade(domain.Row{"Unrelated": "x"})
	assert.Equal(t, 0.0, s.Overall)
	assert.Equal(t, 0.0, s.Temporal)
}

func TestCanonField(t *testing.T) {
	tests := map[string]string{
		"Commodity4":    "Commodity",
		"Au_Grade":      "Commodity_Grade",
		"Zn_Contained":  "Commodity_Contained",
		"Cu_Produced":   "Commodity_Produced",
		"Source_2":      "Source",
		"Source_2_ID":   "Source_ID",
		"Source_2_Link": "Source_Link",
		"Mine_Status":   "Mine_Status",
	}
	for col, want := range tests {
		assert.Equal(t, want, canonField(col), col)
	}
}

func TestCheckCategorical(t *testing.T) {
	table := &domain.Table{
		Columns: []string{"Mine_Status", "Site_Access"},
		Rows: []domain.Row{
			{"Mine_Status": "Active", "Site_Access": "Road"},
			{"Mine_Status": "Demolished", "Site_Access": nil},
			{"Mine_Status": "closed", "Site_Access": "Helicopter"},
			// each comma-separated value checks on its own
			{"Mine_Status": "Active, Mothballed", "Site_Access": "Road, Water"},
		},
	}
	vocab := Vocabulary{
		"Mine_Status": {"Active", "Closed", "Care and Maintenance"},
		"Site_Access": {"Road", "Water", "Air"},
	}
	got := CheckCategorical(table, vocab)
	assert.Equal(t, []Violation{
		{Row: 1, Column: "Mine_Status", Value: "Demolished"},
		{Row: 2, Column: "Site_Access", Value: "Helicopter"},
		{Row: 3, Column: "Mine_Status", Value: "Mothballed"},
	}, got)
}

func TestCheckCategoricalSkipsUnknownPlaceholders(t *testing.T) {
	table := &domain.Table{
		Columns: []string{"Mine_Status"},
		Rows: []domain.Row{
			{"Mine_Status": "Unknown"},
			{"Mine_Status": "N/A/Unknown"},
			{"Mine_Status": "Active, Unknown"},
			{"Mine_Status": " , "},
		},
	}
	vocab := Vocabulary{"Mine_Status": {"Active", "Closed"}}
	assert.Empty(t, CheckCategorical(table, vocab))
}
