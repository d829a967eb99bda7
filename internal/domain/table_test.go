package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowIsNull(t *testing.T) {
	row := Row{
		"missing-value": nil,
		"blank":         "   ",
		"nan":           math.NaN(),
		"zero":          0,
		"text":          "x",
	}
	assert.True(t, row.IsNull("absent"))
	assert.True(t, row.IsNull("missing-value"))
	assert.True(t, row.IsNull("blank"))
	assert.True(t, row.IsNull("nan"))
	assert.False(t, row.IsNull("zero"))
	assert.False(t, row.IsNull("text"))
}

func TestRowAccessors(t *testing.T) {
	now := time.Now()
	row := Row{
		"s":  "  Faro  ",
		"f":  "47.5",
		"n":  3.0,
		"nf": 3.5,
		"b":  "true",
		"t":  now,
	}

	assert.Equal(t, "Faro", row.String("s"))

	f, ok := row.Float("f")
	assert.True(t, ok)
	assert.Equal(t, 47.5, f)

	n, ok := row.Int("n")
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	// non-integral floats do not silently truncate
	_, ok = row.Int("nf")
	assert.False(t, ok)

	b, ok := row.Bool("b")
	assert.True(t, ok)
	assert.True(t, b)

	ts, ok := row.Time("t")
	assert.True(t, ok)
	assert.Equal(t, now, ts)
}

func TestTableClone(t *testing.T) {
	orig := &Table{
		Columns: []string{"A"},
		Rows:    []Row{{"A": 1}},
	}
	clone := orig.Clone()
	clone.Rows[0]["A"] = 2

	assert.Equal(t, 1, orig.Rows[0]["A"])
	assert.Equal(t, 2, clone.Rows[0]["A"])
}

func TestTableHasColumn(t *testing.T) {
	table := &Table{Columns: []string{"A", "B"}}
	assert.True(t, table.HasColumn("B"))
	assert.False(t, table.HasColumn("C"))
}

func TestSiteGraphValidate(t *testing.T) {
	valid := func() *SiteGraph {
		return &SiteGraph{
			Mine: &Mine{CMTIID: "ON000001", Name: "Kam Kotia", ProvTerr: "ON"},
			Facilities: []*TailingsFacility{
				{Name: "Kam Kotia", IsDefault: true},
			},
		}
	}

	require.NoError(t, valid().Validate())

	g := valid()
	g.Mine = nil
	assert.Error(t, g.Validate())

	g = valid()
	g.Mine.Name = ""
	assert.Error(t, g.Validate())

	g = valid()
	g.Facilities = nil
	assert.Error(t, g.Validate())

	g = valid()
	start, end := 1980, 1970
	g.Owners = []*OwnerAssociation{{
		Owner: &Owner{Name: "Acme"}, StartYear: &start, EndYear: &end,
	}}
	assert.Error(t, g.Validate())
}

func TestSiteGraphRecords(t *testing.T) {
	g := &SiteGraph{
		Mine:    &Mine{CMTIID: "ON000001", Name: "Kam Kotia"},
		Aliases: []*Alias{{Alias: "Kam-Kotia"}},
		Facilities: []*TailingsFacility{{
			Name: "Kam Kotia",
			Impoundments: []*Impoundment{
				{Name: "North Cell"},
				{Name: "South Cell"},
			},
		}},
	}
	records := g.Records()
	assert.Equal(t, 5, g.Len())

	// mine first, impoundments after their facility
	assert.Same(t, g.Mine, records[0])
	assert.IsType(t, &TailingsFacility{}, records[2])
	assert.IsType(t, &Impoundment{}, records[3])
}
