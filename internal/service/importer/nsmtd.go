package importer

import (
	"github.com/djewell11/cmti-tools/internal/domain"
	"github.com/djewell11/cmti-tools/internal/service/coerce"
	"github.com/djewell11/cmti-tools/internal/service/identifier"
)

// tailingsDensity approximates settled hard-rock tailings, in tonnes per
// cubic metre. Used to estimate volume for sources that only report mass.
const tailingsDensity = 1.5

// NSMTDBuilder maps the Nova Scotia Mine Tailings Database onto site
// graphs. Every site is in Nova Scotia. Operating periods arrive as a
// single text range ("1876-1918"), areas in hectares, and tailings as
// tonnes rather than volume.
type NSMTDBuilder struct {
	lookups *domain.Lookups
	alloc   *identifier.Allocator
}

func NewNSMTDBuilder(lookups *domain.Lookups, alloc *identifier.Allocator) *NSMTDBuilder {
	return &NSMTDBuilder{lookups: lookups, alloc: alloc}
}

func (b *NSMTDBuilder) Source() string { return "nsmtd" }

func (b *NSMTDBuilder) CleanOptions() CleanOptions {
	return CleanOptions{
		RequiredColumns: []string{"Site", "Latitude", "Longitude"},
		Spec: coerce.Spec{
			{Name: "Site", Kind: coerce.String},
			{Name: "Latitude", Kind: coerce.Float},
			{Name: "Longitude", Kind: coerce.Float},
			{Name: "Area_Ha", Kind: coerce.Float},
			{Name: "Tailings_Tonnes", Kind: coerce.Float},
		},
		UnitTargets: map[string]UnitTarget{
			"Area_Ha": {Unit: "km2", Assume: "ha"},
		},
	}
}

func (b *NSMTDBuilder) BuildRow(row domain.Row) (*domain.SiteGraph, error) {
	id := b.alloc.Next("NS")

	lat, _ := row.Float("Latitude")
	lon, _ := row.Float("Longitude")
	mine := &domain.Mine{
		CMTIID:    id,
		Name:      row.String("Site"),
		ProvTerr:  "NS",
		Latitude:  lat,
		Longitude: lon,
		MineType:  strVal(row, "Mine_Type"),
	}
	mine.YearOpened, mine.YearClosed = yearRange(strVal(row, "Operating_Period"))

	graph := &domain.SiteGraph{Mine: mine}

	for _, name := range splitList(strVal(row, "Commodities")) {
		graph.Commodities = append(graph.Commodities, buildCommodity(b.lookups, name))
	}

	if nsID := strVal(row, "NSMTD_ID"); nsID != "" {
		graph.References = append(graph.References, &domain.Reference{
			Source:   "Nova Scotia Mine Tailings Database",
			SourceID: nsID,
		})
	}

	fac := defaultFacility(row, mine)
	imp := fac.Impoundments[0]
	imp.Area = floatPtr(row, "Area_Ha") // already converted to km2
	if tonnes, ok := row.Float("Tailings_Tonnes"); ok {
		volume := tonnes / tailingsDensity
		imp.Volume = &volume
	}
	graph.Facilities = append(graph.Facilities, fac)
	return graph, nil
}
