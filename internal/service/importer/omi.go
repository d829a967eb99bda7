package importer

import (
	"strings"

	"github.com/djewell11/cmti-tools/internal/domain"
	"github.com/djewell11/cmti-tools/internal/service/coerce"
	"github.com/djewell11/cmti-tools/internal/service/identifier"
)

// OMIBuilder maps the Ontario Mineral Inventory export onto site graphs.
// Every OMI site is in Ontario, so identifiers are always minted under ON.
type OMIBuilder struct {
	lookups *domain.Lookups
	alloc   *identifier.Allocator
}

func NewOMIBuilder(lookups *domain.Lookups, alloc *identifier.Allocator) *OMIBuilder {
	return &OMIBuilder{lookups: lookups, alloc: alloc}
}

func (b *OMIBuilder) Source() string { return "omi" }

func (b *OMIBuilder) CleanOptions() CleanOptions {
	return CleanOptions{
		RequiredColumns: []string{"NAME", "LATITUDE", "LONGITUDE"},
		Spec: coerce.Spec{
			{Name: "NAME", Kind: coerce.String},
			{Name: "LATITUDE", Kind: coerce.Float},
			{Name: "LONGITUDE", Kind: coerce.Float},
			{Name: "UTM_ZONE", Kind: coerce.Int},
			{Name: "EASTING", Kind: coerce.Float},
			{Name: "NORTHING", Kind: coerce.Float},
		},
		DeriveUTMZone:   true,
		LongitudeColumn: "LONGITUDE",
		UTMZoneColumn:   "UTM_ZONE",
	}
}

func (b *OMIBuilder) BuildRow(row domain.Row) (*domain.SiteGraph, error) {
	id := b.alloc.Next("ON")

	lat, _ := row.Float("LATITUDE")
	lon, _ := row.Float("LONGITUDE")
	mine := &domain.Mine{
		CMTIID:           id,
		Name:             row.String("NAME"),
		ProvTerr:         "ON",
		Latitude:         lat,
		Longitude:        lon,
		UTMZone:          intPtr(row, "UTM_ZONE"),
		Easting:          floatPtr(row, "EASTING"),
		Northing:         floatPtr(row, "NORTHING"),
		MineStatus:       strVal(row, "STATUS"),
		DevelopmentStage: strVal(row, "DEV_STAGE"),
		MiningDistrict:   strVal(row, "RGP_DIST"),
	}

	graph := &domain.SiteGraph{Mine: mine}

	// ALL_NAMES repeats the primary name; skip it when splitting aliases.
	for _, alias := range splitList(strVal(row, "ALL_NAMES")) {
		if strings.EqualFold(alias, mine.Name) {
			continue
		}
		graph.Aliases = append(graph.Aliases, &domain.Alias{Alias: alias})
	}

	seen := map[string]bool{}
	for _, col := range []string{"P_COMMOD", "S_COMMOD"} {
		for _, name := range splitList(strVal(row, col)) {
			rec := buildCommodity(b.lookups, name)
			if seen[rec.Commodity] {
				continue
			}
			seen[rec.Commodity] = true
			graph.Commodities = append(graph.Commodities, rec)
		}
	}

	if mdi := strVal(row, "MDI_IDENT"); mdi != "" {
		graph.References = append(graph.References, &domain.Reference{
			Source:   "Ontario Mineral Inventory",
			SourceID: mdi,
		})
	}

	graph.Facilities = append(graph.Facilities, defaultFacility(row, mine))
	return graph, nil
}
