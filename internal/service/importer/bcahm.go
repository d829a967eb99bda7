package importer

import (
	"fmt"

	"github.com/djewell11/cmti-tools/internal/domain"
	"github.com/djewell11/cmti-tools/internal/service/coerce"
	"github.com/djewell11/cmti-tools/internal/service/identifier"
)

// BCAHMBuilder maps the BC Abandoned and Historic Mines dataset onto site
// graphs. Every site is in British Columbia. The export writes the literal
// string "Null" for missing cells and can report two orebodies per site.
type BCAHMBuilder struct {
	lookups *domain.Lookups
	alloc   *identifier.Allocator
}

func NewBCAHMBuilder(lookups *domain.Lookups, alloc *identifier.Allocator) *BCAHMBuilder {
	return &BCAHMBuilder{lookups: lookups, alloc: alloc}
}

func (b *BCAHMBuilder) Source() string { return "bcahm" }

func (b *BCAHMBuilder) CleanOptions() CleanOptions {
	return CleanOptions{
		RequiredColumns: []string{"Name", "Latitude", "Longitude"},
		NullSentinels:   []string{"Null", "N/A"},
		Spec: coerce.Spec{
			{Name: "Name", Kind: coerce.String},
			{Name: "Latitude", Kind: coerce.Float},
			{Name: "Longitude", Kind: coerce.Float},
			{Name: "UTM_Zone", Kind: coerce.Int},
			{Name: "Easting", Kind: coerce.Float},
			{Name: "Northing", Kind: coerce.Float},
			{Name: "Year_Opened", Kind: coerce.Int},
			{Name: "Year_Closed", Kind: coerce.Int},
		},
		DeriveUTMZone:   true,
		LongitudeColumn: "Longitude",
		UTMZoneColumn:   "UTM_Zone",
	}
}

func (b *BCAHMBuilder) BuildRow(row domain.Row) (*domain.SiteGraph, error) {
	id := b.alloc.Next("BC")

	lat, _ := row.Float("Latitude")
	lon, _ := row.Float("Longitude")
	mine := &domain.Mine{
		CMTIID:     id,
		Name:       row.String("Name"),
		ProvTerr:   "BC",
		Latitude:   lat,
		Longitude:  lon,
		UTMZone:    intPtr(row, "UTM_Zone"),
		Easting:    floatPtr(row, "Easting"),
		Northing:   floatPtr(row, "Northing"),
		MineType:   strVal(row, "Mine_Type"),
		MineStatus: strVal(row, "Status"),
		YearOpened: intPtr(row, "Year_Opened"),
		YearClosed: intPtr(row, "Year_Closed"),
	}

	graph := &domain.SiteGraph{Mine: mine}

	for _, name := range splitList(strVal(row, "Commodities")) {
		graph.Commodities = append(graph.Commodities, buildCommodity(b.lookups, name))
	}

	for i := 1; i <= 2; i++ {
		ob := domain.Orebody{
			OreType:  strVal(row, fmt.Sprintf("Deposit_Type_%d", i)),
			OreClass: strVal(row, fmt.Sprintf("Deposit_Class_%d", i)),
		}
		if ob.OreType == "" && ob.OreClass == "" {
			continue
		}
		graph.Orebodies = append(graph.Orebodies, &ob)
	}

	if minfile := strVal(row, "Minfile_ID"); minfile != "" {
		graph.References = append(graph.References, &domain.Reference{
			Source:   "BC Minfile",
			SourceID: minfile,
		})
	}

	graph.Facilities = append(graph.Facilities, defaultFacility(row, mine))
	return graph, nil
}
