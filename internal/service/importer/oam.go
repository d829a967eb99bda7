package importer

import (
	"github.com/djewell11/cmti-tools/internal/domain"
	"github.com/djewell11/cmti-tools/internal/service/coerce"
	"github.com/djewell11/cmti-tools/internal/service/identifier"
)

// OAMBuilder maps the national Orphaned and Abandoned Mines compilation
// onto site graphs. OAM rows span every jurisdiction, so the row's own
// Jurisdiction column drives identifier minting. OAM spells commodities
// its own way, so names convert in two stages: the OAM vocabulary first,
// then the shared element table.
type OAMBuilder struct {
	lookups *domain.Lookups
	alloc   *identifier.Allocator
}

func NewOAMBuilder(lookups *domain.Lookups, alloc *identifier.Allocator) *OAMBuilder {
	return &OAMBuilder{lookups: lookups, alloc: alloc}
}

func (b *OAMBuilder) Source() string { return "oam" }

func (b *OAMBuilder) CleanOptions() CleanOptions {
	return CleanOptions{
		RequiredColumns: []string{"Mine_Name", "Jurisdiction", "Latitude", "Longitude"},
		Spec: coerce.Spec{
			{Name: "Mine_Name", Kind: coerce.String},
			{Name: "Jurisdiction", Kind: coerce.String},
			{Name: "Latitude", Kind: coerce.Float},
			{Name: "Longitude", Kind: coerce.Float},
			{Name: "Mined_Quantity", Kind: coerce.Float},
		},
	}
}

func (b *OAMBuilder) BuildRow(row domain.Row) (*domain.SiteGraph, error) {
	id := b.alloc.Next(row.String("Jurisdiction"))

	lat, _ := row.Float("Latitude")
	lon, _ := row.Float("Longitude")
	start := checkYear(row["Year_Started"])
	end := checkYear(row["Year_Ended"])
	mine := &domain.Mine{
		CMTIID:     id,
		Name:       row.String("Mine_Name"),
		ProvTerr:   row.String("Jurisdiction"),
		Latitude:   lat,
		Longitude:  lon,
		MineStatus: strVal(row, "Status"),
		MineType:   strVal(row, "Mine_Type"),
		YearOpened: start,
		YearClosed: end,
	}

	graph := &domain.SiteGraph{Mine: mine}

	// OAM records one mined quantity per site; it lands on each of the
	// site's commodities alongside the reported operating span.
	for _, name := range splitList(strVal(row, "Commodities")) {
		rec := b.commodity(name)
		rec.Produced = floatPtr(row, "Mined_Quantity")
		rec.SourceYearStart = start
		rec.SourceYearEnd = end
		graph.Commodities = append(graph.Commodities, rec)
	}

	if op := strVal(row, "Last_Operator"); op != "" {
		graph.Owners = append(graph.Owners, &domain.OwnerAssociation{
			Owner: &domain.Owner{Name: op},
		})
	}

	if oamID := strVal(row, "OAM_ID"); oamID != "" {
		graph.References = append(graph.References, &domain.Reference{
			Source:   "Orphaned and Abandoned Mines",
			SourceID: oamID,
			Link:     strVal(row, "URL"),
		})
	}

	graph.Facilities = append(graph.Facilities, defaultFacility(row, mine))
	return graph, nil
}

// commodity resolves an OAM commodity spelling to an element symbol:
// first through the OAM vocabulary to a full element name, then through
// the shared element table to the symbol. Unrecognized names pass through
// unchanged.
func (b *OAMBuilder) commodity(name string) *domain.CommodityRecord {
	if b.lookups.OAMNames != nil {
		if full, ok := b.lookups.OAMNames.Full(name); ok {
			name = full
		}
	}
	return buildCommodity(b.lookups, name)
}
