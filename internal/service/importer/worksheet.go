package importer

import (
	"fmt"

	"github.com/djewell11/cmti-tools/internal/domain"
	"github.com/djewell11/cmti-tools/internal/service/coerce"
	"github.com/djewell11/cmti-tools/internal/service/identifier"
)

// WorksheetBuilder maps the curated inventory worksheet onto site graphs.
// The worksheet is the richest source: one row carries the mine, its
// default tailings facility and impoundment, plus numbered commodity and
// source column families.
type WorksheetBuilder struct {
	lookups *domain.Lookups
	alloc   *identifier.Allocator

	// CommodityCols and SourceCols size the numbered column families.
	// Worksheets with wider layouts override them after construction.
	CommodityCols int
	SourceCols    int
}

func NewWorksheetBuilder(lookups *domain.Lookups, alloc *identifier.Allocator) *WorksheetBuilder {
	return &WorksheetBuilder{
		lookups:       lookups,
		alloc:         alloc,
		CommodityCols: 8,
		SourceCols:    4,
	}
}

func (b *WorksheetBuilder) Source() string { return "worksheet" }

func (b *WorksheetBuilder) CleanOptions() CleanOptions {
	spec := coerce.Spec{
		{Name: "CMTI_ID", Kind: coerce.String},
		{Name: "Site_Name", Kind: coerce.String},
		{Name: "Prov_Terr", Kind: coerce.String},
		{Name: "Latitude", Kind: coerce.Float},
		{Name: "Longitude", Kind: coerce.Float},
		{Name: "NAD", Kind: coerce.Int},
		{Name: "UTM_Zone", Kind: coerce.Int},
		{Name: "Easting", Kind: coerce.Float},
		{Name: "Northing", Kind: coerce.Float},
		{Name: "Last_Revised", Kind: coerce.Date},
		{Name: "Construction_Year", Kind: coerce.Int},
		{Name: "Year_Opened", Kind: coerce.Int},
		{Name: "Year_Closed", Kind: coerce.Int},
		{Name: "Ore_Processed", Kind: coerce.Float},
		{Name: "Shaft_Depth", Kind: coerce.Float},
		{Name: "Rehab_Plan", Kind: coerce.Bool},
		{Name: "Acid_Generating", Kind: coerce.Bool},
		{Name: "Current_Max_Height", Kind: coerce.Float},
		{Name: "Tailings_Volume", Kind: coerce.Float},
		{Name: "Tailings_Capacity", Kind: coerce.Float},
		{Name: "Tailings_Area", Kind: coerce.Float},
		{Name: "Area_From_Images", Kind: coerce.Float},
	}
	return CleanOptions{
		RequiredColumns:  []string{"Site_Name", "Prov_Terr", "Latitude", "Longitude"},
		IdentifierColumn: "CMTI_ID",
		Spec:             spec,
		DeriveUTMZone:    true,
		LongitudeColumn:  "Longitude",
		UTMZoneColumn:    "UTM_Zone",
		UnitTargets: map[string]UnitTarget{
			"Tailings_Volume":    {Unit: "m3", Assume: "m3"},
			"Tailings_Capacity":  {Unit: "m3", Assume: "m3"},
			"Tailings_Area":      {Unit: "km2", Assume: "km2"},
			"Current_Max_Height": {Unit: "m", Assume: "m"},
			"Ore_Processed":      {Unit: "t", Assume: "t"},
			// precious-metal quantities report in troy ounces
			"Au_Produced":  {Unit: "oz", Assume: "oz"},
			"Au_Contained": {Unit: "oz", Assume: "oz"},
			"Ag_Produced":  {Unit: "oz", Assume: "oz"},
			"Ag_Contained": {Unit: "oz", Assume: "oz"},
		},
		UnitSuffixTargets: map[string]UnitTarget{
			"_Produced":  {Unit: "kg", Assume: "kg"},
			"_Contained": {Unit: "kg", Assume: "kg"},
		},
	}
}

func (b *WorksheetBuilder) BuildRow(row domain.Row) (*domain.SiteGraph, error) {
	id := strVal(row, "CMTI_ID")
	if id == "" {
		id = b.alloc.Next(strVal(row, "Prov_Terr"))
	} else if _, _, err := identifier.Parse(id); err != nil {
		return nil, err
	}

	lat, _ := row.Float("Latitude")
	lon, _ := row.Float("Longitude")
	mine := &domain.Mine{
		CMTIID:           id,
		Name:             strVal(row, "Site_Name"),
		ProvTerr:         strVal(row, "Prov_Terr"),
		Latitude:         lat,
		Longitude:        lon,
		NAD:              intPtr(row, "NAD"),
		UTMZone:          intPtr(row, "UTM_Zone"),
		Easting:          floatPtr(row, "Easting"),
		Northing:         floatPtr(row, "Northing"),
		MineType:         strVal(row, "Mine_Type"),
		MineStatus:       strVal(row, "Mine_Status"),
		MiningMethod:     strVal(row, "Mining_Method"),
		DevelopmentStage: strVal(row, "Dev_Stage"),
		SiteAccess:       strVal(row, "Site_Access"),
		ProcessingMethod: strVal(row, "Processing_Method"),
		ConstructionYear: intPtr(row, "Construction_Year"),
		YearOpened:       intPtr(row, "Year_Opened"),
		YearClosed:       intPtr(row, "Year_Closed"),
		OrebodyType:      strVal(row, "Orebody_Type"),
		OrebodyClass:     strVal(row, "Orebody_Class"),
		OrebodyMinerals:  strVal(row, "Ore_Minerals"),
		OreProcessed:     floatPtr(row, "Ore_Processed"),
		ShaftDepth:       floatPtr(row, "Shaft_Depth"),
		ForcingFeatures:  strVal(row, "Forcing_Features"),
		RehabPlan:        boolPtr(row, "Rehab_Plan"),
		Notes:            strVal(row, "Notes"),
	}
	if t, ok := row.Time("Last_Revised"); ok {
		mine.LastRevised = &t
	}

	graph := &domain.SiteGraph{Mine: mine}

	for _, alias := range splitList(strVal(row, "Site_Aliases")) {
		graph.Aliases = append(graph.Aliases, &domain.Alias{Alias: alias})
	}

	if owner := strVal(row, "Owner_Operator"); owner != "" {
		graph.Owners = append(graph.Owners, &domain.OwnerAssociation{
			Owner:          &domain.Owner{Name: owner},
			IsCurrentOwner: true,
		})
	}
	for _, past := range splitList(strVal(row, "Past_Owners")) {
		graph.Owners = append(graph.Owners, &domain.OwnerAssociation{
			Owner: &domain.Owner{Name: past},
		})
	}

	// Quantity columns key by the commodity itself: the cell under
	// Commodity3 names the symbol whose Au_Grade, Au_Produced, and
	// Au_Contained columns hold its numbers.
	for i := 1; i <= b.CommodityCols; i++ {
		name := strVal(row, fmt.Sprintf("Commodity%d", i))
		if name == "" {
			continue
		}
		rec := buildCommodity(b.lookups, name)
		rec.Grade = quantity(row, name+"_Grade")
		rec.Produced = quantity(row, name+"_Produced")
		rec.Contained = quantity(row, name+"_Contained")
		graph.Commodities = append(graph.Commodities, rec)
	}

	sourceCols := make([]string, 0, b.SourceCols*3)
	for i := 1; i <= b.SourceCols; i++ {
		sourceCols = append(sourceCols,
			fmt.Sprintf("Source_%d", i),
			fmt.Sprintf("Source_%d_ID", i),
			fmt.Sprintf("Source_%d_Link", i),
		)
	}
	shiftFamilies(row, sourceCols, 3)
	for i := 1; i <= b.SourceCols; i++ {
		src := strVal(row, fmt.Sprintf("Source_%d", i))
		if src == "" {
			continue
		}
		graph.References = append(graph.References, &domain.Reference{
			Source:   src,
			SourceID: strVal(row, fmt.Sprintf("Source_%d_ID", i)),
			Link:     strVal(row, fmt.Sprintf("Source_%d_Link", i)),
		})
	}

	if ob := b.orebody(row); ob != nil {
		graph.Orebodies = append(graph.Orebodies, ob)
	}

	graph.Facilities = append(graph.Facilities, defaultFacility(row, mine))
	return graph, nil
}

func (b *WorksheetBuilder) orebody(row domain.Row) *domain.Orebody {
	ob := &domain.Orebody{
		OreType:      strVal(row, "Orebody_Type"),
		OreClass:     strVal(row, "Orebody_Class"),
		Minerals:     strVal(row, "Ore_Minerals"),
		OreProcessed: floatPtr(row, "Ore_Processed"),
	}
	if ob.OreType == "" && ob.OreClass == "" && ob.Minerals == "" {
		return nil
	}
	return ob
}

// defaultFacility wraps a row's tailings columns in the site's default
// facility and impoundment. Sources that report tailings per-site rather
// than per-structure land here.
func defaultFacility(row domain.Row, mine *domain.Mine) *domain.TailingsFacility {
	imp := &domain.Impoundment{
		CMTIID:            mine.CMTIID,
		Name:              mine.Name,
		IsDefault:         true,
		Area:              floatPtr(row, "Tailings_Area"),
		AreaFromImages:    floatPtr(row, "Area_From_Images"),
		Capacity:          floatPtr(row, "Tailings_Capacity"),
		Volume:            floatPtr(row, "Tailings_Volume"),
		MaxHeight:         floatPtr(row, "Current_Max_Height"),
		RaiseType:         strVal(row, "Raise_Type"),
		StorageMethod:     strVal(row, "Tailings_Storage_Method"),
		AcidGenerating:    boolPtr(row, "Acid_Generating"),
		Treatment:         strVal(row, "Treatment"),
		RatingIndex:       strVal(row, "Rating_Index"),
		StabilityConcerns: strVal(row, "History_Stability_Concerns"),
	}
	return &domain.TailingsFacility{
		CMTIID:       mine.CMTIID,
		Name:         mine.Name,
		IsDefault:    true,
		Latitude:     &mine.Latitude,
		Longitude:    &mine.Longitude,
		Impoundments: []*domain.Impoundment{imp},
	}
}

// shiftFamilies left-shifts grouped column families of the given stride,
// keeping each group's columns together. Source_2's ID and link move with
// Source_2.
func shiftFamilies(row domain.Row, cols []string, stride int) {
	groups := make([][]any, 0, len(cols)/stride)
	for i := 0; i+stride <= len(cols); i += stride {
		if !row.IsNull(cols[i]) {
			group := make([]any, stride)
			for j := 0; j < stride; j++ {
				group[j] = row[cols[i+j]]
			}
			groups = append(groups, group)
		}
	}
	for i := 0; i+stride <= len(cols); i += stride {
		g := i / stride
		for j := 0; j < stride; j++ {
			if g < len(groups) {
				row[cols[i+j]] = groups[g][j]
			} else {
				row[cols[i+j]] = nil
			}
		}
	}
}
