// Package export renders the inventory back out in the curated worksheet
// layout, one row per mine with its default impoundment and commodities
// flattened into numbered columns.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/djewell11/cmti-tools/internal/domain"
)

const (
	commodityCols = 8
	sourceCols    = 4
)

// Writer streams site graphs as worksheet-layout CSV.
type Writer struct {
	repo domain.InventoryRepository
}

func NewWriter(repo domain.InventoryRepository) *Writer {
	return &Writer{repo: repo}
}

// WriteCSV writes the whole inventory to w, ordered by identifier.
func (e *Writer) WriteCSV(ctx context.Context, w io.Writer) error {
	graphs, err := e.repo.ListGraphs(ctx)
	if err != nil {
		return err
	}

	symbols := commoditySymbols(graphs)
	cw := csv.NewWriter(w)
	if err := cw.Write(header(symbols)); err != nil {
		return err
	}
	for _, g := range graphs {
		if err := cw.Write(record(g, symbols)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// commoditySymbols collects every commodity in the inventory, sorted, so
// each gets its own quantity column triple in the worksheet layout.
func commoditySymbols(graphs []*domain.SiteGraph) []string {
	seen := map[string]bool{}
	for _, g := range graphs {
		for _, c := range g.Commodities {
			if c.Commodity != "" {
				seen[c.Commodity] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func header(symbols []string) []string {
	h := []string{
		"CMTI_ID", "Site_Name", "Prov_Terr", "Latitude", "Longitude",
		"UTM_Zone", "Mine_Type", "Mine_Status", "Dev_Stage",
		"Owner_Operator", "Past_Owners", "Site_Aliases",
		"Construction_Year", "Year_Opened", "Year_Closed",
		"Tailings_Area", "Tailings_Capacity", "Tailings_Volume",
		"Current_Max_Height", "Raise_Type", "Tailings_Storage_Method",
		"Data_Grade",
	}
	for i := 1; i <= commodityCols; i++ {
		h = append(h, fmt.Sprintf("Commodity%d", i))
	}
	for _, sym := range symbols {
		h = append(h, sym+"_Grade", sym+"_Produced", sym+"_Contained")
	}
	for i := 1; i <= sourceCols; i++ {
		h = append(h,
			fmt.Sprintf("Source_%d", i),
			fmt.Sprintf("Source_%d_ID", i),
			fmt.Sprintf("Source_%d_Link", i),
		)
	}
	return h
}

func record(g *domain.SiteGraph, symbols []string) []string {
	m := g.Mine
	imp := defaultImpoundment(g)

	var currentOwner string
	var pastOwners []string
	for _, o := range g.Owners {
		if o.IsCurrentOwner && currentOwner == "" {
			currentOwner = o.Owner.Name
			continue
		}
		pastOwners = append(pastOwners, o.Owner.Name)
	}

	var aliases []string
	for _, a := range g.Aliases {
		aliases = append(aliases, a.Alias)
	}

	rec := []string{
		m.CMTIID, m.Name, m.ProvTerr,
		formatFloat(&m.Latitude), formatFloat(&m.Longitude),
		formatInt(m.UTMZone), m.MineType, m.MineStatus, m.DevelopmentStage,
		currentOwner, strings.Join(pastOwners, ", "), strings.Join(aliases, ", "),
		formatInt(m.ConstructionYear), formatInt(m.YearOpened), formatInt(m.YearClosed),
		formatFloat(imp.Area), formatFloat(imp.Capacity), formatFloat(imp.Volume),
		formatFloat(imp.MaxHeight), imp.RaiseType, imp.StorageMethod,
		formatFloat(m.DataGrade),
	}

	for i := 0; i < commodityCols; i++ {
		if i < len(g.Commodities) {
			rec = append(rec, g.Commodities[i].Commodity)
		} else {
			rec = append(rec, "")
		}
	}
	bySymbol := make(map[string]*domain.CommodityRecord, len(g.Commodities))
	for _, c := range g.Commodities {
		bySymbol[c.Commodity] = c
	}
	for _, sym := range symbols {
		if c, ok := bySymbol[sym]; ok {
			rec = append(rec, formatFloat(c.Grade), formatFloat(c.Produced), formatFloat(c.Contained))
		} else {
			rec = append(rec, "", "", "")
		}
	}
	for i := 0; i < sourceCols; i++ {
		if i < len(g.References) {
			r := g.References[i]
			rec = append(rec, r.Source, r.SourceID, r.Link)
		} else {
			rec = append(rec, "", "", "")
		}
	}
	return rec
}

// defaultImpoundment finds the row-level tailings figures: the default
// impoundment when one exists, otherwise the first impoundment of the
// first facility.
func defaultImpoundment(g *domain.SiteGraph) *domain.Impoundment {
	var first *domain.Impoundment
	for _, f := range g.Facilities {
		for _, imp := range f.Impoundments {
			if imp.IsDefault {
				return imp
			}
			if first == nil {
				first = imp
			}
		}
	}
	if first == nil {
		return &domain.Impoundment{}
	}
	return first
}

func formatFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func formatInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}
