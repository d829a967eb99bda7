package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/djewell11/cmti-tools/internal/domain"
)

// InventoryRepo persists site graphs in SQLite. Saving a graph replaces
// the mine's previous child records, so re-importing a source is
// idempotent.
type InventoryRepo struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewInventoryRepo(db *sql.DB, logger *slog.Logger) *InventoryRepo {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &InventoryRepo{db: db, logger: logger}
}

var _ domain.InventoryRepository = (*InventoryRepo)(nil)

// ListMineIDs returns every site identifier in the inventory.
func (r *InventoryRepo) ListMineIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT cmti_id FROM mines ORDER BY cmti_id`)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SaveGraph writes one site graph in a single transaction. The mine row is
// upserted; child records are replaced wholesale.
func (r *InventoryRepo) SaveGraph(ctx context.Context, g *domain.SiteGraph) error {
	if err := g.Validate(); err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := upsertMine(ctx, tx, g.Mine); err != nil {
		return fmt.Errorf("save mine %s: %w", g.Mine.CMTIID, err)
	}
	if err := replaceChildren(ctx, tx, g); err != nil {
		return fmt.Errorf("save children of %s: %w", g.Mine.CMTIID, err)
	}

	if err := tx.Commit(); err != nil {
		return mapDBError(err)
	}
	r.logger.Debug("saved site graph", "cmti_id", g.Mine.CMTIID, "records", g.Len())
	return nil
}

func upsertMine(ctx context.Context, tx *sql.Tx, m *domain.Mine) error {
	var lastRevised sql.NullTime
	if m.LastRevised != nil {
		lastRevised = sql.NullTime{Time: *m.LastRevised, Valid: true}
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO mines (
			cmti_id, name, prov_terr, latitude, longitude, last_revised,
			nad, utm_zone, easting, northing, nts_area, mining_district,
			mine_type, mine_status, mining_method, development_stage,
			site_access, processing_method,
			construction_year, year_opened, year_closed,
			orebody_type, orebody_class, orebody_minerals,
			ore_processed, ore_processed_unit, shaft_depth,
			forcing_features, rehab_plan, notes, data_grade
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (cmti_id) DO UPDATE SET
			name = excluded.name,
			prov_terr = excluded.prov_terr,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			last_revised = excluded.last_revised,
			nad = excluded.nad,
			utm_zone = excluded.utm_zone,
			easting = excluded.easting,
			northing = excluded.northing,
			nts_area = excluded.nts_area,
			mining_district = excluded.mining_district,
			mine_type = excluded.mine_type,
			mine_status = excluded.mine_status,
			mining_method = excluded.mining_method,
			development_stage = excluded.development_stage,
			site_access = excluded.site_access,
			processing_method = excluded.processing_method,
			construction_year = excluded.construction_year,
			year_opened = excluded.year_opened,
			year_closed = excluded.year_closed,
			orebody_type = excluded.orebody_type,
			orebody_class = excluded.orebody_class,
			orebody_minerals = excluded.orebody_minerals,
			ore_processed = excluded.ore_processed,
			ore_processed_unit = excluded.ore_processed_unit,
			shaft_depth = excluded.shaft_depth,
			forcing_features = excluded.forcing_features,
			rehab_plan = excluded.rehab_plan,
			notes = excluded.notes,
			data_grade = excluded.data_grade`,
		m.CMTIID, m.Name, m.ProvTerr, m.Latitude, m.Longitude, lastRevised,
		nullInt(m.NAD), nullInt(m.UTMZone), nullFloat(m.Easting), nullFloat(m.Northing),
		nullStr(m.NTSArea), nullStr(m.MiningDistrict),
		nullStr(m.MineType), nullStr(m.MineStatus), nullStr(m.MiningMethod),
		nullStr(m.DevelopmentStage), nullStr(m.SiteAccess), nullStr(m.ProcessingMethod),
		nullInt(m.ConstructionYear), nullInt(m.YearOpened), nullInt(m.YearClosed),
		nullStr(m.OrebodyType), nullStr(m.OrebodyClass), nullStr(m.OrebodyMinerals),
		nullFloat(m.OreProcessed), nullStr(m.OreProcessedUnit), nullFloat(m.ShaftDepth),
		nullStr(m.ForcingFeatures), nullBool(m.RehabPlan), nullStr(m.Notes),
		nullFloat(m.DataGrade),
	)
	return mapDBError(err)
}

func replaceChildren(ctx context.Context, tx *sql.Tx, g *domain.SiteGraph) error {
	id := g.Mine.CMTIID

	// Facilities cascade to impoundments and associations, but a facility
	// shared with another mine must survive this mine's re-import; only
	// the association is dropped.
	_, err := tx.ExecContext(ctx, `
		DELETE FROM tailings_facilities
		WHERE id IN (SELECT facility_id FROM tsf_mine_associations WHERE cmti_id = ?)
		  AND id NOT IN (SELECT facility_id FROM tsf_mine_associations WHERE cmti_id <> ?)`,
		id, id)
	if err != nil {
		return mapDBError(err)
	}

	deletes := []string{
		`DELETE FROM tsf_mine_associations WHERE cmti_id = ?`,
		`DELETE FROM mine_aliases WHERE cmti_id = ?`,
		`DELETE FROM owner_associations WHERE cmti_id = ?`,
		`DELETE FROM commodities WHERE cmti_id = ?`,
		`DELETE FROM source_references WHERE cmti_id = ?`,
		`DELETE FROM orebodies WHERE cmti_id = ?`,
	}
	for _, q := range deletes {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return mapDBError(err)
		}
	}

	for _, a := range g.Aliases {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO mine_aliases (cmti_id, alias) VALUES (?, ?)`, id, a.Alias)
		if err != nil {
			return mapDBError(err)
		}
	}

	for _, assoc := range g.Owners {
		ownerID, err := upsertOwner(ctx, tx, assoc.Owner.Name)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO owner_associations (cmti_id, owner_id, is_current_owner, start_year, end_year)
			VALUES (?, ?, ?, ?, ?)`,
			id, ownerID, boolToInt(assoc.IsCurrentOwner),
			nullInt(assoc.StartYear), nullInt(assoc.EndYear))
		if err != nil {
			return mapDBError(err)
		}
	}

	for _, c := range g.Commodities {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO commodities (
				cmti_id, commodity, grade, grade_unit, produced, produced_unit,
				contained, contained_unit, metal_type, is_critical,
				source, source_id, source_year_start, source_year_end
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, c.Commodity, nullFloat(c.Grade), nullStr(c.GradeUnit),
			nullFloat(c.Produced), nullStr(c.ProducedUnit),
			nullFloat(c.Contained), nullStr(c.ContainedUnit),
			nullStr(c.MetalType), boolToInt(c.IsCritical),
			nullStr(c.Source), nullStr(c.SourceID),
			nullInt(c.SourceYearStart), nullInt(c.SourceYearEnd))
		if err != nil {
			return mapDBError(err)
		}
	}

	for _, ref := range g.References {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO source_references (cmti_id, source, source_id, link)
			VALUES (?, ?, ?, ?)`,
			id, ref.Source, nullStr(ref.SourceID), nullStr(ref.Link))
		if err != nil {
			return mapDBError(err)
		}
	}

	for _, ob := range g.Orebodies {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO orebodies (cmti_id, ore_type, ore_class, minerals, ore_processed)
			VALUES (?, ?, ?, ?, ?)`,
			id, nullStr(ob.OreType), nullStr(ob.OreClass), nullStr(ob.Minerals),
			nullFloat(ob.OreProcessed))
		if err != nil {
			return mapDBError(err)
		}
	}

	for _, f := range g.Facilities {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO tailings_facilities (name, status, hazard_class, latitude, longitude, is_default)
			VALUES (?, ?, ?, ?, ?, ?)`,
			f.Name, nullStr(f.Status), nullStr(f.HazardClass),
			nullFloat(f.Latitude), nullFloat(f.Longitude), boolToInt(f.IsDefault))
		if err != nil {
			return mapDBError(err)
		}
		facilityID, err := res.LastInsertId()
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO tsf_mine_associations (cmti_id, facility_id) VALUES (?, ?)`,
			id, facilityID)
		if err != nil {
			return mapDBError(err)
		}
		for _, imp := range f.Impoundments {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO impoundments (
					facility_id, cmti_id, name, is_default,
					area, area_from_images, area_notes, raise_type,
					capacity, volume, storage_method, max_height,
					acid_generating, treatment, rating_index, stability_concerns
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				facilityID, id, imp.Name, boolToInt(imp.IsDefault),
				nullFloat(imp.Area), nullFloat(imp.AreaFromImages),
				nullStr(imp.AreaNotes), nullStr(imp.RaiseType),
				nullFloat(imp.Capacity), nullFloat(imp.Volume),
				nullStr(imp.StorageMethod), nullFloat(imp.MaxHeight),
				nullBool(imp.AcidGenerating), nullStr(imp.Treatment),
				nullStr(imp.RatingIndex), nullStr(imp.StabilityConcerns))
			if err != nil {
				return mapDBError(err)
			}
		}
	}
	return nil
}

func upsertOwner(ctx context.Context, tx *sql.Tx, name string) (int64, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO owners (name) VALUES (?) ON CONFLICT (name) DO NOTHING`, name)
	if err != nil {
		return 0, mapDBError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return res.LastInsertId()
	}
	var id int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM owners WHERE name = ?`, name).Scan(&id)
	return id, mapDBError(err)
}

// ListGraphs reconstructs every site graph in the inventory, ordered by
// identifier. Intended for exports; the whole inventory fits comfortably
// in memory.
func (r *InventoryRepo) ListGraphs(ctx context.Context) ([]*domain.SiteGraph, error) {
	mines, err := r.listMines(ctx)
	if err != nil {
		return nil, err
	}

	graphs := make([]*domain.SiteGraph, 0, len(mines))
	for _, m := range mines {
		g := &domain.SiteGraph{Mine: m}
		if err := r.loadChildren(ctx, g); err != nil {
			return nil, fmt.Errorf("load children of %s: %w", m.CMTIID, err)
		}
		graphs = append(graphs, g)
	}
	return graphs, nil
}

func (r *InventoryRepo) listMines(ctx context.Context) ([]*domain.Mine, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT cmti_id, name, prov_terr, latitude, longitude, last_revised,
			nad, utm_zone, easting, northing, nts_area, mining_district,
			mine_type, mine_status, mining_method, development_stage,
			site_access, processing_method,
			construction_year, year_opened, year_closed,
			orebody_type, orebody_class, orebody_minerals,
			ore_processed, ore_processed_unit, shaft_depth,
			forcing_features, rehab_plan, notes, data_grade
		FROM mines ORDER BY cmti_id`)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()

	var mines []*domain.Mine
	for rows.Next() {
		var m domain.Mine
		var lastRevised sql.NullTime
		var nad, utmZone, constructionYear, yearOpened, yearClosed, rehabPlan sql.NullInt64
		var easting, northing, oreProcessed, shaftDepth, dataGrade sql.NullFloat64
		var ntsArea, miningDistrict, mineType, mineStatus, miningMethod sql.NullString
		var devStage, siteAccess, processingMethod sql.NullString
		var orebodyType, orebodyClass, orebodyMinerals, oreProcessedUnit sql.NullString
		var forcingFeatures, notes sql.NullString

		err := rows.Scan(
			&m.CMTIID, &m.Name, &m.ProvTerr, &m.Latitude, &m.Longitude, &lastRevised,
			&nad, &utmZone, &easting, &northing, &ntsArea, &miningDistrict,
			&mineType, &mineStatus, &miningMethod, &devStage,
			&siteAccess, &processingMethod,
			&constructionYear, &yearOpened, &yearClosed,
			&orebodyType, &orebodyClass, &orebodyMinerals,
			&oreProcessed, &oreProcessedUnit, &shaftDepth,
			&forcingFeatures, &rehabPlan, &notes, &dataGrade)
		if err != nil {
			return nil, err
		}

		if lastRevised.Valid {
			t := lastRevised.Time.UTC()
			m.LastRevised = &t
		}
		m.NAD = intFromNull(nad)
		m.UTMZone = intFromNull(utmZone)
		m.Easting = floatFromNull(easting)
		m.Northing = floatFromNull(northing)
		m.NTSArea = strFromNull(ntsArea)
		m.MiningDistrict = strFromNull(miningDistrict)
		m.MineType = strFromNull(mineType)
		m.MineStatus = strFromNull(mineStatus)
		m.MiningMethod = strFromNull(miningMethod)
		m.DevelopmentStage = strFromNull(devStage)
		m.SiteAccess = strFromNull(siteAccess)
		m.ProcessingMethod = strFromNull(processingMethod)
		m.ConstructionYear = intFromNull(constructionYear)
		m.YearOpened = intFromNull(yearOpened)
		m.YearClosed = intFromNull(yearClosed)
		m.OrebodyType = strFromNull(orebodyType)
		m.OrebodyClass = strFromNull(orebodyClass)
		m.OrebodyMinerals = strFromNull(orebodyMinerals)
		m.OreProcessed = floatFromNull(oreProcessed)
		m.OreProcessedUnit = strFromNull(oreProcessedUnit)
		m.ShaftDepth = floatFromNull(shaftDepth)
		m.ForcingFeatures = strFromNull(forcingFeatures)
		m.RehabPlan = boolFromNull(rehabPlan)
		m.Notes = strFromNull(notes)
		m.DataGrade = floatFromNull(dataGrade)

		mines = append(mines, &m)
	}
	return mines, rows.Err()
}

func (r *InventoryRepo) loadChildren(ctx context.Context, g *domain.SiteGraph) error {
	id := g.Mine.CMTIID

	rows, err := r.db.QueryContext(ctx,
		`SELECT alias FROM mine_aliases WHERE cmti_id = ? ORDER BY id`, id)
	if err != nil {
		return mapDBError(err)
	}
	for rows.Next() {
		var a domain.Alias
		if err := rows.Scan(&a.Alias); err != nil {
			rows.Close()
			return err
		}
		g.Aliases = append(g.Aliases, &a)
	}
	rows.Close()

	rows, err = r.db.QueryContext(ctx, `
		SELECT o.name, oa.is_current_owner, oa.start_year, oa.end_year
		FROM owner_associations oa JOIN owners o ON o.id = oa.owner_id
		WHERE oa.cmti_id = ? ORDER BY oa.id`, id)
	if err != nil {
		return mapDBError(err)
	}
	for rows.Next() {
		var name string
		var current int64
		var start, end sql.NullInt64
		if err := rows.Scan(&name, &current, &start, &end); err != nil {
			rows.Close()
			return err
		}
		g.Owners = append(g.Owners, &domain.OwnerAssociation{
			Owner:          &domain.Owner{Name: name},
			IsCurrentOwner: current != 0,
			StartYear:      intFromNull(start),
			EndYear:        intFromNull(end),
		})
	}
	rows.Close()

	rows, err = r.db.QueryContext(ctx, `
		SELECT commodity, grade, grade_unit, produced, produced_unit,
			contained, contained_unit, metal_type, is_critical,
			source, source_id, source_year_start, source_year_end
		FROM commodities WHERE cmti_id = ? ORDER BY id`, id)
	if err != nil {
		return mapDBError(err)
	}
	for rows.Next() {
		var c domain.CommodityRecord
		var grade, produced, contained sql.NullFloat64
		var gradeUnit, producedUnit, containedUnit, metalType, source, sourceID sql.NullString
		var critical int64
		var yearStart, yearEnd sql.NullInt64
		err := rows.Scan(&c.Commodity, &grade, &gradeUnit, &produced, &producedUnit,
			&contained, &containedUnit, &metalType, &critical,
			&source, &sourceID, &yearStart, &yearEnd)
		if err != nil {
			rows.Close()
			return err
		}
		c.Grade = floatFromNull(grade)
		c.GradeUnit = strFromNull(gradeUnit)
		c.Produced = floatFromNull(produced)
		c.ProducedUnit = strFromNull(producedUnit)
		c.Contained = floatFromNull(contained)
		c.ContainedUnit = strFromNull(containedUnit)
		c.MetalType = strFromNull(metalType)
		c.IsCritical = critical != 0
		c.Source = strFromNull(source)
		c.SourceID = strFromNull(sourceID)
		c.SourceYearStart = intFromNull(yearStart)
		c.SourceYearEnd = intFromNull(yearEnd)
		g.Commodities = append(g.Commodities, &c)
	}
	rows.Close()

	rows, err = r.db.QueryContext(ctx, `
		SELECT source, source_id, link FROM source_references
		WHERE cmti_id = ? ORDER BY id`, id)
	if err != nil {
		return mapDBError(err)
	}
	for rows.Next() {
		var ref domain.Reference
		var sourceID, link sql.NullString
		if err := rows.Scan(&ref.Source, &sourceID, &link); err != nil {
			rows.Close()
			return err
		}
		ref.SourceID = strFromNull(sourceID)
		ref.Link = strFromNull(link)
		g.References = append(g.References, &ref)
	}
	rows.Close()

	rows, err = r.db.QueryContext(ctx, `
		SELECT ore_type, ore_class, minerals, ore_processed
		FROM orebodies WHERE cmti_id = ? ORDER BY id`, id)
	if err != nil {
		return mapDBError(err)
	}
	for rows.Next() {
		var ob domain.Orebody
		var oreType, oreClass, minerals sql.NullString
		var oreProcessed sql.NullFloat64
		if err := rows.Scan(&oreType, &oreClass, &minerals, &oreProcessed); err != nil {
			rows.Close()
			return err
		}
		ob.OreType = strFromNull(oreType)
		ob.OreClass = strFromNull(oreClass)
		ob.Minerals = strFromNull(minerals)
		ob.OreProcessed = floatFromNull(oreProcessed)
		g.Orebodies = append(g.Orebodies, &ob)
	}
	rows.Close()

	return r.loadFacilities(ctx, g)
}

func (r *InventoryRepo) loadFacilities(ctx context.Context, g *domain.SiteGraph) error {
	id := g.Mine.CMTIID

	rows, err := r.db.QueryContext(ctx, `
		SELECT f.id, f.name, f.status, f.hazard_class, f.latitude, f.longitude, f.is_default
		FROM tailings_facilities f
		JOIN tsf_mine_associations a ON a.facility_id = f.id
		WHERE a.cmti_id = ? ORDER BY f.id`, id)
	if err != nil {
		return mapDBError(err)
	}
	type facRow struct {
		dbID int64
		fac  *domain.TailingsFacility
	}
	var facs []facRow
	for rows.Next() {
		var f domain.TailingsFacility
		var dbID int64
		var status, hazardClass sql.NullString
		var lat, lon sql.NullFloat64
		var isDefault int64
		if err := rows.Scan(&dbID, &f.Name, &status, &hazardClass, &lat, &lon, &isDefault); err != nil {
			rows.Close()
			return err
		}
		f.CMTIID = id
		f.Status = strFromNull(status)
		f.HazardClass = strFromNull(hazardClass)
		f.Latitude = floatFromNull(lat)
		f.Longitude = floatFromNull(lon)
		f.IsDefault = isDefault != 0
		facs = append(facs, facRow{dbID: dbID, fac: &f})
	}
	rows.Close()

	for _, fr := range facs {
		rows, err := r.db.QueryContext(ctx, `
			SELECT name, is_default, area, area_from_images, area_notes, raise_type,
				capacity, volume, storage_method, max_height,
				acid_generating, treatment, rating_index, stability_concerns
			FROM impoundments WHERE facility_id = ? ORDER BY id`, fr.dbID)
		if err != nil {
			return mapDBError(err)
		}
		for rows.Next() {
			var imp domain.Impoundment
			var isDefault int64
			var area, areaFromImages, capacity, volume, maxHeight sql.NullFloat64
			var areaNotes, raiseType, storageMethod, treatment, ratingIndex, stability sql.NullString
			var acidGenerating sql.NullInt64
			err := rows.Scan(&imp.Name, &isDefault, &area, &areaFromImages, &areaNotes,
				&raiseType, &capacity, &volume, &storageMethod, &maxHeight,
				&acidGenerating, &treatment, &ratingIndex, &stability)
			if err != nil {
				rows.Close()
				return err
			}
			imp.CMTIID = id
			imp.IsDefault = isDefault != 0
			imp.Area = floatFromNull(area)
			imp.AreaFromImages = floatFromNull(areaFromImages)
			imp.AreaNotes = strFromNull(areaNotes)
			imp.RaiseType = strFromNull(raiseType)
			imp.Capacity = floatFromNull(capacity)
			imp.Volume = floatFromNull(volume)
			imp.StorageMethod = strFromNull(storageMethod)
			imp.MaxHeight = floatFromNull(maxHeight)
			imp.AcidGenerating = boolFromNull(acidGenerating)
			imp.Treatment = strFromNull(treatment)
			imp.RatingIndex = strFromNull(ratingIndex)
			imp.StabilityConcerns = strFromNull(stability)
			fr.fac.Impoundments = append(fr.fac.Impoundments, &imp)
		}
		rows.Close()
		g.Facilities = append(g.Facilities, fr.fac)
	}
	return nil
}
