package domain

import "time"

// Mine is the root record of a site's entity graph. CMTIID, Name, ProvTerr,
// and coordinates are required; everything else is descriptive and optional.
type Mine struct {
	CMTIID    string
	Name      string
	ProvTerr  string
	Latitude  float64
	Longitude float64

	LastRevised    *time.Time
	NAD            *int
	UTMZone        *int
	Easting        *float64
	Northing       *float64
	NTSArea        string
	MiningDistrict string

	MineType         string
	MineStatus       string
	MiningMethod     string
	DevelopmentStage string
	SiteAccess       string
	ProcessingMethod string

	ConstructionYear *int
	YearOpened       *int
	YearClosed       *int

	OrebodyType      string
	OrebodyClass     string
	OrebodyMinerals  string
	OreProcessed     *float64
	OreProcessedUnit string

	ShaftDepth          *float64
	ReservesResources   string
	OtherMineralization string
	SEDAR               string
	Notes               string
	ForcingFeatures     string
	FeatureReferences   string

	NOAMIStatus    string
	NOAMISiteClass string
	HazardClass    string
	HazardSystem   string
	PRPRating      string
	RehabPlan      *bool
	EWS            string
	EWSRating      string

	DSComments string
	SAComments string

	// DataGrade is the quality score assigned by the grader, when grading
	// is enabled for the run. Range [0,1].
	DataGrade *float64
}

// Alias is an alternate name for a mine.
type Alias struct {
	Alias string
}

// Owner identifies a company or person that holds or held a mine.
type Owner struct {
	Name string
}

// OwnerAssociation links a mine to an owner with an ownership interval.
type OwnerAssociation struct {
	Owner          *Owner
	IsCurrentOwner bool
	StartYear      *int
	EndYear        *int
}

// Validate checks that the ownership interval is internally consistent.
func (a *OwnerAssociation) Validate() error {
	if a.Owner == nil || a.Owner.Name == "" {
		return ErrValidation("owner association requires an owner name")
	}
	if a.StartYear != nil && a.EndYear != nil && *a.StartYear > *a.EndYear {
		return ErrValidation("owner association years inconsistent: start %d > end %d",
			*a.StartYear, *a.EndYear)
	}
	return nil
}

// CommodityRecord describes one commodity reported for a mine. Quantities
// carry units resolved to canonical form before storage.
type CommodityRecord struct {
	Commodity string

	Grade         *float64
	GradeUnit     string
	Produced      *float64
	ProducedUnit  string
	Contained     *float64
	ContainedUnit string

	MetalType  string
	IsCritical bool

	Source          string
	SourceID        string
	SourceYearStart *int
	SourceYearEnd   *int
}

// Reference is a source attribution for a mine record.
type Reference struct {
	Source   string
	SourceID string
	Link     string
}

// Orebody carries geology metadata for a mine.
type Orebody struct {
	OreType      string
	OreClass     string
	Minerals     string
	OreProcessed *float64
}

// TailingsFacility is a tailings storage facility. Facilities relate
// many-to-many with mines; a facility created as a stand-in for a mine that
// reports no explicit tailings structure is flagged IsDefault so consumers
// can exclude it.
type TailingsFacility struct {
	CMTIID      string
	Name        string
	Status      string
	HazardClass string
	Latitude    *float64
	Longitude   *float64
	IsDefault   bool

	Impoundments []*Impoundment
}

// Impoundment is a single containment structure within a tailings facility.
type Impoundment struct {
	CMTIID    string
	Name      string
	IsDefault bool

	Area              *float64
	AreaFromImages    *float64
	AreaNotes         string
	RaiseType         string
	Capacity          *float64
	Volume            *float64
	StorageMethod     string
	MaxHeight         *float64
	AcidGenerating    *bool
	Treatment         string
	RatingIndex       string
	StabilityConcerns string
}

// SiteGraph is the set of linked records produced from one input row: a
// mine plus its attached aliases, owners, commodities, references,
// facilities, and orebodies.
type SiteGraph struct {
	Mine        *Mine
	Aliases     []*Alias
	Owners      []*OwnerAssociation
	Commodities []*CommodityRecord
	References  []*Reference
	Facilities  []*TailingsFacility
	Orebodies   []*Orebody
}

// Records flattens the graph into the list of entity objects it contains,
// mine first. Impoundments are listed after their parent facility.
func (g *SiteGraph) Records() []any {
	out := []any{g.Mine}
	for _, a := range g.Aliases {
		out = append(out, a)
	}
	for _, o := range g.Owners {
		out = append(out, o)
	}
	for _, c := range g.Commodities {
		out = append(out, c)
	}
	for _, r := range g.References {
		out = append(out, r)
	}
	for _, f := range g.Facilities {
		out = append(out, f)
		for _, imp := range f.Impoundments {
			out = append(out, imp)
		}
	}
	for _, o := range g.Orebodies {
		out = append(out, o)
	}
	return out
}

// Len reports the number of records in the graph, impoundments included.
func (g *SiteGraph) Len() int { return len(g.Records()) }

// Validate checks the graph's structural invariants: a mine must be
// present, and every mine must reference at least one tailings facility
// (a default placeholder when none is reported).
func (g *SiteGraph) Validate() error {
	if g.Mine == nil {
		return ErrValidation("site graph has no mine")
	}
	if g.Mine.Name == "" {
		return ErrValidation("mine requires a name")
	}
	if len(g.Facilities) == 0 {
		return ErrValidation("mine %q has no tailings facility, not even a default", g.Mine.Name)
	}
	for _, o := range g.Owners {
		if err := o.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ImportRun records provenance for one import run.
type ImportRun struct {
	ID           string
	Source       string
	RowsIn       int
	RowsImported int
	RowsDropped  int
	StartedAt    time.Time
	FinishedAt   time.Time
}
