// Package importer turns raw source tables into inventory site records.
// Each data source has a RowBuilder that maps its column layout onto the
// shared site graph; the Pipeline handles the source-independent work of
// cleaning, grading, and persisting.
package importer

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/djewell11/cmti-tools/internal/domain"
	"github.com/djewell11/cmti-tools/internal/service/coerce"
	"github.com/djewell11/cmti-tools/internal/service/identifier"
	"github.com/djewell11/cmti-tools/internal/service/quality"
	"github.com/djewell11/cmti-tools/internal/service/units"
)

// UnitTarget requests conversion of one column into a desired unit.
// Assume names the unit taken for bare numbers in the column.
type UnitTarget struct {
	Unit   string
	Assume string
}

// CleanOptions declares the source-specific cleaning a table needs before
// its rows can be built.
type CleanOptions struct {
	// RequiredColumns must exist in the table; rows with a null value in
	// any of them are dropped.
	RequiredColumns []string
	// NullSentinels are literal strings the source writes for missing
	// values ("Null", "N/A"); they become real nulls before coercion.
	NullSentinels []string
	// Spec drives type coercion. Columns outside the spec pass through.
	Spec coerce.Spec
	// DeriveUTMZone fills UTMZoneColumn from LongitudeColumn when the
	// zone is missing.
	DeriveUTMZone   bool
	LongitudeColumn string
	UTMZoneColumn   string
	// UnitTargets converts measured columns into canonical units.
	UnitTargets map[string]UnitTarget
	// UnitSuffixTargets applies a target to every column whose name ends
	// with the suffix ("_Produced"). Exact UnitTargets entries win.
	UnitSuffixTargets map[string]UnitTarget
	// IdentifierColumn names the column carrying pre-assigned site
	// identifiers, for sources that have them. The allocator is seeded
	// from it so minted identifiers skip past the batch's own.
	IdentifierColumn string
}

// RowBuilder adapts one source's column layout to the inventory model.
type RowBuilder interface {
	// Source names the data source for logging and run records.
	Source() string
	// CleanOptions declares the cleaning this source's tables need.
	CleanOptions() CleanOptions
	// BuildRow maps one cleaned row onto a site graph.
	BuildRow(row domain.Row) (*domain.SiteGraph, error)
}

// RunResult summarizes one import run.
type RunResult struct {
	Run        *domain.ImportRun
	Violations []quality.Violation
}

// Pipeline wires the shared import services together.
type Pipeline struct {
	units   *units.Registry
	alloc   *identifier.Allocator
	grader  *quality.Grader
	lookups *domain.Lookups
	repo    domain.InventoryRepository
	runs    domain.ImportRunRepository
	vocab   quality.Vocabulary
	logger  *slog.Logger
}

func NewPipeline(
	reg *units.Registry,
	alloc *identifier.Allocator,
	grader *quality.Grader,
	lookups *domain.Lookups,
	repo domain.InventoryRepository,
	runs domain.ImportRunRepository,
	vocab quality.Vocabulary,
	logger *slog.Logger,
) *Pipeline {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{
		units:   reg,
		alloc:   alloc,
		grader:  grader,
		lookups: lookups,
		repo:    repo,
		runs:    runs,
		vocab:   vocab,
		logger:  logger,
	}
}

// Clean prepares a raw table for row building: verifies required columns,
// drops rows missing required values, coerces types, derives missing UTM
// zones, and converts measured columns to canonical units. The input table
// is not modified.
func (p *Pipeline) Clean(t *domain.Table, opts CleanOptions) (*domain.Table, error) {
	for _, col := range opts.RequiredColumns {
		if !t.HasColumn(col) {
			return nil, domain.ErrValidation("required column %q missing from table", col)
		}
	}

	engine, err := coerce.NewEngine(opts.Spec, p.logger)
	if err != nil {
		return nil, err
	}
	targets, err := p.resolveUnitTargets(t, opts)
	if err != nil {
		return nil, err
	}

	out := t.Clone()
	if len(opts.NullSentinels) > 0 {
		nullStrings(out, opts.NullSentinels...)
	}

	// Units convert before type coercion so a cell's own unit ("450 ha")
	// reaches the registry instead of being stripped as text. Dimension
	// mismatches are fatal; unparseable cells fall through to the
	// column's default.
	for _, row := range out.Rows {
		for col, target := range targets {
			if row.IsNull(col) {
				continue
			}
			v, err := p.units.Convert(row[col], target.Unit, units.ConvertOptions{
				DimensionlessUnit: target.Assume,
			})
			if err != nil {
				var mismatch *domain.UnitMismatchError
				if errors.As(err, &mismatch) {
					return nil, err
				}
				continue
			}
			row[col] = v
		}
	}

	out = engine.CleanTable(out)

	kept := out.Rows[:0]
	for i, row := range out.Rows {
		if missing := firstNull(row, opts.RequiredColumns); missing != "" {
			p.logger.Debug("dropping row with missing required value",
				"row", i, "column", missing)
			continue
		}
		kept = append(kept, row)
	}
	out.Rows = kept

	for _, row := range out.Rows {
		if opts.DeriveUTMZone && row.IsNull(opts.UTMZoneColumn) {
			if lon, ok := row.Float(opts.LongitudeColumn); ok {
				row[opts.UTMZoneColumn] = UTMZone(lon)
			}
		}
	}
	return out, nil
}

// resolveUnitTargets expands suffix targets against the table's columns
// and verifies every desired unit is known before any cell converts.
func (p *Pipeline) resolveUnitTargets(t *domain.Table, opts CleanOptions) (map[string]UnitTarget, error) {
	targets := make(map[string]UnitTarget, len(opts.UnitTargets))
	for _, col := range t.Columns {
		for suffix, target := range opts.UnitSuffixTargets {
			if strings.HasSuffix(col, suffix) {
				targets[col] = target
			}
		}
	}
	for col, target := range opts.UnitTargets {
		targets[col] = target
	}
	for col, target := range targets {
		if _, ok := p.units.Lookup(target.Unit); !ok {
			return nil, domain.ErrValidation("unknown target unit %q for column %s", target.Unit, col)
		}
	}
	return targets, nil
}

// Run imports one table through a source's row builder. The identifier
// allocator is seeded from the inventory first, so minted identifiers
// never collide with existing sites. Rows whose builder fails are dropped
// and logged; persistence failures abort the run.
func (p *Pipeline) Run(ctx context.Context, builder RowBuilder, t *domain.Table) (*RunResult, error) {
	run := &domain.ImportRun{
		ID:        uuid.NewString(),
		Source:    builder.Source(),
		RowsIn:    len(t.Rows),
		StartedAt: time.Now().UTC(),
	}
	logger := p.logger.With("source", run.Source, "run_id", run.ID)

	existing, err := p.repo.ListMineIDs(ctx)
	if err != nil {
		return nil, err
	}
	p.alloc.Seed(existing)

	opts := builder.CleanOptions()
	cleaned, err := p.Clean(t, opts)
	if err != nil {
		return nil, err
	}
	run.RowsDropped = run.RowsIn - len(cleaned.Rows)

	if opts.IdentifierColumn != "" {
		ids := make([]string, 0, len(cleaned.Rows))
		for _, row := range cleaned.Rows {
			if !row.IsNull(opts.IdentifierColumn) {
				ids = append(ids, row.String(opts.IdentifierColumn))
			}
		}
		p.alloc.Seed(ids)
	}

	violations := quality.CheckCategorical(cleaned, p.vocab)
	for _, v := range violations {
		logger.Warn("categorical value outside vocabulary",
			"row", v.Row, "column", v.Column, "value", v.Value)
	}

	for i, row := range cleaned.Rows {
		graph, err := builder.BuildRow(row)
		if err != nil {
			logger.Warn("dropping row that failed to build", "row", i, "error", err)
			run.RowsDropped++
			continue
		}
		if err := graph.Validate(); err != nil {
			logger.Warn("dropping invalid site graph", "row", i, "error", err)
			run.RowsDropped++
			continue
		}
		score := p.grader.Grade(row)
		grade := score.Overall
		graph.Mine.DataGrade = &grade

		if err := p.repo.SaveGraph(ctx, graph); err != nil {
			return nil, err
		}
		run.RowsImported++
	}

	run.FinishedAt = time.Now().UTC()
	if err := p.runs.RecordRun(ctx, run); err != nil {
		return nil, err
	}
	logger.Info("import run finished",
		"rows_in", run.RowsIn,
		"rows_imported", run.RowsImported,
		"rows_dropped", run.RowsDropped)
	return &RunResult{Run: run, Violations: violations}, nil
}

// UTMZone derives the UTM zone from a longitude in decimal degrees.
func UTMZone(lon float64) int {
	return int(math.Ceil(math.Mod((lon+180)/6, 60)))
}

func firstNull(row domain.Row, cols []string) string {
	for _, col := range cols {
		if row.IsNull(col) {
			return col
		}
	}
	return ""
}
