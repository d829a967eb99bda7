// Package testutil provides mock repositories for service tests.
package testutil

import (
	"context"

	"github.com/djewell11/cmti-tools/internal/domain"
)

// MockInventoryRepo implements domain.InventoryRepository with overridable
// function fields. The zero value records saved graphs in memory.
type MockInventoryRepo struct {
	ListMineIDsFn func(ctx context.Context) ([]string, error)
	SaveGraphFn   func(ctx context.Context, g *domain.SiteGraph) error
	ListGraphsFn  func(ctx context.Context) ([]*domain.SiteGraph, error)

	Saved []*domain.SiteGraph
}

func (m *MockInventoryRepo) ListMineIDs(ctx context.Context) ([]string, error) {
	if m.ListMineIDsFn != nil {
		return m.ListMineIDsFn(ctx)
	}
	ids := make([]string, 0, len(m.Saved))
	for _, g := range m.Saved {
		ids = append(ids, g.Mine.CMTIID)
	}
	return ids, nil
}

func (m *MockInventoryRepo) SaveGraph(ctx context.Context, g *domain.SiteGraph) error {
	if m.SaveGraphFn != nil {
		return m.SaveGraphFn(ctx, g)
	}
	m.Saved = append(m.Saved, g)
	return nil
}

func (m *MockInventoryRepo) ListGraphs(ctx context.Context) ([]*domain.SiteGraph, error) {
	if m.ListGraphsFn != nil {
		return m.ListGraphsFn(ctx)
	}
	return m.Saved, nil
}

// MockImportRunRepo implements domain.ImportRunRepository.
type MockImportRunRepo struct {
	RecordRunFn func(ctx context.Context, run *domain.ImportRun) error

	Runs []*domain.ImportRun
}

func (m *MockImportRunRepo) RecordRun(ctx context.Context, run *domain.ImportRun) error {
	if m.RecordRunFn != nil {
		return m.RecordRunFn(ctx, run)
	}
	m.Runs = append(m.Runs, run)
	return nil
}

var (
	_ domain.InventoryRepository = (*MockInventoryRepo)(nil)
	_ domain.ImportRunRepository = (*MockImportRunRepo)(nil)
)

// Lookups builds a small lookup set covering the elements the test fixtures
// mention.
func Lookups() *domain.Lookups {
	elements, err := domain.NewNameTable(map[string]string{
		"Au": "Gold",
		"Ag": "Silver",
		"Cu": "Copper",
		"Zn": "Zinc",
		"Ni": "Nickel",
		"Co": "Cobalt",
	})
	if err != nil {
		panic(err)
	}
	oam, err := domain.NewNameTable(map[string]string{
		"Gold ore":   "Gold",
		"Silver ore": "Silver",
	})
	if err != nil {
		panic(err)
	}
	lookups, err := domain.NewLookups(
		[]string{"Cu", "Zn", "Ni", "Co"},
		map[string]string{
			"Au": "Precious",
			"Ag": "Precious",
			"Cu": "Base",
			"Zn": "Base",
			"Ni": "Base",
			"Co": "Base",
		},
		elements,
		oam,
	)
	if err != nil {
		panic(err)
	}
	return lookups
}
