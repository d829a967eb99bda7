package domain

import "context"

// InventoryRepository is the persistence collaborator for site graphs. The
// pipeline hands it unpersisted graphs and queries it for existing
// identifiers when seeding the allocator.
type InventoryRepository interface {
	// ListMineIDs returns every jurisdictional identifier currently stored.
	ListMineIDs(ctx context.Context) ([]string, error)
	// SaveGraph persists one site graph. Graphs are saved row by row;
	// a failed row does not roll back rows saved before it.
	SaveGraph(ctx context.Context, g *SiteGraph) error
	// ListGraphs reloads every stored site graph, mine by mine.
	ListGraphs(ctx context.Context) ([]*SiteGraph, error)
}

// ImportRunRepository records provenance for completed import runs.
type ImportRunRepository interface {
	RecordRun(ctx context.Context, run *ImportRun) error
}
