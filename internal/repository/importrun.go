package repository

import (
	"context"
	"database/sql"

	"github.com/djewell11/cmti-tools/internal/domain"
)

// ImportRunRepo persists import run provenance.
type ImportRunRepo struct {
	db *sql.DB
}

func NewImportRunRepo(db *sql.DB) *ImportRunRepo {
	return &ImportRunRepo{db: db}
}

var _ domain.ImportRunRepository = (*ImportRunRepo)(nil)

func (r *ImportRunRepo) RecordRun(ctx context.Context, run *domain.ImportRun) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO import_runs (id, source, rows_in, rows_imported, rows_dropped, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Source, run.RowsIn, run.RowsImported, run.RowsDropped,
		run.StartedAt, run.FinishedAt)
	return mapDBError(err)
}
