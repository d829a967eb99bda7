package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/djewell11/cmti-tools/internal/domain"
)

// ReadTable parses CSV into a table. The first record is the header; cells
// stay strings for the coercion engine to type.
func ReadTable(r io.Reader) (*domain.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, domain.ErrValidation("input table is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	t := &domain.Table{Columns: header}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(t.Rows)+2, err)
		}
		row := make(domain.Row, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = nil
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// CSVLoader returns a TableLoader that re-reads path on every call, so
// scheduled imports pick up replaced files.
func CSVLoader(path string) TableLoader {
	return func(ctx context.Context) (*domain.Table, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open source file: %w", err)
		}
		defer f.Close()
		return ReadTable(f)
	}
}
