package config

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/djewell11/cmti-tools/internal/domain"
)

// Lookup CSV files expected under the lookup directory. The OAM table is
// optional; the others are required.
const (
	criticalMineralsFile = "critical_minerals.csv"
	metalsFile           = "metals.csv"
	elementNamesFile     = "element_names.csv"
	oamNamesFile         = "oam_names.csv"
)

// LoadLookups reads the lookup CSVs from dir and assembles the lookup
// bundle. The files are independent, so they load concurrently.
func LoadLookups(dir string) (*domain.Lookups, error) {
	var (
		critical []string
		metals   map[string]string
		elements *domain.NameTable
		oamNames *domain.NameTable
	)

	var g errgroup.Group
	g.Go(func() error {
		var err error
		critical, err = loadList(filepath.Join(dir, criticalMineralsFile))
		return err
	})
	g.Go(func() error {
		var err error
		metals, err = loadPairs(filepath.Join(dir, metalsFile))
		return err
	})
	g.Go(func() error {
		pairs, err := loadPairs(filepath.Join(dir, elementNamesFile))
		if err != nil {
			return err
		}
		elements, err = domain.NewNameTable(pairs)
		return err
	})
	g.Go(func() error {
		path := filepath.Join(dir, oamNamesFile)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil
		}
		pairs, err := loadPairs(path)
		if err != nil {
			return err
		}
		oamNames, err = domain.NewNameTable(pairs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return domain.NewLookups(critical, metals, elements, oamNames)
}

// loadList reads a single-column CSV, skipping blank lines. A header row
// named "name" or "commodity" is skipped.
func loadList(path string) ([]string, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	var out []string
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		v := strings.TrimSpace(row[0])
		if v == "" || (i == 0 && isHeader(v)) {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// loadPairs reads a two-column CSV into a map. A header row is skipped.
func loadPairs(path string) (map[string]string, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for i, row := range rows {
		if len(row) < 2 {
			continue
		}
		k := strings.TrimSpace(row[0])
		v := strings.TrimSpace(row[1])
		if k == "" || v == "" || (i == 0 && isHeader(k)) {
			continue
		}
		out[k] = v
	}
	return out, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open lookup %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read lookup %s: %w", filepath.Base(path), err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func isHeader(v string) bool {
	switch strings.ToLower(v) {
	case "name", "commodity", "symbol", "element", "mineral":
		return true
	}
	return false
}
