package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/djewell11/cmti-tools/internal/domain"
	"github.com/djewell11/cmti-tools/internal/service/quality"
	"github.com/djewell11/cmti-tools/internal/service/units"
)

// ImportProfile is the optional YAML file tuning an installation's
// imports: extra unit definitions, the categorical vocabulary, and
// per-source input paths and schedules.
type ImportProfile struct {
	Units      []UnitDefinition         `yaml:"units"`
	Vocabulary map[string][]string      `yaml:"vocabulary"`
	Sources    map[string]SourceProfile `yaml:"sources"`
}

// UnitDefinition declares a custom unit as a scale factor into the base
// unit of its dimension.
type UnitDefinition struct {
	Symbol    string  `yaml:"symbol"`
	Factor    float64 `yaml:"factor"`
	Dimension string  `yaml:"dimension"`
}

// SourceProfile configures one data source.
type SourceProfile struct {
	// Path is the source's input CSV.
	Path string `yaml:"path"`
	// Schedule is an optional cron expression for periodic re-import.
	Schedule string `yaml:"schedule"`
}

// LoadProfile reads and parses an import profile.
func LoadProfile(path string) (*ImportProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	var p ImportProfile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, domain.ErrValidation("parse profile %s: %v", path, err)
	}
	return &p, nil
}

// ApplyUnits registers the profile's custom units.
func (p *ImportProfile) ApplyUnits(reg *units.Registry) error {
	for _, u := range p.Units {
		if err := reg.Define(u.Symbol, u.Factor, units.Dimension(u.Dimension)); err != nil {
			return err
		}
	}
	return nil
}

// Vocab converts the profile's vocabulary section for the categorical
// checker.
func (p *ImportProfile) Vocab() quality.Vocabulary {
	if len(p.Vocabulary) == 0 {
		return nil
	}
	vocab := make(quality.Vocabulary, len(p.Vocabulary))
	for col, values := range p.Vocabulary {
		vocab[col] = values
	}
	return vocab
}
