package quality

import (
	"sort"
	"strings"

	"github.com/djewell11/cmti-tools/internal/domain"
)

// Violation flags one cell whose value falls outside the column's allowed
// vocabulary. Violations are advisory: the importer logs them and keeps
// the value as-is.
type Violation struct {
	Row    int
	Column string
	Value  string
}

// Vocabulary maps a categorical column to its allowed values. Matching is
// case-insensitive.
type Vocabulary map[string][]string

// unknownSentinels are placeholder spellings a curator writes when the
// real value is not known; they are never violations.
var unknownSentinels = map[string]bool{
	"unknown":     true,
	"n/a/unknown": true,
}

// CheckCategorical scans a table for out-of-vocabulary categorical values.
// Cells may pack several values separated by commas; each part is checked
// on its own. Null cells, blank parts, and unknown placeholders are never
// violations.
func CheckCategorical(t *domain.Table, vocab Vocabulary) []Violation {
	allowed := make(map[string]map[string]bool, len(vocab))
	for col, values := range vocab {
		set := make(map[string]bool, len(values))
		for _, v := range values {
			set[strings.ToLower(strings.TrimSpace(v))] = true
		}
		allowed[col] = set
	}

	cols := make([]string, 0, len(allowed))
	for col := range allowed {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	var out []Violation
	for i, row := range t.Rows {
		for _, col := range cols {
			set := allowed[col]
			if row.IsNull(col) {
				continue
			}
			for _, part := range strings.Split(row.String(col), ",") {
				v := strings.TrimSpace(part)
				if v == "" {
					continue
				}
				lv := strings.ToLower(v)
				if unknownSentinels[lv] || set[lv] {
					continue
				}
				out = append(out, Violation{Row: i, Column: col, Value: v})
			}
		}
	}
	return out
}
