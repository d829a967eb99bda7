package importer

import (
	"strings"

	"github.com/djewell11/cmti-tools/internal/domain"
	"github.com/djewell11/cmti-tools/internal/service/coerce"
)

// splitList splits a comma-separated cell into trimmed, non-blank parts.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// buildCommodity assembles a commodity record, normalizing the name to its
// element symbol where known and attaching criticality and metal type.
func buildCommodity(lookups *domain.Lookups, name string) *domain.CommodityRecord {
	symbol, _ := lookups.ElementNames.Symbol(name)
	return &domain.CommodityRecord{
		Commodity:  symbol,
		MetalType:  lookups.MetalType(symbol),
		IsCritical: lookups.IsCritical(symbol),
	}
}

// checkYear extracts a plausible four-digit year from a cell. Decade
// spellings like "1960s" resolve to the decade's first year.
func checkYear(v any) *int {
	var year int
	switch x := v.(type) {
	case nil:
		return nil
	case int:
		year = x
	case float64:
		year = int(x)
	case string:
		f, ok := coerce.Digits(x)
		if !ok {
			return nil
		}
		year = int(f)
	default:
		return nil
	}
	if year < 1000 || year > 9999 {
		return nil
	}
	return &year
}

// yearRange parses spans like "1876-1918" or "1876 - 1918". A single year
// fills both ends.
func yearRange(s string) (start, end *int) {
	parts := strings.SplitN(s, "-", 2)
	start = checkYear(strings.TrimSpace(parts[0]))
	if len(parts) == 2 {
		end = checkYear(strings.TrimSpace(parts[1]))
	} else {
		end = start
	}
	return start, end
}

// nullStrings rewrites literal null sentinels ("Null", "N/A") to real
// nulls across a table.
func nullStrings(t *domain.Table, sentinels ...string) {
	set := make(map[string]bool, len(sentinels))
	for _, s := range sentinels {
		set[strings.ToLower(s)] = true
	}
	for _, row := range t.Rows {
		for col, v := range row {
			if s, ok := v.(string); ok && set[strings.ToLower(strings.TrimSpace(s))] {
				row[col] = nil
			}
		}
	}
}

func strVal(row domain.Row, col string) string {
	if row.IsNull(col) {
		return ""
	}
	return row.String(col)
}

// quantity reads a numeric cell that may still carry text, falling back
// to digit extraction for values like "1.5 g/t".
func quantity(row domain.Row, col string) *float64 {
	if row.IsNull(col) {
		return nil
	}
	if f, ok := row.Float(col); ok {
		return &f
	}
	if s, ok := row[col].(string); ok {
		if f, ok := coerce.Digits(s); ok {
			return &f
		}
	}
	return nil
}

func floatPtr(row domain.Row, col string) *float64 {
	if f, ok := row.Float(col); ok {
		return &f
	}
	return nil
}

func intPtr(row domain.Row, col string) *int {
	if n, ok := row.Int(col); ok {
		return &n
	}
	return nil
}

func boolPtr(row domain.Row, col string) *bool {
	if b, ok := row.Bool(col); ok {
		return &b
	}
	return nil
}
