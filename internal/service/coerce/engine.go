// Package coerce builds per-column value converters from a column/type/
// default specification and cleans raw cell values into canonical typed
// values.
package coerce

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/djewell11/cmti-tools/internal/domain"
)

// Kind enumerates the target types a column can be coerced to.
type Kind int

const (
	String Kind = iota
	Int
	Float
	Bool
	Date
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case Date:
		return "date"
	default:
		return "unknown"
	}
}

// ColumnSpec declares the expected type and default value for one column.
// The default is substituted for missing cells and for cells that fail
// conversion.
type ColumnSpec struct {
	Name    string
	Kind    Kind
	Default any
}

// Spec is an ordered column specification table. Column names must be
// unique.
type Spec []ColumnSpec

// Converter cleans one raw cell value into its canonical typed value. A
// converter is a pure function of (raw value, column spec): it never fails,
// substituting the column default instead.
type Converter func(raw any) any

// Engine holds the compiled converter set for one specification table.
type Engine struct {
	specs  map[string]ColumnSpec
	order  []string
	logger *slog.Logger
}

// NewEngine validates the spec and compiles the converter set. Duplicate
// column names are rejected.
func NewEngine(spec Spec, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	e := &Engine{specs: make(map[string]ColumnSpec, len(spec)), logger: logger}
	for _, cs := range spec {
		if cs.Name == "" {
			return nil, domain.ErrValidation("column spec with empty name")
		}
		if _, dup := e.specs[cs.Name]; dup {
			return nil, domain.ErrValidation("duplicate column %q in spec", cs.Name)
		}
		e.specs[cs.Name] = cs
		e.order = append(e.order, cs.Name)
	}
	return e, nil
}

// Columns returns the spec'd column names in declaration order.
func (e *Engine) Columns() []string { return append([]string(nil), e.order...) }

// Converter returns the compiled converter for a column, or nil when the
// column is not in the spec.
func (e *Engine) Converter(col string) Converter {
	cs, ok := e.specs[col]
	if !ok {
		return nil
	}
	return func(raw any) any { return e.convert(cs, raw) }
}

// Convert cleans one cell. Unspec'd columns pass through untouched.
func (e *Engine) Convert(col string, raw any) any {
	cs, ok := e.specs[col]
	if !ok {
		return raw
	}
	return e.convert(cs, raw)
}

// CleanTable applies every converter to every row and returns a cleaned
// copy with uniform per-column types. The input table is not modified.
func (e *Engine) CleanTable(t *domain.Table) *domain.Table {
	out := t.Clone()
	for _, row := range out.Rows {
		for _, col := range e.order {
			if !out.HasColumn(col) {
				continue
			}
			row[col] = e.convert(e.specs[col], row[col])
		}
	}
	return out
}

func (e *Engine) convert(cs ColumnSpec, raw any) any {
	if isNull(raw) {
		return cs.Default
	}
	switch cs.Kind {
	case String:
		if s, ok := raw.(string); ok {
			return strings.TrimSpace(s)
		}
		return domain.Row{"v": raw}.String("v")
	case Int:
		if v, ok := toInt(raw); ok {
			return v
		}
	case Float:
		if v, ok := toFloat(raw); ok {
			return v
		}
	case Bool:
		if v, ok := toBool(raw); ok {
			return v
		}
	case Date:
		if v, ok := toDate(raw); ok {
			return v
		}
	}
	e.logger.Warn("cell failed type conversion, substituting default",
		"column", cs.Name, "kind", cs.Kind.String(), "value", raw)
	return cs.Default
}

// Digits strips embedded non-numeric tokens (units, stray symbols) from a
// quantity string and parses what remains. "100m" parses to 100, "1.5 g/t"
// to 1.5. Used for numeric columns that erroneously include units.
func Digits(s string) (float64, bool) {
	var b strings.Builder
	seenDigit := false
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			seenDigit = true
			b.WriteRune(r)
		case r == '.' && seenDigit:
			b.WriteRune(r)
		case r == '-' && i == 0:
			b.WriteRune(r)
		case r == ',' || r == ' ' || r == '_':
			// thousands separators and spacing
		default:
			if seenDigit {
				// stop at the first trailing unit token
				f, err := strconv.ParseFloat(b.String(), 64)
				return f, err == nil
			}
		}
	}
	if !seenDigit {
		return 0, false
	}
	f, err := strconv.ParseFloat(b.String(), 64)
	return f, err == nil
}

func isNull(v any) bool {
	r := domain.Row{"v": v}
	return r.IsNull("v")
}

func toFloat(raw any) (float64, bool) {
	r := domain.Row{"v": raw}
	if f, ok := r.Float("v"); ok {
		return f, true
	}
	if s, ok := raw.(string); ok {
		return Digits(s)
	}
	return 0, false
}

func toInt(raw any) (int, bool) {
	r := domain.Row{"v": raw}
	if n, ok := r.Int("v"); ok {
		return n, true
	}
	if s, ok := raw.(string); ok {
		if f, ok := Digits(s); ok {
			return int(f), true
		}
	}
	if f, ok := raw.(float64); ok {
		return int(f), true
	}
	return 0, false
}

func toBool(raw any) (bool, bool) {
	r := domain.Row{"v": raw}
	if b, ok := r.Bool("v"); ok {
		return b, true
	}
	if s, ok := raw.(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "yes", "y":
			return true, true
		case "no", "n":
			return false, true
		}
	}
	return false, false
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"2006",
}

func toDate(raw any) (time.Time, bool) {
	switch x := raw.(type) {
	case time.Time:
		return x, true
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	case int:
		// bare year
		return time.Date(x, time.January, 1, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}
