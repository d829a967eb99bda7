// Package units converts measured quantities between units, tracking the
// physical dimension of each unit so that cross-dimension conversions fail
// loudly instead of silently corrupting values.
package units

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/djewell11/cmti-tools/internal/domain"
)

// Dimension names the physical quantity a unit measures.
type Dimension string

const (
	Length        Dimension = "length"
	Area          Dimension = "area"
	Volume        Dimension = "volume"
	Mass          Dimension = "mass"
	Concentration Dimension = "concentration"
)

type unit struct {
	factor float64 // multiplier into the dimension's base unit
	dim    Dimension
}

// Registry maps unit symbols to their dimension and scale. A fresh registry
// carries the builtin units; sources with bespoke units extend it with
// Define.
type Registry struct {
	units map[string]unit
}

// NewRegistry returns a registry pre-loaded with the builtin units: metric
// length/area/volume, mass up to tonnes, and ore-grade concentration with
// grams-per-tonne as the base.
func NewRegistry() *Registry {
	r := &Registry{units: make(map[string]unit)}
	builtin := map[string]unit{
		"m":  {1, Length},
		"km": {1000, Length},
		"cm": {0.01, Length},
		"ft": {0.3048, Length},

		"m2":  {1, Area},
		"ha":  {10000, Area},
		"km2": {1e6, Area},

		"m3": {1, Volume},
		"l":  {0.001, Volume},

		"kg": {1, Mass},
		"g":  {0.001, Mass},
		"mg": {1e-6, Mass},
		"t":  {1000, Mass},
		"lb": {0.45359237, Mass},
		"oz": {0.0311034768, Mass}, // troy ounce

		"g/t": {1, Concentration},
		"ppm": {1, Concentration},
		"ppb": {0.001, Concentration},
		"%":   {10000, Concentration},
	}
	for sym, u := range builtin {
		r.units[normalize(sym)] = u
	}
	return r
}

// Define registers a custom unit as a scale factor into the base unit of
// its dimension. Redefining a builtin is rejected.
func (r *Registry) Define(symbol string, factor float64, dim Dimension) error {
	sym := normalize(symbol)
	if sym == "" {
		return domain.ErrValidation("unit symbol is empty")
	}
	if factor <= 0 {
		return domain.ErrValidation("unit %q: scale factor must be positive", symbol)
	}
	if _, exists := r.units[sym]; exists {
		return domain.ErrConflict("unit %q is already defined", symbol)
	}
	r.units[sym] = unit{factor, dim}
	return nil
}

// Lookup reports the dimension of a known unit symbol.
func (r *Registry) Lookup(symbol string) (Dimension, bool) {
	u, ok := r.units[normalize(symbol)]
	return u.dim, ok
}

// ConvertOptions tunes how Convert treats bare numbers.
type ConvertOptions struct {
	// DimensionlessUnit is assumed for values that carry no unit of their
	// own. When empty, bare numbers pass through unchanged.
	DimensionlessUnit string
}

// Convert coerces a measured value into the desired unit. The value may be
// a number, or a string of the form "1500 ppb" or "450m3". Values in a
// different dimension than the desired unit return a
// *domain.UnitMismatchError. Unparseable values return a validation error.
func (r *Registry) Convert(value any, desired string, opts ConvertOptions) (float64, error) {
	want, ok := r.units[normalize(desired)]
	if !ok {
		return 0, domain.ErrValidation("unknown target unit %q", desired)
	}

	num, symbol, err := split(value)
	if err != nil {
		return 0, err
	}
	if symbol == "" {
		symbol = opts.DimensionlessUnit
	}
	if symbol == "" {
		// nothing to convert from
		return num, nil
	}

	have, ok := r.units[normalize(symbol)]
	if !ok {
		return 0, domain.ErrValidation("unknown unit %q on value %v", symbol, value)
	}
	if have.dim != want.dim {
		return 0, &domain.UnitMismatchError{
			Value:   fmt.Sprint(value),
			From:    symbol,
			To:      desired,
			FromDim: string(have.dim),
			ToDim:   string(want.dim),
		}
	}
	return num * have.factor / want.factor, nil
}

// split separates a raw value into its numeric part and unit symbol, if
// any.
func split(value any) (float64, string, error) {
	switch x := value.(type) {
	case float64:
		return x, "", nil
	case float32:
		return float64(x), "", nil
	case int:
		return float64(x), "", nil
	case int64:
		return float64(x), "", nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, "", domain.ErrValidation("empty quantity")
		}
		i := 0
		for i < len(s) {
			c := s[i]
			if c >= '0' && c <= '9' || c == '.' || c == ',' || (i == 0 && c == '-') {
				i++
				continue
			}
			break
		}
		numPart := strings.ReplaceAll(s[:i], ",", "")
		num, err := strconv.ParseFloat(numPart, 64)
		if err != nil {
			return 0, "", domain.ErrValidation("unparseable quantity %q", s)
		}
		return num, strings.TrimSpace(s[i:]), nil
	default:
		return 0, "", domain.ErrValidation("unsupported quantity type %T", value)
	}
}

func normalize(symbol string) string {
	s := strings.ToLower(strings.TrimSpace(symbol))
	s = strings.ReplaceAll(s, " ", "")
	// common squared/cubed spellings
	s = strings.ReplaceAll(s, "²", "2")
	s = strings.ReplaceAll(s, "³", "3")
	switch s {
	case "sqm", "m^2":
		return "m2"
	case "sqkm", "km^2":
		return "km2"
	case "cum", "m^3":
		return "m3"
	case "tonne", "tonnes":
		return "t"
	case "hectare", "hectares":
		return "ha"
	}
	return s
}
