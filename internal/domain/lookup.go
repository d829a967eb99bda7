package domain

import "strings"

// NameTable converts commodity names between symbol and full-name forms.
// Lookup is capitalization-insensitive; an unknown name converts to itself,
// since non-elemental commodities (limestone, potash, coal) legitimately
// have no symbol entry.
type NameTable struct {
	toFull   map[string]string
	toSymbol map[string]string
}

// NewNameTable builds a NameTable from symbol → full-name pairs, validating
// that no key or value is blank and no normalized key collides.
func NewNameTable(pairs map[string]string) (*NameTable, error) {
	t := &NameTable{
		toFull:   make(map[string]string, len(pairs)),
		toSymbol: make(map[string]string, len(pairs)),
	}
	for sym, full := range pairs {
		sym = strings.TrimSpace(sym)
		full = strings.TrimSpace(full)
		if sym == "" || full == "" {
			return nil, ErrValidation("name table entry %q=%q has a blank side", sym, full)
		}
		key := capitalize(sym)
		if _, dup := t.toFull[key]; dup {
			return nil, ErrValidation("name table symbol %q duplicated after normalization", sym)
		}
		t.toFull[key] = full
		t.toSymbol[capitalize(full)] = sym
	}
	return t, nil
}

// Full converts a symbol to its full name. The second return reports
// whether a conversion was found; when it was not, the normalized input is
// returned unchanged.
func (t *NameTable) Full(name string) (string, bool) {
	name = capitalize(name)
	if full, ok := t.toFull[name]; ok {
		return full, true
	}
	return name, false
}

// Symbol converts a full name to its symbol.
func (t *NameTable) Symbol(name string) (string, bool) {
	name = capitalize(name)
	if sym, ok := t.toSymbol[name]; ok {
		return sym, true
	}
	return name, false
}

// Len reports the number of entries.
func (t *NameTable) Len() int { return len(t.toFull) }

// capitalize normalizes a name to first-letter-upper, rest-lower, the same
// way inconsistently cased source spreadsheets are reconciled.
func capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// Lookups bundles the reference tables every import needs: the critical
// minerals list, the metals classification, and the element name tables.
type Lookups struct {
	criticalMinerals map[string]struct{}
	metals           map[string]string

	// ElementNames converts element symbols to full names and back.
	ElementNames *NameTable
	// OAMNames converts source-specific commodity codes used by the
	// orphaned-and-abandoned-mines dataset to full names.
	OAMNames *NameTable
}

// NewLookups validates and assembles the lookup bundle. The OAM table may
// be nil when the OAM source is not being imported.
func NewLookups(criticalMinerals []string, metals map[string]string, elements, oamNames *NameTable) (*Lookups, error) {
	if elements == nil || elements.Len() == 0 {
		return nil, ErrValidation("element name table is required and must not be empty")
	}
	l := &Lookups{
		criticalMinerals: make(map[string]struct{}, len(criticalMinerals)),
		metals:           make(map[string]string, len(metals)),
		ElementNames:     elements,
		OAMNames:         oamNames,
	}
	for _, m := range criticalMinerals {
		m = strings.TrimSpace(m)
		if m == "" {
			return nil, ErrValidation("critical minerals list contains a blank entry")
		}
		l.criticalMinerals[capitalize(m)] = struct{}{}
	}
	for name, category := range metals {
		name = strings.TrimSpace(name)
		if name == "" || strings.TrimSpace(category) == "" {
			return nil, ErrValidation("metals table entry %q=%q has a blank side", name, category)
		}
		l.metals[capitalize(name)] = strings.TrimSpace(category)
	}
	return l, nil
}

// IsCritical reports whether the commodity appears on the critical
// minerals list.
func (l *Lookups) IsCritical(commodity string) bool {
	_, ok := l.criticalMinerals[capitalize(commodity)]
	return ok
}

// MetalType returns the metal/non-metal/rare-earth classification for a
// commodity, or "" when the commodity is not classified.
func (l *Lookups) MetalType(commodity string) string {
	return l.metals[capitalize(commodity)]
}
