// Package identifier allocates CMTI site identifiers: a two-letter
// jurisdiction code followed by a six-digit sequence, e.g. ON000123.
package identifier

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/djewell11/cmti-tools/internal/domain"
)

// JurisdictionCodes lists the Canadian provinces and territories a site
// identifier can be minted under.
var JurisdictionCodes = []string{
	"AB", "BC", "MB", "NB", "NL", "NS", "NT", "NU", "ON", "PE", "QC", "SK", "YT",
}

var idPattern = regexp.MustCompile(`^([A-Z]{2})(\d{6})$`)

// Allocator hands out the next identifier per jurisdiction. Counters are
// seeded from the identifiers already in the inventory so new sites never
// collide with existing ones. Safe for concurrent use.
type Allocator struct {
	mu       sync.Mutex
	counters map[string]int
}

// NewAllocator returns an allocator with every known jurisdiction at zero.
func NewAllocator() *Allocator {
	a := &Allocator{counters: make(map[string]int, len(JurisdictionCodes))}
	for _, code := range JurisdictionCodes {
		a.counters[code] = 0
	}
	return a
}

// Seed advances each jurisdiction counter to the highest sequence present
// in ids. Identifiers that do not match the expected shape are skipped.
func (a *Allocator) Seed(ids []string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, id := range ids {
		code, seq, err := Parse(id)
		if err != nil {
			continue
		}
		if seq > a.counters[code] {
			a.counters[code] = seq
		}
	}
}

// Next mints the next identifier for a jurisdiction, advancing its
// counter. A code not seen before starts a fresh counter at zero, so new
// jurisdictions never block an import.
func (a *Allocator) Next(code string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.counters[code]++
	return Format(code, a.counters[code])
}

// Current reports the last sequence handed out (or seeded) for a
// jurisdiction.
func (a *Allocator) Current(code string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.counters[code]
}

// Highest scans ids for the largest sequence under one jurisdiction,
// skipping malformed identifiers. Useful for inspecting a source before
// seeding.
func Highest(code string, ids []string) int {
	max := 0
	for _, id := range ids {
		c, seq, err := Parse(id)
		if err != nil || c != code {
			continue
		}
		if seq > max {
			max = seq
		}
	}
	return max
}

// Format renders a jurisdiction code and sequence as a site identifier.
func Format(code string, seq int) string {
	return fmt.Sprintf("%s%06d", code, seq)
}

// Parse splits a site identifier into jurisdiction code and sequence.
func Parse(id string) (string, int, error) {
	m := idPattern.FindStringSubmatch(id)
	if m == nil {
		return "", 0, &domain.MalformedIdentifierError{ID: id}
	}
	seq := 0
	for _, c := range m[2] {
		seq = seq*10 + int(c-'0')
	}
	return m[1], seq, nil
}
