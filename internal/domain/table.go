package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Row is one record of a tabular dataset. A nil value (or an absent key)
// means the cell is missing; typed accessors treat empty strings the same
// way, mirroring how blank spreadsheet cells arrive from file readers.
type Row map[string]any

// Table is a tabular dataset: an ordered set of column names plus rows.
type Table struct {
	Columns []string
	Rows    []Row
}

// HasColumn reports whether the table declares the named column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the table. Cleaning operates on a clone so
// callers keep the raw input intact.
func (t *Table) Clone() *Table {
	out := &Table{Columns: append([]string(nil), t.Columns...)}
	out.Rows = make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		nr := make(Row, len(r))
		for k, v := range r {
			nr[k] = v
		}
		out.Rows[i] = nr
	}
	return out
}

// IsNull reports whether the cell is missing, nil, NaN, or blank.
func (r Row) IsNull(col string) bool {
	v, ok := r[col]
	if !ok || v == nil {
		return true
	}
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x) == ""
	case float64:
		return math.IsNaN(x)
	case float32:
		return math.IsNaN(float64(x))
	}
	return false
}

// String returns the cell as a trimmed string, or "" when missing.
func (r Row) String(col string) string {
	if r.IsNull(col) {
		return ""
	}
	switch x := r[col].(type) {
	case string:
		return strings.TrimSpace(x)
	case time.Time:
		return x.Format("2006-01-02")
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}

// Float returns the cell as a float64 when it holds (or parses to) a number.
func (r Row) Float(col string) (float64, bool) {
	if r.IsNull(col) {
		return 0, false
	}
	switch x := r[col].(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Int returns the cell as an int when it holds (or parses to) an integer.
func (r Row) Int(col string) (int, bool) {
	if r.IsNull(col) {
		return 0, false
	}
	switch x := r[col].(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case float64:
		if x == math.Trunc(x) {
			return int(x), true
		}
		return 0, false
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// Bool returns the cell as a bool.
func (r Row) Bool(col string) (bool, bool) {
	if r.IsNull(col) {
		return false, false
	}
	switch x := r[col].(type) {
	case bool:
		return x, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		if err != nil {
			return false, false
		}
		return b, true
	}
	return false, false
}

// Time returns the cell as a time.Time.
func (r Row) Time(col string) (time.Time, bool) {
	if r.IsNull(col) {
		return time.Time{}, false
	}
	t, ok := r[col].(time.Time)
	return t, ok
}
