package filter

import (
	"strconv"
	"strings"
	"time"

	"github.com/tcia-tools/apollo-report/table"
)

// ============================================================================
// CLASSIFICATION — Column Kind Detection
// ============================================================================
// Pure function over column contents; no UI or predicate logic. Precedence:
// categorical (fewer than 10 distinct values) → numeric → temporal → text.
// Mixed or inconclusive columns degrade to text, so classification is total
// over any input.
// ============================================================================

// Kind is a column's semantic classification.
type Kind int

const (
	KindText Kind = iota
	KindCategorical
	KindNumeric
	KindTemporal
)

// categoricalThreshold mirrors the report UI rule: a column with fewer
// distinct values than this is offered as a pick list regardless of type.
const categoricalThreshold = 10

// Classification describes a column's kind plus the bounds a predicate
// builder needs: the distinct value set for categorical columns, min/max
// for numeric and temporal ones.
type Classification struct {
	Kind    Kind
	Values  []string // categorical: distinct values, first-seen order
	Min     float64  // numeric
	Max     float64
	MinTime time.Time // temporal
	MaxTime time.Time
}

// Classify inspects one column of a table and returns its classification.
// Null cells are ignored for typing; an all-null column is categorical with
// an empty value set.
func Classify(tbl *table.Table, column string) Classification {
	idx := tbl.ColumnIndex(column)
	if idx < 0 {
		return Classification{Kind: KindCategorical}
	}

	distinct := distinctRendered(tbl, idx)
	if len(distinct) < categoricalThreshold {
		return Classification{Kind: KindCategorical, Values: distinct}
	}

	if min, max, ok := numericBounds(tbl, idx); ok {
		return Classification{Kind: KindNumeric, Min: min, Max: max}
	}

	if min, max, ok := temporalBounds(tbl, idx); ok {
		return Classification{Kind: KindTemporal, MinTime: min, MaxTime: max}
	}

	return Classification{Kind: KindText}
}

// distinctRendered collects distinct rendered values in first-seen order.
// Null renders as "" and is included when present, so a default categorical
// selection can keep null rows.
func distinctRendered(tbl *table.Table, idx int) []string {
	seen := make(map[string]bool)
	var out []string
	for _, row := range tbl.Rows {
		v := row[idx].Render()
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// numericBounds reports the min/max if every non-null cell is numeric —
// either a number cell or a string that parses as one.
func numericBounds(tbl *table.Table, idx int) (float64, float64, bool) {
	var min, max float64
	found := false
	for _, row := range tbl.Rows {
		v := row[idx]
		if v.IsNull() {
			continue
		}
		n, ok := cellNumber(v)
		if !ok {
			return 0, 0, false
		}
		if !found || n < min {
			min = n
		}
		if !found || n > max {
			max = n
		}
		found = true
	}
	return min, max, found
}

// temporalBounds reports the time range if every non-null cell is a timestamp.
// String columns reach here already converted by the coercion pass.
func temporalBounds(tbl *table.Table, idx int) (time.Time, time.Time, bool) {
	var min, max time.Time
	found := false
	for _, row := range tbl.Rows {
		v := row[idx]
		if v.IsNull() {
			continue
		}
		if v.Kind() != table.KindTime {
			return time.Time{}, time.Time{}, false
		}
		t := v.Time()
		if !found || t.Before(min) {
			min = t
		}
		if !found || t.After(max) {
			max = t
		}
		found = true
	}
	return min, max, found
}

// cellNumber extracts a float from a number cell or a numeric string.
func cellNumber(v table.Value) (float64, bool) {
	switch v.Kind() {
	case table.KindNumber:
		return v.Number(), true
	case table.KindString:
		n, err := strconv.ParseFloat(strings.TrimSpace(v.String()), 64)
		return n, err == nil
	default:
		return 0, false
	}
}
