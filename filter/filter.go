package filter

import (
	"regexp"
	"strings"
	"time"

	"github.com/tcia-tools/apollo-report/table"
)

// ============================================================================
// FILTER ENGINE — Predicate construction + single-pass AND filtering
// ============================================================================
// The caller opts columns into filtering through an explicit Spec; nothing is
// read from ambient state. Each opted-in column gets a kind-appropriate
// predicate, all predicates AND-combine in one pass over the rows, and the
// matching rows come back as a new table. The engine never errors: malformed
// data falls through the defined per-kind fallbacks.
// ============================================================================

// Predicate holds the caller-chosen bounds for one column. Which fields
// matter depends on the column's classified kind; the rest are ignored.
type Predicate struct {
	// Categorical: the selected subset of distinct values. An empty non-nil
	// selection is a valid choice and matches nothing.
	In []string

	// Numeric: inclusive closed range.
	Min *float64
	Max *float64

	// Temporal: inclusive closed range. With either bound missing the
	// predicate is a pass-through.
	After  *time.Time
	Before *time.Time

	// Text: substring or regular expression. Empty means no filtering.
	Pattern string
}

// Spec maps column name → predicate. Columns absent from the spec are
// unconstrained.
type Spec map[string]Predicate

// Defaults builds the neutral predicate for each requested column: the full
// distinct-value set for categorical columns, the actual min/max bounds for
// numeric and temporal ones, an empty pattern for text. Applying a default
// Spec returns the table's rows unchanged for columns without nulls.
func Defaults(tbl *table.Table, columns []string) Spec {
	tbl = Coerce(tbl)
	spec := make(Spec, len(columns))
	for _, column := range columns {
		c := Classify(tbl, column)
		switch c.Kind {
		case KindCategorical:
			spec[column] = Predicate{In: append([]string(nil), c.Values...)}
		case KindNumeric:
			min, max := c.Min, c.Max
			spec[column] = Predicate{Min: &min, Max: &max}
		case KindTemporal:
			after, before := c.MinTime, c.MaxTime
			spec[column] = Predicate{After: &after, Before: &before}
		default:
			spec[column] = Predicate{}
		}
	}
	return spec
}

// Step returns the slider granularity for a numeric range, one hundredth of
// the span. Cosmetic only.
func Step(min, max float64) float64 {
	return (max - min) / 100
}

// Apply narrows a table by the spec's predicates, AND-combined. The input is
// coerced once before classification; the original table is not modified.
func Apply(tbl *table.Table, spec Spec) *table.Table {
	if len(spec) == 0 {
		return tbl.Clone()
	}

	coerced := Coerce(tbl)

	type boundPredicate struct {
		idx   int
		match func(table.Value) bool
	}
	var predicates []boundPredicate
	for column, p := range spec {
		idx := coerced.ColumnIndex(column)
		if idx < 0 {
			continue
		}
		if match := buildMatcher(coerced, column, p); match != nil {
			predicates = append(predicates, boundPredicate{idx: idx, match: match})
		}
	}

	if len(predicates) == 0 {
		return coerced.Clone()
	}

	var keep []int
	for i, row := range coerced.Rows {
		pass := true
		for _, bp := range predicates {
			if !bp.match(row[bp.idx]) {
				pass = false
				break
			}
		}
		if pass {
			keep = append(keep, i)
		}
	}
	return coerced.TakeRows(keep)
}

// buildMatcher turns one predicate into a cell matcher according to the
// column's classified kind. A nil return means the predicate is a no-op.
func buildMatcher(tbl *table.Table, column string, p Predicate) func(table.Value) bool {
	switch Classify(tbl, column).Kind {

	case KindCategorical:
		if p.In == nil {
			return nil
		}
		set := make(map[string]bool, len(p.In))
		for _, v := range p.In {
			set[v] = true
		}
		return func(v table.Value) bool { return set[v.Render()] }

	case KindNumeric:
		if p.Min == nil && p.Max == nil {
			return nil
		}
		return func(v table.Value) bool {
			n, ok := cellNumber(v)
			if !ok {
				return false
			}
			if p.Min != nil && n < *p.Min {
				return false
			}
			if p.Max != nil && n > *p.Max {
				return false
			}
			return true
		}

	case KindTemporal:
		// A single endpoint is a pass-through, not an error.
		if p.After == nil || p.Before == nil {
			return nil
		}
		after, before := *p.After, *p.Before
		return func(v table.Value) bool {
			if v.Kind() != table.KindTime {
				return false
			}
			t := v.Time()
			return !t.Before(after) && !t.After(before)
		}

	default: // text
		if p.Pattern == "" {
			return nil
		}
		if re, err := regexp.Compile(p.Pattern); err == nil {
			return func(v table.Value) bool {
				return !v.IsNull() && re.MatchString(v.Render())
			}
		}
		// Invalid expression degrades to a plain substring match.
		return func(v table.Value) bool {
			return !v.IsNull() && strings.Contains(v.Render(), p.Pattern)
		}
	}
}
