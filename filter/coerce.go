package filter

import (
	"time"

	"github.com/araddon/dateparse"

	"github.com/tcia-tools/apollo-report/table"
)

// ============================================================================
// COERCION — Opportunistic text → timestamp normalization
// ============================================================================
// Runs once per filter invocation, before classification. A string column
// converts to timestamps only when every non-null value parses cleanly; a
// single parse failure leaves the column untouched. Already-temporal columns
// are normalized to a timezone-naive form. Side-effect free: returns a new
// table.
// ============================================================================

// Coerce reinterprets string columns as timestamps where possible and strips
// timezones from existing timestamp columns.
func Coerce(tbl *table.Table) *table.Table {
	out := tbl
	for _, column := range tbl.Columns {
		if converted, ok := coerceColumn(out, column); ok {
			out = converted
		}
	}
	return out
}

// coerceColumn attempts conversion of one column. Returns the updated table
// and whether anything changed.
func coerceColumn(tbl *table.Table, column string) (*table.Table, bool) {
	idx := tbl.ColumnIndex(column)
	if idx < 0 {
		return tbl, false
	}

	values := make([]table.Value, len(tbl.Rows))
	sawString := false
	sawTime := false
	for i, row := range tbl.Rows {
		v := row[idx]
		switch v.Kind() {
		case table.KindNull:
			values[i] = table.Null()
		case table.KindTime:
			sawTime = true
			values[i] = table.Tm(stripZone(v.Time()))
		case table.KindString:
			t, err := dateparse.ParseAny(v.String())
			if err != nil {
				return tbl, false
			}
			sawString = true
			values[i] = table.Tm(stripZone(t))
		default:
			return tbl, false
		}
	}

	if !sawString && !sawTime {
		return tbl, false
	}
	return tbl.SetColumn(column, values), true
}

// stripZone drops timezone information, keeping the wall-clock reading.
func stripZone(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
