package table

import (
	"strconv"
	"time"
)

// ============================================================================
// TABLE — Null-Aware Typed Tabular Core
// ============================================================================
// One Table underpins both the report aggregator and the filter engine.
// Cells are tagged Values: string, number, timestamp, or null. Every
// operation returns a new Table — inputs are never mutated — so pipeline
// stages compose without aliasing surprises.
// ============================================================================

// Kind identifies what a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindTime
)

// Value is a single tagged cell. The zero Value is null.
type Value struct {
	kind Kind
	s    string
	n    float64
	t    time.Time
}

// Null returns the null cell.
func Null() Value { return Value{} }

// Str wraps a string cell.
func Str(s string) Value { return Value{kind: KindString, s: s} }

// Num wraps a numeric cell.
func Num(n float64) Value { return Value{kind: KindNumber, n: n} }

// Tm wraps a timestamp cell.
func Tm(t time.Time) Value { return Value{kind: KindTime, t: t} }

// Kind reports the cell's tag.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the cell is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// String returns the string payload, or "" for any other kind.
func (v Value) String() string {
	if v.kind != KindString {
		return ""
	}
	return v.s
}

// Number returns the numeric payload, or 0 for any other kind.
func (v Value) Number() float64 {
	if v.kind != KindNumber {
		return 0
	}
	return v.n
}

// Time returns the timestamp payload, or the zero time for any other kind.
func (v Value) Time() time.Time {
	if v.kind != KindTime {
		return time.Time{}
	}
	return v.t
}

// Render returns the cell's text form as written to CSV.
// Null renders as the empty string. Numbers render without a forced
// decimal point, so integer counts stay integers on disk.
func (v Value) Render() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindNumber:
		return strconv.FormatFloat(v.n, 'f', -1, 64)
	case KindTime:
		if v.t.Hour() == 0 && v.t.Minute() == 0 && v.t.Second() == 0 {
			return v.t.Format("2006-01-02")
		}
		return v.t.Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}

// ============================================================================
// TABLE
// ============================================================================

// Table is an ordered set of named columns over dense rows.
// A row always has exactly len(Columns) cells; absent data is Null.
type Table struct {
	Columns []string
	Rows    [][]Value
}

// New creates an empty table with the given column order.
func New(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// Len returns the row count.
func (t *Table) Len() int { return len(t.Rows) }

// ColumnIndex returns the position of a column, or -1 if absent.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// AppendRow adds a row, padding with nulls or truncating to the column count.
func (t *Table) AppendRow(values ...Value) {
	row := make([]Value, len(t.Columns))
	for i := range row {
		if i < len(values) {
			row[i] = values[i]
		}
	}
	t.Rows = append(t.Rows, row)
}

// Cell returns the value at (row, column). Out-of-range access is null.
func (t *Table) Cell(row int, column string) Value {
	idx := t.ColumnIndex(column)
	if idx < 0 || row < 0 || row >= len(t.Rows) {
		return Null()
	}
	return t.Rows[row][idx]
}

// Clone deep-copies the table.
func (t *Table) Clone() *Table {
	out := New(t.Columns...)
	out.Rows = make([][]Value, len(t.Rows))
	for i, row := range t.Rows {
		out.Rows[i] = append([]Value(nil), row...)
	}
	return out
}

// TakeRows builds a new table from the given row indices, in order.
// Out-of-range indices are skipped.
func (t *Table) TakeRows(indices []int) *Table {
	out := New(t.Columns...)
	for _, i := range indices {
		if i < 0 || i >= len(t.Rows) {
			continue
		}
		out.Rows = append(out.Rows, append([]Value(nil), t.Rows[i]...))
	}
	return out
}

// Strings returns the rendered values of a column, nulls included as "".
func (t *Table) Strings(column string) []string {
	idx := t.ColumnIndex(column)
	out := make([]string, 0, len(t.Rows))
	if idx < 0 {
		return out
	}
	for _, row := range t.Rows {
		out = append(out, row[idx].Render())
	}
	return out
}

// NonNullStrings returns rendered non-null values of a column, in row order.
func (t *Table) NonNullStrings(column string) []string {
	idx := t.ColumnIndex(column)
	var out []string
	if idx < 0 {
		return out
	}
	for _, row := range t.Rows {
		if !row[idx].IsNull() {
			out = append(out, row[idx].Render())
		}
	}
	return out
}

// DistinctStrings returns the distinct rendered non-null values of a column
// in first-seen order.
func (t *Table) DistinctStrings(column string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range t.NonNullStrings(column) {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
