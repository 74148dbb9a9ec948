package table

// ============================================================================
// COLUMN OPERATIONS — rename, project, reorder, concat, derive
// ============================================================================
// All operations preserve row count. Referencing a column the table does not
// have never errors: projections materialize it as an all-null column and
// drops ignore it, matching the pipeline rule that absence degrades to null.
// ============================================================================

// Rename returns a copy with one column renamed. Unknown columns are a no-op.
func (t *Table) Rename(old, new string) *Table {
	out := t.Clone()
	if idx := out.ColumnIndex(old); idx >= 0 {
		out.Columns[idx] = new
	}
	return out
}

// Select projects the table down to exactly the given columns, in the given
// order. A requested column the table lacks becomes an all-null column.
func (t *Table) Select(columns ...string) *Table {
	out := New(columns...)
	indices := make([]int, len(columns))
	for i, c := range columns {
		indices[i] = t.ColumnIndex(c)
	}
	for _, row := range t.Rows {
		newRow := make([]Value, len(columns))
		for i, idx := range indices {
			if idx >= 0 {
				newRow[i] = row[idx]
			}
		}
		out.Rows = append(out.Rows, newRow)
	}
	return out
}

// Reorder is Select under its reindex name: columns not listed are silently
// dropped, listed columns absent from the data come back null.
func (t *Table) Reorder(columns ...string) *Table {
	return t.Select(columns...)
}

// Drop returns a copy without the named columns. Unknown names are ignored.
func (t *Table) Drop(columns ...string) *Table {
	dropSet := make(map[string]bool, len(columns))
	for _, c := range columns {
		dropSet[c] = true
	}
	var keep []string
	for _, c := range t.Columns {
		if !dropSet[c] {
			keep = append(keep, c)
		}
	}
	return t.Select(keep...)
}

// Concat appends another table's rows. The receiver's schema wins: columns
// the other table lacks are null, extra columns are dropped. An empty
// receiver adopts the other table's schema, so accumulation loops can start
// from New().
func (t *Table) Concat(other *Table) *Table {
	if len(t.Columns) == 0 {
		base := New(other.Columns...)
		base.Rows = t.Rows
		t = base
	}
	out := t.Clone()
	indices := make([]int, len(out.Columns))
	for i, c := range out.Columns {
		indices[i] = other.ColumnIndex(c)
	}
	for _, row := range other.Rows {
		newRow := make([]Value, len(out.Columns))
		for i, idx := range indices {
			if idx >= 0 {
				newRow[i] = row[idx]
			}
		}
		out.Rows = append(out.Rows, newRow)
	}
	return out
}

// AddColumn appends a derived column computed per row.
func (t *Table) AddColumn(name string, fn func(row int) Value) *Table {
	out := t.Clone()
	out.Columns = append(out.Columns, name)
	for i := range out.Rows {
		out.Rows[i] = append(out.Rows[i], fn(i))
	}
	return out
}

// SetColumn replaces a column's cells in place on a copy. If the column does
// not exist it is appended.
func (t *Table) SetColumn(name string, values []Value) *Table {
	out := t.Clone()
	idx := out.ColumnIndex(name)
	if idx < 0 {
		out.Columns = append(out.Columns, name)
		for i := range out.Rows {
			out.Rows[i] = append(out.Rows[i], Null())
		}
		idx = len(out.Columns) - 1
	}
	for i := range out.Rows {
		if i < len(values) {
			out.Rows[i][idx] = values[i]
		} else {
			out.Rows[i][idx] = Null()
		}
	}
	return out
}
