package table

import "strings"

// ============================================================================
// JOINS & AGGREGATION — dedup, left join, group-sum, split
// ============================================================================
// Join keys compare by rendered cell text; null keys never match anything.
// Left joins preserve the left row count unless duplicate right-side keys
// fan out — the report pipeline deduplicates before joining to prevent that.
// ============================================================================

const keySep = "\x1f"

// rowKey builds a composite key from the rendered cells of the given columns.
func (t *Table) rowKey(row int, indices []int) string {
	parts := make([]string, len(indices))
	for i, idx := range indices {
		if idx >= 0 {
			parts[i] = t.Rows[row][idx].Render()
		}
	}
	return strings.Join(parts, keySep)
}

// DropDuplicates removes rows whose values in the given columns repeat an
// earlier row's, keeping the first occurrence. No columns means the whole row.
func (t *Table) DropDuplicates(columns ...string) *Table {
	if len(columns) == 0 {
		columns = t.Columns
	}
	indices := make([]int, len(columns))
	for i, c := range columns {
		indices[i] = t.ColumnIndex(c)
	}
	seen := make(map[string]bool)
	var keep []int
	for i := range t.Rows {
		key := t.rowKey(i, indices)
		if !seen[key] {
			seen[key] = true
			keep = append(keep, i)
		}
	}
	return t.TakeRows(keep)
}

// LeftJoin joins another table on a shared key column. Every left row
// appears at least once; unmatched rows carry nulls for the right columns.
// Multiple right matches fan the left row out, one output row per match.
func (t *Table) LeftJoin(right *Table, key string) *Table {
	leftIdx := t.ColumnIndex(key)
	rightIdx := right.ColumnIndex(key)

	// Result schema: left columns, then right columns minus the key.
	var rightCols []string
	var rightColIdx []int
	for i, c := range right.Columns {
		if c != key {
			rightCols = append(rightCols, c)
			rightColIdx = append(rightColIdx, i)
		}
	}
	out := New(append(append([]string(nil), t.Columns...), rightCols...)...)

	// Index the right side by key. Null keys are unmatchable.
	matches := make(map[string][]int)
	if rightIdx >= 0 {
		for i, row := range right.Rows {
			if row[rightIdx].IsNull() {
				continue
			}
			k := row[rightIdx].Render()
			matches[k] = append(matches[k], i)
		}
	}

	nulls := make([]Value, len(rightCols))
	for _, leftRow := range t.Rows {
		var rightRows []int
		if leftIdx >= 0 && !leftRow[leftIdx].IsNull() {
			rightRows = matches[leftRow[leftIdx].Render()]
		}
		if len(rightRows) == 0 {
			out.Rows = append(out.Rows, append(append([]Value(nil), leftRow...), nulls...))
			continue
		}
		for _, ri := range rightRows {
			newRow := append([]Value(nil), leftRow...)
			for _, ci := range rightColIdx {
				newRow = append(newRow, right.Rows[ri][ci])
			}
			out.Rows = append(out.Rows, newRow)
		}
	}
	return out
}

// GroupBySum groups rows by a key column and sums a numeric column,
// producing one row per distinct key in first-seen order. Null and
// non-numeric cells contribute zero.
func (t *Table) GroupBySum(keyColumn, valueColumn string) *Table {
	keyIdx := t.ColumnIndex(keyColumn)
	valIdx := t.ColumnIndex(valueColumn)

	sums := make(map[string]float64)
	var order []string
	if keyIdx >= 0 {
		for _, row := range t.Rows {
			if row[keyIdx].IsNull() {
				continue
			}
			k := row[keyIdx].Render()
			if _, ok := sums[k]; !ok {
				order = append(order, k)
			}
			if valIdx >= 0 {
				sums[k] += row[valIdx].Number()
			}
		}
	}

	out := New(keyColumn, valueColumn)
	for _, k := range order {
		out.AppendRow(Str(k), Num(sums[k]))
	}
	return out
}

// SplitColumn splits a source column on a separator into two new columns and
// drops the source. A value without the separator lands whole in the left
// column with a null right; a null source yields nulls in both.
func (t *Table) SplitColumn(source, sep, left, right string) *Table {
	srcIdx := t.ColumnIndex(source)
	out := t.AddColumn(left, func(i int) Value {
		if srcIdx < 0 || t.Rows[i][srcIdx].IsNull() {
			return Null()
		}
		parts := strings.SplitN(t.Rows[i][srcIdx].Render(), sep, 2)
		return Str(parts[0])
	})
	out = out.AddColumn(right, func(i int) Value {
		if srcIdx < 0 || t.Rows[i][srcIdx].IsNull() {
			return Null()
		}
		parts := strings.SplitN(t.Rows[i][srcIdx].Render(), sep, 2)
		if len(parts) < 2 {
			return Null()
		}
		return Str(parts[1])
	})
	return out.Drop(source)
}
