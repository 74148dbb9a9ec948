package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcia-tools/apollo-report/table"
)

func TestCoerceCleanDateColumn(t *testing.T) {
	tbl := table.New("StudyDate", "PatientID")
	tbl.AppendRow(table.Str("2024-03-01"), table.Str("P1"))
	tbl.AppendRow(table.Str("2024-03-15"), table.Str("P2"))
	tbl.AppendRow(table.Null(), table.Str("P3"))

	out := Coerce(tbl)
	require.Equal(t, table.KindTime, out.Cell(0, "StudyDate").Kind())
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), out.Cell(0, "StudyDate").Time())
	assert.True(t, out.Cell(2, "StudyDate").IsNull())

	// Non-date column is untouched.
	assert.Equal(t, table.KindString, out.Cell(0, "PatientID").Kind())
}

func TestCoerceLeavesDirtyColumnAlone(t *testing.T) {
	tbl := table.New("mixed")
	tbl.AppendRow(table.Str("2024-03-01"))
	tbl.AppendRow(table.Str("not a date"))

	out := Coerce(tbl)
	assert.Equal(t, table.KindString, out.Cell(0, "mixed").Kind())
	assert.Equal(t, table.KindString, out.Cell(1, "mixed").Kind())
}

func TestCoerceStripsTimezone(t *testing.T) {
	zone := time.FixedZone("SGT", 8*3600)
	tbl := table.New("ts")
	tbl.AppendRow(table.Tm(time.Date(2024, 3, 1, 10, 30, 0, 0, zone)))

	out := Coerce(tbl)
	got := out.Cell(0, "ts").Time()
	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, 10, got.Hour()) // wall clock preserved
}

func TestCoerceDoesNotMutateInput(t *testing.T) {
	tbl := table.New("d")
	tbl.AppendRow(table.Str("2024-01-01"))

	Coerce(tbl)
	assert.Equal(t, table.KindString, tbl.Cell(0, "d").Kind())
}

func TestCoerceNumericColumnUntouched(t *testing.T) {
	tbl := table.New("n")
	tbl.AppendRow(table.Num(5))

	out := Coerce(tbl)
	assert.Equal(t, table.KindNumber, out.Cell(0, "n").Kind())
}
