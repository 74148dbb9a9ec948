package filter

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcia-tools/apollo-report/table"
)

// reportFixture: 12 rows, two collections, twelve distinct image counts so
// ImageCount classifies numeric rather than categorical.
func reportFixture() *table.Table {
	tbl := table.New("Collection", "ImageCount", "StudyDate", "StudyDescription")
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		collection := "APOLLO-5-LSCC"
		desc := fmt.Sprintf("CT THORAX %d", i)
		if i >= 6 {
			collection = "APOLLO-5-LUAD"
			desc = fmt.Sprintf("MR BRAIN %d", i)
		}
		tbl.AppendRow(
			table.Str(collection),
			table.Num(float64(i*20)),
			table.Str(base.AddDate(0, 0, i).Format("2006-01-02")),
			table.Str(desc),
		)
	}
	return tbl
}

func TestCategoricalDefaultSelectionIsIdentity(t *testing.T) {
	tbl := reportFixture()
	spec := Defaults(tbl, []string{"Collection"})

	out := Apply(tbl, spec)
	assert.Equal(t, tbl.Len(), out.Len())
}

func TestCategoricalSubset(t *testing.T) {
	tbl := reportFixture()
	out := Apply(tbl, Spec{"Collection": {In: []string{"APOLLO-5-LSCC"}}})
	require.Equal(t, 6, out.Len())
	assert.Equal(t, "APOLLO-5-LSCC", out.Cell(0, "Collection").String())
}

func TestCategoricalEmptySelectionYieldsEmptyResult(t *testing.T) {
	tbl := reportFixture()
	out := Apply(tbl, Spec{"Collection": {In: []string{}}})
	assert.Equal(t, 0, out.Len())
}

func TestNumericOwnBoundsAreIdentity(t *testing.T) {
	// Enough distinct values to leave the categorical band.
	tbl := table.New("n")
	for i := 0; i < 12; i++ {
		tbl.AppendRow(table.Num(float64(i)))
	}

	spec := Defaults(tbl, []string{"n"})
	out := Apply(tbl, spec)
	assert.Equal(t, tbl.Len(), out.Len())
}

func TestNumericRangeNarrows(t *testing.T) {
	tbl := table.New("n")
	for i := 0; i < 12; i++ {
		tbl.AppendRow(table.Num(float64(i)))
	}
	min, max := 3.0, 5.0
	out := Apply(tbl, Spec{"n": {Min: &min, Max: &max}})
	require.Equal(t, 3, out.Len()) // inclusive on both ends
	assert.Equal(t, 3.0, out.Cell(0, "n").Number())
	assert.Equal(t, 5.0, out.Cell(2, "n").Number())
}

func TestTemporalRange(t *testing.T) {
	tbl := table.New("d")
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 14; i++ {
		tbl.AppendRow(table.Str(base.AddDate(0, 0, i).Format("2006-01-02")))
	}

	after := base.AddDate(0, 0, 2)
	before := base.AddDate(0, 0, 4)
	out := Apply(tbl, Spec{"d": {After: &after, Before: &before}})
	assert.Equal(t, 3, out.Len())
}

func TestTemporalSingleBoundIsPassThrough(t *testing.T) {
	tbl := table.New("d")
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 14; i++ {
		tbl.AppendRow(table.Str(base.AddDate(0, 0, i).Format("2006-01-02")))
	}

	after := base.AddDate(0, 0, 5)
	out := Apply(tbl, Spec{"d": {After: &after}})
	assert.Equal(t, tbl.Len(), out.Len())
}

func TestTextEmptyPatternIsNoop(t *testing.T) {
	tbl := textFixture()
	out := Apply(tbl, Spec{"desc": {}})
	assert.Equal(t, tbl.Len(), out.Len())
}

func TestTextSubstring(t *testing.T) {
	tbl := textFixture()
	out := Apply(tbl, Spec{"desc": {Pattern: "THORAX"}})
	assert.Equal(t, 6, out.Len())
}

func TestTextRegex(t *testing.T) {
	tbl := textFixture()
	out := Apply(tbl, Spec{"desc": {Pattern: "^CT.*[02468]$"}})
	for i := 0; i < out.Len(); i++ {
		assert.Regexp(t, "^CT", out.Cell(i, "desc").String())
	}
	assert.Greater(t, out.Len(), 0)
}

func TestTextInvalidRegexFallsBackToSubstring(t *testing.T) {
	tbl := table.New("desc")
	for i := 0; i < 11; i++ {
		tbl.AppendRow(table.Str(fmt.Sprintf("lesion (%d", i)))
	}
	out := Apply(tbl, Spec{"desc": {Pattern: "lesion ("}})
	assert.Equal(t, 11, out.Len())
}

func TestPredicatesCombineWithAND(t *testing.T) {
	tbl := reportFixture()
	min, max := 200.0, 300.0
	out := Apply(tbl, Spec{
		"Collection": {In: []string{"APOLLO-5-LUAD"}},
		"ImageCount": {Min: &min, Max: &max},
	})
	require.Equal(t, 2, out.Len())
	assert.Equal(t, 200.0, out.Cell(0, "ImageCount").Number())
}

func TestUnlistedColumnsUnconstrained(t *testing.T) {
	tbl := reportFixture()
	out := Apply(tbl, Spec{"Collection": {In: []string{"APOLLO-5-LSCC", "APOLLO-5-LUAD"}}})
	assert.Equal(t, 12, out.Len())
}

func TestApplyToleratesAllNullColumn(t *testing.T) {
	tbl := table.New("v")
	tbl.AppendRow(table.Null())
	tbl.AppendRow(table.Null())

	spec := Defaults(tbl, []string{"v"})
	out := Apply(tbl, spec)
	assert.Equal(t, 2, out.Len())
}

func TestApplyEmptySpecClones(t *testing.T) {
	tbl := reportFixture()
	out := Apply(tbl, Spec{})
	assert.Equal(t, tbl.Len(), out.Len())
}

func TestStep(t *testing.T) {
	assert.Equal(t, 1.0, Step(0, 100))
	assert.Equal(t, 0.0, Step(5, 5))
}

func textFixture() *table.Table {
	tbl := table.New("desc")
	for i := 0; i < 6; i++ {
		tbl.AppendRow(table.Str(fmt.Sprintf("CT THORAX %d", i)))
	}
	for i := 0; i < 6; i++ {
		tbl.AppendRow(table.Str(fmt.Sprintf("MR BRAIN %d", i)))
	}
	return tbl
}
