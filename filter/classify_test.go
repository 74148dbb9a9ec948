package filter

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcia-tools/apollo-report/table"
)

func TestClassifyCategoricalUnderThreshold(t *testing.T) {
	tbl := table.New("PatientSex")
	for i := 0; i < 20; i++ {
		if i%2 == 0 {
			tbl.AppendRow(table.Str("M"))
		} else {
			tbl.AppendRow(table.Str("F"))
		}
	}

	c := Classify(tbl, "PatientSex")
	require.Equal(t, KindCategorical, c.Kind)
	assert.Equal(t, []string{"M", "F"}, c.Values)
}

func TestClassifyNumericWinsOverCategoricalAboveThreshold(t *testing.T) {
	tbl := table.New("ImageCount")
	for i := 0; i < 15; i++ {
		tbl.AppendRow(table.Num(float64(i * 10)))
	}

	c := Classify(tbl, "ImageCount")
	require.Equal(t, KindNumeric, c.Kind)
	assert.Equal(t, 0.0, c.Min)
	assert.Equal(t, 140.0, c.Max)
}

func TestClassifyNumericStrings(t *testing.T) {
	tbl := table.New("offset")
	for i := 0; i < 12; i++ {
		tbl.AppendRow(table.Str(fmt.Sprintf("%d", i)))
	}
	tbl.AppendRow(table.Null()) // nulls don't break typing

	assert.Equal(t, KindNumeric, Classify(tbl, "offset").Kind)
}

func TestClassifyTemporal(t *testing.T) {
	tbl := table.New("StudyDate")
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 14; i++ {
		tbl.AppendRow(table.Tm(base.AddDate(0, 0, i)))
	}

	c := Classify(tbl, "StudyDate")
	require.Equal(t, KindTemporal, c.Kind)
	assert.Equal(t, base, c.MinTime)
	assert.Equal(t, base.AddDate(0, 0, 13), c.MaxTime)
}

func TestClassifyMixedFallsBackToText(t *testing.T) {
	tbl := table.New("desc")
	for i := 0; i < 11; i++ {
		tbl.AppendRow(table.Str(fmt.Sprintf("CT THORAX %d", i)))
	}
	tbl.AppendRow(table.Num(3))

	assert.Equal(t, KindText, Classify(tbl, "desc").Kind)
}

func TestClassifyAllNullColumn(t *testing.T) {
	tbl := table.New("empty")
	tbl.AppendRow(table.Null())
	tbl.AppendRow(table.Null())

	c := Classify(tbl, "empty")
	require.Equal(t, KindCategorical, c.Kind)
	assert.Equal(t, []string{""}, c.Values)
}

func TestClassifySingleDistinctValue(t *testing.T) {
	tbl := table.New("Collection")
	for i := 0; i < 50; i++ {
		tbl.AppendRow(table.Str("APOLLO-5-LSCC"))
	}

	c := Classify(tbl, "Collection")
	require.Equal(t, KindCategorical, c.Kind)
	assert.Equal(t, []string{"APOLLO-5-LSCC"}, c.Values)
}

func TestClassifyUnknownColumn(t *testing.T) {
	tbl := table.New("a")
	assert.Equal(t, KindCategorical, Classify(tbl, "missing").Kind)
}
