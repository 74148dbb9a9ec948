package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcia-tools/apollo-report/table"
)

func summaryFixture() *table.Table {
	tbl := table.New("PatientID", "Collection", "PatientSex", "StudyDate", "ImageCount")
	rows := [][]table.Value{
		{table.Str("P1"), table.Str("A"), table.Str("F"), table.Str("2024-01-10"), table.Num(10)},
		{table.Str("P1"), table.Str("A"), table.Str("F"), table.Str("2024-02-11"), table.Num(5)},
		{table.Str("P2"), table.Str("A"), table.Str("M"), table.Str("2024-01-12"), table.Num(7)},
		{table.Str("P3"), table.Str("B"), table.Str("F"), table.Str("2024-03-01"), table.Null()},
	}
	for _, r := range rows {
		tbl.AppendRow(r...)
	}
	return tbl
}

func TestSummarize(t *testing.T) {
	s := Summarize(summaryFixture())

	require.Equal(t, []Count{{"A", 2}, {"B", 1}}, s.PatientsByCollection)
	require.Equal(t, []Count{{"A", 22}, {"B", 0}}, s.ImagesByCollection)

	// Sex counted once per patient, not per study.
	assert.Equal(t, []Count{{"F", 2}, {"M", 1}}, s.PatientSex)

	// Study dates per patient, most first.
	require.Len(t, s.StudyDatesPerPatient, 3)
	assert.Equal(t, Count{"P1", 2}, s.StudyDatesPerPatient[0])
}
