package report

import (
	"sort"

	"github.com/tcia-tools/apollo-report/table"
)

// ============================================================================
// SUMMARY — monthly-report aggregates
// ============================================================================
// The counts behind the report dashboard: data only, rendering is the UI's
// problem. Patient-level figures dedupe on PatientID first so a patient with
// many studies counts once.
// ============================================================================

// Count is one labeled tally.
type Count struct {
	Label string
	Value float64
}

// Summary aggregates a generated report.
type Summary struct {
	PatientsByCollection []Count // distinct patients per collection
	ImagesByCollection   []Count // total image count per collection
	PatientSex           []Count // sex distribution over distinct patients
	StudyDatesPerPatient []Count // distinct study dates per patient, descending
}

// Summarize computes the report aggregates from the canonical report table.
func Summarize(rpt *table.Table) Summary {
	return Summary{
		PatientsByCollection: distinctCountBy(rpt, "Collection", "PatientID"),
		ImagesByCollection:   sumBy(rpt, "Collection", "ImageCount"),
		PatientSex:           perPatientDistribution(rpt, "PatientSex"),
		StudyDatesPerPatient: studyDatesPerPatient(rpt),
	}
}

// distinctCountBy counts distinct values of countCol within each group.
func distinctCountBy(rpt *table.Table, groupCol, countCol string) []Count {
	seen := make(map[string]map[string]bool)
	var order []string
	for i := 0; i < rpt.Len(); i++ {
		group := rpt.Cell(i, groupCol).Render()
		member := rpt.Cell(i, countCol).Render()
		if member == "" {
			continue
		}
		if seen[group] == nil {
			seen[group] = make(map[string]bool)
			order = append(order, group)
		}
		seen[group][member] = true
	}
	out := make([]Count, 0, len(order))
	for _, g := range order {
		out = append(out, Count{Label: g, Value: float64(len(seen[g]))})
	}
	return out
}

// sumBy reuses the table's group-sum for a labeled tally.
func sumBy(rpt *table.Table, groupCol, valueCol string) []Count {
	grouped := rpt.GroupBySum(groupCol, valueCol)
	out := make([]Count, 0, grouped.Len())
	for i := 0; i < grouped.Len(); i++ {
		out = append(out, Count{
			Label: grouped.Cell(i, groupCol).Render(),
			Value: grouped.Cell(i, valueCol).Number(),
		})
	}
	return out
}

// perPatientDistribution tallies a column over each patient's first row.
func perPatientDistribution(rpt *table.Table, column string) []Count {
	firstRows := rpt.DropDuplicates("PatientID")
	tally := make(map[string]int)
	var order []string
	for i := 0; i < firstRows.Len(); i++ {
		v := firstRows.Cell(i, column).Render()
		if _, ok := tally[v]; !ok {
			order = append(order, v)
		}
		tally[v]++
	}
	out := make([]Count, 0, len(order))
	for _, v := range order {
		out = append(out, Count{Label: v, Value: float64(tally[v])})
	}
	return out
}

// studyDatesPerPatient counts distinct study dates per patient, most first.
func studyDatesPerPatient(rpt *table.Table) []Count {
	dates := make(map[string]map[string]bool)
	var order []string
	for i := 0; i < rpt.Len(); i++ {
		pid := rpt.Cell(i, "PatientID").Render()
		date := rpt.Cell(i, "StudyDate").Render()
		if pid == "" || date == "" {
			continue
		}
		if dates[pid] == nil {
			dates[pid] = make(map[string]bool)
			order = append(order, pid)
		}
		dates[pid][date] = true
	}
	out := make([]Count, 0, len(order))
	for _, pid := range order {
		out = append(out, Count{Label: pid, Value: float64(len(dates[pid]))})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	return out
}
