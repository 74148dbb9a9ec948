package report

import (
	"strconv"
	"strings"

	"github.com/tcia-tools/apollo-report/table"
)

// ParseAge converts a DICOM-style age string ("045Y") to whole years.
// Null, empty, the literal "None", or anything not matching the Y-suffixed
// pattern yields false — absence, never zero and never an error.
func ParseAge(v table.Value) (int, bool) {
	if v.IsNull() {
		return 0, false
	}
	s := strings.TrimSpace(v.Render())
	if s == "" || s == "None" {
		return 0, false
	}
	if !strings.HasSuffix(s, "Y") {
		return 0, false
	}
	years, err := strconv.Atoi(strings.TrimSuffix(s, "Y"))
	if err != nil {
		return 0, false
	}
	return years, true
}

// ageNumeric is the derived-column form of ParseAge.
func ageNumeric(v table.Value) table.Value {
	years, ok := ParseAge(v)
	if !ok {
		return table.Null()
	}
	return table.Num(float64(years))
}
