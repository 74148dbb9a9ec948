package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tcia-tools/apollo-report/table"
)

func TestParseAge(t *testing.T) {
	tests := []struct {
		name  string
		value table.Value
		years int
		ok    bool
	}{
		{"padded years", table.Str("045Y"), 45, true},
		{"unpadded years", table.Str("7Y"), 7, true},
		{"null", table.Null(), 0, false},
		{"literal None", table.Str("None"), 0, false},
		{"empty", table.Str(""), 0, false},
		{"missing suffix", table.Str("045"), 0, false},
		{"months not years", table.Str("010M"), 0, false},
		{"garbage before suffix", table.Str("oldY"), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			years, ok := ParseAge(tt.value)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.years, years)
		})
	}
}

func TestAgeNumericDerivation(t *testing.T) {
	assert.Equal(t, 45.0, ageNumeric(table.Str("045Y")).Number())
	assert.True(t, ageNumeric(table.Str("None")).IsNull())
	assert.True(t, ageNumeric(table.Null()).IsNull())
}
