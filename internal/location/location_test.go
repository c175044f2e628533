package location

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBuildRoundtrip(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "plain", in: "A-01-02-3-B"},
		{name: "wide_area", in: "BULK-12-05-1-C"},
		{name: "numeric_only", in: "1-2-3-4-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts := Parse(tt.in)
			assert.Equal(t, tt.in, Build(parts))
		})
	}
}

func TestParseDefaultsMissingParts(t *testing.T) {
	parts := Parse("A-01")
	assert.Equal(t, "A", parts.Area)
	assert.Equal(t, "01", parts.Row)
	assert.Equal(t, "", parts.Bay)
	assert.Equal(t, "", parts.Level)
	assert.Equal(t, "", parts.Pos)
}

func TestBuildReturnsEmptyForPartialLocation(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "four_parts", in: "A-01-02-3"},
		{name: "two_parts", in: "A-01"},
		{name: "empty", in: ""},
		{name: "empty_middle_segment", in: "A--02-3-B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, "", Build(Parse(tt.in)))
		})
	}
}

func TestParseDoesNotValidateCharacters(t *testing.T) {
	// garbage in, garbage out: callers display whatever was stored
	parts := Parse("??-!!-**-##-%%")
	assert.Equal(t, "??", parts.Area)
	assert.Equal(t, "??-!!-**-##-%%", Build(parts))
}

func TestUniqueValuesForAxis(t *testing.T) {
	locations := []string{
		"B-01-02-3-A",
		"A-01-02-3-A",
		"A-02-02-3-B",
		"B-01-05-1-A",
		"not-a-real",
		"",
	}

	areas := UniqueValuesForAxis(locations, AxisArea)
	assert.Equal(t, []string{"A", "B", "not"}, areas)

	rows := UniqueValuesForAxis(locations, AxisRow)
	assert.Equal(t, []string{"01", "02", "a"}, rows)

	// no duplicates and sorted ascending
	pos := UniqueValuesForAxis(locations, AxisPos)
	assert.Equal(t, []string{"A", "B"}, pos)
}

func TestUniqueValuesForAxisSkipsEmpty(t *testing.T) {
	values := UniqueValuesForAxis([]string{"A-01", "B"}, AxisBay)
	assert.Empty(t, values)
}
