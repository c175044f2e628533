// Package location parses and builds the canonical warehouse location
// encoding "AREA-ROW-BAY-LEVEL-POS".
package location

import (
	"sort"
	"strings"
)

const separator = "-"

// Axis selects one positional component of a location string.
type Axis int

const (
	AxisArea Axis = iota
	AxisRow
	AxisBay
	AxisLevel
	AxisPos
)

// Parts is a decomposed location. Any component may be empty; only a fully
// populated Parts has a canonical string form.
type Parts struct {
	Area  string `json:"area"`
	Row   string `json:"row"`
	Bay   string `json:"bay"`
	Level string `json:"level"`
	Pos   string `json:"pos"`
}

// Parse splits a location string on "-". Missing components default to the
// empty string. Character sets are not validated; callers display whatever
// was stored.
func Parse(s string) Parts {
	segs := strings.Split(s, separator)
	get := func(i int) string {
		if i < len(segs) {
			return segs[i]
		}
		return ""
	}
	return Parts{
		Area:  get(0),
		Row:   get(1),
		Bay:   get(2),
		Level: get(3),
		Pos:   get(4),
	}
}

// Build returns the canonical string for fully populated parts. A partial
// location has no canonical string, so Build returns "" when any component
// is empty.
func Build(p Parts) string {
	if p.Area == "" || p.Row == "" || p.Bay == "" || p.Level == "" || p.Pos == "" {
		return ""
	}
	return strings.Join([]string{p.Area, p.Row, p.Bay, p.Level, p.Pos}, separator)
}

func (p Parts) axisValue(axis Axis) string {
	switch axis {
	case AxisArea:
		return p.Area
	case AxisRow:
		return p.Row
	case AxisBay:
		return p.Bay
	case AxisLevel:
		return p.Level
	case AxisPos:
		return p.Pos
	default:
		return ""
	}
}

// UniqueValuesForAxis collects the distinct non-empty values observed on one
// axis across the given locations, sorted lexically ascending. Used to
// populate location picker dropdowns.
func UniqueValuesForAxis(locations []string, axis Axis) []string {
	seen := make(map[string]struct{})
	values := []string{}
	for _, loc := range locations {
		v := Parse(loc).axisValue(axis)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}
