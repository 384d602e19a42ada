package domain

import (
	"maps"
	"slices"

	"github.com/paulmach/orb"
)

// Feature is one polygon record: WGS-84 geometry plus its attribute columns.
// A blank or absent property is a null value.
type Feature struct {
	Geometry   orb.Geometry
	Properties map[string]string
}

// Code returns the raw value of column, or "" when null.
func (f Feature) Code(column string) string {
	return f.Properties[column]
}

// Bucket returns the derived category of v, if it has been computed.
func (f Feature) Bucket(v Variable) (string, bool) {
	b, ok := f.Properties[v.ProcColumn()]
	return b, ok
}

func (f Feature) clone() Feature {
	props := make(map[string]string, len(f.Properties)+len(Variables))
	maps.Copy(props, f.Properties)
	return Feature{Geometry: f.Geometry, Properties: props}
}

// FeatureCollection is an ordered set of features read from one shapefile.
// Columns lists the attribute columns the source file carries.
type FeatureCollection struct {
	Source   string
	Columns  []string
	Features []Feature
}

// HasColumn reports whether the source file carries column.
func (fc FeatureCollection) HasColumn(column string) bool {
	return slices.Contains(fc.Columns, column)
}

// Len returns the number of features.
func (fc FeatureCollection) Len() int { return len(fc.Features) }
