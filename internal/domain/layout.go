package domain

import "path/filepath"

// Layout resolves where shapefiles are read from and where rendered maps are
// cached. Paths are fully determined by the selection.
type Layout struct {
	DataDir   string
	OutputDir string
}

// Year-range suffixes of the combined climatology files. The first two months
// of the ice season use the 1990-2019 normal; the rest use 1991-2020.
const (
	earlySeasonSuffix = "_1990_2019_GL"
	lateSeasonSuffix  = "_1991_2020_GL"
)

// YearSuffix returns the combined-dataset file suffix for a month.
func YearSuffix(month string) string {
	if month == "11" || month == "12" {
		return earlySeasonSuffix
	}
	return lateSeasonSuffix
}

// ShapefilePath returns the source shapefile for sel:
//
//	combined:   {DataDir}/combined/{d}/{d}{suffix}.shp
//	individual: {DataDir}/GL/{d}/gl_{v}{d}/gl_{v}{d}.shp
func (l Layout) ShapefilePath(sel Selection) string {
	d := string(sel.Date)
	if sel.Mode == ModeCombined {
		return filepath.Join(l.DataDir, "combined", d, d+YearSuffix(sel.Date.Month())+".shp")
	}
	stem := "gl_" + string(sel.Variable) + d
	return filepath.Join(l.DataDir, "GL", d, stem, stem+".shp")
}

// ArtifactDir is the directory holding maps for sel. Combined maps share one
// directory; individual maps are grouped per variable.
func (l Layout) ArtifactDir(sel Selection) string {
	if sel.Mode == ModeCombined {
		return filepath.Join(l.OutputDir, "combined")
	}
	return filepath.Join(l.OutputDir, string(sel.Variable))
}

// ArtifactName is the file name of the rendered map, "{v}_{d}.html".
func ArtifactName(sel Selection) string {
	return string(sel.Variable) + "_" + string(sel.Date) + ".html"
}

// ArtifactPath returns the cache path of the rendered map for sel.
func (l Layout) ArtifactPath(sel Selection) string {
	return filepath.Join(l.ArtifactDir(sel), ArtifactName(sel))
}
