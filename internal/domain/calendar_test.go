package domain

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateID(t *testing.T) {
	valid := []string{"1105", "1126", "1204", "1225", "0101", "0129", "0205", "0326", "0402", "0430", "0507", "0528", "0604"}
	for _, s := range valid {
		d, err := ParseDateID(s)
		require.NoError(t, err, s)
		assert.Equal(t, DateID(s), d)
	}

	invalid := []string{"", "110", "11055", "1106", "0130", "0611", "0701", "1005", "abcd"}
	for _, s := range invalid {
		_, err := ParseDateID(s)
		var keyErr *InvalidKeyError
		require.ErrorAs(t, err, &keyErr, s)
		assert.Equal(t, "date", keyErr.Field)
	}
}

func TestDateIDs(t *testing.T) {
	ids := DateIDs()
	assert.Len(t, ids, 31)
	assert.Equal(t, DateID("1105"), ids[0])
	assert.Equal(t, DateID("0604"), ids[len(ids)-1])
	for _, id := range ids {
		_, err := ParseDateID(string(id))
		assert.NoError(t, err)
	}
}

func TestDateID_Parts(t *testing.T) {
	d := DateID("0129")
	assert.Equal(t, "01", d.Month())
	assert.Equal(t, "29", d.Week())
	assert.Empty(t, DateID("").Month())
}

func TestParseVariableAndMode(t *testing.T) {
	v, err := ParseVariable("ICFRQ")
	require.NoError(t, err)
	assert.Equal(t, ICFrq, v)

	_, err = ParseVariable("ctmax")
	var keyErr *InvalidKeyError
	require.ErrorAs(t, err, &keyErr)
	assert.Equal(t, "variable", keyErr.Field)

	m, err := ParseMode("Combined")
	require.NoError(t, err)
	assert.Equal(t, ModeCombined, m)
	assert.Equal(t, "Combined", m.Label())

	_, err = ParseMode("both")
	require.ErrorAs(t, err, &keyErr)
	assert.Equal(t, "mode", keyErr.Field)
}

func TestNewSelection(t *testing.T) {
	sel, err := NewSelection("Individual", "ctmed", "1105")
	require.NoError(t, err)
	assert.Equal(t, DefaultSelection, sel)
	assert.NoError(t, sel.Validate())
	assert.Equal(t, "individual/ctmed/1105", sel.Key())

	_, err = NewSelection("individual", "ctmed", "1301")
	assert.Error(t, err)

	assert.Error(t, Selection{Mode: ModeCombined, Variable: "nope", Date: "1105"}.Validate())
}

func TestAllSelections(t *testing.T) {
	sels := AllSelections(ModeCombined)
	assert.Len(t, sels, 31*5)
	for _, s := range sels {
		assert.NoError(t, s.Validate())
		assert.Equal(t, ModeCombined, s.Mode)
	}
}

func TestYearSuffix(t *testing.T) {
	assert.Equal(t, "_1990_2019_GL", YearSuffix("11"))
	assert.Equal(t, "_1990_2019_GL", YearSuffix("12"))
	for _, m := range []string{"01", "02", "03", "04", "05", "06"} {
		assert.Equal(t, "_1991_2020_GL", YearSuffix(m), m)
	}
}

func TestLayout_Paths(t *testing.T) {
	l := Layout{DataDir: "data/CIS", OutputDir: "data/tmp_maps"}

	tests := []struct {
		name      string
		sel       Selection
		shapefile string
		artifact  string
	}{
		{
			name:      "combined early season",
			sel:       Selection{Mode: ModeCombined, Variable: ICFrq, Date: "1105"},
			shapefile: "data/CIS/combined/1105/1105_1990_2019_GL.shp",
			artifact:  "data/tmp_maps/combined/icfrq_1105.html",
		},
		{
			name:      "combined late season",
			sel:       Selection{Mode: ModeCombined, Variable: CTMed, Date: "0108"},
			shapefile: "data/CIS/combined/0108/0108_1991_2020_GL.shp",
			artifact:  "data/tmp_maps/combined/ctmed_0108.html",
		},
		{
			name:      "individual",
			sel:       Selection{Mode: ModeIndividual, Variable: PRMed, Date: "0319"},
			shapefile: "data/CIS/GL/0319/gl_prmed0319/gl_prmed0319.shp",
			artifact:  "data/tmp_maps/prmed/prmed_0319.html",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, filepath.FromSlash(tt.shapefile), l.ShapefilePath(tt.sel))
			assert.Equal(t, filepath.FromSlash(tt.artifact), l.ArtifactPath(tt.sel))
		})
	}
}

func TestLayout_ArtifactPathsAreDistinctPerKey(t *testing.T) {
	l := Layout{OutputDir: "out"}
	seen := make(map[string]Selection)
	for _, mode := range Modes {
		for _, sel := range AllSelections(mode) {
			p := l.ArtifactPath(sel)
			prev, dup := seen[p]
			assert.False(t, dup, "%v and %v share %s", prev, sel, p)
			seen[p] = sel
		}
	}
}

func TestDateID_Label(t *testing.T) {
	assert.Equal(t, "November 5", DateID("1105").Label())
	assert.Equal(t, "January 29", DateID("0129").Label())
	assert.Equal(t, "June 4", DateID("0604").Label())
	assert.Equal(t, "1305", DateID("1305").Label())
}
