package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyConcentration(t *testing.T) {
	tests := []struct {
		code     string
		expected string
	}{
		{"", LabelNoData},
		{"  ", LabelNoData},
		{"X", LabelX},
		{"L", LabelLand},
		{"10", ConcentrationOneThree},
		{"20", ConcentrationOneThree},
		{"30", ConcentrationOneThree},
		{"40", ConcentrationFourSix},
		{"50", ConcentrationFourSix},
		{"60", ConcentrationFourSix},
		{"70", ConcentrationSevenEight},
		{"80", ConcentrationSevenEight},
		{"90", ConcentrationNine},
		{"91", ConcentrationNine},
		{"92", ConcentrationTen},
		{"01", ConcentrationBelowOne},
		{"00", ConcentrationBelowOne},
		{"garbage", ConcentrationBelowOne},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyConcentration(tt.code))
		})
	}
}

func TestClassifyConcentration_BoundaryCodesInDistinctBuckets(t *testing.T) {
	assert.NotEqual(t, ClassifyConcentration("70"), ClassifyConcentration("90"))
	assert.Equal(t, "7 - 8/10", ClassifyConcentration("70"))
	assert.Equal(t, "9 - 9+/10", ClassifyConcentration("90"))
}

func TestClassifyIceType(t *testing.T) {
	tests := []struct {
		code     string
		expected string
	}{
		{"", LabelNoData},
		{"X", LabelX},
		{"L", LabelLand},
		{"01", IceTypeFree},
		{"81", IceTypeNew},
		{"84", IceTypeThin},
		{"85", IceTypeMedium},
		{"91", IceTypeMedium},
		{"87", IceTypeThick},
		{"88", IceTypeVeryThick},
		{"99", IceTypeVeryThick},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyIceType(tt.code))
		})
	}
}

func TestClassifyFrequency(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected string
	}{
		{"null", "", LabelNoData},
		{"missing sentinel", "-1", LabelNoData},
		{"missing sentinel decimal", "-1.000", LabelNoData},
		{"unparseable", "n/a", LabelNoData},
		{"zero", "0", Frequency0to1},
		{"just below 1%", "0.0099", Frequency0to1},
		{"exactly 1%", "0.01", Frequency1to4},
		{"exactly 4%", "0.04", Frequency4to17},
		{"just below 17%", "0.1699", Frequency4to17},
		{"exactly 17%", "0.17", Frequency17to34},
		{"exactly 34%", "0.34", Frequency34to50},
		{"exactly 50%", "0.5", Frequency50to67},
		{"exactly 67%", "0.67", Frequency67to83},
		{"exactly 83%", "0.83", Frequency83to97},
		{"just below 97%", "0.9699", Frequency83to97},
		{"exactly 97%", "0.97", Frequency97to100},
		{"one", "1", Frequency97to100},
		{"padded", " 0.25 ", Frequency17to34},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyFrequency(tt.code))
		})
	}
}

func TestIsFrequencyMissing(t *testing.T) {
	assert.True(t, IsFrequencyMissing("-1"))
	assert.True(t, IsFrequencyMissing(" -1.0 "))
	assert.False(t, IsFrequencyMissing(""))
	assert.False(t, IsFrequencyMissing("0"))
	assert.False(t, IsFrequencyMissing("X"))
}

func TestClassify_DispatchesByFamily(t *testing.T) {
	for _, v := range []Variable{CTMed, CPMed} {
		label, err := Classify(v, "92", Lenient)
		require.NoError(t, err)
		assert.Equal(t, ConcentrationTen, label)
	}
	for _, v := range []Variable{PIMed, PRMed} {
		label, err := Classify(v, "87", Lenient)
		require.NoError(t, err)
		assert.Equal(t, IceTypeThick, label)
	}
	label, err := Classify(ICFrq, "0.5", Lenient)
	require.NoError(t, err)
	assert.Equal(t, Frequency50to67, label)
}

func TestClassify_UnknownVariable(t *testing.T) {
	_, err := Classify(Variable("thick"), "10", Lenient)
	var keyErr *InvalidKeyError
	require.ErrorAs(t, err, &keyErr)
	assert.Equal(t, "variable", keyErr.Field)
}

func TestClassify_StrictPolicy(t *testing.T) {
	tests := []struct {
		name    string
		v       Variable
		code    string
		wantErr bool
	}{
		{"concentration two digits", CTMed, "05", false},
		{"concentration letter marker", CTMed, "L", false},
		{"concentration blank", CTMed, "", false},
		{"concentration malformed", CTMed, "1O", true},
		{"concentration three digits", CPMed, "100", true},
		{"ice type malformed", PIMed, "thick", true},
		{"frequency fraction", ICFrq, "0.42", false},
		{"frequency sentinel", ICFrq, "-1", false},
		{"frequency out of range", ICFrq, "1.5", true},
		{"frequency text", ICFrq, "lots", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Classify(tt.v, tt.code, Strict)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			var schemaErr *SchemaError
			require.ErrorAs(t, err, &schemaErr)
			assert.Equal(t, tt.v.Column(), schemaErr.Column)
			assert.True(t, errors.Is(err, ErrMalformedCode))
		})
	}
}

func TestClassify_LenientAbsorbsMalformed(t *testing.T) {
	label, err := Classify(CTMed, "1O", Lenient)
	require.NoError(t, err)
	assert.Equal(t, ConcentrationBelowOne, label)
}

func TestParseCodePolicy(t *testing.T) {
	assert.Equal(t, Strict, ParseCodePolicy("strict"))
	assert.Equal(t, Strict, ParseCodePolicy(" STRICT "))
	assert.Equal(t, Lenient, ParseCodePolicy(""))
	assert.Equal(t, Lenient, ParseCodePolicy("lenient"))
}

func TestCodePolicy_String(t *testing.T) {
	assert.Equal(t, "strict", Strict.String())
	assert.Equal(t, "lenient", Lenient.String())
	assert.Equal(t, Strict, ParseCodePolicy(Strict.String()))
}
