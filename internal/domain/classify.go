package domain

import (
	"strconv"
	"strings"
)

// Category labels shared by several families.
const (
	LabelNoData = "No data"
	LabelX      = "X"
	LabelLand   = "Land"
)

// Concentration categories (ctmed, cpmed).
const (
	ConcentrationBelowOne   = "Less than 1/10"
	ConcentrationOneThree   = "1 - 3/10"
	ConcentrationFourSix    = "4 - 6/10"
	ConcentrationSevenEight = "7 - 8/10"
	ConcentrationNine       = "9 - 9+/10"
	ConcentrationTen        = "10/10"
)

// Ice type categories (pimed, prmed).
const (
	IceTypeFree      = "Ice Free"
	IceTypeNew       = "New Lake Ice"
	IceTypeThin      = "Thin Lake Ice"
	IceTypeMedium    = "Medium Lake Ice"
	IceTypeThick     = "Thick Lake Ice"
	IceTypeVeryThick = "Very Thick Lake Ice"
)

// Frequency categories (icfrq).
const (
	Frequency0to1    = "0 - 1%"
	Frequency1to4    = "1 - 4%"
	Frequency4to17   = "4 - 17%"
	Frequency17to34  = "17 - 34%"
	Frequency34to50  = "34 - 50%"
	Frequency50to67  = "50 - 67%"
	Frequency67to83  = "67 - 83%"
	Frequency83to97  = "83 - 97%"
	Frequency97to100 = "97 - 100%"
)

// Raw sentinel codes.
const (
	codeLand       = "L"
	codeUnassigned = "X"
	// frequencyMissing marks a polygon with no frequency data; icfrq has no
	// letter codes.
	frequencyMissing = -1.0
)

// CodePolicy decides what happens to codes outside the documented domain.
type CodePolicy int

const (
	// Lenient places unexpected codes in the family's default bucket.
	Lenient CodePolicy = iota
	// Strict rejects malformed codes with a SchemaError.
	Strict
)

func (p CodePolicy) String() string {
	if p == Strict {
		return "strict"
	}
	return "lenient"
}

// ParseCodePolicy maps "strict" to Strict and anything else to Lenient.
func ParseCodePolicy(s string) CodePolicy {
	if strings.EqualFold(strings.TrimSpace(s), "strict") {
		return Strict
	}
	return Lenient
}

// ClassifyConcentration buckets a CIS concentration code (tenths of coverage).
// Unmatched codes fall into "Less than 1/10".
func ClassifyConcentration(code string) string {
	code = strings.TrimSpace(code)
	switch code {
	case "":
		return LabelNoData
	case codeUnassigned:
		return LabelX
	case codeLand:
		return LabelLand
	case "10", "20", "30":
		return ConcentrationOneThree
	case "40", "50", "60":
		return ConcentrationFourSix
	case "70", "80":
		return ConcentrationSevenEight
	case "90", "91":
		return ConcentrationNine
	case "92":
		return ConcentrationTen
	default:
		return ConcentrationBelowOne
	}
}

// ClassifyIceType buckets a CIS lake ice stage-of-development code.
// Unmatched codes fall into "Very Thick Lake Ice".
func ClassifyIceType(code string) string {
	code = strings.TrimSpace(code)
	switch code {
	case "":
		return LabelNoData
	case codeUnassigned:
		return LabelX
	case codeLand:
		return LabelLand
	case "01":
		return IceTypeFree
	case "81":
		return IceTypeNew
	case "84":
		return IceTypeThin
	case "85", "91":
		return IceTypeMedium
	case "87":
		return IceTypeThick
	default:
		return IceTypeVeryThick
	}
}

// ClassifyFrequency buckets a frequency of presence of ice, a fraction in
// [0, 1]. Each bucket's upper bound is exclusive; the last bucket is closed.
// Blank, unparseable, and -1 values are "No data".
func ClassifyFrequency(code string) string {
	f, ok := parseFrequency(code)
	if !ok {
		return LabelNoData
	}
	switch {
	case f < 0.01:
		return Frequency0to1
	case f < 0.04:
		return Frequency1to4
	case f < 0.17:
		return Frequency4to17
	case f < 0.34:
		return Frequency17to34
	case f < 0.50:
		return Frequency34to50
	case f < 0.67:
		return Frequency50to67
	case f < 0.83:
		return Frequency67to83
	case f < 0.97:
		return Frequency83to97
	default:
		return Frequency97to100
	}
}

// IsFrequencyMissing reports whether code is the -1 missing-data sentinel.
func IsFrequencyMissing(code string) bool {
	f, err := strconv.ParseFloat(strings.TrimSpace(code), 64)
	return err == nil && f == frequencyMissing
}

// IsLandOrUnassigned reports whether code is the land ("L") or unassigned
// ("X") marker.
func IsLandOrUnassigned(code string) bool {
	code = strings.TrimSpace(code)
	return code == codeLand || code == codeUnassigned
}

// Classify buckets code with the classifier for v. Under the Strict policy a
// malformed code returns a *SchemaError instead of the default bucket.
func Classify(v Variable, code string, policy CodePolicy) (string, error) {
	if policy == Strict && !wellFormed(v.Family(), code) {
		return "", &SchemaError{Column: v.Column(), Value: code, Err: ErrMalformedCode}
	}
	switch v.Family() {
	case FamilyConcentration:
		return ClassifyConcentration(code), nil
	case FamilyIceType:
		return ClassifyIceType(code), nil
	case FamilyFrequency:
		return ClassifyFrequency(code), nil
	default:
		return "", &InvalidKeyError{Field: "variable", Value: string(v)}
	}
}

func parseFrequency(code string) (float64, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(code, 64)
	if err != nil || f == frequencyMissing {
		return 0, false
	}
	return f, true
}

// wellFormed accepts blanks, the letter markers, and two-digit codes for
// concentration and ice type; for frequency it accepts blanks, -1, and numbers
// in [0, 1].
func wellFormed(family Family, code string) bool {
	code = strings.TrimSpace(code)
	if code == "" {
		return true
	}
	switch family {
	case FamilyConcentration, FamilyIceType:
		if IsLandOrUnassigned(code) {
			return true
		}
		return len(code) == 2 && isDigit(code[0]) && isDigit(code[1])
	case FamilyFrequency:
		f, err := strconv.ParseFloat(code, 64)
		if err != nil {
			return false
		}
		return f == frequencyMissing || (f >= 0 && f <= 1)
	default:
		return false
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
