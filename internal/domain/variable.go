package domain

import "strings"

// Variable identifies one of the five ice climatology attributes carried by
// CIS shapefiles.
type Variable string

const (
	// CTMed is the median ice concentration.
	CTMed Variable = "ctmed"
	// CPMed is the median ice concentration when ice is present.
	CPMed Variable = "cpmed"
	// ICFrq is the frequency of presence of ice.
	ICFrq Variable = "icfrq"
	// PIMed is the median predominant ice type.
	PIMed Variable = "pimed"
	// PRMed is the median predominant ice type when ice is present.
	PRMed Variable = "prmed"
)

// Variables lists every variable in display order (the order used by combined
// popups and the variable selector).
var Variables = []Variable{CTMed, CPMed, ICFrq, PIMed, PRMed}

// Family groups variables that share a classifier and a display table.
type Family int

const (
	FamilyConcentration Family = iota + 1
	FamilyIceType
	FamilyFrequency
)

// ParseVariable validates a raw variable name. Matching is case-insensitive.
func ParseVariable(s string) (Variable, error) {
	v := Variable(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := variableFamilies[v]; !ok {
		return "", &InvalidKeyError{Field: "variable", Value: s}
	}
	return v, nil
}

var variableFamilies = map[Variable]Family{
	CTMed: FamilyConcentration,
	CPMed: FamilyConcentration,
	ICFrq: FamilyFrequency,
	PIMed: FamilyIceType,
	PRMed: FamilyIceType,
}

// Family returns the classifier family of v, or 0 for an unknown variable.
func (v Variable) Family() Family {
	return variableFamilies[v]
}

// Column is the raw attribute column name in the shapefile.
func (v Variable) Column() string { return string(v) }

// ProcColumn is the derived attribute holding the bucketed category.
func (v Variable) ProcColumn() string { return string(v) + "_proc" }

func (v Variable) String() string { return string(v) }

// Mode selects the dataset family a map is generated from.
type Mode string

const (
	// ModeCombined reads one shapefile that carries all five variables.
	ModeCombined Mode = "combined"
	// ModeIndividual reads one shapefile per variable.
	ModeIndividual Mode = "individual"
)

// Modes lists the supported shapefile modes.
var Modes = []Mode{ModeCombined, ModeIndividual}

// ParseMode accepts "combined" or "individual" in any case.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeCombined:
		return ModeCombined, nil
	case ModeIndividual:
		return ModeIndividual, nil
	default:
		return "", &InvalidKeyError{Field: "mode", Value: s}
	}
}

func (m Mode) String() string { return string(m) }

// Label is the title-case name shown in selectors ("Combined", "Individual").
func (m Mode) Label() string {
	if m == "" {
		return ""
	}
	return strings.ToUpper(string(m[:1])) + string(m[1:])
}
