package domain

// Display is the legend metadata for one variable. Colors[i] paints
// Categories[i]; the slice order is the legend order.
type Display struct {
	Colors     []string `json:"colors"`
	Categories []string `json:"categories"`
	Alias      string   `json:"alias"`
}

var (
	concentrationCategories = []string{
		ConcentrationBelowOne,
		ConcentrationOneThree,
		ConcentrationFourSix,
		ConcentrationSevenEight,
		ConcentrationNine,
		ConcentrationTen,
		LabelNoData,
	}
	concentrationColors = []string{"lightskyblue", "springgreen", "yellow", "orange", "red", "darkgrey", "white"}

	iceTypeCategories = []string{
		IceTypeFree,
		IceTypeNew,
		IceTypeThin,
		IceTypeMedium,
		IceTypeThick,
		IceTypeVeryThick,
		LabelNoData,
	}
	iceTypeColors = []string{"lightskyblue", "thistle", "mediumorchid", "magenta", "greenyellow", "limegreen", "white"}

	frequencyCategories = []string{
		Frequency0to1,
		Frequency1to4,
		Frequency4to17,
		Frequency17to34,
		Frequency34to50,
		Frequency50to67,
		Frequency67to83,
		Frequency83to97,
		Frequency97to100,
		LabelNoData,
	}
	frequencyColors = []string{"lightskyblue", "yellow", "gold", "orange", "deeppink", "magenta", "blue", "navy", "darkgrey", "white"}
)

var aliases = map[Variable]string{
	CTMed: "Median Ice Concentration",
	CPMed: "Median Ice Concentration when Ice Present",
	ICFrq: "Frequency of Presence of Ice",
	PIMed: "Median Predominant Ice Type",
	PRMed: "Median Predominant Ice Type when Ice is Present",
}

// DisplayFor returns the legend metadata for v. The returned slices are
// copies; callers may modify them.
func DisplayFor(v Variable) Display {
	var colors, categories []string
	switch v.Family() {
	case FamilyConcentration:
		colors, categories = concentrationColors, concentrationCategories
	case FamilyIceType:
		colors, categories = iceTypeColors, iceTypeCategories
	case FamilyFrequency:
		colors, categories = frequencyColors, frequencyCategories
	}
	return Display{
		Colors:     append([]string(nil), colors...),
		Categories: append([]string(nil), categories...),
		Alias:      aliases[v],
	}
}

// Alias returns the human-readable name of v.
func (v Variable) Alias() string { return aliases[v] }

// ColorOf returns the color for category. Labels missing from the table
// (the "X" and "Land" markers) take the "No data" color.
func (d Display) ColorOf(category string) string {
	fallback := ""
	for i, c := range d.Categories {
		if c == category {
			return d.Colors[i]
		}
		if c == LabelNoData {
			fallback = d.Colors[i]
		}
	}
	return fallback
}

// PopupVariables lists the variables shown in a feature popup: all five in
// combined mode, only the displayed one otherwise.
func PopupVariables(mode Mode, v Variable) []Variable {
	if mode == ModeCombined {
		return append([]Variable(nil), Variables...)
	}
	return []Variable{v}
}
