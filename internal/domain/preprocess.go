package domain

import "slices"

// Preprocess buckets and filters fc for a map of sel.Variable in sel.Mode.
func Preprocess(fc FeatureCollection, mode Mode, v Variable, policy CodePolicy) (FeatureCollection, error) {
	if mode == ModeCombined {
		return PreprocessCombined(fc, policy)
	}
	return PreprocessIndividual(fc, v, policy)
}

// PreprocessCombined adds a "_proc" category column for every variable and
// drops land and unassigned polygons. Only ctmed gates the filter, whichever
// variable ends up displayed.
func PreprocessCombined(fc FeatureCollection, policy CodePolicy) (FeatureCollection, error) {
	if err := requireColumns(fc, Variables...); err != nil {
		return FeatureCollection{}, err
	}

	out := withProcColumns(fc, Variables...)
	for _, f := range fc.Features {
		if IsLandOrUnassigned(f.Code(CTMed.Column())) {
			continue
		}
		g := f.clone()
		for _, v := range Variables {
			label, err := Classify(v, f.Code(v.Column()), policy)
			if err != nil {
				return FeatureCollection{}, withSource(err, fc.Source)
			}
			g.Properties[v.ProcColumn()] = label
		}
		out.Features = append(out.Features, g)
	}
	return out, nil
}

// PreprocessIndividual adds the "_proc" column for v only and drops polygons
// whose own v value is a land or unassigned marker. icfrq has no letter codes,
// so for it the -1 missing-data sentinel is dropped instead.
func PreprocessIndividual(fc FeatureCollection, v Variable, policy CodePolicy) (FeatureCollection, error) {
	if v.Family() == 0 {
		return FeatureCollection{}, &InvalidKeyError{Field: "variable", Value: string(v)}
	}
	if err := requireColumns(fc, v); err != nil {
		return FeatureCollection{}, err
	}

	drop := IsLandOrUnassigned
	if v == ICFrq {
		drop = IsFrequencyMissing
	}

	out := withProcColumns(fc, v)
	for _, f := range fc.Features {
		code := f.Code(v.Column())
		if drop(code) {
			continue
		}
		label, err := Classify(v, code, policy)
		if err != nil {
			return FeatureCollection{}, withSource(err, fc.Source)
		}
		g := f.clone()
		g.Properties[v.ProcColumn()] = label
		out.Features = append(out.Features, g)
	}
	return out, nil
}

func requireColumns(fc FeatureCollection, vars ...Variable) error {
	for _, v := range vars {
		if !fc.HasColumn(v.Column()) {
			return &SchemaError{Source: fc.Source, Column: v.Column()}
		}
	}
	return nil
}

func withProcColumns(fc FeatureCollection, vars ...Variable) FeatureCollection {
	cols := slices.Clone(fc.Columns)
	for _, v := range vars {
		if !slices.Contains(cols, v.ProcColumn()) {
			cols = append(cols, v.ProcColumn())
		}
	}
	return FeatureCollection{
		Source:   fc.Source,
		Columns:  cols,
		Features: make([]Feature, 0, len(fc.Features)),
	}
}

func withSource(err error, source string) error {
	if se, ok := err.(*SchemaError); ok && se.Source == "" {
		se.Source = source
	}
	return err
}
