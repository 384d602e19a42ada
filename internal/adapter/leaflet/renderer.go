// Package leaflet renders preprocessed ice polygons into a self-contained
// Leaflet HTML document with the GeoJSON embedded inline.
package leaflet

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"time"

	"github.com/couchcryptid/ice-climatology-map/internal/domain"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/simplify"
)

//go:embed map.html.tmpl
var pageTemplate string

// Great Lakes, used when a map has no polygons to fit to.
var defaultCenter = [2]float64{45.0, -84.0}

const defaultZoom = 6

// Options configures a Renderer.
type Options struct {
	Basemap Basemap
	// SimplifyTolerance is the Douglas-Peucker tolerance in degrees; zero
	// keeps the geometry exact.
	SimplifyTolerance float64
}

// Renderer turns preprocessed feature collections into HTML maps.
// It implements pipeline.Renderer.
type Renderer struct {
	tmpl *template.Template
	opts Options
}

// NewRenderer parses the page template.
func NewRenderer(opts Options) (*Renderer, error) {
	if opts.Basemap.URL == "" {
		opts.Basemap = CartoPositron()
	}
	tmpl, err := template.New("map").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse map template: %w", err)
	}
	return &Renderer{tmpl: tmpl, opts: opts}, nil
}

type legendEntry struct {
	Label string
	Color string
}

type popupField struct {
	Field string `json:"field"`
	Alias string `json:"alias"`
}

type mapConfig struct {
	Center    [2]float64     `json:"center"`
	Zoom      int            `json:"zoom"`
	Tiles     Basemap        `json:"tiles"`
	Style     map[string]any `json:"style"`
	Highlight map[string]any `json:"highlight"`
	Tooltip   string         `json:"tooltip"`
	Popup     []popupField   `json:"popup"`
}

type pageData struct {
	Title       string
	Subtitle    string
	Caption     string
	GeneratedAt string
	Legend      []legendEntry
	Config      template.JS
	GeoJSON     template.JS
}

// Render colors every feature by its sel.Variable category, with a hover
// tooltip of that category, a click popup of the mode's popup variables
// labeled by alias, and a legend captioned with the variable alias.
func (r *Renderer) Render(ctx context.Context, fc domain.FeatureCollection, sel domain.Selection) ([]byte, error) {
	display := domain.DisplayFor(sel.Variable)
	if len(display.Categories) == 0 {
		return nil, &domain.InvalidKeyError{Field: "variable", Value: string(sel.Variable)}
	}

	gj, err := r.featureCollection(ctx, fc, sel, display)
	if err != nil {
		return nil, err
	}
	geoJSON, err := gj.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode geojson: %w", err)
	}

	cfg := mapConfig{
		Center:    defaultCenter,
		Zoom:      defaultZoom,
		Tiles:     r.opts.Basemap,
		Style:     map[string]any{"weight": 1, "opacity": 0.3, "fillOpacity": 0.75},
		Highlight: map[string]any{"fillOpacity": 1},
		Tooltip:   sel.Variable.ProcColumn(),
	}
	for _, v := range domain.PopupVariables(sel.Mode, sel.Variable) {
		cfg.Popup = append(cfg.Popup, popupField{Field: v.ProcColumn(), Alias: v.Alias()})
	}
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode map config: %w", err)
	}

	data := pageData{
		Title:       fmt.Sprintf("%s, week of %s", display.Alias, sel.Date.Label()),
		Subtitle:    fmt.Sprintf("%s dataset, week of %s", sel.Mode.Label(), sel.Date.Label()),
		Caption:     display.Alias,
		GeneratedAt: domain.Now().Format(time.RFC3339),
		Config:      template.JS(cfgJSON),
		GeoJSON:     template.JS(geoJSON),
	}
	for i, c := range display.Categories {
		data.Legend = append(data.Legend, legendEntry{Label: c, Color: display.Colors[i]})
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute map template: %w", err)
	}
	return buf.Bytes(), nil
}

// featureCollection builds the GeoJSON layer. Only the popup "_proc" columns
// and the resolved fill color are carried into the document.
func (r *Renderer) featureCollection(ctx context.Context, fc domain.FeatureCollection, sel domain.Selection, display domain.Display) (*geojson.FeatureCollection, error) {
	popup := domain.PopupVariables(sel.Mode, sel.Variable)
	out := geojson.NewFeatureCollection()
	for i, f := range fc.Features {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		bucket, ok := f.Bucket(sel.Variable)
		if !ok {
			return nil, &domain.SchemaError{Source: fc.Source, Column: sel.Variable.ProcColumn()}
		}

		gf := geojson.NewFeature(r.geometry(f.Geometry))
		for _, v := range popup {
			b, _ := f.Bucket(v)
			gf.Properties[v.ProcColumn()] = b
		}
		gf.Properties["fill"] = display.ColorOf(bucket)
		out.Append(gf)
	}
	return out, nil
}

// geometry returns g, simplified when a tolerance is configured. Input
// geometries may be shared with a cache, so simplification works on a clone.
func (r *Renderer) geometry(g orb.Geometry) orb.Geometry {
	if r.opts.SimplifyTolerance <= 0 || g == nil {
		return g
	}
	return simplify.DouglasPeucker(r.opts.SimplifyTolerance).Simplify(orb.Clone(g))
}
