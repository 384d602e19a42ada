package leaflet

import "fmt"

// Basemap is a raster tile layer drawn under the ice polygons.
type Basemap struct {
	URL         string         `json:"url"`
	Options     map[string]any `json:"options"`
	Description string         `json:"-"`
}

// CartoPositron is the light CartoDB basemap the maps use by default.
func CartoPositron() Basemap {
	return Basemap{
		URL: "https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png",
		Options: map[string]any{
			"attribution": `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors &copy; <a href="https://carto.com/attributions">CARTO</a>`,
			"subdomains":  "abcd",
			"maxZoom":     20,
		},
		Description: "CartoDB Positron",
	}
}

// MapboxBasemap serves tiles from a Mapbox style, e.g. "mapbox/light-v11".
func MapboxBasemap(token, style string) Basemap {
	return Basemap{
		URL: fmt.Sprintf("https://api.mapbox.com/styles/v1/%s/tiles/{z}/{x}/{y}?access_token=%s", style, token),
		Options: map[string]any{
			"attribution": `&copy; <a href="https://www.mapbox.com/about/maps/">Mapbox</a> &copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a>`,
			"tileSize":    512,
			"zoomOffset":  -1,
			"maxZoom":     22,
		},
		Description: "Mapbox " + style,
	}
}

// BasemapFor picks Mapbox when a token is configured and Positron otherwise.
func BasemapFor(mapboxToken, mapboxStyle string) Basemap {
	if mapboxToken == "" {
		return CartoPositron()
	}
	return MapboxBasemap(mapboxToken, mapboxStyle)
}
