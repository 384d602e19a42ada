// Package shapefile decodes CIS climatology shapefiles into domain feature
// collections, reprojected to WGS-84 longitude/latitude.
package shapefile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/couchcryptid/ice-climatology-map/internal/domain"
	"github.com/couchcryptid/ice-climatology-map/internal/observability"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/ctessum/geom/proj"
	gshp "github.com/jonas-p/go-shp"
)

const wgs84 = "+proj=longlat +datum=WGS84 +no_defs"

// Reader loads shapefiles from disk.
// It implements pipeline.FeatureSource.
type Reader struct {
	logger  *slog.Logger
	metrics *observability.Metrics
	target  *proj.SR
}

// NewReader creates a Reader that reprojects every geometry to WGS-84.
func NewReader(logger *slog.Logger, metrics *observability.Metrics) (*Reader, error) {
	sr, err := proj.Parse(wgs84)
	if err != nil {
		return nil, fmt.Errorf("parse target projection: %w", err)
	}
	return &Reader{logger: logger, metrics: metrics, target: sr}, nil
}

// Load decodes every polygon in the shapefile at path along with the ice
// attribute columns its DBF header declares. Absent columns are left out of
// Columns so preprocessing can report them as schema errors.
func (r *Reader) Load(ctx context.Context, path string) (domain.FeatureCollection, error) {
	start := time.Now()

	if _, err := os.Stat(path); err != nil {
		return domain.FeatureCollection{}, &domain.IOError{Op: "open shapefile", Path: path, Err: err}
	}

	dec, err := shp.NewDecoder(path)
	if err != nil {
		return domain.FeatureCollection{}, &domain.IOError{Op: "open shapefile", Path: path, Err: err}
	}
	defer dec.Close()

	trans, err := r.transform(dec, path)
	if err != nil {
		return domain.FeatureCollection{}, err
	}

	columns := headerColumns(dec.Fields())
	fc := domain.FeatureCollection{Source: path, Columns: columns, Features: []domain.Feature{}}
	var skipped int
	for {
		if err := ctx.Err(); err != nil {
			return domain.FeatureCollection{}, err
		}

		g, fields, more := dec.DecodeRowFields(columns...)
		if !more || dec.Error() != nil {
			break
		}
		if g == nil {
			skipped++
			continue
		}
		if trans != nil {
			if g, err = g.Transform(trans); err != nil {
				return domain.FeatureCollection{}, fmt.Errorf("reproject %s row %d: %w", path, len(fc.Features)+skipped, err)
			}
		}
		og, err := toOrb(g)
		if err != nil {
			return domain.FeatureCollection{}, &domain.SchemaError{Source: path, Column: "geometry", Err: err}
		}
		fc.Features = append(fc.Features, domain.Feature{Geometry: og, Properties: cleanFields(fields)})
	}
	if err := dec.Error(); err != nil {
		return domain.FeatureCollection{}, &domain.IOError{Op: "decode shapefile", Path: path, Err: err}
	}

	r.metrics.ShapefileDecodeDuration.Observe(time.Since(start).Seconds())
	r.logger.Debug("shapefile decoded",
		"path", path,
		"features", fc.Len(),
		"skipped_null_shapes", skipped,
		"duration", time.Since(start),
	)
	return fc, nil
}

// transform returns the transformation from the file's projection to WGS-84,
// or nil when the file has no .prj sidecar and is taken to be lon/lat already.
func (r *Reader) transform(dec *shp.Decoder, path string) (proj.Transformer, error) {
	prj := strings.TrimSuffix(path, filepath.Ext(path)) + ".prj"
	if _, err := os.Stat(prj); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	src, err := dec.SR()
	if err != nil {
		return nil, &domain.IOError{Op: "read projection", Path: prj, Err: err}
	}
	trans, err := src.NewTransform(r.target)
	if err != nil {
		return nil, fmt.Errorf("projection %s: %w", prj, err)
	}
	return trans, nil
}

// headerColumns returns the ice variable columns present in the DBF header,
// lower-cased, in variable order. Other attributes are ignored.
func headerColumns(fields []gshp.Field) []string {
	present := make(map[string]bool, len(fields))
	for _, f := range fields {
		present[strings.ToLower(strings.TrimSpace(f.String()))] = true
	}
	cols := make([]string, 0, len(domain.Variables))
	for _, v := range domain.Variables {
		if present[v.Column()] {
			cols = append(cols, v.Column())
		}
	}
	return cols
}

// cleanFields strips DBF padding so blank cells read as null.
func cleanFields(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		out[k] = strings.TrimSpace(strings.Trim(v, "\x00"))
	}
	return out
}

