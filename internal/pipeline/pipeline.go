package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/couchcryptid/ice-climatology-map/internal/domain"
	"github.com/couchcryptid/ice-climatology-map/internal/observability"
	"golang.org/x/sync/singleflight"
)

// FeatureSource reads the feature collection stored at a shapefile path.
type FeatureSource interface {
	Load(ctx context.Context, path string) (domain.FeatureCollection, error)
}

// Renderer turns a preprocessed collection into an HTML artifact.
type Renderer interface {
	Render(ctx context.Context, fc domain.FeatureCollection, sel domain.Selection) ([]byte, error)
}

// ArtifactStore is the artifact cache. Publish must be atomic: a reader sees
// either no artifact or a complete one.
type ArtifactStore interface {
	Exists(ctx context.Context, path string) (bool, error)
	Publish(ctx context.Context, path string, data []byte) error
	CheckWritable(dir string) error
}

// EventPublisher announces generated artifacts.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.ArtifactEvent) error
}

const publishTimeout = 10 * time.Second

// Result describes where the artifact for a selection lives.
type Result struct {
	Selection domain.Selection `json:"selection"`
	Path      string           `json:"path"`
	// Cached is true when the artifact already existed and nothing was rendered.
	Cached bool `json:"cached"`
}

// Dispatcher is the map cache: it resolves a selection to its artifact path
// and renders the artifact only when it is missing. Concurrent requests for
// the same artifact share one render.
type Dispatcher struct {
	layout       domain.Layout
	source       FeatureSource
	preprocessor *Preprocessor
	renderer     Renderer
	store        ArtifactStore
	events       EventPublisher
	logger       *slog.Logger
	metrics      *observability.Metrics
	group        singleflight.Group
}

// Option configures optional Dispatcher collaborators.
type Option func(*Dispatcher)

// WithEventPublisher publishes an ArtifactEvent after every render.
func WithEventPublisher(p EventPublisher) Option {
	return func(d *Dispatcher) { d.events = p }
}

// WithCodePolicy sets how malformed attribute codes are handled. The default
// is domain.Lenient.
func WithCodePolicy(policy domain.CodePolicy) Option {
	return func(d *Dispatcher) { d.preprocessor = NewPreprocessor(policy, d.logger) }
}

// New creates a Dispatcher with the given stages and observability.
func New(layout domain.Layout, source FeatureSource, renderer Renderer, store ArtifactStore, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		layout:   layout,
		source:   source,
		renderer: renderer,
		store:    store,
		logger:   logger,
		metrics:  metrics,
	}
	d.preprocessor = NewPreprocessor(domain.Lenient, logger)
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Layout returns the dataset layout the dispatcher resolves paths against.
func (d *Dispatcher) Layout() domain.Layout { return d.layout }

// EnsureMap returns the artifact for sel, rendering it from the shapefile the
// layout assigns to sel if it does not exist yet.
func (d *Dispatcher) EnsureMap(ctx context.Context, sel domain.Selection) (Result, error) {
	return d.EnsureMapAt(ctx, sel, d.layout.ShapefilePath(sel))
}

// EnsureMapAt is EnsureMap with an explicit shapefile path. An existing
// artifact is returned without touching the shapefile. If ctx ends while a
// render is in flight the call returns early; the render itself finishes for
// any other callers waiting on it.
func (d *Dispatcher) EnsureMapAt(ctx context.Context, sel domain.Selection, shapefilePath string) (Result, error) {
	if err := sel.Validate(); err != nil {
		d.metrics.MapRequests.WithLabelValues(string(sel.Mode), "error").Inc()
		return Result{}, err
	}
	logger := d.logger.With("mode", sel.Mode, "variable", sel.Variable, "date", sel.Date)
	path := d.layout.ArtifactPath(sel)

	ok, err := d.store.Exists(ctx, path)
	if err != nil {
		d.metrics.MapRequests.WithLabelValues(string(sel.Mode), "error").Inc()
		return Result{}, err
	}
	if ok {
		d.metrics.MapRequests.WithLabelValues(string(sel.Mode), "hit").Inc()
		logger.Debug("artifact cache hit", "path", path)
		return Result{Selection: sel, Path: path, Cached: true}, nil
	}

	ch := d.group.DoChan(path, func() (any, error) {
		return d.generate(context.WithoutCancel(ctx), logger, sel, shapefilePath, path)
	})

	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			d.metrics.MapRequests.WithLabelValues(string(sel.Mode), "error").Inc()
			return Result{}, res.Err
		}
		result := res.Val.(Result)
		label := "miss"
		if result.Cached {
			label = "hit"
		}
		d.metrics.MapRequests.WithLabelValues(string(sel.Mode), label).Inc()
		return result, nil
	}
}

// generate runs load, preprocess, render, and publish for one artifact.
func (d *Dispatcher) generate(ctx context.Context, logger *slog.Logger, sel domain.Selection, shapefilePath, path string) (Result, error) {
	// A flight that finished just before this one started may already have
	// published the artifact.
	if ok, err := d.store.Exists(ctx, path); err == nil && ok {
		return Result{Selection: sel, Path: path, Cached: true}, nil
	}

	start := time.Now()
	d.metrics.InflightRenders.Inc()
	defer d.metrics.InflightRenders.Dec()

	fc, err := d.source.Load(ctx, shapefilePath)
	if err != nil {
		logger.Error("load shapefile failed", "path", shapefilePath, "error", err)
		return Result{}, fmt.Errorf("load %s: %w", sel.Key(), err)
	}

	out, dropped, err := d.preprocessor.Preprocess(fc, sel)
	if err != nil {
		logger.Error("preprocess failed", "path", shapefilePath, "error", err)
		return Result{}, fmt.Errorf("preprocess %s: %w", sel.Key(), err)
	}

	html, err := d.renderer.Render(ctx, out, sel)
	if err != nil {
		logger.Error("render failed", "error", err)
		return Result{}, fmt.Errorf("render %s: %w", sel.Key(), err)
	}

	if err := d.store.Publish(ctx, path, html); err != nil {
		logger.Error("publish artifact failed", "path", path, "error", err)
		return Result{}, fmt.Errorf("publish %s: %w", sel.Key(), err)
	}

	elapsed := time.Since(start)
	d.metrics.RenderDuration.WithLabelValues(string(sel.Mode)).Observe(elapsed.Seconds())
	d.metrics.ArtifactBytes.Observe(float64(len(html)))
	d.metrics.FeaturesRetained.Add(float64(out.Len()))
	d.metrics.FeaturesDropped.Add(float64(dropped))
	logger.Info("artifact generated",
		"path", path,
		"retained", out.Len(),
		"dropped", dropped,
		"bytes", len(html),
		"duration", elapsed,
	)

	event := domain.NewArtifactEvent(sel, path, shapefilePath)
	event.Retained = out.Len()
	event.Dropped = dropped
	event.Bytes = len(html)
	event.Duration = elapsed
	d.publish(ctx, logger, event)

	return Result{Selection: sel, Path: path}, nil
}

// publish is best-effort: the artifact is already in place, so a failure is
// logged and counted but never returned.
func (d *Dispatcher) publish(ctx context.Context, logger *slog.Logger, event domain.ArtifactEvent) {
	if d.events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := d.events.Publish(ctx, event); err != nil {
		d.metrics.EventsPublished.WithLabelValues("error").Inc()
		logger.Warn("publish artifact event failed", "event_id", event.ID, "error", err)
		return
	}
	d.metrics.EventsPublished.WithLabelValues("success").Inc()
}

// CheckReadiness returns nil when the dataset directory is readable and the
// artifact directory is writable.
func (d *Dispatcher) CheckReadiness(_ context.Context) error {
	f, err := os.Open(d.layout.DataDir)
	if err != nil {
		return fmt.Errorf("data dir: %w", err)
	}
	defer f.Close()
	if _, err := f.Readdirnames(1); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("data dir: %w", err)
	}
	if err := d.store.CheckWritable(d.layout.OutputDir); err != nil {
		return fmt.Errorf("output dir: %w", err)
	}
	return nil
}
