package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/ice-climatology-map/internal/adapter/filestore"
	kafkaadapter "github.com/couchcryptid/ice-climatology-map/internal/adapter/kafka"
	"github.com/couchcryptid/ice-climatology-map/internal/adapter/leaflet"
	"github.com/couchcryptid/ice-climatology-map/internal/adapter/shapefile"
	"github.com/couchcryptid/ice-climatology-map/internal/config"
	"github.com/couchcryptid/ice-climatology-map/internal/domain"
	"github.com/couchcryptid/ice-climatology-map/internal/observability"
	"github.com/couchcryptid/ice-climatology-map/internal/pipeline"
)

// app holds the wired components shared by every subcommand.
type app struct {
	cfg        *config.Config
	logger     *slog.Logger
	metrics    *observability.Metrics
	source     *shapefile.CachedSource
	dispatcher *pipeline.Dispatcher
	writer     *kafkaadapter.Writer
}

func loadConfig(flags *globalFlags) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if flags.dataDir != "" {
		cfg.DataDir = flags.dataDir
	}
	if flags.outputDir != "" {
		cfg.OutputDir = flags.outputDir
	}
	if flags.strict {
		cfg.StrictCodes = true
	}
	return cfg, nil
}

func newApp(flags *globalFlags) (*app, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	reader, err := shapefile.NewReader(logger, metrics)
	if err != nil {
		return nil, err
	}
	source := shapefile.NewCachedSource(reader, cfg.ShapefileCacheSize, metrics)

	basemap := leaflet.BasemapFor(cfg.MapboxToken, cfg.MapboxStyle)
	renderer, err := leaflet.NewRenderer(leaflet.Options{Basemap: basemap, SimplifyTolerance: cfg.SimplifyTolerance})
	if err != nil {
		return nil, err
	}

	policy := domain.Lenient
	if cfg.StrictCodes {
		policy = domain.Strict
	}
	opts := []pipeline.Option{pipeline.WithCodePolicy(policy)}

	a := &app{cfg: cfg, logger: logger, metrics: metrics, source: source}
	if cfg.KafkaEnabled {
		a.writer = kafkaadapter.NewWriter(cfg, logger)
		opts = append(opts, pipeline.WithEventPublisher(a.writer))
		logger.Info("artifact events enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	layout := domain.Layout{DataDir: cfg.DataDir, OutputDir: cfg.OutputDir}
	a.dispatcher = pipeline.New(layout, source, renderer, filestore.New(), logger, metrics, opts...)

	logger.Info("icemap configured",
		"data_dir", cfg.DataDir,
		"output_dir", cfg.OutputDir,
		"basemap", basemap.Description,
		"code_policy", policy,
		"shapefile_cache", cfg.ShapefileCacheSize,
	)
	return a, nil
}

func (a *app) Close() error {
	if a.writer == nil {
		return nil
	}
	if err := a.writer.Close(); err != nil {
		return errors.Join(errors.New("kafka writer close"), err)
	}
	return nil
}
