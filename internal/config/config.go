package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	DataDir         string
	OutputDir       string
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	ShapefileCacheSize int
	SimplifyTolerance  float64
	StrictCodes        bool
	WarmConcurrency    int
	RateLimitPerMinute int

	// Artifact event publishing; disabled when no brokers are configured.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string

	// Mapbox basemap; CartoDB Positron is used when no token is set.
	MapboxToken string
	MapboxStyle string
}

// Load reads configuration from environment variables, applying defaults where
// unset. A .env file in the working directory is loaded first if present;
// variables already set in the environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	cacheSize, err := parsePositiveInt("SHAPEFILE_CACHE_SIZE", 16)
	if err != nil {
		return nil, err
	}
	warmConcurrency, err := parsePositiveInt("WARM_CONCURRENCY", 4)
	if err != nil {
		return nil, err
	}
	rateLimit, err := parsePositiveInt("RATE_LIMIT_PER_MINUTE", 120)
	if err != nil {
		return nil, err
	}

	tolerance, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("SIMPLIFY_TOLERANCE", "0"), 64)
	if err != nil || tolerance < 0 {
		return nil, errors.New("invalid SIMPLIFY_TOLERANCE")
	}

	strict, err := strconv.ParseBool(sharedcfg.EnvOrDefault("STRICT_CODES", "false"))
	if err != nil {
		return nil, errors.New("invalid STRICT_CODES")
	}

	cfg := &Config{
		DataDir:            sharedcfg.EnvOrDefault("ICEMAP_DATA_DIR", "./data/CIS"),
		OutputDir:          sharedcfg.EnvOrDefault("ICEMAP_OUTPUT_DIR", "./data/tmp_maps"),
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		ShapefileCacheSize: cacheSize,
		SimplifyTolerance:  tolerance,
		StrictCodes:        strict,
		WarmConcurrency:    warmConcurrency,
		RateLimitPerMinute: rateLimit,
		KafkaTopic:         sharedcfg.EnvOrDefault("KAFKA_TOPIC", "ice-map-artifacts"),
		MapboxToken:        os.Getenv("MAPBOX_TOKEN"),
		MapboxStyle:        sharedcfg.EnvOrDefault("MAPBOX_STYLE", "mapbox/light-v11"),
	}

	if brokers := strings.TrimSpace(os.Getenv("KAFKA_BROKERS")); brokers != "" {
		cfg.KafkaBrokers = sharedcfg.ParseBrokers(brokers)
		cfg.KafkaEnabled = len(cfg.KafkaBrokers) > 0
	}

	if cfg.DataDir == "" {
		return nil, errors.New("ICEMAP_DATA_DIR is required")
	}
	if cfg.OutputDir == "" {
		return nil, errors.New("ICEMAP_OUTPUT_DIR is required")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}
