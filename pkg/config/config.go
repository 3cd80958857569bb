// Package config defines the single configuration structure of the
// datatypes tool. Every section maps to the package it configures:
//   - Log: the zap logger (pkg/logger)
//   - Harness: conversion harness runs (pkg/harness)
//   - Export: fixture exports (pkg/exporter) and their destination (pkg/sink)
//   - Metrics: the Prometheus textfile dump (pkg/metrics)
//   - Tracing: OpenTelemetry tracing (pkg/observability)
//
// Example usage:
//
//	cfg, err := config.Load("datatypes.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cfg.Harness.Workers = 8
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"runtime"

	"github.com/ajitpratap0/datatypes/pkg/compression"
	"github.com/ajitpratap0/datatypes/pkg/errors"
	"github.com/ajitpratap0/datatypes/pkg/exporter"
	"github.com/ajitpratap0/datatypes/pkg/formats"
	"github.com/ajitpratap0/datatypes/pkg/harness"
	"github.com/ajitpratap0/datatypes/pkg/logger"
	"github.com/ajitpratap0/datatypes/pkg/observability"
	"github.com/ajitpratap0/datatypes/pkg/sink"
	"github.com/ajitpratap0/datatypes/pkg/table/mtype"
)

// Config is the configuration of the datatypes tool
type Config struct {
	Log     logger.Config               `yaml:"log" mapstructure:"log"`
	Harness harness.Config              `yaml:"harness" mapstructure:"harness"`
	Export  ExportConfig                `yaml:"export" mapstructure:"export"`
	Metrics MetricsConfig               `yaml:"metrics" mapstructure:"metrics"`
	Tracing observability.TracingConfig `yaml:"tracing" mapstructure:"tracing"`
}

// ExportConfig configures fixture exports
type ExportConfig struct {
	// Destination is a directory, file:// URL, s3:// or gs:// location
	Destination     string `yaml:"destination" mapstructure:"destination"`
	exporter.Config `yaml:",inline" mapstructure:",squash"`
	Sink            sink.Config `yaml:"sink" mapstructure:"sink"`
}

// MetricsConfig controls the metrics dump written after a command
type MetricsConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Textfile receives the metrics in the Prometheus text format
	Textfile string `yaml:"textfile" mapstructure:"textfile"`
}

// NewConfig returns the configuration with defaults for every section
func NewConfig() *Config {
	return &Config{
		Log: logger.DefaultConfig(),
		Harness: harness.Config{
			Workers: runtime.NumCPU(),
		},
		Export: ExportConfig{
			Destination: "fixtures",
			Config:      exporter.DefaultConfig(),
			Sink: sink.Config{
				PartSize:    5 * 1024 * 1024,
				Concurrency: 4,
			},
		},
		Metrics: MetricsConfig{
			Textfile: "datatypes.prom",
		},
		Tracing: observability.DefaultTracingConfig(),
	}
}

// Validate checks the configuration for values the tool cannot run with
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.Newf(errors.ErrorTypeConfig, "log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	if c.Log.Encoding != "json" && c.Log.Encoding != "console" {
		return errors.Newf(errors.ErrorTypeConfig, "log.encoding must be json or console, got %q", c.Log.Encoding)
	}

	if c.Harness.Workers <= 0 {
		return errors.New(errors.ErrorTypeConfig, "harness.workers must be positive")
	}
	for _, k := range c.Harness.Kinds {
		if !validKind(k) {
			return errors.Newf(errors.ErrorTypeConfig, "unknown harness kind %q", k)
		}
	}

	if c.Export.Destination == "" {
		return errors.New(errors.ErrorTypeConfig, "export.destination is required")
	}
	if _, err := formats.ParseFormat(string(c.Export.Format)); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "invalid export.format")
	}
	if _, err := compression.ParseAlgorithm(string(c.Export.Compression)); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "invalid export.compression")
	}
	for _, s := range c.Export.SciTypes {
		if _, err := mtype.ParseSciType(string(s)); err != nil {
			return errors.Wrap(err, errors.ErrorTypeConfig, "invalid export.scitypes")
		}
	}

	if c.Metrics.Enabled && c.Metrics.Textfile == "" {
		return errors.New(errors.ErrorTypeConfig, "metrics.textfile is required when metrics are enabled")
	}
	if c.Tracing.SamplingRate < 0 || c.Tracing.SamplingRate > 1 {
		return errors.New(errors.ErrorTypeConfig, "tracing.sampling_rate must be between 0 and 1")
	}
	return nil
}

func validKind(k harness.Kind) bool {
	for _, known := range harness.Kinds() {
		if k == known {
			return true
		}
	}
	return false
}
