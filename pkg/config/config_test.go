package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/datatypes/pkg/compression"
	"github.com/ajitpratap0/datatypes/pkg/errors"
	"github.com/ajitpratap0/datatypes/pkg/formats"
	"github.com/ajitpratap0/datatypes/pkg/harness"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "datatypes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	want := NewConfig()
	assert.Equal(t, want.Log, cfg.Log)
	assert.Equal(t, want.Export.Destination, cfg.Export.Destination)
	assert.Equal(t, formats.Parquet, cfg.Export.Format)
	assert.Equal(t, compression.None, cfg.Export.Compression)
	assert.Equal(t, want.Harness.Workers, cfg.Harness.Workers)
}

func TestLoadFile(t *testing.T) {
	t.Setenv("FIXTURE_BUCKET", "tables")
	path := writeFile(t, `
log:
  level: debug
harness:
  workers: 2
  fail_fast: true
  kinds: [check, roundtrip]
export:
  destination: s3://${FIXTURE_BUCKET}/run
  format: avro
  compression: zstd
  sink:
    region: eu-west-1
    use_path_style: true
tracing:
  enabled: true
  sampling_rate: 0.5
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Encoding, "unset keys keep defaults")
	assert.Equal(t, 2, cfg.Harness.Workers)
	assert.True(t, cfg.Harness.FailFast)
	assert.Equal(t, []harness.Kind{harness.KindCheck, harness.KindRoundTrip}, cfg.Harness.Kinds)
	assert.Equal(t, "s3://tables/run", cfg.Export.Destination)
	assert.Equal(t, formats.Avro, cfg.Export.Format)
	assert.Equal(t, compression.Zstd, cfg.Export.Compression)
	assert.Equal(t, "snappy", cfg.Export.FormatCompression)
	assert.Equal(t, "eu-west-1", cfg.Export.Sink.Region)
	assert.True(t, cfg.Export.Sink.UsePathStyle)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, 0.5, cfg.Tracing.SamplingRate)
	assert.Equal(t, "datatypes", cfg.Tracing.ServiceName)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DATATYPES_HARNESS_WORKERS", "7")
	t.Setenv("DATATYPES_EXPORT_FORMAT", "csv")
	t.Setenv("DATATYPES_LOG_LEVEL", "warn")

	path := writeFile(t, "export:\n  format: json\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Harness.Workers)
	assert.Equal(t, formats.CSV, cfg.Export.Format)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	_, err = Load(writeFile(t, "log: [unclosed"))
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	_, err = Load(writeFile(t, "export:\n  format: orc\n"))
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestSaveAndLoad(t *testing.T) {
	cfg := NewConfig()
	cfg.Export.Destination = "gs://fixtures/tables"
	cfg.Export.Compression = compression.Gzip
	cfg.Metrics.Enabled = true
	cfg.Harness.Workers = 3

	path := filepath.Join(t.TempDir(), "datatypes.yaml")
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Export.Destination, loaded.Export.Destination)
	assert.Equal(t, compression.Gzip, loaded.Export.Compression)
	assert.True(t, loaded.Metrics.Enabled)
	assert.Equal(t, 3, loaded.Harness.Workers)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		modify func(*Config)
	}{
		{"log level", func(c *Config) { c.Log.Level = "verbose" }},
		{"log encoding", func(c *Config) { c.Log.Encoding = "xml" }},
		{"workers", func(c *Config) { c.Harness.Workers = 0 }},
		{"kind", func(c *Config) { c.Harness.Kinds = []harness.Kind{"fuzz"} }},
		{"destination", func(c *Config) { c.Export.Destination = "" }},
		{"format", func(c *Config) { c.Export.Format = "orc" }},
		{"compression", func(c *Config) { c.Export.Compression = "brotli" }},
		{"scitype", func(c *Config) { c.Export.SciTypes = append(c.Export.SciTypes, "Series") }},
		{"metrics", func(c *Config) { c.Metrics.Enabled, c.Metrics.Textfile = true, "" }},
		{"sampling", func(c *Config) { c.Tracing.SamplingRate = 1.5 }},
	}

	require.NoError(t, NewConfig().Validate())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewConfig()
			tc.modify(cfg)
			err := cfg.Validate()
			assert.True(t, errors.IsType(err, errors.ErrorTypeConfig), "%v", err)
		})
	}
}

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("BUCKET", "fixtures")
	assert.Equal(t, "gs://fixtures/x", substituteEnvVars("gs://${BUCKET}/x"))
	assert.Equal(t, "a${b", substituteEnvVars("a${b"))
}
