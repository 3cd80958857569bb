// Package exporter writes the registered table fixtures to files.
//
// Every (scitype, index) pair becomes one file holding its example as a
// Frame, encoded in the configured format and optionally compressed, named
// <scitype>_<index><format ext><compression ext>. A manifest.json listing
// the files is written last.
package exporter

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ajitpratap0/datatypes/pkg/compression"
	"github.com/ajitpratap0/datatypes/pkg/errors"
	"github.com/ajitpratap0/datatypes/pkg/formats"
	jsonpool "github.com/ajitpratap0/datatypes/pkg/json"
	"github.com/ajitpratap0/datatypes/pkg/logger"
	"github.com/ajitpratap0/datatypes/pkg/metrics"
	"github.com/ajitpratap0/datatypes/pkg/observability"
	"github.com/ajitpratap0/datatypes/pkg/sink"
	"github.com/ajitpratap0/datatypes/pkg/table"
	"github.com/ajitpratap0/datatypes/pkg/table/convert"
	"github.com/ajitpratap0/datatypes/pkg/table/examples"
	"github.com/ajitpratap0/datatypes/pkg/table/mtype"
)

// ManifestName is the file name of the export manifest
const ManifestName = "manifest.json"

// Config configures an export
type Config struct {
	Format formats.Format `yaml:"format" mapstructure:"format"`
	// FormatCompression is the codec used inside the file format
	FormatCompression string                `yaml:"format_compression" mapstructure:"format_compression"`
	Compression       compression.Algorithm `yaml:"compression" mapstructure:"compression"`
	Level             compression.Level     `yaml:"level" mapstructure:"level"`
	// SciTypes restricts the export; empty exports every scitype
	SciTypes []mtype.SciType `yaml:"scitypes" mapstructure:"scitypes"`
}

// DefaultConfig returns an uncompressed Parquet export
func DefaultConfig() Config {
	return Config{
		Format:            formats.Parquet,
		FormatCompression: "snappy",
		Compression:       compression.None,
		Level:             compression.Default,
	}
}

// File describes one exported fixture
type File struct {
	Name     string           `json:"name"`
	Location string           `json:"location"`
	SciType  mtype.SciType    `json:"scitype"`
	Index    int              `json:"index"`
	Source   mtype.MType      `json:"source_mtype"`
	Columns  []string         `json:"columns"`
	Rows     int              `json:"rows"`
	Bytes    int64            `json:"bytes"`
	SHA256   string           `json:"sha256"`
	MTypes   []MTypeLossiness `json:"mtypes"`
}

// MTypeLossiness records how each mtype holds the exported example
type MTypeLossiness struct {
	MType     mtype.MType        `json:"mtype"`
	Lossiness examples.Lossiness `json:"lossiness"`
}

// Manifest lists the files of an export
type Manifest struct {
	GeneratedAt time.Time             `json:"generated_at"`
	Format      formats.Format        `json:"format"`
	Compression compression.Algorithm `json:"compression"`
	Files       []File                `json:"files"`
}

// Exporter writes fixtures to a sink
type Exporter struct {
	config     Config
	sink       sink.Sink
	compressor compression.Compressor
	info       *formats.FormatInfo
	logger     *zap.Logger
}

// New creates an exporter writing to s
func New(config Config, s sink.Sink) (*Exporter, error) {
	info := formats.GetFormatInfo(config.Format)
	if info == nil {
		return nil, errors.Newf(errors.ErrorTypeConfig, "unsupported export format %q", config.Format)
	}
	comp, err := compression.NewCompressor(&compression.Config{
		Algorithm: config.Compression,
		Level:     config.Level,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid export compression")
	}

	return &Exporter{
		config:     config,
		sink:       s,
		compressor: comp,
		info:       info,
		logger:     logger.Get().With(zap.String("component", "exporter")),
	}, nil
}

// Export writes every fixture and the manifest
func (e *Exporter) Export(ctx context.Context) (*Manifest, error) {
	ctx, span := observability.StartSpan(ctx, "export",
		"format", string(e.config.Format),
		"compression", string(e.compressor.Algorithm()))

	manifest, err := e.export(ctx)
	observability.EndSpan(span, err)
	return manifest, err
}

func (e *Exporter) export(ctx context.Context) (*Manifest, error) {
	manifest := &Manifest{
		GeneratedAt: time.Now().UTC(),
		Format:      e.config.Format,
		Compression: e.compressor.Algorithm(),
		Files:       []File{},
	}

	for _, s := range e.sciTypes() {
		for _, index := range examples.Indices(s) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			file, err := e.exportIndex(ctx, s, index)
			if err != nil {
				return nil, err
			}
			manifest.Files = append(manifest.Files, *file)
		}
	}

	buf := jsonpool.GetBuffer()
	defer jsonpool.PutBuffer(buf)
	if err := jsonpool.WriteIndented(buf, manifest); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "failed to encode manifest")
	}
	if _, err := e.sink.Put(ctx, sink.Object{Name: ManifestName, ContentType: "application/json"}, buf); err != nil {
		return nil, err
	}

	e.logger.Info("export complete",
		zap.Int("files", len(manifest.Files)),
		zap.String("manifest", e.sink.Location(ManifestName)))
	return manifest, nil
}

func (e *Exporter) sciTypes() []mtype.SciType {
	if len(e.config.SciTypes) > 0 {
		return e.config.SciTypes
	}
	seen := make(map[mtype.SciType]bool)
	var out []mtype.SciType
	for _, info := range mtype.Register() {
		if !seen[info.SciType] {
			seen[info.SciType] = true
			out = append(out, info.SciType)
		}
	}
	return out
}

func (e *Exporter) exportIndex(ctx context.Context, s mtype.SciType, index int) (*File, error) {
	ctx, span := observability.StartSpan(ctx, "export.file",
		"scitype", string(s), "index", strconv.Itoa(index))

	file, err := e.writeIndex(ctx, s, index)
	observability.EndSpan(span, err)
	return file, err
}

func (e *Exporter) writeIndex(ctx context.Context, s mtype.SciType, index int) (*File, error) {
	frame, source, err := sourceFrame(s, index)
	if err != nil {
		return nil, err
	}

	buf := jsonpool.GetBuffer()
	defer jsonpool.PutBuffer(buf)

	cw, err := e.compressor.NewWriter(buf)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "failed to create compressor")
	}
	err = formats.WriteFrame(cw, frame, &formats.WriterConfig{
		Format:      e.config.Format,
		Compression: e.config.FormatCompression,
		EnableStats: true,
	})
	if err != nil {
		_ = cw.Close()
		return nil, err
	}
	if err := cw.Close(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to compress export")
	}

	sum := sha256.Sum256(buf.Bytes())
	name := fmt.Sprintf("%s_%d%s%s", s, index, e.info.FileExtension, e.compressor.Algorithm().Extension())
	obj := sink.Object{
		Name:        name,
		ContentType: e.info.MIMEType,
		Metadata: map[string]string{
			"scitype":     string(s),
			"index":       strconv.Itoa(index),
			"format":      string(e.config.Format),
			"compression": string(e.compressor.Algorithm()),
		},
	}
	if e.compressor.Algorithm() != compression.None {
		obj.ContentType = "application/octet-stream"
	}

	n, err := e.sink.Put(ctx, obj, buf)
	if err != nil {
		return nil, err
	}

	labels := []string{string(e.config.Format), string(e.compressor.Algorithm())}
	metrics.ExportedBytes.WithLabelValues(labels...).Add(float64(n))
	metrics.ExportedFiles.WithLabelValues(labels...).Inc()

	e.logger.Debug("fixture exported",
		zap.String("scitype", string(s)),
		zap.Int("index", index),
		zap.String("source_mtype", string(source)),
		zap.String("location", e.sink.Location(name)),
		zap.Int64("bytes", n))

	return &File{
		Name:     name,
		Location: e.sink.Location(name),
		SciType:  s,
		Index:    index,
		Source:   source,
		Columns:  frame.Names(),
		Rows:     frame.NumRows(),
		Bytes:    n,
		SHA256:   hex.EncodeToString(sum[:]),
		MTypes:   lossinessOf(s, index),
	}, nil
}

// sourceFrame converts the first lossless example of (s, index), in register
// order, to a Frame. Without a lossless example the first representable one
// is used.
func sourceFrame(s mtype.SciType, index int) (*table.Frame, mtype.MType, error) {
	var fallback mtype.MType
	var chosen mtype.MType
	for _, m := range mtype.OfSciType(s) {
		key := examples.Key{MType: m, SciType: s, Index: index}
		ex, ok := examples.Get(key)
		if !ok || !ex.Representable() {
			continue
		}
		if lossy, _ := examples.LossyFlag(key); lossy == examples.Lossless {
			chosen = m
			break
		}
		if fallback == "" {
			fallback = m
		}
	}
	if chosen == "" {
		chosen = fallback
	}
	if chosen == "" {
		return nil, "", errors.Newf(errors.ErrorTypeNotFound, "no representable example for %s index %d", s, index)
	}

	data, err := examples.Lookup(examples.Key{MType: chosen, SciType: s, Index: index})
	if err != nil {
		return nil, "", err
	}
	out, err := convert.Convert(data, chosen, mtype.PandasDataFrame)
	if err != nil {
		return nil, "", err
	}
	return out.(*table.Frame), chosen, nil
}

func lossinessOf(s mtype.SciType, index int) []MTypeLossiness {
	var out []MTypeLossiness
	for _, m := range mtype.OfSciType(s) {
		lossy, ok := examples.LossyFlag(examples.Key{MType: m, SciType: s, Index: index})
		if !ok {
			continue
		}
		out = append(out, MTypeLossiness{MType: m, Lossiness: lossy})
	}
	return out
}
