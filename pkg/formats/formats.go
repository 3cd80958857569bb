// Package formats encodes Frames into on-disk file formats and decodes them back.
//
// Columnar formats (Parquet, Arrow IPC) go through Arrow records; Avro is
// written as an object container file; CSV and JSON are plain text. Every
// format keeps column order and float64 values exactly.
package formats

import (
	"fmt"
	"io"

	"github.com/ajitpratap0/datatypes/pkg/errors"
	"github.com/ajitpratap0/datatypes/pkg/table"
)

// Format represents a file format
type Format string

const (
	// Parquet is Apache Parquet format
	Parquet Format = "parquet"
	// Arrow is the Apache Arrow IPC file format
	Arrow Format = "arrow"
	// Avro is the Apache Avro object container format
	Avro Format = "avro"
	// CSV is comma separated values with a header row
	CSV Format = "csv"
	// JSON is a {"columns": [...], "data": [[...]]} document
	JSON Format = "json"
)

// Formats lists every supported format
func Formats() []Format {
	return []Format{Parquet, Arrow, Avro, CSV, JSON}
}

// ParseFormat resolves a format name
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats() {
		if string(f) == s {
			return f, nil
		}
	}
	return "", errors.Newf(errors.ErrorTypeNotFound, "unsupported format: %s", s)
}

// Writer encodes frames. Successive WriteFrame calls append rows and must
// share the first frame's column names. Close finishes the file; it does not
// close the underlying io.Writer.
type Writer interface {
	// WriteFrame appends the frame's rows
	WriteFrame(f *table.Frame) error
	// Close flushes and finishes the file
	Close() error
	// Format returns the file format
	Format() Format
	// RowsWritten returns rows written so far
	RowsWritten() int64
}

// Reader decodes a whole file into a single Frame
type Reader interface {
	// ReadFrame reads every row of the file
	ReadFrame() (*table.Frame, error)
	// Close releases resources held by the reader
	Close() error
	// Format returns the file format
	Format() Format
}

// WriterConfig configures writers
type WriterConfig struct {
	Format Format
	// Compression is the format's internal codec: snappy, zstd, gzip, lz4,
	// deflate or none. Formats ignore codecs they do not support.
	Compression string
	// RowGroupSize bounds Parquet row groups
	RowGroupSize int64
	EnableStats  bool
}

// DefaultWriterConfig returns default writer configuration
func DefaultWriterConfig() *WriterConfig {
	return &WriterConfig{
		Format:       Parquet,
		Compression:  "snappy",
		RowGroupSize: 64 * 1024,
		EnableStats:  true,
	}
}

// ReaderConfig configures readers
type ReaderConfig struct {
	Format Format
}

// NewWriter creates a writer for config.Format; nil config means DefaultWriterConfig
func NewWriter(w io.Writer, config *WriterConfig) (Writer, error) {
	if config == nil {
		config = DefaultWriterConfig()
	}

	switch config.Format {
	case Parquet:
		return newParquetWriter(w, config), nil
	case Arrow:
		return newArrowWriter(w, config), nil
	case Avro:
		return newAvroWriter(w, config), nil
	case CSV:
		return newCSVWriter(w), nil
	case JSON:
		return newJSONWriter(w), nil
	default:
		return nil, errors.Newf(errors.ErrorTypeNotFound, "unsupported format: %s", config.Format)
	}
}

// NewReader creates a reader for config.Format
func NewReader(r io.Reader, config *ReaderConfig) (Reader, error) {
	if config == nil {
		return nil, errors.New(errors.ErrorTypeConfig, "reader config is required")
	}

	switch config.Format {
	case Parquet:
		return newParquetReader(r), nil
	case Arrow:
		return newArrowReader(r), nil
	case Avro:
		return newAvroReader(r), nil
	case CSV:
		return newCSVReader(r), nil
	case JSON:
		return newJSONReader(r), nil
	default:
		return nil, errors.Newf(errors.ErrorTypeNotFound, "unsupported format: %s", config.Format)
	}
}

// WriteFrame encodes a single frame to w
func WriteFrame(w io.Writer, f *table.Frame, config *WriterConfig) error {
	fw, err := NewWriter(w, config)
	if err != nil {
		return err
	}
	if err := fw.WriteFrame(f); err != nil {
		_ = fw.Close()
		return err
	}
	return fw.Close()
}

// ReadFrame decodes a whole file from r
func ReadFrame(r io.Reader, format Format) (*table.Frame, error) {
	fr, err := NewReader(r, &ReaderConfig{Format: format})
	if err != nil {
		return nil, err
	}
	defer fr.Close()
	return fr.ReadFrame()
}

// FormatInfo provides information about file formats
type FormatInfo struct {
	Format           Format
	Name             string
	Description      string
	FileExtension    string
	MIMEType         string
	Columnar         bool
	SupportsSchema   bool
	SupportsCompress bool
}

// GetFormatInfo returns information about a format, or nil if unknown
func GetFormatInfo(format Format) *FormatInfo {
	switch format {
	case Parquet:
		return &FormatInfo{
			Format:           Parquet,
			Name:             "Apache Parquet",
			Description:      "Columnar storage format optimized for analytics",
			FileExtension:    ".parquet",
			MIMEType:         "application/x-parquet",
			Columnar:         true,
			SupportsSchema:   true,
			SupportsCompress: true,
		}
	case Arrow:
		return &FormatInfo{
			Format:           Arrow,
			Name:             "Apache Arrow",
			Description:      "Arrow IPC file format",
			FileExtension:    ".arrow",
			MIMEType:         "application/vnd.apache.arrow.file",
			Columnar:         true,
			SupportsSchema:   true,
			SupportsCompress: true,
		}
	case Avro:
		return &FormatInfo{
			Format:           Avro,
			Name:             "Apache Avro",
			Description:      "Row-oriented object container file",
			FileExtension:    ".avro",
			MIMEType:         "application/avro",
			SupportsSchema:   true,
			SupportsCompress: true,
		}
	case CSV:
		return &FormatInfo{
			Format:        CSV,
			Name:          "CSV",
			Description:   "Comma separated values with a header row",
			FileExtension: ".csv",
			MIMEType:      "text/csv",
		}
	case JSON:
		return &FormatInfo{
			Format:        JSON,
			Name:          "JSON",
			Description:   "Column names and row-major data",
			FileExtension: ".json",
			MIMEType:      "application/json",
		}
	default:
		return nil
	}
}

// writerOnly hides any Close method of the wrapped writer from encoders that
// close their sink
type writerOnly struct {
	io.Writer
}

// frameBuilder accumulates rows of frames sharing the same column names
type frameBuilder struct {
	names  []string
	values [][]float64
}

func (b *frameBuilder) setNames(names []string) {
	b.names = names
	b.values = make([][]float64, len(names))
}

func (b *frameBuilder) appendFrame(f *table.Frame) error {
	if b.names == nil {
		b.setNames(f.Names())
	}
	if err := b.checkNames(f.Names()); err != nil {
		return err
	}
	for i := range b.names {
		b.values[i] = append(b.values[i], f.ColumnAt(i).Values...)
	}
	return nil
}

func (b *frameBuilder) appendRow(row []float64) error {
	if len(row) != len(b.names) {
		return errors.Newf(errors.ErrorTypeData, "row has %d values, expected %d", len(row), len(b.names))
	}
	for i, v := range row {
		b.values[i] = append(b.values[i], v)
	}
	return nil
}

func (b *frameBuilder) checkNames(names []string) error {
	if len(names) != len(b.names) {
		return errors.Newf(errors.ErrorTypeValidation, "frame has %d columns, expected %d", len(names), len(b.names))
	}
	for i, name := range names {
		if name != b.names[i] {
			return errors.Newf(errors.ErrorTypeValidation, "column %d is %q, expected %q", i, name, b.names[i])
		}
	}
	return nil
}

func (b *frameBuilder) rows() int {
	if len(b.values) == 0 {
		return 0
	}
	return len(b.values[0])
}

func (b *frameBuilder) frame() (*table.Frame, error) {
	cols := make([]table.Column, len(b.names))
	for i, name := range b.names {
		cols[i] = table.Column{Name: name, Values: b.values[i]}
	}
	return table.NewFrame(cols...)
}

func readFailed(format Format, err error) error {
	return errors.Wrap(err, errors.ErrorTypeData, fmt.Sprintf("failed to read %s data", format))
}

func writeFailed(format Format, err error) error {
	return errors.Wrap(err, errors.ErrorTypeFile, fmt.Sprintf("failed to write %s data", format))
}
