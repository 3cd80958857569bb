package formats

import (
	"bytes"
	"context"
	"io"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/ajitpratap0/datatypes/pkg/table"
)

// parquetWriter implements Writer for Parquet format. Each WriteFrame call
// becomes at least one row group.
type parquetWriter struct {
	writer     io.Writer
	config     *WriterConfig
	mem        memory.Allocator
	fileWriter *pqarrow.FileWriter
	columns    frameBuilder
	rows       int64
}

func newParquetWriter(w io.Writer, config *WriterConfig) *parquetWriter {
	return &parquetWriter{
		writer: w,
		config: config,
		mem:    memory.NewGoAllocator(),
	}
}

func (pw *parquetWriter) open(f *table.Frame) error {
	opts := []parquet.WriterProperty{
		parquet.WithCompression(parquetCompression(pw.config.Compression)),
		parquet.WithStats(pw.config.EnableStats),
		parquet.WithCreatedBy("datatypes"),
	}
	if pw.config.RowGroupSize > 0 {
		opts = append(opts, parquet.WithMaxRowGroupLength(pw.config.RowGroupSize))
	}

	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithAllocator(pw.mem))

	fw, err := pqarrow.NewFileWriter(f.ArrowSchema(), writerOnly{pw.writer}, parquet.NewWriterProperties(opts...), arrowProps)
	if err != nil {
		return writeFailed(Parquet, err)
	}
	pw.fileWriter = fw
	pw.columns.setNames(f.Names())
	return nil
}

func (pw *parquetWriter) WriteFrame(f *table.Frame) error {
	if pw.fileWriter == nil {
		if err := pw.open(f); err != nil {
			return err
		}
	}
	if err := pw.columns.checkNames(f.Names()); err != nil {
		return err
	}

	rec := f.ToArrow(pw.mem)
	defer rec.Release()

	if err := pw.fileWriter.Write(rec); err != nil {
		return writeFailed(Parquet, err)
	}
	pw.rows += int64(f.NumRows())
	return nil
}

func (pw *parquetWriter) Close() error {
	if pw.fileWriter == nil {
		return nil
	}
	if err := pw.fileWriter.Close(); err != nil {
		return writeFailed(Parquet, err)
	}
	return nil
}

func (pw *parquetWriter) Format() Format { return Parquet }

func (pw *parquetWriter) RowsWritten() int64 { return pw.rows }

// parquetReader implements Reader for Parquet format
type parquetReader struct {
	reader     io.Reader
	fileReader *file.Reader
}

func newParquetReader(r io.Reader) *parquetReader {
	return &parquetReader{reader: r}
}

func (pr *parquetReader) ReadFrame() (*table.Frame, error) {
	// Parquet needs random access to the footer
	data, err := io.ReadAll(pr.reader)
	if err != nil {
		return nil, readFailed(Parquet, err)
	}

	fr, err := file.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, readFailed(Parquet, err)
	}
	pr.fileReader = fr

	arrowReader, err := pqarrow.NewFileReader(fr, pqarrow.ArrowReadProperties{}, memory.NewGoAllocator())
	if err != nil {
		return nil, readFailed(Parquet, err)
	}

	tbl, err := arrowReader.ReadTable(context.Background())
	if err != nil {
		return nil, readFailed(Parquet, err)
	}
	defer tbl.Release()

	return table.FrameFromArrowTable(tbl)
}

func (pr *parquetReader) Close() error {
	if pr.fileReader == nil {
		return nil
	}
	return pr.fileReader.Close()
}

func (pr *parquetReader) Format() Format { return Parquet }

func parquetCompression(name string) compress.Compression {
	switch name {
	case "none", "":
		return compress.Codecs.Uncompressed
	case "gzip":
		return compress.Codecs.Gzip
	case "zstd":
		return compress.Codecs.Zstd
	case "lz4":
		return compress.Codecs.Lz4Raw
	default:
		return compress.Codecs.Snappy
	}
}
