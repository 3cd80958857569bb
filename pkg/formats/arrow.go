package formats

import (
	"bytes"
	"io"

	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/datatypes/pkg/table"
)

// arrowWriter implements Writer for the Arrow IPC file format
type arrowWriter struct {
	writer     io.Writer
	config     *WriterConfig
	mem        memory.Allocator
	fileWriter *ipc.FileWriter
	columns    frameBuilder
	rows       int64
}

func newArrowWriter(w io.Writer, config *WriterConfig) *arrowWriter {
	return &arrowWriter{
		writer: w,
		config: config,
		mem:    memory.NewGoAllocator(),
	}
}

func (aw *arrowWriter) open(f *table.Frame) error {
	opts := []ipc.Option{
		ipc.WithSchema(f.ArrowSchema()),
		ipc.WithAllocator(aw.mem),
	}
	switch aw.config.Compression {
	case "zstd":
		opts = append(opts, ipc.WithZstd())
	case "lz4":
		opts = append(opts, ipc.WithLZ4())
	}

	fw, err := ipc.NewFileWriter(writerOnly{aw.writer}, opts...)
	if err != nil {
		return writeFailed(Arrow, err)
	}
	aw.fileWriter = fw
	aw.columns.setNames(f.Names())
	return nil
}

func (aw *arrowWriter) WriteFrame(f *table.Frame) error {
	if aw.fileWriter == nil {
		if err := aw.open(f); err != nil {
			return err
		}
	}
	if err := aw.columns.checkNames(f.Names()); err != nil {
		return err
	}

	rec := f.ToArrow(aw.mem)
	defer rec.Release()

	if err := aw.fileWriter.Write(rec); err != nil {
		return writeFailed(Arrow, err)
	}
	aw.rows += int64(f.NumRows())
	return nil
}

func (aw *arrowWriter) Close() error {
	if aw.fileWriter == nil {
		return nil
	}
	if err := aw.fileWriter.Close(); err != nil {
		return writeFailed(Arrow, err)
	}
	return nil
}

func (aw *arrowWriter) Format() Format { return Arrow }

func (aw *arrowWriter) RowsWritten() int64 { return aw.rows }

// arrowReader implements Reader for the Arrow IPC file format
type arrowReader struct {
	reader     io.Reader
	fileReader *ipc.FileReader
}

func newArrowReader(r io.Reader) *arrowReader {
	return &arrowReader{reader: r}
}

func (ar *arrowReader) ReadFrame() (*table.Frame, error) {
	data, err := io.ReadAll(ar.reader)
	if err != nil {
		return nil, readFailed(Arrow, err)
	}

	fr, err := ipc.NewFileReader(bytes.NewReader(data), ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return nil, readFailed(Arrow, err)
	}
	ar.fileReader = fr

	var b frameBuilder
	fields := fr.Schema().Fields()
	names := make([]string, len(fields))
	for i, field := range fields {
		names[i] = field.Name
	}
	b.setNames(names)

	for i := 0; i < fr.NumRecords(); i++ {
		// records are owned by the reader; FrameFromArrow copies the values
		rec, err := fr.Record(i)
		if err != nil {
			return nil, readFailed(Arrow, err)
		}
		f, err := table.FrameFromArrow(rec)
		if err != nil {
			return nil, err
		}
		if err := b.appendFrame(f); err != nil {
			return nil, err
		}
	}
	return b.frame()
}

func (ar *arrowReader) Close() error {
	if ar.fileReader == nil {
		return nil
	}
	return ar.fileReader.Close()
}

func (ar *arrowReader) Format() Format { return Arrow }
