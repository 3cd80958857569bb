package formats

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"

	"github.com/ajitpratap0/datatypes/pkg/errors"
	"github.com/ajitpratap0/datatypes/pkg/table"
)

// csvWriter implements Writer for CSV with a header row. Floats use the
// shortest representation that parses back to the same value.
type csvWriter struct {
	writer  *csv.Writer
	columns frameBuilder
	header  bool
	rows    int64
}

func newCSVWriter(w io.Writer) *csvWriter {
	return &csvWriter{writer: csv.NewWriter(w)}
}

func (cw *csvWriter) WriteFrame(f *table.Frame) error {
	if !cw.header {
		cw.columns.setNames(f.Names())
		if err := cw.writer.Write(f.Names()); err != nil {
			return writeFailed(CSV, err)
		}
		cw.header = true
	}
	if err := cw.columns.checkNames(f.Names()); err != nil {
		return err
	}

	record := make([]string, f.NumCols())
	for r := 0; r < f.NumRows(); r++ {
		for c := range record {
			record[c] = strconv.FormatFloat(f.At(r, c), 'g', -1, 64)
		}
		if err := cw.writer.Write(record); err != nil {
			return writeFailed(CSV, err)
		}
	}
	cw.rows += int64(f.NumRows())
	return nil
}

func (cw *csvWriter) Close() error {
	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return writeFailed(CSV, err)
	}
	return nil
}

func (cw *csvWriter) Format() Format { return CSV }

func (cw *csvWriter) RowsWritten() int64 { return cw.rows }

// csvReader implements Reader for CSV with a header row. Empty cells read as NaN.
type csvReader struct {
	reader *csv.Reader
}

func newCSVReader(r io.Reader) *csvReader {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true
	return &csvReader{reader: reader}
}

func (cr *csvReader) ReadFrame() (*table.Frame, error) {
	header, err := cr.reader.Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrorTypeData, "csv data has no header row")
	}
	if err != nil {
		return nil, readFailed(CSV, err)
	}

	var b frameBuilder
	b.setNames(append([]string(nil), header...))

	row := make([]float64, len(header))
	for line := 2; ; line++ {
		record, err := cr.reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, readFailed(CSV, err)
		}
		for i, cell := range record {
			if cell == "" {
				row[i] = math.NaN()
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrorTypeData, "invalid csv value").
					WithDetail("line", line).
					WithDetail("column", header[i])
			}
			row[i] = v
		}
		if err := b.appendRow(row); err != nil {
			return nil, err
		}
	}
	return b.frame()
}

func (cr *csvReader) Close() error { return nil }

func (cr *csvReader) Format() Format { return CSV }
