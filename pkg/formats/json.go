package formats

import (
	"io"
	"math"

	"github.com/ajitpratap0/datatypes/pkg/errors"
	jsonpool "github.com/ajitpratap0/datatypes/pkg/json"
	"github.com/ajitpratap0/datatypes/pkg/table"
)

// jsonDocument is the split layout: column names plus row-major data.
// NaN is written as null.
type jsonDocument struct {
	Columns []string     `json:"columns"`
	Data    [][]*float64 `json:"data"`
}

// jsonWriter implements Writer for JSON. The document is written on Close.
type jsonWriter struct {
	writer  io.Writer
	columns frameBuilder
}

func newJSONWriter(w io.Writer) *jsonWriter {
	return &jsonWriter{writer: w}
}

func (jw *jsonWriter) WriteFrame(f *table.Frame) error {
	return jw.columns.appendFrame(f)
}

func (jw *jsonWriter) Close() error {
	doc := jsonDocument{
		Columns: jw.columns.names,
		Data:    make([][]*float64, jw.columns.rows()),
	}
	if doc.Columns == nil {
		doc.Columns = []string{}
	}
	for r := range doc.Data {
		row := make([]*float64, len(jw.columns.names))
		for c := range row {
			v := jw.columns.values[c][r]
			if !math.IsNaN(v) {
				row[c] = &v
			}
		}
		doc.Data[r] = row
	}

	if err := jsonpool.NewEncoder(jw.writer).Encode(doc); err != nil {
		return writeFailed(JSON, err)
	}
	return nil
}

func (jw *jsonWriter) Format() Format { return JSON }

func (jw *jsonWriter) RowsWritten() int64 { return int64(jw.columns.rows()) }

// jsonReader implements Reader for JSON
type jsonReader struct {
	reader io.Reader
}

func newJSONReader(r io.Reader) *jsonReader {
	return &jsonReader{reader: r}
}

func (jr *jsonReader) ReadFrame() (*table.Frame, error) {
	var doc jsonDocument
	if err := jsonpool.NewDecoder(jr.reader).Decode(&doc); err != nil {
		return nil, readFailed(JSON, err)
	}

	var b frameBuilder
	b.setNames(doc.Columns)
	row := make([]float64, len(doc.Columns))
	for _, values := range doc.Data {
		if len(values) != len(row) {
			return nil, errors.Newf(errors.ErrorTypeData, "json row has %d values, expected %d", len(values), len(row))
		}
		for i, v := range values {
			if v == nil {
				row[i] = math.NaN()
			} else {
				row[i] = *v
			}
		}
		if err := b.appendRow(row); err != nil {
			return nil, err
		}
	}
	return b.frame()
}

func (jr *jsonReader) Close() error { return nil }

func (jr *jsonReader) Format() Format { return JSON }
