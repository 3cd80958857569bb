package formats

import (
	"fmt"
	"io"

	"github.com/linkedin/goavro/v2"

	"github.com/ajitpratap0/datatypes/pkg/errors"
	jsonpool "github.com/ajitpratap0/datatypes/pkg/json"
	"github.com/ajitpratap0/datatypes/pkg/table"
)

// columnsMetaKey stores the original column names in the container header.
// Field names are positional (f0, f1, ...) because column names need not be
// valid Avro names.
const columnsMetaKey = "datatypes.columns"

type avroSchema struct {
	Type      string      `json:"type"`
	Name      string      `json:"name"`
	Namespace string      `json:"namespace,omitempty"`
	Fields    []avroField `json:"fields"`
}

type avroField struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// avroWriter implements Writer for Avro object container files
type avroWriter struct {
	writer    io.Writer
	config    *WriterConfig
	ocfWriter *goavro.OCFWriter
	fields    []string
	columns   frameBuilder
	rows      int64
}

func newAvroWriter(w io.Writer, config *WriterConfig) *avroWriter {
	return &avroWriter{writer: w, config: config}
}

func (aw *avroWriter) open(f *table.Frame) error {
	names := f.Names()
	schema := avroSchema{Type: "record", Name: "Frame", Namespace: "datatypes"}
	aw.fields = make([]string, len(names))
	for i := range names {
		aw.fields[i] = fmt.Sprintf("f%d", i)
		schema.Fields = append(schema.Fields, avroField{Name: aw.fields[i], Type: "double"})
	}

	schemaJSON, err := jsonpool.Marshal(schema)
	if err != nil {
		return writeFailed(Avro, err)
	}
	codec, err := goavro.NewCodec(string(schemaJSON))
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "failed to create Avro codec")
	}
	columnsJSON, err := jsonpool.Marshal(names)
	if err != nil {
		return writeFailed(Avro, err)
	}

	ocfWriter, err := goavro.NewOCFWriter(goavro.OCFConfig{
		W:               writerOnly{aw.writer},
		Codec:           codec,
		CompressionName: avroCompression(aw.config.Compression),
		MetaData:        map[string][]byte{columnsMetaKey: columnsJSON},
	})
	if err != nil {
		return writeFailed(Avro, err)
	}

	aw.ocfWriter = ocfWriter
	aw.columns.setNames(names)
	return nil
}

func (aw *avroWriter) WriteFrame(f *table.Frame) error {
	if aw.ocfWriter == nil {
		if err := aw.open(f); err != nil {
			return err
		}
	}
	if err := aw.columns.checkNames(f.Names()); err != nil {
		return err
	}

	natives := make([]interface{}, f.NumRows())
	for r := range natives {
		native := make(map[string]interface{}, len(aw.fields))
		for c, field := range aw.fields {
			native[field] = f.At(r, c)
		}
		natives[r] = native
	}

	// OCF blocks are flushed on every Append
	if err := aw.ocfWriter.Append(natives); err != nil {
		return writeFailed(Avro, err)
	}
	aw.rows += int64(len(natives))
	return nil
}

func (aw *avroWriter) Close() error { return nil }

func (aw *avroWriter) Format() Format { return Avro }

func (aw *avroWriter) RowsWritten() int64 { return aw.rows }

// avroReader implements Reader for Avro object container files
type avroReader struct {
	reader io.Reader
}

func newAvroReader(r io.Reader) *avroReader {
	return &avroReader{reader: r}
}

func (ar *avroReader) ReadFrame() (*table.Frame, error) {
	ocfReader, err := goavro.NewOCFReader(ar.reader)
	if err != nil {
		return nil, readFailed(Avro, err)
	}

	var schema avroSchema
	if err := jsonpool.Unmarshal([]byte(ocfReader.Codec().Schema()), &schema); err != nil {
		return nil, readFailed(Avro, err)
	}
	fields := make([]string, len(schema.Fields))
	for i, field := range schema.Fields {
		fields[i] = field.Name
	}

	// names must not share fields' backing array; decoding reuses it
	var names []string
	if raw, ok := ocfReader.MetaData()[columnsMetaKey]; ok {
		if err := jsonpool.Unmarshal(raw, &names); err != nil {
			return nil, readFailed(Avro, err)
		}
		if len(names) != len(fields) {
			return nil, errors.Newf(errors.ErrorTypeData,
				"avro header names %d columns, schema has %d fields", len(names), len(fields))
		}
	} else {
		names = fields
	}

	var b frameBuilder
	b.setNames(names)
	row := make([]float64, len(fields))
	for ocfReader.Scan() {
		datum, err := ocfReader.Read()
		if err != nil {
			return nil, readFailed(Avro, err)
		}
		native, ok := datum.(map[string]interface{})
		if !ok {
			return nil, errors.Newf(errors.ErrorTypeData, "avro datum is %T, expected a record", datum)
		}
		for i, field := range fields {
			v, err := avroFloat(native[field])
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrorTypeData, "invalid avro value").
					WithDetail("field", field)
			}
			row[i] = v
		}
		if err := b.appendRow(row); err != nil {
			return nil, err
		}
	}
	if err := ocfReader.Err(); err != nil {
		return nil, readFailed(Avro, err)
	}
	return b.frame()
}

func (ar *avroReader) Close() error { return nil }

func (ar *avroReader) Format() Format { return Avro }

func avroFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int32:
		return float64(n), nil
	default:
		return 0, errors.Newf(errors.ErrorTypeCapability, "avro value of type %T is not numeric", v)
	}
}

func avroCompression(name string) string {
	switch name {
	case "snappy":
		return goavro.CompressionSnappyLabel
	case "deflate":
		return goavro.CompressionDeflateLabel
	default:
		return goavro.CompressionNullLabel
	}
}
