package table

import (
	"math"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/datatypes/pkg/errors"
)

// ArrowSchema returns the Arrow schema of a Frame: one non-nullable float64
// field per column, in column order
func (f *Frame) ArrowSchema() *arrow.Schema {
	fields := make([]arrow.Field, len(f.columns))
	for i, col := range f.columns {
		fields[i] = arrow.Field{
			Name: col.Name,
			Type: arrow.PrimitiveTypes.Float64,
		}
	}
	return arrow.NewSchema(fields, nil)
}

// ToArrow builds an Arrow record holding the frame's columns. The caller owns
// the record and must Release it. A nil allocator means the Go allocator.
func (f *Frame) ToArrow(mem memory.Allocator) arrow.Record {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	builder := array.NewRecordBuilder(mem, f.ArrowSchema())
	defer builder.Release()

	for i, col := range f.columns {
		builder.Field(i).(*array.Float64Builder).AppendValues(col.Values, nil)
	}
	return builder.NewRecord()
}

// FrameFromArrow reads an Arrow record into a Frame. Integer and float columns
// are accepted; nulls become NaN.
func FrameFromArrow(rec arrow.Record) (*Frame, error) {
	if rec == nil {
		return nil, errors.New(errors.ErrorTypeValidation, "arrow record is nil")
	}

	schema := rec.Schema()
	cols := make([]Column, 0, rec.NumCols())
	for i := 0; i < int(rec.NumCols()); i++ {
		values, err := arrowFloats(rec.Column(i))
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeValidation, "unsupported arrow column").
				WithDetail("column", schema.Field(i).Name)
		}
		cols = append(cols, Column{Name: schema.Field(i).Name, Values: values})
	}
	return NewFrame(cols...)
}

// FrameFromArrowTable concatenates the chunks of an Arrow table into a Frame
func FrameFromArrowTable(tbl arrow.Table) (*Frame, error) {
	schema := tbl.Schema()
	cols := make([]Column, 0, tbl.NumCols())
	for i := 0; i < int(tbl.NumCols()); i++ {
		values := make([]float64, 0, tbl.NumRows())
		for _, chunk := range tbl.Column(i).Data().Chunks() {
			part, err := arrowFloats(chunk)
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrorTypeValidation, "unsupported arrow column").
					WithDetail("column", schema.Field(i).Name)
			}
			values = append(values, part...)
		}
		cols = append(cols, Column{Name: schema.Field(i).Name, Values: values})
	}
	return NewFrame(cols...)
}

func arrowFloats(arr arrow.Array) ([]float64, error) {
	out := make([]float64, arr.Len())
	for i := range out {
		if arr.IsNull(i) {
			out[i] = math.NaN()
			continue
		}
		switch c := arr.(type) {
		case *array.Float64:
			out[i] = c.Value(i)
		case *array.Float32:
			out[i] = float64(c.Value(i))
		case *array.Int64:
			out[i] = float64(c.Value(i))
		case *array.Int32:
			out[i] = float64(c.Value(i))
		default:
			return nil, errors.Newf(errors.ErrorTypeCapability, "arrow type %s is not numeric", arr.DataType())
		}
	}
	return out, nil
}
