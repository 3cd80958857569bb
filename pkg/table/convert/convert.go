// Package convert converts Table objects between mtypes.
//
// Direct conversions are registered per (from, to) pair. Pairs without a
// direct conversion go through the data frame representation, which keeps
// all content. Conversions into unlabelled mtypes drop column names; the
// reverse direction assigns positional names "0", "1", ... Content that the
// target cannot hold, such as several columns for numpy1D, fails with an
// unrepresentable error.
package convert

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/ajitpratap0/datatypes/pkg/errors"
	"github.com/ajitpratap0/datatypes/pkg/metrics"
	"github.com/ajitpratap0/datatypes/pkg/table"
	"github.com/ajitpratap0/datatypes/pkg/table/check"
	"github.com/ajitpratap0/datatypes/pkg/table/mtype"
)

// Func converts an object that is known to be a valid instance of the source mtype
type Func func(obj any) (any, error)

// Pair is a (from, to) mtype pair
type Pair struct {
	From mtype.MType `json:"from"`
	To   mtype.MType `json:"to"`
}

func (p Pair) String() string {
	return fmt.Sprintf("%s -> %s", p.From, p.To)
}

// hub is the representation that every mtype converts to and from
const hub = mtype.PandasDataFrame

var conversions = map[Pair]Func{
	{mtype.PandasDataFrame, mtype.Numpy2D}:    frameToMatrix,
	{mtype.Numpy2D, mtype.PandasDataFrame}:    matrixToFrame,
	{mtype.PandasDataFrame, mtype.Numpy1D}:    frameToVector,
	{mtype.Numpy1D, mtype.PandasDataFrame}:    vectorToFrame,
	{mtype.Numpy2D, mtype.Numpy1D}:            matrixToVector,
	{mtype.Numpy1D, mtype.Numpy2D}:            vectorToMatrix,
	{mtype.PandasDataFrame, mtype.ArrowTable}: frameToArrow,
	{mtype.ArrowTable, mtype.PandasDataFrame}: arrowToFrame,
}

// Convert converts obj from mtype from to mtype to. obj is checked against
// from first. Converting to the same mtype returns a copy.
func Convert(obj any, from, to mtype.MType) (out any, err error) {
	timer := metrics.NewTimer()
	defer func() {
		metrics.ObserveConversion(string(from), string(to), timer.Stop(), err)
	}()

	if _, ok := mtype.Lookup(to); !ok {
		return nil, errors.Newf(errors.ErrorTypeNotFound, "unknown mtype %q", to)
	}

	_, err = check.Check(obj, from)
	metrics.ObserveCheck(string(from), err)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConversion, "input is not a valid instance of the source mtype").
			WithDetail("from", string(from))
	}

	if from == to {
		return clone(obj, from)
	}

	fn, err := lookup(from, to)
	if err != nil {
		return nil, err
	}

	out, err = fn(obj)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConversion, Pair{from, to}.String())
	}
	return out, nil
}

// ConvertTo converts obj to mtype to, inferring its source mtype
func ConvertTo(obj any, to mtype.MType) (any, error) {
	from, err := check.Infer(obj)
	if err != nil {
		return nil, err
	}
	return Convert(obj, from, to)
}

// Registered reports whether a conversion from -> to exists, directly or
// through the data frame representation
func Registered(from, to mtype.MType) bool {
	_, err := lookup(from, to)
	return err == nil || from == to
}

// Pairs returns all directly registered pairs in a stable order
func Pairs() []Pair {
	pairs := make([]Pair, 0, len(conversions))
	for p := range conversions {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].From != pairs[j].From {
			return pairs[i].From < pairs[j].From
		}
		return pairs[i].To < pairs[j].To
	})
	return pairs
}

func lookup(from, to mtype.MType) (Func, error) {
	if fn, ok := conversions[Pair{from, to}]; ok {
		return fn, nil
	}

	toHub, ok1 := conversions[Pair{from, hub}]
	fromHub, ok2 := conversions[Pair{hub, to}]
	if !ok1 || !ok2 {
		return nil, errors.Newf(errors.ErrorTypeCapability, "no conversion registered for %s", Pair{from, to})
	}

	return func(obj any) (any, error) {
		mid, err := toHub(obj)
		if err != nil {
			return nil, err
		}
		return fromHub(mid)
	}, nil
}

func clone(obj any, m mtype.MType) (any, error) {
	switch v := obj.(type) {
	case *table.Frame:
		return v.Clone(), nil
	case *table.Matrix:
		return v.Clone(), nil
	case table.Vector:
		return v.Clone(), nil
	case arrow.Record:
		f, err := table.FrameFromArrow(v)
		if err != nil {
			return nil, err
		}
		return f.ToArrow(nil), nil
	}
	return nil, errors.Newf(errors.ErrorTypeCapability, "cannot copy %T as %s", obj, m)
}

func frameToMatrix(obj any) (any, error) {
	f := obj.(*table.Frame)
	cols := make([][]float64, f.NumCols())
	for j := range cols {
		cols[j] = f.ColumnAt(j).Values
	}
	return table.NewMatrixFromColumns(cols)
}

func matrixToFrame(obj any) (any, error) {
	m := obj.(*table.Matrix)
	cols := make([]table.Column, m.Cols())
	for j := range cols {
		cols[j] = table.Column{Name: strconv.Itoa(j), Values: m.Col(j)}
	}
	return table.NewFrame(cols...)
}

func frameToVector(obj any) (any, error) {
	f := obj.(*table.Frame)
	if f.NumCols() != 1 {
		return nil, unrepresentable(mtype.Numpy1D, f.NumCols())
	}
	return table.Vector(f.ColumnAt(0).Values), nil
}

func vectorToFrame(obj any) (any, error) {
	v := obj.(table.Vector)
	return table.NewFrame(table.Column{Name: "0", Values: v})
}

func matrixToVector(obj any) (any, error) {
	m := obj.(*table.Matrix)
	if m.Cols() != 1 {
		return nil, unrepresentable(mtype.Numpy1D, m.Cols())
	}
	return table.Vector(m.Col(0)), nil
}

func vectorToMatrix(obj any) (any, error) {
	v := obj.(table.Vector)
	return table.NewMatrixFromColumns([][]float64{v})
}

func frameToArrow(obj any) (any, error) {
	return obj.(*table.Frame).ToArrow(nil), nil
}

func arrowToFrame(obj any) (any, error) {
	return table.FrameFromArrow(obj.(arrow.Record))
}

func unrepresentable(to mtype.MType, cols int) error {
	return errors.Newf(errors.ErrorTypeUnrepresentable, "%s holds a single column, got %d", to, cols).
		WithDetail("columns", cols)
}
