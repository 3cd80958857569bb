// Package table provides the in-memory representations of the Table scitype.
//
// Three Go types stand in for the machine representations (mtypes) of a
// data table:
//   - Frame: labelled columns, the counterpart of a data frame
//   - Matrix: a dense row-major 2D array without labels
//   - Vector: a 1D array holding a single unlabelled column
//
// All values are float64. Equality is exact, with NaN equal to NaN, so that
// fixtures built independently from the same literals compare equal.
package table

import (
	"math"

	"github.com/ajitpratap0/datatypes/pkg/errors"
)

// Column is a named column of a Frame
type Column struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// Frame is a table with labelled columns of equal length
type Frame struct {
	columns []Column
	index   map[string]int
}

// NewFrame builds a Frame from columns. Names must be unique and non-empty and
// all columns must have the same length. Values are copied.
func NewFrame(cols ...Column) (*Frame, error) {
	f := &Frame{
		columns: make([]Column, 0, len(cols)),
		index:   make(map[string]int, len(cols)),
	}

	for i, col := range cols {
		if col.Name == "" {
			return nil, errors.New(errors.ErrorTypeValidation, "column name must not be empty").
				WithDetail("column", i)
		}
		if _, dup := f.index[col.Name]; dup {
			return nil, errors.Newf(errors.ErrorTypeValidation, "duplicate column name %q", col.Name)
		}
		if i > 0 && len(col.Values) != len(cols[0].Values) {
			return nil, errors.Newf(errors.ErrorTypeValidation,
				"column %q has %d rows, expected %d", col.Name, len(col.Values), len(cols[0].Values))
		}

		f.index[col.Name] = i
		f.columns = append(f.columns, Column{Name: col.Name, Values: copyFloats(col.Values)})
	}

	return f, nil
}

// MustFrame is like NewFrame but panics on invalid input. It is meant for literals.
func MustFrame(cols ...Column) *Frame {
	f, err := NewFrame(cols...)
	if err != nil {
		panic(err)
	}
	return f
}

// NumRows returns the number of rows
func (f *Frame) NumRows() int {
	if len(f.columns) == 0 {
		return 0
	}
	return len(f.columns[0].Values)
}

// NumCols returns the number of columns
func (f *Frame) NumCols() int {
	return len(f.columns)
}

// Names returns the column names in order
func (f *Frame) Names() []string {
	names := make([]string, len(f.columns))
	for i, col := range f.columns {
		names[i] = col.Name
	}
	return names
}

// Column returns a copy of the named column's values
func (f *Frame) Column(name string) ([]float64, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return copyFloats(f.columns[i].Values), true
}

// ColumnAt returns a copy of the i-th column
func (f *Frame) ColumnAt(i int) Column {
	col := f.columns[i]
	return Column{Name: col.Name, Values: copyFloats(col.Values)}
}

// Columns returns copies of all columns in order
func (f *Frame) Columns() []Column {
	cols := make([]Column, len(f.columns))
	for i := range f.columns {
		cols[i] = f.ColumnAt(i)
	}
	return cols
}

// At returns the value at row r of column c
func (f *Frame) At(r, c int) float64 {
	return f.columns[c].Values[r]
}

// Clone returns a deep copy
func (f *Frame) Clone() *Frame {
	return MustFrame(f.columns...)
}

// Equal reports whether both frames have the same names in the same order and
// identical values
func (f *Frame) Equal(other *Frame) bool {
	if f == nil || other == nil {
		return f == other
	}
	if len(f.columns) != len(other.columns) {
		return false
	}
	for i, col := range f.columns {
		if col.Name != other.columns[i].Name {
			return false
		}
		if !floatsEqual(col.Values, other.columns[i].Values) {
			return false
		}
	}
	return true
}

// EqualValues compares values only, ignoring column names
func (f *Frame) EqualValues(other *Frame) bool {
	if f == nil || other == nil {
		return f == other
	}
	if len(f.columns) != len(other.columns) {
		return false
	}
	for i, col := range f.columns {
		if !floatsEqual(col.Values, other.columns[i].Values) {
			return false
		}
	}
	return true
}

func copyFloats(src []float64) []float64 {
	if src == nil {
		return []float64{}
	}
	dst := make([]float64, len(src))
	copy(dst, src)
	return dst
}

func floatsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !floatEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func floatEqual(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	return a == b
}
