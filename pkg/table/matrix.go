package table

import (
	"github.com/ajitpratap0/datatypes/pkg/errors"
)

// Matrix is a dense row-major 2D array: rows are instances, columns features
type Matrix struct {
	rows, cols int
	data       []float64
}

// NewMatrix builds a Matrix from a slice of rows, which must be rectangular
func NewMatrix(rows [][]float64) (*Matrix, error) {
	m := &Matrix{rows: len(rows)}
	if len(rows) > 0 {
		m.cols = len(rows[0])
	}
	m.data = make([]float64, 0, m.rows*m.cols)

	for i, row := range rows {
		if len(row) != m.cols {
			return nil, errors.Newf(errors.ErrorTypeValidation,
				"row %d has %d values, expected %d", i, len(row), m.cols)
		}
		m.data = append(m.data, row...)
	}
	return m, nil
}

// MustMatrix is like NewMatrix but panics on ragged input
func MustMatrix(rows [][]float64) *Matrix {
	m, err := NewMatrix(rows)
	if err != nil {
		panic(err)
	}
	return m
}

// NewMatrixFromColumns builds a Matrix whose i-th column is cols[i]
func NewMatrixFromColumns(cols [][]float64) (*Matrix, error) {
	m := &Matrix{cols: len(cols)}
	if len(cols) > 0 {
		m.rows = len(cols[0])
	}
	for j, col := range cols {
		if len(col) != m.rows {
			return nil, errors.Newf(errors.ErrorTypeValidation,
				"column %d has %d values, expected %d", j, len(col), m.rows)
		}
	}

	m.data = make([]float64, m.rows*m.cols)
	for j, col := range cols {
		for i, v := range col {
			m.data[i*m.cols+j] = v
		}
	}
	return m, nil
}

// Rows returns the number of rows
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns
func (m *Matrix) Cols() int { return m.cols }

// Dims returns rows and columns
func (m *Matrix) Dims() (int, int) { return m.rows, m.cols }

// At returns the element at row i, column j
func (m *Matrix) At(i, j int) float64 {
	return m.data[i*m.cols+j]
}

// Row returns a copy of row i
func (m *Matrix) Row(i int) []float64 {
	return copyFloats(m.data[i*m.cols : (i+1)*m.cols])
}

// Col returns a copy of column j
func (m *Matrix) Col(j int) []float64 {
	col := make([]float64, m.rows)
	for i := range col {
		col[i] = m.data[i*m.cols+j]
	}
	return col
}

// RowSlices returns the matrix as a fresh slice of rows
func (m *Matrix) RowSlices() [][]float64 {
	rows := make([][]float64, m.rows)
	for i := range rows {
		rows[i] = m.Row(i)
	}
	return rows
}

// Clone returns a deep copy
func (m *Matrix) Clone() *Matrix {
	return &Matrix{rows: m.rows, cols: m.cols, data: copyFloats(m.data)}
}

// Equal reports whether both matrices have the same shape and values
func (m *Matrix) Equal(other *Matrix) bool {
	if m == nil || other == nil {
		return m == other
	}
	return m.rows == other.rows && m.cols == other.cols && floatsEqual(m.data, other.data)
}

// Vector is a 1D array, the single-column representation of a table
type Vector []float64

// Len returns the number of elements
func (v Vector) Len() int { return len(v) }

// Clone returns a copy
func (v Vector) Clone() Vector {
	return Vector(copyFloats(v))
}

// Equal reports whether both vectors hold identical values
func (v Vector) Equal(other Vector) bool {
	return floatsEqual(v, other)
}
