package examples

import (
	"github.com/ajitpratap0/datatypes/pkg/table"
	"github.com/ajitpratap0/datatypes/pkg/table/mtype"
)

func populateTable(r *registry) {
	const s = mtype.SciTypeTable

	///
	// example 0: univariate

	r.add(mtype.PandasDataFrame, s, 0, Lossless, func() any {
		return table.MustFrame(table.Column{Name: "a", Values: []float64{1, 4, 0.5, -3}})
	})

	r.add(mtype.Numpy2D, s, 0, Lossy, func() any {
		return table.MustMatrix([][]float64{{1}, {4}, {0.5}, {-3}})
	})

	r.add(mtype.Numpy1D, s, 0, Lossy, func() any {
		return table.Vector{1, 4, 0.5, -3}
	})

	r.add(mtype.ArrowTable, s, 0, Lossless, func() any {
		return table.MustFrame(table.Column{Name: "a", Values: []float64{1, 4, 0.5, -3}}).ToArrow(nil)
	})

	///
	// example 1: multivariate

	r.absent(mtype.Numpy1D, s, 1)

	r.add(mtype.PandasDataFrame, s, 1, Lossless, func() any {
		return table.MustFrame(
			table.Column{Name: "a", Values: []float64{1, 4, 0.5, -3}},
			table.Column{Name: "b", Values: []float64{3, 7, 2, -3.0 / 7}},
		)
	})

	r.add(mtype.Numpy2D, s, 1, Lossy, func() any {
		return table.MustMatrix([][]float64{{1, 3}, {4, 7}, {0.5, 2}, {-3, -3.0 / 7}})
	})

	r.add(mtype.ArrowTable, s, 1, Lossless, func() any {
		return table.MustFrame(
			table.Column{Name: "a", Values: []float64{1, 4, 0.5, -3}},
			table.Column{Name: "b", Values: []float64{3, 7, 2, -3.0 / 7}},
		).ToArrow(nil)
	})
}
