package convert

import (
	"github.com/apache/arrow-go/v18/arrow"

	"github.com/ajitpratap0/datatypes/pkg/table"
)

// Equal reports whether a and b are the same Go type and hold the same
// content. Arrow records are compared by schema names and values.
func Equal(a, b any) bool {
	switch x := a.(type) {
	case *table.Frame:
		y, ok := b.(*table.Frame)
		return ok && x.Equal(y)
	case *table.Matrix:
		y, ok := b.(*table.Matrix)
		return ok && x.Equal(y)
	case table.Vector:
		y, ok := b.(table.Vector)
		return ok && x.Equal(y)
	case arrow.Record:
		y, ok := b.(arrow.Record)
		if !ok {
			return false
		}
		xf, err := table.FrameFromArrow(x)
		if err != nil {
			return false
		}
		yf, err := table.FrameFromArrow(y)
		if err != nil {
			return false
		}
		return xf.Equal(yf)
	default:
		return false
	}
}

// Release releases objects that hold reference counted memory
func Release(obj any) {
	if rec, ok := obj.(arrow.Record); ok && rec != nil {
		rec.Release()
	}
}
