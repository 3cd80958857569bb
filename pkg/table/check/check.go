// Package check verifies that objects are valid instances of a Table mtype
// and reports metadata about them.
package check

import (
	"fmt"
	"math"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/ajitpratap0/datatypes/pkg/errors"
	"github.com/ajitpratap0/datatypes/pkg/table"
	"github.com/ajitpratap0/datatypes/pkg/table/mtype"
)

// Metadata describes a checked table
type Metadata struct {
	MType        mtype.MType `json:"mtype"`
	IsUnivariate bool        `json:"is_univariate"`
	IsEmpty      bool        `json:"is_empty"`
	HasNaNs      bool        `json:"has_nans"`
	NumInstances int         `json:"n_instances"`
	NumFeatures  int         `json:"n_features"`
	// FeatureNames is only set for mtypes that keep column names
	FeatureNames []string `json:"feature_names,omitempty"`
}

// Check verifies that obj is a valid instance of m and returns its metadata
func Check(obj any, m mtype.MType) (*Metadata, error) {
	if _, ok := mtype.Lookup(m); !ok {
		return nil, errors.Newf(errors.ErrorTypeNotFound, "unknown mtype %q", m)
	}
	if obj == nil {
		return nil, mismatch(m, obj, "object is nil")
	}

	switch m {
	case mtype.PandasDataFrame:
		f, ok := obj.(*table.Frame)
		if !ok || f == nil {
			return nil, mismatch(m, obj, "expected *table.Frame")
		}
		return frameMetadata(m, f), nil

	case mtype.Numpy2D:
		mat, ok := obj.(*table.Matrix)
		if !ok || mat == nil {
			return nil, mismatch(m, obj, "expected *table.Matrix")
		}
		rows, cols := mat.Dims()
		md := &Metadata{
			MType:        m,
			NumInstances: rows,
			NumFeatures:  cols,
			IsUnivariate: cols == 1,
			IsEmpty:      rows == 0 || cols == 0,
		}
		for j := 0; j < cols && !md.HasNaNs; j++ {
			md.HasNaNs = hasNaN(mat.Col(j))
		}
		return md, nil

	case mtype.Numpy1D:
		v, ok := obj.(table.Vector)
		if !ok {
			return nil, mismatch(m, obj, "expected table.Vector")
		}
		return &Metadata{
			MType:        m,
			NumInstances: len(v),
			NumFeatures:  1,
			IsUnivariate: true,
			IsEmpty:      len(v) == 0,
			HasNaNs:      hasNaN(v),
		}, nil

	case mtype.ArrowTable:
		rec, ok := obj.(arrow.Record)
		if !ok || rec == nil {
			return nil, mismatch(m, obj, "expected arrow.Record")
		}
		f, err := table.FrameFromArrow(rec)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeValidation, "arrow record is not a numeric table").
				WithDetail("mtype", string(m))
		}
		return frameMetadata(m, f), nil
	}

	return nil, errors.Newf(errors.ErrorTypeCapability, "no check registered for mtype %q", m)
}

// IsMType reports whether obj is a valid instance of m
func IsMType(obj any, m mtype.MType) bool {
	_, err := Check(obj, m)
	return err == nil
}

// Infer returns the mtype obj is a valid instance of, trying mtypes in
// registration order
func Infer(obj any) (mtype.MType, error) {
	for _, info := range mtype.Register() {
		if IsMType(obj, info.MType) {
			return info.MType, nil
		}
	}
	return "", errors.Newf(errors.ErrorTypeValidation, "%T is not an instance of any registered mtype", obj)
}

func frameMetadata(m mtype.MType, f *table.Frame) *Metadata {
	md := &Metadata{
		MType:        m,
		NumInstances: f.NumRows(),
		NumFeatures:  f.NumCols(),
		IsUnivariate: f.NumCols() == 1,
		IsEmpty:      f.NumRows() == 0 || f.NumCols() == 0,
		FeatureNames: f.Names(),
	}
	for _, col := range f.Columns() {
		if hasNaN(col.Values) {
			md.HasNaNs = true
			break
		}
	}
	return md
}

func hasNaN(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

func mismatch(m mtype.MType, obj any, msg string) error {
	return errors.New(errors.ErrorTypeValidation, msg).
		WithDetail("mtype", string(m)).
		WithDetail("got", typeName(obj))
}

func typeName(obj any) string {
	if obj == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", obj)
}
