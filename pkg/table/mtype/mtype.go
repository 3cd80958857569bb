// Package mtype names the machine representations (mtypes) and semantic
// categories (scitypes) of data, and keeps the register describing them.
package mtype

import (
	"sort"

	"github.com/ajitpratap0/datatypes/pkg/errors"
)

// MType identifies a concrete machine representation of data
type MType string

// SciType identifies an abstract semantic category of data
type SciType string

const (
	// SciTypeTable is the scitype of data tables
	SciTypeTable SciType = "Table"
)

const (
	// PandasDataFrame is a table with labelled columns (table.Frame)
	PandasDataFrame MType = "pd_DataFrame_Table"
	// Numpy2D is an unlabelled 2D array (table.Matrix)
	Numpy2D MType = "numpy2D"
	// Numpy1D is an unlabelled 1D array of a univariate table (table.Vector)
	Numpy1D MType = "numpy1D"
	// ArrowTable is an Apache Arrow record with one field per column (arrow.Record)
	ArrowTable MType = "arrow_Table"
)

// Info describes a registered mtype
type Info struct {
	MType       MType   `json:"mtype"`
	SciType     SciType `json:"scitype"`
	Description string  `json:"description"`
	// KeepsLabels is true when the representation retains column names
	KeepsLabels bool `json:"keeps_labels"`
	// Univariate is true when the representation holds at most one column
	Univariate bool `json:"univariate"`
}

var register = []Info{
	{
		MType:       PandasDataFrame,
		SciType:     SciTypeTable,
		Description: "data frame representation of a data table",
		KeepsLabels: true,
	},
	{
		MType:       Numpy1D,
		SciType:     SciTypeTable,
		Description: "1D array representation of a univariate table",
		Univariate:  true,
	},
	{
		MType:       Numpy2D,
		SciType:     SciTypeTable,
		Description: "2D array representation of a data table",
	},
	{
		MType:       ArrowTable,
		SciType:     SciTypeTable,
		Description: "Apache Arrow record representation of a data table",
		KeepsLabels: true,
	},
}

// Register returns all registered mtypes in registration order
func Register() []Info {
	out := make([]Info, len(register))
	copy(out, register)
	return out
}

// Lookup returns the register entry of m
func Lookup(m MType) (Info, bool) {
	for _, info := range register {
		if info.MType == m {
			return info, true
		}
	}
	return Info{}, false
}

// Parse resolves a string to a registered mtype
func Parse(s string) (MType, error) {
	if info, ok := Lookup(MType(s)); ok {
		return info.MType, nil
	}
	return "", errors.Newf(errors.ErrorTypeNotFound, "unknown mtype %q", s).
		WithDetail("known", Names())
}

// ParseSciType resolves a string to a scitype that has registered mtypes
func ParseSciType(s string) (SciType, error) {
	for _, info := range register {
		if string(info.SciType) == s {
			return info.SciType, nil
		}
	}
	return "", errors.Newf(errors.ErrorTypeNotFound, "unknown scitype %q", s)
}

// OfSciType returns the mtypes registered for a scitype, in registration order
func OfSciType(s SciType) []MType {
	var out []MType
	for _, info := range register {
		if info.SciType == s {
			out = append(out, info.MType)
		}
	}
	return out
}

// Names returns the sorted names of all registered mtypes
func Names() []string {
	names := make([]string, len(register))
	for i, info := range register {
		names[i] = string(info.MType)
	}
	sort.Strings(names)
	return names
}
