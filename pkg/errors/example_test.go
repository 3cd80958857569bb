// Package errors provides examples of structured error handling.
package errors_test

import (
	"fmt"
	"io"

	"github.com/ajitpratap0/datatypes/pkg/errors"
)

// Example demonstrates basic error creation with details.
func Example() {
	err := errors.New(errors.ErrorTypeValidation, "matrix rows have different lengths").
		WithDetail("mtype", "numpy2D").
		WithDetail("row", 2)

	fmt.Println(err.Error())

	// Output:
	// validation: matrix rows have different lengths
}

// ExampleWrap shows how to wrap existing errors with context.
func ExampleWrap() {
	err := errors.Wrap(io.ErrUnexpectedEOF, errors.ErrorTypeData, "failed to decode parquet frame").
		WithDetail("file", "Table_0.parquet")

	if errors.IsType(err, errors.ErrorTypeData) {
		fmt.Println("This is a data error")
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		fmt.Println("Original error was unexpected EOF")
	}

	// Output:
	// This is a data error
	// Original error was unexpected EOF
}

// ExampleIsType shows that IsType looks through wrapped structured errors.
func ExampleIsType() {
	inner := errors.New(errors.ErrorTypeUnrepresentable, "numpy1D holds a single column")
	outer := errors.Wrap(inner, errors.ErrorTypeConversion, "pd_DataFrame_Table -> numpy1D")

	fmt.Println(errors.TypeOf(outer))
	fmt.Println(errors.IsType(outer, errors.ErrorTypeUnrepresentable))
	fmt.Println(errors.IsType(outer, errors.ErrorTypeFile))

	// Output:
	// conversion
	// true
	// false
}
