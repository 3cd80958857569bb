package main

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/ajitpratap0/datatypes/pkg/harness"
	"github.com/ajitpratap0/datatypes/pkg/json"
	"github.com/ajitpratap0/datatypes/pkg/table"
	"github.com/ajitpratap0/datatypes/pkg/table/examples"
	"github.com/ajitpratap0/datatypes/pkg/table/mtype"
)

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func writeJSON(w io.Writer, v interface{}) error {
	return json.WriteIndented(w, v)
}

// objectJSON is the JSON view of a data object. NaN cells become null.
type objectJSON struct {
	MType     mtype.MType         `json:"mtype"`
	Lossiness *examples.Lossiness `json:"lossiness,omitempty"`
	Columns   []string            `json:"columns,omitempty"`
	Data      interface{}         `json:"data"`
}

func newObjectJSON(m mtype.MType, obj any) (*objectJSON, error) {
	out := &objectJSON{MType: m}
	switch v := obj.(type) {
	case *table.Frame:
		out.Columns = v.Names()
		out.Data = frameRows(v)
	case arrow.Record:
		f, err := table.FrameFromArrow(v)
		if err != nil {
			return nil, err
		}
		out.Columns = f.Names()
		out.Data = frameRows(f)
	case *table.Matrix:
		rows := make([][]*float64, v.Rows())
		for i := range rows {
			rows[i] = nullable(v.Row(i))
		}
		out.Data = rows
	case table.Vector:
		out.Data = nullable(v)
	default:
		return nil, fmt.Errorf("cannot render %T", obj)
	}
	return out, nil
}

func frameRows(f *table.Frame) [][]*float64 {
	rows := make([][]*float64, f.NumRows())
	for r := range rows {
		row := make([]float64, f.NumCols())
		for c := range row {
			row[c] = f.At(r, c)
		}
		rows[r] = nullable(row)
	}
	return rows
}

func nullable(values []float64) []*float64 {
	out := make([]*float64, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		v := v
		out[i] = &v
	}
	return out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// renderObject prints a data object as an aligned table
func renderObject(w io.Writer, obj any) error {
	var (
		header []string
		rows   [][]float64
	)
	switch v := obj.(type) {
	case *table.Frame:
		header, rows = frameTable(v)
	case arrow.Record:
		f, err := table.FrameFromArrow(v)
		if err != nil {
			return err
		}
		header, rows = frameTable(f)
	case *table.Matrix:
		rows = v.RowSlices()
	case table.Vector:
		for _, x := range v {
			rows = append(rows, []float64{x})
		}
	default:
		return fmt.Errorf("cannot render %T", obj)
	}

	tw := newTabWriter(w)
	if header != nil {
		fmt.Fprintf(tw, "\t%s\n", strings.Join(header, "\t"))
	}
	for i, row := range rows {
		cells := make([]string, len(row))
		for j, x := range row {
			cells[j] = formatFloat(x)
		}
		fmt.Fprintf(tw, "%d\t%s\n", i, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func frameTable(f *table.Frame) ([]string, [][]float64) {
	rows := make([][]float64, f.NumRows())
	for r := range rows {
		rows[r] = make([]float64, f.NumCols())
		for c := range rows[r] {
			rows[r][c] = f.At(r, c)
		}
	}
	return f.Names(), rows
}

func renderReport(w io.Writer, report *harness.Report) {
	tw := newTabWriter(w)
	fmt.Fprintln(tw, "STATUS\tKIND\tCASE\tDURATION")
	for _, res := range report.Results {
		status := "PASS"
		switch {
		case res.Skipped:
			status = "SKIP"
		case !res.Passed:
			status = "FAIL"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", status, res.Case.Kind, res.Case.Name, res.Duration.Round(time.Microsecond))
	}
	_ = tw.Flush()

	for _, res := range report.Failures() {
		fmt.Fprintf(w, "FAIL %s: %s\n", res.Case.Name, res.Error)
	}
	fmt.Fprintf(w, "run %s: %d passed, %d failed, %d skipped in %s\n",
		report.RunID, report.Passed, report.Failed, report.Skipped, report.Duration.Round(time.Millisecond))
}
