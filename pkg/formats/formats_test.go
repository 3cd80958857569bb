package formats

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/linkedin/goavro/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/datatypes/pkg/errors"
	"github.com/ajitpratap0/datatypes/pkg/table"
	"github.com/ajitpratap0/datatypes/pkg/table/examples"
	"github.com/ajitpratap0/datatypes/pkg/table/mtype"
)

func fixtureFrame(t *testing.T, index int) *table.Frame {
	t.Helper()
	data, err := examples.Lookup(examples.Key{MType: mtype.PandasDataFrame, SciType: mtype.SciTypeTable, Index: index})
	require.NoError(t, err)
	return data.(*table.Frame)
}

func TestRoundTripFixtures(t *testing.T) {
	for _, format := range Formats() {
		for _, index := range []int{0, 1} {
			t.Run(string(format), func(t *testing.T) {
				want := fixtureFrame(t, index)

				var buf bytes.Buffer
				require.NoError(t, WriteFrame(&buf, want, &WriterConfig{Format: format}))
				require.NotZero(t, buf.Len())

				got, err := ReadFrame(&buf, format)
				require.NoError(t, err)
				assert.True(t, want.Equal(got), "%s index %d: got %v", format, index, got.Columns())
			})
		}
	}
}

func TestRoundTripCompressedAndAppended(t *testing.T) {
	cases := []struct {
		format      Format
		compression string
	}{
		{Parquet, "zstd"},
		{Parquet, "gzip"},
		{Parquet, "none"},
		{Arrow, "zstd"},
		{Arrow, "lz4"},
		{Avro, "deflate"},
		{Avro, "snappy"},
		{CSV, ""},
		{JSON, ""},
	}

	for _, tc := range cases {
		t.Run(string(tc.format)+"/"+tc.compression, func(t *testing.T) {
			part := fixtureFrame(t, 1)

			var buf bytes.Buffer
			w, err := NewWriter(&buf, &WriterConfig{Format: tc.format, Compression: tc.compression})
			require.NoError(t, err)
			assert.Equal(t, tc.format, w.Format())
			require.NoError(t, w.WriteFrame(part))
			require.NoError(t, w.WriteFrame(part))
			assert.Equal(t, int64(8), w.RowsWritten())
			require.NoError(t, w.Close())

			got, err := ReadFrame(&buf, tc.format)
			require.NoError(t, err)
			require.Equal(t, 8, got.NumRows())
			assert.Equal(t, []string{"a", "b"}, got.Names())

			b, ok := got.Column("b")
			require.True(t, ok)
			assert.Equal(t, -3.0/7, b[3])
			assert.Equal(t, -3.0/7, b[7])
		})
	}
}

func TestWriterRejectsDifferentColumns(t *testing.T) {
	for _, format := range Formats() {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := NewWriter(&buf, &WriterConfig{Format: format})
			require.NoError(t, err)
			require.NoError(t, w.WriteFrame(fixtureFrame(t, 0)))

			err = w.WriteFrame(fixtureFrame(t, 1))
			assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
		})
	}
}

func TestPositionalNames(t *testing.T) {
	f := table.MustFrame(
		table.Column{Name: "0", Values: []float64{1, math.NaN()}},
		table.Column{Name: "1", Values: []float64{2, 3}},
	)

	for _, format := range Formats() {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteFrame(&buf, f, &WriterConfig{Format: format}))

			got, err := ReadFrame(&buf, format)
			require.NoError(t, err)
			assert.True(t, f.Equal(got))
		})
	}
}

func TestAvroRestoresColumnNames(t *testing.T) {
	want := table.MustFrame(table.Column{Name: "a", Values: []float64{1, 4, 0.5, -3}})

	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, want, &WriterConfig{Format: Avro}))

	got, err := ReadFrame(&buf, Avro)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got.Names())
	assert.True(t, want.Equal(got))
}

func TestAvroWithoutColumnsHeader(t *testing.T) {
	var buf bytes.Buffer
	ocf, err := goavro.NewOCFWriter(goavro.OCFConfig{
		W:      &buf,
		Schema: `{"type":"record","name":"row","fields":[{"name":"f0","type":"double"},{"name":"f1","type":"double"}]}`,
	})
	require.NoError(t, err)
	require.NoError(t, ocf.Append([]map[string]interface{}{
		{"f0": 1.0, "f1": 3.0},
		{"f0": 4.0, "f1": 7.0},
	}))

	got, err := ReadFrame(&buf, Avro)
	require.NoError(t, err)
	assert.Equal(t, []string{"f0", "f1"}, got.Names())
	assert.True(t, table.MustFrame(
		table.Column{Name: "f0", Values: []float64{1, 4}},
		table.Column{Name: "f1", Values: []float64{3, 7}},
	).Equal(got))
}

func TestJSONLayout(t *testing.T) {
	f := table.MustFrame(table.Column{Name: "a", Values: []float64{1, math.NaN()}})

	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, f, &WriterConfig{Format: JSON}))
	assert.JSONEq(t, `{"columns":["a"],"data":[[1],[null]]}`, buf.String())
}

func TestCSVLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, fixtureFrame(t, 0), &WriterConfig{Format: CSV}))
	assert.Equal(t, "a\n1\n4\n0.5\n-3\n", buf.String())
}

func TestCSVErrors(t *testing.T) {
	_, err := ReadFrame(strings.NewReader(""), CSV)
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))

	_, err = ReadFrame(strings.NewReader("a\nx\n"), CSV)
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))

	got, err := ReadFrame(strings.NewReader("a,b\n1,\n"), CSV)
	require.NoError(t, err)
	b, _ := got.Column("b")
	assert.True(t, math.IsNaN(b[0]))
}

func TestJSONErrors(t *testing.T) {
	_, err := ReadFrame(strings.NewReader(`{"columns":["a"],"data":[[1,2]]}`), JSON)
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))

	_, err = ReadFrame(strings.NewReader(`{"columns":["a"],"index":[0]}`), JSON)
	assert.Error(t, err)
}

func TestCorruptColumnarInput(t *testing.T) {
	for _, format := range []Format{Parquet, Arrow, Avro} {
		_, err := ReadFrame(strings.NewReader("not a file"), format)
		assert.Error(t, err, format)
	}
}

func TestUnknownFormat(t *testing.T) {
	_, err := NewWriter(&bytes.Buffer{}, &WriterConfig{Format: "orc"})
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))

	_, err = NewReader(&bytes.Buffer{}, &ReaderConfig{Format: "orc"})
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))

	_, err = ParseFormat("orc")
	assert.Error(t, err)

	f, err := ParseFormat("avro")
	require.NoError(t, err)
	assert.Equal(t, Avro, f)
}

func TestGetFormatInfo(t *testing.T) {
	for _, format := range Formats() {
		info := GetFormatInfo(format)
		require.NotNil(t, info, format)
		assert.Equal(t, format, info.Format)
		assert.True(t, strings.HasPrefix(info.FileExtension, "."))
	}
	assert.Nil(t, GetFormatInfo("orc"))
	assert.True(t, GetFormatInfo(Parquet).Columnar)
}
