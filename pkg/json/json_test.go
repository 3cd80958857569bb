package json

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	MType string    `json:"mtype"`
	Index int       `json:"index"`
	Data  []float64 `json:"data"`
}

func TestMarshalRoundTrip(t *testing.T) {
	in := fixture{MType: "numpy1D", Index: 0, Data: []float64{1, 4, 0.5, -3.0 / 7}}

	data, err := Marshal(in)
	require.NoError(t, err)

	var out fixture
	require.NoError(t, Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestWriteIndented(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteIndented(&buf, map[string]string{"a": "<b>"}))
	assert.Equal(t, "{\n  \"a\": \"<b>\"\n}\n", buf.String())
}

func TestDecoderRejectsUnknownFields(t *testing.T) {
	var out fixture
	err := NewDecoder(strings.NewReader(`{"mtype":"numpy2D","extra":1}`)).Decode(&out)
	assert.Error(t, err)
}

func TestBufferPool(t *testing.T) {
	buf := GetBuffer()
	buf.WriteString("x")
	PutBuffer(buf)

	assert.Equal(t, 0, GetBuffer().Len())
}
