package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveConversion(t *testing.T) {
	before := testutil.ToFloat64(ConversionsTotal.WithLabelValues("numpy2D", "numpy1D", StatusFailure))

	ObserveConversion("numpy2D", "numpy1D", time.Millisecond, errors.New("boom"))

	after := testutil.ToFloat64(ConversionsTotal.WithLabelValues("numpy2D", "numpy1D", StatusFailure))
	assert.Equal(t, before+1, after)
}

func TestObserveCheck(t *testing.T) {
	before := testutil.ToFloat64(ChecksTotal.WithLabelValues("numpy1D", StatusSuccess))
	ObserveCheck("numpy1D", nil)
	assert.Equal(t, before+1, testutil.ToFloat64(ChecksTotal.WithLabelValues("numpy1D", StatusSuccess)))
}

func TestWriteTextfile(t *testing.T) {
	ObserveCheck("numpy2D", nil)

	path := filepath.Join(t.TempDir(), "datatypes.prom")
	require.NoError(t, WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "datatypes_checks_total")
}

func TestTimer(t *testing.T) {
	timer := NewTimer()
	time.Sleep(time.Millisecond)
	assert.GreaterOrEqual(t, timer.Stop(), time.Millisecond)
}
