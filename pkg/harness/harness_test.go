package harness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/datatypes/pkg/errors"
	"github.com/ajitpratap0/datatypes/pkg/table/mtype"
	"github.com/ajitpratap0/datatypes/pkg/testutil"
)

func TestRegistryPassesEveryCase(t *testing.T) {
	testutil.UseTestLogger(t)

	report, err := New(DefaultConfig()).Run(context.Background())
	require.NoError(t, err)

	for _, res := range report.Failures() {
		t.Errorf("%s: %v", res.Case.Name, res.Err)
	}
	assert.True(t, report.OK())
	assert.Equal(t, 32, report.Passed)
	assert.Len(t, report.Results, 32)
	assert.NotEmpty(t, report.RunID)
}

func TestCaseCounts(t *testing.T) {
	counts := make(map[Kind]int)
	for _, c := range New(DefaultConfig()).Cases() {
		counts[c.Kind]++
	}

	assert.Equal(t, map[Kind]int{
		KindCheck:      7,
		KindAbsent:     1,
		KindConversion: 12,
		KindLossiness:  10,
		KindRoundTrip:  2,
	}, counts)
}

func TestAbsentCaseTargetsNumpy1D(t *testing.T) {
	cases := New(Config{Kinds: []Kind{KindAbsent}}).Cases()
	require.Len(t, cases, 1)
	assert.Equal(t, mtype.Numpy1D, cases[0].From)
	assert.Equal(t, 1, cases[0].Index)
}

func TestKindsFilter(t *testing.T) {
	testutil.UseTestLogger(t)

	h := New(Config{Workers: 2, Kinds: []Kind{KindRoundTrip}})
	report, err := h.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Results, 2)
	for _, res := range report.Results {
		assert.Equal(t, KindRoundTrip, res.Case.Kind)
		assert.True(t, res.Passed)
	}
}

func failingCase() Case {
	return Case{
		Kind: KindCheck,
		Name: "always fails",
		run: func() error {
			return errors.New(errors.ErrorTypeValidation, "broken fixture")
		},
	}
}

func TestFailuresAreReported(t *testing.T) {
	testutil.UseTestLogger(t)

	h := New(Config{Workers: 3, Kinds: []Kind{KindRoundTrip}})
	h.cases = append(h.cases, failingCase())

	report, err := h.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, report.OK())
	assert.Equal(t, 2, report.Passed)
	assert.Equal(t, 1, report.Failed)

	failures := report.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "always fails", failures[0].Case.Name)
	assert.Equal(t, "validation: broken fixture", failures[0].Error)
}

func TestFailFastStopsScheduling(t *testing.T) {
	testutil.UseTestLogger(t)

	h := New(Config{Workers: 1, FailFast: true})
	h.cases = append([]Case{failingCase()}, h.cases...)

	report, err := h.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "always fails")
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 0, report.Passed)
	assert.Equal(t, 32, report.Skipped)
}

func TestCanceledRunSkipsEverything(t *testing.T) {
	testutil.UseTestLogger(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := New(DefaultConfig()).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, len(report.Results), report.Skipped)
	assert.False(t, report.OK())
}

func TestNewClampsWorkers(t *testing.T) {
	assert.Equal(t, 1, New(Config{Workers: -3}).config.Workers)
}
