// Package harness runs the fixture registry through the type checks and
// conversions and reports every case.
//
// Case kinds:
//   - check: each representable example is a valid instance of its mtype
//   - conversion: a lossless example converts exactly to every other mtype's
//     example of the same index, and fails as unrepresentable where that
//     example is absent
//   - lossiness: lossless -> lossy -> lossless does not reproduce the source,
//     lossless -> lossless -> lossless does
//   - roundtrip: data frame -> numpy2D -> data frame keeps the values
//   - absent: absence markers are never empty data
package harness

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ajitpratap0/datatypes/pkg/logger"
	"github.com/ajitpratap0/datatypes/pkg/metrics"
	"github.com/ajitpratap0/datatypes/pkg/observability"
	"github.com/ajitpratap0/datatypes/pkg/table/mtype"
)

// Kind is the kind of a harness case
type Kind string

const (
	KindCheck      Kind = "check"
	KindConversion Kind = "conversion"
	KindLossiness  Kind = "lossiness"
	KindRoundTrip  Kind = "roundtrip"
	KindAbsent     Kind = "absent"
)

// Kinds lists every case kind
func Kinds() []Kind {
	return []Kind{KindCheck, KindConversion, KindLossiness, KindRoundTrip, KindAbsent}
}

// Config configures a harness run
type Config struct {
	// Workers bounds concurrently running cases
	Workers int `yaml:"workers" mapstructure:"workers"`
	// FailFast stops scheduling cases after the first failure
	FailFast bool `yaml:"fail_fast" mapstructure:"fail_fast"`
	// Kinds restricts the run; empty runs every kind
	Kinds []Kind `yaml:"kinds" mapstructure:"kinds"`
}

// DefaultConfig returns four workers without fail-fast
func DefaultConfig() Config {
	return Config{Workers: 4}
}

// Case is one harness check
type Case struct {
	Kind    Kind          `json:"kind"`
	Name    string        `json:"name"`
	SciType mtype.SciType `json:"scitype"`
	Index   int           `json:"index"`
	From    mtype.MType   `json:"from,omitempty"`
	To      mtype.MType   `json:"to,omitempty"`

	run func() error
}

// Result is the outcome of a case
type Result struct {
	Case     Case          `json:"case"`
	Passed   bool          `json:"passed"`
	Skipped  bool          `json:"skipped,omitempty"`
	Error    string        `json:"error,omitempty"`
	Err      error         `json:"-"`
	Duration time.Duration `json:"duration"`
}

// Report summarizes a run
type Report struct {
	RunID    string        `json:"run_id"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
	Results  []Result      `json:"results"`
	Passed   int           `json:"passed"`
	Failed   int           `json:"failed"`
	Skipped  int           `json:"skipped"`
}

// OK reports whether no case failed or was skipped
func (r *Report) OK() bool {
	return r.Failed == 0 && r.Skipped == 0
}

// Failures returns the failed results
func (r *Report) Failures() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.Passed && !res.Skipped {
			out = append(out, res)
		}
	}
	return out
}

// Harness runs cases built from the fixture registry
type Harness struct {
	config Config
	cases  []Case
}

// New creates a harness; Workers below one means one
func New(config Config) *Harness {
	if config.Workers < 1 {
		config.Workers = 1
	}
	return &Harness{config: config, cases: filterKinds(buildCases(), config.Kinds)}
}

// Cases returns the cases the harness runs, in order
func (h *Harness) Cases() []Case {
	return append([]Case(nil), h.cases...)
}

// Run executes every case. Failed cases are reported, not returned: the error
// is non-nil only when FailFast stopped the run or ctx was canceled, and the
// report is returned either way.
func (h *Harness) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		RunID:   uuid.NewString(),
		Started: time.Now(),
		Results: make([]Result, len(h.cases)),
	}
	ctx = context.WithValue(ctx, logger.RunIDKey, report.RunID)
	log := logger.WithContext(ctx)

	ctx, span := observability.StartSpan(ctx, "harness.run", "run_id", report.RunID)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.config.Workers)

	var stopped error

	log.Info("harness started",
		zap.Int("cases", len(h.cases)),
		zap.Int("workers", h.config.Workers),
		zap.Bool("fail_fast", h.config.FailFast))

	for i := range h.cases {
		c := h.cases[i]
		report.Results[i] = Result{Case: c, Skipped: true}

		if gctx.Err() != nil {
			continue
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			// each goroutine owns its own slot
			res := h.runCase(gctx, c)
			report.Results[i] = res

			if !res.Passed && h.config.FailFast {
				return fmt.Errorf("case %s failed: %w", c.Name, res.Err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		stopped = err
	} else if err := ctx.Err(); err != nil {
		stopped = err
	}

	for _, res := range report.Results {
		switch {
		case res.Skipped:
			report.Skipped++
		case res.Passed:
			report.Passed++
		default:
			report.Failed++
		}
	}
	report.Duration = time.Since(report.Started)
	observability.EndSpan(span, stopped)

	log.Info("harness finished",
		zap.Int("passed", report.Passed),
		zap.Int("failed", report.Failed),
		zap.Int("skipped", report.Skipped),
		zap.Duration("duration", report.Duration))

	return report, stopped
}

func (h *Harness) runCase(ctx context.Context, c Case) Result {
	_, span := observability.StartSpan(ctx, "harness.case",
		"kind", string(c.Kind), "case", c.Name)

	timer := metrics.NewTimer()
	err := c.run()
	res := Result{Case: c, Passed: err == nil, Err: err, Duration: timer.Stop()}
	if err != nil {
		res.Error = err.Error()
	}

	metrics.HarnessCases.WithLabelValues(string(c.Kind), metrics.Status(err)).Inc()
	observability.EndSpan(span, err)

	ctx = context.WithValue(ctx, logger.SciTypeKey, string(c.SciType))
	if c.From != "" {
		ctx = context.WithValue(ctx, logger.MTypeKey, string(c.From))
	}
	log := logger.WithContext(ctx)
	if err != nil {
		log.Warn("case failed",
			zap.String("kind", string(c.Kind)),
			zap.String("case", c.Name),
			zap.Error(err))
	} else {
		log.Debug("case passed",
			zap.String("kind", string(c.Kind)),
			zap.String("case", c.Name),
			zap.Duration("duration", res.Duration))
	}
	return res
}

func filterKinds(cases []Case, kinds []Kind) []Case {
	if len(kinds) == 0 {
		return cases
	}
	keep := make(map[Kind]bool, len(kinds))
	for _, k := range kinds {
		keep[k] = true
	}
	out := cases[:0]
	for _, c := range cases {
		if keep[c.Kind] {
			out = append(out, c)
		}
	}
	return out
}
