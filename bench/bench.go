// Package bench measures evaluation latency of the reference folder and the
// compiled backends.
package bench

import (
	"errors"
	"fmt"
	"runtime"
	"slices"
	"time"

	"github.com/calcvm/calc"
	"github.com/calcvm/calc/ast"
	"github.com/calcvm/calc/fold"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog"
)

const (
	DefaultIterations = 1000
	DefaultWarmup     = 100
	bucketCount       = 10
)

// Config configures a measurement.
type Config struct {
	// Iterations is the number of timed calls. Values <= 0 use
	// DefaultIterations.
	Iterations int
	// Warmup is the number of untimed calls made first. Negative values use
	// DefaultWarmup.
	Warmup int
	// Logger receives one event per measurement. Nil discards.
	Logger *zerolog.Logger
}

func (c Config) normalize() Config {
	if c.Iterations <= 0 {
		c.Iterations = DefaultIterations
	}
	if c.Warmup < 0 {
		c.Warmup = DefaultWarmup
	}
	return c
}

func (c Config) logger() zerolog.Logger {
	if c.Logger == nil {
		return zerolog.Nop()
	}
	return *c.Logger
}

// Bucket is one bar of a latency histogram.
type Bucket struct {
	LowerNs int64 `json:"lower_ns" yaml:"lower_ns"`
	UpperNs int64 `json:"upper_ns" yaml:"upper_ns"`
	Count   int   `json:"count" yaml:"count"`
}

// BenchResult holds benchmark statistics
type BenchResult struct {
	Name          string   `json:"name" yaml:"name"`
	Iterations    int      `json:"iterations" yaml:"iterations"`
	Warmup        int      `json:"warmup" yaml:"warmup"`
	TotalNs       int64    `json:"total_ns" yaml:"total_ns"`
	TotalDuration string   `json:"total_duration" yaml:"total_duration"`
	OpsPerSec     float64  `json:"ops_per_sec" yaml:"ops_per_sec"`
	MinNs         int64    `json:"min_ns" yaml:"min_ns"`
	MaxNs         int64    `json:"max_ns" yaml:"max_ns"`
	AvgNs         int64    `json:"avg_ns" yaml:"avg_ns"`
	MedianNs      int64    `json:"median_ns" yaml:"median_ns"`
	P95Ns         int64    `json:"p95_ns" yaml:"p95_ns"`
	P99Ns         int64    `json:"p99_ns" yaml:"p99_ns"`
	Distribution  []Bucket `json:"distribution" yaml:"distribution"`
}

// Measure calls fn once to verify it succeeds, then cfg.Warmup times
// untimed, then cfg.Iterations times timed, and returns the statistics of
// the timed calls.
func Measure(cfg Config, name string, fn func() error) (*BenchResult, error) {
	cfg = cfg.normalize()
	if err := fn(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	for i := 0; i < cfg.Warmup; i++ {
		_ = fn()
	}

	// Force GC before measuring
	runtime.GC()

	durations := make([]time.Duration, cfg.Iterations)
	var total time.Duration
	for i := range durations {
		start := time.Now()
		_ = fn()
		elapsed := time.Since(start)
		durations[i] = elapsed
		total += elapsed
	}
	slices.Sort(durations)

	n := len(durations)
	result := &BenchResult{
		Name:          name,
		Iterations:    n,
		Warmup:        cfg.Warmup,
		TotalNs:       total.Nanoseconds(),
		TotalDuration: total.Round(time.Microsecond).String(),
		MinNs:         durations[0].Nanoseconds(),
		MaxNs:         durations[n-1].Nanoseconds(),
		AvgNs:         (total / time.Duration(n)).Nanoseconds(),
		MedianNs:      durations[n/2].Nanoseconds(),
		P95Ns:         durations[int(float64(n)*0.95)].Nanoseconds(),
		P99Ns:         durations[int(float64(n)*0.99)].Nanoseconds(),
		Distribution:  histogram(durations),
	}
	if total > 0 {
		result.OpsPerSec = float64(n) / total.Seconds()
	}
	logger := cfg.logger()
	logger.Debug().
		Str("name", name).
		Int64("median_ns", result.MedianNs).
		Float64("ops_per_sec", result.OpsPerSec).
		Msg("measured")
	return result, nil
}

// histogram buckets sorted durations into equal-width bars.
func histogram(durations []time.Duration) []Bucket {
	minD := durations[0]
	maxD := durations[len(durations)-1]
	size := (maxD - minD) / bucketCount
	if size == 0 {
		size = time.Nanosecond
	}
	buckets := make([]Bucket, bucketCount)
	for i := range buckets {
		lower := minD + time.Duration(i)*size
		buckets[i].LowerNs = lower.Nanoseconds()
		buckets[i].UpperNs = (lower + size).Nanoseconds()
	}
	for _, d := range durations {
		i := int((d - minD) / size)
		if i >= bucketCount {
			i = bucketCount - 1
		}
		buckets[i].Count++
	}
	return buckets
}

// SuiteResult holds the measurements of one expression.
type SuiteResult struct {
	RunID   string         `json:"run_id" yaml:"run_id"`
	Expr    string         `json:"expr" yaml:"expr"`
	Results []*BenchResult `json:"results" yaml:"results"`
}

// Suite measures the folder and every backend in both modes on e. Each
// backend is compiled once, outside the timed loop.
func Suite(e ast.Expr, cfg Config) (*SuiteResult, error) {
	if e == nil {
		return nil, errors.New("nil expression")
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	suite := &SuiteResult{RunID: id.String(), Expr: e.String()}
	base := cfg.logger()
	logger := base.With().Str("run_id", suite.RunID).Logger()
	cfg.Logger = &logger

	r, err := Measure(cfg, "fold", func() error {
		_, err := fold.Eval(e)
		return err
	})
	if err != nil {
		return nil, err
	}
	suite.Results = append(suite.Results, r)

	for _, backend := range calc.Backends() {
		prog, err := calc.Compile(e, backend)
		if err != nil {
			return nil, err
		}
		for _, mode := range calc.Modes() {
			machine := prog.VM()
			run := machine.Run
			if mode == calc.Trusted {
				run = machine.RunTrusted
			}
			r, err := Measure(cfg, fmt.Sprintf("%s/%s", backend, mode), func() error {
				_, err := run()
				return err
			})
			if err != nil {
				return nil, err
			}
			suite.Results = append(suite.Results, r)
		}
	}
	logger.Info().Str("expr", suite.Expr).Int("measurements", len(suite.Results)).Msg("bench suite finished")
	return suite, nil
}
