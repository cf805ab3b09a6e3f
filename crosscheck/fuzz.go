package crosscheck

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/calcvm/calc/ast"
	"github.com/calcvm/calc/internal/gen"
	"github.com/gofrs/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
)

// FuzzConfig configures a fuzz run.
type FuzzConfig struct {
	// Count is the number of expressions to generate and check.
	Count int
	// Seed seeds the expression generator. Equal seeds generate equal
	// expressions.
	Seed int64
	// Workers is the number of goroutines checking expressions. Values <= 0
	// use GOMAXPROCS.
	Workers int
	// MaxDepth bounds the depth of generated trees. Zero uses the generator
	// default.
	MaxDepth int
	// Division allows the division operator.
	Division bool
	// LargeLiterals allows literals that are stored in the constant pool.
	LargeLiterals bool
	// MaxFailures bounds the number of failures kept in the summary.
	// Values <= 0 keep 10.
	MaxFailures int
	// Logger receives progress and failures. Nil discards.
	Logger *zerolog.Logger
}

// Failure is one expression whose check failed.
type Failure struct {
	Index int    `json:"index" yaml:"index"`
	Expr  string `json:"expr" yaml:"expr"`
	Error string `json:"error" yaml:"error"`
}

// FuzzSummary describes a completed fuzz run.
type FuzzSummary struct {
	RunID    string        `json:"run_id" yaml:"run_id"`
	Seed     int64         `json:"seed" yaml:"seed"`
	Checked  int           `json:"checked" yaml:"checked"`
	Passed   int           `json:"passed" yaml:"passed"`
	Failed   int           `json:"failed" yaml:"failed"`
	Failures []Failure     `json:"failures,omitempty" yaml:"failures,omitempty"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

type job struct {
	index int
	expr  ast.Expr
}

// Fuzz generates cfg.Count expressions and checks each of them on a pool of
// workers. The returned error aggregates every failure; the summary keeps
// the first cfg.MaxFailures of them. Cancelling ctx stops the run early and
// returns ctx.Err() together with the partial summary.
func Fuzz(ctx context.Context, cfg FuzzConfig) (*FuzzSummary, error) {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	maxFailures := cfg.MaxFailures
	if maxFailures <= 0 {
		maxFailures = 10
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	summary := &FuzzSummary{RunID: id.String(), Seed: cfg.Seed}
	base := zerolog.Nop()
	if cfg.Logger != nil {
		base = *cfg.Logger
	}
	logger := base.With().Str("run_id", summary.RunID).Logger()
	logger.Info().
		Int("count", cfg.Count).
		Int64("seed", cfg.Seed).
		Int("workers", workers).
		Msg("fuzz run started")

	var genOpts []gen.Option
	if cfg.MaxDepth > 0 {
		genOpts = append(genOpts, gen.WithMaxDepth(cfg.MaxDepth))
	}
	genOpts = append(genOpts, gen.WithDivision(cfg.Division), gen.WithLargeLiterals(cfg.LargeLiterals))
	generator := gen.New(cfg.Seed, genOpts...)

	start := time.Now()
	jobs := make(chan job)
	var (
		mu     sync.Mutex
		result *multierror.Error
		wg     sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				_, err := Check(j.expr)
				mu.Lock()
				summary.Checked++
				if err == nil {
					summary.Passed++
				} else {
					summary.Failed++
					result = multierror.Append(result, err)
					if len(summary.Failures) < maxFailures {
						summary.Failures = append(summary.Failures, Failure{
							Index: j.index,
							Expr:  j.expr.String(),
							Error: err.Error(),
						})
					}
					logger.Error().Err(err).Int("index", j.index).Str("expr", j.expr.String()).Msg("check failed")
				}
				mu.Unlock()
			}
		}()
	}

	// The generator is not safe for concurrent use, so expressions are
	// generated here and handed to the workers in order.
	var cancelled error
feed:
	for i := 0; i < cfg.Count; i++ {
		select {
		case jobs <- job{index: i, expr: generator.Expr()}:
		case <-ctx.Done():
			cancelled = ctx.Err()
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	summary.Duration = time.Since(start)

	logger.Info().
		Int("checked", summary.Checked).
		Int("failed", summary.Failed).
		Dur("duration", summary.Duration).
		Msg("fuzz run finished")

	if cancelled != nil {
		return summary, cancelled
	}
	return summary, result.ErrorOrNil()
}
