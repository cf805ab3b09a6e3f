// Package crosscheck compares every compiled backend against the reference
// folder, and fuzzes that comparison over randomly generated expressions.
package crosscheck

import (
	"errors"
	"fmt"

	"github.com/calcvm/calc"
	"github.com/calcvm/calc/ast"
	"github.com/calcvm/calc/errz"
	"github.com/calcvm/calc/fold"
	"github.com/calcvm/calc/vm"
	"github.com/hashicorp/go-multierror"
)

// Outcome is the value or error of one evaluation.
type Outcome struct {
	Value   int64  `json:"value" yaml:"value"`
	Err     error  `json:"-" yaml:"-"`
	Message string `json:"error,omitempty" yaml:"error,omitempty"`
}

func outcome(value int64, err error) Outcome {
	o := Outcome{Value: value, Err: err}
	if err != nil {
		o.Value = 0
		o.Message = err.Error()
	}
	return o
}

func (o Outcome) String() string {
	if o.Err != nil {
		return "error: " + cause(o.Err)
	}
	return fmt.Sprintf("%d", o.Value)
}

// Run is the outcome of one backend in one mode.
type Run struct {
	Backend calc.Backend `json:"backend" yaml:"backend"`
	Mode    calc.Mode    `json:"mode" yaml:"mode"`
	Outcome Outcome      `json:"outcome" yaml:"outcome"`
	// PeakSlots is the highest storage slot used by a checked run, plus one.
	PeakSlots int `json:"peak_slots,omitempty" yaml:"peak_slots,omitempty"`
}

// Report is the result of checking one expression.
type Report struct {
	Expr     string  `json:"expr" yaml:"expr"`
	Oracle   Outcome `json:"oracle" yaml:"oracle"`
	Wrapping Outcome `json:"wrapping" yaml:"wrapping"`
	Runs     []Run   `json:"runs" yaml:"runs"`

	// Computed storage sizes per backend.
	RPNDepth      int `json:"rpn_depth" yaml:"rpn_depth"`
	StackSize     int `json:"stack_size" yaml:"stack_size"`
	RegisterCount int `json:"register_count" yaml:"register_count"`
}

// Mismatch describes one run that disagrees with the reference.
type Mismatch struct {
	Backend calc.Backend
	Mode    calc.Mode
	Want    string
	Got     string
}

func (m *Mismatch) Error() string {
	return fmt.Sprintf("%s/%s: want %s, got %s", m.Backend, m.Mode, m.Want, m.Got)
}

// SizeMismatch describes a checked run whose observed slot usage differs
// from the size the compiler computed.
type SizeMismatch struct {
	Backend  calc.Backend
	Computed int
	Observed int
}

func (m *SizeMismatch) Error() string {
	return fmt.Sprintf("%s: computed storage size %d, observed %d", m.Backend, m.Computed, m.Observed)
}

// Check evaluates e with the folder and with every backend in both modes.
//
// Checked runs must match fold.Eval and trusted runs must match
// fold.Wrapping, where two failures match when they have the same cause.
// Successful checked runs must also touch exactly the number of storage slots
// the compiler computed. Disagreements are returned as a *multierror.Error of
// *Mismatch and *SizeMismatch values alongside the report. Compile failures
// are returned as is with a nil report.
func Check(e ast.Expr) (*Report, error) {
	report := &Report{Oracle: outcome(fold.Eval(e))}
	if kind, ok := errz.KindOf(report.Oracle.Err); ok && kind == errz.ErrCompile {
		return nil, report.Oracle.Err
	}
	report.Expr = e.String()
	report.Wrapping = outcome(fold.Wrapping(e))

	var result *multierror.Error
	for _, backend := range calc.Backends() {
		prog, err := calc.Compile(e, backend)
		if err != nil {
			return nil, err
		}
		computed := prog.Stats().StorageSize
		switch backend {
		case calc.RPN:
			report.RPNDepth = computed
		case calc.Stack:
			report.StackSize = computed
		case calc.Register:
			report.RegisterCount = computed
		}
		for _, mode := range calc.Modes() {
			run := Run{Backend: backend, Mode: mode}
			want := report.Wrapping
			var opts []vm.Option
			usage := &vm.SlotUsage{}
			if mode == calc.Checked {
				want = report.Oracle
				opts = append(opts, vm.WithObserver(usage))
			}
			run.Outcome = outcome(prog.Eval(mode, opts...))
			if mode == calc.Checked {
				run.PeakSlots = usage.Peak()
			}
			report.Runs = append(report.Runs, run)

			if !agree(want, run.Outcome) {
				result = multierror.Append(result, &Mismatch{
					Backend: backend,
					Mode:    mode,
					Want:    want.String(),
					Got:     run.Outcome.String(),
				})
			}
			if mode == calc.Checked && run.Outcome.Err == nil && run.PeakSlots != computed {
				result = multierror.Append(result, &SizeMismatch{
					Backend:  backend,
					Computed: computed,
					Observed: run.PeakSlots,
				})
			}
		}
	}
	return report, result.ErrorOrNil()
}

func agree(want, got Outcome) bool {
	if want.Err == nil || got.Err == nil {
		return want.Err == nil && got.Err == nil && want.Value == got.Value
	}
	return errz.IsArithmetic(got.Err) && cause(want.Err) == cause(got.Err)
}

func cause(err error) string {
	switch {
	case errors.Is(err, errz.ErrDivisionByZero):
		return errz.ErrDivisionByZero.Error()
	case errors.Is(err, errz.ErrOverflow):
		return errz.ErrOverflow.Error()
	default:
		return err.Error()
	}
}
