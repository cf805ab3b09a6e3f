package calc

import "github.com/calcvm/calc/vm"

// Option configures a calc evaluation.
type Option func(*options)

type options struct {
	backend  Backend
	mode     Mode
	observer vm.Observer
	maxDepth int
}

func collectOptions(opts ...Option) *options {
	o := &options{backend: Register, mode: Checked}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *options) vmOpts() []vm.Option {
	var opts []vm.Option
	if o.observer != nil {
		opts = append(opts, vm.WithObserver(o.observer))
	}
	return opts
}

// WithBackend selects the bytecode encoding. The default is Register.
func WithBackend(backend Backend) Option {
	return func(o *options) {
		o.backend = backend
	}
}

// WithMode selects checked or trusted execution. The default is Checked.
func WithMode(mode Mode) Option {
	return func(o *options) {
		o.mode = mode
	}
}

// WithObserver sets an observer for checked execution events. It has no
// effect in trusted mode.
func WithObserver(observer vm.Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// WithMaxDepth bounds the nesting depth accepted by the parser.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}
