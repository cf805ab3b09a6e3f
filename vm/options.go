package vm

// Option is a configuration function for a Virtual Machine.
type Option func(*VirtualMachine)

// WithObserver sets an observer for checked execution events.
// The observer receives a callback per instruction step and per storage
// slot access. Returning false from OnStep halts execution with
// errz.ErrHalted.
func WithObserver(observer Observer) Option {
	return func(vm *VirtualMachine) {
		vm.observer = observer
	}
}
