package calc

import "fmt"

// Backend names one of the three bytecode encodings.
type Backend string

const (
	RPN      Backend = "rpn"
	Stack    Backend = "stack"
	Register Backend = "register"
)

// Backends returns every backend in a fixed order.
func Backends() []Backend {
	return []Backend{RPN, Stack, Register}
}

// ParseBackend returns the backend with the given name.
func ParseBackend(name string) (Backend, error) {
	for _, b := range Backends() {
		if string(b) == name {
			return b, nil
		}
	}
	return "", fmt.Errorf("unknown backend %q (want rpn, stack or register)", name)
}

// Mode selects the checked or the trusted virtual machine.
type Mode string

const (
	Checked Mode = "checked"
	Trusted Mode = "trusted"
)

// Modes returns both modes, checked first.
func Modes() []Mode {
	return []Mode{Checked, Trusted}
}

// ParseMode returns the mode with the given name.
func ParseMode(name string) (Mode, error) {
	switch Mode(name) {
	case Checked, Trusted:
		return Mode(name), nil
	}
	return "", fmt.Errorf("unknown mode %q (want checked or trusted)", name)
}
