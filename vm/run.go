package vm

import "github.com/calcvm/calc/bytecode"

// RunRPN evaluates an RPN program on the checked path.
func RunRPN(p *bytecode.RPN, options ...Option) (int64, error) {
	return NewRPN(p, options...).Run()
}

// RunStack evaluates a sized stack program on the checked path.
func RunStack(p *bytecode.Stack, options ...Option) (int64, error) {
	return NewStack(p, options...).Run()
}

// RunRegister evaluates a register program on the checked path.
func RunRegister(p *bytecode.Register, options ...Option) (int64, error) {
	return NewRegister(p, options...).Run()
}

// RunRPNTrusted evaluates a compiler-produced RPN program without checks.
func RunRPNTrusted(p *bytecode.RPN) (int64, error) {
	return NewRPN(p).RunTrusted()
}

// RunStackTrusted evaluates a compiler-produced stack program without checks.
func RunStackTrusted(p *bytecode.Stack) (int64, error) {
	return NewStack(p).RunTrusted()
}

// RunRegisterTrusted evaluates a compiler-produced register program without
// checks.
func RunRegisterTrusted(p *bytecode.Register) (int64, error) {
	return NewRegister(p).RunTrusted()
}
