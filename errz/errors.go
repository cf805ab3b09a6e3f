// Package errz defines the structured errors returned by the calc compilers
// and virtual machines.
package errz

import "errors"

// Arithmetic causes.
var (
	ErrDivisionByZero = errors.New("division by zero")
	ErrOverflow       = errors.New("integer overflow")
)

// Invariant causes. These are only reachable with hand-built or corrupted
// bytecode; the compilers never emit a program that triggers them.
var (
	ErrStackUnderflow     = errors.New("stack underflow")
	ErrStackOverflow      = errors.New("stack overflow")
	ErrStackImbalance     = errors.New("stack imbalance")
	ErrSlotOutOfRange     = errors.New("slot out of range")
	ErrConstantOutOfRange = errors.New("constant index out of range")
	ErrUnknownOpcode      = errors.New("unknown opcode")
)

// Compile causes.
var (
	ErrTooManyConstants = errors.New("number of constants exceeded limits")
	ErrTooManyRegisters = errors.New("number of registers exceeded limits")
	ErrNilExpr          = errors.New("nil expression")
	ErrUnknownExpr      = errors.New("unknown expression type")
)

// Runtime causes.
var (
	ErrUntrusted = errors.New("program was not produced by the compiler")
	ErrHalted    = errors.New("execution halted by observer")
)
