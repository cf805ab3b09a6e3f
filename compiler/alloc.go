package compiler

import (
	"github.com/calcvm/calc/errz"
	"github.com/calcvm/calc/op"
)

// StackAlloc tracks operand stack depth during a post-order walk. Each
// literal pushes once and each binary operator pops once after both operands
// are emitted, so Size is the exact peak depth.
type StackAlloc struct {
	current int
	max     int
}

// Push records one value pushed on the stack.
func (a *StackAlloc) Push() {
	a.current++
	if a.current > a.max {
		a.max = a.current
	}
}

// Pop records the net effect of a binary operator.
func (a *StackAlloc) Pop() {
	a.current--
}

// Depth returns the current depth.
func (a *StackAlloc) Depth() int {
	return a.current
}

// Size returns the peak depth seen so far.
func (a *StackAlloc) Size() int {
	return a.max
}

// RegAlloc hands out registers in stack order. Alloc returns the lowest free
// register; Free(r) releases r and every register above it. The register
// count is therefore bounded by the tree depth, not by the expression size.
type RegAlloc struct {
	current int
	max     int
}

// Alloc returns the next free register. It fails once all op.MaxRegisters
// registers are live, since register operands are 8 bits wide.
func (a *RegAlloc) Alloc() (uint8, error) {
	if a.current >= op.MaxRegisters {
		return 0, errz.NewCompileError(errz.ErrTooManyRegisters)
	}
	r := a.current
	a.current++
	if a.current > a.max {
		a.max = a.current
	}
	return uint8(r), nil
}

// Free releases register r and all registers allocated after it.
func (a *RegAlloc) Free(r uint8) {
	a.current = int(r)
}

// Live returns the number of registers currently allocated.
func (a *RegAlloc) Live() int {
	return a.current
}

// Size returns the number of registers the program needs.
func (a *RegAlloc) Size() int {
	return a.max
}
