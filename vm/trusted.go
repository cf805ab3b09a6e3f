package vm

import (
	"unsafe"

	"github.com/calcvm/calc/errz"
	"github.com/calcvm/calc/internal/arith"
	"github.com/calcvm/calc/op"
)

// RunTrusted evaluates the program on the unchecked path. Programs that were
// not produced by the compiler are refused with errz.ErrUntrusted.
func (vm *VirtualMachine) RunTrusted() (int64, error) {
	if !vm.code.trusted {
		return 0, errz.NewStructuredErrorf(errz.ErrRuntime, errz.Location{},
			"refusing %s program: %s", vm.code.encoding, errz.ErrUntrusted).WithCause(errz.ErrUntrusted)
	}
	switch vm.code.encoding {
	case encodingRPN:
		return vm.trustedRPN()
	case encodingStack:
		return vm.trustedStack()
	default:
		return vm.trustedRegister()
	}
}

// at returns a pointer to element i of the int64 array starting at base.
func at(base unsafe.Pointer, i int) *int64 {
	return (*int64)(unsafe.Add(base, uintptr(i)*8))
}

func wrapping(code op.Code, a, b int64) (int64, error) {
	switch code {
	case op.Add:
		return a + b, nil
	case op.Sub:
		return a - b, nil
	case op.Mul:
		return a * b, nil
	default:
		return arith.WrappingDiv(a, b)
	}
}

func (vm *VirtualMachine) trustedRPN() (int64, error) {
	c := vm.code
	buf := make([]int64, c.size)
	base := unsafe.Pointer(unsafe.SliceData(buf))
	sp := 0
	for ip, instr := range c.rpn {
		switch instr.Op {
		case op.LoadInt:
			*at(base, sp) = instr.Value
			sp++
		case op.Negate:
			p := at(base, sp-1)
			*p = -*p
		default:
			r, err := wrapping(instr.Op, *at(base, sp-2), *at(base, sp-1))
			if err != nil {
				return 0, errz.NewArithmeticError(errz.At(ip, instr.Op), err)
			}
			sp--
			*at(base, sp-1) = r
		}
	}
	return *at(base, 0), nil
}

func (vm *VirtualMachine) trustedStack() (int64, error) {
	c := vm.code
	buf := make([]int64, c.size)
	base := unsafe.Pointer(unsafe.SliceData(buf))
	pool := unsafe.Pointer(unsafe.SliceData(c.constants))
	sp := 0
	for ip, instr := range c.stack {
		switch instr.Op {
		case op.LoadInline:
			*at(base, sp) = instr.Inline()
			sp++
		case op.LoadConst:
			*at(base, sp) = *at(pool, instr.Index())
			sp++
		case op.Negate:
			p := at(base, sp-1)
			*p = -*p
		default:
			r, err := wrapping(instr.Op, *at(base, sp-2), *at(base, sp-1))
			if err != nil {
				return 0, errz.NewArithmeticError(errz.At(ip, instr.Op), err)
			}
			sp--
			*at(base, sp-1) = r
		}
	}
	return *at(base, 0), nil
}

func (vm *VirtualMachine) trustedRegister() (int64, error) {
	c := vm.code
	regs := make([]int64, c.size)
	base := unsafe.Pointer(unsafe.SliceData(regs))
	pool := unsafe.Pointer(unsafe.SliceData(c.constants))
	for ip, instr := range c.reg {
		switch instr.Op {
		case op.LoadInline:
			*at(base, int(instr.Dst)) = instr.Inline()
		case op.LoadConst:
			*at(base, int(instr.Dst)) = *at(pool, instr.Index())
		case op.Negate:
			*at(base, int(instr.Dst)) = -*at(base, int(instr.Lhs))
		default:
			r, err := wrapping(instr.Op, *at(base, int(instr.Lhs)), *at(base, int(instr.Rhs)))
			if err != nil {
				return 0, errz.NewArithmeticError(errz.At(ip, instr.Op), err)
			}
			*at(base, int(instr.Dst)) = r
		}
	}
	return *at(base, 0), nil
}
