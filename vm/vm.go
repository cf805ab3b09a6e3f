// Package vm provides the virtual machines that evaluate compiled calc
// bytecode.
//
// A VirtualMachine wraps one program in one of the three encodings and can
// evaluate it any number of times, from any number of goroutines: each run
// allocates its own storage buffer and no state survives between runs.
//
// Run is the checked path. Every stack slot, register and constant pool
// access is range-validated, and int64 arithmetic is overflow-checked.
// Violations are reported as *errz.StructuredError values of kind
// errz.ErrInvariant or errz.ErrArithmetic.
//
// RunTrusted is the unchecked path. It only accepts programs produced by the
// compiler package (bytecode Trusted() == true) and performs no range
// validation at all, relying on the compiler's storage invariant. On that
// path add, sub, mul, negate and MinInt64 / -1 wrap in two's complement.
// Division by zero is still reported as an arithmetic error.
package vm

import (
	"github.com/calcvm/calc/bytecode"
	"github.com/calcvm/calc/errz"
	"github.com/calcvm/calc/internal/arith"
	"github.com/calcvm/calc/op"
)

// VirtualMachine evaluates one compiled program.
type VirtualMachine struct {
	code        *code
	observer    Observer
	observerCfg ObserverConfig
}

// NewRPN returns a VirtualMachine for an RPN program.
func NewRPN(p *bytecode.RPN, options ...Option) *VirtualMachine {
	return newVM(wrapRPN(p), options)
}

// NewStack returns a VirtualMachine for a sized stack program.
func NewStack(p *bytecode.Stack, options ...Option) *VirtualMachine {
	return newVM(wrapStack(p), options)
}

// NewRegister returns a VirtualMachine for a register program.
func NewRegister(p *bytecode.Register, options ...Option) *VirtualMachine {
	return newVM(wrapRegister(p), options)
}

func newVM(c *code, options []Option) *VirtualMachine {
	vm := &VirtualMachine{code: c}
	for _, opt := range options {
		opt(vm)
	}
	if vm.observer != nil {
		vm.observerCfg = NormalizeConfig(vm.observer.Config())
	}
	return vm
}

// Trusted returns true if the loaded program may run on the unchecked path.
func (vm *VirtualMachine) Trusted() bool {
	return vm.code.trusted
}

// Encoding returns the name of the loaded program's encoding.
func (vm *VirtualMachine) Encoding() string {
	return vm.code.encoding.String()
}

// InstructionCount returns the number of instructions in the loaded program.
func (vm *VirtualMachine) InstructionCount() int {
	return vm.code.instructionCount()
}

// Run evaluates the program on the checked path.
func (vm *VirtualMachine) Run() (int64, error) {
	switch vm.code.encoding {
	case encodingRPN:
		return vm.runRPN()
	case encodingStack:
		return vm.runStack()
	default:
		return vm.runRegister()
	}
}

func (vm *VirtualMachine) runRPN() (int64, error) {
	c := vm.code
	stack := make([]int64, 0, c.size)
	for ip, instr := range c.rpn {
		sp := len(stack)
		if err := vm.step(ip, instr.Op, sp); err != nil {
			return 0, err
		}
		switch instr.Op {
		case op.LoadInt:
			stack = append(stack, instr.Value)
			vm.slot(ip, sp, true, instr.Value)
		case op.Add, op.Sub, op.Mul, op.Div:
			if sp < 2 {
				return 0, underflow(ip, instr.Op, sp, 2)
			}
			a, b := stack[sp-2], stack[sp-1]
			vm.slot(ip, sp-1, false, b)
			vm.slot(ip, sp-2, false, a)
			r, err := checkedBinary(instr.Op, a, b)
			if err != nil {
				return 0, errz.NewArithmeticError(errz.At(ip, instr.Op), err)
			}
			stack = stack[:sp-1]
			stack[sp-2] = r
			vm.slot(ip, sp-2, true, r)
		case op.Negate:
			if sp < 1 {
				return 0, underflow(ip, instr.Op, sp, 1)
			}
			vm.slot(ip, sp-1, false, stack[sp-1])
			r, err := arith.Neg(stack[sp-1])
			if err != nil {
				return 0, errz.NewArithmeticError(errz.At(ip, instr.Op), err)
			}
			stack[sp-1] = r
			vm.slot(ip, sp-1, true, r)
		default:
			return 0, unknownOpcode(ip, instr.Op)
		}
	}
	if len(stack) != 1 {
		return 0, imbalance(len(stack))
	}
	return stack[0], nil
}

func (vm *VirtualMachine) runStack() (int64, error) {
	c := vm.code
	// Every slot needs a load to fill it.
	if err := checkStorage("stack", c.size, len(c.stack)); err != nil {
		return 0, err
	}
	buf := make([]int64, c.size)
	sp := 0
	for ip, instr := range c.stack {
		if err := vm.step(ip, instr.Op, sp); err != nil {
			return 0, err
		}
		switch instr.Op {
		case op.LoadInline, op.LoadConst:
			v := instr.Inline()
			if instr.Op == op.LoadConst {
				idx := instr.Index()
				if idx >= len(c.constants) {
					return 0, errz.NewInvariantError(errz.At(ip, instr.Op), errz.ErrConstantOutOfRange,
						"index %d, pool size %d", idx, len(c.constants))
				}
				v = c.constants[idx]
			}
			if sp >= len(buf) {
				return 0, errz.NewInvariantError(errz.At(ip, instr.Op), errz.ErrStackOverflow,
					"slot %d, stack size %d", sp, len(buf))
			}
			buf[sp] = v
			vm.slot(ip, sp, true, v)
			sp++
		case op.Add, op.Sub, op.Mul, op.Div:
			if sp < 2 {
				return 0, underflow(ip, instr.Op, sp, 2)
			}
			a, b := buf[sp-2], buf[sp-1]
			vm.slot(ip, sp-1, false, b)
			vm.slot(ip, sp-2, false, a)
			r, err := checkedBinary(instr.Op, a, b)
			if err != nil {
				return 0, errz.NewArithmeticError(errz.At(ip, instr.Op), err)
			}
			sp--
			buf[sp-1] = r
			vm.slot(ip, sp-1, true, r)
		case op.Negate:
			if sp < 1 {
				return 0, underflow(ip, instr.Op, sp, 1)
			}
			vm.slot(ip, sp-1, false, buf[sp-1])
			r, err := arith.Neg(buf[sp-1])
			if err != nil {
				return 0, errz.NewArithmeticError(errz.At(ip, instr.Op), err)
			}
			buf[sp-1] = r
			vm.slot(ip, sp-1, true, r)
		default:
			return 0, unknownOpcode(ip, instr.Op)
		}
	}
	if sp != 1 {
		return 0, imbalance(sp)
	}
	return buf[0], nil
}

func (vm *VirtualMachine) runRegister() (int64, error) {
	c := vm.code
	if err := checkStorage("register", c.size, op.MaxRegisters); err != nil {
		return 0, err
	}
	regs := make([]int64, c.size)
	for ip, instr := range c.reg {
		if err := vm.step(ip, instr.Op, 0); err != nil {
			return 0, err
		}
		switch instr.Op {
		case op.LoadInline, op.LoadConst:
			v := instr.Inline()
			if instr.Op == op.LoadConst {
				idx := instr.Index()
				if idx >= len(c.constants) {
					return 0, errz.NewInvariantError(errz.At(ip, instr.Op), errz.ErrConstantOutOfRange,
						"index %d, pool size %d", idx, len(c.constants))
				}
				v = c.constants[idx]
			}
			if err := checkRegister(ip, instr.Op, instr.Dst, len(regs)); err != nil {
				return 0, err
			}
			regs[instr.Dst] = v
			vm.slot(ip, int(instr.Dst), true, v)
		case op.Add, op.Sub, op.Mul, op.Div:
			for _, r := range [...]uint8{instr.Lhs, instr.Rhs, instr.Dst} {
				if err := checkRegister(ip, instr.Op, r, len(regs)); err != nil {
					return 0, err
				}
			}
			a, b := regs[instr.Lhs], regs[instr.Rhs]
			vm.slot(ip, int(instr.Lhs), false, a)
			vm.slot(ip, int(instr.Rhs), false, b)
			r, err := checkedBinary(instr.Op, a, b)
			if err != nil {
				return 0, errz.NewArithmeticError(errz.At(ip, instr.Op), err)
			}
			regs[instr.Dst] = r
			vm.slot(ip, int(instr.Dst), true, r)
		case op.Negate:
			for _, r := range [...]uint8{instr.Lhs, instr.Dst} {
				if err := checkRegister(ip, instr.Op, r, len(regs)); err != nil {
					return 0, err
				}
			}
			vm.slot(ip, int(instr.Lhs), false, regs[instr.Lhs])
			r, err := arith.Neg(regs[instr.Lhs])
			if err != nil {
				return 0, errz.NewArithmeticError(errz.At(ip, instr.Op), err)
			}
			regs[instr.Dst] = r
			vm.slot(ip, int(instr.Dst), true, r)
		default:
			return 0, unknownOpcode(ip, instr.Op)
		}
	}
	if len(regs) == 0 {
		return 0, errz.NewInvariantError(errz.Location{}, errz.ErrSlotOutOfRange,
			"result register 0, register count 0")
	}
	return regs[0], nil
}

func (vm *VirtualMachine) step(ip int, opcode op.Code, depth int) error {
	if vm.observer == nil {
		return nil
	}
	switch vm.observerCfg.StepMode {
	case StepNone:
		return nil
	case StepSampled:
		if ip%vm.observerCfg.SampleInterval != 0 {
			return nil
		}
	}
	event := StepEvent{
		IP:         ip,
		Opcode:     opcode,
		OpcodeName: op.GetInfo(opcode).Name,
		StackDepth: depth,
	}
	if !vm.observer.OnStep(event) {
		return errz.NewStructuredErrorf(errz.ErrRuntime, errz.At(ip, opcode), "%s", errz.ErrHalted).
			WithCause(errz.ErrHalted)
	}
	return nil
}

func (vm *VirtualMachine) slot(ip, slot int, write bool, value int64) {
	if vm.observer == nil || !vm.observerCfg.ObserveSlots {
		return
	}
	vm.observer.OnSlot(SlotEvent{IP: ip, Slot: slot, Write: write, Value: value})
}
