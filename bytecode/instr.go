package bytecode

import (
	"fmt"

	"github.com/calcvm/calc/op"
)

// RPNInstr is an instruction of the RPN encoding. Literals are carried at
// full width, so the encoding needs no constant pool.
type RPNInstr struct {
	Op    op.Code
	Value int64
}

// RPNLoad returns an instruction that pushes v.
func RPNLoad(v int64) RPNInstr {
	return RPNInstr{Op: op.LoadInt, Value: v}
}

// RPNOp returns an operator instruction.
func RPNOp(code op.Code) RPNInstr {
	return RPNInstr{Op: code}
}

func (i RPNInstr) String() string {
	if i.Op == op.LoadInt {
		return fmt.Sprintf("%s %d", i.Op, i.Value)
	}
	return i.Op.String()
}

// StackInstr is an instruction of the sized stack encoding. Arg holds the
// bits of a 16-bit signed inline literal for LoadInline and a pool index for
// LoadConst. It is unused by operators.
type StackInstr struct {
	Op  op.Code
	Arg uint16
}

// StackLoadInline returns an instruction that pushes the inline literal v.
func StackLoadInline(v int16) StackInstr {
	return StackInstr{Op: op.LoadInline, Arg: uint16(v)}
}

// StackLoadConst returns an instruction that pushes pool entry idx.
func StackLoadConst(idx uint16) StackInstr {
	return StackInstr{Op: op.LoadConst, Arg: idx}
}

// StackOp returns an operator instruction.
func StackOp(code op.Code) StackInstr {
	return StackInstr{Op: code}
}

// Inline returns the sign-extended inline literal.
func (i StackInstr) Inline() int64 {
	return int64(int16(i.Arg))
}

// Index returns the constant pool index.
func (i StackInstr) Index() int {
	return int(i.Arg)
}

func (i StackInstr) String() string {
	switch i.Op {
	case op.LoadInline:
		return fmt.Sprintf("%s %d", i.Op, i.Inline())
	case op.LoadConst:
		return fmt.Sprintf("%s #%d", i.Op, i.Arg)
	default:
		return i.Op.String()
	}
}

// RegInstr is an instruction of the register encoding.
//
//	LOAD_INLINE  r[Dst] = int16(Arg)
//	LOAD_CONST   r[Dst] = pool[Arg]
//	ADD..DIV     r[Dst] = r[Lhs] op r[Rhs]
//	NEGATE       r[Dst] = -r[Lhs]
type RegInstr struct {
	Op  op.Code
	Dst uint8
	Lhs uint8
	Rhs uint8
	Arg uint16
}

// RegLoadInline returns an instruction that stores the inline literal v in dst.
func RegLoadInline(dst uint8, v int16) RegInstr {
	return RegInstr{Op: op.LoadInline, Dst: dst, Arg: uint16(v)}
}

// RegLoadConst returns an instruction that stores pool entry idx in dst.
func RegLoadConst(dst uint8, idx uint16) RegInstr {
	return RegInstr{Op: op.LoadConst, Dst: dst, Arg: idx}
}

// RegBinary returns a binary operator instruction.
func RegBinary(code op.Code, dst, lhs, rhs uint8) RegInstr {
	return RegInstr{Op: code, Dst: dst, Lhs: lhs, Rhs: rhs}
}

// RegNegate returns an instruction that stores -r[src] in dst.
func RegNegate(dst, src uint8) RegInstr {
	return RegInstr{Op: op.Negate, Dst: dst, Lhs: src}
}

// Inline returns the sign-extended inline literal.
func (i RegInstr) Inline() int64 {
	return int64(int16(i.Arg))
}

// Index returns the constant pool index.
func (i RegInstr) Index() int {
	return int(i.Arg)
}

func (i RegInstr) String() string {
	switch {
	case i.Op == op.LoadInline:
		return fmt.Sprintf("%s r%d, %d", i.Op, i.Dst, i.Inline())
	case i.Op == op.LoadConst:
		return fmt.Sprintf("%s r%d, #%d", i.Op, i.Dst, i.Arg)
	case i.Op == op.Negate:
		return fmt.Sprintf("%s r%d, r%d", i.Op, i.Dst, i.Lhs)
	case i.Op.IsBinary():
		return fmt.Sprintf("%s r%d, r%d, r%d", i.Op, i.Dst, i.Lhs, i.Rhs)
	default:
		return i.Op.String()
	}
}
