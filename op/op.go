// Package op defines opcodes shared by the calc compilers and virtual machines.
package op

import "math"

// Code is an integer opcode that indicates an operation to execute.
type Code uint8

const (
	Invalid Code = 0

	// Load
	LoadInt    Code = 10 // full-width literal, RPN encoding only
	LoadInline Code = 11 // 16-bit signed literal stored in the instruction
	LoadConst  Code = 12 // 16-bit index into the constant pool

	// Operations
	Add    Code = 20
	Sub    Code = 21
	Mul    Code = 22
	Div    Code = 23
	Negate Code = 24
)

// Inline literal bounds. A literal in [MinInlineInt, MaxInlineInt] is encoded
// in the instruction itself; anything else goes to the constant pool.
const (
	MinInlineInt = math.MinInt16
	MaxInlineInt = math.MaxInt16
)

// MaxConstants is the number of entries addressable by a 16-bit pool index.
const MaxConstants = 1 << 16

// MaxRegisters is the number of registers addressable by an 8-bit operand.
const MaxRegisters = 1 << 8

// FitsInline reports whether v can be encoded as an inline literal.
func FitsInline(v int64) bool {
	return v >= MinInlineInt && v <= MaxInlineInt
}

// Symbol returns the operator symbol of an arithmetic opcode, for example "+"
// for Add. Non-arithmetic opcodes return an empty string.
func (c Code) Symbol() string {
	switch c {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	case Negate:
		return "-"
	default:
		return ""
	}
}

// String returns the opcode name, for example "LOAD_CONST".
func (c Code) String() string {
	return GetInfo(c).Name
}

// IsBinary reports whether the opcode consumes two operands.
func (c Code) IsBinary() bool {
	return c >= Add && c <= Div
}

// IsLoad reports whether the opcode produces a value without consuming any.
func (c Code) IsLoad() bool {
	return c >= LoadInt && c <= LoadConst
}

// Info contains information about an opcode.
type Info struct {
	Code Code
	Name string
	// StackEffect is the net change in operand stack depth.
	StackEffect int
}

var infos = make([]Info, 256)

func init() {
	type opInfo struct {
		op     Code
		name   string
		effect int
	}
	ops := []opInfo{
		{LoadInt, "LOAD_INT", 1},
		{LoadInline, "LOAD_INLINE", 1},
		{LoadConst, "LOAD_CONST", 1},
		{Add, "ADD", -1},
		{Sub, "SUB", -1},
		{Mul, "MUL", -1},
		{Div, "DIV", -1},
		{Negate, "NEGATE", 0},
	}
	for _, o := range ops {
		infos[o.op] = Info{
			Code:        o.op,
			Name:        o.name,
			StackEffect: o.effect,
		}
	}
	infos[Invalid] = Info{Code: Invalid, Name: "INVALID"}
}

// GetInfo returns information about the given opcode. Unknown opcodes return
// an Info with an empty name.
func GetInfo(c Code) Info {
	return infos[c]
}

// Valid reports whether the opcode is a known, executable instruction.
func Valid(c Code) bool {
	return c != Invalid && infos[c].Name != ""
}
