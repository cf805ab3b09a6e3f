package vm

import (
	"github.com/calcvm/calc/errz"
	"github.com/calcvm/calc/internal/arith"
	"github.com/calcvm/calc/op"
)

func checkedBinary(code op.Code, a, b int64) (int64, error) {
	switch code {
	case op.Add:
		return arith.Add(a, b)
	case op.Sub:
		return arith.Sub(a, b)
	case op.Mul:
		return arith.Mul(a, b)
	default:
		return arith.Div(a, b)
	}
}

func checkRegister(ip int, code op.Code, r uint8, count int) error {
	if int(r) >= count {
		return errz.NewInvariantError(errz.At(ip, code), errz.ErrSlotOutOfRange,
			"register r%d, register count %d", r, count)
	}
	return nil
}

// checkStorage validates a declared storage size before the checked path
// allocates it.
func checkStorage(kind string, size, limit int) error {
	if size < 0 || size > limit {
		return errz.NewInvariantError(errz.Location{}, errz.ErrSlotOutOfRange,
			"%s size %d, limit %d", kind, size, limit)
	}
	return nil
}

func underflow(ip int, code op.Code, depth, need int) error {
	return errz.NewInvariantError(errz.At(ip, code), errz.ErrStackUnderflow,
		"depth %d, need %d", depth, need)
}

func unknownOpcode(ip int, code op.Code) error {
	return errz.NewInvariantError(errz.At(ip, code), errz.ErrUnknownOpcode,
		"opcode %d", code)
}

func imbalance(depth int) error {
	return errz.NewInvariantError(errz.Location{}, errz.ErrStackImbalance,
		"%d values left on the stack, want 1", depth)
}
