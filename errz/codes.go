package errz

import "errors"

// ErrorCode represents a unique identifier for error types.
// Codes are organized by category:
//   - E2xxx: Compile errors
//   - E3xxx: Arithmetic errors
//   - E4xxx: Internal invariant errors
//   - E5xxx: Runtime errors
type ErrorCode string

const (
	// Compile errors (E2xxx)
	E2001 ErrorCode = "E2001" // Too many constants
	E2002 ErrorCode = "E2002" // Too many registers
	E2003 ErrorCode = "E2003" // Nil expression
	E2004 ErrorCode = "E2004" // Unknown expression type

	// Arithmetic errors (E3xxx)
	E3001 ErrorCode = "E3001" // Division by zero
	E3002 ErrorCode = "E3002" // Integer overflow

	// Internal invariant errors (E4xxx)
	E4001 ErrorCode = "E4001" // Stack underflow
	E4002 ErrorCode = "E4002" // Stack overflow
	E4003 ErrorCode = "E4003" // Stack imbalance
	E4004 ErrorCode = "E4004" // Slot out of range
	E4005 ErrorCode = "E4005" // Constant index out of range
	E4006 ErrorCode = "E4006" // Unknown opcode

	// Runtime errors (E5xxx)
	E5001 ErrorCode = "E5001" // Untrusted program
	E5002 ErrorCode = "E5002" // Halted by observer
)

var codes = []struct {
	code  ErrorCode
	cause error
}{
	{E2001, ErrTooManyConstants},
	{E2002, ErrTooManyRegisters},
	{E2003, ErrNilExpr},
	{E2004, ErrUnknownExpr},
	{E3001, ErrDivisionByZero},
	{E3002, ErrOverflow},
	{E4001, ErrStackUnderflow},
	{E4002, ErrStackOverflow},
	{E4003, ErrStackImbalance},
	{E4004, ErrSlotOutOfRange},
	{E4005, ErrConstantOutOfRange},
	{E4006, ErrUnknownOpcode},
	{E5001, ErrUntrusted},
	{E5002, ErrHalted},
}

// CodeOf returns the code for the first sentinel found in err's chain.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	for _, c := range codes {
		if errors.Is(err, c.cause) {
			return c.code
		}
	}
	return ""
}

// Description returns the short description of a code.
func (c ErrorCode) Description() string {
	for _, entry := range codes {
		if entry.code == c {
			return entry.cause.Error()
		}
	}
	return ""
}
