package errz

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/calcvm/calc/op"
)

// ErrorKind represents the category of an error.
type ErrorKind int

const (
	// ErrArithmetic indicates a division by zero or an int64 overflow.
	ErrArithmetic ErrorKind = iota
	// ErrInvariant indicates malformed bytecode: a slot or pool index out of
	// range, an unbalanced stack, or an unknown opcode.
	ErrInvariant
	// ErrCompile indicates an expression that cannot be encoded.
	ErrCompile
	// ErrRuntime indicates a general execution failure.
	ErrRuntime
)

// String returns the string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrArithmetic:
		return "arithmetic error"
	case ErrInvariant:
		return "internal invariant error"
	case ErrCompile:
		return "compile error"
	case ErrRuntime:
		return "runtime error"
	default:
		return "error"
	}
}

// Location identifies the instruction that raised an error.
type Location struct {
	IP     int
	Opcode op.Code
	set    bool
}

// At returns the location of the instruction at ip.
func At(ip int, opcode op.Code) Location {
	return Location{IP: ip, Opcode: opcode, set: true}
}

// IsZero reports whether the location is unset.
func (l Location) IsZero() bool {
	return !l.set
}

func (l Location) String() string {
	if l.IsZero() {
		return ""
	}
	name := op.GetInfo(l.Opcode).Name
	if name == "" {
		name = fmt.Sprintf("op(%d)", l.Opcode)
	}
	return fmt.Sprintf("ip %d, %s", l.IP, name)
}

// StructuredError is the error type returned by the compilers and virtual
// machines. The Cause is one of the sentinel errors in this package and can
// be tested with errors.Is.
type StructuredError struct {
	Message  string
	Kind     ErrorKind
	Location Location
	Cause    error
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Location.IsZero() {
		return fmt.Sprintf("%s: %s", e.Kind.String(), e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Kind.String(), e.Message, e.Location)
}

// Unwrap returns the underlying cause of the error.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// Code returns the error code of the cause, or an empty code if the cause
// is not a known sentinel.
func (e *StructuredError) Code() ErrorCode {
	return CodeOf(e.Cause)
}

// FriendlyErrorMessage returns a human-friendly error message including the
// error code and the failing instruction.
func (e *StructuredError) FriendlyErrorMessage() string {
	var msg bytes.Buffer
	if code := e.Code(); code != "" {
		msg.WriteString(fmt.Sprintf("%s[%s]: %s\n", e.Kind.String(), code, e.Message))
	} else {
		msg.WriteString(fmt.Sprintf("%s: %s\n", e.Kind.String(), e.Message))
	}
	if !e.Location.IsZero() {
		msg.WriteString(" --> ")
		msg.WriteString(e.Location.String())
		msg.WriteString("\n")
	}
	return msg.String()
}

// NewStructuredErrorf creates a new StructuredError with a formatted message.
func NewStructuredErrorf(kind ErrorKind, loc Location, format string, args ...any) *StructuredError {
	return &StructuredError{
		Message:  fmt.Sprintf(format, args...),
		Kind:     kind,
		Location: loc,
	}
}

// WithCause wraps the error with a cause.
func (e *StructuredError) WithCause(cause error) *StructuredError {
	e.Cause = cause
	return e
}

// NewArithmeticError returns an arithmetic error whose message is the cause.
func NewArithmeticError(loc Location, cause error) *StructuredError {
	return NewStructuredErrorf(ErrArithmetic, loc, "%s", cause).WithCause(cause)
}

// NewInvariantError returns an internal invariant error. The detail, if any,
// is appended to the cause in the message.
func NewInvariantError(loc Location, cause error, format string, args ...any) *StructuredError {
	if format == "" {
		return NewStructuredErrorf(ErrInvariant, loc, "%s", cause).WithCause(cause)
	}
	detail := fmt.Sprintf(format, args...)
	return NewStructuredErrorf(ErrInvariant, loc, "%s: %s", cause, detail).WithCause(cause)
}

// NewCompileError returns a compile error whose message is the cause.
func NewCompileError(cause error) *StructuredError {
	return NewStructuredErrorf(ErrCompile, Location{}, "%s", cause).WithCause(cause)
}

// KindOf returns the kind of the first StructuredError in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var serr *StructuredError
	if errors.As(err, &serr) {
		return serr.Kind, true
	}
	return 0, false
}

// IsArithmetic reports whether err is an arithmetic error.
func IsArithmetic(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == ErrArithmetic
}

// IsInvariant reports whether err is an internal invariant error.
func IsInvariant(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == ErrInvariant
}
