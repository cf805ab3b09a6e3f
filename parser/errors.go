package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/calcvm/calc/internal/token"
)

// ErrorOpts is a struct that holds a variety of error data.
// All fields are optional, although one of `Cause` or `Message`
// are recommended. If `Cause` is set, `Message` will be ignored.
type ErrorOpts struct {
	ErrType       string
	Message       string
	Cause         error
	StartPosition token.Position
	EndPosition   token.Position
	SourceCode    string
}

// NewParserError returns a new BaseParserError populated with
// the given error data.
func NewParserError(opts ErrorOpts) *BaseParserError {
	return &BaseParserError{
		errType:       opts.ErrType,
		message:       opts.Message,
		cause:         opts.Cause,
		startPosition: opts.StartPosition,
		endPosition:   opts.EndPosition,
		sourceCode:    opts.SourceCode,
	}
}

// ParserError is an interface that all parser errors implement.
type ParserError interface {
	Type() string
	Message() string
	Cause() error
	StartPosition() token.Position
	EndPosition() token.Position
	SourceCode() string
	Error() string
	FriendlyErrorMessage() string
}

// BaseParserError is the simplest implementation of ParserError.
type BaseParserError struct {
	// Type of the error, e.g. "syntax error"
	errType string
	// The error message
	message string
	// The wrapped error
	cause error
	// Start position of the error in the input string
	startPosition token.Position
	// End position of the error in the input string
	endPosition token.Position
	// Relevant line of source code text
	sourceCode string
}

func (e *BaseParserError) Error() string {
	msg := e.message
	if e.cause != nil {
		msg = e.cause.Error()
	}
	if e.errType != "" {
		msg = fmt.Sprintf("%s: %s", e.errType, msg)
	}
	return msg
}

// FriendlyErrorMessage returns the error with the offending source line and a
// caret under the failing column.
func (e *BaseParserError) FriendlyErrorMessage() string {
	var msg bytes.Buffer
	start := e.StartPosition()
	msg.WriteString(fmt.Sprintf("%s (%d:%d)\n", e.Error(), start.LineNumber(), start.ColumnNumber()))
	if e.sourceCode != "" {
		msg.WriteString(" | ")
		msg.WriteString(e.sourceCode)
		msg.WriteString("\n | ")
		msg.WriteString(strings.Repeat(" ", start.Column))
		width := e.endPosition.Column - start.Column
		if width < 1 || e.endPosition.Line != start.Line {
			width = 1
		}
		msg.WriteString(strings.Repeat("^", width))
		msg.WriteString("\n")
	}
	return msg.String()
}

func (e *BaseParserError) Cause() error {
	return e.cause
}

func (e *BaseParserError) Message() string {
	return e.message
}

func (e *BaseParserError) StartPosition() token.Position {
	return e.startPosition
}

func (e *BaseParserError) EndPosition() token.Position {
	return e.endPosition
}

func (e *BaseParserError) SourceCode() string {
	return e.sourceCode
}

func (e *BaseParserError) Unwrap() error {
	return e.cause
}

func (e *BaseParserError) Type() string {
	return e.errType
}

// NewSyntaxError returns a new SyntaxError populated with the given error data
func NewSyntaxError(opts ErrorOpts) *SyntaxError {
	opts.ErrType = "syntax error"
	return &SyntaxError{BaseParserError: NewParserError(opts)}
}

type SyntaxError struct {
	*BaseParserError
}

func tokenTypeDescription(t token.Type) string {
	switch t {
	case token.EOF:
		return "end of input"
	case token.INT:
		return "integer"
	default:
		return string(t)
	}
}

func tokenDescription(t token.Token) string {
	switch t.Type {
	case token.EOF:
		return "end of input"
	default:
		if t.Literal == "" {
			return string(t.Type)
		}
		return fmt.Sprintf("%q", t.Literal)
	}
}
