package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
//
// The syntax errors all match [ErrSyntax] with [errors.Is], so callers can
// test for the category or for the specific failure.
var (
	ErrSyntax          = NewError("syntax error")
	ErrUnknownVariable = NewError("unknown variable")
	ErrReadFile        = NewError("failed to read file")
	ErrWriteOutput     = NewError("failed to write output")

	ErrUnrecognizedLinePrefix = newKind(ErrSyntax, "unrecognized line prefix")
	ErrUnknownCommand         = newKind(ErrSyntax, "unknown command")
	ErrMalformedCommand       = newKind(ErrSyntax, "malformed command")
	ErrUnterminatedString     = newKind(ErrSyntax, "unterminated string")
	ErrEmptyIdentifier        = newKind(ErrSyntax, "empty identifier")
	ErrTrailingInput          = newKind(ErrSyntax, "unexpected trailing input")
	ErrInvalidEscape          = newKind(ErrSyntax, "invalid escape sequence")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg    string
	kind   *Error      // sentinel this error was derived from
	parent *Error      // broader category (sentinels only)
	err    error       // Wrapped error (for errors.Unwrap)
	pos    *Position   // Source position, if known
	attrs  []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// newKind creates a sentinel that also matches parent with [errors.Is].
func newKind(parent *Error, msg string) *Error {
	return &Error{msg: msg, parent: parent}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	var ee *Error
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
// A known position is prepended as "line L, column C: ".
func (e *Error) Error() string {
	s := e.Message()

	if e.pos != nil {
		s = "line " + strconv.Itoa(e.pos.Line) +
			", column " + strconv.Itoa(e.pos.Column) + ": " + s
	}

	return s
}

// Message returns the error text without the source position.
func (e *Error) Message() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether e was derived from target or from one of the
// categories target belongs to.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	for k := e.sentinel(); k != nil; k = k.parent {
		if k == t {
			return true
		}
	}

	return false
}

// Position returns the source position attached to e, if any.
func (e *Error) Position() (Position, bool) {
	if e.pos == nil {
		return Position{}, false
	}

	return *e.pos, true
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+4)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	if e.pos != nil {
		attrs = append(attrs,
			slog.Int("line", e.pos.Line),
			slog.Int("column", e.pos.Column),
		)
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := e.derive()
	c.err = err

	return c
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := e.derive()
	c.attrs = make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(c.attrs, e.attrs)
	copy(c.attrs[len(e.attrs):], attrs)

	return c
}

// WithPosition returns a copy of e located at pos.
func (e *Error) WithPosition(pos Position) *Error {
	c := e.derive()
	c.pos = &pos

	return c
}

func (e *Error) sentinel() *Error {
	if e.kind != nil {
		return e.kind
	}

	return e
}

// derive copies e, remembering the sentinel it came from.
func (e *Error) derive() *Error {
	return &Error{
		msg:   e.msg,
		kind:  e.sentinel(),
		err:   e.err,
		pos:   e.pos,
		attrs: e.attrs, // Share attrs
	}
}
