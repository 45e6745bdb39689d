package diagnostics

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ddfreyne/clarke/internal/config"
	"github.com/ddfreyne/clarke/internal/token"
	"github.com/mattn/go-isatty"
)

type ErrorCode string

const (
	SyntaxError          ErrorCode = "SyntaxError"
	NameError            ErrorCode = "NameError"
	DoubleNameError      ErrorCode = "DoubleNameError"
	TypeError            ErrorCode = "TypeError"
	BinOpTypeMismatch    ErrorCode = "BinOpTypeMismatch"
	IfTypeMismatch       ErrorCode = "IfTypeMismatch"
	ArgumentTypeMismatch ErrorCode = "ArgumentTypeMismatch"
	ArgumentCountError   ErrorCode = "ArgumentCountError"
	NotCallable          ErrorCode = "NotCallable"
	NotGettable          ErrorCode = "NotGettable"
	UntypedError         ErrorCode = "UntypedError"
	ArithmeticError      ErrorCode = "ArithmeticError"
	RecursionError       ErrorCode = "RecursionError"

	// RuntimeError covers failures that are not the program's fault, such
	// as cancellation or a broken output stream.
	RuntimeError ErrorCode = "RuntimeError"
)

// Messages shared by the static checker and the evaluator.
const (
	MsgNotCallable = "Can only call functions and classes; this thing is neither"
	MsgNotGettable = "Can only get properties from instances; this thing isn’t one"
	MsgNotSettable = "Can only set properties on instances; this thing isn’t one"
)

// Error is a user-facing failure tied to a region of source text.
type Error struct {
	Code    ErrorCode
	Span    token.Span
	Message string
	File    string
}

func NewError(code ErrorCode, span token.Span, format string, args ...interface{}) *Error {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &Error{Code: code, Span: span, Message: msg}
}

func (e *Error) Error() string {
	if e.Span.IsZero() {
		return e.Message
	}
	if e.File != "" {
		return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Span.Start.Line, e.Span.Start.Column, e.Message)
	}
	return fmt.Sprintf("line %d: %s", e.Span.Start.Line, e.Message)
}

// Coded is implemented by errors that know their diagnostic code. The
// symbol table's errors satisfy it, so they can be wrapped without the
// symbols package depending on this one.
type Coded interface {
	error
	Code() string
}

// Wrap attaches span to err. Errors that are already diagnostics keep their
// own span when they have one.
func Wrap(err error, span token.Span) *Error {
	if err == nil {
		return nil
	}
	var d *Error
	if errors.As(err, &d) {
		if d.Span.IsZero() {
			d.Span = span
		}
		return d
	}
	var c Coded
	if errors.As(err, &c) {
		return &Error{Code: ErrorCode(c.Code()), Span: span, Message: c.Error()}
	}
	panic(fmt.Sprintf("internal error: cannot wrap %T: %v", err, err))
}

// CodeOf returns the diagnostic code of err, or "" if it has none.
func CodeOf(err error) ErrorCode {
	var d *Error
	if errors.As(err, &d) {
		return d.Code
	}
	var c Coded
	if errors.As(err, &c) {
		return ErrorCode(c.Code())
	}
	return ""
}

const (
	colorRed   = "\033[31m"
	colorReset = "\033[0m"
)

// Render formats the error as "line N: message", an empty line, the
// offending source line and a run of tildes under the offending columns.
func (e *Error) Render(source string, color bool) string {
	var sb strings.Builder
	if e.Span.IsZero() {
		sb.WriteString(e.Message)
		return sb.String()
	}
	fmt.Fprintf(&sb, "line %d: %s\n", e.Span.Start.Line, e.Message)

	lines := strings.Split(source, "\n")
	idx := e.Span.Start.Line - 1
	if idx < 0 || idx >= len(lines) {
		return strings.TrimSuffix(sb.String(), "\n")
	}
	line := strings.TrimRight(lines[idx], "\r")
	sb.WriteString("\n")
	sb.WriteString(line)
	sb.WriteString("\n")

	start := e.Span.Start.Column
	end := start + 1
	if e.Span.End.Line == e.Span.Start.Line && e.Span.End.Column > start {
		end = e.Span.End.Column
	} else if e.Span.End.Line > e.Span.Start.Line {
		end = len([]rune(line)) + 1
	}
	if end <= start {
		end = start + 1
	}

	sb.WriteString(strings.Repeat(" ", start-1))
	if color {
		sb.WriteString(colorRed)
	}
	sb.WriteString(strings.Repeat("~", end-start))
	if color {
		sb.WriteString(colorReset)
	}
	return sb.String()
}

// ColorEnabled decides whether diagnostics written to f are colored.
func ColorEnabled(mode config.ColorMode, f *os.File) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
