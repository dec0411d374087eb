package vm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chazu/sol25/compiler"
)

// ---------------------------------------------------------------------------
// Error taxonomy
// ---------------------------------------------------------------------------

// ErrorKind classifies a failure. Every kind maps to a fixed exit status.
type ErrorKind int

const (
	ErrInternal ErrorKind = iota
	ErrMissingEntryPoint
	ErrUndefinedVariable
	ErrMalformedInput
	ErrUnexpectedStructure
	ErrDoNotUnderstand
	ErrType
	ErrValue
)

var errorKindNames = map[ErrorKind]string{
	ErrInternal:            "internal error",
	ErrMissingEntryPoint:   "missing entry point",
	ErrUndefinedVariable:   "undefined variable",
	ErrMalformedInput:      "malformed input",
	ErrUnexpectedStructure: "unexpected structure",
	ErrDoNotUnderstand:     "does not understand",
	ErrType:                "type error",
	ErrValue:               "value error",
}

var errorKindCodes = map[ErrorKind]int{
	ErrInternal:            99,
	ErrMissingEntryPoint:   31,
	ErrUndefinedVariable:   32,
	ErrMalformedInput:      41,
	ErrUnexpectedStructure: 42,
	ErrDoNotUnderstand:     51,
	ErrType:                52,
	ErrValue:               53,
}

func (k ErrorKind) String() string {
	if s, ok := errorKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// ExitCode returns the process exit status for the kind.
func (k ErrorKind) ExitCode() int {
	if c, ok := errorKindCodes[k]; ok {
		return c
	}
	return errorKindCodes[ErrInternal]
}

// Error is a terminal evaluation failure.
type Error struct {
	Kind    ErrorKind
	Message string
	Frames  []string // innermost first
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	for _, f := range e.Frames {
		b.WriteString("\n  in ")
		b.WriteString(f)
	}
	return b.String()
}

// Errorf creates an Error of the given kind.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf classifies any error. Load failures from the compiler package map to
// the malformed/unexpected kinds; unknown errors are internal.
func KindOf(err error) ErrorKind {
	var e *Error
	switch {
	case errors.As(err, &e):
		return e.Kind
	case errors.Is(err, compiler.ErrMalformed):
		return ErrMalformedInput
	case errors.Is(err, compiler.ErrUnexpected):
		return ErrUnexpectedStructure
	default:
		return ErrInternal
	}
}

// ExitCode returns the process exit status for err; 0 when err is nil.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return KindOf(err).ExitCode()
}
