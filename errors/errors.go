// Package errors provides the structured error taxonomy used across the
// lexer, parser, loader and dumper: a single Kind enum plus one carrier
// type with fluent With* setters, so every layer reports failures the
// same way instead of returning bare fmt.Errorf strings.
package errors

import (
	"fmt"
	"strings"
)

// Kind identifies which layer raised an error and why, matching the
// taxonomy named in the specification's error-handling section.
type Kind int

const (
	// LexError is raised by the lexer: unterminated quotes/heredocs,
	// tags, comments or arrays, a malformed heredoc marker, or an
	// unexpected character. Tag names are not checked for illegal
	// characters.
	LexError Kind = iota
	// ParseError is raised by the parser when the token stream does not
	// match the grammar.
	ParseError
	// IncludeIOError is raised by the Reader when an include target
	// cannot be opened.
	IncludeIOError
	// IncludeError is raised by the loader when include expansion fails
	// for a reason other than a missing file (bad glob, cycle, etc).
	IncludeError
	// DuplicateKeyError is raised by the loader's collection policy when
	// a duplicate option key is disallowed by the active Options.
	DuplicateKeyError
	// UndefinedVariableError is raised during interpolation when
	// strictvars is set and a referenced variable has no value.
	UndefinedVariableError
	// OptionsError is raised when an Options combination is invalid.
	OptionsError
)

// String renders the Kind the way it appears in error messages.
func (k Kind) String() string {
	switch k {
	case LexError:
		return "lex error"
	case ParseError:
		return "parse error"
	case IncludeIOError:
		return "include io error"
	case IncludeError:
		return "include error"
	case DuplicateKeyError:
		return "duplicate key"
	case UndefinedVariableError:
		return "undefined variable"
	case OptionsError:
		return "options error"
	default:
		return "error"
	}
}

// Error is a structured failure carrying enough context (source, line,
// column, the offending directive) to produce an actionable message and
// to be matched on by callers via errors.As.
type Error struct {
	Kind       Kind
	Message    string
	Source     string
	Line       int
	Column     int
	Directive  string
	Context    string
	InnerError error
}

// New creates an Error of the given Kind with a message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("[%s] %s", e.Kind, e.Message))

	switch {
	case e.Source != "" && e.Line > 0 && e.Column > 0:
		parts = append(parts, fmt.Sprintf("at %s:%d:%d", e.Source, e.Line, e.Column))
	case e.Source != "" && e.Line > 0:
		parts = append(parts, fmt.Sprintf("at %s:%d", e.Source, e.Line))
	case e.Source != "":
		parts = append(parts, fmt.Sprintf("in %s", e.Source))
	}

	if e.Directive != "" {
		parts = append(parts, fmt.Sprintf("in directive %q", e.Directive))
	}
	if e.Context != "" {
		parts = append(parts, "\n"+e.Context)
	}
	if e.InnerError != nil {
		parts = append(parts, fmt.Sprintf("\ncaused by: %s", e.InnerError.Error()))
	}

	return strings.Join(parts, " ")
}

// Unwrap exposes the wrapped error for errors.As/errors.Is.
func (e *Error) Unwrap() error {
	return e.InnerError
}

// WithSource sets the canonical source identifier (file path or "<string>").
func (e *Error) WithSource(source string) *Error {
	e.Source = source
	return e
}

// WithLine sets the 1-based source line.
func (e *Error) WithLine(line int) *Error {
	e.Line = line
	return e
}

// WithColumn sets the 1-based source column.
func (e *Error) WithColumn(column int) *Error {
	e.Column = column
	return e
}

// WithDirective records the option/block name being processed when the
// error occurred.
func (e *Error) WithDirective(directive string) *Error {
	e.Directive = directive
	return e
}

// WithContext attaches a pre-rendered source snippet (see context.go).
func (e *Error) WithContext(context string) *Error {
	e.Context = context
	return e
}

// WithInnerError wraps an underlying error (e.g. os.Open's result).
func (e *Error) WithInnerError(err error) *Error {
	e.InnerError = err
	return e
}

// Collection accumulates multiple errors, used by callers that want to
// report every problem in one pass instead of stopping at the first.
type Collection struct {
	Errors []*Error
}

// NewCollection creates an empty Collection.
func NewCollection() *Collection {
	return &Collection{}
}

// Add appends an error to the collection.
func (c *Collection) Add(err *Error) {
	c.Errors = append(c.Errors, err)
}

// HasErrors reports whether any error has been added.
func (c *Collection) HasErrors() bool {
	return len(c.Errors) > 0
}

// Error implements the error interface, rendering every collected error.
func (c *Collection) Error() string {
	if len(c.Errors) == 0 {
		return "no errors"
	}
	if len(c.Errors) == 1 {
		return c.Errors[0].Error()
	}
	parts := []string{fmt.Sprintf("%d errors:", len(c.Errors))}
	for i, err := range c.Errors {
		parts = append(parts, fmt.Sprintf("%d. %s", i+1, err.Error()))
	}
	return strings.Join(parts, "\n")
}
