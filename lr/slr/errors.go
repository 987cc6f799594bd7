package slr

import (
	"errors"
	"fmt"

	"github.com/npillmayer/parsegen"
	"github.com/npillmayer/parsegen/lr"
	"github.com/npillmayer/parsegen/lr/scanner"
)

// ErrUnrecoverable is wrapped by a fatal *ParseError.
var ErrUnrecoverable = errors.New("unrecoverable syntax error")

// ErrTooManyErrors is wrapped by a *ParseError if the parser gave up because
// of the number of syntax errors.
var ErrTooManyErrors = errors.New("too many syntax errors")

// SyntaxError is reported for an input token for which the parser table has
// no action.
type SyntaxError struct {
	Token parsegen.Token // offending token
	State int            // parser state
}

func (e *SyntaxError) Error() string {
	if e.Token.Symbol() == scanner.EOF {
		return fmt.Sprintf("unexpected end of input on line %d", e.Token.Line())
	}
	return fmt.Sprintf("unexpected '%s' on line %d", e.Token.Lexeme(), e.Token.Line())
}

// ParseError collects the syntax errors of a parse. If Fatal is set, the
// parser could not recover and did not produce a parse tree.
type ParseError struct {
	Errors  []*SyntaxError
	Fatal   bool
	tooMany bool
}

func (e *ParseError) Error() string {
	var msg string
	switch len(e.Errors) {
	case 0:
		msg = "syntax error"
	case 1:
		msg = e.Errors[0].Error()
	default:
		msg = fmt.Sprintf("%s (and %d more syntax errors)", e.Errors[0].Error(), len(e.Errors)-1)
	}
	if e.Fatal {
		return msg + ": " + ErrUnrecoverable.Error()
	}
	return msg
}

// Unwrap returns the syntax errors, plus ErrUnrecoverable if the error is fatal.
func (e *ParseError) Unwrap() []error {
	errs := make([]error, 0, len(e.Errors)+2)
	for _, serr := range e.Errors {
		errs = append(errs, serr)
	}
	if e.Fatal {
		errs = append(errs, ErrUnrecoverable)
	}
	if e.tooMany {
		errs = append(errs, ErrTooManyErrors)
	}
	return errs
}

// StackCorruptionError is returned if a reduce action does not find the
// symbols of the rule on the parser stack. This indicates an inconsistency
// between parser table and parser and should not happen.
type StackCorruptionError struct {
	Rule     *lr.Rule
	Expected *lr.Symbol
	Found    *lr.Symbol // nil for empty stack
}

func (e *StackCorruptionError) Error() string {
	return fmt.Sprintf("parser stack corrupted: cannot reduce %v, expected %v on stack, found %v",
		e.Rule, e.Expected, e.Found)
}
