/*
Package scanner defines an interface for scanners to be used with parsers of package lr.

Two default scanner implementations are provided: (1) a thin wrapper over the Go std lib
'text/scanner', and (2) an adapter for lexmachine, living in sub-package `lexmach`.
For tests and for pre-tokenized input, FromTokens wraps a slice of tokens.

Tokens carry the name of a terminal symbol of a grammar. Scanners signal the end
of input with a token for symbol "$", repeated for every further call.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package scanner

import (
	"fmt"
	"io"
	"text/scanner"

	"github.com/npillmayer/parsegen"
	"github.com/npillmayer/parsegen/lr"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'parsegen.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("parsegen.scanner")
}

// Terminal symbol names produced by the Go tokenizer for token categories.
// Operators and other single characters are reported with their lexeme as
// the symbol, e.g. "+".
const (
	EOF     = lr.EOFName
	Ident   = "ident"
	Int     = "int"
	Float   = "float"
	Char    = "char"
	String  = "string"
	Comment = "comment"
)

// Tokenizer is a scanner interface.
type Tokenizer interface {
	NextToken() parsegen.Token
	SetErrorHandler(func(error))
}

// DefaultTokenizer is a default implementation, backed by scanner.Scanner.
// Create one with GoTokenizer.
type DefaultTokenizer struct {
	scanner.Scanner
	lastToken    rune            // last token this scanner has produced
	errorHandler func(error)     // error handler
	unifyStrings bool            // convert single chars to strings
	literals     map[string]bool // identifiers reported with their lexeme as symbol
}

var _ Tokenizer = (*DefaultTokenizer)(nil)

// Default error reporting function for scanners
func logError(e error) {
	tracer().Errorf("scanner error: " + e.Error())
}

// GoTokenizer creates a scanner/tokenizer accepting tokens similar to the Go language.
func GoTokenizer(sourceID string, input io.Reader, opts ...Option) *DefaultTokenizer {
	t := &DefaultTokenizer{
		errorHandler: logError,
		literals:     make(map[string]bool),
	}
	t.Init(input)
	t.Filename = sourceID
	t.Scanner.Error = func(s *scanner.Scanner, msg string) {
		t.errorHandler(fmt.Errorf("%s: %s", s.Pos(), msg))
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetErrorHandler sets an error handler for the scanner.
func (t *DefaultTokenizer) SetErrorHandler(h func(error)) {
	if h == nil {
		t.errorHandler = logError
		return
	}
	t.errorHandler = h
}

// NextToken is part of the Tokenizer interface.
func (t *DefaultTokenizer) NextToken() parsegen.Token {
	t.lastToken = t.Scan()
	if t.lastToken == scanner.EOF {
		tracer().Debugf("DefaultTokenizer reached end of input")
		pos := uint64(t.Pos().Offset)
		return MakeDefaultToken(EOF, "", t.Pos().Line, parsegen.Span{pos, pos})
	}
	if t.unifyStrings &&
		(t.lastToken == scanner.RawString || t.lastToken == scanner.Char) {
		t.lastToken = scanner.String
	}
	lexeme := t.TokenText()
	return DefaultToken{
		symbol: t.symbolFor(t.lastToken, lexeme),
		lexeme: lexeme,
		line:   t.Position.Line,
		span:   parsegen.Span{uint64(t.Position.Offset), uint64(t.Pos().Offset)},
	}
}

func (t *DefaultTokenizer) symbolFor(tok rune, lexeme string) string {
	switch tok {
	case scanner.Ident:
		if t.literals[lexeme] {
			return lexeme
		}
		return Ident
	case scanner.Int:
		return Int
	case scanner.Float:
		return Float
	case scanner.Char:
		return Char
	case scanner.String, scanner.RawString:
		return String
	case scanner.Comment:
		return Comment
	}
	return lexeme
}

// --- Default tokens --------------------------------------------------------

// DefaultToken is a very unsophisticated token type, used as default for the Go
// tokenizer as well as the LexMachine scanner.
type DefaultToken struct {
	symbol string
	lexeme string
	line   int
	Val    interface{}
	span   parsegen.Span
}

var _ parsegen.Token = DefaultToken{}

// MakeDefaultToken creates a token for a terminal symbol.
func MakeDefaultToken(symbol string, lexeme string, line int, span parsegen.Span) DefaultToken {
	return DefaultToken{
		symbol: symbol,
		lexeme: lexeme,
		line:   line,
		span:   span,
	}
}

// Symbol is part of interface parsegen.Token.
func (t DefaultToken) Symbol() string {
	return t.symbol
}

// Value returns a client value attached to the token.
func (t DefaultToken) Value() interface{} {
	return t.Val
}

// Lexeme is part of interface parsegen.Token.
func (t DefaultToken) Lexeme() string {
	return t.lexeme
}

// Line is part of interface parsegen.Token.
func (t DefaultToken) Line() int {
	return t.line
}

// Span is part of interface parsegen.Token.
func (t DefaultToken) Span() parsegen.Span {
	return t.span
}

func (t DefaultToken) String() string {
	return fmt.Sprintf("%s(%q)@%d", t.symbol, t.lexeme, t.line)
}

// --- Scanner options for the default (Go) tokenizer ---------------------------

// Option configures a default tokenier.
type Option func(p *DefaultTokenizer)

// SkipComments sets or clears mode-flag SkipComments. If cleared, comments
// are reported as tokens with symbol "comment".
func SkipComments(b bool) Option {
	return func(t *DefaultTokenizer) {
		if b {
			t.Mode |= scanner.SkipComments
		} else {
			t.Mode &^= scanner.SkipComments
		}
	}
}

// UnifyStrings sets or clears option UnifyStrings:
// treat raw strings and single chars as strings.
func UnifyStrings(b bool) Option {
	return func(t *DefaultTokenizer) {
		t.unifyStrings = b
	}
}

// Literals lists identifiers which should be reported with their lexeme as
// the token symbol, i.e. keywords of a grammar.
func Literals(names ...string) Option {
	return func(t *DefaultTokenizer) {
		for _, name := range names {
			t.literals[name] = true
		}
	}
}

// --- Pre-tokenized input ---------------------------------------------------

// SliceTokenizer delivers tokens from a slice. Create one with FromTokens.
type SliceTokenizer struct {
	tokens []parsegen.Token
	pos    int
}

var _ Tokenizer = (*SliceTokenizer)(nil)

// FromTokens creates a tokenizer for a sequence of tokens. If the sequence is
// not terminated by an end-of-input token, one is appended.
func FromTokens(tokens ...parsegen.Token) *SliceTokenizer {
	return &SliceTokenizer{tokens: tokens}
}

// NextToken is part of the Tokenizer interface.
func (st *SliceTokenizer) NextToken() parsegen.Token {
	if st.pos < len(st.tokens) {
		tok := st.tokens[st.pos]
		st.pos++
		return tok
	}
	line := 0
	var pos uint64
	if n := len(st.tokens); n > 0 {
		line = st.tokens[n-1].Line()
		pos = st.tokens[n-1].Span().To()
	}
	return MakeDefaultToken(EOF, "", line, parsegen.Span{pos, pos})
}

// SetErrorHandler is part of the Tokenizer interface. Pre-tokenized input
// produces no errors.
func (st *SliceTokenizer) SetErrorHandler(func(error)) {}
