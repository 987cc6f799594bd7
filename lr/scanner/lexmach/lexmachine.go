package lexmach

import (
	"strings"

	"github.com/npillmayer/parsegen"
	"github.com/npillmayer/parsegen/lr/scanner"
	"github.com/npillmayer/schuko/tracing"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// tracer traces with key 'parsegen.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("parsegen.scanner")
}

// Lexer holds a compiled lexmachine DFA. It hands out a Scanner per input.
type Lexer struct {
	dfa *lexmachine.Lexer
}

// New compiles a DFA from the patterns added by setup, followed by a pattern
// for each of literals and keywords. A literal ("(", ":=") is matched
// character by character, a keyword ("nil") in lower case. Both produce
// tokens named after themselves.
func New(setup func(*lexmachine.Lexer), literals []string, keywords []string) (*Lexer, error) {
	dfa := lexmachine.NewLexer()
	if setup != nil {
		setup(dfa)
	}
	for _, lit := range literals {
		dfa.Add(quoteLiteral(lit), MakeToken(lit))
	}
	for _, kw := range keywords {
		dfa.Add([]byte(strings.ToLower(kw)), MakeToken(kw))
	}
	if err := dfa.Compile(); err != nil {
		tracer().Errorf("lexmachine DFA does not compile: %v", err)
		return nil, err
	}
	return &Lexer{dfa: dfa}, nil
}

// quoteLiteral escapes every character of lit for lexmachine's regex syntax.
func quoteLiteral(lit string) []byte {
	var b strings.Builder
	for _, r := range lit {
		b.WriteByte('\\')
		b.WriteRune(r)
	}
	return []byte(b.String())
}

// Scan starts tokenizing input.
func (l *Lexer) Scan(input string) (*Scanner, error) {
	s, err := l.dfa.Scanner([]byte(input))
	if err != nil {
		return &Scanner{onError: logError}, err
	}
	return &Scanner{lms: s, onError: logError, end: uint64(len(input)), line: 1}, nil
}

// Scanner reads tokens from a single input.
type Scanner struct {
	lms     *lexmachine.Scanner
	onError func(error)
	end     uint64 // position of end of input
	line    int    // most recent line
}

var _ scanner.Tokenizer = (*Scanner)(nil)

// SetErrorHandler replaces the default handler, which logs errors. A nil
// handler restores the default.
func (s *Scanner) SetErrorHandler(h func(error)) {
	if h == nil {
		h = logError
	}
	s.onError = h
}

func logError(err error) {
	tracer().Errorf("scanner error: %v", err)
}

// NextToken returns the next token, or a $ token at end of input. Input
// which no pattern matches is reported and skipped.
func (s *Scanner) NextToken() parsegen.Token {
	for s.lms != nil {
		tok, err, eof := s.lms.Next()
		if eof {
			break
		}
		if err != nil {
			s.onError(err)
			if ui, ok := err.(*machines.UnconsumedInput); ok {
				s.lms.TC = ui.FailTC
			}
			continue
		}
		t := tok.(*lexmachine.Token)
		s.line = t.StartLine
		from := uint64(t.TC)
		tracer().Debugf("lexmachine token %v at %d", t.Value, from)
		return scanner.MakeDefaultToken(t.Value.(string), string(t.Lexeme), t.StartLine,
			parsegen.Span{from, from + uint64(len(t.Lexeme))})
	}
	return scanner.MakeDefaultToken(scanner.EOF, "", s.line, parsegen.Span{s.end, s.end})
}

// Skip is an action for patterns which produce no token, e.g. whitespace.
func Skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

// MakeToken returns an action producing a token for terminal symbol name.
func MakeToken(name string) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(0, name, m), nil
	}
}
