/*
Package slr provides an SLR(1)-parser. Clients have to use the tools
of package lr to prepare the necessary parse table. The SLR parser
utilizes this table to create a parse tree for a given input,
provided through a scanner interface.

This parser is intended for small to moderate grammars, e.g. for configuration
input or small domain-specific languages. It is *not* intended for full-fledged
programming languages (there are superb other tools around for these kinds of
usages, usually creating LALR(1)-parsers, which are able to recognize a super-set
of SLR-languages).

The main focus for this implementation is adaptability and on-the-fly usage.
Clients are able to construct the parse table from a grammar and use the
parser directly, without a code-generation or compile step. If you want, you
can create a grammar from user input and use a parser for it in a couple of
lines of code.

Usage

Clients construct a grammar, usually by using a grammar builder:

	b := lr.NewGrammarBuilder("Signed Variables Grammar")
	b.LHS("__FINAL__").N("Var").End()        // __FINAL__ --> Var
	b.LHS("Var").N("Sign").T("ident").End()  // Var  --> Sign Id
	b.LHS("Sign").T("+").End()               // Sign --> +
	b.LHS("Sign").T("-").End()               // Sign --> -
	g, err := b.Grammar()

This grammar is subjected to grammar analysis and table generation.

	ga := lr.Analysis(g)
	lrgen := lr.NewTableGenerator(ga)
	if err := lrgen.CreateTables(); err != nil { ... }  // cannot use an SLR parser

Finally parse some input:

	p := slr.NewParser(lrgen.Table())
	scan := scanner.GoTokenizer("input", strings.NewReader("+a"))
	root, err := p.Parse(scan)

Parsing Strategy

The parser holds symbols (tokens and tree nodes) on its stack, each followed
by the number of the state the parser was in before the symbol has been
pushed. If the topmost symbol is a non-terminal and the table has an action
for it in the current state, this action is preferred over the action for
the lookahead token. This lets a freshly reduced non-terminal immediately
trigger its goto-action.

Error Recovery

If the table has no action for the current state and lookahead, the parser
reports a syntax error and switches into recovery mode. While recovering, it
discards symbols from the stack, one at a time, until an action for the
lookahead can be found. The lookahead itself is never skipped. Reductions
during recovery tolerate stack symbols which do not match the rule; the
resulting tree node will contain the matching symbols only. The next
successful shift or reduce ends recovery.

If the stack runs empty during recovery, the parse fails. Otherwise the parser
returns the parse tree together with a *ParseError listing the syntax errors
encountered.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package slr

import (
	"errors"
	"fmt"

	"github.com/npillmayer/parsegen"
	"github.com/npillmayer/parsegen/lr"
	"github.com/npillmayer/parsegen/lr/scanner"
	"github.com/npillmayer/parsegen/lr/tree"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'parsegen.lr'.
func tracer() tracing.Trace {
	return tracing.Select("parsegen.lr")
}

// DefaultMaxErrors is the default number of syntax errors after which a parse
// is aborted.
const DefaultMaxErrors = 25

// Parser is an SLR(1)-parser type. Create and initialize one with slr.NewParser(...).
// A parser may be used for more than one parse, but not concurrently.
type Parser struct {
	G            *lr.Grammar
	table        *lr.Table
	stack        []stackitem // parser stack
	errorHandler func(error)
	onAction     func(int, lr.Action)
	maxErrors    int
	abortOnError bool
}

// Option configures a parser.
type Option func(*Parser)

// ErrorHandler sets a handler which is called for every syntax error reported.
// The default handler writes errors to the tracer.
func ErrorHandler(h func(error)) Option {
	return func(p *Parser) {
		p.errorHandler = h
	}
}

// OnAction sets a listener which is called for every parser step, with the
// current state and the action to perform.
func OnAction(f func(state int, a lr.Action)) Option {
	return func(p *Parser) {
		p.onAction = f
	}
}

// MaxErrors sets the number of syntax errors after which the parser gives
// up. n ≤ 0 sets the default.
func MaxErrors(n int) Option {
	return func(p *Parser) {
		if n <= 0 {
			n = DefaultMaxErrors
		}
		p.maxErrors = n
	}
}

// AbortOnError switches off error recovery: the first syntax error is fatal.
func AbortOnError(b bool) Option {
	return func(p *Parser) {
		p.abortOnError = b
	}
}

// We store tree elements and state IDs on the parse stack.
// An entry with elem == nil is a state marker.
type stackitem struct {
	elem  tree.Element
	state int
}

func (si stackitem) isState() bool {
	return si.elem == nil
}

// NewParser creates an SLR(1) parser for a parser table.
func NewParser(table *lr.Table, opts ...Option) *Parser {
	parser := &Parser{
		table:        table,
		stack:        make([]stackitem, 0, 512),
		errorHandler: logError,
		maxErrors:    DefaultMaxErrors,
	}
	if table != nil {
		parser.G = table.Grammar()
	}
	for _, opt := range opts {
		opt(parser)
	}
	if parser.errorHandler == nil {
		parser.errorHandler = logError
	}
	return parser
}

func logError(err error) {
	tracer().Errorf("%v", err)
}

// Parse parses the input delivered by a scanner and returns the parse tree.
// The root of the tree is a node for the top-level non-terminal of the grammar.
//
// If syntax errors occured, but the parser was able to recover, the tree is
// returned together with a *ParseError. If the parser was not able to recover,
// the tree is nil and the *ParseError is flagged as fatal. Other errors
// (unknown token symbols, inconsistent stack) are fatal as well.
func (p *Parser) Parse(scan scanner.Tokenizer) (*tree.Node, error) {
	tracer().Debugf("~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~")
	if p.G == nil || p.table == nil {
		tracer().Errorf("SLR(1)-parser not initialized")
		return nil, errors.New("SLR(1)-parser not initialized")
	}
	p.stack = p.stack[:0]
	var perr *ParseError
	state := 0
	recovering := false
	token, A, err := p.next(scan)
	if err != nil {
		return nil, err
	}
	for {
		tracer().Debugf("state %d, lookahead %v", state, A)
		var action lr.Action
		if top := p.topElement(); top != nil && !top.Symbol().IsTerminal() {
			action = p.table.Action(state, top.Symbol())
		}
		if action.IsNone() {
			action = p.table.Action(state, A)
		}
		tracer().Debugf("action(%d) = %v", state, action)
		if p.onAction != nil {
			p.onAction(state, action)
		}
		switch action.Kind {
		case lr.ShiftAction:
			recovering = false
			p.push(tree.NewLeaf(token, A), state)
			state = action.State
			if token, A, err = p.next(scan); err != nil {
				return nil, err
			}
		case lr.GotoAction:
			p.stack = append(p.stack, stackitem{state: state})
			state = action.State
		case lr.ReduceAction:
			node, uncovered, err := p.reduce(action.Rule, state, recovering)
			if err != nil {
				return nil, err
			}
			recovering = false
			p.stack = append(p.stack, stackitem{elem: node})
			state = uncovered
		case lr.DoneAction:
			return p.accept(perr)
		default: // no action: syntax error
			if !recovering {
				perr = p.report(perr, &SyntaxError{Token: token, State: state})
				if perr.Fatal {
					return nil, perr
				}
				recovering = true
			}
			if p.topElement() == nil {
				tracer().Errorf("unrecoverable syntax error at %q, line %d", token.Lexeme(), token.Line())
				perr.Fatal = true
				return nil, perr
			}
			state = p.discard(state)
		}
	}
}

// next reads the next token from the scanner and finds its grammar symbol.
func (p *Parser) next(scan scanner.Tokenizer) (parsegen.Token, *lr.Symbol, error) {
	token := scan.NextToken()
	A := p.G.SymbolByName(token.Symbol())
	if A == nil || !A.IsTerminal() {
		tracer().Errorf("token %q for unknown terminal %q", token.Lexeme(), token.Symbol())
		return token, nil, &lr.UnknownSymbolError{Name: token.Symbol()}
	}
	tracer().Debugf("got token %q/%v from scanner", token.Lexeme(), A)
	return token, A, nil
}

func (p *Parser) push(e tree.Element, state int) {
	p.stack = append(p.stack, stackitem{elem: e}, stackitem{state: state})
}

// topElement returns the topmost tree element on the stack, skipping state
// markers.
func (p *Parser) topElement() tree.Element {
	for i := len(p.stack) - 1; i >= 0; i-- {
		if !p.stack[i].isState() {
			return p.stack[i].elem
		}
	}
	return nil
}

// popStates pops state markers from the top of the stack. It returns the
// lowest state uncovered, or state if no marker has been popped.
func (p *Parser) popStates(state int) int {
	for len(p.stack) > 0 && p.stack[len(p.stack)-1].isState() {
		state = p.stack[len(p.stack)-1].state
		p.stack = p.stack[:len(p.stack)-1]
	}
	return state
}

// reduce performs a reduce action for a rule
//
//    LHS --> X1 ... Xn   (with X being terminals or non-terminals)
//
// Symbols X1 to Xn should be represented on the stack as
//
//    [TOS]  Sn Xn ... S1 X1  ...
//
// The lowest state marker popped will be the next state. While recovering,
// symbols not found on the stack are skipped, and the node will be
// created for a rule derived from the symbols actually found.
func (p *Parser) reduce(rule *lr.Rule, state int, recovering bool) (*tree.Node, int, error) {
	tracer().Infof("reduce %v", rule)
	rhs := rule.RHS()
	children := make([]tree.Element, 0, len(rhs))
	uncovered := state
	for i := len(rhs) - 1; i >= 0; i-- {
		uncovered = p.popStates(uncovered)
		if len(p.stack) == 0 || p.stack[len(p.stack)-1].elem.Symbol().Name != rhs[i].Name {
			if recovering {
				tracer().Debugf("skipping %v of %v during recovery", rhs[i], rule)
				continue
			}
			var found *lr.Symbol
			if len(p.stack) > 0 {
				found = p.stack[len(p.stack)-1].elem.Symbol()
			}
			return nil, state, &StackCorruptionError{Rule: rule, Expected: rhs[i], Found: found}
		}
		children = append(children, p.stack[len(p.stack)-1].elem)
		p.stack = p.stack[:len(p.stack)-1]
	}
	reverse(children)
	if len(children) != len(rhs) {
		syms := make([]*lr.Symbol, len(children))
		for i, ch := range children {
			syms[i] = ch.Symbol()
		}
		rule = lr.NewRule(rule.LHS, syms...)
		tracer().Debugf("recovery derived rule %v", rule)
	}
	node, err := tree.NewNode(rule, children...)
	if err != nil {
		return nil, state, fmt.Errorf("cannot reduce %v: %w", rule, err)
	}
	return node, uncovered, nil
}

// discard drops the topmost symbol from the stack, together with the state
// markers above it. It returns the state uncovered.
func (p *Parser) discard(state int) int {
	state = p.popStates(state)
	if len(p.stack) > 0 {
		tracer().Debugf("recovery discards %v", p.stack[len(p.stack)-1].elem.Symbol())
		p.stack = p.stack[:len(p.stack)-1]
	}
	return state
}

// report records a syntax error and calls the error handler.
func (p *Parser) report(perr *ParseError, serr *SyntaxError) *ParseError {
	if perr == nil {
		perr = &ParseError{}
	}
	perr.Errors = append(perr.Errors, serr)
	p.errorHandler(serr)
	if p.abortOnError || len(perr.Errors) >= p.maxErrors {
		tracer().Errorf("giving up after %d syntax error(s)", len(perr.Errors))
		perr.Fatal = true
		perr.tooMany = !p.abortOnError
	}
	return perr
}

func (p *Parser) accept(perr *ParseError) (*tree.Node, error) {
	var root *tree.Node
	for _, si := range p.stack {
		if !si.isState() {
			root, _ = si.elem.(*tree.Node)
			break
		}
	}
	if root == nil {
		if perr != nil { // recovery emptied the stack
			perr.Fatal = true
			return nil, perr
		}
		return nil, errors.New("parser accepted without parse tree")
	}
	if perr != nil {
		tracer().Infof("parser recovered from %d syntax error(s)", len(perr.Errors))
		return root, perr
	}
	return root, nil
}

// --- Helpers ----------------------------------------------------------

func reverse(elems []tree.Element) {
	for i, j := 0, len(elems)-1; i < j; i, j = i+1, j-1 {
		elems[i], elems[j] = elems[j], elems[i]
	}
}
