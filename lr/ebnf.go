package lr

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"unicode"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"
)

// ReadEBNF reads a grammar in EBNF notation, as described in package
// golang.org/x/exp/ebnf, with start as the top-level production.
//
// Productions with a capitalized name are converted to rules. Productions with
// a lower-case name are lexical, i.e. they are expected to be recognized by a
// scanner, and become terminals, as do literal tokens. Groups, options and
// repetitions are replaced by synthetic non-terminals:
//
//     Expr = Term { ("+" | "-") Term } .
//
// results in
//
//     Expr   ➞ Term Expr_1
//     Expr_1 ➞ Expr_1 Expr_2 Term
//     Expr_1 ➞
//     Expr_2 ➞ +
//     Expr_2 ➞ -
//
// A rule __FINAL__ ➞ start is added.
func ReadEBNF(gname string, filename string, r io.Reader, start string) (*Grammar, error) {
	grammar, err := ebnf.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("grammar %s: %w", gname, err)
	}
	if err = ebnf.Verify(grammar, start); err != nil {
		return nil, fmt.Errorf("grammar %s: %w", gname, err)
	}
	if isLexical(start) {
		return nil, fmt.Errorf("grammar %s: start production %q is lexical", gname, start)
	}
	conv := &ebnfConverter{
		b:       NewGrammarBuilder(gname),
		grammar: grammar,
		counter: make(map[string]int),
	}
	conv.b.LHS(FinalName).N(start).End()
	names := make([]string, 0, len(grammar))
	for name := range grammar {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if isLexical(name) {
			continue
		}
		prod := grammar[name]
		if err := conv.rules(name, name, prod.Expr, false); err != nil {
			return nil, fmt.Errorf("grammar %s: %w", gname, err)
		}
	}
	return conv.b.Grammar()
}

type ebnfConverter struct {
	b       *GrammarBuilder
	grammar ebnf.Grammar
	counter map[string]int // synthetic symbols per production
}

// rules adds rules lhs ➞ α for every alternative α of x. If repeat is set,
// the rules are made left-recursive and an epsilon-rule is added.
func (conv *ebnfConverter) rules(prod, lhs string, x ebnf.Expression, repeat bool) error {
	alts := []ebnf.Expression{x}
	if alt, ok := x.(ebnf.Alternative); ok {
		alts = alt
	}
	for _, a := range alts {
		rb := conv.b.LHS(lhs)
		if repeat {
			rb.N(lhs)
		}
		if err := conv.sequence(prod, rb, a); err != nil {
			return err
		}
		rb.End()
	}
	if repeat {
		conv.b.LHS(lhs).Epsilon()
	}
	return nil
}

func (conv *ebnfConverter) sequence(prod string, rb *RuleBuilder, x ebnf.Expression) error {
	if x == nil {
		return nil
	}
	seq := ebnf.Sequence{x}
	if s, ok := x.(ebnf.Sequence); ok {
		seq = s
	}
	for _, y := range seq {
		if err := conv.symbol(prod, rb, y); err != nil {
			return err
		}
	}
	return nil
}

func (conv *ebnfConverter) symbol(prod string, rb *RuleBuilder, x ebnf.Expression) error {
	switch y := x.(type) {
	case *ebnf.Name:
		if isLexical(y.String) {
			rb.T(y.String)
		} else {
			rb.N(y.String)
		}
	case *ebnf.Token:
		rb.T(y.String)
	case *ebnf.Group:
		A := conv.synthetic(prod)
		rb.N(A)
		return conv.rules(prod, A, y.Body, false)
	case *ebnf.Option:
		A := conv.synthetic(prod)
		rb.N(A)
		if err := conv.rules(prod, A, y.Body, false); err != nil {
			return err
		}
		conv.b.LHS(A).Epsilon()
	case *ebnf.Repetition:
		A := conv.synthetic(prod)
		rb.N(A)
		return conv.rules(prod, A, y.Body, true)
	case ebnf.Alternative, ebnf.Sequence:
		A := conv.synthetic(prod)
		rb.N(A)
		return conv.rules(prod, A, y, false)
	case *ebnf.Range:
		return fmt.Errorf("%v: ranges are allowed in lexical productions only", y.Pos())
	default:
		return fmt.Errorf("%v: unsupported EBNF expression", x.Pos())
	}
	return nil
}

// synthetic creates a fresh non-terminal name for a production.
func (conv *ebnfConverter) synthetic(prod string) string {
	for {
		conv.counter[prod]++
		name := prod + "_" + strconv.Itoa(conv.counter[prod])
		if _, exists := conv.grammar[name]; !exists {
			return name
		}
	}
}

func isLexical(name string) bool {
	ch, _ := utf8.DecodeRuneInString(name)
	return !unicode.IsUpper(ch)
}
