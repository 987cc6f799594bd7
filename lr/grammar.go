package lr

import (
	"bytes"
	"fmt"
	"strings"
)

// Reserved symbol names.
const (
	EOFName   = "$"         // end of input, always a terminal
	FinalName = "__FINAL__" // default top-level non-terminal
)

// --- Symbols ---------------------------------------------------------------

// Symbol is a grammar symbol. Symbols are opaque names. A symbol is
// classified as a non-terminal if and only if some rule of the grammar has
// it as its left hand side; this classification is fixed when the grammar is
// completed by GrammarBuilder.Grammar().
type Symbol struct {
	Name   string
	ID     int // serial ID, unique within a grammar
	isTerm bool
}

// IsTerminal returns true for terminal symbols (including end of input).
func (A *Symbol) IsTerminal() bool {
	return A.isTerm
}

func (A *Symbol) String() string {
	if A == nil {
		return "<nil>"
	}
	return A.Name
}

// --- Rules -----------------------------------------------------------------

// Rule is a production LHS ⟶ RHS of a grammar. Rules are immutable.
type Rule struct {
	Serial int // ordinal of the rule within its grammar; -1 for detached rules
	LHS    *Symbol
	rhs    []*Symbol
}

// NewRule creates a rule which does not belong to a grammar. It is intended
// for clients re-shaping parse trees.
func NewRule(lhs *Symbol, rhs ...*Symbol) *Rule {
	return &Rule{
		Serial: -1,
		LHS:    lhs,
		rhs:    append([]*Symbol(nil), rhs...),
	}
}

// RHS returns a copy of the right hand side symbols.
func (r *Rule) RHS() []*Symbol {
	return append([]*Symbol(nil), r.rhs...)
}

// Len returns the length of the right hand side.
func (r *Rule) Len() int {
	return len(r.rhs)
}

// At returns the i-th symbol of the right hand side.
func (r *Rule) At(i int) *Symbol {
	return r.rhs[i]
}

// IsEpsilon is true for rules with an empty right hand side.
func (r *Rule) IsEpsilon() bool {
	return len(r.rhs) == 0
}

// Equals compares two rules structurally, i.e. by symbol names of LHS and RHS.
func (r *Rule) Equals(other *Rule) bool {
	if r == other {
		return true
	}
	if r == nil || other == nil || r.LHS.Name != other.LHS.Name || len(r.rhs) != len(other.rhs) {
		return false
	}
	for i, A := range r.rhs {
		if A.Name != other.rhs[i].Name {
			return false
		}
	}
	return true
}

func (r *Rule) String() string {
	return fmt.Sprintf("%v ::= %v", r.LHS, r.rhs)
}

// key is a structural identity for a rule.
func (r *Rule) key() string {
	var b strings.Builder
	b.WriteString(r.LHS.Name)
	b.WriteString("=")
	for i, A := range r.rhs {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(A.Name)
	}
	return b.String()
}

// --- Grammar ---------------------------------------------------------------

// Grammar is a type for a context free grammar. Grammars are immutable and
// are created by a GrammarBuilder.
type Grammar struct {
	Name         string
	rules        []*Rule
	symbols      []*Symbol // indexed by symbol ID
	byName       map[string]*Symbol
	nonterminals []*Symbol
	terminals    []*Symbol
	final        *Symbol
	eof          *Symbol
}

// Rule returns the grammar rule with serial number no.
func (g *Grammar) Rule(no int) *Rule {
	if no < 0 || no >= len(g.rules) {
		return nil
	}
	return g.rules[no]
}

// Rules returns all rules, ordered by serial number.
func (g *Grammar) Rules() []*Rule {
	return append([]*Rule(nil), g.rules...)
}

// Size returns the number of rules.
func (g *Grammar) Size() int {
	return len(g.rules)
}

// Final returns the top-level non-terminal.
func (g *Grammar) Final() *Symbol {
	return g.final
}

// EOF returns the end of input terminal.
func (g *Grammar) EOF() *Symbol {
	return g.eof
}

// SymbolByName returns the grammar symbol with the given name, or nil.
func (g *Grammar) SymbolByName(name string) *Symbol {
	return g.byName[name]
}

// Symbol returns the grammar symbol with the given ID, or nil.
func (g *Grammar) Symbol(id int) *Symbol {
	if id < 0 || id >= len(g.symbols) {
		return nil
	}
	return g.symbols[id]
}

// SymbolCount returns the number of symbols, including the end of input
// terminal.
func (g *Grammar) SymbolCount() int {
	return len(g.symbols)
}

// EachSymbol iterates over all symbols of the grammar, ordered by ID.
// The mapper's return value is ignored.
func (g *Grammar) EachSymbol(mapper func(A *Symbol) interface{}) {
	for _, A := range g.symbols {
		mapper(A)
	}
}

// EachNonTerminal iterates over all non-terminal symbols of the grammar.
func (g *Grammar) EachNonTerminal(mapper func(A *Symbol) interface{}) {
	for _, A := range g.nonterminals {
		mapper(A)
	}
}

// EachTerminal iterates over all terminal symbols of the grammar,
// including end of input.
func (g *Grammar) EachTerminal(mapper func(A *Symbol) interface{}) {
	for _, A := range g.terminals {
		mapper(A)
	}
}

// FindNonTermRules returns all rules with LHS A, ordered by serial number.
func (g *Grammar) FindNonTermRules(A *Symbol) []*Rule {
	var R []*Rule
	for _, r := range g.rules {
		if r.LHS == A {
			R = append(R, r)
		}
	}
	return R
}

// Dump is a debugging helper, writing the rules of g to the tracer.
func (g *Grammar) Dump() {
	tracer().Debugf("--- %s --------------------------------------------", g.Name)
	tracer().Debugf("%s", g.String())
	tracer().Debugf("-------------------------------------------------------")
}

func (g *Grammar) String() string {
	var b bytes.Buffer
	for _, r := range g.rules {
		b.WriteString(fmt.Sprintf("%3d: %s\n", r.Serial, r))
	}
	return b.String()
}

// --- Grammar Builder -------------------------------------------------------

// GrammarBuilder is a builder type for grammars. Create one with
// NewGrammarBuilder, add rules and finally call Grammar():
//
//     b := lr.NewGrammarBuilder("G")
//     b.LHS("__FINAL__").N("E").End()            //  __FINAL__ ➞ E
//     b.LHS("E").N("E").T("+").N("T").End()      //  E ➞ E + T
//     b.LHS("E").N("T").End()                    //  E ➞ T
//     b.LHS("T").T("n").End()                    //  T ➞ n
//     g, err := b.Grammar()
//
// N and T state the client's expectation about the classification of a
// symbol, which is checked by Grammar(); S adds a symbol without any
// expectation.
type GrammarBuilder struct {
	name     string
	final    string
	rules    []*Rule
	symbols  []*Symbol
	byName   map[string]*Symbol
	expected map[string]bool // true = expected terminal
	errs     []error
}

// NewGrammarBuilder creates a grammar builder for a grammar with a given name.
func NewGrammarBuilder(gname string) *GrammarBuilder {
	return &GrammarBuilder{
		name:     gname,
		final:    FinalName,
		byName:   make(map[string]*Symbol),
		expected: make(map[string]bool),
	}
}

// Final sets the name of the top-level non-terminal (default is "__FINAL__").
func (gb *GrammarBuilder) Final(name string) *GrammarBuilder {
	gb.final = name
	return gb
}

// LHS starts a new rule for non-terminal name.
func (gb *GrammarBuilder) LHS(name string) *RuleBuilder {
	rb := &RuleBuilder{gb: gb}
	rb.lhs = gb.symbol(name)
	gb.expect(name, false)
	return rb
}

func (gb *GrammarBuilder) symbol(name string) *Symbol {
	if A, ok := gb.byName[name]; ok {
		return A
	}
	A := &Symbol{Name: name, ID: -1}
	gb.byName[name] = A
	gb.symbols = append(gb.symbols, A)
	return A
}

func (gb *GrammarBuilder) expect(name string, terminal bool) {
	if t, ok := gb.expected[name]; ok && t != terminal {
		gb.errs = append(gb.errs, fmt.Errorf("symbol %q used both as terminal and as non-terminal", name))
		return
	}
	gb.expected[name] = terminal
}

// Grammar completes the grammar. It classifies the symbols, assigns serial
// IDs and checks the grammar for consistency. Structurally equal duplicate
// rules are dropped.
func (gb *GrammarBuilder) Grammar() (*Grammar, error) {
	if len(gb.errs) > 0 {
		return nil, gb.errs[0]
	}
	if t, expected := gb.expected[EOFName]; expected && !t {
		return nil, fmt.Errorf("end of input %q may not be used as a non-terminal", EOFName)
	}
	g := &Grammar{
		Name:   gb.name,
		byName: make(map[string]*Symbol),
	}
	seen := make(map[string]bool)
	lhs := make(map[*Symbol]bool)
	for _, r := range gb.rules {
		k := r.key()
		if seen[k] {
			tracer().Debugf("dropping duplicate rule %v", r)
			continue
		}
		seen[k] = true
		r.Serial = len(g.rules)
		g.rules = append(g.rules, r)
		lhs[r.LHS] = true
	}
	for _, A := range gb.symbols {
		A.isTerm = !lhs[A]
		if t, ok := gb.expected[A.Name]; ok && t != A.isTerm {
			if t {
				return nil, fmt.Errorf("symbol %q expected to be a terminal, but is defined by rules", A.Name)
			}
			return nil, fmt.Errorf("non-terminal %q has no rules", A.Name)
		}
	}
	for _, A := range gb.symbols { // non-terminals first, then terminals
		if !A.isTerm {
			A.ID = len(g.symbols)
			g.symbols = append(g.symbols, A)
			g.nonterminals = append(g.nonterminals, A)
		}
	}
	for _, A := range gb.symbols {
		if A.isTerm && A.Name != EOFName {
			A.ID = len(g.symbols)
			g.symbols = append(g.symbols, A)
			g.terminals = append(g.terminals, A)
		}
	}
	g.eof = gb.symbol(EOFName)
	g.eof.isTerm = true
	g.eof.ID = len(g.symbols)
	g.symbols = append(g.symbols, g.eof)
	g.terminals = append(g.terminals, g.eof)
	for _, A := range g.symbols {
		g.byName[A.Name] = A
	}
	g.final = g.byName[gb.final]
	if g.final == nil || g.final.IsTerminal() {
		return nil, fmt.Errorf("grammar %s has no rules for top-level symbol %q", gb.name, gb.final)
	}
	tracer().Debugf("grammar %s: %d rules, %d non-terminals, %d terminals", g.Name,
		len(g.rules), len(g.nonterminals), len(g.terminals))
	return g, nil
}

// RuleBuilder is a builder type for a single rule. It is created by
// GrammarBuilder.LHS.
type RuleBuilder struct {
	gb  *GrammarBuilder
	lhs *Symbol
	rhs []*Symbol
}

// N appends a non-terminal to the right hand side.
func (rb *RuleBuilder) N(name string) *RuleBuilder {
	rb.gb.expect(name, false)
	rb.rhs = append(rb.rhs, rb.gb.symbol(name))
	return rb
}

// T appends a terminal to the right hand side.
func (rb *RuleBuilder) T(name string) *RuleBuilder {
	rb.gb.expect(name, true)
	rb.rhs = append(rb.rhs, rb.gb.symbol(name))
	return rb
}

// S appends symbols to the right hand side, leaving their classification
// to the grammar.
func (rb *RuleBuilder) S(names ...string) *RuleBuilder {
	for _, name := range names {
		rb.rhs = append(rb.rhs, rb.gb.symbol(name))
	}
	return rb
}

// End completes the rule and adds it to the grammar.
func (rb *RuleBuilder) End() *Rule {
	r := &Rule{
		Serial: len(rb.gb.rules),
		LHS:    rb.lhs,
		rhs:    rb.rhs,
	}
	rb.gb.rules = append(rb.gb.rules, r)
	return r
}

// Epsilon completes the rule as an epsilon-rule, i.e. with an empty RHS.
func (rb *RuleBuilder) Epsilon() *Rule {
	rb.rhs = nil
	return rb.End()
}
