package lr

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/cnf/structhash"
	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/npillmayer/parsegen/lr/iteratable"
	"github.com/npillmayer/parsegen/lr/sparse"
)

// Refer to "Crafting A Compiler" by Charles N. Fisher & Richard J. LeBlanc, Jr.
// Section 6.2.1 LR(0) Parsing, and Section 6.3 SLR(1) Parsing.

// === Actions ===============================================================

// ActionKind is the type of a parser table entry.
type ActionKind int8

// Kinds of actions. NoAction denotes an empty table cell.
const (
	NoAction ActionKind = iota
	ShiftAction
	GotoAction
	ReduceAction
	DoneAction
)

// Action is an entry of the parser table. For shift- and goto-actions, State
// is the target state; for reduce-actions, Rule is the rule to reduce.
type Action struct {
	Kind  ActionKind
	State int
	Rule  *Rule
}

// IsNone is true for empty table cells.
func (a Action) IsNone() bool {
	return a.Kind == NoAction
}

// Equals compares two actions. Reduce actions are equal if their rules are
// structurally equal.
func (a Action) Equals(b Action) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case ShiftAction, GotoAction:
		return a.State == b.State
	case ReduceAction:
		return a.Rule.Equals(b.Rule)
	}
	return true
}

func (a Action) String() string {
	switch a.Kind {
	case ShiftAction, GotoAction:
		return fmt.Sprintf("%s %d", kindName(a.Kind), a.State)
	case ReduceAction:
		return fmt.Sprintf("reduce %d (%v)", a.Rule.Serial, a.Rule)
	}
	return kindName(a.Kind)
}

// Actions are stored in a sparse matrix, encoded as a single int32:
// the kind in the upper byte and the target state or rule serial below.
const targetMask = 1<<24 - 1

func encodeAction(a Action) int32 {
	target := a.State
	if a.Kind == ReduceAction {
		target = a.Rule.Serial
	}
	return int32(a.Kind)<<24 | int32(target&targetMask)
}

func decodeAction(v int32, null int32, g *Grammar) Action {
	if v == null {
		return Action{}
	}
	a := Action{Kind: ActionKind(v >> 24)}
	target := int(v & targetMask)
	switch a.Kind {
	case ShiftAction, GotoAction:
		a.State = target
	case ReduceAction:
		a.Rule = g.Rule(target)
	}
	return a
}

// === CFSM ==================================================================

// CFSMState is a state within the CFSM for a grammar.
type CFSMState struct {
	ID    int             // serial ID of this state
	items *iteratable.Set // configuration items within this state
}

// Items returns the items of a state.
func (s *CFSMState) Items() []Item {
	values := s.items.Values()
	items := make([]Item, len(values))
	for k, x := range values {
		items[k] = asItem(x)
	}
	return items
}

// Dump is a debugging helper
func (s *CFSMState) Dump() {
	tracer().Debugf("--- state %03d -----------", s.ID)
	Dump(s.items)
	tracer().Debugf("-------------------------")
}

func (s *CFSMState) String() string {
	return fmt.Sprintf("(state %d | [%d])", s.ID, s.items.Size())
}

// CFSM edge between 2 states, directed and labeled with a grammar symbol
type cfsmEdge struct {
	from  *CFSMState
	to    *CFSMState
	label *Symbol
}

// CFSM is the characteristic finite state machine for a LR grammar, i.e. the
// LR(0) state diagram. Will be constructed by a TableGenerator.
// Clients normally do not use it directly. Nevertheless, there are some methods
// defined on it, e.g, for debugging purposes.
type CFSM struct {
	g      *Grammar        // this CFSM is for Grammar g
	states *arraylist.List // all the states, indexed by ID
	edges  *arraylist.List // all the edges between states
	S0     *CFSMState      // start state
}

// create an empty (initial) CFSM automata.
func emptyCFSM(g *Grammar) *CFSM {
	c := &CFSM{g: g}
	c.states = arraylist.New()
	c.edges = arraylist.New()
	return c
}

// Add a state to the CFSM. Checks first if state is present. Returns the
// state and true if the state has been created.
func (c *CFSM) addState(iset *iteratable.Set) (*CFSMState, bool) {
	if s := c.findStateByItems(iset); s != nil {
		return s, false
	}
	s := &CFSMState{ID: c.states.Size(), items: iset}
	c.states.Add(s)
	return s, true
}

// Find a CFSM state by the contained item set.
func (c *CFSM) findStateByItems(iset *iteratable.Set) *CFSMState {
	_, x := c.states.Find(func(_ int, x interface{}) bool {
		return x.(*CFSMState).items.Equals(iset)
	})
	if x == nil {
		return nil
	}
	return x.(*CFSMState)
}

func (c *CFSM) addEdge(s0, s1 *CFSMState, sym *Symbol) {
	if c.edgeFor(s0, sym) != nil {
		return
	}
	c.edges.Add(&cfsmEdge{from: s0, to: s1, label: sym})
}

func (c *CFSM) edgeFor(s *CFSMState, sym *Symbol) *cfsmEdge {
	_, x := c.edges.Find(func(_ int, x interface{}) bool {
		e := x.(*cfsmEdge)
		return e.from == s && e.label == sym
	})
	if x == nil {
		return nil
	}
	return x.(*cfsmEdge)
}

// State returns the state with a given ID, or nil.
func (c *CFSM) State(id int) *CFSMState {
	x, ok := c.states.Get(id)
	if !ok {
		return nil
	}
	return x.(*CFSMState)
}

// Size returns the number of states.
func (c *CFSM) Size() int {
	return c.states.Size()
}

// Transition returns the state reached from state s by symbol A, or nil.
func (c *CFSM) Transition(s *CFSMState, A *Symbol) *CFSMState {
	if e := c.edgeFor(s, A); e != nil {
		return e.to
	}
	return nil
}

// ToGraphViz exports a CFSM to the Graphviz Dot format.
func (c *CFSM) ToGraphViz(w io.Writer) error {
	var b bytes.Buffer
	b.WriteString(`digraph {
graph [splines=true, fontname=Helvetica, fontsize=10];
node [shape=Mrecord, style=filled, fontname=Helvetica, fontsize=10];
edge [fontname=Helvetica, fontsize=10];

`)
	it := c.states.Iterator()
	for it.Next() {
		s := it.Value().(*CFSMState)
		b.WriteString(fmt.Sprintf("s%03d [fillcolor=%s label=\"{%03d | %s}\"]\n",
			s.ID, nodecolor(s), s.ID, forGraphviz(s.items)))
	}
	it = c.edges.Iterator()
	for it.Next() {
		edge := it.Value().(*cfsmEdge)
		b.WriteString(fmt.Sprintf("s%03d -> s%03d [label=\"%s\"]\n", edge.from.ID, edge.to.ID,
			escapeDot(edge.label.Name)))
	}
	b.WriteString("}\n")
	_, err := w.Write(b.Bytes())
	return err
}

func nodecolor(state *CFSMState) string {
	if state.ID == 0 {
		return "lightgray"
	}
	return "white"
}

func forGraphviz(S *iteratable.Set) string {
	var b strings.Builder
	S.Each(func(x interface{}) {
		b.WriteString(escapeDot(asItem(x).String()))
		b.WriteString("\\l")
	})
	return b.String()
}

var dotEscaper = strings.NewReplacer(`"`, `\"`, `{`, `\{`, `}`, `\}`, `|`, `\|`, `<`, `\<`, `>`, `\>`)

func escapeDot(s string) string {
	return dotEscaper.Replace(s)
}

// === Table Generator =======================================================

// Option configures a TableGenerator.
type Option func(*TableGenerator)

// ClosureCacheSize re-sizes the closure memo of the grammar analysis used for
// table construction. 0 disables memoization. Without this option, the memo of
// the analysis is used as is, i.e. closures memoized by earlier constructions
// are re-used.
func ClosureCacheSize(n int) Option {
	return func(lrgen *TableGenerator) {
		if n < 0 {
			n = 0
		}
		lrgen.cacheSize = n
	}
}

// TableGenerator is a generator object to construct SLR(1) parser tables.
// Clients usually create a Grammar G, then a LRAnalysis-object for G,
// and then a table generator. TableGenerator.CreateTables() constructs
// the CFSM and the parser table for an LR-parser recognizing grammar G.
//
// The generator is the only mutable stage of table construction: a Table is
// handed out only after construction completed without conflicts.
type TableGenerator struct {
	g         *Grammar
	ga        *LRAnalysis
	dfa       *CFSM
	matrix    *sparse.IntMatrix
	table     *Table
	cacheSize int // < 0: leave the memo of the analysis alone
	err       error
}

// NewTableGenerator creates a new TableGenerator for a (previously analysed) grammar.
func NewTableGenerator(ga *LRAnalysis, opts ...Option) *TableGenerator {
	lrgen := &TableGenerator{
		g:         ga.Grammar(),
		ga:        ga,
		cacheSize: -1,
	}
	for _, opt := range opts {
		opt(lrgen)
	}
	if lrgen.cacheSize >= 0 {
		lrgen.err = ga.SetClosureCacheSize(lrgen.cacheSize)
	}
	return lrgen
}

// CFSM returns the characteristic finite state machine (CFSM) for a grammar.
// It is available after CreateTables() has been called, even if table
// construction failed with a conflict.
func (lrgen *TableGenerator) CFSM() *CFSM {
	return lrgen.dfa
}

// Table returns the parser table, or nil if CreateTables() has not been called
// or did fail.
func (lrgen *TableGenerator) Table() *Table {
	if lrgen.table == nil {
		tracer().P("lr", "gen").Errorf("tables not yet initialized")
	}
	return lrgen.table
}

// CreateTables constructs the CFSM and the SLR(1) parser table.
//
// State 0 is the closure of the start items of all rules for the top-level
// non-terminal, listing these start items first; its cell for end of input
// is the done-action. Construction then visits every item of every state,
// including states created on the way, in order:
//
// - a complete item produces reduce-actions for every terminal in FOLLOW(LHS)
//
// - an item with a terminal after the dot produces a shift-action
//
// - an item with a non-terminal after the dot produces a goto-action.
//
// The target state of shift and goto is the closure of all items of the
// current state which have the same symbol after the dot, advanced by one.
// States with equal item sets are merged.
//
// Writing a table cell which already holds a different action aborts
// construction with a *ConflictError.
func (lrgen *TableGenerator) CreateTables() error {
	tracer().Debugf("=== build CFSM ==================================================")
	lrgen.table = nil
	if lrgen.err != nil {
		return lrgen.err
	}
	G := lrgen.g
	cfsm := emptyCFSM(G)
	lrgen.dfa = cfsm
	lrgen.matrix = sparse.NewIntMatrix(0, G.SymbolCount(), sparse.DefaultNullValue)
	kernel := newItemSet()
	for _, r := range G.FindNonTermRules(G.final) {
		item, _ := StartItem(r)
		kernel.Add(item)
	}
	cfsm.S0, _ = cfsm.addState(lrgen.ga.ClosureSet(kernel))
	cfsm.S0.Dump()
	if err := lrgen.write(cfsm.S0, G.eof, Action{Kind: DoneAction}); err != nil {
		return err
	}
	for k := 0; k < cfsm.Size(); k++ { // states are added during the loop
		s := cfsm.State(k)
		s.items.IterateOnce()
		for s.items.Next() {
			i := asItem(s.items.Item())
			A := i.PeekSymbol()
			if A == nil {
				if err := lrgen.writeReduces(s, i.rule); err != nil {
					return err
				}
				continue
			}
			succ := cfsm.Transition(s, A)
			if succ == nil {
				var created bool
				succ, created = cfsm.addState(lrgen.ga.successor(s.items, A))
				if created {
					succ.Dump()
				}
				cfsm.addEdge(s, succ, A)
			}
			kind := GotoAction
			if A.IsTerminal() {
				kind = ShiftAction
			}
			if err := lrgen.write(s, A, Action{Kind: kind, State: succ.ID}); err != nil {
				return err
			}
		}
	}
	lrgen.table = &Table{
		g:      G,
		matrix: lrgen.matrix,
		states: cfsm.Size(),
	}
	tracer().Infof("SLR table for %s: %d states, %d actions", G.Name, cfsm.Size(), lrgen.matrix.ValueCount())
	return nil
}

func (lrgen *TableGenerator) writeReduces(s *CFSMState, r *Rule) error {
	for _, la := range lrgen.ga.FollowSymbols(r.LHS) {
		if err := lrgen.write(s, la, Action{Kind: ReduceAction, Rule: r}); err != nil {
			return err
		}
	}
	return nil
}

// write sets a table cell, checking for conflicts.
func (lrgen *TableGenerator) write(s *CFSMState, A *Symbol, a Action) error {
	null := lrgen.matrix.NullValue()
	existing := decodeAction(lrgen.matrix.Value(s.ID, A.ID), null, lrgen.g)
	if !existing.IsNone() {
		if existing.Equals(a) {
			return nil
		}
		err := &ConflictError{
			State:     s.ID,
			Items:     s.Items(),
			Symbol:    A,
			Existing:  existing,
			Attempted: a,
		}
		tracer().Errorf("%v", err)
		return err
	}
	tracer().Debugf("    action(%d, %v) = %v", s.ID, A, a)
	lrgen.matrix.Set(s.ID, A.ID, encodeAction(a))
	return nil
}

// === Table =================================================================

// Table is an SLR(1) parser table, mapping (state, symbol) to an action.
// Tables are immutable and safe for concurrent use.
type Table struct {
	g      *Grammar
	matrix *sparse.IntMatrix
	states int
}

// Grammar returns the grammar the table has been constructed for.
func (t *Table) Grammar() *Grammar {
	return t.g
}

// States returns the number of states.
func (t *Table) States() int {
	return t.states
}

// Size returns the number of non-empty cells.
func (t *Table) Size() int {
	return t.matrix.ValueCount()
}

// Action returns the action for a state and a grammar symbol. Empty cells
// return an action of kind NoAction.
func (t *Table) Action(state int, A *Symbol) Action {
	if A == nil || state < 0 || state >= t.states || A.ID < 0 || A.ID >= t.matrix.N() {
		return Action{}
	}
	return decodeAction(t.matrix.Value(state, A.ID), t.matrix.NullValue(), t.g)
}

// ActionFor returns the action for a state and a symbol name. If name is not
// a symbol of the grammar, an *UnknownSymbolError is returned.
func (t *Table) ActionFor(state int, name string) (Action, error) {
	A := t.g.SymbolByName(name)
	if A == nil {
		return Action{}, &UnknownSymbolError{Name: name}
	}
	return t.Action(state, A), nil
}

// Each calls f for every non-empty cell, ordered by state and symbol ID.
func (t *Table) Each(f func(state int, A *Symbol, a Action)) {
	null := t.matrix.NullValue()
	t.matrix.Each(func(i, j int, v int32) {
		f(i, t.g.Symbol(j), decodeAction(v, null, t.g))
	})
}

// Dump writes a textual representation of the table to w, one line per
// non-empty cell.
func (t *Table) Dump(w io.Writer) error {
	var b bytes.Buffer
	b.WriteString(fmt.Sprintf("SLR table for %s: %d states\n", t.g.Name, t.states))
	t.Each(func(state int, A *Symbol, a Action) {
		b.WriteString(fmt.Sprintf("%4d  %-12s %v\n", state, A.Name, a))
	})
	_, err := w.Write(b.Bytes())
	return err
}

type tableSnapshot struct {
	States  int
	Symbols []string
	Cells   []cellSnapshot
}

type cellSnapshot struct {
	State  int
	Symbol string
	Kind   int
	Target int
}

// Fingerprint returns a hash of the structure of the table: its states,
// symbols and actions. Constructing a table twice for the same grammar
// yields the same fingerprint.
func (t *Table) Fingerprint() (string, error) {
	snap := tableSnapshot{States: t.states}
	t.g.EachSymbol(func(A *Symbol) interface{} {
		snap.Symbols = append(snap.Symbols, A.Name)
		return nil
	})
	t.Each(func(state int, A *Symbol, a Action) {
		target := a.State
		if a.Kind == ReduceAction {
			target = a.Rule.Serial
		}
		snap.Cells = append(snap.Cells, cellSnapshot{
			State:  state,
			Symbol: A.Name,
			Kind:   int(a.Kind),
			Target: target,
		})
	})
	return structhash.Hash(snap, 1)
}

// TableAsHTML exports a parser table in HTML-format.
func TableAsHTML(t *Table, w io.Writer) error {
	var b bytes.Buffer
	b.WriteString("<html><body>\n")
	b.WriteString(fmt.Sprintf("SLR table for %s, %d states, %d actions<p>",
		htmlEscaper.Replace(t.g.Name), t.states, t.Size()))
	b.WriteString("<table border=1 cellspacing=0 cellpadding=5>\n")
	b.WriteString("<tr bgcolor=#cccccc><td></td>\n")
	t.g.EachSymbol(func(A *Symbol) interface{} {
		b.WriteString(fmt.Sprintf("<td>%s</td>", htmlEscaper.Replace(A.Name)))
		return nil
	})
	b.WriteString("</tr>\n")
	for state := 0; state < t.states; state++ {
		b.WriteString(fmt.Sprintf("<tr><td>state %d</td>\n", state))
		t.g.EachSymbol(func(A *Symbol) interface{} {
			td := "&nbsp;"
			if a := t.Action(state, A); !a.IsNone() {
				td = htmlCell(a)
			}
			b.WriteString("<td>")
			b.WriteString(td)
			b.WriteString("</td>\n")
			return nil
		})
		b.WriteString("</tr>\n")
	}
	b.WriteString("</table></body></html>\n")
	_, err := w.Write(b.Bytes())
	return err
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func htmlCell(a Action) string {
	switch a.Kind {
	case ShiftAction:
		return fmt.Sprintf("s%d", a.State)
	case GotoAction:
		return fmt.Sprintf("g%d", a.State)
	case ReduceAction:
		return fmt.Sprintf("r%d", a.Rule.Serial)
	}
	return "acc"
}
