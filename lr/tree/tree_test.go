package tree

import (
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/parsegen"
	"github.com/npillmayer/parsegen/lr"
	"github.com/npillmayer/parsegen/lr/scanner"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func exprGrammar(t *testing.T) *lr.Grammar {
	b := lr.NewGrammarBuilder("E")
	b.LHS("__FINAL__").N("E").End()
	b.LHS("E").N("E").T("+").N("T").End()
	b.LHS("E").N("T").End()
	b.LHS("T").T("n").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func leaf(g *lr.Grammar, sym string, pos uint64) *Leaf {
	tok := scanner.MakeDefaultToken(sym, sym, 1, parsegen.Span{pos, pos + 1})
	return NewLeaf(tok, g.SymbolByName(sym))
}

// builds (E (E (T n)) + (T n))
func buildSum(t *testing.T, g *lr.Grammar) (*Node, *Leaf) {
	T1, err := NewNode(g.Rule(3), leaf(g, "n", 0))
	if err != nil {
		t.Fatal(err)
	}
	E1, _ := NewNode(g.Rule(2), T1)
	T2, _ := NewNode(g.Rule(3), leaf(g, "n", 2))
	plus := leaf(g, "+", 1)
	E, err := NewNode(g.Rule(1), E1, plus, T2)
	if err != nil {
		t.Fatal(err)
	}
	return E, plus
}

func TestTreeStructure(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsegen.lr")
	defer teardown()
	//
	g := exprGrammar(t)
	E, plus := buildSum(t, g)
	if E.String() != "(E (E (T n)) + (T n))" {
		t.Errorf("unexpected tree %s", E)
	}
	if plus.Parent() != E || E.Child(0).Parent() != E {
		t.Errorf("expected children to point to their parent")
	}
	if E.IsFrontier() {
		t.Errorf("expected E not to be a frontier node")
	}
	if T := E.Child(2).(*Node); !T.IsFrontier() {
		t.Errorf("expected T to be a frontier node")
	}
	if E.Span() != (parsegen.Span{0, 3}) {
		t.Errorf("expected E to span (0…3), spans %v", E.Span())
	}
	var yield []string
	for _, l := range E.Yield() {
		yield = append(yield, l.Symbol().Name)
	}
	if strings.Join(yield, " ") != "n + n" {
		t.Errorf("expected yield 'n + n', have %v", yield)
	}
	var serials []int
	for _, r := range E.Derivation() {
		serials = append(serials, r.Serial)
	}
	if len(serials) != 4 || serials[0] != 1 || serials[1] != 2 || serials[2] != 3 || serials[3] != 3 {
		t.Errorf("expected leftmost derivation [1 2 3 3], have %v", serials)
	}
}

func TestNewNodeChecksRule(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsegen.lr")
	defer teardown()
	//
	g := exprGrammar(t)
	if _, err := NewNode(g.Rule(3), leaf(g, "+", 0)); err == nil {
		t.Errorf("expected error for child not matching the rule")
	}
	if _, err := NewNode(g.Rule(1), leaf(g, "n", 0)); err == nil {
		t.Errorf("expected error for wrong number of children")
	}
	n := leaf(g, "n", 0)
	NewNode(g.Rule(3), n)
	if _, err := NewNode(g.Rule(3), n); !errors.Is(err, ErrAttached) {
		t.Errorf("expected error for attached child, have %v", err)
	}
}

func TestReplaceChild(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsegen.lr")
	defer teardown()
	//
	g := exprGrammar(t)
	E, plus := buildSum(t, g)
	minus := NewLeaf(scanner.MakeDefaultToken("-", "-", 1, parsegen.Span{1, 2}), &lr.Symbol{Name: "-"})
	if err := Replace(plus, minus); err != nil {
		t.Fatal(err)
	}
	if plus.Parent() != nil {
		t.Errorf("expected replaced child to be detached")
	}
	if minus.Parent() != E || E.Child(1) != minus {
		t.Errorf("expected new child at position 1 of E")
	}
	r := E.Rule()
	if r.Serial != -1 || r.LHS.Name != "E" || r.Len() != 3 || r.At(1).Name != "-" {
		t.Errorf("expected derived rule E ➞ E - T, have %v", r)
	}
	if g.Rule(1).At(1).Name != "+" {
		t.Errorf("grammar rule must not be modified by tree re-shaping")
	}
	T := E.Child(2).(*Node)
	n2 := T.Child(0)
	if _, err := T.ReplaceChild(0, minus); !errors.Is(err, ErrAttached) {
		t.Errorf("expected attached element to be rejected, have %v", err)
	}
	// same symbol: rule is kept
	if _, err := T.ReplaceChild(0, leaf(g, "n", 2)); err != nil || T.Rule() != g.Rule(3) {
		t.Errorf("expected rule to be kept, have %v (%v)", T.Rule(), err)
	}
	if n2.Parent() != nil {
		t.Errorf("expected old leaf to be detached")
	}
}

type collector struct {
	terminals []string
}

func (c *collector) EnterRule(n *Node, ctxt RuleCtxt) bool {
	return n.Symbol().Name != "T"
}

func (c *collector) ExitRule(n *Node, values []interface{}, ctxt RuleCtxt) interface{} {
	count := 1
	for _, v := range values {
		if v != nil {
			count += v.(int)
		}
	}
	return count
}

func (c *collector) Terminal(l *Leaf, ctxt RuleCtxt) interface{} {
	c.terminals = append(c.terminals, l.Symbol().Name)
	return 1
}

func TestWalk(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsegen.lr")
	defer teardown()
	//
	g := exprGrammar(t)
	E, _ := buildSum(t, g)
	c := &collector{}
	if count := Walk(E, c, RtoL, Continue).(int); count != 7 {
		t.Errorf("expected 7 tree elements, have %d", count)
	}
	if strings.Join(c.terminals, " ") != "n + n" {
		t.Errorf("expected right-to-left walk to visit n + n (reversed), have %v", c.terminals)
	}
	c = &collector{}
	if count := Walk(E, c, LtoR, Break).(int); count != 5 {
		t.Errorf("expected 5 elements when skipping T sub-trees, have %d", count)
	}
	if len(c.terminals) != 1 {
		t.Errorf("expected to visit only '+', have %v", c.terminals)
	}
}
