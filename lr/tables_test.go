package lr

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/pmezard/go-difflib/difflib"
)

func makeTables(t *testing.T, g *Grammar) *TableGenerator {
	lrgen := NewTableGenerator(Analysis(g))
	if err := lrgen.CreateTables(); err != nil {
		t.Fatal(err)
	}
	return lrgen
}

func TestCFSM(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsegen.lr")
	defer teardown()
	//
	g := makeExprGrammar(t)
	lrgen := makeTables(t, g)
	cfsm := lrgen.CFSM()
	if cfsm.Size() != 6 {
		t.Fatalf("expected CFSM with 6 states, have %d", cfsm.Size())
	}
	if cfsm.S0 != cfsm.State(0) || len(cfsm.S0.Items()) != 4 {
		t.Errorf("expected start state with 4 items, have %v", cfsm.S0)
	}
	T, n := g.SymbolByName("T"), g.SymbolByName("n")
	if s := cfsm.Transition(cfsm.State(0), n); s == nil || s.ID != 3 {
		t.Errorf("expected transition 0 --n--> 3, have %v", s)
	}
	if s := cfsm.Transition(cfsm.State(4), n); s == nil || s.ID != 3 {
		t.Errorf("expected states for T ➞ n • to be merged, have %v", s)
	}
	if s := cfsm.Transition(cfsm.State(4), T); s == nil || s.ID != 5 {
		t.Errorf("expected transition 4 --T--> 5, have %v", s)
	}
	if s := cfsm.Transition(cfsm.State(5), n); s != nil {
		t.Errorf("expected no transition from 5 on n, have %v", s)
	}
}

func TestTable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsegen.lr")
	defer teardown()
	//
	g := makeExprGrammar(t)
	table := makeTables(t, g).Table()
	if table.States() != 6 || table.Size() != 14 {
		t.Errorf("expected 6 states with 14 actions, have %d and %d", table.States(), table.Size())
	}
	expected := []struct {
		state  int
		symbol string
		action string
	}{
		{0, "$", "done"},
		{0, "E", "goto 1"},
		{0, "T", "goto 2"},
		{0, "n", "shift 3"},
		{1, "+", "shift 4"},
		{1, "$", "reduce 0 (__FINAL__ ::= [E])"},
		{2, "+", "reduce 2 (E ::= [T])"},
		{2, "$", "reduce 2 (E ::= [T])"},
		{3, "$", "reduce 3 (T ::= [n])"},
		{4, "T", "goto 5"},
		{4, "n", "shift 3"},
		{5, "+", "reduce 1 (E ::= [E + T])"},
	}
	for _, x := range expected {
		a, err := table.ActionFor(x.state, x.symbol)
		if err != nil {
			t.Fatal(err)
		}
		if a.String() != x.action {
			t.Errorf("expected action(%d, %s) = %s, is %s", x.state, x.symbol, x.action, a)
		}
	}
	if a, _ := table.ActionFor(3, "n"); !a.IsNone() {
		t.Errorf("expected empty cell (3, n), is %v", a)
	}
	if a := table.Action(17, g.SymbolByName("n")); !a.IsNone() {
		t.Errorf("expected empty action for non-existing state, is %v", a)
	}
	_, err := table.ActionFor(0, "x")
	var uerr *UnknownSymbolError
	if !errors.As(err, &uerr) || uerr.Name != "x" {
		t.Errorf("expected unknown symbol error, have %v", err)
	}
}

func TestReduceReduceConflict(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsegen.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("RR")
	b.LHS("__FINAL__").N("A").End()
	b.LHS("__FINAL__").N("B").End()
	b.LHS("A").T("x").End()
	b.LHS("B").T("x").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	lrgen := NewTableGenerator(Analysis(g))
	err = lrgen.CreateTables()
	var cerr *ConflictError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected conflict error, have %v", err)
	}
	if cerr.Kind() != "reduce/reduce" || cerr.Symbol.Name != "$" || cerr.State != 3 {
		t.Errorf("expected reduce/reduce conflict in state 3 on $, have %v", cerr)
	}
	if lrgen.Table() != nil {
		t.Errorf("expected no table after conflict")
	}
	if lrgen.CFSM() == nil {
		t.Errorf("expected CFSM to be available after conflict")
	}
}

func TestStateNumberingFollowsKernelOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsegen.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("Chains")
	b.LHS("__FINAL__").N("A").End()
	b.LHS("__FINAL__").N("B").End()
	b.LHS("A").N("C").End()
	b.LHS("B").N("D").End()
	b.LHS("C").T("c").End()
	b.LHS("D").T("d").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	cfsm := makeTables(t, g).CFSM()
	expected := []string{
		"__FINAL__ ➞ • A", "__FINAL__ ➞ • B",
		"A ➞ • C", "C ➞ • c",
		"B ➞ • D", "D ➞ • d",
	}
	items := cfsm.S0.Items()
	if len(items) != len(expected) {
		t.Fatalf("expected start state with %d items, have %v", len(expected), items)
	}
	for k, i := range items {
		if i.String() != expected[k] {
			t.Errorf("expected item #%d of start state to be %q, is %q", k, expected[k], i)
		}
	}
	if cfsm.Size() != 7 {
		t.Fatalf("expected 7 states, have %d", cfsm.Size())
	}
	for k, name := range []string{"A", "B", "C", "c", "D", "d"} {
		s := cfsm.Transition(cfsm.S0, g.SymbolByName(name))
		if s == nil || s.ID != k+1 {
			t.Errorf("expected transition 0 --%s--> %d, have %v", name, k+1, s)
		}
	}
}

func TestClosureCacheIsUsed(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsegen.lr")
	defer teardown()
	//
	ga := Analysis(makeExprGrammar(t))
	if err := NewTableGenerator(ga).CreateTables(); err != nil {
		t.Fatal(err)
	}
	// state 4 re-computes the closure of T ➞ n • on n
	if hits, misses := ga.ClosureCacheStats(); hits != 1 || misses != 7 {
		t.Errorf("expected 1 hit and 7 misses, have %d and %d", hits, misses)
	}
	if err := NewTableGenerator(ga).CreateTables(); err != nil {
		t.Fatal(err)
	}
	if hits, misses := ga.ClosureCacheStats(); hits != 9 || misses != 7 {
		t.Errorf("expected second run to be served from the memo, have %d hits and %d misses", hits, misses)
	}
	if err := NewTableGenerator(ga, ClosureCacheSize(0)).CreateTables(); err != nil {
		t.Fatal(err)
	}
	if hits, misses := ga.ClosureCacheStats(); hits != 0 || misses != 0 {
		t.Errorf("expected no memo activity with memoization off, have %d and %d", hits, misses)
	}
}

func TestShiftReduceConflict(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsegen.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("SR")
	b.LHS("__FINAL__").N("E").End()
	b.LHS("E").N("E").T("+").N("E").End()
	b.LHS("E").T("n").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	err = NewTableGenerator(Analysis(g)).CreateTables()
	var cerr *ConflictError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected conflict error, have %v", err)
	}
	if cerr.Kind() != "shift/reduce" || cerr.Symbol.Name != "+" {
		t.Errorf("expected shift/reduce conflict on +, have %v", cerr)
	}
	if !strings.Contains(cerr.Error(), "E ➞ E + E •") {
		t.Errorf("expected conflicting items in error message, have %q", cerr.Error())
	}
}

func TestTableIsDeterministic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsegen.lr")
	defer teardown()
	//
	t1 := makeTables(t, makeExprGrammar(t)).Table()
	t2 := makeTables(t, makeExprGrammar(t)).Table()
	var d1, d2 bytes.Buffer
	if err := t1.Dump(&d1); err != nil {
		t.Fatal(err)
	}
	if err := t2.Dump(&d2); err != nil {
		t.Fatal(err)
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(d1.String()),
		B:        difflib.SplitLines(d2.String()),
		FromFile: "first",
		ToFile:   "second",
		Context:  2,
	})
	if err != nil {
		t.Fatal(err)
	}
	if diff != "" {
		t.Errorf("expected identical tables, diff is\n%s", diff)
	}
	f1, err := t1.Fingerprint()
	if err != nil {
		t.Fatal(err)
	}
	f2, _ := t2.Fingerprint()
	if f1 != f2 {
		t.Errorf("expected identical fingerprints, have %s and %s", f1, f2)
	}
	lrgen := NewTableGenerator(Analysis(makeExprGrammar(t)), ClosureCacheSize(0))
	if err := lrgen.CreateTables(); err != nil {
		t.Fatal(err)
	}
	if f3, _ := lrgen.Table().Fingerprint(); f3 != f1 {
		t.Errorf("expected closure memoization not to change the table")
	}
}

func TestExports(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsegen.lr")
	defer teardown()
	//
	lrgen := makeTables(t, makeExprGrammar(t))
	var html, dot bytes.Buffer
	if err := TableAsHTML(lrgen.Table(), &html); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(html.String(), "<td>s3</td>") || !strings.Contains(html.String(), "<td>acc</td>") {
		t.Errorf("expected shift and accept cells in HTML table")
	}
	if err := lrgen.CFSM().ToGraphViz(&dot); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(dot.String(), "digraph") {
		t.Errorf("expected Graphviz digraph, have %q", dot.String())
	}
}
