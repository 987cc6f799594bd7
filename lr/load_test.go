package lr

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestReadGrammar(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsegen.lr")
	defer teardown()
	//
	text := `
# optional o between a and b
S=a,O,b

O=o
O=
`
	g, err := ReadGrammar("Opt", strings.NewReader(text))
	if err != nil {
		t.Fatal(err)
	}
	g.Dump()
	if g.Size() != 4 {
		t.Fatalf("expected 4 rules, have %d", g.Size())
	}
	if !g.Rule(2).IsEpsilon() || g.Rule(2).LHS.Name != "O" {
		t.Errorf("expected rule #2 to be an epsilon rule for O, is %v", g.Rule(2))
	}
	if r := g.Rule(3); r.LHS != g.Final() || r.Len() != 1 || r.At(0).Name != "S" {
		t.Errorf("expected top-level rule __FINAL__ ➞ S, is %v", r)
	}
	for _, name := range []string{"a", "b", "o"} {
		if !g.SymbolByName(name).IsTerminal() {
			t.Errorf("expected %s to be a terminal", name)
		}
	}
	if err := NewTableGenerator(Analysis(g)).CreateTables(); err != nil {
		t.Error(err)
	}
}

func TestReadGrammarWithFinal(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsegen.lr")
	defer teardown()
	//
	text := "__FINAL__=E\nE=E,+,T\nE=T\nT=n\n"
	g, err := ReadGrammar("E", strings.NewReader(text))
	if err != nil {
		t.Fatal(err)
	}
	if g.Size() != 4 || g.Rule(0).LHS != g.Final() {
		t.Errorf("expected 4 rules, starting with the top-level rule, have\n%s", g)
	}
}

func TestReadGrammarErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsegen.lr")
	defer teardown()
	//
	for _, text := range []string{
		"",
		"# comments only\n",
		"S=a\nS a b\n",
		"=a\n",
		"S T=a\n",
		"S=a,,b\n",
	} {
		if _, err := ReadGrammar("broken", strings.NewReader(text)); err == nil {
			t.Errorf("expected error for grammar %q", text)
		}
	}
	_, err := ReadGrammar("broken", strings.NewReader("S=a\n\nS a\n"))
	if err == nil || !strings.Contains(err.Error(), "line 3") {
		t.Errorf("expected error for line 3, have %v", err)
	}
}
