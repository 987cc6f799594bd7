package lr

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

const exprEBNF = `
Expr = Term { ( "+" | "-" ) Term } .
Term = int | "(" Expr ")" .
int  = "0" … "9" .
`

func TestReadEBNF(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsegen.lr")
	defer teardown()
	//
	g, err := ReadEBNF("Expr", "expr.ebnf", strings.NewReader(exprEBNF), "Expr")
	if err != nil {
		t.Fatal(err)
	}
	g.Dump()
	expected := []string{
		"__FINAL__ ::= [Expr]",
		"Expr_2 ::= [+]",
		"Expr_2 ::= [-]",
		"Expr_1 ::= [Expr_1 Expr_2 Term]",
		"Expr_1 ::= []",
		"Expr ::= [Term Expr_1]",
		"Term ::= [int]",
		"Term ::= [( Expr )]",
	}
	if g.Size() != len(expected) {
		t.Fatalf("expected %d rules, have\n%s", len(expected), g)
	}
	for k, r := range expected {
		if g.Rule(k).String() != r {
			t.Errorf("expected rule #%d to be %s, is %s", k, r, g.Rule(k))
		}
	}
	if !g.SymbolByName("int").IsTerminal() || g.SymbolByName("Expr_1").IsTerminal() {
		t.Errorf("expected int to be a terminal and Expr_1 to be a non-terminal")
	}
	if err := NewTableGenerator(Analysis(g)).CreateTables(); err != nil {
		t.Error(err)
	}
}

func TestReadEBNFOption(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsegen.lr")
	defer teardown()
	//
	g, err := ReadEBNF("Opt", "opt.ebnf", strings.NewReader(`S = "a" [ "o" ] "b" .`), "S")
	if err != nil {
		t.Fatal(err)
	}
	O := g.SymbolByName("S_1")
	if O == nil || len(g.FindNonTermRules(O)) != 2 {
		t.Fatalf("expected two rules for option S_1, have\n%s", g)
	}
}

func TestReadEBNFErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsegen.lr")
	defer teardown()
	//
	for _, x := range []struct{ text, start string }{
		{`Expr = Term .`, "Expr"},          // undefined
		{`Expr = "a" … "z" .`, "Expr"},     // range in rule
		{`expr = "a" .`, "expr"},           // lexical start
		{`Expr = "a" . Other = "b" .`, ""}, // no start
		{`Expr = "a" `, "Expr"},            // syntax
	} {
		if _, err := ReadEBNF("broken", "broken.ebnf", strings.NewReader(x.text), x.start); err == nil {
			t.Errorf("expected error for EBNF %q", x.text)
		}
	}
}
