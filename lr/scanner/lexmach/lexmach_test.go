package lexmach

import (
	"testing"

	"github.com/npillmayer/parsegen/lr/scanner"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/timtadh/lexmachine"
)

var inputStrings = []string{
	"1",
	"1+12",
	"Hello #World",
	`x="mystring" // commented `,
	"1,22,333",
}

var TokenCounts = []int{1, 3, 2, 3, 3}

func TestTokenCounts(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsegen.scanner")
	defer teardown()
	//
	lexer, err := New(lispInit, literals, keywords)
	if err != nil {
		t.Fatal(err)
	}
	for i, input := range inputStrings {
		t.Logf("------+-----------------+--------")
		sc, err := lexer.Scan(input)
		if err != nil {
			t.Error(err)
		}
		token := sc.NextToken()
		count := 0
		for token.Symbol() != scanner.EOF {
			t.Logf(" %6s | %15s | @%5d", token.Symbol(), token.Lexeme(), token.Span().From())
			token = sc.NextToken()
			count++
		}
		if count != TokenCounts[i] {
			t.Errorf("Expected token count for #%d to be %d, is %d", i, TokenCounts[i], count)
		}
	}
	t.Logf("------+-----------------+--------")
}

func TestSymbolsAndLines(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsegen.scanner")
	defer teardown()
	//
	lexer, err := New(lispInit, literals, keywords)
	if err != nil {
		t.Fatal(err)
	}
	sc, _ := lexer.Scan("(x\n 42)")
	expected := []struct {
		symbol string
		line   int
	}{
		{"(", 1}, {"ID", 1}, {"NUM", 2}, {")", 2},
	}
	for _, x := range expected {
		token := sc.NextToken()
		if token.Symbol() != x.symbol || token.Line() != x.line {
			t.Errorf("expected %s on line %d, have %s on line %d", x.symbol, x.line,
				token.Symbol(), token.Line())
		}
	}
	if eof := sc.NextToken(); eof.Symbol() != scanner.EOF || eof.Line() != 2 {
		t.Errorf("expected end of input on line 2, have %v", eof)
	}
}

func TestSkipUnmatchedInput(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsegen.scanner")
	defer teardown()
	//
	lexer, err := New(lispInit, literals, keywords)
	if err != nil {
		t.Fatal(err)
	}
	sc, _ := lexer.Scan("( ; )")
	var errs []error
	sc.SetErrorHandler(func(e error) { errs = append(errs, e) })
	var symbols []string
	for token := sc.NextToken(); token.Symbol() != scanner.EOF; token = sc.NextToken() {
		symbols = append(symbols, token.Symbol())
	}
	if len(symbols) != 2 || symbols[0] != "(" || symbols[1] != ")" {
		t.Errorf("expected literals ( and ), have %v", symbols)
	}
	if len(errs) != 1 {
		t.Errorf("expected 1 error for ';', have %v", errs)
	}
	if eof := sc.NextToken(); eof.Span().From() != 5 {
		t.Errorf("expected end of input at position 5, is %d", eof.Span().From())
	}
}

func TestCompileError(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsegen.scanner")
	defer teardown()
	//
	broken := func(dfa *lexmachine.Lexer) {
		dfa.Add([]byte(`[a-`), Skip)
	}
	if _, err := New(broken, nil, nil); err == nil {
		t.Errorf("expected invalid pattern to fail compilation")
	}
}

var literals = []string{
	"'",
	"(",
	")",
	"[",
	"]",
	"=",
	"+",
	"-",
	"*",
	"/",
}

var keywords = []string{
	"nil",
	"t",
}

func lispInit(lexer *lexmachine.Lexer) {
	lexer.Add([]byte(`//[^\n]*\n?`), Skip)
	lexer.Add([]byte(`\"[^"]*\"`), MakeToken("STRING"))
	lexer.Add([]byte(`#?([a-z]|[A-Z])([a-z]|[A-Z]|[0-9]|_|-)*[!\?]?`), MakeToken("ID"))
	lexer.Add([]byte(`[1-9][0-9]*`), MakeToken("NUM"))
	lexer.Add([]byte(`( |\,|\t|\n|\r)+`), Skip)
}
