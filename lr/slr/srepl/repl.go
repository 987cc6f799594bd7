package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/npillmayer/parsegen/lr"
	"github.com/npillmayer/parsegen/lr/scanner"
	"github.com/npillmayer/parsegen/lr/slr"
	"github.com/npillmayer/parsegen/lr/tree"
)

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

// We provide a simple expression grammar as a default.
//
//  __FINAL__ ➞ Expr
//  Expr      ➞ Expr + Term  |  Term
//  Term      ➞ Term * Factor  |  Factor
//  Factor    ➞ int  |  ( Expr )
//
const exprGrammar = `
__FINAL__=Expr
Expr=Expr,+,Term
Expr=Term
Term=Term,*,Factor
Term=Factor
Factor=int
Factor=(,Expr,)
`

// main() starts an interactive CLI ("S.REPL"), where users may enter input
// lines for a grammar. S.REPL will parse the input and print the parse tree.
func main() {
	// set up logging
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	gfile := flag.String("grammar", "", "Grammar file (LHS=a,b,c lines, or EBNF with -ebnf-start)")
	ebnfStart := flag.String("ebnf-start", "", "Read grammar file as EBNF, with this start production")
	dump := flag.Bool("dump", false, "Print the parser table and exit")
	html := flag.String("html", "", "Export the parser table as HTML to this file")
	dot := flag.String("dot", "", "Export the CFSM in Graphviz format to this file")
	flag.Parse()
	tracer().SetTraceLevel(tracing.LevelInfo) // will set the correct level later
	pterm.Info.Println("Welcome to SREPL")    // colored welcome message
	tracer().Infof("Trace level is %s", *tlevel)
	//
	// set up grammar and parser table
	level := traceLevel(*tlevel)
	tracer().SetTraceLevel(level)
	tracing.Select("parsegen.lr").SetTraceLevel(level)
	tracing.Select("parsegen.scanner").SetTraceLevel(level)
	g, err := loadGrammar(*gfile, *ebnfStart)
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(2)
	}
	g.Dump() // only visible in debug mode
	intp, err := newIntp(g)
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(2)
	}
	if err = intp.export(*html, *dot); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(2)
	}
	if *dump {
		intp.table.Dump(os.Stdout)
		os.Exit(0)
	}
	input := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if input != "" {
		tracer().Infof("Input argument is \"%s\"", input)
		if err := intp.Eval(input); err != nil {
			os.Exit(1)
		}
	}
	//
	// set up REPL
	repl, err := readline.New("srepl> ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	intp.repl = repl
	tracer().Infof("Quit with <ctrl>D") // inform user how to stop the CLI
	intp.REPL()                         // go into interactive mode
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func loadGrammar(filename, ebnfStart string) (*lr.Grammar, error) {
	if filename == "" {
		return lr.ReadGrammar("Expr", strings.NewReader(exprGrammar))
	}
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("unable to open grammar file: %w", err)
	}
	defer f.Close()
	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if ebnfStart != "" {
		return lr.ReadEBNF(name, filename, f, ebnfStart)
	}
	return lr.ReadGrammar(name, f)
}

// Intp is our interpreter object
type Intp struct {
	G        *lr.Grammar
	lrgen    *lr.TableGenerator
	table    *lr.Table
	parser   *slr.Parser
	repl     *readline.Instance
	literals []string
}

func newIntp(g *lr.Grammar) (*Intp, error) {
	lrgen := lr.NewTableGenerator(lr.Analysis(g))
	if err := lrgen.CreateTables(); err != nil {
		return nil, err
	}
	intp := &Intp{
		G:      g,
		lrgen:  lrgen,
		table:  lrgen.Table(),
		parser: slr.NewParser(lrgen.Table(), slr.ErrorHandler(func(err error) {
			pterm.Error.Println(err.Error())
		})),
	}
	g.EachTerminal(func(A *lr.Symbol) interface{} { // identifier-like terminals are keywords
		if !tokenCategories[A.Name] && isIdentifier(A.Name) {
			intp.literals = append(intp.literals, A.Name)
		}
		return nil
	})
	pterm.Info.Printf("Grammar %s: %s rules, %s states, %s table entries\n", g.Name,
		humanize.Comma(int64(g.Size())), humanize.Comma(int64(intp.table.States())),
		humanize.Comma(int64(intp.table.Size())))
	return intp, nil
}

func (intp *Intp) export(htmlfile, dotfile string) error {
	if htmlfile != "" {
		if err := writeFile(htmlfile, func(w io.Writer) error {
			return lr.TableAsHTML(intp.table, w)
		}); err != nil {
			return err
		}
	}
	if dotfile != "" {
		return writeFile(dotfile, intp.lrgen.CFSM().ToGraphViz)
	}
	return nil
}

func writeFile(filename string, write func(io.Writer) error) error {
	var b bytes.Buffer
	if err := write(&b); err != nil {
		return err
	}
	if err := os.WriteFile(filename, b.Bytes(), 0644); err != nil {
		return err
	}
	pterm.Info.Printf("Wrote %s to %s\n", humanize.Bytes(uint64(b.Len())), filename)
	return nil
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		if strings.HasPrefix(line, ":") {
			if quit := intp.Execute(strings.Fields(line[1:])); quit {
				break
			}
			continue
		}
		intp.Eval(line)
	}
	println("Good bye!")
}

// Execute executes a command line. It returns true if the REPL should quit.
func (intp *Intp) Execute(args []string) bool {
	if len(args) == 0 {
		return false
	}
	var err error
	switch args[0] {
	case "quit", "q":
		return true
	case "grammar":
		pterm.Println(intp.G.String())
	case "table":
		err = intp.table.Dump(os.Stdout)
	case "dot", "html":
		if len(args) != 2 {
			err = fmt.Errorf("usage: :%s <file>", args[0])
		} else if args[0] == "dot" {
			err = intp.export("", args[1])
		} else {
			err = intp.export(args[1], "")
		}
	default:
		err = fmt.Errorf("unknown command :%s", args[0])
	}
	if err != nil {
		pterm.Error.Println(err.Error())
	}
	return false
}

// Eval parses an input line and prints the parse tree.
func (intp *Intp) Eval(line string) error {
	tracer().Infof("----------------------- Parse ------------------------------------")
	scan := scanner.GoTokenizer("input", strings.NewReader(line), scanner.Literals(intp.literals...))
	root, err := intp.parser.Parse(scan)
	var perr *slr.ParseError
	if err != nil && !errors.As(err, &perr) {
		pterm.Error.Println(err.Error())
		return err
	}
	if root == nil {
		pterm.Error.Println(err.Error())
		return err
	}
	tracer().Infof("-------------------------- Output --------------------------------")
	pterm.DefaultTree.WithRoot(pterm.NewTreeFromLeveledList(leveledTree(root))).Render()
	if err != nil {
		pterm.Info.Printf("Recovered from %d syntax error(s)\n", len(perr.Errors))
	}
	return err
}

// leveledTree walks a parse tree and collects a leveled list for pterm.
func leveledTree(root *tree.Node) pterm.LeveledList {
	ll := &leveler{}
	tree.Walk(root, ll, tree.LtoR, tree.Continue)
	return ll.list
}

type leveler struct {
	list pterm.LeveledList
}

func (ll *leveler) EnterRule(n *tree.Node, ctxt tree.RuleCtxt) bool {
	ll.list = append(ll.list, pterm.LeveledListItem{
		Level: ctxt.Level,
		Text:  n.Symbol().Name,
	})
	return true
}

func (ll *leveler) ExitRule(*tree.Node, []interface{}, tree.RuleCtxt) interface{} {
	return nil
}

func (ll *leveler) Terminal(l *tree.Leaf, ctxt tree.RuleCtxt) interface{} {
	ll.list = append(ll.list, pterm.LeveledListItem{
		Level: ctxt.Level,
		Text:  fmt.Sprintf("%s %q", l.Symbol().Name, l.Token().Lexeme()),
	})
	return nil
}

var tokenCategories = map[string]bool{
	scanner.Ident: true, scanner.Int: true, scanner.Float: true,
	scanner.Char: true, scanner.String: true, scanner.Comment: true,
}

func isIdentifier(s string) bool {
	for i, r := range s {
		if !(r == '_' || 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || i > 0 && '0' <= r && r <= '9') {
			return false
		}
	}
	return s != ""
}

func traceLevel(l string) tracing.TraceLevel {
	return tracing.TraceLevelFromString(l)
}
