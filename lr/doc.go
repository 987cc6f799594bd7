/*
Package lr implements prerequisites for SLR(1) parsing: grammars, grammar
analysis and the construction of parser tables.

Building a Grammar

Grammars are specified using a grammar builder object. Clients add
rules, consisting of non-terminal symbols and terminals. Symbols are plain
names; a symbol is a non-terminal if and only if there is a rule for it.
The top-level non-terminal is called "__FINAL__", unless configured otherwise
with GrammarBuilder.Final. Grammars may contain epsilon-productions.

Example:

    b := lr.NewGrammarBuilder("G")
    b.LHS("__FINAL__").N("S").End()    // __FINAL__  ->  S
    b.LHS("S").N("A").T("a").End()     // S  ->  A a
    b.LHS("A").N("B").N("D").End()     // A  ->  B D
    b.LHS("B").T("b").End()            // B  ->  b
    b.LHS("D").T("d").End()            // D  ->  d
    g, err := b.Grammar()

This results in the following trivial grammar:

   g.Dump()

   0: __FINAL__ ::= [S]
   1: S ::= [A a]
   2: A ::= [B D]
   3: B ::= [b]
   4: D ::= [d]

Grammars may as well be read from text, either in a simple line format
(see ReadGrammar) or in EBNF (see ReadEBNF).

Static Grammar Analysis

After the grammar is complete, it has to be analysed. For this end, the
grammar is subjected to an LRAnalysis object, which computes START and
FOLLOW sets for the grammar's non-terminals.

    ga := lr.Analysis(g)  // analyser for grammar above
    ga.Grammar().EachNonTerminal(
        func(A *lr.Symbol) interface{} {                         // ad-hoc mapper function
            fmt.Printf("START(%s) = %v\n", A, ga.StartSymbols(A))
            return nil
        })

    // Output:
    START(__FINAL__) = [b]
    START(S) = [b]
    START(A) = [b]
    START(B) = [b]
    START(D) = [d]

FOLLOW sets deliberately deviate from the textbook definition: every
occurrence of a non-terminal at the end of a rule adds end of input to its
FOLLOW set.

Parser Construction

Using grammar analysis as input, a bottom-up parser can be constructed.
First a characteristic finite state machine (CFSM) is built from the
grammar, and during its construction a single SLR(1) table holding shift,
goto, reduce and done actions is filled. A conflict aborts construction.
The CFSM will not be thrown away, but is made available to the client.
This is intended for debugging purposes. It can be exported to Graphviz's
Dot-format.

Example:

    lrgen := lr.NewTableGenerator(ga)  // ga is a LRAnalysis, see above
    if err := lrgen.CreateTables(); err != nil {
        var conflict *lr.ConflictError
        ...
    }
    table := lrgen.Table()

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lr

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'parsegen.lr'.
func tracer() tracing.Trace {
	return tracing.Select("parsegen.lr")
}
