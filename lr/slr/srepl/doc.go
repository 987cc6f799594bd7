/*
Package srepl/main provides an interactive command line tool (S.REPL)
for SLR(1) grammars. It reads a grammar, constructs the parser table and
then parses input lines, printing the resulting parse trees. S.REPL serves as
a sandbox for experiments with grammars, useful for early stages of
parser/interpreter development.

Input lines are tokenized with the Go tokenizer of package scanner. Lines
starting with a colon are commands:

    :grammar           print the rules of the grammar
    :table             print the parser table
    :dot <file>        export the CFSM in Graphviz Dot format
    :html <file>       export the parser table as HTML
    :quit              leave S.REPL


License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

package main

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'parsegen.repl'
func tracer() tracing.Trace {
	return tracing.Select("parsegen.repl")
}
