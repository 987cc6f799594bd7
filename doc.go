/*
Package parsegen is an SLR parser generator toolbox.

From a grammar it derives a table-driven automaton, then drives that automaton
over a token stream to produce a parse tree. Package structure is
as follows:

■ lr: Package lr implements grammars, grammar analysis (START and FOLLOW sets),
the characteristic finite state machine and the construction of parser tables.

■ lr/slr: Package slr implements the automaton driver, i.e. the parser proper,
including panic-mode error recovery.

■ lr/tree: Package tree implements the parse trees produced by the parser, with
support for in-place rewriting.

■ lr/scanner: Package scanner defines the token source the parser consumes.

The base package contains data types which are used throughout all the other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package parsegen
