/*
Package lexmach plugs the lexmachine scanner generator into the parsers of
package slr.

An introduction to lexmachine may be found at
https://hackthology.com/how-to-tokenize-complex-strings-with-lexmachine.html

Clients add their regular expressions in a setup function. Literals and
keywords are passed separately and get a pattern each:

	setup := func(dfa *lexmachine.Lexer) {
		dfa.Add([]byte(`( |\t|\n)+`), lexmach.Skip)
		dfa.Add([]byte(`[0-9]+`), lexmach.MakeToken("NUM"))
	}
	lexer, err := lexmach.New(setup, []string{"(", ")"}, []string{"nil"})

New fails if lexmachine cannot compile the DFA. Every input gets its own
scanner, which is a scanner.Tokenizer and may be handed to a parser:

	scan, err := lexer.Scan("(nil 42)")
	…
	tree, err := parser.Parse(scan)

Clients needing a different lexmachine setup may write their own wrapper
around lexmachine; all a parser needs is a scanner.Tokenizer.

________________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lexmach
