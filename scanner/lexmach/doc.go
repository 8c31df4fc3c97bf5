/*
Package lexmach builds the tokenizers of this module with the lexmachine scanner
generator.

For more information on lexmachine, see e.g.
https://hackthology.com/how-to-tokenize-complex-strings-with-lexmachine.html

An input language is described by a Spec: a list of token classes, each with a
dragon.TokType, a name, an optional pattern and optional literal words, plus
patterns for input to skip.

	var tacSpec = lexmach.Spec{
		Classes: []lexmach.Class{
			{Type: tokIdent, Name: "ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
			{Type: tokGoto, Name: "goto", Words: []string{"goto"}},
			{Type: tokOp, Name: "op", Words: []string{"+", "-", "<="}},
		},
		Skip: []string{`( |\t)+`},
	}

Words are matched before patterns, so "goto" is a keyword, while "gotox" is
an identifier. Compiling a Spec yields a Lexer; Lazy defers compilation to
first use and shares the result:

	var tacLexer = lexmach.Lazy(func() lexmach.Spec { return tacSpec })

	lx, err := tacLexer()
	tokens, err := lx.Tokenize("if x <= 3 goto 7")

Tokens are scanner.DefaultTokens with the class name as value.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lexmach
