package tac

import (
	"github.com/npillmayer/dragon"
	"github.com/npillmayer/dragon/scanner/lexmach"
)

// Token types of three-address code.
const (
	tokIdent dragon.TokType = iota + 1
	tokNumber
	tokIf
	tokGoto
	tokOp    // arithmetic, relational and logical operators
	tokPunct // '=', ':', '(', ')', '[', ']', ','
)

// tacLexer returns the shared scanner for three-address code.
var tacLexer = lexmach.Lazy(func() lexmach.Spec {
	return lexmach.Spec{
		Classes: []lexmach.Class{
			{Type: tokIf, Name: "if", Words: []string{"if"}},
			{Type: tokGoto, Name: "goto", Words: []string{"goto"}},
			{Type: tokOp, Name: "operator", Words: []string{"+", "-", "*", "/", "%",
				"<", ">", "<=", ">=", "==", "!=", "&&", "||", "!", "&", "|", "^"}},
			{Type: tokPunct, Name: "punctuation", Words: []string{"=", ":", "(", ")", "[", "]", ","}},
			{Type: tokIdent, Name: "ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_'.]*`},
			{Type: tokNumber, Name: "number", Pattern: `[0-9]+(\.[0-9]+)?`},
		},
		Skip: []string{`( |\t|\r)+`},
	}
})

// tokenize splits a line of three-address code into tokens.
func tokenize(line string) ([]dragon.Token, error) {
	lx, err := tacLexer()
	if err != nil {
		return nil, err
	}
	return lx.Tokenize(line)
}
