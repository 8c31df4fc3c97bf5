package backpatch

import (
	"github.com/npillmayer/dragon"
	"github.com/npillmayer/dragon/scanner/lexmach"
)

// Token types of boolean expressions.
const (
	tokIdent dragon.TokType = iota + 1
	tokNumber
	tokTrue
	tokFalse
	tokRelop
	tokArith
	tokOr
	tokAnd
	tokNot
	tokLParen
	tokRParen
)

var exprLexer = lexmach.Lazy(func() lexmach.Spec {
	return lexmach.Spec{
		Classes: []lexmach.Class{
			{Type: tokTrue, Name: "true", Words: []string{"true"}},
			{Type: tokFalse, Name: "false", Words: []string{"false"}},
			{Type: tokOr, Name: "||", Words: []string{"||"}},
			{Type: tokAnd, Name: "&&", Words: []string{"&&"}},
			{Type: tokNot, Name: "!", Words: []string{"!"}},
			{Type: tokLParen, Name: "(", Words: []string{"("}},
			{Type: tokRParen, Name: ")", Words: []string{")"}},
			{Type: tokRelop, Name: "relop", Words: []string{"<", "<=", ">", ">=", "==", "!="}},
			{Type: tokArith, Name: "arithop", Words: []string{"+", "-", "*", "/", "%"}},
			{Type: tokIdent, Name: "ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
			{Type: tokNumber, Name: "number", Pattern: `[0-9]+(\.[0-9]+)?`},
		},
		Skip: []string{`( |\t|\n|\r)+`},
	}
})

func tokenize(expr string) ([]dragon.Token, error) {
	lx, err := exprLexer()
	if err != nil {
		return nil, err
	}
	return lx.Tokenize(expr)
}
