package sdd

import (
	"github.com/npillmayer/dragon"
	"github.com/npillmayer/dragon/scanner/lexmach"
)

// Token types of semantic rules.
const (
	tokIdent dragon.TokType = iota + 1
	tokNumber
	tokString
	tokDot
	tokAssign
	tokPlus
	tokMinus
	tokTimes
	tokDiv
	tokLParen
	tokRParen
	tokComma
)

var ruleLexer = lexmach.Lazy(func() lexmach.Spec {
	classes := []lexmach.Class{
		{Type: tokIdent, Name: "ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_']*`},
		{Type: tokNumber, Name: "number", Pattern: `[0-9]+(\.[0-9]+)?`},
		{Type: tokString, Name: "string", Pattern: `"[^"]*"`},
	}
	for i, lit := range []string{".", "=", "+", "-", "*", "/", "(", ")", ","} {
		classes = append(classes, lexmach.Class{Type: tokDot + dragon.TokType(i), Name: lit, Words: []string{lit}})
	}
	return lexmach.Spec{Classes: classes, Skip: []string{`( |\t|\n|\r)+`}}
})

func tokenize(rule string) ([]dragon.Token, error) {
	lx, err := ruleLexer()
	if err != nil {
		return nil, err
	}
	return lx.Tokenize(rule)
}
