/*
Package scanner defines an interface for the scanners which tokenize the textual
input of the engines in this module: three-address code, boolean expressions and
semantic rules.

A default scanner implementation lives in sub-package `lexmach`, an adapter for
lexmachine.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package scanner

import (
	"fmt"

	"github.com/npillmayer/dragon"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'dragon.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("dragon.scanner")
}

// EOF is the token type signalling the end of input.
const EOF dragon.TokType = -1

// Tokenizer is a scanner interface.
type Tokenizer interface {
	NextToken() dragon.Token
	SetErrorHandler(func(error))
}

// --- Default tokens --------------------------------------------------------

// DefaultToken is a very unsophisticated token type, used by the lexmachine adapter.
type DefaultToken struct {
	kind   dragon.TokType
	lexeme string
	Val    interface{}
	span   dragon.Span
}

var _ dragon.Token = DefaultToken{}

// MakeDefaultToken creates a token without a value.
func MakeDefaultToken(typ dragon.TokType, lexeme string, span dragon.Span) DefaultToken {
	return DefaultToken{
		kind:   typ,
		lexeme: lexeme,
		span:   span,
	}
}

func (t DefaultToken) TokType() dragon.TokType {
	return t.kind
}

func (t DefaultToken) Value() interface{} {
	return t.Val
}

func (t DefaultToken) Lexeme() string {
	return t.lexeme
}

func (t DefaultToken) Span() dragon.Span {
	return t.span
}

func (t DefaultToken) String() string {
	return fmt.Sprintf("<%d|%q>", t.kind, t.lexeme)
}

// --- Collecting tokens -----------------------------------------------------

// Tokens drains a tokenizer and returns all tokens up to, but not including, EOF.
// The first scanner error encountered is returned, together with the tokens
// which could be read anyway.
func Tokens(tok Tokenizer) ([]dragon.Token, error) {
	var firstErr error
	tok.SetErrorHandler(func(e error) {
		tracer().Debugf("scanner error: %v", e)
		if firstErr == nil {
			firstErr = e
		}
	})
	var tokens []dragon.Token
	for {
		t := tok.NextToken()
		if t.TokType() == EOF {
			break
		}
		tokens = append(tokens, t)
	}
	return tokens, firstErr
}

// Lexeme is a helper function to receive a string from a token.
func Lexeme(token interface{}) string {
	switch t := token.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case dragon.Token:
		return t.Lexeme()
	default:
		return fmt.Sprintf("%v", t)
	}
}
