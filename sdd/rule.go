package sdd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/dragon"
)

// ErrSyntax is the error class of malformed semantic rules.
var ErrSyntax = errors.New("syntax error in semantic rule")

// Ref is a reference to an attribute of a grammar symbol, e.g. E1.val.
type Ref struct {
	Symbol    string
	Attribute string
}

func (r Ref) String() string {
	return r.Symbol + "." + r.Attribute
}

// Rule is a compiled semantic rule 'Target = Expr'.
type Rule struct {
	Target Ref
	Expr   Expr
	Source string
}

func (r *Rule) String() string {
	return fmt.Sprintf("%v = %v", r.Target, r.Expr)
}

// Refs returns all attribute references of the rule's expression, in order of
// appearance.
func (r *Rule) Refs() []Ref {
	var refs []Ref
	walk(r.Expr, func(e Expr) {
		if ref, ok := e.(*RefExpr); ok {
			refs = append(refs, ref.Ref)
		}
	})
	return refs
}

// --- Expressions -----------------------------------------------------------

// Expr is a node of the expression tree of a semantic rule.
type Expr interface {
	String() string
	eval(scope env) (Value, error)
}

// NumExpr is a numeric literal.
type NumExpr struct{ Value float64 }

// StrExpr is a string literal.
type StrExpr struct{ Value string }

// RefExpr is an attribute reference.
type RefExpr struct{ Ref Ref }

// NegExpr is unary minus.
type NegExpr struct{ X Expr }

// BinExpr is a binary arithmetic operation.
type BinExpr struct {
	Op          byte
	Left, Right Expr
}

// CallExpr is a call of a builtin function.
type CallExpr struct {
	Func string
	Args []Expr
}

func (e *NumExpr) String() string { return formatNumber(e.Value) }
func (e *StrExpr) String() string { return strconv.Quote(e.Value) }
func (e *RefExpr) String() string { return e.Ref.String() }
func (e *NegExpr) String() string { return "-" + e.X.String() }

func (e *BinExpr) String() string {
	return fmt.Sprintf("(%v %c %v)", e.Left, e.Op, e.Right)
}

func (e *CallExpr) String() string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.String()
	}
	return e.Func + "(" + strings.Join(args, ", ") + ")"
}

func walk(e Expr, f func(Expr)) {
	f(e)
	switch x := e.(type) {
	case *NegExpr:
		walk(x.X, f)
	case *BinExpr:
		walk(x.Left, f)
		walk(x.Right, f)
	case *CallExpr:
		for _, a := range x.Args {
			walk(a, f)
		}
	}
}

// --- Parser ----------------------------------------------------------------

// Compile parses a semantic rule of the form 'X.a = expression'.
func Compile(rule string) (*Rule, error) {
	tokens, err := tokenize(rule)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrSyntax, err)
		tracer().Errorf("%v", err)
		return nil, err
	}
	p := &parser{tokens: tokens, input: rule}
	r, err := p.rule()
	if err != nil {
		tracer().Errorf("%v", err)
		return nil, err
	}
	tracer().Debugf("compiled rule %v", r)
	return r, nil
}

type parser struct {
	tokens []dragon.Token
	pos    int
	input  string
}

func (p *parser) peek() dragon.Token {
	if p.pos >= len(p.tokens) {
		return nil
	}
	return p.tokens[p.pos]
}

func (p *parser) is(typ dragon.TokType) bool {
	t := p.peek()
	return t != nil && t.TokType() == typ
}

func (p *parser) expect(typ dragon.TokType, what string) (dragon.Token, error) {
	if !p.is(typ) {
		return nil, p.errorf("expected %s", what)
	}
	t := p.peek()
	p.pos++
	return t, nil
}

func (p *parser) errorf(format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	if t := p.peek(); t != nil {
		return fmt.Errorf("%w at position %d (%q): %s", ErrSyntax, t.Span().From(), t.Lexeme(), msg)
	}
	return fmt.Errorf("%w at end of %q: %s", ErrSyntax, p.input, msg)
}

// rule := ref '=' expr
func (p *parser) rule() (*Rule, error) {
	if !p.is(tokIdent) {
		return nil, p.errorf("expected attribute reference")
	}
	target, err := p.ref()
	if err != nil {
		return nil, err
	}
	if _, err = p.expect(tokAssign, "'='"); err != nil {
		return nil, err
	}
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		return nil, p.errorf("unexpected input")
	}
	return &Rule{Target: target, Expr: e, Source: strings.TrimSpace(p.input)}, nil
}

// ref := ident '.' ident
func (p *parser) ref() (Ref, error) {
	sym, err := p.expect(tokIdent, "symbol")
	if err != nil {
		return Ref{}, err
	}
	if _, err = p.expect(tokDot, "'.'"); err != nil {
		return Ref{}, err
	}
	attr, err := p.expect(tokIdent, "attribute name")
	if err != nil {
		return Ref{}, err
	}
	return Ref{Symbol: sym.Lexeme(), Attribute: attr.Lexeme()}, nil
}

// expr := term { ('+'|'-') term }
func (p *parser) expr() (Expr, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.is(tokPlus) || p.is(tokMinus) {
		op := p.peek().Lexeme()[0]
		p.pos++
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = &BinExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

// term := unary { ('*'|'/') unary }
func (p *parser) term() (Expr, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.is(tokTimes) || p.is(tokDiv) {
		op := p.peek().Lexeme()[0]
		p.pos++
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = &BinExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

// unary := '-' unary | primary
func (p *parser) unary() (Expr, error) {
	if p.is(tokMinus) {
		p.pos++
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &NegExpr{X: x}, nil
	}
	return p.primary()
}

// primary := number | string | '(' expr ')' | ident '(' args ')' | ref
func (p *parser) primary() (Expr, error) {
	t := p.peek()
	if t == nil {
		return nil, p.errorf("unexpected end of rule")
	}
	switch t.TokType() {
	case tokNumber:
		p.pos++
		f, err := strconv.ParseFloat(t.Lexeme(), 64)
		if err != nil {
			return nil, p.errorf("illegal number %q", t.Lexeme())
		}
		return &NumExpr{Value: f}, nil
	case tokString:
		p.pos++
		s := t.Lexeme()
		return &StrExpr{Value: s[1 : len(s)-1]}, nil
	case tokLParen:
		p.pos++
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		if _, err = p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return e, nil
	case tokIdent:
		if p.pos+1 < len(p.tokens) && p.tokens[p.pos+1].TokType() == tokLParen {
			return p.call()
		}
		ref, err := p.ref()
		if err != nil {
			return nil, err
		}
		return &RefExpr{Ref: ref}, nil
	}
	return nil, p.errorf("unexpected token")
}

// call := ident '(' [ expr { ',' expr } ] ')'
func (p *parser) call() (Expr, error) {
	name := p.peek()
	if _, ok := builtins[name.Lexeme()]; !ok {
		return nil, p.errorf("unknown function %q", name.Lexeme())
	}
	p.pos += 2
	c := &CallExpr{Func: name.Lexeme()}
	if p.is(tokRParen) {
		p.pos++
		return c, nil
	}
	for {
		arg, err := p.expr()
		if err != nil {
			return nil, err
		}
		c.Args = append(c.Args, arg)
		if p.is(tokComma) {
			p.pos++
			continue
		}
		if _, err = p.expect(tokRParen, "')' or ','"); err != nil {
			return nil, err
		}
		return c, nil
	}
}
