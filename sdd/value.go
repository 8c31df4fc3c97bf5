package sdd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrEval is the error class of failing attribute evaluations.
var ErrEval = errors.New("evaluation error")

// Value is an attribute value, either a float64 or a string.
type Value interface{}

// FormatValue returns the textual representation of an attribute value.
func FormatValue(v Value) string {
	switch x := v.(type) {
	case float64:
		return formatNumber(x)
	case string:
		return x
	case nil:
		return "<nil>"
	}
	return fmt.Sprintf("%v", v)
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// lexval converts a token text to a value, numeric if possible.
func lexval(text string) Value {
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return f
	}
	return text
}

type env interface {
	lookup(Ref) (Value, error)
}

func (e *NumExpr) eval(env) (Value, error) { return e.Value, nil }
func (e *StrExpr) eval(env) (Value, error) { return e.Value, nil }

func (e *RefExpr) eval(en env) (Value, error) {
	return en.lookup(e.Ref)
}

func (e *NegExpr) eval(en env) (Value, error) {
	v, err := e.X.eval(en)
	if err != nil {
		return nil, err
	}
	f, ok := v.(float64)
	if !ok {
		return nil, fmt.Errorf("%w: cannot negate %q", ErrEval, FormatValue(v))
	}
	return -f, nil
}

func (e *BinExpr) eval(en env) (Value, error) {
	l, err := e.Left.eval(en)
	if err != nil {
		return nil, err
	}
	r, err := e.Right.eval(en)
	if err != nil {
		return nil, err
	}
	if e.Op == '+' {
		ls, lok := l.(string)
		rs, rok := r.(string)
		if lok && rok {
			return ls + rs, nil
		}
	}
	a, aok := l.(float64)
	b, bok := r.(float64)
	if !aok || !bok {
		return nil, fmt.Errorf("%w: operator %c not applicable to %q and %q", ErrEval,
			e.Op, FormatValue(l), FormatValue(r))
	}
	switch e.Op {
	case '+':
		return a + b, nil
	case '-':
		return a - b, nil
	case '*':
		return a * b, nil
	case '/':
		if b == 0 {
			return nil, fmt.Errorf("%w: division by zero in %v", ErrEval, e)
		}
		return a / b, nil
	}
	return nil, fmt.Errorf("%w: unknown operator %c", ErrEval, e.Op)
}

func (e *CallExpr) eval(en env) (Value, error) {
	args := make([]Value, len(e.Args))
	for i, a := range e.Args {
		v, err := a.eval(en)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return builtins[e.Func](args)
}

// --- Builtins --------------------------------------------------------------

var builtins = map[string]func([]Value) (Value, error){
	"max": func(args []Value) (Value, error) {
		return extremum("max", args, func(a, b float64) bool { return a > b })
	},
	"min": func(args []Value) (Value, error) {
		return extremum("min", args, func(a, b float64) bool { return a < b })
	},
	"concat": func(args []Value) (Value, error) {
		var b strings.Builder
		for _, a := range args {
			b.WriteString(FormatValue(a))
		}
		return b.String(), nil
	},
	"str": func(args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: str expects 1 argument, has %d", ErrEval, len(args))
		}
		return FormatValue(args[0]), nil
	},
}

func extremum(name string, args []Value, better func(a, b float64) bool) (Value, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: %s expects at least 1 argument", ErrEval, name)
	}
	var r float64
	for i, a := range args {
		f, ok := a.(float64)
		if !ok {
			return nil, fmt.Errorf("%w: %s expects numbers, has %q", ErrEval, name, FormatValue(a))
		}
		if i == 0 || better(f, r) {
			r = f
		}
	}
	return r, nil
}
