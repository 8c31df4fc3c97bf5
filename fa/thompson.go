package fa

import (
	"errors"
	"fmt"
)

// ErrSyntax is the error class of malformed regular expressions.
var ErrSyntax = errors.New("regex syntax error")

// Fragment is a partial automaton during Thompson's construction. Fragments are
// consumed when they are combined into a larger one; the End state of a consumed
// fragment loses its accepting flag.
type Fragment struct {
	Start *NFAState
	End   *NFAState
}

// --- Tokens of a regular expression ----------------------------------------

type rxKind int

const (
	rxLiteral rxKind = iota
	rxUnion
	rxConcat
	rxStar
	rxPlus
	rxOptional
	rxOpen
	rxClose
)

type rxToken struct {
	kind rxKind
	r    rune
	pos  int
}

func (t rxToken) String() string {
	switch t.kind {
	case rxLiteral:
		return string(t.r)
	case rxConcat:
		return "·"
	}
	return string(t.r)
}

// precedence: union < concatenation < closures
func (t rxToken) precedence() int {
	switch t.kind {
	case rxUnion:
		return 1
	case rxConcat:
		return 2
	case rxStar, rxPlus, rxOptional:
		return 3
	}
	return 0
}

func (t rxToken) isPostfix() bool {
	return t.kind == rxStar || t.kind == rxPlus || t.kind == rxOptional
}

// tokenize splits a regular expression into tokens. A backslash escapes the
// following rune.
func tokenize(regex string) ([]rxToken, error) {
	var tokens []rxToken
	escaped := false
	pos := 0
	for _, r := range regex {
		pos++
		if escaped {
			tokens = append(tokens, rxToken{kind: rxLiteral, r: r, pos: pos})
			escaped = false
			continue
		}
		var kind rxKind
		switch r {
		case '\\':
			escaped = true
			continue
		case '|':
			kind = rxUnion
		case '*':
			kind = rxStar
		case '+':
			kind = rxPlus
		case '?':
			kind = rxOptional
		case '(':
			kind = rxOpen
		case ')':
			kind = rxClose
		default:
			kind = rxLiteral
		}
		tokens = append(tokens, rxToken{kind: kind, r: r, pos: pos})
	}
	if escaped {
		return nil, fmt.Errorf("%w: dangling escape at end of %q", ErrSyntax, regex)
	}
	return tokens, nil
}

// insertConcat makes concatenation explicit. A concatenation operator is
// inserted between a literal, a closing parenthesis or a closure on the left and
// a literal or an opening parenthesis on the right.
func insertConcat(tokens []rxToken) []rxToken {
	if len(tokens) == 0 {
		return tokens
	}
	r := make([]rxToken, 0, 2*len(tokens))
	for i, t := range tokens {
		if i > 0 {
			prev := tokens[i-1]
			left := prev.kind == rxLiteral || prev.kind == rxClose || prev.isPostfix()
			right := t.kind == rxLiteral || t.kind == rxOpen
			if left && right {
				r = append(r, rxToken{kind: rxConcat, r: '·', pos: t.pos})
			}
		}
		r = append(r, t)
	}
	return r
}

// toPostfix converts infix tokens to postfix by the shunting-yard algorithm.
// All binary operators are left-associative.
func toPostfix(tokens []rxToken) ([]rxToken, error) {
	var output, ops []rxToken
	for _, t := range tokens {
		switch t.kind {
		case rxLiteral:
			output = append(output, t)
		case rxOpen:
			ops = append(ops, t)
		case rxClose:
			found := false
			for len(ops) > 0 {
				top := ops[len(ops)-1]
				ops = ops[:len(ops)-1]
				if top.kind == rxOpen {
					found = true
					break
				}
				output = append(output, top)
			}
			if !found {
				return nil, fmt.Errorf("%w: unmatched ')' at position %d", ErrSyntax, t.pos)
			}
		default:
			for len(ops) > 0 {
				top := ops[len(ops)-1]
				if top.kind == rxOpen || top.precedence() < t.precedence() {
					break
				}
				output = append(output, top)
				ops = ops[:len(ops)-1]
			}
			ops = append(ops, t)
		}
	}
	for len(ops) > 0 {
		top := ops[len(ops)-1]
		ops = ops[:len(ops)-1]
		if top.kind == rxOpen {
			return nil, fmt.Errorf("%w: unmatched '(' at position %d", ErrSyntax, top.pos)
		}
		output = append(output, top)
	}
	return output, nil
}

// Postfix returns the postfix form of a regular expression, with concatenation
// made explicit as '·'. It is a debugging and display helper.
func Postfix(regex string) (string, error) {
	tokens, err := tokenize(regex)
	if err != nil {
		return "", err
	}
	postfix, err := toPostfix(insertConcat(tokens))
	if err != nil {
		return "", err
	}
	s := ""
	for _, t := range postfix {
		s += t.String()
	}
	return s, nil
}

// --- Thompson's construction -----------------------------------------------

// Thompson constructs an NFA for a regular expression. Supported are literals,
// union '|', concatenation, Kleene star '*', '+', '?' and parentheses; '\'
// escapes an operator character.
//
// The start state of the resulting NFA is a dedicated state without incoming
// transitions.
func Thompson(regex string) (*NFA, error) {
	return construct(regex, false)
}

// ThompsonSimplified constructs an NFA for the same expressions as Thompson,
// with fewer states and ε-transitions: a concatenation merges the end state of
// its left operand with the start state of its right operand, and no extra
// start state is added. The start state still has no incoming transitions.
func ThompsonSimplified(regex string) (*NFA, error) {
	return construct(regex, true)
}

func construct(regex string, simplified bool) (*NFA, error) {
	tokens, err := tokenize(regex)
	if err != nil {
		return nil, err
	}
	postfix, err := toPostfix(insertConcat(tokens))
	if err != nil {
		tracer().Errorf("%v", err)
		return nil, err
	}
	nfa := &NFA{Regex: regex}
	var stack []Fragment
	pop := func(t rxToken) (Fragment, error) {
		if len(stack) == 0 {
			return Fragment{}, fmt.Errorf("%w: missing operand for '%s' at position %d",
				ErrSyntax, t, t.pos)
		}
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return f, nil
	}
	for _, t := range postfix {
		switch t.kind {
		case rxLiteral:
			s, e := nfa.newState(), nfa.newState()
			s.addTransition(t.r, e)
			e.IsAccepting = true
			stack = append(stack, Fragment{Start: s, End: e})
		case rxConcat:
			b, err := pop(t)
			if err != nil {
				return nil, err
			}
			a, err := pop(t)
			if err != nil {
				return nil, err
			}
			if simplified {
				nfa.merge(a.End, b.Start)
			} else {
				a.End.addTransition(Epsilon, b.Start)
			}
			a.End.IsAccepting = false
			stack = append(stack, Fragment{Start: a.Start, End: b.End})
		case rxUnion:
			b, err := pop(t)
			if err != nil {
				return nil, err
			}
			a, err := pop(t)
			if err != nil {
				return nil, err
			}
			s, e := nfa.newState(), nfa.newState()
			s.addTransition(Epsilon, a.Start)
			s.addTransition(Epsilon, b.Start)
			a.End.addTransition(Epsilon, e)
			b.End.addTransition(Epsilon, e)
			a.End.IsAccepting, b.End.IsAccepting = false, false
			e.IsAccepting = true
			stack = append(stack, Fragment{Start: s, End: e})
		case rxStar, rxPlus, rxOptional:
			a, err := pop(t)
			if err != nil {
				return nil, err
			}
			s, e := nfa.newState(), nfa.newState()
			s.addTransition(Epsilon, a.Start)
			if t.kind != rxPlus {
				s.addTransition(Epsilon, e) // skip
			}
			if t.kind != rxOptional {
				a.End.addTransition(Epsilon, a.Start) // loop back
			}
			a.End.addTransition(Epsilon, e)
			a.End.IsAccepting = false
			e.IsAccepting = true
			stack = append(stack, Fragment{Start: s, End: e})
		}
	}
	if len(stack) != 1 {
		err := fmt.Errorf("%w: malformed expression %q", ErrSyntax, regex)
		tracer().Errorf("%v", err)
		return nil, err
	}
	f := stack[0]
	if simplified {
		nfa.Start, nfa.End = f.Start, f.End
		nfa.renumber()
	} else {
		start := nfa.newState()
		start.addTransition(Epsilon, f.Start)
		nfa.Start, nfa.End = start, f.End
	}
	tracer().Debugf("NFA for %q has %d states", regex, len(nfa.States))
	return nfa, nil
}

// merge moves the transitions of state from to state into and drops from.
// from must not have incoming transitions, which holds for the start state of
// any fragment.
func (nfa *NFA) merge(into, from *NFAState) {
	for _, sym := range from.Symbols() {
		for _, t := range from.Transitions[sym] {
			into.addTransition(sym, t)
		}
	}
	from.Transitions = nil
}

// renumber removes dropped states and assigns consecutive IDs in order of
// creation.
func (nfa *NFA) renumber() {
	states := nfa.States[:0]
	for _, s := range nfa.States {
		if s.Transitions == nil {
			continue
		}
		s.ID = len(states)
		states = append(states, s)
	}
	nfa.States = states
}
