package ll

import (
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/dragon/grammar"
)

// ErrSyntax is returned by Parse if the input is not in the language.
var ErrSyntax = errors.New("syntax error")

// Step is one move of the predictive parser.
type Step struct {
	Stack  []string // bottom first
	Input  []string // remaining input, including EOF
	Action string
}

func (s Step) String() string {
	return fmt.Sprintf("%-20s %20s   %s", strings.Join(s.Stack, " "),
		strings.Join(s.Input, " "), s.Action)
}

// Trace is the record of a predictive parse. Derivation lists the productions
// applied, i.e. a leftmost derivation of the input.
type Trace struct {
	Steps      []Step
	Derivation []*grammar.Production
	Accepted   bool
}

// Parse runs a table-driven predictive parser on input, a sequence of
// terminals. EOF is appended if missing. For cells with a conflict the first
// production is chosen. If this makes a non-terminal expand into itself without
// consuming input, as for left-recursive rules, parsing stops with ErrSyntax.
//
// The trace is returned even if parsing fails.
func Parse(t *Table, input []string) (*Trace, error) {
	g := t.Grammar
	tokens := append([]string(nil), input...)
	if len(tokens) == 0 || tokens[len(tokens)-1] != grammar.EOF {
		tokens = append(tokens, grammar.EOF)
	}
	trace := &Trace{}
	stack := []string{grammar.EOF, g.Start}
	pos := 0
	// non-terminals expanded at the current position, with the stack height
	// below them; an entry is dropped once its expansion has been popped
	expanded := make(map[string]int)
	record := func(action string) {
		trace.Steps = append(trace.Steps, Step{
			Stack:  append([]string(nil), stack...),
			Input:  append([]string(nil), tokens[pos:]...),
			Action: action,
		})
	}
	for {
		X := stack[len(stack)-1]
		a := tokens[pos]
		if X == grammar.EOF {
			if a == grammar.EOF {
				record("accept")
				trace.Accepted = true
				return trace, nil
			}
			record("error")
			return trace, fmt.Errorf("%w: unexpected %q after end of derivation", ErrSyntax, a)
		}
		if !g.IsNonTerminal(X) {
			if X != a {
				record("error")
				err := fmt.Errorf("%w: expected %q, found %q at position %d", ErrSyntax, X, a, pos)
				tracer().Errorf("%v", err)
				return trace, err
			}
			record("match " + a)
			stack = stack[:len(stack)-1]
			pos++
			expanded = make(map[string]int)
			continue
		}
		prods := t.Entry(X, a)
		if len(prods) == 0 {
			record("error")
			err := fmt.Errorf("%w: no rule for %s on %q at position %d", ErrSyntax, X, a, pos)
			tracer().Errorf("%v", err)
			return trace, err
		}
		p := prods[0]
		if _, ok := expanded[X]; ok {
			record("error")
			err := fmt.Errorf("%w: %s derives itself without consuming input at position %d",
				ErrSyntax, X, pos)
			tracer().Errorf("%v", err)
			return trace, err
		}
		expanded[X] = len(stack) - 1
		record(p.String())
		trace.Derivation = append(trace.Derivation, p)
		stack = stack[:len(stack)-1]
		rhs := p.Symbols()
		for i := len(rhs) - 1; i >= 0; i-- {
			stack = append(stack, rhs[i])
		}
		for A, base := range expanded {
			if base >= len(stack) {
				delete(expanded, A)
			}
		}
	}
}
