package ll

import (
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/dragon/grammar"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

const exprLL = `
E  -> T E'
E' -> + T E' | ε
T  -> F T'
T' -> * F T' | ε
F  -> ( E ) | id
`

func buildTable(text string) *Table {
	g := grammar.Parse(text)
	return BuildTable(g, grammar.Analyse(g))
}

func TestExpressionTable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.ll")
	defer teardown()
	//
	table := buildTable(exprLL)
	if !table.IsLL1() {
		t.Fatalf("expected expression grammar to be LL(1), conflicts: %v", table.Conflicts)
	}
	if cols := strings.Join(table.Columns, " "); cols != "+ * ( ) id $" {
		t.Errorf("unexpected columns: %s", cols)
	}
	tests := []struct {
		A, a, prod string
	}{
		{"E", "id", "E → T E'"},
		{"E", "(", "E → T E'"},
		{"E'", "+", "E' → + T E'"},
		{"E'", ")", "E' → ε"},
		{"E'", "$", "E' → ε"},
		{"T'", "+", "T' → ε"},
		{"T'", "*", "T' → * F T'"},
		{"F", "(", "F → ( E )"},
	}
	for _, test := range tests {
		prods := table.Entry(test.A, test.a)
		if len(prods) != 1 || prods[0].String() != test.prod {
			t.Errorf("M[%s, %s]: expected %s, got %v", test.A, test.a, test.prod, prods)
		}
	}
	if prods := table.Entry("E", "+"); len(prods) != 0 {
		t.Errorf("expected M[E, +] to be empty, is %v", prods)
	}
}

func TestSharedPrefixConflict(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.ll")
	defer teardown()
	//
	table := buildTable("A -> a | a b")
	if table.IsLL1() {
		t.Fatalf("expected A → a | a b not to be LL(1)")
	}
	if len(table.Conflicts) != 1 {
		t.Fatalf("expected 1 conflict, have %d", len(table.Conflicts))
	}
	c := table.Conflicts[0]
	if c.NonTerminal != "A" || c.Terminal != "a" || len(c.Productions) != 2 {
		t.Errorf("unexpected conflict %v", c)
	}
	if len(table.Entry("A", "a")) != 2 {
		t.Errorf("expected both productions to be kept at M[A, a]")
	}
}

func TestDanglingElse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.ll")
	defer teardown()
	//
	table := buildTable(`
S  -> i E t S S' | a
S' -> e S | ε
E  -> b
`)
	if len(table.Conflicts) != 1 {
		t.Fatalf("expected 1 conflict, have %v", table.Conflicts)
	}
	if c := table.Conflicts[0]; c.NonTerminal != "S'" || c.Terminal != "e" {
		t.Errorf("expected conflict at M[S', e], is %v", c)
	}
}

func TestPredictiveParse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.ll")
	defer teardown()
	//
	table := buildTable(exprLL)
	trace, err := Parse(table, strings.Fields("id + id * id"))
	if err != nil {
		t.Fatal(err)
	}
	if !trace.Accepted {
		t.Errorf("expected input to be accepted")
	}
	if len(trace.Derivation) != 11 {
		t.Errorf("expected derivation of length 11, is %d", len(trace.Derivation))
	}
	if len(trace.Steps) != 17 {
		t.Errorf("expected 17 steps, have %d", len(trace.Steps))
	}
	first := trace.Steps[0]
	if strings.Join(first.Stack, " ") != "$ E" || first.Action != "E → T E'" {
		t.Errorf("unexpected first step %v", first)
	}
}

func TestPredictiveParseError(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.ll")
	defer teardown()
	//
	table := buildTable(exprLL)
	for _, input := range []string{"id +", "( id", "id id", ")"} {
		trace, err := Parse(table, strings.Fields(input))
		if !errors.Is(err, ErrSyntax) {
			t.Errorf("%q: expected syntax error, got %v", input, err)
		}
		if trace == nil || trace.Accepted {
			t.Errorf("%q: expected a trace of a failed parse", input)
		}
	}
}

func TestParseStopsOnLeftRecursion(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.ll")
	defer teardown()
	//
	tests := []struct {
		grammar string
		input   string
	}{
		{"E -> E + T | T\nT -> id", "id"},
		{"E -> E + T | T\nT -> id", "id + id"},
		{"A -> B A | a\nB -> ε", "a"},
	}
	for _, test := range tests {
		table := buildTable(test.grammar)
		if table.IsLL1() {
			t.Errorf("expected conflicts for %q", test.grammar)
		}
		trace, err := Parse(table, strings.Fields(test.input))
		if !errors.Is(err, ErrSyntax) {
			t.Errorf("%q: expected syntax error, got %v", test.input, err)
		}
		if trace == nil || trace.Accepted {
			t.Errorf("%q: expected a trace of a failed parse", test.input)
		} else if last := trace.Steps[len(trace.Steps)-1]; last.Action != "error" {
			t.Errorf("%q: expected trace to end with error, ends with %q", test.input, last.Action)
		}
	}
}
