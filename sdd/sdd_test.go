package sdd

import (
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/dragon/grammar"
	"github.com/npillmayer/dragon/lr"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

const calculator = `
L -> E        { L.val = E.val }
E -> E + T    { E.val = E1.val + T.val }
E -> T
T -> T * F    { T.val = T1.val * F.val }
T -> F
F -> ( E )    { F.val = E.val }
F -> num      { F.val = num.lexval }
`

func TestCompile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.sdd")
	defer teardown()
	//
	tests := []struct {
		rule, expected string
	}{
		{"E.val = E1.val + T.val * 2", "E.val = (E1.val + (T.val * 2))"},
		{`S.s = concat("a", str(max(1, 2, 3)))`, `S.s = concat("a", str(max(1, 2, 3)))`},
		{"X.v = -(A.v - 1)", "X.v = -(A.v - 1)"},
		{"X.v = 1.5 / y.lexval", "X.v = (1.5 / y.lexval)"},
	}
	for _, test := range tests {
		r, err := Compile(test.rule)
		if err != nil {
			t.Errorf("%q: %v", test.rule, err)
			continue
		}
		if r.String() != test.expected {
			t.Errorf("expected %q, have %q", test.expected, r.String())
		}
	}
	r, _ := Compile("E.val = E1.val + T.val * E1.x")
	refs := r.Refs()
	if len(refs) != 3 || refs[0].String() != "E1.val" || refs[2].Attribute != "x" {
		t.Errorf("unexpected references %v", refs)
	}
}

func TestCompileErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.sdd")
	defer teardown()
	//
	for _, rule := range []string{"", "E.val", "E.val = ", "E = 1", "E.val = foo(1)",
		"E.val = (1", "E.val = 1 2", "E.val = $", "E.val = max(1,"} {
		if _, err := Compile(rule); err == nil {
			t.Errorf("expected error for %q", rule)
		} else if !errors.Is(err, ErrSyntax) {
			t.Errorf("expected syntax error for %q, have %v", rule, err)
		}
	}
}

func TestDefinitionAdd(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.sdd")
	defer teardown()
	//
	d := NewDefinition()
	if err := d.Add("E -> T", "T.val = 1"); err == nil {
		t.Errorf("expected error for rule defining an attribute of a body symbol")
	}
	if err := d.Add("E -> T", "E.val = X.val"); err == nil {
		t.Errorf("expected error for reference to unknown symbol")
	}
	if err := d.Add("E -> a | b"); err == nil {
		t.Errorf("expected error for more than one production")
	}
	if err := d.Add("E → E + T", "E.val = E1.val + T.val"); err != nil {
		t.Fatal(err)
	}
	if rules := d.Rules("E -> E + T"); len(rules) != 1 {
		t.Errorf("expected rule to be found by production, have %v", rules)
	}
}

func TestEvaluateCalculator(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.sdd")
	defer teardown()
	//
	d, err := ParseDefinition(calculator)
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Productions()) != 7 {
		t.Fatalf("expected 7 productions, have %d", len(d.Productions()))
	}
	tree := parse(t, d, "3 * ( 4 + 5 )")
	ev, err := d.Evaluate(tree)
	if err != nil {
		t.Fatal(err)
	}
	if ev.Root["val"] != float64(27) {
		t.Errorf("expected L.val = 27, have %v", ev.Root)
	}
	if !strings.HasPrefix(ev.Steps[0].Text, "F.val = num.lexval = 3") {
		t.Errorf("expected first step to compute F.val = 3, is %q", ev.Steps[0].Text)
	}
	if ev.Attributes(tree.Children[0])["val"] != float64(27) {
		t.Errorf("expected E.val = 27 below root")
	}
	if !strings.Contains(ev.Annotate(tree), "L [val=27]") {
		t.Errorf("expected annotated tree to show L [val=27], is\n%s", ev.Annotate(tree))
	}
}

func TestEvaluatePostfix(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.sdd")
	defer teardown()
	//
	d, err := ParseDefinition(`
E -> E + T  { E.t = concat(E1.t, T.t, "+") }
E -> T
T -> num    { T.t = str(num.lexval) }
`)
	if err != nil {
		t.Fatal(err)
	}
	ev, err := d.Evaluate(parse(t, d, "1 + 2 + 3"))
	if err != nil {
		t.Fatal(err)
	}
	if ev.Root["t"] != "12+3+" {
		t.Errorf("expected postfix translation 12+3+, have %v", ev.Root["t"])
	}
}

func TestEvaluateErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.sdd")
	defer teardown()
	//
	d, err := ParseDefinition("E -> num / num  { E.v = num1.lexval / num2.lexval }")
	if err != nil {
		t.Fatal(err)
	}
	if _, err = d.Evaluate(parse(t, d, "1 / 0")); !errors.Is(err, ErrEval) {
		t.Errorf("expected evaluation error for division by zero, have %v", err)
	}
	d, _ = ParseDefinition("E -> num  { E.v = num.undefined }")
	if _, err = d.Evaluate(parse(t, d, "1")); !errors.Is(err, ErrEval) {
		t.Errorf("expected evaluation error for undefined attribute, have %v", err)
	}
	if _, err = ParseDefinition("E -> num { E.v = 1"); !errors.Is(err, ErrSyntax) {
		t.Errorf("expected syntax error for missing brace, have %v", err)
	}
}

func parse(t *testing.T, d *Definition, input string) *lr.Node {
	_, table := lr.Build(grammar.Analyse(d.Grammar()), lr.LALR1)
	tokens := lr.Words(input)
	for i := range tokens {
		if c := tokens[i].Text[0]; c >= '0' && c <= '9' {
			tokens[i].Terminal = "num"
		}
	}
	result, err := lr.Parse(table, tokens)
	if err != nil {
		t.Fatalf("cannot parse %q: %v", input, err)
	}
	return result.Tree
}
