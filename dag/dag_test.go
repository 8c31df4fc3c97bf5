package dag

import (
	"strings"
	"testing"

	"github.com/npillmayer/dragon/tac"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func build(code string, optimize bool) *DAG {
	return Build(tac.Parse(code), Options{Optimize: optimize})
}

func TestCommonSubexpression(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.dag")
	defer teardown()
	//
	d := build("t1 = a + b\nt2 = a + b", false)
	n1, n2 := d.NodeOf("t1"), d.NodeOf("t2")
	if n1 == nil || n1 != n2 {
		t.Fatalf("expected t1 and t2 to denote the same node, have %v and %v", n1, n2)
	}
	if n1.Op != "+" || strings.Join(n1.Identifiers, " ") != "t1 t2" {
		t.Errorf("expected + node with identifiers t1 t2, have %v", n1)
	}
	if len(d.Nodes) != 3 {
		t.Errorf("expected 3 nodes (a, b, +), have %d", len(d.Nodes))
	}
	if d.Steps[1].Action != "reuse" {
		t.Errorf("expected second line to reuse a node, was %q", d.Steps[1].Action)
	}
}

func TestConstantFolding(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.dag")
	defer teardown()
	//
	d := build("t1 = 2 + 3\nt2 = t1 * 1", true)
	n := d.NodeOf("t2")
	if !n.IsLeaf() || !n.IsConstant || n.ConstValue != 5 {
		t.Errorf("expected t2 to be bound to constant leaf 5, is %v", n)
	}
	for _, node := range d.Nodes {
		if node.Op == "*" {
			t.Errorf("expected no multiply node, have %v", node)
		}
	}
	d.MarkLive([]string{"t2"})
	if code := strings.Join(d.Reconstruct(), "; "); code != "t1 = 5; t2 = 5" {
		t.Errorf("unexpected reconstruction %q", code)
	}
}

func TestIdentities(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.dag")
	defer teardown()
	//
	tests := []struct {
		code  string
		leaf  string // expected leaf for t1 with optimizations
		plain string // expected operator for t1 without optimizations
	}{
		{"t1 = a + 0", "a", "+"},
		{"t1 = a - 0", "a", "-"},
		{"t1 = a * 1", "a", "*"},
		{"t1 = a / 1", "a", "/"},
		{"t1 = a * 0", "0", "*"},
		{"t1 = 0 * a", "0", "*"},
	}
	for _, test := range tests {
		if n := build(test.code, true).NodeOf("t1"); !n.IsLeaf() || n.Value != test.leaf {
			t.Errorf("%q: expected t1 to denote leaf %s, is %v", test.code, test.leaf, n)
		}
		if n := build(test.code, false).NodeOf("t1"); n.Op != test.plain {
			t.Errorf("%q: expected t1 to denote a %s node without optimization, is %v",
				test.code, test.plain, n)
		}
	}
	if n := build("t1 = 0 + a", true).NodeOf("t1"); n.Op != "+" {
		t.Errorf("expected 0 + a not to be simplified, is %v", n)
	}
}

func TestAssociativeRefold(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.dag")
	defer teardown()
	//
	d := build("t1 = a + 2\nt2 = t1 + 3", true)
	n := d.NodeOf("t2")
	if n.Op != "+" || d.Nodes[n.Left].Value != "a" || d.Nodes[n.Right].Value != "5" {
		t.Errorf("expected t2 = a + 5, is %v", n)
	}
	d = build("t1 = a * 2\nt2 = t1 * 3", true)
	if n := d.NodeOf("t2"); d.Nodes[n.Right].Value != "6" {
		t.Errorf("expected t2 = a * 6, is %v", n)
	}
	d = build("t1 = a + 2\nt2 = t1 + 3", false)
	if n := d.NodeOf("t2"); n.Left != d.NodeOf("t1").ID {
		t.Errorf("expected no re-folding without optimizations")
	}
}

func TestAssociativeRefoldConstantFirst(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.dag")
	defer teardown()
	//
	d := build("t1 = 2 + a\nt2 = t1 + 3", true)
	n := d.NodeOf("t2")
	if n.Op != "+" || d.Nodes[n.Left].Value != "a" || d.Nodes[n.Right].Value != "5" {
		t.Errorf("expected t2 = a + 5, is %v", n)
	}
	d = build("t1 = 2 * a\nt2 = t1 * 3", true)
	if n := d.NodeOf("t2"); d.Nodes[n.Left].Value != "a" || d.Nodes[n.Right].Value != "6" {
		t.Errorf("expected t2 = a * 6, is %v", n)
	}
	d = build("t1 = 2 - a\nt2 = t1 - 3", true)
	if n := d.NodeOf("t2"); n.Left != d.NodeOf("t1").ID {
		t.Errorf("expected no re-folding for -, is %v", n)
	}
}

// Dragon book, example 8.10
const block = `
a = b + c
b = a - d
c = b + c
d = a - d
`

func TestRedefinitions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.dag")
	defer teardown()
	//
	d := build(block, false)
	if d.NodeOf("b") != d.NodeOf("d") {
		t.Errorf("expected b and d to share a node")
	}
	if d.NodeOf("c") == d.NodeOf("a") {
		t.Errorf("expected c = b + c not to reuse a = b + c, as b has been redefined")
	}
	d.MarkLive([]string{"a", "b", "c", "d"})
	code := strings.Join(d.Reconstruct(), "; ")
	if code != "a = b + c; b = a - d; d = b; c = b + c" {
		t.Errorf("unexpected reconstruction %q", code)
	}
}

func TestDeadCode(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.dag")
	defer teardown()
	//
	d := build(block, false)
	d.MarkLive([]string{"a"})
	if code := strings.Join(d.Reconstruct(), "; "); code != "a = b + c" {
		t.Errorf("unexpected reconstruction %q", code)
	}
	dead := d.Dead()
	if len(dead) != 3 { // d0, a - d, b + c
		t.Errorf("expected 3 dead nodes, have %v", dead)
	}
	d.MarkLive(nil)
	if len(d.Reconstruct()) != 0 {
		t.Errorf("expected no code without live variables")
	}
}

func TestLiveInputVariable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.dag")
	defer teardown()
	//
	d := build("t1 = a + b", false)
	d.MarkLive([]string{"a", "z"})
	for _, n := range d.Nodes {
		if live := n.IsLeaf() && n.Value == "a"; n.IsLive != live {
			t.Errorf("expected node %v to have liveness %v", n, live)
		}
	}
	if len(d.Dead()) != 2 {
		t.Errorf("expected b and a + b to be dead, have %v", d.Dead())
	}
	if code := d.Reconstruct(); len(code) != 0 {
		t.Errorf("expected no code for a live input variable, have %v", code)
	}
}

func TestComplexAssignment(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.dag")
	defer teardown()
	//
	d := build("t1 = a[i]\nt2 = a[i]\nx = t1 + t2", false)
	n1, n2 := d.NodeOf("t1"), d.NodeOf("t2")
	if n1 == n2 || n1.Label() != "a[i]" || n1.IsLeaf() {
		t.Errorf("expected separate opaque nodes for a[i], have %v and %v", n1, n2)
	}
	if d.Steps[1].Action != "opaque" || len(d.Skipped) != 0 {
		t.Errorf("expected a[i] to be an opaque assignment, is %q", d.Steps[1].Action)
	}
	d.MarkLive([]string{"x"})
	if code := strings.Join(d.Reconstruct(), "; "); code != "t1 = a[i]; t2 = a[i]; x = t1 + t2" {
		t.Errorf("unexpected reconstruction %q", code)
	}
}

func TestTemporaries(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.dag")
	defer teardown()
	//
	d := build("t1 = a + b\nx = t1 * c\nt1 = 0", false)
	d.MarkLive([]string{"x"})
	if code := strings.Join(d.Reconstruct(), "; "); code != "_t2 = a + b; x = _t2 * c" {
		t.Errorf("unexpected reconstruction %q", code)
	}
}

func TestUnaryAndSkipped(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.dag")
	defer teardown()
	//
	d := build("t1 = - a\nt2 = - a\nt3 = - 4\ngoto 1", false)
	if d.NodeOf("t1") != d.NodeOf("t2") {
		t.Errorf("expected unary operations to be shared")
	}
	if n := d.NodeOf("t3"); !n.IsConstant || n.ConstValue != -4 {
		t.Errorf("expected - 4 to be folded, is %v", n)
	}
	if len(d.Skipped) != 1 {
		t.Errorf("expected goto to be skipped")
	}
	if v := d.Values(); len(v) == 0 || v[0].Key != "leaf,a" {
		t.Errorf("expected value map to start with leaf a, is %v", v)
	}
}
