package dag

import (
	"fmt"
	"math"
	"strconv"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/npillmayer/dragon/tac"
)

// NoOperand marks a missing operand of a node.
const NoOperand = -1

// Node is a node of a DAG. Leaves stand for the initial value of a variable or
// for a constant; inner nodes apply an operator to one or two operand nodes.
// Operands are referenced by node ID. A node with operator "=" and no operands
// holds an uninterpreted right-hand side like a[i] in Value.
type Node struct {
	ID          int
	Op          string   // empty for leaves
	Left, Right int      // operand nodes, NoOperand if missing
	Value       string   // leaves: variable name or constant
	Identifiers []string // variables holding this node's value at the end of the block
	IsLive      bool
	IsConstant  bool
	ConstValue  float64
}

// IsLeaf is true for variable and constant leaves.
func (n *Node) IsLeaf() bool {
	return n.Op == ""
}

// Label returns the display label of a node: its operator or leaf value.
func (n *Node) Label() string {
	if n.IsLeaf() || n.isOpaque() {
		return n.Value
	}
	return n.Op
}

func (n *Node) isOpaque() bool {
	return n.Op == "=" && n.Left == NoOperand
}

func (n *Node) String() string {
	if n.IsLeaf() {
		return fmt.Sprintf("n%d(%s)%v", n.ID, n.Value, n.Identifiers)
	}
	if n.isOpaque() {
		return fmt.Sprintf("n%d(= %s)%v", n.ID, n.Value, n.Identifiers)
	}
	if n.Right == NoOperand {
		return fmt.Sprintf("n%d(%s n%d)%v", n.ID, n.Op, n.Left, n.Identifiers)
	}
	return fmt.Sprintf("n%d(n%d %s n%d)%v", n.ID, n.Left, n.Op, n.Right, n.Identifiers)
}

// Options control DAG construction.
type Options struct {
	Optimize bool // apply algebraic identities and re-fold constants
}

// Step records the processing of one instruction.
type Step struct {
	Instr  *tac.Instr
	Action string
	Node   int // the node the result variable denotes afterwards
}

func (s Step) String() string {
	return fmt.Sprintf("%v: %s → n%d", s.Instr, s.Action, s.Node)
}

// ValueEntry is an entry of the value map.
type ValueEntry struct {
	Key  string
	Node int
}

// DAG is the result of value numbering a basic block.
type DAG struct {
	Nodes   []*Node // arena, indexed by ID, in order of creation
	Steps   []Step
	Skipped []*tac.Instr // instructions which are not assignments
	opts    Options
	values  *linkedhashmap.Map // key → node ID
	varMap  map[string]int     // variable → node ID
	vars    []string           // variables in order of first assignment
}

// Build constructs the DAG for the assignments of prog. Other instructions are
// ignored and listed in DAG.Skipped.
func Build(prog *tac.Program, opts Options) *DAG {
	d := &DAG{
		opts:   opts,
		values: linkedhashmap.New(),
		varMap: make(map[string]int),
	}
	for _, instr := range prog.Instrs {
		if instr.Kind != tac.Assign {
			d.Skipped = append(d.Skipped, instr)
			continue
		}
		n, action := d.assign(instr)
		if _, ok := d.varMap[instr.Result]; !ok {
			d.vars = append(d.vars, instr.Result)
		}
		d.varMap[instr.Result] = n
		step := Step{Instr: instr, Action: action, Node: n}
		tracer().Debugf("%v", step)
		d.Steps = append(d.Steps, step)
	}
	d.attachIdentifiers()
	tracer().Debugf("DAG has %d nodes", len(d.Nodes))
	return d
}

func (d *DAG) assign(instr *tac.Instr) (int, string) {
	if instr.IsComplex() {
		// never shared: the right-hand side may read memory
		key := fmt.Sprintf("=,%d", len(d.Nodes))
		return d.newNode(key, &Node{Op: "=", Value: instr.Arg1, Left: NoOperand, Right: NoOperand}), "opaque"
	}
	left := d.operand(instr.Arg1)
	switch {
	case instr.IsCopy():
		return left, "copy"
	case instr.IsUnary():
		l := d.Nodes[left]
		if l.IsConstant && instr.Op == "-" {
			return d.constant(-l.ConstValue), "fold"
		}
		return d.lookup(instr.Op, left, NoOperand)
	}
	right := d.operand(instr.Arg2)
	l, r := d.Nodes[left], d.Nodes[right]
	if l.IsConstant && r.IsConstant {
		if v, ok := fold(instr.Op, l.ConstValue, r.ConstValue); ok {
			return d.constant(v), "fold"
		}
	}
	if d.opts.Optimize {
		if n, ok := d.identity(instr.Op, l, r); ok {
			return n, "identity"
		}
		if n, ok := d.refold(instr.Op, l, r); ok {
			return n, "re-fold"
		}
	}
	return d.lookup(instr.Op, left, right)
}

// identity applies x+0, x*1, x*0, 0*x, x-0 and x/1.
func (d *DAG) identity(op string, l, r *Node) (int, bool) {
	switch {
	case op == "+" && isConst(r, 0), op == "-" && isConst(r, 0):
		return l.ID, true
	case op == "*" && isConst(r, 1), op == "/" && isConst(r, 1):
		return l.ID, true
	case op == "*" && (isConst(r, 0) || isConst(l, 0)):
		return d.constant(0), true
	}
	return 0, false
}

// refold rewrites (A op C1) op C2 and (C1 op A) op C2 to A op (C1 op C2) for
// the associative and commutative operators + and *.
func (d *DAG) refold(op string, l, r *Node) (int, bool) {
	if op != "+" && op != "*" || !r.IsConstant || l.Op != op || l.Right == NoOperand {
		return 0, false
	}
	a, c1 := d.Nodes[l.Left], d.Nodes[l.Right]
	if a.IsConstant {
		a, c1 = c1, a
	}
	if !c1.IsConstant || a.IsConstant {
		return 0, false
	}
	v, _ := fold(op, c1.ConstValue, r.ConstValue)
	n, _ := d.lookup(op, a.ID, d.constant(v))
	return n, true
}

func isConst(n *Node, v float64) bool {
	return n.IsConstant && n.ConstValue == v
}

// operand returns the node a variable currently denotes, or a leaf.
func (d *DAG) operand(arg string) int {
	if n, ok := d.varMap[arg]; ok {
		return n
	}
	if tac.IsConstant(arg) {
		v, _ := strconv.ParseFloat(arg, 64)
		return d.constant(v)
	}
	key := "leaf," + arg
	if n, found := d.values.Get(key); found {
		return n.(int)
	}
	return d.newNode(key, &Node{Value: arg, Left: NoOperand, Right: NoOperand})
}

// constant returns the leaf for a constant value.
func (d *DAG) constant(v float64) int {
	lit := formatConst(v)
	key := "leaf," + lit
	if n, found := d.values.Get(key); found {
		return n.(int)
	}
	return d.newNode(key, &Node{Value: lit, Left: NoOperand, Right: NoOperand,
		IsConstant: true, ConstValue: v})
}

// lookup returns the node for (op, left, right), creating it if necessary.
func (d *DAG) lookup(op string, left, right int) (int, string) {
	key := fmt.Sprintf("%s,%d,%d", op, left, right)
	if n, found := d.values.Get(key); found {
		return n.(int), "reuse"
	}
	return d.newNode(key, &Node{Op: op, Left: left, Right: right}), "new"
}

func (d *DAG) newNode(key string, n *Node) int {
	n.ID = len(d.Nodes)
	d.Nodes = append(d.Nodes, n)
	d.values.Put(key, n.ID)
	return n.ID
}

// attachIdentifiers rebuilds the identifier lists from the final variable map.
func (d *DAG) attachIdentifiers() {
	for _, n := range d.Nodes {
		n.Identifiers = nil
	}
	for _, v := range d.vars {
		n := d.Nodes[d.varMap[v]]
		n.Identifiers = append(n.Identifiers, v)
	}
}

// NodeOf returns the node variable v denotes at the end of the block, or nil.
func (d *DAG) NodeOf(v string) *Node {
	if n, ok := d.varMap[v]; ok {
		return d.Nodes[n]
	}
	return nil
}

// Values returns the value map in order of node creation.
func (d *DAG) Values() []ValueEntry {
	entries := make([]ValueEntry, 0, d.values.Size())
	it := d.values.Iterator()
	for it.Next() {
		entries = append(entries, ValueEntry{Key: it.Key().(string), Node: it.Value().(int)})
	}
	return entries
}

// --- Liveness and code reconstruction --------------------------------------

// MarkLive marks all nodes reachable from the nodes denoted by the variables in
// live. All other nodes are dead. A variable not assigned in the block denotes
// the leaf of its initial value, if the block uses it; otherwise it is ignored.
func (d *DAG) MarkLive(live []string) {
	for _, n := range d.Nodes {
		n.IsLive = false
	}
	stack := arraystack.New()
	for _, v := range live {
		if n, ok := d.varMap[v]; ok {
			stack.Push(n)
		} else if n, found := d.values.Get("leaf," + v); found {
			stack.Push(n.(int))
		}
	}
	for !stack.Empty() {
		x, _ := stack.Pop()
		n := d.Nodes[x.(int)]
		if n.IsLive {
			continue
		}
		n.IsLive = true
		for _, op := range []int{n.Left, n.Right} {
			if op != NoOperand {
				stack.Push(op)
			}
		}
	}
}

// Dead returns all nodes not marked live.
func (d *DAG) Dead() []*Node {
	var dead []*Node
	for _, n := range d.Nodes {
		if !n.IsLive {
			dead = append(dead, n)
		}
	}
	return dead
}

// Reconstruct emits code for the live nodes in order of creation. An inner
// node is assigned to its first identifier, or to a temporary _t<id>; further
// identifiers receive copies. Live leaves with identifiers yield copies as well.
func (d *DAG) Reconstruct() []string {
	names := make(map[int]string)
	name := func(id int) string {
		if s, ok := names[id]; ok {
			return s
		}
		return d.Nodes[id].Value
	}
	var code []string
	for _, n := range d.Nodes {
		if !n.IsLive {
			continue
		}
		if n.IsLeaf() {
			for _, v := range n.Identifiers {
				if v != n.Value {
					code = append(code, fmt.Sprintf("%s = %s", v, n.Value))
				}
			}
			continue
		}
		target := fmt.Sprintf("_t%d", n.ID)
		if len(n.Identifiers) > 0 {
			target = n.Identifiers[0]
		}
		names[n.ID] = target
		if n.isOpaque() {
			code = append(code, fmt.Sprintf("%s = %s", target, n.Value))
		} else if n.Right == NoOperand {
			code = append(code, fmt.Sprintf("%s = %s %s", target, n.Op, name(n.Left)))
		} else {
			code = append(code, fmt.Sprintf("%s = %s %s %s", target, name(n.Left), n.Op, name(n.Right)))
		}
		for i := 1; i < len(n.Identifiers); i++ {
			code = append(code, fmt.Sprintf("%s = %s", n.Identifiers[i], target))
		}
	}
	return code
}

// --- Constants -------------------------------------------------------------

func fold(op string, a, b float64) (float64, bool) {
	switch op {
	case "+":
		return a + b, true
	case "-":
		return a - b, true
	case "*":
		return a * b, true
	case "/":
		if b == 0 {
			return 0, false
		}
		return a / b, true
	case "%":
		if b == 0 || a != math.Trunc(a) || b != math.Trunc(b) {
			return 0, false
		}
		return float64(int64(a) % int64(b)), true
	}
	return 0, false
}

func formatConst(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
