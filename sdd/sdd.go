package sdd

import (
	"bufio"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/npillmayer/dragon/grammar"
	"github.com/npillmayer/dragon/lr"
)

// Definition is a syntax-directed definition: semantic rules per production.
type Definition struct {
	productions []*grammar.Production // in order of definition
	rules       map[string][]*Rule    // keyed by production string
}

// NewDefinition creates an empty syntax-directed definition.
func NewDefinition() *Definition {
	return &Definition{rules: make(map[string][]*Rule)}
}

// Add attaches semantic rules to a production, given in grammar notation
// (e.g., "E -> E + T"). Rules are evaluated in the order given.
func (d *Definition) Add(production string, rules ...string) error {
	prod, err := parseProduction(production)
	if err != nil {
		return err
	}
	var compiled []*Rule
	for _, src := range rules {
		r, err := Compile(src)
		if err != nil {
			return err
		}
		if r.Target.Symbol != prod.LHS {
			return fmt.Errorf("%w: %q: only attributes of %s may be defined", ErrSyntax, src, prod.LHS)
		}
		for _, ref := range r.Refs() {
			if _, err := resolve(prod, ref.Symbol); err != nil {
				return fmt.Errorf("%w: %q: %v", ErrSyntax, src, err)
			}
		}
		compiled = append(compiled, r)
	}
	key := prod.String()
	if _, ok := d.rules[key]; !ok {
		d.productions = append(d.productions, prod)
	}
	d.rules[key] = append(d.rules[key], compiled...)
	return nil
}

// Rules returns the semantic rules of a production.
func (d *Definition) Rules(production string) []*Rule {
	prod, err := parseProduction(production)
	if err != nil {
		return nil
	}
	return d.rules[prod.String()]
}

// Productions returns the productions of the definition, in order of definition.
func (d *Definition) Productions() []*grammar.Production {
	return d.productions
}

// Grammar returns a grammar consisting of the productions of the definition.
// The head of the first production is the start symbol.
func (d *Definition) Grammar() *grammar.Grammar {
	var b strings.Builder
	for _, p := range d.productions {
		b.WriteString(fmt.Sprintf("%s -> %s\n", p.LHS, strings.Join(p.RHS, " ")))
	}
	return grammar.Parse(b.String())
}

func (d *Definition) String() string {
	var b strings.Builder
	for _, p := range d.productions {
		rules := d.rules[p.String()]
		srcs := make([]string, len(rules))
		for i, r := range rules {
			srcs[i] = r.Source
		}
		b.WriteString(fmt.Sprintf("%-20s { %s }\n", p, strings.Join(srcs, "; ")))
	}
	return b.String()
}

// ParseDefinition reads a syntax-directed definition from text. Every line
// holds a production, optionally followed by semantic rules in braces,
// separated by semicolons:
//
//     E -> E + T   { E.val = E1.val + T.val }
//
// Blank lines and lines starting with '#' or '//' are ignored.
func ParseDefinition(text string) (*Definition, error) {
	d := NewDefinition()
	sc := bufio.NewScanner(strings.NewReader(text))
	lineno := 0
	for sc.Scan() {
		lineno++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		production, rules := line, ""
		if i := strings.Index(line, "{"); i >= 0 {
			if !strings.HasSuffix(line, "}") {
				return nil, fmt.Errorf("%w: line %d: missing '}'", ErrSyntax, lineno)
			}
			production, rules = line[:i], line[i+1:len(line)-1]
		}
		var srcs []string
		for _, r := range strings.Split(rules, ";") {
			if r = strings.TrimSpace(r); r != "" {
				srcs = append(srcs, r)
			}
		}
		if err := d.Add(production, srcs...); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineno, err)
		}
	}
	return d, sc.Err()
}

func parseProduction(production string) (*grammar.Production, error) {
	g := grammar.Parse(production)
	if len(g.Productions) != 1 {
		return nil, fmt.Errorf("%w: not a single production: %q", ErrSyntax, production)
	}
	return g.Productions[0], nil
}

// resolve finds the symbol referenced by name within a production. It returns
// -1 for the head, otherwise the position in the body.
func resolve(prod *grammar.Production, name string) (int, error) {
	if name == prod.LHS {
		return -1, nil
	}
	body := prod.Symbols()
	for i, X := range body {
		if X == name {
			return i, nil
		}
	}
	base := strings.TrimRight(name, "0123456789")
	if base != "" && base != name {
		k, _ := strconv.Atoi(name[len(base):])
		for i, X := range body {
			if X == base {
				if k--; k == 0 {
					return i, nil
				}
			}
		}
	}
	return 0, fmt.Errorf("no symbol %s in %v", name, prod)
}

// --- Evaluation ------------------------------------------------------------

// Attributes maps attribute names to values.
type Attributes map[string]Value

func (a Attributes) String() string {
	names := make([]string, 0, len(a))
	for n := range a {
		names = append(names, n)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = n + "=" + FormatValue(a[n])
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Step records the computation of an attribute.
type Step struct {
	Node  *lr.Node
	Rule  *Rule // nil for copied attributes
	Value Value
	Text  string
}

func (s Step) String() string {
	return s.Text
}

// Evaluation is the result of evaluating a definition over a parse tree.
type Evaluation struct {
	Root  Attributes
	Steps []Step
	attrs map[*lr.Node]Attributes
}

// Attributes returns the attributes of a node of the evaluated tree.
func (ev *Evaluation) Attributes(n *lr.Node) Attributes {
	return ev.attrs[n]
}

// Annotate returns the parse tree decorated with attribute values.
func (ev *Evaluation) Annotate(root *lr.Node) string {
	var b strings.Builder
	ev.annotate(&b, root, 0)
	return b.String()
}

func (ev *Evaluation) annotate(b *strings.Builder, n *lr.Node, indent int) {
	b.WriteString(strings.Repeat("  ", indent))
	b.WriteString(n.Symbol)
	if n.IsLeaf() {
		b.WriteString(fmt.Sprintf(" %q", n.Text))
	} else if attrs := ev.attrs[n]; len(attrs) > 0 {
		b.WriteString(" " + attrs.String())
	}
	b.WriteString("\n")
	for _, ch := range n.Children {
		ev.annotate(b, ch, indent+1)
	}
}

// Evaluate evaluates the definition bottom-up over a parse tree.
func (d *Definition) Evaluate(tree *lr.Node) (*Evaluation, error) {
	if tree == nil {
		return nil, fmt.Errorf("%w: no parse tree", ErrEval)
	}
	ev := &Evaluation{attrs: make(map[*lr.Node]Attributes)}
	if err := d.evaluate(ev, tree); err != nil {
		tracer().Errorf("%v", err)
		return nil, err
	}
	ev.Root = ev.attrs[tree]
	tracer().Infof("evaluated %d attributes, root %s %v", len(ev.Steps), tree.Symbol, ev.Root)
	return ev, nil
}

func (d *Definition) evaluate(ev *Evaluation, n *lr.Node) error {
	if n.IsLeaf() {
		ev.attrs[n] = Attributes{"lexval": lexval(n.Text)}
		return nil
	}
	for _, ch := range n.Children {
		if err := d.evaluate(ev, ch); err != nil {
			return err
		}
	}
	attrs := Attributes{}
	ev.attrs[n] = attrs
	rules := d.rules[n.Rule.String()]
	if len(rules) == 0 && len(n.Children) == 1 {
		child := ev.attrs[n.Children[0]]
		names := make([]string, 0, len(child))
		for a := range child {
			if a != "lexval" {
				names = append(names, a)
			}
		}
		sort.Strings(names)
		for _, a := range names {
			v := child[a]
			attrs[a] = v
			ev.Steps = append(ev.Steps, Step{Node: n, Value: v,
				Text: fmt.Sprintf("%s.%s = %s (copy from %s)", n.Symbol, a, FormatValue(v), n.Children[0].Symbol)})
		}
		return nil
	}
	scope := &nodeEnv{node: n, ev: ev}
	for _, r := range rules {
		v, err := r.Expr.eval(scope)
		if err != nil {
			return fmt.Errorf("%v at %v: %w", n.Rule, n.Span, err)
		}
		attrs[r.Target.Attribute] = v
		step := Step{Node: n, Rule: r, Value: v,
			Text: fmt.Sprintf("%s = %s  [%v]", r.Source, FormatValue(v), n.Rule)}
		tracer().Debugf("%s", step.Text)
		ev.Steps = append(ev.Steps, step)
	}
	return nil
}

type nodeEnv struct {
	node *lr.Node
	ev   *Evaluation
}

func (e *nodeEnv) lookup(ref Ref) (Value, error) {
	i, err := resolve(e.node.Rule, ref.Symbol)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEval, err)
	}
	target := e.node
	if i >= 0 {
		if i >= len(e.node.Children) {
			return nil, fmt.Errorf("%w: no child for %v", ErrEval, ref)
		}
		target = e.node.Children[i]
	}
	v, ok := e.ev.attrs[target][ref.Attribute]
	if !ok {
		return nil, fmt.Errorf("%w: attribute %v undefined", ErrEval, ref)
	}
	return v, nil
}
