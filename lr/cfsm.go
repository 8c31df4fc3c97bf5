package lr

import (
	"fmt"
	"io"
	"strings"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/dragon/grammar"
)

// Kind selects the type of LR automaton and parse table.
type Kind int

// Kinds of LR tables
const (
	LR0   Kind = iota // LR(0) items, reduce on every terminal
	SLR1              // LR(0) items, reduce on FOLLOW(A)
	LR1               // canonical LR(1) items, reduce on lookahead
	LALR1             // LR(1) states merged by core, reduce on lookahead
)

func (k Kind) String() string {
	switch k {
	case LR0:
		return "LR(0)"
	case SLR1:
		return "SLR(1)"
	case LR1:
		return "LR(1)"
	case LALR1:
		return "LALR(1)"
	}
	return "?"
}

// ParseKind interprets a kind name like "slr1" or "LR(1)".
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.NewReplacer("(", "", ")", "", "-", "").Replace(s))
	switch s {
	case "lr0":
		return LR0, nil
	case "slr", "slr1":
		return SLR1, nil
	case "lr1":
		return LR1, nil
	case "lalr", "lalr1":
		return LALR1, nil
	}
	return LR0, fmt.Errorf("unknown kind of LR table: %q", s)
}

// usesLookahead is true for kinds built from LR(1) items.
func (k Kind) usesLookahead() bool {
	return k == LR1 || k == LALR1
}

// === CFSM Construction =====================================================

// CFSMState is a state within the CFSM for a grammar.
type CFSMState struct {
	ID     int     // serial ID of this state
	Items  ItemSet // configuration items within this state
	Accept bool    // does this state contain the completed start item?
	key    string  // canonical identity
}

func (s *CFSMState) String() string {
	return fmt.Sprintf("(state %d | [%d])", s.ID, len(s.Items))
}

// Dump is a debugging helper
func (s *CFSMState) Dump() {
	tracer().Debugf("--- state %03d -----------", s.ID)
	for _, i := range s.Items {
		tracer().Debugf("    %v", i)
	}
	tracer().Debugf("-------------------------")
}

func (s *CFSMState) containsCompletedStartRule() bool {
	for _, i := range s.Items {
		if i.Prod.Serial == 0 && i.IsComplete() {
			return true
		}
	}
	return false
}

// Edge is a CFSM transition between 2 states, directed and labelled with a
// grammar symbol.
type Edge struct {
	From  *CFSMState
	To    *CFSMState
	Label string
}

func (e *Edge) String() string {
	return fmt.Sprintf("%d --%s--> %d", e.From.ID, e.Label, e.To.ID)
}

// We need this for the set of states. It sorts states by serial ID.
func stateComparator(s1, s2 interface{}) int {
	c1 := s1.(*CFSMState)
	c2 := s2.(*CFSMState)
	return utils.IntComparator(c1.ID, c2.ID)
}

// CFSM is the characteristic finite state machine for an LR grammar, i.e. the
// LR(0) or LR(1) state diagram. Its grammar is the augmented grammar, with
// production 0 being S' → S.
type CFSM struct {
	Kind    Kind
	Grammar *grammar.Grammar // augmented grammar
	S0      *CFSMState       // start state
	states  *treeset.Set     // all the states
	edges   *arraylist.List  // all the edges between states
	byKey   map[string]*CFSMState
}

// create an empty (initial) CFSM automaton.
func emptyCFSM(g *grammar.Grammar, kind Kind) *CFSM {
	return &CFSM{
		Kind:    kind,
		Grammar: g,
		states:  treeset.NewWith(stateComparator),
		edges:   arraylist.New(),
		byKey:   make(map[string]*CFSMState),
	}
}

// addState adds a state for an item set, if not already present. It returns
// the state and a flag indicating if it is new.
func (c *CFSM) addState(iset ItemSet) (*CFSMState, bool) {
	key := iset.Key()
	if s, ok := c.byKey[key]; ok {
		return s, false
	}
	s := &CFSMState{ID: c.states.Size(), Items: iset, key: key}
	s.Accept = s.containsCompletedStartRule()
	c.states.Add(s)
	c.byKey[key] = s
	return s, true
}

func (c *CFSM) addEdge(s0, s1 *CFSMState, sym string) *Edge {
	e := &Edge{From: s0, To: s1, Label: sym}
	c.edges.Add(e)
	return e
}

// States returns all states, ordered by ID.
func (c *CFSM) States() []*CFSMState {
	states := make([]*CFSMState, 0, c.states.Size())
	for _, x := range c.states.Values() {
		states = append(states, x.(*CFSMState))
	}
	return states
}

// State returns the state with the given ID, or nil.
func (c *CFSM) State(id int) *CFSMState {
	if id < 0 || id >= c.states.Size() {
		return nil
	}
	return c.states.Values()[id].(*CFSMState)
}

// Edges returns all edges in order of creation.
func (c *CFSM) Edges() []*Edge {
	edges := make([]*Edge, 0, c.edges.Size())
	it := c.edges.Iterator()
	for it.Next() {
		edges = append(edges, it.Value().(*Edge))
	}
	return edges
}

// EdgesFrom returns all edges starting at state s.
func (c *CFSM) EdgesFrom(s *CFSMState) []*Edge {
	r := make([]*Edge, 0, 2)
	it := c.edges.Iterator()
	for it.Next() {
		e := it.Value().(*Edge)
		if e.From == s {
			r = append(r, e)
		}
	}
	return r
}

// Goto returns the target of the transition from s on X, or nil.
func (c *CFSM) Goto(s *CFSMState, X string) *CFSMState {
	for _, e := range c.EdgesFrom(s) {
		if e.Label == X {
			return e.To
		}
	}
	return nil
}

// buildCFSM constructs the characteristic finite state machine for the
// augmented grammar analysed by ga. States are discovered breadth-first, with
// symbols tried in grammar order (non-terminals first).
func buildCFSM(ga *grammar.Analysis, kind Kind) *CFSM {
	tracer().Debugf("=== build %v CFSM ===============================================", kind)
	g := ga.Grammar()
	cfsm := emptyCFSM(g, kind)
	lookahead := ""
	if kind.usesLookahead() {
		lookahead = grammar.EOF
	}
	lr1 := kind.usesLookahead()
	closure0 := closure(ga, []Item{StartItem(g, lookahead)}, lr1)
	cfsm.S0, _ = cfsm.addState(closure0)
	cfsm.S0.Dump()
	queue := []*CFSMState{cfsm.S0}
	symbols := g.Symbols()
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for _, A := range symbols {
			gotoset := gotoSet(ga, s.Items, A, lr1)
			if len(gotoset) == 0 {
				continue
			}
			snew, isNew := cfsm.addState(gotoset)
			if isNew {
				queue = append(queue, snew)
				snew.Dump()
			}
			cfsm.addEdge(s, snew, A)
		}
	}
	tracer().Infof("%v CFSM has %d states", kind, cfsm.states.Size())
	if kind == LALR1 {
		return mergeCores(cfsm)
	}
	return cfsm
}

// mergeCores merges the states of an LR(1) CFSM which share the same item
// cores. Merged states are numbered in order of the first LR(1) state with
// their core.
func mergeCores(lr1 *CFSM) *CFSM {
	lalr := emptyCFSM(lr1.Grammar, LALR1)
	merged := make(map[int]*CFSMState) // LR(1) state ID -> LALR(1) state
	byCore := make(map[string]*CFSMState)
	var items [][]Item
	for _, s := range lr1.States() {
		core := s.Items.Cores().Key()
		m, ok := byCore[core]
		if !ok {
			m = &CFSMState{ID: len(items)}
			byCore[core] = m
			items = append(items, nil)
		}
		items[m.ID] = append(items[m.ID], s.Items...)
		merged[s.ID] = m
	}
	for _, m := range byCore {
		m.Items = newItemSet(items[m.ID])
		m.key = m.Items.Key()
		m.Accept = m.containsCompletedStartRule()
		lalr.states.Add(m)
		lalr.byKey[m.key] = m
	}
	lalr.S0 = merged[lr1.S0.ID]
	seen := make(map[string]bool)
	for _, e := range lr1.Edges() {
		from, to := merged[e.From.ID], merged[e.To.ID]
		k := fmt.Sprintf("%d %s %d", from.ID, e.Label, to.ID)
		if !seen[k] {
			seen[k] = true
			lalr.addEdge(from, to, e.Label)
		}
	}
	tracer().Infof("LALR(1) CFSM has %d states", lalr.states.Size())
	return lalr
}

// WriteDot exports a CFSM to the Graphviz Dot format.
func (c *CFSM) WriteDot(w io.Writer) error {
	var b strings.Builder
	b.WriteString(`digraph {
graph [splines=true, fontname=Helvetica, fontsize=10];
node [shape=Mrecord, style=filled, fontname=Helvetica, fontsize=10];
edge [fontname=Helvetica, fontsize=10];

`)
	for _, s := range c.States() {
		b.WriteString(fmt.Sprintf("s%03d [fillcolor=%s label=\"{%03d | %s}\"]\n",
			s.ID, nodecolor(s), s.ID, forGraphviz(s.Items)))
	}
	for _, e := range c.Edges() {
		b.WriteString(fmt.Sprintf("s%03d -> s%03d [label=\"%s\"]\n", e.From.ID, e.To.ID,
			strings.ReplaceAll(e.Label, `"`, `\"`)))
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func nodecolor(state *CFSMState) string {
	if state.Accept {
		return "lightgray"
	}
	return "white"
}

func forGraphviz(iset ItemSet) string {
	items := make([]string, len(iset))
	for n, i := range iset {
		items[n] = escapeGraphviz(i.String())
	}
	return strings.Join(items, "\\l") + "\\l"
}

var graphvizEscaper = strings.NewReplacer(`"`, `\"`, `|`, `\|`, `{`, `\{`, `}`, `\}`,
	`<`, `\<`, `>`, `\>`)

func escapeGraphviz(s string) string {
	return graphvizEscaper.Replace(s)
}
