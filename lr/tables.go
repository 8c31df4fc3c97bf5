package lr

import (
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/dragon/grammar"
	"github.com/npillmayer/dragon/lr/sparse"
)

// === Actions ===============================================================

// ActionKind is the type of a parser action.
type ActionKind int

// Parser actions
const (
	ShiftAction ActionKind = iota
	ReduceAction
	AcceptAction
)

// Action is an entry of the ACTION table. Target is the next state for shift
// actions and the production number for reduce actions.
type Action struct {
	Kind   ActionKind
	Target int
}

func (a Action) String() string {
	switch a.Kind {
	case ShiftAction:
		return fmt.Sprintf("s%d", a.Target)
	case ReduceAction:
		return fmt.Sprintf("r%d", a.Target)
	}
	return "acc"
}

// Actions are stored as int32 in a sparse matrix:
// 0 means reducing the start rule, i.e., accept; r > 0 reduces rule r; a shift
// to state s is stored as -(s+1).
func (a Action) encode() int32 {
	switch a.Kind {
	case ShiftAction:
		return -int32(a.Target) - 1
	case ReduceAction:
		return int32(a.Target)
	}
	return 0
}

func decode(v int32) Action {
	switch {
	case v < 0:
		return Action{Kind: ShiftAction, Target: int(-v - 1)}
	case v == 0:
		return Action{Kind: AcceptAction}
	}
	return Action{Kind: ReduceAction, Target: int(v)}
}

// Conflict records an ACTION table cell with more than one action.
type Conflict struct {
	State    int
	Terminal string
	Actions  []Action
}

// Type returns "shift/reduce" or "reduce/reduce".
func (c Conflict) Type() string {
	for _, a := range c.Actions {
		if a.Kind == ShiftAction {
			return "shift/reduce"
		}
	}
	return "reduce/reduce"
}

func (c Conflict) String() string {
	acts := make([]string, len(c.Actions))
	for i, a := range c.Actions {
		acts[i] = a.String()
	}
	return fmt.Sprintf("%s conflict in state %d on %s: %s", c.Type(), c.State, c.Terminal,
		strings.Join(acts, "/"))
}

// === Tables ================================================================

// Table holds the ACTION and GOTO tables of an LR parser. ACTION cells hold
// an ordered sequence of actions: shifts first, followed by reduce and accept
// actions in item order. A cell with more than one action is a conflict.
type Table struct {
	Kind         Kind
	CFSM         *CFSM
	Terminals    []string // ACTION columns: terminals, followed by EOF
	NonTerminals []string // GOTO columns: non-terminals without the augmented start symbol
	action       *sparse.IntMatrix
	gotoT        *sparse.IntMatrix
	tcol         map[string]int
	ntcol        map[string]int
}

// Build constructs the CFSM and the parser tables of a given kind for the
// grammar analysed by ga. The grammar is augmented by a new start production
// S' → S, which becomes production 0; all other productions keep their order,
// i.e. production n of the grammar becomes production n+1.
func Build(ga *grammar.Analysis, kind Kind) (*CFSM, *Table) {
	aug := ga.Grammar().Augment()
	gaug := grammar.Analyse(aug)
	cfsm := buildCFSM(gaug, kind)
	t := newTable(cfsm)
	t.buildGotoTable()
	t.buildActionTable(gaug)
	if conflicts := t.Conflicts(); len(conflicts) > 0 {
		tracer().Infof("%v table has %d conflicts", kind, len(conflicts))
	}
	return cfsm, t
}

func newTable(cfsm *CFSM) *Table {
	g := cfsm.Grammar
	t := &Table{
		Kind:      cfsm.Kind,
		CFSM:      cfsm,
		Terminals: append(g.Terminals(), grammar.EOF),
		tcol:      make(map[string]int),
		ntcol:     make(map[string]int),
	}
	for _, A := range g.NonTerminals() {
		if A != g.Start {
			t.NonTerminals = append(t.NonTerminals, A)
		}
	}
	for j, a := range t.Terminals {
		t.tcol[a] = j
	}
	for j, A := range t.NonTerminals {
		t.ntcol[A] = j
	}
	n := cfsm.states.Size()
	t.action = sparse.NewIntMatrix(n, len(t.Terminals), sparse.DefaultNullValue)
	t.gotoT = sparse.NewIntMatrix(n, len(t.NonTerminals), sparse.DefaultNullValue)
	return t
}

// buildGotoTable enters shift actions for transitions on terminals and GOTO
// entries for transitions on non-terminals.
func (t *Table) buildGotoTable() {
	for _, e := range t.CFSM.Edges() {
		if j, ok := t.ntcol[e.Label]; ok {
			t.gotoT.Set(e.From.ID, j, int32(e.To.ID))
		} else if j, ok := t.tcol[e.Label]; ok {
			t.action.Add(e.From.ID, j, Action{Kind: ShiftAction, Target: e.To.ID}.encode())
		}
	}
}

// For building an ACTION table we iterate over all the states of the CFSM.
// An inner loop iterates over all the items within a CFSM-state.
// If an item's dot is behind the complete RHS of a rule, then
// - for the LR(0) case: we produce a reduce-entry for the rule for every terminal
// - for the SLR case: we produce a reduce-entry for the rule for each
//   terminal from FOLLOW(LHS)
// - for LR(1) and LALR(1): we produce a reduce-entry for the item's lookahead.
// The completed start item produces an accept-entry for EOF.
func (t *Table) buildActionTable(ga *grammar.Analysis) {
	eof := t.tcol[grammar.EOF]
	for _, state := range t.CFSM.States() {
		for _, i := range state.Items {
			if !i.IsComplete() {
				continue
			}
			if i.Prod.Serial == 0 {
				if i.Lookahead == "" || i.Lookahead == grammar.EOF {
					t.action.Add(state.ID, eof, Action{Kind: AcceptAction}.encode())
				}
				continue
			}
			var lookaheads []string
			switch t.Kind {
			case LR0:
				lookaheads = t.Terminals
			case SLR1:
				lookaheads = ga.Follow(i.Prod.LHS)
			default:
				lookaheads = []string{i.Lookahead}
			}
			reduce := Action{Kind: ReduceAction, Target: i.Prod.Serial}.encode()
			for _, la := range lookaheads {
				if j, ok := t.tcol[la]; ok {
					if t.action.Add(state.ID, j, reduce) && len(t.action.Values(state.ID, j)) > 1 {
						tracer().Debugf("conflict in state %d on %s: reduce %v", state.ID, la, i.Prod)
					}
				}
			}
		}
	}
}

// StateCount returns the number of rows of the tables.
func (t *Table) StateCount() int {
	return t.action.M()
}

// Actions returns the actions for state and terminal a, in order of entry.
func (t *Table) Actions(state int, a string) []Action {
	j, ok := t.tcol[a]
	if !ok || state < 0 || state >= t.action.M() {
		return nil
	}
	vals := t.action.Values(state, j)
	acts := make([]Action, len(vals))
	for i, v := range vals {
		acts[i] = decode(v)
	}
	return acts
}

// Goto returns the GOTO entry for state and non-terminal A.
func (t *Table) Goto(state int, A string) (int, bool) {
	j, ok := t.ntcol[A]
	if !ok || state < 0 || state >= t.gotoT.M() {
		return 0, false
	}
	v := t.gotoT.Value(state, j)
	if v == t.gotoT.NullValue() {
		return 0, false
	}
	return int(v), true
}

// Conflicts lists all ACTION cells with more than one action, ordered by state
// and terminal.
func (t *Table) Conflicts() []Conflict {
	var conflicts []Conflict
	t.action.Each(func(i, j int, values []int32) {
		if len(values) < 2 {
			return
		}
		c := Conflict{State: i, Terminal: t.Terminals[j]}
		for _, v := range values {
			c.Actions = append(c.Actions, decode(v))
		}
		conflicts = append(conflicts, c)
	})
	return conflicts
}

// HasConflicts is true if any ACTION cell holds more than one action.
func (t *Table) HasConflicts() bool {
	return len(t.Conflicts()) > 0
}

// Rows renders the tables as rows of strings, starting with a header row. Columns
// are the state, the ACTION columns and the GOTO columns. Conflicting actions
// are joined by '/'.
func (t *Table) Rows() [][]string {
	header := []string{"state"}
	header = append(header, t.Terminals...)
	header = append(header, t.NonTerminals...)
	rows := [][]string{header}
	for i := 0; i < t.StateCount(); i++ {
		row := []string{fmt.Sprintf("%d", i)}
		for _, a := range t.Terminals {
			acts := t.Actions(i, a)
			cell := make([]string, len(acts))
			for k, act := range acts {
				cell[k] = act.String()
			}
			row = append(row, strings.Join(cell, "/"))
		}
		for _, A := range t.NonTerminals {
			if s, ok := t.Goto(i, A); ok {
				row = append(row, fmt.Sprintf("%d", s))
			} else {
				row = append(row, "")
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteHTML exports the ACTION and GOTO tables in HTML-format.
func (t *Table) WriteHTML(w io.Writer) error {
	var b strings.Builder
	rows := t.Rows()
	b.WriteString("<html><body>\n")
	b.WriteString(fmt.Sprintf("<p>%v table with %d states</p>\n", t.Kind, t.StateCount()))
	b.WriteString("<table border=1 cellspacing=0 cellpadding=5>\n")
	b.WriteString("<tr bgcolor=#cccccc>")
	for _, h := range rows[0] {
		b.WriteString(fmt.Sprintf("<td>%s</td>", htmlEscape(h)))
	}
	b.WriteString("</tr>\n")
	for _, row := range rows[1:] {
		b.WriteString("<tr>")
		for j, cell := range row {
			td := htmlEscape(cell)
			if td == "" {
				td = "&nbsp;"
			}
			if j > 0 && strings.Contains(cell, "/") {
				b.WriteString(fmt.Sprintf("<td bgcolor=#ffcccc>%s</td>", td))
			} else {
				b.WriteString(fmt.Sprintf("<td>%s</td>", td))
			}
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</table></body></html>\n")
	_, err := io.WriteString(w, b.String())
	return err
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func htmlEscape(s string) string {
	return htmlEscaper.Replace(s)
}
