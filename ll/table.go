package ll

import (
	"fmt"
	"strings"

	"github.com/npillmayer/dragon/grammar"
)

// Conflict records a table cell with more than one production.
type Conflict struct {
	NonTerminal string
	Terminal    string
	Productions []*grammar.Production
}

func (c Conflict) String() string {
	prods := make([]string, len(c.Productions))
	for i, p := range c.Productions {
		prods[i] = p.String()
	}
	return fmt.Sprintf("M[%s, %s] = { %s }", c.NonTerminal, c.Terminal, strings.Join(prods, " ; "))
}

// Table is an LL(1) parsing table. Rows are non-terminals, columns are
// terminals plus EOF.
type Table struct {
	Grammar   *grammar.Grammar
	Columns   []string // terminals, followed by EOF
	Conflicts []Conflict
	cells     map[string]map[string][]*grammar.Production
}

// BuildTable constructs the LL(1) table for g. ga has to be the analysis of g.
func BuildTable(g *grammar.Grammar, ga *grammar.Analysis) *Table {
	t := &Table{
		Grammar: g,
		Columns: append(g.Terminals(), grammar.EOF),
		cells:   make(map[string]map[string][]*grammar.Production),
	}
	for _, A := range g.NonTerminals() {
		t.cells[A] = make(map[string][]*grammar.Production)
	}
	for _, p := range g.Productions {
		first := ga.FirstOfSequence(p.Symbols())
		for _, a := range first {
			if a != grammar.Epsilon {
				t.enter(p, a)
			}
		}
		if contains(first, grammar.Epsilon) {
			for _, b := range ga.Follow(p.LHS) {
				t.enter(p, b)
			}
		}
	}
	if len(t.Conflicts) > 0 {
		tracer().Infof("grammar is not LL(1): %d conflicts", len(t.Conflicts))
	}
	return t
}

func (t *Table) enter(p *grammar.Production, a string) {
	row := t.cells[p.LHS]
	for _, q := range row[a] {
		if q == p {
			return
		}
	}
	row[a] = append(row[a], p)
	if len(row[a]) < 2 {
		return
	}
	tracer().Debugf("conflict at M[%s, %s]", p.LHS, a)
	for i, c := range t.Conflicts {
		if c.NonTerminal == p.LHS && c.Terminal == a {
			t.Conflicts[i].Productions = row[a]
			return
		}
	}
	t.Conflicts = append(t.Conflicts, Conflict{
		NonTerminal: p.LHS,
		Terminal:    a,
		Productions: row[a],
	})
}

// Entry returns the productions at cell (A, a), in order of entry.
func (t *Table) Entry(A, a string) []*grammar.Production {
	if row, ok := t.cells[A]; ok {
		return row[a]
	}
	return nil
}

// IsLL1 is true if no cell holds more than one production.
func (t *Table) IsLL1() bool {
	return len(t.Conflicts) == 0
}

// String renders the non-empty cells of the table, row by row.
func (t *Table) String() string {
	var b strings.Builder
	for _, A := range t.Grammar.NonTerminals() {
		for _, a := range t.Columns {
			prods := t.Entry(A, a)
			if len(prods) == 0 {
				continue
			}
			rhs := make([]string, len(prods))
			for i, p := range prods {
				rhs[i] = p.String()
			}
			b.WriteString(fmt.Sprintf("M[%s, %s] = %s\n", A, a, strings.Join(rhs, " ; ")))
		}
	}
	return b.String()
}

func contains(syms []string, sym string) bool {
	for _, s := range syms {
		if s == sym {
			return true
		}
	}
	return false
}
