package fa

import (
	"fmt"
	"io"
	"strings"
)

const dotHeader = `digraph {
graph [rankdir=LR, splines=true, fontname=Helvetica, fontsize=10];
node [shape=circle, fontname=Helvetica, fontsize=10];
edge [fontname=Helvetica, fontsize=10];

`

// WriteDot exports the NFA in Graphviz Dot format.
func (nfa *NFA) WriteDot(w io.Writer) error {
	var b strings.Builder
	b.WriteString(dotHeader)
	b.WriteString("start [shape=point];\n")
	for _, s := range nfa.States {
		b.WriteString(fmt.Sprintf("n%d [label=\"%d\" shape=%s]\n", s.ID, s.ID, nodeshape(s.IsAccepting)))
	}
	if nfa.Start != nil {
		b.WriteString(fmt.Sprintf("start -> n%d\n", nfa.Start.ID))
	}
	for _, s := range nfa.States {
		for _, sym := range s.Symbols() {
			for _, t := range s.Transitions[sym] {
				b.WriteString(fmt.Sprintf("n%d -> n%d [label=\"%s\"]\n", s.ID, t.ID,
					dotEscape(SymbolString(sym))))
			}
		}
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteDot exports the DFA in Graphviz Dot format. Nodes are labelled with the
// NFA states (or source DFA states) they represent.
func (dfa *DFA) WriteDot(w io.Writer) error {
	var b strings.Builder
	b.WriteString(dotHeader)
	b.WriteString("start [shape=point];\n")
	for _, s := range dfa.States {
		b.WriteString(fmt.Sprintf("d%d [label=\"D%d\\n%s\" shape=%s]\n", s.ID, s.ID,
			provenance(s), nodeshape(s.IsAccepting)))
	}
	if dfa.Start != nil {
		b.WriteString(fmt.Sprintf("start -> d%d\n", dfa.Start.ID))
	}
	for _, s := range dfa.States {
		for _, sym := range s.Symbols() {
			b.WriteString(fmt.Sprintf("d%d -> d%d [label=\"%s\"]\n", s.ID, s.Transitions[sym].ID,
				dotEscape(SymbolString(sym))))
		}
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func nodeshape(accepting bool) string {
	if accepting {
		return "doublecircle"
	}
	return "circle"
}

func provenance(s *DFAState) string {
	ids := s.NFAStates
	if len(s.Members) > 0 {
		ids = s.Members
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func dotEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
