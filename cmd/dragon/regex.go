package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/npillmayer/dragon/fa"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newRegexCmd() *cobra.Command {
	var accept []string
	var dot string
	var simplified bool
	cmd := &cobra.Command{
		Use:     "regex <expression>",
		Short:   "Construct NFA, DFA and minimal DFA for a regular expression",
		Example: `  dragon regex "(a|b)*abb" --accept abb,ab`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegex(args[0], accept, dot, simplified)
		},
	}
	cmd.Flags().StringSliceVar(&accept, "accept", nil, "words to run through the automata")
	cmd.Flags().StringVar(&dot, "dot", "", "print automaton in DOT format only [nfa|dfa|min]")
	cmd.Flags().BoolVar(&simplified, "simplified", false, "merge concatenated states in Thompson's construction")
	return cmd
}

func runRegex(regex string, accept []string, dot string, simplified bool) error {
	postfix, err := fa.Postfix(regex)
	if err != nil {
		return err
	}
	construct := fa.Thompson
	if simplified {
		construct = fa.ThompsonSimplified
	}
	nfa, err := construct(regex)
	if err != nil {
		return err
	}
	sc := fa.SubsetConstruction(nfa)
	m := fa.Minimize(sc.DFA)
	switch dot {
	case "":
	case "nfa":
		return nfa.WriteDot(os.Stdout)
	case "dfa":
		return sc.DFA.WriteDot(os.Stdout)
	case "min":
		return m.DFA.WriteDot(os.Stdout)
	default:
		return fmt.Errorf("unknown automaton %q for DOT output", dot)
	}
	section("Postfix")
	pterm.Println(postfix)
	section(fmt.Sprintf("NFA (%d states)", len(nfa.States)))
	table([]string{"state", "transitions", ""}, nfaRows(nfa))
	section("Subset construction")
	pterm.Println(fmt.Sprintf("ε-closure(%d) = %v = D0", nfa.Start.ID, sc.StartClosure))
	stepList(len(sc.Steps), func(i int) string { return sc.Steps[i].String() })
	section(fmt.Sprintf("DFA (%d states)", len(sc.DFA.States)))
	table(dfaHeader(sc.DFA), dfaRows(sc.DFA, func(s *fa.DFAState) string {
		return fmt.Sprintf("%v", s.NFAStates)
	}))
	section("Minimization")
	stepList(len(m.Rounds), func(i int) string { return m.Rounds[i].String() })
	section(fmt.Sprintf("Minimal DFA (%d states)", len(m.DFA.States)))
	table(dfaHeader(m.DFA), dfaRows(m.DFA, func(s *fa.DFAState) string {
		return fmt.Sprintf("%v", s.Members)
	}))
	if len(accept) > 0 {
		section("Simulation")
		rows := make([][]string, len(accept))
		for i, w := range accept {
			rows[i] = []string{w, yesno(nfa.Accepts(w)), yesno(sc.DFA.Accepts(w)), yesno(m.DFA.Accepts(w))}
		}
		table([]string{"input", "NFA", "DFA", "min DFA"}, rows)
	}
	return nil
}

func nfaRows(nfa *fa.NFA) [][]string {
	rows := make([][]string, len(nfa.States))
	for i, s := range nfa.States {
		var trans []string
		for _, r := range s.Symbols() {
			targets := make([]int, len(s.Transitions[r]))
			for j, t := range s.Transitions[r] {
				targets[j] = t.ID
			}
			sort.Ints(targets)
			trans = append(trans, fmt.Sprintf("%s→%v", fa.SymbolString(r), targets))
		}
		rows[i] = []string{fmt.Sprintf("%d", s.ID), strings.Join(trans, " "), flags(s == nfa.Start, s.IsAccepting)}
	}
	return rows
}

func dfaHeader(dfa *fa.DFA) []string {
	header := []string{"state"}
	for _, r := range dfa.Alphabet {
		header = append(header, fa.SymbolString(r))
	}
	return append(header, "", "represents")
}

func dfaRows(dfa *fa.DFA, provenance func(*fa.DFAState) string) [][]string {
	rows := make([][]string, len(dfa.States))
	for i, s := range dfa.States {
		row := []string{fmt.Sprintf("D%d", s.ID)}
		for _, r := range dfa.Alphabet {
			if t, ok := s.Transitions[r]; ok {
				row = append(row, fmt.Sprintf("D%d", t.ID))
			} else {
				row = append(row, "-")
			}
		}
		rows[i] = append(row, flags(s.IsStart, s.IsAccepting), provenance(s))
	}
	return rows
}

func flags(start, accepting bool) string {
	var f []string
	if start {
		f = append(f, "start")
	}
	if accepting {
		f = append(f, "accept")
	}
	return strings.Join(f, ",")
}

func yesno(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
