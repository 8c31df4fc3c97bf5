package main

import (
	"fmt"
	"strings"

	"github.com/npillmayer/dragon/grammar"
	"github.com/npillmayer/dragon/ll"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newLL1Cmd() *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:     "ll1 <grammar>",
		Short:   "Build the LL(1) parsing table of a grammar",
		Example: `  dragon ll1 grammar.txt --parse "id + id * id"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := readGrammar(args)
			if err != nil {
				return err
			}
			printGrammar(g)
			t := ll.BuildTable(g, grammar.Analyse(g))
			section("LL(1) table")
			rows := make([][]string, 0, len(g.NonTerminals()))
			for _, A := range g.NonTerminals() {
				row := []string{A}
				for _, a := range t.Columns {
					prods := make([]string, 0, 1)
					for _, p := range t.Entry(A, a) {
						prods = append(prods, p.String())
					}
					row = append(row, strings.Join(prods, " / "))
				}
				rows = append(rows, row)
			}
			table(append([]string{""}, t.Columns...), rows)
			if t.IsLL1() {
				pterm.Info.Println("grammar is LL(1)")
			} else {
				for _, c := range t.Conflicts {
					pterm.Warning.Println(c.String())
				}
			}
			if input == "" {
				return nil
			}
			section("Predictive parse")
			trace, err := ll.Parse(t, terminalsOf(wordsFor(g, input)))
			if trace != nil {
				rows := make([][]string, len(trace.Steps))
				for i, s := range trace.Steps {
					rows[i] = []string{strings.Join(s.Stack, " "), strings.Join(s.Input, " "), s.Action}
				}
				table([]string{"stack", "input", "action"}, rows)
			}
			if err != nil {
				return err
			}
			pterm.Info.Println(fmt.Sprintf("accepted, %d productions applied", len(trace.Derivation)))
			return nil
		},
	}
	cmd.Flags().StringVar(&input, "parse", "", "input to parse, terminals separated by spaces")
	return cmd
}
