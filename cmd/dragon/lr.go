package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/npillmayer/dragon/grammar"
	"github.com/npillmayer/dragon/lr"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newLRCmd() *cobra.Command {
	var kind, input, html string
	var dot, states bool
	cmd := &cobra.Command{
		Use:     "lr <grammar>",
		Short:   "Build the LR automaton and parsing tables of a grammar",
		Example: `  dragon lr --kind lr1 "S -> L = R | R" "L -> * R | id" "R -> L" --parse "id = * id"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := lr.ParseKind(kind)
			if err != nil {
				return err
			}
			g, err := readGrammar(args)
			if err != nil {
				return err
			}
			cfsm, t := lr.Build(grammar.Analyse(g), k)
			if dot {
				return cfsm.WriteDot(os.Stdout)
			}
			if html != "" {
				f, err := os.Create(html)
				if err != nil {
					return err
				}
				defer f.Close()
				if err = t.WriteHTML(f); err != nil {
					return err
				}
			}
			printGrammar(cfsm.Grammar)
			if states {
				section(fmt.Sprintf("%v automaton", k))
				for _, s := range cfsm.States() {
					pterm.Println(fmt.Sprintf("I%d", s.ID))
					for _, item := range s.Items {
						pterm.Println("    " + item.String())
					}
					for _, e := range cfsm.EdgesFrom(s) {
						pterm.Println(fmt.Sprintf("    --%s--> I%d", e.Label, e.To.ID))
					}
				}
			}
			section(fmt.Sprintf("%v tables (%d states)", k, t.StateCount()))
			rows := t.Rows()
			table(rows[0], rows[1:])
			for _, c := range t.Conflicts() {
				pterm.Warning.Println(c.String())
			}
			if input == "" {
				return nil
			}
			return runLRParse(t, g, input)
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", "slr1", "kind of LR parser [lr0|slr1|lr1|lalr1]")
	cmd.Flags().StringVar(&input, "parse", "", "input to parse, terminals separated by spaces")
	cmd.Flags().StringVar(&html, "html", "", "write the tables as HTML to a file")
	cmd.Flags().BoolVar(&dot, "dot", false, "print the automaton in DOT format only")
	cmd.Flags().BoolVar(&states, "states", true, "print the item sets of the automaton")
	return cmd
}

func runLRParse(t *lr.Table, g *grammar.Grammar, input string) error {
	section("LR parse")
	result, err := lr.Parse(t, wordsFor(g, input))
	rows := make([][]string, len(result.Steps))
	for i, s := range result.Steps {
		rows[i] = []string{join(s.States), strings.Join(s.Symbols, " "), strings.Join(s.Input, " "), s.Action}
	}
	table([]string{"states", "symbols", "input", "action"}, rows)
	if err != nil {
		return err
	}
	section("Parse tree")
	renderTree(parseTree(result.Tree, pterm.LeveledList{}, 0))
	return nil
}
