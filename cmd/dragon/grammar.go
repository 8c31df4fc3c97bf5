package main

import (
	"fmt"
	"strings"

	"github.com/npillmayer/dragon/grammar"
	"github.com/npillmayer/dragon/grammar/transform"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newFirstCmd() *cobra.Command {
	var steps bool
	cmd := &cobra.Command{
		Use:     "first <grammar>",
		Short:   "Compute FIRST and FOLLOW sets of a grammar",
		Example: `  dragon first "S -> A b" "A -> a | ε" --steps`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := readGrammar(args)
			if err != nil {
				return err
			}
			printGrammar(g)
			ga := grammar.Analyse(g)
			section("FIRST and FOLLOW")
			rows := make([][]string, 0, len(g.NonTerminals()))
			for _, A := range g.NonTerminals() {
				rows = append(rows, []string{A, yesno(ga.Nullable(A)), set(ga.First(A)), set(ga.Follow(A))})
			}
			table([]string{"non-terminal", "nullable", "FIRST", "FOLLOW"}, rows)
			if steps {
				section("Steps")
				all := append(append([]grammar.Step(nil), ga.FirstSteps...), ga.FollowSteps...)
				stepList(len(all), func(i int) string { return all[i].String() })
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&steps, "steps", false, "print the steps of the fixed-point iteration")
	return cmd
}

func newTransformCmd() *cobra.Command {
	var factor bool
	cmd := &cobra.Command{
		Use:     "transform <grammar>",
		Short:   "Eliminate left recursion and left-factor a grammar",
		Example: `  dragon transform "E -> E + T | T" "T -> id" --factor`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := readGrammar(args)
			if err != nil {
				return err
			}
			printGrammar(g)
			h, log, err := transform.EliminateLeftRecursion(g)
			if err != nil {
				return err
			}
			section("Left recursion elimination")
			list(log)
			if factor {
				var flog []string
				h, flog = transform.LeftFactor(h)
				section("Left factoring")
				list(flog)
			}
			section("Result")
			pterm.Println(h.String())
			return nil
		},
	}
	cmd.Flags().BoolVar(&factor, "factor", false, "left-factor after eliminating left recursion")
	return cmd
}

func printGrammar(g *grammar.Grammar) {
	section("Grammar")
	rows := make([][]string, len(g.Productions))
	for i, p := range g.Productions {
		rows[i] = []string{fmt.Sprintf("%d", i), p.String()}
	}
	table([]string{"#", "production"}, rows)
	pterm.Println(fmt.Sprintf("non-terminals: %s", strings.Join(g.NonTerminals(), " ")))
	pterm.Println(fmt.Sprintf("terminals:     %s", strings.Join(g.Terminals(), " ")))
}

func set(syms []string) string {
	return "{" + strings.Join(syms, ", ") + "}"
}
