package main

import (
	"fmt"
	"strings"

	"github.com/npillmayer/dragon/grammar"
	"github.com/npillmayer/dragon/lr"
	"github.com/npillmayer/dragon/sdd"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newSDDCmd() *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "sdd <definition>",
		Short: "Evaluate a syntax-directed definition over the parse tree of an input",
		Example: `  dragon sdd "E -> E + T { E.val = E1.val + T.val }" "E -> T" \
      "T -> num { T.val = num.lexval }" --parse "1 + 2 + 3"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(args)
			if err != nil {
				return err
			}
			d, err := sdd.ParseDefinition(text)
			if err != nil {
				return err
			}
			section("Definition")
			pterm.Println(strings.TrimRight(d.String(), "\n"))
			if input == "" {
				return nil
			}
			g := d.Grammar()
			_, t := lr.Build(grammar.Analyse(g), lr.LALR1)
			for _, c := range t.Conflicts() {
				pterm.Warning.Println(c.String())
			}
			result, err := lr.Parse(t, wordsFor(g, input))
			if err != nil {
				return err
			}
			ev, err := d.Evaluate(result.Tree)
			if err != nil {
				return err
			}
			section("Evaluation")
			stepList(len(ev.Steps), func(i int) string { return ev.Steps[i].String() })
			section("Annotated parse tree")
			renderTree(annotated(ev, result.Tree, pterm.LeveledList{}, 0))
			pterm.Info.Println(fmt.Sprintf("%s %v", result.Tree.Symbol, ev.Root))
			return nil
		},
	}
	cmd.Flags().StringVar(&input, "parse", "", "input to parse and evaluate")
	return cmd
}

func annotated(ev *sdd.Evaluation, n *lr.Node, ll pterm.LeveledList, level int) pterm.LeveledList {
	text := n.Symbol
	if n.IsLeaf() {
		text = fmt.Sprintf("%s %q", n.Symbol, n.Text)
	} else if attrs := ev.Attributes(n); len(attrs) > 0 {
		text = fmt.Sprintf("%s %v", n.Symbol, attrs)
	}
	ll = append(ll, treeNode(text, level))
	for _, ch := range n.Children {
		ll = annotated(ev, ch, ll, level+1)
	}
	return ll
}
