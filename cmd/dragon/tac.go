package main

import (
	"fmt"
	"strings"

	"github.com/npillmayer/dragon/cfg"
	"github.com/npillmayer/dragon/dag"
	"github.com/npillmayer/dragon/tac"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func readProgram(args []string) (*tac.Program, error) {
	text, err := readInput(args)
	if err != nil {
		return nil, err
	}
	prog := tac.Parse(text)
	if len(prog.Skipped) > 0 {
		pterm.Warning.Println(fmt.Sprintf("skipped malformed lines %v", prog.Skipped))
	}
	return prog, nil
}

func newCFGCmd() *cobra.Command {
	var layout bool
	cmd := &cobra.Command{
		Use:   "cfg <three-address code>",
		Short: "Partition three-address code into basic blocks and find loops",
		Example: `  dragon cfg "(1) i = 0" "(2) if i < 10 goto 4" "(3) goto 6" \
      "(4) i = i + 1" "(5) goto 2" "(6) done"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := readProgram(args)
			if err != nil {
				return err
			}
			g := cfg.Build(prog)
			section("Basic blocks")
			pterm.Println(fmt.Sprintf("leaders: %v", g.Leaders))
			rows := make([][]string, len(g.Blocks))
			for i, b := range g.Blocks {
				code := make([]string, len(b.Instrs))
				for j, instr := range b.Instrs {
					code[j] = instr.String()
				}
				rows[i] = []string{fmt.Sprintf("B%d", b.ID), strings.Join(code, "; "),
					blocks(b.Prev), blocks(b.Next)}
			}
			table([]string{"block", "code", "pred", "succ"}, rows)
			section("Edges")
			for _, e := range g.Edges() {
				if g.IsBackEdge(e) {
					pterm.Println(e.String() + "  (back edge)")
				} else {
					pterm.Println(e.String())
				}
			}
			section("Natural loops")
			if len(g.Loops) == 0 {
				pterm.Println("none")
			}
			for _, l := range g.Loops {
				pterm.Println(fmt.Sprintf("%v: header B%d, blocks %s, lines %v", l.BackEdge, l.Header,
					blocks(l.Blocks), l.Lines))
			}
			if layout {
				section("Layout")
				rows := make([][]string, 0, len(g.Blocks))
				for _, p := range g.Layout() {
					rows = append(rows, []string{fmt.Sprintf("B%d", p.Block), fmt.Sprintf("%d", p.Layer),
						fmt.Sprintf("%d", p.Column), fmt.Sprintf("(%d, %d)", p.X, p.Y)})
				}
				table([]string{"block", "layer", "column", "position"}, rows)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&layout, "layout", false, "print display coordinates of blocks")
	return cmd
}

func blocks(ids []int) string {
	b := make([]string, len(ids))
	for i, id := range ids {
		b[i] = fmt.Sprintf("B%d", id)
	}
	return strings.Join(b, " ")
}

func newDAGCmd() *cobra.Command {
	var live []string
	var optimize bool
	cmd := &cobra.Command{
		Use:     "dag <basic block>",
		Short:   "Construct the DAG of a basic block by value numbering",
		Example: `  dragon dag "a = b + c" "b = a - d" "c = b + c" "d = a - d" --live a,b,c`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := readProgram(args)
			if err != nil {
				return err
			}
			d := dag.Build(prog, dag.Options{Optimize: optimize})
			section("Value numbering")
			stepList(len(d.Steps), func(i int) string { return d.Steps[i].String() })
			for _, instr := range d.Skipped {
				pterm.Warning.Println(fmt.Sprintf("not an assignment, ignored: %v", instr))
			}
			if len(live) > 0 {
				d.MarkLive(live)
			}
			section("Nodes")
			rows := make([][]string, len(d.Nodes))
			for i, n := range d.Nodes {
				var operands []string
				for _, op := range []int{n.Left, n.Right} {
					if op != dag.NoOperand {
						operands = append(operands, fmt.Sprintf("n%d", op))
					}
				}
				state := ""
				if len(live) > 0 {
					state = "dead"
					if n.IsLive {
						state = "live"
					}
				}
				rows[i] = []string{fmt.Sprintf("n%d", n.ID), n.Label(), strings.Join(operands, " "),
					strings.Join(n.Identifiers, " "), state}
			}
			table([]string{"node", "label", "operands", "identifiers", ""}, rows)
			section("Value map")
			for _, v := range d.Values() {
				pterm.Println(fmt.Sprintf("%-16s → n%d", v.Key, v.Node))
			}
			if len(live) > 0 {
				section("Reconstructed code")
				list(d.Reconstruct())
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&live, "live", nil, "variables live at the end of the block")
	cmd.Flags().BoolVar(&optimize, "optimize", false, "apply algebraic identities")
	return cmd
}
