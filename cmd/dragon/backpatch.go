package main

import (
	"fmt"
	"strings"

	"github.com/npillmayer/dragon/backpatch"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newBackpatchCmd() *cobra.Command {
	var start int
	cmd := &cobra.Command{
		Use:     "backpatch <boolean expression>",
		Short:   "Translate a boolean expression into jumping code by backpatching",
		Example: `  dragon backpatch "x < 100 || x > 200 && x != y" --start 100`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := backpatch.Simulate(strings.Join(args, " "), backpatch.Options{Start: start})
			if err != nil {
				return err
			}
			section("Steps")
			stepList(len(r.Steps), func(i int) string { return r.Steps[i].String() })
			section("Code")
			list(r.Code())
			pterm.Println(fmt.Sprintf("true exit %d, false exit %d", r.TrueExit, r.FalseExit))
			return nil
		},
	}
	cmd.Flags().IntVar(&start, "start", backpatch.DefaultStart, "address of the first instruction")
	return cmd
}
