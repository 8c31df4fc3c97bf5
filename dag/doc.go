/*
Package dag builds the DAG of a basic block of three-address code by value
numbering.

A variable map tracks which node every variable currently denotes, a value map
tracks which node represents a computation (op, left, right). Requesting a
computation twice returns the same node, which detects common subexpressions.
Operations on constant operands are folded. With optimizations enabled,
algebraic identities

    x+0   x*1   x*0   0*x   x-0   x/1

collapse to an operand (or to the constant 0), and (A op C1) op C2 is rewritten
to A op (C1 op C2) for + and *.

After building the DAG, clients mark live nodes, given the variables live at the
end of the block, and reconstruct optimized code from the live nodes:

    d := dag.Build(tac.Parse(block), dag.Options{Optimize: true})
    d.MarkLive([]string{"x", "y"})
    for _, line := range d.Reconstruct() { … }

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package dag

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'dragon.dag'.
func tracer() tracing.Trace {
	return tracing.Select("dragon.dag")
}
