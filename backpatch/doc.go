/*
Package backpatch simulates the translation of boolean expressions into jumping
code by backpatching.

A recursive descent parser reads expressions with operators ||, && and !,
parentheses, relational atoms (a + 1 < b) and the constants true and false.
The operands of a relational atom are identifiers and numbers joined by the
arithmetic operators + - * / %, with an optional leading minus. For
every subexpression it synthesizes a true-list and a false-list: the addresses
of jump instructions which still have to be filled with the target to jump to
if the expression is true or false, respectively.

    B → B1 || M B2    backpatch(B1.falselist, M.instr)
                      B.truelist = merge(B1.truelist, B2.truelist)
                      B.falselist = B2.falselist
    B → B1 && M B2    backpatch(B1.truelist, M.instr)
                      B.truelist = B2.truelist
                      B.falselist = merge(B1.falselist, B2.falselist)
    B → ! B1          swap lists
    B → E1 rel E2     emit "if E1 rel E2 goto _" (true), "goto _" (false)
    B → true | false  emit "goto _"

After parsing, the true-list of the expression is backpatched to a synthetic
true exit (the first address after the code), the false-list to the address
following it. Every emission, backpatch and reduction is recorded as a step.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package backpatch

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'dragon.backpatch'.
func tracer() tracing.Trace {
	return tracing.Select("dragon.backpatch")
}
