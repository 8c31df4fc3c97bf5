/*
Package fa implements finite automata for lexical analysis: Thompson's construction
of an NFA from a regular expression, the subset construction of a DFA from an NFA,
and DFA minimization by partition refinement.

Every construction records its intermediate steps, e.g. each (state, symbol) pair
processed by the subset construction or the partition after each refinement round.

    nfa, err := fa.Thompson("(a|b)*abb")
    sc := fa.SubsetConstruction(nfa)      // sc.DFA, sc.Steps
    m := fa.Minimize(sc.DFA)              // m.DFA, m.Rounds
    m.DFA.Accepts("babb")                 // => true

State IDs are allocated per construction; automata built by different calls never
share state.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package fa

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'dragon.fa'.
func tracer() tracing.Trace {
	return tracing.Select("dragon.fa")
}
