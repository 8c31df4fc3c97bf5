/*
Package ll builds LL(1) predictive parsing tables.

For each production A → α, the production is entered at (A, a) for every
terminal a in FIRST(α) and, if α is nullable, at (A, b) for every b in FOLLOW(A).
A cell receiving a second production is a conflict. Conflicts are not errors: both
productions are kept in the cell and the conflict is recorded, so clients may
display the ambiguity.

    ga := grammar.Analyse(g)
    table := ll.BuildTable(g, ga)
    if !table.IsLL1() {
        for _, c := range table.Conflicts { … }
    }

Parse simulates a table-driven predictive parser on a sequence of terminals and
records every step.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package ll

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'dragon.ll'.
func tracer() tracing.Trace {
	return tracing.Select("dragon.ll")
}
