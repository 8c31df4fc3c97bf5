/*
Package lr constructs LR parser tables: the characteristic finite state machine
(CFSM) of a grammar and the ACTION and GOTO tables derived from it.

Four kinds of tables are supported:

    LR0    LR(0) items, reduce on every terminal
    SLR1   LR(0) items, reduce on FOLLOW(A)
    LR1    canonical LR(1) items, reduce on an item's lookahead
    LALR1  LR(1) states with identical cores merged

Building Tables

The grammar is augmented by a new start production S' → S, which becomes
production 0. The CFSM is constructed breadth-first from the closure of
[S' → ·S] (with lookahead $ for LR(1)), trying goto-sets for every grammar symbol.
Item sets are identified by a structural hash of their sorted items, so that two
item sets with the same items are the same state.

    ga := grammar.Analyse(g)
    cfsm, table := lr.Build(ga, lr.SLR1)
    for _, c := range table.Conflicts() {
        fmt.Println(c)  // e.g. "shift/reduce conflict in state 2 on =: s6/r5"
    }

Conflicts are not resolved. Every ACTION cell holds an ordered sequence of
actions, which allows clients to display the ambiguity of a grammar for a
given kind of table.

Parsing

Parse simulates a table driven LR parser and records every move. It returns a
parse tree for accepted input.

    result, err := lr.Parse(table, lr.Words("id + id * id"))

The CFSM may be exported to Graphviz's Dot-format, tables to HTML.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lr

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'dragon.lr'.
func tracer() tracing.Trace {
	return tracing.Select("dragon.lr")
}
