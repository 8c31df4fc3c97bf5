/*
Package grammar implements context-free grammars given in a simple textual notation,
together with the static analysis every parser construction depends upon:
FIRST and FOLLOW sets.

Grammar Notation

Each line holds the productions of one non-terminal:

    E  -> E + T | T
    T  -> T * F | F
    F  -> ( E ) | id

The arrow may be written as "->", "→" or ":". Symbols are separated by whitespace.
Every left-hand side is a non-terminal; all other symbols are terminals. The first
left-hand side is the start symbol. An empty alternative, or any of the spellings
"ε", "epsilon", "eps", "λ" and "''", denotes the empty word.

Lines without an arrow are skipped. Their line numbers are kept in
Grammar.Skipped, so that clients may report them.

Static Grammar Analysis

    g := grammar.Parse(text)
    ga := grammar.Analyse(g)
    ga.First("E")    // => [ ( id ]
    ga.Follow("E")   // => [ $ ) + ]

The analysis records every addition to a FIRST or FOLLOW set, together with the
production which caused it (see FirstSteps and FollowSteps).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package grammar

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'dragon.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("dragon.grammar")
}
