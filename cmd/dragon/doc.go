/*
Command dragon is a command line front end for the algorithm engines of this
module. Every engine is available as a sub-command; results and the
intermediate steps of the algorithms are printed as tables and trees.

    dragon regex "(a|b)*abb" --accept abb,aabb
    dragon first "E -> T E'" "E' -> + T E' | ε" "T -> id"
    dragon lr --kind lalr1 grammar.txt --parse "id = * id"
    dragon cfg program.tac
    dragon dag --live a,b --optimize block.tac
    dragon backpatch "a < b || c < d && e < f"
    dragon repl

Inputs are given as arguments, each argument being one line, or as the name
of a file to read; "-" reads from stdin.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'dragon.cli'.
func tracer() tracing.Trace {
	return tracing.Select("dragon.cli")
}
