/*
Package cfg builds control flow graphs from three-address code.

Leaders are the first instruction, every jump target and every instruction
immediately following a jump. A basic block runs from a leader up to, but not
including, the next leader; it is identified by the label of its leader.

Back edges are found by a depth-first search from the entry block: an edge to a
block currently on the DFS stack is a back edge. For every back edge n → h, the
natural loop consists of h and all blocks which reach n without passing h.

    prog := tac.Parse(listing)
    g := cfg.Build(prog)
    for _, loop := range g.Loops { … }

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package cfg

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'dragon.cfg'.
func tracer() tracing.Trace {
	return tracing.Select("dragon.cfg")
}
