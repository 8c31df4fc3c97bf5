/*
Package tac reads three-address code listings.

Every line holds one instruction, optionally preceded by a label:

    (1) i = 0
    2: if i < 10 goto 4
    goto 6                  // unlabelled: number of previous line + 1

Recognized instructions are conditional jumps `if <cond> goto <n>`, jumps
`goto <n>` and assignments `result = arg1 [op arg2]` (or with a unary operator,
`result = op arg`). Other statements, like `halt` or `param x`, are kept as
opaque instructions. Lines which look like one of the recognized instructions but
are malformed are skipped; their line numbers are recorded.

Listings are tokenized with a lexmachine-based scanner.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package tac

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'dragon.tac'.
func tracer() tracing.Trace {
	return tracing.Select("dragon.tac")
}
