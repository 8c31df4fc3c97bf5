/*
Package sdd evaluates syntax-directed definitions over LR parse trees.

A syntax-directed definition attaches semantic rules to the productions of a
grammar. A rule computes an attribute of the production's head from
attributes of the symbols of its body:

    E → E + T     E.val = E1.val + T.val
    F → num       F.val = num.lexval

Symbols are referenced by name. If a symbol occurs more than once in a
production, a numeric suffix selects an occurrence in the body (E1 is the first
E of the body); the plain name of the head always denotes the head. Terminals
carry the synthesized attribute 'lexval', which is the token text, converted to
a number where possible.

Expressions support numbers, strings in double quotes, attribute references,
the arithmetic operators + - * /, unary minus, parentheses and calls of the
builtin functions max, min, concat and str. Only synthesized attributes are
supported (S-attributed definitions); they are evaluated bottom-up in a
post-order walk of the parse tree.

Productions without rules and with a single body symbol copy the attributes of
that symbol.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package sdd

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'dragon.sdd'.
func tracer() tracing.Trace {
	return tracing.Select("dragon.sdd")
}
