/*
Package dragon is a toolbox of compiler front-end algorithms, each implemented as a
self-contained engine which records every intermediate step it takes. It is intended
for teaching and visualization: clients feed a regular expression, a grammar or a
listing of three-address code into one of the engines and receive the final structure
together with an ordered trace of how it was built.

Package structure is as follows:

■ grammar: textual grammars, FIRST/FOLLOW analysis; sub-package transform eliminates
left recursion and left-factors grammars.

■ fa: Thompson's construction, subset construction and DFA minimization.

■ ll: LL(1) predictive parsing tables.

■ lr: LR(0), SLR(1), LALR(1) and LR(1) automata and parsing tables.

■ tac, cfg, dag: three-address code, control-flow graphs and value-numbering DAGs.

■ backpatch: a backpatching simulator for boolean expressions.

■ sdd: a small evaluator for semantic rules of syntax-directed definitions.

The base package contains data types which are used throughout all the other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package dragon
