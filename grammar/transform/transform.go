/*
Package transform implements the classic grammar transformations which prepare a
grammar for top-down parsing: elimination of left recursion and left-factoring.

Both transformations work on a clone of the input grammar and return a log of
human readable messages describing every rewrite they performed.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package transform

import (
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/dragon/grammar"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'dragon.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("dragon.grammar")
}

// ErrNoBaseCase is returned when left recursion cannot be eliminated because a
// non-terminal has only left-recursive alternatives.
var ErrNoBaseCase = errors.New("left-recursive non-terminal without base case")

// alternatives keeps the right-hand sides of every non-terminal while a
// transformation is in progress.
type alternatives map[string][][]string

func collect(g *grammar.Grammar) alternatives {
	alts := make(alternatives)
	for _, p := range g.Productions {
		alts[p.LHS] = append(alts[p.LHS], append([]string(nil), p.Symbols()...))
	}
	return alts
}

// install replaces the productions of g by alts, in the order of g's non-terminals.
func (alts alternatives) install(g *grammar.Grammar) {
	var prods []*grammar.Production
	for _, A := range g.NonTerminals() {
		for _, rhs := range alts[A] {
			if len(rhs) == 0 {
				rhs = []string{grammar.Epsilon}
			}
			prods = append(prods, &grammar.Production{LHS: A, RHS: rhs})
		}
	}
	g.SetProductions(prods)
}

// add appends rhs to the alternatives of A, unless already present.
func (alts alternatives) add(A string, rhs []string) {
	for _, old := range alts[A] {
		if same(old, rhs) {
			return
		}
	}
	alts[A] = append(alts[A], rhs)
}

// --- Left recursion --------------------------------------------------------

// EliminateLeftRecursion removes direct and indirect left recursion from g.
// Non-terminals are ordered as declared in g. For each A(i), productions
// A(i) → A(j) γ with j < i are expanded first, then direct left recursion on A(i)
// is replaced by right recursion on a fresh non-terminal A(i)'.
//
// Productions A → A are dropped. If a non-terminal has left-recursive
// alternatives only, ErrNoBaseCase is returned.
func EliminateLeftRecursion(g *grammar.Grammar) (*grammar.Grammar, []string, error) {
	c := g.Clone()
	alts := collect(c)
	order := c.NonTerminals()
	var log []string
	logf := func(format string, args ...interface{}) {
		msg := fmt.Sprintf(format, args...)
		tracer().Debugf(msg)
		log = append(log, msg)
	}
	for i, Ai := range order {
		for _, Aj := range order[:i] {
			var expanded [][]string
			for _, rhs := range alts[Ai] {
				if len(rhs) == 0 || rhs[0] != Aj {
					expanded = append(expanded, rhs)
					continue
				}
				gamma := rhs[1:]
				for _, delta := range alts[Aj] {
					expanded = appendUnique(expanded, concat(delta, gamma))
				}
				logf("substitute %s in %s → %s", Aj, Ai, show(rhs))
			}
			alts[Ai] = expanded
		}
		var recursive, base [][]string
		for _, rhs := range alts[Ai] {
			if len(rhs) > 0 && rhs[0] == Ai {
				if len(rhs) == 1 {
					logf("drop cyclic production %s → %s", Ai, Ai)
					continue
				}
				recursive = append(recursive, rhs[1:])
			} else {
				base = append(base, rhs)
			}
		}
		if len(recursive) == 0 {
			alts[Ai] = base
			continue
		}
		if len(base) == 0 {
			tracer().Errorf("cannot eliminate left recursion of %s: no base case", Ai)
			return nil, log, fmt.Errorf("%w: %s", ErrNoBaseCase, Ai)
		}
		Ai1 := c.FreshName(Ai)
		c.InsertNonTerminalAfter(Ai1, Ai)
		alts[Ai] = nil
		for _, beta := range base {
			alts.add(Ai, concat(beta, []string{Ai1}))
		}
		alts[Ai1] = nil
		for _, alpha := range recursive {
			alts.add(Ai1, concat(alpha, []string{Ai1}))
		}
		alts.add(Ai1, nil)
		logf("eliminate direct left recursion of %s with new non-terminal %s", Ai, Ai1)
	}
	alts.install(c)
	return c, log, nil
}

// --- Left factoring --------------------------------------------------------

// LeftFactor factors out common leading symbols of alternatives. Whenever a
// non-terminal A has two or more alternatives starting with the same symbol x,
// these are replaced by A → x A' and A' → (remaining suffixes). The scan restarts
// after each factoring, until no non-terminal has two alternatives sharing a first
// symbol.
func LeftFactor(g *grammar.Grammar) (*grammar.Grammar, []string) {
	c := g.Clone()
	alts := collect(c)
	var log []string
	for {
		factored := false
		for _, A := range c.NonTerminals() {
			x, ok := sharedPrefix(alts[A])
			if !ok {
				continue
			}
			A1 := c.FreshName(A)
			c.InsertNonTerminalAfter(A1, A)
			var rest [][]string
			var suffixes [][]string
			for _, rhs := range alts[A] {
				if len(rhs) == 0 || rhs[0] != x {
					rest = append(rest, rhs)
					continue
				}
				if len(suffixes) == 0 {
					rest = append(rest, []string{x, A1})
				}
				suffixes = appendUnique(suffixes, rhs[1:])
			}
			alts[A] = rest
			alts[A1] = suffixes
			msg := fmt.Sprintf("factor %s out of %d alternatives of %s, new non-terminal %s",
				x, len(suffixes), A, A1)
			tracer().Debugf(msg)
			log = append(log, msg)
			factored = true
			break
		}
		if !factored {
			break
		}
	}
	alts.install(c)
	return c, log
}

// sharedPrefix finds the first symbol which starts at least two alternatives.
func sharedPrefix(rhss [][]string) (string, bool) {
	count := make(map[string]int)
	var order []string
	for _, rhs := range rhss {
		if len(rhs) == 0 {
			continue
		}
		if count[rhs[0]] == 0 {
			order = append(order, rhs[0])
		}
		count[rhs[0]]++
	}
	for _, x := range order {
		if count[x] > 1 {
			return x, true
		}
	}
	return "", false
}

// --- Helpers ---------------------------------------------------------------

func concat(a, b []string) []string {
	r := make([]string, 0, len(a)+len(b))
	r = append(r, a...)
	return append(r, b...)
}

func appendUnique(rhss [][]string, rhs []string) [][]string {
	for _, old := range rhss {
		if same(old, rhs) {
			return rhss
		}
	}
	return append(rhss, rhs)
}

func same(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func show(rhs []string) string {
	if len(rhs) == 0 {
		return grammar.Epsilon
	}
	return strings.Join(rhs, " ")
}
