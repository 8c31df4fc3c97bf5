package grammar

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
)

// Step records an addition of symbols to a FIRST or FOLLOW set, together with a
// human readable justification.
type Step struct {
	Set    string   // "FIRST" or "FOLLOW"
	Symbol string   // symbol whose set grew
	Added  []string // symbols added in this step, sorted
	Reason string
}

func (s Step) String() string {
	return fmt.Sprintf("%s(%s) += {%s}  (%s)", s.Set, s.Symbol, strings.Join(s.Added, ", "), s.Reason)
}

// Analysis holds FIRST and FOLLOW sets of a grammar. Create one with Analyse.
type Analysis struct {
	g           *Grammar
	first       map[string]*treeset.Set
	follow      map[string]*treeset.Set
	FirstSteps  []Step // additions to FIRST sets, in order of discovery
	FollowSteps []Step // additions to FOLLOW sets, in order of discovery
}

// Analyse computes FIRST and FOLLOW sets for a grammar by fixed-point iteration.
func Analyse(g *Grammar) *Analysis {
	ga := &Analysis{
		g:      g,
		first:  make(map[string]*treeset.Set),
		follow: make(map[string]*treeset.Set),
	}
	ga.computeFirst()
	ga.computeFollow()
	return ga
}

// Grammar returns the analysed grammar.
func (ga *Analysis) Grammar() *Grammar {
	return ga.g
}

// --- FIRST -----------------------------------------------------------------

func (ga *Analysis) computeFirst() {
	tracer().Debugf("=== FIRST ===========================================")
	ga.first[Epsilon] = treeset.NewWithStringComparator(Epsilon)
	ga.first[EOF] = treeset.NewWithStringComparator(EOF)
	for _, a := range ga.g.Terminals() {
		ga.first[a] = treeset.NewWithStringComparator()
		ga.addFirst(a, []string{a}, fmt.Sprintf("%s is a terminal", a))
	}
	for _, A := range ga.g.NonTerminals() {
		ga.first[A] = treeset.NewWithStringComparator()
	}
	for round := 1; ; round++ {
		changed := false
		for _, p := range ga.g.Productions {
			if p.IsEpsilon() {
				if ga.addFirst(p.LHS, []string{Epsilon}, fmt.Sprintf("%v", p)) {
					changed = true
				}
				continue
			}
			allNullable := true
			for i, Y := range p.RHS {
				reason := fmt.Sprintf("FIRST(%s) ⊆ FIRST(%s) by %v", Y, p.LHS, p)
				if i > 0 {
					reason = fmt.Sprintf("%s nullable, %s", strings.Join(p.RHS[:i], " "), reason)
				}
				if ga.addFirst(p.LHS, withoutEpsilon(ga.firstOf(Y)), reason) {
					changed = true
				}
				if !ga.nullable(Y) {
					allNullable = false
					break
				}
			}
			if allNullable {
				reason := fmt.Sprintf("all of %s nullable in %v", strings.Join(p.RHS, " "), p)
				if ga.addFirst(p.LHS, []string{Epsilon}, reason) {
					changed = true
				}
			}
		}
		tracer().Debugf("FIRST round %d, changed = %v", round, changed)
		if !changed {
			break
		}
	}
}

func (ga *Analysis) addFirst(A string, syms []string, reason string) bool {
	added := addAll(ga.first[A], syms)
	if len(added) == 0 {
		return false
	}
	step := Step{Set: "FIRST", Symbol: A, Added: added, Reason: reason}
	tracer().Debugf("%v", step)
	ga.FirstSteps = append(ga.FirstSteps, step)
	return true
}

// firstOf returns FIRST(X) as a slice. Symbols unknown to the grammar are treated
// as terminals.
func (ga *Analysis) firstOf(X string) []string {
	if set, ok := ga.first[X]; ok {
		return toStrings(set)
	}
	return []string{X}
}

func (ga *Analysis) nullable(X string) bool {
	if X == Epsilon {
		return true
	}
	set, ok := ga.first[X]
	return ok && set.Contains(Epsilon)
}

// First returns FIRST(X), sorted.
func (ga *Analysis) First(X string) []string {
	return ga.firstOf(X)
}

// Nullable returns true if ε ∈ FIRST(X).
func (ga *Analysis) Nullable(X string) bool {
	return ga.nullable(X)
}

// FirstOfSequence returns FIRST(X1 … Xn), sorted. It contains ε iff every Xi is
// nullable (in particular for the empty sequence).
func (ga *Analysis) FirstOfSequence(syms []string) []string {
	set := treeset.NewWithStringComparator()
	for _, X := range syms {
		if X == Epsilon {
			continue
		}
		for _, a := range ga.firstOf(X) {
			if a != Epsilon {
				set.Add(a)
			}
		}
		if !ga.nullable(X) {
			return toStrings(set)
		}
	}
	set.Add(Epsilon)
	return toStrings(set)
}

// --- FOLLOW ----------------------------------------------------------------

func (ga *Analysis) computeFollow() {
	tracer().Debugf("=== FOLLOW ==========================================")
	for _, A := range ga.g.NonTerminals() {
		ga.follow[A] = treeset.NewWithStringComparator()
	}
	if ga.g.Start != "" {
		ga.addFollow(ga.g.Start, []string{EOF}, fmt.Sprintf("%s is the start symbol", ga.g.Start))
	}
	for round := 1; ; round++ {
		changed := false
		for _, p := range ga.g.Productions {
			rhs := p.Symbols()
			for i, B := range rhs {
				if !ga.g.IsNonTerminal(B) {
					continue
				}
				beta := rhs[i+1:]
				fbeta := ga.FirstOfSequence(beta)
				if len(beta) > 0 {
					reason := fmt.Sprintf("FIRST(%s) ⊆ FOLLOW(%s) by %v", strings.Join(beta, " "), B, p)
					if ga.addFollow(B, withoutEpsilon(fbeta), reason) {
						changed = true
					}
				}
				if contains(fbeta, Epsilon) && B != p.LHS {
					var reason string
					if len(beta) == 0 {
						reason = fmt.Sprintf("FOLLOW(%s) ⊆ FOLLOW(%s), %s ends %v", p.LHS, B, B, p)
					} else {
						reason = fmt.Sprintf("FOLLOW(%s) ⊆ FOLLOW(%s), %s nullable in %v",
							p.LHS, B, strings.Join(beta, " "), p)
					}
					if ga.addFollow(B, toStrings(ga.follow[p.LHS]), reason) {
						changed = true
					}
				}
			}
		}
		tracer().Debugf("FOLLOW round %d, changed = %v", round, changed)
		if !changed {
			break
		}
	}
}

func (ga *Analysis) addFollow(A string, syms []string, reason string) bool {
	added := addAll(ga.follow[A], syms)
	if len(added) == 0 {
		return false
	}
	step := Step{Set: "FOLLOW", Symbol: A, Added: added, Reason: reason}
	tracer().Debugf("%v", step)
	ga.FollowSteps = append(ga.FollowSteps, step)
	return true
}

// Follow returns FOLLOW(A), sorted. For symbols other than non-terminals it
// returns nil.
func (ga *Analysis) Follow(A string) []string {
	set, ok := ga.follow[A]
	if !ok {
		return nil
	}
	return toStrings(set)
}

// --- Helpers ---------------------------------------------------------------

// addAll adds syms to set and returns the symbols which have not been present.
func addAll(set *treeset.Set, syms []string) []string {
	var added []string
	for _, s := range syms {
		if !set.Contains(s) {
			set.Add(s)
			added = append(added, s)
		}
	}
	return added
}

func toStrings(set *treeset.Set) []string {
	vals := set.Values()
	r := make([]string, len(vals))
	for i, v := range vals {
		r[i] = v.(string)
	}
	return r
}

func withoutEpsilon(syms []string) []string {
	r := make([]string, 0, len(syms))
	for _, s := range syms {
		if s != Epsilon {
			r = append(r, s)
		}
	}
	return r
}

func contains(syms []string, sym string) bool {
	for _, s := range syms {
		if s == sym {
			return true
		}
	}
	return false
}
