package fa

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/emirpasic/gods/sets/hashset"
	"github.com/emirpasic/gods/stacks/arraystack"
)

// Epsilon labels empty transitions.
const Epsilon rune = 0

// SymbolString returns a printable representation of a transition symbol.
func SymbolString(r rune) string {
	if r == Epsilon {
		return "ε"
	}
	return string(r)
}

// NFAState is a state of a nondeterministic finite automaton. It is owned by the
// NFA it belongs to.
type NFAState struct {
	ID          int
	Transitions map[rune][]*NFAState // target states per symbol, in order of insertion
	IsAccepting bool
}

func (s *NFAState) addTransition(sym rune, to *NFAState) {
	s.Transitions[sym] = append(s.Transitions[sym], to)
}

// Symbols returns the symbols of outgoing transitions, sorted, with ε first.
func (s *NFAState) Symbols() []rune {
	syms := make([]rune, 0, len(s.Transitions))
	for r := range s.Transitions {
		syms = append(syms, r)
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
	return syms
}

func (s *NFAState) String() string {
	if s.IsAccepting {
		return fmt.Sprintf("((%d))", s.ID)
	}
	return fmt.Sprintf("(%d)", s.ID)
}

// NFA is a nondeterministic finite automaton with a single start and a single
// accepting state, as produced by Thompson's construction. States holds every
// state of the automaton, indexed by ID.
type NFA struct {
	States []*NFAState
	Start  *NFAState
	End    *NFAState
	Regex  string // the source expression, if any
}

func (nfa *NFA) newState() *NFAState {
	s := &NFAState{
		ID:          len(nfa.States),
		Transitions: make(map[rune][]*NFAState),
	}
	nfa.States = append(nfa.States, s)
	return s
}

// Alphabet returns all non-ε symbols used by transitions, sorted.
func (nfa *NFA) Alphabet() []rune {
	seen := make(map[rune]bool)
	var alpha []rune
	for _, s := range nfa.States {
		for r := range s.Transitions {
			if r != Epsilon && !seen[r] {
				seen[r] = true
				alpha = append(alpha, r)
			}
		}
	}
	sort.Slice(alpha, func(i, j int) bool { return alpha[i] < alpha[j] })
	return alpha
}

// EpsilonClosure returns the set of states reachable from states by ε-transitions
// only (including states themselves), sorted by ID.
func EpsilonClosure(states []*NFAState) []*NFAState {
	seen := hashset.New()
	stack := arraystack.New()
	var closure []*NFAState
	for _, s := range states {
		if !seen.Contains(s.ID) {
			seen.Add(s.ID)
			closure = append(closure, s)
			stack.Push(s)
		}
	}
	for !stack.Empty() {
		top, _ := stack.Pop()
		s := top.(*NFAState)
		for _, t := range s.Transitions[Epsilon] {
			if !seen.Contains(t.ID) {
				seen.Add(t.ID)
				closure = append(closure, t)
				stack.Push(t)
			}
		}
	}
	sortStates(closure)
	return closure
}

// Move returns the set of states reachable from states by a single transition
// on sym, sorted by ID.
func Move(states []*NFAState, sym rune) []*NFAState {
	seen := hashset.New()
	var targets []*NFAState
	for _, s := range states {
		for _, t := range s.Transitions[sym] {
			if !seen.Contains(t.ID) {
				seen.Add(t.ID)
				targets = append(targets, t)
			}
		}
	}
	sortStates(targets)
	return targets
}

// Accepts simulates the NFA on input.
func (nfa *NFA) Accepts(input string) bool {
	current := EpsilonClosure([]*NFAState{nfa.Start})
	for _, r := range input {
		current = EpsilonClosure(Move(current, r))
		if len(current) == 0 {
			return false
		}
	}
	return containsAccepting(current)
}

func containsAccepting(states []*NFAState) bool {
	for _, s := range states {
		if s.IsAccepting {
			return true
		}
	}
	return false
}

func sortStates(states []*NFAState) {
	sort.Slice(states, func(i, j int) bool { return states[i].ID < states[j].ID })
}

func stateIDs(states []*NFAState) []int {
	ids := make([]int, len(states))
	for i, s := range states {
		ids[i] = s.ID
	}
	return ids
}

// signature is the canonical key of a sorted set of NFA states.
func signature(states []*NFAState) string {
	var b strings.Builder
	for i, s := range states {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(s.ID))
	}
	return b.String()
}
