package fa

import (
	"fmt"
	"sort"
)

// DFAState is a state of a deterministic finite automaton.
type DFAState struct {
	ID          int
	NFAStates   []int              // NFA states represented, if built by subset construction
	Members     []int              // states of the source DFA, if built by minimization
	Transitions map[rune]*DFAState // at most one target per symbol
	IsAccepting bool
	IsStart     bool
}

// Symbols returns the symbols of outgoing transitions, sorted.
func (s *DFAState) Symbols() []rune {
	syms := make([]rune, 0, len(s.Transitions))
	for r := range s.Transitions {
		syms = append(syms, r)
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
	return syms
}

func (s *DFAState) String() string {
	if s.IsAccepting {
		return fmt.Sprintf("((D%d))", s.ID)
	}
	return fmt.Sprintf("(D%d)", s.ID)
}

// DFA is a deterministic finite automaton. States are indexed by ID.
type DFA struct {
	States   []*DFAState
	Start    *DFAState
	Alphabet []rune
}

func (dfa *DFA) newState() *DFAState {
	s := &DFAState{
		ID:          len(dfa.States),
		Transitions: make(map[rune]*DFAState),
	}
	dfa.States = append(dfa.States, s)
	return s
}

// Accepts simulates the DFA on input.
func (dfa *DFA) Accepts(input string) bool {
	if dfa.Start == nil {
		return false
	}
	s := dfa.Start
	for _, r := range input {
		if s = s.Transitions[r]; s == nil {
			return false
		}
	}
	return s.IsAccepting
}

// SubsetStep records the processing of one (DFA state, symbol) pair during
// subset construction.
type SubsetStep struct {
	From    int   // DFA state processed
	Symbol  rune  // input symbol
	Move    []int // NFA states reached by Symbol
	Closure []int // ε-closure of Move
	To      int   // target DFA state, -1 if Move is empty
	IsNew   bool  // did the step create a new DFA state?
}

func (step SubsetStep) String() string {
	if step.To < 0 {
		return fmt.Sprintf("D%d --%s--> ∅", step.From, SymbolString(step.Symbol))
	}
	s := fmt.Sprintf("D%d --%s--> move=%v closure=%v = D%d", step.From,
		SymbolString(step.Symbol), step.Move, step.Closure, step.To)
	if step.IsNew {
		s += " (new)"
	}
	return s
}

// Construction is the result of a subset construction.
type Construction struct {
	DFA          *DFA
	StartClosure []int // ε-closure of the NFA start state
	Steps        []SubsetStep
}

// SubsetConstruction converts an NFA into an equivalent DFA. DFA states are
// discovered breadth-first; symbols are processed in alphabet order. Every
// processed (state, symbol) pair is recorded as a step.
func SubsetConstruction(nfa *NFA) *Construction {
	dfa := &DFA{Alphabet: nfa.Alphabet()}
	c := &Construction{DFA: dfa}
	type entry struct {
		state *DFAState
		set   []*NFAState
	}
	seen := make(map[string]*DFAState)
	startSet := EpsilonClosure([]*NFAState{nfa.Start})
	c.StartClosure = stateIDs(startSet)
	start := dfa.newState()
	start.NFAStates = c.StartClosure
	start.IsAccepting = containsAccepting(startSet)
	start.IsStart = true
	dfa.Start = start
	seen[signature(startSet)] = start
	worklist := []entry{{state: start, set: startSet}}
	for len(worklist) > 0 {
		e := worklist[0]
		worklist = worklist[1:]
		for _, sym := range dfa.Alphabet {
			moved := Move(e.set, sym)
			step := SubsetStep{From: e.state.ID, Symbol: sym, Move: stateIDs(moved), To: -1}
			if len(moved) == 0 {
				c.Steps = append(c.Steps, step)
				continue
			}
			closure := EpsilonClosure(moved)
			step.Closure = stateIDs(closure)
			sig := signature(closure)
			target, found := seen[sig]
			if !found {
				target = dfa.newState()
				target.NFAStates = step.Closure
				target.IsAccepting = containsAccepting(closure)
				seen[sig] = target
				worklist = append(worklist, entry{state: target, set: closure})
				step.IsNew = true
			}
			e.state.Transitions[sym] = target
			step.To = target.ID
			c.Steps = append(c.Steps, step)
		}
	}
	tracer().Debugf("subset construction: %d NFA states -> %d DFA states",
		len(nfa.States), len(dfa.States))
	return c
}
