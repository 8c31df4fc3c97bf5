package fa

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Round is the partition of DFA states after one refinement round. Groups hold
// state IDs of the source DFA.
type Round struct {
	Partition [][]int
	Changed   bool // did any group split during this round?
}

func (r Round) String() string {
	groups := make([]string, len(r.Partition))
	for i, g := range r.Partition {
		groups[i] = fmt.Sprintf("%v", g)
	}
	return "{" + strings.Join(groups, " ") + "}"
}

// Minimization is the result of DFA minimization. Rounds[0] is the initial
// partition of accepting and non-accepting states.
type Minimization struct {
	DFA    *DFA
	Rounds []Round
}

// Minimize computes the minimal DFA equivalent to dfa by partition refinement.
// Only states reachable from the start state are considered. State i of the
// result represents group i of the final partition; its Members field lists the
// source states of the group.
func Minimize(dfa *DFA) *Minimization {
	m := &Minimization{}
	alphabet := dfa.Alphabet
	if alphabet == nil {
		alphabet = collectAlphabet(dfa)
	}
	reachable := reachableStates(dfa)
	var acc, nonacc []int
	for _, s := range reachable {
		if s.IsAccepting {
			acc = append(acc, s.ID)
		} else {
			nonacc = append(nonacc, s.ID)
		}
	}
	var partition [][]int
	for _, g := range [][]int{acc, nonacc} {
		if len(g) > 0 {
			partition = append(partition, g)
		}
	}
	m.Rounds = append(m.Rounds, Round{Partition: partition})
	byID := make(map[int]*DFAState, len(reachable))
	for _, s := range reachable {
		byID[s.ID] = s
	}
	for {
		groupOf := groupIndex(partition)
		changed := false
		var next [][]int
		for _, group := range partition {
			if len(group) < 2 {
				next = append(next, group)
				continue
			}
			var order []string
			buckets := make(map[string][]int)
			for _, id := range group {
				sig := transitionSignature(byID[id], alphabet, groupOf)
				if _, ok := buckets[sig]; !ok {
					order = append(order, sig)
				}
				buckets[sig] = append(buckets[sig], id)
			}
			if len(order) > 1 {
				changed = true
			}
			for _, sig := range order {
				next = append(next, buckets[sig])
			}
		}
		partition = next
		m.Rounds = append(m.Rounds, Round{Partition: partition, Changed: changed})
		if !changed {
			break
		}
	}
	m.DFA = rebuild(dfa, partition, byID, alphabet)
	tracer().Debugf("minimization: %d states -> %d states in %d rounds",
		len(dfa.States), len(m.DFA.States), len(m.Rounds)-1)
	return m
}

// rebuild creates one state per group. Transitions and flags are copied from
// the first member of a group.
func rebuild(dfa *DFA, partition [][]int, byID map[int]*DFAState, alphabet []rune) *DFA {
	r := &DFA{Alphabet: alphabet}
	groupOf := groupIndex(partition)
	for _, group := range partition {
		s := r.newState()
		s.Members = group
		for _, id := range group {
			s.NFAStates = append(s.NFAStates, byID[id].NFAStates...)
		}
		s.NFAStates = uniqueSorted(s.NFAStates)
	}
	for i, group := range partition {
		rep := byID[group[0]]
		s := r.States[i]
		s.IsAccepting = rep.IsAccepting
		for sym, target := range rep.Transitions {
			s.Transitions[sym] = r.States[groupOf[target.ID]]
		}
	}
	if dfa.Start != nil {
		r.Start = r.States[groupOf[dfa.Start.ID]]
		r.Start.IsStart = true
	}
	return r
}

func groupIndex(partition [][]int) map[int]int {
	groupOf := make(map[int]int)
	for i, group := range partition {
		for _, id := range group {
			groupOf[id] = i
		}
	}
	return groupOf
}

// transitionSignature lists, per symbol, the group of the target state, or -1.
func transitionSignature(s *DFAState, alphabet []rune, groupOf map[int]int) string {
	var b strings.Builder
	for i, sym := range alphabet {
		if i > 0 {
			b.WriteByte(',')
		}
		g := -1
		if t, ok := s.Transitions[sym]; ok {
			g = groupOf[t.ID]
		}
		b.WriteString(strconv.Itoa(g))
	}
	return b.String()
}

func reachableStates(dfa *DFA) []*DFAState {
	if dfa.Start == nil {
		return nil
	}
	seen := map[int]bool{dfa.Start.ID: true}
	queue := []*DFAState{dfa.Start}
	var states []*DFAState
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		states = append(states, s)
		for _, sym := range s.Symbols() {
			t := s.Transitions[sym]
			if !seen[t.ID] {
				seen[t.ID] = true
				queue = append(queue, t)
			}
		}
	}
	sort.Slice(states, func(i, j int) bool { return states[i].ID < states[j].ID })
	return states
}

func collectAlphabet(dfa *DFA) []rune {
	seen := make(map[rune]bool)
	var alpha []rune
	for _, s := range dfa.States {
		for r := range s.Transitions {
			if !seen[r] {
				seen[r] = true
				alpha = append(alpha, r)
			}
		}
	}
	sort.Slice(alpha, func(i, j int) bool { return alpha[i] < alpha[j] })
	return alpha
}

func uniqueSorted(ids []int) []int {
	sort.Ints(ids)
	r := ids[:0]
	for i, id := range ids {
		if i == 0 || id != ids[i-1] {
			r = append(r, id)
		}
	}
	return r
}
