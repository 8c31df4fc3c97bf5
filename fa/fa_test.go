package fa

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestPostfix(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.fa")
	defer teardown()
	//
	tests := []struct {
		regex, postfix string
	}{
		{"ab", "ab·"},
		{"a|b", "ab|"},
		{"(a|b)*abb", "ab|*a·b·b·"},
		{"a*b", "a*b·"},
		{"(a)(b)", "ab·"},
		{"ab+c?", "ab+·c?·"},
		{`a\*`, "a*·"},
	}
	for _, test := range tests {
		p, err := Postfix(test.regex)
		if err != nil {
			t.Errorf("%q: unexpected error %v", test.regex, err)
		} else if p != test.postfix {
			t.Errorf("%q: expected postfix %q, got %q", test.regex, test.postfix, p)
		}
	}
}

func TestThompsonStates(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.fa")
	defer teardown()
	//
	nfa, err := Thompson("(a|b)*abb")
	if err != nil {
		t.Fatal(err)
	}
	if len(nfa.States) != 15 {
		t.Errorf("expected NFA to have 15 states, has %d", len(nfa.States))
	}
	accepting := 0
	for _, s := range nfa.States {
		if s.IsAccepting {
			accepting++
		}
		for _, targets := range s.Transitions {
			for _, target := range targets {
				if target == nfa.Start {
					t.Errorf("start state has incoming edge from %v", s)
				}
			}
		}
	}
	if accepting != 1 || !nfa.End.IsAccepting {
		t.Errorf("expected exactly one accepting state, the end state; have %d", accepting)
	}
	if alpha := string(nfa.Alphabet()); alpha != "ab" {
		t.Errorf("expected alphabet 'ab', got %q", alpha)
	}
}

func TestThompsonIDsArePerCall(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.fa")
	defer teardown()
	//
	n1, _ := Thompson("a")
	n2, _ := Thompson("a")
	if n1.Start.ID != n2.Start.ID || n1.Start.ID != 2 {
		t.Errorf("expected both start states to have ID 2, have %d and %d", n1.Start.ID, n2.Start.ID)
	}
}

func TestThompsonSyntaxErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.fa")
	defer teardown()
	//
	for _, regex := range []string{"(a", "a)", "|a", "*", "", "a||b", "()", `a\`} {
		if _, err := Thompson(regex); err == nil {
			t.Errorf("%q: expected syntax error", regex)
		} else if !errors.Is(err, ErrSyntax) {
			t.Errorf("%q: expected error to wrap ErrSyntax, is %v", regex, err)
		}
	}
}

func TestNFAAccepts(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.fa")
	defer teardown()
	//
	tests := []struct {
		regex  string
		accept []string
		reject []string
	}{
		{"(a|b)*abb", []string{"abb", "aabb", "babb", "ababb"}, []string{"", "ab", "abba", "bb"}},
		{"a+", []string{"a", "aaa"}, []string{"", "b"}},
		{"ab?", []string{"a", "ab"}, []string{"", "abb", "b"}},
		{`a\*`, []string{"a*"}, []string{"a", "aa"}},
		{"a*", []string{"", "a", "aaaa"}, []string{"b"}},
	}
	for _, test := range tests {
		nfa, err := Thompson(test.regex)
		if err != nil {
			t.Fatalf("%q: %v", test.regex, err)
		}
		for _, s := range test.accept {
			if !nfa.Accepts(s) {
				t.Errorf("%q: expected NFA to accept %q", test.regex, s)
			}
		}
		for _, s := range test.reject {
			if nfa.Accepts(s) {
				t.Errorf("%q: expected NFA to reject %q", test.regex, s)
			}
		}
	}
}

func TestSubsetConstruction(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.fa")
	defer teardown()
	//
	nfa, _ := Thompson("(a|b)*abb")
	sc := SubsetConstruction(nfa)
	if len(sc.DFA.States) != 5 {
		t.Errorf("expected DFA to have 5 states, has %d", len(sc.DFA.States))
	}
	if len(sc.Steps) != 10 {
		t.Errorf("expected 10 steps (5 states × 2 symbols), have %d", len(sc.Steps))
	}
	first := sc.Steps[0]
	if first.From != 0 || first.Symbol != 'a' || !first.IsNew || first.To != 1 {
		t.Errorf("unexpected first step: %v", first)
	}
	if !sc.DFA.Start.IsStart || sc.DFA.Start.ID != 0 {
		t.Errorf("expected D0 to be the start state")
	}
	for _, s := range sc.DFA.States {
		for sym := range s.Transitions {
			if sym == Epsilon {
				t.Errorf("DFA state %v has an ε-transition", s)
			}
		}
	}
}

func TestMinimize(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.fa")
	defer teardown()
	//
	nfa, _ := Thompson("(a|b)*abb")
	m := Minimize(SubsetConstruction(nfa).DFA)
	if len(m.DFA.States) != 4 {
		t.Errorf("expected minimal DFA to have 4 states, has %d", len(m.DFA.States))
	}
	if len(m.Rounds) < 2 {
		t.Fatalf("expected at least 2 rounds, have %d", len(m.Rounds))
	}
	if len(m.Rounds[0].Partition) != 2 || len(m.Rounds[0].Partition[0]) != 1 {
		t.Errorf("expected initial partition {accepting} {non-accepting}, got %v", m.Rounds[0])
	}
	if m.Rounds[len(m.Rounds)-1].Changed {
		t.Errorf("expected last round to be stable")
	}
	covered := 0
	for _, s := range m.DFA.States {
		covered += len(s.Members)
	}
	if covered != 5 {
		t.Errorf("expected groups to cover 5 source states, cover %d", covered)
	}
	// idempotence
	again := Minimize(m.DFA)
	if len(again.DFA.States) != len(m.DFA.States) {
		t.Errorf("minimizing a minimal DFA changed its size from %d to %d",
			len(m.DFA.States), len(again.DFA.States))
	}
}

func TestMinimizeDropsUnreachable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.fa")
	defer teardown()
	//
	dfa := &DFA{}
	s0, s1, s2 := dfa.newState(), dfa.newState(), dfa.newState()
	s0.Transitions['a'] = s1
	s1.IsAccepting = true
	s2.IsAccepting = true
	s2.Transitions['b'] = s1
	dfa.Start = s0
	m := Minimize(dfa)
	if len(m.DFA.States) != 2 {
		t.Errorf("expected 2 states, have %d", len(m.DFA.States))
	}
	if !m.DFA.Accepts("a") || m.DFA.Accepts("b") {
		t.Errorf("minimal DFA accepts wrong language")
	}
}

func TestLanguageAgreement(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.fa")
	defer teardown()
	//
	inputs := allStrings("ab", 6)
	for _, regex := range []string{"(a|b)*abb", "a(b|a)*", "(ab|ba)*", "a+b?a", "(a*b*)*"} {
		nfa, err := Thompson(regex)
		if err != nil {
			t.Fatalf("%q: %v", regex, err)
		}
		dfa := SubsetConstruction(nfa).DFA
		mdfa := Minimize(dfa).DFA
		for _, s := range inputs {
			n, d, m := nfa.Accepts(s), dfa.Accepts(s), mdfa.Accepts(s)
			if n != d || d != m {
				t.Errorf("%q on %q: NFA=%v, DFA=%v, minimal DFA=%v", regex, s, n, d, m)
			}
		}
	}
}

func TestDot(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.fa")
	defer teardown()
	//
	nfa, _ := Thompson("a|b")
	var buf bytes.Buffer
	if err := nfa.WriteDot(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "label=\"ε\"") {
		t.Errorf("expected ε-edges in NFA dot output")
	}
	buf.Reset()
	SubsetConstruction(nfa).DFA.WriteDot(&buf)
	if !strings.Contains(buf.String(), "doublecircle") {
		t.Errorf("expected accepting states in DFA dot output")
	}
}

func allStrings(alphabet string, maxlen int) []string {
	r := []string{""}
	level := []string{""}
	for i := 0; i < maxlen; i++ {
		var next []string
		for _, prefix := range level {
			for _, c := range alphabet {
				next = append(next, prefix+string(c))
			}
		}
		r = append(r, next...)
		level = next
	}
	return r
}

func TestThompsonSimplified(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.fa")
	defer teardown()
	//
	nfa, err := ThompsonSimplified("(a|b)*abb")
	if err != nil {
		t.Fatal(err)
	}
	if len(nfa.States) != 11 {
		t.Errorf("expected simplified NFA to have 11 states, has %d", len(nfa.States))
	}
	for i, s := range nfa.States {
		if s.ID != i {
			t.Errorf("expected state at index %d to have ID %d, has %d", i, i, s.ID)
		}
		for _, targets := range s.Transitions {
			for _, target := range targets {
				if target == nfa.Start {
					t.Errorf("start state has incoming edge from %v", s)
				}
			}
		}
	}
	if _, err := ThompsonSimplified("a|"); err == nil {
		t.Errorf("expected syntax error for 'a|'")
	}
}

func TestThompsonSimplifiedAgrees(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.fa")
	defer teardown()
	//
	inputs := allStrings("ab", 6)
	for _, regex := range []string{"(a|b)*abb", "a(b|a)*", "(ab|ba)*", "a+b?a", "(a*b*)*", "ab*(a|b)?b"} {
		full, err := Thompson(regex)
		if err != nil {
			t.Fatalf("%q: %v", regex, err)
		}
		simple, err := ThompsonSimplified(regex)
		if err != nil {
			t.Fatalf("%q: %v", regex, err)
		}
		if len(simple.States) >= len(full.States) {
			t.Errorf("%q: expected fewer states, have %d vs %d", regex, len(simple.States), len(full.States))
		}
		if epsilons(simple) >= epsilons(full) {
			t.Errorf("%q: expected fewer ε-transitions, have %d vs %d", regex, epsilons(simple), epsilons(full))
		}
		dfa := SubsetConstruction(simple).DFA
		for _, s := range inputs {
			if f, n, d := full.Accepts(s), simple.Accepts(s), dfa.Accepts(s); f != n || n != d {
				t.Errorf("%q on %q: NFA=%v, simplified NFA=%v, DFA=%v", regex, s, f, n, d)
			}
		}
	}
}

func epsilons(nfa *NFA) int {
	n := 0
	for _, s := range nfa.States {
		n += len(s.Transitions[Epsilon])
	}
	return n
}
