package main

import (
	"testing"

	"github.com/npillmayer/dragon/grammar"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestSplitArgs(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.cli")
	defer teardown()
	//
	tests := []struct {
		line     string
		expected []string
	}{
		{`regex "(a|b)*abb" --accept abb`, []string{"regex", "(a|b)*abb", "--accept", "abb"}},
		{`first 'E -> E + T | T'  'T -> id'`, []string{"first", "E -> E + T | T", "T -> id"}},
		{`backpatch a<b`, []string{"backpatch", "a<b"}},
		{`sdd "S -> a" --parse ""`, []string{"sdd", "S -> a", "--parse", ""}},
	}
	for _, test := range tests {
		args, err := splitArgs(test.line)
		if err != nil {
			t.Errorf("%q: %v", test.line, err)
			continue
		}
		if len(args) != len(test.expected) {
			t.Errorf("%q: expected %q, have %q", test.line, test.expected, args)
			continue
		}
		for i := range args {
			if args[i] != test.expected[i] {
				t.Errorf("%q: argument #%d: expected %q, have %q", test.line, i, test.expected[i], args[i])
			}
		}
	}
	if _, err := splitArgs(`regex "a|b`); err == nil {
		t.Errorf("expected error for unterminated quote")
	}
}

func TestEvalQuit(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.cli")
	defer teardown()
	//
	intp := &Intp{}
	if quit, err := intp.Eval("quit"); !quit || err != nil {
		t.Errorf("expected quit, have %v, %v", quit, err)
	}
	if _, err := intp.Eval("repl"); err == nil {
		t.Errorf("expected error for nested interactive mode")
	}
}

func TestReadInputJoinsLines(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.cli")
	defer teardown()
	//
	text, err := readInput([]string{"S -> A b", "A -> a"})
	if err != nil {
		t.Fatal(err)
	}
	if text != "S -> A b\nA -> a" {
		t.Errorf("expected arguments as lines, have %q", text)
	}
}

func TestWordsForGrammar(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.cli")
	defer teardown()
	//
	g := grammar.Parse("E -> E + T | T\nT -> num | id")
	tokens := wordsFor(g, "x + 42 + id")
	expected := []string{"id", "+", "num", "+", "id"}
	for i, term := range terminalsOf(tokens) {
		if term != expected[i] {
			t.Errorf("token #%d: expected terminal %q, have %q", i, expected[i], term)
		}
	}
	if tokens[0].Text != "x" {
		t.Errorf("expected token text to be kept, is %q", tokens[0].Text)
	}
}

func TestRegexSimplifiedFlag(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.cli")
	defer teardown()
	//
	cmd := newRegexCmd()
	if err := cmd.ParseFlags([]string{"--simplified", "--dot", "nfa"}); err != nil {
		t.Fatal(err)
	}
	if f := cmd.Flags().Lookup("simplified"); f == nil || f.Value.String() != "true" {
		t.Errorf("expected flag --simplified to be set")
	}
	if err := runRegex("a|", nil, "", true); err == nil {
		t.Errorf("expected syntax error from simplified construction")
	}
}
