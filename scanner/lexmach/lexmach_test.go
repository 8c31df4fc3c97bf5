package lexmach

import (
	"testing"

	"github.com/npillmayer/dragon"
	"github.com/npillmayer/dragon/scanner"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

const (
	tokID dragon.TokType = iota + 1
	tokNum
	tokString
	tokKeyword
	tokOp
	tokParen
)

var testSpec = Spec{
	Classes: []Class{
		{Type: tokKeyword, Name: "keyword", Words: []string{"if", "goto"}},
		{Type: tokOp, Name: "op", Words: []string{"=", "+", "-", "*", "/", "<", "<="}},
		{Type: tokParen, Name: "paren", Words: []string{"(", ")"}},
		{Type: tokString, Name: "string", Pattern: `\"[^"]*\"`},
		{Type: tokID, Name: "id", Pattern: `([a-z]|[A-Z])([a-z]|[A-Z]|[0-9]|_)*`},
		{Type: tokNum, Name: "num", Pattern: `[0-9]+`},
	},
	Skip: []string{`//[^\n]*\n?`, `( |\,|\t|\n|\r)+`},
}

func TestTokenCounts(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.scanner")
	defer teardown()
	//
	lx, err := Compile(testSpec)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		input string
		count int
	}{
		{"1", 1},
		{"1+12", 3},
		{"if x goto 4", 4},
		{`x="mystring" // commented `, 3},
		{"1,22,333", 3},
		{"ifx <= 3", 3},
		{"(a)", 3},
	}
	for _, test := range tests {
		sc, err := lx.Scanner(test.input)
		if err != nil {
			t.Fatal(err)
		}
		count := 0
		for token := sc.NextToken(); token.TokType() != scanner.EOF; token = sc.NextToken() {
			t.Logf(" %8s | %15s | @%3d", lx.ClassName(token.TokType()), token.Lexeme(), token.Span().From())
			count++
		}
		if count != test.count {
			t.Errorf("%q: expected %d tokens, have %d", test.input, test.count, count)
		}
	}
}

func TestKeywordsWinOverIdentifiers(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.scanner")
	defer teardown()
	//
	lx, err := Compile(testSpec)
	if err != nil {
		t.Fatal(err)
	}
	tokens, err := lx.Tokenize("if ifx goto")
	if err != nil {
		t.Fatal(err)
	}
	if len(tokens) != 3 {
		t.Fatalf("expected 3 tokens, got %d", len(tokens))
	}
	if tokens[0].TokType() != tokKeyword || tokens[1].TokType() != tokID {
		t.Errorf("expected keyword and identifier, have %s and %s",
			lx.ClassName(tokens[0].TokType()), lx.ClassName(tokens[1].TokType()))
	}
	if tokens[1].Value() != "id" {
		t.Errorf("expected class name as token value, have %v", tokens[1].Value())
	}
	if tokens[2].Span().From() != 7 || tokens[2].Span().To() != 11 {
		t.Errorf("expected span of 'goto' to be (7…11), is %v", tokens[2].Span())
	}
}

func TestLongestMatch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.scanner")
	defer teardown()
	//
	lx, err := Compile(testSpec)
	if err != nil {
		t.Fatal(err)
	}
	tokens, err := lx.Tokenize("a<=b<c")
	if err != nil {
		t.Fatal(err)
	}
	if len(tokens) != 5 || tokens[1].Lexeme() != "<=" || tokens[3].Lexeme() != "<" {
		t.Errorf("expected a <= b < c, have %v", tokens)
	}
}

func TestUnconsumedInput(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.scanner")
	defer teardown()
	//
	lx, err := Compile(testSpec)
	if err != nil {
		t.Fatal(err)
	}
	tokens, err := lx.Tokenize("a @ b")
	if err == nil {
		t.Errorf("expected error for illegal character '@'")
	}
	if len(tokens) != 2 {
		t.Errorf("expected scanner to skip '@' and deliver 2 tokens, got %d", len(tokens))
	}
}

func TestLazyCompilesOnce(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.scanner")
	defer teardown()
	//
	calls := 0
	get := Lazy(func() Spec {
		calls++
		return testSpec
	})
	l1, err1 := get()
	l2, err2 := get()
	if err1 != nil || err2 != nil {
		t.Fatalf("unexpected errors %v, %v", err1, err2)
	}
	if l1 != l2 || calls != 1 {
		t.Errorf("expected a single shared lexer, have %d compilations", calls)
	}
	if _, err := Compile(Spec{Classes: []Class{{Type: 1, Name: "bad", Pattern: "(a"}}}); err == nil {
		t.Errorf("expected error for malformed pattern")
	}
}
