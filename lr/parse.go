package lr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/emirpasic/gods/sets/hashset"
	"github.com/npillmayer/dragon"
	"github.com/npillmayer/dragon/grammar"
	"github.com/npillmayer/schuko/gconf"
)

// ErrSyntax is returned by Parse if the input is not in the language.
var ErrSyntax = errors.New("syntax error")

// Token is an input token for the parse simulation: a terminal of the grammar
// together with the text it has been scanned from.
type Token struct {
	Terminal string
	Text     string
	Span     dragon.Span
}

// Words splits input at white space into tokens, each word being a terminal.
func Words(input string) []Token {
	words := strings.Fields(input)
	tokens := make([]Token, len(words))
	for i, w := range words {
		tokens[i] = Token{Terminal: w, Text: w, Span: dragon.Span{uint64(i), uint64(i + 1)}}
	}
	return tokens
}

// FromTokens converts scanner tokens to parser tokens. terminal maps a token to
// the name of a grammar terminal.
func FromTokens(toks []dragon.Token, terminal func(dragon.Token) string) []Token {
	tokens := make([]Token, len(toks))
	for i, tok := range toks {
		tokens[i] = Token{Terminal: terminal(tok), Text: tok.Lexeme(), Span: tok.Span()}
	}
	return tokens
}

// Node is a node of a parse tree. Leaves are terminals, inner nodes carry the
// production they have been reduced by. Productions are those of the augmented
// grammar.
type Node struct {
	Symbol   string
	Rule     *grammar.Production // nil for terminals
	Children []*Node
	Text     string // token text for terminals
	Span     dragon.Span
}

// IsLeaf is true for terminal nodes.
func (n *Node) IsLeaf() bool {
	return n.Rule == nil
}

func (n *Node) String() string {
	var b strings.Builder
	n.format(&b, 0)
	return b.String()
}

func (n *Node) format(b *strings.Builder, indent int) {
	b.WriteString(strings.Repeat("  ", indent))
	if n.IsLeaf() {
		b.WriteString(fmt.Sprintf("%s %q\n", n.Symbol, n.Text))
		return
	}
	b.WriteString(n.Symbol)
	b.WriteString("\n")
	for _, ch := range n.Children {
		ch.format(b, indent+1)
	}
}

// ParseStep is one move of the LR parser.
type ParseStep struct {
	States  []int    // state stack, bottom first
	Symbols []string // symbol stack, bottom first
	Input   []string // remaining input
	Action  string
}

func (s ParseStep) String() string {
	return fmt.Sprintf("%v %s | %s | %s", s.States, strings.Join(s.Symbols, " "),
		strings.Join(s.Input, " "), s.Action)
}

// ParseResult is the record of an LR parse. Reductions lists the productions
// applied, i.e. a rightmost derivation in reverse.
type ParseResult struct {
	Steps      []ParseStep
	Reductions []*grammar.Production
	Accepted   bool
	Tree       *Node // the parse tree, if the input has been accepted
}

// We store pairs of state-IDs and symbols on the parse stack.
type stackitem struct {
	stateID int
	node    *Node
}

// Parse simulates an LR parser driven by table t on input. EOF is appended to
// input if missing. For conflicting cells the first action is chosen, i.e.
// shifts are preferred over reductions.
//
// Reductions which do not consume input may cycle or grow the stack without
// bound for conflicting tables. Parse detects both and fails with ErrSyntax.
//
// The result is returned even if parsing fails. If configuration flag
// panic-on-parser-stuck is set, Parse panics instead of returning a syntax error.
func Parse(t *Table, input []Token) (*ParseResult, error) {
	tokens := append([]Token(nil), input...)
	if len(tokens) == 0 || tokens[len(tokens)-1].Terminal != grammar.EOF {
		var end dragon.Span
		if len(tokens) > 0 {
			last := tokens[len(tokens)-1].Span.To()
			end = dragon.Span{last, last}
		}
		tokens = append(tokens, Token{Terminal: grammar.EOF, Span: end})
	}
	g := t.CFSM.Grammar
	result := &ParseResult{}
	stack := []stackitem{{stateID: t.CFSM.S0.ID}}
	pos := 0
	// stack configurations since the last shift, and the lowest stack height
	seen := hashset.New()
	low := len(stack)
	record := func(action string) {
		step := ParseStep{Action: action}
		for i, item := range stack {
			step.States = append(step.States, item.stateID)
			if i > 0 {
				step.Symbols = append(step.Symbols, item.node.Symbol)
			}
		}
		for _, tok := range tokens[pos:] {
			step.Input = append(step.Input, tok.Terminal)
		}
		result.Steps = append(result.Steps, step)
	}
	for {
		tos := stack[len(stack)-1]
		token := tokens[pos]
		actions := t.Actions(tos.stateID, token.Terminal)
		if len(actions) == 0 {
			record("error")
			return result, stuck(fmt.Errorf("%w: unexpected %q in state %d at position %d",
				ErrSyntax, token.Terminal, tos.stateID, pos))
		}
		if len(actions) > 1 {
			tracer().Debugf("conflict in state %d on %s, choosing %v", tos.stateID, token.Terminal, actions[0])
		}
		action := actions[0]
		switch action.Kind {
		case AcceptAction:
			record("accept")
			result.Accepted = true
			result.Tree = tos.node
			return result, nil
		case ShiftAction:
			record(fmt.Sprintf("shift %d", action.Target))
			leaf := &Node{Symbol: token.Terminal, Text: token.Text, Span: token.Span}
			stack = append(stack, stackitem{stateID: action.Target, node: leaf})
			pos++
			seen.Clear()
			low = len(stack)
		case ReduceAction:
			rule := g.Production(action.Target)
			record(fmt.Sprintf("reduce %v", rule))
			n := len(rule.Symbols())
			if n > len(stack)-1 {
				return result, stuck(fmt.Errorf("%w: stack underflow reducing %v", ErrSyntax, rule))
			}
			node := &Node{Symbol: rule.LHS, Rule: rule}
			for _, item := range stack[len(stack)-n:] {
				node.Children = append(node.Children, item.node)
				node.Span = node.Span.Extend(item.node.Span)
			}
			stack = stack[:len(stack)-n]
			if len(stack) < low {
				low = len(stack)
			}
			next, ok := t.Goto(stack[len(stack)-1].stateID, rule.LHS)
			if !ok {
				return result, stuck(fmt.Errorf("%w: no GOTO entry for %s in state %d",
					ErrSyntax, rule.LHS, stack[len(stack)-1].stateID))
			}
			tracer().Debugf("reduced %v, next state = %d", rule, next)
			result.Reductions = append(result.Reductions, rule)
			stack = append(stack, stackitem{stateID: next, node: node})
			if len(stack) > low+t.action.M() {
				record("error")
				return result, stuck(fmt.Errorf("%w: reductions grow the stack without consuming %q at position %d",
					ErrSyntax, token.Terminal, pos))
			}
			sig := stateSignature(stack)
			if seen.Contains(sig) {
				record("error")
				return result, stuck(fmt.Errorf("%w: reductions cycle without consuming %q at position %d",
					ErrSyntax, token.Terminal, pos))
			}
			seen.Add(sig)
		}
	}
}

func stateSignature(stack []stackitem) string {
	var b strings.Builder
	for _, item := range stack {
		b.WriteString(strconv.Itoa(item.stateID))
		b.WriteByte('.')
	}
	return b.String()
}

func stuck(err error) error {
	tracer().Errorf("%v", err)
	if gconf.GetBool("panic-on-parser-stuck") {
		panic(`LR-parser is stuck.

Configuration flag panic-on-parser-stuck is set to true. It is aimed at helping
to debug a parser and do a post-mortem of why it got stuck. However, if this is
a production environment and you did not expect this to panic, please unset
panic-on-parser-stuck to its default (false).

` + err.Error())
	}
	return err
}
