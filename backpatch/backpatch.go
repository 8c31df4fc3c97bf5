package backpatch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/dragon"
)

// ErrSyntax is the error class of malformed boolean expressions.
var ErrSyntax = errors.New("syntax error")

// Unresolved is the target of a jump not yet backpatched.
const Unresolved = -1

// DefaultStart is the address of the first instruction, if not set otherwise.
const DefaultStart = 100

// Instr is a jump instruction. Cond is empty for unconditional jumps.
type Instr struct {
	Addr   int
	Cond   string
	Target int
}

func (i *Instr) String() string {
	target := "_"
	if i.Target != Unresolved {
		target = fmt.Sprintf("%d", i.Target)
	}
	if i.Cond == "" {
		return fmt.Sprintf("%d: goto %s", i.Addr, target)
	}
	return fmt.Sprintf("%d: if %s goto %s", i.Addr, i.Cond, target)
}

// StepKind classifies simulation steps.
type StepKind int

// Kinds of steps
const (
	Emit StepKind = iota
	Backpatch
	Reduce
)

func (k StepKind) String() string {
	switch k {
	case Emit:
		return "emit"
	case Backpatch:
		return "backpatch"
	}
	return "reduce"
}

// Step is a single step of the simulation.
type Step struct {
	Kind      StepKind
	Text      string // human readable description
	List      []int  // backpatch: the list patched
	Target    int    // backpatch: the target address
	TrueList  []int  // reduce: lists of the reduced expression
	FalseList []int
}

func (s Step) String() string {
	return fmt.Sprintf("%-9s %s", s.Kind, s.Text)
}

// Options control the simulation.
type Options struct {
	Start int // address of the first instruction; 0 selects DefaultStart
}

// Result is the outcome of a simulation.
type Result struct {
	Instrs    []*Instr // with all targets resolved
	Steps     []Step
	TrueList  []int // true-list of the whole expression
	FalseList []int // false-list of the whole expression
	TrueExit  int
	FalseExit int
}

// Code returns the instructions as text lines.
func (r *Result) Code() []string {
	lines := make([]string, len(r.Instrs))
	for i, instr := range r.Instrs {
		lines[i] = instr.String()
	}
	return lines
}

// lists are the synthesized attributes of a boolean expression.
type lists struct {
	truelist, falselist []int
	text                string
}

type simulator struct {
	tokens []dragon.Token
	pos    int
	input  string
	start  int
	result *Result
}

// Simulate translates a boolean expression into jumping code.
func Simulate(expr string, opts Options) (*Result, error) {
	tokens, err := tokenize(expr)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrSyntax, err)
		tracer().Errorf("%v", err)
		return nil, err
	}
	start := opts.Start
	if start == 0 {
		start = DefaultStart
	}
	sim := &simulator{tokens: tokens, input: expr, start: start, result: &Result{}}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: empty expression", ErrSyntax)
	}
	b, err := sim.or()
	if err == nil && sim.pos < len(tokens) {
		err = sim.errorf("unexpected %q", sim.peek().Lexeme())
	}
	if err != nil {
		tracer().Errorf("%v", err)
		return nil, err
	}
	r := sim.result
	r.TrueList, r.FalseList = b.truelist, b.falselist
	r.TrueExit = sim.nextinstr()
	r.FalseExit = r.TrueExit + 1
	sim.backpatch(b.truelist, r.TrueExit, "true exit")
	sim.backpatch(b.falselist, r.FalseExit, "false exit")
	return r, nil
}

// --- Parser ----------------------------------------------------------------

func (sim *simulator) peek() dragon.Token {
	if sim.pos >= len(sim.tokens) {
		return nil
	}
	return sim.tokens[sim.pos]
}

func (sim *simulator) is(typ dragon.TokType) bool {
	t := sim.peek()
	return t != nil && t.TokType() == typ
}

func (sim *simulator) errorf(format string, args ...interface{}) error {
	at := len(sim.input)
	if t := sim.peek(); t != nil {
		at = int(t.Span().From())
	}
	return fmt.Errorf("%w at position %d: %s", ErrSyntax, at, fmt.Sprintf(format, args...))
}

// or := and { '||' and }
func (sim *simulator) or() (lists, error) {
	b1, err := sim.and()
	if err != nil {
		return b1, err
	}
	for sim.is(tokOr) {
		sim.pos++
		sim.backpatch(b1.falselist, sim.nextinstr(), "false-list of "+b1.text)
		b2, err := sim.and()
		if err != nil {
			return b2, err
		}
		b1 = sim.reduce(lists{
			truelist:  merge(b1.truelist, b2.truelist),
			falselist: b2.falselist,
			text:      b1.text + " || " + b2.text,
		})
	}
	return b1, nil
}

// and := not { '&&' not }
func (sim *simulator) and() (lists, error) {
	b1, err := sim.not()
	if err != nil {
		return b1, err
	}
	for sim.is(tokAnd) {
		sim.pos++
		sim.backpatch(b1.truelist, sim.nextinstr(), "true-list of "+b1.text)
		b2, err := sim.not()
		if err != nil {
			return b2, err
		}
		b1 = sim.reduce(lists{
			truelist:  b2.truelist,
			falselist: merge(b1.falselist, b2.falselist),
			text:      b1.text + " && " + b2.text,
		})
	}
	return b1, nil
}

// not := '!' not | primary
func (sim *simulator) not() (lists, error) {
	if !sim.is(tokNot) {
		return sim.primary()
	}
	sim.pos++
	b, err := sim.not()
	if err != nil {
		return b, err
	}
	return sim.reduce(lists{truelist: b.falselist, falselist: b.truelist, text: "!" + b.text}), nil
}

// primary := '(' or ')' | true | false | operand [relop operand]
func (sim *simulator) primary() (lists, error) {
	t := sim.peek()
	if t == nil {
		return lists{}, sim.errorf("unexpected end of expression")
	}
	switch t.TokType() {
	case tokLParen:
		sim.pos++
		b, err := sim.or()
		if err != nil {
			return b, err
		}
		if !sim.is(tokRParen) {
			return b, sim.errorf("missing ')'")
		}
		sim.pos++
		b.text = "(" + b.text + ")"
		return b, nil
	case tokTrue:
		sim.pos++
		addr := sim.emit("")
		return sim.reduce(lists{truelist: []int{addr}, text: "true"}), nil
	case tokFalse:
		sim.pos++
		addr := sim.emit("")
		return sim.reduce(lists{falselist: []int{addr}, text: "false"}), nil
	case tokIdent, tokNumber, tokArith:
		cond, err := sim.operand()
		if err != nil {
			return lists{}, err
		}
		if sim.is(tokRelop) {
			op := sim.peek()
			sim.pos++
			e2, err := sim.operand()
			if err != nil {
				return lists{}, sim.errorf("missing operand after %q", op.Lexeme())
			}
			cond = strings.Join([]string{cond, op.Lexeme(), e2}, " ")
		}
		addr := sim.emit(cond)
		sim.emit("")
		return sim.reduce(lists{truelist: []int{addr}, falselist: []int{addr + 1}, text: cond}), nil
	}
	return lists{}, sim.errorf("unexpected %q", t.Lexeme())
}

// operand := ['-'] value { arithop value }, where value is an identifier or a
// number. The operand is returned as text, tokens separated by blanks.
func (sim *simulator) operand() (string, error) {
	var parts []string
	if t := sim.peek(); t != nil && t.Lexeme() == "-" {
		parts = append(parts, "-")
		sim.pos++
	}
	for {
		t := sim.peek()
		if t == nil || t.TokType() != tokIdent && t.TokType() != tokNumber {
			return "", sim.errorf("missing operand")
		}
		parts = append(parts, t.Lexeme())
		sim.pos++
		if !sim.is(tokArith) {
			return strings.Join(parts, " "), nil
		}
		parts = append(parts, sim.peek().Lexeme())
		sim.pos++
	}
}

// --- Code generation -------------------------------------------------------

func (sim *simulator) nextinstr() int {
	return sim.start + len(sim.result.Instrs)
}

func (sim *simulator) emit(cond string) int {
	instr := &Instr{Addr: sim.nextinstr(), Cond: cond, Target: Unresolved}
	sim.result.Instrs = append(sim.result.Instrs, instr)
	sim.step(Step{Kind: Emit, Text: instr.String()})
	return instr.Addr
}

func (sim *simulator) backpatch(list []int, target int, what string) {
	for _, addr := range list {
		sim.result.Instrs[addr-sim.start].Target = target
	}
	sim.step(Step{
		Kind:   Backpatch,
		Text:   fmt.Sprintf("backpatch(%v, %d) for %s", list, target, what),
		List:   append([]int(nil), list...),
		Target: target,
	})
}

func (sim *simulator) reduce(b lists) lists {
	sim.step(Step{
		Kind:      Reduce,
		Text:      fmt.Sprintf("B → %s  truelist=%v falselist=%v", b.text, b.truelist, b.falselist),
		TrueList:  b.truelist,
		FalseList: b.falselist,
	})
	return b
}

func (sim *simulator) step(s Step) {
	tracer().Debugf("%v", s)
	sim.result.Steps = append(sim.result.Steps, s)
}

func merge(l1, l2 []int) []int {
	r := make([]int, 0, len(l1)+len(l2))
	r = append(r, l1...)
	return append(r, l2...)
}
