package tac

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/dragon"
)

// Kind is the type of an instruction.
type Kind int

// Kinds of instructions
const (
	Opaque   Kind = iota // any other statement
	Assign               // result = arg1 [op arg2], or result = <expression> with op "="
	CondJump             // if <cond> goto <n>
	Jump                 // goto <n>
)

func (k Kind) String() string {
	switch k {
	case Assign:
		return "assign"
	case CondJump:
		return "if-goto"
	case Jump:
		return "goto"
	}
	return "opaque"
}

// Instr is a three-address code instruction.
type Instr struct {
	Line   int    // label of the instruction
	Kind   Kind   //
	Text   string // instruction text, without label
	Result string // assignments: target variable
	Arg1   string // assignments: first operand, or the right-hand side for op "="
	Op     string // assignments: operator, empty for copies
	Arg2   string // assignments: second operand, empty for copies and unary operators
	Cond   string // conditional jumps: the condition
	Target int    // jumps: label of the jump target
}

// IsJump is true for conditional and unconditional jumps.
func (i *Instr) IsJump() bool {
	return i.Kind == Jump || i.Kind == CondJump
}

// IsCopy is true for assignments x = y.
func (i *Instr) IsCopy() bool {
	return i.Kind == Assign && i.Op == ""
}

// IsUnary is true for assignments x = op y.
func (i *Instr) IsUnary() bool {
	return i.Kind == Assign && i.Op != "" && i.Op != "=" && i.Arg2 == ""
}

// IsComplex is true for assignments with a right-hand side which is not of the
// form y, op y or y op z, e.g. x = a[i] or x = f(a, b).
func (i *Instr) IsComplex() bool {
	return i.Kind == Assign && i.Op == "="
}

func (i *Instr) String() string {
	return fmt.Sprintf("(%d) %s", i.Line, i.Text)
}

// Program is a sequence of instructions in order of appearance.
type Program struct {
	Instrs  []*Instr
	Skipped []int // line numbers (1-based, of the input text) of malformed lines
	index   map[int]int
}

// Parse reads a three-address code listing. Parse never fails: malformed
// lines are skipped and recorded in Program.Skipped. Blank lines and lines
// starting with '#' or '//' are ignored.
func Parse(text string) *Program {
	prog := &Program{index: make(map[int]int)}
	sc := bufio.NewScanner(strings.NewReader(text))
	lineno, label := 0, 0
	for sc.Scan() {
		lineno++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		instr, err := parseLine(line, label+1)
		if err != nil {
			tracer().Infof("skipping line %d: %v", lineno, err)
			prog.Skipped = append(prog.Skipped, lineno)
			continue
		}
		label = instr.Line
		if _, dup := prog.index[instr.Line]; dup {
			tracer().Infof("skipping line %d: duplicate label %d", lineno, instr.Line)
			prog.Skipped = append(prog.Skipped, lineno)
			continue
		}
		prog.index[instr.Line] = len(prog.Instrs)
		prog.Instrs = append(prog.Instrs, instr)
	}
	tracer().Debugf("read %d instructions, skipped %d lines", len(prog.Instrs), len(prog.Skipped))
	return prog
}

// Index returns the position of the instruction with a given label, or -1.
func (p *Program) Index(label int) int {
	if i, ok := p.index[label]; ok {
		return i
	}
	return -1
}

// Instr returns the instruction with a given label, or nil.
func (p *Program) Instr(label int) *Instr {
	if i := p.Index(label); i >= 0 {
		return p.Instrs[i]
	}
	return nil
}

// parseLine parses a single instruction. next is the label used for unlabelled
// instructions.
func parseLine(line string, next int) (*Instr, error) {
	tokens, err := tokenize(line)
	if err != nil {
		return nil, err
	}
	instr := &Instr{Line: next}
	tokens, start := stripLabel(tokens, instr)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("empty instruction")
	}
	instr.Text = strings.TrimSpace(line[start:])
	switch {
	case tokens[0].TokType() == tokIf:
		return instr, parseCondJump(tokens, line, instr)
	case tokens[0].TokType() == tokGoto:
		instr.Kind = Jump
		target, ok := jumpTarget(tokens[1:])
		if !ok {
			return nil, fmt.Errorf("malformed jump %q", instr.Text)
		}
		instr.Target = target
		return instr, nil
	case len(tokens) > 1 && tokens[1].Lexeme() == "=":
		return instr, parseAssign(tokens, line, instr)
	}
	instr.Kind = Opaque
	return instr, nil
}

// stripLabel removes a label "(n)" or "n:" from the start of a line.
func stripLabel(tokens []dragon.Token, instr *Instr) ([]dragon.Token, int) {
	if len(tokens) >= 3 && tokens[0].Lexeme() == "(" && tokens[1].TokType() == tokNumber &&
		tokens[2].Lexeme() == ")" {
		if n, err := strconv.Atoi(tokens[1].Lexeme()); err == nil {
			instr.Line = n
			return tokens[3:], int(tokens[2].Span().To())
		}
	}
	if len(tokens) >= 2 && tokens[0].TokType() == tokNumber && tokens[1].Lexeme() == ":" {
		if n, err := strconv.Atoi(tokens[0].Lexeme()); err == nil {
			instr.Line = n
			return tokens[2:], int(tokens[1].Span().To())
		}
	}
	return tokens, 0
}

func parseCondJump(tokens []dragon.Token, line string, instr *Instr) error {
	instr.Kind = CondJump
	g := -1
	for k, t := range tokens {
		if t.TokType() == tokGoto {
			g = k
			break
		}
	}
	if g < 2 {
		return fmt.Errorf("malformed conditional jump %q", instr.Text)
	}
	from, to := tokens[1].Span().From(), tokens[g-1].Span().To()
	instr.Cond = line[from:to]
	target, ok := jumpTarget(tokens[g+1:])
	if !ok {
		return fmt.Errorf("malformed jump target in %q", instr.Text)
	}
	instr.Target = target
	return nil
}

// jumpTarget reads "n" or "(n)".
func jumpTarget(tokens []dragon.Token) (int, bool) {
	if len(tokens) == 3 && tokens[0].Lexeme() == "(" && tokens[2].Lexeme() == ")" {
		tokens = tokens[1:2]
	}
	if len(tokens) != 1 || tokens[0].TokType() != tokNumber {
		return 0, false
	}
	n, err := strconv.Atoi(tokens[0].Lexeme())
	return n, err == nil
}

func parseAssign(tokens []dragon.Token, line string, instr *Instr) error {
	instr.Kind = Assign
	if tokens[0].TokType() != tokIdent {
		return fmt.Errorf("cannot assign to %q", tokens[0].Lexeme())
	}
	instr.Result = tokens[0].Lexeme()
	rhs := tokens[2:]
	switch {
	case len(rhs) == 1 && isOperand(rhs[0]):
		instr.Arg1 = rhs[0].Lexeme()
	case len(rhs) == 2 && rhs[0].TokType() == tokOp && isOperand(rhs[1]):
		instr.Op, instr.Arg1 = rhs[0].Lexeme(), rhs[1].Lexeme()
	case len(rhs) == 3 && isOperand(rhs[0]) && rhs[1].TokType() == tokOp && isOperand(rhs[2]):
		instr.Arg1, instr.Op, instr.Arg2 = rhs[0].Lexeme(), rhs[1].Lexeme(), rhs[2].Lexeme()
	case len(rhs) == 0:
		return fmt.Errorf("missing right-hand side in %q", instr.Text)
	default:
		instr.Op = "="
		instr.Arg1 = line[rhs[0].Span().From():rhs[len(rhs)-1].Span().To()]
	}
	return nil
}

func isOperand(t dragon.Token) bool {
	return t.TokType() == tokIdent || t.TokType() == tokNumber
}

// IsConstant is true for numeric operands.
func IsConstant(arg string) bool {
	_, err := strconv.ParseFloat(arg, 64)
	return err == nil
}
