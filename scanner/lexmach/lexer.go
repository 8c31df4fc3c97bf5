package lexmach

import (
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/npillmayer/dragon"
	"github.com/npillmayer/dragon/scanner"
	"github.com/npillmayer/schuko/tracing"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// tracer traces with key 'dragon.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("dragon.scanner")
}

// Class is a token class of a lexical specification. A class matches either
// its pattern or any of its words, or both.
type Class struct {
	Type    dragon.TokType
	Name    string   // used for token values and diagnostics
	Pattern string   // lexmachine regular expression, may be empty
	Words   []string // keywords and operators, matched literally
}

// Spec is the lexical specification of a small input language.
type Spec struct {
	Classes []Class
	Skip    []string // patterns of input to ignore, e.g. white space
}

// Lexer is a compiled Spec.
//
// Words of all classes are registered before any pattern. For matches of
// equal length lexmachine prefers the earlier rule, so a keyword wins over an
// identifier pattern.
type Lexer struct {
	lx    *lexmachine.Lexer
	names map[dragon.TokType]string
}

// Compile builds the DFA for spec. It returns an error if a pattern is not a
// valid lexmachine expression.
func Compile(spec Spec) (*Lexer, error) {
	l := &Lexer{lx: lexmachine.NewLexer(), names: make(map[dragon.TokType]string)}
	for _, c := range spec.Classes {
		l.names[c.Type] = c.Name
		for _, w := range c.Words {
			l.lx.Add([]byte(quote(w)), l.emit(c))
		}
	}
	for _, c := range spec.Classes {
		if c.Pattern != "" {
			l.lx.Add([]byte(c.Pattern), l.emit(c))
		}
	}
	for _, p := range spec.Skip {
		l.lx.Add([]byte(p), skip)
	}
	if err := l.lx.Compile(); err != nil {
		tracer().Errorf("cannot compile lexer: %v", err)
		return nil, err
	}
	return l, nil
}

// Lazy returns a function which compiles the specification returned by spec on
// first call. Every call returns the same lexer, or the same error.
func Lazy(spec func() Spec) func() (*Lexer, error) {
	var once sync.Once
	var l *Lexer
	var err error
	return func() (*Lexer, error) {
		once.Do(func() {
			l, err = Compile(spec())
		})
		return l, err
	}
}

// quote escapes all characters of w which are not letters, digits or '_'.
func quote(w string) string {
	var b strings.Builder
	for _, r := range w {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (l *Lexer) emit(c Class) lexmachine.Action {
	typ := int(c.Type)
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(typ, c.Name, m), nil
	}
}

func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

// ClassName returns the name of the class for token type t.
func (l *Lexer) ClassName(t dragon.TokType) string {
	if t == scanner.EOF {
		return "EOF"
	}
	if name, ok := l.names[t]; ok {
		return name
	}
	return fmt.Sprintf("<%d>", t)
}

// Scanner creates a scanner for input.
func (l *Lexer) Scanner(input string) (*Scanner, error) {
	s, err := l.lx.Scanner([]byte(input))
	if err != nil {
		return nil, err
	}
	return &Scanner{sc: s, onError: logError}, nil
}

// Tokenize scans input completely. Unexpected characters are skipped; the
// first one is reported as an error together with all tokens read.
func (l *Lexer) Tokenize(input string) ([]dragon.Token, error) {
	sc, err := l.Scanner(input)
	if err != nil {
		return nil, err
	}
	tokens, err := scanner.Tokens(sc)
	if ui, ok := err.(*machines.UnconsumedInput); ok {
		err = fmt.Errorf("unexpected input at position %d in %q", ui.StartTC, input)
	}
	return tokens, err
}

// Scanner delivers the tokens of a single input. It implements
// scanner.Tokenizer. Token values are class names.
type Scanner struct {
	sc      *lexmachine.Scanner
	onError func(error)
}

var _ scanner.Tokenizer = (*Scanner)(nil)

// SetErrorHandler sets the handler for unexpected input. nil restores the
// default, which logs the error.
func (s *Scanner) SetErrorHandler(h func(error)) {
	if h == nil {
		h = logError
	}
	s.onError = h
}

func logError(e error) {
	tracer().Errorf("scanner error: %v", e)
}

// NextToken returns the next token, or a token of type scanner.EOF. Input
// which no class matches is reported to the error handler and skipped.
func (s *Scanner) NextToken() dragon.Token {
	tok, err, eof := s.sc.Next()
	for err != nil {
		s.onError(err)
		ui, ok := err.(*machines.UnconsumedInput)
		if !ok {
			return scanner.MakeDefaultToken(scanner.EOF, "", dragon.Span{})
		}
		if ui.FailTC > s.sc.TC {
			s.sc.TC = ui.FailTC
		} else {
			s.sc.TC++
		}
		tok, err, eof = s.sc.Next()
	}
	if eof {
		end := uint64(s.sc.TC)
		return scanner.MakeDefaultToken(scanner.EOF, "", dragon.Span{end, end})
	}
	lt := tok.(*lexmachine.Token)
	t := scanner.MakeDefaultToken(dragon.TokType(lt.Type), string(lt.Lexeme),
		dragon.Span{uint64(lt.TC), uint64(lt.TC + len(lt.Lexeme))})
	t.Val = lt.Value
	tracer().Debugf("%s %q at %d", lt.Value, lt.Lexeme, lt.TC)
	return t
}
