package grammar

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"
)

// Distinguished symbols.
const (
	Epsilon = "ε" // the empty word
	EOF     = "$" // end of input
)

// epsilonSpellings are normalized to Epsilon during parsing, ignoring case.
var epsilonSpellings = map[string]bool{
	"ε":       true,
	"epsilon": true,
	"eps":     true,
	"λ":       true,
	"''":      true,
	`""`:      true,
}

func isEpsilonSpelling(sym string) bool {
	return epsilonSpellings[strings.ToLower(sym)]
}

// arrows are tried in order; the first one found in a line splits it.
var arrows = []string{"->", "→", ":"}

// --- Productions -----------------------------------------------------------

// Production is a grammar rule LHS → RHS. An ε-production has a RHS consisting
// of the single symbol Epsilon.
type Production struct {
	Serial int      // position within the grammar
	LHS    string   // a non-terminal
	RHS    []string // sequence of symbols
}

// IsEpsilon returns true for productions A → ε.
func (p *Production) IsEpsilon() bool {
	return len(p.RHS) == 0 || (len(p.RHS) == 1 && p.RHS[0] == Epsilon)
}

// Symbols returns the RHS, with ε-productions returning an empty slice.
func (p *Production) Symbols() []string {
	if p.IsEpsilon() {
		return nil
	}
	return p.RHS
}

// Equals compares two productions structurally, ignoring serial numbers.
func (p *Production) Equals(other *Production) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.LHS == other.LHS && sameSymbols(p.RHS, other.RHS)
}

func (p *Production) String() string {
	return fmt.Sprintf("%s → %s", p.LHS, strings.Join(p.RHS, " "))
}

func sameSymbols(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// --- Grammar ---------------------------------------------------------------

// Grammar is a context-free grammar. Grammars are built once, either by
// Parse or by a Builder, and treated as immutable afterwards. Algorithms which
// transform grammars operate on a clone.
type Grammar struct {
	Productions []*Production // in order of definition
	Start       string        // start symbol
	Skipped     []int         // line numbers of input lines without an arrow
	nonterms    []string
	terms       []string
	isNonterm   map[string]bool
	isTerm      map[string]bool
}

// NewGrammar creates an empty grammar.
func NewGrammar() *Grammar {
	return &Grammar{
		isNonterm: make(map[string]bool),
		isTerm:    make(map[string]bool),
	}
}

// Parse reads a grammar from its textual notation (see package documentation).
// Parse never fails: lines it cannot interpret are skipped.
func Parse(text string) *Grammar {
	g := NewGrammar()
	type line struct {
		no       int
		lhs, rhs string
	}
	var lines []line
	sc := bufio.NewScanner(strings.NewReader(text))
	no := 0
	for sc.Scan() {
		no++
		l := strings.TrimSpace(sc.Text())
		if l == "" || strings.HasPrefix(l, "#") || strings.HasPrefix(l, "//") {
			continue
		}
		lhs, rhs, ok := splitArrow(l)
		if !ok || lhs == "" {
			tracer().Infof("grammar line %d has no arrow, skipping: %q", no, l)
			g.Skipped = append(g.Skipped, no)
			continue
		}
		lines = append(lines, line{no: no, lhs: lhs, rhs: rhs})
	}
	// first pass: every LHS is a non-terminal
	for _, l := range lines {
		g.AddNonTerminal(l.lhs)
		if g.Start == "" {
			g.Start = l.lhs
		}
	}
	// second pass: split alternatives into symbol sequences
	for _, l := range lines {
		for _, alt := range strings.Split(l.rhs, "|") {
			fields := strings.Fields(alt)
			rhs := make([]string, 0, len(fields))
			for _, sym := range fields {
				if isEpsilonSpelling(sym) {
					continue
				}
				rhs = append(rhs, sym)
			}
			if len(rhs) == 0 {
				rhs = []string{Epsilon}
			}
			g.AddProduction(l.lhs, rhs)
		}
	}
	tracer().Debugf("parsed grammar with %d productions", len(g.Productions))
	return g
}

func splitArrow(line string) (string, string, bool) {
	for _, arrow := range arrows {
		if i := strings.Index(line, arrow); i >= 0 {
			lhs := strings.TrimSpace(line[:i])
			if strings.ContainsAny(lhs, " \t") {
				continue
			}
			return lhs, strings.TrimSpace(line[i+len(arrow):]), true
		}
	}
	return "", "", false
}

// AddNonTerminal declares a non-terminal. A symbol previously classified as a
// terminal is re-classified.
func (g *Grammar) AddNonTerminal(A string) {
	if g.isNonterm[A] {
		return
	}
	if g.isTerm[A] {
		delete(g.isTerm, A)
		g.terms = remove(g.terms, A)
	}
	g.isNonterm[A] = true
	g.nonterms = append(g.nonterms, A)
}

// InsertNonTerminalAfter declares a non-terminal A and places it right behind
// non-terminal B in the order of non-terminals.
func (g *Grammar) InsertNonTerminalAfter(A, B string) {
	if g.isNonterm[A] {
		return
	}
	g.AddNonTerminal(A)
	g.nonterms = g.nonterms[:len(g.nonterms)-1]
	at := len(g.nonterms)
	for i, N := range g.nonterms {
		if N == B {
			at = i + 1
			break
		}
	}
	g.nonterms = append(g.nonterms, "")
	copy(g.nonterms[at+1:], g.nonterms[at:])
	g.nonterms[at] = A
}

// AddProduction appends a production A → rhs. A is declared as a non-terminal;
// RHS symbols which are not known as non-terminals are classified as terminals.
func (g *Grammar) AddProduction(A string, rhs []string) *Production {
	g.AddNonTerminal(A)
	if g.Start == "" {
		g.Start = A
	}
	if len(rhs) == 0 {
		rhs = []string{Epsilon}
	}
	for _, sym := range rhs {
		if sym == Epsilon || g.isNonterm[sym] || g.isTerm[sym] {
			continue
		}
		g.isTerm[sym] = true
		g.terms = append(g.terms, sym)
	}
	p := &Production{
		Serial: len(g.Productions),
		LHS:    A,
		RHS:    append([]string(nil), rhs...),
	}
	g.Productions = append(g.Productions, p)
	return p
}

// SetProductions replaces all productions and renumbers them. Symbols no longer
// in use remain declared.
func (g *Grammar) SetProductions(prods []*Production) {
	g.Productions = nil
	for _, p := range prods {
		g.AddProduction(p.LHS, p.RHS)
	}
}

// NonTerminals returns the non-terminals in order of declaration.
func (g *Grammar) NonTerminals() []string {
	return append([]string(nil), g.nonterms...)
}

// Terminals returns the terminals in order of first appearance.
func (g *Grammar) Terminals() []string {
	return append([]string(nil), g.terms...)
}

// Symbols returns all non-terminals, followed by all terminals.
func (g *Grammar) Symbols() []string {
	syms := g.NonTerminals()
	return append(syms, g.terms...)
}

// IsTerminal is true for terminals of g and for EOF.
func (g *Grammar) IsTerminal(sym string) bool {
	return g.isTerm[sym] || sym == EOF
}

// IsNonTerminal is true for non-terminals of g.
func (g *Grammar) IsNonTerminal(sym string) bool {
	return g.isNonterm[sym]
}

// ProductionsFor returns all productions with left-hand side A, in order.
func (g *Grammar) ProductionsFor(A string) []*Production {
	var prods []*Production
	for _, p := range g.Productions {
		if p.LHS == A {
			prods = append(prods, p)
		}
	}
	return prods
}

// Production returns production no. n, or nil.
func (g *Grammar) Production(n int) *Production {
	if n < 0 || n >= len(g.Productions) {
		return nil
	}
	return g.Productions[n]
}

// FreshName returns a name derived from base by appending primes, which is not
// yet used as a symbol in g.
func (g *Grammar) FreshName(base string) string {
	name := base + "'"
	for g.isNonterm[name] || g.isTerm[name] {
		name += "'"
	}
	return name
}

// Clone creates a deep copy of g.
func (g *Grammar) Clone() *Grammar {
	c := NewGrammar()
	c.Start = g.Start
	c.Skipped = append([]int(nil), g.Skipped...)
	for _, A := range g.nonterms {
		c.AddNonTerminal(A)
	}
	for _, a := range g.terms {
		c.isTerm[a] = true
		c.terms = append(c.terms, a)
	}
	for _, p := range g.Productions {
		c.AddProduction(p.LHS, p.RHS)
	}
	return c
}

// Augment returns a clone of g with an additional start production S' → S,
// which becomes production no. 0.
func (g *Grammar) Augment() *Grammar {
	c := NewGrammar()
	start := g.FreshName(g.Start)
	c.AddNonTerminal(start)
	for _, A := range g.nonterms {
		c.AddNonTerminal(A)
	}
	for _, a := range g.terms {
		c.isTerm[a] = true
		c.terms = append(c.terms, a)
	}
	c.AddProduction(start, []string{g.Start})
	for _, p := range g.Productions {
		c.AddProduction(p.LHS, p.RHS)
	}
	c.Start = start
	return c
}

// String lists the productions grouped by left-hand side, in the order of
// non-terminals.
func (g *Grammar) String() string {
	var b bytes.Buffer
	for _, A := range g.nonterms {
		prods := g.ProductionsFor(A)
		if len(prods) == 0 {
			continue
		}
		alts := make([]string, len(prods))
		for i, p := range prods {
			alts[i] = strings.Join(p.RHS, " ")
		}
		b.WriteString(fmt.Sprintf("%s → %s\n", A, strings.Join(alts, " | ")))
	}
	return b.String()
}

// Dump is a debugging helper.
func (g *Grammar) Dump() {
	tracer().Debugf("--- grammar, start = %s -------------", g.Start)
	for _, p := range g.Productions {
		tracer().Debugf("%3d: %v", p.Serial, p)
	}
	tracer().Debugf("-------------------------------------")
}

func remove(syms []string, sym string) []string {
	for i, s := range syms {
		if s == sym {
			return append(syms[:i], syms[i+1:]...)
		}
	}
	return syms
}

// --- Builder ---------------------------------------------------------------

// Builder is a helper to build grammars programmatically:
//
//    b := grammar.NewBuilder()
//    b.LHS("S").N("A").T("a").End()  // S  →  A a
//    b.LHS("A").T("b").End()         // A  →  b
//    b.LHS("A").Epsilon()            // A  →  ε
//    g := b.Grammar()
//
type Builder struct {
	g   *Grammar
	lhs string
	rhs []string
}

// NewBuilder creates a builder for an empty grammar.
func NewBuilder() *Builder {
	return &Builder{g: NewGrammar()}
}

// LHS starts a new production.
func (b *Builder) LHS(A string) *Builder {
	b.lhs = A
	b.rhs = nil
	b.g.AddNonTerminal(A)
	return b
}

// N appends a non-terminal to the current production.
func (b *Builder) N(A string) *Builder {
	b.g.AddNonTerminal(A)
	b.rhs = append(b.rhs, A)
	return b
}

// T appends a terminal to the current production.
func (b *Builder) T(a string) *Builder {
	b.rhs = append(b.rhs, a)
	return b
}

// End finishes the current production.
func (b *Builder) End() *Production {
	return b.g.AddProduction(b.lhs, b.rhs)
}

// Epsilon finishes the current production as an ε-production.
func (b *Builder) Epsilon() *Production {
	return b.g.AddProduction(b.lhs, []string{Epsilon})
}

// Grammar returns the grammar built so far.
func (b *Builder) Grammar() *Grammar {
	return b.g
}
