package lr

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/cnf/structhash"
	"github.com/npillmayer/dragon/grammar"
)

// === Items =================================================================

// Item is an LR item: a production with a dot marking the parser's position
// within the right-hand side. LR(1) items carry a lookahead terminal; for
// LR(0) items Lookahead is empty.
//
// Items are values; two items are identical iff production, dot and lookahead
// are equal.
type Item struct {
	Prod      *grammar.Production
	Dot       int
	Lookahead string
}

// StartItem returns the item [S' → ·S] for the start production of an augmented
// grammar.
func StartItem(g *grammar.Grammar, lookahead string) Item {
	return Item{Prod: g.Productions[0], Dot: 0, Lookahead: lookahead}
}

// PeekSymbol returns the symbol after the dot, or "" for complete items.
func (i Item) PeekSymbol() string {
	rhs := i.Prod.Symbols()
	if i.Dot >= len(rhs) {
		return ""
	}
	return rhs[i.Dot]
}

// IsComplete is true if the dot is at the end of the right-hand side. Items of
// ε-productions are always complete.
func (i Item) IsComplete() bool {
	return i.Dot >= len(i.Prod.Symbols())
}

// Advance returns the item with the dot moved by one symbol.
func (i Item) Advance() Item {
	if i.IsComplete() {
		return i
	}
	return Item{Prod: i.Prod, Dot: i.Dot + 1, Lookahead: i.Lookahead}
}

// Core returns the item without its lookahead.
func (i Item) Core() Item {
	return Item{Prod: i.Prod, Dot: i.Dot}
}

// rest returns the symbols after the one following the dot.
func (i Item) rest() []string {
	rhs := i.Prod.Symbols()
	if i.Dot+1 >= len(rhs) {
		return nil
	}
	return rhs[i.Dot+1:]
}

func (i Item) String() string {
	var b bytes.Buffer
	b.WriteString("[")
	b.WriteString(i.Prod.LHS)
	b.WriteString(" →")
	for n, sym := range i.Prod.Symbols() {
		if n == i.Dot {
			b.WriteString(" ·")
		}
		b.WriteString(" ")
		b.WriteString(sym)
	}
	if i.IsComplete() {
		b.WriteString(" ·")
	}
	if i.Lookahead != "" {
		b.WriteString(", ")
		b.WriteString(i.Lookahead)
	}
	b.WriteString("]")
	return b.String()
}

// itemKey is the structural identity of an item.
type itemKey struct {
	Rule      int
	Dot       int
	Lookahead string
}

func (i Item) key() itemKey {
	return itemKey{Rule: i.Prod.Serial, Dot: i.Dot, Lookahead: i.Lookahead}
}

func itemLess(a, b Item) bool {
	if a.Prod.Serial != b.Prod.Serial {
		return a.Prod.Serial < b.Prod.Serial
	}
	if a.Dot != b.Dot {
		return a.Dot < b.Dot
	}
	return a.Lookahead < b.Lookahead
}

// === Item Sets =============================================================

// ItemSet is a set of items, sorted by production, dot and lookahead.
type ItemSet []Item

// newItemSet sorts items and removes duplicates.
func newItemSet(items []Item) ItemSet {
	seen := make(map[itemKey]bool, len(items))
	set := make(ItemSet, 0, len(items))
	for _, i := range items {
		if !seen[i.key()] {
			seen[i.key()] = true
			set = append(set, i)
		}
	}
	sort.Slice(set, func(x, y int) bool { return itemLess(set[x], set[y]) })
	return set
}

// Contains checks for an item in the set.
func (set ItemSet) Contains(item Item) bool {
	k := item.key()
	for _, i := range set {
		if i.key() == k {
			return true
		}
	}
	return false
}

// Cores returns the set of item cores.
func (set ItemSet) Cores() ItemSet {
	cores := make([]Item, len(set))
	for n, i := range set {
		cores[n] = i.Core()
	}
	return newItemSet(cores)
}

// setKey is hashed to get the canonical identity of an item set.
type setKey struct {
	Items []itemKey
}

// Key returns the canonical identity of the set: a structural hash of its
// sorted item identities.
func (set ItemSet) Key() string {
	k := setKey{Items: make([]itemKey, len(set))}
	for n, i := range set {
		k.Items[n] = i.key()
	}
	h, err := structhash.Hash(k, 1)
	if err != nil {
		panic(fmt.Sprintf("cannot hash item set: %v", err))
	}
	return h
}

func (set ItemSet) String() string {
	items := make([]string, len(set))
	for n, i := range set {
		items[n] = i.String()
	}
	return "{ " + strings.Join(items, ", ") + " }"
}

// === Closure and Goto-Set Operations =======================================

// Refer to "Crafting A Compiler" by Charles N. Fisher & Richard J. LeBlanc, Jr.
// Section 6.2.1 LR(0) Parsing

// closure computes the closure of an item set. If lr1 is set, lookaheads are
// propagated: for [A → α·Bβ, a] items [B → ·γ, b] are added for every b in
// FIRST(βa).
func closure(ga *grammar.Analysis, kernel []Item, lr1 bool) ItemSet {
	g := ga.Grammar()
	seen := make(map[itemKey]bool)
	var C []Item
	for _, i := range kernel {
		if !seen[i.key()] {
			seen[i.key()] = true
			C = append(C, i)
		}
	}
	for k := 0; k < len(C); k++ { // C grows while iterating
		item := C[k]
		B := item.PeekSymbol()
		if B == "" || !g.IsNonTerminal(B) {
			continue
		}
		lookaheads := []string{""}
		if lr1 {
			beta := append(append([]string(nil), item.rest()...), item.Lookahead)
			lookaheads = withoutEpsilon(ga.FirstOfSequence(beta))
		}
		for _, p := range g.ProductionsFor(B) {
			for _, la := range lookaheads {
				i := Item{Prod: p, Dot: 0, Lookahead: la}
				if !seen[i.key()] {
					seen[i.key()] = true
					C = append(C, i)
				}
			}
		}
	}
	return newItemSet(C)
}

// gotoSet computes goto(I, X): the closure of all items of I with the dot
// moved over X. It returns an empty set if no item of I expects X.
func gotoSet(ga *grammar.Analysis, I ItemSet, X string, lr1 bool) ItemSet {
	var kernel []Item
	for _, i := range I {
		if i.PeekSymbol() == X {
			kernel = append(kernel, i.Advance())
		}
	}
	if len(kernel) == 0 {
		return nil
	}
	C := closure(ga, kernel, lr1)
	tracer().Debugf("goto(%s) --%s--> %s", I, X, C)
	return C
}

func withoutEpsilon(syms []string) []string {
	r := make([]string, 0, len(syms))
	for _, s := range syms {
		if s != grammar.Epsilon {
			r = append(r, s)
		}
	}
	return r
}
