package cfg

import (
	"fmt"
	"sort"
	"strings"

	"github.com/emirpasic/gods/sets/hashset"
	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/npillmayer/dragon/tac"
)

// Block is a basic block. Its ID is the label of its leader.
type Block struct {
	ID     int
	Instrs []*tac.Instr
	Next   []int // successors: jump target first, then fall-through
	Prev   []int // predecessors, in order of edge creation
}

// Last returns the last instruction of the block.
func (b *Block) Last() *tac.Instr {
	return b.Instrs[len(b.Instrs)-1]
}

// Lines returns the labels of the block's instructions.
func (b *Block) Lines() []int {
	lines := make([]int, len(b.Instrs))
	for i, instr := range b.Instrs {
		lines[i] = instr.Line
	}
	return lines
}

func (b *Block) String() string {
	return fmt.Sprintf("B%d%v", b.ID, b.Lines())
}

// Edge is a directed edge between blocks.
type Edge struct {
	From, To int
}

func (e Edge) String() string {
	return fmt.Sprintf("B%d → B%d", e.From, e.To)
}

// Loop is a natural loop.
type Loop struct {
	Header   int   // target of the back edge
	BackEdge Edge  //
	Blocks   []int // blocks of the loop body, including the header, sorted
	Lines    []int // labels of all instructions of the loop body, sorted
}

// Graph is a control flow graph.
type Graph struct {
	Leaders   []int    // labels of leaders, in program order
	Blocks    []*Block // in program order; Blocks[0] is the entry block
	BackEdges []Edge   // in order of discovery
	Loops     []Loop   // one per back edge
	byID      map[int]*Block
}

// Build constructs the control flow graph of a program. Jumps to labels not
// present in prog are ignored.
func Build(prog *tac.Program) *Graph {
	g := &Graph{byID: make(map[int]*Block)}
	if len(prog.Instrs) == 0 {
		return g
	}
	leader := findLeaders(prog)
	var b *Block
	for i, instr := range prog.Instrs {
		if leader[i] {
			g.Leaders = append(g.Leaders, instr.Line)
			b = &Block{ID: instr.Line}
			g.Blocks = append(g.Blocks, b)
			g.byID[b.ID] = b
		}
		b.Instrs = append(b.Instrs, instr)
	}
	g.connect(prog)
	g.findBackEdges()
	for _, e := range g.BackEdges {
		g.Loops = append(g.Loops, g.naturalLoop(e))
	}
	tracer().Debugf("CFG: %d blocks, %d back edges", len(g.Blocks), len(g.BackEdges))
	return g
}

func findLeaders(prog *tac.Program) []bool {
	leader := make([]bool, len(prog.Instrs))
	leader[0] = true
	for i, instr := range prog.Instrs {
		if !instr.IsJump() {
			continue
		}
		if t := prog.Index(instr.Target); t >= 0 {
			leader[t] = true
		} else {
			tracer().Infof("jump target %d of %v not found", instr.Target, instr)
		}
		if i+1 < len(prog.Instrs) {
			leader[i+1] = true
		}
	}
	return leader
}

// connect creates the edges: a block ending in a jump links to the jump
// target; a block not ending in an unconditional jump falls through to the
// next block.
func (g *Graph) connect(prog *tac.Program) {
	for i, b := range g.Blocks {
		last := b.Last()
		if last.IsJump() {
			if target, ok := g.byID[last.Target]; ok {
				g.addEdge(b, target)
			}
		}
		if last.Kind != tac.Jump && i+1 < len(g.Blocks) {
			g.addEdge(b, g.Blocks[i+1])
		}
	}
}

func (g *Graph) addEdge(from, to *Block) {
	for _, n := range from.Next {
		if n == to.ID {
			return
		}
	}
	from.Next = append(from.Next, to.ID)
	to.Prev = append(to.Prev, from.ID)
}

// Block returns the block with a given ID, or nil.
func (g *Graph) Block(id int) *Block {
	return g.byID[id]
}

// Edges returns all edges, ordered by source block.
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for _, b := range g.Blocks {
		for _, n := range b.Next {
			edges = append(edges, Edge{From: b.ID, To: n})
		}
	}
	return edges
}

// IsBackEdge checks if an edge is a back edge.
func (g *Graph) IsBackEdge(e Edge) bool {
	for _, be := range g.BackEdges {
		if be == e {
			return true
		}
	}
	return false
}

// --- Back edges and loops --------------------------------------------------

type frame struct {
	block *Block
	next  int // index of next successor to visit
}

// findBackEdges performs an iterative DFS from the entry block. An edge to a
// block on the recursion stack is a back edge. Blocks not reachable from the
// entry are never visited, so cycles among them are not loops.
func (g *Graph) findBackEdges() {
	if len(g.Blocks) == 0 {
		return
	}
	entry := g.Blocks[0]
	visited := hashset.New(entry.ID)
	onStack := hashset.New(entry.ID)
	stack := arraystack.New()
	stack.Push(&frame{block: entry})
	for !stack.Empty() {
		top, _ := stack.Peek()
		f := top.(*frame)
		if f.next >= len(f.block.Next) {
			stack.Pop()
			onStack.Remove(f.block.ID)
			continue
		}
		succ := g.byID[f.block.Next[f.next]]
		f.next++
		if onStack.Contains(succ.ID) {
			e := Edge{From: f.block.ID, To: succ.ID}
			tracer().Debugf("back edge %v", e)
			g.BackEdges = append(g.BackEdges, e)
		} else if !visited.Contains(succ.ID) {
			visited.Add(succ.ID)
			onStack.Add(succ.ID)
			stack.Push(&frame{block: succ})
		}
	}
	if n := len(g.Blocks) - visited.Size(); n > 0 {
		tracer().Infof("%d blocks are unreachable from the entry", n)
	}
}

// naturalLoop collects the loop body of back edge n → h by backward
// reachability from n, stopping at h.
func (g *Graph) naturalLoop(e Edge) Loop {
	body := hashset.New()
	body.Add(e.To)
	stack := arraystack.New()
	if e.From != e.To {
		body.Add(e.From)
		stack.Push(e.From)
	}
	for !stack.Empty() {
		x, _ := stack.Pop()
		for _, p := range g.byID[x.(int)].Prev {
			if !body.Contains(p) {
				body.Add(p)
				stack.Push(p)
			}
		}
	}
	loop := Loop{Header: e.To, BackEdge: e}
	for _, x := range body.Values() {
		id := x.(int)
		loop.Blocks = append(loop.Blocks, id)
		loop.Lines = append(loop.Lines, g.byID[id].Lines()...)
	}
	sort.Ints(loop.Blocks)
	sort.Ints(loop.Lines)
	return loop
}

// --- Layout ----------------------------------------------------------------

// Position is the display position of a block.
type Position struct {
	Block  int
	Layer  int // distance from the entry block, ignoring back edges
	Column int // position within the layer
	X, Y   int
}

// Layout spacing
const (
	LayoutDX = 180
	LayoutDY = 120
)

// Layout assigns layers to blocks by a breadth-first search from the entry
// block, ignoring back edges. Unreachable blocks are placed on extra layers
// below. The result is in program order of blocks.
func (g *Graph) Layout() []Position {
	layer := make(map[int]int)
	var order []int
	if len(g.Blocks) > 0 {
		entry := g.Blocks[0].ID
		layer[entry] = 0
		queue := []int{entry}
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			order = append(order, id)
			for _, n := range g.byID[id].Next {
				if g.IsBackEdge(Edge{From: id, To: n}) {
					continue
				}
				if _, seen := layer[n]; !seen {
					layer[n] = layer[id] + 1
					queue = append(queue, n)
				}
			}
		}
	}
	maxLayer := -1
	for _, l := range layer {
		if l > maxLayer {
			maxLayer = l
		}
	}
	for _, b := range g.Blocks {
		if _, seen := layer[b.ID]; !seen {
			maxLayer++
			layer[b.ID] = maxLayer
			order = append(order, b.ID)
		}
	}
	column := make(map[int]int)
	width := make(map[int]int)
	for _, id := range order {
		column[id] = width[layer[id]]
		width[layer[id]]++
	}
	positions := make([]Position, len(g.Blocks))
	for i, b := range g.Blocks {
		positions[i] = Position{
			Block:  b.ID,
			Layer:  layer[b.ID],
			Column: column[b.ID],
			X:      column[b.ID] * LayoutDX,
			Y:      layer[b.ID] * LayoutDY,
		}
	}
	return positions
}

// String lists blocks with their successors.
func (g *Graph) String() string {
	var b strings.Builder
	for _, block := range g.Blocks {
		b.WriteString(fmt.Sprintf("%v → %v\n", block, block.Next))
	}
	return b.String()
}
