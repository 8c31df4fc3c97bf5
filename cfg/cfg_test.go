package cfg

import (
	"fmt"
	"testing"

	"github.com/npillmayer/dragon/tac"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

const loop = `
(1) i = 0
(2) if i < 10 goto 4
(3) goto 6
(4) i = i + 1
(5) goto 2
(6) done
`

func TestLeadersAndBlocks(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.cfg")
	defer teardown()
	//
	g := Build(tac.Parse(loop))
	if l := fmt.Sprint(g.Leaders); l != "[1 2 3 4 6]" {
		t.Errorf("expected leaders [1 2 3 4 6], have %s", l)
	}
	expected := []string{"B1[1]", "B2[2]", "B3[3]", "B4[4 5]", "B6[6]"}
	if len(g.Blocks) != len(expected) {
		t.Fatalf("expected %d blocks, have %v", len(expected), g.Blocks)
	}
	for i, b := range g.Blocks {
		if b.String() != expected[i] {
			t.Errorf("expected block %s, have %s", expected[i], b)
		}
	}
}

func TestEdges(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.cfg")
	defer teardown()
	//
	g := Build(tac.Parse(loop))
	if e := fmt.Sprint(g.Edges()); e != "[B1 → B2 B2 → B4 B2 → B3 B3 → B6 B4 → B2]" {
		t.Errorf("unexpected edges %s", e)
	}
	if p := fmt.Sprint(g.Block(2).Prev); p != "[1 4]" {
		t.Errorf("expected predecessors of B2 to be [1 4], are %s", p)
	}
	if len(g.Block(6).Next) != 0 {
		t.Errorf("expected exit block to have no successors")
	}
}

func TestLoops(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.cfg")
	defer teardown()
	//
	g := Build(tac.Parse(loop))
	if len(g.BackEdges) != 1 || g.BackEdges[0] != (Edge{From: 4, To: 2}) {
		t.Fatalf("expected single back edge B4 → B2, have %v", g.BackEdges)
	}
	if len(g.Loops) != 1 {
		t.Fatalf("expected 1 loop, have %d", len(g.Loops))
	}
	l := g.Loops[0]
	if l.Header != 2 || fmt.Sprint(l.Blocks) != "[2 4]" || fmt.Sprint(l.Lines) != "[2 4 5]" {
		t.Errorf("expected loop {B2, B4} with lines [2 4 5], have %+v", l)
	}
}

func TestUnreachableCycle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.cfg")
	defer teardown()
	//
	g := Build(tac.Parse(`
(1) goto 4
(2) x = x + 1
(3) goto 2
(4) done
`))
	if b := fmt.Sprint(g.Blocks); b != "[B1[1] B2[2 3] B4[4]]" {
		t.Fatalf("unexpected blocks %s", b)
	}
	if e := fmt.Sprint(g.Edges()); e != "[B1 → B4 B2 → B2]" {
		t.Errorf("unexpected edges %s", e)
	}
	if len(g.BackEdges) != 0 || len(g.Loops) != 0 {
		t.Errorf("expected no loops for a cycle unreachable from the entry, have %v", g.BackEdges)
	}
}

func TestNestedLoops(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.cfg")
	defer teardown()
	//
	g := Build(tac.Parse(`
1: i = 0
2: j = 0
3: j = j + 1
4: if j < 10 goto 3
5: i = i + 1
6: if i < 10 goto 2
7: halt
`))
	// blocks: B1[1] B2[2] B3[3 4] B5[5 6] B7[7]
	if len(g.Blocks) != 5 {
		t.Fatalf("expected 5 blocks, have %v", g.Blocks)
	}
	if len(g.Loops) != 2 {
		t.Fatalf("expected 2 loops, have %v", g.Loops)
	}
	for _, l := range g.Loops {
		switch l.Header {
		case 3:
			if fmt.Sprint(l.Blocks) != "[3]" {
				t.Errorf("expected inner loop to be {B3}, is %v", l.Blocks)
			}
		case 2:
			if fmt.Sprint(l.Blocks) != "[2 3 5]" {
				t.Errorf("expected outer loop to be {B2 B3 B5}, is %v", l.Blocks)
			}
		default:
			t.Errorf("unexpected loop header %d", l.Header)
		}
	}
}

func TestLayout(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.cfg")
	defer teardown()
	//
	g := Build(tac.Parse(loop))
	pos := g.Layout()
	layers := make(map[int]int)
	for _, p := range pos {
		layers[p.Block] = p.Layer
	}
	// B1:0, B2:1, B4 and B3:2, B6:3
	if layers[1] != 0 || layers[2] != 1 || layers[4] != 2 || layers[3] != 2 || layers[6] != 3 {
		t.Errorf("unexpected layers %v", layers)
	}
	if pos[3].Column != 0 || pos[2].Column != 1 {
		t.Errorf("expected B4 left of B3 on layer 2, have %+v %+v", pos[3], pos[2])
	}
}

func TestEmptyProgram(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.cfg")
	defer teardown()
	//
	g := Build(tac.Parse(""))
	if len(g.Blocks) != 0 || len(g.Layout()) != 0 {
		t.Errorf("expected empty graph")
	}
}
