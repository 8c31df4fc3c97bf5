package backpatch

import (
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestSimulateOr(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.backpatch")
	defer teardown()
	//
	r, err := Simulate("a < b || c < d", Options{})
	if err != nil {
		t.Fatal(err)
	}
	expected := []string{
		"100: if a < b goto 104",
		"101: goto 102",
		"102: if c < d goto 104",
		"103: goto 105",
	}
	checkCode(t, r, expected)
	if r.TrueExit != 104 || r.FalseExit != 105 {
		t.Errorf("expected exits 104/105, have %d/%d", r.TrueExit, r.FalseExit)
	}
	// the false-list of the left operand is patched before the right operand is emitted
	patched, emitted := -1, -1
	for i, step := range r.Steps {
		if step.Kind == Backpatch && patched < 0 && len(step.List) == 1 && step.List[0] == 101 {
			if step.Target != 102 {
				t.Errorf("expected [101] to be patched to 102, is %d", step.Target)
			}
			patched = i
		}
		if step.Kind == Emit && strings.HasPrefix(step.Text, "102:") {
			emitted = i
		}
	}
	if patched < 0 || emitted < 0 || patched > emitted {
		t.Errorf("expected backpatch of [101] (step %d) before emission of 102 (step %d)", patched, emitted)
	}
}

func TestSimulateMixed(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.backpatch")
	defer teardown()
	//
	r, err := Simulate("x < 100 || x > 200 && x != y", Options{})
	if err != nil {
		t.Fatal(err)
	}
	expected := []string{
		"100: if x < 100 goto 106",
		"101: goto 102",
		"102: if x > 200 goto 104",
		"103: goto 107",
		"104: if x != y goto 106",
		"105: goto 107",
	}
	checkCode(t, r, expected)
	if !equalInts(r.TrueList, []int{100, 104}) {
		t.Errorf("expected true-list [100 104], have %v", r.TrueList)
	}
	if !equalInts(r.FalseList, []int{103, 105}) {
		t.Errorf("expected false-list [103 105], have %v", r.FalseList)
	}
}

func TestSimulateNot(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.backpatch")
	defer teardown()
	//
	r, err := Simulate("!(a < b)", Options{})
	if err != nil {
		t.Fatal(err)
	}
	checkCode(t, r, []string{"100: if a < b goto 103", "101: goto 102"})
	if !equalInts(r.TrueList, []int{101}) || !equalInts(r.FalseList, []int{100}) {
		t.Errorf("expected swapped lists, have %v/%v", r.TrueList, r.FalseList)
	}
}

func TestSimulateConstants(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.backpatch")
	defer teardown()
	//
	r, err := Simulate("true && false", Options{Start: 1})
	if err != nil {
		t.Fatal(err)
	}
	checkCode(t, r, []string{"1: goto 2", "2: goto 4"})
	if len(r.TrueList) != 0 {
		t.Errorf("expected empty true-list, have %v", r.TrueList)
	}
	r, err = Simulate("flag", Options{})
	if err != nil {
		t.Fatal(err)
	}
	checkCode(t, r, []string{"100: if flag goto 102", "101: goto 103"})
}

func TestSimulateArithmeticOperands(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.backpatch")
	defer teardown()
	//
	r, err := Simulate("a + 1 < b && -x * 2 >= y % 3", Options{})
	if err != nil {
		t.Fatal(err)
	}
	checkCode(t, r, []string{
		"100: if a + 1 < b goto 102",
		"101: goto 105",
		"102: if - x * 2 >= y % 3 goto 104",
		"103: goto 105",
	})
	r, err = Simulate("n - 1", Options{})
	if err != nil {
		t.Fatal(err)
	}
	checkCode(t, r, []string{"100: if n - 1 goto 102", "101: goto 103"})
}

func TestSimulateErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dragon.backpatch")
	defer teardown()
	//
	for _, input := range []string{"", "a <", "(a < b", "a < b ||", "a b", "a $ b", "&& a", "()",
		"a + < b", "a < b *", "a + + 1", "- < b"} {
		_, err := Simulate(input, Options{})
		if err == nil {
			t.Errorf("expected error for %q", input)
		} else if !errors.Is(err, ErrSyntax) {
			t.Errorf("expected syntax error for %q, have %v", input, err)
		}
	}
}

func checkCode(t *testing.T, r *Result, expected []string) {
	code := r.Code()
	if len(code) != len(expected) {
		t.Fatalf("expected %d instructions, have %d: %v", len(expected), len(code), code)
	}
	for i := range code {
		if code[i] != expected[i] {
			t.Errorf("instruction #%d: expected %q, have %q", i, expected[i], code[i])
		}
	}
}

func equalInts(a, b []int) bool {
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
