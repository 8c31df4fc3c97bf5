package sparse

import "testing"

func TestMatrixSetAndGet(t *testing.T) {
	M := NewIntMatrix(10, 10, DefaultNullValue)
	M.Set(2, 3, 4711)
	M.Set(0, 0, 1)
	M.Set(9, 9, 99)
	if v := M.Value(2, 3); v != 4711 {
		t.Errorf("expected M(2,3) = 4711, is %d", v)
	}
	if v := M.Value(5, 5); v != M.NullValue() {
		t.Errorf("expected M(5,5) to be null, is %d", v)
	}
	if M.ValueCount() != 3 {
		t.Errorf("expected 3 values, have %d", M.ValueCount())
	}
	M.Set(2, 3, 1)
	if vals := M.Values(2, 3); len(vals) != 1 || vals[0] != 1 {
		t.Errorf("expected Set to replace values, have %v", vals)
	}
}

func TestMatrixMultiValues(t *testing.T) {
	M := NewIntMatrix(4, 4, -1)
	M.Add(1, 1, 7)
	M.Add(1, 1, 3)
	if M.Add(1, 1, 7) {
		t.Errorf("expected duplicate value not to be added")
	}
	vals := M.Values(1, 1)
	if len(vals) != 2 || vals[0] != 7 || vals[1] != 3 {
		t.Errorf("expected values [7 3], have %v", vals)
	}
	if M.Value(1, 1) != 7 {
		t.Errorf("expected primary value 7, is %d", M.Value(1, 1))
	}
	if M.Values(0, 1) != nil {
		t.Errorf("expected no values at (0,1)")
	}
}

func TestMatrixOrder(t *testing.T) {
	M := NewIntMatrix(3, 3, -1)
	M.Set(2, 0, 3)
	M.Set(0, 2, 1)
	M.Set(1, 1, 2)
	var seen []int32
	M.Each(func(i, j int, values []int32) {
		seen = append(seen, values[0])
	})
	if len(seen) != 3 || seen[0] != 1 || seen[1] != 2 || seen[2] != 3 {
		t.Errorf("expected row-major order [1 2 3], have %v", seen)
	}
}
