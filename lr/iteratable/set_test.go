package iteratable

import "testing"

func TestSetGrowsDuringIteration(t *testing.T) {
	S := NewSet(0)
	S.Add(1)
	S.IterateOnce()
	visited := 0
	for S.Next() {
		x := S.Item().(int)
		visited++
		if x < 5 {
			S.Add(x + 1)
		}
	}
	if visited != 5 || S.Size() != 5 {
		t.Errorf("expected iteration to visit 5 items, visited %d, size %d", visited, S.Size())
	}
	if S.Next() || S.Item() != nil {
		t.Errorf("expected exhausted cursor to stay at the end")
	}
}

func TestSetEqualsIgnoresOrder(t *testing.T) {
	A := NewSet(0)
	B := NewSet(0)
	for _, x := range []string{"a", "b", "c"} {
		A.Add(x)
	}
	for _, x := range []string{"c", "a", "b", "a"} {
		B.Add(x)
	}
	if !A.Equals(B) {
		t.Errorf("expected %v to equal %v", A, B)
	}
	C := B.Copy()
	C.Add("d")
	if A.Equals(C) || B.Size() != 3 {
		t.Errorf("expected copy %v to be independent of %v", C, B)
	}
}

func TestSetUnionKeepsOrder(t *testing.T) {
	A := NewSet(0)
	for _, x := range []int{3, 1} {
		A.Add(x)
	}
	B := NewSet(0)
	for _, x := range []int{2, 1, 0} {
		B.Add(x)
	}
	if A.Union(B) != A {
		t.Errorf("expected Union to extend its receiver")
	}
	expected := []int{3, 1, 2, 0}
	v := A.Values()
	if len(v) != len(expected) {
		t.Fatalf("expected %v, have %v", expected, A)
	}
	for i, x := range expected {
		if v[i] != x {
			t.Errorf("expected %d at position %d, have %v", x, i, v[i])
		}
	}
	if A.Union(nil).Size() != 4 || !A.Contains(0) || A.Contains(4) {
		t.Errorf("unexpected set %v", A)
	}
}
