package slices

import "testing"

func TestFindMatchAndMiss(t *testing.T) {
	xs := []int{1, 2, 3, 4}
	v, ok := Find(xs, func(x int) bool { return x > 2 })
	if !ok || v != 3 {
		t.Errorf("Find(>2) = (%d, %v), want (3, true)", v, ok)
	}

	v, ok = Find(xs, func(x int) bool { return x > 10 })
	if ok || v != 0 {
		t.Errorf("Find(>10) = (%d, %v), want (0, false)", v, ok)
	}
}

func TestFindOnEmptySlice(t *testing.T) {
	var xs []string
	v, ok := Find(xs, func(string) bool { return true })
	if ok || v != "" {
		t.Errorf("Find on empty slice = (%q, %v), want (\"\", false)", v, ok)
	}
}

func TestOneOf(t *testing.T) {
	if !OneOf(2, 1, 2, 3) {
		t.Error("OneOf(2, 1, 2, 3) should be true")
	}
	if OneOf(5, 1, 2, 3) {
		t.Error("OneOf(5, 1, 2, 3) should be false")
	}
	if OneOf("a") {
		t.Error("OneOf with no candidates should always be false")
	}
}
