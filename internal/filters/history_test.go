package filters

import "testing"

func TestRingEvictsOldestFirst(t *testing.T) {
	r := NewRing[int](3)
	for i := 1; i <= 5; i++ {
		r.Push(i)
	}
	if r.Len() != 3 {
		t.Fatalf("expected len 3, got %d", r.Len())
	}
	want := []int{3, 4, 5}
	got := r.Values()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestRingLenNeverExceedsCap(t *testing.T) {
	caps := []int{20, 25, 100, 200}
	for _, c := range caps {
		r := NewRing[float64](c)
		for i := 0; i < c*3; i++ {
			r.Push(float64(i))
			if r.Len() > c {
				t.Fatalf("cap %d exceeded: len %d", c, r.Len())
			}
		}
		if r.Len() != c {
			t.Fatalf("expected len %d, got %d", c, r.Len())
		}
		if r.At(0) != float64(c*2) {
			t.Fatalf("expected oldest %v, got %v", float64(c*2), r.At(0))
		}
	}
}

func TestRingLastEmpty(t *testing.T) {
	r := NewRing[float64](4)
	if r.Last() != 0 {
		t.Fatalf("expected zero value on empty ring")
	}
	r.Push(7)
	r.Push(9)
	if r.Last() != 9 {
		t.Fatalf("expected 9, got %v", r.Last())
	}
}

func TestHistorySeed(t *testing.T) {
	h := NewHistoryFrom(3, 1, 2, 3, 4)
	got := h.Values()
	want := []float64{2, 3, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
