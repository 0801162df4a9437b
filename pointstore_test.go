package randomcut

import (
	"testing"

	"github.com/pkg/errors"
)

func TestArrayPointStore_AddGetEquals(t *testing.T) {
	store := NewArrayPointStore(2)

	idx, err := store.Add([]float64{1, 2})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if idx != 0 {
		t.Errorf("first index = %d, want 0", idx)
	}
	idx2, _ := store.Add([]float64{3, 4})
	if idx2 != 1 {
		t.Errorf("second index = %d, want 1", idx2)
	}
	if store.Size() != 2 {
		t.Errorf("Size() = %d, want 2", store.Size())
	}

	got := store.Get(0)
	if got[0] != 1 || got[1] != 2 {
		t.Errorf("Get(0) = %v, want [1 2]", got)
	}

	if !store.Equals(1, []float64{3, 4}) {
		t.Error("Equals(1, stored value) = false, want true")
	}
	if store.Equals(1, []float64{3, 5}) {
		t.Error("Equals(1, other value) = true, want false")
	}
}

func TestArrayPointStore_AddCopiesInput(t *testing.T) {
	store := NewArrayPointStore(2)
	p := []float64{1, 2}
	idx, _ := store.Add(p)

	p[0] = 99
	if store.Get(idx)[0] != 1 {
		t.Error("store aliases caller-owned slice")
	}
}

func TestArrayPointStore_DimensionMismatch(t *testing.T) {
	store := NewArrayPointStore(2)
	_, err := store.Add([]float64{1, 2, 3})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Add with wrong dimensions: err = %v, want ErrInvalidArgument", err)
	}
}

func TestArrayPointStore_LiftedView(t *testing.T) {
	// Lift doubles the point: a stand-in for shingle expansion.
	lift := func(p []float64) []float64 {
		return []float64{p[0], p[1], p[0], p[1]}
	}
	store := NewLiftedArrayPointStore(2, lift)
	idx, _ := store.Add([]float64{1, 2})

	lifted := store.GetLifted(idx)
	want := []float64{1, 2, 1, 2}
	if len(lifted) != 4 {
		t.Fatalf("lifted length = %d, want 4", len(lifted))
	}
	for i := range want {
		if lifted[i] != want[i] {
			t.Errorf("lifted[%d] = %g, want %g", i, lifted[i], want[i])
		}
	}

	// Unlifted stores serve the working-space point for both views.
	plain := NewArrayPointStore(2)
	j, _ := plain.Add([]float64{5, 6})
	if &plain.Get(j)[0] != &plain.GetLifted(j)[0] {
		t.Error("unlifted store should share working and lifted views")
	}
}
