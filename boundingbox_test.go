package randomcut

import (
	"math"
	"testing"
)

// --- construction and merge ---

func TestBoundingBox_SinglePoint_ZeroRange(t *testing.T) {
	box := NewBoundingBox([]float64{1, -2, 3})

	if box.Dimensions() != 3 {
		t.Fatalf("Dimensions() = %d, want 3", box.Dimensions())
	}
	for d := 0; d < 3; d++ {
		if box.Range(d) != 0 {
			t.Errorf("Range(%d) = %g, want 0", d, box.Range(d))
		}
		if box.MinValue(d) != box.MaxValue(d) {
			t.Errorf("dim %d: min %g != max %g", d, box.MinValue(d), box.MaxValue(d))
		}
	}
	if box.RangeSum() != 0 {
		t.Errorf("RangeSum() = %g, want 0", box.RangeSum())
	}
}

func TestBoundingBox_Merge_Tightest(t *testing.T) {
	a := NewBoundingBox([]float64{0, 0})
	b := NewBoundingBox([]float64{2, -1})

	merged := a.GetMergedBox(b)

	if merged.MinValue(0) != 0 || merged.MaxValue(0) != 2 {
		t.Errorf("dim 0 = [%g, %g], want [0, 2]", merged.MinValue(0), merged.MaxValue(0))
	}
	if merged.MinValue(1) != -1 || merged.MaxValue(1) != 0 {
		t.Errorf("dim 1 = [%g, %g], want [-1, 0]", merged.MinValue(1), merged.MaxValue(1))
	}
	if merged.RangeSum() != 3 {
		t.Errorf("RangeSum() = %g, want 3", merged.RangeSum())
	}
}

func TestBoundingBox_Merge_DoesNotMutateOperands(t *testing.T) {
	a := NewBoundingBox([]float64{0, 0})
	b := NewBoundingBox([]float64{5, 5})
	aCopy := a.Copy()
	bCopy := b.Copy()

	_ = a.GetMergedBox(b)

	if !a.Equals(aCopy) {
		t.Error("merge mutated the receiver")
	}
	if !b.Equals(bCopy) {
		t.Error("merge mutated the argument")
	}
}

func TestBoundingBox_Merge_CommutativeAssociative(t *testing.T) {
	a := MergedBoxFromPoints([]float64{0, 1}, []float64{3, -1})
	b := NewBoundingBox([]float64{-2, 4})
	c := MergedBoxFromPoints([]float64{1, 1}, []float64{7, 0})

	ab := a.GetMergedBox(b)
	ba := b.GetMergedBox(a)
	if !ab.Equals(ba) {
		t.Errorf("merge not commutative: %v vs %v", ab, ba)
	}

	abc1 := ab.GetMergedBox(c)
	abc2 := a.GetMergedBox(b.GetMergedBox(c))
	if !abc1.Equals(abc2) {
		t.Errorf("merge not associative: %v vs %v", abc1, abc2)
	}
}

func TestBoundingBox_AddPoint_Grows(t *testing.T) {
	box := NewBoundingBox([]float64{1, 1})
	box.AddPoint([]float64{4, -1})

	if box.MinValue(1) != -1 || box.MaxValue(0) != 4 {
		t.Errorf("box = %v, want [1,4] x [-1,1]", box)
	}
	if box.RangeSum() != 5 {
		t.Errorf("RangeSum() = %g, want 5", box.RangeSum())
	}

	// Adding an interior point changes nothing.
	before := box.Copy()
	box.AddPoint([]float64{2, 0})
	if !box.Equals(before) {
		t.Error("adding an interior point changed the box")
	}
}

// --- separation probability ---

func TestBoundingBox_ProbabilityOfSeparation_ZeroInside(t *testing.T) {
	box := MergedBoxFromPoints([]float64{0, 0}, []float64{2, 2})

	interior := [][]float64{
		{1, 1},
		{0, 0}, // on the corner
		{2, 2},
		{0, 2},
		{1.5, 0.001},
	}
	for _, p := range interior {
		if got := box.ProbabilityOfSeparation(p); got != 0 {
			t.Errorf("ProbabilityOfSeparation(%v) = %g, want 0", p, got)
		}
	}
}

func TestBoundingBox_ProbabilityOfSeparation_DegenerateBoxEqualPoint(t *testing.T) {
	box := NewBoundingBox([]float64{3, 4})
	if got := box.ProbabilityOfSeparation([]float64{3, 4}); got != 0 {
		t.Errorf("ProbabilityOfSeparation = %g, want 0", got)
	}
	// The same degenerate box separates any other point with certainty.
	if got := box.ProbabilityOfSeparation([]float64{3, 5}); got != 1 {
		t.Errorf("ProbabilityOfSeparation = %g, want 1", got)
	}
}

func TestBoundingBox_ProbabilityOfSeparation_KnownValue(t *testing.T) {
	box := MergedBoxFromPoints([]float64{0, 0}, []float64{1, 1})

	// One unit outside on dim 0: overflow 1 over rangeSum 2 plus overflow.
	got := box.ProbabilityOfSeparation([]float64{2, 0.5})
	want := 1.0 / 3.0
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("ProbabilityOfSeparation = %g, want %g", got, want)
	}
}

func TestBoundingBox_ProbabilityOfSeparation_Monotone(t *testing.T) {
	box := MergedBoxFromPoints([]float64{0, 0}, []float64{2, 2})

	prev := 0.0
	for _, x := range []float64{2.5, 3, 5, 10, 100} {
		p := box.ProbabilityOfSeparation([]float64{x, 1})
		if p <= prev {
			t.Errorf("ProbabilityOfSeparation at x=%g is %g, want > %g", x, p, prev)
		}
		if p < 0 || p > 1 {
			t.Errorf("ProbabilityOfSeparation at x=%g is %g, want within [0, 1]", x, p)
		}
		prev = p
	}
}

// --- value semantics ---

func TestBoundingBox_Contains(t *testing.T) {
	box := MergedBoxFromPoints([]float64{0, 0}, []float64{2, 2})

	if !box.Contains([]float64{1, 2}) {
		t.Error("Contains(interior point) = false, want true")
	}
	if box.Contains([]float64{1, 2.1}) {
		t.Error("Contains(exterior point) = true, want false")
	}
}

func TestBoundingBox_Equals_ValueBased(t *testing.T) {
	a := MergedBoxFromPoints([]float64{0, 1}, []float64{2, 3})
	b := MergedBoxFromPoints([]float64{2, 3}, []float64{0, 1})

	if !a.Equals(b) {
		t.Error("boxes with equal bounds compare unequal")
	}
	if a.Equals(nil) {
		t.Error("Equals(nil) = true, want false")
	}
	b.AddPoint([]float64{5, 1})
	if a.Equals(b) {
		t.Error("boxes with different bounds compare equal")
	}
}
