package randomcut

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// BoundingBox is an axis-aligned hyper-rectangle over point coordinates.
// It tracks per-dimension minima and maxima plus the cached sum of all
// dimension ranges, which the random-cut and separation-probability math
// reads on every traversal step.
//
// A box built from a single point has zero range in every dimension.
type BoundingBox struct {
	minValues []float64
	maxValues []float64
	rangeSum  float64
}

// NewBoundingBox returns the degenerate box containing exactly the given point.
func NewBoundingBox(point []float64) *BoundingBox {
	minValues := make([]float64, len(point))
	maxValues := make([]float64, len(point))
	copy(minValues, point)
	copy(maxValues, point)
	return &BoundingBox{minValues: minValues, maxValues: maxValues}
}

// MergedBoxFromPoints returns the smallest box containing both points.
func MergedBoxFromPoints(a, b []float64) *BoundingBox {
	box := NewBoundingBox(a)
	box.AddPoint(b)
	return box
}

// Copy returns an independent deep copy of the box.
func (b *BoundingBox) Copy() *BoundingBox {
	minValues := make([]float64, len(b.minValues))
	maxValues := make([]float64, len(b.maxValues))
	copy(minValues, b.minValues)
	copy(maxValues, b.maxValues)
	return &BoundingBox{minValues: minValues, maxValues: maxValues, rangeSum: b.rangeSum}
}

// GetMergedBox returns the smallest box containing both b and other.
// Neither operand is mutated; merge is commutative and associative.
func (b *BoundingBox) GetMergedBox(other *BoundingBox) *BoundingBox {
	merged := b.Copy()
	merged.addBox(other)
	return merged
}

// AddPoint grows the box in place to contain point.
func (b *BoundingBox) AddPoint(point []float64) {
	for i, v := range point {
		if v < b.minValues[i] {
			b.minValues[i] = v
		}
		if v > b.maxValues[i] {
			b.maxValues[i] = v
		}
	}
	b.recomputeRangeSum()
}

// addBox grows the box in place to contain other.
func (b *BoundingBox) addBox(other *BoundingBox) {
	for i := range b.minValues {
		if other.minValues[i] < b.minValues[i] {
			b.minValues[i] = other.minValues[i]
		}
		if other.maxValues[i] > b.maxValues[i] {
			b.maxValues[i] = other.maxValues[i]
		}
	}
	b.recomputeRangeSum()
}

func (b *BoundingBox) recomputeRangeSum() {
	var sum float64
	for i := range b.minValues {
		sum += b.maxValues[i] - b.minValues[i]
	}
	b.rangeSum = sum
}

// Dimensions returns the dimensionality of the box.
func (b *BoundingBox) Dimensions() int { return len(b.minValues) }

// MinValue returns the lower bound of the box in the given dimension.
func (b *BoundingBox) MinValue(dim int) float64 { return b.minValues[dim] }

// MaxValue returns the upper bound of the box in the given dimension.
func (b *BoundingBox) MaxValue(dim int) float64 { return b.maxValues[dim] }

// Range returns the extent of the box in the given dimension.
func (b *BoundingBox) Range(dim int) float64 { return b.maxValues[dim] - b.minValues[dim] }

// RangeSum returns the sum of the per-dimension ranges.
func (b *BoundingBox) RangeSum() float64 { return b.rangeSum }

// ProbabilityOfSeparation returns the probability that a uniformly random
// axis-aligned cut drawn from the box extended to include point would
// separate point from the box.
//
// The result is 0 exactly when point lies inside the box in every dimension
// (including the degenerate box equal to the point), and grows monotonically
// as point moves further outside the box along any one dimension.
func (b *BoundingBox) ProbabilityOfSeparation(point []float64) float64 {
	var overflow float64
	for i, v := range point {
		if d := b.minValues[i] - v; d > 0 {
			overflow += d
		}
		if d := v - b.maxValues[i]; d > 0 {
			overflow += d
		}
	}
	if overflow == 0 {
		return 0
	}
	return overflow / (b.rangeSum + overflow)
}

// Contains reports whether point lies inside the box in every dimension.
func (b *BoundingBox) Contains(point []float64) bool {
	for i, v := range point {
		if v < b.minValues[i] || v > b.maxValues[i] {
			return false
		}
	}
	return true
}

// Equals reports value equality of the two boxes.
func (b *BoundingBox) Equals(other *BoundingBox) bool {
	if other == nil {
		return false
	}
	return floats.Equal(b.minValues, other.minValues) && floats.Equal(b.maxValues, other.maxValues)
}

// String renders the box as per-dimension [min, max] intervals.
func (b *BoundingBox) String() string {
	s := "BoundingBox{"
	for i := range b.minValues {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("[%g, %g]", b.minValues[i], b.maxValues[i])
	}
	return s + "}"
}
