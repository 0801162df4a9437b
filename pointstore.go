package randomcut

import "gonum.org/v1/gonum/floats"

// PointStore is the tree's view of sample storage. The tree never owns point
// coordinates; leaves hold integer indexes into a store, and the (external)
// sampling policy decides which indexes exist at any moment.
//
// Get must be safe for concurrent read access: many trees traverse one store
// at once.
type PointStore interface {
	// Get returns the coordinate vector for a stored index, in the tree's
	// working coordinate space. The returned slice is owned by the store
	// and must not be modified.
	Get(index int) []float64

	// GetLifted returns the point in the original (lifted) coordinate
	// space. For unshingled stores this is the same vector Get returns.
	GetLifted(index int) []float64

	// Equals reports whether the stored point at index has exactly the
	// coordinates of point. Equality is value-based.
	Equals(index int, point []float64) bool

	// Dimensions returns the dimensionality of stored points in the
	// tree's working space.
	Dimensions() int
}

// ArrayPointStore is an in-memory PointStore backed by a slice of points.
// It is the reference implementation used in tests and examples; a
// production forest supplies its own deduplicating store.
//
// An optional lift function maps a working-space point to its lifted-space
// representation (for shingled inputs). Lifted views are computed once at
// Add time and cached.
type ArrayPointStore struct {
	dims   int
	points [][]float64
	lifted [][]float64
	lift   func(point []float64) []float64
}

// NewArrayPointStore returns an empty store for points of the given
// dimensionality, with the lifted space identical to the working space.
func NewArrayPointStore(dims int) *ArrayPointStore {
	return &ArrayPointStore{dims: dims}
}

// NewLiftedArrayPointStore returns an empty store whose lifted-space views
// are produced by lift. lift must be pure.
func NewLiftedArrayPointStore(dims int, lift func(point []float64) []float64) *ArrayPointStore {
	return &ArrayPointStore{dims: dims, lift: lift}
}

// Add copies point into the store and returns its index.
func (s *ArrayPointStore) Add(point []float64) (int, error) {
	if len(point) != s.dims {
		return 0, invalidArgumentf("point has %d dimensions, store holds %d-dimensional points", len(point), s.dims)
	}
	stored := make([]float64, s.dims)
	copy(stored, point)
	s.points = append(s.points, stored)
	if s.lift != nil {
		s.lifted = append(s.lifted, s.lift(stored))
	}
	return len(s.points) - 1, nil
}

// Get returns the stored point at index. The slice is owned by the store.
func (s *ArrayPointStore) Get(index int) []float64 { return s.points[index] }

// GetLifted returns the lifted-space view of the stored point at index.
func (s *ArrayPointStore) GetLifted(index int) []float64 {
	if s.lift == nil {
		return s.points[index]
	}
	return s.lifted[index]
}

// Equals reports whether the stored point at index equals point value-wise.
func (s *ArrayPointStore) Equals(index int, point []float64) bool {
	return floats.Equal(s.points[index], point)
}

// Dimensions returns the dimensionality of stored points.
func (s *ArrayPointStore) Dimensions() int { return s.dims }

// Size returns the number of stored points.
func (s *ArrayPointStore) Size() int { return len(s.points) }
