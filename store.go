package randomcut

import "fmt"

// nullHandle marks an absent node reference (empty tree root, unset child).
const nullHandle = -1

// indexManager hands out arena slot offsets from a fixed pool and recycles
// freed slots. Offsets released by a delete are the first ones reused by a
// subsequent insert, so arena occupancy never exceeds the pool capacity.
type indexManager struct {
	capacity    int
	occupied    []bool
	freeIndexes []int
}

func newIndexManager(capacity int) *indexManager {
	m := &indexManager{
		capacity:    capacity,
		occupied:    make([]bool, capacity),
		freeIndexes: make([]int, capacity),
	}
	// Stack ordered so that fresh takes come out 0, 1, 2, ...
	for i := 0; i < capacity; i++ {
		m.freeIndexes[i] = capacity - 1 - i
	}
	return m
}

// takeIndex pops a free slot offset. ok is false when the pool is exhausted.
func (m *indexManager) takeIndex() (offset int, ok bool) {
	if len(m.freeIndexes) == 0 {
		return nullHandle, false
	}
	offset = m.freeIndexes[len(m.freeIndexes)-1]
	m.freeIndexes = m.freeIndexes[:len(m.freeIndexes)-1]
	m.occupied[offset] = true
	return offset, true
}

// releaseIndex returns a slot offset to the pool.
func (m *indexManager) releaseIndex(offset int) {
	if offset < 0 || offset >= m.capacity || !m.occupied[offset] {
		panic(fmt.Sprintf("randomcut: release of invalid or free arena slot %d", offset))
	}
	m.occupied[offset] = false
	m.freeIndexes = append(m.freeIndexes, offset)
}

// size returns the number of slots currently in use.
func (m *indexManager) size() int { return m.capacity - len(m.freeIndexes) }

// leafStore is the leaf arena in struct-of-arrays form: one slot per stored
// leaf, holding the point-store index it represents and its mass (the number
// of sampled copies of that point, >= 1).
type leafStore struct {
	pointIndex []int
	mass       []int
	manager    *indexManager
}

func newLeafStore(capacity int) *leafStore {
	return &leafStore{
		pointIndex: make([]int, capacity),
		mass:       make([]int, capacity),
		manager:    newIndexManager(capacity),
	}
}

// add allocates a leaf slot for pointIndex with mass 1.
func (s *leafStore) add(pointIndex int) (offset int, ok bool) {
	offset, ok = s.manager.takeIndex()
	if !ok {
		return nullHandle, false
	}
	s.pointIndex[offset] = pointIndex
	s.mass[offset] = 1
	return offset, true
}

func (s *leafStore) free(offset int) { s.manager.releaseIndex(offset) }

func (s *leafStore) size() int { return s.manager.size() }

// nodeStore is the internal-node arena in struct-of-arrays form. Each slot
// holds the cut, the two child handles, and the subtree mass. Child handles
// are tree handles, not slot offsets: either another internal offset or a
// leaf handle at or above maxSize.
type nodeStore struct {
	cutDimension []int
	cutValue     []float64
	leftIndex    []int
	rightIndex   []int
	mass         []int
	manager      *indexManager
}

func newNodeStore(capacity int) *nodeStore {
	return &nodeStore{
		cutDimension: make([]int, capacity),
		cutValue:     make([]float64, capacity),
		leftIndex:    make([]int, capacity),
		rightIndex:   make([]int, capacity),
		mass:         make([]int, capacity),
		manager:      newIndexManager(capacity),
	}
}

// add allocates an internal-node slot.
func (s *nodeStore) add(cutDimension int, cutValue float64, left, right, mass int) (offset int, ok bool) {
	offset, ok = s.manager.takeIndex()
	if !ok {
		return nullHandle, false
	}
	s.cutDimension[offset] = cutDimension
	s.cutValue[offset] = cutValue
	s.leftIndex[offset] = left
	s.rightIndex[offset] = right
	s.mass[offset] = mass
	return offset, true
}

func (s *nodeStore) free(offset int) { s.manager.releaseIndex(offset) }

func (s *nodeStore) size() int { return s.manager.size() }

// sibling returns the child handle of the node other than child.
func (s *nodeStore) sibling(offset, child int) int {
	switch child {
	case s.leftIndex[offset]:
		return s.rightIndex[offset]
	case s.rightIndex[offset]:
		return s.leftIndex[offset]
	default:
		panic(fmt.Sprintf("randomcut: handle %d is not a child of internal node %d", child, offset))
	}
}
