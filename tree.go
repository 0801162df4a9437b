package randomcut

import (
	"math"
	"math/rand"
)

// Config controls random cut tree construction.
// Start with [DefaultConfig] and override the fields you need.
type Config struct {
	// MaxSize is the fixed capacity of the tree: the maximum mass
	// (sample points, counting duplicates) the tree may hold. It must
	// match the window size of the sampling policy driving the tree.
	// Must be >= 1. Default: 256.
	MaxSize int

	// Dimensions is the dimensionality of points in the tree's working
	// coordinate space. 0 means adopt the point store's dimensionality.
	Dimensions int

	// Seed initializes the tree's random source. Two trees with the same
	// seed and the same operation sequence build identical structures.
	// Default: 42.
	Seed int64

	// DisableBoxCache turns off the per-node bounding box cache. Boxes
	// are then recomputed from the leaves on demand, trading traversal
	// and mutation time for memory. Default: false (cache enabled).
	DisableBoxCache bool
}

// DefaultConfig returns a Config with reasonable defaults. Dimensions is
// left at 0 so it is adopted from the point store.
func DefaultConfig() Config {
	return Config{
		MaxSize: 256,
		Seed:    42,
	}
}

// cut is a random axis-aligned split: the dimension tested and the threshold.
type cut struct {
	dimension int
	value     float64
}

// RandomCutTree is a compact random cut tree over a fixed-capacity window of
// sampled points. Leaves reference points by index into an external
// PointStore; internal nodes record a random cut, child handles, subtree
// mass, and a cached bounding box.
//
// Nodes live in two fixed arenas addressed by integer handles: internal
// nodes occupy [0, maxSize-1), leaves occupy [maxSize, 2*maxSize). Handles
// freed by Delete are reused by later Inserts, so the arenas never grow.
//
// A tree is not internally synchronized. Insert and Delete must be
// externally serialized and must not overlap traversals; traversals alone
// are read-only and may run concurrently.
type RandomCutTree struct {
	maxSize int
	dims    int
	seed    int64

	store  PointStore
	leaves *leafStore
	nodes  *nodeStore

	// cachedBoxes[h] is the bounding box of internal node h, or nil when
	// the cache is disabled. Entries are kept exact across mutations:
	// grown in place on insert, recomputed from child boxes on delete.
	cachedBoxes []*BoundingBox
	cacheBoxes  bool

	root int
	rng  *rand.Rand
}

// NewRandomCutTree constructs an empty tree with the given configuration,
// reading points from store.
func NewRandomCutTree(cfg Config, store PointStore) (*RandomCutTree, error) {
	if store == nil {
		return nil, invalidArgumentf("point store must not be nil")
	}
	if cfg.MaxSize == 0 {
		cfg.MaxSize = DefaultConfig().MaxSize
	}
	if cfg.Seed == 0 {
		cfg.Seed = DefaultConfig().Seed
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = store.Dimensions()
	}
	if cfg.MaxSize < 1 {
		return nil, invalidArgumentf("MaxSize must be >= 1, got %d", cfg.MaxSize)
	}
	if cfg.Dimensions < 1 {
		return nil, invalidArgumentf("Dimensions must be >= 1, got %d", cfg.Dimensions)
	}
	if store.Dimensions() != cfg.Dimensions {
		return nil, invalidArgumentf("Dimensions is %d but the point store holds %d-dimensional points",
			cfg.Dimensions, store.Dimensions())
	}

	t := &RandomCutTree{
		maxSize:    cfg.MaxSize,
		dims:       cfg.Dimensions,
		seed:       cfg.Seed,
		store:      store,
		cacheBoxes: !cfg.DisableBoxCache,
		root:       nullHandle,
		rng:        rand.New(rand.NewSource(cfg.Seed)),
	}
	t.initStorage()
	return t, nil
}

func (t *RandomCutTree) initStorage() {
	t.leaves = newLeafStore(t.maxSize)
	t.nodes = newNodeStore(t.maxSize - 1)
	if t.cacheBoxes {
		t.cachedBoxes = make([]*BoundingBox, t.maxSize-1)
	} else {
		t.cachedBoxes = nil
	}
}

// Reset empties the tree: arenas are reinitialized, the root is cleared, and
// the random source is reseeded so a rebuilt tree is reproducible.
func (t *RandomCutTree) Reset() {
	t.initStorage()
	t.root = nullHandle
	t.rng = rand.New(rand.NewSource(t.seed))
}

// Mass returns the number of sample points in the tree, counting duplicates.
func (t *RandomCutTree) Mass() int {
	if t.root == nullHandle {
		return 0
	}
	return t.massOf(t.root)
}

// Dimensions returns the dimensionality of points in the tree.
func (t *RandomCutTree) Dimensions() int { return t.dims }

// MaxSize returns the fixed capacity of the tree.
func (t *RandomCutTree) MaxSize() int { return t.maxSize }

// --- handle helpers ---

// leftOf is the split predicate shared by insert, delete, and traversal:
// points with point[dimension] <= value route to the left child. Points
// exactly on the cut boundary always go left.
func leftOf(point []float64, dimension int, value float64) bool {
	return point[dimension] <= value
}

func (t *RandomCutTree) isLeafHandle(h int) bool { return h >= t.maxSize }

func (t *RandomCutTree) leafOffset(h int) int { return h - t.maxSize }

func (t *RandomCutTree) leafHandle(offset int) int { return offset + t.maxSize }

// massOf returns the subtree mass under any handle.
func (t *RandomCutTree) massOf(h int) int {
	if t.isLeafHandle(h) {
		return t.leaves.mass[t.leafOffset(h)]
	}
	return t.nodes.mass[h]
}

// boxOf returns the bounding box of the subtree under h. For internal nodes
// the cached box is served when available; otherwise the box is rebuilt from
// the leaves (and recorded in the cache when caching is enabled).
func (t *RandomCutTree) boxOf(h int) *BoundingBox {
	if t.isLeafHandle(h) {
		return NewBoundingBox(t.store.Get(t.leaves.pointIndex[t.leafOffset(h)]))
	}
	if t.cacheBoxes && t.cachedBoxes[h] != nil {
		return t.cachedBoxes[h]
	}
	box := t.boxOf(t.nodes.leftIndex[h]).GetMergedBox(t.boxOf(t.nodes.rightIndex[h]))
	if t.cacheBoxes {
		t.cachedBoxes[h] = box
	}
	return box
}

// --- insert ---

// Insert adds the point at pointIndex in the point store to the tree. If an
// equal point (by the store's value equality) is already present, the
// existing leaf's mass is incremented instead of adding a leaf. Inserting
// beyond the tree's MaxSize is an error: capacity must match the sampling
// window driving the tree.
func (t *RandomCutTree) Insert(pointIndex int) error {
	if pointIndex < 0 {
		return invalidArgumentf("point index must be >= 0, got %d", pointIndex)
	}
	point := t.store.Get(pointIndex)
	if len(point) != t.dims {
		return invalidArgumentf("point %d has %d dimensions, tree holds %d-dimensional points",
			pointIndex, len(point), t.dims)
	}
	if t.Mass() >= t.maxSize {
		return invalidArgumentf("tree is full: capacity %d reached", t.maxSize)
	}

	if t.root == nullHandle {
		offset, ok := t.leaves.add(pointIndex)
		if !ok {
			panic("randomcut: leaf arena exhausted below capacity")
		}
		t.root = t.leafHandle(offset)
		return nil
	}

	t.root = t.insertPoint(t.root, point, pointIndex)
	return nil
}

// insertPoint descends from h looking for the level at which a random cut
// separates point from the subtree's bounding box, and returns the handle of
// the (possibly new) subtree root. Masses and cached boxes along the path
// are updated on the way.
func (t *RandomCutTree) insertPoint(h int, point []float64, pointIndex int) int {
	if t.isLeafHandle(h) {
		offset := t.leafOffset(h)
		if t.store.Equals(t.leaves.pointIndex[offset], point) {
			t.leaves.mass[offset]++
			return h
		}
		leafPoint := t.store.Get(t.leaves.pointIndex[offset])
		mergedBox := MergedBoxFromPoints(point, leafPoint)
		// A cut on the merged box of two distinct points always
		// separates them: nonzero range exists only where they differ.
		return t.attachLeaf(h, point, pointIndex, t.randomCut(mergedBox), mergedBox)
	}

	box := t.boxOf(h)
	mergedBox := box.GetMergedBox(NewBoundingBox(point))
	c := t.randomCut(mergedBox)
	if c.value < box.MinValue(c.dimension) || c.value >= box.MaxValue(c.dimension) {
		return t.attachLeaf(h, point, pointIndex, c, mergedBox)
	}

	if leftOf(point, t.nodes.cutDimension[h], t.nodes.cutValue[h]) {
		t.nodes.leftIndex[h] = t.insertPoint(t.nodes.leftIndex[h], point, pointIndex)
	} else {
		t.nodes.rightIndex[h] = t.insertPoint(t.nodes.rightIndex[h], point, pointIndex)
	}
	t.nodes.mass[h]++
	if t.cacheBoxes && t.cachedBoxes[h] != nil {
		t.cachedBoxes[h].AddPoint(point)
	}
	return h
}

// attachLeaf allocates a leaf for point and a new internal node with the cut
// c, with the existing subtree h as the sibling, and returns the new
// internal node's handle. mergedBox is the merge of h's box and point, which
// is exactly the new node's bounding box.
func (t *RandomCutTree) attachLeaf(h int, point []float64, pointIndex int, c cut, mergedBox *BoundingBox) int {
	leafOffset, ok := t.leaves.add(pointIndex)
	if !ok {
		panic("randomcut: leaf arena exhausted below capacity")
	}
	leaf := t.leafHandle(leafOffset)

	left, right := leaf, h
	if !leftOf(point, c.dimension, c.value) {
		left, right = h, leaf
	}
	nodeOffset, ok := t.nodes.add(c.dimension, c.value, left, right, t.massOf(h)+1)
	if !ok {
		panic("randomcut: node arena exhausted below capacity")
	}
	if t.cacheBoxes {
		t.cachedBoxes[nodeOffset] = mergedBox
	}
	return nodeOffset
}

// randomCut draws a random cut from box: a dimension chosen with probability
// proportional to its range, and a threshold uniform within that range.
func (t *RandomCutTree) randomCut(box *BoundingBox) cut {
	breakPoint := t.rng.Float64() * box.RangeSum()
	lastDimension := -1
	for i := 0; i < box.Dimensions(); i++ {
		r := box.Range(i)
		if r <= 0 {
			continue
		}
		lastDimension = i
		if breakPoint <= r {
			value := box.MinValue(i) + breakPoint
			// Keep the cut strictly below the dimension max so the
			// non-strict leftOf predicate leaves both sides non-empty.
			if value == box.MaxValue(i) {
				value = math.Nextafter(value, box.MinValue(i))
			}
			return cut{dimension: i, value: value}
		}
		breakPoint -= r
	}
	// Floating-point drift can push breakPoint just past the final range.
	if lastDimension >= 0 {
		value := math.Nextafter(box.MaxValue(lastDimension), box.MinValue(lastDimension))
		return cut{dimension: lastDimension, value: value}
	}
	panic("randomcut: random cut requested on a zero-range bounding box")
}

// --- delete ---

// Delete removes one copy of the point at pointIndex from the tree. A leaf
// with mass greater than 1 is decremented; a leaf with mass 1 is removed and
// its sibling spliced into its place, returning both arena slots for reuse.
// Deleting a point not present in the tree is an error.
func (t *RandomCutTree) Delete(pointIndex int) error {
	if pointIndex < 0 {
		return invalidArgumentf("point index must be >= 0, got %d", pointIndex)
	}
	if t.root == nullHandle {
		return invalidArgumentf("delete from an empty tree")
	}
	point := t.store.Get(pointIndex)
	if len(point) != t.dims {
		return invalidArgumentf("point %d has %d dimensions, tree holds %d-dimensional points",
			pointIndex, len(point), t.dims)
	}

	newRoot, _, err := t.deletePoint(t.root, point)
	if err != nil {
		return err
	}
	t.root = newRoot
	return nil
}

// deletePoint descends from h by the tree's cuts to the leaf that must hold
// point, and unwinds updating masses and cached boxes. The returned handle
// replaces h in the parent; nullHandle means h itself was a removed leaf.
// removed reports whether tree structure changed (as opposed to a mass
// decrement).
func (t *RandomCutTree) deletePoint(h int, point []float64) (newH int, removed bool, err error) {
	if t.isLeafHandle(h) {
		offset := t.leafOffset(h)
		if !t.store.Equals(t.leaves.pointIndex[offset], point) {
			return h, false, invalidArgumentf("delete of absent point: traversal reached a different leaf")
		}
		if t.leaves.mass[offset] > 1 {
			t.leaves.mass[offset]--
			return h, false, nil
		}
		t.leaves.free(offset)
		return nullHandle, true, nil
	}

	routedLeft := leftOf(point, t.nodes.cutDimension[h], t.nodes.cutValue[h])
	routed := t.nodes.rightIndex[h]
	if routedLeft {
		routed = t.nodes.leftIndex[h]
	}

	child, removed, err := t.deletePoint(routed, point)
	if err != nil {
		return h, false, err
	}
	if child == nullHandle {
		return t.spliceOut(h, t.nodes.sibling(h, routed)), true, nil
	}
	if routedLeft {
		t.nodes.leftIndex[h] = child
	} else {
		t.nodes.rightIndex[h] = child
	}

	t.nodes.mass[h]--
	if removed && t.cacheBoxes && t.cachedBoxes[h] != nil {
		t.cachedBoxes[h] = t.boxOf(t.nodes.leftIndex[h]).GetMergedBox(t.boxOf(t.nodes.rightIndex[h]))
	}
	return h, removed, nil
}

// spliceOut frees internal node h and promotes sibling into its place.
func (t *RandomCutTree) spliceOut(h, sibling int) int {
	t.nodes.free(h)
	if t.cacheBoxes {
		t.cachedBoxes[h] = nil
	}
	return sibling
}

// --- traversal ---

// Traverse runs a single-path visitor over the tree: descend from the root
// by the cuts to one leaf, call AcceptLeaf there, then AcceptNode on each
// ancestor back up to the root. Depth is 0 at the root.
func (t *RandomCutTree) Traverse(point []float64, visitor Visitor) error {
	if err := t.checkTraversal(point, visitor == nil); err != nil {
		return err
	}
	t.traverse(t.root, point, visitor, 0)
	return nil
}

func (t *RandomCutTree) traverse(h int, point []float64, visitor Visitor, depth int) {
	if t.isLeafHandle(h) {
		visitor.AcceptLeaf(nodeView{tree: t, handle: h}, depth)
		return
	}
	if leftOf(point, t.nodes.cutDimension[h], t.nodes.cutValue[h]) {
		t.traverse(t.nodes.leftIndex[h], point, visitor, depth+1)
	} else {
		t.traverse(t.nodes.rightIndex[h], point, visitor, depth+1)
	}
	visitor.AcceptNode(nodeView{tree: t, handle: h}, depth)
}

// TraverseMulti runs a forking visitor over the tree. At each internal node
// on the path the visitor is asked whether to fork; if so both children are
// explored (the second with an independent copy, and only if the first did
// not converge) and the results merged with Combine before AcceptNode runs
// for the node. Missing coordinates never route, so callers may leave any
// placeholder value at the query point's missing positions.
func (t *RandomCutTree) TraverseMulti(point []float64, visitor MultiVisitor) error {
	if err := t.checkTraversal(point, visitor == nil); err != nil {
		return err
	}
	t.traverseMulti(t.root, point, visitor, 0)
	return nil
}

func (t *RandomCutTree) traverseMulti(h int, point []float64, visitor MultiVisitor, depth int) {
	if t.isLeafHandle(h) {
		visitor.AcceptLeaf(nodeView{tree: t, handle: h}, depth)
		return
	}
	view := nodeView{tree: t, handle: h}
	if visitor.Trigger(view) {
		t.traverseMulti(t.nodes.leftIndex[h], point, visitor, depth+1)
		if !visitor.IsConverged() {
			branch := visitor.NewCopy()
			t.traverseMulti(t.nodes.rightIndex[h], point, branch, depth+1)
			visitor.Combine(branch)
		}
	} else if leftOf(point, t.nodes.cutDimension[h], t.nodes.cutValue[h]) {
		t.traverseMulti(t.nodes.leftIndex[h], point, visitor, depth+1)
	} else {
		t.traverseMulti(t.nodes.rightIndex[h], point, visitor, depth+1)
	}
	visitor.AcceptNode(view, depth)
}

func (t *RandomCutTree) checkTraversal(point []float64, nilVisitor bool) error {
	if nilVisitor {
		return invalidArgumentf("visitor must not be nil")
	}
	if point == nil {
		return invalidArgumentf("query point must not be nil")
	}
	if len(point) != t.dims {
		return invalidArgumentf("query point has %d dimensions, tree holds %d-dimensional points",
			len(point), t.dims)
	}
	if t.root == nullHandle {
		return invalidArgumentf("traversal of an empty tree")
	}
	return nil
}

// --- convenience entry points ---

// AnomalyScore scores a query point against the tree with the default score
// functions. Higher scores mean the point is easier to isolate.
func (t *RandomCutTree) AnomalyScore(point []float64) (float64, error) {
	visitor := NewAnomalyScoreVisitor(point, t.Mass())
	if err := t.Traverse(point, visitor); err != nil {
		return 0, err
	}
	return visitor.Result(), nil
}

// Impute fills in the coordinates of point listed in missingIndexes using a
// multi-path imputation traversal, returning the completed point in the
// lifted coordinate space. Values at the missing positions of point are
// ignored.
func (t *RandomCutTree) Impute(point []float64, missingIndexes []int) ([]float64, error) {
	visitor, err := NewImputeVisitor(point, missingIndexes)
	if err != nil {
		return nil, err
	}
	if err := t.TraverseMulti(point, visitor); err != nil {
		return nil, err
	}
	return visitor.Result(), nil
}
