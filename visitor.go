package randomcut

import "fmt"

// NodeView is the read-only window a traversal gives a visitor onto the
// current node. Views are only valid for the duration of the hook call that
// receives them.
type NodeView interface {
	// Mass returns the number of sample points in the subtree rooted at
	// this node, counting duplicates.
	Mass() int

	// IsLeaf reports whether the node is a leaf.
	IsLeaf() bool

	// CutDimension returns the dimension tested by an internal node's cut.
	// Calling it on a leaf is a programming error.
	CutDimension() int

	// CutValue returns the threshold of an internal node's cut.
	CutValue() float64

	// ProbabilityOfSeparation returns the probability that a random cut
	// over the node's bounding box extended by point would separate point
	// from the box.
	ProbabilityOfSeparation(point []float64) float64

	// LeafPoint returns the leaf's point in the tree's working coordinate
	// space. Calling it on an internal node is a programming error. The
	// returned slice is owned by the point store.
	LeafPoint() []float64

	// LiftedLeafPoint returns the leaf's point in the original (lifted)
	// coordinate space.
	LiftedLeafPoint() []float64
}

// Visitor is a single-path traversal strategy. The traversal descends by the
// tree's cuts to one leaf, calls AcceptLeaf there, then calls AcceptNode on
// each ancestor on the way back up, so a visitor sees the deepest evidence
// first. Depth is 0 at the root.
//
// Visitors accumulate their answer internally; concrete strategies expose it
// through a typed Result method.
type Visitor interface {
	// AcceptNode is called for each internal node on the traversal path,
	// deepest first.
	AcceptNode(node NodeView, depth int)

	// AcceptLeaf is called once, for the leaf the traversal reaches.
	AcceptLeaf(leaf NodeView, depth int)
}

// MultiVisitor is a traversal strategy that can fork. When Trigger reports
// true at an internal node the traversal explores both children: the
// left-routed subtree with the visitor itself, the other with an independent
// copy, and then merges the two results with Combine. IsConverged lets the
// traversal skip the second branch once the first cannot be improved on.
type MultiVisitor interface {
	Visitor

	// Trigger reports whether the traversal should fork at this node.
	Trigger(node NodeView) bool

	// NewCopy returns a visitor with independently copied mutable state,
	// used to explore the second branch of a fork.
	NewCopy() MultiVisitor

	// Combine merges other into the receiver, keeping whichever branch
	// ranks strictly lower. On equal ranks the receiver (the
	// first-explored branch) wins. Combining visitors of different
	// concrete types is a programming error.
	Combine(other MultiVisitor)

	// IsConverged reports that no further branch can improve the result.
	IsConverged() bool
}

// nodeView adapts a tree handle to the NodeView interface.
type nodeView struct {
	tree   *RandomCutTree
	handle int
}

func (n nodeView) IsLeaf() bool { return n.tree.isLeafHandle(n.handle) }

func (n nodeView) Mass() int { return n.tree.massOf(n.handle) }

func (n nodeView) CutDimension() int {
	if n.IsLeaf() {
		panic(fmt.Sprintf("randomcut: CutDimension on leaf handle %d", n.handle))
	}
	return n.tree.nodes.cutDimension[n.handle]
}

func (n nodeView) CutValue() float64 {
	if n.IsLeaf() {
		panic(fmt.Sprintf("randomcut: CutValue on leaf handle %d", n.handle))
	}
	return n.tree.nodes.cutValue[n.handle]
}

func (n nodeView) ProbabilityOfSeparation(point []float64) float64 {
	return n.tree.boxOf(n.handle).ProbabilityOfSeparation(point)
}

func (n nodeView) LeafPoint() []float64 {
	if !n.IsLeaf() {
		panic(fmt.Sprintf("randomcut: LeafPoint on internal handle %d", n.handle))
	}
	return n.tree.store.Get(n.tree.leaves.pointIndex[n.tree.leafOffset(n.handle)])
}

func (n nodeView) LiftedLeafPoint() []float64 {
	if !n.IsLeaf() {
		panic(fmt.Sprintf("randomcut: LiftedLeafPoint on internal handle %d", n.handle))
	}
	return n.tree.store.GetLifted(n.tree.leaves.pointIndex[n.tree.leafOffset(n.handle)])
}
