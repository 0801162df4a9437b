package randomcut

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// ScoreFunc maps the depth at which evidence was found and the mass of the
// node carrying it to a score contribution. The forest configuration
// supplies these; the defaults below reproduce the standard random cut
// forest scoring.
type ScoreFunc func(depth, mass int) float64

// DampFunc discounts the score of a previously seen point by how large a
// share of the tree the matching leaf already holds.
type DampFunc func(leafMass, treeMass int) float64

// DefaultScoreSeen scores a query that matched a stored point: duplicates
// of a heavy leaf found near the root are unremarkable.
func DefaultScoreSeen(depth, mass int) float64 {
	return 1.0 / (float64(depth) + math.Log2(float64(mass)+1))
}

// DefaultScoreUnseen scores a query separated from the tree at the given
// depth: shallow separation means easy isolation, hence a high score.
func DefaultScoreUnseen(depth, mass int) float64 {
	return 1.0 / float64(depth+1)
}

// DefaultDamp is the default mass-share discount for seen points.
func DefaultDamp(leafMass, treeMass int) float64 {
	return 1.0 - float64(leafMass)/(2.0*float64(treeMass))
}

// AnomalyScoreVisitor accumulates the anomaly score of a query point along a
// single traversal path. At the leaf it scores an exact match with the
// damped seen function and anything else with the unseen function; at each
// ancestor it blends in the probability that a random cut at that node would
// have separated the query:
//
//	score = p*scoreUnseen(depth, mass) + (1-p)*score
//
// Once the query falls inside a node's bounding box (separation probability
// zero) no shallower node can change the score and the visitor stops
// accumulating.
type AnomalyScoreVisitor struct {
	point          []float64
	treeMass       int
	score          float64
	pointInsideBox bool

	scoreSeen   ScoreFunc
	scoreUnseen ScoreFunc
	damp        DampFunc
}

// NewAnomalyScoreVisitor creates a scoring visitor for point with the
// default score functions. treeMass is the mass of the tree being scored.
func NewAnomalyScoreVisitor(point []float64, treeMass int) *AnomalyScoreVisitor {
	return &AnomalyScoreVisitor{
		point:       point,
		treeMass:    treeMass,
		scoreSeen:   DefaultScoreSeen,
		scoreUnseen: DefaultScoreUnseen,
		damp:        DefaultDamp,
	}
}

// NewAnomalyScoreVisitorWithFunctions creates a scoring visitor with
// caller-supplied score functions; nil entries fall back to the defaults.
func NewAnomalyScoreVisitorWithFunctions(point []float64, treeMass int, seen, unseen ScoreFunc, damp DampFunc) *AnomalyScoreVisitor {
	v := NewAnomalyScoreVisitor(point, treeMass)
	if seen != nil {
		v.scoreSeen = seen
	}
	if unseen != nil {
		v.scoreUnseen = unseen
	}
	if damp != nil {
		v.damp = damp
	}
	return v
}

// AcceptLeaf seeds the score from the leaf the traversal reached.
func (v *AnomalyScoreVisitor) AcceptLeaf(leaf NodeView, depth int) {
	if floats.Equal(leaf.LeafPoint(), v.point) {
		v.pointInsideBox = true
		if depth == 0 {
			// Single-point tree: the query is the whole sample.
			v.score = 0
			return
		}
		v.score = v.damp(leaf.Mass(), v.treeMass) * v.scoreSeen(depth, leaf.Mass())
		return
	}
	v.score = v.scoreUnseen(depth, leaf.Mass())
}

// AcceptNode folds the separation probability at an ancestor into the score.
func (v *AnomalyScoreVisitor) AcceptNode(node NodeView, depth int) {
	if v.pointInsideBox {
		return
	}
	p := node.ProbabilityOfSeparation(v.point)
	if p == 0 {
		v.pointInsideBox = true
		return
	}
	v.score = p*v.scoreUnseen(depth, node.Mass()) + (1-p)*v.score
}

// Result returns the accumulated anomaly score.
func (v *AnomalyScoreVisitor) Result() float64 { return v.score }
