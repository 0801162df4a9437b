package randomcut

import (
	"fmt"
	"math"
)

// defaultRankInit is the rank of a branch before any node has contributed:
// large enough to lose every comparison, small enough (a quarter of the
// largest finite float64) that the blending arithmetic cannot overflow.
const defaultRankInit = math.MaxFloat64 / 4

// ImputeVisitor is a MultiVisitor that fills in missing coordinates of a
// query point. Each traversal path imputes the missing entries from the leaf
// it reaches and ranks the completed point by its anomaly score; whenever a
// node cuts on a missing dimension the traversal forks, and Combine keeps
// the branch with the lower rank. The final result is the imputed point in
// the original (lifted) coordinate space.
//
// The visitor carries the query in both coordinate spaces: the tree's
// working space, consulted by the separation probabilities and the fork
// trigger, and the lifted space, where the imputed result and the
// known-coordinate distance live.
type ImputeVisitor struct {
	missing       []bool
	liftedMissing []bool
	queryPoint    []float64
	liftedPoint   []float64

	rank       float64
	distance   float64
	centrality float64
	converged  bool

	scoreSeen   ScoreFunc
	scoreUnseen ScoreFunc
}

// NewImputeVisitor creates an imputation visitor for a query point whose
// coordinates at missingIndexes are unknown. The lifted space is taken to be
// the working space. Values at the missing positions of queryPoint are
// ignored. A missing index outside [0, len(queryPoint)) is an error.
func NewImputeVisitor(queryPoint []float64, missingIndexes []int) (*ImputeVisitor, error) {
	return NewLiftedImputeVisitor(queryPoint, queryPoint, missingIndexes, missingIndexes, 1.0)
}

// NewLiftedImputeVisitor creates an imputation visitor for a query point
// given in both coordinate spaces: queryPoint in the tree's working space
// with missingIndexes unknown, and liftedPoint in the original space with
// liftedMissingIndexes unknown. centrality is carried as configuration for
// the score functions the forest may install; the core algorithm does not
// consume it.
func NewLiftedImputeVisitor(liftedPoint, queryPoint []float64, liftedMissingIndexes, missingIndexes []int, centrality float64) (*ImputeVisitor, error) {
	v := &ImputeVisitor{
		missing:       make([]bool, len(queryPoint)),
		liftedMissing: make([]bool, len(liftedPoint)),
		queryPoint:    make([]float64, len(queryPoint)),
		liftedPoint:   make([]float64, len(liftedPoint)),
		rank:          defaultRankInit,
		distance:      defaultRankInit,
		centrality:    centrality,
		scoreSeen:     DefaultScoreSeen,
		scoreUnseen:   DefaultScoreUnseen,
	}
	copy(v.queryPoint, queryPoint)
	copy(v.liftedPoint, liftedPoint)

	for _, i := range missingIndexes {
		if i < 0 || i >= len(queryPoint) {
			return nil, invalidArgumentf("missing index %d out of range [0, %d)", i, len(queryPoint))
		}
		v.missing[i] = true
	}
	for _, i := range liftedMissingIndexes {
		if i < 0 || i >= len(liftedPoint) {
			return nil, invalidArgumentf("lifted missing index %d out of range [0, %d)", i, len(liftedPoint))
		}
		v.liftedMissing[i] = true
	}
	return v, nil
}

// AcceptLeaf imputes the missing coordinates from the leaf point, in both
// coordinate spaces, and ranks the completed point. A zero distance on the
// known lifted coordinates is an exact match: the branch converges with the
// seen score (or rank 0 when the leaf is the whole tree). Otherwise the
// branch ranks by the unseen score at the leaf.
func (v *ImputeVisitor) AcceptLeaf(leaf NodeView, depth int) {
	leafPoint := leaf.LeafPoint()
	for i := range v.queryPoint {
		if v.missing[i] {
			v.queryPoint[i] = leafPoint[i]
		}
	}
	liftedLeafPoint := leaf.LiftedLeafPoint()
	var squaredDistance float64
	for i := range v.liftedPoint {
		if v.liftedMissing[i] {
			v.liftedPoint[i] = liftedLeafPoint[i]
		} else {
			d := liftedLeafPoint[i] - v.liftedPoint[i]
			squaredDistance += d * d
		}
	}
	v.distance = math.Sqrt(squaredDistance)
	if v.distance <= 0 {
		v.converged = true
		if depth == 0 {
			v.rank = 0
		} else {
			v.rank = v.scoreSeen(depth, leaf.Mass())
		}
	} else {
		v.rank = v.scoreUnseen(depth, leaf.Mass())
	}
}

// AcceptNode blends the separation probability of the partially imputed
// query against the node's box into the rank, exactly as the anomaly score
// accumulates. A non-separating node leaves the branch untouched.
func (v *ImputeVisitor) AcceptNode(node NodeView, depth int) {
	p := node.ProbabilityOfSeparation(v.queryPoint)
	if p <= 0 {
		return
	}
	v.converged = false
	v.rank = p*v.scoreUnseen(depth, node.Mass()) + (1-p)*v.rank
}

// Trigger forks the traversal whenever the node cuts on a dimension whose
// value in the query is unknown: the true value could fall on either side.
func (v *ImputeVisitor) Trigger(node NodeView) bool {
	return v.missing[node.CutDimension()]
}

// NewCopy returns a visitor for exploring the second branch of a fork: the
// query state is deep-copied, the rank and distance start fresh.
func (v *ImputeVisitor) NewCopy() MultiVisitor {
	c := &ImputeVisitor{
		missing:       append([]bool(nil), v.missing...),
		liftedMissing: append([]bool(nil), v.liftedMissing...),
		queryPoint:    append([]float64(nil), v.queryPoint...),
		liftedPoint:   append([]float64(nil), v.liftedPoint...),
		rank:          defaultRankInit,
		distance:      defaultRankInit,
		centrality:    v.centrality,
		scoreSeen:     v.scoreSeen,
		scoreUnseen:   v.scoreUnseen,
	}
	return c
}

// Combine resolves a fork: if other ranks strictly lower, its imputed
// coordinates, rank, distance, and convergence replace the receiver's.
// Equal ranks keep the receiver, the first-explored branch.
func (v *ImputeVisitor) Combine(other MultiVisitor) {
	o, ok := other.(*ImputeVisitor)
	if !ok {
		panic(fmt.Sprintf("randomcut: Combine of *ImputeVisitor with %T", other))
	}
	if o.rank < v.rank {
		copy(v.queryPoint, o.queryPoint)
		copy(v.liftedPoint, o.liftedPoint)
		v.rank = o.rank
		v.distance = o.distance
		v.converged = o.converged
	}
}

// IsConverged reports that the branch found an exact match on every known
// coordinate; branches with separation probability zero below the match
// cannot rank lower, so remaining forks are skipped.
func (v *ImputeVisitor) IsConverged() bool { return v.converged }

// Result returns the imputed point in the lifted coordinate space.
func (v *ImputeVisitor) Result() []float64 {
	return append([]float64(nil), v.liftedPoint...)
}

// Rank returns the anomaly rank of the imputed point, the value the
// winning branch was selected by.
func (v *ImputeVisitor) Rank() float64 { return v.rank }

// Distance returns the Euclidean distance between the query and the winning
// leaf over the known lifted coordinates.
func (v *ImputeVisitor) Distance() float64 { return v.distance }
