package randomcut

import "sync"

// ScoreBatchParallel scores every query point in points against the tree
// using multiple goroutines. Traversals are read-only, so workers share the
// tree; no Insert or Delete may run concurrently with this call.
// numWorkers controls the degree of parallelism; if <= 1 the points are
// scored sequentially.
//
// The result is identical to calling AnomalyScore on each point in order.
func ScoreBatchParallel(tree *RandomCutTree, points [][]float64, numWorkers int) ([]float64, error) {
	if tree == nil {
		return nil, invalidArgumentf("tree must not be nil")
	}
	if tree.Mass() == 0 {
		return nil, invalidArgumentf("scoring against an empty tree")
	}
	for i, p := range points {
		if len(p) != tree.Dimensions() {
			return nil, invalidArgumentf("query point %d has %d dimensions, tree holds %d-dimensional points",
				i, len(p), tree.Dimensions())
		}
	}

	scores := make([]float64, len(points))

	if numWorkers <= 1 || len(points) <= 1 {
		for i, p := range points {
			visitor := NewAnomalyScoreVisitor(p, tree.Mass())
			tree.traverse(tree.root, p, visitor, 0)
			scores[i] = visitor.Result()
		}
		return scores, nil
	}

	// Split points across workers in contiguous ranges. Ranges don't
	// overlap, so writes to scores need no synchronization.
	var wg sync.WaitGroup
	treeMass := tree.Mass()
	pointsPerWorker := (len(points) + numWorkers - 1) / numWorkers

	for w := 0; w < numWorkers; w++ {
		start := w * pointsPerWorker
		end := start + pointsPerWorker
		if end > len(points) {
			end = len(points)
		}
		if start >= len(points) {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				visitor := NewAnomalyScoreVisitor(points[i], treeMass)
				tree.traverse(tree.root, points[i], visitor, 0)
				scores[i] = visitor.Result()
			}
		}(start, end)
	}

	wg.Wait()
	return scores, nil
}
